// Package ymlgen generates source files from annotated YAML data files.
//
// A data file starts with directive comments naming the generators to run
// and where their output goes:
//
//	# ymlgen:generator component
//	# ymlgen:output **.tsx
//	button:
//	  label: Click
//
// Generators are Go functions registered in a render.Registry or pongo2
// templates found in the generators directory.
package ymlgen

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-ymlgen/pkg/directive"
	"github.com/goliatone/go-ymlgen/pkg/orchestrator"
)

// DefaultMarker is the directive marker used unless overridden.
const DefaultMarker = directive.DefaultMarker

// Outcome aliases orchestrator.Outcome for callers of the top-level API.
type Outcome = orchestrator.Outcome

// IsDataFile reports whether content is a data file for the default marker.
func IsDataFile(content string) bool {
	return directive.IsDataFile(content)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Process runs one data file through a new orchestrator. The output base name
// is the data file name without its extension.
func Process(ctx context.Context, dataFile, content string, options ...orchestrator.Option) Outcome {
	return orchestrator.New(options...).Process(ctx, orchestrator.Request{
		DataFile: dataFile,
		FileName: BaseName(dataFile),
		Content:  content,
	})
}

// BaseName strips directory and extension from a data file path.
func BaseName(dataFile string) string {
	base := filepath.Base(dataFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
