package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-ymlgen/internal/ctxlog"
	"github.com/goliatone/go-ymlgen/internal/source/loader"
	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/directive"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/source"
	"github.com/goliatone/go-ymlgen/pkg/writer"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithResolver injects the generator resolver.
func WithResolver(resolver Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = resolver
	}
}

// WithWriter injects the artifact writer.
func WithWriter(w Writer) Option {
	return func(o *Orchestrator) {
		o.writer = w
	}
}

// WithMergeReader injects the reader used for merge directives.
func WithMergeReader(reader MergeReader) Option {
	return func(o *Orchestrator) {
		o.mergeReader = reader
	}
}

// WithUnknownDirective installs the hook consulted for unrecognised
// directives.
func WithUnknownDirective(fn UnknownDirectiveFunc) Option {
	return func(o *Orchestrator) {
		o.unknown = fn
	}
}

// WithMarker overrides the directive marker token.
func WithMarker(marker string) Option {
	return func(o *Orchestrator) {
		o.marker = marker
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithRenderOptions seeds the options record of every render pass.
func WithRenderOptions(options ...render.Option) Option {
	return func(o *Orchestrator) {
		o.renderOptions = append(o.renderOptions, options...)
	}
}

// Orchestrator processes data files. The zero configuration writes to the
// filesystem and reads merge sources from disk; a Resolver must be supplied.
type Orchestrator struct {
	resolver      Resolver
	writer        Writer
	mergeReader   MergeReader
	unknown       UnknownDirectiveFunc
	marker        string
	logger        *slog.Logger
	renderOptions []render.Option
	parser        *directive.Parser
}

// New constructs an Orchestrator applying any provided options. Missing
// collaborators other than the resolver are initialised with the built-in
// implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.writer == nil {
		o.writer = writer.New()
	}
	if o.mergeReader == nil {
		o.mergeReader = source.NewReader(loader.New(source.NewLoaderOptions()))
	}
	o.parser = directive.New(
		directive.WithMarker(o.marker),
		directive.WithMergeReader(o.mergeReader),
		directive.WithUnknown(o.unknown),
	)
}

// IsDataFile reports whether content carries the orchestrator's marker.
func (o *Orchestrator) IsDataFile(content string) bool {
	return o.parser.IsDataFile(content)
}

// Request describes one data file to process.
type Request struct {
	// DataFile is the path of the data file. Merge references resolve
	// against its directory.
	DataFile string
	// FileName replaces * in single output patterns, usually the data file
	// name without extension.
	FileName string
	// Content is the raw data file text, directives included.
	Content string
	// WorkDir is where outputs are written. Defaults to the data file's
	// directory.
	WorkDir string
}

// Outcome is the result of processing one data file. Hooks are empty when the
// directives could not be parsed.
type Outcome struct {
	directive.Hooks
	// Outputs lists the written artifact names in sorted order.
	Outputs []string
	// Err holds the first error raised while processing, if any.
	Err error
}

// Failed reports whether processing raised an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Process runs the full pipeline for one data file. Errors never escape as
// panics; they are reported through Outcome.Err. Generator specs run
// concurrently and a failing spec does not stop its siblings.
func (o *Orchestrator) Process(ctx context.Context, req Request) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	logger := o.logger.With("data_file", req.DataFile)
	ctx = ctxlog.WithLogger(ctx, logger)

	if o.resolver == nil {
		return Outcome{Err: ErrNoResolver}
	}

	dir := filepath.Dir(req.DataFile)
	set, err := o.parser.Parse(ctx, dir, req.Content)
	if err != nil {
		logger.Debug("directive parsing failed", "error", err)
		return Outcome{Err: fmt.Errorf("orchestrator: %s: %w", req.DataFile, err)}
	}

	outcome := Outcome{Hooks: set.Hooks}
	doc, err := data.Decode([]byte(set.Body))
	if err != nil {
		outcome.Err = fmt.Errorf("orchestrator: %s: %w", req.DataFile, err)
		return outcome
	}

	run := &run{
		orchestrator: o,
		req:          req,
		set:          set,
		doc:          doc,
		workDir:      req.WorkDir,
	}
	if run.workDir == "" {
		run.workDir = dir
	}

	var group errgroup.Group
	for _, spec := range set.Specs {
		group.Go(func() error {
			return run.spec(ctx, spec)
		})
	}
	outcome.Err = group.Wait()
	outcome.Outputs = run.outputs()

	logger.Debug("data file processed",
		"specs", len(set.Specs),
		"outputs", len(outcome.Outputs),
		"failed", outcome.Failed(),
		"duration", time.Since(started),
	)
	return outcome
}

// run holds the state of one Process call shared by its spec goroutines.
type run struct {
	orchestrator *Orchestrator
	req          Request
	set          directive.Set
	doc          any
	workDir      string

	mu      sync.Mutex
	written []string
}

func (r *run) resolve(ctx context.Context, name string) (render.Generator, error) {
	gen, err := r.orchestrator.resolver.Resolve(ctx, name)
	if err != nil {
		return render.Generator{}, fmt.Errorf("orchestrator: resolve generator %q: %w", name, err)
	}
	return gen, nil
}

func (r *run) render(ctx context.Context, name string, gen render.Generator, selected, merged any) (string, error) {
	text, err := render.Render(ctx, render.Request{
		DataFile: r.req.DataFile,
		Data:     merged,
		RawData:  selected,
		Options:  r.orchestrator.renderOptions,
	}, gen)
	if err != nil {
		return "", fmt.Errorf("orchestrator: generator %q: %w", name, err)
	}
	return text, nil
}

func (r *run) write(ctx context.Context, spec directive.Spec, name, content string) error {
	err := r.orchestrator.writer.WriteFile(ctx, name, []byte(content), WriteOptions{
		Dir:         r.workDir,
		SkipIfExist: spec.SkipIfExist,
	})
	if err != nil {
		return fmt.Errorf("orchestrator: write %s: %w", name, err)
	}

	r.mu.Lock()
	r.written = append(r.written, name)
	r.mu.Unlock()

	ctxlog.FromContext(ctx).Info("output generated", "generator", spec.Name, "output", name)
	return nil
}

func (r *run) outputs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.written...)
	sort.Strings(out)
	return out
}

func (r *run) mergeSources(extra ...any) []any {
	sources := make([]any, 0, len(r.set.MergeData)+len(extra))
	sources = append(sources, r.set.MergeData...)
	return append(sources, extra...)
}

func outputName(pattern, wildcard, value string) string {
	return strings.Replace(pattern, wildcard, value, 1)
}
