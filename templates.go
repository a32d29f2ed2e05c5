package ymlgen

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-ymlgen/pkg/orchestrator"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/render/template"
	"github.com/goliatone/go-ymlgen/pkg/render/template/pongo"
)

//go:embed generators/*.tpl
var embeddedGenerators embed.FS

// EmbeddedGenerators exposes the built-in template generators so callers can
// copy or extend them.
func EmbeddedGenerators() fs.FS {
	sub, err := fs.Sub(embeddedGenerators, "generators")
	if err != nil {
		return embeddedGenerators
	}
	return sub
}

// NewResolver builds the default resolver chain: generators registered in
// registry first, then <dir>/<name>.tpl templates, then the embedded
// templates. A missing dir is skipped. Autoescaping is off unless options
// turn it back on, since artifacts are source code rather than HTML.
func NewResolver(registry *render.Registry, dir string, options ...pongo.Option) (orchestrator.Resolver, error) {
	options = append([]pongo.Option{pongo.WithAutoescape(false)}, options...)

	var chain []orchestrator.Resolver
	if registry != nil {
		chain = append(chain, registry)
	}

	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			engine, err := pongo.New(append([]pongo.Option{pongo.WithBaseDir(dir)}, options...)...)
			if err != nil {
				return nil, fmt.Errorf("ymlgen: generators dir: %w", err)
			}
			chain = append(chain, template.NewResolver(engine))
		}
	}

	builtin, err := pongo.New(append([]pongo.Option{pongo.WithFS(EmbeddedGenerators())}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("ymlgen: embedded generators: %w", err)
	}
	chain = append(chain, template.NewResolver(builtin))

	return orchestrator.ChainResolvers(chain...), nil
}
