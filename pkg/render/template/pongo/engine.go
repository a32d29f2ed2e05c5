package pongo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/render/template"
)

// ErrNoTemplates is returned by New when neither a directory nor an fs.FS is
// configured.
var ErrNoTemplates = errors.New("pongo: a template directory or fs.FS is required")

// Option configures an Engine.
type Option func(*config)

type config struct {
	dir        string
	files      fs.FS
	ext        string
	autoescape *bool
	trimBlocks bool
}

// WithBaseDir loads templates from dir on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. When both a directory and an fs.FS are
// set the directory is consulted first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension sets the file extension appended to generator names
// (default ".tpl").
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.ext = ext
	}
}

// WithAutoescape toggles HTML escaping of printed values. pongo2 keeps the
// flag process wide, so the last engine built decides.
func WithAutoescape(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoescape = &enabled
	}
}

// WithTrimBlocks drops the newline after a block tag and the indentation
// before it, so {% for %} lines leave no blank lines in generated code.
func WithTrimBlocks(enabled bool) Option {
	return func(cfg *config) {
		cfg.trimBlocks = enabled
	}
}

// Engine renders pongo2 templates by name. Compiled templates are cached by
// the template set.
type Engine struct {
	set   *pongo2.TemplateSet
	ext   string
	dir   string
	files fs.FS
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.TemplateLookup   = (*Engine)(nil)
)

// New builds an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := config{ext: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.dir == "" && cfg.files == nil {
		return nil, ErrNoTemplates
	}

	var loaders []pongo2.TemplateLoader
	if cfg.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("pongo: template dir %s: %w", cfg.dir, err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}

	set := pongo2.NewSet("ymlgen", loaders...)
	set.Options.TrimBlocks = cfg.trimBlocks
	set.Options.LStripBlocks = cfg.trimBlocks

	registerFilters()
	if cfg.autoescape != nil {
		pongo2.SetAutoescape(*cfg.autoescape)
	}

	return &Engine{set: set, ext: cfg.ext, dir: cfg.dir, files: cfg.files}, nil
}

// HasTemplate reports whether the template for name exists.
func (e *Engine) HasTemplate(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	file := e.fileName(name)
	if e.dir != "" {
		info, err := os.Stat(filepath.Join(e.dir, filepath.FromSlash(file)))
		if err == nil && !info.IsDir() {
			return true
		}
	}
	if e.files != nil {
		clean := path.Clean(file)
		if !fs.ValidPath(clean) {
			return false
		}
		info, err := fs.Stat(e.files, clean)
		return err == nil && !info.IsDir()
	}
	return false
}

// RenderTemplate renders the template for name. Ordered mappings in vars are
// converted to plain maps; functions are passed through so templates can
// call them.
func (e *Engine) RenderTemplate(name string, vars map[string]any) (string, error) {
	file := e.fileName(name)
	tpl, err := e.set.FromCache(file)
	if err != nil {
		return "", fmt.Errorf("pongo: load %s: %w", file, err)
	}

	ctx := make(pongo2.Context, len(vars))
	for key, value := range vars {
		ctx[key] = data.Plain(value)
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", file, err)
	}
	return out, nil
}

func (e *Engine) fileName(name string) string {
	if strings.HasSuffix(name, e.ext) {
		return name
	}
	return name + e.ext
}
