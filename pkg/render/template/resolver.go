package template

import (
	"context"
	"fmt"

	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/render"
)

// Resolver resolves generator names to template backed generators.
type Resolver struct {
	renderer TemplateRenderer
}

// NewResolver wraps renderer. When renderer also implements TemplateLookup,
// missing templates are reported as render.ErrGeneratorNotFound so resolver
// chains can fall through.
func NewResolver(renderer TemplateRenderer) *Resolver {
	return &Resolver{renderer: renderer}
}

// Resolve returns a generator that renders the template called name.
func (r *Resolver) Resolve(_ context.Context, name string) (render.Generator, error) {
	if r == nil || r.renderer == nil {
		return render.Generator{}, fmt.Errorf("template: no renderer for %q", name)
	}
	if lookup, ok := r.renderer.(TemplateLookup); ok && !lookup.HasTemplate(name) {
		return render.Generator{}, fmt.Errorf("%w: %q", render.ErrGeneratorNotFound, name)
	}
	return Generator(r.renderer, name), nil
}

// Generator renders the named template against the render context and
// writes the result.
func Generator(renderer TemplateRenderer, name string) render.Generator {
	return render.Callable(func(c *render.Context) error {
		out, err := renderer.RenderTemplate(name, View(c))
		if err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
		return c.Write(out)
	})
}

// View builds the variables available to a template:
//
//	data      merged data for the current render
//	rawData   selected data before merging
//	key       current each entry key, nil outside each
//	dataFile  path of the data file
//	extras    extras visible to the generator
//	entries   entries(path) lists {key, value} pairs of the mapping at path
//	          within data in document order; an empty path means data itself
func View(c *render.Context) map[string]any {
	current := c.Data()
	return map[string]any{
		"data":     current,
		"rawData":  c.RawData(),
		"key":      c.Key(),
		"dataFile": c.DataFile(),
		"extras":   c.Extras(),
		"entries": func(path string) []map[string]any {
			return Entries(data.Select(current, path))
		},
	}
}

// Entries lists a mapping as ordered key/value pairs. Sequences use their
// index as key. Anything else yields nil.
func Entries(value any) []map[string]any {
	switch v := value.(type) {
	case *data.Map:
		if v == nil {
			return nil
		}
		out := make([]map[string]any, 0, v.Len())
		for _, entry := range v.Entries() {
			out = append(out, map[string]any{"key": entry.Key, "value": data.Plain(entry.Value)})
		}
		return out
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			out = append(out, map[string]any{"key": i, "value": data.Plain(item)})
		}
		return out
	default:
		return nil
	}
}
