package template_test

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/render/template"
	"github.com/goliatone/go-ymlgen/pkg/render/template/pongo"
	"github.com/goliatone/go-ymlgen/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestPongoEngine_RenderTemplate(t *testing.T) {
	cases := []struct {
		name   string
		vars   map[string]any
		golden string
		opts   []pongo.Option
	}{
		{name: "hello", vars: map[string]any{"name": "Ada"}, golden: "hello.golden"},
		{name: "use-filter", vars: map[string]any{"name": `Ada "the" first`}, golden: "use-filter.golden"},
		{
			name: "markup",
			vars: map[string]any{
				"body":  "<b>bold</b><script>alert(1)</script>",
				"title": "title",
			},
			golden: "markup.golden",
		},
		{
			name:   "list",
			vars:   map[string]any{"items": []any{"alpha", "beta"}},
			golden: "list.golden",
			opts:   []pongo.Option{pongo.WithTrimBlocks(true)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newEngine(t, tc.opts...)
			got, err := engine.RenderTemplate(tc.name, tc.vars)
			if err != nil {
				t.Fatalf("render %s: %v", tc.name, err)
			}
			want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", tc.golden))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s mismatch (-want +got):\n%s", tc.name, diff)
			}
		})
	}
}

func TestPongoEngine_HasTemplate(t *testing.T) {
	engine := newEngine(t)
	if !engine.HasTemplate("hello") || !engine.HasTemplate("hello.tpl") {
		t.Fatalf("expected hello template to exist")
	}
	if engine.HasTemplate("missing") || engine.HasTemplate("../hello") || engine.HasTemplate(" ") {
		t.Fatalf("expected missing templates to be reported")
	}

	onDisk, err := pongo.New(pongo.WithBaseDir(filepath.Join("testdata", "templates")))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if !onDisk.HasTemplate("component") {
		t.Fatalf("expected component template on disk")
	}
}

func TestPongoEngine_Errors(t *testing.T) {
	if _, err := pongo.New(); !errors.Is(err, pongo.ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
	if _, err := newEngine(t).RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for a missing template")
	}
}

func TestResolver_RendersTemplateGenerator(t *testing.T) {
	resolver := template.NewResolver(newEngine(t))

	gen, err := resolver.Resolve(context.Background(), "component")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	doc := data.MapOf(
		"name", "Button",
		"props", data.MapOf(
			"zeta", data.MapOf("type", "string"),
			"alpha", data.MapOf("type", "number"),
		),
	)
	wrapped := render.Callable(func(c *render.Context) error {
		c.SetExtra(map[string]any{"banner": "generated"})
		return c.Write(render.Use(c.Data(), gen))
	})

	got, err := render.Render(context.Background(), render.Request{
		DataFile: "data/button.yml",
		Data:     doc,
		RawData:  doc,
	}, wrapped)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "component.golden"))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("component mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_MissingTemplate(t *testing.T) {
	resolver := template.NewResolver(newEngine(t))
	_, err := resolver.Resolve(context.Background(), "missing")
	if !errors.Is(err, render.ErrGeneratorNotFound) {
		t.Fatalf("expected ErrGeneratorNotFound, got %v", err)
	}
}

func TestEntries(t *testing.T) {
	got := template.Entries(data.MapOf("b", 1, "a", data.MapOf("x", true)))
	if len(got) != 2 || got[0]["key"] != "b" || got[1]["key"] != "a" {
		t.Fatalf("unexpected entries %#v", got)
	}
	if _, ok := got[1]["value"].(map[string]any); !ok {
		t.Fatalf("nested value not converted: %T", got[1]["value"])
	}
	if seq := template.Entries([]any{"x"}); len(seq) != 1 || seq[0]["key"] != 0 {
		t.Fatalf("unexpected sequence entries %#v", seq)
	}
	if template.Entries("scalar") != nil {
		t.Fatalf("expected nil for scalars")
	}
}

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	options = append([]pongo.Option{pongo.WithFS(templatesFS), pongo.WithAutoescape(false)}, options...)
	engine, err := pongo.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
