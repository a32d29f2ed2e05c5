package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/directive"
	"github.com/goliatone/go-ymlgen/pkg/orchestrator"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/testsupport"
)

func process(t *testing.T, content string, generators map[string]any, options ...orchestrator.Option) (orchestrator.Outcome, *testsupport.RecordingWriter) {
	t.Helper()

	w := testsupport.NewRecordingWriter()
	options = append([]orchestrator.Option{
		orchestrator.WithResolver(testsupport.Generators(t, generators)),
		orchestrator.WithWriter(w),
	}, options...)

	outcome := orchestrator.New(options...).Process(testsupport.Context(), orchestrator.Request{
		DataFile: "data/test.yml",
		FileName: "test",
		Content:  content,
	})
	return outcome, w
}

// dataJSON renders the merged data as JSON.
var dataJSON = render.Func(func(c *render.Context) error {
	raw, err := json.Marshal(c.Data())
	if err != nil {
		return err
	}
	return c.Write(string(raw))
})

func TestProcess_EachWithExtra(t *testing.T) {
	entry := render.Callable(func(c *render.Context) error {
		return c.Interleave([]string{"", ":", ":", ""},
			func(c *render.Context) (any, error) { return c.Key(), nil },
			func(c *render.Context) (any, error) { return c.Data(), nil },
			func(c *render.Context) (any, error) { return c.Extra("extraData"), nil },
		)
	})
	test := render.Each([]any{1}, entry, render.EachOptions{Extra: map[string]any{"extraData": "extra"}})

	outcome, w := process(t, `
# ymlgen:generator test
# ymlgen:output *.js
prop: 1
`, map[string]any{"test": test})

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	if diff := cmp.Diff(map[string]string{"test.js": "0:1:extra"}, w.Files()); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"test.js"}, outcome.Outputs); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_IndependentInlineGenerators(t *testing.T) {
	outcome, w := process(t, `
# ymlgen:generator { name: gen1, output: '*.js' }
# ymlgen:generator { name: gen2, output: '*.ts' }
prop: 1
`, map[string]any{"gen1": "gen1", "gen2": "gen2"})

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	want := map[string]string{"test.js": "gen1", "test.ts": "gen2"}
	if diff := cmp.Diff(want, w.Files()); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_MultiOutputPrivateKeys(t *testing.T) {
	outcome, w := process(t, `
# ymlgen:generator json
# ymlgen:output **.js
a:
  name: a
  shared: mine
__shared:
  shared: theirs
  common: true
`, map[string]any{"json": dataJSON})

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	want := map[string]string{
		"a.js": `{"__shared":{"shared":"theirs","common":true},"name":"a","shared":"mine"}`,
	}
	if diff := cmp.Diff(want, w.Files()); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_MultiOutputOverridesAndOrder(t *testing.T) {
	record := func(name string) render.Func {
		return func(c *render.Context) error {
			return c.Template(render.Lit(name+":"), c.Data())
		}
	}

	outcome, w := process(t, `
# ymlgen:generator base
# ymlgen:output out/**.txt
# ymlgen:select value
first:
  value: 1
second:special:
  value: 2
`, map[string]any{"base": record("base"), "special": record("special")})

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	want := map[string]string{
		"out/first.txt":  "base:1",
		"out/second.txt": "special:2",
	}
	if diff := cmp.Diff(want, w.Files()); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_MultiOutputResolvesPerKey(t *testing.T) {
	outcome, w := process(t, `
# ymlgen:generator missing
# ymlgen:output **.txt
only:special: 1
`, map[string]any{"special": "special"})

	if outcome.Failed() {
		t.Fatalf("an overridden key must not need the spec generator: %v", outcome.Err)
	}
	if diff := cmp.Diff(map[string]string{"only.txt": "special"}, w.Files()); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_SelectAndRawData(t *testing.T) {
	gen := render.Func(func(c *render.Context) error {
		return c.Template(render.Lit("test.js:"), c.Data(), render.Lit("|raw="), c.RawData())
	})

	outcome, w := process(t, `
# ymlgen:generator test
# ymlgen:output *.js
# ymlgen:select prop1.prop2
prop1:
  prop2: 1
`, map[string]any{"test": gen})

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	if got := w.Files()["test.js"]; got != "test.js:1|raw=1" {
		t.Fatalf("content = %q", got)
	}
}

func TestProcess_MergeData(t *testing.T) {
	reader := orchestrator.MergeReaderFunc(func(_ context.Context, dir, ref string) (any, error) {
		if dir != "data" {
			return nil, fmt.Errorf("unexpected dir %q", dir)
		}
		switch ref {
		case "base.json":
			return data.MapOf("name", "base", "nested", data.MapOf("a", 1, "b", 1)), nil
		case "over.yml":
			return data.MapOf("nested", data.MapOf("b", 2)), nil
		}
		return nil, fmt.Errorf("unknown ref %q", ref)
	})

	var raw atomic.Value
	gen := render.Func(func(c *render.Context) error {
		raw.Store(c.RawData())
		return dataJSON(c)
	})

	outcome, w := process(t, `
# ymlgen:merge base.json
# ymlgen:import over.yml
# ymlgen:generator test
# ymlgen:output *.json
nested:
  c: 3
`, map[string]any{"test": gen}, orchestrator.WithMergeReader(reader))

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	want := `{"name":"base","nested":{"a":1,"b":2,"c":3}}`
	if got := w.Files()["test.json"]; got != want {
		t.Fatalf("merged data mismatch\nwant: %s\n got: %s", want, got)
	}
	if diff := cmp.Diff(data.MapOf("nested", data.MapOf("c", 3)), raw.Load(), testsupport.OrderedEntries); diff != "" {
		t.Fatalf("raw data mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_HooksAndSkipIfExist(t *testing.T) {
	outcome, w := process(t, `
# ymlgen:generator { name: test, output: '*.js', skipIfExist: true }
# ymlgen:success echo ok
# ymlgen:fail echo failed
# ymlgen:done echo done
prop: 1
`, map[string]any{"test": "x"})

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	wantHooks := directive.Hooks{OnSuccess: "echo ok", OnFail: "echo failed", OnDone: "echo done"}
	if diff := cmp.Diff(wantHooks, outcome.Hooks); diff != "" {
		t.Fatalf("hooks mismatch (-want +got):\n%s", diff)
	}
	file, ok := w.Get("test.js")
	if !ok || !file.SkipIfExist || file.Dir != "data" {
		t.Fatalf("unexpected write %+v", file)
	}
}

func TestProcess_ConfigurationErrors(t *testing.T) {
	cases := map[string]struct {
		content string
		want    error
	}{
		"no generators":   {content: "prop: 1\n", want: directive.ErrNoGenerators},
		"missing output":  {content: "# ymlgen:generator test\nprop: 1\n", want: directive.ErrMissingOutput},
		"unknown":         {content: "# ymlgen:generator test\n# ymlgen:output *.js\n# ymlgen:bogus 1\n", want: directive.ErrUnrecognizedDirective},
		"invalid pattern": {content: "# ymlgen:generator test\n# ymlgen:output out.js\n", want: directive.ErrInvalidOutput},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			gen := render.Func(func(*render.Context) error {
				calls.Add(1)
				return nil
			})
			outcome, w := process(t, tc.content, map[string]any{"test": gen})
			if !errors.Is(outcome.Err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, outcome.Err)
			}
			if calls.Load() != 0 || len(w.Files()) != 0 {
				t.Fatalf("configuration errors must stop before rendering")
			}
		})
	}
}

func TestProcess_UnknownDirectiveAccepted(t *testing.T) {
	var seen []string
	outcome, _ := process(t, `
# ymlgen:generator test
# ymlgen:output *.js
# ymlgen:owner platform
prop: 1
`, map[string]any{"test": "x"}, orchestrator.WithUnknownDirective(func(name, value string) bool {
		seen = append(seen, name+"="+value)
		return name == "owner"
	}))

	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	if diff := cmp.Diff([]string{"owner=platform"}, seen); diff != "" {
		t.Fatalf("unknown directive mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_FailingSiblingDoesNotStopOthers(t *testing.T) {
	failing := render.Func(func(*render.Context) error {
		return testsupport.ErrBoom
	})

	outcome, w := process(t, `
# ymlgen:generator { name: bad, output: '*.bad' }
# ymlgen:generator { name: good, output: '*.good' }
# ymlgen:generator { name: missing, output: '*.missing' }
prop: 1
# ymlgen:fail echo failed
`, map[string]any{"bad": failing, "good": "good"})

	if !outcome.Failed() {
		t.Fatalf("expected failure")
	}
	if !errors.Is(outcome.Err, testsupport.ErrBoom) && !errors.Is(outcome.Err, render.ErrGeneratorNotFound) {
		t.Fatalf("unexpected error %v", outcome.Err)
	}
	if diff := cmp.Diff(map[string]string{"test.good": "good"}, w.Files()); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}
	if outcome.OnFail != "echo failed" {
		t.Fatalf("hooks must be returned on failure, got %+v", outcome.Hooks)
	}
}

func TestProcess_DataErrors(t *testing.T) {
	gen := render.Func(func(c *render.Context) error {
		return c.Write(render.Each(c.Data(), render.Text("x"), render.EachOptions{}))
	})
	outcome, _ := process(t, `
# ymlgen:generator test
# ymlgen:output *.js
# ymlgen:select prop
prop: 1
`, map[string]any{"test": gen})

	if !errors.Is(outcome.Err, render.ErrNotCollection) {
		t.Fatalf("expected ErrNotCollection, got %v", outcome.Err)
	}
}

func TestProcess_WriterErrorsPropagate(t *testing.T) {
	w := testsupport.NewRecordingWriter()
	w.Err = testsupport.ErrBoom
	outcome := orchestrator.New(
		orchestrator.WithResolver(testsupport.Generators(t, map[string]any{"test": "x"})),
		orchestrator.WithWriter(w),
	).Process(testsupport.Context(), orchestrator.Request{
		DataFile: "test.yml",
		FileName: "test",
		Content:  "# ymlgen:generator test\n# ymlgen:output *.js\nprop: 1\n",
	})
	if !errors.Is(outcome.Err, testsupport.ErrBoom) {
		t.Fatalf("expected writer error, got %v", outcome.Err)
	}
	if len(outcome.Outputs) != 0 {
		t.Fatalf("failed writes must not be reported as outputs: %v", outcome.Outputs)
	}
}

func TestProcess_MultiOutputRequiresMapping(t *testing.T) {
	outcome, _ := process(t, `
# ymlgen:generator test
# ymlgen:output **.js
- a
- b
`, map[string]any{"test": "x"})
	if !errors.Is(outcome.Err, orchestrator.ErrMultiOutputRequiresMap) {
		t.Fatalf("expected ErrMultiOutputRequiresMap, got %v", outcome.Err)
	}
}

func TestProcess_EmptyDocumentSkipsSpecs(t *testing.T) {
	outcome, w := process(t, "# ymlgen:generator test\n# ymlgen:output *.js\n", map[string]any{"test": "x"})
	if outcome.Failed() || len(w.Files()) != 0 {
		t.Fatalf("expected no output and no error, got %v %v", outcome.Err, w.Files())
	}
}

func TestProcess_RequiresResolver(t *testing.T) {
	outcome := orchestrator.New().Process(context.Background(), orchestrator.Request{Content: "# ymlgen:generator x\n"})
	if !errors.Is(outcome.Err, orchestrator.ErrNoResolver) {
		t.Fatalf("expected ErrNoResolver, got %v", outcome.Err)
	}
}

func TestProcess_RenderOptions(t *testing.T) {
	gen := render.Func(func(c *render.Context) error {
		return c.Template(render.Lit("["), "  padded  ", render.Lit("]"))
	})
	outcome, w := process(t, "# ymlgen:generator test\n# ymlgen:output *.js\nprop: 1\n",
		map[string]any{"test": gen},
		orchestrator.WithRenderOptions(render.WithAutoTrim(render.AutoTrimAll)))
	if outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
	if got := w.Files()["test.js"]; got != "[padded]" {
		t.Fatalf("content = %q", got)
	}
}

func TestProcess_CustomMarker(t *testing.T) {
	o := orchestrator.New(
		orchestrator.WithMarker("gen"),
		orchestrator.WithResolver(testsupport.Generators(t, map[string]any{"test": "x"})),
		orchestrator.WithWriter(testsupport.NewRecordingWriter()),
	)
	content := "  # gen:generator test\n# gen:output *.js\nprop: 1\n"
	if !o.IsDataFile(content) {
		t.Fatalf("expected data file")
	}
	if o.IsDataFile("# ymlgen:generator test") {
		t.Fatalf("default marker must not match")
	}
	if outcome := o.Process(context.Background(), orchestrator.Request{DataFile: "test.yml", FileName: "test", Content: content}); outcome.Failed() {
		t.Fatalf("process failed: %v", outcome.Err)
	}
}

func TestChainResolvers(t *testing.T) {
	first := testsupport.Generators(t, map[string]any{"a": "from-first"})
	second := testsupport.Generators(t, map[string]any{"a": "from-second", "b": "from-second"})
	broken := orchestrator.ResolverFunc(func(context.Context, string) (render.Generator, error) {
		return render.Generator{}, testsupport.ErrBoom
	})

	chain := orchestrator.ChainResolvers(first, nil, second)
	for name, want := range map[string]string{"a": "from-first", "b": "from-second"} {
		gen, err := chain.Resolve(context.Background(), name)
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		got, err := render.Render(context.Background(), render.Request{}, gen)
		if err != nil || got != want {
			t.Fatalf("resolve %s rendered %q (%v), want %q", name, got, err, want)
		}
	}
	if _, err := chain.Resolve(context.Background(), "c"); !errors.Is(err, render.ErrGeneratorNotFound) {
		t.Fatalf("expected ErrGeneratorNotFound, got %v", err)
	}
	if _, err := orchestrator.ChainResolvers(broken, second).Resolve(context.Background(), "b"); !errors.Is(err, testsupport.ErrBoom) {
		t.Fatalf("expected resolver error to stop the chain, got %v", err)
	}
	if _, err := orchestrator.ChainResolvers().Resolve(context.Background(), "x"); !errors.Is(err, render.ErrGeneratorNotFound) {
		t.Fatalf("expected ErrGeneratorNotFound from empty chain, got %v", err)
	}
}

func TestProcess_ContextCarriesDataFile(t *testing.T) {
	gen := render.Func(func(c *render.Context) error {
		return c.Write(strings.TrimSuffix(c.DataFile(), ".yml"))
	})
	_, w := process(t, "# ymlgen:generator test\n# ymlgen:output *.js\nprop: 1\n", map[string]any{"test": gen})
	if got := w.Files()["test.js"]; got != "data/test" {
		t.Fatalf("content = %q", got)
	}
}
