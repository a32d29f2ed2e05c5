package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/writer"
)

// OrderedEntries lets cmp compare ordered maps by their entries, so key order
// differences show up in diffs.
var OrderedEntries = cmp.Transformer("entries", (*data.Map).Entries)

// Written is one artifact captured by a RecordingWriter.
type Written struct {
	Name        string
	Content     string
	Dir         string
	SkipIfExist bool
}

// RecordingWriter captures artifacts in memory. It is safe for concurrent use.
type RecordingWriter struct {
	mu    sync.Mutex
	files map[string]Written
	// Err, when set, is returned for every write.
	Err error
}

var _ writer.Writer = (*RecordingWriter)(nil)

// NewRecordingWriter returns an empty RecordingWriter.
func NewRecordingWriter() *RecordingWriter {
	return &RecordingWriter{files: make(map[string]Written)}
}

// WriteFile records the artifact.
func (w *RecordingWriter) WriteFile(_ context.Context, name string, content []byte, opts writer.WriteOptions) error {
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files == nil {
		w.files = make(map[string]Written)
	}
	w.files[name] = Written{Name: name, Content: string(content), Dir: opts.Dir, SkipIfExist: opts.SkipIfExist}
	return nil
}

// Files returns artifact contents keyed by name.
func (w *RecordingWriter) Files() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.files))
	for name, file := range w.files {
		out[name] = file.Content
	}
	return out
}

// Get returns the recorded write for name.
func (w *RecordingWriter) Get(name string) (Written, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	file, ok := w.files[name]
	return file, ok
}

// Names returns the recorded artifact names in sorted order.
func (w *RecordingWriter) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.files))
	for name := range w.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generators builds a registry from name/generator pairs. Values may be any
// type accepted by render.AsGenerator.
func Generators(t *testing.T, pairs map[string]any) *render.Registry {
	t.Helper()

	registry := render.NewRegistry()
	for name, value := range pairs {
		gen, ok := render.AsGenerator(value)
		if !ok {
			t.Fatalf("testsupport: generator %q has unsupported type %T", name, value)
		}
		if err := registry.Register(name, gen); err != nil {
			t.Fatalf("testsupport: register %q: %v", name, err)
		}
	}
	return registry
}

// MustDecode decodes a YAML or JSON document for use as expected data.
func MustDecode(t *testing.T, raw string) any {
	t.Helper()

	value, err := data.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("testsupport: decode: %v", err)
	}
	return value
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got, OrderedEntries)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return raw
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, raw []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteFiles creates files below dir from a name to content map and returns
// dir for chaining.
func WriteFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// ErrBoom is a sentinel error for failure path tests.
var ErrBoom = errors.New("testsupport: boom")
