package directive

import (
	"context"
	"errors"
)

// DefaultMarker is the marker token recognised in directive lines.
const DefaultMarker = "ymlgen"

var (
	// ErrUnrecognizedDirective reports a directive name that is neither built in
	// nor accepted by the UnknownFunc hook.
	ErrUnrecognizedDirective = errors.New("directive: unrecognized directive")
	// ErrMissingOutput reports a default generator declared without an output
	// pattern.
	ErrMissingOutput = errors.New("directive: no output directive found")
	// ErrNoGenerators reports a document that declares no generator.
	ErrNoGenerators = errors.New("directive: no generator directive found")
	// ErrInvalidGenerator reports an inline generator object that cannot be
	// decoded or misses required fields.
	ErrInvalidGenerator = errors.New("directive: invalid generator")
	// ErrInvalidOutput reports an output pattern without a wildcard.
	ErrInvalidOutput = errors.New("directive: output pattern must contain *")
)

// Spec declares one generator run: which generator renders which selection
// of the data into which output pattern.
type Spec struct {
	Name        string `yaml:"name"`
	Output      string `yaml:"output"`
	Select      string `yaml:"select"`
	SkipIfExist bool   `yaml:"skipIfExist"`
}

// MultiOutput reports whether the output pattern produces one file per
// top-level key.
func (s Spec) MultiOutput() bool {
	return containsDoubleStar(s.Output)
}

// Hooks are the lifecycle commands declared by the document. They are opaque
// to the engine and handed back to the caller.
type Hooks struct {
	OnSuccess string
	OnFail    string
	OnDone    string
}

// Set is the result of parsing a document's directives.
type Set struct {
	// Specs lists inline generators in declaration order followed by the
	// default generator, if any.
	Specs []Spec
	// MergeData holds the resolved values of merge directives in order.
	MergeData []any
	// Hooks holds the success/fail/done directive values.
	Hooks Hooks
	// Body is the document with directive lines blanked out.
	Body string
}

// MergeReader resolves a merge reference relative to dir into a data tree.
type MergeReader interface {
	ReadMergeSource(ctx context.Context, dir, ref string) (any, error)
}

// MergeReaderFunc adapts a function to MergeReader.
type MergeReaderFunc func(ctx context.Context, dir, ref string) (any, error)

// ReadMergeSource calls f.
func (f MergeReaderFunc) ReadMergeSource(ctx context.Context, dir, ref string) (any, error) {
	return f(ctx, dir, ref)
}

// UnknownFunc decides whether an unrecognised directive is acceptable. It may
// record the value for its own use.
type UnknownFunc func(name, value string) bool
