package render

import "fmt"

// Func is a generator implemented in Go. It produces output only by writing
// through the context it receives and must not keep the context after it
// returns.
type Func func(c *Context) error

type generatorKind uint8

const (
	kindNone generatorKind = iota
	kindText
	kindCallable
)

// Generator is either a literal text or a callable Func. Every place that
// accepts a generator (the primary generator, Each's start/sep/end/alt, Use)
// takes this type. The zero Generator writes nothing.
type Generator struct {
	kind generatorKind
	text string
	fn   Func
}

// Text returns a generator that writes s verbatim.
func Text(s string) Generator {
	return Generator{kind: kindText, text: s}
}

// Callable wraps fn as a Generator. A nil fn yields the zero Generator.
func Callable(fn Func) Generator {
	if fn == nil {
		return Generator{}
	}
	return Generator{kind: kindCallable, fn: fn}
}

// IsZero reports whether g is the empty generator.
func (g Generator) IsZero() bool {
	return g.kind == kindNone
}

// IsText reports whether g is a literal text generator.
func (g Generator) IsText() bool {
	return g.kind == kindText
}

// Generate runs the generator against c.
func (g Generator) Generate(c *Context) error {
	switch g.kind {
	case kindText:
		c.sink.Append(g.text)
		return nil
	case kindCallable:
		return g.fn(c)
	default:
		return nil
	}
}

// String describes the generator for logs.
func (g Generator) String() string {
	switch g.kind {
	case kindText:
		return fmt.Sprintf("text(%q)", g.text)
	case kindCallable:
		return "callable"
	default:
		return "none"
	}
}

// AsGenerator converts generator shaped values (Generator, Func, a plain
// func(*Context) error, or a string) into a Generator.
func AsGenerator(v any) (Generator, bool) {
	switch g := v.(type) {
	case Generator:
		return g, true
	case Func:
		return Callable(g), true
	case func(*Context) error:
		return Callable(g), true
	case string:
		return Text(g), true
	default:
		return Generator{}, false
	}
}
