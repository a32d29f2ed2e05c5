package render

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Lit marks a literal fragment in a Template call. Literal fragments are
// appended verbatim and never auto trimmed.
type Lit string

// Value is a computed template value: it is evaluated against the context and
// its result is stringified and appended.
type Value func(c *Context) (any, error)

// Context is the evaluation state passed to generators. Contexts are never
// modified structurally; Extend derives new ones that share the Sink.
type Context struct {
	ctx      context.Context
	sink     *Sink
	dataFile string
	data     any
	rawData  any
	key      any
	hasKey   bool
	extras   map[string]any
	pending  *pendingExtras
}

// pendingExtras holds values registered with SetExtra. They are copied into
// children at Extend time only.
type pendingExtras struct {
	mu     sync.Mutex
	values map[string]any
}

func (p *pendingExtras) set(values map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.values == nil {
		p.values = make(map[string]any, len(values))
	}
	for k, v := range values {
		p.values[k] = v
	}
}

func (p *pendingExtras) snapshot() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return mergeExtras(p.values)
}

// Request carries the inputs of the root context of a render pass.
type Request struct {
	// DataFile is the path of the data file being processed.
	DataFile string
	// Data is the merged value generators see as Data().
	Data any
	// RawData is the selected value before merging.
	RawData any
	// Extra seeds the extras of the root context.
	Extra map[string]any
	// Options configures the Sink before the first write.
	Options []Option
}

// NewContext creates a root context writing into sink.
func NewContext(ctx context.Context, sink *Sink, req Request) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if sink == nil {
		sink = NewSink(req.Options...)
	}
	return &Context{
		ctx:      ctx,
		sink:     sink,
		dataFile: req.DataFile,
		data:     req.Data,
		rawData:  req.RawData,
		extras:   mergeExtras(req.Extra),
		pending:  &pendingExtras{},
	}
}

// Context returns the context.Context of the render pass.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Sink returns the buffer shared by this render pass.
func (c *Context) Sink() *Sink {
	return c.sink
}

// DataFile returns the path of the data file being rendered.
func (c *Context) DataFile() string {
	return c.dataFile
}

// Data returns the value this context renders.
func (c *Context) Data() any {
	return c.data
}

// RawData returns the selected value before merge data was applied.
func (c *Context) RawData() any {
	return c.rawData
}

// Key returns the entry key of contexts created by Each, nil otherwise.
func (c *Context) Key() any {
	return c.key
}

// HasKey reports whether the context was created for a collection entry.
func (c *Context) HasKey() bool {
	return c.hasKey
}

// Extra returns the named extra value visible to this context.
func (c *Context) Extra(name string) any {
	return c.extras[name]
}

// Extras returns a copy of the extras visible to this context.
func (c *Context) Extras() map[string]any {
	return mergeExtras(c.extras)
}

// Options returns the current render options.
func (c *Context) Options() Options {
	return c.sink.Options()
}

// Extend returns a child context sharing the Sink and options with data
// replaced. Extras of the child are this context's extras, then any values
// registered with SetExtra, then extra.
func (c *Context) Extend(data any, extra map[string]any) *Context {
	child := *c
	child.data = data
	child.extras = mergeExtras(c.extras, c.pending.snapshot(), extra)
	child.pending = &pendingExtras{}
	return &child
}

func (c *Context) extendEntry(value any, extra map[string]any, key any) *Context {
	child := c.Extend(value, extra)
	child.key = key
	child.hasKey = true
	return child
}

// SetExtra registers values for contexts created by later Extend calls on c.
// Extras of c itself and of children created earlier are left untouched.
func (c *Context) SetExtra(values map[string]any) {
	if len(values) == 0 {
		return
	}
	c.pending.set(values)
}

// Configure applies options to the record shared by the whole render pass.
func (c *Context) Configure(options ...Option) {
	c.sink.Configure(options...)
}

// Write appends values in order. Generators are run against c and write
// their own output; Value functions are evaluated and their result appended;
// everything else is stringified. Write with no values does nothing.
func (c *Context) Write(values ...any) error {
	for _, v := range values {
		switch fn := v.(type) {
		case Value:
			if err := c.appendValue(fn); err != nil {
				return err
			}
			continue
		case func(*Context) (any, error):
			if err := c.appendValue(fn); err != nil {
				return err
			}
			continue
		}
		if g, ok := AsGenerator(v); ok {
			if err := g.Generate(c); err != nil {
				return err
			}
			continue
		}
		c.sink.Append(Stringify(v))
	}
	return nil
}

func (c *Context) appendValue(fn func(*Context) (any, error)) error {
	result, err := fn(c)
	if err != nil {
		return err
	}
	c.sink.Append(Stringify(result))
	return nil
}

// Template appends literal fragments (Lit) and computed values in strict
// order. Each computed value is fully evaluated, including any nested
// generator output, before the next part is written. With AutoTrimAll the
// text of computed values is trimmed; literals never are.
func (c *Context) Template(parts ...any) error {
	for _, part := range parts {
		if lit, ok := part.(Lit); ok {
			c.sink.Append(string(lit))
			continue
		}
		text, err := c.evaluate(part)
		if err != nil {
			return err
		}
		if c.sink.Options().AutoTrim == AutoTrimAll {
			text = strings.TrimSpace(text)
		}
		c.sink.Append(text)
	}
	return nil
}

// Interleave writes fragments[0], values[0], fragments[1], ... in order, the
// shape of a tagged template literal. It follows the same rules as Template.
func (c *Context) Interleave(fragments []string, values ...any) error {
	parts := make([]any, 0, len(fragments)+len(values))
	for i, fragment := range fragments {
		parts = append(parts, Lit(fragment))
		if i < len(values) {
			parts = append(parts, values[i])
		}
	}
	return c.Template(parts...)
}

// evaluate returns the text of a computed template value. Callable generators
// write straight into the Sink and contribute no text of their own.
func (c *Context) evaluate(part any) (string, error) {
	switch v := part.(type) {
	case Value:
		result, err := v(c)
		return Stringify(result), err
	case func(*Context) (any, error):
		result, err := v(c)
		return Stringify(result), err
	case Generator:
		if v.IsText() {
			return v.text, nil
		}
		return "", v.Generate(c)
	case Func:
		return "", v(c)
	case func(*Context) error:
		return "", v(c)
	default:
		return Stringify(v), nil
	}
}

// Stringify converts a value to the text written into the Sink. nil becomes
// the empty string.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case Lit:
		return string(s)
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	case error:
		return s.Error()
	default:
		return fmt.Sprint(v)
	}
}

func mergeExtras(sources ...map[string]any) map[string]any {
	size := 0
	for _, src := range sources {
		size += len(src)
	}
	out := make(map[string]any, size)
	for _, src := range sources {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}
