package render

import (
	"context"
	"fmt"
)

// Render runs gen against a fresh root context and returns the text written
// into its Sink. A panicking generator is reported as an error.
func Render(ctx context.Context, req Request, gen Generator) (out string, err error) {
	sink := NewSink(req.Options...)
	root := NewContext(ctx, sink, req)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render: generator panic: %v", r)
		}
	}()

	if err := root.Write(gen); err != nil {
		return "", err
	}
	return sink.String(), nil
}
