package orchestrator

import (
	"context"
	"errors"

	"github.com/goliatone/go-ymlgen/pkg/directive"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/writer"
)

// Resolver maps a generator name to a Generator. Loading and caching are the
// resolver's concern.
type Resolver interface {
	Resolve(ctx context.Context, name string) (render.Generator, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, name string) (render.Generator, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, name string) (render.Generator, error) {
	return f(ctx, name)
}

// ChainResolvers returns a Resolver that asks each resolver in turn and
// moves on only when a resolver reports render.ErrGeneratorNotFound.
func ChainResolvers(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, name string) (render.Generator, error) {
		var lastErr error
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			gen, err := r.Resolve(ctx, name)
			if err == nil {
				return gen, nil
			}
			if !errors.Is(err, render.ErrGeneratorNotFound) {
				return render.Generator{}, err
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = render.ErrGeneratorNotFound
		}
		return render.Generator{}, lastErr
	})
}

// Writer persists generated artifacts.
type Writer = writer.Writer

// WriterFunc adapts a function to Writer.
type WriterFunc = writer.Func

// WriteOptions accompanies every write.
type WriteOptions = writer.WriteOptions

// MergeReader resolves merge directive references.
type MergeReader = directive.MergeReader

// MergeReaderFunc adapts a function to MergeReader.
type MergeReaderFunc = directive.MergeReaderFunc

// UnknownDirectiveFunc decides whether an unrecognised directive is accepted.
type UnknownDirectiveFunc = directive.UnknownFunc
