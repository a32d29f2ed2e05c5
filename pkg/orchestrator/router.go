package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-ymlgen/internal/ctxlog"
	"github.com/goliatone/go-ymlgen/pkg/data"
	"github.com/goliatone/go-ymlgen/pkg/directive"
)

// privateKeyPrefix marks top-level keys that feed every per-key render but
// never produce an artifact of their own.
const privateKeyPrefix = "__"

// spec routes one generator spec to single or per-key output.
func (r *run) spec(ctx context.Context, spec directive.Spec) error {
	if r.doc == nil {
		ctxlog.FromContext(ctx).Debug("empty document, nothing to render", "generator", spec.Name)
		return nil
	}
	if spec.MultiOutput() {
		return r.multiOutput(ctx, spec)
	}
	return r.singleOutput(ctx, spec)
}

func (r *run) singleOutput(ctx context.Context, spec directive.Spec) error {
	gen, err := r.resolve(ctx, spec.Name)
	if err != nil {
		return err
	}

	selected := data.Select(r.doc, spec.Select)
	merged := data.Merge(r.mergeSources(selected)...)

	text, err := r.render(ctx, spec.Name, gen, selected, merged)
	if err != nil {
		return err
	}
	return r.write(ctx, spec, outputName(spec.Output, "*", r.req.FileName), text)
}

func (r *run) multiOutput(ctx context.Context, spec directive.Spec) error {
	root, ok := r.doc.(*data.Map)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrMultiOutputRequiresMap, r.doc)
	}

	private := data.NewMap()
	for _, key := range root.Keys() {
		if strings.HasPrefix(key, privateKeyPrefix) {
			private.Set(key, root.Value(key))
		}
	}
	var privateData any
	if private.Len() > 0 {
		privateData = private
	}

	var group errgroup.Group
	for _, key := range root.Keys() {
		if strings.HasPrefix(key, privateKeyPrefix) {
			continue
		}
		value := root.Value(key)
		group.Go(func() error {
			outputKey, override, _ := strings.Cut(key, ":")

			name := spec.Name
			if override != "" {
				name = override
			}
			gen, err := r.resolve(ctx, name)
			if err != nil {
				return err
			}

			selected := data.Select(value, spec.Select)
			merged := data.Merge(r.mergeSources(privateData, selected)...)

			text, err := r.render(ctx, name, gen, selected, merged)
			if err != nil {
				return err
			}
			return r.write(ctx, spec, outputName(spec.Output, "**", outputKey), text)
		})
	}
	return group.Wait()
}
