package render

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/goliatone/go-ymlgen/pkg/data"
)

// EachOptions customises Each.
type EachOptions struct {
	// Start renders once before the first entry, against the whole
	// collection.
	Start Generator
	// Sep renders before every entry except the first, against that entry.
	Sep Generator
	// Alt replaces the primary generator on odd positions.
	Alt Generator
	// End renders against the whole collection only when it has no entries.
	End Generator
	// Extra is visible to every context Each creates.
	Extra map[string]any
}

// Use returns a generator that renders gen against a child context whose
// data is replaced by value. A nil value unbinds the data; pass c.Data()
// explicitly to keep it.
func Use(value any, gen Generator) Generator {
	return Callable(func(c *Context) error {
		return c.Extend(value, nil).Write(gen)
	})
}

// Each returns a generator that renders gen once per entry of collection.
// Mappings are walked in document order (Go maps in sorted key order) and
// sequences by index. Anything else fails with ErrNotCollection when the
// generator runs.
func Each(collection any, gen Generator, opts EachOptions) Generator {
	return Callable(func(c *Context) error {
		entries, err := collectEntries(collection)
		if err != nil {
			return err
		}

		for i, entry := range entries {
			if i == 0 && !opts.Start.IsZero() {
				if err := c.Extend(collection, opts.Extra).Write(opts.Start); err != nil {
					return err
				}
			}
			if i > 0 && !opts.Sep.IsZero() {
				if err := c.extendEntry(entry.value, opts.Extra, entry.key).Write(opts.Sep); err != nil {
					return err
				}
			}

			current := gen
			if i%2 == 1 && !opts.Alt.IsZero() {
				current = opts.Alt
			}
			if err := c.extendEntry(entry.value, opts.Extra, entry.key).Write(current); err != nil {
				return err
			}
		}

		if len(entries) == 0 && !opts.End.IsZero() {
			return c.Extend(collection, opts.Extra).Write(opts.End)
		}
		return nil
	})
}

type entry struct {
	key   any
	value any
}

func collectEntries(collection any) ([]entry, error) {
	switch v := collection.(type) {
	case nil:
		return nil, fmt.Errorf("%w: got nil", ErrNotCollection)
	case *data.Map:
		if v == nil {
			return nil, fmt.Errorf("%w: got nil mapping", ErrNotCollection)
		}
		out := make([]entry, 0, v.Len())
		v.Range(func(key string, value any) bool {
			out = append(out, entry{key: key, value: value})
			return true
		})
		return out, nil
	case []any:
		out := make([]entry, len(v))
		for i, value := range v {
			out[i] = entry{key: i, value: value}
		}
		return out, nil
	}

	rv := reflect.ValueOf(collection)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]entry, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = entry{key: i, value: rv.Index(i).Interface()}
		}
		return out, nil
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		out := make([]entry, len(keys))
		for i, key := range keys {
			out[i] = entry{key: key.Interface(), value: rv.MapIndex(key).Interface()}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotCollection, collection)
	}
}
