package data

import (
	"reflect"
	"strconv"
	"strings"
)

// Select walks a dot separated path into value. Mapping keys are matched by
// name and sequence elements by numeric index. Any missing step yields nil; an
// empty path returns value unchanged.
func Select(value any, path string) any {
	if path == "" {
		return value
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		next, ok := step(current, segment)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func step(value any, segment string) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case *Map:
		return v.Get(segment)
	case map[string]any:
		next, ok := v[segment]
		return next, ok
	case []any:
		idx, ok := index(segment, len(v))
		if !ok {
			return nil, false
		}
		return v[idx], true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		next := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !next.IsValid() {
			return nil, false
		}
		return next.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, ok := index(segment, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}
	return nil, false
}

func index(segment string, length int) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}
