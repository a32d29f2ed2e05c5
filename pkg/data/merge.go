package data

// Merge deep merges sources left to right into a new value. Inputs are never
// modified. When two sources both hold a mapping under the same key the
// mappings are merged recursively; any other conflict is won by the later
// source. Nil sources are skipped.
func Merge(sources ...any) any {
	var result any
	for _, src := range sources {
		if src == nil {
			continue
		}
		result = mergeInto(result, src)
	}
	return result
}

// mergeInto merges src into dst. dst is always a value owned by the merge
// (never one of the inputs), so it may be modified in place.
func mergeInto(dst, src any) any {
	srcMap, srcIsMap := asMap(src)
	dstMap, dstIsMap := dst.(*Map)
	if !srcIsMap || !dstIsMap {
		return Clone(src)
	}

	srcMap.Range(func(key string, value any) bool {
		if existing, ok := dstMap.Get(key); ok {
			dstMap.Set(key, mergeInto(existing, value))
			return true
		}
		dstMap.Set(key, Clone(value))
		return true
	})
	return dstMap
}

func asMap(value any) (*Map, bool) {
	switch v := value.(type) {
	case *Map:
		return v, v != nil
	case map[string]any:
		return FromMap(v), true
	default:
		return nil, false
	}
}
