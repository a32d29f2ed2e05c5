package data

// Plain converts ordered maps anywhere in value into map[string]any, for
// consumers that only understand built-in Go types. Key order is lost.
func Plain(value any) any {
	switch v := value.(type) {
	case *Map:
		if v == nil {
			return nil
		}
		out := make(map[string]any, v.Len())
		v.Range(func(key string, item any) bool {
			out[key] = Plain(item)
			return true
		})
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Plain(item)
		}
		return out
	default:
		return value
	}
}
