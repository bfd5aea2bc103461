// Package layering deep merges decoded configuration documents.
//
// Documents are the values produced by the YAML, TOML and JSON decoders:
// map[string]any, []any and scalars. Mappings merge key by key, sequences
// concatenate and the stronger layer wins any other conflict.
package layering

import "fmt"

// MergeLayers composes documents ordered from strongest to weakest and
// returns a new document. Inputs are never modified.
func MergeLayers(layers ...any) any {
	if len(layers) == 0 {
		return nil
	}
	merged := Clone(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = Merge(merged, layers[i])
	}
	return merged
}

// Merge layers strong over weak.
func Merge(weak, strong any) any {
	switch s := strong.(type) {
	case nil:
		return Clone(weak)
	case map[string]any:
		w, ok := weak.(map[string]any)
		if !ok {
			return Clone(s)
		}
		out := make(map[string]any, len(w)+len(s))
		for key, value := range w {
			out[key] = Clone(value)
		}
		for key, value := range s {
			if existing, ok := out[key]; ok {
				out[key] = Merge(existing, value)
				continue
			}
			out[key] = Clone(value)
		}
		return out
	case []any:
		w, ok := weak.([]any)
		if !ok {
			return Clone(s)
		}
		out := make([]any, 0, len(w)+len(s))
		for _, value := range w {
			out = append(out, Clone(value))
		}
		for _, value := range s {
			out = append(out, Clone(value))
		}
		return out
	default:
		return s
	}
}

// Clone returns a deep copy of a document.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if v == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Clone(item)
		}
		return out
	case []any:
		if v == nil {
			return []any(nil)
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return value
	}
}

// Normalize converts decoder specific containers into map[string]any and
// []any so documents from every format merge alike. Non string keys are
// rendered with their text form.
func Normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[keyString(key)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	default:
		return value
	}
}

func keyString(key any) string {
	if k, ok := key.(string); ok {
		return k
	}
	return fmt.Sprint(key)
}
