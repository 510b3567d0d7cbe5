package tooldoc

import "strings"

// InputSchema derives a JSON Schema object for the record's parameters.
// Types are best-effort: documentation types such as "str" or "int" map to
// their JSON counterparts and anything unknown is treated as a string.
func (r Record) InputSchema() map[string]any {
	props := make(map[string]any, len(r.Params))
	for _, p := range r.Params {
		prop := map[string]any{"type": jsonType(p.Type)}
		if p.Type != "" && p.Type != DefaultParamType {
			prop["description"] = p.Type
		}
		props[p.Name] = prop
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func jsonType(docType string) string {
	t := strings.ToLower(strings.TrimSpace(docType))
	switch {
	case strings.HasPrefix(t, "int"):
		return "integer"
	case strings.HasPrefix(t, "float"), strings.HasPrefix(t, "double"), strings.HasPrefix(t, "number"):
		return "number"
	case strings.HasPrefix(t, "bool"):
		return "boolean"
	case strings.HasPrefix(t, "list"), strings.HasPrefix(t, "array"):
		return "array"
	default:
		return "string"
	}
}
