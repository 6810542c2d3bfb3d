package tool

// Prop describes a single scalar parameter.
func Prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

// Object builds an object schema; required lists the mandatory properties.
func Object(properties map[string]any, required ...string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
