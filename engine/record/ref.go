package record

// refKeys are the reference-field spellings seen across exporters.
var refKeys = []string{"ref", "$ref", "Ref", "REF", "id", "GlobalId", "globalId"}

// RefID extracts the target identifier from a reference token. A token may
// be a bare identifier string, a mapping carrying a reference field, or a
// 1-element sequence wrapping either. Empty string when the token carries
// no identifier.
func RefID(token any) string {
	switch x := token.(type) {
	case string:
		return x
	case map[string]any:
		for _, k := range refKeys {
			if v, ok := x[k]; ok {
				if s, ok := v.(string); ok && s != "" {
					return s
				}
			}
		}
	case []any:
		if len(x) > 0 {
			return RefID(x[0])
		}
	}
	return ""
}

// Deref resolves a reference token against the table. A bare string is a
// direct lookup; a mapping with a reference field is looked up by that
// field's value; a mapping without one is itself an inline record. ok is
// false for dangling references, expected in partial inputs and never fatal.
func (t Table) Deref(token any) (Record, bool) {
	switch x := token.(type) {
	case nil:
		return nil, false
	case string:
		rec, ok := t[x]
		return rec, ok
	case map[string]any:
		for _, k := range []string{"ref", "$ref", "Ref", "REF"} {
			if v, ok := x[k]; ok {
				id, _ := v.(string)
				rec, ok := t[id]
				return rec, ok
			}
		}
		return Record(x), true
	default:
		return nil, false
	}
}
