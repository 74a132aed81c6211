package record

import "fmt"

// FlattenPsets normalizes a record's property sets into a flat map of
// "SetName.PropName" (or bare PropName) to scalar values. It looks in the
// direct-map places ("psets", "Properties", ...) and the list-of-sets places
// ("HasPropertySets", "PropertySets"), in both the top level and the
// attributes sub-map. Non-scalar values are stringified so the result is
// always safe to persist as node properties.
func FlattenPsets(r Record) map[string]any {
	out := map[string]any{}

	// Direct-map shapes: {"psets": {"Pset_Manufacturer": "Acme", ...}}
	for _, key := range []string{"psets", "Properties", "properties", "property_sets"} {
		p, _ := r[key].(map[string]any)
		for k, v := range p {
			if wrapped, ok := v.(map[string]any); ok {
				if nv, ok := wrapped["NominalValue"]; ok {
					out[k] = nv
					continue
				}
			}
			out[k] = v
		}
	}

	// List-of-sets shape: [{"Name": "Pset_X", "HasProperties": [{...}]}]
	var sets []any
	for _, key := range []string{"HasPropertySets", "PropertySets"} {
		if v, ok := r.Get(key); ok {
			if l, ok := v.([]any); ok {
				sets = append(sets, l...)
			}
		}
	}
	for _, raw := range sets {
		ps, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		setName, _ := Record(ps).Get("Name", "name")
		sname, _ := setName.(string)
		props, _ := Record(ps).Get("HasProperties", "Properties")
		list, _ := props.([]any)
		for _, rawProp := range list {
			p, ok := rawProp.(map[string]any)
			if !ok {
				continue
			}
			nameVal, _ := Record(p).Get("Name", "name")
			pname, _ := nameVal.(string)
			if pname == "" {
				continue
			}
			val, _ := Record(p).Get("NominalValue", "Value", "nominalValue")
			if sname != "" {
				out[sname+"."+pname] = val
			} else {
				out[pname] = val
			}
		}
	}

	// Persisted properties must be scalars.
	clean := make(map[string]any, len(out))
	for k, v := range out {
		switch v.(type) {
		case string, bool, float64, float32, int, int64, nil:
			clean[k] = v
		default:
			if f, ok := AsNumber(v); ok {
				clean[k] = f
			} else {
				clean[k] = fmt.Sprintf("%v", v)
			}
		}
	}
	return clean
}
