package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// valueKeys are the canonical wrapper keys exporters use for measure values,
// e.g. {"type":"IfcLengthMeasure","value":123.0}.
var valueKeys = []string{"value", "Value", "nominalValue", "NominalValue"}

// vectorKeys mark a mapping as a coordinate vector rather than a wrapped
// scalar. Vectors must never be silently collapsed to a number.
var vectorKeys = []string{"x", "X", "y", "Y", "z", "Z"}

// AsNumber unwraps an arbitrarily nested numeric representation into a
// float64. It tries, in order: plain numerics and numeric strings, the first
// coercible element of a sequence, canonical wrapper keys of a mapping,
// measure-wrapper keys, and the sole value of a single-entry mapping.
// A mapping shaped like an x/y/z vector returns ok=false so callers take the
// vector-extraction path instead. AsNumber never panics; any unrecognized
// shape degrades to ok=false.
func AsNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case []any:
		for _, it := range x {
			if f, ok := AsNumber(it); ok {
				return f, true
			}
		}
		return 0, false
	case map[string]any:
		return numberFromMap(x)
	default:
		return 0, false
	}
}

func numberFromMap(m map[string]any) (float64, bool) {
	for _, k := range valueKeys {
		if inner, ok := m[k]; ok {
			if f, ok := AsNumber(inner); ok {
				return f, true
			}
		}
	}
	for _, k := range vectorKeys {
		if _, ok := m[k]; ok {
			return 0, false // vector record, not a scalar
		}
	}
	for k, inner := range m {
		if strings.Contains(k, "Measure") {
			if f, ok := AsNumber(inner); ok {
				return f, true
			}
		}
	}
	if len(m) == 1 {
		for _, inner := range m {
			return AsNumber(inner)
		}
	}
	return 0, false
}

// axisKeys pairs the accepted spellings of each coordinate axis with its
// slot in the output vector. Map-shaped points may carry any subset.
var axisKeys = [3][2]string{{"x", "X"}, {"y", "Y"}, {"z", "Z"}}

// Coordinates extracts the coordinate components of a point record,
// handling both list-shaped ("Coordinates": [x, y, z]) and map-shaped
// ("Coordinates": {"x":..,"y":..,"z":..}) variants with per-component
// wrappers. List components that do not coerce are dropped. Map-shaped
// points always yield all three slots so each component keeps its axis;
// absent components are zero.
func Coordinates(point Record) ([]float64, bool) {
	raw, ok := point.Get("Coordinates", "coordinates")
	if !ok {
		return nil, false
	}
	switch pts := raw.(type) {
	case []any:
		out := make([]float64, 0, len(pts))
		for _, v := range pts {
			if f, ok := AsNumber(v); ok {
				out = append(out, f)
			}
		}
		return out, len(out) > 0
	case map[string]any:
		out := make([]float64, 3)
		found := false
		for i, keys := range axisKeys {
			for _, k := range keys {
				v, ok := pts[k]
				if !ok {
					continue
				}
				if f, ok := AsNumber(v); ok {
					out[i] = f
					found = true
				}
				break
			}
		}
		if !found {
			return nil, false
		}
		return out, true
	}
	return nil, false
}
