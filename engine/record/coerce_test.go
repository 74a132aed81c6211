package record

import (
	"encoding/json"
	"testing"
)

func TestAsNumberScalars(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{3.5, 3.5, true},
		{float32(2), 2, true},
		{7, 7, true},
		{int64(9), 9, true},
		{json.Number("4.25"), 4.25, true},
		{"12.5", 12.5, true},
		{"  -3 ", -3, true},
		{"", 0, false},
		{"not a number", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AsNumber(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAsNumberSequence(t *testing.T) {
	got, ok := AsNumber([]any{"junk", 5.5, 9.0})
	if !ok || got != 5.5 {
		t.Fatalf("AsNumber(list) = (%v, %v), want first coercible element", got, ok)
	}
	if _, ok := AsNumber([]any{}); ok {
		t.Fatal("empty sequence should not coerce")
	}
}

func TestAsNumberWrappedValue(t *testing.T) {
	wrapped := map[string]any{"type": "IfcLengthMeasure", "value": 123.0}
	got, ok := AsNumber(wrapped)
	if !ok || got != 123.0 {
		t.Fatalf("AsNumber(wrapped) = (%v, %v)", got, ok)
	}

	nested := map[string]any{"NominalValue": map[string]any{"value": "8"}}
	got, ok = AsNumber(nested)
	if !ok || got != 8 {
		t.Fatalf("AsNumber(nested wrapper) = (%v, %v)", got, ok)
	}
}

func TestAsNumberRefusesVectors(t *testing.T) {
	vec := map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}
	if _, ok := AsNumber(vec); ok {
		t.Fatal("vector mapping must not collapse to a scalar")
	}
}

func TestAsNumberMeasureKey(t *testing.T) {
	m := map[string]any{"IfcAreaMeasure": 42.0}
	got, ok := AsNumber(m)
	if !ok || got != 42.0 {
		t.Fatalf("AsNumber(measure key) = (%v, %v)", got, ok)
	}
}

func TestAsNumberSingleEntryMap(t *testing.T) {
	m := map[string]any{"whatever": 6.0}
	got, ok := AsNumber(m)
	if !ok || got != 6.0 {
		t.Fatalf("AsNumber(single entry) = (%v, %v)", got, ok)
	}
}

func TestCoordinatesList(t *testing.T) {
	point := Record{"Coordinates": []any{1.0, 2.0, 3.0}}
	got, ok := Coordinates(point)
	if !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Coordinates(list) = (%v, %v)", got, ok)
	}
}

func TestCoordinatesListWithWrappedComponents(t *testing.T) {
	point := Record{"coordinates": []any{
		map[string]any{"value": 4.0},
		map[string]any{"value": 5.0},
	}}
	got, ok := Coordinates(point)
	if !ok || len(got) != 2 || got[1] != 5 {
		t.Fatalf("Coordinates(wrapped list) = (%v, %v)", got, ok)
	}
}

func TestCoordinatesMap(t *testing.T) {
	point := Record{"Coordinates": map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}}
	got, ok := Coordinates(point)
	if !ok || len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("Coordinates(map) = (%v, %v)", got, ok)
	}
}

func TestCoordinatesMapPartial(t *testing.T) {
	point := Record{"Coordinates": map[string]any{"z": 3.0}}
	got, ok := Coordinates(point)
	if !ok || len(got) != 3 || got[0] != 0 || got[1] != 0 || got[2] != 3 {
		t.Fatalf("Coordinates(z-only map) = (%v, %v), want [0 0 3]", got, ok)
	}

	point = Record{"Coordinates": map[string]any{"X": 1.5, "z": map[string]any{"value": 2.5}}}
	got, ok = Coordinates(point)
	if !ok || len(got) != 3 || got[0] != 1.5 || got[1] != 0 || got[2] != 2.5 {
		t.Fatalf("Coordinates(sparse map) = (%v, %v), want [1.5 0 2.5]", got, ok)
	}
}

func TestCoordinatesAbsent(t *testing.T) {
	if _, ok := Coordinates(Record{}); ok {
		t.Fatal("record without coordinates should be absent")
	}
	if _, ok := Coordinates(Record{"Coordinates": "nope"}); ok {
		t.Fatal("unparseable coordinates should be absent")
	}
}
