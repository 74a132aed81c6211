package record

import "testing"

func TestFlattenPsetsDirectMap(t *testing.T) {
	rec := Record{
		"psets": map[string]any{
			"Manufacturer": "Acme",
			"FlowRate":     map[string]any{"NominalValue": 0.45},
		},
	}
	got := FlattenPsets(rec)
	if got["Manufacturer"] != "Acme" {
		t.Errorf("Manufacturer = %v", got["Manufacturer"])
	}
	if got["FlowRate"] != 0.45 {
		t.Errorf("FlowRate = %v", got["FlowRate"])
	}
}

func TestFlattenPsetsListOfSets(t *testing.T) {
	rec := Record{
		"HasPropertySets": []any{
			map[string]any{
				"Name": "Pset_SpaceCommon",
				"HasProperties": []any{
					map[string]any{"Name": "Reference", "NominalValue": "R-101"},
					map[string]any{"Name": "GrossArea", "NominalValue": map[string]any{"value": 24.5}},
				},
			},
		},
	}
	got := FlattenPsets(rec)
	if got["Pset_SpaceCommon.Reference"] != "R-101" {
		t.Errorf("Reference = %v", got["Pset_SpaceCommon.Reference"])
	}
	if got["Pset_SpaceCommon.GrossArea"] != 24.5 {
		t.Errorf("GrossArea = %v", got["Pset_SpaceCommon.GrossArea"])
	}
}

func TestFlattenPsetsStringifiesNonScalars(t *testing.T) {
	rec := Record{
		"psets": map[string]any{
			"Weird": []any{"a", "b"},
		},
	}
	got := FlattenPsets(rec)
	if _, ok := got["Weird"].(string); !ok {
		t.Fatalf("non-scalar should be stringified, got %T", got["Weird"])
	}
}

func TestFlattenPsetsEmpty(t *testing.T) {
	if got := FlattenPsets(Record{"Name": "x"}); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestTerminalLike(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Supply Diffuser 600x600", true},
		{"Air Terminal: ATU-3", true},
		{"Return GRILLE", true},
		{"Pump P-101", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := TerminalLike(tt.name); got != tt.want {
			t.Errorf("TerminalLike(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFamilyPrefix(t *testing.T) {
	if got := FamilyPrefix("Supply Diffuser : SD-1"); got != "Supply Diffuser" {
		t.Errorf("FamilyPrefix = %q", got)
	}
	if got := FamilyPrefix("Plain Name"); got != "Plain Name" {
		t.Errorf("FamilyPrefix without separator = %q", got)
	}
}
