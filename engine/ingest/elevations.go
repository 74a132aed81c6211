package ingest

import (
	"github.com/jma1999/RIG/engine/record"
	"github.com/jma1999/RIG/engine/spatial"
)

// StoreyElevations computes an elevation for each IfcBuildingStorey in the
// table. Preference order: the storey's own Elevation attribute, then the
// Z of its resolved placement, then the mean Z of its contained elements
// from the positions map. Storeys with none of these are omitted.
func StoreyElevations(table record.Table, res *spatial.Resolver, edges []EdgeSpec, positions map[string]spatial.Vec3) map[string]float64 {
	contained := make(map[string][]string)
	for _, e := range edges {
		if e.Type == "CONTAINS" {
			contained[e.Src] = append(contained[e.Src], e.Dst)
		}
	}

	elevs := make(map[string]float64)
	for id, rec := range table {
		if rec.Type() != "IfcBuildingStorey" {
			continue
		}

		if n, ok := attrElevation(rec); ok {
			elevs[id] = n
			continue
		}

		if pos, ok := res.WorldPosition(rec); ok {
			elevs[id] = pos.Z
			continue
		}

		var sum float64
		var n int
		for _, child := range contained[id] {
			if pos, ok := positions[child]; ok {
				sum += pos.Z
				n++
			}
		}
		if n > 0 {
			elevs[id] = sum / float64(n)
		}
	}
	return elevs
}

// elevationKeys covers both the standard attribute and the survey-datum
// variant some exporters emit instead.
var elevationKeys = []string{"Elevation", "elevation", "ElevationOfRefHeight", "elevationOfRefHeight"}

func attrElevation(rec record.Record) (float64, bool) {
	for _, k := range elevationKeys {
		if v, ok := rec.Get(k); ok {
			if n, ok := record.AsNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}
