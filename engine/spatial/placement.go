package spatial

import (
	"github.com/jma1999/RIG/engine/record"
)

// MaxPlacementHops bounds the placement-chain walk regardless of whether
// placements carry identifiers. Real models nest a handful of levels; 64 is
// far beyond any legitimate chain.
const MaxPlacementHops = 64

// Resolver walks relative-placement chains against a record table. It is
// built once per ingestion pass; the table is read-only.
type Resolver struct {
	table record.Table

	// CyclesTruncated counts placement chains cut short by cycle detection,
	// for pass diagnostics.
	CyclesTruncated int
}

// NewResolver creates a Resolver over the given table.
func NewResolver(table record.Table) *Resolver {
	return &Resolver{table: table}
}

// WorldPosition resolves a record's world-space position by summing the
// translation of each relative placement up to the root frame. Rotation is
// never applied; only translation components accumulate. This matches the
// precision needed for zone assignment and is a documented limitation, not
// a defect.
//
// ok is false when the record has no placement or its placement reference
// cannot be dereferenced, which is distinct from a resolved (0,0,0).
// A missing or broken parent reference part-way up simply ends the chain.
func (r *Resolver) WorldPosition(rec record.Record) (Vec3, bool) {
	opToken, has := rec.Get("ObjectPlacement", "objectPlacement")
	if !has || opToken == nil {
		return Vec3{}, false
	}
	cur, ok := r.table.Deref(opToken)
	if !ok {
		return Vec3{}, false
	}

	var total Vec3
	seen := map[string]struct{}{}
	for hops := 0; cur != nil && hops < MaxPlacementHops; hops++ {
		if id := placementID(cur); id != "" {
			if _, dup := seen[id]; dup {
				r.CyclesTruncated++
				break
			}
			seen[id] = struct{}{}
		}

		total = total.Add(relativeTranslation(r.table, cur))

		parentToken, has := cur.Get("PlacementRelTo", "placementRelTo")
		if !has || parentToken == nil {
			break
		}
		parent, ok := r.table.Deref(parentToken)
		if !ok {
			break // dangling parent reference ends the chain normally
		}
		cur = parent
	}
	return total, true
}

// relativeTranslation extracts the translation of one placement hop. A
// placement without a usable location contributes nothing.
func relativeTranslation(table record.Table, placement record.Record) Vec3 {
	rpToken, has := placement.Get("RelativePlacement", "relativePlacement")
	if !has {
		return Vec3{}
	}
	rp, ok := table.Deref(rpToken)
	if !ok {
		return Vec3{}
	}
	locToken, has := rp.Get("Location", "location")
	if !has {
		return Vec3{}
	}
	loc, ok := table.Deref(locToken)
	if !ok {
		return Vec3{}
	}
	coords, ok := record.Coordinates(loc)
	if !ok {
		return Vec3{}
	}
	var t Vec3
	if len(coords) > 0 {
		t.X = coords[0]
	}
	if len(coords) > 1 {
		t.Y = coords[1]
	}
	if len(coords) > 2 {
		t.Z = coords[2]
	}
	return t
}

func placementID(rec record.Record) string {
	for _, k := range []string{"id", "GlobalId", "globalId"} {
		if v, ok := rec[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
