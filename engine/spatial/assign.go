package spatial

import "sort"

// Tolerance and gate defaults, in model length units (meters for the
// sample exports).
const (
	DefaultTolXY = 0.10
	DefaultTolZ  = 1.0
)

// Tolerances configures containment tests and the nearest-center fallback.
type Tolerances struct {
	// TolXY widens containment tests laterally.
	TolXY float64
	// TolZ widens containment tests vertically.
	TolZ float64
	// MaxZGap gates the nearest-center fallback: a zone whose center is
	// further than this from the element vertically is never matched.
	// 0 means unbounded.
	MaxZGap float64
	// MaxXYDistSq gates the fallback laterally by squared distance.
	// 0 means unbounded.
	MaxXYDistSq float64
}

// DefaultTolerances returns the tolerances used when none are configured.
func DefaultTolerances() Tolerances {
	return Tolerances{TolXY: DefaultTolXY, TolZ: DefaultTolZ}
}

// Zone is a spatial container candidate for assignment.
type Zone struct {
	ID     string
	Volume AABB
}

// Method records how an assignment was decided.
type Method int

const (
	Unassigned Method = iota
	// Authoritative means the input already carried a structural container
	// edge for the element; geometry was skipped entirely.
	Authoritative
	// Containment means the element's position lay inside a zone volume.
	Containment
	// Nearest means the gated nearest-center fallback matched.
	Nearest
)

func (m Method) String() string {
	switch m {
	case Authoritative:
		return "authoritative"
	case Containment:
		return "containment"
	case Nearest:
		return "nearest"
	default:
		return "unassigned"
	}
}

// Element is an assignment candidate.
type Element struct {
	ID string
	// ContainerID is the authoritative container from the input, when the
	// input encodes one.
	ContainerID string
	Pos         Vec3
	HasPos      bool
}

// Assigner decides the containing zone for candidate elements. It is a pure
// per-pass decision function: zones are fixed and sorted at construction so
// repeated runs over the same input always pick the same zone.
type Assigner struct {
	tol   Tolerances
	zones []Zone
}

// NewAssigner builds an Assigner over the candidate zones.
func NewAssigner(tol Tolerances, zones []Zone) *Assigner {
	sorted := make([]Zone, len(zones))
	copy(sorted, zones)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Assigner{tol: tol, zones: sorted}
}

// Assign returns the zone for an element, together with the decision tier
// that produced it. Tiers are strict fallbacks: authoritative containment,
// then point-in-volume, then gated nearest-center, then unassigned.
func (a *Assigner) Assign(el Element) (string, Method) {
	if el.ContainerID != "" {
		return el.ContainerID, Authoritative
	}
	if !el.HasPos || len(a.zones) == 0 {
		return "", Unassigned
	}

	for _, z := range a.zones {
		if z.Volume.Contains(el.Pos, a.tol.TolXY, a.tol.TolZ) {
			return z.ID, Containment
		}
	}

	bestID, bestD2 := "", 0.0
	for _, z := range a.zones {
		c := z.Volume.Center()
		if a.tol.MaxZGap > 0 && abs(el.Pos.Z-c.Z) > a.tol.MaxZGap {
			continue
		}
		if a.tol.MaxXYDistSq > 0 && el.Pos.LateralDistSq(c) > a.tol.MaxXYDistSq {
			continue
		}
		d2 := el.Pos.DistSq(c)
		if bestID == "" || d2 < bestD2 {
			bestID, bestD2 = z.ID, d2
		}
	}
	if bestID == "" {
		return "", Unassigned
	}
	return bestID, Nearest
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
