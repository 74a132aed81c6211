package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testZones() []Zone {
	return []Zone{
		{ID: "room-a", Volume: AABB{Min: Vec3{0, 0, 0}, Max: Vec3{10, 10, 3}}},
		{ID: "room-b", Volume: AABB{Min: Vec3{20, 0, 0}, Max: Vec3{30, 10, 3}}},
	}
}

func TestAssignAuthoritativeWins(t *testing.T) {
	a := NewAssigner(DefaultTolerances(), testZones())

	// Position lies inside room-a, but the declared container wins without
	// consulting geometry.
	zone, method := a.Assign(Element{
		ID:          "e1",
		ContainerID: "room-b",
		Pos:         Vec3{5, 5, 1},
		HasPos:      true,
	})
	assert.Equal(t, "room-b", zone)
	assert.Equal(t, Authoritative, method)
}

func TestAssignContainment(t *testing.T) {
	a := NewAssigner(DefaultTolerances(), testZones())

	zone, method := a.Assign(Element{ID: "e1", Pos: Vec3{25, 5, 1}, HasPos: true})
	assert.Equal(t, "room-b", zone)
	assert.Equal(t, Containment, method)
}

func TestAssignContainmentBeatsNearerCenter(t *testing.T) {
	// The element sits just inside room-a's tolerance envelope while being
	// closer to room-b's center. Containment must still win.
	zones := []Zone{
		{ID: "room-a", Volume: AABB{Min: Vec3{0, 0, 0}, Max: Vec3{2, 2, 3}}},
		{ID: "room-b", Volume: AABB{Min: Vec3{3, 0, 0}, Max: Vec3{4, 2, 3}}},
	}
	a := NewAssigner(DefaultTolerances(), zones)

	zone, method := a.Assign(Element{ID: "e1", Pos: Vec3{2.05, 1, 1}, HasPos: true})
	assert.Equal(t, "room-a", zone)
	assert.Equal(t, Containment, method)
}

func TestAssignNearestFallback(t *testing.T) {
	a := NewAssigner(DefaultTolerances(), testZones())

	zone, method := a.Assign(Element{ID: "e1", Pos: Vec3{15, 5, 1}, HasPos: true})
	assert.Equal(t, "room-a", zone, "room-a center (5,5,1.5) is nearer than room-b (25,5,1.5)")
	assert.Equal(t, Nearest, method)
}

func TestAssignNearestGates(t *testing.T) {
	tol := DefaultTolerances()
	tol.MaxZGap = 2
	tol.MaxXYDistSq = 4
	a := NewAssigner(tol, testZones())

	// Vertically too far from every zone center.
	_, method := a.Assign(Element{ID: "e1", Pos: Vec3{5, 5, 40}, HasPos: true})
	assert.Equal(t, Unassigned, method)

	// Laterally too far.
	_, method = a.Assign(Element{ID: "e2", Pos: Vec3{15, 5, 1}, HasPos: true})
	assert.Equal(t, Unassigned, method)
}

func TestAssignNoPosition(t *testing.T) {
	a := NewAssigner(DefaultTolerances(), testZones())

	zone, method := a.Assign(Element{ID: "e1"})
	assert.Empty(t, zone)
	assert.Equal(t, Unassigned, method)
}

func TestAssignNoZones(t *testing.T) {
	a := NewAssigner(DefaultTolerances(), nil)

	_, method := a.Assign(Element{ID: "e1", Pos: Vec3{1, 1, 1}, HasPos: true})
	assert.Equal(t, Unassigned, method)
}

func TestAssignDeterministicTieBreak(t *testing.T) {
	// Two identical zones: sorted order makes the lower ID win every time,
	// regardless of input order.
	vol := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{10, 10, 3}}
	el := Element{ID: "e1", Pos: Vec3{5, 5, 1}, HasPos: true}

	a1 := NewAssigner(DefaultTolerances(), []Zone{{ID: "zone-b", Volume: vol}, {ID: "zone-a", Volume: vol}})
	a2 := NewAssigner(DefaultTolerances(), []Zone{{ID: "zone-a", Volume: vol}, {ID: "zone-b", Volume: vol}})

	z1, _ := a1.Assign(el)
	z2, _ := a2.Assign(el)
	assert.Equal(t, "zone-a", z1)
	assert.Equal(t, z1, z2)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "authoritative", Authoritative.String())
	assert.Equal(t, "containment", Containment.String())
	assert.Equal(t, "nearest", Nearest.String())
	assert.Equal(t, "unassigned", Unassigned.String())
}
