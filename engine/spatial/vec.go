// Package spatial resolves world-space positions from relative placement
// chains and assigns elements to their containing spatial zones.
package spatial

// Vec3 is a 3-D point or translation.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// DistSq returns the squared Euclidean distance between v and o.
func (v Vec3) DistSq(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// LateralDistSq returns the squared distance in the XY plane only.
func (v Vec3) LateralDistSq(o Vec3) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}
