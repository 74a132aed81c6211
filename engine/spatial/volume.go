package spatial

// AABB is an axis-aligned bounding volume.
type AABB struct {
	Min, Max Vec3
}

// VolumeFromVertices derives an AABB from a flat vertex list
// [x0,y0,z0, x1,y1,z1, ...]. ok is false for an empty or truncated list.
func VolumeFromVertices(verts []float64) (AABB, bool) {
	if len(verts) < 3 {
		return AABB{}, false
	}
	box := AABB{
		Min: Vec3{verts[0], verts[1], verts[2]},
		Max: Vec3{verts[0], verts[1], verts[2]},
	}
	for i := 3; i+2 < len(verts); i += 3 {
		p := Vec3{verts[i], verts[i+1], verts[i+2]}
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Min.Z = min(box.Min.Z, p.Z)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
		box.Max.Z = max(box.Max.Z, p.Z)
	}
	return box, true
}

// PointVolume synthesizes the degenerate volume for a zone that has no
// tessellated geometry, centered at its resolved position. The containment
// tolerances provide the envelope.
func PointVolume(p Vec3) AABB {
	return AABB{Min: p, Max: p}
}

// Center returns the volume's center point.
func (b AABB) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Contains tests p against the volume inclusively, widened by a lateral
// tolerance on X/Y and a vertical tolerance on Z. The larger vertical
// tolerance absorbs floor and ceiling slab thickness.
func (b AABB) Contains(p Vec3, tolXY, tolZ float64) bool {
	return b.Min.X-tolXY <= p.X && p.X <= b.Max.X+tolXY &&
		b.Min.Y-tolXY <= p.Y && p.Y <= b.Max.Y+tolXY &&
		b.Min.Z-tolZ <= p.Z && p.Z <= b.Max.Z+tolZ
}
