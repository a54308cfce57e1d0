package scene

import (
	"scene-editor/math"
)

// Ray is a world-space ray with a unit direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// MeshBounds computes the local-space bounding box of a mesh.
func MeshBounds(m *MeshData) AABB {
	if m == nil || len(m.Positions) < 3 {
		return AABB{}
	}
	b := AABB{
		Min: math.Vec3{X: m.Positions[0], Y: m.Positions[1], Z: m.Positions[2]},
		Max: math.Vec3{X: m.Positions[0], Y: m.Positions[1], Z: m.Positions[2]},
	}
	for i := 3; i+2 < len(m.Positions); i += 3 {
		p := math.Vec3{X: m.Positions[i], Y: m.Positions[i+1], Z: m.Positions[i+2]}
		b.Min = math.Vec3{X: min32(b.Min.X, p.X), Y: min32(b.Min.Y, p.Y), Z: min32(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: max32(b.Max.X, p.X), Y: max32(b.Max.Y, p.Y), Z: max32(b.Max.Z, p.Z)}
	}
	return b
}

// Transformed returns the axis-aligned box enclosing this box under the
// given model matrix, by transforming all eight corners.
func (b AABB) Transformed(m math.Mat4) AABB {
	corners := [8]math.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
	out := AABB{Min: m.MulVec3(corners[0]), Max: m.MulVec3(corners[0])}
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		out.Min = math.Vec3{X: min32(out.Min.X, p.X), Y: min32(out.Min.Y, p.Y), Z: min32(out.Min.Z, p.Z)}
		out.Max = math.Vec3{X: max32(out.Max.X, p.X), Y: max32(out.Max.Y, p.Y), Z: max32(out.Max.Z, p.Z)}
	}
	return out
}

// IntersectAABB tests the ray against a box with the slab method. It
// returns the entry distance along the ray; rays starting inside the box
// hit at distance zero.
func (r Ray) IntersectAABB(b AABB) (float32, bool) {
	tMin := float32(0)
	tMax := float32(3.4e38)

	for axis := 0; axis < 3; axis++ {
		origin := pickAxis(r.Origin, axis)
		dir := pickAxis(r.Direction, axis)
		lo := pickAxis(b.Min, axis)
		hi := pickAxis(b.Max, axis)

		if dir > -1e-8 && dir < 1e-8 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - origin) / dir
		t2 := (hi - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// Hit is the result of picking an entity with a ray.
type Hit struct {
	Entity   *Entity
	Distance float32
	Point    math.Vec3
}

// Pick returns the nearest visible entity whose world-space bounds the ray
// intersects. Entities without geometry are ignored.
func (s *Scene) Pick(r Ray) (Hit, bool) {
	best := Hit{Distance: 3.4e38}
	found := false
	for _, e := range s.Entities {
		if !e.Visible || e.Mesh == nil {
			continue
		}
		bounds := MeshBounds(e.Mesh).Transformed(e.Local.Matrix())
		dist, ok := r.IntersectAABB(bounds)
		if !ok || dist >= best.Distance {
			continue
		}
		best = Hit{
			Entity:   e,
			Distance: dist,
			Point:    r.Origin.Add(r.Direction.Mul(dist)),
		}
		found = true
	}
	return best, found
}

func pickAxis(v math.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
