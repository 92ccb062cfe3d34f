package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Union(AABB{Min: p, Max: p})
	}
	return box
}

// Hit tests whether the ray enters the box within (tMin, tMax) using the slab method
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Min.Axis(axis), b.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		dir := ray.Direction.Axis(axis)

		if math.Abs(dir) < 1e-12 {
			// parallel to the slab
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		inv := 1.0 / dir
		t0 := (lo - origin) * inv
		t1 := (hi - origin) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Union returns an AABB that bounds both boxes
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: NewVec3(math.Min(b.Min.X, other.Min.X), math.Min(b.Min.Y, other.Min.Y), math.Min(b.Min.Z, other.Min.Z)),
		Max: NewVec3(math.Max(b.Max.X, other.Max.X), math.Max(b.Max.Y, other.Max.Y), math.Max(b.Max.Z, other.Max.Z)),
	}
}

// Pad grows degenerate (flat) axes by delta so axis-aligned triangles still
// have a box the slab test can enter.
func (b AABB) Pad(delta float64) AABB {
	for axis := 0; axis < 3; axis++ {
		if b.Max.Axis(axis)-b.Min.Axis(axis) >= delta {
			continue
		}
		switch axis {
		case 0:
			b.Min.X -= delta / 2
			b.Max.X += delta / 2
		case 1:
			b.Min.Y -= delta / 2
			b.Max.Y += delta / 2
		case 2:
			b.Min.Z -= delta / 2
			b.Max.Z += delta / 2
		}
	}
	return b
}

// Center returns the center point of the AABB
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (b AABB) Size() Vec3 {
	return b.Max.Subtract(b.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b AABB) LongestAxis() int {
	size := b.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}
