package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HitRecord contains information about a ray-surface intersection.
// T doubles as the search bound: a primitive only writes the record when it
// finds a hit strictly closer than the current T.
type HitRecord struct {
	Point     core.Vec3
	Normal    core.Vec3 // always faces against the incoming ray
	UV        core.Vec2
	Material  *material.Material // not owned, may be nil
	T         float64
	FrontFace bool
}

// NewHitRecord returns an empty record bounded by tMax.
// Use math.Inf(1) for nearest-hit queries and the light distance for shadow rays.
func NewHitRecord(tMax float64) HitRecord {
	return HitRecord{T: tMax}
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Valid reports whether the record holds a hit, rather than just a bound
func (h *HitRecord) Valid() bool {
	return !math.IsInf(h.T, 1)
}

// Closer returns whichever record is nearer along the ray; ties keep a
func Closer(a, b HitRecord) HitRecord {
	if b.T < a.T {
		return b
	}
	return a
}

// Primitive is anything a ray can be intersected against
type Primitive interface {
	// Intersect updates rec and returns true only when it finds a hit with
	// t < rec.T. Otherwise rec is left untouched.
	Intersect(ray core.Ray, rec *HitRecord) bool
	BoundingBox() core.AABB
}
