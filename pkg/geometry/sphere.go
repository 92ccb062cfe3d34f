package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect tests the ray against the sphere using the half-b quadratic form
func (s *Sphere) Intersect(ray core.Ray, rec *HitRecord) bool {
	const eps = core.RayEpsilon

	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < eps {
		root = (-halfB + sqrtD) / a
	}
	if root < eps || root >= rec.T {
		return false
	}

	rec.T = root
	rec.Point = ray.At(root)
	rec.Material = s.Material

	outward := rec.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	rec.UV = sphereUV(outward)
	rec.SetFaceNormal(ray, outward)

	return true
}

// sphereUV maps a point on the unit sphere to (u, v) in [0,1]^2,
// v=0 at the bottom pole and u increasing counter-clockwise from -X.
func sphereUV(n core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, -n.Y)))
	phi := math.Atan2(-n.Z, n.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := core.Splat(s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}
