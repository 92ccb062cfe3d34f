package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices.
// Vertices are fixed at construction so the cached area stays valid.
type Triangle struct {
	v0, v1, v2    core.Vec3
	uv0, uv1, uv2 core.Vec2
	hasUV         bool
	material      *material.Material
	normal        core.Vec3
	area          float64
	bbox          core.AABB
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat *material.Material) *Triangle {
	t := &Triangle{v0: v0, v1: v1, v2: v2, material: mat}

	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	t.normal = cross.Normalize()
	t.area = 0.5 * cross.Length()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2).Pad(1e-4)

	return t
}

// NewTriangleWithUV creates a triangle with per-vertex texture coordinates
func NewTriangleWithUV(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, mat *material.Material) *Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.uv0, t.uv1, t.uv2 = uv0, uv1, uv2
	t.hasUV = true
	return t
}

// Vertices returns the three corners in winding order
func (t *Triangle) Vertices() (core.Vec3, core.Vec3, core.Vec3) {
	return t.v0, t.v1, t.v2
}

// UVs returns per-vertex texture coordinates and whether any were supplied
func (t *Triangle) UVs() (core.Vec2, core.Vec2, core.Vec2, bool) {
	return t.uv0, t.uv1, t.uv2, t.hasUV
}

// Material returns the triangle's material, which may be nil
func (t *Triangle) Material() *material.Material {
	return t.material
}

// Area returns the surface area cached at construction
func (t *Triangle) Area() float64 {
	return t.area
}

// Normal returns the unit geometric normal (v1-v0) x (v2-v0)
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// IsEmissive reports whether the triangle carries an emitting material
func (t *Triangle) IsEmissive() bool {
	return t.material != nil && t.material.IsEmissive()
}

// PointAt returns u*v0 + v*v1 + w*v2
func (t *Triangle) PointAt(u, v, w float64) core.Vec3 {
	return t.v0.Multiply(u).Add(t.v1.Multiply(v)).Add(t.v2.Multiply(w))
}

// Intersect tests the ray against the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, rec *HitRecord) bool {
	const eps = core.IntersectEpsilon

	edge1 := t.v1.Subtract(t.v0)
	edge2 := t.v2.Subtract(t.v0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -eps && det < eps {
		return false // parallel to the triangle plane
	}

	invDet := 1.0 / det
	s := ray.Origin.Subtract(t.v0)
	u := invDet * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := invDet * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	dist := invDet * edge2.Dot(q)
	if dist < eps || dist >= rec.T {
		return false
	}

	rec.T = dist
	rec.Point = ray.At(dist)
	rec.Material = t.material
	if t.hasUV {
		w := 1.0 - u - v
		rec.UV = t.uv0.Multiply(w).Add(t.uv1.Multiply(u)).Add(t.uv2.Multiply(v))
	} else {
		rec.UV = core.Vec2{}
	}
	rec.SetFaceNormal(ray, t.normal)

	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// NewQuad splits the parallelogram corner, corner+u, corner+u+v, corner+v into
// two triangles sharing the normal u x v. UVs run from (0,0) at corner to (1,1).
func NewQuad(corner, u, v core.Vec3, mat *material.Material) []*Triangle {
	p0 := corner
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)

	return []*Triangle{
		NewTriangleWithUV(p0, p1, p2, core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1), mat),
		NewTriangleWithUV(p0, p2, p3, core.NewVec2(0, 0), core.NewVec2(1, 1), core.NewVec2(0, 1), mat),
	}
}
