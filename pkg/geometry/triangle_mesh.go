package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleMesh is a group of triangles that intersects as a single primitive
type TriangleMesh struct {
	triangles []*Triangle
	bbox      core.AABB
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	UVs       []core.Vec2          // per-vertex texture coordinates, indexed like vertices
	Materials []*material.Material // per-triangle materials, overriding the default
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Each group of 3 indices forms a triangle; options may be nil.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat *material.Material, options *TriangleMeshOptions) *TriangleMesh {
	if len(faces)%3 != 0 {
		panic("Face indices must be a multiple of 3")
	}
	numTriangles := len(faces) / 3

	if options != nil {
		if options.UVs != nil && len(options.UVs) != len(vertices) {
			panic(fmt.Sprintf("Expected %d UVs, got %d", len(vertices), len(options.UVs)))
		}
		if options.Materials != nil && len(options.Materials) != numTriangles {
			panic("Number of materials must match number of triangles")
		}
	}

	triangles := make([]*Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				panic(fmt.Sprintf("Face index %d out of bounds", idx))
			}
		}

		triangleMaterial := mat
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		if options != nil && options.UVs != nil {
			triangles[i] = NewTriangleWithUV(vertices[i0], vertices[i1], vertices[i2],
				options.UVs[i0], options.UVs[i1], options.UVs[i2], triangleMaterial)
		} else {
			triangles[i] = NewTriangle(vertices[i0], vertices[i1], vertices[i2], triangleMaterial)
		}
	}

	return NewMeshFromTriangles(triangles)
}

// NewMeshFromTriangles groups already-built triangles into a mesh
func NewMeshFromTriangles(triangles []*Triangle) *TriangleMesh {
	m := &TriangleMesh{triangles: triangles}
	if len(triangles) > 0 {
		m.bbox = triangles[0].BoundingBox()
		for _, t := range triangles[1:] {
			m.bbox = m.bbox.Union(t.BoundingBox())
		}
	}
	return m
}

// Intersect tests every triangle, keeping the nearest hit in rec
func (m *TriangleMesh) Intersect(ray core.Ray, rec *HitRecord) bool {
	if len(m.triangles) == 0 || !m.bbox.Hit(ray, 0, rec.T) {
		return false
	}

	hit := false
	for _, t := range m.triangles {
		if t.Intersect(ray, rec) {
			hit = true
		}
	}
	return hit
}

// BoundingBox returns the bounds of all triangles
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bbox
}

// Triangles returns the triangles of the mesh
func (m *TriangleMesh) Triangles() []*Triangle {
	return m.triangles
}

// TriangleCount returns the number of triangles in the mesh
func (m *TriangleMesh) TriangleCount() int {
	return len(m.triangles)
}

// EmissiveTriangles returns the triangles whose material emits light, in mesh order
func (m *TriangleMesh) EmissiveTriangles() []*Triangle {
	var lights []*Triangle
	for _, t := range m.triangles {
		if t.IsEmissive() {
			lights = append(lights, t)
		}
	}
	return lights
}
