package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// newBox returns the 12 triangles of a box of the given size resting on its
// bottom face at base, rotated by angleY degrees around its vertical axis.
func newBox(base, size core.Vec3, angleY float64, mat *material.Material) []*geometry.Triangle {
	theta := angleY * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)

	// local corners relative to the bottom-face center
	corner := func(x, y, z float64) core.Vec3 {
		lx, lz := (x-0.5)*size.X, (z-0.5)*size.Z
		return core.NewVec3(
			base.X+lx*cos+lz*sin,
			base.Y+y*size.Y,
			base.Z-lx*sin+lz*cos,
		)
	}

	vertices := []core.Vec3{
		corner(0, 0, 0), corner(1, 0, 0), corner(1, 0, 1), corner(0, 0, 1),
		corner(0, 1, 0), corner(1, 1, 0), corner(1, 1, 1), corner(0, 1, 1),
	}
	// two triangles per face, wound outward
	faces := []int{
		0, 1, 2, 0, 2, 3, // bottom
		4, 7, 6, 4, 6, 5, // top
		0, 4, 5, 0, 5, 1, // back
		3, 2, 6, 3, 6, 7, // front
		0, 3, 7, 0, 7, 4, // left
		1, 5, 6, 1, 6, 2, // right
	}
	return geometry.NewTriangleMesh(vertices, faces, mat, nil).Triangles()
}

// newCenteredQuad returns a quad centered at center spanning u and v
func newCenteredQuad(center, u, v core.Vec3, mat *material.Material) []*geometry.Triangle {
	corner := center.Subtract(u.Multiply(0.5)).Subtract(v.Multiply(0.5))
	return geometry.NewQuad(corner, u, v, mat)
}
