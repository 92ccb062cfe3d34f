package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewTexturedScene creates a checkerboard floor with an image-textured sphere,
// a glossy sphere, a UV debug panel and a square ceiling light.
func NewTexturedScene(sampling SamplingConfig) *Scene {
	s := NewScene(geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 1.5, 6),
		LookAt:   core.NewVec3(0, 0.8, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}, sampling)

	checker := material.TextureFunc(func(uv core.Vec2) core.Vec3 {
		if (int(math.Floor(uv.X*8))+int(math.Floor(uv.Y*8)))%2 == 0 {
			return core.Splat(0.8)
		}
		return core.Splat(0.1)
	})
	floor := material.NewTextured(checker)
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 0, 0), core.NewVec3(8, 0, 0), core.NewVec3(0, 0, -8), floor)...)

	back := material.NewDiffuse(core.NewVec3(0.6, 0.6, 0.7))
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 2.5, -3), core.NewVec3(8, 0, 0), core.NewVec3(0, 5, 0), back)...)

	// UV debug panel on the back wall, red along u and green along v
	uvPanel := material.NewTextured(material.NewUVDebugTexture())
	s.AddTriangles(newCenteredQuad(core.NewVec3(2.2, 1.6, -2.95), core.NewVec3(1.2, 0, 0), core.NewVec3(0, 1.2, 0), uvPanel)...)

	globe := material.NewTextured(material.NewCheckerboardTexture(256, 128, 16,
		core.NewVec3(0.9, 0.3, 0.1), core.NewVec3(0.95, 0.95, 0.9)))
	s.Add(geometry.NewSphere(core.NewVec3(-0.8, 0.8, 0), 0.8, globe))

	s.Add(geometry.NewSphere(core.NewVec3(1.1, 0.5, 0.6), 0.5, material.NewPhong(core.NewVec3(0.1, 0.2, 0.5), core.Splat(0.4), 80)))

	light := material.NewEmissive(core.NewVec3(12, 12, 11))
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 4, 0.5), core.NewVec3(1.5, 0, 0), core.NewVec3(0, 0, 1.5), light)...)

	return s
}
