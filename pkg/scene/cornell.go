package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// CornellCamera is the viewpoint used for the Cornell box, both built-in and loaded from OBJ
var CornellCamera = geometry.CameraConfig{
	LookFrom: core.NewVec3(0, 1, 6.8),
	LookAt:   core.NewVec3(0, 1, 5.8),
	Up:       core.NewVec3(0, 1, 0),
	VFov:     19.5,
}

// CornellLight is the radiance of the Cornell box ceiling light
var CornellLight = core.NewVec3(34, 24, 8)

// NewCornellScene creates a triangle-only Cornell box: a 2x2x2 room with a
// red left wall, a green right wall, two rotated boxes and a ceiling light.
func NewCornellScene(sampling SamplingConfig) *Scene {
	s := NewScene(CornellCamera, sampling)

	white := material.NewDiffuse(core.NewVec3(0.725, 0.71, 0.68))
	red := material.NewDiffuse(core.NewVec3(0.63, 0.065, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.14, 0.45, 0.091))
	light := material.NewEmissive(CornellLight)
	light.Name = "Light1"

	x := core.NewVec3(2, 0, 0)
	y := core.NewVec3(0, 2, 0)
	z := core.NewVec3(0, 0, 2)

	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 0, 0), x, z, white)...)   // floor
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 2, 0), z, x, white)...)   // ceiling
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 1, -1), x, y, white)...)  // back
	s.AddTriangles(newCenteredQuad(core.NewVec3(-1, 1, 0), y, z, red)...)    // left
	s.AddTriangles(newCenteredQuad(core.NewVec3(1, 1, 0), z, y, green)...)   // right

	s.AddTriangles(newBox(core.NewVec3(-0.35, 0, -0.3), core.NewVec3(0.6, 1.2, 0.6), 17, white)...)
	s.AddTriangles(newBox(core.NewVec3(0.35, 0, 0.35), core.NewVec3(0.6, 0.6, 0.6), -17, white)...)

	// Slightly below the ceiling, facing down
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, 1.98, -0.03), core.NewVec3(0.47, 0, 0), core.NewVec3(0, 0, 0.38), light)...)

	return s
}
