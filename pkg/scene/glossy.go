package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewGlossyScene creates a Veach-style scene: four Phong plates of increasing
// sharpness reflecting four triangle lights of decreasing size. Every light
// has the same power, so smaller lights are brighter.
func NewGlossyScene(sampling SamplingConfig) *Scene {
	eye := core.NewVec3(0, 2, 15)
	s := NewScene(geometry.CameraConfig{
		LookFrom: eye,
		LookAt:   core.NewVec3(0, 1.5, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     32,
	}, sampling)

	floor := material.NewDiffuse(core.Splat(0.1))
	s.AddTriangles(newCenteredQuad(core.NewVec3(0, -1, 0), core.NewVec3(30, 0, 0), core.NewVec3(0, 0, -30), floor)...)

	lightCenter := core.NewVec3(0, 6, -2)
	lightColors := []core.Vec3{
		core.NewVec3(1.0, 0.4, 0.4),
		core.NewVec3(0.4, 1.0, 0.4),
		core.NewVec3(0.4, 0.4, 1.0),
		core.NewVec3(1.0, 1.0, 0.6),
	}
	sizes := []float64{0.05, 0.15, 0.45, 1.35}
	for i, size := range sizes {
		center := lightCenter.Add(core.NewVec3(-3.75+2.5*float64(i), 0, 0))
		radiance := lightColors[i].Multiply(0.6 / (size * size))
		s.AddTriangles(newCenteredQuad(center, core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), material.NewEmissive(radiance))...)
	}

	// Plates from back to front, each tilted so the lights reflect toward the eye
	exponents := []float64{1000, 200, 50, 10}
	for i, exponent := range exponents {
		center := core.NewVec3(0, 0.2*float64(i), -1.5+1.2*float64(i))
		toEye := eye.Subtract(center).Normalize()
		toLight := lightCenter.Subtract(center).Normalize()
		normal := toEye.Add(toLight).Normalize()

		u := core.NewVec3(8, 0, 0)
		v := normal.Cross(u).Normalize()
		plate := material.NewPhong(core.Splat(0.02), core.Splat(0.5), exponent)
		s.AddTriangles(newCenteredQuad(center, u, v, plate)...)
	}

	return s
}
