package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Primitives     []geometry.Primitive // owning collection of everything a ray can hit
	Lights         []*geometry.Triangle // emissive triangles, also reachable through Primitives
	SamplingConfig SamplingConfig
	UseBVH         bool // intersect through a BVH instead of a linear scan

	bvh            *geometry.BVH
	totalLightArea float64
}

// SamplingConfig contains the recommended rendering configuration for a scene
type SamplingConfig struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
}

// DefaultSamplingConfig matches the classic 200x200, 4 spp, depth 5 setup
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           200,
		Height:          200,
		SamplesPerPixel: 4,
		MaxDepth:        5,
	}
}

// NewScene creates an empty scene viewed through the given camera
func NewScene(cameraConfig geometry.CameraConfig, sampling SamplingConfig) *Scene {
	if cameraConfig.AspectRatio == 0 && sampling.Height > 0 {
		cameraConfig.AspectRatio = float64(sampling.Width) / float64(sampling.Height)
	}
	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: sampling,
	}
}

// SetAspectRatio rebuilds the camera for a different image shape
func (s *Scene) SetAspectRatio(aspect float64) {
	s.CameraConfig.AspectRatio = aspect
	s.Camera = geometry.NewCamera(s.CameraConfig)
}

// Add appends primitives to the scene
func (s *Scene) Add(primitives ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, primitives...)
}

// AddTriangles adds triangles as primitives and registers the emissive ones as lights
func (s *Scene) AddTriangles(triangles ...*geometry.Triangle) {
	for _, t := range triangles {
		s.Primitives = append(s.Primitives, t)
		s.registerLight(t)
	}
}

// AddMesh adds a mesh as a single primitive and registers its emissive triangles as lights
func (s *Scene) AddMesh(mesh *geometry.TriangleMesh) {
	s.Primitives = append(s.Primitives, mesh)
	for _, t := range mesh.EmissiveTriangles() {
		s.registerLight(t)
	}
}

// registerLight keeps emissive triangles of positive area; degenerate ones can never be sampled
func (s *Scene) registerLight(t *geometry.Triangle) {
	if t.IsEmissive() && t.Area() > 0 {
		s.Lights = append(s.Lights, t)
	}
}

// Preprocess caches the total light area and builds the BVH when enabled.
// The scene must not be modified afterwards.
func (s *Scene) Preprocess() error {
	s.totalLightArea = 0
	for _, light := range s.Lights {
		s.totalLightArea += light.Area()
	}
	if math.IsInf(s.totalLightArea, 0) || math.IsNaN(s.totalLightArea) {
		return fmt.Errorf("total light area of %d lights is not finite", len(s.Lights))
	}

	s.bvh = nil
	if s.UseBVH {
		s.bvh = geometry.NewBVH(s.flatten())
	}
	return nil
}

// flatten expands meshes into their triangles so the BVH can split inside them
func (s *Scene) flatten() []geometry.Primitive {
	var prims []geometry.Primitive
	for _, p := range s.Primitives {
		if mesh, ok := p.(*geometry.TriangleMesh); ok {
			for _, t := range mesh.Triangles() {
				prims = append(prims, t)
			}
			continue
		}
		prims = append(prims, p)
	}
	return prims
}

// Intersect finds the nearest hit closer than rec.T, reporting whether rec changed
func (s *Scene) Intersect(ray core.Ray, rec *geometry.HitRecord) bool {
	if s.bvh != nil {
		return s.bvh.Intersect(ray, rec)
	}

	hit := false
	for _, p := range s.Primitives {
		if p.Intersect(ray, rec) {
			hit = true
		}
	}
	return hit
}

// Hit returns the nearest intersection along the ray
func (s *Scene) Hit(ray core.Ray) (geometry.HitRecord, bool) {
	rec := geometry.NewHitRecord(math.Inf(1))
	s.Intersect(ray, &rec)
	return rec, rec.Valid()
}

// Occluded reports whether anything blocks the ray before tMax
func (s *Scene) Occluded(ray core.Ray, tMax float64) bool {
	rec := geometry.NewHitRecord(tMax)
	return s.Intersect(ray, &rec)
}

// TotalLightArea returns the summed area of all lights, valid after Preprocess
func (s *Scene) TotalLightArea() float64 {
	return s.totalLightArea
}

// PrimitiveCount returns the total number of primitive objects, counting mesh triangles individually
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, p := range s.Primitives {
		if mesh, ok := p.(*geometry.TriangleMesh); ok {
			count += mesh.TriangleCount()
		} else {
			count++
		}
	}
	return count
}
