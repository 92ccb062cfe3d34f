package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// CastRay estimates the radiance arriving along ray, following at most depth bounces.
	// The sampler is owned by the caller and must not be shared between goroutines.
	CastRay(ray core.Ray, depth int, sampler core.Sampler) core.Vec3
}
