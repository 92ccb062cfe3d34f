package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// continueProbability is the Russian roulette survival probability, applied at every bounce
const continueProbability = 0.8

// PathTracingIntegrator implements unidirectional path tracing with next-event
// estimation. It only reads the scene, so one instance serves every worker.
type PathTracingIntegrator struct {
	scene *scene.Scene
}

// NewPathTracingIntegrator creates a path tracer over a preprocessed scene
func NewPathTracingIntegrator(s *scene.Scene) *PathTracingIntegrator {
	return &PathTracingIntegrator{scene: s}
}

// CastRay computes the radiance for a single ray
func (pt *PathTracingIntegrator) CastRay(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := pt.scene.Hit(ray)
	if !isHit {
		return core.Vec3{}
	}

	mat := hit.Material
	if mat == nil {
		mat = material.DefaultGray()
	}

	// Emitters terminate the path
	if mat.IsEmissive() {
		return mat.Emitted()
	}

	wo := ray.Direction.Negate()
	direct := pt.calculateDirectLighting(&hit, mat, wo, sampler)

	if sampler.Get1D() > continueProbability {
		return direct
	}

	wi, pdf := mat.Sample(hit.Normal, sampler)
	if pdf <= 0 {
		return direct
	}

	cosine := max(0, hit.Normal.Dot(wi))
	weight := mat.Eval(wi, wo, hit.Normal, hit.UV).Multiply(cosine / (pdf * continueProbability))

	next := core.NewRay(pt.offset(&hit), wi)
	indirect := pt.CastRay(next, depth-1, sampler).MultiplyVec(weight)

	return direct.Add(indirect)
}

// offset lifts the hit point off the surface along the facing normal
func (pt *PathTracingIntegrator) offset(hit *geometry.HitRecord) core.Vec3 {
	return hit.Point.Add(hit.Normal.Multiply(core.RayEpsilon))
}

// calculateDirectLighting samples one point on the light set and tests its visibility
func (pt *PathTracingIntegrator) calculateDirectLighting(hit *geometry.HitRecord, mat *material.Material, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	ls, ok := pt.scene.SampleLight(sampler)
	if !ok || !ls.Emission.HasPositive() || ls.PDF <= 0 {
		return core.Vec3{}
	}

	// geometry is measured from the surface; only the shadow ray is offset
	toLight := ls.Point.Subtract(hit.Point)
	distSquared := toLight.LengthSquared()
	dist := toLight.Length()
	if dist <= core.RayEpsilon {
		return core.Vec3{}
	}
	wi := toLight.Divide(dist)

	cosSurface := max(0, hit.Normal.Dot(wi))
	cosLight := max(0, ls.Normal.Dot(wi.Negate()))
	if cosLight <= 0 {
		return core.Vec3{}
	}

	if pt.scene.Occluded(core.NewRay(pt.offset(hit), wi), dist-core.RayEpsilon) {
		return core.Vec3{}
	}

	f := mat.Eval(wi, wo, hit.Normal, hit.UV)
	return ls.Emission.MultiplyVec(f).Multiply(cosSurface * cosLight / (ls.PDF * distSquared))
}
