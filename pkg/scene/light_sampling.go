package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// LightSample is a point chosen on the light set, with its density in area measure
type LightSample struct {
	Point    core.Vec3
	Normal   core.Vec3
	Emission core.Vec3
	PDF      float64
}

// SampleLight picks a point uniformly by area over all lights.
// It fails when the scene has no lights of positive area.
func (s *Scene) SampleLight(sampler core.Sampler) (LightSample, bool) {
	if len(s.Lights) == 0 || s.totalLightArea <= 0 {
		return LightSample{}, false
	}

	// area-proportional pick; the last light absorbs rounding
	r := sampler.Get1D() * s.totalLightArea
	light := s.Lights[len(s.Lights)-1]
	for _, l := range s.Lights {
		a := l.Area()
		if r <= a {
			light = l
			break
		}
		r -= a
	}

	u, v, w := core.SampleUniformTriangle(sampler.Get2D())

	sample := LightSample{
		Point:  light.PointAt(u, v, w),
		Normal: light.Normal(),
		PDF:    1.0 / s.totalLightArea,
	}
	if m := light.Material(); m != nil && m.IsEmissive() {
		sample.Emission = m.Emitted()
	}
	return sample, true
}
