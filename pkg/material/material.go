package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Model selects the reflectance model of a Material
type Model int

const (
	// Diffuse is a pure Lambertian reflector
	Diffuse Model = iota
	// Phong adds a normalized Blinn-Phong specular lobe to the Lambertian base
	Phong
)

func (m Model) String() string {
	switch m {
	case Diffuse:
		return "diffuse"
	case Phong:
		return "phong"
	default:
		return "unknown"
	}
}

// Material describes how a surface reflects and emits light.
// Materials are immutable once the scene is built and are shared by pointer
// between every primitive that references them.
type Material struct {
	Name     string
	Color    core.Vec3 // albedo, used when Texture is nil
	Emission core.Vec3
	Model    Model
	Specular core.Vec3
	Exponent float64
	Texture  Texture
}

var defaultGray = Material{Name: "default", Color: core.Splat(0.8), Model: Diffuse}

// DefaultGray returns the 0.8 gray diffuse material used for surfaces without one
func DefaultGray() *Material {
	return &defaultGray
}

// NewDiffuse creates a Lambertian material with a solid albedo
func NewDiffuse(albedo core.Vec3) *Material {
	return &Material{Color: albedo, Model: Diffuse}
}

// NewTextured creates a Lambertian material whose albedo comes from a texture
func NewTextured(texture Texture) *Material {
	return &Material{Color: core.Splat(1), Model: Diffuse, Texture: texture}
}

// NewPhong creates a glossy material with a diffuse base and a Blinn-Phong lobe
func NewPhong(albedo, specular core.Vec3, exponent float64) *Material {
	return &Material{Color: albedo, Model: Phong, Specular: specular, Exponent: exponent}
}

// NewEmissive creates a light-emitting material with a black albedo
func NewEmissive(emission core.Vec3) *Material {
	return &Material{Emission: emission, Model: Diffuse}
}

// Emitted returns the radiance emitted by the surface
func (m *Material) Emitted() core.Vec3 {
	return m.Emission
}

// IsEmissive reports whether any emission channel is positive
func (m *Material) IsEmissive() bool {
	return m.Emission.HasPositive()
}

// Albedo returns the diffuse reflectance at the given texture coordinate
func (m *Material) Albedo(uv core.Vec2) core.Vec3 {
	if m.Texture != nil {
		return m.Texture.Lookup(uv)
	}
	return m.Color
}

// Eval returns the BRDF value for light arriving along wi and leaving along wo.
// Both directions point away from the surface; the result is zero unless both
// lie in the hemisphere of n.
func (m *Material) Eval(wi, wo, n core.Vec3, uv core.Vec2) core.Vec3 {
	if n.Dot(wi) <= 0 || n.Dot(wo) <= 0 {
		return core.Vec3{}
	}

	f := m.Albedo(uv).Multiply(1.0 / math.Pi)

	if m.Model == Phong && m.Exponent > 0 {
		h := wi.Add(wo).Normalize()
		cosH := n.Dot(h)
		if cosH > 0 {
			norm := (m.Exponent + 2.0) / (2.0 * math.Pi)
			f = f.Add(m.Specular.Multiply(norm * math.Pow(cosH, m.Exponent)))
		}
	}

	return f
}

// Sample draws an incident direction around n with a cosine-weighted density.
// The glossy lobe is not importance sampled; both models share this sampler.
func (m *Material) Sample(n core.Vec3, sampler core.Sampler) (core.Vec3, float64) {
	wi := core.SampleCosineHemisphere(n, sampler.Get2D())
	return wi, m.PDF(wi, n)
}

// PDF returns the solid-angle density Sample would assign to wi
func (m *Material) PDF(wi, n core.Vec3) float64 {
	return math.Max(0, n.Dot(wi)) / math.Pi
}
