package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns.
// A Sampler is not safe for concurrent use; every worker owns its own stream.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler whose stream is fully determined by seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// StreamSeed mixes a base seed with stream coordinates (tile, pass, ...) so that
// neighbouring streams do not start from correlated generator states.
func StreamSeed(base int64, coords ...int) int64 {
	h := uint64(base) ^ 0x9e3779b97f4a7c15
	for _, c := range coords {
		h ^= uint64(c) + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
		h ^= h >> 31
		h *= 0xbf58476d1ce4e5b9
		h ^= h >> 27
	}
	return int64(h >> 1)
}

// OrthonormalBasis returns two unit tangents that together with normal form a
// right-handed frame. The helper axis is world Y unless the normal has almost
// no X component, in which case world X is used.
func OrthonormalBasis(normal Vec3) (tangent, bitangent Vec3) {
	var helper Vec3
	if math.Abs(normal.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}

	bitangent = normal.Cross(helper).Normalize()
	tangent = bitangent.Cross(normal)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	r2 := sample.Y
	r2s := math.Sqrt(r2)

	x := math.Cos(phi) * r2s
	y := math.Sin(phi) * r2s
	z := math.Sqrt(1.0 - r2)

	u, v := OrthonormalBasis(normal)
	return u.Multiply(x).Add(v.Multiply(y)).Add(normal.Multiply(z)).Normalize()
}

// SampleUniformTriangle maps a uniform square sample to barycentric weights
// (u, v, w) that are uniformly distributed by area over a triangle.
func SampleUniformTriangle(sample Vec2) (u, v, w float64) {
	sqrtR1 := math.Sqrt(sample.X)
	u = 1.0 - sqrtR1
	v = sample.Y * sqrtR1
	w = 1.0 - u - v
	return u, v, w
}
