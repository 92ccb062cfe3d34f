package scene

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// twoLightScene has a unit-area light at y=0 and a three-unit-area light at y=1
func twoLightScene() (*Scene, *material.Material, *material.Material) {
	small := material.NewEmissive(core.NewVec3(1, 2, 3))
	large := material.NewEmissive(core.NewVec3(4, 4, 4))

	s := NewScene(testCamera(), DefaultSamplingConfig())
	s.AddTriangles(geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), small)...)
	s.AddTriangles(geometry.NewQuad(core.NewVec3(0, 1, 0), core.NewVec3(3, 0, 0), core.NewVec3(0, 0, 1), large)...)
	s.Preprocess()
	return s, small, large
}

func TestSampleLight_NoLights(t *testing.T) {
	s := NewScene(testCamera(), DefaultSamplingConfig())
	s.AddTriangles(geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), nil)...)
	s.Preprocess()

	if _, ok := s.SampleLight(core.NewSeededSampler(1)); ok {
		t.Error("Expected sampling to fail without lights")
	}
}

func TestSampleLight_AreaBias(t *testing.T) {
	s, small, _ := twoLightScene()
	sampler := core.NewSeededSampler(7)

	const n = 40000
	smallHits := 0
	for i := 0; i < n; i++ {
		ls, ok := s.SampleLight(sampler)
		if !ok {
			t.Fatal("Expected a light sample")
		}
		if ls.Emission == small.Emission {
			smallHits++
		}
	}

	// small light has a quarter of the total area
	got := float64(smallHits) / n
	if math.Abs(got-0.25) > 0.01 {
		t.Errorf("Expected small light fraction 0.25, got %v", got)
	}
}

func TestSampleLight_Sample(t *testing.T) {
	s, small, large := twoLightScene()
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 1000; i++ {
		ls, _ := s.SampleLight(sampler)

		if math.Abs(ls.PDF-0.25) > 1e-12 {
			t.Fatalf("Expected constant pdf 0.25, got %v", ls.PDF)
		}
		if math.Abs(ls.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit normal, got %v", ls.Normal)
		}

		// the point must lie on the light that supplied the emission
		switch ls.Emission {
		case small.Emission:
			if !onRect(ls.Point, 0, 1) {
				t.Fatalf("Point %v is not on the small light", ls.Point)
			}
		case large.Emission:
			if !onRect(ls.Point, 1, 3) {
				t.Fatalf("Point %v is not on the large light", ls.Point)
			}
		default:
			t.Fatalf("Unexpected emission %v", ls.Emission)
		}
	}
}

// onRect reports whether p lies on the y=height rectangle [0,width]x[0,1]
func onRect(p core.Vec3, height, width float64) bool {
	const eps = 1e-9
	return math.Abs(p.Y-height) < eps &&
		p.X > -eps && p.X < width+eps &&
		p.Z > -eps && p.Z < 1+eps
}

// fixedSampler replays the same values so the light walk can be pinned down
type fixedSampler struct {
	u  float64
	uv core.Vec2
}

func (f fixedSampler) Get1D() float64 { return f.u }
func (f fixedSampler) Get2D() core.Vec2 { return f.uv }

func TestSampleLight_Selection(t *testing.T) {
	s, small, large := twoLightScene()

	tests := []struct {
		name string
		u    float64
		want core.Vec3
	}{
		{"first triangle", 0.0, small.Emission},
		{"boundary stays on first light", 0.25, small.Emission},
		{"second light", 0.3, large.Emission},
		{"end of range", 0.999999, large.Emission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls, ok := s.SampleLight(fixedSampler{u: tt.u, uv: core.NewVec2(0.5, 0.5)})
			if !ok {
				t.Fatal("Expected a light sample")
			}
			if ls.Emission != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, ls.Emission)
			}
		})
	}
}

func TestSampleLight_SkipsZeroAreaLights(t *testing.T) {
	dead := material.NewEmissive(core.NewVec3(9, 9, 9))
	live := material.NewEmissive(core.NewVec3(1, 1, 1))
	// collinear vertices: emissive but zero area
	degenerate := geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), dead)

	tests := []struct {
		name string
		add  func(s *Scene)
	}{
		{"AddTriangles", func(s *Scene) {
			s.AddTriangles(degenerate)
			s.AddTriangles(geometry.NewQuad(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), live)...)
		}},
		{"AddMesh", func(s *Scene) {
			tris := append([]*geometry.Triangle{degenerate},
				geometry.NewQuad(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), live)...)
			s.AddMesh(geometry.NewMeshFromTriangles(tris))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene(testCamera(), DefaultSamplingConfig())
			tt.add(s)
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}

			if len(s.Lights) != 2 {
				t.Fatalf("Expected 2 lights, got %d", len(s.Lights))
			}
			ls, ok := s.SampleLight(fixedSampler{u: 0, uv: core.NewVec2(0.5, 0.5)})
			if !ok {
				t.Fatal("Expected a light sample")
			}
			if ls.Emission != live.Emission {
				t.Errorf("Expected %v, got %v", live.Emission, ls.Emission)
			}
			if math.Abs(ls.Normal.Length()-1) > 1e-9 {
				t.Errorf("Expected unit normal, got %v", ls.Normal)
			}
		})
	}
}

func TestPreprocess_NonFiniteLightArea(t *testing.T) {
	s := NewScene(testCamera(), DefaultSamplingConfig())
	huge := geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1e200, 0, 0), core.NewVec3(0, 1e200, 0),
		material.NewEmissive(core.Splat(1)))
	s.AddTriangles(huge)

	if err := s.Preprocess(); err == nil {
		t.Error("Expected an error for a light with infinite area")
	}
}
