package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestTriangle_Intersect(t *testing.T) {
	// Triangle in the XY plane, normal +Z
	triangle := NewTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		material.NewDiffuse(core.Splat(0.5)),
	)

	tests := []struct {
		name          string
		ray           core.Ray
		tMax          float64
		shouldHit     bool
		expectedT     float64
		expectedFront bool
	}{
		{
			name:      "Hits from behind the normal",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			tMax:      math.Inf(1),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:          "Hits front face",
			ray:           core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			tMax:          math.Inf(1),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: true,
		},
		{
			name:      "Hits edge",
			ray:       core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1)),
			tMax:      math.Inf(1),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name: "Misses outside",
			ray:  core.NewRay(core.NewVec3(1, 1, -1), core.NewVec3(0, 0, 1)),
			tMax: math.Inf(1),
		},
		{
			name: "Parallel to plane",
			ray:  core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)),
			tMax: math.Inf(1),
		},
		{
			name: "Behind origin",
			ray:  core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)),
			tMax: math.Inf(1),
		},
		{
			name: "Not closer than existing hit",
			ray:  core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			tMax: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewHitRecord(tt.tMax)
			isHit := triangle.Intersect(tt.ray, &rec)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				if rec.T != tt.tMax {
					t.Errorf("Record modified on miss: T=%v", rec.T)
				}
				return
			}

			if math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Errorf("Normal %v does not face the ray %v", rec.Normal, tt.ray.Direction)
			}
			if rec.Material != triangle.Material() {
				t.Error("Expected hit record to reference the triangle material")
			}
		})
	}
}

func TestTriangle_Area(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 core.Vec3
		expected   float64
	}{
		{"Unit right triangle", core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), 0.5},
		{"Scaled", core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 3), 3.0},
		{"Degenerate", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri := NewTriangle(tt.v0, tt.v1, tt.v2, nil)
			if math.Abs(tri.Area()-tt.expected) > 1e-12 {
				t.Errorf("Expected area %v, got %v", tt.expected, tri.Area())
			}
		})
	}
}

func TestTriangle_UVInterpolation(t *testing.T) {
	tri := NewTriangleWithUV(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1),
		nil,
	)

	rec := NewHitRecord(math.Inf(1))
	if !tri.Intersect(core.NewRay(core.NewVec3(0.25, 0.5, 1), core.NewVec3(0, 0, -1)), &rec) {
		t.Fatal("Expected hit")
	}

	expected := core.NewVec2(0.25, 0.5)
	if math.Abs(rec.UV.X-expected.X) > 1e-9 || math.Abs(rec.UV.Y-expected.Y) > 1e-9 {
		t.Errorf("Expected UV %v, got %v", expected, rec.UV)
	}

	plain := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	rec = NewHitRecord(math.Inf(1))
	rec.UV = core.NewVec2(9, 9)
	plain.Intersect(core.NewRay(core.NewVec3(0.25, 0.5, 1), core.NewVec3(0, 0, -1)), &rec)
	if rec.UV != (core.Vec2{}) {
		t.Errorf("Expected zero UV without per-vertex UVs, got %v", rec.UV)
	}
}

func TestTriangle_BoundingBox(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(1, 3, 0), nil)
	bbox := triangle.BoundingBox()

	if bbox.Min.X != 0 || bbox.Min.Y != 0 || bbox.Max.X != 2 || bbox.Max.Y != 3 {
		t.Errorf("Unexpected bounds %v", bbox)
	}
	if bbox.Size().Z <= 0 {
		t.Errorf("Expected flat axis to be padded, got %v", bbox.Size())
	}
}

func TestNewQuad(t *testing.T) {
	light := material.NewEmissive(core.Splat(1))
	tris := NewQuad(core.NewVec3(0, 2, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), light)

	if len(tris) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(tris))
	}

	total := 0.0
	for _, tri := range tris {
		total += tri.Area()
		// u x v = (1,0,0) x (0,0,1)
		if tri.Normal().Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-9 {
			t.Errorf("Unexpected quad normal %v", tri.Normal())
		}
		if !tri.IsEmissive() {
			t.Error("Expected quad triangles to share the emissive material")
		}
	}
	if math.Abs(total-1.0) > 1e-12 {
		t.Errorf("Expected total area 1, got %v", total)
	}
}
