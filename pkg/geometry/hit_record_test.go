package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	tests := []struct {
		name          string
		dir           core.Vec3
		expectedFront bool
		expected      core.Vec3
	}{
		{"Against normal", core.NewVec3(0, -1, 0), true, outward},
		{"Along normal", core.NewVec3(0, 1, 0), false, outward.Negate()},
		{"Grazing is back face", core.NewVec3(1, 0, 0), false, outward.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec HitRecord
			rec.SetFaceNormal(core.NewRay(core.Vec3{}, tt.dir), outward)
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal != tt.expected {
				t.Errorf("Expected normal %v, got %v", tt.expected, rec.Normal)
			}
		})
	}
}

func TestCloser(t *testing.T) {
	a := HitRecord{T: 2, UV: core.NewVec2(1, 0)}
	b := HitRecord{T: 1, UV: core.NewVec2(2, 0)}
	c := HitRecord{T: 2, UV: core.NewVec2(3, 0)}

	if got := Closer(a, b); got.T != 1 {
		t.Errorf("Expected closer record, got T=%v", got.T)
	}
	if got := Closer(b, a); got.T != 1 {
		t.Errorf("Expected closer record regardless of order, got T=%v", got.T)
	}
	if got := Closer(a, c); got.UV != a.UV {
		t.Error("Expected tie to keep the first record")
	}
	if got := Closer(Closer(a, b), c); got.T != Closer(a, Closer(b, c)).T {
		t.Error("Expected Closer to be associative over T")
	}
}

func TestIntersect_OrderIndependent(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	prims := randomTriangles(random, 40)
	prims = append(prims, NewSphere(core.NewVec3(1, 1, 1), 2, nil))

	for i := 0; i < 200; i++ {
		ray := core.NewRay(
			core.NewVec3(random.Float64()*10-5, random.Float64()*10-5, 12),
			core.NewVec3(random.NormFloat64()*0.2, random.NormFloat64()*0.2, -1).Normalize(),
		)

		forward := NewHitRecord(math.Inf(1))
		for _, p := range prims {
			p.Intersect(ray, &forward)
		}

		shuffled := append([]Primitive(nil), prims...)
		random.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		backward := NewHitRecord(math.Inf(1))
		for _, p := range shuffled {
			p.Intersect(ray, &backward)
		}

		// Functional merge of independent per-primitive records
		merged := NewHitRecord(math.Inf(1))
		for _, p := range prims {
			single := NewHitRecord(math.Inf(1))
			p.Intersect(ray, &single)
			merged = Closer(merged, single)
		}

		if forward.T != backward.T || forward.T != merged.T {
			t.Fatalf("Ray %d: order-dependent result %v / %v / %v", i, forward.T, backward.T, merged.T)
		}
		if forward.Valid() && forward.Point != backward.Point {
			t.Fatalf("Ray %d: different hit points %v / %v", i, forward.Point, backward.Point)
		}
	}
}
