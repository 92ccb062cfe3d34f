package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestNames(t *testing.T) {
	want := []string{"cornell", "glossy", "textured"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"cornell", false},
		{"glossy", false},
		{"textured", false},
		{"scenes/cornell-box/scene.obj", false},
		{"model.OBJ", false},
		{"dragon", true},
		{"model.ply", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name != tt.name {
				t.Errorf("Expected name %q, got %q", tt.name, p.Name)
			}
		})
	}
}

func TestPreset_BuildFillsDefaults(t *testing.T) {
	p, err := Lookup("glossy")
	if err != nil {
		t.Fatal(err)
	}

	s, err := p.Build(SamplingConfig{Width: 64})
	if err != nil {
		t.Fatal(err)
	}

	want := SamplingConfig{Width: 64, Height: 180, SamplesPerPixel: 16, MaxDepth: 5}
	if s.SamplingConfig != want {
		t.Errorf("Expected %+v, got %+v", want, s.SamplingConfig)
	}
	if s.CameraConfig.AspectRatio != 64.0/180.0 {
		t.Errorf("Expected aspect %v, got %v", 64.0/180.0, s.CameraConfig.AspectRatio)
	}
}

const cornellOBJ = `# Scene: Tiny Box
mtllib scene.mtl
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
v -0.2 1.98 -0.2
v 0.2 1.98 -0.2
v 0.2 1.98 0.2
v -0.2 1.98 0.2
usemtl floor
f 1 4 3 2
usemtl Light1
f 5 6 7 8
`

const cornellMTL = `newmtl floor
Kd 0.7 0.7 0.7
newmtl Light1
Kd 0 0 0
`

func writeOBJScene(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(cornellMTL), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scene.obj")
	if err := os.WriteFile(path, []byte(cornellOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewOBJScene_KnownScene(t *testing.T) {
	path := writeOBJScene(t, filepath.Join(t.TempDir(), "cornell-box"))

	s, err := NewOBJScene(path, DefaultSamplingConfig())
	if err != nil {
		t.Fatalf("NewOBJScene failed: %v", err)
	}
	s.Preprocess()

	if s.CameraConfig.LookFrom != CornellCamera.LookFrom || s.CameraConfig.VFov != CornellCamera.VFov {
		t.Errorf("Expected the Cornell camera, got %+v", s.CameraConfig)
	}
	if len(s.Lights) != 2 {
		t.Fatalf("Expected 2 light triangles, got %d", len(s.Lights))
	}
	if e := s.Lights[0].Material().Emitted(); e != CornellLight {
		t.Errorf("Expected light radiance %v, got %v", CornellLight, e)
	}
}

func TestNewOBJScene_UnknownScene(t *testing.T) {
	path := writeOBJScene(t, filepath.Join(t.TempDir(), "mystery"))

	p, err := Lookup(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Build(SamplingConfig{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	s.Preprocess()

	// no radiance override, and the MTL has no Ke
	if len(s.Lights) != 0 {
		t.Errorf("Expected no lights, got %d", len(s.Lights))
	}
	if s.CameraConfig.LookAt.Subtract(core.NewVec3(0, 0.99, 0)).Length() > 1e-9 {
		t.Errorf("Expected camera framed on the bounds centre, got %v", s.CameraConfig.LookAt)
	}
	// below centre, toward the floor
	if _, hit := s.Hit(s.Camera.GenerateRay(0.5, 0.25)); !hit {
		t.Error("Expected the framed camera to see the floor")
	}
}

func TestNewOBJScene_MissingFile(t *testing.T) {
	if _, err := NewOBJScene(filepath.Join(t.TempDir(), "missing.obj"), DefaultSamplingConfig()); err == nil {
		t.Error("Expected error for missing file")
	}
}
