package loaders

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

const testMTL = `
newmtl white
Kd 0.8 0.8 0.8

newmtl Light1
Kd 0 0 0
Ke 1 1 1

newmtl shiny
Kd 0 0 0
Ks 0.5 0.5 0.5
Ns 400
`

func TestLoadOBJ_Basic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.mtl", testMTL)
	path := writeFile(t, dir, "scene.obj", `# quad and a light
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 2 0
v 1 2 0
v 1 3 0
usemtl white
f 1 2 3 4
usemtl Light1
f -3 -2 -1
`)

	mesh, err := LoadOBJ(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}

	if mesh.TriangleCount() != 3 {
		t.Fatalf("Expected 3 triangles, got %d", mesh.TriangleCount())
	}

	tris := mesh.Triangles()
	if tris[0].Material() != tris[1].Material() {
		t.Error("Expected fan triangles to share one material")
	}
	if got := tris[0].Material().Name; got != "white" {
		t.Errorf("Expected material white, got %s", got)
	}

	lights := mesh.EmissiveTriangles()
	if len(lights) != 1 {
		t.Fatalf("Expected 1 emissive triangle, got %d", len(lights))
	}
	if e := lights[0].Material().Emitted(); e != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected Ke emission (1,1,1), got %v", e)
	}

	// negative indices resolve against the vertices read so far
	a, b, c := lights[0].Vertices()
	if a != core.NewVec3(0, 2, 0) || b != core.NewVec3(1, 2, 0) || c != core.NewVec3(1, 3, 0) {
		t.Errorf("Unexpected light vertices %v %v %v", a, b, c)
	}
}

func TestLoadOBJ_Options(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.mtl", testMTL)
	path := writeFile(t, dir, "scene.obj", `mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl Light1
f 1 2 3
usemtl shiny
f 1 2 3
`)

	tests := []struct {
		name         string
		options      LoadOptions
		wantEmission core.Vec3
		wantModel    material.Model
	}{
		{"defaults", LoadOptions{}, core.NewVec3(1, 1, 1), material.Diffuse},
		{
			"overrides",
			LoadOptions{
				Emission:           map[string]core.Vec3{"Light1": core.NewVec3(34, 24, 8)},
				GlossyFromSpecular: true,
			},
			core.NewVec3(34, 24, 8),
			material.Phong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := LoadOBJ(path, tt.options)
			if err != nil {
				t.Fatalf("LoadOBJ failed: %v", err)
			}
			tris := mesh.Triangles()

			if got := tris[0].Material().Emitted(); got != tt.wantEmission {
				t.Errorf("Expected emission %v, got %v", tt.wantEmission, got)
			}

			shiny := tris[1].Material()
			if shiny.Model != tt.wantModel {
				t.Errorf("Expected model %s, got %s", tt.wantModel, shiny.Model)
			}
			if tt.wantModel == material.Phong {
				if shiny.Exponent != 100 {
					t.Errorf("Expected exponent 100, got %v", shiny.Exponent)
				}
				if shiny.Color != core.Splat(0.02) {
					t.Errorf("Expected diffuse base 0.02, got %v", shiny.Color)
				}
				if shiny.Specular != core.Splat(0.5) {
					t.Errorf("Expected specular 0.5, got %v", shiny.Specular)
				}
			}
		})
	}
}

func TestLoadOBJ_NoMaterial(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plain.obj", `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	mesh, err := LoadOBJ(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if m := mesh.Triangles()[0].Material(); m != nil {
		t.Errorf("Expected nil material, got %v", m)
	}
}

func TestLoadOBJ_FaceFormats(t *testing.T) {
	path := writeFile(t, t.TempDir(), "uv.obj", `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1//1 2//1 3//1
f 1/1 2/2 3/3
`)

	mesh, err := LoadOBJ(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}

	tris := mesh.Triangles()
	if len(tris) != 3 {
		t.Fatalf("Expected 3 triangles, got %d", len(tris))
	}

	withUV := []bool{true, false, true}
	for i, tri := range tris {
		_, _, uv2, has := tri.UVs()
		if has != withUV[i] {
			t.Errorf("Triangle %d: expected hasUV=%v, got %v", i, withUV[i], has)
		}
		if has && uv2 != core.NewVec2(0, 1) {
			t.Errorf("Triangle %d: expected uv2 (0,1), got %v", i, uv2)
		}
	}
}

func TestLoadOBJ_DegenerateFacesSkipped(t *testing.T) {
	path := writeFile(t, t.TempDir(), "degenerate.obj", `v 0 0 0
v 1 0 0
v 2 0 0
v 0 1 0
f 1 2 3
f 1 2 4
`)

	mesh, err := LoadOBJ(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("Expected 1 triangle, got %d", mesh.TriangleCount())
	}
}

func TestLoadOBJ_Texture(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	writePNG(t, filepath.Join(dir, "red.png"), img)

	writeFile(t, dir, "scene.mtl", `newmtl tex
Kd 1 1 1
map_Kd red.png
`)
	path := writeFile(t, dir, "scene.obj", `mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
usemtl tex
f 1/1 2/2 3/3
`)

	mesh, err := LoadOBJ(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}

	m := mesh.Triangles()[0].Material()
	if m.Texture == nil {
		t.Fatal("Expected texture to be loaded")
	}
	got := m.Albedo(core.NewVec2(0.3, 0.3))
	if math.Abs(got.X-1) > 1e-9 || got.Y != 0 || got.Z != 0 {
		t.Errorf("Expected red albedo, got %v", got)
	}
}

func TestLoadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n", "out of bounds"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "out of bounds"},
		{"bad vertex", "v 0 x 0\n", "bad.obj: 1] error"},
		{"short vertex", "v 0 0\n", "expected 3 arguments"},
		{"too few face vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3 vertices"},
		{"undefined material", "usemtl nope\n", `undefined material with name "nope"`},
		{"missing mtllib", "mtllib missing.mtl\n", "failed to open material library"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.obj", tt.content)
			_, err := LoadOBJ(path, LoadOptions{})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"), LoadOptions{}); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSelectFaceCoordIndex(t *testing.T) {
	tests := []struct {
		token   string
		listLen int
		want    int
		wantErr bool
	}{
		{"1", 3, 0, false},
		{"3", 3, 2, false},
		{"-1", 3, 2, false},
		{"-3", 3, 0, false},
		{"4", 3, -1, true},
		{"-4", 3, -1, true},
		{"0", 3, -1, true},
		{"x", 3, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := selectFaceCoordIndex(tt.token, tt.listLen)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
