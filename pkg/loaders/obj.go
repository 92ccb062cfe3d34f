package loaders

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

// LoadOptions adjusts how OBJ materials are turned into render materials
type LoadOptions struct {
	// Emission overrides the radiance of the named materials
	Emission map[string]core.Vec3

	// GlossyFromSpecular turns materials with Ks > 0 and Kd = 0 into Phong
	// materials with a faint 0.02 diffuse base and exponent max(1, Ns/4).
	GlossyFromSpecular bool
}

// mtlMaterial holds the MTL statements we understand
type mtlMaterial struct {
	name  string
	kd    core.Vec3
	ks    core.Vec3
	ke    core.Vec3
	ns    float64
	mapKd string
	dir   string // directory map_Kd is relative to
}

type objReader struct {
	logger  log.Logger
	options LoadOptions

	mtls      map[string]*mtlMaterial
	materials map[string]*material.Material // built lazily, shared between faces
	current   *material.Material

	vertices []core.Vec3
	uvs      []core.Vec2

	triangles []*geometry.Triangle
	skipped   int

	errStack []string
}

// LoadOBJ parses a Wavefront OBJ file (and its MTL libraries) into a single mesh.
// Polygons are fan-triangulated; faces before any usemtl get a nil material.
func LoadOBJ(path string, options LoadOptions) (*geometry.TriangleMesh, error) {
	r := &objReader{
		logger:    log.New("obj loader"),
		options:   options,
		mtls:      make(map[string]*mtlMaterial),
		materials: make(map[string]*material.Material),
	}

	r.logger.Noticef(`parsing scene from "%s"`, path)
	start := time.Now()

	if err := r.parse(path); err != nil {
		return nil, err
	}

	if r.skipped > 0 {
		r.logger.Warningf("skipped %d degenerate faces", r.skipped)
	}

	mesh := geometry.NewMeshFromTriangles(r.triangles)
	r.logger.Noticef("parsed %d triangles (%d emissive) in %d ms",
		mesh.TriangleCount(), len(mesh.EmissiveTriangles()), time.Since(start).Milliseconds())

	return mesh, nil
}

func (r *objReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	frames := strings.Join(r.errStack, "\n")
	return fmt.Errorf("%s", strings.Trim(fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, frames), "\n"))
}

func (r *objReader) parse(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	lineNum := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		switch tokens[0] {
		case "v":
			v, err := parseVec3(tokens)
			if err != nil {
				return r.emitError(path, lineNum, "%s", err.Error())
			}
			r.vertices = append(r.vertices, v)
		case "vt":
			uv, err := parseVec2(tokens)
			if err != nil {
				return r.emitError(path, lineNum, "%s", err.Error())
			}
			r.uvs = append(r.uvs, uv)
		case "f":
			if err := r.parseFace(tokens); err != nil {
				return r.emitError(path, lineNum, "%s", err.Error())
			}
		case "mtllib":
			if len(tokens) < 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "mtllib"; expected 1 argument; got %d`, len(tokens)-1)
			}
			r.errStack = append([]string{fmt.Sprintf("referenced from %s:%d [mtllib]", path, lineNum)}, r.errStack...)
			for _, lib := range tokens[1:] {
				if err := r.parseMaterials(filepath.Join(filepath.Dir(path), lib)); err != nil {
					return err
				}
			}
			r.errStack = r.errStack[1:]
		case "usemtl":
			if len(tokens) != 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(tokens)-1)
			}
			m, err := r.material(tokens[1])
			if err != nil {
				return r.emitError(path, lineNum, "%s", err.Error())
			}
			r.current = m
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// parseFace reads "f a b c ...", each vertex as v, v/vt, v//vn or v/vt/vn
func (r *objReader) parseFace(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 vertices; got %d`, len(tokens)-1)
	}

	n := len(tokens) - 1
	verts := make([]core.Vec3, n)
	uvs := make([]core.Vec2, n)
	hasUV := true

	for i := 0; i < n; i++ {
		parts := strings.Split(tokens[i+1], "/")
		vi, err := selectFaceCoordIndex(parts[0], len(r.vertices))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %w", i, err)
		}
		verts[i] = r.vertices[vi]

		if len(parts) > 1 && parts[1] != "" {
			ti, err := selectFaceCoordIndex(parts[1], len(r.uvs))
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %w", i, err)
			}
			uvs[i] = r.uvs[ti]
		} else {
			hasUV = false
		}
	}

	// fan around the first vertex
	for i := 1; i+1 < n; i++ {
		var t *geometry.Triangle
		if hasUV {
			t = geometry.NewTriangleWithUV(verts[0], verts[i], verts[i+1], uvs[0], uvs[i], uvs[i+1], r.current)
		} else {
			t = geometry.NewTriangle(verts[0], verts[i], verts[i+1], r.current)
		}
		if t.Area() == 0 {
			r.skipped++
			continue
		}
		r.triangles = append(r.triangles, t)
	}
	return nil
}

func (r *objReader) parseMaterials(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return r.emitError(path, 0, "failed to open material library: %s", err.Error())
	}
	defer file.Close()

	r.logger.Infof(`parsing material library "%s"`, path)

	var cur *mtlMaterial
	lineNum := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		if tokens[0] == "newmtl" {
			if len(tokens) != 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(tokens)-1)
			}
			if _, exists := r.mtls[tokens[1]]; exists {
				return r.emitError(path, lineNum, `material "%s" already defined`, tokens[1])
			}
			cur = &mtlMaterial{name: tokens[1], dir: filepath.Dir(path)}
			r.mtls[cur.name] = cur
			continue
		}

		if cur == nil {
			return r.emitError(path, lineNum, `got "%s" without a "newmtl"`, tokens[0])
		}

		var err error
		switch tokens[0] {
		case "Kd":
			cur.kd, err = parseVec3(tokens)
		case "Ks":
			cur.ks, err = parseVec3(tokens)
		case "Ke":
			cur.ke, err = parseVec3(tokens)
		case "Ns":
			cur.ns, err = parseFloat(tokens)
		case "map_Kd":
			if len(tokens) < 2 {
				err = fmt.Errorf(`unsupported syntax for "map_Kd"; expected 1 argument`)
			} else {
				// options such as -bm come first; the file name is last
				cur.mapKd = tokens[len(tokens)-1]
			}
		}
		if err != nil {
			return r.emitError(path, lineNum, "%s", err.Error())
		}
	}

	return scanner.Err()
}

// material converts an MTL entry into a render material on first use
func (r *objReader) material(name string) (*material.Material, error) {
	if m, ok := r.materials[name]; ok {
		return m, nil
	}

	mtl, ok := r.mtls[name]
	if !ok {
		return nil, fmt.Errorf(`undefined material with name "%s"`, name)
	}

	m := &material.Material{Name: name, Color: mtl.kd, Model: material.Diffuse, Emission: mtl.ke}

	if r.options.GlossyFromSpecular && mtl.ks.HasPositive() && !mtl.kd.HasPositive() {
		m.Model = material.Phong
		m.Color = core.Splat(0.02)
		m.Specular = mtl.ks
		m.Exponent = math.Max(1, mtl.ns*0.25)
	}

	if e, ok := r.options.Emission[name]; ok {
		m.Emission = e
	}

	if mtl.mapKd != "" {
		tex, err := LoadImage(filepath.Join(mtl.dir, mtl.mapKd))
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		m.Texture = tex
	}

	r.logger.Debugf("material %q: model=%s kd=%v emissive=%v", name, m.Model, m.Color, m.IsEmissive())
	r.materials[name] = m
	return m, nil
}

// selectFaceCoordIndex turns a 1-based (or negative, end-relative) OBJ index into a slice offset
func selectFaceCoordIndex(token string, listLen int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return -1, err
	}

	offset := index - 1
	if index < 0 {
		offset = listLen + index
	}
	if index == 0 || offset < 0 || offset >= listLen {
		return -1, fmt.Errorf("index %d out of bounds", index)
	}
	return offset, nil
}

func parseFloat(tokens []string) (float64, error) {
	if len(tokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, tokens[0], len(tokens)-1)
	}
	return strconv.ParseFloat(tokens[1], 64)
}

func parseVec3(tokens []string) (core.Vec3, error) {
	if len(tokens) < 4 {
		return core.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, tokens[0], len(tokens)-1)
	}

	var c [3]float64
	for i := range c {
		v, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return core.Vec3{}, err
		}
		c[i] = v
	}
	return core.NewVec3(c[0], c[1], c[2]), nil
}

func parseVec2(tokens []string) (core.Vec2, error) {
	if len(tokens) < 3 {
		return core.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, tokens[0], len(tokens)-1)
	}

	u, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	v, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.NewVec2(u, v), nil
}
