package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
)

// objSceneConfig describes a well-known OBJ scene: its viewpoint and the
// light radiance keyed by material name, since MTL files carry no usable Ke.
type objSceneConfig struct {
	camera  geometry.CameraConfig
	options loaders.LoadOptions
}

// knownOBJScenes is keyed by the directory name the scene ships in
var knownOBJScenes = map[string]objSceneConfig{
	"cornell-box": {
		camera: CornellCamera,
		options: loaders.LoadOptions{
			Emission: map[string]core.Vec3{"Light1": CornellLight},
		},
	},
	"veach-mis": {
		camera: geometry.CameraConfig{
			LookFrom: core.NewVec3(28.2792, 3.5, 0.000001),
			LookAt:   core.NewVec3(27.2792, 3.5, 0.000001),
			Up:       core.NewVec3(0, 1, 0),
			VFov:     35,
		},
		options: loaders.LoadOptions{
			Emission: map[string]core.Vec3{
				"Light1": core.NewVec3(2, 2, 5),
				"Light2": core.NewVec3(40, 50, 20),
				"Light3": core.NewVec3(500, 200, 200),
			},
			GlossyFromSpecular: true,
		},
	},
	"living-room": {
		camera: geometry.CameraConfig{
			LookFrom: core.NewVec3(5.10518, 0.731065, -2.31789),
			LookAt:   core.NewVec3(4.143388, 0.805472, -2.054414),
			Up:       core.NewVec3(0.071763, 0.997228, -0.019659),
			VFov:     90,
		},
		options: loaders.LoadOptions{
			Emission: map[string]core.Vec3{"Light1": core.NewVec3(10, 8, 5)},
		},
	},
}

func matchOBJScene(path string) (objSceneConfig, bool) {
	slashed := filepath.ToSlash(path)
	for dir, cfg := range knownOBJScenes {
		if strings.Contains(slashed, dir) {
			return cfg, true
		}
	}
	return objSceneConfig{}, false
}

func objPreset(path string) Preset {
	return Preset{
		Name:        path,
		Description: fmt.Sprintf("Wavefront OBJ scene %s", filepath.Base(path)),
		Sampling:    DefaultSamplingConfig(),
		build: func(sampling SamplingConfig) (*Scene, error) {
			return NewOBJScene(path, sampling)
		},
	}
}

// NewOBJScene loads a Wavefront OBJ file as a single mesh. Known scenes get
// their camera and light radiance; any other file is framed from its bounds.
func NewOBJScene(path string, sampling SamplingConfig) (*Scene, error) {
	cfg, known := matchOBJScene(path)

	mesh, err := loaders.LoadOBJ(path, cfg.options)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}

	camera := cfg.camera
	if !known {
		camera = frameBounds(mesh.BoundingBox())
	}

	s := NewScene(camera, sampling)
	s.AddMesh(mesh)
	return s, nil
}

// frameBounds places the camera on +Z so the whole box fits a 40 degree view
func frameBounds(box core.AABB) geometry.CameraConfig {
	const vfov = 40.0
	center := box.Center()
	radius := box.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}
	dist := radius / math.Tan(vfov*math.Pi/360) * 1.1

	return geometry.CameraConfig{
		LookFrom: center.Add(core.NewVec3(0, 0, dist)),
		LookAt:   center,
		Up:       core.NewVec3(0, 1, 0),
		VFov:     vfov,
	}
}
