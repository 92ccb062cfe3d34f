package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Lookup for names that are neither built-in nor an OBJ path
var ErrUnknownScene = errors.New("unknown scene")

// Preset bundles a scene constructor with its recommended sampling configuration
type Preset struct {
	Name        string
	Description string
	Sampling    SamplingConfig
	build       func(SamplingConfig) (*Scene, error)
}

// Build constructs the scene using the given sampling configuration.
// Zero fields fall back to the preset's recommendation.
func (p Preset) Build(sampling SamplingConfig) (*Scene, error) {
	if sampling.Width <= 0 {
		sampling.Width = p.Sampling.Width
	}
	if sampling.Height <= 0 {
		sampling.Height = p.Sampling.Height
	}
	if sampling.SamplesPerPixel <= 0 {
		sampling.SamplesPerPixel = p.Sampling.SamplesPerPixel
	}
	if sampling.MaxDepth <= 0 {
		sampling.MaxDepth = p.Sampling.MaxDepth
	}
	return p.build(sampling)
}

func builtin(fn func(SamplingConfig) *Scene) func(SamplingConfig) (*Scene, error) {
	return func(sc SamplingConfig) (*Scene, error) {
		return fn(sc), nil
	}
}

var builtins = map[string]Preset{
	"cornell": {
		Name:        "cornell",
		Description: "Triangle Cornell box with a warm ceiling light",
		Sampling:    DefaultSamplingConfig(),
		build:       builtin(NewCornellScene),
	},
	"glossy": {
		Name:        "glossy",
		Description: "Four Phong plates lit by four lights of different sizes",
		Sampling:    SamplingConfig{Width: 320, Height: 180, SamplesPerPixel: 16, MaxDepth: 5},
		build:       builtin(NewGlossyScene),
	},
	"textured": {
		Name:        "textured",
		Description: "Checkerboard floor, textured sphere and a quad light",
		Sampling:    SamplingConfig{Width: 256, Height: 256, SamplesPerPixel: 16, MaxDepth: 5},
		build:       builtin(NewTexturedScene),
	},
}

// Names lists the built-in scenes in alphabetical order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a built-in scene name or a path to a Wavefront OBJ file
func Lookup(name string) (Preset, error) {
	if p, ok := builtins[name]; ok {
		return p, nil
	}
	if strings.EqualFold(filepath.Ext(name), ".obj") {
		return objPreset(name), nil
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}
