package imageio

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Framebuffer holds linear radiance, row-major with the top row first
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("framebuffer must have positive size, got %dx%d", width, height))
	}
	return &Framebuffer{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

// At returns the radiance stored at (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores radiance at (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pixels[y*fb.Width+x] = c
}
