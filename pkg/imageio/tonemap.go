package imageio

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ToneMapColor clamps linear radiance to [0,1], applies gamma 2 and quantizes to 8 bits
func ToneMapColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255.999 * math.Sqrt(c.X)),
		G: uint8(255.999 * math.Sqrt(c.Y)),
		B: uint8(255.999 * math.Sqrt(c.Z)),
		A: 255,
	}
}

// ToneMap converts a linear framebuffer into a displayable 8-bit image
func ToneMap(fb *Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, ToneMapColor(fb.At(x, y)))
		}
	}
	return img
}
