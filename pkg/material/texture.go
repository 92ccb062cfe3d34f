package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Texture maps surface texture coordinates to an RGB reflectance
type Texture interface {
	Lookup(uv core.Vec2) core.Vec3
}

// TextureFunc adapts an ordinary function to the Texture interface
type TextureFunc func(uv core.Vec2) core.Vec3

// Lookup calls f(uv)
func (f TextureFunc) Lookup(uv core.Vec2) core.Vec3 {
	return f(uv)
}

// ImageTexture holds 8-bit samples in row-major order, top row first.
// Channels is 1 (gray), 3 (RGB) or 4 (RGBA); alpha is ignored.
type ImageTexture struct {
	Width    int
	Height   int
	Channels int
	Data     []uint8
}

// NewImageTexture wraps decoded 8-bit pixel data
func NewImageTexture(width, height, channels int, data []uint8) *ImageTexture {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("image texture must have positive size, got %dx%d", width, height))
	}
	if channels < 1 || channels > 4 {
		panic(fmt.Sprintf("unsupported channel count %d", channels))
	}
	if len(data) != width*height*channels {
		panic(fmt.Sprintf("image texture expects %d bytes, got %d", width*height*channels, len(data)))
	}
	return &ImageTexture{Width: width, Height: height, Channels: channels, Data: data}
}

// Lookup samples the texture with nearest-neighbor filtering and repeat wrapping.
// v=0 is the bottom of the image.
func (t *ImageTexture) Lookup(uv core.Vec2) core.Vec3 {
	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)

	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))
	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	i := (y*t.Width + x) * t.Channels
	if t.Channels < 3 {
		g := float64(t.Data[i]) / 255.0
		return core.Splat(g)
	}
	return core.NewVec3(
		float64(t.Data[i])/255.0,
		float64(t.Data[i+1])/255.0,
		float64(t.Data[i+2])/255.0,
	)
}

// NewCheckerboardTexture creates a procedural checkerboard image texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	data := make([]uint8, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			color := color1
			if (x/checkSize+y/checkSize)%2 != 0 {
				color = color2
			}

			i := (y*width + x) * 3
			data[i] = quantize(color.X)
			data[i+1] = quantize(color.Y)
			data[i+2] = quantize(color.Z)
		}
	}

	return NewImageTexture(width, height, 3, data)
}

// NewUVDebugTexture maps U to red and V to green, useful for checking mesh UVs
func NewUVDebugTexture() TextureFunc {
	return func(uv core.Vec2) core.Vec3 {
		u := uv.X - math.Floor(uv.X)
		v := uv.Y - math.Floor(uv.Y)
		return core.NewVec3(u, v, 0)
	}
}

func quantize(c float64) uint8 {
	return uint8(math.Max(0, math.Min(1, c))*255.0 + 0.5)
}
