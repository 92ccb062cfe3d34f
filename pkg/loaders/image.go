package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-pathtracer/pkg/material"
)

// LoadImage decodes a PNG or JPEG file into an 8-bit texture.
// Grayscale images keep a single channel; everything else becomes RGB.
func LoadImage(filename string) (*material.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		data := make([]uint8, 0, width*height)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := gray.Pix[(y-bounds.Min.Y)*gray.Stride:]
			data = append(data, row[:width]...)
		}
		return material.NewImageTexture(width, height, 1, data), nil
	}

	data := make([]uint8, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// RGBA is 16-bit premultiplied; keep the high byte
			r, g, b, _ := img.At(x, y).RGBA()
			data = append(data, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return material.NewImageTexture(width, height, 3, data), nil
}
