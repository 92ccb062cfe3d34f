package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by WriteImage for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported image format")

// EncodePNG writes the tone-mapped framebuffer as PNG
func EncodePNG(w io.Writer, fb *Framebuffer) error {
	if err := png.Encode(w, ToneMap(fb)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WritePNG saves the tone-mapped framebuffer to a PNG file
func WritePNG(path string, fb *Framebuffer) error {
	return writeFile(path, func(w io.Writer) error { return EncodePNG(w, fb) })
}

// WritePPM writes the tone-mapped framebuffer as an ASCII (P3) PPM
func WritePPM(w io.Writer, fb *Framebuffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := ToneMapColor(fb.At(x, y))
			fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}

// WriteImage saves the framebuffer, choosing PNG or PPM from the file extension
func WriteImage(path string, fb *Framebuffer) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return WritePNG(path, fb)
	case ".ppm":
		return writeFile(path, func(w io.Writer) error { return WritePPM(w, fb) })
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
