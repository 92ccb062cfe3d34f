package renderer

import (
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/imageio"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxSamples     int           // Target samples per pixel for the pass
	MinSamples     int           // Minimum samples taken per pixel
	MaxSamplesUsed int           // Maximum samples actually used by any pixel
	Elapsed        time.Duration // Wall time of the pass, or of the whole render
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for variance
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the sample variance of the pixel luminance
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return max(0, ps.LuminanceSqAccum/n-mean*mean)
}

// AverageLuminance returns the mean linear luminance of a framebuffer
func AverageLuminance(fb *imageio.Framebuffer) float64 {
	if len(fb.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range fb.Pixels {
		total += p.Luminance()
	}
	return total / float64(len(fb.Pixels))
}
