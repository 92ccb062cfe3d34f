package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator.
// It holds no mutable state, so one instance is shared by every worker.
type TileRenderer struct {
	camera     *geometry.Camera
	integrator integrator.Integrator
	width      int
	height     int
	maxDepth   int
}

// NewTileRenderer creates a new tile renderer for an image of the given size
func NewTileRenderer(camera *geometry.Camera, integratorInst integrator.Integrator, width, height, maxDepth int) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		integrator: integratorInst,
		width:      width,
		height:     height,
		maxDepth:   maxDepth,
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples.
// Row 0 of pixelStats is the top of the image.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := tr.samplePixel(i, j, &pixelStats[j][i], sampler, targetSamples)
			tr.updateStats(&stats, samplesUsed)
		}
	}

	tr.finalizeStats(&stats)
	return stats
}

// samplePixel takes jittered samples until the pixel reaches maxSamples
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler, maxSamples int) int {
	initialSampleCount := ps.SampleCount

	// camera t runs bottom to top
	row := tr.height - 1 - j
	for ps.SampleCount < maxSamples {
		jitter := sampler.Get2D()
		s := (float64(i) + jitter.X) / float64(tr.width)
		t := (float64(row) + jitter.Y) / float64(tr.height)

		ray := tr.camera.GenerateRay(s, t)
		ps.AddSample(tr.integrator.CastRay(ray, tr.maxDepth, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

// updateStats updates the render statistics with data from a single pixel
func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}
