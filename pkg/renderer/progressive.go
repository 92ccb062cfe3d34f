package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/imageio"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInterrupted is returned when a render is cancelled before its last pass
var ErrInterrupted = errors.New("render interrupted")

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed for every tile stream
	MaxDepth           int   // Path length cap (0 = scene default)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 4,
		MaxPasses:          3, // 1, 2, then the rest
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               42,
		MaxDepth:           5,
	}
}

// normalize fills unset fields so the sample schedule is always well defined
func (c ProgressiveConfig) normalize(sampling scene.SamplingConfig) ProgressiveConfig {
	if c.TileSize <= 0 {
		c.TileSize = 64
	}
	if c.MaxSamplesPerPixel <= 0 {
		c.MaxSamplesPerPixel = max(1, sampling.SamplesPerPixel)
	}
	if c.InitialSamples <= 0 {
		c.InitialSamples = 1
	}
	c.InitialSamples = min(c.InitialSamples, c.MaxSamplesPerPixel)
	if c.MaxPasses <= 0 {
		c.MaxPasses = 1
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = sampling.MaxDepth
	}
	return c
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	renderer      *TileRenderer
	workerPool    *WorkerPool
	logger        log.Logger
}

// NewProgressiveRaytracer prepares the scene for rendering at width x height.
// The scene must not be modified while the raytracer is in use.
func NewProgressiveRaytracer(s *scene.Scene, width, height int, config ProgressiveConfig, logger log.Logger) (*ProgressiveRaytracer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	config = config.normalize(s.SamplingConfig)

	aspect := float64(width) / float64(height)
	if s.CameraConfig.AspectRatio != aspect {
		s.SetAspectRatio(aspect)
	}
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("failed to preprocess scene: %w", err)
	}

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	pt := integrator.NewPathTracingIntegrator(s)

	return &ProgressiveRaytracer{
		scene:      s,
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize),
		pixelStats: pixelStats,
		renderer:   NewTileRenderer(s.Camera, pt, width, height, config.MaxDepth),
		logger:     logger,
	}, nil
}

// Config returns the effective configuration after defaults were applied
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// renderPass renders a single progressive pass on the running worker pool
func (pr *ProgressiveRaytracer) renderPass(passNumber int, tileCallback func(TileCompletionResult)) (*imageio.Framebuffer, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Infof("pass %d: target %d samples per pixel (using %d workers)",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Collect every result so no task is left behind, then report the first error
	var firstErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	fb, stats := pr.assembleCurrentImage(targetSamples)
	return fb, stats, nil
}

// extractTileImage copies a tile's current estimate out of the shared pixel stats
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *imageio.Framebuffer {
	bounds := tile.Bounds
	fb := imageio.NewFramebuffer(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			fb.Set(x-bounds.Min.X, y-bounds.Min.Y, pr.pixelStats[y][x].GetColor())
		}
	}
	return fb
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *imageio.Framebuffer // linear radiance
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *imageio.Framebuffer // Linear radiance for just this tile
	PassNumber int                  // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass on a background goroutine and reports through channels.
// If options.TileUpdates is false, the tile channel is closed immediately.
// Cancelling ctx stops the render between tiles; ErrInterrupted is then sent on the error channel.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	pr.workerPool = NewWorkerPool(ctx, pr.renderer, len(pr.tiles), pr.config.NumWorkers, pr.config.Seed)

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.workerPool.Start()
		defer pr.workerPool.Stop()

		pr.logger.Noticef("rendering %dx%d in %d passes (%d tiles, max %d spp, depth %d)",
			pr.width, pr.height, pr.config.MaxPasses, len(pr.tiles), pr.config.MaxSamplesPerPixel, pr.config.MaxDepth)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			if err := ctx.Err(); err != nil {
				pr.logger.Warningf("rendering cancelled before pass %d", pass)
				errChan <- fmt.Errorf("%w before pass %d: %w", ErrInterrupted, pass, err)
				return
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full; previews can skip a tile
					}
				}
			}

			fb, stats, err := pr.renderPass(pass, tileCallback)
			if err != nil {
				if ctx.Err() != nil {
					pr.logger.Warningf("rendering cancelled during pass %d", pass)
					err = fmt.Errorf("%w during pass %d: %w", ErrInterrupted, pass, err)
				}
				errChan <- err
				return
			}
			stats.Elapsed = time.Since(startTime)

			actualSamples := int(stats.AverageSamples)
			pr.logger.Infof("pass %d completed in %v (actual: %d samples/pixel)", pass, stats.Elapsed, actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: fb, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- fmt.Errorf("%w after pass %d: %w", ErrInterrupted, pass, ctx.Err())
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Render runs every pass to completion and returns the final image.
// On cancellation the last finished pass is returned along with ErrInterrupted.
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*imageio.Framebuffer, RenderStats, error) {
	start := time.Now()
	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})

	var last PassResult
	for result := range passChan {
		last = result
	}

	err := <-errChan
	if last.Image != nil {
		last.Stats.Elapsed = time.Since(start)
	}
	return last.Image, last.Stats, err
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*imageio.Framebuffer, RenderStats) {
	fb := imageio.NewFramebuffer(pr.width, pr.height)

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.config.MaxSamplesPerPixel, // Start high, will be reduced
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			fb.Set(x, y, pixel.GetColor())

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return fb, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// Sampler returns the random stream for one pass over this tile. It depends only
// on (seed, tile, pass), so results do not change with the worker count.
func (t *Tile) Sampler(seed int64, pass int) core.Sampler {
	return core.NewSeededSampler(core.StreamSeed(seed, t.ID, pass))
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
