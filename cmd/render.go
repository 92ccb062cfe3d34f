package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/imageio"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderFlags are the flags accepted by the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "scene, s",
		Value:  "cornell",
		Usage:  "built-in scene name or path to a wavefront obj file",
		EnvVar: "PATHTRACER_SCENE",
	},
	cli.IntFlag{
		Name:   "width",
		Usage:  "frame width (0 = scene default)",
		EnvVar: "PATHTRACER_WIDTH",
	},
	cli.IntFlag{
		Name:   "height",
		Usage:  "frame height (0 = scene default)",
		EnvVar: "PATHTRACER_HEIGHT",
	},
	cli.IntFlag{
		Name:   "spp",
		Usage:  "samples per pixel (0 = scene default)",
		EnvVar: "PATHTRACER_SPP",
	},
	cli.IntFlag{
		Name:   "depth",
		Usage:  "maximum path length (0 = scene default)",
		EnvVar: "PATHTRACER_DEPTH",
	},
	cli.IntFlag{
		Name:   "passes",
		Value:  renderer.DefaultProgressiveConfig().MaxPasses,
		Usage:  "maximum number of progressive passes",
		EnvVar: "PATHTRACER_PASSES",
	},
	cli.IntFlag{
		Name:   "workers",
		Usage:  "number of render workers (0 = one per CPU)",
		EnvVar: "PATHTRACER_WORKERS",
	},
	cli.Int64Flag{
		Name:   "seed",
		Value:  renderer.DefaultProgressiveConfig().Seed,
		Usage:  "base seed for the per-tile random streams",
		EnvVar: "PATHTRACER_SEED",
	},
	cli.BoolFlag{
		Name:   "bvh",
		Usage:  "intersect through a bounding volume hierarchy",
		EnvVar: "PATHTRACER_BVH",
	},
	cli.StringFlag{
		Name:   "out, o",
		Value:  "frame.png",
		Usage:  "image filename for the rendered frame (.png or .ppm)",
		EnvVar: "PATHTRACER_OUT",
	},
	cli.StringFlag{
		Name:   "dump",
		Usage:  "also write the linear radiance buffer to this file",
		EnvVar: "PATHTRACER_DUMP",
	},
	cli.StringFlag{
		Name:   "codec",
		Value:  imageio.DefaultCompressor,
		Usage:  "radiance dump compression (none, snappy, zstd)",
		EnvVar: "PATHTRACER_CODEC",
	},
}

// RenderFrame renders a still frame and writes it to disk.
// An interrupt stops the render and keeps the last completed pass.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	codec, err := imageio.CompressorByName(ctx.String("codec"))
	if err != nil {
		return err
	}

	preset, err := scene.Lookup(ctx.String("scene"))
	if err != nil {
		return err
	}

	sc, err := preset.Build(scene.SamplingConfig{
		Width:           ctx.Int("width"),
		Height:          ctx.Int("height"),
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("depth"),
	})
	if err != nil {
		return err
	}
	sc.UseBVH = ctx.Bool("bvh")

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
	config.MaxDepth = sc.SamplingConfig.MaxDepth
	config.MaxPasses = ctx.Int("passes")
	config.NumWorkers = ctx.Int("workers")
	config.Seed = ctx.Int64("seed")

	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	rt, err := renderer.NewProgressiveRaytracer(sc, width, height, config, logger)
	if err != nil {
		return err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering scene %q (%d primitives, %d lights)", preset.Name, sc.PrimitiveCount(), len(sc.Lights))
	fb, stats, err := rt.Render(renderCtx)
	if err != nil {
		if fb == nil || !errors.Is(err, renderer.ErrInterrupted) {
			return err
		}
		logger.Warningf("%v; saving the last completed pass", err)
	}

	if out := ctx.String("out"); out != "" {
		if err := imageio.WriteImage(out, fb); err != nil {
			return err
		}
		logger.Noticef("wrote %s", out)
	}

	if dump := ctx.String("dump"); dump != "" {
		if err := writeRadianceDump(dump, fb, codec); err != nil {
			return err
		}
		logger.Noticef("wrote radiance dump %s (%s)", dump, codec.Name())
	}

	displayRenderStats(rt.Config(), stats, renderer.AverageLuminance(fb))
	return nil
}

func writeRadianceDump(path string, fb *imageio.Framebuffer, codec imageio.Compressor) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create radiance dump: %w", err)
	}
	if err := imageio.WriteRadiance(f, fb, codec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderStatsTable(config renderer.ProgressiveConfig, stats renderer.RenderStats, luminance float64) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Samples", "Avg spp", "Min spp", "Max spp", "Depth", "Avg luminance", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%.1f", stats.AverageSamples),
		fmt.Sprintf("%d", stats.MinSamples),
		fmt.Sprintf("%d", stats.MaxSamplesUsed),
		fmt.Sprintf("%d", config.MaxDepth),
		fmt.Sprintf("%.4f", luminance),
		stats.Elapsed.String(),
	})
	table.Render()
	return buf.String()
}

func displayRenderStats(config renderer.ProgressiveConfig, stats renderer.RenderStats, luminance float64) {
	logger.Noticef("frame statistics\n%s", renderStatsTable(config, stats, luminance))
}
