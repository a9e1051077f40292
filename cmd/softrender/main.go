// softrender - software rasterizer
// Renders an OBJ, glTF or STL model to a PNG or TGA image on the CPU, with
// an optional interactive terminal preview.
//
// Preview controls:
//
//	Arrows/WASD - Orbit the camera
//	+/-         - Zoom in/out
//	X           - Toggle wireframe overlay
//	G           - Toggle axes
//	R           - Reset view
//	Esc/Q       - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/softrender/internal/config"
	"github.com/taigrr/softrender/internal/logger"
	"github.com/taigrr/softrender/pkg/render"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(reportLoadError(os.Stderr, err))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}

	if cfg.Preview.Enabled {
		return runPreview(ctx, sc)
	}

	fb := render.NewFramebuffer(cfg.Image.Width, cfg.Image.Height)
	start := time.Now()
	stats, err := sc.render(fb, sc.camera())
	if err != nil {
		return err
	}
	logStats(stats, time.Since(start))

	return writeOutputs(fb, cfg)
}

func logStats(s render.RasterStats, elapsed time.Duration) {
	logger.Info("render done",
		zap.Int("triangles", s.Triangles),
		zap.Int("fragments", s.Fragments),
		zap.Duration("elapsed", elapsed),
	)
	logger.Debug("skipped geometry",
		zap.Int("degenerate", s.Degenerate),
		zap.Int("behind_camera", s.BehindCamera),
		zap.Int("offscreen", s.Offscreen),
		zap.Int("occluded", s.Occluded),
		zap.Int("discarded", s.Discarded),
	)
}

// writeOutputs flips the framebuffer to a bottom-left origin and writes the
// color image and, when configured, the depth image.
func writeOutputs(fb *render.Framebuffer, cfg *config.Config) error {
	fb.FlipVertically()

	if err := render.SaveImage(cfg.Output.Color, render.Upscale(fb.ToImage(), cfg.Image.Upscale)); err != nil {
		return fmt.Errorf("write color image: %w", err)
	}
	logger.Info("wrote image", zap.String("path", cfg.Output.Color))

	if cfg.Output.Depth != "" {
		img := render.Upscale(fb.DepthImage(cfg.Viewport.DepthRange), cfg.Image.Upscale)
		if err := render.SaveImage(cfg.Output.Depth, img); err != nil {
			return fmt.Errorf("write depth image: %w", err)
		}
		logger.Info("wrote depth image", zap.String("path", cfg.Output.Depth))
	}
	return nil
}

// reportLoadError prints a configuration error unless the flag set already
// did, and returns the exit code for it.
func reportLoadError(w io.Writer, err error) int {
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrUsage):
		return 2
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
}
