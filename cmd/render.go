package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Endoctrine/nebula/asset/compiler"
	"github.com/Endoctrine/nebula/asset/compiler/input"
	"github.com/Endoctrine/nebula/asset/scene/reader"
	"github.com/Endoctrine/nebula/renderer"
	"github.com/Endoctrine/nebula/tracer"
	"github.com/urfave/cli"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	// Load scene and apply camera overrides
	sceneFile := ctx.Args().First()
	logger.Noticef("parsing scene: %s", sceneFile)
	rawScene, err := reader.ReadRawScene(sceneFile)
	if err != nil {
		return err
	}
	applyCameraOverrides(ctx, rawScene)

	start := time.Now()
	sc, err := compiler.Compile(rawScene, float32(opts.FrameW)/float32(opts.FrameH))
	if err != nil {
		return err
	}
	logger.Infof("compiled scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	logger.Debugf("scene information:\n%s", sc.Stats())

	// Abort the render on SIGINT/SIGTERM
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering %dx%d frame with %d spp", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	buf, stats, err := renderer.Render(renderCtx, sc, opts)
	if err != nil {
		return err
	}
	logger.Noticef("frame statistics\n%s", stats.Table())

	img, err := renderer.Tonemap(buf, opts.FrameW, opts.FrameH, opts.Exposure)
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	start = time.Now()
	if err = writeImage(imgFile, img); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}

// Build render options from the command flags.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	opts.FrameW = uint32(ctx.Uint("width"))
	opts.FrameH = uint32(ctx.Uint("height"))
	opts.SamplesPerPixel = uint32(ctx.Uint("spp"))
	opts.MaxDepth = uint32(ctx.Uint("bounces"))
	opts.Workers = ctx.Int("workers")
	opts.Seed = ctx.Int64("seed")
	opts.Exposure = float32(ctx.Float64("exposure"))

	scheduler, ok := tracer.SchedulerByName(ctx.String("scheduler"))
	if !ok {
		return opts, fmt.Errorf("unknown block scheduler %q", ctx.String("scheduler"))
	}
	opts.Scheduler = scheduler

	return opts, opts.Validate()
}

func applyCameraOverrides(ctx *cli.Context, rawScene *input.Scene) {
	if ctx.IsSet("fov") {
		rawScene.Camera.FOV = float32(ctx.Float64("fov"))
	}
	if ctx.IsSet("lens-radius") {
		rawScene.Camera.LensRadius = float32(ctx.Float64("lens-radius"))
	}
	if ctx.IsSet("focus-distance") {
		rawScene.Camera.FocusDistance = float32(ctx.Float64("focus-distance"))
	}
}

// Write image to a file using the encoder that matches the file extension.
func writeImage(imgFile string, img image.Image) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}

	err = encodeImage(f, filepath.Ext(imgFile), img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func encodeImage(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png", "":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q", ext)
}
