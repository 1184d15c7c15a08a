package renderer

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Endoctrine/nebula/asset/compiler"
	"github.com/Endoctrine/nebula/asset/compiler/input"
	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/tracer"
	"github.com/Endoctrine/nebula/types"
)

func TestOptionsValidate(t *testing.T) {
	type spec struct {
		mutate func(*Options)
		expErr error
	}
	specs := []spec{
		{func(o *Options) {}, nil},
		{func(o *Options) { o.FrameW = 0 }, ErrInvalidFrameDims},
		{func(o *Options) { o.FrameH = 0 }, ErrInvalidFrameDims},
		{func(o *Options) { o.SamplesPerPixel = 0 }, ErrInvalidSampleCount},
		{func(o *Options) { o.Workers = -1 }, ErrInvalidWorkerCount},
		{func(o *Options) { o.Exposure = 0 }, ErrInvalidExposure},
		{func(o *Options) { o.MaxDepth = 0 }, nil},
	}

	for index, s := range specs {
		opts := DefaultOptions()
		s.mutate(&opts)
		err := opts.Validate()
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	opts := testOptions(4, 4, 2)

	_, _, err := Render(context.Background(), nil, opts)
	if !errors.Is(err, ErrSceneNotDefined) {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}

	_, _, err = Render(context.Background(), &scene.Scene{}, opts)
	if !errors.Is(err, ErrCameraNotDefined) {
		t.Fatalf("expected ErrCameraNotDefined; got %v", err)
	}

	opts.SamplesPerPixel = 0
	_, _, err = Render(context.Background(), emissiveScene(t, 1), opts)
	if !errors.Is(err, ErrInvalidSampleCount) {
		t.Fatalf("expected ErrInvalidSampleCount; got %v", err)
	}
}

func TestRenderWithMultipleTracers(t *testing.T) {
	frameW, frameH := uint32(9), uint32(7)
	sc := emissiveScene(t, float32(frameW)/float32(frameH))
	opts := testOptions(frameW, frameH, 3)

	buf, stats, err := Render(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}

	if uint32(len(buf)) != frameW*frameH*3 {
		t.Fatalf("expected buffer length to be %d; got %d", frameW*frameH*3, len(buf))
	}

	center := 3 * ((frameH/2)*frameW + frameW/2)
	if !reflect.DeepEqual(buf[center:center+3], []float32{1, 1, 1}) {
		t.Fatalf("expected center pixel to match the emissive color; got %v", buf[center:center+3])
	}

	// Corners see the background
	for _, offset := range []uint32{0, 3 * (frameW*frameH - 1)} {
		if buf[offset] != 0 {
			t.Fatalf("expected corner pixel at offset %d to be black; got %v", offset, buf[offset:offset+3])
		}
	}

	if len(stats.Tracers) != 3 {
		t.Fatalf("expected stats for 3 tracers; got %d", len(stats.Tracers))
	}
	var rows uint32
	var percent float32
	for _, stat := range stats.Tracers {
		rows += stat.BlockH
		percent += stat.FramePercent
	}
	if rows != frameH {
		t.Fatalf("expected tracers to render %d rows in total; got %d", frameH, rows)
	}
	if math.Abs(float64(percent-100)) > 1e-3 {
		t.Fatalf("expected frame percentages to add up to 100; got %f", percent)
	}
}

func TestRenderIsDeterministicForFixedSeed(t *testing.T) {
	raw := input.NewScene()
	plaster := raw.AddMaterial(material.Plaster)
	raw.AddSphere(types.Vec3{0, 0, -3}, 1, plaster)
	raw.AddSphere(types.Vec3{0, -101, -3}, 100, plaster)
	raw.AddSphere(types.Vec3{2, 2, -3}, 0.5, raw.AddMaterial(material.Luminous))
	sc, err := compiler.Compile(raw, 1)
	if err != nil {
		t.Fatal(err)
	}

	opts := testOptions(8, 8, 4)
	opts.SamplesPerPixel = 4
	opts.MaxDepth = 3
	opts.Seed = 99

	buf1, _, err := Render(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	buf2, _, err := Render(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(buf1, buf2) {
		t.Fatal("expected renders with a fixed seed to be identical")
	}
}

func TestRenderMultipleFramesWithPerfectScheduler(t *testing.T) {
	sc := emissiveScene(t, 1)
	opts := testOptions(6, 6, 2)
	opts.Scheduler = tracer.PerfectScheduler()

	r, err := NewDefault(sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for frame := 0; frame < 3; frame++ {
		buf, err := r.Render(context.Background())
		if err != nil {
			t.Fatalf("[frame %d] %v", frame, err)
		}
		if len(buf) != 6*6*3 {
			t.Fatalf("[frame %d] expected buffer length to be %d; got %d", frame, 6*6*3, len(buf))
		}
	}
}

func TestReuseRendererAfterInterruptedFrame(t *testing.T) {
	raw := input.NewScene()
	raw.AddSphere(types.Vec3{0, 0, -3}, 1, raw.AddMaterial(material.Glass))
	raw.AddSphere(types.Vec3{0, -101, -3}, 100, raw.AddMaterial(material.Plaster))
	sc, err := compiler.Compile(raw, 1)
	if err != nil {
		t.Fatal(err)
	}

	opts := testOptions(32, 32, 4)
	opts.SamplesPerPixel = 4
	opts.MaxDepth = 4
	opts.Scheduler = tracer.PerfectScheduler()

	r, err := NewDefault(sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for frame := 0; frame < 20; frame++ {
		timeout := time.Duration(frame*20) * time.Microsecond
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		_, err = r.Render(ctx)
		cancel()
		if err != nil && !errors.Is(err, ErrInterrupted) {
			t.Fatalf("[frame %d] expected nil or ErrInterrupted; got %v", frame, err)
		}

		if _, err = r.Render(context.Background()); err != nil {
			t.Fatalf("[frame %d] expected frame after an interrupted one to render; got %v", frame, err)
		}

		var rows uint32
		for _, stat := range r.Stats().Tracers {
			rows += stat.BlockH
		}
		if rows != opts.FrameH {
			t.Fatalf("[frame %d] expected tracers to render %d rows in total; got %d", frame, opts.FrameH, rows)
		}
	}
}

func TestFramesUseDistinctSeeds(t *testing.T) {
	raw := input.NewScene()
	plaster := raw.AddMaterial(material.Plaster)
	raw.AddSphere(types.Vec3{0, 0, -3}, 1, plaster)
	raw.AddSphere(types.Vec3{0, -101, -3}, 100, plaster)
	raw.AddSphere(types.Vec3{2, 2, -3}, 0.5, raw.AddMaterial(material.Luminous))
	sc, err := compiler.Compile(raw, 1)
	if err != nil {
		t.Fatal(err)
	}

	opts := testOptions(8, 8, 2)
	opts.MaxDepth = 3
	opts.Seed = 7

	renderFrames := func() [][]float32 {
		r, err := NewDefault(sc, opts)
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()

		var frames [][]float32
		for frame := 0; frame < 2; frame++ {
			buf, err := r.Render(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			frames = append(frames, buf)
		}
		return frames
	}

	first := renderFrames()
	if reflect.DeepEqual(first[0], first[1]) {
		t.Fatal("expected consecutive frames to sample different paths")
	}

	second := renderFrames()
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected frame sequences with a fixed seed to be identical")
	}
}

func TestRenderCancelled(t *testing.T) {
	sc := emissiveScene(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Render(ctx, sc, testOptions(16, 16, 2))
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}
}

func TestRenderDeadline(t *testing.T) {
	raw := input.NewScene()
	raw.AddSphere(types.Vec3{0, 0, -3}, 1, raw.AddMaterial(material.Glass))
	raw.AddSphere(types.Vec3{0, -101, -3}, 100, raw.AddMaterial(material.Plaster))
	sc, err := compiler.Compile(raw, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Way too much work to finish before the deadline
	opts := testOptions(256, 256, 2)
	opts.SamplesPerPixel = 64
	opts.MaxDepth = 8

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err = Render(ctx, sc, opts)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}
}

func TestWorkersClampedToFrameHeight(t *testing.T) {
	sc := emissiveScene(t, 4)
	_, stats, err := Render(context.Background(), sc, testOptions(8, 2, 16))
	if err != nil {
		t.Fatal(err)
	}

	if len(stats.Tracers) != 2 {
		t.Fatalf("expected one tracer per frame row; got %d tracers", len(stats.Tracers))
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	if count := DefaultWorkerCount(); count <= 0 {
		t.Fatalf("expected a positive default worker count; got %d", count)
	}
}

func TestTonemap(t *testing.T) {
	type spec struct {
		in       float32
		exposure float32
		exp      uint8
	}
	specs := []spec{
		{0, 1, 0},
		{1, 1, 255},
		{0.5, 1, 186},
		{0.25, 2, 186},
		{0.25, 1, 136},
		{10, 1, 255},
		{-1, 1, 0},
		{float32(math.NaN()), 1, 0},
	}

	for index, s := range specs {
		img, err := Tonemap([]float32{s.in, s.in, s.in}, 1, 1, s.exposure)
		if err != nil {
			t.Fatal(err)
		}
		exp := []uint8{s.exp, s.exp, s.exp, 255}
		if !reflect.DeepEqual(img.Pix, exp) {
			t.Fatalf("[spec %d] expected tonemapped pixel to be %v; got %v", index, exp, img.Pix)
		}
	}

	// Pixel layout follows the buffer layout
	img, err := Tonemap([]float32{1, 0, 0, 0, 0, 1}, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0xffff || b != 0 {
		t.Fatalf("expected pixel (0, 0) to be red; got %v", img.At(0, 0))
	}
	if r, _, b, _ := img.At(1, 0).RGBA(); r != 0 || b != 0xffff {
		t.Fatalf("expected pixel (1, 0) to be blue; got %v", img.At(1, 0))
	}

	_, err = Tonemap(make([]float32, 5), 1, 1, 1)
	if !errors.Is(err, ErrInvalidBufferLength) {
		t.Fatalf("expected ErrInvalidBufferLength; got %v", err)
	}
}

func TestFrameStatsTable(t *testing.T) {
	stats := FrameStats{
		Tracers: []TracerStat{
			{Id: "cpu-0", BlockH: 30, FramePercent: 75, RenderTime: time.Second},
			{Id: "cpu-1", BlockH: 10, FramePercent: 25, RenderTime: 2 * time.Second},
		},
		RenderTime: 2 * time.Second,
	}

	table := stats.Table()
	for _, exp := range []string{"cpu-0", "cpu-1", "75.0 %", "TOTAL", "2s"} {
		if !strings.Contains(table, exp) {
			t.Fatalf("expected stats table to contain %q; got\n%s", exp, table)
		}
	}
}

func testOptions(frameW, frameH uint32, workers int) Options {
	opts := DefaultOptions()
	opts.FrameW = frameW
	opts.FrameH = frameH
	opts.Workers = workers
	opts.SamplesPerPixel = 2
	opts.MaxDepth = 2
	opts.Seed = 1
	return opts
}

// A single emissive sphere in front of the default camera.
func emissiveScene(t *testing.T, aspect float32) *scene.Scene {
	t.Helper()
	raw := input.NewScene()
	raw.AddSphere(types.Vec3{0, 0, -5}, 1, raw.AddMaterial(material.Luminous))
	sc, err := compiler.Compile(raw, aspect)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}
