package renderer

import (
	"fmt"

	"github.com/Endoctrine/nebula/tracer"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples.
	SamplesPerPixel uint32

	// Max number of bounces for each path.
	MaxDepth uint32

	// Number of tracers. If set to 0, one tracer is started for each
	// logical cpu core.
	Workers int

	// Seed for the tracer random number generators. Tracer i of a renderer
	// with n tracers renders frame f with seed Seed+f*n+i. If set to 0, a
	// time-based seed is used.
	Seed int64

	// Exposure for tonemapping.
	Exposure float32

	// The block scheduler. Defaults to the naive scheduler.
	Scheduler tracer.BlockScheduler
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          800,
		FrameH:          450,
		SamplesPerPixel: 16,
		MaxDepth:        5,
		Exposure:        1.0,
	}
}

// Validate render options.
func (opts Options) Validate() error {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidFrameDims, opts.FrameW, opts.FrameH)
	}
	if opts.SamplesPerPixel == 0 {
		return ErrInvalidSampleCount
	}
	if opts.Workers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, opts.Workers)
	}
	if opts.Exposure <= 0 {
		return fmt.Errorf("%w: got %f", ErrInvalidExposure, opts.Exposure)
	}
	return nil
}
