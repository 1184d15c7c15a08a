package renderer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/log"
	"github.com/Endoctrine/nebula/tracer"
	"github.com/Endoctrine/nebula/tracer/cpu"
	hostcpu "github.com/shirou/gopsutil/cpu"
)

type Renderer interface {
	// Render frame into a linear RGB buffer with FrameW*FrameH triplets.
	// Row 0 is the top of the frame.
	Render(ctx context.Context) ([]float32, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// A renderer that splits frames into row blocks and distributes them to a
// pool of cpu tracers.
type defaultRenderer struct {
	logger log.Logger

	// The list of attached tracers.
	tracers []tracer.Tracer

	// The block scheduler.
	scheduler tracer.BlockScheduler

	// Linear RGB accumulation buffer shared by all tracers.
	accumBuffer []float32

	// Render options.
	options Options

	// Base seed for tracer rngs.
	seed int64

	// Number of frames requested so far; mixed into the tracer seeds.
	frameCount int64

	// Last frame statistics.
	stats FrameStats
}

// Create a new default renderer for a compiled scene. The scene camera must
// have been set up for the aspect ratio of the requested frame dims.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		scheduler:   opts.Scheduler,
		accumBuffer: make([]float32, opts.FrameW*opts.FrameH*3),
		options:     opts,
		seed:        opts.Seed,
	}

	if r.scheduler == nil {
		r.scheduler = tracer.NaiveScheduler()
	}
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
	}

	// Each tracer renders at least one row
	numTracers := opts.Workers
	if numTracers == 0 {
		numTracers = DefaultWorkerCount()
	}
	if numTracers > int(opts.FrameH) {
		numTracers = int(opts.FrameH)
	}

	for index := 0; index < numTracers; index++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", index), 1.0)
		err := tr.Setup(sc, opts.FrameW, opts.FrameH, opts.MaxDepth, r.accumBuffer)
		if err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}

	r.logger.Infof("attached %d tracers (seed: %d)", len(r.tracers), r.seed)
	return r, nil
}

// Get the number of logical cpu cores.
func DefaultWorkerCount() int {
	count, err := hostcpu.Counts(true)
	if err != nil || count <= 0 {
		return runtime.NumCPU()
	}
	return count
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render frame.
func (r *defaultRenderer) Render(ctx context.Context) ([]float32, error) {
	start := time.Now()
	r.logger.Noticef("rendering %dx%d frame with %d spp", r.options.FrameW, r.options.FrameH, r.options.SamplesPerPixel)

	err := r.renderFrame(ctx)
	if err != nil {
		return nil, err
	}

	r.updateStats(time.Since(start))
	r.logger.Noticef("rendered frame in %d ms", r.stats.RenderTime.Nanoseconds()/1e6)

	out := make([]float32, len(r.accumBuffer))
	copy(out, r.accumBuffer)
	return out, nil
}

// Schedule row blocks to the attached tracers and wait for them to complete.
func (r *defaultRenderer) renderFrame(ctx context.Context) error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	numTracers := len(r.tracers)
	doneChan := make(chan uint32, numTracers)
	errChan := make(chan error, numTracers)

	blockAssignment := r.scheduler.Schedule(r.tracers, r.options.FrameH)
	var blockY uint32 = 0
	for index, tr := range r.tracers {
		tr.Enqueue(tracer.BlockRequest{
			Ctx:             ctx,
			BlockY:          blockY,
			BlockH:          blockAssignment[index],
			SamplesPerPixel: r.options.SamplesPerPixel,
			Seed:            r.seed + r.frameCount*int64(numTracers) + int64(index),
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockAssignment[index]
	}

	r.frameCount++

	// Wait for every tracer to reply, even after a failure, so no tracer is
	// still writing to the buffer or its stats when we return.
	var firstErr error
	for pending := numTracers; pending > 0; pending-- {
		select {
		case <-doneChan:
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		}
		return firstErr
	}
	return nil
}

// Collect tracer statistics for the last rendered frame.
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats.RenderTime = renderTime
	r.stats.Tracers = make([]TracerStat, len(r.tracers))
	for index, tr := range r.tracers {
		stats := tr.Stats()
		r.stats.Tracers[index] = TracerStat{
			Id:           tr.Id(),
			BlockH:       stats.BlockH,
			FramePercent: 100.0 * float32(stats.BlockH) / float32(r.options.FrameH),
			RenderTime:   stats.RenderTime,
		}
	}
}

// Render a single frame of a compiled scene and return its linear RGB buffer
// together with the frame statistics. The buffer contains FrameW*FrameH RGB
// triplets; row 0 is the top of the frame.
func Render(ctx context.Context, sc *scene.Scene, opts Options) ([]float32, FrameStats, error) {
	r, err := NewDefault(sc, opts)
	if err != nil {
		return nil, FrameStats{}, err
	}
	defer r.Close()

	buf, err := r.Render(ctx)
	if err != nil {
		return nil, FrameStats{}, err
	}
	return buf, r.Stats(), nil
}
