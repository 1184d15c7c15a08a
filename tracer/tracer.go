package tracer

import (
	"context"
	"time"

	"github.com/Endoctrine/nebula/asset/scene"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// The context for the frame this block belongs to. Tracers poll it
	// between pixels and abort the block when it is done.
	Ctx context.Context

	// Block start row and height. Row 0 is the top of the frame.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// A random seed value for the tracer's random number generator.
	Seed int64

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracers computation speed estimate compared to a
	// baseline (single cpu core) implementation.
	SpeedEstimate() float32

	// Setup the tracer to render frames of the given scene into accumBuffer.
	// The buffer holds frameW*frameH linear RGB triplets and is shared by
	// all tracers; each tracer only writes the rows it is assigned.
	Setup(sc *scene.Scene, frameW, frameH, maxDepth uint32, accumBuffer []float32) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last frame statistics.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}
