package cpu

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/log"
	"github.com/Endoctrine/nebula/tracer"
	"github.com/Endoctrine/nebula/types"
)

// A tracer that renders row blocks on a dedicated go-routine.
type Tracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Speed estimate relative to a single cpu core.
	speed float32

	// The scene integrator and camera.
	integrator *Integrator
	camera     *scene.Camera

	// Frame dims and the shared accumulation buffer.
	frameW      uint32
	frameH      uint32
	accumBuffer []float32

	// The random number generator owned by this tracer.
	rng *rand.Rand

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats
}

// Create a new cpu tracer.
func NewTracer(id string, speed float32) *Tracer {
	return &Tracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		rng:          rand.New(rand.NewSource(1)),
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *Tracer) SpeedEstimate() float32 {
	return tr.speed
}

// Setup the tracer and start its worker.
func (tr *Tracer) Setup(sc *scene.Scene, frameW, frameH, maxDepth uint32, accumBuffer []float32) error {
	tr.Lock()
	defer tr.Unlock()

	if sc == nil {
		return ErrNoSceneData
	}
	if sc.Camera == nil {
		return ErrNoCamera
	}
	if uint32(len(accumBuffer)) != frameW*frameH*3 {
		return fmt.Errorf("%w: expected %d values; got %d", ErrInvalidBuffer, frameW*frameH*3, len(accumBuffer))
	}

	tr.integrator = NewIntegrator(sc, maxDepth)
	tr.camera = sc.Camera
	tr.frameW = frameW
	tr.frameH = frameH
	tr.accumBuffer = accumBuffer

	// Start worker
	if tr.closeChan == nil {
		tr.startWorker()
	}

	return nil
}

// Shutdown and cleanup tracer.
func (tr *Tracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}
	tr.wg.Wait()

	tr.integrator = nil
	tr.camera = nil
	tr.accumBuffer = nil
}

// Enqueue block request.
func (tr *Tracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrTracerBusy
	}
}

// Retrieve last frame statistics.
func (tr *Tracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *Tracer) startWorker() {
	tr.closeChan = make(chan struct{})
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func(closeChan chan struct{}) {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()

				// Render block and reply with our completion status
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.RenderTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}(tr.closeChan)

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *Tracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.integrator == nil {
		return ErrNoSceneData
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return fmt.Errorf("%w: rows [%d, %d) requested for a frame with %d rows", ErrBlockOutOfRange, blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.frameH)
	}

	ctx := blockReq.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	spp := blockReq.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	sampleScaler := 1.0 / float32(spp)
	tr.rng.Seed(blockReq.Seed)

	done := ctx.Done()
	for row := blockReq.BlockY; row < blockReq.BlockY+blockReq.BlockH; row++ {
		for col := uint32(0); col < tr.frameW; col++ {
			select {
			case <-done:
				return ctx.Err()
			default:
			}

			color := tr.tracePixel(col, row, spp).Mul(sampleScaler)
			offset := 3 * (row*tr.frameW + col)
			copy(tr.accumBuffer[offset:offset+3], color[:])
		}
	}

	return nil
}

// Trace spp jittered primary rays through pixel (col, row) and return the
// summed radiance. Row 0 is the top of the frame.
func (tr *Tracer) tracePixel(col, row, spp uint32) types.Vec3 {
	var color types.Vec3
	invW := 1.0 / float32(tr.frameW)
	invH := 1.0 / float32(tr.frameH)
	for sample := uint32(0); sample < spp; sample++ {
		s := (float32(col) + types.TentSample(tr.rng)) * invW
		t := (float32(tr.frameH-1-row) + types.TentSample(tr.rng)) * invH
		ray := tr.camera.GetRay(tr.rng, s, t)
		color = color.Add(tr.integrator.Radiance(tr.rng, ray, 0))
	}
	return color
}
