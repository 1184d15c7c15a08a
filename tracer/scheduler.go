package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. Assignments always add up to frameH. Callers must
	// not supply more tracers than frame rows.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// Lookup a scheduler by name.
func SchedulerByName(name string) (BlockScheduler, bool) {
	switch name {
	case "naive":
		return NaiveScheduler(), true
	case "perfect":
		return PerfectScheduler(), true
	}
	return nil, false
}

// The naive scheduler splits the frame according to each tracer's speed
// estimate.
type naiveScheduler struct {
	blockAssignment []uint32
}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}

	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.SpeedEstimate())
	}

	distributeRows(sch.blockAssignment, weights, frameH)
	return sch.blockAssignment
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	weights := make([]float64, len(tracers))

	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments and fall back to
	// the tracer speed estimates.
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
		for idx, tr := range tracers {
			weights[idx] = float64(tr.SpeedEstimate())
		}
	} else {
		// Use last frame statistics
		for idx, tr := range tracers {
			stats := tr.Stats()
			renderTime := math.Max(1.0, float64(stats.RenderTime))
			weights[idx] = float64(stats.BlockH) / renderTime
		}
	}

	distributeRows(sch.blockAssignment, weights, frameH)
	return sch.blockAssignment
}

// Split frameH rows proportionally to the supplied weights. Each tracer gets
// at least one row. Rows lost to rounding are appended to the first tracer.
func distributeRows(blockAssignment []uint32, weights []float64, frameH uint32) {
	if len(blockAssignment) == 0 {
		return
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	// Without any usable feedback split the frame evenly
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		for idx := range weights {
			weights[idx] = 1.0
		}
		total = float64(len(weights))
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32 = 0
	for idx, w := range weights {
		blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(w*scaler)))
		scheduledRows += blockAssignment[idx]
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	if scheduledRows <= frameH {
		blockAssignment[0] += frameH - scheduledRows
		return
	}

	// Enforcing the one row minimum may oversubscribe the frame; take the
	// excess rows away from the largest blocks.
	for excess := scheduledRows - frameH; excess > 0; excess-- {
		largest := 0
		for idx, rows := range blockAssignment {
			if rows > blockAssignment[largest] {
				largest = idx
			}
		}
		if blockAssignment[largest] <= 1 {
			return
		}
		blockAssignment[largest]--
	}
}
