package cpu

import "errors"

var (
	ErrNoSceneData     = errors.New("cpu tracer: no scene data uploaded")
	ErrNoCamera        = errors.New("cpu tracer: scene does not define a camera")
	ErrInvalidBuffer   = errors.New("cpu tracer: accumulation buffer does not match frame dims")
	ErrBlockOutOfRange = errors.New("cpu tracer: block exceeds frame height")
	ErrTracerBusy      = errors.New("cpu tracer: block request dropped; tracer is busy")
)
