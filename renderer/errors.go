package renderer

import "errors"

var (
	ErrNoTracers           = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined     = errors.New("renderer: no scene defined")
	ErrCameraNotDefined    = errors.New("renderer: no camera defined")
	ErrInterrupted         = errors.New("renderer: interrupted while rendering")
	ErrInvalidFrameDims    = errors.New("renderer: frame dimensions must be positive")
	ErrInvalidSampleCount  = errors.New("renderer: samples per pixel must be positive")
	ErrInvalidWorkerCount  = errors.New("renderer: worker count must not be negative")
	ErrInvalidExposure     = errors.New("renderer: exposure must be positive")
	ErrInvalidBufferLength = errors.New("renderer: buffer length does not match frame dims")
)
