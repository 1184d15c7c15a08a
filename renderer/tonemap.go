package renderer

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

const gamma float32 = 2.2

// Convert a linear RGB buffer with frameW*frameH triplets into an 8-bit
// image. Each channel is scaled by exposure, clamped to [0, 1] and gamma
// corrected before being quantized.
func Tonemap(buf []float32, frameW, frameH uint32, exposure float32) (*image.RGBA, error) {
	if uint32(len(buf)) != frameW*frameH*3 {
		return nil, fmt.Errorf("%w: expected %d values; got %d", ErrInvalidBufferLength, frameW*frameH*3, len(buf))
	}

	img := image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))
	invGamma := 1.0 / gamma
	for pixel := 0; pixel < int(frameW*frameH); pixel++ {
		for ch := 0; ch < 3; ch++ {
			v := buf[3*pixel+ch] * exposure
			if v != v || v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.Pix[4*pixel+ch] = uint8(math32.Pow(v, invGamma)*255.0 + 0.5)
		}
		img.Pix[4*pixel+3] = 255
	}

	return img, nil
}
