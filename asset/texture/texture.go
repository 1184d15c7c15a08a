package texture

import (
	"fmt"
	"image"
	"image/color"

	// Register decoders for the supported texture formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Endoctrine/nebula/asset"
	"github.com/Endoctrine/nebula/types"
	"github.com/chewxy/math32"
)

// The pixel format of the decoded source image.
type Format uint32

const (
	Luminance8 Format = iota
	Luminance16
	Rgba8
	Rgba16
)

func (f Format) String() string {
	switch f {
	case Luminance8:
		return "L8"
	case Luminance16:
		return "L16"
	case Rgba16:
		return "RGBA16"
	}
	return "RGBA8"
}

// A decoded texture. Texel colors are stored as normalized RGB triplets in
// row-major order starting from the top-left corner of the image.
type Texture struct {
	Name   string
	Format Format

	Width  uint32
	Height uint32

	Data []types.Vec3
}

// Decode a texture from a Resource.
func New(res *asset.Resource) (*Texture, error) {
	img, imgFmt, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("texture: %s (%s) has zero size", res.Path(), imgFmt)
	}

	tex := &Texture{
		Name:   res.Name(),
		Format: detectFormat(img),
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Data:   make([]types.Vec3, bounds.Dx()*bounds.Dy()),
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			tex.Data[offset] = types.Vec3{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff}
			offset++
		}
	}

	return tex, nil
}

// Create a texture from raw texel data. It is mostly useful for building
// procedural textures and tests.
func FromData(name string, width, height uint32, data []types.Vec3) (*Texture, error) {
	if width == 0 || height == 0 || uint32(len(data)) != width*height {
		return nil, fmt.Errorf("texture: %s expected %dx%d texels; got %d", name, width, height, len(data))
	}
	return &Texture{
		Name:   name,
		Format: Rgba8,
		Width:  width,
		Height: height,
		Data:   data,
	}, nil
}

// Sample the texture color at (u, v) using nearest-neighbor lookup. The
// coordinates are wrapped into [0, 1) so tiled UVs repeat the texture. The
// v axis points up while image rows are stored top-down.
func (t *Texture) Sample(u, v float32) types.Vec3 {
	u = wrap(u)
	v = wrap(v)

	x := uint32(u * float32(t.Width))
	y := uint32((1.0 - v) * float32(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	return t.Data[y*t.Width+x]
}

// Size of the texel data in bytes.
func (t *Texture) Size() int {
	return len(t.Data) * 12
}

func wrap(c float32) float32 {
	if math32.IsNaN(c) || math32.IsInf(c, 0) {
		return 0
	}
	c -= math32.Floor(c)
	if c >= 1 {
		return 0
	}
	return c
}

func detectFormat(img image.Image) Format {
	switch img.ColorModel() {
	case color.GrayModel:
		return Luminance8
	case color.Gray16Model:
		return Luminance16
	case color.RGBA64Model, color.NRGBA64Model:
		return Rgba16
	}
	return Rgba8
}
