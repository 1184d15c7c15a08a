package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Endoctrine/nebula/asset/compiler"
	"github.com/Endoctrine/nebula/asset/compiler/input"
	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/types"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})

	type spec struct {
		ext    string
		decode func(*bytes.Buffer) (image.Image, error)
	}
	specs := []spec{
		{".png", func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{".PNG", func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{".bmp", func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
		{".tiff", func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) }},
		{".tif", func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) }},
	}

	for index, s := range specs {
		var buf bytes.Buffer
		if err := encodeImage(&buf, s.ext, img); err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		decoded, err := s.decode(&buf)
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		if decoded.Bounds() != img.Bounds() {
			t.Fatalf("[spec %d] expected decoded bounds to be %v; got %v", index, img.Bounds(), decoded.Bounds())
		}
		if r, g, _, _ := decoded.At(1, 1).RGBA(); r != 0xffff || g != 0 {
			t.Fatalf("[spec %d] expected pixel (1, 1) to be red; got %v", index, decoded.At(1, 1))
		}
	}

	err := encodeImage(&bytes.Buffer{}, ".exr", img)
	if err == nil || !strings.Contains(err.Error(), `unsupported image format ".exr"`) {
		t.Fatalf("expected unsupported format error; got %v", err)
	}
}

func TestWriteImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := writeImage(filepath.Join(t.TempDir(), "frame.png"), img); err != nil {
		t.Fatal(err)
	}

	if err := writeImage(filepath.Join(t.TempDir(), "missing", "frame.png"), img); err == nil {
		t.Fatal("expected an error writing into a missing folder")
	}
}

func TestCheckBVH(t *testing.T) {
	raw := input.NewScene()
	plaster := raw.AddMaterial(material.Plaster)
	for i := 0; i < 40; i++ {
		x := float32(i%8) - 4
		y := float32(i/8) - 2
		raw.AddSphere(types.Vec3{x, y, -8}, 0.4, plaster)
		raw.AddTriangle(
			[3]types.Vec3{{x, y, -12}, {x + 0.8, y, -12}, {x, y + 0.8, -12}},
			[3]types.Vec3{},
			[3]types.Vec2{},
			plaster,
		)
	}
	sc, err := compiler.Compile(raw, 1)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := checkBVH(sc, 500, 7)
	if err != nil {
		t.Fatal(err)
	}
	if hits == 0 {
		t.Fatal("expected at least some rays to hit the scene")
	}

	if _, err = checkBVH(&scene.Scene{}, 1, 7); err == nil {
		t.Fatal("expected an error for a scene without a camera")
	}
}

func TestDeviceReport(t *testing.T) {
	report, err := deviceReport()
	if err != nil {
		t.Skipf("host cpu info not available: %v", err)
	}

	for _, exp := range []string{"Model", "WORKERS", "Memory:"} {
		if !strings.Contains(report, exp) {
			t.Fatalf("expected device report to contain %q; got\n%s", exp, report)
		}
	}
}
