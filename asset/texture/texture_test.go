package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Endoctrine/nebula/asset"
	"github.com/Endoctrine/nebula/types"
)

func TestRgba8Texture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 255, 255})

	tex, err := New(mockImage(t, img))
	if err != nil {
		t.Fatal(err)
	}

	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("expected tex dims to be 2x1; got %dx%d", tex.Width, tex.Height)
	}

	if tex.Format != Rgba8 {
		t.Fatalf("expected tex format to be %s; got %s", Rgba8, tex.Format)
	}

	expLen := 2
	if len(tex.Data) != expLen {
		t.Fatalf("expected tex data len to be %d; got %d", expLen, len(tex.Data))
	}

	if tex.Data[0] != (types.Vec3{1, 0, 0}) || tex.Data[1] != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected texels to be red and blue; got %v", tex.Data)
	}
}

func TestLuminanceTexture(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Gray{Y: 255})

	tex, err := New(mockImage(t, img))
	if err != nil {
		t.Fatal(err)
	}

	if tex.Format != Luminance8 {
		t.Fatalf("expected tex format to be %s; got %s", Luminance8, tex.Format)
	}

	if tex.Data[0] != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected white texel; got %v", tex.Data[0])
	}
}

func TestStreamHttpTexture(t *testing.T) {
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/texture.png" {
			png.Encode(w, image.NewRGBA64(image.Rect(0, 0, 1, 1)))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	imgRes, err := asset.NewResource(server.URL+"/texture.png", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer imgRes.Close()

	tex, err := New(imgRes)
	if err != nil {
		t.Fatal(err)
	}

	if tex.Width != 1 || tex.Height != 1 {
		t.Fatalf("expected tex dims to be 1x1; got %dx%d", tex.Width, tex.Height)
	}

	if tex.Name != "texture.png" {
		t.Fatalf("expected tex name to be texture.png; got %s", tex.Name)
	}
}

func TestUndecodableTexture(t *testing.T) {
	res := asset.NewResourceFromStream("broken.png", bytes.NewReader([]byte("not an image")))
	if _, err := New(res); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestSample(t *testing.T) {
	// 2x2 texture; top row: red, green; bottom row: blue, white
	red, green, blue, white := types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}, types.Vec3{0, 0, 1}, types.Vec3{1, 1, 1}
	tex, err := FromData("checker", 2, 2, []types.Vec3{red, green, blue, white})
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		u, v float32
		exp  types.Vec3
	}
	specs := []spec{
		{0.25, 0.75, red},
		{0.75, 0.75, green},
		{0.25, 0.25, blue},
		{0.75, 0.25, white},
		// wrapped coordinates
		{1.25, 1.75, red},
		{-0.25, -0.75, white},
		// upper bound clamps to the last texel
		{0.9999999, 0.0, white},
	}

	for index, s := range specs {
		if got := tex.Sample(s.u, s.v); got != s.exp {
			t.Fatalf("[spec %d] expected Sample(%f, %f) to be %v; got %v", index, s.u, s.v, s.exp, got)
		}
	}

	if _, err = FromData("bad", 2, 2, []types.Vec3{red}); err == nil {
		t.Fatal("expected an error for mismatched texel count")
	}
}

func mockImage(t *testing.T, img image.Image) *asset.Resource {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return asset.NewResourceFromStream("test.png", &buf)
}
