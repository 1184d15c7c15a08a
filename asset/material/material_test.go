package material

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Endoctrine/nebula/types"
	"github.com/chewxy/math32"
)

var white = types.Vec3{1, 1, 1}

func TestScatterOmitsZeroCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	in := types.NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	point, normal := types.Vec3{0, 0, 1}, types.Vec3{0, 0, 1}

	type spec struct {
		mat    Material
		expLen int
	}
	specs := []spec{
		{Luminous, 0},
		{Mirror, 1},
		{Plaster, 2},
		{Glass, 2},
		{New("default"), 1},
	}

	for index, s := range specs {
		rays := s.mat.Scatter(rng, in, point, normal, white, nil)
		if len(rays) != s.expLen {
			t.Fatalf("[spec %d] expected %q to scatter %d rays; got %d", index, s.mat.Name, s.expLen, len(rays))
		}
		for _, r := range rays {
			if r.Coefficient.MaxComponent() <= 0 {
				t.Fatalf("[spec %d] expected only non-zero coefficients; got %v", index, r.Coefficient)
			}
			if r.Ray.Origin != point {
				t.Fatalf("[spec %d] expected scattered ray to start at the hit point; got %v", index, r.Ray.Origin)
			}
		}
	}
}

func TestDiffuseScatterUsesAlbedoAndFacingHemisphere(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	mat := New("matte")
	mat.Diffuse = types.Vec3{1, 1, 1}
	albedo := types.Vec3{0.5, 0.25, 0}

	// Hit the back face; diffuse rays must leave on the side of the incoming ray
	in := types.NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})
	normal := types.Vec3{0, 0, 1}
	for i := 0; i < 100; i++ {
		rays := mat.Scatter(rng, in, types.Vec3{}, normal, albedo, nil)
		if len(rays) != 1 {
			t.Fatalf("expected a single diffuse ray; got %d", len(rays))
		}
		if rays[0].Ray.Dir.Dot(normal) > 0 {
			t.Fatalf("expected diffuse ray to point away from the back face; got %v", rays[0].Ray.Dir)
		}
		expCoeff := types.Vec3{0.25, 0.125, 0}
		if rays[0].Coefficient != expCoeff {
			t.Fatalf("expected coefficient %v; got %v", expCoeff, rays[0].Coefficient)
		}
	}

	// A black albedo yields no diffuse ray at all
	if rays := mat.Scatter(rng, in, types.Vec3{}, normal, types.Vec3{}, nil); len(rays) != 0 {
		t.Fatalf("expected no rays for a black albedo; got %d", len(rays))
	}
}

func TestMirrorReflection(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	in := types.NewRay(types.Vec3{-1, 1, 0}, types.Vec3{1, -1, 0})
	rays := Mirror.Scatter(rng, in, types.Vec3{}, types.Vec3{0, 1, 0}, white, nil)
	if len(rays) != 1 {
		t.Fatalf("expected a single specular ray; got %d", len(rays))
	}

	exp := types.Vec3{1, 1, 0}.Normalize()
	if rays[0].Ray.Dir.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected mirror direction %v; got %v", exp, rays[0].Ray.Dir)
	}
}

func TestRefract(t *testing.T) {
	normal := types.Vec3{0, 1, 0}

	// Normal incidence passes straight through
	dir := Refract(types.Vec3{0, -1, 0}, normal, true, 1.5)
	if dir.Sub(types.Vec3{0, -1, 0}).Len() > 1e-5 {
		t.Fatalf("expected straight transmission; got %v", dir)
	}

	// Snell's law when entering: sin(theta_t) = sin(theta_i) / ior
	in := types.Vec3{1, -1, 0}.Normalize()
	dir = Refract(in, normal, true, 1.5)
	sinI := math32.Sqrt(0.5)
	sinT := math32.Abs(dir[0])
	if math32.Abs(sinT-sinI/1.5) > 1e-4 {
		t.Fatalf("expected sin(theta_t) = %f; got %f", sinI/1.5, sinT)
	}
	if dir[1] >= 0 {
		t.Fatalf("expected refracted ray to continue below the surface; got %v", dir)
	}

	// Leaving the medium at a grazing angle triggers total internal reflection
	in = types.Vec3{1, 0.2, 0}.Normalize()
	dir = Refract(in, normal, false, 1.5)
	exp := in.Reflect(normal.Neg())
	if dir.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected total internal reflection %v; got %v", exp, dir)
	}
}

func TestAmbientAndEmissive(t *testing.T) {
	mat := New("lit")
	mat.Ambient = types.Vec3{1, 0.5, 0}
	mat.Emissive = types.Vec3{2, 2, 2}
	mat.Dissolve = 0.5

	if got := mat.AmbientColor(); got != (types.Vec3{0.05, 0.025, 0}) {
		t.Fatalf("expected ambient color (0.05, 0.025, 0); got %v", got)
	}

	if got := mat.EmissiveColor(); got != mat.Emissive {
		t.Fatalf("expected emissive color %v; got %v", mat.Emissive, got)
	}
}

func TestValidate(t *testing.T) {
	type spec struct {
		mutate func(*Material)
		expErr error
	}
	specs := []spec{
		{func(m *Material) {}, nil},
		{func(m *Material) { m.Diffuse = types.Vec3{-1, 0, 0} }, ErrNegativeColor},
		{func(m *Material) { m.Dissolve = 1.5 }, ErrInvalidDissolve},
		{func(m *Material) { m.RefractiveIndex = 0.5 }, ErrInvalidRefractiveIndex},
		{func(m *Material) { m.DiffuseTexture = 1 }, ErrUnknownTexture},
		{func(m *Material) { m.DiffuseTexture = 0 }, nil},
	}

	for index, s := range specs {
		mat := New("test")
		s.mutate(&mat)
		err := mat.Validate(1)
		if s.expErr == nil && err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if s.expErr != nil && !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}

	for _, name := range []string{"plaster", "luminous", "mirror", "glass"} {
		preset, ok := Preset(name)
		if !ok {
			t.Fatalf("expected preset %q to exist", name)
		}
		if err := preset.Validate(0); err != nil {
			t.Fatalf("expected preset %q to be valid; got %v", name, err)
		}
	}
}
