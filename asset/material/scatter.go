package material

import (
	"math/rand"

	"github.com/Endoctrine/nebula/types"
	"github.com/chewxy/math32"
)

// An outgoing ray produced by a surface interaction together with the
// attenuation applied to the radiance carried back along it.
type ScatteredRay struct {
	Ray         types.Ray
	Coefficient types.Vec3
}

// Split an incoming ray that hit the surface at point into up to three
// outgoing rays (diffuse, specular and transmitted) and append them to out.
//
// The normal argument must be the normalized outward surface normal. The
// albedo argument modulates the diffuse weight and is typically a texture
// sample or (1, 1, 1). Rays whose weight is zero are not emitted.
func (m *Material) Scatter(rng *rand.Rand, in types.Ray, point, normal, albedo types.Vec3, out []ScatteredRay) []ScatteredRay {
	dir := in.Dir.Normalize()
	frontFace := dir.Dot(normal) < 0
	facing := normal
	if !frontFace {
		facing = normal.Neg()
	}

	if coeff := m.DiffuseCoefficient().MulVec(albedo); coeff.MaxComponent() > 0 {
		out = append(out, ScatteredRay{
			Ray:         types.NewRay(point, types.RandomCosineDirection(rng, facing)),
			Coefficient: coeff,
		})
	}

	if coeff := m.SpecularCoefficient(); coeff.MaxComponent() > 0 {
		out = append(out, ScatteredRay{
			Ray:         types.NewRay(point, m.glossyReflect(rng, dir, facing)),
			Coefficient: coeff,
		})
	}

	if coeff := m.TransmissionCoefficient(); coeff.MaxComponent() > 0 {
		out = append(out, ScatteredRay{
			Ray:         types.NewRay(point, Refract(dir, normal, frontFace, m.RefractiveIndex)),
			Coefficient: coeff,
		})
	}

	return out
}

// Perturb the mirror direction by a random offset that shrinks as the
// specular exponent grows. Perturbed directions that would point below the
// surface fall back to the mirror direction.
func (m *Material) glossyReflect(rng *rand.Rand, dir, facing types.Vec3) types.Vec3 {
	mirror := dir.Reflect(facing)

	radius := math32.Pow(fuzz, m.SpecularExponent)
	if radius < 1e-6 {
		return mirror
	}

	glossy := mirror.Add(types.RandomUnitVector(rng).Mul(radius)).Normalize()
	if glossy.Dot(facing) <= 0 {
		return mirror
	}
	return glossy
}

// Compute the refracted direction for a unit direction dir hitting a surface
// with outward normal using Snell's law. Rays entering the surface
// (frontFace) go from air into a medium with refractive index ior. When the
// angle of incidence exceeds the critical angle the mirror direction is
// returned instead (total internal reflection).
func Refract(dir, normal types.Vec3, frontFace bool, ior float32) types.Vec3 {
	eta := ior
	n := normal.Neg()
	if frontFace {
		eta = 1.0 / ior
		n = normal
	}

	cosTheta := math32.Min(dir.Neg().Dot(n), 1.0)
	sin2Theta := math32.Max(0, 1-cosTheta*cosTheta)
	if eta*eta*sin2Theta > 1.0 {
		return dir.Reflect(n)
	}

	perp := dir.Add(n.Mul(cosTheta)).Mul(eta)
	parallel := n.Mul(-math32.Sqrt(math32.Abs(1.0 - perp.LenSq())))
	return perp.Add(parallel).Normalize()
}
