package types

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Sample a point uniformly inside the unit disk using rejection sampling.
func RandomInUnitDisk(rng *rand.Rand) Vec2 {
	for {
		p := Vec2{2*rng.Float32() - 1, 2*rng.Float32() - 1}
		if p.Dot(p) < 1.0 {
			return p
		}
	}
}

// Sample a uniformly distributed unit vector.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	for {
		v := Vec3{2*rng.Float32() - 1, 2*rng.Float32() - 1, 2*rng.Float32() - 1}
		lenSq := v.LenSq()
		if lenSq > floatCmpEpsilon && lenSq <= 1.0 {
			return v.Mul(1.0 / math32.Sqrt(lenSq))
		}
	}
}

// Sample a cosine-weighted direction in the hemisphere around normal n. The
// normal must be normalized.
func RandomCosineDirection(rng *rand.Rand, n Vec3) Vec3 {
	r1 := rng.Float32()
	r2 := rng.Float32()

	r := math32.Sqrt(r1)
	phi := 2 * math32.Pi * r2
	x := r * math32.Cos(phi)
	y := r * math32.Sin(phi)
	z := math32.Sqrt(1 - r1)

	tangent, bitangent := OrthonormalBasis(n)
	return tangent.Mul(x).Add(bitangent.Mul(y)).Add(n.Mul(z))
}

// Build two unit vectors that together with n form an orthonormal basis.
func OrthonormalBasis(n Vec3) (tangent, bitangent Vec3) {
	if math32.Abs(n[0]) > 0.1 {
		tangent = Vec3{0, 1, 0}.Cross(n).Normalize()
	} else {
		tangent = Vec3{1, 0, 0}.Cross(n).Normalize()
	}
	return tangent, n.Cross(tangent)
}

// Sample an offset in [0, 1] distributed with a tent filter centered at 0.5.
func TentSample(rng *rand.Rand) float32 {
	r := 2 * rng.Float32()
	if r < 1.0 {
		return math32.Sqrt(r) / 2.0
	}
	return 1.0 - math32.Sqrt(2.0-r)/2.0
}
