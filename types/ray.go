package types

// A ray is a parametric line Origin + t*Dir. Dir is not required to be
// normalized so t values are only comparable between rays with the same
// direction length.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Evaluate ray at t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
