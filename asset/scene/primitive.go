package scene

import (
	"github.com/Endoctrine/nebula/types"
	"github.com/chewxy/math32"
)

// The type of a scene primitive.
type PrimitiveType uint8

const (
	SpherePrimitive PrimitiveType = iota
	TrianglePrimitive
)

// Determinants below this fraction of |dir|*|e1|*|e2| mark a ray as parallel
// to the triangle plane (or the triangle as degenerate).
const triangleEpsilon float32 = 1e-6

func (t PrimitiveType) String() string {
	switch t {
	case SpherePrimitive:
		return "sphere"
	case TrianglePrimitive:
		return "triangle"
	}
	return "unknown"
}

// A scene primitive. The Type field selects which group of fields is valid:
//
// - SpherePrimitive: Position and Radius
// - TrianglePrimitive: Vertices, Normals and UVs
type Primitive struct {
	Type PrimitiveType

	Position types.Vec3
	Radius   float32

	Vertices [3]types.Vec3
	Normals  [3]types.Vec3
	UVs      [3]types.Vec2

	MaterialIndex uint32
}

// The result of a ray/primitive intersection.
type HitRecord struct {
	Point  types.Vec3
	Normal types.Vec3
	T      float32
	UV     types.Vec2

	MaterialIndex uint32

	// True if the ray hit the side the outward normal points to.
	FrontFace bool
}

// Create a sphere primitive.
func NewSphere(center types.Vec3, radius float32, materialIndex uint32) Primitive {
	return Primitive{
		Type:          SpherePrimitive,
		Position:      center,
		Radius:        radius,
		MaterialIndex: materialIndex,
	}
}

// Create a triangle primitive.
func NewTriangle(vertices, normals [3]types.Vec3, uvs [3]types.Vec2, materialIndex uint32) Primitive {
	return Primitive{
		Type:          TrianglePrimitive,
		Vertices:      vertices,
		Normals:       normals,
		UVs:           uvs,
		MaterialIndex: materialIndex,
	}
}

// Get the primitive AABB.
func (p *Primitive) BBox() AABB {
	switch p.Type {
	case SpherePrimitive:
		r := math32.Abs(p.Radius)
		ext := types.Vec3{r, r, r}
		return AABB{Min: p.Position.Sub(ext), Max: p.Position.Add(ext)}
	case TrianglePrimitive:
		return EmptyAABB().Grow(p.Vertices[0]).Grow(p.Vertices[1]).Grow(p.Vertices[2])
	}
	return EmptyAABB()
}

// Get the primitive centroid.
func (p *Primitive) Center() types.Vec3 {
	switch p.Type {
	case SpherePrimitive:
		return p.Position
	case TrianglePrimitive:
		return p.Vertices[0].Add(p.Vertices[1]).Add(p.Vertices[2]).Mul(1.0 / 3.0)
	}
	return types.Vec3{}
}

// Intersect the primitive with ray r. On a hit within [tMin, tMax] the
// method fills rec and returns true; rec is left untouched otherwise.
func (p *Primitive) Intersect(r types.Ray, tMin, tMax float32, rec *HitRecord) bool {
	switch p.Type {
	case SpherePrimitive:
		return p.intersectSphere(r, tMin, tMax, rec)
	case TrianglePrimitive:
		return p.intersectTriangle(r, tMin, tMax, rec)
	}
	return false
}

// Solve the ray/sphere quadratic. The roots are returned in ascending order.
// A negative discriminant means that the ray misses the sphere.
func (p *Primitive) sphereRoots(r types.Ray) (t0, t1, disc float32) {
	oc := r.Origin.Sub(p.Position)
	a := r.Dir.LenSq()
	halfB := oc.Dot(r.Dir)
	c := oc.LenSq() - p.Radius*p.Radius

	disc = halfB*halfB - a*c
	if disc < 0 || a == 0 {
		return 0, 0, disc
	}

	sqrtd := math32.Sqrt(disc)
	return (-halfB - sqrtd) / a, (-halfB + sqrtd) / a, disc
}

func (p *Primitive) intersectSphere(r types.Ray, tMin, tMax float32, rec *HitRecord) bool {
	if p.Radius <= 0 || r.Dir.IsZero() {
		return false
	}

	t0, t1, disc := p.sphereRoots(r)
	if disc < 0 {
		return false
	}

	t := t0
	if t < tMin || t > tMax {
		t = t1
		if t < tMin || t > tMax {
			return false
		}
	}

	point := r.At(t)
	normal := point.Sub(p.Position).Mul(1.0 / p.Radius)

	*rec = HitRecord{
		Point:         point,
		Normal:        normal,
		T:             t,
		UV:            sphereUV(normal),
		MaterialIndex: p.MaterialIndex,
		FrontFace:     r.Dir.Dot(normal) < 0,
	}
	return true
}

// Map a point on the unit sphere to spherical UV coordinates.
func sphereUV(n types.Vec3) types.Vec2 {
	theta := math32.Acos(math32.Max(-1, math32.Min(1, -n[1])))
	phi := math32.Atan2(-n[2], n[0]) + math32.Pi
	return types.Vec2{phi / (2 * math32.Pi), theta / math32.Pi}
}

// Moller-Trumbore ray/triangle test. It returns the hit distance and the
// barycentric weights of the second and third vertex.
func (p *Primitive) triangleBarycentric(r types.Ray, tMin, tMax float32) (t, u, v float32, ok bool) {
	e1 := p.Vertices[1].Sub(p.Vertices[0])
	e2 := p.Vertices[2].Sub(p.Vertices[0])

	pvec := r.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if math32.Abs(det) <= triangleEpsilon*r.Dir.Len()*e1.Len()*e2.Len() {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	tvec := r.Origin.Sub(p.Vertices[0])
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(e1)
	v = r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(qvec) * invDet
	if t < tMin || t > tMax {
		return 0, 0, 0, false
	}

	return t, u, v, true
}

func (p *Primitive) intersectTriangle(r types.Ray, tMin, tMax float32, rec *HitRecord) bool {
	t, u, v, ok := p.triangleBarycentric(r, tMin, tMax)
	if !ok {
		return false
	}
	w := 1 - u - v

	normal := p.Normals[0].Mul(w).Add(p.Normals[1].Mul(u)).Add(p.Normals[2].Mul(v)).Normalize()
	if normal.IsZero() {
		normal = p.Vertices[1].Sub(p.Vertices[0]).Cross(p.Vertices[2].Sub(p.Vertices[0])).Normalize()
	}

	*rec = HitRecord{
		Point:         r.At(t),
		Normal:        normal,
		T:             t,
		UV:            p.UVs[0].Mul(w).Add(p.UVs[1].Mul(u)).Add(p.UVs[2].Mul(v)),
		MaterialIndex: p.MaterialIndex,
		FrontFace:     r.Dir.Dot(normal) < 0,
	}
	return true
}
