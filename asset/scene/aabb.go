package scene

import (
	"math"

	"github.com/Endoctrine/nebula/types"
)

// An axis aligned bounding box.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// Create an empty AABB whose bounds are inverted so that any Union or Grow
// call replaces them.
func EmptyAABB() AABB {
	return AABB{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Returns true if the box does not enclose any point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the box that encloses both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// Get the box that encloses both b and point p.
func (b AABB) Grow(p types.Vec3) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Get the box center.
func (b AABB) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the box extents along each axis.
func (b AABB) Size() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Get half of the box surface area. Empty boxes have zero area.
func (b AABB) HalfArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	side := b.Size()
	return side[0]*side[1] + side[1]*side[2] + side[0]*side[2]
}

// Test ray against the box using the slab method. If the ray overlaps the box
// inside [tMin, tMax] the method returns the entry distance along the ray.
func (b AABB) Hit(r types.Ray, tMin, tMax float32) (float32, bool) {
	return b.hit(r.Origin, invDir(r.Dir), tMin, tMax)
}

// Slab test with a precomputed reciprocal ray direction. Zero direction
// components yield infinite reciprocals; the resulting NaN slab distances
// fail every comparison and leave the interval untouched.
func (b *AABB) hit(origin, invDir types.Vec3, tMin, tMax float32) (float32, bool) {
	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - origin[axis]) * invDir[axis]
		t1 := (b.Max[axis] - origin[axis]) * invDir[axis]
		if invDir[axis] < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}

func invDir(dir types.Vec3) types.Vec3 {
	return types.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
}
