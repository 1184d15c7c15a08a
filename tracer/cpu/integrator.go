package cpu

import (
	"math"
	"math/rand"

	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/types"
)

const (
	// Min world space distance along a ray before a hit is accepted. Filters
	// out self-intersections of scattered rays.
	hitEpsilon float32 = 1e-3
)

// The color returned for rays that escape the scene.
var background = types.Vec3{}

// A recursive, depth-bounded path tracing integrator. An Integrator keeps
// per-depth scratch buffers and must not be shared between goroutines.
type Integrator struct {
	Scene *scene.Scene

	// The max number of bounces. A value of 0 only evaluates the ambient
	// and emissive terms of the first hit.
	MaxDepth uint32

	scratch [][]material.ScatteredRay
}

// Create a new integrator for a compiled scene.
func NewIntegrator(sc *scene.Scene, maxDepth uint32) *Integrator {
	return &Integrator{
		Scene:    sc,
		MaxDepth: maxDepth,
	}
}

// Estimate the radiance carried back along ray r. The depth argument is the
// number of bounces already taken by the path.
func (in *Integrator) Radiance(rng *rand.Rand, r types.Ray, depth uint32) types.Vec3 {
	// Ray directions are not unit length; convert the epsilon to ray units
	tMin := hitEpsilon
	if dirLen := r.Dir.Len(); dirLen > 0 {
		tMin /= dirLen
	}

	rec, hit := in.Scene.NearestHit(r, tMin, math.MaxFloat32)
	if !hit {
		return background
	}

	mat := in.Scene.Material(&rec)
	color := mat.AmbientColor().Add(mat.EmissiveColor())
	if depth >= in.MaxDepth {
		return color
	}

	for uint32(len(in.scratch)) <= depth {
		in.scratch = append(in.scratch, make([]material.ScatteredRay, 0, 3))
	}
	scattered := mat.Scatter(rng, r, rec.Point, rec.Normal, in.Scene.Albedo(&rec), in.scratch[depth][:0])
	in.scratch[depth] = scattered

	for _, s := range scattered {
		color = color.Add(s.Coefficient.MulVec(in.Radiance(rng, s.Ray, depth+1)))
	}

	return color
}
