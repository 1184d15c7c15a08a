package scene_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/Endoctrine/nebula/asset/compiler/bvh"
	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/asset/texture"
	"github.com/Endoctrine/nebula/types"
	"github.com/chewxy/math32"
)

// Build a scene whose primitive list is ordered by the BVH leafs.
func buildScene(prims []scene.Primitive, minLeafItems int) *scene.Scene {
	workList := make([]bvh.BoundedVolume, len(prims))
	for i := range prims {
		workList[i] = &prims[i]
	}

	sc := &scene.Scene{
		Materials: []material.Material{material.New("default")},
	}
	sc.BvhNodeList = bvh.Build(workList, minLeafItems, func(leaf *scene.BvhNode, itemList []bvh.BoundedVolume) {
		leaf.SetPrimitives(uint32(len(sc.Primitives)), uint32(len(itemList)))
		for _, item := range itemList {
			sc.Primitives = append(sc.Primitives, *item.(*scene.Primitive))
		}
	}, bvh.SurfaceAreaHeuristic)

	return sc
}

func randomVec(rng *rand.Rand, scale float32) types.Vec3 {
	return types.Vec3{
		(rng.Float32()*2 - 1) * scale,
		(rng.Float32()*2 - 1) * scale,
		(rng.Float32()*2 - 1) * scale,
	}
}

func randomScene(rng *rand.Rand, count int) []scene.Primitive {
	prims := make([]scene.Primitive, 0, count)
	for i := 0; i < count; i++ {
		center := randomVec(rng, 10)
		if i%2 == 0 {
			prims = append(prims, scene.NewSphere(center, 0.1+rng.Float32(), 0))
			continue
		}
		prims = append(prims, scene.NewTriangle(
			[3]types.Vec3{center, center.Add(randomVec(rng, 1.5)), center.Add(randomVec(rng, 1.5))},
			[3]types.Vec3{},
			[3]types.Vec2{},
			0,
		))
	}
	return prims
}

func TestNearestHitMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, minLeafItems := range []int{1, 4} {
		sc := buildScene(randomScene(rng, 300), minLeafItems)
		if len(sc.Primitives) != 300 {
			t.Fatalf("expected leafs to reference all 300 primitives; got %d", len(sc.Primitives))
		}

		var hits int
		for i := 0; i < 2000; i++ {
			r := types.NewRay(randomVec(rng, 15), randomVec(rng, 1))
			if r.Dir.IsZero() {
				continue
			}

			bvhRec, bvhHit := sc.NearestHit(r, 1e-3, math.MaxFloat32)
			bruteRec, bruteHit := sc.BruteForceHit(r, 1e-3, math.MaxFloat32)
			if bvhHit != bruteHit {
				t.Fatalf("[ray %d] expected bvh hit to be %t; got %t", i, bruteHit, bvhHit)
			}
			if !bvhHit {
				continue
			}
			hits++
			if math32.Abs(bvhRec.T-bruteRec.T) > 1e-5*math32.Max(1, bruteRec.T) {
				t.Fatalf("[ray %d] expected bvh hit at t=%f; got %f", i, bruteRec.T, bvhRec.T)
			}
		}

		if hits == 0 {
			t.Fatal("expected at least some rays to hit the scene")
		}
	}
}

func TestNearestHitHonorsInterval(t *testing.T) {
	sc := buildScene([]scene.Primitive{
		scene.NewSphere(types.Vec3{0, 0, -5}, 1, 0),
		scene.NewSphere(types.Vec3{0, 0, -10}, 1, 0),
	}, 1)

	r := types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1})
	rec, ok := sc.NearestHit(r, 1e-3, math.MaxFloat32)
	if !ok || math32.Abs(rec.T-4) > 1e-4 {
		t.Fatalf("expected hit at t=4; got %f (hit: %t)", rec.T, ok)
	}

	// Skip the first sphere
	rec, ok = sc.NearestHit(r, 7, math.MaxFloat32)
	if !ok || math32.Abs(rec.T-9) > 1e-4 {
		t.Fatalf("expected hit at t=9; got %f (hit: %t)", rec.T, ok)
	}

	if _, ok = sc.NearestHit(r, 1e-3, 3); ok {
		t.Fatal("expected no hit before t=3")
	}
}

func TestRayMissingSceneBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sc := buildScene(randomScene(rng, 50), 2)

	bounds := sc.Bounds()
	origin := bounds.Max.Add(types.Vec3{1, 1, 1})
	r := types.NewRay(origin, types.Vec3{1, 0.5, 0.25})
	if _, ok := bounds.Hit(r, 0, math.MaxFloat32); ok {
		t.Fatal("expected ray to miss the scene bounds")
	}
	if _, ok := sc.NearestHit(r, 0, math.MaxFloat32); ok {
		t.Fatal("expected ray missing the scene bounds to miss every primitive")
	}
}

func TestEmptyScene(t *testing.T) {
	sc := buildScene(nil, 1)
	if len(sc.BvhNodeList) != 0 {
		t.Fatalf("expected empty scene to have no bvh nodes; got %d", len(sc.BvhNodeList))
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		r := types.NewRay(randomVec(rng, 5), randomVec(rng, 1))
		if _, ok := sc.NearestHit(r, 0, math.MaxFloat32); ok {
			t.Fatal("expected empty scene to never report a hit")
		}
	}

	if !sc.Bounds().IsEmpty() {
		t.Fatal("expected empty scene bounds")
	}
}

func TestAlbedo(t *testing.T) {
	tex, err := texture.FromData("checker", 2, 1, []types.Vec3{{1, 0, 0}, {0, 1, 0}})
	if err != nil {
		t.Fatal(err)
	}

	textured := material.New("textured")
	textured.DiffuseTexture = 0
	sc := &scene.Scene{
		Materials: []material.Material{material.New("plain"), textured},
		Textures:  []*texture.Texture{tex},
	}

	rec := scene.HitRecord{MaterialIndex: 0, UV: types.Vec2{0.75, 0.5}}
	if got := sc.Albedo(&rec); got != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected untextured albedo (1, 1, 1); got %v", got)
	}

	rec.MaterialIndex = 1
	if got := sc.Albedo(&rec); got != (types.Vec3{0, 1, 0}) {
		t.Fatalf("expected textured albedo (0, 1, 0); got %v", got)
	}
	if sc.Material(&rec).Name != "textured" {
		t.Fatalf("expected material 'textured'; got %q", sc.Material(&rec).Name)
	}
}

func TestStats(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sc := buildScene(randomScene(rng, 10), 1)

	stats := sc.Stats()
	for _, exp := range []string{"Geometry", "Spheres", "Triangles", "BVH", "Materials", "Textures", "Total"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected stats table to contain %q; got:\n%s", exp, stats)
		}
	}
}
