package cmd

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/asset/scene/reader"
	"github.com/chewxy/math32"
	"github.com/urfave/cli"
)

// Display scene info and optionally verify the BVH against a brute-force
// intersection test.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sceneFile := ctx.Args().First()
	sc, err := reader.ReadScene(sceneFile, 1)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())

	numRays := ctx.Int("check-rays")
	if numRays <= 0 {
		return nil
	}

	hits, err := checkBVH(sc, numRays, ctx.Int64("seed"))
	if err != nil {
		return err
	}
	logger.Noticef("bvh check passed; %d of %d primary rays hit the scene", hits, numRays)
	return nil
}

// Trace random primary rays through the scene camera and compare the BVH
// traversal results with a brute-force test over all primitives. Returns the
// number of rays that hit the scene.
func checkBVH(sc *scene.Scene, numRays int, seed int64) (int, error) {
	if sc.Camera == nil {
		return 0, errors.New("scene does not define a camera")
	}

	rng := rand.New(rand.NewSource(seed))
	var hits int
	for i := 0; i < numRays; i++ {
		r := sc.Camera.GetRay(rng, rng.Float32(), rng.Float32())

		bvhRec, bvhHit := sc.NearestHit(r, 1e-3, math.MaxFloat32)
		bruteRec, bruteHit := sc.BruteForceHit(r, 1e-3, math.MaxFloat32)
		if bvhHit != bruteHit {
			return hits, fmt.Errorf("bvh check: ray %d: expected hit to be %t; got %t", i, bruteHit, bvhHit)
		}
		if !bvhHit {
			continue
		}

		hits++
		if math32.Abs(bvhRec.T-bruteRec.T) > 1e-5*math32.Max(1, bruteRec.T) {
			return hits, fmt.Errorf("bvh check: ray %d: expected hit at t=%f; got %f", i, bruteRec.T, bvhRec.T)
		}
	}

	return hits, nil
}
