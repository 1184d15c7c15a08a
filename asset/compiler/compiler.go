package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/Endoctrine/nebula/asset"
	"github.com/Endoctrine/nebula/asset/compiler/bvh"
	"github.com/Endoctrine/nebula/asset/compiler/input"
	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/asset/texture"
	"github.com/Endoctrine/nebula/log"
	"github.com/Endoctrine/nebula/types"
)

const (
	minPrimitivesPerLeaf = 4
)

var (
	ErrUnknownMaterial = errors.New("compiler: reference to unknown material")
	ErrUnknownMesh     = errors.New("compiler: reference to unknown mesh")
	ErrMissingTexture  = errors.New("compiler: could not load texture")
)

type sceneCompiler struct {
	rawScene       *input.Scene
	optimizedScene *scene.Scene
	logger         log.Logger

	// A map of a texture path to its index. This cache allows us to
	// re-use already loaded textures when referenced by multiple materials.
	texIndexCache map[string]int32
}

// Compile a raw scene into an immutable scene with a flattened primitive
// list and a BVH. The aspect argument is the width/height ratio of the frames
// that will be rendered and is used to set up the camera.
//
// All material, texture, mesh and camera references are validated here so
// that rendering never encounters an invalid scene.
func Compile(rawScene *input.Scene, aspect float32) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		rawScene:       rawScene,
		optimizedScene: &scene.Scene{},
		logger:         log.New("scene compiler"),
		texIndexCache:  make(map[string]int32),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	var err error
	err = compiler.bakeMaterials()
	if err != nil {
		return nil, err
	}

	err = compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	err = compiler.setupCamera(aspect)
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Load material textures and validate material parameters.
func (sc *sceneCompiler) bakeMaterials() error {
	sc.optimizedScene.Textures = append(sc.optimizedScene.Textures, sc.rawScene.Textures...)
	sc.optimizedScene.Materials = make([]material.Material, len(sc.rawScene.Materials))

	for index, rawMat := range sc.rawScene.Materials {
		mat := rawMat.Material

		if rawMat.DiffuseTexturePath != "" {
			texIndex, err := sc.bakeTexture(rawMat)
			if err != nil {
				return err
			}
			mat.DiffuseTexture = texIndex
		}

		if err := mat.Validate(len(sc.optimizedScene.Textures)); err != nil {
			return fmt.Errorf("compiler: material %d: %w", index, err)
		}

		sc.optimizedScene.Materials[index] = mat
	}

	sc.logger.Infof("processed %d materials and %d textures", len(sc.optimizedScene.Materials), len(sc.optimizedScene.Textures))
	return nil
}

// Load the diffuse texture for a material and return its index.
func (sc *sceneCompiler) bakeTexture(mat *input.Material) (int32, error) {
	texPath := mat.DiffuseTexturePath
	res, err := asset.NewResource(texPath, mat.AssetRelPath)
	if err != nil {
		return material.NoTexture, fmt.Errorf("%w %q for material %q: %v", ErrMissingTexture, texPath, mat.Name, err)
	}
	defer res.Close()

	// Check if texture is already loaded
	if texIndex, exists := sc.texIndexCache[res.Path()]; exists {
		sc.logger.Infof("%q: re-using already loaded texture %q", mat.Name, texPath)
		return texIndex, nil
	}

	sc.logger.Infof("%q: processing texture %q", mat.Name, texPath)

	tex, err := texture.New(res)
	if err != nil {
		return material.NoTexture, fmt.Errorf("%w %q for material %q: %v", ErrMissingTexture, texPath, mat.Name, err)
	}

	sc.optimizedScene.Textures = append(sc.optimizedScene.Textures, tex)
	texIndex := int32(len(sc.optimizedScene.Textures) - 1)
	sc.texIndexCache[res.Path()] = texIndex
	return texIndex, nil
}

// Convert spheres and transformed mesh instances into a flat primitive list
// and partition it with a BVH. The primitive list is reordered so that each
// leaf references a contiguous range.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Notice("partitioning geometry")

	matCount := len(sc.optimizedScene.Materials)
	checkMaterial := func(matIndex int, owner string) error {
		if matIndex < 0 || matIndex >= matCount {
			return fmt.Errorf("%w: %s uses material %d (%d available)", ErrUnknownMaterial, owner, matIndex, matCount)
		}
		return nil
	}

	totalPrimitives := len(sc.rawScene.Spheres)
	for _, mi := range sc.rawScene.MeshInstances {
		if int(mi.MeshIndex) >= len(sc.rawScene.Meshes) {
			return fmt.Errorf("%w: instance references mesh %d (%d available)", ErrUnknownMesh, mi.MeshIndex, len(sc.rawScene.Meshes))
		}
		totalPrimitives += len(sc.rawScene.Meshes[mi.MeshIndex].Primitives)
	}

	primList := make([]scene.Primitive, 0, totalPrimitives)
	for index, sphere := range sc.rawScene.Spheres {
		if err := checkMaterial(sphere.MaterialIndex, fmt.Sprintf("sphere %d", index)); err != nil {
			return err
		}
		primList = append(primList, scene.NewSphere(sphere.Center, sphere.Radius, uint32(sphere.MaterialIndex)))
	}

	sc.logger.Infof("processing %d mesh instances", len(sc.rawScene.MeshInstances))
	for _, mi := range sc.rawScene.MeshInstances {
		mesh := sc.rawScene.Meshes[mi.MeshIndex]
		normalMat := mi.Transform.NormalMat()
		for _, prim := range mesh.Primitives {
			if err := checkMaterial(prim.MaterialIndex, fmt.Sprintf("mesh %q", mesh.Name)); err != nil {
				return err
			}

			var vertices, normals [3]types.Vec3
			for i := 0; i < 3; i++ {
				vertices[i] = mi.Transform.MulPoint(prim.Vertices[i])
				normals[i] = normalMat.MulDir(prim.Normals[i]).Normalize()
			}
			primList = append(primList, scene.NewTriangle(vertices, normals, prim.UVs, uint32(prim.MaterialIndex)))
		}
	}

	volList := make([]bvh.BoundedVolume, len(primList))
	for index := range primList {
		volList[index] = &primList[index]
	}

	sc.logger.Infof("building BVH tree (%d primitives)", len(primList))
	sc.optimizedScene.Primitives = make([]scene.Primitive, 0, len(primList))
	sc.optimizedScene.BvhNodeList = bvh.Build(volList, minPrimitivesPerLeaf, func(node *scene.BvhNode, workList []bvh.BoundedVolume) {
		node.SetPrimitives(uint32(len(sc.optimizedScene.Primitives)), uint32(len(workList)))
		for _, workItem := range workList {
			sc.optimizedScene.Primitives = append(sc.optimizedScene.Primitives, *workItem.(*scene.Primitive))
		}
	}, bvh.SurfaceAreaHeuristic)

	sc.logger.Infof("partitioned geometry in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Setup the scene camera.
func (sc *sceneCompiler) setupCamera(aspect float32) error {
	camera, err := scene.NewCamera(sc.rawScene.Camera, aspect)
	if err != nil {
		return fmt.Errorf("compiler: %w", err)
	}

	sc.optimizedScene.Camera = camera
	return nil
}
