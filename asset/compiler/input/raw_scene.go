package input

import (
	"github.com/Endoctrine/nebula/asset"
	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/asset/texture"
	"github.com/Endoctrine/nebula/types"
)

// Name of the mesh that collects triangles added via AddTriangle.
const TriangleMeshName = "triangles"

type Material struct {
	material.Material

	// Path to a texture that modulates the diffuse color. When set the
	// compiler loads it and overrides Material.DiffuseTexture.
	DiffuseTexturePath string

	// Relative path for textures.
	AssetRelPath *asset.Resource

	// True if material is referenced by scene geometry.
	Used bool
}

// A triangle primitive in mesh space.
type Primitive struct {
	Vertices      [3]types.Vec3
	Normals       [3]types.Vec3
	UVs           [3]types.Vec2
	MaterialIndex int
}

// A mesh is constructed by a list of primitive.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Create a new mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Primitives: make([]*Primitive, 0),
	}
}

// A mesh instance applies a transformation to a particular Mesh.
type MeshInstance struct {
	MeshIndex uint32
	Transform types.Mat4
}

// An analytic sphere in world space.
type Sphere struct {
	Center        types.Vec3
	Radius        float32
	MaterialIndex int
}

// The scene contains all elements that are processed and optimized by the
// scene compiler.
type Scene struct {
	Meshes        []*Mesh
	MeshInstances []*MeshInstance
	Spheres       []*Sphere
	Materials     []*Material

	// Textures supplied directly by the caller. Materials may reference
	// them by index via Material.DiffuseTexture.
	Textures []*texture.Texture

	Camera scene.CameraSettings

	// Index of the mesh populated by AddTriangle or -1.
	triangleMesh int
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Meshes:        make([]*Mesh, 0),
		MeshInstances: make([]*MeshInstance, 0),
		Spheres:       make([]*Sphere, 0),
		Materials:     make([]*Material, 0),
		Textures:      make([]*texture.Texture, 0),
		Camera:        scene.DefaultCameraSettings(),
		triangleMesh:  -1,
	}
}

// Add a material and return its index.
func (sc *Scene) AddMaterial(mat material.Material) int {
	sc.Materials = append(sc.Materials, &Material{
		Material: mat,
		Used:     true,
	})
	return len(sc.Materials) - 1
}

// Add a texture and return its index.
func (sc *Scene) AddTexture(tex *texture.Texture) int {
	sc.Textures = append(sc.Textures, tex)
	return len(sc.Textures) - 1
}

// Add a sphere that uses the material at matIndex.
func (sc *Scene) AddSphere(center types.Vec3, radius float32, matIndex int) {
	sc.Spheres = append(sc.Spheres, &Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: matIndex,
	})
}

// Add a world space triangle that uses the material at matIndex. Triangles
// with zero normals are shaded using their geometric normal.
func (sc *Scene) AddTriangle(vertices, normals [3]types.Vec3, uvs [3]types.Vec2, matIndex int) {
	if sc.triangleMesh == -1 {
		sc.triangleMesh = sc.AddMesh(NewMesh(TriangleMeshName))
		sc.AddInstance(sc.triangleMesh, types.Ident4())
	}

	mesh := sc.Meshes[sc.triangleMesh]
	mesh.Primitives = append(mesh.Primitives, &Primitive{
		Vertices:      vertices,
		Normals:       normals,
		UVs:           uvs,
		MaterialIndex: matIndex,
	})
}

// Add a mesh and return its index.
func (sc *Scene) AddMesh(mesh *Mesh) int {
	sc.Meshes = append(sc.Meshes, mesh)
	return len(sc.Meshes) - 1
}

// Place an instance of the mesh at meshIndex using the given transformation.
func (sc *Scene) AddInstance(meshIndex int, transform types.Mat4) {
	sc.MeshInstances = append(sc.MeshInstances, &MeshInstance{
		MeshIndex: uint32(meshIndex),
		Transform: transform,
	})
}
