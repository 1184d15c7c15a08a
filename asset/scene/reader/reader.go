package reader

import (
	"fmt"
	"strings"

	"github.com/Endoctrine/nebula/asset"
	"github.com/Endoctrine/nebula/asset/compiler"
	"github.com/Endoctrine/nebula/asset/compiler/input"
	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/types"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read a raw scene definition from a resource.
	Read(*asset.Resource) (*input.Scene, error)
}

// Select a reader based on the file extension.
func readerFor(filename string) (Reader, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".obj") {
		return newWavefrontReader(), nil
	}
	return nil, fmt.Errorf("reader: unsupported file format for %q", filename)
}

// Read a raw scene from file.
func ReadRawScene(filename string) (*input.Scene, error) {
	reader, err := readerFor(filename)
	if err != nil {
		return nil, err
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

// Read scene from file and compile it for rendering frames with the given
// width/height aspect ratio.
func ReadScene(filename string, aspect float32) (*scene.Scene, error) {
	rawScene, err := ReadRawScene(filename)
	if err != nil {
		return nil, err
	}

	return compiler.Compile(rawScene, aspect)
}

// Import the meshes and materials defined in a mesh file into an existing
// raw scene. Each imported mesh is instanced using the supplied transform.
// Camera settings, spheres and instance definitions in the imported file are
// ignored.
func ImportMesh(rawScene *input.Scene, filename string, transform types.Mat4) error {
	imported, err := ReadRawScene(filename)
	if err != nil {
		return err
	}

	matOffset := len(rawScene.Materials)
	rawScene.Materials = append(rawScene.Materials, imported.Materials...)

	for _, mesh := range imported.Meshes {
		for _, prim := range mesh.Primitives {
			prim.MaterialIndex += matOffset
		}
		rawScene.AddInstance(rawScene.AddMesh(mesh), transform)
	}
	return nil
}
