package reader

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Endoctrine/nebula/asset"
	"github.com/Endoctrine/nebula/asset/compiler/input"
	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/log"
	"github.com/Endoctrine/nebula/types"
)

type wavefrontMaterial struct {
	Name string

	// Ambient color.
	Ka types.Vec3

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color and exponent.
	Ks types.Vec3
	Ns float32

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float32

	// Transmission filter
	Tf types.Vec3

	// Dissolve factor.
	D float32

	// Index of refraction.
	Ni float32

	// Texture for modulating the diffuse color.
	KdTex string

	// Relative path for textures.
	AssetRelPath *asset.Resource

	// True if this material is used by at least one primitive.
	Used bool
}

// Create a wavefront material with the default parameters. The transmission
// filter defaults to white so that a dissolve factor alone makes a surface
// transmissive.
func newWavefrontMaterial(name string, relPath *asset.Resource) *wavefrontMaterial {
	return &wavefrontMaterial{
		Name:         name,
		Kd:           types.Vec3{0.7, 0.7, 0.7},
		Tf:           types.Vec3{1, 1, 1},
		Ni:           1.0,
		KeScaler:     1.0,
		AssetRelPath: relPath,
	}
}

// Convert to a raw scene material.
func (wf *wavefrontMaterial) toMaterial() *input.Material {
	mat := material.New(wf.Name)
	mat.Ambient = wf.Ka
	mat.Diffuse = wf.Kd
	mat.Specular = wf.Ks
	mat.SpecularExponent = wf.Ns
	mat.Emissive = wf.Ke.Mul(wf.KeScaler)
	mat.TransmissionFilter = wf.Tf
	mat.Dissolve = wf.D
	mat.RefractiveIndex = wf.Ni

	return &input.Material{
		Material:           mat,
		DiffuseTexturePath: wf.KdTex,
		AssetRelPath:       wf.AssetRelPath,
		Used:               wf.Used,
	}
}

// Overwrite material parameters with the ones from a preset.
func (wf *wavefrontMaterial) applyPreset(preset material.Material) {
	wf.Ka = preset.Ambient
	wf.Kd = preset.Diffuse
	wf.Ks = preset.Specular
	wf.Ns = preset.SpecularExponent
	wf.Ke = preset.Emissive
	wf.KeScaler = 1.0
	wf.Tf = preset.TransmissionFilter
	wf.D = preset.Dissolve
	wf.Ni = preset.RefractiveIndex
}

// A sphere whose material index refers to the parsed wavefront materials.
type wavefrontSphere struct {
	center types.Vec3
	radius float32
	matIdx int
}

type wavefrontSceneReader struct {
	logger log.Logger

	// The parsed scene.
	rawScene *input.Scene

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// Parsed spheres.
	spheres []wavefrontSphere

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new text scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		rawScene:       input.NewScene(),
		matNameToIndex: make(map[string]int, 0),
		vertexList:     make([]types.Vec3, 0),
		normalList:     make([]types.Vec3, 0),
		uvList:         make([]types.Vec2, 0),
		errStack:       make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*input.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// Parse scene
	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	// If no mesh instances are defined, create instances for each defined mesh
	if len(r.rawScene.MeshInstances) == 0 {
		r.createDefaultMeshInstances()
	}

	// Prune unused materials
	r.processMaterials()

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return r.rawScene, nil
}

// Generate scene materials for material entries that are in use and update the
// material indices for all parsed primitives.
func (r *wavefrontSceneReader) processMaterials() {
	wfMaterialToSceneMaterial := make(map[int]int, 0)
	pruned := 0
	for wfIndex, wfMat := range r.materials {
		// Prune unused materials
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		r.rawScene.Materials = append(r.rawScene.Materials, wfMat.toMaterial())
		wfMaterialToSceneMaterial[wfIndex] = len(r.rawScene.Materials) - 1
	}

	// For each primitive, map wavefront material indices to the generated materials
	for _, mesh := range r.rawScene.Meshes {
		for _, prim := range mesh.Primitives {
			prim.MaterialIndex = wfMaterialToSceneMaterial[prim.MaterialIndex]
		}
	}
	for _, sphere := range r.spheres {
		r.rawScene.AddSphere(sphere.center, sphere.radius, wfMaterialToSceneMaterial[sphere.matIdx])
	}

	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}
}

// Generate a mesh instance with an identity transformation for each defined mesh.
func (r *wavefrontSceneReader) createDefaultMeshInstances() {
	for meshIndex := range r.rawScene.Meshes {
		r.rawScene.AddInstance(meshIndex, types.Ident4())
	}
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return errors.New(errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Create and select a default material for surfaces not using one.
func (r *wavefrontSceneReader) defaultMaterial() *wavefrontMaterial {
	matName := ""

	// Search for material in referenced list
	matIndex, exists := r.matNameToIndex[matName]
	if !exists {
		// Add it now
		r.materials = append(r.materials, newWavefrontMaterial(matName, nil))
		matIndex = len(r.materials) - 1
		r.matNameToIndex[matName] = matIndex
	}
	r.curMaterial = r.materials[matIndex]
	return r.curMaterial
}

// Select the default material if none is active and flag the current
// material as being in use so we don't prune it later. Returns the index of
// the current material.
func (r *wavefrontSceneReader) useCurrentMaterial() int {
	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}
	r.curMaterial.Used = true
	return r.matNameToIndex[r.curMaterial.Name]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for '%s'; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			defer incRes.Close()

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			// Lookup material
			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name '%s'`, matName)
			}

			// Activate material
			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for '%s'; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.rawScene.AddMesh(input.NewMesh(lineTokens[1]))
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			// If no object has been defined create a default one
			if len(r.rawScene.Meshes) == 0 {
				r.rawScene.AddMesh(input.NewMesh("default"))
			}

			// Append primitive
			meshIndex := len(r.rawScene.Meshes) - 1
			r.rawScene.Meshes[meshIndex].Primitives = append(r.rawScene.Meshes[meshIndex].Primitives, primList...)
		case "sphere":
			sphere, err := parseVec4(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.spheres = append(r.spheres, wavefrontSphere{
				center: types.Vec3{sphere[0], sphere[1], sphere[2]},
				radius: sphere[3],
				matIdx: r.useCurrentMaterial(),
			})
		case "camera_fov":
			r.rawScene.Camera.FOV, err = parseFloat32(lineTokens)
		case "camera_eye":
			r.rawScene.Camera.Eye, err = parseVec3(lineTokens)
		case "camera_look":
			r.rawScene.Camera.Look, err = parseVec3(lineTokens)
		case "camera_up":
			r.rawScene.Camera.Up, err = parseVec3(lineTokens)
		case "camera_aperture":
			r.rawScene.Camera.LensRadius, err = parseFloat32(lineTokens)
		case "camera_focus":
			r.rawScene.Camera.FocusDistance, err = parseFloat32(lineTokens)
		case "instance":
			instance, err := r.parseMeshInstance(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.rawScene.MeshInstances = append(r.rawScene.MeshInstances, instance)
		}

		// Report any camera parse errors
		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	r.verifyLastParsedMesh()
	return nil
}

// Drop the last parsed mesh if it contains no primitives.
func (r *wavefrontSceneReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.rawScene.Meshes) - 1
	if lastMeshIndex >= 0 && len(r.rawScene.Meshes[lastMeshIndex].Primitives) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.rawScene.Meshes[lastMeshIndex].Name)
		r.rawScene.Meshes = r.rawScene.Meshes[:lastMeshIndex]
	}
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ rX rY rZ sX sY sZ
// where:
// - tX, tY, tZ : translation vector
// - rX, rY, rZ : rotation angles in degrees around each axis (applied in X, Y, Z order)
// - sX, sY, sZ : scale
//
// The instance transform is M = T * R * S.
func (r *wavefrontSceneReader) parseMeshInstance(lineTokens []string) (*input.MeshInstance, error) {
	if len(lineTokens) != 11 {
		return nil, fmt.Errorf(`unsupported syntax for 'instance'; expected 10 arguments: mesh_name tX tY tZ rX rY rZ sX sY sZ; got %d`, len(lineTokens)-1)
	}

	// Find object by name
	meshName := lineTokens[1]
	meshIndex := -1
	for index, mesh := range r.rawScene.Meshes {
		if mesh.Name == meshName {
			meshIndex = index
			break
		}
	}

	if meshIndex == -1 {
		return nil, fmt.Errorf(`unknown mesh with name '%s'`, meshName)
	}

	var params [9]float32
	for index := range params {
		v, err := strconv.ParseFloat(lineTokens[index+2], 32)
		if err != nil {
			return nil, err
		}
		params[index] = float32(v)
	}

	translation := types.Vec3{params[0], params[1], params[2]}
	scale := types.Vec3{params[6], params[7], params[8]}

	// Convert rotation angles to radians
	var rotation types.Vec3
	for axis := 0; axis < 3; axis++ {
		rotation[axis] = params[3+axis] * math.Pi / 180.0
	}

	rotMat := types.QuatFromEuler(rotation[0], rotation[1], rotation[2]).Normalize().Mat4()
	return &input.MeshInstance{
		MeshIndex: uint32(meshIndex),
		Transform: types.Translate4(translation).Mul4(rotMat.Mul4(types.Scale4(scale))),
	}, nil
}

// Parse face definition. Each face definitions consists of 3 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// This method only works with triangular/quad faces and will return an error if a
// face with more than 4 vertices is encountered.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) ([]*input.Primitive, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for 'f'; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	var uv [4]types.Vec2
	var vOffset int
	var err error
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]

		// Parse UV coords if specified
		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			uv[arg] = r.uvList[vOffset]
		}

		// Parse normal coords if specified
		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[vOffset]
			hasNormals = true
		}
	}

	matIndex := r.useCurrentMaterial()

	// If no normals are available generate them from the vertices
	if !hasNormals {
		e01 := vertices[1].Sub(vertices[0])
		e02 := vertices[2].Sub(vertices[0])
		faceNormal := e01.Cross(e02).Normalize()
		normals[0] = faceNormal
		normals[1] = faceNormal
		normals[2] = faceNormal
		normals[3] = faceNormal
	}

	// Assemble vertices into one or two primitives depending on whether we are parsing a triangular or a quad face
	primitives := make([]*input.Primitive, 0)
	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	for _, indices := range indiceList {
		prim := &input.Primitive{MaterialIndex: matIndex}

		// copy vertices for this triangle
		for triIndex, selectIndex := range indices {
			prim.Vertices[triIndex] = vertices[selectIndex]
			prim.Normals[triIndex] = normals[selectIndex]
			prim.UVs[triIndex] = uv[selectIndex]
		}
		primitives = append(primitives, prim)
	}

	return primitives, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'newmtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material '%s' already defined`, matName)
			}

			// Allocate new material and add it to library
			curMaterial = newWavefrontMaterial(matName, res)
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got '%s' without a 'newmtl'`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for '%s'; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material '%s'`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
			case "preset":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for '%s'; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				preset, exists := material.Preset(lineTokens[1])
				if !exists {
					return r.emitError(res.Path(), lineNum, `unknown material preset '%s'`, lineTokens[1])
				}
				curMaterial.applyPreset(preset)
			case "Ka", "Kd", "Ks", "Ke", "Tf":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Ka":
					target = &curMaterial.Ka
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				case "Ke":
					target = &curMaterial.Ke
				case "Tf":
					target = &curMaterial.Tf
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat32(lineTokens)
			case "Ns":
				curMaterial.Ns, err = parseFloat32(lineTokens)
			case "d":
				curMaterial.D, err = parseFloat32(lineTokens)
			case "Tr":
				var tr float32
				tr, err = parseFloat32(lineTokens)
				curMaterial.D = 1 - tr
			case "KeScaler":
				curMaterial.KeScaler, err = parseFloat32(lineTokens)
			case "map_Kd":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for '%s'; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}
				curMaterial.KdTex = lineTokens[len(lineTokens)-1]
			default:
				r.logger.Debugf("%s:%d: ignoring unsupported material parameter %q", res.Path(), lineNum, lineTokens[0])
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return nil
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for '%s'; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a row of n float values.
func parseFloats(lineTokens []string, out []float32) error {
	if len(lineTokens) < len(out)+1 {
		return fmt.Errorf(`unsupported syntax for '%s'; expected %d arguments; got %d`, lineTokens[0], len(out), len(lineTokens)-1)
	}

	for tokIdx := 1; tokIdx <= len(out); tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return err
		}
		out[tokIdx-1] = float32(coord)
	}
	return nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	v := types.Vec2{}
	err := parseFloats(lineTokens, v[:])
	return v, err
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	v := types.Vec3{}
	err := parseFloats(lineTokens, v[:])
	return v, err
}

// Parse a row with 4 values.
func parseVec4(lineTokens []string) ([4]float32, error) {
	var v [4]float32
	err := parseFloats(lineTokens, v[:])
	return v, err
}
