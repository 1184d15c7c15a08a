package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/Endoctrine/nebula/asset/material"
	"github.com/Endoctrine/nebula/asset/texture"
	"github.com/Endoctrine/nebula/types"
	"github.com/olekukonko/tablewriter"
)

// Initial capacity of the traversal stack. Deeper trees spill to the heap.
const traversalStackSize = 64

var noAlbedo = types.Vec3{1, 1, 1}

// A compiled scene. The primitive list is ordered so that each BVH leaf
// references a contiguous primitive range. Scenes are never modified after
// compilation and can be shared by any number of tracers.
type Scene struct {
	BvhNodeList []BvhNode
	Primitives  []Primitive
	Materials   []material.Material
	Textures    []*texture.Texture

	// The scene camera.
	Camera *Camera
}

type stackEntry struct {
	node  int32
	tNear float32
}

// Find the closest primitive hit by ray r within [tMin, tMax] using the BVH.
//
// Child nodes are visited nearest first; nodes whose entry distance lies
// beyond the closest hit found so far are skipped.
func (sc *Scene) NearestHit(r types.Ray, tMin, tMax float32) (HitRecord, bool) {
	var rec HitRecord
	if len(sc.BvhNodeList) == 0 {
		return rec, false
	}

	inv := invDir(r.Dir)
	closest := tMax
	found := false

	root := &sc.BvhNodeList[0]
	rootBBox := root.BBox()
	tRoot, ok := rootBBox.hit(r.Origin, inv, tMin, closest)
	if !ok {
		return rec, false
	}

	var stackBuf [traversalStackSize]stackEntry
	stack := append(stackBuf[:0], stackEntry{0, tRoot})
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if entry.tNear > closest {
			continue
		}

		node := &sc.BvhNodeList[entry.node]
		if node.IsLeaf() {
			first, count := node.GetPrimitives()
			for i := first; i < first+count; i++ {
				if sc.Primitives[i].Intersect(r, tMin, closest, &rec) {
					closest = rec.T
					found = true
				}
			}
			continue
		}

		left, right := node.GetChildNodes()
		lBBox, rBBox := sc.BvhNodeList[left].BBox(), sc.BvhNodeList[right].BBox()
		tLeft, hitLeft := lBBox.hit(r.Origin, inv, tMin, closest)
		tRight, hitRight := rBBox.hit(r.Origin, inv, tMin, closest)

		switch {
		case hitLeft && hitRight:
			near, far := stackEntry{int32(left), tLeft}, stackEntry{int32(right), tRight}
			if tRight < tLeft {
				near, far = far, near
			}
			stack = append(stack, far, near)
		case hitLeft:
			stack = append(stack, stackEntry{int32(left), tLeft})
		case hitRight:
			stack = append(stack, stackEntry{int32(right), tRight})
		}
	}

	return rec, found
}

// Find the closest primitive hit by ray r within [tMin, tMax] by testing every
// scene primitive.
func (sc *Scene) BruteForceHit(r types.Ray, tMin, tMax float32) (HitRecord, bool) {
	var rec HitRecord
	closest := tMax
	found := false
	for i := range sc.Primitives {
		if sc.Primitives[i].Intersect(r, tMin, closest, &rec) {
			closest = rec.T
			found = true
		}
	}
	return rec, found
}

// Get the material for a hit record.
func (sc *Scene) Material(rec *HitRecord) *material.Material {
	return &sc.Materials[rec.MaterialIndex]
}

// Get the diffuse color multiplier at the hit point. Materials without a
// texture yield (1, 1, 1).
func (sc *Scene) Albedo(rec *HitRecord) types.Vec3 {
	mat := &sc.Materials[rec.MaterialIndex]
	if !mat.HasTexture() {
		return noAlbedo
	}
	return sc.Textures[mat.DiffuseTexture].Sample(rec.UV[0], rec.UV[1])
}

// Get the bounds of all scene primitives.
func (sc *Scene) Bounds() AABB {
	if len(sc.BvhNodeList) == 0 {
		return EmptyAABB()
	}
	return sc.BvhNodeList[0].BBox()
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var spheres, triangles int
	for i := range sc.Primitives {
		switch sc.Primitives[i].Type {
		case SpherePrimitive:
			spheres++
		case TrianglePrimitive:
			triangles++
		}
	}

	var leafs int
	for i := range sc.BvhNodeList {
		if sc.BvhNodeList[i].IsLeaf() {
			leafs++
		}
	}

	var textureBytes int
	for _, tex := range sc.Textures {
		textureBytes += tex.Size()
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(sc.Primitives)), fmtSize(sc.Primitives)})
	table.Append([]string{"", "Spheres", fmt.Sprint(spheres), ""})
	table.Append([]string{"", "Triangles", fmt.Sprint(triangles), ""})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"BVH", "---", fmt.Sprint(len(sc.BvhNodeList)), fmtSize(sc.BvhNodeList)})
	table.Append([]string{"", "Leafs", fmt.Sprint(leafs), ""})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprint(len(sc.Materials)), fmtSize(sc.Materials)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Textures", "---", fmt.Sprint(len(sc.Textures)), fmtBytes(float32(textureBytes))})
	for _, tex := range sc.Textures {
		table.Append([]string{"", tex.Name, fmt.Sprintf("%dx%d %s", tex.Width, tex.Height, tex.Format), fmtBytes(float32(tex.Size()))})
	}
	total := sizeOf(sc.Primitives, sc.BvhNodeList, sc.Materials) + float32(textureBytes)
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtBytes(total), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	return fmtBytes(sizeOf(items...))
}

func sizeOf(items ...interface{}) float32 {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}
	return totalBytes
}

func fmtBytes(totalBytes float32) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
