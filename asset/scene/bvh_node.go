package scene

import "github.com/Endoctrine/nebula/types"

// Bvh nodes are comprised of two Vec3 and two multipurpose int32 parameters
// whose value depends on the node type:
//
// - For internal nodes they are both > 0 and point to the L/R child nodes
// - For leafs:
//   - LData is <= 0 and its negated value is the first primitive index
//   - RData is > 0 and contains the count of leaf primitives
type BvhNode struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set bounding box.
func (n *BvhNode) SetBBox(bbox AABB) {
	n.Min = bbox.Min
	n.Max = bbox.Max
}

// Get bounding box.
func (n *BvhNode) BBox() AABB {
	return AABB{Min: n.Min, Max: n.Max}
}

// Set left and right child node indices.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *BvhNode) GetChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set primitive index and count.
func (n *BvhNode) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *BvhNode) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Returns true if this is a leaf node. The root is always stored at index 0
// so child indices of internal nodes are always positive.
func (n *BvhNode) IsLeaf() bool {
	return n.LData <= 0
}
