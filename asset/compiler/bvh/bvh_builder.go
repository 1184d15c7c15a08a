package bvh

import (
	"math"
	"sort"
	"time"

	"github.com/Endoctrine/nebula/asset/scene"
	"github.com/Endoctrine/nebula/log"
	"github.com/Endoctrine/nebula/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the spread of item centers along an axis is less than this threshold.
	minSideLength float32 = 1e-6

	// Nodes with more items than this are always split even when no
	// candidate improves the node score.
	maxLeafItems = 16
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all primitives that can
// be partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() scene.AABB
	Center() types.Vec3
}

// A callback that is called whenever the BVH builder creates a new leaf.
type LeafCallback func(leaf *scene.BvhNode, itemList []BoundedVolume)

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting a node into a left and a right set
	// with the given bounds and item counts.
	ScoreSplit(leftBBox scene.AABB, leftCount int, rightBBox scene.AABB, rightCount int) (score float32)

	// Calculate a score for keeping count items with the given bounds in a
	// single node.
	ScorePartition(bbox scene.AABB, count int) (score float32)
}

type splitScore struct {
	axis Axis

	// Items sorted by their center along axis; the first splitIndex items
	// form the left partition.
	sortedItems []BoundedVolume
	splitIndex  int

	score float32
}

type stats struct {
	partitionedItems int
	totalItems       int
	nodes            int
	leafs            int
	maxDepth         int
	medianSplits     int
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []scene.BvhNode

	// A callback invoked to set up BVH leafs.
	leafCb LeafCallback

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// A channel for receiving score results.
	scoreChan chan splitScore

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	// Stats
	stats stats
}

// Construct a BVH from a set of bounded volumes. The root node is always
// stored at index 0. An empty work list yields an empty node list.
//
// For each node the builder sorts the items by their center along each axis
// (axes are processed in parallel) and sweeps all split positions using the
// supplied score strategy. The best scoring split is selected unless keeping
// the items together scores better and the item count does not exceed the
// max leaf size.
//
// The minLeafItems param should be used to specified the minimum number of
// items that can form a leaf. The BVH builder will automatically generate leafs
// if the incoming work length is <= minLeafItems. If all item centers
// coincide the builder falls back to a median split.
func Build(workList []BoundedVolume, minLeafItems int, leafCb LeafCallback, scoreStrategy ScoreStrategy) []scene.BvhNode {
	if len(workList) == 0 {
		return nil
	}
	if minLeafItems < 1 {
		minLeafItems = 1
	}

	b := &builder{
		logger:        log.New("bvh builder"),
		nodes:         make([]scene.BvhNode, 0, 2*len(workList)/minLeafItems+1),
		leafCb:        leafCb,
		minLeafItems:  minLeafItems,
		scoreChan:     make(chan splitScore),
		scoreStrategy: scoreStrategy,
		stats: stats{
			totalItems: len(workList),
		},
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d, median splits: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.partitionedItems, b.stats.maxDepth, b.stats.nodes, b.stats.leafs, b.stats.medianSplits,
	)
	return b.nodes
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	// Calculate bounding box for node and the bounds of the item centers
	node := scene.BvhNode{}
	bbox := scene.EmptyAABB()
	centerBBox := scene.EmptyAABB()
	for _, item := range workList {
		bbox = bbox.Union(item.BBox())
		centerBBox = centerBBox.Grow(item.Center())
	}
	node.SetBBox(bbox)

	// Do we have enough items for partitioning? If not create a leaf
	if len(workList) <= b.minLeafItems {
		return b.createLeaf(&node, workList)
	}

	// Try partitioning along each axis in parallel and select the split with best score
	pendingScores := 0
	spread := centerBBox.Size()
	for axis := XAxis; axis <= ZAxis; axis++ {
		if spread[axis] < minSideLength {
			continue
		}

		pendingScores++
		go func(axis Axis) {
			b.scoreChan <- b.scoreAxis(workList, axis)
		}(axis)
	}

	var bestSplit *splitScore
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if bestSplit == nil || candidate.score < bestSplit.score ||
			(candidate.score == bestSplit.score && candidate.axis < bestSplit.axis) {
			bestSplit = &candidate
		}
	}

	var leftWorkList, rightWorkList []BoundedVolume
	switch {
	case bestSplit == nil:
		// All centers coincide; SAH cannot separate the items
		if len(workList) <= maxLeafItems {
			return b.createLeaf(&node, workList)
		}
		b.stats.medianSplits++
		mid := len(workList) / 2
		leftWorkList, rightWorkList = workList[:mid], workList[mid:]
	case bestSplit.score >= b.scoreStrategy.ScorePartition(bbox, len(workList)) && len(workList) <= maxLeafItems:
		// If we can't find a split that improves the current node score create a leaf
		return b.createLeaf(&node, workList)
	default:
		leftWorkList = bestSplit.sortedItems[:bestSplit.splitIndex]
		rightWorkList = bestSplit.sortedItems[bestSplit.splitIndex:]
	}

	// Add node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Sort a copy of the work list by item center along axis and sweep all split
// positions returning the one with the best score.
func (b *builder) scoreAxis(workList []BoundedVolume, axis Axis) splitScore {
	sorted := make([]BoundedVolume, len(workList))
	copy(sorted, workList)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Center()[axis] < sorted[j].Center()[axis]
	})

	// rightBBoxes[i] holds the bounds of sorted[i:]
	rightBBoxes := make([]scene.AABB, len(sorted))
	acc := scene.EmptyAABB()
	for i := len(sorted) - 1; i >= 0; i-- {
		acc = acc.Union(sorted[i].BBox())
		rightBBoxes[i] = acc
	}

	best := splitScore{
		axis:        axis,
		sortedItems: sorted,
		splitIndex:  len(sorted) / 2,
		score:       math.MaxFloat32,
	}
	leftBBox := scene.EmptyAABB()
	for i := 1; i < len(sorted); i++ {
		leftBBox = leftBBox.Union(sorted[i-1].BBox())
		score := b.scoreStrategy.ScoreSplit(leftBBox, i, rightBBoxes[i], len(sorted)-i)
		if score < best.score {
			best.score = score
			best.splitIndex = i
		}
	}

	return best
}

// Setup the given node item as a leaf node containing all items in the work list.
// Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *scene.BvhNode, workList []BoundedVolume) uint32 {
	b.leafCb(node, workList)

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	// update stats
	b.stats.leafs++
	b.stats.partitionedItems += len(workList)

	return uint32(nodeIndex)
}

// A score implementation that uses surface area heuristic for calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it enounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(leftBBox scene.AABB, leftCount int, rightBBox scene.AABB, rightCount int) float32 {
	if leftCount == 0 || rightCount == 0 {
		return math.MaxFloat32
	}

	return float32(leftCount)*leftBBox.HalfArea() + float32(rightCount)*rightBBox.HalfArea()
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat32).
func (h surfaceAreaHeuristic) ScorePartition(bbox scene.AABB, count int) float32 {
	if count == 0 {
		return math.MaxFloat32
	}

	return float32(count) * bbox.HalfArea()
}
