package geometry

import (
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Primitives  []Primitive // leaf payload, nil for internal nodes
}

// BVH is a Bounding Volume Hierarchy over primitives. It is itself a
// Primitive and returns the same nearest hit as a linear scan.
type BVH struct {
	Root *BVHNode
}

// leafThreshold: this many primitives or fewer are stored in a single leaf
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of primitives
func NewBVH(primitives []Primitive) *BVH {
	if len(primitives) == 0 {
		return &BVH{}
	}

	// the builder reorders in place
	prims := make([]Primitive, len(primitives))
	copy(prims, primitives)

	return &BVH{Root: buildBVH(prims)}
}

// buildBVH splits at the median along the longest axis of the node bounds
func buildBVH(prims []Primitive) *BVHNode {
	bbox := prims[0].BoundingBox()
	for _, p := range prims[1:] {
		bbox = bbox.Union(p.BoundingBox())
	}

	if len(prims) <= leafThreshold {
		return &BVHNode{BoundingBox: bbox, Primitives: prims}
	}

	axis := bbox.LongestAxis()
	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].BoundingBox().Center().Axis(axis) < prims[j].BoundingBox().Center().Axis(axis)
	})

	mid := len(prims) / 2
	return &BVHNode{
		BoundingBox: bbox,
		Left:        buildBVH(prims[:mid]),
		Right:       buildBVH(prims[mid:]),
	}
}

// Intersect finds the nearest hit closer than rec.T
func (b *BVH) Intersect(ray core.Ray, rec *HitRecord) bool {
	if b.Root == nil {
		return false
	}
	return b.intersectNode(b.Root, ray, rec)
}

func (b *BVH) intersectNode(node *BVHNode, ray core.Ray, rec *HitRecord) bool {
	if !node.BoundingBox.Hit(ray, 0, rec.T) {
		return false
	}

	if node.Primitives != nil {
		hit := false
		for _, p := range node.Primitives {
			if p.Intersect(ray, rec) {
				hit = true
			}
		}
		return hit
	}

	// the right child is searched only up to the left child's hit
	left := *rec
	hitLeft := node.Left != nil && b.intersectNode(node.Left, ray, &left)
	right := left
	hitRight := node.Right != nil && b.intersectNode(node.Right, ray, &right)
	if !hitLeft && !hitRight {
		return false
	}

	*rec = Closer(left, right)
	return true
}

// BoundingBox returns the bounds of the root node
func (b *BVH) BoundingBox() core.AABB {
	if b.Root == nil {
		return core.AABB{}
	}
	return b.Root.BoundingBox
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes      int
	leafNodes       int
	maxDepth        int
	totalPrimitives int
}

func (b *BVH) stats() bvhStats {
	var s bvhStats
	if b.Root != nil {
		collectStats(b.Root, 0, &s)
	}
	return s
}

func collectStats(node *BVHNode, depth int, s *bvhStats) {
	s.totalNodes++
	s.maxDepth = max(s.maxDepth, depth)

	if node.Primitives != nil {
		s.leafNodes++
		s.totalPrimitives += len(node.Primitives)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, s)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, s)
	}
}
