package geometry

import (
	"sort"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
)

// Leaves stop splitting below this many shapes
const bvhLeafSize = 4

// BVH is a bounding volume hierarchy built by median splits along the
// longest axis of each node's bounds
type BVH struct {
	root *bvhNode
}

type bvhNode struct {
	bounds core.AABB
	left   *bvhNode
	right  *bvhNode
	shapes []Shape // non-nil only for leaves
}

// NewBVH builds a hierarchy over the given shapes. The slice is not retained.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}
	owned := make([]Shape, len(shapes))
	copy(owned, shapes)
	return &BVH{root: buildBVHNode(owned)}
}

func buildBVHNode(shapes []Shape) *bvhNode {
	bounds := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		bounds = bounds.Union(s.BoundingBox())
	}

	node := &bvhNode{bounds: bounds}
	if len(shapes) <= bvhLeafSize {
		node.shapes = shapes
		return node
	}

	axis := bounds.LongestAxis()
	sort.Slice(shapes, func(i, j int) bool {
		ci := shapes[i].BoundingBox().Center()
		cj := shapes[j].BoundingBox().Center()
		switch axis {
		case 0:
			return ci.X < cj.X
		case 1:
			return ci.Y < cj.Y
		default:
			return ci.Z < cj.Z
		}
	})

	mid := len(shapes) / 2
	node.left = buildBVHNode(shapes[:mid])
	node.right = buildBVHNode(shapes[mid:])
	return node
}

// Hit finds the closest intersection within (tMin, tMax)
func (b *BVH) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if b.root == nil {
		return false
	}
	return b.root.hit(ray, tMin, tMax, rec)
}

func (n *bvhNode) hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if !n.bounds.Hit(ray, tMin, tMax) {
		return false
	}

	if n.shapes != nil {
		hitAny := false
		closest := tMax
		for _, s := range n.shapes {
			if s.Hit(ray, tMin, closest, rec) {
				hitAny = true
				closest = rec.T
			}
		}
		return hitAny
	}

	hitLeft := n.left.hit(ray, tMin, tMax, rec)
	if hitLeft {
		tMax = rec.T
	}
	hitRight := n.right.hit(ray, tMin, tMax, rec)
	return hitLeft || hitRight
}

// Occluded reports whether any shape blocks the ray within (tMin, tMax),
// stopping at the first hit found
func (b *BVH) Occluded(ray core.Ray, tMin, tMax float64) bool {
	if b.root == nil {
		return false
	}
	return b.root.occluded(ray, tMin, tMax)
}

func (n *bvhNode) occluded(ray core.Ray, tMin, tMax float64) bool {
	if !n.bounds.Hit(ray, tMin, tMax) {
		return false
	}
	if n.shapes != nil {
		var rec HitRecord
		for _, s := range n.shapes {
			if s.Hit(ray, tMin, tMax, &rec) {
				return true
			}
		}
		return false
	}
	return n.left.occluded(ray, tMin, tMax) || n.right.occluded(ray, tMin, tMax)
}

// BoundingBox returns the bounds of the whole hierarchy
func (b *BVH) BoundingBox() core.AABB {
	if b.root == nil {
		return core.AABB{}
	}
	return b.root.bounds
}
