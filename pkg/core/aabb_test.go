package core

import (
	"math"
	"testing"
)

func TestAABB_HitSlabMethod(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	through := NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1))
	if !box.Hit(through, 0.001, math.MaxFloat64) {
		t.Error("ray through the box missed")
	}

	beside := NewRay(NewVec3(0, 3, 5), NewVec3(0, 0, -1))
	if box.Hit(beside, 0.001, math.MaxFloat64) {
		t.Error("ray beside the box reported a hit")
	}

	away := NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1))
	if box.Hit(away, 0.001, math.MaxFloat64) {
		t.Error("ray pointing away reported a hit")
	}

	// Segment stopping short of the box
	if box.Hit(through, 0.001, 3) {
		t.Error("segment ending before the box reported a hit")
	}

	inside := NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0))
	if !box.Hit(inside, 0.001, math.MaxFloat64) {
		t.Error("ray starting inside the box missed")
	}
}

func TestAABB_HitParallelRay(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	// Parallel to the Y slab, origin inside that slab's range
	grazing := NewRay(NewVec3(0, 0.5, 5), NewVec3(0, 0, -1))
	if !box.Hit(grazing, 0.001, math.MaxFloat64) {
		t.Error("parallel ray inside the slab missed")
	}

	// Parallel and outside that slab's range
	outside := NewRay(NewVec3(0, 2, 5), NewVec3(0, 0, -1))
	if box.Hit(outside, 0.001, math.MaxFloat64) {
		t.Error("parallel ray outside the slab reported a hit")
	}
}

func TestAABB_FromPointsAndUnion(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, 5, -2), NewVec3(-3, 0, 4), NewVec3(2, 1, 1))
	if box.Min != NewVec3(-3, 0, -2) || box.Max != NewVec3(2, 5, 4) {
		t.Errorf("bounds = %v", box)
	}

	other := NewAABB(NewVec3(-10, 0, 0), NewVec3(-5, 1, 1))
	combined := box.Union(other)
	if combined.Min != NewVec3(-10, 0, -2) || combined.Max != NewVec3(2, 5, 4) {
		t.Errorf("union = %v", combined)
	}
}

func TestAABB_CenterSizeLongestAxis(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 6, 4))

	if box.Center() != NewVec3(1, 3, 2) {
		t.Errorf("center = %v", box.Center())
	}
	if box.Size() != NewVec3(2, 6, 4) {
		t.Errorf("size = %v", box.Size())
	}
	if got := box.LongestAxis(); got != 1 {
		t.Errorf("longest axis = %d, want y", got)
	}
}
