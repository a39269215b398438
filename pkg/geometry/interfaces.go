package geometry

import (
	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
)

// HitRecord carries everything the shading system needs from an intersection
type HitRecord struct {
	T             float64
	Point         core.Vec3
	GeomNormal    core.Vec3 // geometric normal, always facing the incoming ray
	ShadingNormal core.Vec3 // interpolated vertex normal
	Tangent       core.Vec3
	HasTangent    bool
	UV            core.Vec2
	FrontFace     bool
	Material      *material.Material
}

// Shape is anything a ray can intersect. Hit fills rec and returns true when
// the closest intersection lies within (tMin, tMax).
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool
	BoundingBox() core.AABB
}
