package geometry

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
)

// Vertex is a triangle corner with its shading attributes
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	Tangent  core.Vec3
	UV       core.Vec2
}

// Triangle is a single mesh face with interpolated vertex attributes
type Triangle struct {
	V0, V1, V2 Vertex
	HasTangent bool
	Material   *material.Material

	// Precomputed for intersection
	edge1, edge2 core.Vec3
	faceNormal   core.Vec3
	degenerate   bool
}

// NewTriangle precomputes edges and the geometric normal
func NewTriangle(v0, v1, v2 Vertex, hasTangent bool, mat *material.Material) *Triangle {
	edge1 := v1.Position.Subtract(v0.Position)
	edge2 := v2.Position.Subtract(v0.Position)
	cross := edge1.Cross(edge2)
	t := &Triangle{
		V0:         v0,
		V1:         v1,
		V2:         v2,
		HasTangent: hasTangent,
		Material:   mat,
		edge1:      edge1,
		edge2:      edge2,
	}
	if cross.IsZero() {
		t.degenerate = true
		return t
	}
	t.faceNormal = cross.Normalize()
	return t
}

// Hit implements Möller-Trumbore intersection with barycentric attribute
// interpolation
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if t.degenerate {
		return false
	}

	h := ray.Direction.Cross(t.edge2)
	det := t.edge1.Dot(h)
	if math.Abs(det) < 1e-12 {
		return false
	}
	invDet := 1 / det

	s := ray.Origin.Subtract(t.V0.Position)
	u := s.Dot(h) * invDet
	if u < 0 || u > 1 {
		return false
	}

	q := s.Cross(t.edge1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	tHit := t.edge2.Dot(q) * invDet
	if tHit <= tMin || tHit >= tMax {
		return false
	}

	w := 1 - u - v
	rec.T = tHit
	rec.Point = ray.At(tHit)
	rec.UV = t.V0.UV.Multiply(w).Add(t.V1.UV.Multiply(u)).Add(t.V2.UV.Multiply(v))
	rec.Material = t.Material

	shadingNormal := t.V0.Normal.Multiply(w).
		Add(t.V1.Normal.Multiply(u)).
		Add(t.V2.Normal.Multiply(v))
	if shadingNormal.IsZero() {
		shadingNormal = t.faceNormal
	} else {
		shadingNormal = shadingNormal.Normalize()
	}

	rec.FrontFace = ray.Direction.Dot(t.faceNormal) < 0
	if rec.FrontFace {
		rec.GeomNormal = t.faceNormal
		rec.ShadingNormal = shadingNormal
	} else {
		rec.GeomNormal = t.faceNormal.Negate()
		rec.ShadingNormal = shadingNormal.Negate()
	}

	rec.HasTangent = t.HasTangent
	if t.HasTangent {
		rec.Tangent = t.V0.Tangent.Multiply(w).
			Add(t.V1.Tangent.Multiply(u)).
			Add(t.V2.Tangent.Multiply(v))
	}
	return true
}

func (t *Triangle) BoundingBox() core.AABB {
	box := core.NewAABBFromPoints(t.V0.Position, t.V1.Position, t.V2.Position)
	// Pad flat triangles so the slab test cannot miss them
	const pad = 1e-8
	box.Min = box.Min.Subtract(core.NewVec3(pad, pad, pad))
	box.Max = box.Max.Add(core.NewVec3(pad, pad, pad))
	return box
}
