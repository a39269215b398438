package geometry

import (
	"math"
	"testing"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
)

func unitTriangle() *Triangle {
	mat := material.NewMaterial()
	v0 := Vertex{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0, 0)}
	v1 := Vertex{Position: core.NewVec3(1, 0, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(1, 0)}
	v2 := Vertex{Position: core.NewVec3(0, 1, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0, 1)}
	return NewTriangle(v0, v1, v2, false, &mat)
}

func TestTriangle_HitAndMiss(t *testing.T) {
	tri := unitTriangle()
	var rec HitRecord

	ray := core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1))
	if !tri.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Fatal("ray through the interior missed")
	}
	if math.Abs(rec.T-1) > 1e-12 {
		t.Errorf("hit distance %f, want 1", rec.T)
	}
	if rec.Point.Subtract(core.NewVec3(0.25, 0.25, 0)).Length() > 1e-12 {
		t.Errorf("hit point %v", rec.Point)
	}
	if !rec.FrontFace {
		t.Error("ray against the normal should hit the front face")
	}

	miss := core.NewRay(core.NewVec3(0.9, 0.9, 1), core.NewVec3(0, 0, -1))
	if tri.Hit(miss, 0.001, math.MaxFloat64, &rec) {
		t.Error("ray outside the hypotenuse reported a hit")
	}

	parallel := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0))
	if tri.Hit(parallel, 0.001, math.MaxFloat64, &rec) {
		t.Error("ray parallel to the plane reported a hit")
	}
}

func TestTriangle_BarycentricUV(t *testing.T) {
	tri := unitTriangle()
	var rec HitRecord

	ray := core.NewRay(core.NewVec3(0.3, 0.6, 1), core.NewVec3(0, 0, -1))
	if !tri.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Fatal("expected hit")
	}
	// With UVs matching barycentric axes the interpolated UV is the hit's
	// planar position
	if math.Abs(rec.UV.X-0.3) > 1e-12 || math.Abs(rec.UV.Y-0.6) > 1e-12 {
		t.Errorf("interpolated uv %v, want (0.3, 0.6)", rec.UV)
	}
}

func TestTriangle_BackfaceFlipsNormals(t *testing.T) {
	tri := unitTriangle()
	var rec HitRecord

	ray := core.NewRay(core.NewVec3(0.2, 0.2, -1), core.NewVec3(0, 0, 1))
	if !tri.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Fatal("expected backface hit")
	}
	if rec.FrontFace {
		t.Error("hit from behind flagged as front face")
	}
	if rec.GeomNormal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-12 {
		t.Errorf("backface geometric normal %v, want -Z", rec.GeomNormal)
	}
	if rec.ShadingNormal.Dot(rec.GeomNormal) <= 0 {
		t.Error("shading normal not flipped with the geometric normal")
	}
}

func TestTriangle_InterpolatesShadingNormal(t *testing.T) {
	mat := material.NewMaterial()
	n0 := core.NewVec3(-0.5, 0, 1).Normalize()
	n1 := core.NewVec3(0.5, 0, 1).Normalize()
	v0 := Vertex{Position: core.NewVec3(-1, 0, 0), Normal: n0}
	v1 := Vertex{Position: core.NewVec3(1, 0, 0), Normal: n1}
	v2 := Vertex{Position: core.NewVec3(0, 2, 0), Normal: core.NewVec3(0, 0, 1)}
	tri := NewTriangle(v0, v1, v2, false, &mat)

	var rec HitRecord
	ray := core.NewRay(core.NewVec3(0, 0.5, 1), core.NewVec3(0, 0, -1))
	if !tri.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Fatal("expected hit")
	}
	if math.Abs(rec.ShadingNormal.Length()-1) > 1e-9 {
		t.Errorf("interpolated normal not renormalized: %f", rec.ShadingNormal.Length())
	}
	// Centered between the tilted corners the lean cancels out
	if math.Abs(rec.ShadingNormal.X) > 1e-9 {
		t.Errorf("shading normal %v, want no sideways lean on the midline", rec.ShadingNormal)
	}
}

func TestTriangle_DegenerateNeverHits(t *testing.T) {
	mat := material.NewMaterial()
	p := core.NewVec3(1, 2, 3)
	tri := NewTriangle(Vertex{Position: p}, Vertex{Position: p}, Vertex{Position: p}, false, &mat)

	var rec HitRecord
	ray := core.NewRay(core.NewVec3(1, 2, 0), core.NewVec3(0, 0, 1))
	if tri.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Error("degenerate triangle reported a hit")
	}
}

func TestTriangle_BoundingBoxPadsFlatExtent(t *testing.T) {
	tri := unitTriangle()
	box := tri.BoundingBox()
	if box.Max.Z <= box.Min.Z {
		t.Error("flat triangle bounds have no thickness")
	}
	if box.Min.X > 0 || box.Max.X < 1 || box.Min.Y > 0 || box.Max.Y < 1 {
		t.Errorf("bounds %v do not cover the triangle", box)
	}
}
