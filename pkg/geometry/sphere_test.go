package geometry

import (
	"math"
	"testing"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
)

func TestSphere_HitClosestRoot(t *testing.T) {
	mat := material.NewMaterial()
	sph := NewSphere(core.NewVec3(0, 0, 0), 1, &mat)
	var rec HitRecord

	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	if !sph.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Fatal("ray at the sphere missed")
	}
	if math.Abs(rec.T-2) > 1e-12 {
		t.Errorf("hit distance %f, want near face at 2", rec.T)
	}
	if !rec.FrontFace {
		t.Error("outside hit flagged as back face")
	}
	if rec.GeomNormal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("normal %v, want +Z", rec.GeomNormal)
	}
}

func TestSphere_InsideHitFlipsNormal(t *testing.T) {
	mat := material.NewMaterial()
	sph := NewSphere(core.NewVec3(0, 0, 0), 1, &mat)
	var rec HitRecord

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if !sph.Hit(ray, 0.001, math.MaxFloat64, &rec) {
		t.Fatal("ray from the center missed")
	}
	if rec.FrontFace {
		t.Error("inside hit flagged as front face")
	}
	// Normal faces back toward the ray origin
	if rec.GeomNormal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("inside normal %v, want +Z", rec.GeomNormal)
	}
}

func TestSphere_MissAndRange(t *testing.T) {
	mat := material.NewMaterial()
	sph := NewSphere(core.NewVec3(0, 0, 0), 1, &mat)
	var rec HitRecord

	miss := core.NewRay(core.NewVec3(0, 3, 3), core.NewVec3(0, 0, -1))
	if sph.Hit(miss, 0.001, math.MaxFloat64, &rec) {
		t.Error("ray passing above the sphere reported a hit")
	}

	behind := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1))
	if sph.Hit(behind, 0.001, math.MaxFloat64, &rec) {
		t.Error("sphere behind the ray reported a hit")
	}

	tooFar := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	if sph.Hit(tooFar, 0.001, 1.5, &rec) {
		t.Error("hit beyond tMax reported")
	}
}

func TestSphere_EquirectangularUV(t *testing.T) {
	mat := material.NewMaterial()
	sph := NewSphere(core.NewVec3(0, 0, 0), 1, &mat)
	var rec HitRecord

	// +Z facing point is the UV center seam
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	sph.Hit(ray, 0.001, math.MaxFloat64, &rec)
	if math.Abs(rec.UV.X-0.5) > 1e-12 || math.Abs(rec.UV.Y-0.5) > 1e-12 {
		t.Errorf("uv at +Z equator = %v, want (0.5, 0.5)", rec.UV)
	}

	// North pole maps to v=0
	ray = core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0))
	sph.Hit(ray, 0.001, math.MaxFloat64, &rec)
	if math.Abs(rec.UV.Y) > 1e-9 {
		t.Errorf("v at north pole = %f, want 0", rec.UV.Y)
	}

	if !rec.HasTangent {
		t.Error("analytic sphere should always carry a tangent")
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	mat := material.NewMaterial()
	sph := NewSphere(core.NewVec3(1, 2, 3), 2, &mat)
	box := sph.BoundingBox()

	if box.Min.Subtract(core.NewVec3(-1, 0, 1)).Length() > 1e-12 {
		t.Errorf("bounds min %v", box.Min)
	}
	if box.Max.Subtract(core.NewVec3(3, 4, 5)).Length() > 1e-12 {
		t.Errorf("bounds max %v", box.Max)
	}
}
