package geometry

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
)

// Sphere is an analytic sphere, mostly useful for test scenes
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
}

func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return false
		}
	}

	rec.T = root
	rec.Point = ray.At(root)
	outward := rec.Point.Subtract(s.Center).Multiply(1 / s.Radius)
	rec.FrontFace = ray.Direction.Dot(outward) < 0
	if rec.FrontFace {
		rec.GeomNormal = outward
	} else {
		rec.GeomNormal = outward.Negate()
	}
	rec.ShadingNormal = rec.GeomNormal

	// Equirectangular parameterization with a longitude tangent
	theta := math.Acos(math.Max(-1, math.Min(1, outward.Y)))
	phi := math.Atan2(outward.X, outward.Z)
	rec.UV = core.NewVec2(phi/(2*math.Pi)+0.5, theta/math.Pi)
	tangent := core.NewVec3(math.Cos(phi), 0, -math.Sin(phi))
	rec.Tangent = tangent
	rec.HasTangent = true
	rec.Material = s.Material
	return true
}

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.AABB{Min: s.Center.Subtract(r), Max: s.Center.Add(r)}
}
