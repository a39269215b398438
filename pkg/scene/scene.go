// Package scene assembles renderable worlds: geometry from glTF files or
// built-in test setups, the sun and sky lights, and the camera, all driven
// by a TOML configuration.
package scene

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/geometry"
	"github.com/mkral/go-sunsky-pathtracer/pkg/lights"
	"github.com/mkral/go-sunsky-pathtracer/pkg/renderer"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// Scene is a fully assembled world implementing renderer.Scene
type Scene struct {
	camera   *renderer.Camera
	bvh      *geometry.BVH
	lights   []lights.Light
	textures *texture.Table
}

// New builds a scene from its parts
func New(camera *renderer.Camera, shapes []geometry.Shape, lightList []lights.Light, textures *texture.Table) *Scene {
	return &Scene{
		camera:   camera,
		bvh:      geometry.NewBVH(shapes),
		lights:   lightList,
		textures: textures,
	}
}

func (s *Scene) Camera() *renderer.Camera {
	return s.camera
}

func (s *Scene) Hit(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool {
	return s.bvh.Hit(ray, tMin, tMax, rec)
}

func (s *Scene) Occluded(ray core.Ray, tMin, tMax float64) bool {
	if math.IsInf(tMax, 1) {
		tMax = math.MaxFloat64
	}
	return s.bvh.Occluded(ray, tMin, tMax)
}

func (s *Scene) Lights() []lights.Light {
	return s.lights
}

func (s *Scene) Textures() *texture.Table {
	return s.textures
}
