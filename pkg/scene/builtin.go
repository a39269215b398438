package scene

import (
	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/geometry"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// builtinShapes returns a small material test scene: a ground plane with
// spheres covering the diffuse, metal, rough-metal and glass-like corners of
// the material model
func builtinShapes() ([]geometry.Shape, *texture.Table) {
	ground := material.NewMaterial()
	ground.Name = "ground"
	ground.BaseColorFactor = core.NewVec3(0.5, 0.5, 0.5)
	ground.MetallicFactor = 0
	ground.RoughnessFactor = 1

	diffuse := material.NewMaterial()
	diffuse.Name = "diffuse"
	diffuse.BaseColorFactor = core.NewVec3(0.7, 0.2, 0.2)
	diffuse.MetallicFactor = 0
	diffuse.RoughnessFactor = 0.9

	mirror := material.NewMaterial()
	mirror.Name = "mirror"
	mirror.BaseColorFactor = core.NewVec3(0.95, 0.95, 0.95)
	mirror.MetallicFactor = 1
	mirror.RoughnessFactor = 0

	brushed := material.NewMaterial()
	brushed.Name = "brushed"
	brushed.BaseColorFactor = core.NewVec3(0.9, 0.7, 0.3)
	brushed.MetallicFactor = 1
	brushed.RoughnessFactor = 0.35

	glass := material.NewMaterial()
	glass.Name = "glass"
	glass.BaseColorFactor = core.NewVec3(0.9, 0.95, 1)
	glass.BaseAlphaFactor = 0.3
	glass.MetallicFactor = 0
	glass.RoughnessFactor = 0.05
	glass.Type = material.TypeBlend

	const extent = 20.0
	corners := [4]geometry.Vertex{
		{Position: core.NewVec3(-extent, 0, -extent), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(0, 0)},
		{Position: core.NewVec3(extent, 0, -extent), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(1, 0)},
		{Position: core.NewVec3(extent, 0, extent), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(1, 1)},
		{Position: core.NewVec3(-extent, 0, extent), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(0, 1)},
	}

	shapes := []geometry.Shape{
		geometry.NewTriangle(corners[0], corners[2], corners[1], false, &ground),
		geometry.NewTriangle(corners[0], corners[3], corners[2], false, &ground),
		geometry.NewSphere(core.NewVec3(-1.8, 0.5, 0), 0.5, &diffuse),
		geometry.NewSphere(core.NewVec3(-0.6, 0.5, 0), 0.5, &mirror),
		geometry.NewSphere(core.NewVec3(0.6, 0.5, 0), 0.5, &brushed),
		geometry.NewSphere(core.NewVec3(1.8, 0.5, 0), 0.5, &glass),
	}

	return shapes, texture.NewTable(nil)
}
