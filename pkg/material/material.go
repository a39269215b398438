// Package material implements the physically based surface model: a glTF
// metallic-roughness material table, the per-hit shading record builder, and
// a three-lobe BxDF (GGX specular, Lambert diffuse, idealized transmission)
// with stochastic sampling, analytic evaluation and pdf queries.
package material

import (
	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// Type discriminates how a material resolves its opacity
type Type int

const (
	// TypeOpaque ignores base color alpha entirely
	TypeOpaque Type = iota
	// TypeMask applies a hard alpha cutoff: fully opaque or fully transparent
	TypeMask
	// TypeBlend treats base color alpha as a continuous opacity, giving the
	// glass-like transmission lobe its weight
	TypeBlend
)

// String returns the material type name
func (t Type) String() string {
	switch t {
	case TypeOpaque:
		return "opaque"
	case TypeMask:
		return "mask"
	case TypeBlend:
		return "blend"
	default:
		return "unknown"
	}
}

// Material is one row of the scene's material table: constant factors plus
// optional texture indices (texture.NoTexture when absent). Materials are
// immutable once the scene is built and are only read during rendering.
type Material struct {
	Name string

	BaseColorFactor  core.Vec3
	BaseAlphaFactor  float64
	BaseColorTexture int

	EmissiveFactor  core.Vec3
	EmissiveTexture int

	MetallicFactor  float64
	MetallicTexture int

	RoughnessFactor  float64
	RoughnessTexture int

	NormalScale   float64
	NormalTexture int

	AlphaCutoff float64
	Type        Type
}

// NewMaterial returns a material with neutral glTF defaults: white opaque
// base color, no textures, fully rough dielectric.
func NewMaterial() Material {
	return Material{
		BaseColorFactor:  core.NewVec3(1, 1, 1),
		BaseAlphaFactor:  1,
		BaseColorTexture: texture.NoTexture,
		EmissiveFactor:   core.NewVec3(0, 0, 0),
		EmissiveTexture:  texture.NoTexture,
		MetallicFactor:   1,
		MetallicTexture:  texture.NoTexture,
		RoughnessFactor:  1,
		RoughnessTexture: texture.NoTexture,
		NormalScale:      1,
		NormalTexture:    texture.NoTexture,
		AlphaCutoff:      0.5,
		Type:             TypeOpaque,
	}
}

// resolveOpacity applies the material type's alpha interpretation
func (m *Material) resolveOpacity(alpha float64) float64 {
	switch m.Type {
	case TypeOpaque:
		return 1
	case TypeMask:
		if alpha >= m.AlphaCutoff {
			return 1
		}
		return 0
	case TypeBlend:
		return alpha
	default:
		return 1
	}
}
