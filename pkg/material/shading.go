package material

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// dielectricF0 is the specular reflectance floor for non-metals
const dielectricF0 = 0.04

// ShadingPoint holds the fully resolved surface parameters at one hit: all
// texture lookups applied, normals oriented toward the viewer, and the local
// tangent frame built. It is created per bounce and discarded; nothing in it
// survives across bounces.
type ShadingPoint struct {
	Position core.Vec3

	BaseColor core.Vec3
	Opacity   float64
	Metallic  float64
	Roughness float64
	Emissive  core.Vec3

	// GeomNormal and Normal face the viewer's side after orientation fix-up;
	// Normal always lies in the same hemisphere as GeomNormal.
	GeomNormal core.Vec3
	Normal     core.Vec3
	Tangent    core.Vec3
	Bitangent  core.Vec3

	// Derived reflectance terms
	F0           core.Vec3 // Schlick specular color at normal incidence
	DiffuseColor core.Vec3
	Alpha        float64 // GGX roughness squared
}

// NewShadingPoint resolves a material at a hit into a ShadingPoint. view must
// be the unit direction from the surface toward the viewer. shadingNormal and
// tangent are the interpolated vertex attributes; pass hasTangent=false when
// the geometry carries no tangents and one will be synthesized.
func NewShadingPoint(mat *Material, textures *texture.Table,
	position, geomNormal, shadingNormal, tangent core.Vec3, hasTangent bool,
	uv core.Vec2, view core.Vec3) ShadingPoint {

	base := textures.Sample(mat.BaseColorTexture, uv)
	baseColor := mat.BaseColorFactor.MultiplyVec(base.RGB())
	alpha := mat.BaseAlphaFactor * base.A

	metallic := mat.MetallicFactor * textures.Sample(mat.MetallicTexture, uv).B
	roughness := mat.RoughnessFactor * textures.Sample(mat.RoughnessTexture, uv).G
	emissive := mat.EmissiveFactor.MultiplyVec(textures.Sample(mat.EmissiveTexture, uv).RGB())

	if !hasTangent {
		tangent, _ = core.OrthonormalBasis(shadingNormal)
	}

	// Normal map perturbation in the interpolated tangent frame, blended
	// toward the interpolated normal by the material's normal scale.
	if mat.NormalTexture != texture.NoTexture {
		shadingNormal = perturbNormal(mat, textures, shadingNormal, tangent, uv)
	}

	// Orientation fix-up: the geometric normal must face the viewer, and the
	// shading normal (and tangent) must share the geometric hemisphere.
	if geomNormal.Dot(view) < 0 {
		geomNormal = geomNormal.Negate()
	}
	if shadingNormal.Dot(geomNormal) < 0 {
		shadingNormal = shadingNormal.Negate()
		tangent = tangent.Negate()
	}

	// Re-orthogonalize the frame against the final shading normal
	tangent = tangent.Subtract(shadingNormal.Multiply(tangent.Dot(shadingNormal)))
	if tangent.LengthSquared() < 1e-12 {
		tangent, _ = core.OrthonormalBasis(shadingNormal)
	} else {
		tangent = tangent.Normalize()
	}
	bitangent := shadingNormal.Cross(tangent)

	metallic = max(0, min(1, metallic))
	roughness = max(0, min(1, roughness))
	opacity := mat.resolveOpacity(alpha)

	f0 := core.NewVec3(dielectricF0, dielectricF0, dielectricF0).Lerp(baseColor, metallic)
	diffuse := baseColor.Multiply(1 - metallic)

	return ShadingPoint{
		Position:     position,
		BaseColor:    baseColor,
		Opacity:      opacity,
		Metallic:     metallic,
		Roughness:    roughness,
		Emissive:     emissive,
		GeomNormal:   geomNormal,
		Normal:       shadingNormal,
		Tangent:      tangent,
		Bitangent:    bitangent,
		F0:           f0,
		DiffuseColor: diffuse,
		Alpha:        roughness * roughness,
	}
}

// perturbNormal decodes the tangent-space normal map texel and blends the
// world-space result with the interpolated normal by the normal scale
func perturbNormal(mat *Material, textures *texture.Table,
	shadingNormal, tangent core.Vec3, uv core.Vec2) core.Vec3 {

	texel := textures.Sample(mat.NormalTexture, uv)
	local := core.NewVec3(texel.R*2-1, texel.G*2-1, texel.B*2-1)

	t := tangent.Subtract(shadingNormal.Multiply(tangent.Dot(shadingNormal)))
	if t.LengthSquared() < 1e-12 {
		t, _ = core.OrthonormalBasis(shadingNormal)
	} else {
		t = t.Normalize()
	}
	b := shadingNormal.Cross(t)

	mapped := t.Multiply(local.X).Add(b.Multiply(local.Y)).Add(shadingNormal.Multiply(local.Z))
	if mapped.LengthSquared() < 1e-12 {
		return shadingNormal
	}
	blended := shadingNormal.Lerp(mapped.Normalize(), max(0, min(1, mat.NormalScale)))
	if blended.LengthSquared() < 1e-12 {
		return shadingNormal
	}
	return blended.Normalize()
}

// ToLocal transforms a world-space direction into the shading frame where the
// shading normal is +Z
func (sp *ShadingPoint) ToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(sp.Tangent), v.Dot(sp.Bitangent), v.Dot(sp.Normal))
}

// ToWorld transforms a shading-frame direction back into world space
func (sp *ShadingPoint) ToWorld(v core.Vec3) core.Vec3 {
	return sp.Tangent.Multiply(v.X).
		Add(sp.Bitangent.Multiply(v.Y)).
		Add(sp.Normal.Multiply(v.Z))
}

// CosTheta returns the cosine between the shading normal and a world direction,
// clamped to zero from below
func (sp *ShadingPoint) CosTheta(dir core.Vec3) float64 {
	return math.Max(0, sp.Normal.Dot(dir))
}
