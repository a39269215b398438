package loaders

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/geometry"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// GLTFScene is the flattened result of loading a glTF file: world-space
// triangles, the material table they reference, and the texture table
// indexed by the materials
type GLTFScene struct {
	Shapes    []geometry.Shape
	Materials []*material.Material
	Textures  *texture.Table
}

// LoadGLTF opens a .glb or .gltf file and flattens the node hierarchy into
// world-space triangles. Instanced meshes are duplicated per node so the
// intersection code never needs instance transforms.
func LoadGLTF(path string) (*GLTFScene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	result := &GLTFScene{Textures: texture.NewTable(nil)}

	// Color textures get an sRGB-to-linear conversion; data textures stay raw
	srgbTextures := markSRGBTextures(doc)

	for i, gt := range doc.Textures {
		tex := loadGLTFTexture(doc, dir, gt, srgbTextures[i])
		result.Textures.Add(tex)
	}

	result.Materials = make([]*material.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		result.Materials[i] = convertGLTFMaterial(gm)
	}

	// Fallback for primitives without a material
	defaultMat := material.NewMaterial()
	defaultMat.Name = "default"

	for _, node := range flattenGLTFNodes(doc) {
		gm := doc.Meshes[node.mesh]
		for pi, prim := range gm.Primitives {
			mat := &defaultMat
			if prim.Material != nil && int(*prim.Material) < len(result.Materials) {
				mat = result.Materials[*prim.Material]
			}
			tris, err := loadGLTFPrimitive(doc, prim, node.world, mat)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
			}
			result.Shapes = append(result.Shapes, tris...)
		}
	}

	return result, nil
}

// markSRGBTextures returns which texture slots hold color data (base color
// and emissive) as opposed to linear data (metallic-roughness, normals)
func markSRGBTextures(doc *gltf.Document) []bool {
	srgb := make([]bool, len(doc.Textures))
	for _, gm := range doc.Materials {
		if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			if idx := int(pbr.BaseColorTexture.Index); idx < len(srgb) {
				srgb[idx] = true
			}
		}
		if gm.EmissiveTexture != nil {
			if idx := int(gm.EmissiveTexture.Index); idx < len(srgb) {
				srgb[idx] = true
			}
		}
	}
	return srgb
}

// loadGLTFTexture decodes one texture slot, returning a 1x1 white fallback
// when the image is missing or undecodable so material indices stay aligned
func loadGLTFTexture(doc *gltf.Document, dir string, gt *gltf.Texture, srgb bool) *texture.Texture {
	fallback := texture.NewSolidTexture(texture.White)
	if gt.Source == nil {
		return fallback
	}
	img := doc.Images[*gt.Source]

	if img.BufferView != nil {
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return fallback
		}
		tex, err := DecodeImageBytes(raw, srgb)
		if err != nil {
			return fallback
		}
		return tex
	}

	if img.URI != "" && !img.IsEmbeddedResource() {
		tex, err := LoadImage(filepath.Join(dir, img.URI), srgb)
		if err != nil {
			return fallback
		}
		return tex
	}
	return fallback
}

// convertGLTFMaterial maps a glTF material into a material table row
func convertGLTFMaterial(gm *gltf.Material) *material.Material {
	mat := material.NewMaterial()
	mat.Name = gm.Name

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.BaseColorFactor = core.NewVec3(float64(cf[0]), float64(cf[1]), float64(cf[2]))
		mat.BaseAlphaFactor = float64(cf[3])
		if pbr.BaseColorTexture != nil {
			mat.BaseColorTexture = int(pbr.BaseColorTexture.Index)
		}
		mat.MetallicFactor = float64(pbr.MetallicFactorOrDefault())
		mat.RoughnessFactor = float64(pbr.RoughnessFactorOrDefault())
		if pbr.MetallicRoughnessTexture != nil {
			// One combined texture: metallic in blue, roughness in green
			mat.MetallicTexture = int(pbr.MetallicRoughnessTexture.Index)
			mat.RoughnessTexture = int(pbr.MetallicRoughnessTexture.Index)
		}
	}

	ef := gm.EmissiveFactor
	mat.EmissiveFactor = core.NewVec3(float64(ef[0]), float64(ef[1]), float64(ef[2]))
	if gm.EmissiveTexture != nil {
		mat.EmissiveTexture = int(gm.EmissiveTexture.Index)
	}

	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		mat.NormalTexture = int(*gm.NormalTexture.Index)
		mat.NormalScale = float64(gm.NormalTexture.ScaleOrDefault())
	}

	switch gm.AlphaMode {
	case gltf.AlphaMask:
		mat.Type = material.TypeMask
		mat.AlphaCutoff = float64(gm.AlphaCutoffOrDefault())
	case gltf.AlphaBlend:
		mat.Type = material.TypeBlend
	default:
		mat.Type = material.TypeOpaque
	}

	return &mat
}

// flatNode is a mesh reference with its flattened world transform
type flatNode struct {
	mesh  int
	world mat4
}

// flattenGLTFNodes walks the scene graph and composes node transforms
func flattenGLTFNodes(doc *gltf.Document) []flatNode {
	var result []flatNode

	var walk func(idx int, parent mat4)
	walk = func(idx int, parent mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		gn := doc.Nodes[idx]
		world := parent.mul(nodeTransform(gn))
		if gn.Mesh != nil && int(*gn.Mesh) < len(doc.Meshes) {
			result = append(result, flatNode{mesh: int(*gn.Mesh), world: world})
		}
		for _, child := range gn.Children {
			walk(int(child), world)
		}
	}

	roots := allRootNodes(doc)
	for _, idx := range roots {
		walk(idx, identityMat4())
	}
	return result
}

// allRootNodes returns the default scene's roots, or every parentless node
// when no scene is declared
func allRootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		roots := make([]int, 0, len(doc.Scenes[*doc.Scene].Nodes))
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			roots = append(roots, int(idx))
		}
		return roots
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if int(c) < len(hasParent) {
				hasParent[int(c)] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeTransform returns the node's local transform, preferring an explicit
// matrix over the TRS properties
func nodeTransform(gn *gltf.Node) mat4 {
	if m := gn.Matrix; !isZeroMatrix(m) && !isIdentityMatrix(m) {
		// glTF matrices are column-major
		var out mat4
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				out[row*4+col] = float64(m[col*4+row])
			}
		}
		return out
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	return trsMatrix(
		core.NewVec3(float64(t[0]), float64(t[1]), float64(t[2])),
		[4]float64{float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3])},
		core.NewVec3(float64(s[0]), float64(s[1]), float64(s[2])),
	)
}

func isZeroMatrix(m [16]float64) bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

func isIdentityMatrix(m [16]float64) bool {
	for i, v := range m {
		want := 0.0
		if i%5 == 0 {
			want = 1
		}
		if v != want {
			return false
		}
	}
	return true
}

// loadGLTFPrimitive reads one primitive's attributes and emits world-space
// triangles
func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, world mat4, mat *material.Material) ([]geometry.Shape, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	var tangents [][4]float32

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		tangents, _ = modeler.ReadTangent(doc, doc.Accessors[idx], nil)
	}
	hasTangent := len(tangents) == len(positions)

	normalMat := world.normalMatrix()

	verts := make([]geometry.Vertex, len(positions))
	for i, p := range positions {
		v := geometry.Vertex{
			Position: world.transformPoint(core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))),
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = normalMat.transformDirection(core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2])))
			if !v.Normal.IsZero() {
				v.Normal = v.Normal.Normalize()
			}
		}
		if i < len(uvs) {
			v.UV = core.NewVec2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
		if hasTangent {
			t := tangents[i]
			v.Tangent = world.transformDirection(core.NewVec3(float64(t[0]), float64(t[1]), float64(t[2])))
			if !v.Tangent.IsZero() {
				v.Tangent = v.Tangent.Normalize()
			}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	shapes := make([]geometry.Shape, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tri := geometry.NewTriangle(
			verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]],
			hasTangent, mat,
		)
		shapes = append(shapes, tri)
	}
	return shapes, nil
}

// mat4 is a row-major 4x4 transform used only while flattening the scene
type mat4 [16]float64

func identityMat4() mat4 {
	return mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (a mat4) mul(b mat4) mat4 {
	var out mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

func trsMatrix(t core.Vec3, q [4]float64, s core.Vec3) mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	// Normalized quaternion to rotation matrix
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n > 0 {
		x, y, z, w = x/n, y/n, z/n, w/n
	}

	r := mat4{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
	scale := mat4{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	}
	translate := identityMat4()
	translate[3] = t.X
	translate[7] = t.Y
	translate[11] = t.Z

	return translate.mul(r).mul(scale)
}

func (a mat4) transformPoint(p core.Vec3) core.Vec3 {
	return core.NewVec3(
		a[0]*p.X+a[1]*p.Y+a[2]*p.Z+a[3],
		a[4]*p.X+a[5]*p.Y+a[6]*p.Z+a[7],
		a[8]*p.X+a[9]*p.Y+a[10]*p.Z+a[11],
	)
}

func (a mat4) transformDirection(d core.Vec3) core.Vec3 {
	return core.NewVec3(
		a[0]*d.X+a[1]*d.Y+a[2]*d.Z,
		a[4]*d.X+a[5]*d.Y+a[6]*d.Z,
		a[8]*d.X+a[9]*d.Y+a[10]*d.Z,
	)
}

// normalMatrix returns the inverse transpose of the upper 3x3, which maps
// normals correctly under non-uniform scale
func (a mat4) normalMatrix() mat4 {
	// Cofactor expansion of the upper 3x3
	c00 := a[5]*a[10] - a[6]*a[9]
	c01 := a[6]*a[8] - a[4]*a[10]
	c02 := a[4]*a[9] - a[5]*a[8]
	c10 := a[2]*a[9] - a[1]*a[10]
	c11 := a[0]*a[10] - a[2]*a[8]
	c12 := a[1]*a[8] - a[0]*a[9]
	c20 := a[1]*a[6] - a[2]*a[5]
	c21 := a[2]*a[4] - a[0]*a[6]
	c22 := a[0]*a[5] - a[1]*a[4]

	det := a[0]*c00 + a[1]*c01 + a[2]*c02
	if math.Abs(det) < 1e-15 {
		return identityMat4()
	}
	inv := 1 / det

	// Inverse transpose = adjugate transpose transposed = cofactors / det
	return mat4{
		c00 * inv, c01 * inv, c02 * inv, 0,
		c10 * inv, c11 * inv, c12 * inv, 0,
		c20 * inv, c21 * inv, c22 * inv, 0,
		0, 0, 0, 1,
	}
}
