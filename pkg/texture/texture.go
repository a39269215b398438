// Package texture provides bilinear-filtered texture sampling over an
// indexed table of loaded images.
package texture

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
)

// NoTexture is the sentinel index meaning "use the material factor directly"
const NoTexture = -1

// RGBA is a linear-space color sample with alpha
type RGBA struct {
	R, G, B, A float64
}

// RGB returns the color part as a Vec3
func (c RGBA) RGB() core.Vec3 {
	return core.NewVec3(c.R, c.G, c.B)
}

// White is the neutral sample returned for the NoTexture sentinel
var White = RGBA{R: 1, G: 1, B: 1, A: 1}

// Texture is a 2D image with float pixel data in row-major order
type Texture struct {
	Width  int
	Height int
	Pixels []RGBA // Pixels[y*Width + x]
}

// NewTexture creates a texture from pixel data
func NewTexture(width, height int, pixels []RGBA) *Texture {
	return &Texture{Width: width, Height: height, Pixels: pixels}
}

// NewSolidTexture creates a 1x1 texture of a constant color
func NewSolidTexture(c RGBA) *Texture {
	return &Texture{Width: 1, Height: 1, Pixels: []RGBA{c}}
}

// At returns the texel at integer coordinates, wrapping both axes
func (t *Texture) At(x, y int) RGBA {
	x = ((x % t.Width) + t.Width) % t.Width
	y = ((y % t.Height) + t.Height) % t.Height
	return t.Pixels[y*t.Width+x]
}

// Sample returns the bilinearly filtered color at the given UV coordinates.
// UVs tile: values outside [0,1] wrap around.
func (t *Texture) Sample(uv core.Vec2) RGBA {
	// Map UV to continuous pixel coordinates with texel centers at +0.5
	fx := uv.X*float64(t.Width) - 0.5
	fy := uv.Y*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	c00 := t.At(x0, y0)
	c10 := t.At(x0+1, y0)
	c01 := t.At(x0, y0+1)
	c11 := t.At(x0+1, y0+1)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	return RGBA{
		R: lerp(lerp(c00.R, c10.R, dx), lerp(c01.R, c11.R, dx), dy),
		G: lerp(lerp(c00.G, c10.G, dx), lerp(c01.G, c11.G, dx), dy),
		B: lerp(lerp(c00.B, c10.B, dx), lerp(c01.B, c11.B, dx), dy),
		A: lerp(lerp(c00.A, c10.A, dx), lerp(c01.A, c11.A, dx), dy),
	}
}

// Table is an indexed collection of textures shared by all materials in a
// scene. It is read-only during rendering.
type Table struct {
	textures []*Texture
}

// NewTable creates a texture table
func NewTable(textures []*Texture) *Table {
	return &Table{textures: textures}
}

// Add appends a texture and returns its index
func (tb *Table) Add(t *Texture) int {
	tb.textures = append(tb.textures, t)
	return len(tb.textures) - 1
}

// Count returns the number of textures in the table
func (tb *Table) Count() int {
	return len(tb.textures)
}

// Sample looks up texture index at the given UV. The NoTexture sentinel (or
// any out-of-range index) returns white so factor-only materials need no
// special casing at shading time.
func (tb *Table) Sample(index int, uv core.Vec2) RGBA {
	if tb == nil || index < 0 || index >= len(tb.textures) {
		return White
	}
	return tb.textures[index].Sample(uv)
}
