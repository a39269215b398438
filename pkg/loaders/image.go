package loaders

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"os"

	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// LoadImage loads a PNG or JPEG file into a texture. Set srgb for color
// textures so values are converted to linear space; leave it unset for data
// textures like metallic-roughness and normal maps.
func LoadImage(filename string, srgb bool) (*texture.Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return DecodeImage(file, srgb)
}

// DecodeImage decodes PNG or JPEG data from a reader, auto-detecting the
// format from the file header
func DecodeImage(r io.Reader, srgb bool) (*texture.Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]texture.RGBA, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r16, g16, b16, a16 := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			px := texture.RGBA{
				R: float64(r16) / 65535.0,
				G: float64(g16) / 65535.0,
				B: float64(b16) / 65535.0,
				A: float64(a16) / 65535.0,
			}
			if srgb {
				px.R = srgbToLinear(px.R)
				px.G = srgbToLinear(px.G)
				px.B = srgbToLinear(px.B)
			}
			pixels[y*width+x] = px
		}
	}

	return &texture.Texture{Width: width, Height: height, Pixels: pixels}, nil
}

// DecodeImageBytes decodes an in-memory PNG or JPEG buffer
func DecodeImageBytes(data []byte, srgb bool) (*texture.Texture, error) {
	return DecodeImage(bytes.NewReader(data), srgb)
}

// srgbToLinear applies the piecewise sRGB transfer function
func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
