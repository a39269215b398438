package loaders

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// LoadHDR loads a Radiance RGBE (.hdr) environment image. Values are linear
// radiance, so no transfer function is applied.
func LoadHDR(filename string) (*texture.Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open HDR file: %w", err)
	}
	defer file.Close()

	return DecodeHDR(file)
}

// DecodeHDR decodes a Radiance RGBE stream
func DecodeHDR(r io.Reader) (*texture.Texture, error) {
	br := bufio.NewReader(r)

	width, height, err := parseHDRHeader(br)
	if err != nil {
		return nil, err
	}

	pixels := make([]texture.RGBA, width*height)
	scanline := make([]byte, width*4)

	for y := 0; y < height; y++ {
		if err := readHDRScanline(br, scanline, width); err != nil {
			return nil, fmt.Errorf("scanline %d: %w", y, err)
		}
		for x := 0; x < width; x++ {
			r8 := scanline[x*4]
			g8 := scanline[x*4+1]
			b8 := scanline[x*4+2]
			e8 := scanline[x*4+3]
			if e8 == 0 {
				pixels[y*width+x] = texture.RGBA{A: 1}
				continue
			}
			// Shared exponent, mantissas in [0, 256)
			scale := math.Ldexp(1, int(e8)-(128+8))
			pixels[y*width+x] = texture.RGBA{
				R: float64(r8) * scale,
				G: float64(g8) * scale,
				B: float64(b8) * scale,
				A: 1,
			}
		}
	}

	return &texture.Texture{Width: width, Height: height, Pixels: pixels}, nil
}

// parseHDRHeader reads the header lines and the resolution line. Only the
// standard "-Y height +X width" orientation is supported.
func parseHDRHeader(br *bufio.Reader) (width, height int, err error) {
	first, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read HDR header: %w", err)
	}
	if !strings.HasPrefix(first, "#?") {
		return 0, 0, fmt.Errorf("not a Radiance file")
	}

	formatOK := false
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read HDR header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "FORMAT=") {
			if line != "FORMAT=32-bit_rle_rgbe" {
				return 0, 0, fmt.Errorf("unsupported HDR format %q", line)
			}
			formatOK = true
		}
	}
	if !formatOK {
		return 0, 0, fmt.Errorf("missing FORMAT line in HDR header")
	}

	resLine, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read HDR resolution: %w", err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(resLine), "-Y %d +X %d", &height, &width); err != nil {
		return 0, 0, fmt.Errorf("unsupported HDR orientation %q", strings.TrimSpace(resLine))
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid HDR dimensions %dx%d", width, height)
	}
	return width, height, nil
}

// readHDRScanline fills scanline with width RGBE quads, handling both the
// adaptive RLE encoding and flat pixel data
func readHDRScanline(br *bufio.Reader, scanline []byte, width int) error {
	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return err
	}

	// Adaptive RLE scanlines start with 2, 2 and the scanline width
	if head[0] == 2 && head[1] == 2 && int(head[2])<<8|int(head[3]) == width {
		for c := 0; c < 4; c++ {
			x := 0
			for x < width {
				count, err := br.ReadByte()
				if err != nil {
					return err
				}
				if count > 128 {
					// Run of a single value
					value, err := br.ReadByte()
					if err != nil {
						return err
					}
					n := int(count) - 128
					if x+n > width {
						return fmt.Errorf("RLE run overflows scanline")
					}
					for i := 0; i < n; i++ {
						scanline[(x+i)*4+c] = value
					}
					x += n
				} else {
					n := int(count)
					if n == 0 || x+n > width {
						return fmt.Errorf("bad RLE literal count %d", n)
					}
					for i := 0; i < n; i++ {
						value, err := br.ReadByte()
						if err != nil {
							return err
						}
						scanline[(x+i)*4+c] = value
					}
					x += n
				}
			}
		}
		return nil
	}

	// Flat data: the four header bytes are the first pixel
	copy(scanline[0:4], head[:])
	_, err := io.ReadFull(br, scanline[4:width*4])
	return err
}
