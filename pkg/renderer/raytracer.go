package renderer

import (
	"image"
	"image/color"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/integrator"
)

// Orthogonal array parameters shared by all pixels. Strength 2 gives
// strata^2 stratified sample positions per cycle; dimensions covers the
// pixel jitter plus the first few bounces before falling back to plain PCG.
const (
	oaStrength   = 2
	oaDimensions = 16
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	Seed            uint32 // Base seed for per-pixel sampler streams

	RussianRoulette           bool
	RussianRouletteMinBounces int

	Stratified bool   // Use orthogonal-array stratification instead of plain PCG
	Strata     uint32 // Strata per dimension; prime values stratify dimension pairs
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:           64,
		MaxDepth:                  8,
		RussianRoulette:           true,
		RussianRouletteMinBounces: 2,
		Stratified:                true,
		Strata:                    7,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	integrator.Scene
	Camera() *Camera
}

// Raytracer renders pixels by tracing paths through a scene
type Raytracer struct {
	scene  Scene
	width  int
	height int
	config SamplingConfig
	tracer *integrator.PathTracer
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int, config SamplingConfig) *Raytracer {
	if config.Strata == 0 {
		config.Strata = DefaultSamplingConfig().Strata
	}
	tracer := integrator.NewPathTracer(integrator.Config{
		MaxDepth:                  config.MaxDepth,
		RussianRoulette:           config.RussianRoulette,
		RussianRouletteMinBounces: config.RussianRouletteMinBounces,
	}, scene)

	return &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
		config: config,
		tracer: tracer,
	}
}

// SetSamplesPerPixel updates the sample target, used between progressive
// passes
func (rt *Raytracer) SetSamplesPerPixel(samples int) {
	rt.config.SamplesPerPixel = samples
}

// RenderBounds renders pixels within the specified bounds, accumulating into
// the shared stats array until every pixel reaches targetSamples
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			stats.TotalSamples += rt.renderPixel(i, j, &pixelStats[j][i], targetSamples)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// renderPixel traces paths for one pixel until it reaches targetSamples,
// returning the number of samples added
func (rt *Raytracer) renderPixel(i, j int, ps *PixelStats, targetSamples int) int {
	camera := rt.scene.Camera()
	pixelIndex := uint32(j*rt.width + i)
	added := 0

	var oa *core.OASampler
	if rt.config.Stratified {
		oa = core.NewOASampler(oaStrength, oaDimensions, rt.config.Strata, pixelIndex^rt.config.Seed)
	}

	for ps.SampleCount < targetSamples {
		sampleIndex := uint32(ps.SampleCount)

		var sampler core.Sampler
		if oa != nil {
			oa.BeginSample(sampleIndex)
			sampler = oa
		} else {
			sampler = core.NewPCGSampler(pixelIndex, rt.config.Seed+sampleIndex)
		}

		jitter := sampler.Get2D()
		s := (float64(i) + jitter.X) / float64(rt.width)
		t := 1 - (float64(j)+jitter.Y)/float64(rt.height)

		ps.AddSample(rt.tracer.Li(camera.GetRay(s, t), sampler))
		added++
	}

	return added
}

// vec3ToColor converts a Vec3 color to RGBA with clamping and gamma correction
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
