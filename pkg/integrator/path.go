package integrator

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/geometry"
	"github.com/mkral/go-sunsky-pathtracer/pkg/lights"
	"github.com/mkral/go-sunsky-pathtracer/pkg/material"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// rayEpsilon offsets secondary ray origins off the surface to dodge self
// intersection
const rayEpsilon = 1e-4

// Scene is the world as seen by the integrator
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool
	Occluded(ray core.Ray, tMin, tMax float64) bool
	Lights() []lights.Light
	Textures() *texture.Table
}

// Config controls path termination
type Config struct {
	// MaxDepth is the maximum number of bounces before a path is cut off
	MaxDepth int

	// RussianRoulette enables stochastic termination of dim paths
	RussianRoulette bool

	// RussianRouletteMinBounces is the number of bounces traced before
	// roulette may kill a path
	RussianRouletteMinBounces int
}

// PathTracer estimates incoming radiance with unidirectional path tracing,
// next event estimation toward every light, and multiple importance sampling
type PathTracer struct {
	config Config
	scene  Scene
}

func NewPathTracer(config Config, scene Scene) *PathTracer {
	if config.MaxDepth <= 0 {
		config.MaxDepth = 8
	}
	return &PathTracer{config: config, scene: scene}
}

// Li returns the radiance estimate arriving along ray
func (pt *PathTracer) Li(ray core.Ray, sampler core.Sampler) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	// PDF of the previous bounce's direction for MIS at the next vertex.
	// A negative value marks a camera ray or a delta bounce, which take
	// light emission unweighted.
	prevPDF := -1.0

	var rec geometry.HitRecord
	for bounce := 0; bounce < pt.config.MaxDepth; bounce++ {
		if !pt.scene.Hit(ray, rayEpsilon, math.Inf(1), &rec) {
			radiance = radiance.Add(throughput.MultiplyVec(pt.escapedRadiance(ray.Direction, prevPDF)))
			break
		}

		view := ray.Direction.Negate()
		sp := material.NewShadingPoint(rec.Material, pt.scene.Textures(),
			rec.Point, rec.GeomNormal, rec.ShadingNormal,
			rec.Tangent, rec.HasTangent, rec.UV, view)

		if !sp.Emissive.IsZero() {
			radiance = radiance.Add(throughput.MultiplyVec(sp.Emissive))
		}

		radiance = radiance.Add(throughput.MultiplyVec(pt.directLight(&sp, view, sampler)))

		sample := sp.Sample(view, sampler)
		if !sample.Valid {
			break
		}

		throughput = throughput.MultiplyVec(sample.Weight)
		if sample.Delta {
			prevPDF = -1
		} else {
			prevPDF = sample.PDF
		}

		if pt.config.RussianRoulette && bounce >= pt.config.RussianRouletteMinBounces {
			survival := math.Max(0, math.Min(1, throughput.MaxComponent()))
			if sampler.Get1D() >= survival {
				break
			}
			throughput = throughput.Multiply(1 / survival)
		}

		ray = core.NewRay(rec.Point.Add(sample.Direction.Multiply(rayEpsilon)), sample.Direction)
	}

	if radiance.HasNaN() {
		return core.Vec3{}
	}
	return radiance
}

// escapedRadiance sums light emission along an escaping ray, weighting each
// light's contribution against its own sampling density when the previous
// bounce was sampleable
func (pt *PathTracer) escapedRadiance(direction core.Vec3, prevPDF float64) core.Vec3 {
	total := core.Vec3{}
	for _, light := range pt.scene.Lights() {
		emission := light.Emit(direction)
		if emission.IsZero() {
			continue
		}
		if prevPDF >= 0 {
			lightPDF := light.PDF(core.Vec3{}, direction)
			emission = emission.Multiply(core.PowerHeuristic(1, prevPDF, 1, lightPDF))
		}
		total = total.Add(emission)
	}
	return total
}

// directLight performs next event estimation toward every light
func (pt *PathTracer) directLight(sp *material.ShadingPoint, view core.Vec3, sampler core.Sampler) core.Vec3 {
	total := core.Vec3{}
	for _, light := range pt.scene.Lights() {
		ls := light.Sample(sp.Position, sampler.Get2D())
		if ls.PDF <= 0 || ls.Emission.IsZero() {
			continue
		}

		cosTheta := ls.Direction.Dot(sp.Normal)
		if cosTheta <= 0 || ls.Direction.Dot(sp.GeomNormal) <= 0 {
			continue
		}

		f, bxdfPDF := sp.Eval(view, ls.Direction)
		if f.IsZero() {
			continue
		}

		shadowRay := core.NewRay(sp.Position.Add(ls.Direction.Multiply(rayEpsilon)), ls.Direction)
		if pt.scene.Occluded(shadowRay, rayEpsilon, ls.Distance-2*rayEpsilon) {
			continue
		}

		weight := core.PowerHeuristic(1, ls.PDF, 1, bxdfPDF)
		contribution := f.MultiplyVec(ls.Emission).Multiply(cosTheta * weight / ls.PDF)
		if contribution.HasNaN() {
			continue
		}
		total = total.Add(contribution)
	}
	return total
}
