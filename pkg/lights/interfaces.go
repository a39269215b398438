package lights

import "github.com/mkral/go-sunsky-pathtracer/pkg/core"

// LightSample holds the result of sampling a direction toward a light
type LightSample struct {
	Direction core.Vec3 // world-space unit direction from the shading point
	Emission  core.Vec3 // radiance arriving along Direction
	PDF       float64   // solid-angle density of the sample
	Distance  float64   // occlusion test distance; math.Inf(1) for distant lights
}

// Light is a source of illumination that supports next event estimation
type Light interface {
	// Sample draws a direction toward the light from the given point
	Sample(point core.Vec3, sample core.Vec2) LightSample

	// PDF returns the solid-angle density Sample would have for reaching
	// direction from point, for weighting BxDF samples against this light
	PDF(point, direction core.Vec3) float64

	// Emit returns the radiance the light contributes along a ray that
	// escapes the scene in the given direction
	Emit(direction core.Vec3) core.Vec3
}
