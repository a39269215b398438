package lights

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
)

// SunLight is a distant disc light covering a small cone of directions,
// parameterized like a physical sun by elevation and azimuth angles
type SunLight struct {
	direction  core.Vec3 // unit vector pointing toward the sun
	radiance   core.Vec3
	cosAngle   float64 // cosine of the disc's angular radius
	solidAngle float64
}

// NewSunLight creates a sun from horizon coordinates in radians. Elevation
// is measured up from the horizon, azimuth clockwise from +Z, and
// angularRadius is half the apparent diameter of the disc.
func NewSunLight(elevation, azimuth, angularRadius float64, color core.Vec3, strength float64) *SunLight {
	direction := core.NewVec3(
		math.Cos(elevation)*math.Sin(azimuth),
		math.Sin(elevation),
		math.Cos(elevation)*math.Cos(azimuth),
	)
	cosAngle := math.Cos(angularRadius)
	return &SunLight{
		direction:  direction,
		radiance:   color.Multiply(strength),
		cosAngle:   cosAngle,
		solidAngle: core.ConeSolidAngle(cosAngle),
	}
}

// Direction returns the unit vector pointing toward the center of the disc
func (s *SunLight) Direction() core.Vec3 {
	return s.direction
}

// Sample draws a uniform direction within the sun's cone
func (s *SunLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	if s.solidAngle <= 0 {
		// Degenerate disc, treat as a directional delta light
		return LightSample{
			Direction: s.direction,
			Emission:  s.radiance,
			PDF:       1,
			Distance:  math.Inf(1),
		}
	}
	return LightSample{
		Direction: core.SampleCone(s.direction, s.cosAngle, sample),
		Emission:  s.radiance,
		PDF:       1 / s.solidAngle,
		Distance:  math.Inf(1),
	}
}

func (s *SunLight) PDF(point, direction core.Vec3) float64 {
	if s.solidAngle <= 0 || direction.Dot(s.direction) < s.cosAngle {
		return 0
	}
	return 1 / s.solidAngle
}

// Emit returns the disc radiance for escaping rays that point into the cone
func (s *SunLight) Emit(direction core.Vec3) core.Vec3 {
	if direction.Dot(s.direction) < s.cosAngle {
		return core.Vec3{}
	}
	return s.radiance
}
