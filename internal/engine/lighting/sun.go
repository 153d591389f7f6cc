// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/tachyon/pkg/math"
)

// SunDirection converts azimuth/elevation angles in degrees to a unit
// vector pointing towards the sun. Azimuth rotates around +Y starting at
// +Z; elevation is measured up from the horizon.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(el) * math32.Sin(az),
		Y: math32.Sin(el),
		Z: math32.Cos(el) * math32.Cos(az),
	}
}

// LightDirection returns the direction light travels from the sun, which
// is what shaders expect.
func LightDirection(azimuth, elevation float32) math.Vec3 {
	return SunDirection(azimuth, elevation).Scale(-1)
}
