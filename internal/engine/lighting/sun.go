// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
type Sun struct {
	Longitude float32 // rotation around Y (0-360)
	Latitude  float32 // elevation from horizon (0-90)
}

// Direction returns the normalized vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	lonRad := float64(s.Longitude) * gomath.Pi / 180.0
	latRad := float64(s.Latitude) * gomath.Pi / 180.0

	// Spherical to Cartesian conversion
	return math.Vec3{
		X: float32(gomath.Cos(latRad) * gomath.Sin(lonRad)),
		Y: float32(gomath.Sin(latRad)),
		Z: float32(gomath.Cos(latRad) * gomath.Cos(lonRad)),
	}
}

// LightDir returns the direction light travels, the opposite of Direction.
func (s Sun) LightDir() math.Vec3 {
	return s.Direction().Scale(-1)
}
