// Package camera provides the cameras that view the demo scene. Each one
// produces a mirror.Viewer that mirror surfaces reflect.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// Lens holds the projection parameters shared by viewers.
type Lens struct {
	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
}

// FlyCamera is a free-look first person camera.
type FlyCamera struct {
	Position math.Vec3
	Yaw      float32 // radians, 0 looks down -Z
	Pitch    float32 // radians, positive looks up

	MinPitch float32
	MaxPitch float32

	// Sensitivity
	LookSensitivity float32
	MoveSpeed       float32 // units per second
}

// NewFlyCamera creates a fly camera at position with default settings.
func NewFlyCamera(position math.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:        position,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		LookSensitivity: 0.003,
		MoveSpeed:       5,
	}
}

// Rotation returns the camera orientation.
func (c *FlyCamera) Rotation() math.Quat {
	return math.QuatFromEuler(math.Euler{Pitch: c.Pitch, Yaw: c.Yaw})
}

// HandleLook updates yaw and pitch from a mouse delta in pixels.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.LookSensitivity
	c.Pitch -= deltaY * c.LookSensitivity

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleMovement moves the camera along its horizontal forward and right
// directions and the world up axis.
func (c *FlyCamera) HandleMovement(forward, right, up, deltaSeconds float32) {
	step := c.MoveSpeed * deltaSeconds

	sinY := float32(gomath.Sin(float64(c.Yaw)))
	cosY := float32(gomath.Cos(float64(c.Yaw)))

	fwd := math.Vec3{X: -sinY, Z: -cosY}
	rgt := math.Vec3{X: cosY, Z: -sinY}

	c.Position = c.Position.
		Add(fwd.Scale(forward * step)).
		Add(rgt.Scale(right * step)).
		Add(math.Up.Scale(up * step))
}

// Viewer returns the camera as a mirror viewer.
func (c *FlyCamera) Viewer(name string, lens Lens) mirror.Viewer {
	return mirror.Viewer{
		Name:     name,
		Position: c.Position,
		Rotation: c.Rotation(),
		FOV:      lens.FOV,
		Aspect:   lens.Aspect,
		Near:     lens.Near,
		Path:     mirror.RenderPathForward,
	}
}

// OrbitCamera orbits around a center point, always looking at it.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (elevation above the center, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// AutoRotate is the yaw speed in radians per second applied by Update.
	AutoRotate float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(center math.Vec3) *OrbitCamera {
	return &OrbitCamera{
		Center:          center,
		Distance:        8.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     1.0,
		MaxDistance:     100.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		AutoRotate:      0.3,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// Rotation returns the orientation that looks from Position at Center.
func (c *OrbitCamera) Rotation() math.Quat {
	return math.QuatFromEuler(math.Euler{Pitch: -c.RotationX, Yaw: c.RotationY})
}

// Update advances the automatic orbit.
func (c *OrbitCamera) Update(deltaSeconds float32) {
	c.RotationY += c.AutoRotate * deltaSeconds
	if c.RotationY > 2*gomath.Pi {
		c.RotationY -= 2 * gomath.Pi
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Viewer returns the camera as a mirror viewer.
func (c *OrbitCamera) Viewer(name string, lens Lens) mirror.Viewer {
	return mirror.Viewer{
		Name:     name,
		Position: c.Position(),
		Rotation: c.Rotation(),
		FOV:      lens.FOV,
		Aspect:   lens.Aspect,
		Near:     lens.Near,
		Path:     mirror.RenderPathForward,
	}
}
