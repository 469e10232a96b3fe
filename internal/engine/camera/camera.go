// Package camera provides the orbiting editor camera.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scened/internal/engine/picking"
	"github.com/Faultbox/scened/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// AutoRotate spins the yaw by this many radians per second.
	AutoRotate float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FOV        float32 // vertical, radians
	Near, Far  float32
	projection math.Mat4
	aspect     float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:        12.0,
		RotationX:       0.4,
		RotationY:       0.0,
		MinDistance:     2.0,
		MaxDistance:     100.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             math32.Pi / 4,
		Near:            0.1,
		Far:             1000,
	}
	c.Resize(1, 1)
	return c
}

// Resize rebuilds the projection for a new viewport. Non-positive sizes are ignored.
func (c *OrbitCamera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.projection = math.Perspective(c.FOV, c.aspect, c.Near, c.Far)
}

// Aspect returns the aspect ratio of the last Resize.
func (c *OrbitCamera) Aspect() float32 {
	return c.aspect
}

// Projection returns the current projection matrix.
func (c *OrbitCamera) Projection() math.Mat4 {
	return c.projection
}

// Update advances the auto-rotation by dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.AutoRotate == 0 {
		return
	}
	c.RotationY += c.AutoRotate * dt
	if c.RotationY > 2*math32.Pi || c.RotationY < -2*math32.Pi {
		c.RotationY = math32.Mod(c.RotationY, 2*math32.Pi)
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sx, cx := math32.Sincos(c.RotationX)
	sy, cy := math32.Sincos(c.RotationY)

	return c.Center.Add(math.Vec3{
		X: c.Distance * cx * sy,
		Y: c.Distance * sx,
		Z: c.Distance * cx * cy,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.UnitY)
}

// Camera returns the per-frame view state used for picking and rendering.
func (c *OrbitCamera) Camera() picking.Camera {
	return picking.NewCamera(c.projection, c.Position(), c.Center)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(center math.Vec3) {
	c.Center = center
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
