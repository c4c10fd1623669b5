package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Controls holds a Perspective camera in orbit around a center point. The
// viewer keeps every interaction switched off; the flags record that state.
type Controls struct {
	camera *Perspective

	Center mgl32.Vec3

	// Spherical coordinates of the camera around Center
	Distance  float32
	RotationX float32 // Pitch (radians)
	RotationY float32 // Yaw (radians)

	Enabled       bool
	EnableRotate  bool
	EnablePan     bool
	EnableZoom    bool
	EnableDamping bool

	disposed bool
}

// NewControls attaches controls to cam, orbiting the origin from the
// camera's current position, and aims the camera at the center.
func NewControls(cam *Perspective) *Controls {
	c := &Controls{
		camera:       cam,
		Enabled:      true,
		EnableRotate: true,
		EnablePan:    true,
		EnableZoom:   true,
	}

	offset := cam.Position.Sub(c.Center)
	c.Distance = offset.Len()
	if c.Distance > 0 {
		c.RotationX = math32.Asin(mgl32.Clamp(offset.Y()/c.Distance, -1, 1))
		c.RotationY = math32.Atan2(offset.X(), offset.Z())
	}
	c.Update()
	return c
}

// Disable switches off every interaction.
func (c *Controls) Disable() {
	c.Enabled = false
	c.EnableRotate = false
	c.EnablePan = false
	c.EnableZoom = false
	c.EnableDamping = false
}

// Update places the camera from the spherical coordinates and aims it at Center.
func (c *Controls) Update() {
	if c.disposed {
		return
	}
	cosX := math32.Cos(c.RotationX)
	c.camera.Position = mgl32.Vec3{
		c.Center.X() + c.Distance*cosX*math32.Sin(c.RotationY),
		c.Center.Y() + c.Distance*math32.Sin(c.RotationX),
		c.Center.Z() + c.Distance*cosX*math32.Cos(c.RotationY),
	}
	c.camera.LookAt(c.Center)
}

// Dispose detaches the controls from the camera. Later calls do nothing.
func (c *Controls) Dispose() {
	c.Disable()
	c.disposed = true
}

// Disposed reports whether Dispose has been called.
func (c *Controls) Disposed() bool {
	return c.disposed
}
