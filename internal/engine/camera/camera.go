// Package camera provides the viewer's perspective camera and its orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective is a perspective-projection camera looking at a target point.
type Perspective struct {
	FovY   float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fovY, aspect, near, far float32) *Perspective {
	c := &Perspective{
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// SetAspect changes the aspect ratio and recomputes the projection.
func (c *Perspective) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.UpdateProjection()
}

// UpdateProjection recomputes the projection matrix from the lens settings.
func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// Projection returns the cached projection matrix.
func (c *Perspective) Projection() mgl32.Mat4 {
	return c.projection
}

// LookAt points the camera at target.
func (c *Perspective) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Perspective) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ViewProjection returns Projection * View.
func (c *Perspective) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.ViewMatrix())
}
