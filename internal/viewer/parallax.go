package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/intro-viewer/internal/engine/host"
	"github.com/Faultbox/intro-viewer/pkg/math"
)

// Maximum parallax angles in radians at the region edges.
const (
	MaxPitch = 0.08
	MaxYaw   = 0.12
)

// DefaultSmoothing is the per-frame fraction the live offset moves toward
// the target.
const DefaultSmoothing = 0.06

// parallax smooths the pointer position into a rotation offset.
type parallax struct {
	target    mgl32.Vec2 // Normalized [-1, 1] per axis
	live      mgl32.Vec2
	smoothing float32
}

func newParallax(smoothing float32) parallax {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = DefaultSmoothing
	}
	return parallax{smoothing: smoothing}
}

// aim sets the target from a pointer position inside bounds. Degenerate
// bounds are ignored.
func (p *parallax) aim(x, y float32, bounds host.Rect) {
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}
	nx := (x-bounds.Left)/bounds.Width*2 - 1
	ny := (y-bounds.Top)/bounds.Height*2 - 1
	p.target = mgl32.Vec2{math.Clamp(nx, -1, 1), math.Clamp(ny, -1, 1)}
}

// reset recenters the target.
func (p *parallax) reset() {
	p.target = mgl32.Vec2{}
}

// step moves the live offset one frame toward the target.
func (p *parallax) step() {
	p.live = mgl32.Vec2{
		math.Lerp(p.live.X(), p.target.X(), p.smoothing),
		math.Lerp(p.live.Y(), p.target.Y(), p.smoothing),
	}
}

// pitch is subtracted from the X rotation; pointer down tilts forward.
func (p *parallax) pitch() float32 {
	return p.live.Y() * MaxPitch
}

// yaw is added to the Y rotation.
func (p *parallax) yaw() float32 {
	return p.live.X() * MaxYaw
}

// pointerListener forwards region pointer events to the viewer's parallax.
type pointerListener struct {
	v *Viewer
}

func (l pointerListener) PointerMove(x, y float32) {
	if !l.v.mounted {
		return
	}
	l.v.parallax.aim(x, y, l.v.host.Bounds())
}

func (l pointerListener) PointerLeave() {
	if !l.v.mounted {
		return
	}
	l.v.parallax.reset()
}
