package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSetAspectUpdatesProjection(t *testing.T) {
	c := NewPerspective(38, 1, 0.1, 50)
	before := c.Projection()

	c.SetAspect(2)

	if c.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", c.Aspect)
	}
	after := c.Projection()
	if after == before {
		t.Error("projection should change with aspect")
	}
	// x scale halves when aspect doubles
	if !mgl32.FloatEqualThreshold(after[0]*2, before[0], 1e-5) {
		t.Errorf("projection[0] = %v, want %v", after[0], before[0]/2)
	}
	if after[11] != -1 {
		t.Errorf("projection[11] = %v, want -1", after[11])
	}
}

func TestControlsKeepCameraPosition(t *testing.T) {
	c := NewPerspective(38, 1, 0.1, 50)
	c.Position = mgl32.Vec3{0, 1.15, 5.8}

	NewControls(c)

	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{0, 1.15, 5.8}, 1e-4) {
		t.Errorf("camera moved to %v", c.Position)
	}
	if c.Target != (mgl32.Vec3{}) {
		t.Errorf("camera should look at the origin, got %v", c.Target)
	}
}

func TestDisableSwitchesOffInteraction(t *testing.T) {
	c := NewPerspective(38, 1, 0.1, 50)
	c.Position = mgl32.Vec3{0, 1.15, 5.8}
	ctrl := NewControls(c)
	if !ctrl.Enabled || !ctrl.EnableRotate {
		t.Fatal("new controls should start enabled")
	}

	ctrl.Disable()

	if ctrl.Enabled || ctrl.EnableRotate || ctrl.EnablePan || ctrl.EnableZoom || ctrl.EnableDamping {
		t.Errorf("interaction left on: %+v", ctrl)
	}
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{0, 1.15, 5.8}, 1e-4) {
		t.Errorf("Disable moved camera to %v", c.Position)
	}
}

func TestUpdateOrbitsCenter(t *testing.T) {
	c := NewPerspective(38, 1, 0.1, 50)
	c.Position = mgl32.Vec3{0, 0, 5}
	ctrl := NewControls(c)

	ctrl.RotationY = math32.Pi / 2
	ctrl.Update()

	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{5, 0, 0}, 1e-4) {
		t.Errorf("camera at %v, want (5, 0, 0)", c.Position)
	}
	if c.Target != (mgl32.Vec3{}) {
		t.Errorf("camera looks at %v", c.Target)
	}
}

func TestDisposeDetaches(t *testing.T) {
	c := NewPerspective(38, 1, 0.1, 50)
	c.Position = mgl32.Vec3{0, 0, 5}
	ctrl := NewControls(c)

	ctrl.Dispose()
	ctrl.Distance = 1
	ctrl.Update()

	if !ctrl.Disposed() {
		t.Error("controls should report disposed")
	}
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-4) {
		t.Errorf("disposed controls moved camera to %v", c.Position)
	}
}
