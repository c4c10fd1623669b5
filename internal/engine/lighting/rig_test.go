package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewRigStartsDark(t *testing.T) {
	r := NewRig(mgl32.Vec3{0, -0.2, 0})

	for _, l := range r.Fill() {
		if l.Intensity != 0 {
			t.Errorf("%s starts at %v, want 0", l.Name, l.Intensity)
		}
	}
	if r.Spot.Intensity != 0.25 {
		t.Errorf("spot starts at %v, want 0.25", r.Spot.Intensity)
	}
	want := mgl32.Vec3{0, -0.32, 0.3}
	if !r.Spot.Target.ApproxEqual(want) {
		t.Errorf("spot target = %v, want %v", r.Spot.Target, want)
	}
}

func TestHoldSteady(t *testing.T) {
	r := NewRig(mgl32.Vec3{})
	r.HoldSteady()

	want := map[string]float32{"ambient": 0.16, "rim": 0.26, "back": 0.12, "spot": 9.2}
	for _, l := range r.Lights() {
		if l.Intensity != want[l.Name] {
			t.Errorf("%s intensity = %v, want %v", l.Name, l.Intensity, want[l.Name])
		}
	}
}

func TestHexColor(t *testing.T) {
	white := HexColor(0xffffff)
	if !white.ApproxEqualThreshold(mgl32.Vec3{1, 1, 1}, 1e-4) {
		t.Errorf("white = %v", white)
	}
	if black := HexColor(0); black != (mgl32.Vec3{}) {
		t.Errorf("black = %v", black)
	}
	// sRGB 0.5 is about 0.214 linear
	mid := HexColor(0x808080)
	if mid[0] < 0.2 || mid[0] > 0.23 {
		t.Errorf("mid gray = %v, want ~0.216", mid[0])
	}
}
