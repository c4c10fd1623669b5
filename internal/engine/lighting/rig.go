// Package lighting provides the light types and the fixed four-light rig used
// by the intro scene.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the type of a light.
type Kind int

const (
	Hemisphere Kind = iota
	Directional
	Point
	Spot
)

// Light is a single light source. Fields that do not apply to a Kind are ignored.
type Light struct {
	Name        string
	Kind        Kind
	Color       mgl32.Vec3 // Linear RGB; sky color for Hemisphere
	GroundColor mgl32.Vec3 // Hemisphere only
	Position    mgl32.Vec3
	Target      mgl32.Vec3 // Directional and Spot aim point
	Distance    float32    // Point/Spot cutoff, 0 means infinite
	Decay       float32
	Angle       float32 // Spot cone half-angle (radians)
	Penumbra    float32 // Spot edge softness in [0, 1]

	Intensity       float32 // Current value, driven by the intro
	TargetIntensity float32 // Steady-state value
}

// Rig is the set of named lights the intro animates.
type Rig struct {
	Ambient *Light
	Rim     *Light
	Back    *Light
	Spot    *Light

	// Spot intensity at the start of the intro.
	SpotStartIntensity float32
}

// NewRig builds the intro rig with fill lights off and the spot at its
// starting intensity, aimed slightly below and in front of restingPos.
func NewRig(restingPos mgl32.Vec3) *Rig {
	return &Rig{
		Ambient: &Light{
			Name:            "ambient",
			Kind:            Hemisphere,
			Color:           HexColor(0x1b263a),
			GroundColor:     HexColor(0x03060d),
			TargetIntensity: 0.16,
		},
		Rim: &Light{
			Name:            "rim",
			Kind:            Directional,
			Color:           HexColor(0x7b9ccc),
			Position:        mgl32.Vec3{-2.2, 1.9, -2.8},
			TargetIntensity: 0.26,
		},
		Back: &Light{
			Name:            "back",
			Kind:            Point,
			Color:           HexColor(0xcaf0f8),
			Position:        mgl32.Vec3{2, -0.85, -1.3},
			Distance:        9,
			Decay:           2,
			TargetIntensity: 0.12,
		},
		Spot: &Light{
			Name:            "spot",
			Kind:            Spot,
			Color:           HexColor(0xffffff),
			Position:        mgl32.Vec3{0, 6.6, 1.25},
			Target:          restingPos.Add(mgl32.Vec3{0, -0.12, 0.3}),
			Distance:        8.4,
			Decay:           1,
			Angle:           math32.Pi * 0.082,
			Penumbra:        0.06,
			Intensity:       0.25,
			TargetIntensity: 9.2,
		},
		SpotStartIntensity: 0.25,
	}
}

// Lights returns the rig's lights in a fixed order.
func (r *Rig) Lights() []*Light {
	return []*Light{r.Ambient, r.Rim, r.Back, r.Spot}
}

// Fill returns the lights that ramp in after the spot.
func (r *Rig) Fill() []*Light {
	return []*Light{r.Ambient, r.Rim, r.Back}
}

// HoldSteady sets every light to its steady-state intensity.
func (r *Rig) HoldSteady() {
	for _, l := range r.Lights() {
		l.Intensity = l.TargetIntensity
	}
}

// HexColor converts a 0xRRGGBB sRGB value to linear RGB.
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		srgbToLinear(float32((hex>>16)&0xff) / 255),
		srgbToLinear(float32((hex>>8)&0xff) / 255),
		srgbToLinear(float32(hex&0xff) / 255),
	}
}

func srgbToLinear(c float32) float32 {
	if c < 0.04045 {
		return c * 0.0773993808
	}
	return math32.Pow(c*0.9478672986+0.0521327014, 2.4)
}
