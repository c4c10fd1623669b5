package model

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/intro-viewer/pkg/math"
)

// Fit parameters tuned for the shipped asset.
const (
	// TargetSize is the largest extent after normalization.
	TargetSize = 2.9
	// FlatRatio is the thin/thick extent ratio below which geometry is
	// treated as degenerate.
	FlatRatio = 0.08
	// FlatTargetFactor is the fraction of the thick extent a flat axis is
	// thickened toward.
	FlatTargetFactor = 0.2
	// MaxFlatBoost caps the thin-axis scale multiplier.
	MaxFlatBoost = 20
	// minThin guards the boost division against zero-thickness geometry.
	minThin = 0.0001
)

// Axis identifies a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// NormalizeResult reports what Normalize did to the asset.
type NormalizeResult struct {
	Scale    float32 // Uniform scale applied first
	ThinAxis Axis    // Thinnest axis after uniform scaling
	Boost    float32 // Thin-axis multiplier, 1 when not degenerate
	Bounds   math.Box3
}

// Normalize prepares a freshly loaded asset for display: it fixes up mesh
// materials, scales the root so its largest extent is TargetSize, thickens
// near-planar geometry on its thin axis and centers the result at the origin.
// It mutates root in place and is meant to run once per asset.
func Normalize(root *Node) NormalizeResult {
	PrepareMaterials(root)

	size := root.Bounds().Size()
	maxAxis := math32.Max(size[0], math32.Max(size[1], size[2]))
	if maxAxis == 0 {
		maxAxis = 1
	}
	scale := float32(TargetSize) / maxAxis
	root.Scale = mgl32.Vec3{scale, scale, scale}

	thin, boost := ThinAxisBoost(root.Bounds().Size())
	root.Scale[thin] *= boost

	center := root.Bounds().Center()
	root.Position = root.Position.Sub(center)

	return NormalizeResult{
		Scale:    scale,
		ThinAxis: thin,
		Boost:    boost,
		Bounds:   root.Bounds(),
	}
}

// ThinAxisBoost picks the thinnest axis of size and the multiplier needed to
// thicken it. The multiplier is 1 unless thin/thick < FlatRatio, and is
// always within [1, MaxFlatBoost].
func ThinAxisBoost(size mgl32.Vec3) (Axis, float32) {
	axes := []Axis{AxisX, AxisY, AxisZ}
	sort.SliceStable(axes, func(i, j int) bool {
		return size[axes[i]] < size[axes[j]]
	})

	thin := axes[0]
	thinValue := size[thin]
	thickValue := size[axes[2]]
	if thickValue == 0 {
		thickValue = 1
	}

	if thinValue/thickValue >= FlatRatio {
		return thin, 1
	}

	target := thickValue * FlatTargetFactor
	boost := math32.Min(MaxFlatBoost, math32.Max(1, target/math32.Max(thinValue, minThin)))
	return thin, boost
}

// PrepareMaterials switches on vertex-color shading for meshes that carry a
// color channel, forces double-sided rendering and disables shadows.
func PrepareMaterials(root *Node) {
	for _, mesh := range root.Meshes() {
		mesh.CastShadow = false
		mesh.ReceiveShadow = false

		hasColors := mesh.Geometry != nil && mesh.Geometry.HasColors()
		for _, mat := range mesh.Materials {
			if mat == nil {
				continue
			}
			if hasColors {
				mat.VertexColors = true
				mat.NeedsUpdate = true
			}
			mat.Side = DoubleSide
		}
	}
}
