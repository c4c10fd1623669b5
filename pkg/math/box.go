package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box.
// The zero value is not empty; use EmptyBox to start accumulating points.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains no points.
func EmptyBox() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to contain p.
func (b *Box3) ExpandByPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

// Union grows the box to contain other.
func (b *Box3) Union(other Box3) {
	if other.IsEmpty() {
		return
	}
	b.ExpandByPoint(other.Min)
	b.ExpandByPoint(other.Max)
}

// Size returns the extent along each axis. An empty box has zero size.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box. An empty box is centered at the origin.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}
