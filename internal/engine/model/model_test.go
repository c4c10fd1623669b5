package model

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// boxNode builds a mesh node whose vertices span min..max.
func boxNode(min, max [3]float32) *Node {
	geom := &Geometry{
		Positions: [][3]float32{
			min,
			{max[0], min[1], min[2]},
			{min[0], max[1], min[2]},
			max,
		},
	}
	n := NewNode("box")
	n.Mesh = NewMesh(geom, NewMaterial("box"))
	return n
}

func near(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func TestNormalizeScalesAndCenters(t *testing.T) {
	root := NewNode("scene")
	root.Add(boxNode([3]float32{2, -1, 5}, [3]float32{12, 3, 7}))

	res := Normalize(root)

	size := res.Bounds.Size()
	largest := math32.Max(size[0], math32.Max(size[1], size[2]))
	if !near(largest, TargetSize, 1e-4) {
		t.Errorf("largest extent = %v, want %v", largest, TargetSize)
	}
	center := res.Bounds.Center()
	for i := 0; i < 3; i++ {
		if !near(center[i], 0, 1e-4) {
			t.Errorf("center[%d] = %v, want 0", i, center[i])
		}
	}
	if res.Boost != 1 {
		t.Errorf("non-degenerate box should not be boosted, got %v", res.Boost)
	}
	if !near(res.Scale, 0.29, 1e-5) {
		t.Errorf("uniform scale = %v, want 0.29", res.Scale)
	}
}

func TestNormalizeThickensFlatGeometry(t *testing.T) {
	// 10 x 10 x 0.5 -> 2.9 x 2.9 x 0.145 after scaling, ratio 0.05
	root := NewNode("scene")
	root.Add(boxNode([3]float32{0, 0, 0}, [3]float32{10, 10, 0.5}))

	res := Normalize(root)

	if res.ThinAxis != AxisZ {
		t.Errorf("thin axis = %v, want z", res.ThinAxis)
	}
	if !near(res.Boost, 4, 1e-3) {
		t.Errorf("boost = %v, want 4", res.Boost)
	}
	size := res.Bounds.Size()
	if ratio := size[2] / size[0]; ratio < FlatRatio {
		t.Errorf("post-correction ratio = %v, want >= %v", ratio, FlatRatio)
	}
	if !near(root.Scale[0], root.Scale[1], 1e-6) {
		t.Errorf("boost must touch the thin axis only, got scale %v", root.Scale)
	}
	center := res.Bounds.Center()
	if !near(center[2], 0, 1e-4) {
		t.Errorf("center z = %v, want 0", center[2])
	}
}

func TestThinAxisBoost(t *testing.T) {
	tests := []struct {
		name      string
		size      mgl32.Vec3
		wantAxis  Axis
		wantBoost float32
	}{
		{"cube", mgl32.Vec3{2.9, 2.9, 2.9}, AxisX, 1},
		{"just above threshold", mgl32.Vec3{2.9, 0.233, 2.9}, AxisY, 1},
		{"flat", mgl32.Vec3{2.9, 2.9, 0.145}, AxisZ, 4},
		{"saturates", mgl32.Vec3{0.001, 2.9, 2.9}, AxisX, MaxFlatBoost},
		{"zero thickness", mgl32.Vec3{2.9, 0, 1}, AxisY, MaxFlatBoost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, boost := ThinAxisBoost(tt.size)
			if axis != tt.wantAxis {
				t.Errorf("axis = %v, want %v", axis, tt.wantAxis)
			}
			if !near(boost, tt.wantBoost, 1e-3) {
				t.Errorf("boost = %v, want %v", boost, tt.wantBoost)
			}
		})
	}
}

func TestThinAxisBoostNeverShrinks(t *testing.T) {
	for thin := float32(0); thin <= 3; thin += 0.01 {
		size := mgl32.Vec3{2.9, thin, 1.5}
		axis, boost := ThinAxisBoost(size)
		if boost < 1 || boost > MaxFlatBoost {
			t.Fatalf("boost %v out of range for size %v", boost, size)
		}
		ext := size
		ext[axis] *= boost
		thick := math32.Max(ext[0], math32.Max(ext[1], ext[2]))
		minExt := math32.Min(size[0], math32.Min(size[1], size[2]))
		if minExt/2.9 < FlatRatio && boost < MaxFlatBoost && ext[axis]/thick < FlatRatio {
			t.Errorf("size %v: corrected ratio %v below threshold", size, ext[axis]/thick)
		}
	}
}

func TestPrepareMaterials(t *testing.T) {
	colored := boxNode([3]float32{0, 0, 0}, [3]float32{1, 1, 1})
	colored.Mesh.Geometry.Colors = make([][4]float32, len(colored.Mesh.Geometry.Positions))
	plain := boxNode([3]float32{0, 0, 0}, [3]float32{1, 1, 1})
	plain.Mesh.CastShadow = true

	root := NewNode("scene")
	root.Add(colored)
	root.Add(plain)

	PrepareMaterials(root)

	if m := colored.Mesh.Materials[0]; !m.VertexColors || !m.NeedsUpdate || m.Side != DoubleSide {
		t.Errorf("colored material = %+v, want vertex colors and double side", m)
	}
	if m := plain.Mesh.Materials[0]; m.VertexColors || m.Side != DoubleSide {
		t.Errorf("plain material = %+v, want double side without vertex colors", m)
	}
	if plain.Mesh.CastShadow {
		t.Error("shadows should be disabled")
	}
}

func TestNodeAddReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	a.Add(child)
	b.Add(child)

	if len(a.Children()) != 0 {
		t.Errorf("old parent still has %d children", len(a.Children()))
	}
	if child.Parent() != b {
		t.Error("child should be parented to b")
	}
}

func TestWorldMatrixIncludesParents(t *testing.T) {
	parent := NewNode("parent")
	parent.Position = mgl32.Vec3{1, 0, 0}
	parent.Scale = mgl32.Vec3{2, 2, 2}
	child := NewNode("child")
	child.Position = mgl32.Vec3{0, 1, 0}
	parent.Add(child)

	p := mgl32.TransformCoordinate(mgl32.Vec3{}, child.WorldMatrix())
	if want := (mgl32.Vec3{1, 2, 0}); !p.ApproxEqual(want) {
		t.Errorf("child origin in world = %v, want %v", p, want)
	}
}

func TestDisposeRunsHooksOnce(t *testing.T) {
	g := &Geometry{}
	calls := 0
	g.OnDispose(func() { calls++ })

	g.Dispose()
	g.Dispose()

	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
	if !g.Disposed() {
		t.Error("geometry should report disposed")
	}

	late := 0
	g.OnDispose(func() { late++ })
	if late != 1 {
		t.Error("hook registered after dispose should run immediately")
	}
}
