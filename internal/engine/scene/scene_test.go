package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/intro-viewer/internal/engine/lighting"
	"github.com/Faultbox/intro-viewer/internal/engine/model"
)

func meshNode(name string) *model.Node {
	n := model.NewNode(name)
	geom := &model.Geometry{Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	n.Mesh = model.NewMesh(geom, model.NewMaterial(name))
	return n
}

func TestDisposeReleasesEveryMesh(t *testing.T) {
	s := New(lighting.NewRig(mgl32.Vec3{}))

	group := model.NewNode("group")
	a, b := meshNode("a"), meshNode("b")
	group.Add(a)
	group.Add(b)
	s.Add(group)

	released := 0
	for _, m := range s.Root.Meshes() {
		m.Geometry.OnDispose(func() { released++ })
		m.Materials[0].OnDispose(func() { released++ })
	}

	if n := s.Dispose(); n != 2 {
		t.Errorf("Dispose visited %d meshes, want 2", n)
	}
	if released != 4 {
		t.Errorf("released %d resources, want 4", released)
	}

	// Second pass is a no-op for the hooks.
	s.Dispose()
	if released != 4 {
		t.Errorf("hooks ran again: %d", released)
	}
}

func TestDisposeSharedMaterialOnce(t *testing.T) {
	s := New(lighting.NewRig(mgl32.Vec3{}))
	shared := model.NewMaterial("shared")
	for _, name := range []string{"a", "b"} {
		n := meshNode(name)
		n.Mesh.Materials = []*model.Material{shared}
		s.Add(n)
	}

	calls := 0
	shared.OnDispose(func() { calls++ })
	s.Dispose()

	if calls != 1 {
		t.Errorf("shared material released %d times, want 1", calls)
	}
}

func TestTraverseVisitsRootFirst(t *testing.T) {
	s := New(lighting.NewRig(mgl32.Vec3{}))
	s.Add(meshNode("child"))

	var names []string
	s.Traverse(func(n *model.Node) { names = append(names, n.Name) })

	if len(names) != 2 || names[0] != "scene" || names[1] != "child" {
		t.Errorf("traversal = %v", names)
	}
}
