// Package scene holds the renderable state of one viewer instance: the light
// rig, fog and the node tree under the root.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/intro-viewer/internal/engine/lighting"
	"github.com/Faultbox/intro-viewer/internal/engine/model"
)

// Fog is linear distance fog.
type Fog struct {
	Color mgl32.Vec3 // Linear RGB
	Near  float32
	Far   float32
}

// Scene is everything a surface needs to draw a frame.
type Scene struct {
	Root *model.Node
	Rig  *lighting.Rig
	Fog  *Fog
}

// New creates an empty scene lit by rig.
func New(rig *lighting.Rig) *Scene {
	return &Scene{
		Root: model.NewNode("scene"),
		Rig:  rig,
	}
}

// Add attaches n under the scene root.
func (s *Scene) Add(n *model.Node) {
	s.Root.Add(n)
}

// Traverse visits every node under the root.
func (s *Scene) Traverse(fn func(*model.Node)) {
	s.Root.Traverse(fn)
}

// Dispose releases the geometry and materials of every mesh in the scene.
// It returns the number of meshes visited.
func (s *Scene) Dispose() int {
	return s.Root.Dispose()
}
