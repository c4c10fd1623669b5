package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/intro-viewer/pkg/math"
)

// Node is a transform in the scene graph, optionally carrying a mesh.
//
// The local matrix is Translate(Position) * Rotation * Orientation * Scale.
// Rotation is the Euler pose driven by animation; Orientation is the
// quaternion read from the source file.
type Node struct {
	Name        string
	Position    mgl32.Vec3
	Rotation    math.Euler
	Orientation mgl32.Quat
	Scale       mgl32.Vec3
	Mesh        *Mesh

	parent   *Node
	children []*Node
}

// NewNode creates an identity node.
func NewNode(name string) *Node {
	return &Node{
		Name:        name,
		Orientation: mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Parent returns the node's parent or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Traverse calls fn for n and every descendant, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(n.Rotation.Mat4()).Mul4(n.Orientation.Mat4()).Mul4(s)
}

// WorldMatrix returns the node's transform including all ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Bounds returns the world-space box around every mesh vertex under n.
func (n *Node) Bounds() math.Box3 {
	box := math.EmptyBox()
	n.Traverse(func(node *Node) {
		if node.Mesh == nil || node.Mesh.Geometry == nil {
			return
		}
		world := node.WorldMatrix()
		for _, p := range node.Mesh.Geometry.Positions {
			box.ExpandByPoint(mgl32.TransformCoordinate(mgl32.Vec3{p[0], p[1], p[2]}, world))
		}
	})
	return box
}

// Meshes returns every mesh under n in traversal order.
func (n *Node) Meshes() []*Mesh {
	var meshes []*Mesh
	n.Traverse(func(node *Node) {
		if node.Mesh != nil {
			meshes = append(meshes, node.Mesh)
		}
	})
	return meshes
}

// Dispose releases the geometry and materials of every mesh under n and
// returns the number of meshes visited.
func (n *Node) Dispose() int {
	meshes := n.Meshes()
	for _, mesh := range meshes {
		if mesh.Geometry != nil {
			mesh.Geometry.Dispose()
		}
		for _, mat := range mesh.Materials {
			if mat != nil {
				mat.Dispose()
			}
		}
	}
	return len(meshes)
}
