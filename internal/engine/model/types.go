// Package model provides the in-memory scene graph for loaded assets and the
// normalization pass applied to it after load.
package model

// Side selects which triangle faces a material renders.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

func (s Side) String() string {
	switch s {
	case BackSide:
		return "back"
	case DoubleSide:
		return "double"
	default:
		return "front"
	}
}

// disposable tracks release of a resource that may be mirrored on the GPU.
// Renderers register OnDispose hooks when they upload the resource.
type disposable struct {
	disposed  bool
	onDispose []func()
}

// OnDispose registers fn to run once when the resource is disposed.
// Registering on an already disposed resource runs fn immediately.
func (d *disposable) OnDispose(fn func()) {
	if d.disposed {
		fn()
		return
	}
	d.onDispose = append(d.onDispose, fn)
}

// Dispose releases the resource. Calling it more than once is a no-op.
func (d *disposable) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	hooks := d.onDispose
	d.onDispose = nil
	for _, fn := range hooks {
		fn()
	}
}

// Disposed reports whether Dispose has been called.
func (d *disposable) Disposed() bool {
	return d.disposed
}

// Geometry holds vertex data for one mesh.
type Geometry struct {
	disposable

	Positions [][3]float32
	Normals   [][3]float32 // Optional, same length as Positions
	Colors    [][4]float32 // Optional per-vertex color channel (linear RGBA)
	Indices   []uint32     // Optional; nil means non-indexed triangles
}

// HasColors reports whether the geometry carries a per-vertex color channel.
func (g *Geometry) HasColors() bool {
	return len(g.Colors) > 0 && len(g.Colors) == len(g.Positions)
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Material describes how a mesh is shaded.
type Material struct {
	disposable

	Name         string
	Color        [4]float32 // Base color factor
	VertexColors bool       // Multiply Color by the geometry color channel
	Side         Side
	NeedsUpdate  bool // Renderer must rebuild its state for this material
}

// NewMaterial returns an opaque white front-sided material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:  name,
		Color: [4]float32{1, 1, 1, 1},
	}
}

// Mesh pairs a geometry with the materials used to draw it.
// Most meshes have a single material.
type Mesh struct {
	Geometry      *Geometry
	Materials     []*Material
	CastShadow    bool
	ReceiveShadow bool
}

// NewMesh creates a mesh with a single material.
func NewMesh(geom *Geometry, mat *Material) *Mesh {
	return &Mesh{
		Geometry:  geom,
		Materials: []*Material{mat},
	}
}
