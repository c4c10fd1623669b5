// Package renderer provides the OpenGL render surface a viewer draws into.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/intro-viewer/internal/engine/camera"
	"github.com/Faultbox/intro-viewer/internal/engine/framebuffer"
	"github.com/Faultbox/intro-viewer/internal/engine/lighting"
	"github.com/Faultbox/intro-viewer/internal/engine/model"
	"github.com/Faultbox/intro-viewer/internal/engine/scene"
	"github.com/Faultbox/intro-viewer/internal/engine/shader"
	"github.com/Faultbox/intro-viewer/internal/logger"
)

// ErrNoContext is returned when no usable OpenGL context is current.
var ErrNoContext = errors.New("renderer: no OpenGL context")

// Target is the window the surface presents into.
type Target interface {
	SwapBuffers()
	// DrawableSize returns the size of the default framebuffer in pixels.
	DrawableSize() (int, int)
}

// Config holds renderer configuration.
type Config struct {
	Exposure   float32
	ClearColor [4]float32
}

// DefaultConfig returns a black clear color with exposure 1.28.
func DefaultConfig() Config {
	return Config{
		Exposure:   1.28,
		ClearColor: [4]float32{0, 0, 0, 1},
	}
}

// Stats counts GPU resources currently held by the renderer.
type Stats struct {
	Geometries int
	Materials  int
}

// floats per vertex: position(3) + normal(3) + color(4)
const vertexStride = 10

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

// Renderer draws a scene into an offscreen target sized by the pixel ratio
// and scales it onto the window on Present.
type Renderer struct {
	config Config
	target Target
	log    *zap.Logger

	program *shader.Program
	fb      *framebuffer.Framebuffer

	meshes    map[*model.Geometry]*gpuMesh
	materials map[*model.Material]struct{}

	width, height int
	pixelRatio    float32
	disposed      bool
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(target Target, cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoContext, err)
	}

	r := &Renderer{
		config:     cfg,
		target:     target,
		log:        logger.Named("renderer"),
		meshes:     make(map[*model.Geometry]*gpuMesh),
		materials:  make(map[*model.Material]struct{}),
		pixelRatio: 1,
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	r.program, err = shader.NewProgram(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}

	w, h := target.DrawableSize()
	r.width, r.height = w, h
	r.fb, err = framebuffer.New(int32(w), int32(h))
	if err != nil {
		r.program.Delete()
		return nil, err
	}

	return r, nil
}

// SetPixelRatio sets how many render pixels cover one logical unit.
func (r *Renderer) SetPixelRatio(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.resizeTarget()
}

// SetSize sets the logical size of the drawing area.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	r.resizeTarget()
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("pixel_ratio", r.pixelRatio),
	)
}

func (r *Renderer) resizeTarget() {
	if r.disposed || r.fb == nil {
		return
	}
	w, h := renderSize(r.width, r.height, r.pixelRatio)
	r.fb.Resize(w, h)
}

// renderSize returns the offscreen target size for a logical size.
func renderSize(width, height int, ratio float32) (int32, int32) {
	w := int32(math32.Round(float32(width) * ratio))
	h := int32(math32.Round(float32(height) * ratio))
	return max(w, 1), max(h, 1)
}

// Stats reports live GPU resources.
func (r *Renderer) Stats() Stats {
	return Stats{Geometries: len(r.meshes), Materials: len(r.materials)}
}

// Framebuffer exposes the offscreen target, for screenshots.
func (r *Renderer) Framebuffer() *framebuffer.Framebuffer {
	return r.fb
}

// Render draws s as seen from cam into the offscreen target.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) {
	if r.disposed {
		return
	}

	r.fb.Bind()
	c := r.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	view := cam.ViewMatrix()
	proj := cam.Projection()
	r.setMat4("uView", view)
	r.setMat4("uProjection", proj)
	r.setFloat("uExposure", r.config.Exposure)
	r.setFog(s.Fog)
	r.setLights(s.Rig)

	s.Traverse(func(n *model.Node) {
		if n.Mesh == nil || n.Mesh.Geometry == nil || n.Mesh.Geometry.VertexCount() == 0 {
			return
		}
		r.drawMesh(n.Mesh, n.WorldMatrix())
	})

	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (r *Renderer) drawMesh(mesh *model.Mesh, world mgl32.Mat4) {
	gm := r.upload(mesh.Geometry)

	mat := model.NewMaterial("default")
	if len(mesh.Materials) > 0 && mesh.Materials[0] != nil {
		mat = mesh.Materials[0]
		r.track(mat)
	}

	r.setMat4("uModel", world)
	normal := world.Inv().Transpose().Mat3()
	gl.UniformMatrix3fv(r.program.Uniform("uNormalMatrix"), 1, false, &normal[0])
	gl.Uniform4f(r.program.Uniform("uBaseColor"), mat.Color[0], mat.Color[1], mat.Color[2], mat.Color[3])
	useColors := int32(0)
	if mat.VertexColors && mesh.Geometry.HasColors() {
		useColors = 1
	}
	gl.Uniform1i(r.program.Uniform("uVertexColors"), useColors)

	if cull, face := cullState(mat.Side); cull {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(face)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	gl.BindVertexArray(gm.vao)
	if gm.indexed {
		gl.DrawElements(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, gm.count)
	}
}

// cullState maps a material side to GL face culling.
func cullState(side model.Side) (enabled bool, face uint32) {
	switch side {
	case model.DoubleSide:
		return false, 0
	case model.BackSide:
		return true, gl.FRONT
	default:
		return true, gl.BACK
	}
}

// track registers mat and rebuilds its state when flagged.
func (r *Renderer) track(mat *model.Material) {
	if _, ok := r.materials[mat]; !ok {
		r.materials[mat] = struct{}{}
		mat.OnDispose(func() { delete(r.materials, mat) })
	}
	if mat.NeedsUpdate {
		mat.NeedsUpdate = false
		r.log.Debug("material updated",
			zap.String("material", mat.Name),
			zap.Bool("vertex_colors", mat.VertexColors),
			zap.Stringer("side", mat.Side))
	}
}

// upload returns the GPU copy of geom, creating it on first use.
func (r *Renderer) upload(geom *model.Geometry) *gpuMesh {
	if gm, ok := r.meshes[geom]; ok {
		return gm
	}

	vertices := interleave(geom)
	gm := &gpuMesh{count: int32(geom.VertexCount())}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	if len(geom.Indices) > 0 {
		gm.indexed = true
		gm.count = int32(len(geom.Indices))
		gl.GenBuffers(1, &gm.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geom.Indices)*4, unsafe.Pointer(&geom.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes[geom] = gm
	geom.OnDispose(func() { r.release(geom) })

	r.log.Debug("geometry uploaded",
		zap.Int("vertices", geom.VertexCount()),
		zap.Int("indices", len(geom.Indices)),
		zap.Uint32("vao", gm.vao))
	return gm
}

func (r *Renderer) release(geom *model.Geometry) {
	gm, ok := r.meshes[geom]
	if !ok {
		return
	}
	delete(r.meshes, geom)
	if r.disposed {
		return
	}
	deleteMesh(gm)
}

func deleteMesh(gm *gpuMesh) {
	if gm.ebo != 0 {
		gl.DeleteBuffers(1, &gm.ebo)
	}
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteVertexArrays(1, &gm.vao)
}

// interleave packs position, normal and color per vertex. Missing normals
// are computed from faces; missing colors are white.
func interleave(geom *model.Geometry) []float32 {
	normals := geom.Normals
	if len(normals) != len(geom.Positions) {
		normals = vertexNormals(geom)
	}
	colors := geom.HasColors()

	out := make([]float32, 0, len(geom.Positions)*vertexStride)
	for i, p := range geom.Positions {
		n := normals[i]
		c := [4]float32{1, 1, 1, 1}
		if colors {
			c = geom.Colors[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], c[0], c[1], c[2], c[3])
	}
	return out
}

// vertexNormals accumulates area-weighted face normals per vertex.
func vertexNormals(geom *model.Geometry) [][3]float32 {
	acc := make([]mgl32.Vec3, len(geom.Positions))
	face := func(a, b, c uint32) {
		if int(a) >= len(acc) || int(b) >= len(acc) || int(c) >= len(acc) {
			return
		}
		pa, pb, pc := mgl32.Vec3(geom.Positions[a]), mgl32.Vec3(geom.Positions[b]), mgl32.Vec3(geom.Positions[c])
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	if len(geom.Indices) > 0 {
		for i := 0; i+2 < len(geom.Indices); i += 3 {
			face(geom.Indices[i], geom.Indices[i+1], geom.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(geom.Positions); i += 3 {
			face(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	out := make([][3]float32, len(acc))
	for i, n := range acc {
		if n.Len() > 0 {
			n = n.Normalize()
		} else {
			n = mgl32.Vec3{0, 1, 0}
		}
		out[i] = n
	}
	return out
}

func (r *Renderer) setFog(fog *scene.Fog) {
	if fog == nil {
		gl.Uniform1i(r.program.Uniform("uFogEnabled"), 0)
		return
	}
	gl.Uniform1i(r.program.Uniform("uFogEnabled"), 1)
	r.setVec3("uFogColor", fog.Color)
	r.setFloat("uFogNear", fog.Near)
	r.setFloat("uFogFar", fog.Far)
}

func (r *Renderer) setLights(rig *lighting.Rig) {
	if rig == nil {
		for _, name := range []string{"uHemiIntensity", "uDirIntensity", "uPointIntensity", "uSpotIntensity"} {
			r.setFloat(name, 0)
		}
		return
	}

	r.setVec3("uSkyColor", rig.Ambient.Color)
	r.setVec3("uGroundColor", rig.Ambient.GroundColor)
	r.setFloat("uHemiIntensity", rig.Ambient.Intensity)

	r.setVec3("uDirColor", rig.Rim.Color)
	r.setVec3("uDirToLight", rig.Rim.Position.Sub(rig.Rim.Target))
	r.setFloat("uDirIntensity", rig.Rim.Intensity)

	r.setVec3("uPointPos", rig.Back.Position)
	r.setVec3("uPointColor", rig.Back.Color)
	r.setFloat("uPointIntensity", rig.Back.Intensity)
	r.setFloat("uPointDistance", rig.Back.Distance)
	r.setFloat("uPointDecay", rig.Back.Decay)

	spot := rig.Spot
	coneCos, penumbraCos := spotCone(spot.Angle, spot.Penumbra)
	r.setVec3("uSpotPos", spot.Position)
	r.setVec3("uSpotDir", spot.Target.Sub(spot.Position))
	r.setVec3("uSpotColor", spot.Color)
	r.setFloat("uSpotIntensity", spot.Intensity)
	r.setFloat("uSpotDistance", spot.Distance)
	r.setFloat("uSpotDecay", spot.Decay)
	r.setFloat("uSpotConeCos", coneCos)
	r.setFloat("uSpotPenumbraCos", penumbraCos)
}

// spotCone returns the cosines of the outer cone edge and of the inner edge
// where the penumbra ends.
func spotCone(angle, penumbra float32) (coneCos, penumbraCos float32) {
	return math32.Cos(angle), math32.Cos(angle * (1 - penumbra))
}

func (r *Renderer) setMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(r.program.Uniform(name), 1, false, &m[0])
}

func (r *Renderer) setVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(r.program.Uniform(name), v[0], v[1], v[2])
}

func (r *Renderer) setFloat(name string, f float32) {
	gl.Uniform1f(r.program.Uniform(name), f)
}

// Present scales the last frame onto the window and swaps buffers.
func (r *Renderer) Present() {
	if r.disposed {
		return
	}
	w, h := r.target.DrawableSize()
	r.fb.BlitToScreen(int32(w), int32(h))
	r.target.SwapBuffers()
}

// Dispose releases every GPU resource. Safe to call more than once.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.log.Info("disposing renderer",
		zap.Int("geometries", len(r.meshes)),
		zap.Int("materials", len(r.materials)))

	for geom, gm := range r.meshes {
		deleteMesh(gm)
		delete(r.meshes, geom)
	}
	clear(r.materials)
	r.disposed = true

	if r.fb != nil {
		r.fb.Destroy()
	}
	if r.program != nil {
		r.program.Delete()
	}
}
