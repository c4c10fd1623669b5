// Package viewer mounts the 3D intro into a host region: it owns the render
// surface, camera, light rig and pivot, drives the scripted intro and the
// pointer parallax, and tears everything down on unmount.
package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/intro-viewer/internal/config"
	"github.com/Faultbox/intro-viewer/internal/engine/asset"
	"github.com/Faultbox/intro-viewer/internal/engine/camera"
	"github.com/Faultbox/intro-viewer/internal/engine/host"
	"github.com/Faultbox/intro-viewer/internal/engine/lighting"
	"github.com/Faultbox/intro-viewer/internal/engine/model"
	"github.com/Faultbox/intro-viewer/internal/engine/scene"
	"github.com/Faultbox/intro-viewer/internal/logger"
)

// ErrNoSurface is reported when Options carries no surface factory.
var ErrNoSurface = errors.New("viewer: no render surface factory")

// Surface is the render target bound to the host region.
type Surface interface {
	host.Output
	SetPixelRatio(ratio float32)
	SetSize(width, height int)
	Render(s *scene.Scene, cam *camera.Perspective)
	Dispose()
}

// SurfaceFactory creates the surface for a host region.
type SurfaceFactory func(h host.Host) (Surface, error)

// AssetLoader resolves a model from an ordered candidate list.
// *asset.Loader implements it.
type AssetLoader interface {
	Load(ctx context.Context, candidates []asset.Candidate, onProgress asset.ProgressFunc) (*model.Node, error)
	Dispose() error
}

var _ AssetLoader = (*asset.Loader)(nil)

// Options configures a mount. Zero values select the shipped defaults.
type Options struct {
	// OnIntroComplete is invoked at most once per mount, on the host loop.
	OnIntroComplete func()
	// OnProgress observes download progress of the current attempt.
	OnProgress asset.ProgressFunc

	Candidates []asset.Candidate
	Loader     AssetLoader
	NewSurface SurfaceFactory
	Config     config.ViewerConfig
}

// DefaultCandidates is the shipped source list.
func DefaultCandidates() []asset.Candidate {
	return []asset.Candidate{{Format: asset.FormatGLB, Path: "models/Painterly11.glb"}}
}

// Camera and fog settings.
const (
	fieldOfView = 38
	nearPlane   = 0.1
	farPlane    = 50
	fogColor    = 0x060b13
	fogNear     = 8.5
	fogFar      = 22
)

var cameraPosition = mgl32.Vec3{0, 1.15, 5.8}

// Viewer is one mounted instance. All methods must be called from the host
// loop goroutine.
type Viewer struct {
	host host.Host
	opts Options
	cfg  config.ViewerConfig
	log  *zap.Logger

	mounted  bool
	notified bool

	state      State
	introStart time.Time

	surface  Surface
	scene    *scene.Scene
	camera   *camera.Perspective
	controls *camera.Controls
	rig      *lighting.Rig
	pivot    *model.Node
	loader   AssetLoader
	parallax parallax

	cancel           context.CancelFunc
	frame            host.FrameID
	timers           []host.TimerID
	disconnectResize func()
	removePointer    func()
	loaderDone       chan struct{}
}

// Mount builds the scene in h, starts the render loop and begins loading
// the model. It never fails: without a surface the viewer only delivers the
// completion notification.
func Mount(h host.Host, opts Options) *Viewer {
	cfg := opts.Config
	if cfg == (config.ViewerConfig{}) {
		cfg = config.Default().Viewer
	}
	v := &Viewer{
		host:       h,
		opts:       opts,
		cfg:        cfg,
		log:        logger.Named("viewer"),
		mounted:    true,
		loaderDone: make(chan struct{}),
	}

	newSurface := opts.NewSurface
	if newSurface == nil {
		newSurface = func(host.Host) (Surface, error) { return nil, ErrNoSurface }
	}
	surface, err := newSurface(h)
	if err != nil {
		v.log.Error("render surface unavailable", zap.Error(err))
		close(v.loaderDone)
		v.after(cfg.NoSurfaceDelay, v.notify)
		return v
	}
	v.surface = surface
	v.surface.SetPixelRatio(pixelRatio(h.DevicePixelRatio(), cfg.MaxPixelRatio))
	h.Attach(v.surface)

	v.bootstrap()

	v.disconnectResize = h.ObserveResize(v.resize)
	v.resize()
	v.removePointer = h.AddPointerListener(pointerListener{v})

	v.tick(h.Now())
	v.startLoading()
	return v
}

// bootstrap creates the camera, controls, light rig, fog and pivot.
func (v *Viewer) bootstrap() {
	v.rig = lighting.NewRig(introEndPos)
	v.scene = scene.New(v.rig)
	c := lighting.HexColor(fogColor)
	v.scene.Fog = &scene.Fog{Color: c, Near: fogNear, Far: fogFar}

	v.camera = camera.NewPerspective(fieldOfView, 1, nearPlane, farPlane)
	v.camera.Position = cameraPosition
	v.controls = camera.NewControls(v.camera)
	v.controls.Disable()

	v.pivot = model.NewNode("pivot")
	v.scene.Add(v.pivot)

	v.parallax = newParallax(v.cfg.PointerSmoothing)
}

func (v *Viewer) startLoading() {
	v.loader = v.opts.Loader
	if v.loader == nil {
		v.loader = asset.NewLoader(asset.FileFetcher{}, v.cfg.LoadTimeout, nil)
	}
	if p, ok := v.loader.(interface{ Preload() error }); ok {
		if err := p.Preload(); err != nil {
			v.log.Warn("mesh decoder unavailable", zap.Error(err))
		}
	}

	candidates := v.opts.Candidates
	if candidates == nil {
		candidates = DefaultCandidates()
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	loader := v.loader
	go func() {
		defer close(v.loaderDone)
		root, err := loader.Load(ctx, candidates, v.reportProgress)
		v.host.Post(func() { v.onLoaded(root, err) })
	}()
}

// reportProgress runs on the loader goroutine and hands off to the loop.
func (v *Viewer) reportProgress(c asset.Candidate, p asset.Progress) {
	v.host.Post(func() {
		if !v.mounted || p.Total == 0 {
			return
		}
		v.log.Debug("loading",
			zap.String("candidate", c.Label()),
			zap.Int64("loaded", p.Loaded),
			zap.Int64("total", p.Total))
		if v.opts.OnProgress != nil {
			v.opts.OnProgress(c, p)
		}
	})
}

// notify delivers the completion notification once.
func (v *Viewer) notify() {
	if v.notified {
		return
	}
	v.notified = true
	v.log.Info("intro complete", zap.Stringer("state", v.state))
	if v.opts.OnIntroComplete != nil {
		v.opts.OnIntroComplete()
	}
}

// after schedules fn on the host loop unless the viewer unmounts first.
func (v *Viewer) after(d time.Duration, fn func()) {
	id := v.host.AfterFunc(d, func() {
		if v.mounted {
			fn()
		}
	})
	v.timers = append(v.timers, id)
}

// State returns the intro animation state.
func (v *Viewer) State() State {
	return v.state
}

// Mounted reports whether Unmount has not run yet.
func (v *Viewer) Mounted() bool {
	return v.mounted
}

// Unmount cancels pending work, detaches from the host and releases every
// resource. Calling it more than once is a no-op.
func (v *Viewer) Unmount() {
	if !v.mounted {
		return
	}
	v.mounted = false

	if v.cancel != nil {
		v.cancel()
	}
	if v.frame != 0 {
		v.host.CancelFrame(v.frame)
		v.frame = 0
	}
	for _, id := range v.timers {
		v.host.CancelTimer(id)
	}
	v.timers = nil

	if v.disconnectResize != nil {
		v.disconnectResize()
	}
	if v.removePointer != nil {
		v.removePointer()
	}
	if v.controls != nil {
		v.controls.Dispose()
	}
	if v.loader != nil {
		if err := v.loader.Dispose(); err != nil {
			v.log.Warn("disposing loader", zap.Error(err))
		}
	}

	meshes := 0
	if v.scene != nil {
		meshes = v.scene.Dispose()
	}
	if v.surface != nil {
		v.surface.Dispose()
		v.host.Detach(v.surface)
	}
	v.log.Info("viewer unmounted", zap.Int("meshes_released", meshes))
}

// pixelRatio caps the device pixel ratio.
func pixelRatio(device, limit float32) float32 {
	if device <= 0 {
		device = 1
	}
	if limit <= 0 {
		return device
	}
	return math32.Min(device, limit)
}
