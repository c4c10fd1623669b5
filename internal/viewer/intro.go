package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/intro-viewer/internal/engine/model"
	"github.com/Faultbox/intro-viewer/pkg/math"
)

// State is the intro animation state. It only moves forward.
type State int

const (
	NotStarted State = iota
	Playing
	Complete
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Complete:
		return "complete"
	default:
		return "not_started"
	}
}

// Intro poses. The pivot travels from off-screen to the resting pose.
var (
	introStartPos = mgl32.Vec3{0, -1.65, -4.8}
	introEndPos   = mgl32.Vec3{0, -0.2, 0}
	introStartRot = math.Euler{X: -0.72, Y: -1.05, Z: -0.24}
	introEndRot   = math.Euler{X: -0.22, Y: 0.34, Z: 0.04}
)

// yawOvershoot is the extra yaw at the start of the intro, decaying to 0.
const yawOvershoot = 0.25

// onLoaded runs on the loop once the loader settles.
func (v *Viewer) onLoaded(root *model.Node, err error) {
	if !v.mounted {
		if root != nil {
			root.Dispose()
		}
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		v.log.Warn("no model available", zap.Error(err))
		v.after(v.cfg.ExhaustedDelay, v.notify)
		return
	}
	if v.state != NotStarted {
		return
	}

	res := model.Normalize(root)
	v.log.Info("model attached",
		zap.String("root", root.Name),
		zap.Float32("scale", res.Scale),
		zap.Stringer("thin_axis", res.ThinAxis),
		zap.Float32("boost", res.Boost))

	v.pivot.Add(root)
	v.pivot.Position = introStartPos
	v.pivot.Rotation = introStartRot

	v.state = Playing
	v.introStart = v.host.Now()
}

// tick is the per-frame callback.
func (v *Viewer) tick(now time.Time) {
	if !v.mounted {
		return
	}
	v.parallax.step()

	switch v.state {
	case Playing:
		v.advanceIntro(now)
	case Complete:
		v.holdResting()
	}
	// OnIntroComplete may have unmounted the viewer.
	if !v.mounted {
		return
	}

	v.surface.Render(v.scene, v.camera)
	v.frame = v.host.RequestFrame(v.tick)
}

// introProgress returns the clamped fraction of the intro elapsed at now.
func introProgress(elapsed, duration time.Duration) float32 {
	if duration <= 0 {
		return 1
	}
	return math.Clamp(float32(elapsed)/float32(duration), 0, 1)
}

func (v *Viewer) advanceIntro(now time.Time) {
	t := introProgress(now.Sub(v.introStart), v.cfg.IntroDuration)
	eased := math.EaseOutCubic(t)

	v.pivot.Position = math.LerpVec3(introStartPos, introEndPos, eased)
	rot := introStartRot.Lerp(introEndRot, eased)
	rot.X -= v.parallax.pitch()
	rot.Y += (1-eased)*yawOvershoot + v.parallax.yaw()
	v.pivot.Rotation = rot

	spot := v.rig.Spot
	spot.Intensity = math.Lerp(v.rig.SpotStartIntensity, spot.TargetIntensity, eased)
	fill := math.EaseOutCubic(math.Progress(t, v.cfg.FillLightDelay, 1))
	for _, l := range v.rig.Fill() {
		l.Intensity = math.Lerp(0, l.TargetIntensity, fill)
	}

	if t >= 1 {
		v.state = Complete
		v.notify()
	}
}

// holdResting applies the resting rotation plus parallax with steady lights.
func (v *Viewer) holdResting() {
	v.pivot.Rotation = math.Euler{
		X: introEndRot.X - v.parallax.pitch(),
		Y: introEndRot.Y + v.parallax.yaw(),
		Z: introEndRot.Z,
	}
	v.rig.HoldSteady()
}

// Asset returns the model attached to the pivot, or nil.
func (v *Viewer) Asset() *model.Node {
	if v.pivot == nil || len(v.pivot.Children()) == 0 {
		return nil
	}
	return v.pivot.Children()[0]
}
