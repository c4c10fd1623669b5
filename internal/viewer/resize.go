package viewer

import "go.uber.org/zap"

// resize syncs the camera aspect and surface size with the host region.
// A zero dimension leaves the previous sizing in place.
func (v *Viewer) resize() {
	if !v.mounted {
		return
	}
	b := v.host.Bounds()
	width, height := int(b.Width), int(b.Height)
	if width == 0 || height == 0 {
		v.log.Debug("ignoring empty region", zap.Int("width", width), zap.Int("height", height))
		return
	}
	v.camera.SetAspect(float32(width) / float32(height))
	v.surface.SetSize(width, height)
}
