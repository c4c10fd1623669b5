// Package main is the entry point for the intro viewer.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/intro-viewer/internal/config"
	"github.com/Faultbox/intro-viewer/internal/engine/asset"
	"github.com/Faultbox/intro-viewer/internal/engine/debug"
	"github.com/Faultbox/intro-viewer/internal/engine/host"
	"github.com/Faultbox/intro-viewer/internal/engine/input"
	"github.com/Faultbox/intro-viewer/internal/engine/renderer"
	"github.com/Faultbox/intro-viewer/internal/engine/window"
	"github.com/Faultbox/intro-viewer/internal/logger"
	"github.com/Faultbox/intro-viewer/internal/viewer"
)

const headlessFrame = 16 * time.Millisecond

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Intro Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		logger.Error("window unavailable, running headless", zap.Error(err))
		runHeadless(cfg)
		return
	}
	defer win.Close()

	run(cfg, win)
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config, win *window.Window) {
	width, height := win.GetSize()
	region := host.NewRegion(host.SystemClock{}, width, height)
	region.SetDevicePixelRatio(win.PixelRatio())

	var rend *renderer.Renderer
	newSurface := func(host.Host) (viewer.Surface, error) {
		if err := win.CreateContext(); err != nil {
			return nil, err
		}
		r, err := renderer.New(win, renderer.Config{
			Exposure:   cfg.Viewer.ToneMapExposure,
			ClearColor: renderer.DefaultConfig().ClearColor,
		})
		if err != nil {
			return nil, err
		}
		rend = r
		return r, nil
	}

	v := viewer.Mount(region, viewer.Options{
		OnIntroComplete: func() { logger.Info("intro complete") },
		Candidates:      candidates(cfg.Assets.Candidates),
		Loader:          newLoader(cfg),
		NewSurface:      newSurface,
		Config:          cfg.Viewer,
	})
	defer v.Unmount()

	shots := debug.NewScreenshot("screenshots", "intro")
	in := input.New()
	for !in.Update() {
		in.Dispatch(region)

		if in.IsKeyPressed(sdl.SCANCODE_F12) && rend != nil {
			shots.Width = int(region.Bounds().Width)
			if path, err := shots.Capture(rend.Framebuffer()); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("path", path))
			}
		}

		region.Frame(time.Now())
		if rend == nil {
			time.Sleep(headlessFrame)
		}
	}
}

// runHeadless mounts without a surface so the completion notification is
// still delivered, then exits.
func runHeadless(cfg *config.Config) {
	region := host.NewRegion(host.SystemClock{}, cfg.Window.Width, cfg.Window.Height)
	done := false
	v := viewer.Mount(region, viewer.Options{
		OnIntroComplete: func() {
			logger.Info("intro complete")
			done = true
		},
		Config: cfg.Viewer,
	})
	defer v.Unmount()

	for !done {
		region.Frame(time.Now())
		time.Sleep(headlessFrame)
	}
}

func newLoader(cfg *config.Config) *asset.Loader {
	fetcher := asset.MultiFetcher{Files: asset.FileFetcher{Root: cfg.Assets.Root}}
	return asset.NewLoader(fetcher, cfg.Viewer.LoadTimeout, asset.NewDracoDecoder(filepath.Join(cfg.Assets.Root, cfg.Assets.DecoderPath)))
}

func candidates(entries []config.Candidate) []asset.Candidate {
	out := make([]asset.Candidate, 0, len(entries))
	for _, c := range entries {
		out = append(out, asset.Candidate{Format: c.Format, Path: c.Path})
	}
	return out
}
