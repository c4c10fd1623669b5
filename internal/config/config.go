// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds the host window settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ViewerConfig holds intro timing and surface settings.
type ViewerConfig struct {
	LoadTimeout      time.Duration `yaml:"load_timeout"`
	IntroDuration    time.Duration `yaml:"intro_duration"`
	FillLightDelay   float32       `yaml:"fill_light_delay"` // Fraction of the intro before fill lights ramp
	ExhaustedDelay   time.Duration `yaml:"exhausted_delay"`
	NoSurfaceDelay   time.Duration `yaml:"no_surface_delay"`
	MaxPixelRatio    float32       `yaml:"max_pixel_ratio"`
	ToneMapExposure  float32       `yaml:"tone_map_exposure"`
	PointerSmoothing float32       `yaml:"pointer_smoothing"`
}

// AssetsConfig holds model sources.
type AssetsConfig struct {
	Root        string      `yaml:"root"`         // Base directory for relative paths
	DecoderPath string      `yaml:"decoder_path"` // Directory holding the mesh decoder tool
	Candidates  []Candidate `yaml:"candidates"`   // Tried in order
}

// Candidate is one model source entry.
type Candidate struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the shipped values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Intro Viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			LoadTimeout:      12 * time.Second,
			IntroDuration:    2400 * time.Millisecond,
			FillLightDelay:   0.35,
			ExhaustedDelay:   700 * time.Millisecond,
			NoSurfaceDelay:   400 * time.Millisecond,
			MaxPixelRatio:    1.5,
			ToneMapExposure:  1.28,
			PointerSmoothing: 0.06,
		},
		Assets: AssetsConfig{
			Root:        "public",
			DecoderPath: "draco/",
			Candidates: []Candidate{
				{Format: "glb", Path: "models/Painterly11.glb"},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
