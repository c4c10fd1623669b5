// Package debug provides developer tooling for the viewer window.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// PixelSource is a color buffer that can be read back. The GL framebuffer
// implements it.
type PixelSource interface {
	Size() (width, height int32)
	ReadPixels() []byte // RGBA rows, bottom row first
}

// Screenshot writes PNG captures of a PixelSource.
type Screenshot struct {
	// Width, when set, downscales wider captures to this width keeping the
	// aspect ratio. High-DPI buffers are saved at window size this way.
	Width int

	dir    string
	prefix string
	now    func() time.Time
}

// NewScreenshot saves captures as <dir>/<prefix>_<timestamp>.png.
func NewScreenshot(dir, prefix string) *Screenshot {
	return &Screenshot{dir: dir, prefix: prefix, now: time.Now}
}

// Capture reads src and saves it, returning the file path.
func (s *Screenshot) Capture(src PixelSource) (string, error) {
	w, h := src.Size()
	img, err := flipRGBA(src.ReadPixels(), int(w), int(h))
	if err != nil {
		return "", err
	}
	img = downscale(img, s.Width)

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := s.filename()

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}

func (s *Screenshot) filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	return filepath.Join(s.dir, name)
}

// flipRGBA copies bottom-up GL rows into a top-down image.
func flipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty capture %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// downscale resamples img to width when it is wider.
func downscale(img *image.RGBA, width int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
