// Package asset loads a display model from an ordered list of candidate
// sources, giving each a bounded amount of time before falling back to the
// next.
package asset

import (
	"errors"
	"path"
	"strings"
)

// Supported candidate formats.
const (
	FormatGLB  = "glb"
	FormatGLTF = "gltf"
	FormatOBJ  = "obj"
)

var (
	// ErrExhausted is returned when every candidate failed. It is a soft
	// failure: callers degrade to an empty scene.
	ErrExhausted = errors.New("asset: all candidates failed")
	// ErrTimeout is returned for an attempt that did not settle in time.
	ErrTimeout = errors.New("asset: load timed out")
	// ErrUnsupportedFormat is returned for an unknown candidate format.
	ErrUnsupportedFormat = errors.New("asset: unsupported format")
	// ErrNoDecoder is returned for compressed meshes when no mesh decoder
	// is configured.
	ErrNoDecoder = errors.New("asset: no mesh decoder configured")
	// ErrDecoderPanic is returned when decoding a candidate panicked.
	ErrDecoderPanic = errors.New("asset: decoder panicked")
)

// Candidate is one model source.
type Candidate struct {
	Format string
	Path   string
}

// Label returns the file name part of the candidate path.
func (c Candidate) Label() string {
	trimmed := strings.TrimRight(c.Path, "/")
	if base := path.Base(trimmed); base != "." && base != "/" && base != "" {
		return base
	}
	return c.Path
}

func (c Candidate) String() string {
	return c.Format + ":" + c.Path
}

// Progress reports bytes received for the current attempt.
// Total is 0 when the source does not report a size.
type Progress struct {
	Loaded int64
	Total  int64
}

// ProgressFunc observes download progress of an attempt.
type ProgressFunc func(c Candidate, p Progress)
