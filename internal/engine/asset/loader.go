package asset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/intro-viewer/internal/engine/model"
	"github.com/Faultbox/intro-viewer/internal/logger"
)

// DefaultTimeout bounds a single candidate attempt.
const DefaultTimeout = 12 * time.Second

// MeshDecoder expands compressed mesh payloads embedded in glTF documents.
type MeshDecoder interface {
	DecodeMesh(ctx context.Context, compressed []byte) (*model.Geometry, error)
	Dispose() error
}

// Loader tries candidates in order until one decodes.
type Loader struct {
	fetcher Fetcher
	meshes  MeshDecoder
	timeout time.Duration
	log     *zap.Logger
}

// NewLoader creates a loader. A non-positive timeout selects DefaultTimeout.
// meshes may be nil, in which case compressed glTF primitives fail.
func NewLoader(fetcher Fetcher, timeout time.Duration, meshes MeshDecoder) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{
		fetcher: fetcher,
		meshes:  meshes,
		timeout: timeout,
		log:     logger.Named("asset"),
	}
}

// Timeout returns the per-candidate deadline.
func (l *Loader) Timeout() time.Duration { return l.timeout }

// Load attempts each candidate in order. The first success is returned; a
// failed or timed-out attempt moves on to the next candidate. When all fail
// the error wraps ErrExhausted together with every attempt error. If ctx is
// cancelled iteration stops and ctx.Err() is returned.
func (l *Loader) Load(ctx context.Context, candidates []Candidate, onProgress ProgressFunc) (*model.Node, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrExhausted)
	}
	var errs []error
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		l.log.Debug("loading candidate",
			zap.Int("index", i),
			zap.String("format", c.Format),
			zap.String("path", c.Path))

		root, err := l.attempt(ctx, c, onProgress)
		if err == nil {
			l.log.Info("candidate loaded", zap.String("candidate", c.Label()))
			return root, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		l.log.Warn("candidate failed",
			zap.String("candidate", c.Label()),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("candidate %s: %w", c.Label(), err))
	}
	return nil, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}

type attemptResult struct {
	root *model.Node
	err  error
}

// attempt races one fetch+decode against the per-candidate deadline. Once
// the race is settled, progress from the abandoned attempt is dropped.
func (l *Loader) attempt(parent context.Context, c Candidate, onProgress ProgressFunc) (*model.Node, error) {
	ctx, cancel := context.WithTimeout(parent, l.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		settled bool
	)
	settle := func() {
		mu.Lock()
		settled = true
		mu.Unlock()
	}
	report := func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		if settled || onProgress == nil {
			return
		}
		onProgress(c, p)
	}

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- attemptResult{err: fmt.Errorf("%w: %v", ErrDecoderPanic, v)}
			}
		}()
		root, err := l.fetchDecode(ctx, c, report)
		done <- attemptResult{root: root, err: err}
	}()

	select {
	case r := <-done:
		settle()
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", ErrTimeout, l.timeout, r.err)
		}
		return r.root, r.err
	case <-ctx.Done():
		settle()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, l.timeout)
		}
		return nil, ctx.Err()
	}
}

func (l *Loader) fetchDecode(ctx context.Context, c Candidate, report func(Progress)) (*model.Node, error) {
	switch c.Format {
	case FormatGLB, FormatGLTF, FormatOBJ:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, c.Format)
	}

	data, err := l.fetcher.Fetch(ctx, c.Path, report)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.Format == FormatOBJ {
		return decodeOBJ(data)
	}
	return decodeGLTF(ctx, data, l.meshes)
}

// Preload prepares the mesh decoder ahead of the first compressed primitive.
func (l *Loader) Preload() error {
	if p, ok := l.meshes.(interface{ Preload() error }); ok {
		return p.Preload()
	}
	return nil
}

// Dispose releases the mesh decoder, if any.
func (l *Loader) Dispose() error {
	if l.meshes == nil {
		return nil
	}
	return l.meshes.Dispose()
}
