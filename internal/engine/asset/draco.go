package asset

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/intro-viewer/internal/engine/model"
	"github.com/Faultbox/intro-viewer/internal/logger"
)

// DracoTool is the decoder executable expected inside the decoder directory.
const DracoTool = "draco_decoder"

// DracoDecoder expands KHR_draco_mesh_compression payloads with the
// reference draco_decoder tool from Dir. Each call works in a scratch
// directory created by Preload and removed by Dispose.
type DracoDecoder struct {
	Dir string

	mu      sync.Mutex
	tool    string
	scratch string
	seq     int
	log     *zap.Logger
}

// NewDracoDecoder returns a decoder rooted at dir. Call Preload before use.
func NewDracoDecoder(dir string) *DracoDecoder {
	return &DracoDecoder{Dir: dir, log: logger.Named("draco")}
}

// Preload locates the tool and prepares the scratch directory.
func (d *DracoDecoder) Preload() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scratch != "" {
		return nil
	}
	tool := filepath.Join(d.Dir, DracoTool)
	if _, err := os.Stat(tool); err != nil {
		return fmt.Errorf("draco decoder: %w", err)
	}
	scratch, err := os.MkdirTemp("", "intro-viewer-draco-")
	if err != nil {
		return fmt.Errorf("draco scratch dir: %w", err)
	}
	d.tool = tool
	d.scratch = scratch
	d.log.Debug("decoder ready", zap.String("tool", tool), zap.String("scratch", scratch))
	return nil
}

// DecodeMesh writes the payload to disk, runs the tool to produce OBJ and
// merges the resulting groups into one geometry.
func (d *DracoDecoder) DecodeMesh(ctx context.Context, compressed []byte) (*model.Geometry, error) {
	d.mu.Lock()
	if d.scratch == "" {
		d.mu.Unlock()
		return nil, ErrNoDecoder
	}
	d.seq++
	in := filepath.Join(d.scratch, fmt.Sprintf("mesh%d.drc", d.seq))
	out := filepath.Join(d.scratch, fmt.Sprintf("mesh%d.obj", d.seq))
	tool := d.tool
	d.mu.Unlock()

	defer os.Remove(in)
	defer os.Remove(out)

	if err := os.WriteFile(in, compressed, 0o600); err != nil {
		return nil, fmt.Errorf("write draco payload: %w", err)
	}
	cmd := exec.CommandContext(ctx, tool, "-i", in, "-o", out)
	if msg, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("draco decode: %w: %s", err, msg)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read decoded mesh: %w", err)
	}
	_, geoms, err := parseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("decoded mesh: %w", err)
	}
	return mergeGeometries(geoms), nil
}

// Dispose removes the scratch directory. Safe to call more than once.
func (d *DracoDecoder) Dispose() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scratch == "" {
		return nil
	}
	err := os.RemoveAll(d.scratch)
	d.scratch = ""
	return err
}

// mergeGeometries concatenates de-indexed geometries. Colors and normals
// survive only when every part has them.
func mergeGeometries(geoms []*model.Geometry) *model.Geometry {
	if len(geoms) == 1 {
		return geoms[0]
	}
	out := &model.Geometry{}
	withColors, withNormals := true, true
	for _, g := range geoms {
		withColors = withColors && g.HasColors()
		withNormals = withNormals && len(g.Normals) == len(g.Positions)
	}
	for _, g := range geoms {
		out.Positions = append(out.Positions, g.Positions...)
		if withColors {
			out.Colors = append(out.Colors, g.Colors...)
		}
		if withNormals {
			out.Normals = append(out.Normals, g.Normals...)
		}
	}
	return out
}
