package renderer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/intro-viewer/internal/engine/model"
)

func TestRenderSize(t *testing.T) {
	tests := []struct {
		w, h  int
		ratio float32
		wantW int32
		wantH int32
	}{
		{800, 600, 1, 800, 600},
		{800, 600, 1.5, 1200, 900},
		{0, 0, 1.5, 1, 1},
		{333, 111, 1.5, 500, 167},
	}
	for _, tt := range tests {
		w, h := renderSize(tt.w, tt.h, tt.ratio)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("renderSize(%d, %d, %v) = %d, %d; want %d, %d",
				tt.w, tt.h, tt.ratio, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestCullState(t *testing.T) {
	if cull, _ := cullState(model.DoubleSide); cull {
		t.Error("double-sided material culls")
	}
	if cull, face := cullState(model.FrontSide); !cull || face != gl.BACK {
		t.Error("front-sided material should cull back faces")
	}
	if cull, face := cullState(model.BackSide); !cull || face != gl.FRONT {
		t.Error("back-sided material should cull front faces")
	}
}

func TestInterleaveFillsMissingChannels(t *testing.T) {
	geom := &model.Geometry{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
	v := interleave(geom)
	if len(v) != 3*vertexStride {
		t.Fatalf("len = %d, want %d", len(v), 3*vertexStride)
	}
	// Counter-clockwise triangle in XY faces +Z.
	if v[5] != 1 {
		t.Errorf("normal z = %v, want 1", v[5])
	}
	if v[6] != 1 || v[9] != 1 {
		t.Errorf("default color = %v, want white", v[6:10])
	}
}

func TestInterleaveKeepsColors(t *testing.T) {
	geom := &model.Geometry{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		Colors:    [][4]float32{{0.5, 0, 0, 1}, {0, 0.5, 0, 1}, {0, 0, 0.5, 1}},
	}
	v := interleave(geom)
	if v[4] != 1 {
		t.Errorf("normal y = %v, want 1 from source", v[4])
	}
	if v[vertexStride+7] != 0.5 {
		t.Errorf("second vertex green = %v, want 0.5", v[vertexStride+7])
	}
}

func TestVertexNormalsIndexed(t *testing.T) {
	geom := &model.Geometry{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}, {5, 5, 5}},
		Indices:   []uint32{0, 1, 2, 0, 1, 9},
	}
	n := vertexNormals(geom)
	if n[0] != [3]float32{0, 1, 0} {
		t.Errorf("normal = %v, want +Y", n[0])
	}
	// Unreferenced vertex falls back to +Y.
	if n[3] != [3]float32{0, 1, 0} {
		t.Errorf("unused vertex normal = %v", n[3])
	}
}

func TestSpotCone(t *testing.T) {
	coneCos, penumbraCos := spotCone(math32.Pi*0.082, 0.06)
	if coneCos >= penumbraCos {
		t.Errorf("cone %v should be wider than penumbra edge %v", coneCos, penumbraCos)
	}
	if c, p := spotCone(0.5, 0); c != p {
		t.Errorf("zero penumbra gives %v and %v", c, p)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Exposure != 1.28 {
		t.Errorf("exposure = %v", cfg.Exposure)
	}
	if cfg.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("clear color = %v", cfg.ClearColor)
	}
}
