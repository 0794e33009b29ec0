package detector

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/shape"
	"github.com/ayusman/shapesketch/testdata"
)

// Compile-time interface checks.
var (
	_ Detector = (*ShapeDetector)(nil)
	_ Detector = (*MockDetector)(nil)
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Contour.EpsilonFactor != 0.04 {
		t.Errorf("EpsilonFactor = %f, want 0.04", cfg.Contour.EpsilonFactor)
	}
	if cfg.Shape.SharpAngle != 90 {
		t.Errorf("SharpAngle = %f, want 90", cfg.Shape.SharpAngle)
	}
}

func TestConfig_ValidateRejectsBadStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Contour.BlurKernel = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for even blur kernel")
	}

	cfg = DefaultConfig()
	cfg.Shape.ArrowSharpDefects = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero arrow defects")
	}
}

func TestShapeDetector_ConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shape.SquareMaxRatio = 1.1
	d := NewShapeDetector(cfg)
	defer d.Close()

	if got := d.Config(); got != cfg {
		t.Errorf("Config() = %+v, want %+v", got, cfg)
	}
}

func TestShapeDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewShapeDetector(DefaultConfig())
	defer d.Close()

	for _, s := range testdata.Sketches() {
		t.Run(s.Name, func(t *testing.T) {
			mat, err := testdata.Load(s.Name)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			defer mat.Close()

			got := d.Detect(mat)
			if got.Label != s.Want {
				t.Errorf("Label = %q, want %q", got.Label, s.Want)
			}
			if got.Vertices != len(got.Polygon) {
				t.Errorf("Vertices = %d, polygon has %d", got.Vertices, len(got.Polygon))
			}
		})
	}
}

func TestShapeDetector_NoShape(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewShapeDetector(DefaultConfig())
	defer d.Close()

	blank := testdata.Blank()
	defer blank.Close()

	got := d.Detect(blank)
	if got.Label != shape.NoShape {
		t.Errorf("Label = %q, want %q", got.Label, shape.NoShape)
	}
	if got.Vertices != 0 || got.Contour != nil || got.Polygon != nil {
		t.Errorf("expected empty geometry, got %+v", got)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if got := d.Detect(empty); got.Label != shape.NoShape {
		t.Errorf("empty Mat Label = %q, want %q", got.Label, shape.NoShape)
	}
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	var canvas gocv.Mat
	if got := m.Detect(canvas); got.Label != shape.NoShape {
		t.Errorf("default Label = %q, want %q", got.Label, shape.NoShape)
	}

	m.SetDetection(ArrowDetection())
	if got := m.Detect(canvas); got.Label != shape.Arrow || got.Vertices != 7 {
		t.Errorf("Detect() = %+v, want arrow with 7 vertices", got)
	}

	m.SetLabel(shape.Square)
	if got := m.Detect(canvas); got.Label != shape.Square {
		t.Errorf("Label = %q, want %q", got.Label, shape.Square)
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}
}
