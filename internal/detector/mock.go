package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/shape"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu        sync.Mutex
	detection Detection
	calls     int
	closed    bool
}

// NewMockDetector creates a new MockDetector that reports shape.NoShape.
func NewMockDetector() *MockDetector {
	return &MockDetector{detection: Detection{Label: shape.NoShape}}
}

// SetDetection sets the detection that will be returned by Detect.
func (m *MockDetector) SetDetection(d Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detection = d
}

// SetLabel is shorthand for SetDetection with only a label.
func (m *MockDetector) SetLabel(label shape.Label) {
	m.SetDetection(Detection{Label: label})
}

// Detect returns the pre-configured detection.
func (m *MockDetector) Detect(canvas gocv.Mat) Detection {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.detection
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// TriangleDetection returns a preset Detection for a triangle sketch.
func TriangleDetection() Detection {
	return Detection{Label: shape.Triangle, Vertices: 3, Area: 42000}
}

// ArrowDetection returns a preset Detection for an arrow sketch.
func ArrowDetection() Detection {
	return Detection{Label: shape.Arrow, Vertices: 7, Area: 36000}
}
