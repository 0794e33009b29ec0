package detector

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/contour"
	"github.com/ayusman/shapesketch/internal/shape"
)

// Detector defines the interface for shape detection implementations.
type Detector interface {
	// Detect classifies the dominant sketch on canvas.
	// It always returns a Detection; an empty canvas yields shape.NoShape.
	Detect(canvas gocv.Mat) Detection

	// Close releases any resources held by the detector.
	Close() error
}

// Detection is the outcome of classifying one canvas.
type Detection struct {
	Label    shape.Label
	Vertices int
	Area     float64

	// Contour and Polygon are the extracted boundary and its simplification.
	// Both are nil when Label is shape.NoShape.
	Contour []image.Point
	Polygon []image.Point
}

// Config holds configuration options for shape detection.
type Config struct {
	Contour contour.Config
	Shape   shape.Config
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Contour: contour.DefaultConfig(),
		Shape:   shape.DefaultConfig(),
	}
}

// Validate checks both stages of the configuration.
func (c Config) Validate() error {
	if err := c.Contour.Validate(); err != nil {
		return err
	}
	return c.Shape.Validate()
}

// ShapeDetector implements Detector with the contour extractor followed by
// the shape classifier.
type ShapeDetector struct {
	extractor  *contour.Extractor
	classifier shape.Classifier
}

// NewShapeDetector creates a ShapeDetector from config.
func NewShapeDetector(config Config) *ShapeDetector {
	return &ShapeDetector{
		extractor:  contour.NewExtractor(config.Contour),
		classifier: shape.New(config.Shape),
	}
}

// Config returns the configuration in use.
func (d *ShapeDetector) Config() Config {
	return Config{
		Contour: d.extractor.Config(),
		Shape:   d.classifier.Config(),
	}
}

// Detect extracts the largest boundary on canvas and classifies it.
func (d *ShapeDetector) Detect(canvas gocv.Mat) Detection {
	res, ok := d.extractor.Extract(canvas)
	if !ok {
		return Detection{Label: shape.NoShape}
	}

	return Detection{
		Label:    d.classifier.Classify(res.Polygon, res.Contour),
		Vertices: len(res.Polygon),
		Area:     res.Area,
		Contour:  res.Contour,
		Polygon:  res.Polygon,
	}
}

// Close is a no-op; ShapeDetector holds no native resources between calls.
func (d *ShapeDetector) Close() error {
	return nil
}
