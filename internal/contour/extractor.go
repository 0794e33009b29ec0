// Package contour turns a sketch canvas into its dominant closed boundary
// and a simplified polygon of that boundary, using GoCV (OpenCV).
package contour

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Config holds the edge detection and simplification parameters.
type Config struct {
	// BlurKernel is the side of the square Gaussian kernel. Must be odd.
	BlurKernel int

	// CannyLow and CannyHigh are the hysteresis thresholds of the edge detector.
	CannyLow  float32
	CannyHigh float32

	// EpsilonFactor is the simplification tolerance as a fraction of the
	// contour perimeter.
	EpsilonFactor float64
}

// DefaultConfig returns the parameters tuned for 5px hand-drawn strokes.
func DefaultConfig() Config {
	return Config{
		BlurKernel:    5,
		CannyLow:      50,
		CannyHigh:     150,
		EpsilonFactor: 0.04,
	}
}

// Validate reports whether the parameters are usable. NaN and infinite
// values are rejected.
func (c Config) Validate() error {
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be a positive odd number, got %d", c.BlurKernel)
	}
	if !(c.CannyLow >= 0) || !(c.CannyHigh >= c.CannyLow) || math.IsInf(float64(c.CannyHigh), 1) {
		return fmt.Errorf("invalid canny thresholds %g/%g", c.CannyLow, c.CannyHigh)
	}
	if !(c.EpsilonFactor > 0 && c.EpsilonFactor < 1) {
		return fmt.Errorf("epsilon factor must be in (0, 1), got %g", c.EpsilonFactor)
	}
	return nil
}

// Result is the dominant boundary of a canvas.
type Result struct {
	// Contour is the boundary at pixel resolution.
	Contour []image.Point
	// Polygon is Contour simplified within EpsilonFactor of its perimeter.
	Polygon []image.Point
	// Area is the area enclosed by Contour.
	Area float64
	// Perimeter is the closed arc length of Contour.
	Perimeter float64
}

// Extractor finds the largest closed boundary on a canvas.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an Extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Config returns the parameters in use.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract finds the closed boundary with the largest area on canvas and
// simplifies it. It returns false when canvas is empty or holds no boundary.
// canvas is only read.
//
// Pipeline:
//  1. Reduce to a single gray channel
//  2. Gaussian blur (BlurKernel x BlurKernel)
//  3. Canny edges (CannyLow, CannyHigh)
//  4. Find all contours with their full hierarchy
//  5. Keep the contour with the largest area
//  6. Simplify with tolerance EpsilonFactor * perimeter
func (e *Extractor) Extract(canvas gocv.Mat) (Result, bool) {
	if canvas.Empty() {
		return Result{}, false
	}

	gray := gocv.NewMat()
	defer gray.Close()
	toGray(canvas, &gray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := e.cfg.BlurKernel
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, e.cfg.CannyLow, e.cfg.CannyHigh)

	contours := gocv.FindContours(edges, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return Result{}, false
	}

	best, bestArea := 0, -1.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best, bestArea = i, area
		}
	}

	primary := contours.At(best)
	perimeter := gocv.ArcLength(primary, true)

	approx := gocv.ApproxPolyDP(primary, e.cfg.EpsilonFactor*perimeter, true)
	defer approx.Close()

	return Result{
		Contour:   primary.ToPoints(),
		Polygon:   approx.ToPoints(),
		Area:      bestArea,
		Perimeter: perimeter,
	}, true
}

// Simplify reduces a closed contour with a Douglas-Peucker tolerance of
// factor times its perimeter.
func Simplify(contour []image.Point, factor float64) []image.Point {
	if len(contour) == 0 {
		return nil
	}

	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()

	approx := gocv.ApproxPolyDP(pv, factor*gocv.ArcLength(pv, true), true)
	defer approx.Close()

	return approx.ToPoints()
}

// toGray writes a single-channel copy of src into dst.
func toGray(src gocv.Mat, dst *gocv.Mat) {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
	case 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	}
}
