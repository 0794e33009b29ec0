package canvas

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"
)

// InkThreshold is the gray level above which a pixel counts as ink.
const InkThreshold = 10

// InkCoverage returns the percentage of pixels in m that are not background.
//
// Algorithm:
// 1. Convert to grayscale
// 2. Binary threshold at InkThreshold
// 3. Count non-zero pixels / total pixels
func InkCoverage(m gocv.Mat) float64 {
	if m.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if m.Channels() > 1 {
		gocv.CvtColor(m, &gray, gocv.ColorBGRToGray)
	} else {
		m.CopyTo(&gray)
	}

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, InkThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()

	return float64(nonZero) / float64(total) * 100.0
}

// ParseColor parses a "#RRGGBB" hex string into an opaque colour.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse ink colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
