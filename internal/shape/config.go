package shape

import (
	"fmt"
	"math"
)

// Config holds the classification thresholds.
type Config struct {
	// SquareMinRatio and SquareMaxRatio bound the width/height ratio of a
	// four-vertex polygon that is still reported as a square.
	SquareMinRatio float64
	SquareMaxRatio float64

	// SharpAngle is the largest notch angle, in degrees, counted as sharp.
	SharpAngle float64

	// ArrowSharpDefects is the number of sharp notches that makes a
	// many-sided outline an arrow rather than a circle.
	ArrowSharpDefects int
}

// DefaultConfig returns the thresholds tuned for hand-drawn strokes.
func DefaultConfig() Config {
	return Config{
		SquareMinRatio:    0.95,
		SquareMaxRatio:    1.05,
		SharpAngle:        90,
		ArrowSharpDefects: 2,
	}
}

// Validate reports whether the thresholds are usable. NaN and infinite
// values are rejected.
func (c Config) Validate() error {
	if !(c.SquareMinRatio > 0) || !(c.SquareMaxRatio >= c.SquareMinRatio) || math.IsInf(c.SquareMaxRatio, 1) {
		return fmt.Errorf("invalid square ratio band [%g, %g]", c.SquareMinRatio, c.SquareMaxRatio)
	}
	if !(c.SharpAngle > 0 && c.SharpAngle <= 180) {
		return fmt.Errorf("sharp angle must be in (0, 180], got %g", c.SharpAngle)
	}
	if c.ArrowSharpDefects < 1 {
		return fmt.Errorf("arrow sharp defects must be at least 1, got %d", c.ArrowSharpDefects)
	}
	return nil
}
