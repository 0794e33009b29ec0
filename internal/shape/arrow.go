package shape

import (
	"image"
	"math"
)

// IsArrow reports whether contour has at least ArrowSharpDefects convexity
// defects whose notch angle is at most SharpAngle degrees. An arrow's head
// meets its shaft in two sharp notches; the pixel-level defects of a drawn
// circle are shallow and wide.
func (c Classifier) IsArrow(contour []image.Point) bool {
	hull := ConvexHullIndices(contour)
	if len(hull) < 3 {
		return false
	}

	defects := ConvexityDefects(contour, hull)
	if len(defects) == 0 {
		return false
	}

	sharp := 0
	for _, d := range defects {
		angle, ok := NotchAngle(contour[d.Start], contour[d.End], contour[d.Far])
		if !ok || !(angle <= c.cfg.SharpAngle) {
			continue
		}
		sharp++
		if sharp >= c.cfg.ArrowSharpDefects {
			return true
		}
	}
	return false
}

// IsArrow checks contour with DefaultConfig.
func IsArrow(contour []image.Point) bool {
	return Default().IsArrow(contour)
}

// NotchAngle returns the angle in degrees at far of the triangle
// (start, end, far), by the law of cosines. ok is false when far coincides
// with start or end and the angle is undefined.
func NotchAngle(start, end, far image.Point) (float64, bool) {
	a := dist(start, end)
	b := dist(start, far)
	c := dist(end, far)
	if b == 0 || c == 0 {
		return 0, false
	}
	return math.Acos((b*b+c*c-a*a)/(2*b*c)) * 180 / math.Pi, true
}

func dist(p, q image.Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}
