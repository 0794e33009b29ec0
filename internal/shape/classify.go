package shape

import "image"

// Classifier decides a Label from a simplified polygon and the contour it
// was simplified from. The zero value is not useful; use New or Default.
type Classifier struct {
	cfg Config
}

// New creates a Classifier with the given thresholds.
func New(cfg Config) Classifier {
	return Classifier{cfg: cfg}
}

// Default returns a Classifier using DefaultConfig.
func Default() Classifier {
	return New(DefaultConfig())
}

// Config returns the thresholds in use.
func (c Classifier) Config() Config {
	return c.cfg
}

// Classify dispatches on the vertex count of polygon:
//
//	3      Triangle
//	4      Square if the bounding box aspect ratio is inside the square band, else Rectangle
//	>4     Arrow if contour shows enough sharp concave notches, else Circle
//	<3     Unknown
//
// contour is only consulted for polygons with more than four vertices.
func (c Classifier) Classify(polygon, contour []image.Point) Label {
	switch n := len(polygon); {
	case n == 3:
		return Triangle
	case n == 4:
		ratio := AspectRatio(polygon)
		if ratio >= c.cfg.SquareMinRatio && ratio <= c.cfg.SquareMaxRatio {
			return Square
		}
		return Rectangle
	case n > 4:
		if c.IsArrow(contour) {
			return Arrow
		}
		return Circle
	default:
		return Unknown
	}
}

// Classify classifies with DefaultConfig.
func Classify(polygon, contour []image.Point) Label {
	return Default().Classify(polygon, contour)
}

// BoundingRect returns the smallest axis-aligned rectangle containing every
// point. Max is exclusive, so a single point yields a 1x1 rectangle.
func BoundingRect(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: points[0], Max: points[0].Add(image.Pt(1, 1))}
	for _, p := range points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X+1 > r.Max.X {
			r.Max.X = p.X + 1
		}
		if p.Y+1 > r.Max.Y {
			r.Max.Y = p.Y + 1
		}
	}
	return r
}

// AspectRatio returns width/height of the bounding rectangle of points.
func AspectRatio(points []image.Point) float64 {
	r := BoundingRect(points)
	if r.Dy() == 0 {
		return 0
	}
	return float64(r.Dx()) / float64(r.Dy())
}
