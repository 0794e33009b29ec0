// Package testdata draws reference sketches for tests. Every sketch is a
// black BGR canvas with a closed outline in the default red ink.
package testdata

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/shape"
)

// Canvas dimensions used by every sketch.
const (
	Width  = 640
	Height = 480
)

// Stroke is the outline thickness in pixels.
const Stroke = 5

// Ink is the outline colour.
var Ink = color.RGBA{R: 255, A: 255}

// Sketch is a named reference drawing and the label it should receive.
type Sketch struct {
	Name string
	Want shape.Label
	Draw func(*gocv.Mat)
}

// Sketches returns one drawing per shape family.
func Sketches() []Sketch {
	return []Sketch{
		{Name: "triangle", Want: shape.Triangle, Draw: DrawTriangle},
		{Name: "square", Want: shape.Square, Draw: DrawSquare},
		{Name: "rectangle", Want: shape.Rectangle, Draw: DrawRectangle},
		{Name: "circle", Want: shape.Circle, Draw: DrawCircle},
		{Name: "arrow", Want: shape.Arrow, Draw: DrawArrow},
	}
}

// Blank returns an all-black canvas. The caller owns the Mat.
func Blank() gocv.Mat {
	return gocv.NewMatWithSize(Height, Width, gocv.MatTypeCV8UC3)
}

// Load draws the named sketch on a fresh canvas. The caller owns the Mat.
func Load(name string) (gocv.Mat, error) {
	for _, s := range Sketches() {
		if s.Name == name {
			mat := Blank()
			s.Draw(&mat)
			return mat, nil
		}
	}
	return gocv.NewMat(), fmt.Errorf("load sketch %s: unknown sketch", name)
}

// EncodePNG draws the named sketch and returns it as PNG bytes.
func EncodePNG(name string) ([]byte, error) {
	mat, err := Load(name)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode sketch %s: %w", name, err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// DrawTriangle draws an isosceles triangle.
func DrawTriangle(m *gocv.Mat) {
	polyline(m, []image.Point{{320, 100}, {170, 380}, {470, 380}})
}

// DrawSquare draws a 200x200 square.
func DrawSquare(m *gocv.Mat) {
	polyline(m, []image.Point{{220, 140}, {420, 140}, {420, 340}, {220, 340}})
}

// DrawRectangle draws a 300x150 rectangle.
func DrawRectangle(m *gocv.Mat) {
	polyline(m, []image.Point{{170, 165}, {470, 165}, {470, 315}, {170, 315}})
}

// DrawCircle draws a circle of radius 100.
func DrawCircle(m *gocv.Mat) {
	gocv.Circle(m, image.Pt(320, 240), 100, Ink, Stroke)
}

// DrawArrow draws a right-pointing block arrow with two sharp notches where
// the shaft meets the head.
func DrawArrow(m *gocv.Mat) {
	polyline(m, []image.Point{
		{100, 220}, {280, 220}, {250, 130},
		{400, 250},
		{250, 370}, {280, 280}, {100, 280},
	})
}

func polyline(m *gocv.Mat, pts []image.Point) {
	for i := range pts {
		gocv.Line(m, pts[i], pts[(i+1)%len(pts)], Ink, Stroke)
	}
}
