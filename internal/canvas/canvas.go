// Package canvas holds the ink layer a user sketches on over the video feed,
// along with the pen state that turns pointer events into strokes.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

// Canvas is a frame-sized BGR ink layer. Background pixels are black.
// It is safe for concurrent use.
type Canvas struct {
	mu  sync.Mutex
	mat gocv.Mat
}

// New creates an all-background canvas of the given size.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return &Canvas{mat: gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)}, nil
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return image.Pt(c.mat.Cols(), c.mat.Rows())
}

// Clear resets every pixel to background.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Snapshot returns a copy of the ink layer. The caller must Close it.
func (c *Canvas) Snapshot() gocv.Mat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mat.Clone()
}

// Line draws a straight segment.
func (c *Canvas) Line(from, to image.Point, ink color.RGBA, thickness int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gocv.Line(&c.mat, from, to, ink, thickness)
}

// BlendInto writes frame overlaid with the ink layer into dst.
func (c *Canvas) BlendInto(frame gocv.Mat, dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Blend(frame, c.mat, dst)
}

// Coverage returns the percentage of inked pixels.
func (c *Canvas) Coverage() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return InkCoverage(c.mat)
}

// Close releases the underlying Mat.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mat.Close()
}
