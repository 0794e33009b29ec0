package canvas

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Overlay weights.
const (
	FrameWeight = 0.7
	InkWeight   = 0.3
)

// Blend writes frame*FrameWeight + ink*InkWeight into dst. Both inputs must
// have the same size and type.
func Blend(frame, ink gocv.Mat, dst *gocv.Mat) error {
	if frame.Empty() || ink.Empty() {
		return fmt.Errorf("blend: empty input")
	}
	if frame.Rows() != ink.Rows() || frame.Cols() != ink.Cols() || frame.Type() != ink.Type() {
		return fmt.Errorf("blend: frame %dx%d does not match canvas %dx%d",
			frame.Cols(), frame.Rows(), ink.Cols(), ink.Rows())
	}
	gocv.AddWeighted(frame, FrameWeight, ink, InkWeight, 0, dst)
	return nil
}
