package canvas

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Mode selects what a pen stroke does to the canvas.
type Mode int

const (
	// ModeDraw lays down ink.
	ModeDraw Mode = iota
	// ModeErase paints background.
	ModeErase
)

// String returns "draw" or "erase".
func (m Mode) String() string {
	if m == ModeErase {
		return "erase"
	}
	return "draw"
}

// ParseMode accepts "draw" or "erase".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "draw":
		return ModeDraw, nil
	case "erase":
		return ModeErase, nil
	}
	return ModeDraw, fmt.Errorf("unknown pen mode %q", s)
}

// PenConfig holds the stroke appearance.
type PenConfig struct {
	// InkColor is a "#RRGGBB" hex string.
	InkColor       string
	InkThickness   int
	EraseThickness int
}

// DefaultPenConfig returns red 5px ink and a 20px eraser.
func DefaultPenConfig() PenConfig {
	return PenConfig{
		InkColor:       "#FF0000",
		InkThickness:   5,
		EraseThickness: 20,
	}
}

// Validate reports whether the pen settings are usable.
func (c PenConfig) Validate() error {
	if _, err := ParseColor(c.InkColor); err != nil {
		return err
	}
	if c.InkThickness < 1 || c.EraseThickness < 1 {
		return fmt.Errorf("pen thickness must be positive, got ink=%d erase=%d", c.InkThickness, c.EraseThickness)
	}
	return nil
}

var background = color.RGBA{A: 255}

// Pen turns pointer down/move/up events into line segments on a Canvas.
// It is safe for concurrent use.
type Pen struct {
	mu      sync.Mutex
	cfg     PenConfig
	ink     color.RGBA
	mode    Mode
	drawing bool
	last    image.Point
}

// NewPen creates a pen in draw mode.
func NewPen(cfg PenConfig) (*Pen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ink, _ := ParseColor(cfg.InkColor)
	return &Pen{cfg: cfg, ink: ink}, nil
}

// Mode returns the current mode.
func (p *Pen) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetMode switches to m.
func (p *Pen) SetMode(m Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
}

// Toggle flips between draw and erase and returns the new mode.
func (p *Pen) Toggle() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == ModeDraw {
		p.mode = ModeErase
	} else {
		p.mode = ModeDraw
	}
	return p.mode
}

// Drawing reports whether the pen is down.
func (p *Pen) Drawing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drawing
}

// Down starts a stroke at pt.
func (p *Pen) Down(pt image.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawing = true
	p.last = pt
}

// Move extends the current stroke to pt. It does nothing while the pen is up.
func (p *Pen) Move(c *Canvas, pt image.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing {
		return
	}
	p.segment(c, pt)
}

// Up finishes the current stroke with a final segment to pt.
func (p *Pen) Up(c *Canvas, pt image.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing {
		return
	}
	p.segment(c, pt)
	p.drawing = false
}

// Stroke draws a whole polyline as one Down/Move.../Up sequence.
func (p *Pen) Stroke(c *Canvas, pts []image.Point) {
	if len(pts) == 0 {
		return
	}
	p.Down(pts[0])
	for _, pt := range pts[1:] {
		p.Move(c, pt)
	}
	p.Up(c, pts[len(pts)-1])
}

func (p *Pen) segment(c *Canvas, pt image.Point) {
	if p.mode == ModeErase {
		c.Line(p.last, pt, background, p.cfg.EraseThickness)
	} else {
		c.Line(p.last, pt, p.ink, p.cfg.InkThickness)
	}
	p.last = pt
}
