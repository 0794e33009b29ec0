// Package app runs a sketch session: it overlays the ink canvas on the live
// camera feed and classifies the sketch on demand.
package app

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/canvas"
	"github.com/ayusman/shapesketch/internal/capture"
	"github.com/ayusman/shapesketch/internal/detector"
	"github.com/ayusman/shapesketch/internal/shape"
	"github.com/ayusman/shapesketch/internal/store"
)

// SavedFrameName is the file written in SaveDir on every save.
const SavedFrameName = "annotated_frame.jpg"

// ErrNoCanvas is returned by canvas commands before the first frame has
// sized the canvas.
var ErrNoCanvas = errors.New("canvas not initialized")

// ErrNoCamera is returned by Start when no camera is configured.
var ErrNoCamera = errors.New("no camera configured")

// Config holds configuration options for the application.
type Config struct {
	// Store persists detections. Optional.
	Store *store.Store
	// Camera feeds the overlay loop. Optional; without it canvas size
	// must be set with InitCanvas.
	Camera capture.Camera
	// Detector classifies the canvas. Defaults to a ShapeDetector.
	Detector detector.Detector
	// SaveDir receives the annotated frame on save. Empty disables writing.
	SaveDir string
	// Pen sets stroke appearance. Zero value means defaults.
	Pen canvas.PenConfig
	// FPS is the overlay loop rate. Defaults to the camera rate.
	FPS int
}

// DetectFunc is called after every saved classification.
type DetectFunc func(store.Detection)

// ModeFunc is called with the pen mode after it changes.
type ModeFunc func(canvas.Mode)

// App is the sketch session.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	pen      *canvas.Pen

	mu            sync.RWMutex
	canvas        *canvas.Canvas
	frame         gocv.Mat
	hasFrame      bool
	overlay       []byte
	lastLabel     shape.Label
	callbacks     []DetectFunc
	modeCallbacks []ModeFunc
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// New creates an App. It does not open the camera; call Start for that.
func New(config Config) (*App, error) {
	if config.Pen == (canvas.PenConfig{}) {
		config.Pen = canvas.DefaultPenConfig()
	}
	pen, err := canvas.NewPen(config.Pen)
	if err != nil {
		return nil, fmt.Errorf("create pen: %w", err)
	}

	det := config.Detector
	if det == nil {
		det = detector.NewShapeDetector(detector.DefaultConfig())
	}

	return &App{
		config:   config,
		camera:   config.Camera,
		detector: det,
		pen:      pen,
		frame:    gocv.NewMat(),
	}, nil
}

// SetDetector replaces the detector. The previous one is closed.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	old := a.detector
	a.detector = d
	a.mu.Unlock()

	if old != nil && old != d {
		if err := old.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// Detector returns the current detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Reconfigure swaps in a detector built from det and a pen built from pen.
// The pen mode is preserved.
func (a *App) Reconfigure(det detector.Config, pen canvas.PenConfig) error {
	if err := det.Validate(); err != nil {
		return err
	}
	p, err := canvas.NewPen(pen)
	if err != nil {
		return err
	}

	a.mu.Lock()
	p.SetMode(a.pen.Mode())
	a.pen = p
	a.config.Pen = pen
	a.mu.Unlock()

	a.SetDetector(detector.NewShapeDetector(det))
	return nil
}

// Camera returns the configured camera, or nil.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// InitCanvas creates the canvas at the given size. An existing canvas of
// the same size is kept; one of a different size is replaced with a blank one.
func (a *App) InitCanvas(width, height int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initCanvasLocked(width, height)
}

func (a *App) initCanvasLocked(width, height int) error {
	if a.canvas != nil {
		if a.canvas.Size() == image.Pt(width, height) {
			return nil
		}
		log.Printf("Frame size changed to %dx%d, resetting canvas", width, height)
		a.canvas.Close()
		a.canvas = nil
	}

	c, err := canvas.New(width, height)
	if err != nil {
		return err
	}
	a.canvas = c
	return nil
}

// CanvasSize returns the canvas size, or false before it exists.
func (a *App) CanvasSize() (image.Point, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return image.Point{}, false
	}
	return a.canvas.Size(), true
}

// InkCoverage returns the inked percentage of the canvas.
func (a *App) InkCoverage() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return 0
	}
	return a.canvas.Coverage()
}

// Mode returns the pen mode.
func (a *App) Mode() canvas.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pen.Mode()
}

// SetMode sets the pen mode.
func (a *App) SetMode(m canvas.Mode) {
	a.mu.RLock()
	a.pen.SetMode(m)
	callbacks := a.modeCallbacks
	a.mu.RUnlock()

	notifyMode(callbacks, m)
}

// ToggleMode flips between draw and erase.
func (a *App) ToggleMode() canvas.Mode {
	a.mu.RLock()
	m := a.pen.Toggle()
	callbacks := a.modeCallbacks
	a.mu.RUnlock()

	log.Printf("Pen mode: %s", m)
	notifyMode(callbacks, m)
	return m
}

// OnModeChange registers fn to run after every SetMode or ToggleMode,
// whichever surface made the change.
func (a *App) OnModeChange(fn ModeFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.modeCallbacks = append(a.modeCallbacks, fn)
}

func notifyMode(callbacks []ModeFunc, m canvas.Mode) {
	for _, fn := range callbacks {
		fn(m)
	}
}

// PenDown starts a stroke at p.
func (a *App) PenDown(p image.Point) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return ErrNoCanvas
	}
	a.pen.Down(p)
	return nil
}

// PenMove extends the current stroke to p.
func (a *App) PenMove(p image.Point) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return ErrNoCanvas
	}
	a.pen.Move(a.canvas, p)
	return nil
}

// PenUp ends the current stroke at p.
func (a *App) PenUp(p image.Point) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return ErrNoCanvas
	}
	a.pen.Up(a.canvas, p)
	return nil
}

// Stroke draws a polyline in the current mode.
func (a *App) Stroke(pts []image.Point) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return ErrNoCanvas
	}
	a.pen.Stroke(a.canvas, pts)
	return nil
}

// Clear resets the canvas to background.
func (a *App) Clear() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.canvas == nil {
		return ErrNoCanvas
	}
	a.canvas.Clear()
	log.Println("Canvas cleared")
	return nil
}

// OnDetect registers fn to run after every recorded detection.
func (a *App) OnDetect(fn DetectFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// LastLabel returns the most recent recorded label, or "" before the first.
func (a *App) LastLabel() shape.Label {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastLabel
}

// ClassifyImage classifies an arbitrary image without recording it.
func (a *App) ClassifyImage(img gocv.Mat) detector.Detection {
	return a.Detector().Detect(img)
}

// Save writes the annotated frame, classifies the canvas and records the
// result.
func (a *App) Save() (*store.Detection, error) {
	a.mu.RLock()
	if a.canvas == nil {
		a.mu.RUnlock()
		return nil, ErrNoCanvas
	}

	imagePath, err := a.writeAnnotatedLocked()
	if err != nil {
		a.mu.RUnlock()
		return nil, err
	}

	snap := a.canvas.Snapshot()
	det := a.detector
	a.mu.RUnlock()
	defer snap.Close()

	result := det.Detect(snap)
	log.Printf("Detected shape: %s", result.Label)

	return a.Record(result, store.SourceCanvas, imagePath)
}

// writeAnnotatedLocked writes the blended overlay, or the bare canvas when
// no frame has been seen, to SaveDir.
func (a *App) writeAnnotatedLocked() (string, error) {
	if a.config.SaveDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(a.config.SaveDir, 0755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}

	out := gocv.NewMat()
	defer out.Close()

	if a.hasFrame {
		if err := a.canvas.BlendInto(a.frame, &out); err != nil {
			return "", err
		}
	} else {
		snap := a.canvas.Snapshot()
		defer snap.Close()
		snap.CopyTo(&out)
	}

	path := filepath.Join(a.config.SaveDir, SavedFrameName)
	if ok := gocv.IMWrite(path, out); !ok {
		return "", fmt.Errorf("write %s failed", path)
	}
	log.Printf("Saved: %s", path)
	return path, nil
}

// Record stores a classification result, updates the last label and runs
// the detect callbacks. Without a store the record is returned unsaved.
func (a *App) Record(result detector.Detection, source store.Source, imagePath string) (*store.Detection, error) {
	rec := &store.Detection{
		Label:     result.Label,
		Vertices:  result.Vertices,
		Area:      result.Area,
		Polygon:   result.Polygon,
		Source:    source,
		ImagePath: imagePath,
	}

	if a.config.Store != nil {
		if err := a.config.Store.Detections().Create(rec); err != nil {
			return nil, fmt.Errorf("save detection: %w", err)
		}
	}

	a.mu.Lock()
	a.lastLabel = rec.Label
	callbacks := make([]DetectFunc, len(a.callbacks))
	copy(callbacks, a.callbacks)
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn(*rec)
	}

	return rec, nil
}

// Overlay returns the latest blended frame as JPEG. Before any frame has
// been processed it encodes the bare canvas; with no canvas it returns nil.
func (a *App) Overlay() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.overlay != nil {
		return a.overlay
	}
	if a.canvas == nil {
		return nil
	}

	snap := a.canvas.Snapshot()
	defer snap.Close()
	data, err := encodeJPEG(snap)
	if err != nil {
		return nil
	}
	return data
}

func encodeJPEG(m gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, m)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
