package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"
)

// Start opens the camera and begins the overlay loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if a.camera == nil {
		return ErrNoCamera
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	fps := a.config.FPS
	if fps <= 0 {
		fps = a.camera.FPS()
	}
	a.camera.SetFPS(fps)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.run(fps, a.stopCh, a.doneCh)

	log.Printf("Overlay loop started at %d fps", fps)
	return nil
}

// Stop halts the loop and releases the camera, detector and canvas.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if a.camera != nil {
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	if a.canvas != nil {
		a.canvas.Close()
		a.canvas = nil
	}
	a.frame.Close()
	a.frame = gocv.NewMat()
	a.hasFrame = false
	a.overlay = nil

	log.Println("Overlay loop stopped")
}

// Running reports whether the loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// run reads frames at fps until stop is closed.
func (a *App) run(fps int, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				if !failing {
					log.Printf("Error reading frame: %v", err)
					failing = true
				}
				continue
			}
			failing = false

			if err := a.ProcessFrame(*frame); err != nil {
				log.Printf("Error processing frame: %v", err)
			}
			frame.Close()
		}
	}
}

// ProcessFrame sizes the canvas from frame on first use, keeps a copy of
// frame for saving and refreshes the blended overlay.
func (a *App) ProcessFrame(frame gocv.Mat) error {
	if frame.Empty() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.initCanvasLocked(frame.Cols(), frame.Rows()); err != nil {
		return err
	}

	frame.CopyTo(&a.frame)
	a.hasFrame = true

	blended := gocv.NewMat()
	defer blended.Close()
	if err := a.canvas.BlendInto(frame, &blended); err != nil {
		return err
	}

	data, err := encodeJPEG(blended)
	if err != nil {
		return err
	}
	a.overlay = data
	return nil
}
