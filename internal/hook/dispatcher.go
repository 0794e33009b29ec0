package hook

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/shapesketch/internal/store"
)

// Dispatcher fans detections out to matching hooks in the background.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	return &Dispatcher{manager: m, executor: e}
}

// Dispatch starts every hook matching d.Label and returns immediately.
// Its signature fits app.DetectFunc.
func (d *Dispatcher) Dispatch(det store.Detection) {
	ev := Event{
		ID:        det.ID,
		Label:     string(det.Label),
		Vertices:  det.Vertices,
		Area:      det.Area,
		Source:    string(det.Source),
		ImagePath: det.ImagePath,
	}

	for _, h := range d.manager.Matching(ev.Label) {
		d.wg.Add(1)
		go func(h *Hook) {
			defer d.wg.Done()
			resp, err := d.executor.Execute(context.Background(), h, ev)
			if err != nil {
				log.Printf("hook %s: %v", h.Manifest.Name, err)
				return
			}
			if !resp.Success {
				log.Printf("hook %s failed: %s", h.Manifest.Name, resp.Error)
			}
		}(h)
	}
}

// Wait blocks until every started hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
