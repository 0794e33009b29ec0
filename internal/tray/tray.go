// Package tray provides the system tray menu for a sketch session.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/shapesketch/internal/canvas"
	"github.com/ayusman/shapesketch/internal/shape"
)

// Tray is the system tray menu.
type Tray struct {
	onToggleMode func() canvas.Mode
	onSave       func()
	onClear      func()
	onViewer     func()
	onQuit       func()
	mode         canvas.Mode
	lastLabel    shape.Label
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuMode *systray.MenuItem
	menuLast *systray.MenuItem
}

// New creates a Tray in draw mode.
func New() *Tray {
	return &Tray{
		mode: canvas.ModeDraw,
	}
}

// OnToggleMode sets the callback run when the mode item is clicked. It
// returns the mode now in effect.
func (t *Tray) OnToggleMode(fn func() canvas.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggleMode = fn
}

// OnSave sets the callback for "Save & Classify".
func (t *Tray) OnSave(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSave = fn
}

// OnClear sets the callback for "Clear Canvas".
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnViewer sets the callback for "Open Viewer...".
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("ShapeSketch")
	systray.SetTooltip("ShapeSketch sketch classifier")

	t.mu.Lock()
	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Switch between drawing and erasing")
	systray.AddSeparator()

	menuSave := systray.AddMenuItem("Save & Classify", "Save the annotated frame and classify the sketch")
	menuClear := systray.AddMenuItem("Clear Canvas", "Erase the whole sketch")
	systray.AddSeparator()

	t.menuLast = systray.AddMenuItem(lastTitle(t.lastLabel), "Last classification")
	t.menuLast.Disable()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the live overlay in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit ShapeSketch")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuMode.ClickedCh:
				t.handleToggleMode()
			case <-menuSave.ClickedCh:
				t.run(func(t *Tray) func() { return t.onSave })
			case <-menuClear.ClickedCh:
				t.run(func(t *Tray) func() { return t.onClear })
			case <-menuViewer.ClickedCh:
				t.run(func(t *Tray) func() { return t.onViewer })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// run invokes the callback chosen by pick outside the lock.
func (t *Tray) run(pick func(*Tray) func()) {
	t.mu.RLock()
	callback := pick(t)
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleToggleMode() {
	t.mu.RLock()
	callback := t.onToggleMode
	t.mu.RUnlock()

	if callback == nil {
		return
	}
	t.SetMode(callback())
}

func (t *Tray) handleQuit() {
	t.run(func(t *Tray) func() { return t.onQuit })
	systray.Quit()
}

// SetMode updates the mode item. Safe to call before Run.
func (t *Tray) SetMode(m canvas.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = m
	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(m))
	}
}

// Mode returns the mode shown in the menu.
func (t *Tray) Mode() canvas.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// SetLastLabel updates the last classification display in the menu.
func (t *Tray) SetLastLabel(label shape.Label) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastLabel = label
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(label))
	}
}

// LastLabel returns the label shown in the menu.
func (t *Tray) LastLabel() shape.Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastLabel
}

func modeTitle(m canvas.Mode) string {
	if m == canvas.ModeErase {
		return "⌫ Erase"
	}
	return "✎ Draw"
}

func lastTitle(label shape.Label) string {
	if label == "" {
		return "Last: none"
	}
	return "Last: " + string(label)
}
