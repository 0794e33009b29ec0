package tray

import (
	"testing"

	"github.com/ayusman/shapesketch/internal/canvas"
	"github.com/ayusman/shapesketch/internal/shape"
)

func TestTitles(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{modeTitle(canvas.ModeDraw), "✎ Draw"},
		{modeTitle(canvas.ModeErase), "⌫ Erase"},
		{lastTitle(""), "Last: none"},
		{lastTitle(shape.Arrow), "Last: Arrow"},
		{lastTitle(shape.NoShape), "Last: No shape detected"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("title = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestTray_StateBeforeRun(t *testing.T) {
	tr := New()
	if tr.Mode() != canvas.ModeDraw {
		t.Errorf("Mode() = %v, want draw", tr.Mode())
	}

	tr.SetMode(canvas.ModeErase)
	tr.SetLastLabel(shape.Circle)

	if tr.Mode() != canvas.ModeErase {
		t.Errorf("Mode() = %v, want erase", tr.Mode())
	}
	if tr.LastLabel() != shape.Circle {
		t.Errorf("LastLabel() = %v, want Circle", tr.LastLabel())
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	var saved, cleared int
	tr.OnSave(func() { saved++ })
	tr.OnClear(func() { cleared++ })
	tr.OnToggleMode(func() canvas.Mode { return canvas.ModeErase })

	tr.run(func(t *Tray) func() { return t.onSave })
	tr.run(func(t *Tray) func() { return t.onClear })
	tr.run(func(t *Tray) func() { return t.onClear })
	tr.handleToggleMode()

	if saved != 1 || cleared != 2 {
		t.Errorf("saved = %d, cleared = %d, want 1 and 2", saved, cleared)
	}
	if tr.Mode() != canvas.ModeErase {
		t.Errorf("Mode() = %v, want erase after toggle", tr.Mode())
	}

	// Unset callbacks are ignored.
	tr.run(func(t *Tray) func() { return t.onViewer })
}
