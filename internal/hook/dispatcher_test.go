package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/shapesketch/internal/shape"
	"github.com/ayusman/shapesketch/internal/store"
)

func TestDispatcher_Dispatch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()
	script := `#!/bin/sh
cat > received.json
echo '{"success":true}'
`
	for _, m := range []Manifest{
		{Name: "arrows", Executable: "run.sh", Labels: []string{"Arrow"}},
		{Name: "squares", Executable: "run.sh", Labels: []string{"Square"}},
	} {
		dir := writeManifest(t, tmpDir, m)
		if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
			t.Fatalf("failed to write script: %v", err)
		}
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	d := NewDispatcher(manager, NewExecutor(5*time.Second))
	d.Dispatch(store.Detection{ID: "x1", Label: shape.Arrow, Vertices: 7, Source: store.SourceCanvas})
	d.Wait()

	data, err := os.ReadFile(filepath.Join(tmpDir, "arrows", "received.json"))
	if err != nil {
		t.Fatalf("arrow hook did not run: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if ev.ID != "x1" || ev.Label != "Arrow" || ev.Source != "canvas" {
		t.Errorf("event = %+v", ev)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "squares", "received.json")); !os.IsNotExist(err) {
		t.Error("square hook ran for an arrow")
	}
}
