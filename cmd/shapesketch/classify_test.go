package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/shapesketch/internal/detector"
	"github.com/ayusman/shapesketch/internal/shape"
	"github.com/ayusman/shapesketch/internal/store"
	"github.com/ayusman/shapesketch/testdata"
)

func writeSketch(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := testdata.EncodePNG(name)
	if err != nil {
		t.Fatalf("EncodePNG(%s) error = %v", name, err)
	}
	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestClassifyFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("requires OpenCV")
	}

	dir := t.TempDir()
	var paths []string
	want := map[string]shape.Label{}
	for _, sk := range testdata.Sketches() {
		p := writeSketch(t, dir, sk.Name)
		paths = append(paths, p)
		want[p] = sk.Want
	}

	var out, errOut bytes.Buffer
	det := detector.NewShapeDetector(detector.DefaultConfig())
	if err := classifyFiles(&out, &errOut, det, nil, paths); err != nil {
		t.Fatalf("classifyFiles() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(paths) {
		t.Fatalf("got %d lines, want %d", len(lines), len(paths))
	}
	for i, p := range paths {
		if lines[i] != p+": "+string(want[p]) {
			t.Errorf("line %d = %q, want %q", i, lines[i], p+": "+string(want[p]))
		}
	}
}

func TestClassifyFiles_UnreadableAndRecord(t *testing.T) {
	if testing.Short() {
		t.Skip("requires OpenCV")
	}

	dir := t.TempDir()
	good := writeSketch(t, dir, "triangle")
	missing := filepath.Join(dir, "missing.png")

	st, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	var out, errOut bytes.Buffer
	det := detector.NewMockDetector()
	det.SetDetection(detector.TriangleDetection())

	err = classifyFiles(&out, &errOut, det, storeRecorder(st), []string{missing, good})
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if !strings.Contains(err.Error(), "missing.png") {
		t.Errorf("error = %v, want it to name the file", err)
	}
	if out.String() != good+": Triangle\n" {
		t.Errorf("stdout = %q, want only the readable file", out.String())
	}
	if n := strings.Count(errOut.String(), "missing.png"); n != 1 {
		t.Errorf("stderr names the failure %d times, want once: %q", n, errOut.String())
	}

	list, err := st.Detections().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	if list[0].Source != store.SourceCLI || list[0].ImagePath != good {
		t.Errorf("stored %+v, want cli source with path %s", list[0], good)
	}
}

func TestClassifyFiles_RecordError(t *testing.T) {
	if testing.Short() {
		t.Skip("requires OpenCV")
	}

	good := writeSketch(t, t.TempDir(), "square")
	boom := errors.New("boom")

	var out, errOut bytes.Buffer
	err := classifyFiles(&out, &errOut, detector.NewMockDetector(), func(detector.Detection, string) error { return boom }, []string{good})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestClassifyConfig(t *testing.T) {
	t.Run("no database uses defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, st, err := classifyConfig(dir, false)
		if err != nil {
			t.Fatalf("classifyConfig() error = %v", err)
		}
		if st != nil {
			t.Error("expected no store without -record")
		}
		if cfg.Detector != detector.DefaultConfig() {
			t.Errorf("Detector = %+v, want defaults", cfg.Detector)
		}
		if _, err := os.Stat(filepath.Join(dir, "shapesketch.db")); !os.IsNotExist(err) {
			t.Error("database created without -record")
		}
	})

	t.Run("persisted settings apply without record", func(t *testing.T) {
		dir := t.TempDir()
		seed, err := store.New(filepath.Join(dir, "shapesketch.db"))
		if err != nil {
			t.Fatalf("store.New() error = %v", err)
		}
		if err := seed.Settings().Set("shape.arrow_sharp_defects", "3"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		seed.Close()

		for _, record := range []bool{false, true} {
			cfg, st, err := classifyConfig(dir, record)
			if err != nil {
				t.Fatalf("classifyConfig(record=%v) error = %v", record, err)
			}
			if got := cfg.Detector.Shape.ArrowSharpDefects; got != 3 {
				t.Errorf("record=%v: ArrowSharpDefects = %d, want 3", record, got)
			}
			if (st != nil) != record {
				t.Errorf("record=%v: store returned = %v", record, st != nil)
			}
			if st != nil {
				st.Close()
			}
		}
	})
}

func TestViewerURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080/"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000/"},
	}
	for _, tt := range tests {
		if got := viewerURL(tt.addr); got != tt.want {
			t.Errorf("viewerURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFindWebDir(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dataDir, "web"), 0755); err != nil {
		t.Fatal(err)
	}

	got := findWebDir(dataDir)
	if got == "" {
		t.Fatal("findWebDir() returned empty")
	}
	if filepath.Base(got) != "web" {
		t.Errorf("findWebDir() = %s", got)
	}
}
