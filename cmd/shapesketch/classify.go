package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/config"
	"github.com/ayusman/shapesketch/internal/detector"
	"github.com/ayusman/shapesketch/internal/store"
)

// recordFunc persists one classification.
type recordFunc func(result detector.Detection, path string) error

// runClassify implements "shapesketch classify [flags] <image...>" and
// returns the process exit code.
func runClassify(args []string) int {
	dataDir := config.Default().DataDir

	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	fs.StringVar(&dataDir, "data-dir", dataDir, "directory holding the database")
	record := fs.Bool("record", false, "store each result in the detection history")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: shapesketch classify [flags] <image...>")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, st, err := classifyConfig(dataDir, *record)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var rec recordFunc
	if st != nil {
		defer st.Close()
		rec = storeRecorder(st)
	}

	det := detector.NewShapeDetector(cfg.Detector)
	defer det.Close()

	if err := classifyFiles(os.Stdout, os.Stderr, det, rec, fs.Args()); err != nil {
		return 1
	}
	return 0
}

// classifyConfig returns the configuration for dataDir with any persisted
// settings applied. Settings are read whenever the database exists; the
// store is returned open only when record is set, creating it if needed.
func classifyConfig(dataDir string, record bool) (config.Config, *store.Store, error) {
	cfg := config.Default()
	cfg.DataDir = dataDir
	cfg.SaveDir = filepath.Join(dataDir, "frames")

	if record {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return cfg, nil, fmt.Errorf("create data directory: %w", err)
		}
	} else if _, err := os.Stat(cfg.DBPath()); err != nil {
		return cfg, nil, nil
	}

	st, err := openStore(&cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("open store: %w", err)
	}
	if !record {
		st.Close()
		return cfg, nil, nil
	}
	return cfg, st, nil
}

// classifyFiles prints "<file>: <label>" to out for each readable image and
// each failure to errOut. It keeps going past failures and returns the
// first one.
func classifyFiles(out, errOut io.Writer, det detector.Detector, rec recordFunc, paths []string) error {
	var firstErr error
	fail := func(err error) {
		fmt.Fprintln(errOut, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, path := range paths {
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			img.Close()
			fail(fmt.Errorf("%s: cannot read image", path))
			continue
		}

		result := det.Detect(img)
		img.Close()
		fmt.Fprintf(out, "%s: %s\n", path, result.Label)

		if rec != nil {
			if err := rec(result, path); err != nil {
				fail(fmt.Errorf("%s: record: %w", path, err))
			}
		}
	}
	return firstErr
}

func storeRecorder(st *store.Store) recordFunc {
	return func(result detector.Detection, path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		return st.Detections().Create(&store.Detection{
			Label:     result.Label,
			Vertices:  result.Vertices,
			Area:      result.Area,
			Polygon:   result.Polygon,
			Source:    store.SourceCLI,
			ImagePath: abs,
		})
	}
}
