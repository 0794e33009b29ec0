// Package config assembles the application configuration from defaults,
// command-line flags and settings persisted in the store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ayusman/shapesketch/internal/canvas"
	"github.com/ayusman/shapesketch/internal/detector"
)

// Config is the full application configuration.
type Config struct {
	Addr     string
	CameraID int
	DataDir  string
	SaveDir  string
	Tray     bool
	Detector detector.Config
	Pen      canvas.PenConfig
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	dataDir := ".shapesketch"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".shapesketch")
	}

	return Config{
		Addr:     ":8080",
		CameraID: 0,
		DataDir:  dataDir,
		SaveDir:  filepath.Join(dataDir, "frames"),
		Tray:     true,
		Detector: detector.DefaultConfig(),
		Pen:      canvas.DefaultPenConfig(),
	}
}

// DBPath returns the SQLite database location inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "shapesketch.db")
}

// Validate checks every tunable section.
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	return c.Pen.Validate()
}

type setting struct {
	get func(*Config) string
	set func(*Config, string) error
}

var settings = map[string]setting{
	"contour.blur_kernel": {
		get: func(c *Config) string { return strconv.Itoa(c.Detector.Contour.BlurKernel) },
		set: func(c *Config, v string) error { return setInt(&c.Detector.Contour.BlurKernel, v) },
	},
	"contour.canny_low": {
		get: func(c *Config) string { return formatFloat(float64(c.Detector.Contour.CannyLow)) },
		set: func(c *Config, v string) error { return setFloat32(&c.Detector.Contour.CannyLow, v) },
	},
	"contour.canny_high": {
		get: func(c *Config) string { return formatFloat(float64(c.Detector.Contour.CannyHigh)) },
		set: func(c *Config, v string) error { return setFloat32(&c.Detector.Contour.CannyHigh, v) },
	},
	"contour.epsilon_factor": {
		get: func(c *Config) string { return formatFloat(c.Detector.Contour.EpsilonFactor) },
		set: func(c *Config, v string) error { return setFloat(&c.Detector.Contour.EpsilonFactor, v) },
	},
	"shape.square_min_ratio": {
		get: func(c *Config) string { return formatFloat(c.Detector.Shape.SquareMinRatio) },
		set: func(c *Config, v string) error { return setFloat(&c.Detector.Shape.SquareMinRatio, v) },
	},
	"shape.square_max_ratio": {
		get: func(c *Config) string { return formatFloat(c.Detector.Shape.SquareMaxRatio) },
		set: func(c *Config, v string) error { return setFloat(&c.Detector.Shape.SquareMaxRatio, v) },
	},
	"shape.sharp_angle": {
		get: func(c *Config) string { return formatFloat(c.Detector.Shape.SharpAngle) },
		set: func(c *Config, v string) error { return setFloat(&c.Detector.Shape.SharpAngle, v) },
	},
	"shape.arrow_sharp_defects": {
		get: func(c *Config) string { return strconv.Itoa(c.Detector.Shape.ArrowSharpDefects) },
		set: func(c *Config, v string) error { return setInt(&c.Detector.Shape.ArrowSharpDefects, v) },
	},
	"pen.ink_color": {
		get: func(c *Config) string { return c.Pen.InkColor },
		set: func(c *Config, v string) error {
			if _, err := canvas.ParseColor(v); err != nil {
				return err
			}
			c.Pen.InkColor = v
			return nil
		},
	},
	"pen.ink_thickness": {
		get: func(c *Config) string { return strconv.Itoa(c.Pen.InkThickness) },
		set: func(c *Config, v string) error { return setInt(&c.Pen.InkThickness, v) },
	},
	"pen.erase_thickness": {
		get: func(c *Config) string { return strconv.Itoa(c.Pen.EraseThickness) },
		set: func(c *Config, v string) error { return setInt(&c.Pen.EraseThickness, v) },
	},
}

// Keys returns the names of all tunable settings, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Known reports whether key names a tunable setting.
func Known(key string) bool {
	_, ok := settings[key]
	return ok
}

// Settings returns the current value of every tunable setting as strings.
func (c *Config) Settings() map[string]string {
	out := make(map[string]string, len(settings))
	for k, s := range settings {
		out[k] = s.get(c)
	}
	return out
}

// ApplySettings overrides tunables from key/value pairs. Unknown keys are
// ignored. On any parse or validation error c is left unchanged.
func (c *Config) ApplySettings(values map[string]string) error {
	next := *c
	for k, v := range values {
		s, ok := settings[k]
		if !ok {
			continue
		}
		if err := s.set(&next, v); err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}
	}

	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	*c = next
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func setFloat32(dst *float32, v string) error {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return err
	}
	*dst = float32(f)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
