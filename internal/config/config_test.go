package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.SaveDir != filepath.Join(cfg.DataDir, "frames") {
		t.Errorf("SaveDir = %q, want frames under DataDir", cfg.SaveDir)
	}
	if filepath.Base(cfg.DBPath()) != "shapesketch.db" {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
}

func TestSettings_CoversAllKeys(t *testing.T) {
	cfg := Default()
	values := cfg.Settings()

	for _, k := range Keys() {
		if _, ok := values[k]; !ok {
			t.Errorf("Settings() missing %q", k)
		}
	}

	want := map[string]string{
		"contour.blur_kernel":       "5",
		"contour.canny_low":         "50",
		"contour.canny_high":        "150",
		"contour.epsilon_factor":    "0.04",
		"shape.square_min_ratio":    "0.95",
		"shape.square_max_ratio":    "1.05",
		"shape.sharp_angle":         "90",
		"shape.arrow_sharp_defects": "2",
		"pen.ink_color":             "#FF0000",
		"pen.ink_thickness":         "5",
		"pen.erase_thickness":       "20",
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("Settings()[%q] = %q, want %q", k, values[k], v)
		}
	}
}

func TestApplySettings(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		check   func(t *testing.T, c Config)
		wantErr bool
	}{
		{
			name:   "thresholds",
			values: map[string]string{"shape.sharp_angle": "75.5", "contour.canny_high": "200"},
			check: func(t *testing.T, c Config) {
				if c.Detector.Shape.SharpAngle != 75.5 {
					t.Errorf("SharpAngle = %f", c.Detector.Shape.SharpAngle)
				}
				if c.Detector.Contour.CannyHigh != 200 {
					t.Errorf("CannyHigh = %f", c.Detector.Contour.CannyHigh)
				}
			},
		},
		{
			name:   "pen",
			values: map[string]string{"pen.ink_color": "#00FF00", "pen.ink_thickness": "8"},
			check: func(t *testing.T, c Config) {
				if c.Pen.InkColor != "#00FF00" || c.Pen.InkThickness != 8 {
					t.Errorf("Pen = %+v", c.Pen)
				}
			},
		},
		{
			name:   "unknown keys ignored",
			values: map[string]string{"ui.theme": "dark"},
			check: func(t *testing.T, c Config) {
				if c.Detector != Default().Detector {
					t.Error("unknown key changed detector config")
				}
			},
		},
		{name: "not a number", values: map[string]string{"contour.blur_kernel": "five"}, wantErr: true},
		{name: "even kernel", values: map[string]string{"contour.blur_kernel": "4"}, wantErr: true},
		{name: "bad colour", values: map[string]string{"pen.ink_color": "blue"}, wantErr: true},
		{name: "inverted band", values: map[string]string{"shape.square_min_ratio": "1.2"}, wantErr: true},
		{name: "NaN sharp angle", values: map[string]string{"shape.sharp_angle": "NaN"}, wantErr: true},
		{name: "infinite sharp angle", values: map[string]string{"shape.sharp_angle": "Inf"}, wantErr: true},
		{name: "NaN square band", values: map[string]string{"shape.square_max_ratio": "NaN"}, wantErr: true},
		{name: "NaN epsilon", values: map[string]string{"contour.epsilon_factor": "NaN"}, wantErr: true},
		{name: "infinite canny", values: map[string]string{"contour.canny_high": "+Inf"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplySettings(tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplySettings() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if cfg != Default() {
					t.Error("config changed despite error")
				}
				return
			}
			tt.check(t, cfg)
		})
	}
}

func TestKnown(t *testing.T) {
	if !Known("shape.sharp_angle") {
		t.Error("Known(shape.sharp_angle) = false")
	}
	if Known("shape.colour") {
		t.Error("Known(shape.colour) = true")
	}
}
