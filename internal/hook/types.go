// Package hook runs external executables when a sketch is classified.
//
// Each hook lives in its own subdirectory of the hook directory with a
// hook.json manifest. On a matching detection the executable receives an
// Event as JSON on stdin and answers with a Response on stdout.
package hook

import "encoding/json"

// Manifest describes a hook and the labels it reacts to.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Labels restricts the hook to these labels. Empty matches every
	// label except "No shape detected".
	Labels []string        `json:"labels"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Event is the request written to a hook's stdin.
type Event struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Vertices  int             `json:"vertices"`
	Area      float64         `json:"area"`
	Source    string          `json:"source"`
	ImagePath string          `json:"image_path,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is what a hook prints on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Matches reports whether the hook reacts to label.
func (h *Hook) Matches(label string) bool {
	if len(h.Manifest.Labels) == 0 {
		return label != noShape
	}
	for _, l := range h.Manifest.Labels {
		if l == label {
			return true
		}
	}
	return false
}
