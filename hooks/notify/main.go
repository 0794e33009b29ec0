// Package main is a sample hook that shows a desktop notification for each
// classified sketch. Install it by copying this directory, with the built
// binary, into <data-dir>/hooks.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Event is the input from the hook executor.
type Event struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Vertices int             `json:"vertices"`
	Area     float64         `json:"area"`
	Source   string          `json:"source"`
	Config   json.RawMessage `json:"config"`
}

// Response is the output to the hook executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Settings come from the manifest's config block.
type Settings struct {
	Title string `json:"title"`
	Sound string `json:"sound"`
}

func main() {
	var ev Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		writeResponse(fmt.Errorf("failed to decode event: %w", err))
		return
	}

	settings := Settings{Title: "ShapeSketch"}
	if len(ev.Config) > 0 {
		if err := json.Unmarshal(ev.Config, &settings); err != nil {
			writeResponse(fmt.Errorf("failed to parse config: %w", err))
			return
		}
	}

	name, args, err := notifyCommand(runtime.GOOS, settings, message(ev))
	if err != nil {
		writeResponse(err)
		return
	}

	if out, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		writeResponse(fmt.Errorf("%w: %s", err, string(out)))
		return
	}
	writeResponse(nil)
}

func message(ev Event) string {
	if ev.Vertices == 0 {
		return ev.Label
	}
	return fmt.Sprintf("%s (%d vertices, from %s)", ev.Label, ev.Vertices, ev.Source)
}

// notifyCommand returns the command line that shows msg on goos.
func notifyCommand(goos string, s Settings, msg string) (string, []string, error) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escape(msg), escape(s.Title))
		if s.Sound != "" {
			script += fmt.Sprintf(` sound name "%s"`, escape(s.Sound))
		}
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd":
		return "notify-send", []string{s.Title, msg}, nil
	default:
		return "", nil, fmt.Errorf("notifications not supported on %s", goos)
	}
}

// escape quotes s for an AppleScript string literal.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
