package main

import (
	"strings"
	"testing"
)

func TestNotifyCommand(t *testing.T) {
	s := Settings{Title: "ShapeSketch", Sound: "Ping"}

	tests := []struct {
		goos     string
		wantName string
		wantArg  string
		wantErr  bool
	}{
		{"darwin", "osascript", `display notification "Arrow" with title "ShapeSketch" sound name "Ping"`, false},
		{"linux", "notify-send", "Arrow", false},
		{"plan9", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := notifyCommand(tt.goos, s, "Arrow")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if args[len(args)-1] != tt.wantArg {
				t.Errorf("last arg = %q, want %q", args[len(args)-1], tt.wantArg)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	got := escape(`say "hi" \ bye`)
	if got != `say \"hi\" \\ bye` {
		t.Errorf("escape() = %q", got)
	}
}

func TestMessage(t *testing.T) {
	if got := message(Event{Label: "No shape detected"}); got != "No shape detected" {
		t.Errorf("message() = %q", got)
	}
	got := message(Event{Label: "Square", Vertices: 4, Source: "canvas"})
	if !strings.HasPrefix(got, "Square (4 vertices") {
		t.Errorf("message() = %q", got)
	}
}
