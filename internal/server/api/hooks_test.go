package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/shapesketch/internal/hook"
)

func TestHookHandler(t *testing.T) {
	dir := t.TempDir()
	handler := NewHookHandler(hook.NewManager(dir))

	rec := doRequest(handler, http.MethodGet, "/api/hooks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
	var listed listHooksResponse
	json.NewDecoder(rec.Body).Decode(&listed)
	if len(listed.Hooks) != 0 {
		t.Fatalf("expected no hooks before reload, got %d", len(listed.Hooks))
	}

	hookDir := filepath.Join(dir, "beep")
	os.MkdirAll(hookDir, 0755)
	manifest := `{"name": "beep", "version": "0.1.0", "executable": "beep", "labels": ["Triangle"]}`
	if err := os.WriteFile(filepath.Join(hookDir, hook.ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	rec = doRequest(handler, http.MethodPost, "/api/hooks/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload status = %d, want %d", rec.Code, http.StatusOK)
	}
	json.NewDecoder(rec.Body).Decode(&listed)
	if len(listed.Hooks) != 1 || listed.Hooks[0].Name != "beep" {
		t.Fatalf("hooks = %+v, want beep", listed.Hooks)
	}
	if listed.Dir != dir {
		t.Errorf("dir = %s, want %s", listed.Dir, dir)
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, "/api/hooks", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/hooks/reload", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/hooks/other", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := doRequest(handler, tt.method, tt.path, ""); rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
