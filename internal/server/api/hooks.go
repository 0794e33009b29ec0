package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/shapesketch/internal/hook"
)

// HookHandler lists detection hooks and rescans the hook directory.
type HookHandler struct {
	manager *hook.Manager
}

// NewHookHandler creates a HookHandler over m.
func NewHookHandler(m *hook.Manager) *HookHandler {
	return &HookHandler{manager: m}
}

type hookResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

type listHooksResponse struct {
	Dir   string         `json:"dir"`
	Hooks []hookResponse `json:"hooks"`
}

// ServeHTTP routes GET /api/hooks and POST /api/hooks/reload.
func (h *HookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/hooks")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w)
	case "reload":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h.manager.Discover(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to scan hook directory")
			return
		}
		h.list(w)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *HookHandler) list(w http.ResponseWriter) {
	hooks := h.manager.List()
	response := listHooksResponse{
		Dir:   h.manager.HookDir(),
		Hooks: make([]hookResponse, 0, len(hooks)),
	}
	for _, hk := range hooks {
		labels := hk.Manifest.Labels
		if labels == nil {
			labels = []string{}
		}
		response.Hooks = append(response.Hooks, hookResponse{
			Name:        hk.Manifest.Name,
			Version:     hk.Manifest.Version,
			Description: hk.Manifest.Description,
			Labels:      labels,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
