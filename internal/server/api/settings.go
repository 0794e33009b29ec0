package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/ayusman/shapesketch/internal/config"
	"github.com/ayusman/shapesketch/internal/store"
)

// ApplyFunc pushes an accepted configuration to the running session.
type ApplyFunc func(config.Config) error

// SettingsHandler reads and updates the tunable settings.
type SettingsHandler struct {
	store *store.Store
	apply ApplyFunc

	mu  sync.Mutex
	cfg config.Config
}

// NewSettingsHandler creates a SettingsHandler starting from cfg. apply may
// be nil.
func NewSettingsHandler(s *store.Store, cfg config.Config, apply ApplyFunc) *SettingsHandler {
	return &SettingsHandler{store: s, cfg: cfg, apply: apply}
}

type settingsResponse struct {
	Settings map[string]string `json:"settings"`
}

// ServeHTTP handles GET and PUT /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, settingsResponse{Settings: h.cfg.Settings()})
}

// update validates the posted values against the current configuration,
// applies them to the session and persists them.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	for k := range values {
		if !config.Known(k) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown setting %q", k))
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.cfg
	if err := next.ApplySettings(values); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.apply != nil {
		if err := h.apply(next); err != nil {
			log.Printf("Failed to apply settings: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to apply settings")
			return
		}
	}
	h.cfg = next

	if h.store != nil {
		if err := h.store.Settings().SetAll(values); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}

	writeJSON(w, http.StatusOK, settingsResponse{Settings: h.cfg.Settings()})
}
