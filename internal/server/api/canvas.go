package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ayusman/shapesketch/internal/app"
	"github.com/ayusman/shapesketch/internal/canvas"
)

// CanvasHandler exposes the live canvas commands.
type CanvasHandler struct {
	app *app.App
}

// NewCanvasHandler creates a new CanvasHandler backed by a.
func NewCanvasHandler(a *app.App) *CanvasHandler {
	return &CanvasHandler{app: a}
}

type canvasStateResponse struct {
	Initialized bool    `json:"initialized"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Mode        string  `json:"mode"`
	InkCoverage float64 `json:"ink_coverage"`
	LastLabel   string  `json:"last_label"`
}

type strokeRequest struct {
	Points []Point `json:"points"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type modeResponse struct {
	Mode string `json:"mode"`
}

// ServeHTTP routes /api/canvas and its sub-resources.
func (h *CanvasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/canvas")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.state(w, r)
		case http.MethodDelete:
			h.clear(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "stroke":
		h.requirePost(w, r, h.stroke)
	case "mode":
		h.requirePost(w, r, h.mode)
	case "save":
		h.requirePost(w, r, h.save)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *CanvasHandler) requirePost(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	next(w, r)
}

// state handles GET /api/canvas.
func (h *CanvasHandler) state(w http.ResponseWriter, r *http.Request) {
	size, ok := h.app.CanvasSize()
	writeJSON(w, http.StatusOK, canvasStateResponse{
		Initialized: ok,
		Width:       size.X,
		Height:      size.Y,
		Mode:        h.app.Mode().String(),
		InkCoverage: h.app.InkCoverage(),
		LastLabel:   string(h.app.LastLabel()),
	})
}

// clear handles DELETE /api/canvas.
func (h *CanvasHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Clear(); err != nil {
		writeCanvasError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stroke handles POST /api/canvas/stroke.
func (h *CanvasHandler) stroke(w http.ResponseWriter, r *http.Request) {
	var req strokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, "points is required")
		return
	}

	if err := h.app.Stroke(fromPoints(req.Points)); err != nil {
		writeCanvasError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mode handles POST /api/canvas/mode. An empty body toggles.
func (h *CanvasHandler) mode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Mode == "" {
		writeJSON(w, http.StatusOK, modeResponse{Mode: h.app.ToggleMode().String()})
		return
	}

	m, err := canvas.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.app.SetMode(m)
	writeJSON(w, http.StatusOK, modeResponse{Mode: m.String()})
}

// save handles POST /api/canvas/save.
func (h *CanvasHandler) save(w http.ResponseWriter, r *http.Request) {
	rec, err := h.app.Save()
	if err != nil {
		writeCanvasError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ToDetectionResponse(rec))
}

func writeCanvasError(w http.ResponseWriter, err error) {
	if errors.Is(err, app.ErrNoCanvas) {
		writeError(w, http.StatusConflict, "Canvas not initialized")
		return
	}
	log.Printf("Canvas command failed: %v", err)
	writeError(w, http.StatusInternalServerError, "Canvas command failed")
}
