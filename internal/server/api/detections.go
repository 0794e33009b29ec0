package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/shapesketch/internal/shape"
	"github.com/ayusman/shapesketch/internal/store"
)

// DefaultListLimit caps GET /api/detections without a limit parameter.
const DefaultListLimit = 50

// DetectionHandler handles HTTP requests for stored detections.
type DetectionHandler struct {
	store *store.Store
}

// NewDetectionHandler creates a new DetectionHandler with the given store.
func NewDetectionHandler(s *store.Store) *DetectionHandler {
	return &DetectionHandler{store: s}
}

// ServeHTTP routes /api/detections, /api/detections/stats and
// /api/detections/{id}.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/detections")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)

	case path == "stats":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stats(w, r)

	default:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, path)
		case http.MethodDelete:
			h.delete(w, r, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type listDetectionsResponse struct {
	Detections []DetectionResponse `json:"detections"`
}

type statsResponse struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// list handles GET /api/detections[?limit=N].
func (h *DetectionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	detections, err := h.store.Detections().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}

	response := listDetectionsResponse{
		Detections: make([]DetectionResponse, 0, len(detections)),
	}
	for _, d := range detections {
		response.Detections = append(response.Detections, ToDetectionResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// stats handles GET /api/detections/stats. Every label is present.
func (h *DetectionHandler) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Detections().CountByLabel()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count detections")
		return
	}

	response := statsResponse{Counts: make(map[string]int, len(shape.Labels()))}
	for _, l := range shape.Labels() {
		response.Counts[string(l)] = counts[l]
		response.Total += counts[l]
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/detections/{id}.
func (h *DetectionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	d, err := h.store.Detections().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Detection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get detection")
		return
	}

	writeJSON(w, http.StatusOK, ToDetectionResponse(d))
}

// delete handles DELETE /api/detections/{id}.
func (h *DetectionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Detections().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Detection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete detection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
