// Package api provides HTTP API handlers for classification, detection
// history, the live canvas and tunable settings.
package api

import (
	"encoding/json"
	"image"
	"net/http"
	"time"

	"github.com/ayusman/shapesketch/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Point is the JSON form of an image point.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPoints(pts []image.Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func fromPoints(pts []Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Pt(p.X, p.Y)
	}
	return out
}

// DetectionResponse is the JSON form of a stored detection.
type DetectionResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Vertices  int     `json:"vertices"`
	Area      float64 `json:"area"`
	Polygon   []Point `json:"polygon,omitempty"`
	Source    string  `json:"source"`
	ImagePath string  `json:"image_path,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToDetectionResponse converts a store.Detection to its JSON form.
func ToDetectionResponse(d *store.Detection) DetectionResponse {
	return DetectionResponse{
		ID:        d.ID,
		Label:     string(d.Label),
		Vertices:  d.Vertices,
		Area:      d.Area,
		Polygon:   toPoints(d.Polygon),
		Source:    string(d.Source),
		ImagePath: d.ImagePath,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
