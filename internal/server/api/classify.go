package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"github.com/ayusman/shapesketch/internal/app"
	"github.com/ayusman/shapesketch/internal/store"
)

// Upload limits.
const (
	MaxUploadBytes = 10 << 20
	MaxUploadSide  = 1920
)

// ClassifyHandler classifies uploaded sketch images.
type ClassifyHandler struct {
	app *app.App
}

// NewClassifyHandler creates a new ClassifyHandler backed by a.
func NewClassifyHandler(a *app.App) *ClassifyHandler {
	return &ClassifyHandler{app: a}
}

type classifyResponse struct {
	ID       string  `json:"id,omitempty"`
	Label    string  `json:"label"`
	Vertices int     `json:"vertices"`
	Area     float64 `json:"area"`
	Polygon  []Point `json:"polygon,omitempty"`
}

// ServeHTTP handles POST /api/classify. The image is read from the
// multipart field "image" or, for any other content type, from the raw
// body. With ?save=true the result is recorded.
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	img, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported image")
		return
	}
	defer mat.Close()

	result := h.app.ClassifyImage(mat)
	response := classifyResponse{
		Label:    string(result.Label),
		Vertices: result.Vertices,
		Area:     result.Area,
		Polygon:  toPoints(result.Polygon),
	}

	if r.URL.Query().Get("save") == "true" {
		rec, err := h.app.Record(result, store.SourceUpload, "")
		if err != nil {
			log.Printf("Failed to record upload: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to save detection")
			return
		}
		response.ID = rec.ID
		writeJSON(w, http.StatusCreated, response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// readUpload decodes the posted image, applying EXIF orientation and
// shrinking it to fit MaxUploadSide.
func readUpload(r *http.Request) (image.Image, error) {
	var src io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("missing image field")
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > MaxUploadSide || b.Dy() > MaxUploadSide {
		img = imaging.Fit(img, MaxUploadSide, MaxUploadSide, imaging.Lanczos)
	}

	return img, nil
}
