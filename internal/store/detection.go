package store

import (
	"database/sql"
	"errors"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/shapesketch/internal/shape"
)

// Source records where a classified image came from.
type Source string

const (
	// SourceCanvas is a sketch saved from the live canvas.
	SourceCanvas Source = "canvas"
	// SourceUpload is an image posted to the classify endpoint.
	SourceUpload Source = "upload"
	// SourceCLI is an image classified from the command line.
	SourceCLI Source = "cli"
)

// Detection is one stored classification.
type Detection struct {
	ID        string
	Label     shape.Label
	Vertices  int
	Area      float64
	Polygon   []image.Point
	Source    Source
	ImagePath string
	CreatedAt time.Time
}

// DetectionRepository provides CRUD operations for detections.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts d and its polygon in a single transaction.
// An empty ID is filled with a new UUID and an empty Source defaults to canvas.
func (r *DetectionRepository) Create(d *Detection) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Source == "" {
		d.Source = SourceCanvas
	}
	d.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO detections (id, label, vertices, area, source, image_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, string(d.Label), d.Vertices, d.Area, string(d.Source), d.ImagePath, d.CreatedAt,
	)
	if err != nil {
		return err
	}

	if len(d.Polygon) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO detection_points (detection_id, sequence, x, y) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, p := range d.Polygon {
			if _, err := stmt.Exec(d.ID, i, p.X, p.Y); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetByID retrieves a detection and its polygon.
func (r *DetectionRepository) GetByID(id string) (*Detection, error) {
	d := &Detection{}
	var label, source string

	err := r.db.QueryRow(
		`SELECT id, label, vertices, area, source, image_path, created_at
		 FROM detections WHERE id = ?`,
		id,
	).Scan(&d.ID, &label, &d.Vertices, &d.Area, &source, &d.ImagePath, &d.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d.Label = shape.Label(label)
	d.Source = Source(source)

	d.Polygon, err = r.polygon(id)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (r *DetectionRepository) polygon(id string) ([]image.Point, error) {
	rows, err := r.db.Query(
		`SELECT x, y FROM detection_points WHERE detection_id = ? ORDER BY sequence`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pts []image.Point
	for rows.Next() {
		var p image.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}

	return pts, rows.Err()
}

// List retrieves the most recent detections, newest first, without their
// polygons. A limit of zero or less returns all of them.
func (r *DetectionRepository) List(limit int) ([]*Detection, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, label, vertices, area, source, image_path, created_at
		 FROM detections ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []*Detection
	for rows.Next() {
		d := &Detection{}
		var label, source string

		if err := rows.Scan(&d.ID, &label, &d.Vertices, &d.Area, &source, &d.ImagePath, &d.CreatedAt); err != nil {
			return nil, err
		}

		d.Label = shape.Label(label)
		d.Source = Source(source)
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}

// CountByLabel returns how many detections carry each label. Labels never
// seen are absent from the map.
func (r *DetectionRepository) CountByLabel() (map[shape.Label]int, error) {
	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM detections GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[shape.Label]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[shape.Label(label)] = n
	}

	return counts, rows.Err()
}

// Delete removes a detection and its polygon by ID.
func (r *DetectionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM detections WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
