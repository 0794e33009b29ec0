package store

import (
	"fmt"
	"strings"

	"github.com/ayusman/shapesketch/internal/shape"
)

// labelCheck renders the CHECK list of valid shape labels.
func labelCheck() string {
	quoted := make([]string, 0, len(shape.Labels()))
	for _, l := range shape.Labels() {
		quoted = append(quoted, "'"+string(l)+"'")
	}
	return strings.Join(quoted, ", ")
}

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per classification
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL CHECK(label IN (%s)),
			vertices INTEGER NOT NULL DEFAULT 0,
			area REAL NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT 'canvas',
			image_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, labelCheck()),

		// Simplified polygon vertices, in order
		`CREATE TABLE IF NOT EXISTS detection_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			detection_id TEXT NOT NULL REFERENCES detections(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL
		)`,

		// Settings table - stores tuning overrides as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_detections_created_at ON detections(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_label ON detections(label)`,
		`CREATE INDEX IF NOT EXISTS idx_detection_points_detection_id ON detection_points(detection_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
