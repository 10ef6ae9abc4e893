package demdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded rasterization: its inputs, grid shape, extent
// and artifact locations.
type Run struct {
	RunID            string  `json:"run_id"`
	CreatedUnixNanos int64   `json:"created_unix_nanos"`
	SourceFile       string  `json:"source_file"`
	SourcePoints     int     `json:"source_points"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Resolution       float64 `json:"resolution"`
	XMin             float64 `json:"x_min"`
	XMax             float64 `json:"x_max"`
	YMin             float64 `json:"y_min"`
	YMax             float64 `json:"y_max"`
	ZMin             float64 `json:"z_min"`
	ZMax             float64 `json:"z_max"`
	RasterPath       string  `json:"raster_path"`
	DumpPath         string  `json:"dump_path"`
	MetadataPath     string  `json:"metadata_path"`
}

// InsertRun persists a run record. An empty RunID gets a fresh UUID;
// a zero CreatedUnixNanos gets the current time.
func (db *DB) InsertRun(r *Run) error {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.CreatedUnixNanos == 0 {
		r.CreatedUnixNanos = time.Now().UnixNano()
	}

	_, err := db.Exec(`
		INSERT INTO dem_runs (
			run_id, created_unix_nanos, source_file, source_points,
			width, height, resolution,
			x_min, x_max, y_min, y_max, z_min, z_max,
			raster_path, dump_path, metadata_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedUnixNanos, r.SourceFile, r.SourcePoints,
		r.Width, r.Height, r.Resolution,
		r.XMin, r.XMax, r.YMin, r.YMax, r.ZMin, r.ZMax,
		r.RasterPath, r.DumpPath, r.MetadataPath,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}
	return nil
}

const runColumns = `run_id, created_unix_nanos, source_file, source_points,
	width, height, resolution,
	x_min, x_max, y_min, y_max, z_min, z_max,
	raster_path, dump_path, metadata_path`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.RunID, &r.CreatedUnixNanos, &r.SourceFile, &r.SourcePoints,
		&r.Width, &r.Height, &r.Resolution,
		&r.XMin, &r.XMax, &r.YMin, &r.YMax, &r.ZMin, &r.ZMax,
		&r.RasterPath, &r.DumpPath, &r.MetadataPath,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRun fetches one run by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM dem_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// ListRecentRuns returns up to limit runs, newest first.
func (db *DB) ListRecentRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM dem_runs
		ORDER BY created_unix_nanos DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
