// Package db keeps a SQLite history of processed scenes and pixel lookups.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/watertemp/internal/monitoring"
	"github.com/banshee-data/watertemp/internal/mtl"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("scene run not found")

type DB struct {
	*sql.DB
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	monitoring.Logf("opened run history %s", path)
	return db, nil
}

// SceneRun is one processed scene. MeanCelsius is nil when the scene had no
// water pixels.
type SceneRun struct {
	RunID        string
	ProductID    string
	MetadataPath string
	Width        int
	Height       int
	Calibration  mtl.Calibration
	WaterPixels  int
	MeanCelsius  *float64
	CreatedAt    time.Time
}

// PixelLookup is one pixel temperature lookup within a run.
type PixelLookup struct {
	RunID     string
	X, Y      int
	Celsius   float64
	IsWater   bool
	CreatedAt time.Time
}

// RecordRun inserts run, assigning a RunID and CreatedAt when unset.
func (db *DB) RecordRun(run *SceneRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	var mean sql.NullFloat64
	if run.MeanCelsius != nil {
		mean = sql.NullFloat64{Float64: *run.MeanCelsius, Valid: true}
	}
	_, err := db.Exec(
		`INSERT INTO scene_runs (
			run_id, product_id, metadata_path, width, height,
			radiance_mult, radiance_add, k1, k2,
			water_pixels, mean_celsius, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.ProductID, run.MetadataPath, run.Width, run.Height,
		run.Calibration.RadianceMult, run.Calibration.RadianceAdd, run.Calibration.K1, run.Calibration.K2,
		run.WaterPixels, mean, run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.RunID, err)
	}
	return nil
}

const runColumns = `run_id, product_id, metadata_path, width, height,
	radiance_mult, radiance_add, k1, k2, water_pixels, mean_celsius, created_at_ns`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (SceneRun, error) {
	var r SceneRun
	var mean sql.NullFloat64
	var createdNs int64
	err := row.Scan(
		&r.RunID, &r.ProductID, &r.MetadataPath, &r.Width, &r.Height,
		&r.Calibration.RadianceMult, &r.Calibration.RadianceAdd, &r.Calibration.K1, &r.Calibration.K2,
		&r.WaterPixels, &mean, &createdNs,
	)
	if err != nil {
		return SceneRun{}, err
	}
	if mean.Valid {
		v := mean.Float64
		r.MeanCelsius = &v
	}
	r.CreatedAt = time.Unix(0, createdNs)
	return r, nil
}

// GetRun returns the run with the given ID.
func (db *DB) GetRun(runID string) (*SceneRun, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM scene_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return &r, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]SceneRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM scene_runs ORDER BY created_at_ns DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []SceneRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RecordLookup stores a pixel lookup against an existing run.
func (db *DB) RecordLookup(p *PixelLookup) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := db.Exec(
		`INSERT INTO pixel_lookups (run_id, x, y, celsius, is_water, created_at_ns) VALUES (?, ?, ?, ?, ?, ?)`,
		p.RunID, p.X, p.Y, p.Celsius, p.IsWater, p.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record lookup for run %s: %w", p.RunID, err)
	}
	return nil
}

// ListLookups returns the lookups of runID in insertion order.
func (db *DB) ListLookups(runID string) ([]PixelLookup, error) {
	rows, err := db.Query(
		`SELECT run_id, x, y, celsius, is_water, created_at_ns FROM pixel_lookups WHERE run_id = ? ORDER BY lookup_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lookups: %w", err)
	}
	defer rows.Close()

	var lookups []PixelLookup
	for rows.Next() {
		var p PixelLookup
		var createdNs int64
		if err := rows.Scan(&p.RunID, &p.X, &p.Y, &p.Celsius, &p.IsWater, &createdNs); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(0, createdNs)
		lookups = append(lookups, p)
	}
	return lookups, rows.Err()
}
