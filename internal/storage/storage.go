// Package storage provides SQLite-backed persistence for daily snapshots, odds
// tables, the assembled dataset, run records and trained models.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a snapshot, odds table, run or model does not exist.
var ErrNotFound = errors.New("not found")

// Storage wraps a SQLite database for all persistence operations.
type Storage struct {
	db      *sql.DB
	maxRuns int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/nbafuse/data.db.
func New(maxRuns int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "nbafuse", "data.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Storage{db: db, maxRuns: maxRuns}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			date        TEXT PRIMARY KEY,
			columns     TEXT NOT NULL,
			team_count  INTEGER NOT NULL,
			fetched_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_rows (
			date        TEXT NOT NULL REFERENCES snapshots(date) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			row_values  TEXT NOT NULL,
			PRIMARY KEY (date, position)
		)`,
		`CREATE TABLE IF NOT EXISTS odds (
			season          TEXT NOT NULL,
			seq             INTEGER NOT NULL,
			date            TEXT NOT NULL,
			home            TEXT NOT NULL,
			away            TEXT NOT NULL,
			ou              REAL NOT NULL DEFAULT 0,
			spread          REAL NOT NULL DEFAULT 0,
			ml_home         REAL NOT NULL DEFAULT 0,
			ml_away         REAL NOT NULL DEFAULT 0,
			points          REAL NOT NULL DEFAULT 0,
			win_margin      REAL NOT NULL DEFAULT 0,
			days_rest_home  INTEGER,
			days_rest_away  INTEGER,
			PRIMARY KEY (season, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_odds_season_date ON odds(season, date)`,
		`CREATE TABLE IF NOT EXISTS dataset_columns (
			position     INTEGER PRIMARY KEY,
			name         TEXT NOT NULL,
			categorical  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			stage            TEXT NOT NULL,
			started_at       INTEGER NOT NULL,
			finished_at      INTEGER NOT NULL,
			snapshots_saved  INTEGER NOT NULL DEFAULT 0,
			fetch_gaps       INTEGER NOT NULL DEFAULT 0,
			odds_records     INTEGER NOT NULL DEFAULT 0,
			rows_fused       INTEGER NOT NULL DEFAULT 0,
			games_skipped    INTEGER NOT NULL DEFAULT 0,
			seasons_failed   INTEGER NOT NULL DEFAULT 0,
			error            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE TABLE IF NOT EXISTS models (
			name        TEXT PRIMARY KEY,
			target      TEXT NOT NULL,
			precision   REAL NOT NULL,
			payload     TEXT NOT NULL,
			trained_at  INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot stores a daily snapshot, replacing any previous one for the same date.
func (s *Storage) SaveSnapshot(snap *models.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	columnsJSON, err := json.Marshal(snap.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM snapshots WHERE date = ?`, snap.Date); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO snapshots (date, columns, team_count, fetched_at)
		VALUES (?,?,?,?)`,
		snap.Date, string(columnsJSON), len(snap.Rows), time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO snapshot_rows (date, position, row_values) VALUES (?,?,?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range snap.Rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row %d: %w", i, err)
		}
		if _, err := stmt.Exec(snap.Date, i, string(rowJSON)); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// GetSnapshot loads the snapshot for date (YYYY-MM-DD).
func (s *Storage) GetSnapshot(date string) (*models.Snapshot, error) {
	var columnsJSON string
	err := s.db.QueryRow(`SELECT columns FROM snapshots WHERE date = ?`, date).Scan(&columnsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap := &models.Snapshot{Date: date}
	if err := json.Unmarshal([]byte(columnsJSON), &snap.Columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
	}

	rows, err := s.db.Query(`SELECT row_values FROM snapshot_rows WHERE date = ? ORDER BY position`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rowJSON string
		if err := rows.Scan(&rowJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var row []string
		if err := json.Unmarshal([]byte(rowJSON), &row); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot row: %w", err)
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap, rows.Err()
}

// HasSnapshot reports whether a snapshot exists for date.
func (s *Storage) HasSnapshot(date string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE date = ?`, date).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	return n > 0, nil
}
