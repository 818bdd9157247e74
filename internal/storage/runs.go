package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
)

// SavedModel is a serialized model together with its metadata.
type SavedModel struct {
	Name      string
	Target    string
	Precision float64
	Payload   []byte
	TrainedAt time.Time
}

// SaveRun records a run and rotates old runs beyond the configured limit.
func (s *Storage) SaveRun(run *models.Run) error {
	var runErr any
	if run.Error != "" {
		runErr = run.Error
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO runs
			(id, stage, started_at, finished_at, snapshots_saved, fetch_gaps,
			 odds_records, rows_fused, games_skipped, seasons_failed, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Stage, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		run.SnapshotsSaved, run.FetchGaps, run.OddsRecords, run.RowsFused,
		run.GamesSkipped, run.SeasonsFailed, runErr,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return s.RotateRuns()
}

// GetRun loads a run by id.
func (s *Storage) GetRun(id string) (*models.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Storage) RecentRuns(limit int) ([]*models.Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()
	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RotateRuns keeps at most maxRuns newest runs. A limit of zero keeps all.
func (s *Storage) RotateRuns() error {
	if s.maxRuns <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		)`, s.maxRuns)
	if err != nil {
		return fmt.Errorf("failed to rotate runs: %w", err)
	}
	return nil
}

// SaveModel stores a serialized model under m.Name, replacing any previous version.
func (s *Storage) SaveModel(m *SavedModel) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO models (name, target, precision, payload, trained_at)
		VALUES (?,?,?,?,?)`,
		m.Name, m.Target, m.Precision, string(m.Payload), m.TrainedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

// LoadModel loads the model stored under name.
func (s *Storage) LoadModel(name string) (*SavedModel, error) {
	var m SavedModel
	var payload string
	var trainedAt int64
	err := s.db.QueryRow(`SELECT name, target, precision, payload, trained_at FROM models WHERE name = ?`, name).
		Scan(&m.Name, &m.Target, &m.Precision, &payload, &trainedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	m.Payload = []byte(payload)
	m.TrainedAt = time.Unix(0, trainedAt)
	return &m, nil
}

const runColumns = `id, stage, started_at, finished_at, snapshots_saved, fetch_gaps,
	odds_records, rows_fused, games_skipped, seasons_failed, error`

func scanRun(scan func(...any) error) (*models.Run, error) {
	var r models.Run
	var startedNano, finishedNano int64
	var runErr sql.NullString
	err := scan(
		&r.ID, &r.Stage, &startedNano, &finishedNano,
		&r.SnapshotsSaved, &r.FetchGaps, &r.OddsRecords, &r.RowsFused,
		&r.GamesSkipped, &r.SeasonsFailed, &runErr,
	)
	if err != nil {
		return nil, err
	}
	r.StartedAt = time.Unix(0, startedNano)
	r.FinishedAt = time.Unix(0, finishedNano)
	r.Error = runErr.String
	return &r, nil
}
