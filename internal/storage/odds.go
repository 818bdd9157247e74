package storage

import (
	"database/sql"
	"fmt"

	"github.com/rewired-gh/nbafuse/internal/models"
)

const oddsColumns = `season, seq, date, home, away, ou, spread, ml_home, ml_away,
	points, win_margin, days_rest_home, days_rest_away`

// ReplaceOdds replaces the odds table of season with records.
// Rest days of zero are stored as NULL.
func (s *Storage) ReplaceOdds(season string, records []models.OddsRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM odds WHERE season = ?`, season); err != nil {
		return fmt.Errorf("failed to clear odds for %s: %w", season, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO odds (` + oddsColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare odds insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		if _, err := stmt.Exec(
			season, r.Seq, r.Date, r.Home, r.Away,
			r.OU, r.Spread, r.MLHome, r.MLAway, r.Points, r.WinMargin,
			nullRest(r.DaysRestHome), nullRest(r.DaysRestAway),
		); err != nil {
			return fmt.Errorf("failed to insert odds %s/%d: %w", season, r.Seq, err)
		}
	}
	return tx.Commit()
}

// GetOdds returns the odds table of season ordered by sequence number.
// ErrNotFound is returned when the season has no table.
func (s *Storage) GetOdds(season string) ([]models.OddsRecord, error) {
	rows, err := s.db.Query(`SELECT `+oddsColumns+` FROM odds WHERE season = ? ORDER BY seq`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds: %w", err)
	}
	defer rows.Close()

	var records []models.OddsRecord
	for rows.Next() {
		r, err := scanOdds(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("odds table %s: %w", models.OddsTableName(season), ErrNotFound)
	}
	return records, nil
}

// OddsSeasons lists the seasons that have an odds table.
func (s *Storage) OddsSeasons() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT season FROM odds ORDER BY season`)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds seasons: %w", err)
	}
	defer rows.Close()
	seasons := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, id)
	}
	return seasons, rows.Err()
}

// UpdateRestDays writes the rest-day columns of records back to their rows.
func (s *Storage) UpdateRestDays(season string, records []models.OddsRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`UPDATE odds SET days_rest_home = ?, days_rest_away = ? WHERE season = ? AND seq = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare rest update: %w", err)
	}
	defer stmt.Close()
	for i := range records {
		r := &records[i]
		if _, err := stmt.Exec(nullRest(r.DaysRestHome), nullRest(r.DaysRestAway), season, r.Seq); err != nil {
			return fmt.Errorf("failed to update rest days %s/%d: %w", season, r.Seq, err)
		}
	}
	return tx.Commit()
}

func scanOdds(scan func(...any) error) (*models.OddsRecord, error) {
	var r models.OddsRecord
	var restHome, restAway sql.NullInt64
	err := scan(
		&r.Season, &r.Seq, &r.Date, &r.Home, &r.Away,
		&r.OU, &r.Spread, &r.MLHome, &r.MLAway, &r.Points, &r.WinMargin,
		&restHome, &restAway,
	)
	if err != nil {
		return nil, err
	}
	r.DaysRestHome = int(restHome.Int64)
	r.DaysRestAway = int(restAway.Int64)
	return &r, nil
}

func nullRest(v int) any {
	if v <= 0 {
		return nil
	}
	return v
}
