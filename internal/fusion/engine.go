// Package fusion joins odds records with the daily team-statistics snapshot of
// their game date, producing one fused row per settled game.
//
// Failures are isolated at two levels. A game that cannot be fused becomes a
// Skip and the season continues; a season that cannot be read becomes a
// SeasonResult with Err set and the run continues with the next season.
package fusion

import (
	"context"
	"errors"
	"fmt"

	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/odds"
	"github.com/rewired-gh/nbafuse/internal/storage"
	"github.com/rewired-gh/nbafuse/internal/teamindex"
)

// SnapshotSource provides daily snapshots by date (YYYY-MM-DD). A missing
// snapshot is reported with an error wrapping storage.ErrNotFound.
type SnapshotSource interface {
	GetSnapshot(date string) (*models.Snapshot, error)
}

// OddsSource provides the odds table of a season.
type OddsSource interface {
	GetOdds(season string) ([]models.OddsRecord, error)
}

// Engine fuses odds records with snapshots.
type Engine struct {
	snapshots SnapshotSource
	resolver  *teamindex.Resolver
}

// New creates an Engine.
func New(snapshots SnapshotSource, resolver *teamindex.Resolver) *Engine {
	return &Engine{snapshots: snapshots, resolver: resolver}
}

// Run fuses every season in order. Each season is read from src independently;
// a failed season never stops the others.
func (e *Engine) Run(ctx context.Context, seasons []string, src OddsSource) []SeasonResult {
	results := make([]SeasonResult, 0, len(seasons))
	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			results = append(results, SeasonResult{Season: season, Err: err})
			continue
		}
		records, err := src.GetOdds(season)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				err = fmt.Errorf("%w: %s", ErrSeasonMissing, models.OddsTableName(season))
			}
			logger.Error("Season %s failed: %v", season, err)
			results = append(results, SeasonResult{Season: season, Err: err})
			continue
		}
		res := e.FuseSeason(ctx, season, records)
		if res.Err != nil {
			logger.Error("Season %s failed: %v", season, res.Err)
		}
		results = append(results, res)
	}
	return results
}

// FuseSeason fuses one season's odds table. records is not modified. Rest days
// are computed over the whole table when any record lacks them.
func (e *Engine) FuseSeason(ctx context.Context, season string, records []models.OddsRecord) SeasonResult {
	res := SeasonResult{Season: season}
	if len(records) == 0 {
		res.Err = fmt.Errorf("%w: %s", ErrSeasonMissing, models.OddsTableName(season))
		return res
	}
	era, err := e.resolver.Era(season)
	if err != nil {
		res.Err = err
		return res
	}
	if !teamindex.Listed(season) {
		logger.Warn("Season %s is not listed in any era, using %s mapping", season, era)
	}

	records, err = withRestDays(records)
	if err != nil {
		res.Err = fmt.Errorf("failed to compute rest days: %w", err)
		return res
	}

	days := make(map[string]*day)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return SeasonResult{Season: season, Err: err}
		}
		out := e.fuseGame(season, &records[i], days)
		if out.Skip != nil {
			logSkip(out.Skip)
			res.Skips = append(res.Skips, *out.Skip)
			continue
		}
		res.Rows = append(res.Rows, *out.Row)
	}
	logger.Info("Season %s: fused %d games, skipped %d", season, len(res.Rows), len(res.Skips))
	return res
}

// day caches the snapshot lookup of one date within a season.
type day struct {
	snap   *models.Snapshot
	reason SkipReason
	err    error
}

func (e *Engine) lookup(season, date string, days map[string]*day) *day {
	if d, ok := days[date]; ok {
		return d
	}
	d := &day{}
	snap, err := e.snapshots.GetSnapshot(date)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		d.reason, d.err = SkipNoSnapshot, err
	case err != nil:
		d.reason, d.err = SkipSnapshotError, err
	default:
		if err := e.CheckSnapshot(season, snap); err != nil {
			d.reason, d.err = SkipIncompleteSnapshot, err
			break
		}
		d.snap = snap
	}
	days[date] = d
	return d
}

// CheckSnapshot rejects a snapshot whose team count differs from the one
// season's era expects. Rows are matched to teams by position, so such a
// snapshot cannot be joined.
func (e *Engine) CheckSnapshot(season string, snap *models.Snapshot) error {
	expected := e.resolver.ExpectedTeams(season)
	if !snap.Complete(expected) {
		return fmt.Errorf("%w: %s has %d teams, want %d", ErrIncompleteSnapshot, snap.Date, len(snap.Rows), expected)
	}
	return nil
}

func (e *Engine) fuseGame(season string, rec *models.OddsRecord, days map[string]*day) GameOutcome {
	skip := func(reason SkipReason, err error) GameOutcome {
		return GameOutcome{Skip: &Skip{
			Season: season, Date: rec.Date, Home: rec.Home, Away: rec.Away,
			Reason: reason, Err: err,
		}}
	}

	if !rec.Settled() {
		return skip(SkipUnsettled, nil)
	}
	d := e.lookup(season, rec.Date, days)
	if d.snap == nil {
		return skip(d.reason, d.err)
	}

	cols, vals, err := e.Join(season, d.snap, rec.Home, rec.Away)
	switch {
	case errors.Is(err, teamindex.ErrUnknownTeam):
		return skip(SkipUnknownTeam, err)
	case errors.Is(err, ErrIncompleteSnapshot):
		return skip(SkipIncompleteSnapshot, err)
	case err != nil:
		return skip(SkipBadRow, err)
	}
	row := &models.FusedRow{
		Season:  season,
		Date:    rec.Date,
		Home:    rec.Home,
		Away:    rec.Away,
		Columns: cols,
		Values:  vals,
		Labels:  models.LabelsFor(rec),
	}
	return GameOutcome{Row: row}
}

// Join resolves home and away in snap and concatenates their rows. Away
// columns carry models.AwaySuffix. An incomplete snapshot fails with
// ErrIncompleteSnapshot and a row that does not match the header with ErrBadRow.
func (e *Engine) Join(season string, snap *models.Snapshot, home, away string) (columns, values []string, err error) {
	if err := e.CheckSnapshot(season, snap); err != nil {
		return nil, nil, err
	}
	homeIdx, err := e.resolver.Resolve(season, home)
	if err != nil {
		return nil, nil, err
	}
	awayIdx, err := e.resolver.Resolve(season, away)
	if err != nil {
		return nil, nil, err
	}
	homeRow, err := teamRow(snap, homeIdx)
	if err != nil {
		return nil, nil, err
	}
	awayRow, err := teamRow(snap, awayIdx)
	if err != nil {
		return nil, nil, err
	}

	n := len(snap.Columns)
	columns = make([]string, 0, 2*n)
	columns = append(columns, snap.Columns...)
	for _, c := range snap.Columns {
		columns = append(columns, c+models.AwaySuffix)
	}
	values = make([]string, 0, 2*n)
	values = append(values, homeRow...)
	values = append(values, awayRow...)
	return columns, values, nil
}

func teamRow(snap *models.Snapshot, i int) ([]string, error) {
	row, err := snap.Row(i)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRow, err)
	}
	if len(row) != len(snap.Columns) {
		return nil, fmt.Errorf("%w: %s row %d has %d values, want %d", ErrBadRow, snap.Date, i, len(row), len(snap.Columns))
	}
	return row, nil
}

func withRestDays(records []models.OddsRecord) ([]models.OddsRecord, error) {
	for i := range records {
		if !records[i].HasRest() {
			out := append([]models.OddsRecord(nil), records...)
			if err := odds.ApplyRestDays(out); err != nil {
				return nil, err
			}
			return out, nil
		}
	}
	return records, nil
}

func logSkip(s *Skip) {
	switch s.Reason {
	case SkipUnsettled:
		logger.Debug("Skipped %s", s)
	case SkipNoSnapshot:
		logger.Info("Skipped %s", s)
	default:
		logger.Warn("Skipped %s", s)
	}
}
