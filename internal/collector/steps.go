package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rewired-gh/nbafuse/internal/calendar"
	"github.com/rewired-gh/nbafuse/internal/dataset"
	"github.com/rewired-gh/nbafuse/internal/fusion"
	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/odds"
	"github.com/rewired-gh/nbafuse/internal/stats"
	"github.com/rewired-gh/nbafuse/internal/teamindex"
)

// importArchive splits the CSV archive into per-season odds tables using the
// fetch-data season ranges.
func (c *Collector) importArchive() (int, error) {
	f, err := os.Open(c.cfg.ArchivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	res, err := odds.ReadArchive(f)
	if err != nil {
		return 0, err
	}
	if res.Skipped > 0 {
		logger.Warn("Archive: skipped %d unreadable rows", res.Skipped)
	}

	split := odds.SplitBySeason(res.Records, c.cfg.FetchData)
	total := 0
	for _, season := range c.cfg.FetchData {
		records := split[season.ID]
		if len(records) == 0 {
			continue
		}
		if err := c.store.ReplaceOdds(season.ID, records); err != nil {
			logger.Error("Archive: failed to save %s: %v", models.OddsTableName(season.ID), err)
			continue
		}
		if c.cfg.ArchiveOutputDir != "" {
			if err := writeSeasonCSV(c.cfg.ArchiveOutputDir, season.ID, records); err != nil {
				logger.Warn("Archive: %v", err)
			}
		}
		c.metrics.OddsRecords(season.ID, len(records))
		logger.Info("Archive: saved %d records to %s", len(records), models.OddsTableName(season.ID))
		total += len(records)
	}
	return total, nil
}

func writeSeasonCSV(dir, season string, records []models.OddsRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, models.OddsTableName(season)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := odds.WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// fetchStats stores a snapshot for every date of every fetch-data season.
// Dates that fail are coverage gaps; only cancellation stops the loop.
func (c *Collector) fetchStats(ctx context.Context, t *tally) error {
	if c.stats == nil || len(c.cfg.FetchData) == 0 {
		return nil
	}
	for _, season := range c.cfg.FetchData {
		err := calendar.Each(season, func(date time.Time) error {
			key := models.DateKey(date)
			if c.cfg.SkipExisting {
				ok, err := c.store.HasSnapshot(key)
				if err != nil {
					logger.Warn("Stats: %v", err)
				}
				if ok {
					logger.Debug("Stats: %s already stored", key)
					return nil
				}
			}

			snap, err := c.stats.FetchDay(ctx, season, date)
			if err == nil {
				err = c.store.SaveSnapshot(snap)
			}
			switch {
			case err == nil:
				t.saved++
				c.metrics.SnapshotSaved()
				logger.Debug("Stats: saved %s (%d teams)", key, len(snap.Rows))
			case isCancel(err):
				return err
			case errors.Is(err, stats.ErrNoData):
				t.gaps++
				c.metrics.FetchGap("stats")
				logger.Info("Stats: no data for %s", key)
			default:
				t.gaps++
				c.metrics.FetchGap("stats")
				logger.Warn("Stats: %s: %v", key, err)
			}
			return c.pacer.Wait(ctx)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// fetchOdds replaces the odds table of every fetch-odd-data season with the
// games scraped day by day. A season that yields no records keeps its table.
func (c *Collector) fetchOdds(ctx context.Context, t *tally) error {
	if c.odds == nil || len(c.cfg.FetchOddData) == 0 {
		return nil
	}
	for _, season := range c.cfg.FetchOddData {
		var records []models.OddsRecord
		err := calendar.Each(season, func(date time.Time) error {
			games, err := c.odds.Scoreboard(ctx, date)
			if err != nil {
				if isCancel(err) {
					return err
				}
				t.gaps++
				c.metrics.FetchGap("odds")
				logger.Warn("Odds: %s: %v", models.DateKey(date), err)
				return c.pacer.Wait(ctx)
			}
			recs, skips := odds.Normalize(season.ID, date, games, c.cfg.Sportsbook, len(records))
			for _, s := range skips {
				c.metrics.OddsSkipped(s.Reason)
				logger.Debug("Odds: skipped %s", s)
			}
			records = append(records, recs...)
			return c.pacer.Wait(ctx)
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			logger.Warn("Odds: no %s records for %s, keeping existing table", c.cfg.Sportsbook, season.ID)
			continue
		}
		if err := c.store.ReplaceOdds(season.ID, records); err != nil {
			logger.Error("Odds: failed to save %s: %v", models.OddsTableName(season.ID), err)
			continue
		}
		t.saved += len(records)
		c.metrics.OddsRecords(season.ID, len(records))
		logger.Info("Odds: saved %d records to %s", len(records), models.OddsTableName(season.ID))
	}
	return nil
}

// applyRestDays recomputes rest days for every stored odds table. Each table
// gets its own tracker, and a failing table does not affect the others.
func (c *Collector) applyRestDays() {
	seasons, err := c.store.OddsSeasons()
	if err != nil {
		logger.Error("Rest days: %v", err)
		return
	}
	for _, id := range seasons {
		records, err := c.store.GetOdds(id)
		if err == nil {
			err = odds.ApplyRestDays(records)
		}
		if err == nil {
			err = c.store.UpdateRestDays(id, records)
		}
		if err != nil {
			logger.Error("Rest days: %s: %v", models.OddsTableName(id), err)
			continue
		}
		logger.Debug("Rest days: updated %d games in %s", len(records), models.OddsTableName(id))
	}
}

// fuse joins the create-game seasons and assembles the feature table. The
// table is nil when no game survived fusion.
func (c *Collector) fuse(ctx context.Context) (*models.Table, []fusion.SeasonResult) {
	ids := make([]string, len(c.cfg.CreateGame))
	for i, s := range c.cfg.CreateGame {
		ids[i] = s.ID
	}
	engine := fusion.New(c.store, teamindex.New(c.cfg.StrictEras))
	results := engine.Run(ctx, ids, c.store)

	for i := range results {
		r := &results[i]
		if r.Err != nil {
			c.metrics.SeasonFailed()
			continue
		}
		c.metrics.RowsFused(r.Season, len(r.Rows))
		for reason, n := range r.SkipCounts() {
			c.metrics.GamesSkipped(string(reason), n)
		}
	}

	rows, skips, failed := fusion.Totals(results)
	logger.Info("Fusion: %d rows from %d seasons (%d games skipped, %d seasons failed)",
		rows, len(results), skips, failed)

	table, err := c.assembler().Assemble(results)
	if errors.Is(err, dataset.ErrNoRows) {
		logger.Warn("No games data to merge, dataset left unchanged")
		return nil, results
	}
	if err != nil {
		logger.Error("Assembly failed: %v", err)
		return nil, results
	}
	return table, results
}
