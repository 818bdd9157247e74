// Package collector runs the collection stage: archive import, concurrent
// statistics and odds fetching, rest-day derivation, fusion and persistence of
// the feature table.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/nbafuse/internal/dataset"
	"github.com/rewired-gh/nbafuse/internal/fetch"
	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/metrics"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/odds"
	"github.com/rewired-gh/nbafuse/internal/storage"
)

// StageCollect names the collection stage in run records and metrics.
const StageCollect = "collect"

// StatsFetcher fetches one day's team statistics.
type StatsFetcher interface {
	FetchDay(ctx context.Context, season models.Season, date time.Time) (*models.Snapshot, error)
}

// OddsFetcher fetches one day's scoreboard.
type OddsFetcher interface {
	Scoreboard(ctx context.Context, date time.Time) ([]odds.RawGame, error)
}

// Exporter copies the dataset to an external store.
type Exporter interface {
	Export(ctx context.Context, t *models.Table) (int64, error)
}

// Notifier reports finished runs.
type Notifier interface {
	SendRunSummary(run *models.Run) error
}

// Config holds collection settings.
type Config struct {
	FetchData    []models.Season
	FetchOddData []models.Season
	CreateGame   []models.Season

	ArchivePath      string
	ArchiveOutputDir string

	Sportsbook   string
	SkipExisting bool
	MinDelay     time.Duration
	MaxDelay     time.Duration

	DropColumns []string
	StrictEras  bool
	MetricsPath string
}

// Collector runs the collection stage.
type Collector struct {
	store    *storage.Storage
	stats    StatsFetcher
	odds     OddsFetcher
	cfg      Config
	pacer    *fetch.Pacer
	metrics  *metrics.Metrics
	exporter Exporter
	notifier Notifier
}

// New creates a Collector. stats and oddsFetcher may be nil when the matching
// season sections are empty.
func New(store *storage.Storage, stats StatsFetcher, oddsFetcher OddsFetcher, cfg Config) *Collector {
	return &Collector{
		store:   store,
		stats:   stats,
		odds:    oddsFetcher,
		cfg:     cfg,
		pacer:   fetch.NewPacer(cfg.MinDelay, cfg.MaxDelay),
		metrics: metrics.New(),
	}
}

// WithMetrics replaces the metrics sink.
func (c *Collector) WithMetrics(m *metrics.Metrics) *Collector {
	c.metrics = m
	return c
}

// WithExporter enables dataset export.
func (c *Collector) WithExporter(e Exporter) *Collector {
	c.exporter = e
	return c
}

// WithNotifier enables run notifications.
func (c *Collector) WithNotifier(n Notifier) *Collector {
	c.notifier = n
	return c
}

// Run executes the stage and records it. The returned run is always non-nil.
// An error is returned only for cancellation or a failure to persist the dataset.
func (c *Collector) Run(ctx context.Context) (*models.Run, error) {
	run := &models.Run{ID: uuid.NewString(), Stage: StageCollect, StartedAt: time.Now()}
	logger.Info("Starting collection run %s", run.ID)

	err := c.run(ctx, run)
	run.FinishedAt = time.Now()
	if err != nil {
		run.Error = err.Error()
	}
	c.finish(run)
	return run, err
}

func (c *Collector) run(ctx context.Context, run *models.Run) error {
	if c.cfg.ArchivePath != "" {
		n, err := c.importArchive()
		if err != nil {
			logger.Error("Archive import failed: %v", err)
		}
		run.OddsRecords += n
	}

	var statsTally, oddsTally tally
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetchStats(gctx, &statsTally) })
	g.Go(func() error { return c.fetchOdds(gctx, &oddsTally) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch interrupted: %w", err)
	}
	run.SnapshotsSaved = statsTally.saved
	run.FetchGaps = statsTally.gaps + oddsTally.gaps
	run.OddsRecords += oddsTally.saved
	logger.Info("Fetch complete: %d snapshots, %d odds records, %d gaps",
		run.SnapshotsSaved, oddsTally.saved, run.FetchGaps)

	c.applyRestDays()

	table, results := c.fuse(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range results {
		run.RowsFused += len(results[i].Rows)
		run.GamesSkipped += len(results[i].Skips)
		if results[i].Err != nil {
			run.SeasonsFailed++
		}
	}
	if table == nil {
		return nil
	}
	c.metrics.DatasetRows(table.Len())
	if err := c.store.ReplaceDataset(table); err != nil {
		return fmt.Errorf("failed to persist dataset: %w", err)
	}
	logger.Info("Saved dataset with %d rows and %d columns", table.Len(), len(table.Columns))

	if c.exporter != nil {
		n, err := c.exporter.Export(ctx, table)
		if err != nil {
			logger.Error("Dataset export failed: %v", err)
		} else {
			logger.Info("Exported %d dataset rows", n)
		}
	}
	return nil
}

func (c *Collector) finish(run *models.Run) {
	if err := c.store.SaveRun(run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
	c.metrics.StageFinished(StageCollect, run.Duration(), run.Error == "")
	if c.cfg.MetricsPath != "" {
		if err := c.metrics.WriteTextfile(c.cfg.MetricsPath); err != nil {
			logger.Warn("Failed to write metrics: %v", err)
		}
	}
	if c.notifier != nil {
		if err := c.notifier.SendRunSummary(run); err != nil {
			logger.Warn("Failed to send run summary: %v", err)
		}
	}
	logger.Info("Collection run %s finished in %v: %d rows fused, %d games skipped, %d seasons failed",
		run.ID, run.Duration().Round(time.Millisecond), run.RowsFused, run.GamesSkipped, run.SeasonsFailed)
}

// tally counts the work of one fetch goroutine.
type tally struct {
	saved int
	gaps  int
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Collector) assembler() *dataset.Assembler {
	return dataset.NewAssembler(c.cfg.DropColumns)
}
