package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/nbafuse/internal/cache"
	"github.com/rewired-gh/nbafuse/internal/collector"
	"github.com/rewired-gh/nbafuse/internal/config"
	"github.com/rewired-gh/nbafuse/internal/export"
	"github.com/rewired-gh/nbafuse/internal/fetch"
	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/metrics"
	"github.com/rewired-gh/nbafuse/internal/model"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/predict"
	"github.com/rewired-gh/nbafuse/internal/sbr"
	"github.com/rewired-gh/nbafuse/internal/stats"
	"github.com/rewired-gh/nbafuse/internal/storage"
	"github.com/rewired-gh/nbafuse/internal/telegram"
)

// app holds the clients shared by all stages of one invocation.
type app struct {
	cfg      *config.Config
	kelly    bool
	store    *storage.Storage
	cache    cache.Cache
	stats    *stats.Client
	metrics  *metrics.Metrics
	telegram *telegram.Client
}

func newApp(ctx context.Context, cfg *config.Config, kelly bool) (*app, error) {
	store, err := storage.New(cfg.Storage.MaxRuns, cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a := &app{cfg: cfg, kelly: kelly, store: store, metrics: metrics.New()}

	if cfg.Cache.Enabled {
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			Prefix:   "nbafuse:",
		})
		if err != nil {
			logger.Warn("Response cache disabled: %v", err)
		} else {
			a.cache = rc
			logger.Info("Response cache connected at %s", cfg.Cache.Addr)
		}
	}

	a.stats = stats.NewClient(a.httpClient().
		WithHeader("Referer", "https://www.nba.com/").
		WithHeader("Origin", "https://www.nba.com").
		WithHeader("Accept", "application/json, text/plain, */*"),
		cfg.DataURL, a.cache, cfg.Cache.TTL)

	if cfg.Telegram.Enabled {
		a.telegram, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Telegram client: %w", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}
	return a, nil
}

func (a *app) httpClient() *fetch.Client {
	return fetch.NewClient(a.cfg.Fetch.Timeout, a.cfg.Fetch.UserAgent, a.cfg.Fetch.MaxRetries)
}

func (a *app) scoreboard() *sbr.Client {
	return sbr.NewClient(a.httpClient(), a.cfg.Fetch.OddsURL)
}

func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Warn("Failed to close cache: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		logger.Error("Failed to close storage: %v", err)
	}
}

func (a *app) runStage(ctx context.Context, stage string) error {
	switch stage {
	case stageCollect:
		return a.collect(ctx)
	case stageTrain:
		return a.train()
	case stagePredict:
		return a.predict(ctx)
	}
	return fmt.Errorf("unknown stage %q", stage)
}

func (a *app) collect(ctx context.Context) error {
	fetchData, err := config.Seasons(a.cfg.FetchData)
	if err != nil {
		return err
	}
	fetchOddData, err := config.Seasons(a.cfg.FetchOddData)
	if err != nil {
		return err
	}
	createGame, err := config.Seasons(a.cfg.CreateGame)
	if err != nil {
		return err
	}

	cc := collector.Config{
		FetchData:        fetchData,
		FetchOddData:     fetchOddData,
		CreateGame:       createGame,
		ArchivePath:      a.cfg.Archive.CSVPath,
		ArchiveOutputDir: a.cfg.Archive.OutputDir,
		Sportsbook:       a.cfg.Sportsbook.Collect,
		SkipExisting:     a.cfg.Fetch.SkipExisting,
		MinDelay:         a.cfg.Fetch.MinDelay,
		MaxDelay:         a.cfg.Fetch.MaxDelay,
		DropColumns:      a.cfg.Dataset.DropColumns,
		StrictEras:       a.cfg.Fusion.StrictEras,
	}
	if a.cfg.Metrics.Enabled {
		cc.MetricsPath = a.cfg.Metrics.TextfilePath
	}

	var oddsFetcher collector.OddsFetcher
	if a.cfg.Fetch.OddsURL != "" {
		oddsFetcher = a.scoreboard()
	}
	c := collector.New(a.store, a.stats, oddsFetcher, cc).WithMetrics(a.metrics)
	if a.cfg.Export.Enabled {
		c.WithExporter(export.NewPostgres(a.cfg.Export.PostgresURL, a.cfg.Export.Table))
	}
	if a.telegram != nil {
		c.WithNotifier(a.telegram)
	}

	_, err = c.Run(ctx)
	return err
}

func (a *app) train() error {
	start := time.Now()
	table, err := a.store.LoadDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("Training on %d rows", table.Len())

	_, err = model.TrainAll(a.store, table, model.Config{
		Epochs:       a.cfg.Model.Epochs,
		LearningRate: a.cfg.Model.LearningRate,
		L2:           a.cfg.Model.L2,
		HoldOut:      a.cfg.Model.HoldOut,
	})
	a.finishStage(stageTrain, start, err)
	return err
}

func (a *app) predict(ctx context.Context) error {
	start := time.Now()
	season, err := a.cfg.CurrentSeason(time.Now())
	if err != nil {
		return err
	}
	logger.Info("Predicting with %s odds for season %s", a.cfg.Sportsbook.Predict, season.ID)

	p := predict.New(a.stats, a.scoreboard(), a.store, predict.Config{
		Season:     season,
		Sportsbook: a.cfg.Sportsbook.Predict,
		StrictEras: a.cfg.Fusion.StrictEras,
		WithKelly:  a.kelly,
	})
	preds, err := p.Run(ctx)
	a.finishStage(stagePredict, start, err)
	if err != nil {
		return err
	}

	if err := predict.Render(os.Stdout, preds, a.kelly); err != nil {
		return fmt.Errorf("failed to render predictions: %w", err)
	}
	if a.telegram != nil {
		if err := a.telegram.SendPredictions(preds, a.kelly); err != nil {
			logger.Warn("Failed to send predictions to Telegram: %v", err)
		}
	}
	logger.Info("Prediction pipeline completed with %d games", len(preds))
	return nil
}

// finishStage records train and predict runs; collect records its own.
func (a *app) finishStage(stage string, start time.Time, err error) {
	run := &models.Run{ID: uuid.NewString(), Stage: stage, StartedAt: start, FinishedAt: time.Now()}
	if err != nil {
		run.Error = err.Error()
	}
	if saveErr := a.store.SaveRun(run); saveErr != nil {
		logger.Warn("Failed to record %s run: %v", stage, saveErr)
	}
	a.metrics.StageFinished(stage, run.Duration(), err == nil)
	if a.cfg.Metrics.Enabled {
		if werr := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); werr != nil {
			logger.Warn("Failed to write metrics: %v", werr)
		}
	}
}

func (a *app) notifyError(stage string, err error) {
	if a.telegram == nil {
		return
	}
	if sendErr := a.telegram.SendError(stage, err); sendErr != nil {
		logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
	}
}
