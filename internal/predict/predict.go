// Package predict runs the trained classifiers on today's board.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rewired-gh/nbafuse/internal/betting"
	"github.com/rewired-gh/nbafuse/internal/dataset"
	"github.com/rewired-gh/nbafuse/internal/fusion"
	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/model"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/odds"
	"github.com/rewired-gh/nbafuse/internal/restdays"
	"github.com/rewired-gh/nbafuse/internal/storage"
	"github.com/rewired-gh/nbafuse/internal/teamindex"
)

// StagePredict names the prediction stage.
const StagePredict = "predict"

// ErrNoGames is returned when the board has no game quoted by the sportsbook.
var ErrNoGames = errors.New("no games with odds today")

// BoardFetcher fetches one day's scoreboard.
type BoardFetcher interface {
	Scoreboard(ctx context.Context, date time.Time) ([]odds.RawGame, error)
}

// StatsFetcher fetches the season-to-date team statistics.
type StatsFetcher interface {
	FetchDay(ctx context.Context, season models.Season, date time.Time) (*models.Snapshot, error)
}

// Store provides the current season's odds table and the trained models.
type Store interface {
	fusion.OddsSource
	model.Loader
}

// Config holds prediction settings.
type Config struct {
	Season     models.Season
	Sportsbook string
	StrictEras bool
	WithKelly  bool
}

// Predictor builds today's feature rows and scores them.
type Predictor struct {
	stats StatsFetcher
	board BoardFetcher
	store Store
	cfg   Config
	join  *fusion.Engine
	now   func() time.Time
}

// New creates a Predictor.
func New(stats StatsFetcher, board BoardFetcher, store Store, cfg Config) *Predictor {
	return &Predictor{
		stats: stats,
		board: board,
		store: store,
		cfg:   cfg,
		join:  fusion.New(nil, teamindex.New(cfg.StrictEras)),
		now:   time.Now,
	}
}

// Run predicts every game on today's board quoted by the configured book.
func (p *Predictor) Run(ctx context.Context) ([]models.Prediction, error) {
	today := models.TruncateDay(p.now())

	ml, err := model.Load(p.store, model.MoneyLine.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load money-line model: %w", err)
	}
	ou, err := model.Load(p.store, model.OverUnder.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load over/under model: %w", err)
	}

	logger.Info("Fetching games and odds from %s", p.cfg.Sportsbook)
	games, err := p.board.Scoreboard(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's board: %w", err)
	}

	snap, err := p.stats.FetchDay(ctx, p.cfg.Season, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team statistics: %w", err)
	}
	if err := p.join.CheckSnapshot(p.cfg.Season.ID, snap); err != nil {
		return nil, fmt.Errorf("team statistics unusable: %w", err)
	}
	tracker := p.restTracker()

	var preds []models.Prediction
	for i := range games {
		g := &games[i]
		pred, err := p.predictGame(g, snap, tracker, today, ml, ou)
		if err != nil {
			logger.Warn("Skipping %s vs %s: %v", g.HomeTeam, g.AwayTeam, err)
			continue
		}
		preds = append(preds, *pred)
	}
	if len(preds) == 0 {
		return nil, ErrNoGames
	}
	return preds, nil
}

func (p *Predictor) predictGame(g *odds.RawGame, snap *models.Snapshot, tracker *restdays.Tracker,
	today time.Time, ml, ou *model.Classifier) (*models.Prediction, error) {
	total, ok := g.Total[p.cfg.Sportsbook]
	if !ok {
		return nil, fmt.Errorf("no %s total", p.cfg.Sportsbook)
	}
	cols, vals, err := p.join.Join(p.cfg.Season.ID, snap, g.HomeTeam, g.AwayTeam)
	if err != nil {
		return nil, err
	}

	features := make(map[string]float64, len(cols)+3)
	for i, c := range cols {
		features[c] = dataset.Float(vals[i])
	}
	features[models.ColOU] = total
	features[models.ColDaysRestHome] = float64(tracker.Peek(g.HomeTeam, today))
	features[models.ColDaysRestAway] = float64(tracker.Peek(g.AwayTeam, today))

	pred := &models.Prediction{
		Date:        models.DateKey(today),
		Home:        g.HomeTeam,
		Away:        g.AwayTeam,
		Total:       total,
		HomeML:      g.HomeML[p.cfg.Sportsbook],
		AwayML:      g.AwayML[p.cfg.Sportsbook],
		HomeWinProb: ml.PredictProba(vector(ml.Features, features))[1],
		OverProb:    ou.PredictProba(vector(ou.Features, features))[1],
	}
	if p.cfg.WithKelly {
		pHome := pred.HomeWinProb
		if pred.HomeML != 0 && pred.AwayML != 0 {
			pred.EVHome = betting.ExpectedValue(pHome, pred.HomeML)
			pred.EVAway = betting.ExpectedValue(1-pHome, pred.AwayML)
		}
		pred.KellyHome = betting.KellyFraction(pred.HomeML, pHome)
		pred.KellyAway = betting.KellyFraction(pred.AwayML, 1-pHome)
	}
	return pred, nil
}

// restTracker replays the season's stored games so Peek reports today's rest.
// A season without an odds table gives every team FirstGame rest.
func (p *Predictor) restTracker() *restdays.Tracker {
	tracker := restdays.NewTracker()
	records, err := p.store.GetOdds(p.cfg.Season.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read %s: %v", models.OddsTableName(p.cfg.Season.ID), err)
		} else {
			logger.Warn("No odds table for %s, rest days default to %d", p.cfg.Season.ID, restdays.FirstGame)
		}
		return tracker
	}

	type played struct {
		date       time.Time
		home, away string
	}
	games := make([]played, 0, len(records))
	for i := range records {
		d, err := models.ParseDate(records[i].Date)
		if err != nil {
			continue
		}
		games = append(games, played{d, records[i].Home, records[i].Away})
	}
	sort.SliceStable(games, func(a, b int) bool { return games[a].date.Before(games[b].date) })
	for _, g := range games {
		tracker.Observe(g.home, g.date)
		tracker.Observe(g.away, g.date)
	}
	return tracker
}

// vector orders values by names. Unknown names are NaN.
func vector(names []string, values map[string]float64) []float64 {
	out := make([]float64, len(names))
	for i, n := range names {
		v, ok := values[n]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
