package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/odds"
	"github.com/rewired-gh/nbafuse/internal/stats"
	"github.com/rewired-gh/nbafuse/internal/storage"
	"github.com/rewired-gh/nbafuse/internal/teamindex"
)

const testArchive = `Date,Home,Away,OU,Spread,ML_Home,ML_Away,Points,Win_Margin
2021-06-01,Lakers,Suns,220,1,110,-130,230,-6
2022-01-04,Lakers,Celtics,210,-3,-150,130,215,5
2022-01-06,Lakers,Heat,205,2,120,-140,200,-4
`

type fakeStats struct {
	missing map[string]bool
	calls   int
}

func (f *fakeStats) FetchDay(_ context.Context, season models.Season, date time.Time) (*models.Snapshot, error) {
	f.calls++
	key := models.DateKey(date)
	if f.missing[key] {
		return nil, fmt.Errorf("%s: %w", key, stats.ErrNoData)
	}
	names := teamindex.Teams(teamindex.EraFor(season.ID))
	snap := &models.Snapshot{Date: key, Columns: []string{"TEAM_ID", "TEAM_NAME", "W_PCT", "Date"}}
	for i, name := range names {
		snap.Rows = append(snap.Rows, []string{fmt.Sprint(1610612737 + i), name, fmt.Sprintf("0.%02d", i), key})
	}
	return snap, nil
}

type fakeBoard map[string][]odds.RawGame

func (f fakeBoard) Scoreboard(_ context.Context, date time.Time) ([]odds.RawGame, error) {
	return f[models.DateKey(date)], nil
}

type fakeExporter struct{ rows int }

func (f *fakeExporter) Export(_ context.Context, t *models.Table) (int64, error) {
	f.rows = t.Len()
	return int64(t.Len()), nil
}

type fakeNotifier struct{ runs []*models.Run }

func (f *fakeNotifier) SendRunSummary(run *models.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func season(t *testing.T, id, start, end string) models.Season {
	t.Helper()
	s, err := models.ParseDate(start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := models.ParseDate(end)
	if err != nil {
		t.Fatal(err)
	}
	return models.Season{ID: id, StartDate: s, EndDate: e, StartYear: s.Year()}
}

func score(v float64) *float64 { return &v }

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(0, ":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig(t *testing.T) Config {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "odds.csv")
	if err := os.WriteFile(archive, []byte(testArchive), 0o644); err != nil {
		t.Fatal(err)
	}
	s2021 := season(t, "2021-22", "2022-01-04", "2022-01-06")
	s2022 := season(t, "2022-23", "2022-10-18", "2022-10-18")
	return Config{
		FetchData:    []models.Season{s2021},
		FetchOddData: []models.Season{s2022},
		CreateGame:   []models.Season{s2021, s2022},
		ArchivePath:  archive,
		Sportsbook:   "bet365",
	}
}

func testBoard() fakeBoard {
	return fakeBoard{
		"2022-10-18": {
			{
				HomeTeam: "Warriors", AwayTeam: "Lakers",
				HomeScore: score(123), AwayScore: score(109),
				Total:      map[string]float64{"bet365": 227.5},
				AwaySpread: map[string]float64{"bet365": 7.5},
				HomeML:     map[string]float64{"bet365": -300},
				AwayML:     map[string]float64{"bet365": 240},
			},
			{
				HomeTeam: "Celtics", AwayTeam: "76ers",
				HomeScore: score(126), AwayScore: score(117),
				Total: map[string]float64{"fanduel": 215},
			},
		},
	}
}

func TestCollector_Run(t *testing.T) {
	store := newTestStorage(t)
	cfg := testConfig(t)
	cfg.ArchiveOutputDir = filepath.Join(t.TempDir(), "seasons")
	st := &fakeStats{missing: map[string]bool{"2022-01-05": true}}
	exp := &fakeExporter{}
	notif := &fakeNotifier{}

	run, err := New(store, st, testBoard(), cfg).WithExporter(exp).WithNotifier(notif).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if st.calls != 3 {
		t.Errorf("FetchDay called %d times, want 3", st.calls)
	}
	if run.SnapshotsSaved != 2 || run.FetchGaps != 1 {
		t.Errorf("snapshots/gaps = %d/%d, want 2/1", run.SnapshotsSaved, run.FetchGaps)
	}
	if run.OddsRecords != 3 {
		t.Errorf("odds records = %d, want 3", run.OddsRecords)
	}
	if run.RowsFused != 2 || run.GamesSkipped != 1 || run.SeasonsFailed != 0 {
		t.Errorf("rows/skipped/failed = %d/%d/%d, want 2/1/0", run.RowsFused, run.GamesSkipped, run.SeasonsFailed)
	}
	if run.Error != "" {
		t.Errorf("unexpected run error %q", run.Error)
	}

	archived, err := store.GetOdds("2021-22")
	if err != nil {
		t.Fatalf("GetOdds: %v", err)
	}
	if len(archived) != 2 {
		t.Fatalf("got %d archived records, want 2", len(archived))
	}
	last := archived[1]
	if last.DaysRestHome != 2 || last.DaysRestAway != 10 {
		t.Errorf("rest days = %d/%d, want 2/10", last.DaysRestHome, last.DaysRestAway)
	}
	if _, err := os.Stat(filepath.Join(cfg.ArchiveOutputDir, "odds_2021-22.csv")); err != nil {
		t.Errorf("season file not written: %v", err)
	}

	scraped, err := store.GetOdds("2022-23")
	if err != nil {
		t.Fatalf("GetOdds: %v", err)
	}
	if len(scraped) != 1 || scraped[0].Points != 232 || scraped[0].MLHome != -300 {
		t.Errorf("unexpected scraped records: %+v", scraped)
	}

	table, err := store.LoadDataset()
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("dataset has %d rows, want 2", table.Len())
	}
	if exp.rows != 2 {
		t.Errorf("exported %d rows, want 2", exp.rows)
	}

	if len(notif.runs) != 1 || notif.runs[0].ID != run.ID {
		t.Errorf("notifier got %d runs", len(notif.runs))
	}
	saved, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if saved.Stage != StageCollect || saved.RowsFused != 2 {
		t.Errorf("unexpected saved run: %+v", saved)
	}
}

func TestCollector_SkipExisting(t *testing.T) {
	store := newTestStorage(t)
	cfg := testConfig(t)
	cfg.SkipExisting = true
	cfg.FetchOddData = nil

	first := &fakeStats{}
	if _, err := New(store, first, nil, cfg).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second := &fakeStats{}
	run, err := New(store, second, nil, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.calls != 0 || run.SnapshotsSaved != 0 {
		t.Errorf("second run fetched %d days, saved %d", second.calls, run.SnapshotsSaved)
	}
	if run.RowsFused != 2 {
		t.Errorf("rows fused = %d, want 2", run.RowsFused)
	}
}

func TestCollector_NoGamesKeepsDataset(t *testing.T) {
	store := newTestStorage(t)
	cfg := testConfig(t)
	cfg.ArchivePath = ""
	cfg.FetchOddData = nil

	run, err := New(store, &fakeStats{}, nil, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.SeasonsFailed != 2 || run.RowsFused != 0 {
		t.Errorf("failed/rows = %d/%d, want 2/0", run.SeasonsFailed, run.RowsFused)
	}
	if _, err := store.LoadDataset(); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no dataset, got %v", err)
	}
}

func TestCollector_Cancelled(t *testing.T) {
	store := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := New(store, &fakeStats{}, testBoard(), testConfig(t)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if run.Error == "" {
		t.Error("run error not recorded")
	}
	if _, err := store.GetRun(run.ID); err != nil {
		t.Errorf("cancelled run not saved: %v", err)
	}
}
