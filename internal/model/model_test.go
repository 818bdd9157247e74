package model

import (
	"errors"
	"math"
	"testing"

	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/storage"
)

// separableTable has a home win whenever W_PCT beats W_PCT.1.
func separableTable(n int) *models.Table {
	t := &models.Table{Columns: []models.Column{
		{Name: "TEAM_NAME", Categorical: true},
		{Name: "W_PCT"},
		{Name: "W_PCT.1"},
		{Name: models.ColScore},
		{Name: models.ColHomeTeamWin},
		{Name: models.ColOU},
		{Name: models.ColOUCover},
		{Name: models.ColDaysRestHome},
		{Name: models.ColDaysRestAway},
	}}
	for i := 0; i < n; i++ {
		home := float64(i%10) / 10
		away := float64((i*7)%10) / 10
		win := 0.0
		if home > away {
			win = 1
		}
		cover := float64(i % 2)
		t.Rows = append(t.Rows, []any{"Lakers", home, away, 200.0 + float64(i%30), win, 210.0, cover, 2.0, 3.0})
	}
	return t
}

var testConfig = Config{Epochs: 400, LearningRate: 0.5, L2: 0.0001, HoldOut: 0.2}

func TestTrain_MoneyLine(t *testing.T) {
	c, err := Train(separableTable(200), MoneyLine, testConfig)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	want := []string{"W_PCT", "W_PCT.1", models.ColDaysRestHome, models.ColDaysRestAway}
	if len(c.Features) != len(want) {
		t.Fatalf("features = %v, want %v", c.Features, want)
	}
	for i := range want {
		if c.Features[i] != want[i] {
			t.Fatalf("features = %v, want %v", c.Features, want)
		}
	}
	if c.TrainRows != 160 || c.TestRows != 40 {
		t.Errorf("split = %d/%d, want 160/40", c.TrainRows, c.TestRows)
	}
	if c.Precision < 0.8 {
		t.Errorf("precision = %.3f, want >= 0.8", c.Precision)
	}

	strong := c.PredictProba([]float64{0.9, 0.1, 2, 3})
	weak := c.PredictProba([]float64{0.1, 0.9, 2, 3})
	if strong[1] <= 0.5 || weak[1] >= 0.5 {
		t.Errorf("unexpected probabilities: strong %v, weak %v", strong, weak)
	}
	if math.Abs(strong[0]+strong[1]-1) > 1e-9 {
		t.Errorf("probabilities do not sum to 1: %v", strong)
	}
}

func TestTrain_OverUnderExcludesLabels(t *testing.T) {
	c, err := Train(separableTable(50), OverUnder, testConfig)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	for _, f := range c.Features {
		switch f {
		case models.ColScore, models.ColHomeTeamWin, models.ColOUCover, "TEAM_NAME":
			t.Errorf("feature %q must not be used", f)
		}
	}
	found := false
	for _, f := range c.Features {
		if f == models.ColOU {
			found = true
		}
	}
	if !found {
		t.Error("OU should be a feature of the over/under model")
	}
}

func TestTrain_Errors(t *testing.T) {
	tests := []struct {
		name  string
		table *models.Table
		spec  Spec
		want  error
	}{
		{"too few rows", separableTable(1), MoneyLine, ErrTooFewRows},
		{"missing target", &models.Table{Columns: []models.Column{{Name: "W_PCT"}}}, MoneyLine, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(tt.table, tt.spec, testConfig)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrain_MissingValues(t *testing.T) {
	table := separableTable(100)
	table.Rows[3][1] = math.NaN()
	table.Rows[4][4] = math.NaN()
	c, err := Train(table, MoneyLine, testConfig)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if c.TrainRows+c.TestRows != 99 {
		t.Errorf("rows without target should be dropped, got %d", c.TrainRows+c.TestRows)
	}
	p := c.PredictProba([]float64{math.NaN(), 0.5, 2, 3})
	if math.IsNaN(p[1]) {
		t.Error("missing feature produced NaN probability")
	}
}

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(0, ":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTrainAll_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	trained, err := TrainAll(store, separableTable(100), testConfig)
	if err != nil {
		t.Fatalf("TrainAll: %v", err)
	}
	if len(trained) != 2 {
		t.Fatalf("trained %d models, want 2", len(trained))
	}

	loaded, err := Load(store, MoneyLine.Name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	x := []float64{0.7, 0.2, 2, 3}
	if got, want := loaded.PredictProba(x), trained[0].PredictProba(x); got != want {
		t.Errorf("loaded model predicts %v, want %v", got, want)
	}

	if _, err := Load(store, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMoments(t *testing.T) {
	xs := [][]float64{
		{1, 5, math.NaN()},
		{2, 5, math.NaN()},
		{3, 5, math.NaN()},
		{math.NaN(), 5, math.NaN()},
	}
	mean, scale := moments(xs)
	if mean[0] != 2 || math.Abs(scale[0]-math.Sqrt(2.0/3)) > 1e-12 {
		t.Errorf("column 0: mean %v scale %v", mean[0], scale[0])
	}
	if mean[1] != 5 || scale[1] != 1 {
		t.Errorf("constant column: mean %v scale %v", mean[1], scale[1])
	}
	if mean[2] != 0 || scale[2] != 1 {
		t.Errorf("empty column: mean %v scale %v", mean[2], scale[2])
	}
}
