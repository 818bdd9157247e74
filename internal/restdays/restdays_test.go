package restdays

import (
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestTracker_FirstAppearanceIsTen(t *testing.T) {
	tr := NewTracker()
	if got := tr.Observe("Lakers", day(0)); got != FirstGame {
		t.Errorf("first game = %d, want %d", got, FirstGame)
	}
	if got := tr.Observe("Celtics", day(30)); got != FirstGame {
		t.Errorf("first game of another team = %d, want %d", got, FirstGame)
	}
}

func TestTracker_GapRule(t *testing.T) {
	tests := []struct {
		name string
		gap  int
		want int
	}{
		{"back to back", 1, 1},
		{"two days", 2, 2},
		{"eight days", 8, 8},
		{"nine days clamps", 9, MaxRest},
		{"long break clamps", 40, MaxRest},
		{"same day clamps", 0, MaxRest},
		{"out of order clamps", -3, MaxRest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			tr.Observe("Lakers", day(10))
			if got := tr.Observe("Lakers", day(10+tt.gap)); got != tt.want {
				t.Errorf("gap %d: got %d, want %d", tt.gap, got, tt.want)
			}
		})
	}
}

func TestTracker_PeekDoesNotRecord(t *testing.T) {
	tr := NewTracker()
	tr.Observe("Heat", day(0))
	if got := tr.Peek("Heat", day(3)); got != 3 {
		t.Errorf("Peek = %d, want 3", got)
	}
	if got := tr.Observe("Heat", day(5)); got != 5 {
		t.Errorf("Observe after Peek = %d, want 5", got)
	}
}

func TestCompute_SortsChronologically(t *testing.T) {
	// Rows arrive out of order; results must still align with input positions.
	games := []Game{
		{Date: day(5), Home: "Lakers", Away: "Celtics"}, // second Lakers game
		{Date: day(0), Home: "Lakers", Away: "Heat"},    // first Lakers game
		{Date: day(2), Home: "Celtics", Away: "Heat"},
	}
	got := Compute(games)
	want := []Rest{
		{Home: 5, Away: 3},
		{Home: FirstGame, Away: FirstGame},
		{Home: FirstGame, Away: 2},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("game %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCompute_SameDateDuplicate(t *testing.T) {
	games := []Game{
		{Date: day(0), Home: "Suns", Away: "Jazz"},
		{Date: day(0), Home: "Suns", Away: "Kings"},
	}
	got := Compute(games)
	if got[0].Home != FirstGame {
		t.Errorf("first row home = %d, want %d", got[0].Home, FirstGame)
	}
	if got[1].Home != MaxRest {
		t.Errorf("duplicate same-day row home = %d, want %d", got[1].Home, MaxRest)
	}
}

func TestCompute_PropertyFirstTenThenClamped(t *testing.T) {
	var games []Game
	teams := []string{"A", "B", "C", "D"}
	d := 0
	for i := 0; i < 40; i++ {
		d += i % 11
		games = append(games, Game{Date: day(d), Home: teams[i%4], Away: teams[(i+1)%4]})
	}
	rests := Compute(games)

	seen := make(map[string]time.Time)
	for i, g := range games {
		check := func(team string, got int) {
			prev, ok := seen[team]
			switch {
			case !ok:
				if got != FirstGame {
					t.Errorf("game %d %s: first value %d, want %d", i, team, got, FirstGame)
				}
			default:
				gap := int(g.Date.Sub(prev).Hours() / 24)
				want := MaxRest
				if gap > 0 && gap < MaxRest {
					want = gap
				}
				if got != want {
					t.Errorf("game %d %s: gap %d got %d, want %d", i, team, gap, got, want)
				}
			}
			seen[team] = g.Date
		}
		check(g.Home, rests[i].Home)
		check(g.Away, rests[i].Away)
	}
}

func TestCompute_Empty(t *testing.T) {
	if got := Compute(nil); len(got) != 0 {
		t.Errorf("got %d results for no games", len(got))
	}
}
