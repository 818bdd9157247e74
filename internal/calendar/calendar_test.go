package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
)

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

func TestDates_InclusiveNoGaps(t *testing.T) {
	s := season(t, "2021-22", "2021-12-30", "2022-01-02")
	got := Dates(s)
	want := []string{"2021-12-30", "2021-12-31", "2022-01-01", "2022-01-02"}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d", len(got), len(want))
	}
	for i, d := range got {
		if models.DateKey(d) != want[i] {
			t.Errorf("date %d = %s, want %s", i, models.DateKey(d), want[i])
		}
	}
}

func TestDates_LeapYearAndDST(t *testing.T) {
	s := season(t, "2019-20", "2020-02-27", "2020-03-10")
	got := Dates(s)
	if len(got) != 13 {
		t.Fatalf("got %d dates, want 13", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Sub(got[i-1]) != 24*time.Hour {
			t.Errorf("gap between %s and %s", models.DateKey(got[i-1]), models.DateKey(got[i]))
		}
	}
}

func TestDates_SingleDayAndInverted(t *testing.T) {
	if got := Dates(season(t, "x", "2022-01-05", "2022-01-05")); len(got) != 1 {
		t.Errorf("single day season: got %d dates", len(got))
	}
	inverted := models.Season{ID: "bad", StartDate: time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}
	if got := Dates(inverted); len(got) != 0 {
		t.Errorf("inverted season: got %d dates", len(got))
	}
}

func TestEach_StopsOnError(t *testing.T) {
	s := season(t, "2021-22", "2022-01-01", "2022-01-10")
	stop := errors.New("stop")
	visited := 0
	err := Each(s, func(d time.Time) error {
		visited++
		if visited == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("got %v, want stop", err)
	}
	if visited != 3 {
		t.Errorf("visited %d dates, want 3", visited)
	}
}

func TestSortedAndSeasonFor(t *testing.T) {
	seasons := map[string]models.Season{
		"2022-23": season(t, "2022-23", "2022-10-18", "2023-04-09"),
		"2021-22": season(t, "2021-22", "2021-10-19", "2022-04-10"),
	}
	sorted := Sorted(seasons)
	if sorted[0].ID != "2021-22" || sorted[1].ID != "2022-23" {
		t.Fatalf("unexpected order: %s, %s", sorted[0].ID, sorted[1].ID)
	}
	d, _ := models.ParseDate("2022-01-05")
	s, ok := SeasonFor(sorted, d)
	if !ok || s.ID != "2021-22" {
		t.Errorf("SeasonFor = %s, %v", s.ID, ok)
	}
	off, _ := models.ParseDate("2022-07-01")
	if _, ok := SeasonFor(sorted, off); ok {
		t.Error("expected no season for off-season date")
	}
}
