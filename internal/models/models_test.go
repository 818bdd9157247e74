package models

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestSeasonValidate(t *testing.T) {
	tests := []struct {
		name    string
		season  Season
		wantErr bool
	}{
		{
			name:   "valid season",
			season: Season{ID: "2021-22", StartDate: date(t, "2021-10-19"), EndDate: date(t, "2022-04-10"), StartYear: 2021},
		},
		{
			name:    "empty ID",
			season:  Season{StartDate: date(t, "2021-10-19"), EndDate: date(t, "2022-04-10"), StartYear: 2021},
			wantErr: true,
		},
		{
			name:    "end before start",
			season:  Season{ID: "2021-22", StartDate: date(t, "2022-04-10"), EndDate: date(t, "2021-10-19"), StartYear: 2021},
			wantErr: true,
		},
		{
			name:    "missing start year",
			season:  Season{ID: "2021-22", StartDate: date(t, "2021-10-19"), EndDate: date(t, "2022-04-10")},
			wantErr: true,
		},
		{
			name:   "single day season",
			season: Season{ID: "bubble", StartDate: date(t, "2020-07-30"), EndDate: date(t, "2020-07-30"), StartYear: 2019},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.season.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Season.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeasonContains(t *testing.T) {
	s := Season{ID: "2021-22", StartDate: date(t, "2021-10-19"), EndDate: date(t, "2022-04-10"), StartYear: 2021}
	cases := map[string]bool{
		"2021-10-18": false,
		"2021-10-19": true,
		"2022-01-05": true,
		"2022-04-10": true,
		"2022-04-11": false,
	}
	for d, want := range cases {
		if got := s.Contains(date(t, d)); got != want {
			t.Errorf("Contains(%s) = %v, want %v", d, got, want)
		}
	}
}

func TestParseDate_AcceptsTimestamp(t *testing.T) {
	d, err := ParseDate("2022-01-05 00:00:00")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if DateKey(d) != "2022-01-05" {
		t.Errorf("got %s, want 2022-01-05", DateKey(d))
	}
	if _, err := ParseDate("05/01/2022"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestOddsRecordLabels(t *testing.T) {
	tests := []struct {
		name      string
		rec       OddsRecord
		wantWin   int
		wantCover int
	}{
		{"home win over", OddsRecord{OU: 210, Points: 215, WinMargin: 5}, 1, 1},
		{"away win under", OddsRecord{OU: 220, Points: 201, WinMargin: -3}, 0, 0},
		{"push on total is not a cover", OddsRecord{OU: 210, Points: 210, WinMargin: 2}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.HomeWin(); got != tt.wantWin {
				t.Errorf("HomeWin() = %d, want %d", got, tt.wantWin)
			}
			if got := tt.rec.OUCover(); got != tt.wantCover {
				t.Errorf("OUCover() = %d, want %d", got, tt.wantCover)
			}
		})
	}
}

func TestOddsRecordValidate(t *testing.T) {
	ok := OddsRecord{Season: "2021-22", Date: "2022-01-05", Home: "Lakers", Away: "Celtics", Points: 215}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	same := ok
	same.Away = "Lakers"
	if err := same.Validate(); err == nil {
		t.Error("expected error when home equals away")
	}
	bad := ok
	bad.Date = "Jan 5"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestSnapshotWithDateColumn(t *testing.T) {
	s := &Snapshot{
		Date:    "2022-01-05",
		Columns: []string{"TEAM_ID", "TEAM_NAME", "W"},
		Rows:    [][]string{{"1", "Atlanta Hawks", "20"}, {"2", "Boston Celtics", "19"}},
	}
	out := s.WithDateColumn()
	if len(out.Columns) != 4 || out.Columns[3] != DateColumn {
		t.Fatalf("unexpected columns: %v", out.Columns)
	}
	if out.Rows[1][3] != "2022-01-05" {
		t.Errorf("date not set on row: %v", out.Rows[1])
	}
	if len(s.Columns) != 3 {
		t.Error("original snapshot was mutated")
	}
	again := out.WithDateColumn()
	if len(again.Columns) != 4 {
		t.Errorf("Date column duplicated: %v", again.Columns)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLabelsFor(t *testing.T) {
	rec := &OddsRecord{OU: 210, Points: 215, WinMargin: 5, DaysRestHome: 10, DaysRestAway: 2}
	l := LabelsFor(rec)
	want := []float64{215, 1, 210, 1, 10, 2}
	got := l.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", LabelColumns[i], got[i], want[i])
		}
	}
}

func TestPredictionPicks(t *testing.T) {
	p := Prediction{Home: "Lakers", Away: "Celtics", HomeWinProb: 0.25, OverProb: 0.75}
	team, prob := p.Winner()
	if team != "Celtics" || prob != 0.75 || p.Loser() != "Lakers" {
		t.Errorf("Winner() = %s %.2f, loser %s", team, prob, p.Loser())
	}
	if over, prob := p.Over(); !over || prob != 0.75 {
		t.Errorf("Over() = %v %.2f", over, prob)
	}
	p.OverProb = 0.5
	if over, _ := p.Over(); over {
		t.Error("even total should pick the under")
	}
}
