package odds

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
)

func f(v float64) *float64 { return &v }

func quoted(home, away string, hs, as *float64) RawGame {
	return RawGame{
		HomeTeam:   home,
		AwayTeam:   away,
		HomeScore:  hs,
		AwayScore:  as,
		Total:      map[string]float64{"bet365": 210, "fanduel": 211},
		AwaySpread: map[string]float64{"bet365": 4.5, "fanduel": 4.5},
		HomeML:     map[string]float64{"bet365": -180, "fanduel": -175},
		AwayML:     map[string]float64{"bet365": 150, "fanduel": 155},
	}
}

func TestNormalize(t *testing.T) {
	date := time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC)
	missing := quoted("Suns", "Jazz", f(100), f(99))
	delete(missing.HomeML, "bet365")

	games := []RawGame{
		quoted("Lakers", "Celtics", f(110), f(105)),
		missing,
		quoted("Heat", "Bulls", nil, nil),
		quoted("Knicks", "Nets", f(90), f(120)),
	}
	records, skips := Normalize("2021-22", date, games, "bet365", 7)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if len(skips) != 2 {
		t.Fatalf("got %d skips, want 2", len(skips))
	}
	if skips[0].Reason != SkipNoQuote || skips[1].Reason != SkipNoScore {
		t.Errorf("unexpected skip reasons: %v", skips)
	}

	r := records[0]
	if r.Points != 215 || r.WinMargin != 5 || r.OU != 210 || r.MLHome != -180 {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.HomeWin() != 1 || r.OUCover() != 1 {
		t.Errorf("labels: win=%d cover=%d", r.HomeWin(), r.OUCover())
	}
	if r.Seq != 7 || records[1].Seq != 8 {
		t.Errorf("sequence numbers: %d, %d", r.Seq, records[1].Seq)
	}
	if records[1].HomeWin() != 0 || records[1].OUCover() != 0 {
		t.Errorf("second record labels: %+v", records[1])
	}
}

func TestApplyRestDays(t *testing.T) {
	records := []models.OddsRecord{
		{Seq: 0, Date: "2022-01-05", Home: "Lakers", Away: "Celtics"},
		{Seq: 1, Date: "2022-01-03", Home: "Lakers", Away: "Heat"},
		{Seq: 2, Date: "2022-01-06", Home: "Heat", Away: "Celtics"},
	}
	if err := ApplyRestDays(records); err != nil {
		t.Fatalf("ApplyRestDays: %v", err)
	}
	want := [][2]int{{2, 10}, {10, 10}, {3, 1}}
	for i, w := range want {
		if records[i].DaysRestHome != w[0] || records[i].DaysRestAway != w[1] {
			t.Errorf("record %d: got %d/%d, want %d/%d", i, records[i].DaysRestHome, records[i].DaysRestAway, w[0], w[1])
		}
	}

	bad := []models.OddsRecord{{Date: "not a date", Home: "A", Away: "B"}}
	if err := ApplyRestDays(bad); err == nil {
		t.Error("expected error for malformed date")
	}
}

const archiveCSV = `,Date,Home,Away,OU,Spread,ML_Home,ML_Away,Points,Win_Margin,Extra
0,2021-10-19,Milwaukee Bucks,Brooklyn Nets,236.5,1.5,-125,105,231,23,x
1,2021-10-19 00:00:00,Los Angeles Lakers,Golden State Warriors,229,-3,-150,130,235,-7,x
2,garbage,Boston Celtics,New York Knicks,220,2,-110,-110,200,4,x
3,2022-06-20,Boston Celtics,Golden State Warriors,210,3,120,-140,200,-4,x
4,2022-10-18,Boston Celtics,Philadelphia 76ers,215,-2,-130,110,243,9,x
`

func TestReadArchiveAndSplit(t *testing.T) {
	res, err := ReadArchive(strings.NewReader(archiveCSV))
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if len(res.Records) != 4 || res.Skipped != 1 {
		t.Fatalf("got %d records / %d skipped, want 4 / 1", len(res.Records), res.Skipped)
	}
	if res.Records[1].Date != "2021-10-19" {
		t.Errorf("timestamp not truncated: %s", res.Records[1].Date)
	}

	mk := func(id, start, end string) models.Season {
		s, _ := models.ParseDate(start)
		e, _ := models.ParseDate(end)
		return models.Season{ID: id, StartDate: s, EndDate: e, StartYear: s.Year()}
	}
	seasons := []models.Season{
		mk("2021-22", "2021-10-19", "2022-04-10"),
		mk("2022-23", "2022-10-18", "2023-04-09"),
	}
	split := SplitBySeason(res.Records, seasons)
	if len(split["2021-22"]) != 2 {
		t.Errorf("2021-22: got %d records, want 2", len(split["2021-22"]))
	}
	if len(split["2022-23"]) != 1 {
		t.Errorf("2022-23: got %d records, want 1", len(split["2022-23"]))
	}
	for id, recs := range split {
		for i, r := range recs {
			if r.Season != id || r.Seq != i {
				t.Errorf("%s record %d has season %s seq %d", id, i, r.Season, r.Seq)
			}
		}
	}
}

func TestReadArchive_MissingColumn(t *testing.T) {
	_, err := ReadArchive(strings.NewReader("Date,Home,Away\n2021-10-19,A,B\n"))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if _, err := ReadArchive(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty archive")
	}
}

func TestWriteCSV(t *testing.T) {
	records := []models.OddsRecord{
		{Date: "2022-01-05", Home: "Lakers", Away: "Celtics", OU: 210.5, Points: 215, WinMargin: 5, DaysRestHome: 10, DaysRestAway: 2},
		{Date: "2022-01-06", Home: "Heat", Away: "Bulls", OU: 220},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasSuffix(lines[0], "Days_Rest_Home,Days_Rest_Away") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2022-01-05,Lakers,Celtics,210.5,0,0,0,215,5,10,2" {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",,") {
		t.Errorf("missing rest days should be empty cells: %s", lines[2])
	}
}
