package sbr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/nbafuse/internal/fetch"
	"github.com/rewired-gh/nbafuse/internal/odds"
)

func page(lines string) string {
	return fmt.Sprintf(`{"props":{"pageProps":{"oddsTables":[{"oddsTableModel":{"gameRows":[
{"gameView":{"homeTeam":{"fullName":"Los Angeles Lakers"},"awayTeam":{"fullName":"Boston Celtics"},"homeTeamScore":110,"awayTeamScore":105},
 "oddsViews":[%s,null]},
{"gameView":{"homeTeam":{"fullName":"Miami Heat"},"awayTeam":{"fullName":"Chicago Bulls"},"homeTeamScore":0,"awayTeamScore":0},
 "oddsViews":[%s]}
]}}]}}}`, lines, lines)
}

var pages = map[string]string{
	"pointspread": page(`{"sportsbook":"bet365","currentLine":{"homeSpread":-4.5,"awaySpread":4.5}}`),
	"money-line":  page(`{"sportsbook":"bet365","currentLine":{"homeOdds":-180,"awayOdds":150}}`),
	"totals":      page(`{"sportsbook":"bet365","currentLine":{"total":210.5}}`),
}

func TestScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") != "2022-01-05" {
			t.Errorf("unexpected date: %s", r.URL.RawQuery)
		}
		market := strings.Trim(r.URL.Path, "/")
		body, ok := pages[market]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// Serve one market as a full HTML page.
		if market == "totals" {
			body = `<html><body><script id="__NEXT_DATA__" type="application/json">` + body + `</script></body></html>`
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	c := NewClient(fetch.NewClient(5*time.Second, "", 0), server.URL+"/{market}/?date={date}")
	games, err := c.Scoreboard(context.Background(), time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	g := games[0]
	q, ok := g.Quote("bet365")
	if !ok {
		t.Fatalf("bet365 quote incomplete: %+v", g)
	}
	if q.Total != 210.5 || q.AwaySpread != 4.5 || q.HomeML != -180 || q.AwayML != 150 {
		t.Errorf("unexpected quote: %+v", q)
	}
	if g.HomeScore == nil || *g.HomeScore != 110 {
		t.Errorf("home score = %v", g.HomeScore)
	}
	if games[1].HomeScore != nil {
		t.Error("unplayed game should have no score")
	}

	records, skips := odds.Normalize("2021-22", time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC), games, "bet365", 0)
	if len(records) != 1 || len(skips) != 1 || skips[0].Reason != odds.SkipNoScore {
		t.Errorf("normalize: %d records, skips %v", len(records), skips)
	}
}

func TestParsePage_NoData(t *testing.T) {
	if _, err := parsePage([]byte("<html></html>")); !errors.Is(err, ErrNoPageData) {
		t.Errorf("got %v, want ErrNoPageData", err)
	}
	rows, err := parsePage([]byte(`{"props":{"pageProps":{"oddsTables":[]}}}`))
	if err != nil || len(rows) != 0 {
		t.Errorf("empty board: rows=%d err=%v", len(rows), err)
	}
}
