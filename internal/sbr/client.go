// Package sbr reads daily NBA scoreboards with per-sportsbook lines from
// sportsbookreview pages.
package sbr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rewired-gh/nbafuse/internal/fetch"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/odds"
)

// Market is one odds page of the scoreboard.
type Market string

const (
	MarketSpread    Market = "pointspread"
	MarketMoneyLine Market = "money-line"
	MarketTotals    Market = "totals"
)

// Markets are fetched in this order for every date.
var Markets = []Market{MarketSpread, MarketMoneyLine, MarketTotals}

var (
	nextDataOpen  = []byte(`<script id="__NEXT_DATA__" type="application/json">`)
	nextDataClose = []byte(`</script>`)
)

// ErrNoPageData is returned when a page carries no embedded scoreboard data.
var ErrNoPageData = errors.New("page has no scoreboard data")

// Client fetches scoreboards. The URL template takes {market} and {date} placeholders.
type Client struct {
	http     *fetch.Client
	template string
}

// NewClient creates a scoreboard client.
func NewClient(http *fetch.Client, template string) *Client {
	return &Client{http: http, template: template}
}

// URL formats the page URL of market for date.
func (c *Client) URL(market Market, date time.Time) string {
	return strings.NewReplacer("{market}", string(market), "{date}", models.DateKey(date)).Replace(c.template)
}

type line struct {
	HomeOdds   *float64 `json:"homeOdds"`
	AwayOdds   *float64 `json:"awayOdds"`
	HomeSpread *float64 `json:"homeSpread"`
	AwaySpread *float64 `json:"awaySpread"`
	Total      *float64 `json:"total"`
}

type oddsView struct {
	Sportsbook  string `json:"sportsbook"`
	CurrentLine *line  `json:"currentLine"`
}

type team struct {
	FullName string `json:"fullName"`
}

type gameRow struct {
	GameView struct {
		HomeTeam      team     `json:"homeTeam"`
		AwayTeam      team     `json:"awayTeam"`
		HomeTeamScore *float64 `json:"homeTeamScore"`
		AwayTeamScore *float64 `json:"awayTeamScore"`
	} `json:"gameView"`
	OddsViews []*oddsView `json:"oddsViews"`
}

type nextData struct {
	Props struct {
		PageProps struct {
			OddsTables []struct {
				OddsTableModel struct {
					GameRows []gameRow `json:"gameRows"`
				} `json:"oddsTableModel"`
			} `json:"oddsTables"`
		} `json:"pageProps"`
	} `json:"props"`
}

// Scoreboard returns the games of date with the lines of every sportsbook.
// A date without games yields an empty slice.
func (c *Client) Scoreboard(ctx context.Context, date time.Time) ([]odds.RawGame, error) {
	var games []odds.RawGame
	index := make(map[string]int)
	for _, m := range Markets {
		body, err := c.http.Get(ctx, c.URL(m, date))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s odds for %s: %w", m, models.DateKey(date), err)
		}
		rows, err := parsePage(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s odds for %s: %w", m, models.DateKey(date), err)
		}
		for i := range rows {
			games = merge(games, index, m, &rows[i])
		}
	}
	return games, nil
}

// parsePage extracts game rows from a page body or from bare page JSON.
func parsePage(body []byte) ([]gameRow, error) {
	payload := bytes.TrimSpace(body)
	if len(payload) == 0 || payload[0] != '{' {
		start := bytes.Index(body, nextDataOpen)
		if start < 0 {
			return nil, ErrNoPageData
		}
		payload = body[start+len(nextDataOpen):]
		end := bytes.Index(payload, nextDataClose)
		if end < 0 {
			return nil, ErrNoPageData
		}
		payload = payload[:end]
	}

	var data nextData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode page data: %w", err)
	}
	var rows []gameRow
	for _, t := range data.Props.PageProps.OddsTables {
		rows = append(rows, t.OddsTableModel.GameRows...)
	}
	return rows, nil
}

func merge(games []odds.RawGame, index map[string]int, m Market, row *gameRow) []odds.RawGame {
	gv := &row.GameView
	key := gv.HomeTeam.FullName + "|" + gv.AwayTeam.FullName
	i, ok := index[key]
	if !ok {
		g := odds.RawGame{
			HomeTeam:   gv.HomeTeam.FullName,
			AwayTeam:   gv.AwayTeam.FullName,
			Total:      map[string]float64{},
			AwaySpread: map[string]float64{},
			HomeML:     map[string]float64{},
			AwayML:     map[string]float64{},
		}
		if final(gv.HomeTeamScore, gv.AwayTeamScore) {
			g.HomeScore, g.AwayScore = gv.HomeTeamScore, gv.AwayTeamScore
		}
		i = len(games)
		index[key] = i
		games = append(games, g)
	}

	g := &games[i]
	for _, ov := range row.OddsViews {
		if ov == nil || ov.CurrentLine == nil || ov.Sportsbook == "" {
			continue
		}
		l := ov.CurrentLine
		switch m {
		case MarketSpread:
			set(g.AwaySpread, ov.Sportsbook, l.AwaySpread)
		case MarketMoneyLine:
			set(g.HomeML, ov.Sportsbook, l.HomeOdds)
			set(g.AwayML, ov.Sportsbook, l.AwayOdds)
		case MarketTotals:
			set(g.Total, ov.Sportsbook, l.Total)
		}
	}
	return games
}

// final reports whether both scores are present and the game has been played.
func final(home, away *float64) bool {
	return home != nil && away != nil && *home+*away > 0
}

func set(m map[string]float64, book string, v *float64) {
	if v != nil {
		m[book] = *v
	}
}
