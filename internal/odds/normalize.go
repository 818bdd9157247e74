// Package odds turns raw sportsbook game records into per-season odds tables.
package odds

import (
	"fmt"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/restdays"
)

// RawGame is one game as reported by a scoreboard, with quotes keyed by sportsbook.
type RawGame struct {
	HomeTeam   string             `json:"home_team"`
	AwayTeam   string             `json:"away_team"`
	HomeScore  *float64           `json:"home_score"`
	AwayScore  *float64           `json:"away_score"`
	Total      map[string]float64 `json:"total"`
	AwaySpread map[string]float64 `json:"away_spread"`
	HomeML     map[string]float64 `json:"home_ml"`
	AwayML     map[string]float64 `json:"away_ml"`
}

// Quote is one sportsbook's lines for a game.
type Quote struct {
	Total      float64
	AwaySpread float64
	HomeML     float64
	AwayML     float64
}

// Quote returns the lines posted by book. ok is false when any line is missing.
func (g *RawGame) Quote(book string) (q Quote, ok bool) {
	if q.Total, ok = g.Total[book]; !ok {
		return Quote{}, false
	}
	if q.AwaySpread, ok = g.AwaySpread[book]; !ok {
		return Quote{}, false
	}
	if q.HomeML, ok = g.HomeML[book]; !ok {
		return Quote{}, false
	}
	if q.AwayML, ok = g.AwayML[book]; !ok {
		return Quote{}, false
	}
	return q, true
}

// Skip reasons reported by Normalize.
const (
	SkipNoQuote = "no_quote"
	SkipNoScore = "no_score"
	SkipInvalid = "invalid"
)

// Skip describes a raw game that did not become an odds record.
type Skip struct {
	Date   string
	Home   string
	Away   string
	Reason string
	Detail string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s %s vs %s: %s (%s)", s.Date, s.Home, s.Away, s.Reason, s.Detail)
}

// Normalize converts one day's raw games into odds records for season, using
// the quotes of book. seq is the sequence number given to the first record.
func Normalize(season string, date time.Time, games []RawGame, book string, seq int) ([]models.OddsRecord, []Skip) {
	key := models.DateKey(date)
	var records []models.OddsRecord
	var skips []Skip

	for i := range games {
		g := &games[i]
		skip := Skip{Date: key, Home: g.HomeTeam, Away: g.AwayTeam}

		q, ok := g.Quote(book)
		if !ok {
			skip.Reason, skip.Detail = SkipNoQuote, "no "+book+" odds"
			skips = append(skips, skip)
			continue
		}
		if g.HomeScore == nil || g.AwayScore == nil {
			skip.Reason, skip.Detail = SkipNoScore, "final score missing"
			skips = append(skips, skip)
			continue
		}

		rec := models.OddsRecord{
			Season:    season,
			Seq:       seq,
			Date:      key,
			Home:      g.HomeTeam,
			Away:      g.AwayTeam,
			OU:        q.Total,
			Spread:    q.AwaySpread,
			MLHome:    q.HomeML,
			MLAway:    q.AwayML,
			Points:    *g.HomeScore + *g.AwayScore,
			WinMargin: *g.HomeScore - *g.AwayScore,
		}
		if err := rec.Validate(); err != nil {
			skip.Reason, skip.Detail = SkipInvalid, err.Error()
			skips = append(skips, skip)
			continue
		}
		records = append(records, rec)
		seq++
	}
	return records, skips
}

// ApplyRestDays fills DaysRestHome and DaysRestAway for one season table.
func ApplyRestDays(records []models.OddsRecord) error {
	games := make([]restdays.Game, len(records))
	for i := range records {
		d, err := models.ParseDate(records[i].Date)
		if err != nil {
			return fmt.Errorf("record %d: %w", records[i].Seq, err)
		}
		games[i] = restdays.Game{Date: d, Home: records[i].Home, Away: records[i].Away}
	}
	for i, r := range restdays.Compute(games) {
		records[i].DaysRestHome = r.Home
		records[i].DaysRestAway = r.Away
	}
	return nil
}
