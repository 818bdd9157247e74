// Package restdays computes the number of days since each team's previous game.
package restdays

import (
	"sort"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
)

const (
	// FirstGame is recorded for a team's first appearance in a season table.
	FirstGame = 10
	// MaxRest caps every later value. Gaps of zero or fewer days also map to
	// MaxRest, matching the historical dataset.
	MaxRest = 9
)

// Tracker holds each team's last-played date for one season table.
// Create one per table and discard it afterwards.
type Tracker struct {
	last map[string]time.Time
}

// NewTracker creates a Tracker with no games recorded.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]time.Time)}
}

// Peek returns the rest value team would get on date without recording the game.
func (t *Tracker) Peek(team string, date time.Time) int {
	prev, ok := t.last[team]
	if !ok {
		return FirstGame
	}
	return clamp(daysBetween(prev, date))
}

// Observe returns the rest value for team playing on date and records date as
// the team's last game.
func (t *Tracker) Observe(team string, date time.Time) int {
	rest := t.Peek(team, date)
	t.last[team] = models.TruncateDay(date)
	return rest
}

func daysBetween(from, to time.Time) int {
	return int(models.TruncateDay(to).Sub(models.TruncateDay(from)).Hours() / 24)
}

func clamp(d int) int {
	if d > 0 && d < MaxRest {
		return d
	}
	return MaxRest
}

// Game is one row of a season table.
type Game struct {
	Date time.Time
	Home string
	Away string
}

// Rest holds the rest values of one game.
type Rest struct {
	Home int
	Away int
}

// Compute returns rest values aligned with games. Games are processed in
// chronological order; games on the same date keep their input order.
func Compute(games []Game) []Rest {
	order := make([]int, len(games))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return games[order[a]].Date.Before(games[order[b]].Date)
	})

	tracker := NewTracker()
	out := make([]Rest, len(games))
	for _, i := range order {
		g := games[i]
		out[i] = Rest{
			Home: tracker.Observe(g.Home, g.Date),
			Away: tracker.Observe(g.Away, g.Date),
		}
	}
	return out
}
