package fusion

import (
	"errors"
	"fmt"

	"github.com/rewired-gh/nbafuse/internal/models"
)

var (
	// ErrSeasonMissing marks a season whose odds table does not exist or is empty.
	ErrSeasonMissing = errors.New("odds table missing")
	// ErrIncompleteSnapshot marks a snapshot whose team count differs from the era's.
	ErrIncompleteSnapshot = errors.New("incomplete snapshot")
	// ErrBadRow marks a snapshot row that is missing or does not match the header.
	ErrBadRow = errors.New("malformed snapshot row")
)

// SkipReason classifies why a game produced no fused row.
type SkipReason string

const (
	SkipUnsettled          SkipReason = "unsettled"
	SkipNoSnapshot         SkipReason = "no_snapshot"
	SkipSnapshotError      SkipReason = "snapshot_error"
	SkipIncompleteSnapshot SkipReason = "incomplete_snapshot"
	SkipUnknownTeam        SkipReason = "unknown_team"
	SkipBadRow             SkipReason = "bad_row"
)

// Skip records one game that fusion passed over.
type Skip struct {
	Season string
	Date   string
	Home   string
	Away   string
	Reason SkipReason
	Err    error
}

func (s Skip) String() string {
	msg := fmt.Sprintf("%s %s %s vs %s: %s", s.Season, s.Date, s.Home, s.Away, s.Reason)
	if s.Err != nil {
		msg += ": " + s.Err.Error()
	}
	return msg
}

// GameOutcome is the result of fusing one odds record: exactly one of Row and Skip is set.
type GameOutcome struct {
	Row  *models.FusedRow
	Skip *Skip
}

// SeasonResult collects the rows and skips of one season. Err is set when the
// season could not be processed at all; Rows and Skips are then empty.
type SeasonResult struct {
	Season string
	Rows   []models.FusedRow
	Skips  []Skip
	Err    error
}

// SkipCounts tallies skips by reason.
func (r *SeasonResult) SkipCounts() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, s := range r.Skips {
		counts[s.Reason]++
	}
	return counts
}

// Totals sums rows, skips and failed seasons across results.
func Totals(results []SeasonResult) (rows, skips, failed int) {
	for i := range results {
		rows += len(results[i].Rows)
		skips += len(results[i].Skips)
		if results[i].Err != nil {
			failed++
		}
	}
	return rows, skips, failed
}
