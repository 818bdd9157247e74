package models

import "time"

// Run records one execution of the collection stage.
type Run struct {
	ID             string
	Stage          string
	StartedAt      time.Time
	FinishedAt     time.Time
	SnapshotsSaved int
	FetchGaps      int
	OddsRecords    int
	RowsFused      int
	GamesSkipped   int
	SeasonsFailed  int
	Error          string
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
