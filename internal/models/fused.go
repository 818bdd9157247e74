package models

// AwaySuffix disambiguates away-team columns in a fused row.
const AwaySuffix = ".1"

// Label column names appended to every fused row, in output order.
const (
	ColScore        = "Score"
	ColHomeTeamWin  = "Home-Team-Win"
	ColOU           = "OU"
	ColOUCover      = "OU-Cover"
	ColDaysRestHome = "Days-Rest-Home"
	ColDaysRestAway = "Days-Rest-Away"
)

// LabelColumns lists the label columns in output order.
var LabelColumns = []string{ColScore, ColHomeTeamWin, ColOU, ColOUCover, ColDaysRestHome, ColDaysRestAway}

// Labels are the scalar outcomes attached to a fused row.
type Labels struct {
	Score        float64
	HomeTeamWin  int
	OU           float64
	OUCover      int
	DaysRestHome int
	DaysRestAway int
}

// Values returns the labels in LabelColumns order.
func (l Labels) Values() []float64 {
	return []float64{
		l.Score,
		float64(l.HomeTeamWin),
		l.OU,
		float64(l.OUCover),
		float64(l.DaysRestHome),
		float64(l.DaysRestAway),
	}
}

// FusedRow joins the home and away snapshot rows for one game.
// Columns and Values hold the home columns followed by the suffixed away columns.
type FusedRow struct {
	Season  string
	Date    string
	Home    string
	Away    string
	Columns []string
	Values  []string
	Labels  Labels
}

// LabelsFor derives the labels of a settled odds record.
func LabelsFor(r *OddsRecord) Labels {
	return Labels{
		Score:        r.Points,
		HomeTeamWin:  r.HomeWin(),
		OU:           r.OU,
		OUCover:      r.OUCover(),
		DaysRestHome: r.DaysRestHome,
		DaysRestAway: r.DaysRestAway,
	}
}
