package models

// Prediction is the model output for one of today's games.
type Prediction struct {
	Date        string
	Home        string
	Away        string
	HomeWinProb float64
	OverProb    float64
	Total       float64

	HomeML float64
	AwayML float64

	// Set when expected value and Kelly stakes were requested.
	EVHome    float64
	EVAway    float64
	KellyHome float64
	KellyAway float64
}

// Winner returns the predicted winner and the probability assigned to it.
func (p *Prediction) Winner() (team string, prob float64) {
	if p.HomeWinProb >= 0.5 {
		return p.Home, p.HomeWinProb
	}
	return p.Away, 1 - p.HomeWinProb
}

// Loser returns the team not picked by Winner.
func (p *Prediction) Loser() string {
	if p.HomeWinProb >= 0.5 {
		return p.Away
	}
	return p.Home
}

// Over reports whether the over is the predicted side of the total, with its
// probability.
func (p *Prediction) Over() (over bool, prob float64) {
	if p.OverProb > 0.5 {
		return true, p.OverProb
	}
	return false, 1 - p.OverProb
}
