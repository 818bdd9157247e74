package models

import (
	"errors"
	"fmt"
)

// OddsRecord is one game from a season's odds table.
// DaysRestHome and DaysRestAway are zero until rest days have been computed.
type OddsRecord struct {
	Season       string
	Seq          int
	Date         string
	Home         string
	Away         string
	OU           float64
	Spread       float64
	MLHome       float64
	MLAway       float64
	Points       float64
	WinMargin    float64
	DaysRestHome int
	DaysRestAway int
}

// OddsTableName returns the season-scoped table identifier, e.g. "odds_2021-22".
func OddsTableName(season string) string {
	return "odds_" + season
}

// Validate checks odds record field constraints.
func (r *OddsRecord) Validate() error {
	if r.Season == "" {
		return errors.New("odds record season must not be empty")
	}
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	if r.Home == "" || r.Away == "" {
		return errors.New("home and away teams must not be empty")
	}
	if r.Home == r.Away {
		return fmt.Errorf("home and away team are both %q", r.Home)
	}
	if r.Points < 0 {
		return errors.New("points must not be negative")
	}
	return nil
}

// Settled reports whether the game has a final score.
func (r *OddsRecord) Settled() bool {
	return r.Points > 0
}

// HasRest reports whether rest days have been computed for both teams.
func (r *OddsRecord) HasRest() bool {
	return r.DaysRestHome > 0 && r.DaysRestAway > 0
}

// HomeWin is 1 when the home team won.
func (r *OddsRecord) HomeWin() int {
	if r.WinMargin > 0 {
		return 1
	}
	return 0
}

// OUCover is 1 when the combined score exceeded the posted total.
func (r *OddsRecord) OUCover() int {
	if r.Points > r.OU {
		return 1
	}
	return 0
}
