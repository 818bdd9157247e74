// Package models defines the core domain entities: seasons, daily snapshots, odds records and fused game rows.
package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO layout used for snapshot keys and configuration dates.
const DateLayout = "2006-01-02"

// Season is a configured date range, identified by a label such as "2021-22".
type Season struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	StartYear int
}

// Validate checks season field constraints.
func (s *Season) Validate() error {
	if s.ID == "" {
		return errors.New("season ID must not be empty")
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("season %s: start and end dates are required", s.ID)
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("season %s: end date %s is before start date %s",
			s.ID, s.EndDate.Format(DateLayout), s.StartDate.Format(DateLayout))
	}
	if s.StartYear <= 0 {
		return fmt.Errorf("season %s: start year must be positive", s.ID)
	}
	return nil
}

// Contains reports whether date falls inside the season, bounds included.
func (s *Season) Contains(date time.Time) bool {
	d := TruncateDay(date)
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}

// ParseDate parses an ISO date (YYYY-MM-DD). Longer timestamps such as
// "2022-01-05 00:00:00" are accepted and truncated to the date part.
func ParseDate(value string) (time.Time, error) {
	if len(value) > len(DateLayout) {
		value = value[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// TruncateDay drops the time of day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats t as a snapshot key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
