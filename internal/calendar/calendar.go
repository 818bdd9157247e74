// Package calendar enumerates the calendar dates of configured seasons.
package calendar

import (
	"sort"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
)

// Dates returns every date in [StartDate, EndDate], ascending.
func Dates(s models.Season) []time.Time {
	start := models.TruncateDay(s.StartDate)
	end := models.TruncateDay(s.EndDate)
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	out := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Each calls fn for every date of the season in ascending order and stops at
// the first error.
func Each(s models.Season, fn func(time.Time) error) error {
	for _, d := range Dates(s) {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

// Sorted returns seasons ordered by start date, then by ID.
func Sorted(seasons map[string]models.Season) []models.Season {
	out := make([]models.Season, 0, len(seasons))
	for _, s := range seasons {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SeasonFor returns the season containing date.
func SeasonFor(seasons []models.Season, date time.Time) (models.Season, bool) {
	for _, s := range seasons {
		if s.Contains(date) {
			return s, true
		}
	}
	return models.Season{}, false
}
