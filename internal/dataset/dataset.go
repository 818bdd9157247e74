// Package dataset stacks fused rows from every season into the feature table.
package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/rewired-gh/nbafuse/internal/fusion"
	"github.com/rewired-gh/nbafuse/internal/models"
)

// ErrNoRows is returned when no fused rows are available to assemble.
var ErrNoRows = errors.New("no fused rows")

// DefaultDrop lists the identifier columns removed from the feature table.
var DefaultDrop = []string{"TEAM_ID", "TEAM_ID" + models.AwaySuffix}

// Categorical reports whether a column keeps its text values.
func Categorical(name string) bool {
	return strings.Contains(name, "TEAM_") || strings.Contains(name, models.DateColumn)
}

// Assembler builds the feature table.
type Assembler struct {
	drop map[string]bool
}

// NewAssembler creates an Assembler that removes the named columns.
// A nil drop list uses DefaultDrop.
func NewAssembler(drop []string) *Assembler {
	if drop == nil {
		drop = DefaultDrop
	}
	a := &Assembler{drop: make(map[string]bool, len(drop))}
	for _, d := range drop {
		a.drop[d] = true
	}
	return a
}

// Assemble concatenates the rows of all seasons in order. Columns are the union
// of statistic columns in first-seen order followed by the label columns.
// Failed seasons contribute nothing.
func (a *Assembler) Assemble(results []fusion.SeasonResult) (*models.Table, error) {
	var rows []*models.FusedRow
	for i := range results {
		for j := range results[i].Rows {
			rows = append(rows, &results[i].Rows[j])
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	labels := make(map[string]bool, len(models.LabelColumns))
	for _, c := range models.LabelColumns {
		labels[c] = true
	}
	index := make(map[string]int)
	t := &models.Table{}
	for _, r := range rows {
		for _, c := range r.Columns {
			if a.drop[c] || labels[c] {
				continue
			}
			if _, ok := index[c]; !ok {
				index[c] = len(t.Columns)
				t.Columns = append(t.Columns, models.Column{Name: c, Categorical: Categorical(c)})
			}
		}
	}
	stats := len(t.Columns)
	for _, c := range models.LabelColumns {
		t.Columns = append(t.Columns, models.Column{Name: c})
	}

	t.Rows = make([][]any, 0, len(rows))
	for _, r := range rows {
		out := make([]any, len(t.Columns))
		for i, c := range t.Columns[:stats] {
			if c.Categorical {
				out[i] = ""
			} else {
				out[i] = math.NaN()
			}
		}
		for i, c := range r.Columns {
			pos, ok := index[c]
			if !ok {
				continue
			}
			if t.Columns[pos].Categorical {
				out[pos] = r.Values[i]
			} else {
				out[pos] = Float(r.Values[i])
			}
		}
		for i, v := range r.Labels.Values() {
			out[stats+i] = v
		}
		t.Rows = append(t.Rows, out)
	}
	return t, nil
}

// Float parses a statistic cell. Unparseable cells are NaN.
func Float(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
