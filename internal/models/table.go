package models

import (
	"fmt"
	"math"
)

// Column describes one column of a feature table.
type Column struct {
	Name        string
	Categorical bool
}

// Table is the assembled feature table. Numeric cells hold float64 (NaN when
// missing); categorical cells hold string.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Float returns the numeric cell at (row, col). Categorical and missing cells are NaN.
func (t *Table) Float(row, col int) float64 {
	if v, ok := t.Rows[row][col].(float64); ok {
		return v
	}
	return math.NaN()
}

// NumericColumns returns the names of non-categorical columns not in exclude.
func (t *Table) NumericColumns(exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var out []string
	for _, c := range t.Columns {
		if !c.Categorical && !skip[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}

// Matrix extracts the named numeric columns as a row-major matrix.
func (t *Table) Matrix(names []string) ([][]float64, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = t.Index(n)
		if idx[i] < 0 {
			return nil, fmt.Errorf("column %q not in table", n)
		}
	}
	out := make([][]float64, len(t.Rows))
	for r := range t.Rows {
		row := make([]float64, len(idx))
		for j, c := range idx {
			row[j] = t.Float(r, c)
		}
		out[r] = row
	}
	return out, nil
}
