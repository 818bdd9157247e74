package models

import (
	"errors"
	"fmt"
)

// DateColumn is appended to every stored snapshot.
const DateColumn = "Date"

// Snapshot holds one calendar date's league-wide team statistics. Rows are kept
// in the order the source delivered them; the position of a row is what the
// team index resolver maps team names to.
type Snapshot struct {
	Date    string
	Columns []string
	Rows    [][]string
}

// Validate checks that every row matches the column header.
func (s *Snapshot) Validate() error {
	if s.Date == "" {
		return errors.New("snapshot date must not be empty")
	}
	if _, err := ParseDate(s.Date); err != nil {
		return err
	}
	if len(s.Columns) == 0 {
		return errors.New("snapshot must have at least one column")
	}
	for i, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return fmt.Errorf("snapshot %s row %d has %d values, want %d", s.Date, i, len(row), len(s.Columns))
		}
	}
	return nil
}

// Complete reports whether the snapshot has exactly the expected number of team rows.
func (s *Snapshot) Complete(expected int) bool {
	return len(s.Rows) == expected
}

// Row returns the row at position i.
func (s *Snapshot) Row(i int) ([]string, error) {
	if i < 0 || i >= len(s.Rows) {
		return nil, fmt.Errorf("snapshot %s has no row %d", s.Date, i)
	}
	return s.Rows[i], nil
}

// WithDateColumn returns a copy with the Date column set on every row.
// An existing Date column is overwritten rather than duplicated.
func (s *Snapshot) WithDateColumn() *Snapshot {
	idx := -1
	for i, c := range s.Columns {
		if c == DateColumn {
			idx = i
			break
		}
	}

	out := &Snapshot{Date: s.Date}
	out.Columns = append([]string(nil), s.Columns...)
	if idx < 0 {
		out.Columns = append(out.Columns, DateColumn)
	}
	out.Rows = make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		r := append([]string(nil), row...)
		if idx < 0 {
			r = append(r, s.Date)
		} else {
			r[idx] = s.Date
		}
		out.Rows[i] = r
	}
	return out
}
