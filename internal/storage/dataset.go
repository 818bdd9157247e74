package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/rewired-gh/nbafuse/internal/models"
)

const datasetTable = "dataset"

// ReplaceDataset drops and recreates the dataset table from t. Numeric columns
// are stored as REAL (NaN becomes NULL), categorical columns as TEXT.
func (s *Storage) ReplaceDataset(t *models.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("dataset has no columns")
	}

	defs := make([]string, 0, len(t.Columns)+1)
	names := make([]string, 0, len(t.Columns))
	marks := make([]string, 0, len(t.Columns))
	defs = append(defs, `"row_id" INTEGER PRIMARY KEY`)
	for _, c := range t.Columns {
		typ := "REAL"
		if c.Categorical {
			typ = "TEXT"
		}
		defs = append(defs, quoteIdent(c.Name)+" "+typ)
		names = append(names, quoteIdent(c.Name))
		marks = append(marks, "?")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := []string{
		`DROP TABLE IF EXISTS ` + datasetTable,
		`CREATE TABLE ` + datasetTable + ` (` + strings.Join(defs, ", ") + `)`,
		`DELETE FROM dataset_columns`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to recreate dataset table: %w", err)
		}
	}
	for i, c := range t.Columns {
		if _, err := tx.Exec(`INSERT INTO dataset_columns (position, name, categorical) VALUES (?,?,?)`,
			i, c.Name, boolToInt(c.Categorical)); err != nil {
			return fmt.Errorf("failed to record dataset column %q: %w", c.Name, err)
		}
	}

	insert, err := tx.Prepare(`INSERT INTO ` + datasetTable + ` (` + strings.Join(names, ", ") +
		`) VALUES (` + strings.Join(marks, ", ") + `)`)
	if err != nil {
		return fmt.Errorf("failed to prepare dataset insert: %w", err)
	}
	defer insert.Close()
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("dataset row %d has %d cells, want %d", r, len(row), len(t.Columns))
		}
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = storableCell(v)
		}
		if _, err := insert.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert dataset row %d: %w", r, err)
		}
	}
	return tx.Commit()
}

// LoadDataset reads the dataset table back in insertion order.
// ErrNotFound is returned when no dataset has been written.
func (s *Storage) LoadDataset() (*models.Table, error) {
	rows, err := s.db.Query(`SELECT name, categorical FROM dataset_columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset columns: %w", err)
	}
	t := &models.Table{}
	for rows.Next() {
		var c models.Column
		var categorical int
		if err := rows.Scan(&c.Name, &categorical); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan dataset column: %w", err)
		}
		c.Categorical = categorical != 0
		t.Columns = append(t.Columns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("dataset: %w", ErrNotFound)
	}

	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quoteIdent(c.Name)
	}
	data, err := s.db.Query(`SELECT ` + strings.Join(names, ", ") + ` FROM ` + datasetTable + ` ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer data.Close()
	for data.Next() {
		row, err := scanDatasetRow(data.Scan, t.Columns)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, data.Err()
}

func scanDatasetRow(scan func(...any) error, cols []models.Column) ([]any, error) {
	nums := make([]sql.NullFloat64, len(cols))
	strs := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i, c := range cols {
		if c.Categorical {
			dest[i] = &strs[i]
		} else {
			dest[i] = &nums[i]
		}
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	row := make([]any, len(cols))
	for i, c := range cols {
		switch {
		case c.Categorical:
			row[i] = strs[i].String
		case nums[i].Valid:
			row[i] = nums[i].Float64
		default:
			row[i] = math.NaN()
		}
	}
	return row, nil
}

func storableCell(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
