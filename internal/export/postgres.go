// Package export copies the assembled dataset into PostgreSQL.
package export

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rewired-gh/nbafuse/internal/models"
)

// Postgres writes datasets to a PostgreSQL database.
type Postgres struct {
	url   string
	table string
}

// NewPostgres creates an exporter for the database at url writing into table.
func NewPostgres(url, table string) *Postgres {
	return &Postgres{url: url, table: table}
}

// Export replaces the target table with t inside one transaction and returns
// the number of rows copied.
func (p *Postgres) Export(ctx context.Context, t *models.Table) (int64, error) {
	conn, err := pgx.Connect(ctx, p.url)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range []string{dropTableSQL(p.table), createTableSQL(p.table, t.Columns)} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to recreate %s: %w", p.table, err)
		}
	}

	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{p.table}, names, pgx.CopyFromRows(copyRows(t)))
	if err != nil {
		return 0, fmt.Errorf("failed to copy dataset: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit export: %w", err)
	}
	return n, nil
}

func dropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + pgx.Identifier{table}.Sanitize()
}

func createTableSQL(table string, cols []models.Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "double precision"
		if c.Categorical {
			typ = "text"
		}
		defs[i] = pgx.Identifier{c.Name}.Sanitize() + " " + typ
	}
	return "CREATE TABLE " + pgx.Identifier{table}.Sanitize() + " (" + strings.Join(defs, ", ") + ")"
}

// copyRows converts missing numeric cells to NULL.
func copyRows(t *models.Table) [][]any {
	out := make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		vals := make([]any, len(row))
		for i, v := range row {
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				vals[i] = nil
				continue
			}
			vals[i] = v
		}
		out[r] = vals
	}
	return out
}
