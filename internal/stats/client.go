// Package stats fetches daily league-wide team statistics snapshots.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rewired-gh/nbafuse/internal/cache"
	"github.com/rewired-gh/nbafuse/internal/fetch"
	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/models"
)

// ErrNoData is returned when the source has no rows for a date.
var ErrNoData = errors.New("no statistics for date")

const cacheNamespace = "stats"

// Client fetches snapshots from a URL template. The template takes positional
// placeholders: {0} month, {1} day, {2} season start year, {3} year, {4} season id.
type Client struct {
	http     *fetch.Client
	template string
	cache    cache.Cache
	ttl      time.Duration
}

// NewClient creates a statistics client. c may be nil to disable caching.
func NewClient(http *fetch.Client, template string, c cache.Cache, ttl time.Duration) *Client {
	return &Client{http: http, template: template, cache: c, ttl: ttl}
}

// URL formats the request URL for date within season.
func (c *Client) URL(season models.Season, date time.Time) string {
	r := strings.NewReplacer(
		"{0}", strconv.Itoa(int(date.Month())),
		"{1}", strconv.Itoa(date.Day()),
		"{2}", strconv.Itoa(season.StartYear),
		"{3}", strconv.Itoa(date.Year()),
		"{4}", season.ID,
	)
	return r.Replace(c.template)
}

type response struct {
	ResultSets []struct {
		Headers []string            `json:"headers"`
		RowSet  [][]json.RawMessage `json:"rowSet"`
	} `json:"resultSets"`
}

// FetchDay fetches the snapshot of date. The returned snapshot carries a Date column.
func (c *Client) FetchDay(ctx context.Context, season models.Season, date time.Time) (*models.Snapshot, error) {
	url := c.URL(season, date)
	key := cache.Key(cacheNamespace, url)

	body, cached := c.cached(ctx, key)
	if !cached {
		var err error
		body, err = c.http.Get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stats for %s: %w", models.DateKey(date), err)
		}
	}

	snap, err := Decode(models.DateKey(date), body)
	if err != nil {
		return nil, err
	}
	if !cached && c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			logger.Warn("Failed to cache stats response for %s: %v", snap.Date, err)
		}
	}
	return snap, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Stats cache lookup failed: %v", err)
		}
		return nil, false
	}
	return body, true
}

// Decode parses a statistics response body into a snapshot for date.
func Decode(date string, body []byte) (*models.Snapshot, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode stats for %s: %w", date, err)
	}
	if len(resp.ResultSets) == 0 || len(resp.ResultSets[0].RowSet) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, date)
	}

	set := resp.ResultSets[0]
	snap := &models.Snapshot{Date: date, Columns: set.Headers}
	for i, raw := range set.RowSet {
		if len(raw) != len(set.Headers) {
			return nil, fmt.Errorf("stats row %d for %s has %d values, want %d", i, date, len(raw), len(set.Headers))
		}
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = cell(v)
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap.WithDateColumn(), nil
}

func cell(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(v)
}
