// Package metrics records pipeline counters in a Prometheus registry and
// writes them as a node_exporter textfile after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nbafuse"

// Metrics holds the pipeline collectors.
type Metrics struct {
	reg *prometheus.Registry

	snapshotsSaved prometheus.Counter
	fetchGaps      *prometheus.CounterVec
	oddsRecords    *prometheus.CounterVec
	oddsSkipped    *prometheus.CounterVec
	rowsFused      *prometheus.CounterVec
	gamesSkipped   *prometheus.CounterVec
	seasonsFailed  prometheus.Counter
	datasetRows    prometheus.Gauge
	stageDuration  *prometheus.GaugeVec
	lastSuccess    *prometheus.GaugeVec
}

// New creates Metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		snapshotsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "snapshots_saved_total",
			Help: "Daily team statistics snapshots stored.",
		}),
		fetchGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "fetch_gaps_total",
			Help: "Dates for which a source returned no data.",
		}, []string{"source"}),
		oddsRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "odds_records_total",
			Help: "Odds records written per season.",
		}, []string{"season"}),
		oddsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "odds_skipped_total",
			Help: "Raw games dropped by the odds normalizer.",
		}, []string{"reason"}),
		rowsFused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rows_fused_total",
			Help: "Fused game rows per season.",
		}, []string{"season"}),
		gamesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "games_skipped_total",
			Help: "Games skipped during fusion.",
		}, []string{"reason"}),
		seasonsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "seasons_failed_total",
			Help: "Seasons that could not be fused.",
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dataset_rows",
			Help: "Rows in the most recently assembled dataset.",
		}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help: "Wall time of the last run of each stage.",
		}, []string{"stage"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stage_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run of each stage.",
		}, []string{"stage"}),
	}
	m.reg.MustRegister(
		m.snapshotsSaved, m.fetchGaps, m.oddsRecords, m.oddsSkipped,
		m.rowsFused, m.gamesSkipped, m.seasonsFailed, m.datasetRows,
		m.stageDuration, m.lastSuccess,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) SnapshotSaved() { m.snapshotsSaved.Inc() }
func (m *Metrics) FetchGap(source string) { m.fetchGaps.WithLabelValues(source).Inc() }
func (m *Metrics) OddsSkipped(reason string) { m.oddsSkipped.WithLabelValues(reason).Inc() }
func (m *Metrics) SeasonFailed() { m.seasonsFailed.Inc() }
func (m *Metrics) DatasetRows(n int) { m.datasetRows.Set(float64(n)) }

// GamesSkipped adds n fusion skips for reason.
func (m *Metrics) GamesSkipped(reason string, n int) {
	m.gamesSkipped.WithLabelValues(reason).Add(float64(n))
}

// OddsRecords adds n stored odds records for season.
func (m *Metrics) OddsRecords(season string, n int) {
	m.oddsRecords.WithLabelValues(season).Add(float64(n))
}

// RowsFused adds n fused rows for season.
func (m *Metrics) RowsFused(season string, n int) {
	m.rowsFused.WithLabelValues(season).Add(float64(n))
}

// StageFinished records the duration of a stage and, on success, its completion time.
func (m *Metrics) StageFinished(stage string, d time.Duration, ok bool) {
	m.stageDuration.WithLabelValues(stage).Set(d.Seconds())
	if ok {
		m.lastSuccess.WithLabelValues(stage).SetToCurrentTime()
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
