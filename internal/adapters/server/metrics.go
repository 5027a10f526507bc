package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters exposed on the metrics endpoint.
type Metrics struct {
	SyncRuns       *prometheus.CounterVec
	ColumnsChanged *prometheus.CounterVec
	RejectedMoves  prometheus.Counter
}

// NewMetrics registers the tavla counters on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SyncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tavla_sync_runs_total",
				Help: "Partition reconciliation runs by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		ColumnsChanged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tavla_columns_changed_total",
				Help: "Columns created or removed by reconciliation",
			},
			[]string{"change"},
		),
		RejectedMoves: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tavla_rejected_moves_total",
				Help: "Status moves rejected by transition validation",
			},
		),
	}
	reg.MustRegister(m.SyncRuns, m.ColumnsChanged, m.RejectedMoves)
	return m
}

// ObserveSync records one sync or regenerate run.
func (m *Metrics) ObserveSync(mode string, err error, created, removed int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SyncRuns.WithLabelValues(mode, outcome).Inc()
	m.ColumnsChanged.WithLabelValues("created").Add(float64(created))
	m.ColumnsChanged.WithLabelValues("removed").Add(float64(removed))
}

// ObserveRejectedMove records one rejected move.
func (m *Metrics) ObserveRejectedMove() {
	if m == nil {
		return
	}
	m.RejectedMoves.Inc()
}
