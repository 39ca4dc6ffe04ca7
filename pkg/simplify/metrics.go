package simplify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what simplification runs did. A nil *Metrics records
// nothing.
type Metrics struct {
	RunsTotal                  *prometheus.CounterVec
	DuplicateLinesRemovedTotal prometheus.Counter
	NetPointsCombinedTotal     prometheus.Counter
	LinesSplitTotal            prometheus.Counter
	ChainsCollapsedTotal       prometheus.Counter
}

// NewMetrics registers the simplification metrics with reg. It returns nil
// if reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netsimplify_runs_total",
				Help: "Total number of simplification runs",
			},
			[]string{"result"}, // ok, error, nothing
		),
		DuplicateLinesRemovedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "netsimplify_duplicate_lines_removed_total",
				Help: "Total number of duplicate net lines removed",
			},
		),
		NetPointsCombinedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "netsimplify_net_points_combined_total",
				Help: "Total number of net points merged into another anchor",
			},
		),
		LinesSplitTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "netsimplify_lines_split_total",
				Help: "Total number of net lines split to join an anchor",
			},
		),
		ChainsCollapsedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "netsimplify_chains_collapsed_total",
				Help: "Total number of collinear net points removed",
			},
		),
	}
}

func (m *Metrics) observe(result string, st Stats) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(result).Inc()
	m.DuplicateLinesRemovedTotal.Add(float64(st.DuplicateLinesRemoved))
	m.NetPointsCombinedTotal.Add(float64(st.NetPointsCombined))
	m.LinesSplitTotal.Add(float64(st.LinesSplit))
	m.ChainsCollapsedTotal.Add(float64(st.ChainsCollapsed))
}
