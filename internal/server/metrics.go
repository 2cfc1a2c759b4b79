package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LLL run outcomes, used as the "result" label.
const (
	resultOK           = "ok"
	resultInvalidDelta = "invalid_delta"
	resultSwapLimit    = "swap_limit"
	resultDegenerate   = "degenerate"
	resultError        = "error"
)

type metrics struct {
	reductions *prometheus.CounterVec
	swaps      prometheus.Histogram
	stored     prometheus.Gauge
}

// newMetrics registers the server metrics on reg. Each Server gets its own
// registry so several servers can coexist in one process.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		reductions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lll_reductions_total",
				Help: "LLL runs by outcome",
			},
			[]string{"result"},
		),
		swaps: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lll_swaps",
			Help:    "Basis swaps performed per LLL run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),
		stored: f.NewGauge(prometheus.GaugeOpts{
			Name: "lll_lattices_stored",
			Help: "Lattices currently held by the server",
		}),
	}
}
