package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cryptotracker"

// Cycle results used as the "result" label.
const (
	ResultOK      = "ok"
	ResultEmpty   = "empty"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Metrics holds the tracker's collectors.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal     *prometheus.CounterVec
	CycleDuration   prometheus.Histogram
	FetchDuration   prometheus.Histogram
	Assets          prometheus.Gauge
	AveragePriceUSD prometheus.Gauge
	LastSuccess     prometheus.Gauge
	BreakerOpen     prometheus.Gauge
}

// New registers all collectors on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CyclesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Poll cycles by result.",
		}, []string{"result"}),
		CycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one fetch, analyze and persist cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of the market data request.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		Assets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assets",
			Help:      "Number of assets in the latest persisted batch.",
		}),
		AveragePriceUSD: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_price_usd",
			Help:      "Unweighted average price of the latest persisted batch.",
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful cycle.",
		}),
		BreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_open",
			Help:      "1 while the failure cap has tripped and cycles are skipped.",
		}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCycle records one finished cycle.
func (m *Metrics) ObserveCycle(result string, d time.Duration) {
	m.CyclesTotal.WithLabelValues(result).Inc()
	if result != ResultSkipped {
		m.CycleDuration.Observe(d.Seconds())
	}
}

// ObserveFetch records the latency of one market data request.
func (m *Metrics) ObserveFetch(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}

// RecordSuccess updates the batch gauges after a persisted cycle.
func (m *Metrics) RecordSuccess(assets int, avgPrice float64, at time.Time) {
	m.Assets.Set(float64(assets))
	m.AveragePriceUSD.Set(avgPrice)
	m.LastSuccess.Set(float64(at.Unix()))
}

// SetBreakerOpen sets the breaker gauge.
func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
