package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// Polling metrics
	pollTicks     *prometheus.CounterVec
	pollDuration  *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	staleDrops    *prometheus.CounterVec
	ticksInFlight *prometheus.GaugeVec

	// Session metrics
	forcedLogouts prometheus.Counter
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		pollTicks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_poll_ticks_total",
				Help: "Total number of polling ticks fired",
			},
			[]string{"view"},
		),

		pollDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxpulse_poll_tick_duration_seconds",
				Help:    "Polling tick duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"view"},
		),

		fetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_fetch_failures_total",
				Help: "Total number of failed backend fetches",
			},
			[]string{"view", "kind"},
		),

		staleDrops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_stale_ticks_dropped_total",
				Help: "Total number of tick results discarded as stale",
			},
			[]string{"view"},
		),

		ticksInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxpulse_poll_ticks_in_flight",
				Help: "Number of polling ticks currently in flight",
			},
			[]string{"view"},
		),

		forcedLogouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fxpulse_forced_logouts_total",
				Help: "Total number of logouts forced by unauthorized responses",
			},
		),
	}

	reg.MustRegister(r.pollTicks)
	reg.MustRegister(r.pollDuration)
	reg.MustRegister(r.fetchFailures)
	reg.MustRegister(r.staleDrops)
	reg.MustRegister(r.ticksInFlight)
	reg.MustRegister(r.forcedLogouts)

	return r
}

// RecordTick records a completed polling tick.
func (r *Registry) RecordTick(view string, duration float64) {
	r.pollTicks.WithLabelValues(view).Inc()
	r.pollDuration.WithLabelValues(view).Observe(duration)
}

// RecordFetchFailure records a failed backend fetch by failure kind.
func (r *Registry) RecordFetchFailure(view, kind string) {
	r.fetchFailures.WithLabelValues(view, kind).Inc()
}

// RecordStaleDrop records a tick result discarded as stale.
func (r *Registry) RecordStaleDrop(view string) {
	r.staleDrops.WithLabelValues(view).Inc()
}

// TickInFlightInc increments in-flight ticks for a view.
func (r *Registry) TickInFlightInc(view string) {
	r.ticksInFlight.WithLabelValues(view).Inc()
}

// TickInFlightDec decrements in-flight ticks for a view.
func (r *Registry) TickInFlightDec(view string) {
	r.ticksInFlight.WithLabelValues(view).Dec()
}

// RecordForcedLogout records a logout forced by a 401/403 response.
func (r *Registry) RecordForcedLogout() {
	r.forcedLogouts.Inc()
}
