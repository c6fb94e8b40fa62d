package router

import (
	"radio/internal/app/radio"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radio_fetch_cycles_total",
		Help: "Fetch cycles by result.",
	}, []string{"result"})

	fetchCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radio_fetch_cycle_duration_seconds",
		Help:    "Duration of finished fetch cycles in seconds.",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	catalogChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radio_catalog_channels",
		Help: "Number of channels in the published catalog.",
	})

	scheduleFailures = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radio_catalog_schedule_failures",
		Help: "Number of channels whose schedule could not be fetched in the published catalog.",
	})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radio_catalog_last_success_timestamp_seconds",
		Help: "Unix time of the last successful fetch cycle.",
	})
)

// recordCycle 根据更新周期的通知更新指标
func recordCycle(ev radio.Event) {
	switch ev.Kind {
	case radio.CycleSucceeded:
		fetchCycles.WithLabelValues(ev.Kind.String()).Inc()
		fetchCycleDuration.Observe(ev.Duration.Seconds())
		catalogChannels.Set(float64(ev.Channels))
		scheduleFailures.Set(float64(ev.Failures))
		lastSuccess.Set(float64(ev.At.Unix()))
	case radio.CycleFailed:
		fetchCycles.WithLabelValues(ev.Kind.String()).Inc()
		fetchCycleDuration.Observe(ev.Duration.Seconds())
	}
}
