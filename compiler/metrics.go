package compiler

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	compiles        *prometheus.CounterVec
	compileDuration prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqlplan",
			Subsystem: "compiler",
			Name:      "compiles_total",
			Help:      "number of statements converted into plans, by outcome.",
		}, []string{"outcome"}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sqlplan",
			Subsystem: "compiler",
			Name:      "compile_duration_seconds",
			Help:      "distribution in seconds of time spent converting a statement.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqlplan",
			Subsystem: "compiler",
			Name:      "cache_lookups_total",
			Help:      "number of plan cache lookups, by result.",
		}, []string{"result"}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.compiles, m.compileDuration, m.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
