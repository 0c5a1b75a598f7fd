package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics is the cache's prometheus surface: a private registry the
// caller mounts under its own namespace, the same
// newMetricsReg/GetMetricsReg split coremain.Mosdns uses so a
// standalone cache can be embedded in a larger process without
// clobbering its metric names.
type Metrics struct {
	reg *prometheus.Registry

	hits       prometheus.Counter
	misses     prometheus.Counter
	rejected   prometheus.Counter
	evictions  prometheus.Counter
	size       prometheus.GaugeFunc
	queueDepth prometheus.GaugeFunc
}

// NewMetrics builds a Metrics registry that reports f's live state via
// GaugeFuncs, and returns counters the Facade increments as
// Lookup/Ingest/eviction events occur once Facade.AttachMetrics has
// wired them.
func NewMetrics(f *Facade) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		reg: reg,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "istra", Subsystem: "cache", Name: "lookup_hits_total",
			Help: "Cache lookups that returned a live RRSet.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "istra", Subsystem: "cache", Name: "lookup_misses_total",
			Help: "Cache lookups that found no live RRSet.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "istra", Subsystem: "cache", Name: "rejected_groups_total",
			Help: "Record groups pkg/rrset.TakeRRSet refused to assemble into an RRSet.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "istra", Subsystem: "cache", Name: "evictions_total",
			Help: "Entries evicted to enforce capacity.",
		}),
	}
	m.size = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "istra", Subsystem: "cache", Name: "entries",
		Help: "Live-or-not-yet-swept entries currently held.",
	}, func() float64 { return float64(f.Size()) })
	m.queueDepth = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "istra", Subsystem: "cache", Name: "queue_depth",
		Help: "Pending update-pipeline commands.",
	}, func() float64 { cur, _ := f.QueueSizes(); return float64(cur) })

	reg.MustRegister(m.hits, m.misses, m.rejected, m.evictions, m.size, m.queueDepth)
	return m
}

// Registerer returns m mounted under the "istra_" prefix, ready to be
// handed to promhttp.HandlerFor or merged into a larger registry.
func (m *Metrics) Registerer() *prometheus.Registry { return m.reg }
