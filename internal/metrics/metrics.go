// Package metrics holds the Prometheus collectors for the heartbeat worker and
// the web service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lastrun"

// Recorder receives heartbeat loop events.
type Recorder interface {
	HeartbeatWritten(at time.Time)
	HeartbeatFailed()
	StateChanged(state string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) HeartbeatWritten(time.Time) {}
func (Nop) HeartbeatFailed()           {}
func (Nop) StateChanged(string)        {}

var _ Recorder = Nop{}

// Collector is the Prometheus backed Recorder. It also counts visits for the
// web service.
type Collector struct {
	reg  prometheus.Registerer
	once sync.Once

	writes      prometheus.Counter
	failures    prometheus.Counter
	lastSuccess prometheus.Gauge
	state       *prometheus.GaugeVec
	visits      prometheus.Counter
}

var _ Recorder = (*Collector)(nil)

// New creates a collector registered on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := Collector{reg: reg}
	c.ensureRegistered()
	return &c
}

func (c *Collector) ensureRegistered() {
	c.once.Do(func() {
		c.writes = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "writes_total",
			Help:      "Successful heartbeat writes.",
		})
		c.failures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "failures_total",
			Help:      "Heartbeat cycles that ended in an error.",
		})
		c.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful heartbeat write.",
		})
		c.state = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "state",
			Help:      "1 for the current worker state.",
		}, []string{"state"})
		c.visits = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "visits_total",
			Help:      "Successful visit counter increments served.",
		})
		c.reg.MustRegister(c.writes, c.failures, c.lastSuccess, c.state, c.visits)
	})
}

func (c *Collector) HeartbeatWritten(at time.Time) {
	c.writes.Inc()
	c.lastSuccess.Set(float64(at.UnixNano()) / 1e9)
}

func (c *Collector) HeartbeatFailed() {
	c.failures.Inc()
}

func (c *Collector) StateChanged(state string) {
	c.state.Reset()
	c.state.WithLabelValues(state).Set(1)
}

func (c *Collector) VisitCounted() {
	c.visits.Inc()
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
