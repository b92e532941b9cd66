// Package metrics exports arena activity as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/world"
)

// Collector bundles the arena metrics. It is a world.Listener and can be
// registered on any number of worlds; each world reports its advances through
// its own Session.
type Collector struct {
	gatherer prometheus.Gatherer

	Collisions    *prometheus.CounterVec
	Outcomes      *prometheus.CounterVec
	AdvanceEvents prometheus.Histogram
	SimulatedTime prometheus.Counter
	LiveEntities  prometheus.Gauge
}

var (
	_ world.Listener = (*Collector)(nil)
	_ world.Observer = (*Session)(nil)
)

// NewCollector registers the arena metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	collisions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_collisions_total",
		Help: "Resolved collisions, labeled by the kinds involved.",
	}, []string{"type"}))
	if err != nil {
		return nil, err
	}
	outcomes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_collision_outcomes_total",
		Help: "Resolved collisions, labeled by what the resolution did.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	events, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_advance_events",
		Help:    "Collisions resolved per advance call.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
	}))
	if err != nil {
		return nil, err
	}
	simulated, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arena_simulated_seconds_total",
		Help: "Simulated time advanced.",
	}))
	if err != nil {
		return nil, err
	}
	live, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "arena_live_entities",
		Help: "Live entities across all running worlds.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Collisions:    collisions,
		Outcomes:      outcomes,
		AdvanceEvents: events,
		SimulatedTime: simulated,
		LiveEntities:  live,
	}, nil
}

// register registers m, reusing an identical collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, m T) (T, error) {
	if err := reg.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return m, nil
}

// EntityCollision implements world.Listener.
func (c *Collector) EntityCollision(a, b object.View, _, _ float64, o collision.Outcome) {
	c.Collisions.WithLabelValues(PairLabel(a.Kind, b.Kind)).Inc()
	c.Outcomes.WithLabelValues(o.String()).Inc()
}

// BoundaryCollision implements world.Listener.
func (c *Collector) BoundaryCollision(_ object.View, _ collision.Edge, _, _ float64, o collision.Outcome) {
	c.Collisions.WithLabelValues("boundary").Inc()
	c.Outcomes.WithLabelValues(o.String()).Inc()
}

// Session is the world.Observer for one world. It owns that world's share of
// the live entity gauge and must be closed when the world is dropped.
type Session struct {
	c    *Collector
	live int
}

// Session starts tracking a new world.
func (c *Collector) Session() *Session {
	return &Session{c: c}
}

// Advanced implements world.Observer.
func (s *Session) Advanced(stats world.Stats, live int) {
	s.c.AdvanceEvents.Observe(float64(stats.Events))
	s.c.SimulatedTime.Add(stats.Elapsed)
	s.c.LiveEntities.Add(float64(live - s.live))
	s.live = live
}

// Close removes the world's entities from the live gauge. It is idempotent.
func (s *Session) Close() {
	s.c.LiveEntities.Sub(float64(s.live))
	s.live = 0
}

// Handler serves the gathered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// PairLabel names a pair collision independent of argument order.
func PairLabel(a, b object.Kind) string {
	if b < a {
		a, b = b, a
	}
	return a.String() + "_" + b.String()
}
