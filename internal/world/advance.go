package world

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/object"
)

// Stats summarises one Advance call.
type Stats struct {
	Elapsed   float64 // Simulated time consumed
	Events    int     // Collisions resolved
	Pairs     int
	Boundary  int
	Reloads   int
	Destroyed int // Collisions that terminated at least one entity
}

func (s *Stats) record(c collision.Collision, o collision.Outcome) {
	s.Events++
	if _, ok := c.(*collision.Pair); ok {
		s.Pairs++
	} else {
		s.Boundary++
	}
	switch o {
	case collision.OutcomeReload:
		s.Reloads++
	case collision.OutcomeDestroy:
		s.Destroyed++
	}
}

// Advance moves the world forward by dt, resolving every collision in the
// order it happens. An error aborts the step and leaves the world as it was
// just before the failing event.
func (w *World) Advance(dt float64) (Stats, error) {
	var stats Stats
	if err := object.CheckTime(dt); err != nil {
		return stats, fmt.Errorf("advance by %g: %w", dt, err)
	}
	defer func() {
		w.state = StateIdle
		for _, o := range w.observers {
			o.Advanced(stats, len(w.order))
		}
	}()

	remaining := dt
	for remaining > 0 {
		next, err := w.NextCollision()
		if err != nil {
			w.log.Error("advance aborted", zap.Float64("clock", w.clock), zap.Error(err))
			return stats, err
		}

		tau := math.Inf(1)
		if next != nil {
			tau = next.Time()
		}
		step := math.Min(tau, remaining)

		w.state = StateAdvancing
		if err := w.moveAll(step); err != nil {
			w.log.Error("advance aborted", zap.Float64("clock", w.clock), zap.Error(err))
			return stats, err
		}
		remaining -= step
		w.clock += step
		stats.Elapsed += step

		if next == nil || step != tau {
			break
		}
		if stats.Events >= maxEventsPerAdvance {
			return stats, fmt.Errorf("%w: %d events at clock %g", ErrEventStorm, stats.Events, w.clock)
		}
		if _, err := w.resolve(next, &stats); err != nil {
			w.log.Error("advance aborted", zap.Float64("clock", w.clock), zap.Error(err))
			return stats, err
		}
	}
	return stats, nil
}

// Evolve runs every ship's program for dt and then advances the world by dt.
func (w *World) Evolve(dt float64) (Stats, error) {
	if err := object.CheckTime(dt); err != nil {
		return Stats{}, fmt.Errorf("evolve by %g: %w", dt, err)
	}
	for _, s := range w.Ships() {
		if s.IsTerminated() || !w.Contains(s) {
			continue
		}
		if err := s.ExecuteProgram(dt); err != nil {
			return Stats{}, fmt.Errorf("program of ship %d: %w", s.ID(), err)
		}
	}
	return w.Advance(dt)
}

// NextCollision scans every live pair and every live entity against the
// walls and returns the earliest predicted collision, or nil if nothing will
// ever collide. Ties go to the lowest key.
func (w *World) NextCollision() (collision.Collision, error) {
	var best collision.Collision
	live := w.Entities()
	for i, a := range live {
		for _, b := range live[i+1:] {
			t, err := collision.TimeToCollision(a, b, w.consts.SignificantOverlap)
			if err != nil {
				return nil, err
			}
			if math.IsInf(t, 1) {
				continue
			}
			if c := collision.NewPair(a, b, t); collision.Earlier(c, best) {
				best = c
			}
		}
		if c := collision.PredictBoundary(a, w.width, w.height); !collision.Never(c) && collision.Earlier(c, best) {
			best = c
		}
	}
	return best, nil
}

// moveAll advances every live entity by dt.
func (w *World) moveAll(dt float64) error {
	for _, id := range w.order {
		if err := w.entities[id].Move(dt); err != nil {
			return err
		}
	}
	return nil
}

// resolve applies a collision and notifies the listeners.
func (w *World) resolve(c collision.Collision, stats *Stats) (collision.Outcome, error) {
	w.state = StateResolving
	point := c.Point()

	var first, second object.View
	switch ev := c.(type) {
	case *collision.Pair:
		first, second = ev.First().View(), ev.Second().View()
	case *collision.Boundary:
		first = ev.Entity().View()
	}

	outcome, err := c.Resolve()
	if err != nil {
		return 0, err
	}
	if stats != nil {
		stats.record(c, outcome)
	}

	w.log.Debug("collision resolved",
		zap.Stringer("collision", c),
		zap.Stringer("outcome", outcome),
		zap.Float64("clock", w.clock),
		zap.Float64("x", point.X),
		zap.Float64("y", point.Y),
	)

	switch ev := c.(type) {
	case *collision.Pair:
		for _, l := range w.listeners {
			l.EntityCollision(first, second, point.X, point.Y, outcome)
		}
	case *collision.Boundary:
		for _, l := range w.listeners {
			l.BoundaryCollision(first, ev.Edge(), point.X, point.Y, outcome)
		}
	}
	return outcome, nil
}
