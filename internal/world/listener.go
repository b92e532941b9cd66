package world

import (
	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/object"
)

// Listener is told about every resolved collision and what its resolution
// did. It receives copies of the entity state taken just before resolution,
// so it cannot change the simulation.
type Listener interface {
	EntityCollision(a, b object.View, x, y float64, o collision.Outcome)
	BoundaryCollision(e object.View, edge collision.Edge, x, y float64, o collision.Outcome)
}

// Observer is told about every completed Advance call.
type Observer interface {
	Advanced(stats Stats, live int)
}

// Event is a resolved collision as seen from outside the world.
type Event struct {
	Clock   float64 // World clock at the collision
	Pair    bool
	First   object.View
	Second  object.View // Zero for boundary collisions
	Edge    collision.Edge
	X, Y    float64
	Outcome collision.Outcome
}

// Recorder is a Listener that keeps every collision it hears about.
type Recorder struct {
	Events []Event
	clock  func() float64
}

// NewRecorder creates a recorder that stamps events with the world clock.
func NewRecorder(w *World) *Recorder {
	r := &Recorder{}
	if w != nil {
		r.clock = w.Clock
	}
	return r
}

func (r *Recorder) now() float64 {
	if r.clock == nil {
		return 0
	}
	return r.clock()
}

// EntityCollision implements Listener.
func (r *Recorder) EntityCollision(a, b object.View, x, y float64, o collision.Outcome) {
	r.Events = append(r.Events, Event{Clock: r.now(), Pair: true, First: a, Second: b, X: x, Y: y, Outcome: o})
}

// BoundaryCollision implements Listener.
func (r *Recorder) BoundaryCollision(e object.View, edge collision.Edge, x, y float64, o collision.Outcome) {
	r.Events = append(r.Events, Event{Clock: r.now(), First: e, Edge: edge, X: x, Y: y, Outcome: o})
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
