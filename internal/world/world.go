// Package world runs the arena: it owns the live entities and advances them
// from one collision to the next.
package world

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// Placement errors returned by AddEntity. The caller can recover from them.
var (
	ErrOutOfWorld  = errors.New("entity lies outside the world")
	ErrOverlap     = errors.New("entity overlaps a live entity")
	ErrDuplicateID = errors.New("an entity with this id is already live")
	ErrInvalidSize = errors.New("world dimensions must be positive and finite")
	ErrEventStorm  = errors.New("too many collisions within one advance")
)

// State is the phase of the advance loop.
type State int

const (
	StateIdle State = iota
	StateAdvancing
	StateResolving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAdvancing:
		return "advancing"
	case StateResolving:
		return "resolving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// maxEventsPerAdvance bounds the number of resolutions in one Advance call.
const maxEventsPerAdvance = 1 << 20

// World is a bounded [0,width]x[0,height] arena and the entities live in it.
// It is not safe for concurrent use.
type World struct {
	width, height float64
	consts        config.Constants

	entities map[uint64]object.Entity
	order    []uint64 // Live ids, ascending

	listeners []Listener
	observers []Observer
	log       *zap.Logger

	state State
	clock float64 // Simulated time advanced so far
}

var _ object.Launcher = (*World)(nil)

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithListener registers a collision listener.
func WithListener(l Listener) Option {
	return func(w *World) {
		if l != nil {
			w.listeners = append(w.listeners, l)
		}
	}
}

// WithObserver registers an advance observer.
func WithObserver(o Observer) Option {
	return func(w *World) {
		if o != nil {
			w.observers = append(w.observers, o)
		}
	}
}

// New creates an empty world.
func New(width, height float64, c config.Constants, opts ...Option) (*World, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidSize, width, height)
	}
	w := &World{
		width:    width,
		height:   height,
		consts:   c,
		entities: make(map[uint64]object.Entity),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Width returns the arena width.
func (w *World) Width() float64 { return w.width }

// Height returns the arena height.
func (w *World) Height() float64 { return w.height }

// Clock returns the total simulated time advanced.
func (w *World) Clock() float64 { return w.clock }

// State returns the phase of the advance loop.
func (w *World) State() State { return w.state }

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.order) }

// AddListener registers a collision listener after construction.
func (w *World) AddListener(l Listener) {
	if l != nil {
		w.listeners = append(w.listeners, l)
	}
}

// Contains reports whether e is live in this world.
func (w *World) Contains(e object.Entity) bool {
	if e == nil {
		return false
	}
	got, ok := w.entities[e.ID()]
	return ok && got == e
}

// Entity looks up a live entity by id.
func (w *World) Entity(id uint64) (object.Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns the live entities ordered by id.
func (w *World) Entities() []object.Entity {
	out := make([]object.Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// Ships returns the live ships ordered by id.
func (w *World) Ships() []*object.Ship { return collect[*object.Ship](w) }

// Bullets returns the live bullets ordered by id.
func (w *World) Bullets() []*object.Bullet { return collect[*object.Bullet](w) }

// Planets returns the live minor planets ordered by id.
func (w *World) Planets() []*object.MinorPlanet { return collect[*object.MinorPlanet](w) }

func collect[T object.Entity](w *World) []T {
	var out []T
	for _, id := range w.order {
		if e, ok := w.entities[id].(T); ok {
			out = append(out, e)
		}
	}
	return out
}

// AddEntity places a free entity in the world. It fails if the entity is
// hosted elsewhere, sticks out of the arena or touches a live entity.
func (w *World) AddEntity(e object.Entity) error {
	if e == nil {
		return object.ErrNilEntity
	}
	if e.IsTerminated() {
		return fmt.Errorf("add %s %d: %w", e.Kind(), e.ID(), object.ErrTerminated)
	}
	if e.Host() != nil {
		return fmt.Errorf("add %s %d: %w", e.Kind(), e.ID(), object.ErrAlreadyHosted)
	}
	if _, dup := w.entities[e.ID()]; dup {
		return fmt.Errorf("add %s %d: %w", e.Kind(), e.ID(), ErrDuplicateID)
	}
	if !w.fits(e) {
		return fmt.Errorf("add %s %d at %v: %w", e.Kind(), e.ID(), e.Position(), ErrOutOfWorld)
	}
	if other := w.firstOverlap(e); other != nil {
		return fmt.Errorf("add %s %d: %w: %s %d", e.Kind(), e.ID(), ErrOverlap, other.Kind(), other.ID())
	}
	if err := e.Attach(w); err != nil {
		return err
	}
	w.insert(e)
	return nil
}

// RemoveEntity takes e out of the world without terminating it. Removing an
// entity that is not live here does nothing.
func (w *World) RemoveEntity(e object.Entity) {
	if !w.Contains(e) {
		return
	}
	w.Release(e.ID())
	e.Detach(w)
}

// Release drops a live entity by id. It implements object.Host.
func (w *World) Release(id uint64) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	if i, found := slices.BinarySearch(w.order, id); found {
		w.order = slices.Delete(w.order, i, i+1)
	}
}

// Launch puts a freshly fired bullet into play. A bullet spawned outside the
// arena is destroyed on the spot. A bullet spawned on top of another entity
// collides with it immediately.
func (w *World) Launch(b *object.Bullet) error {
	if !w.fits(b) {
		w.log.Debug("bullet spawned outside world",
			zap.Uint64("id", b.ID()),
			zap.Stringer("position", b.Position()),
		)
		b.Terminate()
		return nil
	}
	if err := b.Attach(w); err != nil {
		return err
	}
	w.insert(b)

	prev := w.state
	defer func() { w.state = prev }()
	for !b.IsTerminated() && w.Contains(b) {
		other := w.firstOverlap(b)
		if other == nil {
			break
		}
		if _, err := w.resolve(collision.NewPair(b, other, 0), nil); err != nil {
			return err
		}
	}
	return nil
}

// EntityAt returns the live entity whose centre is exactly p, if any.
func (w *World) EntityAt(p physics.Vector2D) (object.Entity, bool) {
	for _, id := range w.order {
		if e := w.entities[id]; e.Position() == p {
			return e, true
		}
	}
	return nil, false
}

func (w *World) fits(e object.Entity) bool {
	return physics.WithinBounds(e.Position(), e.Radius(), w.width, w.height)
}

// firstOverlap returns the lowest-id live entity touching e.
func (w *World) firstOverlap(e object.Entity) object.Entity {
	for _, id := range w.order {
		other := w.entities[id]
		if id == e.ID() {
			continue
		}
		if e.Overlaps(other) {
			return other
		}
	}
	return nil
}

func (w *World) insert(e object.Entity) {
	id := e.ID()
	w.entities[id] = e
	i, _ := slices.BinarySearch(w.order, id)
	w.order = slices.Insert(w.order, i, id)
}
