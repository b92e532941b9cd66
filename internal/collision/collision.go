// Package collision predicts when moving entities will touch each other or
// the arena walls, and applies the matching resolution rule at that instant.
//
// A Collision is a pure prediction: it is recomputed on every query and
// discarded once resolved.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomz197/arena/internal/physics"
)

var (
	// ErrAlreadyOverlapping is returned when predicting a collision between
	// entities that already interpenetrate.
	ErrAlreadyOverlapping = errors.New("collision: entities already overlap")
	// ErrStale is returned when resolving a collision whose entities are no
	// longer live.
	ErrStale = errors.New("collision: entity is terminated")
	// ErrUnknownVariant is returned for an entity outside the closed variant set.
	ErrUnknownVariant = errors.New("collision: unknown entity variant")
)

// Edge names a wall of the arena.
type Edge int

const (
	EdgeLeft   Edge = iota // x = 0
	EdgeRight              // x = width
	EdgeBottom             // y = 0
	EdgeTop                // y = height
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeTop:
		return "top"
	default:
		return fmt.Sprintf("edge(%d)", int(e))
	}
}

// Vertical reports whether the edge is parallel to the Y axis.
func (e Edge) Vertical() bool {
	return e == EdgeLeft || e == EdgeRight
}

// Outcome describes what a resolution did.
type Outcome int

const (
	OutcomeBounce Outcome = iota + 1
	OutcomeReload
	OutcomeDestroy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBounce:
		return "bounce"
	case OutcomeReload:
		return "reload"
	case OutcomeDestroy:
		return "destroy"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Key orders simultaneous collisions. Pair collisions rank before boundary
// collisions of the same lowest entity.
type Key struct {
	Low  uint64
	Rank uint8
	High uint64 // Second entity id, or the edge for boundary collisions
}

// Less compares keys lexicographically.
func (k Key) Less(o Key) bool {
	if k.Low != o.Low {
		return k.Low < o.Low
	}
	if k.Rank != o.Rank {
		return k.Rank < o.Rank
	}
	return k.High < o.High
}

const (
	rankPair uint8 = iota
	rankBoundary
)

// Collision is a predicted event. The variants are *Pair and *Boundary.
type Collision interface {
	// Time returns the predicted time until the event, +Inf for never.
	Time() float64
	// Point returns where the contact happens.
	Point() physics.Vector2D
	// Resolve applies the resolution rule. The entities must already have
	// been advanced to the event instant.
	Resolve() (Outcome, error)
	Key() Key
	String() string

	isCollision()
}

// Earlier reports whether a happens before b, breaking exact ties by key.
func Earlier(a, b Collision) bool {
	if b == nil {
		return a != nil
	}
	if a == nil {
		return false
	}
	ta, tb := a.Time(), b.Time()
	if ta != tb {
		return ta < tb
	}
	return a.Key().Less(b.Key())
}

// Never reports whether a collision will not happen under constant velocity.
func Never(c Collision) bool {
	return c == nil || math.IsInf(c.Time(), 1)
}
