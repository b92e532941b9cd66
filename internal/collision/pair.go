package collision

import (
	"fmt"
	"math"

	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// Pair is a predicted collision between two entities. first always has the
// lower id.
type Pair struct {
	first, second object.Entity
	t             float64

	// State at prediction time, used to place the contact point.
	p1, v1, p2, v2 physics.Vector2D
	point          *physics.Vector2D
}

// NewPair records a collision between a and b happening t from now.
func NewPair(a, b object.Entity, t float64) *Pair {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return &Pair{
		first:  a,
		second: b,
		t:      t,
		p1:     a.Position(),
		v1:     a.Velocity(),
		p2:     b.Position(),
		v2:     b.Velocity(),
	}
}

// TimeToCollision returns the time until a and b first touch, +Inf if they
// never do. significant is the fraction of the summed radii below which the
// pair counts as already interpenetrating, which is an error.
func TimeToCollision(a, b object.Entity, significant float64) (float64, error) {
	dp := b.Position().Sub(a.Position())
	dv := b.Velocity().Sub(a.Velocity())
	sigma := a.Radius() + b.Radius()

	if dp.Dot(dv) >= 0 {
		return math.Inf(1), nil
	}
	if a.ID() == b.ID() || dp.Length() < significant*sigma {
		return 0, fmt.Errorf("%w: %d and %d", ErrAlreadyOverlapping, a.ID(), b.ID())
	}
	return physics.ContactTime(dp, dv, sigma), nil
}

// First returns the entity with the lower id.
func (c *Pair) First() object.Entity { return c.first }

// Second returns the entity with the higher id.
func (c *Pair) Second() object.Entity { return c.second }

// Time returns the predicted time until contact.
func (c *Pair) Time() float64 { return c.t }

// Key orders the pair by its entity ids.
func (c *Pair) Key() Key {
	return Key{Low: c.first.ID(), Rank: rankPair, High: c.second.ID()}
}

// Point returns the contact point on the first entity's boundary, on the
// line towards the second entity's centre at the moment of contact.
func (c *Pair) Point() physics.Vector2D {
	if c.point != nil {
		return *c.point
	}
	t := c.t
	if math.IsInf(t, 1) {
		t = 0
	}
	a := c.p1.Add(c.v1.Scale(t))
	b := c.p2.Add(c.v2.Scale(t))
	p := a
	if dir, err := b.Sub(a).Normalize(); err == nil {
		p = a.Add(dir.Scale(c.first.Radius()))
	}
	c.point = &p
	return p
}

// Resolve applies the pair rule for the two variants involved.
func (c *Pair) Resolve() (Outcome, error) {
	if c.first.IsTerminated() || c.second.IsTerminated() {
		return 0, fmt.Errorf("resolve %s: %w", c, ErrStale)
	}
	return resolvePair(c.first, c.second)
}

func (c *Pair) String() string {
	return fmt.Sprintf("pair(%s#%d, %s#%d, t=%g)", c.first.Kind(), c.first.ID(), c.second.Kind(), c.second.ID(), c.t)
}

func (c *Pair) isCollision() {}
