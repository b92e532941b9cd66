package collision

import (
	"fmt"
	"math"

	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// Boundary is a predicted collision between an entity and an arena wall.
type Boundary struct {
	entity        object.Entity
	edge          Edge
	t             float64
	width, height float64

	p, v  physics.Vector2D
	point *physics.Vector2D
}

// PredictBoundary returns the earliest wall contact of e inside a
// width x height arena. Ties between walls favour the X axis.
func PredictBoundary(e object.Entity, width, height float64) *Boundary {
	p, v, r := e.Position(), e.Velocity(), e.Radius()

	tx, highX := physics.WallTime(p.X, v.X, r, width)
	ty, highY := physics.WallTime(p.Y, v.Y, r, height)

	edge, t := EdgeLeft, tx
	if highX {
		edge = EdgeRight
	}
	if ty < tx {
		edge, t = EdgeBottom, ty
		if highY {
			edge = EdgeTop
		}
	}

	return &Boundary{
		entity: e,
		edge:   edge,
		t:      t,
		width:  width,
		height: height,
		p:      p,
		v:      v,
	}
}

// NewBoundary records a contact between e and edge happening t from now.
func NewBoundary(e object.Entity, edge Edge, t, width, height float64) *Boundary {
	return &Boundary{
		entity: e,
		edge:   edge,
		t:      t,
		width:  width,
		height: height,
		p:      e.Position(),
		v:      e.Velocity(),
	}
}

// Entity returns the entity hitting the wall.
func (c *Boundary) Entity() object.Entity { return c.entity }

// Edge returns the wall being hit.
func (c *Boundary) Edge() Edge { return c.edge }

// Time returns the predicted time until contact.
func (c *Boundary) Time() float64 { return c.t }

// Key orders the boundary collision after the entity's pair collisions.
func (c *Boundary) Key() Key {
	return Key{Low: c.entity.ID(), Rank: rankBoundary, High: uint64(c.edge)}
}

// Point returns where the entity's edge touches the wall.
func (c *Boundary) Point() physics.Vector2D {
	if c.point != nil {
		return *c.point
	}
	t := c.t
	if math.IsInf(t, 1) {
		t = 0
	}
	at := c.p.Add(c.v.Scale(t))
	var p physics.Vector2D
	switch c.edge {
	case EdgeLeft:
		p = physics.Vec(0, at.Y)
	case EdgeRight:
		p = physics.Vec(c.width, at.Y)
	case EdgeBottom:
		p = physics.Vec(at.X, 0)
	default:
		p = physics.Vec(at.X, c.height)
	}
	c.point = &p
	return p
}

// Resolve bounces the entity off the wall. A bullet that has used up its
// bounce budget is destroyed instead.
func (c *Boundary) Resolve() (Outcome, error) {
	if c.entity.IsTerminated() {
		return 0, fmt.Errorf("resolve %s: %w", c, ErrStale)
	}
	if b, ok := c.entity.(*object.Bullet); ok && !b.Bounce() {
		b.Terminate()
		return OutcomeDestroy, nil
	}

	v := c.entity.Velocity()
	if c.edge.Vertical() {
		v.X = -v.X
	} else {
		v.Y = -v.Y
	}
	c.entity.SetVelocity(v)
	return OutcomeBounce, nil
}

func (c *Boundary) String() string {
	return fmt.Sprintf("boundary(%s#%d, %s, t=%g)", c.entity.Kind(), c.entity.ID(), c.edge, c.t)
}

func (c *Boundary) isCollision() {}
