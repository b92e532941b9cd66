package object

import (
	"fmt"

	"github.com/tomz197/arena/internal/physics"
)

// Body holds the state shared by all entity variants. Variants embed it.
type Body struct {
	id       uint64
	kind     Kind
	factory  *Factory
	position physics.Vector2D
	velocity physics.Vector2D
	radius   float64
	mass     float64
	maxSpeed float64

	host       Host
	terminated bool
}

func (b *Body) body() *Body { return b }

// ID returns the entity's stable identifier, unique within its factory.
func (b *Body) ID() uint64 { return b.id }

// Kind returns the entity variant.
func (b *Body) Kind() Kind { return b.kind }

// Position returns the centre of the entity.
func (b *Body) Position() physics.Vector2D { return b.position }

// Velocity returns the current velocity.
func (b *Body) Velocity() physics.Vector2D { return b.velocity }

// Radius returns the collision radius.
func (b *Body) Radius() float64 { return b.radius }

// Mass returns the entity's own mass.
func (b *Body) Mass() float64 { return b.mass }

// TotalMass returns the inertial mass. Only ships carry extra mass.
func (b *Body) TotalMass() float64 { return b.mass }

// MaxSpeed returns the entity's speed limit.
func (b *Body) MaxSpeed() float64 { return b.maxSpeed }

// Host returns the world or ship holding the entity, or nil.
func (b *Body) Host() Host { return b.host }

// IsTerminated reports whether the entity has been terminated.
func (b *Body) IsTerminated() bool { return b.terminated }

// Move advances the position by velocity*dt.
func (b *Body) Move(dt float64) error {
	if err := CheckTime(dt); err != nil {
		return fmt.Errorf("move %s %d by %g: %w", b.kind, b.id, dt, err)
	}
	if b.terminated {
		return fmt.Errorf("move %s %d: %w", b.kind, b.id, ErrTerminated)
	}
	b.position = b.position.Add(b.velocity.Scale(dt))
	return nil
}

// SetVelocity sets the velocity, clamping its magnitude to the max speed.
// Non-finite input resets the velocity to zero.
func (b *Body) SetVelocity(v physics.Vector2D) {
	b.velocity = clampVelocity(v, b.maxSpeed)
}

// SetPosition places an entity that has no host yet.
func (b *Body) SetPosition(p physics.Vector2D) error {
	if b.terminated {
		return ErrTerminated
	}
	if b.host != nil {
		return ErrAlreadyHosted
	}
	if !p.IsFinite() {
		return fmt.Errorf("position %v: %w", p, ErrInvalidPosition)
	}
	b.position = p
	return nil
}

// Overlaps reports whether other is this entity or touches it.
func (b *Body) Overlaps(other Entity) bool {
	if other == nil {
		return false
	}
	if other.ID() == b.id {
		return true
	}
	return physics.CirclesOverlap(b.position, b.radius, other.Position(), other.Radius())
}

// Attach records h as the entity's host.
func (b *Body) Attach(h Host) error {
	if b.terminated {
		return ErrTerminated
	}
	if b.host != nil {
		return ErrAlreadyHosted
	}
	b.host = h
	return nil
}

// Detach clears the host if it is h.
func (b *Body) Detach(h Host) {
	if b.host == h {
		b.host = nil
	}
}

// Terminate removes the entity from its host and marks it inert.
// Calling it again has no effect.
func (b *Body) Terminate() {
	if b.terminated {
		return
	}
	b.leaveHost()
	b.terminated = true
}

// leaveHost drops the entity from whatever holds it.
func (b *Body) leaveHost() {
	if h := b.host; h != nil {
		b.host = nil
		h.Release(b.id)
	}
}

func (b *Body) view() View {
	return View{
		ID:       b.id,
		Kind:     b.kind,
		Position: b.position,
		Velocity: b.velocity,
		Radius:   b.radius,
		Mass:     b.mass,
	}
}

func (b *Body) String() string {
	return fmt.Sprintf("%s#%d %v %v", b.kind, b.id, b.position, b.velocity)
}

func clampVelocity(v physics.Vector2D, maxSpeed float64) physics.Vector2D {
	if !v.IsFinite() {
		return physics.Zero
	}
	speed := v.Length()
	if speed <= maxSpeed {
		return v
	}
	return v.Scale(maxSpeed / speed)
}
