// Package object defines the simulated bodies of the arena: ships, bullets
// and minor planets. Every body is a circle with a position, a velocity, a
// mass and at most one host (a World or the Ship carrying it).
package object

import (
	"fmt"
	"math"

	"github.com/tomz197/arena/internal/physics"
)

// Kind identifies the variant of an entity.
type Kind int

const (
	KindShip Kind = iota + 1
	KindBullet
	KindMinorPlanet
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindBullet:
		return "bullet"
	case KindMinorPlanet:
		return "minor_planet"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Host is anything that holds entities: a World or a carrying Ship.
// Hosts refer to their members by id, and members refer back to their host
// without owning it.
type Host interface {
	// Release drops the entity with the given id from the host.
	// It must not call back into the entity.
	Release(id uint64)
}

// Launcher is a host that can put a fired bullet into play.
type Launcher interface {
	Host
	// Launch takes ownership of a bullet that has just left its carrier.
	Launch(b *Bullet) error
}

// Entity is the capability set shared by all variants. The set of variants
// is closed: *Ship, *Bullet and *MinorPlanet.
type Entity interface {
	ID() uint64
	Kind() Kind

	Position() physics.Vector2D
	Velocity() physics.Vector2D
	Radius() float64
	Mass() float64
	// TotalMass is the inertial mass, including carried cargo.
	TotalMass() float64
	MaxSpeed() float64

	// Move advances the entity by dt under its current velocity.
	Move(dt float64) error
	// SetVelocity clamps v to the max speed; invalid input resets to zero.
	SetVelocity(v physics.Vector2D)
	Overlaps(other Entity) bool

	Host() Host
	// Attach records h as the host. Only hosts call it.
	Attach(h Host) error
	// Detach clears the host if it is h. Only hosts call it.
	Detach(h Host)

	Terminate()
	IsTerminated() bool

	View() View

	body() *Body
}

// View is an immutable copy of an entity's observable state.
type View struct {
	ID          uint64
	Kind        Kind
	Position    physics.Vector2D
	Velocity    physics.Vector2D
	Radius      float64
	Mass        float64
	Orientation float64 // Ships only
	Bullets     int     // Ships only
	Thrusting   bool    // Ships only
}

// SphereVolume returns the volume of a sphere with radius r.
func SphereVolume(r float64) float64 {
	return 4.0 / 3.0 * math.Pi * r * r * r
}

// MinMass returns the lightest mass allowed for a body of radius r
// built from material of the given density.
func MinMass(r, density float64) float64 {
	return SphereVolume(r) * density
}
