package object

import (
	"math"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/physics"
)

// Factory builds entities against one set of constants and hands out their
// ids. Ids increase in construction order, which makes tie-breaks between
// simultaneous events reproducible.
type Factory struct {
	consts config.Constants
	nextID uint64
}

// NewFactory creates a factory for the given constants.
func NewFactory(c config.Constants) *Factory {
	return &Factory{consts: c, nextID: 1}
}

// Constants returns the constants entities are built with.
func (f *Factory) Constants() config.Constants {
	return f.consts
}

// ShipParams describes a ship to build. Zero values pick defaults: the
// minimum mass for the radius, the speed of light as max speed and the
// default thrust.
type ShipParams struct {
	Position    physics.Vector2D
	Velocity    physics.Vector2D
	Orientation float64
	Radius      float64
	Mass        float64
	MaxSpeed    float64
	Thrust      float64
}

// NewShip builds a ship and loads the configured initial bullets.
func (f *Factory) NewShip(p ShipParams) (*Ship, error) {
	c := f.consts
	if p.Mass == 0 {
		p.Mass = MinMass(p.Radius, c.ShipMinDensity)
	}
	b, err := f.newBody(KindShip, p.Position, p.Velocity, p.Radius, c.ShipMinRadius, p.Mass, c.ShipMinDensity, p.MaxSpeed)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(p.Orientation) || p.Orientation < 0 || p.Orientation >= 2*math.Pi {
		return nil, &ConstructionError{Kind: KindShip, Field: "orientation", Value: p.Orientation, Err: ErrInvalidOrientation}
	}
	thrust := p.Thrust
	if thrust <= 0 {
		thrust = c.ShipDefaultThrust
	}

	s := &Ship{
		Body:        b,
		orientation: p.Orientation,
		thrust:      thrust,
	}
	if err := s.LoadNewBullets(c.ShipInitialBullets); err != nil {
		return nil, err
	}
	return s, nil
}

// NewBullet builds a free bullet. Its mass follows from the bullet density.
func (f *Factory) NewBullet(pos, vel physics.Vector2D, radius float64) (*Bullet, error) {
	c := f.consts
	mass := MinMass(radius, c.BulletDensity)
	b, err := f.newBody(KindBullet, pos, vel, radius, c.BulletMinRadius, mass, c.BulletDensity, 0)
	if err != nil {
		return nil, err
	}
	return &Bullet{Body: b}, nil
}

// NewMinorPlanet builds a minor planet. A zero mass picks the minimum mass
// for the radius.
func (f *Factory) NewMinorPlanet(pos, vel physics.Vector2D, radius, mass float64) (*MinorPlanet, error) {
	c := f.consts
	if mass == 0 {
		mass = MinMass(radius, c.PlanetMinDensity)
	}
	b, err := f.newBody(KindMinorPlanet, pos, vel, radius, c.PlanetMinRadius, mass, c.PlanetMinDensity, 0)
	if err != nil {
		return nil, err
	}
	return &MinorPlanet{Body: b}, nil
}

func (f *Factory) newBody(kind Kind, pos, vel physics.Vector2D, radius, minRadius, mass, density, maxSpeed float64) (Body, error) {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < minRadius {
		return Body{}, &ConstructionError{Kind: kind, Field: "radius", Value: radius, Err: ErrInvalidRadius}
	}
	if !pos.IsFinite() {
		return Body{}, &ConstructionError{Kind: kind, Field: "position", Value: pos, Err: ErrInvalidPosition}
	}
	// Allow a relative rounding slack so MinMass(r, density) itself is accepted.
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass < MinMass(radius, density)*(1-1e-12) {
		return Body{}, &ConstructionError{Kind: kind, Field: "mass", Value: mass, Err: ErrInvalidMass}
	}
	if maxSpeed <= 0 || maxSpeed > f.consts.SpeedOfLight || math.IsNaN(maxSpeed) {
		maxSpeed = f.consts.SpeedOfLight
	}

	id := f.nextID
	f.nextID++

	return Body{
		id:       id,
		kind:     kind,
		factory:  f,
		position: pos,
		velocity: clampVelocity(vel, maxSpeed),
		radius:   radius,
		mass:     mass,
		maxSpeed: maxSpeed,
	}, nil
}
