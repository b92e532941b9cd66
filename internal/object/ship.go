package object

import (
	"fmt"
	"math"
	"slices"

	"github.com/tomz197/arena/internal/physics"
)

// Program is an onboard behaviour attached to a ship. It runs between
// advances and may only act through the ship's exported mutators.
type Program interface {
	Execute(s *Ship, dt float64) error
}

// Ship is a thrust-driven vessel that carries bullets.
type Ship struct {
	Body

	orientation float64 // Radians in [0, 2π), 0 = +X, counter-clockwise
	thrusterOn  bool
	thrust      float64 // Force produced while the thruster is on

	cargo   []*Bullet // Loaded bullets, fired in load order
	program Program
}

var (
	_ Entity = (*Ship)(nil)
	_ Host   = (*Ship)(nil)
)

// Orientation returns the heading in radians.
func (s *Ship) Orientation() float64 { return s.orientation }

// Direction returns the unit vector the ship is facing.
func (s *Ship) Direction() physics.Vector2D {
	return physics.FromAngle(s.orientation, 1)
}

// Turn rotates the ship counter-clockwise by angle, keeping the
// orientation within [0, 2π).
func (s *Ship) Turn(angle float64) error {
	if s.terminated {
		return ErrTerminated
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return ErrInvalidAngle
	}
	o := math.Mod(s.orientation+angle, 2*math.Pi)
	if o < 0 {
		o += 2 * math.Pi
	}
	// Adding 2π to a tiny negative remainder can round up to exactly 2π.
	if o >= 2*math.Pi {
		o = 0
	}
	s.orientation = o
	return nil
}

// ThrustOn enables the thruster.
func (s *Ship) ThrustOn() { s.thrusterOn = true }

// ThrustOff disables the thruster.
func (s *Ship) ThrustOff() { s.thrusterOn = false }

// IsThrusterOn reports the thruster state.
func (s *Ship) IsThrusterOn() bool { return s.thrusterOn }

// Thrust returns the thruster force.
func (s *Ship) Thrust() float64 { return s.thrust }

// SetThrust changes the thruster force. Negative or non-finite values are ignored.
func (s *Ship) SetThrust(f float64) {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	s.thrust = f
}

// Acceleration returns the current thrust acceleration magnitude.
func (s *Ship) Acceleration() float64 {
	if !s.thrusterOn {
		return 0
	}
	return s.thrust / s.TotalMass()
}

// TotalMass returns the hull mass plus the mass of every loaded bullet.
func (s *Ship) TotalMass() float64 {
	total := s.mass
	for _, b := range s.cargo {
		total += b.mass
	}
	return total
}

// Move advances the ship, drags its cargo along and applies thrust.
func (s *Ship) Move(dt float64) error {
	if err := s.Body.Move(dt); err != nil {
		return err
	}
	for _, b := range s.cargo {
		b.position = s.position
	}
	if s.thrusterOn {
		a := s.Acceleration()
		s.SetVelocity(s.velocity.Add(s.Direction().Scale(a * dt)))
	}
	return nil
}

// SetPosition places a ship that has no host yet, together with its cargo.
func (s *Ship) SetPosition(p physics.Vector2D) error {
	if err := s.Body.SetPosition(p); err != nil {
		return err
	}
	for _, b := range s.cargo {
		b.position = p
	}
	return nil
}

// Terminate removes the ship from its world and terminates every bullet it carries.
func (s *Ship) Terminate() {
	if s.terminated {
		return
	}
	cargo := s.cargo
	s.cargo = nil
	for _, b := range cargo {
		b.host = nil
		b.Terminate()
	}
	s.Body.Terminate()
}

// Release drops a carried bullet by id. It implements Host.
func (s *Ship) Release(id uint64) {
	s.cargo = slices.DeleteFunc(s.cargo, func(b *Bullet) bool { return b.id == id })
}

// BulletCount returns the number of loaded bullets.
func (s *Ship) BulletCount() int { return len(s.cargo) }

// Bullets returns a copy of the loaded bullets.
func (s *Ship) Bullets() []*Bullet { return slices.Clone(s.cargo) }

// Carries reports whether b is loaded on this ship.
func (s *Ship) Carries(b *Bullet) bool {
	return b != nil && b.host == Host(s)
}

// LoadBullet loads a free bullet. The bullet must not belong to a world or
// another ship.
func (s *Ship) LoadBullet(b *Bullet) error {
	if err := s.canLoad(b); err != nil {
		return err
	}
	s.stow(b)
	return nil
}

// LoadBullets loads a batch of free bullets. Nothing is loaded unless every
// bullet in the batch can be.
func (s *Ship) LoadBullets(bullets ...*Bullet) error {
	seen := make(map[uint64]struct{}, len(bullets))
	for _, b := range bullets {
		if err := s.canLoad(b); err != nil {
			return err
		}
		if _, dup := seen[b.id]; dup {
			return fmt.Errorf("load bullet %d twice: %w", b.id, ErrAlreadyHosted)
		}
		seen[b.id] = struct{}{}
	}
	for _, b := range bullets {
		s.stow(b)
	}
	return nil
}

// LoadNewBullets builds n fresh bullets sized for this ship and loads them.
func (s *Ship) LoadNewBullets(n int) error {
	if s.terminated {
		return ErrTerminated
	}
	if n < 0 {
		return ErrInvalidCount
	}
	f := s.factory
	radius := math.Max(s.radius/f.consts.BulletRadiusDivisor, f.consts.BulletMinRadius)
	for i := 0; i < n; i++ {
		b, err := f.NewBullet(s.position, s.velocity, radius)
		if err != nil {
			return err
		}
		s.stow(b)
	}
	return nil
}

// Reload takes a bullet fired by this ship back on board, pulling it out of
// whatever world it is flying in.
func (s *Ship) Reload(b *Bullet) error {
	if s.terminated || b.terminated {
		return ErrTerminated
	}
	if parent, ok := b.Parent(); !ok || parent != s.id {
		return ErrNotParent
	}
	if b.host == Host(s) {
		return nil
	}
	b.leaveHost()
	s.stow(b)
	return nil
}

// UnloadBullet removes a bullet from the cargo, leaving it free.
func (s *Ship) UnloadBullet(b *Bullet) error {
	if !s.Carries(b) {
		return ErrNotCarried
	}
	s.Release(b.id)
	b.host = nil
	return nil
}

// FireBullet launches the first loaded bullet along the ship's heading.
// Firing with an empty cargo does nothing. The ship must be in a world.
func (s *Ship) FireBullet() error {
	if s.terminated {
		return ErrTerminated
	}
	launcher, ok := s.host.(Launcher)
	if !ok {
		return ErrNoWorld
	}
	if len(s.cargo) == 0 {
		return nil
	}

	b := s.cargo[0]
	s.cargo = s.cargo[1:]
	b.host = nil

	c := s.factory.consts
	dir := s.Direction()
	offset := (s.radius + b.radius) * (1 + c.SpawnMargin)
	b.position = s.position.Add(dir.Scale(offset))
	b.SetVelocity(dir.Scale(c.BulletInitialSpeed))
	b.parent = s.id
	b.bounces = 0

	return launcher.Launch(b)
}

// LoadProgram attaches a behaviour program, replacing any previous one.
func (s *Ship) LoadProgram(p Program) { s.program = p }

// Program returns the attached program, or nil.
func (s *Ship) Program() Program { return s.program }

// ExecuteProgram runs the attached program for dt seconds of ship time.
func (s *Ship) ExecuteProgram(dt float64) error {
	if err := CheckTime(dt); err != nil {
		return err
	}
	if s.program == nil || s.terminated {
		return nil
	}
	return s.program.Execute(s, dt)
}

// View returns a snapshot of the ship.
func (s *Ship) View() View {
	v := s.Body.view()
	v.Mass = s.TotalMass()
	v.Orientation = s.orientation
	v.Bullets = len(s.cargo)
	v.Thrusting = s.thrusterOn
	return v
}

func (s *Ship) canLoad(b *Bullet) error {
	if b == nil {
		return ErrNilEntity
	}
	if s.terminated || b.terminated {
		return ErrTerminated
	}
	if b.host != nil {
		return fmt.Errorf("load bullet %d: %w", b.id, ErrAlreadyHosted)
	}
	return nil
}

// stow puts a host-less bullet in the cargo hold.
func (s *Ship) stow(b *Bullet) {
	b.host = s
	b.parent = s.id
	b.position = s.position
	b.velocity = physics.Zero
	b.bounces = 0
	s.cargo = append(s.cargo, b)
}
