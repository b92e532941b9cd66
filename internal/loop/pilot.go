package loop

import (
	"errors"

	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/object"
)

const (
	pilotTurnRate = 3.0  // Radians per second
	pilotCooldown = 0.25 // Seconds between shots
)

// KeySource reports the pilot key state.
type KeySource interface {
	Poll() input.Keys
}

// Pilot is a ship program steered from the keyboard.
type Pilot struct {
	keys     KeySource
	cooldown float64
	quit     bool
}

var _ object.Program = (*Pilot)(nil)

// NewPilot creates a pilot reading keys from src.
func NewPilot(src KeySource) *Pilot {
	return &Pilot{keys: src}
}

// Quit reports whether the pilot asked to leave.
func (p *Pilot) Quit() bool { return p.quit }

// Execute implements object.Program.
func (p *Pilot) Execute(s *object.Ship, dt float64) error {
	k := p.keys.Poll()
	if k.Quit {
		p.quit = true
	}

	var turn float64
	if k.Left {
		turn += pilotTurnRate * dt
	}
	if k.Right {
		turn -= pilotTurnRate * dt
	}
	if turn != 0 {
		if err := s.Turn(turn); err != nil {
			return err
		}
	}

	if k.Thrust {
		s.ThrustOn()
	} else {
		s.ThrustOff()
	}

	p.cooldown -= dt
	if !k.Fire || p.cooldown > 0 {
		return nil
	}
	p.cooldown = pilotCooldown
	if s.BulletCount() == 0 {
		// An empty hold is refilled so the pilot can keep playing.
		if err := s.LoadNewBullets(1); err != nil {
			return err
		}
	}
	if err := s.FireBullet(); err != nil && !errors.Is(err, object.ErrNoWorld) {
		return err
	}
	return nil
}
