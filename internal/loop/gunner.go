package loop

import (
	"errors"

	"github.com/tomz197/arena/internal/object"
)

// Gunner is a ship program that fires a loaded bullet at a fixed interval and
// turns at a constant rate.
type Gunner struct {
	interval float64 // Seconds between shots
	turnRate float64 // Radians per second
	elapsed  float64
}

var _ object.Program = (*Gunner)(nil)

// NewGunner creates a gunner program.
func NewGunner(interval, turnRate float64) *Gunner {
	return &Gunner{interval: interval, turnRate: turnRate}
}

// Execute implements object.Program.
func (g *Gunner) Execute(s *object.Ship, dt float64) error {
	if g.turnRate != 0 {
		if err := s.Turn(g.turnRate * dt); err != nil {
			return err
		}
	}
	g.elapsed += dt
	if g.interval <= 0 || g.elapsed < g.interval {
		return nil
	}
	g.elapsed -= g.interval
	if err := s.FireBullet(); err != nil && !errors.Is(err, object.ErrNoWorld) {
		return err
	}
	return nil
}
