package collision

import (
	"fmt"

	"github.com/tomz197/arena/internal/object"
)

// resolvePair dispatches on the variant pair. The table is:
//
//	ship   / ship    elastic impulse
//	ship   / bullet  reload if the ship fired it, otherwise both destroyed
//	bullet / bullet  both destroyed
//	ship   / planet  ship destroyed
//	bullet / planet  both destroyed
//	planet / planet  elastic impulse
func resolvePair(a, b object.Entity) (Outcome, error) {
	switch x := a.(type) {
	case *object.Ship:
		switch y := b.(type) {
		case *object.Ship:
			bounce(x, y)
			return OutcomeBounce, nil
		case *object.Bullet:
			return shipBullet(x, y)
		case *object.MinorPlanet:
			x.Terminate()
			return OutcomeDestroy, nil
		}
	case *object.Bullet:
		switch y := b.(type) {
		case *object.Ship:
			return shipBullet(y, x)
		case *object.Bullet, *object.MinorPlanet:
			x.Terminate()
			y.Terminate()
			return OutcomeDestroy, nil
		}
	case *object.MinorPlanet:
		switch y := b.(type) {
		case *object.Ship:
			y.Terminate()
			return OutcomeDestroy, nil
		case *object.Bullet:
			x.Terminate()
			y.Terminate()
			return OutcomeDestroy, nil
		case *object.MinorPlanet:
			bounce(x, y)
			return OutcomeBounce, nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrUnknownVariant, a, b)
}

// shipBullet reloads a bullet that returns to the ship that fired it and
// destroys both otherwise.
func shipBullet(s *object.Ship, b *object.Bullet) (Outcome, error) {
	if parent, ok := b.Parent(); ok && parent == s.ID() {
		if err := s.Reload(b); err != nil {
			return 0, fmt.Errorf("reload bullet %d on ship %d: %w", b.ID(), s.ID(), err)
		}
		return OutcomeReload, nil
	}
	s.Terminate()
	b.Terminate()
	return OutcomeDestroy, nil
}

// bounce exchanges an elastic impulse along the line of centres, using the
// total mass of each body.
func bounce(e1, e2 object.Entity) {
	dp := e2.Position().Sub(e1.Position())
	dv := e2.Velocity().Sub(e1.Velocity())
	sigma := e1.Radius() + e2.Radius()
	m1, m2 := e1.TotalMass(), e2.TotalMass()

	j := 2 * m1 * m2 * dv.Dot(dp) / (sigma * (m1 + m2))
	impulse := dp.Scale(j / sigma)

	e1.SetVelocity(e1.Velocity().Add(impulse.Scale(1 / m1)))
	e2.SetVelocity(e2.Velocity().Sub(impulse.Scale(1 / m2)))
}
