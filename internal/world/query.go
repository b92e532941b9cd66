package world

import (
	"math"

	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// Nearest returns the live entity of the given kind closest to from, measured
// edge to edge. from itself is never returned. Equal distances go to the
// lower id.
func (w *World) Nearest(from object.Entity, kind object.Kind) (object.Entity, bool) {
	var (
		best     object.Entity
		bestDist = math.Inf(1)
	)
	for _, id := range w.order {
		e := w.entities[id]
		if e.Kind() != kind || id == from.ID() {
			continue
		}
		d := physics.EdgeDistance(from.Position(), from.Radius(), e.Position(), e.Radius())
		if d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

// NearestShip returns the ship closest to s.
func (w *World) NearestShip(s *object.Ship) (*object.Ship, bool) {
	e, ok := w.Nearest(s, object.KindShip)
	if !ok {
		return nil, false
	}
	return e.(*object.Ship), true
}

// NearestBullet returns the free bullet closest to s.
func (w *World) NearestBullet(s *object.Ship) (*object.Bullet, bool) {
	e, ok := w.Nearest(s, object.KindBullet)
	if !ok {
		return nil, false
	}
	return e.(*object.Bullet), true
}

// NearestPlanet returns the minor planet closest to s.
func (w *World) NearestPlanet(s *object.Ship) (*object.MinorPlanet, bool) {
	e, ok := w.Nearest(s, object.KindMinorPlanet)
	if !ok {
		return nil, false
	}
	return e.(*object.MinorPlanet), true
}
