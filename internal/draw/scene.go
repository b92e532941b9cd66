package draw

import (
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/world"
)

// Scene clears the canvas and draws every entity of a snapshot.
func (c *Canvas) Scene(s world.Snapshot) {
	c.Clear()
	for _, e := range s.Entities {
		switch e.Kind {
		case object.KindShip:
			c.Circle(e.Position, e.Radius, false)
			nose := e.Position.Add(physics.FromAngle(e.Orientation, e.Radius*1.5))
			c.Line(e.Position, nose)
		case object.KindMinorPlanet:
			c.Circle(e.Position, e.Radius, true)
		default:
			c.Set(e.Position)
		}
	}
}
