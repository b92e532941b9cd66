package object

// MinorPlanet is a passive obstacle drifting through the arena.
type MinorPlanet struct {
	Body
}

var _ Entity = (*MinorPlanet)(nil)

// View returns a snapshot of the minor planet.
func (p *MinorPlanet) View() View {
	return p.Body.view()
}
