package object

// Bullet is a projectile. While loaded it rides inside its carrier; once
// fired it flies freely and remembers the ship that fired it.
type Bullet struct {
	Body

	parent  uint64 // Id of the ship that loaded or fired it, 0 if none
	bounces int    // Boundary hits since it was fired
}

var _ Entity = (*Bullet)(nil)

// Parent returns the id of the ship that owns this bullet.
func (b *Bullet) Parent() (uint64, bool) {
	return b.parent, b.parent != 0
}

// Carrier returns the ship currently carrying the bullet, or nil if it is free
// or in a world.
func (b *Bullet) Carrier() *Ship {
	s, _ := b.host.(*Ship)
	return s
}

// Bounces returns the number of boundary hits since the bullet was fired.
func (b *Bullet) Bounces() int { return b.bounces }

// Bounce records a boundary hit. It reports false once the bullet has used up
// its bounce budget and must be destroyed instead.
func (b *Bullet) Bounce() bool {
	if b.bounces >= b.factory.consts.BulletMaxBounces {
		return false
	}
	b.bounces++
	return true
}

// View returns a snapshot of the bullet.
func (b *Bullet) View() View {
	return b.Body.view()
}
