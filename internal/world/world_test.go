package world_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/scenario"
	"github.com/tomz197/arena/internal/world"
)

type arena struct {
	t   *testing.T
	f   *object.Factory
	w   *world.World
	rec *world.Recorder
}

func newArena(t *testing.T, width, height float64) *arena {
	t.Helper()
	consts := config.Default()
	w, err := world.New(width, height, consts)
	require.NoError(t, err)
	rec := world.NewRecorder(w)
	w.AddListener(rec)
	return &arena{t: t, f: object.NewFactory(consts), w: w, rec: rec}
}

func (a *arena) ship(p object.ShipParams) *object.Ship {
	a.t.Helper()
	s, err := a.f.NewShip(p)
	require.NoError(a.t, err)
	require.NoError(a.t, a.w.AddEntity(s))
	return s
}

func (a *arena) planet(x, y, vx, vy, r float64) *object.MinorPlanet {
	a.t.Helper()
	p, err := a.f.NewMinorPlanet(physics.Vec(x, y), physics.Vec(vx, vy), r, 0)
	require.NoError(a.t, err)
	require.NoError(a.t, a.w.AddEntity(p))
	return p
}

func at(x, y, vx, vy, r float64) object.ShipParams {
	return object.ShipParams{Position: physics.Vec(x, y), Velocity: physics.Vec(vx, vy), Radius: r}
}

func TestNewRejectsBadSize(t *testing.T) {
	for _, size := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 10}, {math.Inf(1), 10}} {
		_, err := world.New(size[0], size[1], config.Default())
		assert.ErrorIs(t, err, world.ErrInvalidSize)
	}
}

func TestAddEntityValidation(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(50, 50, 0, 0, 10))
	assert.True(t, a.w.Contains(s))
	assert.Same(t, a.w, s.Host())

	assert.ErrorIs(t, a.w.AddEntity(nil), object.ErrNilEntity)
	assert.ErrorIs(t, a.w.AddEntity(s), object.ErrAlreadyHosted)

	out, err := a.f.NewShip(at(5, 50, 0, 0, 10))
	require.NoError(t, err)
	assert.ErrorIs(t, a.w.AddEntity(out), world.ErrOutOfWorld)

	touching, err := a.f.NewShip(at(70, 50, 0, 0, 10))
	require.NoError(t, err)
	assert.ErrorIs(t, a.w.AddEntity(touching), world.ErrOverlap)

	dead, err := a.f.NewShip(at(20, 20, 0, 0, 10))
	require.NoError(t, err)
	dead.Terminate()
	assert.ErrorIs(t, a.w.AddEntity(dead), object.ErrTerminated)

	// A second factory reuses ids.
	clone, err := object.NewFactory(config.Default()).NewShip(at(20, 80, 0, 0, 10))
	require.NoError(t, err)
	assert.ErrorIs(t, a.w.AddEntity(clone), world.ErrDuplicateID)

	assert.Equal(t, 1, a.w.Len())
}

func TestTerminatedEntityLeavesWorld(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(50, 50, 0, 0, 10))
	p := a.planet(20, 20, 0, 0, 5)

	s.Terminate()
	assert.False(t, a.w.Contains(s))
	assert.Nil(t, s.Host())
	assert.Equal(t, []object.Entity{p}, a.w.Entities())

	a.w.RemoveEntity(p)
	assert.Equal(t, 0, a.w.Len())
	assert.False(t, p.IsTerminated())
	assert.Nil(t, p.Host())
}

func TestHeadOnShipsSwapVelocities(t *testing.T) {
	a := newArena(t, 100, 100)
	s1 := a.ship(at(20, 50, 10, 0, 10))
	s2 := a.ship(at(80, 50, -10, 0, 10))
	momentum := s1.Velocity().Scale(s1.TotalMass()).Add(s2.Velocity().Scale(s2.TotalMass()))

	stats, err := a.w.Advance(3)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Events)
	assert.Equal(t, 1, stats.Pairs)
	assert.InDelta(t, 3, stats.Elapsed, 1e-12)
	assert.InDelta(t, 3, a.w.Clock(), 1e-12)
	assert.Equal(t, world.StateIdle, a.w.State())

	assert.InDelta(t, -10, s1.Velocity().X, 1e-9)
	assert.InDelta(t, 10, s2.Velocity().X, 1e-9)
	assert.InDelta(t, 30, s1.Position().X, 1e-9)
	assert.InDelta(t, 70, s2.Position().X, 1e-9)

	after := s1.Velocity().Scale(s1.TotalMass()).Add(s2.Velocity().Scale(s2.TotalMass()))
	assert.InDelta(t, momentum.X, after.X, math.Abs(s1.TotalMass())*1e-9)

	require.Len(t, a.rec.Events, 1)
	ev := a.rec.Events[0]
	assert.True(t, ev.Pair)
	assert.InDelta(t, 2, ev.Clock, 1e-12)
	assert.Equal(t, s1.ID(), ev.First.ID)
	assert.Equal(t, s2.ID(), ev.Second.ID)
	// Listeners see the state before resolution.
	assert.InDelta(t, 10, ev.First.Velocity.X, 1e-9)
	assert.InDelta(t, 50, ev.X, 1e-9)
	assert.InDelta(t, 50, ev.Y, 1e-9)
	assert.Equal(t, collision.OutcomeBounce, ev.Outcome)
}

func TestFiredBulletBouncesAndIsReloaded(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(50, 50, 0, 0, 10))
	require.NoError(t, s.LoadNewBullets(1))
	b := s.Bullets()[0]

	require.NoError(t, s.FireBullet())
	assert.Equal(t, 0, s.BulletCount())
	require.True(t, a.w.Contains(b))
	assert.InDelta(t, 50+12*1.01, b.Position().X, 1e-9)
	assert.InDelta(t, 250, b.Velocity().X, 1e-9)

	stats, err := a.w.Advance(1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Boundary)
	assert.Equal(t, 1, stats.Pairs)
	assert.Equal(t, 1, stats.Reloads)
	assert.False(t, b.IsTerminated())
	assert.True(t, s.Carries(b))
	assert.Equal(t, 1, s.BulletCount())
	assert.Empty(t, a.w.Bullets())
	assert.Equal(t, s.Position(), b.Position())

	require.Len(t, a.rec.Events, 2)
	assert.False(t, a.rec.Events[0].Pair)
	assert.Equal(t, collision.EdgeRight, a.rec.Events[0].Edge)
	assert.InDelta(t, 100, a.rec.Events[0].X, 1e-9)
	assert.Equal(t, collision.OutcomeBounce, a.rec.Events[0].Outcome)
	assert.True(t, a.rec.Events[1].Pair)
	assert.Equal(t, collision.OutcomeReload, a.rec.Events[1].Outcome)
}

func TestFireIntoOverlapResolvesImmediately(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(50, 50, 0, 0, 10))
	p := a.planet(68, 50, 0, 0, 5)
	require.NoError(t, s.LoadNewBullets(1))
	b := s.Bullets()[0]

	require.NoError(t, s.FireBullet())
	assert.True(t, b.IsTerminated())
	assert.True(t, p.IsTerminated())
	assert.Equal(t, []object.Entity{s}, a.w.Entities())
	require.Len(t, a.rec.Events, 1)
	assert.True(t, a.rec.Events[0].Pair)
	assert.Equal(t, collision.OutcomeDestroy, a.rec.Events[0].Outcome)
}

func TestFireOutsideWorldDestroysBullet(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(object.ShipParams{Position: physics.Vec(50, 89), Radius: 10, Orientation: math.Pi / 2})
	require.NoError(t, s.LoadNewBullets(1))
	b := s.Bullets()[0]

	require.NoError(t, s.FireBullet())
	assert.True(t, b.IsTerminated())
	assert.Equal(t, 0, s.BulletCount())
	assert.Empty(t, a.w.Bullets())
	assert.Empty(t, a.rec.Events)
}

func TestFireWithEmptyCargoDoesNothing(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(50, 50, 0, 0, 10))
	require.NoError(t, s.FireBullet())
	assert.Equal(t, 1, a.w.Len())
}

func TestBoundaryBounceNearWall(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(89.5, 50, 10, 0, 10))

	stats, err := a.w.Advance(0.2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Boundary)
	assert.Equal(t, physics.Vec(-10, 0), s.Velocity())
	assert.InDelta(t, 88.5, s.Position().X, 1e-9)
	assert.LessOrEqual(t, s.Position().X+s.Radius(), 100.0)
}

func TestEntitiesStayInsideWorld(t *testing.T) {
	a := newArena(t, 100, 100)
	p1 := a.planet(50, 50, 37, 23, 10)
	p2 := a.planet(20, 80, -11, 17, 6)
	energy := func() float64 {
		return p1.TotalMass()*p1.Velocity().LengthSquared() + p2.TotalMass()*p2.Velocity().LengthSquared()
	}
	e0 := energy()

	for i := 0; i < 50; i++ {
		_, err := a.w.Advance(0.7)
		require.NoError(t, err)
		for _, e := range []object.Entity{p1, p2} {
			pos, r := e.Position(), e.Radius()
			assert.GreaterOrEqual(t, pos.X-r, -1e-9)
			assert.LessOrEqual(t, pos.X+r, 100+1e-9)
			assert.GreaterOrEqual(t, pos.Y-r, -1e-9)
			assert.LessOrEqual(t, pos.Y+r, 100+1e-9)
		}
	}
	assert.InDelta(t, 35, a.w.Clock(), 1e-9)
	assert.InEpsilon(t, e0, energy(), 1e-9)
}

func TestSimultaneousEventsFollowKeyOrder(t *testing.T) {
	a := newArena(t, 100, 100)
	wall := a.ship(at(50, 20, 10, 0, 10))
	b := a.ship(at(20, 70, 5, 0, 10))
	c := a.ship(at(80, 70, -5, 0, 10))

	stats, err := a.w.Advance(4.5)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Events)

	require.Len(t, a.rec.Events, 2)
	assert.False(t, a.rec.Events[0].Pair)
	assert.Equal(t, wall.ID(), a.rec.Events[0].First.ID)
	assert.True(t, a.rec.Events[1].Pair)
	assert.Equal(t, b.ID(), a.rec.Events[1].First.ID)
	assert.Equal(t, c.ID(), a.rec.Events[1].Second.ID)
	assert.Equal(t, a.rec.Events[0].Clock, a.rec.Events[1].Clock)
}

func TestNextCollision(t *testing.T) {
	a := newArena(t, 100, 100)
	next, err := a.w.NextCollision()
	require.NoError(t, err)
	assert.Nil(t, next)

	a.ship(at(50, 50, 0, 0, 10))
	next, err = a.w.NextCollision()
	require.NoError(t, err)
	assert.Nil(t, next)

	a.planet(80, 50, -6, 0, 5)
	next, err = a.w.NextCollision()
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.InDelta(t, 2.5, next.Time(), 1e-12)
	_, isPair := next.(*collision.Pair)
	assert.True(t, isPair)
}

func TestAdvanceRejectsInfiniteTime(t *testing.T) {
	a := newArena(t, 100, 100)
	p := a.planet(50, 50, 0, 0, 10)
	q := a.planet(20, 20, 3, 0, 5)

	_, err := a.w.Advance(math.Inf(1))
	assert.ErrorIs(t, err, object.ErrInvalidTime)
	_, err = a.w.Evolve(math.Inf(1))
	assert.ErrorIs(t, err, object.ErrInvalidTime)

	assert.Equal(t, physics.Vec(50, 50), p.Position())
	assert.Equal(t, physics.Vec(20, 20), q.Position())
	assert.Zero(t, a.w.Clock())
}

func TestAdvanceRejectsNegativeTime(t *testing.T) {
	a := newArena(t, 100, 100)
	_, err := a.w.Advance(-1)
	assert.ErrorIs(t, err, object.ErrNegativeTime)
	_, err = a.w.Evolve(math.NaN())
	assert.ErrorIs(t, err, object.ErrInvalidTime)

	stats, err := a.w.Advance(0)
	require.NoError(t, err)
	assert.Equal(t, world.Stats{}, stats)
}

type fireOnce struct{ fired bool }

func (p *fireOnce) Execute(s *object.Ship, _ float64) error {
	if p.fired {
		return nil
	}
	p.fired = true
	return s.FireBullet()
}

func TestEvolveRunsPrograms(t *testing.T) {
	a := newArena(t, 200, 100)
	s := a.ship(at(50, 50, 0, 0, 10))
	require.NoError(t, s.LoadNewBullets(2))
	s.LoadProgram(&fireOnce{})

	_, err := a.w.Evolve(0.1)
	require.NoError(t, err)

	bullets := a.w.Bullets()
	require.Len(t, bullets, 1)
	assert.InDelta(t, 50+12*1.01+25, bullets[0].Position().X, 1e-9)
	assert.Equal(t, 1, s.BulletCount())

	_, err = a.w.Evolve(0.1)
	require.NoError(t, err)
	assert.Len(t, a.w.Bullets(), 1)
}

func TestNearest(t *testing.T) {
	a := newArena(t, 200, 200)
	s := a.ship(at(50, 50, 0, 0, 10))
	far := a.ship(at(150, 150, 0, 0, 10))
	p1 := a.planet(100, 50, 0, 0, 10)
	a.planet(50, 120, 0, 0, 30)

	got, ok := a.w.NearestShip(s)
	require.True(t, ok)
	assert.Same(t, far, got)

	// Equal edge distances go to the lower id.
	planet, ok := a.w.NearestPlanet(s)
	require.True(t, ok)
	assert.Same(t, p1, planet)

	_, ok = a.w.NearestBullet(s)
	assert.False(t, ok)
}

func TestEntityAt(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(50, 50, 0, 0, 10))

	got, ok := a.w.EntityAt(physics.Vec(50, 50))
	require.True(t, ok)
	assert.Same(t, s, got)
	_, ok = a.w.EntityAt(physics.Vec(51, 50))
	assert.False(t, ok)
}

func TestTypedAccessors(t *testing.T) {
	a := newArena(t, 100, 100)
	s := a.ship(at(20, 20, 0, 0, 10))
	p := a.planet(80, 80, 0, 0, 5)
	b, err := a.f.NewBullet(physics.Vec(50, 50), physics.Zero, 2)
	require.NoError(t, err)
	require.NoError(t, a.w.AddEntity(b))

	assert.Equal(t, []*object.Ship{s}, a.w.Ships())
	assert.Equal(t, []*object.MinorPlanet{p}, a.w.Planets())
	assert.Equal(t, []*object.Bullet{b}, a.w.Bullets())

	got, ok := a.w.Entity(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestSnapshotAndFingerprint(t *testing.T) {
	a := newArena(t, 100, 100)
	a.ship(at(50, 50, 3, 4, 10))
	a.planet(20, 20, 0, 0, 5)

	snap := a.w.Snapshot()
	assert.Equal(t, 100.0, snap.Width)
	assert.Equal(t, 1, snap.Count(object.KindShip))
	assert.Equal(t, 1, snap.Count(object.KindMinorPlanet))
	assert.Equal(t, snap.Fingerprint(), a.w.Fingerprint())

	_, err := a.w.Advance(1)
	require.NoError(t, err)
	assert.NotEqual(t, snap.Fingerprint(), a.w.Fingerprint())
}

func TestReplayIsDeterministic(t *testing.T) {
	run := func() (uint64, []world.Event) {
		f := object.NewFactory(config.Default())
		w, err := scenario.Default().Build(f)
		require.NoError(t, err)
		rec := world.NewRecorder(w)
		w.AddListener(rec)
		for i := 0; i < 40; i++ {
			_, err := w.Advance(0.5)
			require.NoError(t, err)
		}
		return w.Fingerprint(), rec.Events
	}

	fp1, ev1 := run()
	fp2, ev2 := run()
	assert.Equal(t, fp1, fp2)
	assert.Equal(t, ev1, ev2)
	assert.NotEmpty(t, ev1)
}

type countingObserver struct {
	calls int
	live  int
}

func (o *countingObserver) Advanced(_ world.Stats, live int) {
	o.calls++
	o.live = live
}

func TestObserverSeesEveryAdvance(t *testing.T) {
	obs := &countingObserver{}
	consts := config.Default()
	w, err := world.New(100, 100, consts, world.WithObserver(obs))
	require.NoError(t, err)
	s, err := object.NewFactory(consts).NewShip(at(50, 50, 0, 0, 10))
	require.NoError(t, err)
	require.NoError(t, w.AddEntity(s))

	_, err = w.Advance(1)
	require.NoError(t, err)
	_, err = w.Advance(1)
	require.NoError(t, err)
	assert.Equal(t, 2, obs.calls)
	assert.Equal(t, 1, obs.live)
}
