package loop

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/scenario"
	"github.com/tomz197/arena/internal/world"
)

func lone() *scenario.Scenario {
	return &scenario.Scenario{
		Name:   "lone",
		Width:  100,
		Height: 100,
		Ships: []scenario.Ship{
			{Position: scenario.Vec{50, 50}, Velocity: scenario.Vec{10, 0}, Radius: 10},
		},
	}
}

func TestRunStreamsCollisions(t *testing.T) {
	var out bytes.Buffer
	snap, err := Run(context.Background(), &out, Options{
		Scenario: lone(),
		TickTime: 100 * time.Millisecond,
		Duration: 5 * time.Second,
	})
	require.NoError(t, err)

	assert.InDelta(t, 5, snap.Clock, 1e-9)
	require.Len(t, snap.Entities, 1)
	assert.InDelta(t, 80, snap.Entities[0].Position.X, 1e-6)

	text := out.String()
	assert.Contains(t, text, "ship#1 |  right wall  at (100.0, 50.0)  bounce")
	assert.Contains(t, text, "ships=1 bullets=0 planets=0")
	assert.Contains(t, text, "fingerprint=")
}

func TestRunIsReproducible(t *testing.T) {
	run := func() world.Snapshot {
		snap, err := Run(context.Background(), &bytes.Buffer{}, Options{
			Duration:  8 * time.Second,
			FireEvery: 1,
		})
		require.NoError(t, err)
		return snap
	}
	assert.Equal(t, run().Fingerprint(), run().Fingerprint())
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, &bytes.Buffer{}, Options{Scenario: lone()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReportsBadScenario(t *testing.T) {
	_, err := Run(context.Background(), &bytes.Buffer{}, Options{
		Scenario: &scenario.Scenario{Name: "flat", Width: 0, Height: 10},
	})
	assert.ErrorIs(t, err, world.ErrInvalidSize)
}

func newArmedShip(t *testing.T, bullets int) (*world.World, *object.Ship) {
	t.Helper()
	consts := config.Default()
	w, err := world.New(1000, 1000, consts)
	require.NoError(t, err)
	s, err := object.NewFactory(consts).NewShip(object.ShipParams{Position: physics.Vec(500, 500), Radius: 10})
	require.NoError(t, err)
	require.NoError(t, s.LoadNewBullets(bullets))
	require.NoError(t, w.AddEntity(s))
	return w, s
}

func TestGunnerFiresAtInterval(t *testing.T) {
	w, s := newArmedShip(t, 3)
	s.LoadProgram(NewGunner(0.5, 1))

	for i := 0; i < 5; i++ {
		_, err := w.Evolve(0.2)
		require.NoError(t, err)
	}
	// Shots at 0.6 and 1.0 seconds.
	assert.Equal(t, 1, s.BulletCount())
	assert.Len(t, w.Bullets(), 2)
	assert.InDelta(t, 1.0, s.Orientation(), 1e-9)
}

type keys []input.Keys

func (k *keys) Poll() input.Keys {
	if len(*k) == 0 {
		return input.Keys{}
	}
	next := (*k)[0]
	*k = (*k)[1:]
	return next
}

func TestPilotSteersShip(t *testing.T) {
	w, s := newArmedShip(t, 0)
	src := &keys{
		{Left: true, Thrust: true},
		{Fire: true},
		{Fire: true},
		{Quit: true},
	}
	p := NewPilot(src)
	s.LoadProgram(p)

	_, err := w.Evolve(0.1)
	require.NoError(t, err)
	assert.InDelta(t, pilotTurnRate*0.1, s.Orientation(), 1e-12)
	assert.Greater(t, s.Velocity().Length(), 0.0)

	// An empty hold is refilled on demand.
	_, err = w.Evolve(0.1)
	require.NoError(t, err)
	assert.Len(t, w.Bullets(), 1)

	// Still cooling down.
	_, err = w.Evolve(0.1)
	require.NoError(t, err)
	assert.Len(t, w.Bullets(), 1)

	assert.False(t, p.Quit())
	_, err = w.Evolve(0.1)
	require.NoError(t, err)
	assert.True(t, p.Quit())
	assert.False(t, s.IsThrusterOn())
}

func TestRunEndsWhenPilotQuits(t *testing.T) {
	src := &keys{{}, {}, {Quit: true}}
	snap, err := Run(context.Background(), &bytes.Buffer{}, Options{
		Scenario: lone(),
		TickTime: 100 * time.Millisecond,
		Keys:     src,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, snap.Clock, 1e-9)
}

func TestDisplayKeepsEventTail(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out, func() (int, int, error) { return 40, 20, nil })

	for i := 0; i < tailLines+2; i++ {
		_, err := d.Write([]byte("event " + strings.Repeat("x", i) + "\r\n"))
		require.NoError(t, err)
	}
	_, err := d.Write([]byte("partial"))
	require.NoError(t, err)

	tail := d.Tail()
	require.Len(t, tail, tailLines)
	assert.Equal(t, "event xx", tail[0])

	require.NoError(t, d.Draw(world.Snapshot{Width: 100, Height: 100, Clock: 1.5}))
	assert.Contains(t, out.String(), "t=1.50  ships=0 bullets=0 planets=0")
	assert.NotContains(t, out.String(), "partial")
}

func TestFeedFormatsEvents(t *testing.T) {
	var out bytes.Buffer
	f := NewFeed(&out)
	f.EntityCollision(
		object.View{ID: 1, Kind: object.KindShip},
		object.View{ID: 4, Kind: object.KindBullet},
		12.3, math.Pi, collision.OutcomeReload,
	)
	require.NoError(t, f.Err())
	assert.Equal(t, "t=    0.000  ship#1 <-> bullet#4  at (12.3, 3.1)  reload\r\n", out.String())
}
