// Package loop drives a world in wall-clock ticks and streams what happens
// to a writer. It is the glue between the simulation core and the commands.
package loop

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/scenario"
	"github.com/tomz197/arena/internal/world"
)

// Radians per second the automatic gunners sweep.
const gunnerTurnRate = 0.4

// Options configures a run.
type Options struct {
	Scenario  *scenario.Scenario // Nil picks scenario.Default
	Constants config.Constants
	TickTime  time.Duration     // Wall-clock time between advances
	TimeScale float64           // Simulated seconds per tick second
	Duration  time.Duration     // Simulated time to run; 0 runs until ctx is done
	Realtime  bool              // Sleep between ticks
	TermSize  draw.TermSizeFunc // Non-nil draws the arena instead of streaming lines
	FireEvery float64           // Seconds between shots of every armed ship; 0 disables
	Keys      KeySource         // Non-nil hands the first ship to a keyboard pilot
	Logger    *zap.Logger
	Listeners []world.Listener
	Observers []world.Observer
}

// Run builds the scenario and advances it tick by tick, writing every
// collision to out. It returns the final snapshot.
func Run(ctx context.Context, out io.Writer, opts Options) (world.Snapshot, error) {
	if opts.Scenario == nil {
		opts.Scenario = scenario.Default()
	}
	if opts.TickTime <= 0 {
		opts.TickTime = config.DefaultTickTime
	}
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Constants == (config.Constants{}) {
		opts.Constants = config.Default()
	}

	var display *Display
	feed := NewFeed(out)
	if opts.TermSize != nil {
		display = NewDisplay(out, opts.TermSize)
		feed = NewFeed(display)
		display.start()
		defer display.stop()
	}

	worldOpts := []world.Option{
		world.WithLogger(opts.Logger),
		world.WithListener(feed),
	}
	for _, l := range opts.Listeners {
		worldOpts = append(worldOpts, world.WithListener(l))
	}
	for _, o := range opts.Observers {
		worldOpts = append(worldOpts, world.WithObserver(o))
	}

	factory := object.NewFactory(opts.Constants)
	w, err := opts.Scenario.Build(factory, worldOpts...)
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("build scenario %q: %w", opts.Scenario.Name, err)
	}
	feed.clock = w.Clock

	var (
		pilot     *Pilot
		pilotShip *object.Ship
	)
	for i, s := range w.Ships() {
		switch {
		case i == 0 && opts.Keys != nil:
			pilot, pilotShip = NewPilot(opts.Keys), s
			s.LoadProgram(pilot)
		case opts.FireEvery > 0:
			s.LoadProgram(NewGunner(opts.FireEvery, gunnerTurnRate))
		}
	}

	opts.Logger.Info("run started",
		zap.String("scenario", opts.Scenario.Name),
		zap.Int("entities", w.Len()),
		zap.Duration("duration", opts.Duration),
	)

	dt := opts.TickTime.Seconds() * opts.TimeScale
	limit := opts.Duration.Seconds()

	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(opts.TickTime)
		defer ticker.Stop()
	}

	for limit <= 0 || w.Clock() < limit {
		select {
		case <-ctx.Done():
			return w.Snapshot(), ctx.Err()
		default:
		}

		step := dt
		if limit > 0 && w.Clock()+step > limit {
			step = limit - w.Clock()
		}
		if _, err := w.Evolve(step); err != nil {
			return w.Snapshot(), err
		}
		if err := feed.Err(); err != nil {
			return w.Snapshot(), err
		}
		if display != nil {
			if err := display.Draw(w.Snapshot()); err != nil {
				return w.Snapshot(), err
			}
		}
		if pilot != nil {
			// A destroyed ship no longer runs its program, so poll directly.
			if pilotShip.IsTerminated() && opts.Keys.Poll().Quit {
				break
			}
			if pilot.Quit() {
				break
			}
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return w.Snapshot(), ctx.Err()
			case <-ticker.C:
			}
		}
	}

	snap := w.Snapshot()
	if display != nil {
		display.stop()
		feed = NewFeed(out)
	}
	feed.Summary(snap)
	opts.Logger.Info("run finished",
		zap.Float64("clock", snap.Clock),
		zap.Int("entities", len(snap.Entities)),
		zap.String("fingerprint", fmt.Sprintf("%016x", snap.Fingerprint())),
	)
	return snap, feed.Err()
}
