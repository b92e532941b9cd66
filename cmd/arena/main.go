package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/logging"
	"github.com/tomz197/arena/internal/loop"
	"github.com/tomz197/arena/internal/scenario"
)

func main() {
	logger, err := logging.New(logging.FromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("arena failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	rt := config.Load()

	sc := scenario.Default()
	if rt.ScenarioPath != "" {
		var err error
		if sc, err = scenario.LoadFile(rt.ScenarioPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pace and draw the run only when someone is watching.
	var size draw.TermSizeFunc
	realtime := term.IsTerminal(int(os.Stdout.Fd()))
	if realtime {
		size = draw.DefaultTermSizeFunc
	}

	_, err := loop.Run(ctx, os.Stdout, loop.Options{
		Scenario:  sc,
		Constants: config.Default(),
		TickTime:  rt.TickTime,
		TimeScale: rt.TimeScale,
		Duration:  rt.Duration,
		Realtime:  realtime,
		TermSize:  size,
		FireEvery: rt.FireEvery,
		Logger:    logger,
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}
