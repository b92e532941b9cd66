package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/input"
	applog "github.com/tomz197/arena/internal/logging"
	"github.com/tomz197/arena/internal/loop"
	"github.com/tomz197/arena/internal/metrics"
	"github.com/tomz197/arena/internal/scenario"
	"github.com/tomz197/arena/internal/world"
)

const shutdownTimeout = 5 * time.Second

// server runs one arena per SSH session and exposes shared metrics.
type server struct {
	rt        config.Runtime
	scenario  *scenario.Scenario
	collector *metrics.Collector
	log       *zap.Logger
}

func main() {
	logger, err := applog.New(applog.FromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	rt := config.Load()
	logger.Info("ssh config",
		zap.String("host", rt.SSHHost),
		zap.String("port", rt.SSHPort),
		zap.String("hostKeyPath", rt.HostKeyPath),
		zap.String("metricsAddr", rt.MetricsAddr),
	)

	sc := scenario.Default()
	if rt.ScenarioPath != "" {
		var err error
		if sc, err = scenario.LoadFile(rt.ScenarioPath); err != nil {
			return err
		}
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	srv := &server{rt: rt, scenario: sc, collector: collector, log: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(rt.SSHHost, rt.SSHPort)),
		wish.WithMiddleware(
			srv.arenaMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY so event lines reach the client promptly
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if rt.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(rt.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	hs := &http.Server{Addr: rt.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting ssh server", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("starting metrics server", zap.String("addr", hs.Addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(s.Shutdown(sctx), hs.Shutdown(sctx))
	})

	return g.Wait()
}

// arenaMiddleware gives each session a private arena piloted from its keyboard.
// The run ends when the client quits or disconnects.
func (srv *server) arenaMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, _ := sess.Pty()
		id := uuid.NewString()
		log := srv.log.With(
			zap.String("session", id),
			zap.String("user", sess.User()),
			zap.String("term", pty.Term),
		)
		log.Info("session started")

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		gauge := srv.collector.Session()
		defer gauge.Close()

		snap, err := loop.Run(sess.Context(), sess, loop.Options{
			Scenario:  srv.scenario,
			Constants: config.Default(),
			TickTime:  srv.rt.TickTime,
			TimeScale: srv.rt.TimeScale,
			Keys:      input.StartStream(sess),
			Realtime:  true,
			TermSize:  sizeTracker.getSize,
			FireEvery: srv.rt.FireEvery,
			Logger:    log,
			Listeners: []world.Listener{srv.collector},
			Observers: []world.Observer{gauge},
		})
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		default:
			log.Warn("arena error", zap.Error(err))
		}

		log.Info("session ended", zap.Float64("clock", snap.Clock))
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
