package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/game"
	"github.com/pthm-cable/dots/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output generation and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations (0 = unlimited)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster)")
	workers := flag.Int("workers", 0, "Slices per tick (0 = config, then GOMAXPROCS)")
	serveAddr := flag.String("serve", "", "Websocket listen address, e.g. :8080 (empty = disabled)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	g, err := game.NewGame(cfg, game.Options{
		Seed:           *seed,
		Workers:        *workers,
		StepsPerUpdate: *stepsPerUpdate,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{
		game:           g,
		maxGenerations: *maxGenerations,
		maxTicks:       *maxTicks,
		frameInterval:  int64(cfg.Stream.FrameInterval),
	}

	if *serveAddr != "" {
		r.hub = stream.NewHub(cfg.Derived.WorldW, cfg.Derived.WorldH)
		srv := &http.Server{Addr: *serveAddr, Handler: r.hub.Handler()}
		go func() {
			slog.Info("stream listening", "addr", *serveAddr, "path", stream.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("stream server failed", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			r.hub.Close()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("stream shutdown failed", "error", err)
			}
		}()
	}

	if *headless {
		slog.Info("starting headless simulation",
			"seed", g.Seed(),
			"max_generations", *maxGenerations,
			"max_ticks", *maxTicks,
			"steps_per_update", g.Speed(),
		)
		r.runHeadless(ctx)
	} else {
		r.runWindow(ctx)
	}
}

// runner owns the host loop shared by the headless and windowed modes.
type runner struct {
	game *game.Game
	hub  *stream.Hub // nil unless -serve is set

	maxGenerations int
	maxTicks       int64

	frameInterval int64
	lastFrameTick int64
	sink          stream.FrameSink
}

// done reports whether a stop limit has been reached.
func (r *runner) done() bool {
	if r.maxGenerations > 0 && r.game.Population().Generation() >= r.maxGenerations {
		slog.Info("max generations reached", "generation", r.game.Population().Generation())
		return true
	}
	if r.maxTicks > 0 && r.game.Tick() >= r.maxTicks {
		slog.Info("max ticks reached", "tick", r.game.Tick())
		return true
	}
	return false
}

// update applies queued client commands, advances the game and broadcasts
// a frame when one is due.
func (r *runner) update() {
	if r.hub != nil {
		r.drainCommands()
	}

	r.game.Update()

	if r.hub != nil && r.game.Tick()-r.lastFrameTick >= r.frameInterval {
		r.lastFrameTick = r.game.Tick()
		if r.hub.ClientCount() == 0 {
			return
		}
		r.hub.Broadcast(r.sink.Capture(r.game.Population(), r.game.Tick()))
	}
}

func (r *runner) drainCommands() {
	for {
		select {
		case cmd := <-r.hub.Commands():
			slog.Info("stream command", "type", cmd.Type, "value", cmd.Value)
			cmd.Apply(r.game)
		default:
			return
		}
	}
}

func (r *runner) runHeadless(ctx context.Context) {
	for ctx.Err() == nil && !r.done() {
		r.update()
		if r.game.Paused() {
			time.Sleep(10 * time.Millisecond)
		}
	}
}
