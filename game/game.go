package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/telemetry"
)

// Speed limits in ticks per Update call.
const (
	MinStepsPerUpdate = 1
	MaxStepsPerUpdate = 50
)

// Options configures a Game.
type Options struct {
	Seed           int64 // 0 = time-based
	Workers        int   // slices per tick; 0 = config, then GOMAXPROCS
	StepsPerUpdate int   // ticks per Update call
	LogStats       bool  // log generation and perf stats via slog
	OutputDir      string
}

// Game drives a Population: pacing, pause, perf timing and telemetry.
type Game struct {
	cfg   *config.Config
	pop   *Population
	runID string
	seed  int64

	workers        int
	stepsPerUpdate int
	paused         bool
	tick           int64

	lastStats telemetry.GenerationStats
	hasStats  bool

	logStats   bool
	perf       *telemetry.PerfCollector
	collector  *telemetry.Collector
	milestones *telemetry.MilestoneDetector
	output     *telemetry.OutputManager
}

// NewGame builds the world and first generation described by cfg.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = cfg.Population.Workers
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID)
	rng := rand.New(rand.NewSource(seed))

	g := &Game{
		cfg:            cfg,
		pop:            Setup(cfg, rng, WithLogger(logger), WithPoolSize(workers)),
		runID:          runID,
		seed:           seed,
		workers:        workers,
		stepsPerUpdate: clampSpeed(opts.StepsPerUpdate),
		logStats:       opts.LogStats,
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:      telemetry.NewCollector(runID),
		milestones:     telemetry.NewMilestoneDetector(cfg.Telemetry.StagnationWindow),
		output:         output,
	}

	logger.Info("game started",
		"seed", seed,
		"population", g.pop.Size(),
		"steps", g.pop.World().Steps,
		"workers", workers,
		"output_dir", output.Dir(),
	)
	return g, nil
}

// Update runs one frame's worth of ticks unless paused.
func (g *Game) Update() {
	g.perf.RecordFrame()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Step runs exactly one tick, pause notwithstanding, and reports whether
// it was a generational turnover.
func (g *Game) Step() bool {
	start := time.Now()

	if !g.pop.AllTerminal() {
		g.pop.AdvanceAll(g.workers)
		g.tick++
		g.perf.Observe(telemetry.PhaseUpdate, time.Since(start))
		return false
	}

	t, _ := g.pop.Tick(g.workers)
	elapsed := time.Since(start)
	g.tick++
	g.perf.Observe(telemetry.PhaseTurnover, elapsed)

	g.flushTelemetry(t, elapsed)
	return true
}

// Population returns the simulated population.
func (g *Game) Population() *Population { return g.pop }

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of ticks run so far.
func (g *Game) Tick() int64 { return g.tick }

// RunID returns the identifier stamped on this run's telemetry.
func (g *Game) RunID() string { return g.runID }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Workers returns the number of slices per tick.
func (g *Game) Workers() int { return g.workers }

// LastStats returns the most recent generation record, if any.
func (g *Game) LastStats() (telemetry.GenerationStats, bool) {
	return g.lastStats, g.hasStats
}

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPaused suspends or resumes Update.
func (g *Game) SetPaused(paused bool) { g.paused = paused }

// TogglePause flips the paused state.
func (g *Game) TogglePause() { g.paused = !g.paused }

// Speed returns the ticks run per Update call.
func (g *Game) Speed() int { return g.stepsPerUpdate }

// SetSpeed sets the ticks per Update call, clamped to the allowed range.
func (g *Game) SetSpeed(n int) { g.stepsPerUpdate = clampSpeed(n) }

// SpeedUp adds one tick per Update call.
func (g *Game) SpeedUp() { g.SetSpeed(g.stepsPerUpdate + 1) }

// SlowDown removes one tick per Update call.
func (g *Game) SlowDown() { g.SetSpeed(g.stepsPerUpdate - 1) }

func clampSpeed(n int) int {
	return max(MinStepsPerUpdate, min(n, MaxStepsPerUpdate))
}

// Status is a snapshot of the run for the HUD.
type Status struct {
	Generation int
	Tick       int64

	Alive, Arrived, Dead int

	StepBudget    int
	LastBestSteps int // 0 until some generation's best dot arrives
	LastBest      float64

	Speed          int
	Paused         bool
	TicksPerSecond float64
}

// Status returns the current HUD snapshot.
func (g *Game) Status() Status {
	alive, arrived, dead := g.pop.Counts()
	s := Status{
		Generation:     g.pop.Generation(),
		Tick:           g.tick,
		Alive:          alive,
		Arrived:        arrived,
		Dead:           dead,
		StepBudget:     g.pop.MaxSteps(),
		Speed:          g.stepsPerUpdate,
		Paused:         g.paused,
		TicksPerSecond: g.perf.Stats().TicksPerSecond,
	}
	if g.hasStats {
		s.LastBest = g.lastStats.BestFitness
		if g.lastStats.BestReached {
			s.LastBestSteps = g.lastStats.BestSteps
		}
	}
	return s
}

// Close stops the worker pool and closes the output files.
func (g *Game) Close() error {
	g.pop.Close()
	slog.Info("game stopped",
		"run_id", g.runID,
		"generation", g.pop.Generation(),
		"tick", g.tick,
	)
	return g.output.Close()
}
