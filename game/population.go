// Package game runs the evolution loop: a Population of dots advanced in
// parallel each tick and bred into a new generation once every dot has
// settled, plus the Game driver that adds pacing and telemetry.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/systems"
)

// Population is a fixed-size generation of dots evolving toward the target.
type Population struct {
	dots  []systems.Dot
	world *systems.World
	rng   *rand.Rand // setup and turnover only

	generation int
	bestIndex  int
	fitnessSum float64
	maxSteps   int // arrivals beyond this step count are not possible

	logger *slog.Logger
	pool   *workerPool
}

// Option configures a Population.
type Option func(*Population)

// WithLogger sets the logger that receives generation summaries.
func WithLogger(l *slog.Logger) Option {
	return func(p *Population) {
		p.logger = l
	}
}

// WithPoolSize sets the number of worker goroutines. n < 1 means GOMAXPROCS.
func WithPoolSize(n int) Option {
	return func(p *Population) {
		p.pool = newWorkerPool(n)
	}
}

// NewPopulation creates size random dots at the world spawn point.
// It panics if size is not positive or rng is nil.
func NewPopulation(w *systems.World, size int, rng *rand.Rand, opts ...Option) *Population {
	if size < 1 {
		panic("game: population size must be positive")
	}
	if rng == nil {
		panic("game: nil rng")
	}

	p := &Population{
		dots:     make([]systems.Dot, size),
		world:    w,
		rng:      rng,
		maxSteps: w.Steps,
		logger:   slog.Default(),
		pool:     newWorkerPool(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := range p.dots {
		p.dots[i] = systems.NewRandomDot(w, rng)
	}
	return p
}

// Setup builds the world described by cfg and its initial population.
func Setup(cfg *config.Config, rng *rand.Rand, opts ...Option) *Population {
	return NewPopulation(systems.NewWorld(cfg), cfg.Population.Size, rng, opts...)
}

// Tick advances every live dot one step, or, once all dots are dead or
// arrived, runs a generational turnover instead. The returned bool reports
// whether the turnover ran.
func (p *Population) Tick(workerCount int) (Turnover, bool) {
	if !p.AllTerminal() {
		p.AdvanceAll(workerCount)
		return Turnover{}, false
	}
	return p.turnover(), true
}

// AdvanceAll moves every live dot one step. Dots are split into workerCount
// strided slices (slice k holds k, k+workerCount, ...) that run concurrently.
// It returns once every slice is done. Panics if workerCount < 1.
func (p *Population) AdvanceAll(workerCount int) {
	if workerCount < 1 {
		panic("game: worker count must be at least 1")
	}
	if workerCount == 1 || len(p.dots) < parallelThreshold {
		for k := 0; k < workerCount; k++ {
			p.advanceSlice(k, workerCount)
		}
		return
	}
	p.advanceParallel(workerCount)
}

// advanceSlice updates dots offset, offset+stride, ...
// Dots still going after maxSteps are killed without moving.
func (p *Population) advanceSlice(offset, stride int) {
	for i := offset; i < len(p.dots); i += stride {
		d := &p.dots[i]
		if d.Terminal() {
			continue
		}
		if d.Brain.Step > p.maxSteps {
			d.Dead = true
			continue
		}
		d.Advance(p.world)
	}
}

// AllTerminal reports whether every dot is dead or has arrived.
func (p *Population) AllTerminal() bool {
	for i := range p.dots {
		if !p.dots[i].Terminal() {
			return false
		}
	}
	return true
}

// Counts returns how many dots are still moving, have arrived and have died.
func (p *Population) Counts() (alive, arrived, dead int) {
	for i := range p.dots {
		switch d := &p.dots[i]; {
		case d.ReachedTarget:
			arrived++
		case d.Dead:
			dead++
		default:
			alive++
		}
	}
	return alive, arrived, dead
}

// Dots returns the current generation. Callers must not modify it while a
// tick is running.
func (p *Population) Dots() []systems.Dot { return p.dots }

// World returns the shared world settings.
func (p *Population) World() *systems.World { return p.world }

// Size returns the number of dots.
func (p *Population) Size() int { return len(p.dots) }

// Generation returns the number of completed turnovers.
func (p *Population) Generation() int { return p.generation }

// BestIndex returns the index of the best dot of the last scored generation.
func (p *Population) BestIndex() int { return p.bestIndex }

// FitnessSum returns the fitness total of the last scored generation.
func (p *Population) FitnessSum() float64 { return p.fitnessSum }

// MaxSteps returns the current step budget.
func (p *Population) MaxSteps() int { return p.maxSteps }

// Close stops the worker pool. The population stays usable; the pool is
// restarted on the next parallel tick.
func (p *Population) Close() {
	p.pool.stop()
}
