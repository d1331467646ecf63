package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/game"
)

// runResult summarizes one headless run.
type runResult struct {
	firstArrival int // generation of the first arrival, -1 if none
	bestSteps    int // fewest steps of any arrived best dot
	stepBudget   int
	bestFitness  float64 // best fitness of the last generation
}

// score ranks a run, lower is better. Runs that arrive rank by the
// generation of the first arrival, then by the step record. Runs that never
// arrive rank after every arriving run, closer best dots first.
func (r runResult) score(maxGenerations int) float64 {
	if r.firstArrival >= 0 {
		return float64(r.firstArrival) + float64(r.bestSteps)/float64(r.stepBudget)
	}
	return float64(maxGenerations) + 1/(1+r.bestFitness)
}

// Evaluator runs headless simulations and computes a parameter score.
type Evaluator struct {
	params         *ParamVector
	base           config.Config
	seeds          []int64
	maxGenerations int

	mu        sync.Mutex
	lastRuns  []runResult
	bestScore float64
}

// NewEvaluator creates an evaluator that averages over seeds.
func NewEvaluator(params *ParamVector, base *config.Config, seeds []int64, maxGenerations int) *Evaluator {
	return &Evaluator{
		params:         params,
		base:           *base,
		seeds:          seeds,
		maxGenerations: maxGenerations,
		bestScore:      math.Inf(1),
	}
}

// Evaluate runs every seed in parallel and returns the mean score.
// Invalid parameter combinations score +Inf.
func (e *Evaluator) Evaluate(raw []float64) float64 {
	cfg := e.base
	e.params.ApplyToConfig(&cfg, raw)
	if err := cfg.Validate(); err != nil {
		return math.Inf(1)
	}

	runs := make([]runResult, len(e.seeds))
	errs := make([]error, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			runs[idx], errs[idx] = e.run(&cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for i, r := range runs {
		if errs[i] != nil {
			return math.Inf(1)
		}
		total += r.score(e.maxGenerations)
	}
	mean := total / float64(len(runs))

	e.mu.Lock()
	e.lastRuns = runs
	if mean < e.bestScore {
		e.bestScore = mean
	}
	e.mu.Unlock()

	return mean
}

// LastRuns returns the per-seed results of the most recent evaluation.
func (e *Evaluator) LastRuns() []runResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRuns
}

// run plays maxGenerations generations of one seed. Seeds run side by
// side, so each game updates inline.
func (e *Evaluator) run(cfg *config.Config, seed int64) (runResult, error) {
	g, err := game.NewGame(cfg, game.Options{Seed: seed, Workers: 1, StepsPerUpdate: 1})
	if err != nil {
		return runResult{}, fmt.Errorf("starting seed %d: %w", seed, err)
	}
	defer g.Close()

	res := runResult{firstArrival: -1, stepBudget: cfg.Brain.Steps}
	for gens := 0; gens < e.maxGenerations; {
		if !g.Step() {
			continue
		}
		gens++
		s, _ := g.LastStats()
		res.bestFitness = s.BestFitness
		if !s.BestReached {
			continue
		}
		if res.firstArrival < 0 {
			res.firstArrival = s.Generation
			res.bestSteps = s.BestSteps
		} else {
			res.bestSteps = min(res.bestSteps, s.BestSteps)
		}
	}
	return res, nil
}
