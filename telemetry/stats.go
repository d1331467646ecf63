// Package telemetry turns generational turnovers into structured records:
// per-generation fitness statistics, milestones, tick timing, and the CSV
// files those records are written to.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one finished generation.
type GenerationStats struct {
	RunID      string `csv:"run_id"`
	Generation int    `csv:"generation"`
	EndTick    int64  `csv:"end_tick"`
	Ticks      int64  `csv:"ticks"` // ticks the generation took to settle

	// Fitness distribution at scoring time
	BestFitness float64 `csv:"best_fitness"`
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	Arrived int `csv:"arrived"`
	Dead    int `csv:"dead"`

	BestReached bool `csv:"best_reached"`
	BestSteps   int  `csv:"best_steps"`
	StepBudget  int  `csv:"step_budget"` // max steps after selection

	// Breeding
	Fallbacks int `csv:"fallbacks"`
	Mutations int `csv:"mutations"`

	TurnoverUS int64 `csv:"turnover_us"`
}

// SummarizeFitness returns the mean, sample standard deviation and the
// empirical 50th and 90th percentiles of values. All zero for an empty slice.
func SummarizeFitness(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("generation", s.Generation),
		slog.Int64("end_tick", s.EndTick),
		slog.Int64("ticks", s.Ticks),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Int("arrived", s.Arrived),
		slog.Int("dead", s.Dead),
		slog.Bool("best_reached", s.BestReached),
		slog.Int("best_steps", s.BestSteps),
		slog.Int("step_budget", s.StepBudget),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Int("mutations", s.Mutations),
		slog.Int64("turnover_us", s.TurnoverUS),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats", "stats", s)
}
