// Command tune searches dots parameters with CMA-ES for the settings under
// which a population first reaches the target in the fewest generations.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/dots/config"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval           int     `csv:"eval"`
	Score          float64 `csv:"score"`
	MutationRate   float64 `csv:"mutation_rate"`
	MaxSpeed       float64 `csv:"max_speed"`
	PopulationSize int     `csv:"population_size"`
	Arrived        int     `csv:"seeds_arrived"`
	ElapsedMS      int64   `csv:"elapsed_ms"`
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxGenerations := flag.Int("max-generations", 30, "Generations per run")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Games log at info on start; keep the tuner output to warnings.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(*configPath, *outputDir, *maxGenerations, *seeds, *maxEvals, *population); err != nil {
		slog.Error("tune failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxGenerations, seeds, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if maxGenerations < 1 || seeds < 1 || maxEvals < 1 {
		return fmt.Errorf("max-generations, seeds and max-evals must be positive")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	params := NewParamVector()
	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewEvaluator(params, baseCfg, evalSeeds, maxGenerations)

	logFile, err := os.Create(filepath.Join(outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating tune log: %w", err)
	}
	defer logFile.Close()

	popSize := population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{FuncEvaluations: maxEvals}

	var (
		evalCount  int
		bestScore  = 1e18
		bestParams = params.FromConfig(baseCfg)
		start      = time.Now()
		wroteHead  bool
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evalStart := time.Now()
			raw := params.Clamp(params.Denormalize(x))
			score := evaluator.Evaluate(raw)
			evalCount++

			if score < bestScore {
				bestScore = score
				bestParams = raw
			}

			arrived := 0
			for _, r := range evaluator.LastRuns() {
				if r.firstArrival >= 0 {
					arrived++
				}
			}
			row := []evalRow{{
				Eval:           evalCount,
				Score:          score,
				MutationRate:   raw[0],
				MaxSpeed:       raw[1],
				PopulationSize: int(raw[2]),
				Arrived:        arrived,
				ElapsedMS:      time.Since(evalStart).Milliseconds(),
			}}
			var werr error
			if wroteHead {
				werr = gocsv.MarshalWithoutHeaders(row, logFile)
			} else {
				werr = gocsv.Marshal(row, logFile)
				wroteHead = true
			}
			if werr != nil {
				slog.Error("failed to write tune log", "error", werr)
			}

			elapsed := time.Since(start)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: score=%.3f arrived=%d/%d (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, maxEvals, score, arrived, seeds, bestScore,
				formatDuration(elapsed), formatDuration(remaining))
			return score
		},
	}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, maxEvals)
	fmt.Printf("Seeds per evaluation: %d, generations per run: %d\n", seeds, maxGenerations)

	initX := params.Normalize(params.FromConfig(baseCfg))
	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(start)))
	fmt.Printf("Best score: %.3f\n\nBest parameters:\n", bestScore)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6g\n", spec.Name, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)
	outPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", outPath)
	return nil
}
