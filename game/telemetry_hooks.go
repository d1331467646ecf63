package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/dots/telemetry"
)

// flushTelemetry records a finished generation: stats, perf and milestones.
func (g *Game) flushTelemetry(t Turnover, elapsed time.Duration) {
	stats := g.collector.Flush(g.tick, t.Fitness, telemetry.GenerationStats{
		Generation:  t.Generation,
		BestFitness: t.BestFitness,
		Arrived:     t.Arrived,
		Dead:        t.Dead,
		BestReached: t.BestReached,
		BestSteps:   t.BestSteps,
		StepBudget:  t.MaxSteps,
		Fallbacks:   t.Fallbacks,
		Mutations:   t.Mutations,
		TurnoverUS:  elapsed.Microseconds(),
	})
	g.lastStats = stats
	g.hasStats = true

	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats.ToCSV(g.runID, t.Generation, g.tick)); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, m := range g.milestones.Check(stats) {
		if g.logStats {
			m.LogMilestone()
		}
		if err := g.output.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
	}
}
