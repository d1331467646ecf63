package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the kind of milestone.
type MilestoneType string

const (
	MilestoneFirstArrival MilestoneType = "first_arrival"
	MilestoneStepRecord   MilestoneType = "step_record"
	MilestoneStagnation   MilestoneType = "stagnation"
)

// Milestone marks a notable generation.
type Milestone struct {
	RunID       string        `csv:"run_id"`
	Type        MilestoneType `csv:"type"`
	Generation  int           `csv:"generation"`
	Tick        int64         `csv:"tick"`
	Description string        `csv:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"generation", m.Generation,
		"tick", m.Tick,
		"description", m.Description,
	)
}

// MilestoneDetector watches the generation stream for first arrivals,
// tightened step budgets and runs of generations without progress.
type MilestoneDetector struct {
	stagnationWindow int

	arrived     bool
	bestBudget  int // tightest step budget seen after the first arrival
	bestFitness float64
	sinceGain   int  // generations since the last improvement
	armed       bool // stagnation fires once per plateau
}

// NewMilestoneDetector creates a detector that reports stagnation after
// stagnationWindow generations without improvement.
func NewMilestoneDetector(stagnationWindow int) *MilestoneDetector {
	if stagnationWindow < 1 {
		stagnationWindow = 25
	}
	return &MilestoneDetector{
		stagnationWindow: stagnationWindow,
		armed:            true,
	}
}

// Check analyzes the latest generation and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats GenerationStats) []Milestone {
	var milestones []Milestone
	improved := false

	if stats.BestReached {
		switch {
		case !md.arrived:
			md.arrived = true
			md.bestBudget = stats.StepBudget
			improved = true
			milestones = append(milestones, md.milestone(stats, MilestoneFirstArrival,
				fmt.Sprintf("First arrival in %d steps", stats.BestSteps)))
		case stats.StepBudget < md.bestBudget:
			old := md.bestBudget
			md.bestBudget = stats.StepBudget
			improved = true
			milestones = append(milestones, md.milestone(stats, MilestoneStepRecord,
				fmt.Sprintf("Step budget tightened from %d to %d", old, stats.StepBudget)))
		}
	}

	if stats.BestFitness > md.bestFitness {
		md.bestFitness = stats.BestFitness
		improved = true
	}

	if improved {
		md.sinceGain = 0
		md.armed = true
		return milestones
	}

	md.sinceGain++
	if md.armed && md.sinceGain >= md.stagnationWindow {
		md.armed = false
		milestones = append(milestones, md.milestone(stats, MilestoneStagnation,
			fmt.Sprintf("No improvement for %d generations (best fitness %.4g)", md.sinceGain, md.bestFitness)))
	}

	return milestones
}

func (md *MilestoneDetector) milestone(stats GenerationStats, typ MilestoneType, desc string) Milestone {
	return Milestone{
		RunID:       stats.RunID,
		Type:        typ,
		Generation:  stats.Generation,
		Tick:        stats.EndTick,
		Description: desc,
	}
}
