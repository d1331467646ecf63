package telemetry

import "testing"

func milestoneTypes(ms []Milestone) []MilestoneType {
	types := make([]MilestoneType, len(ms))
	for i, m := range ms {
		types[i] = m.Type
	}
	return types
}

func hasMilestone(ms []Milestone, typ MilestoneType) bool {
	for _, m := range ms {
		if m.Type == typ {
			return true
		}
	}
	return false
}

func TestMilestoneDetector_FirstArrival(t *testing.T) {
	md := NewMilestoneDetector(10)

	for gen := 0; gen < 3; gen++ {
		ms := md.Check(GenerationStats{Generation: gen, BestFitness: float64(gen+1) * 1e-4, StepBudget: 400})
		if len(ms) != 0 {
			t.Fatalf("gen %d: unexpected milestones %v", gen, milestoneTypes(ms))
		}
	}

	ms := md.Check(GenerationStats{
		RunID:       "r",
		Generation:  3,
		EndTick:     1200,
		BestFitness: 1,
		BestReached: true,
		BestSteps:   180,
		StepBudget:  180,
	})
	if len(ms) != 1 || ms[0].Type != MilestoneFirstArrival {
		t.Fatalf("got %v, want [first_arrival]", milestoneTypes(ms))
	}
	if ms[0].Generation != 3 || ms[0].Tick != 1200 || ms[0].RunID != "r" {
		t.Errorf("milestone = %+v", ms[0])
	}

	// Arriving again with the same budget is not news
	ms = md.Check(GenerationStats{Generation: 4, BestFitness: 1, BestReached: true, BestSteps: 180, StepBudget: 180})
	if len(ms) != 0 {
		t.Errorf("repeat arrival produced %v", milestoneTypes(ms))
	}
}

func TestMilestoneDetector_StepRecord(t *testing.T) {
	md := NewMilestoneDetector(10)
	md.Check(GenerationStats{Generation: 0, BestFitness: 0.5, BestReached: true, BestSteps: 200, StepBudget: 200})

	ms := md.Check(GenerationStats{Generation: 1, BestFitness: 0.6, BestReached: true, BestSteps: 170, StepBudget: 170})
	if !hasMilestone(ms, MilestoneStepRecord) {
		t.Fatalf("got %v, want step_record", milestoneTypes(ms))
	}
	if hasMilestone(ms, MilestoneFirstArrival) {
		t.Error("first_arrival fired twice")
	}
}

func TestMilestoneDetector_Stagnation(t *testing.T) {
	const window = 5
	md := NewMilestoneDetector(window)
	md.Check(GenerationStats{Generation: 0, BestFitness: 0.01})

	fired := 0
	for gen := 1; gen <= 3*window; gen++ {
		ms := md.Check(GenerationStats{Generation: gen, BestFitness: 0.01})
		if hasMilestone(ms, MilestoneStagnation) {
			fired++
			if gen != window {
				t.Errorf("stagnation fired at gen %d, want %d", gen, window)
			}
		}
	}
	if fired != 1 {
		t.Fatalf("stagnation fired %d times on one plateau, want 1", fired)
	}

	// Improvement re-arms the detector
	md.Check(GenerationStats{Generation: 100, BestFitness: 0.02})
	for gen := 101; gen < 101+window; gen++ {
		ms := md.Check(GenerationStats{Generation: gen, BestFitness: 0.02})
		if hasMilestone(ms, MilestoneStagnation) {
			fired++
		}
	}
	if fired != 2 {
		t.Errorf("stagnation fired %d times total, want 2", fired)
	}
}

func TestNewMilestoneDetectorDefaultWindow(t *testing.T) {
	md := NewMilestoneDetector(0)
	if md.stagnationWindow != 25 {
		t.Errorf("stagnation window = %d, want 25", md.stagnationWindow)
	}
}
