package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/dots/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil manager accepts every call
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Errorf("WriteGeneration: %v", err)
	}
	if err := om.WriteMilestone(Milestone{}); err != nil {
		t.Errorf("WriteMilestone: %v", err)
	}
	if err := om.WritePerf(PerfStatsCSV{}); err != nil {
		t.Errorf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for gen := 0; gen < 3; gen++ {
		if err := om.WriteGeneration(GenerationStats{RunID: "r", Generation: gen, BestSteps: 100 - gen}); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.WriteMilestone(Milestone{RunID: "r", Type: MilestoneFirstArrival, Generation: 2, Description: "First arrival"}); err != nil {
		t.Fatalf("WriteMilestone: %v", err)
	}
	if err := om.WritePerf(PerfStatsCSV{RunID: "r", Generation: 2, AvgTickUS: 40}); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	gens := readLines(t, filepath.Join(dir, GenerationsFile))
	if len(gens) != 4 {
		t.Fatalf("generations.csv has %d lines, want header + 3", len(gens))
	}
	if !strings.HasPrefix(gens[0], "run_id,generation,end_tick,ticks,best_fitness") {
		t.Errorf("unexpected header %q", gens[0])
	}
	if strings.Count(strings.Join(gens, "\n"), "run_id") != 1 {
		t.Error("header written more than once")
	}

	ms := readLines(t, filepath.Join(dir, MilestonesFile))
	if len(ms) != 2 || ms[0] != "run_id,type,generation,tick,description" {
		t.Errorf("milestones.csv = %q", ms)
	}
	if !strings.Contains(ms[1], "first_arrival") {
		t.Errorf("milestone row %q missing type", ms[1])
	}

	perf := readLines(t, filepath.Join(dir, PerfFile))
	if len(perf) != 2 || !strings.HasPrefix(perf[0], "run_id,generation,tick,avg_tick_us") {
		t.Errorf("perf.csv = %q", perf)
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}
