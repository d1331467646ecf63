package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase classifies a tick. Every tick is either a movement update of the
// whole population or a generational turnover, never both.
type Phase uint8

const (
	PhaseUpdate Phase = iota
	PhaseTurnover
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseTurnover:
		return "turnover"
	}
	return "unknown"
}

type tickSample struct {
	d     time.Duration
	phase Phase
}

// PerfCollector keeps the last N tick durations in a ring.
type PerfCollector struct {
	ring []tickSample
	next int
	full bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 120
	}
	return &PerfCollector{ring: make([]tickSample, window)}
}

// Observe records one tick of the given phase.
func (p *PerfCollector) Observe(phase Phase, d time.Duration) {
	p.ring[p.next] = tickSample{d: d, phase: phase}
	p.next++
	if p.next == len(p.ring) {
		p.next = 0
		p.full = true
	}
}

// RecordFrame marks the start of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

func (p *PerfCollector) samples() []tickSample {
	if p.full {
		return p.ring
	}
	return p.ring[:p.next]
}

// PerfStats aggregates the current window.
type PerfStats struct {
	Samples   int
	Turnovers int

	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	P95Tick time.Duration

	TicksPerSecond float64
	FPS            float64

	// Share of window time spent per phase, in percent.
	Share [numPhases]float64
}

// Stats summarizes the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}

	window := p.samples()
	if len(window) == 0 {
		return s
	}
	s.Samples = len(window)

	var total time.Duration
	var perPhase [numPhases]time.Duration
	ds := make([]float64, len(window))
	for i, ts := range window {
		total += ts.d
		perPhase[ts.phase] += ts.d
		if ts.phase == PhaseTurnover {
			s.Turnovers++
		}
		ds[i] = float64(ts.d)
	}
	sort.Float64s(ds)

	s.MinTick = time.Duration(ds[0])
	s.MaxTick = time.Duration(ds[len(ds)-1])
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, ds, nil))
	s.AvgTick = total / time.Duration(len(window))
	if total > 0 {
		for ph := range perPhase {
			s.Share[ph] = float64(perPhase[ph]) / float64(total) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs a compact perf line.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(s.Share[ph]*10))/10))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	RunID       string  `csv:"run_id"`
	Generation  int     `csv:"generation"`
	Tick        int64   `csv:"tick"`
	Samples     int     `csv:"samples"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	UpdatePct   float64 `csv:"update_pct"`
	TurnoverPct float64 `csv:"turnover_pct"`
}

// ToCSV flattens the stats into a perf.csv row taken at tick of generation.
func (s PerfStats) ToCSV(runID string, generation int, tick int64) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:       runID,
		Generation:  generation,
		Tick:        tick,
		Samples:     s.Samples,
		AvgTickUS:   s.AvgTick.Microseconds(),
		MinTickUS:   s.MinTick.Microseconds(),
		P95TickUS:   s.P95Tick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		UpdatePct:   s.Share[PhaseUpdate],
		TurnoverPct: s.Share[PhaseTurnover],
	}
}
