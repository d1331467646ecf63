package telemetry

// Collector tracks where the running generation started and fills in the
// run-level fields of each GenerationStats record.
type Collector struct {
	runID        string
	genStartTick int64
	generations  int
}

// NewCollector creates a collector that stamps records with runID.
func NewCollector(runID string) *Collector {
	return &Collector{runID: runID}
}

// RunID returns the run identifier.
func (c *Collector) RunID() string {
	return c.runID
}

// Generations returns the number of records flushed so far.
func (c *Collector) Generations() int {
	return c.generations
}

// GenerationStart returns the tick at which the running generation began.
func (c *Collector) GenerationStart() int64 {
	return c.genStartTick
}

// Flush completes s for a generation that ended at endTick, summarizing the
// scored fitness values, and starts the next generation window.
func (c *Collector) Flush(endTick int64, fitness []float64, s GenerationStats) GenerationStats {
	s.RunID = c.runID
	s.EndTick = endTick
	s.Ticks = endTick - c.genStartTick
	s.FitnessMean, s.FitnessStd, s.FitnessP50, s.FitnessP90 = SummarizeFitness(fitness)

	c.genStartTick = endTick
	c.generations++
	return s
}
