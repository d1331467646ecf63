package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/dots/config"
)

// Output file names inside the output directory.
const (
	GenerationsFile = "generations.csv"
	PerfFile        = "perf.csv"
	MilestonesFile  = "milestones.csv"
	ConfigFile      = "config.yaml"
)

// csvFile is an append-only CSV file whose header is written with the first record.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{name: name, f: f}, nil
}

// write appends records, a slice of csv-tagged structs.
func (c *csvFile) write(records any) error {
	var err error
	if !c.headerWritten {
		err = gocsv.Marshal(records, c.f)
	} else {
		err = gocsv.MarshalWithoutHeaders(records, c.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	c.headerWritten = true
	return nil
}

// OutputManager writes the run's CSV files and config snapshot.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir         string
	generations *csvFile
	perf        *csvFile
	milestones  *csvFile
}

// NewOutputManager creates dir and opens the output files inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.generations, err = createCSV(dir, GenerationsFile); err != nil {
		return nil, err
	}
	if om.perf, err = createCSV(dir, PerfFile); err != nil {
		om.Close()
		return nil, err
	}
	if om.milestones, err = createCSV(dir, MilestonesFile); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteGeneration appends a row to generations.csv.
func (om *OutputManager) WriteGeneration(stats GenerationStats) error {
	if om == nil {
		return nil
	}
	return om.generations.write([]GenerationStats{stats})
}

// WritePerf appends a row to perf.csv.
func (om *OutputManager) WritePerf(row PerfStatsCSV) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{row})
}

// WriteMilestone appends a row to milestones.csv.
func (om *OutputManager) WriteMilestone(m Milestone) error {
	if om == nil {
		return nil
	}
	return om.milestones.write([]Milestone{m})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files and returns the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.generations, om.perf, om.milestones} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
