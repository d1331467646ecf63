package main

import (
	"math"

	"github.com/pthm-cable/dots/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // CSV column and report name
	Path    string  // YAML key it overwrites
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64
	Integer bool // rounded before it is applied
}

// ParamVector is the ordered set of tuned parameters. The optimizer works
// in the unit cube; Normalize and Denormalize map to and from it.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the parameters that shape how fast a population
// learns the course.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.001, Max: 0.1, Default: 0.01},
			{Name: "max_speed", Path: "dot.max_speed", Min: 2, Max: 10, Default: 5},
			{Name: "population_size", Path: "population.size", Min: 100, Max: 3000, Default: 2000, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default values in Specs order.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// FromConfig reads the current values out of cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	v := pv.DefaultVector()
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "mutation.rate":
			v[i] = cfg.Mutation.Rate
		case "dot.max_speed":
			v[i] = cfg.Dot.MaxSpeed
		case "population.size":
			v[i] = float64(cfg.Population.Size)
		}
	}
	return pv.Clamp(v)
}

// Normalize maps raw values into [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize maps unit-cube values back to raw values.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + unit[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		out[i] = val
	}
	return out
}

// ApplyToConfig writes the clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "mutation.rate":
			cfg.Mutation.Rate = clamped[i]
		case "dot.max_speed":
			cfg.Dot.MaxSpeed = clamped[i]
		case "population.size":
			cfg.Population.Size = int(clamped[i])
		}
	}
}
