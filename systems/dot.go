package systems

import (
	"math/rand"

	"github.com/pthm-cable/dots/brain"
	"github.com/pthm-cable/dots/components"
)

// Fitness constants for dots that reach the target.
const (
	arrivalFloor = 1.0 / 16.0 // every arrival outranks nearly every non-arrival
	arrivalScale = 10000.0    // reward for fewer steps, divided by steps²
)

// Dot is one agent: a brain plus physical state and lifecycle flags.
// Dead and ReachedTarget are never both set; once either is set the dot is frozen.
type Dot struct {
	Pos, Vel, Acc components.Vector2
	Brain         *brain.Brain

	Dead          bool
	ReachedTarget bool

	Fitness float64
	Role    components.Role
}

// NewDot creates a live dot at spawn steered by b.
func NewDot(spawn components.Vector2, b *brain.Brain) Dot {
	return Dot{Pos: spawn, Brain: b}
}

// NewRandomDot creates a dot at the world spawn point with a random genome.
func NewRandomDot(w *World, rng *rand.Rand) Dot {
	return NewDot(w.Spawn, brain.NewRandom(w.Steps, rng))
}

// Terminal reports whether the dot has died or arrived.
func (d *Dot) Terminal() bool {
	return d.Dead || d.ReachedTarget
}

// Advance moves the dot one tick and applies the termination checks in order:
// genome exhaustion, world bounds, target arrival, obstacles. The first check
// that matches sets its flag and the rest are skipped.
func (d *Dot) Advance(w *World) {
	if d.Terminal() {
		return
	}

	acc, ok := d.Brain.Next()
	if !ok {
		d.Dead = true
		return
	}
	d.Acc = acc

	d.Vel.AddAssign(d.Acc)
	d.Vel.Limit(w.MaxSpeed)
	d.Pos.AddAssign(d.Vel)

	switch {
	case w.OutOfBounds(d.Pos):
		d.Dead = true
	case components.Dist(d.Pos, w.Target) < w.ArrivalRadius:
		d.ReachedTarget = true
	case w.Blocked(d.Pos):
		d.Dead = true
	}
}

// Score sets Fitness. Arrivals score by step count, everyone else by
// inverse squared distance to target.
func (d *Dot) Score(target components.Vector2) {
	if d.ReachedTarget {
		steps := float64(d.Brain.Step)
		d.Fitness = arrivalFloor + arrivalScale/(steps*steps)
		return
	}
	d.Fitness = 1.0 / components.DistSq64(d.Pos, target)
}

// Reproduce returns a fresh dot at spawn carrying an unmutated copy of this genome.
func (d *Dot) Reproduce(spawn components.Vector2) Dot {
	return NewDot(spawn, d.Brain.Clone())
}
