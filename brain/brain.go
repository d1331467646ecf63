// Package brain provides the genome that steers a dot: a fixed-length
// sequence of unit acceleration directions consumed one per tick.
package brain

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/dots/components"
)

// Genome defaults.
const (
	DefaultSteps        = 400  // directions per genome
	DefaultMutationRate = 0.01 // per-slot resample probability
)

// Brain is an ordered list of directions plus a cursor into it.
type Brain struct {
	Directions []components.Vector2
	Step       int
}

// New creates a brain with size zero-valued directions.
// Used as a clone target; call Randomize for a usable genome.
func New(size int) *Brain {
	return &Brain{Directions: make([]components.Vector2, size)}
}

// NewRandom creates a brain with size random unit directions.
func NewRandom(size int, rng *rand.Rand) *Brain {
	b := New(size)
	b.Randomize(rng)
	return b
}

// FromDirections creates a brain that replays dirs. The slice is copied.
func FromDirections(dirs []components.Vector2) *Brain {
	b := New(len(dirs))
	copy(b.Directions, dirs)
	return b
}

// Randomize replaces every slot with a direction at a uniform angle in [0, 2π).
func (b *Brain) Randomize(rng *rand.Rand) {
	for i := range b.Directions {
		b.Directions[i] = randomDirection(rng)
	}
}

// Clone returns a copy of the genome with the cursor reset.
func (b *Brain) Clone() *Brain {
	return FromDirections(b.Directions)
}

// Mutate resamples each slot independently with probability rate.
// Returns the number of slots that changed.
func (b *Brain) Mutate(rng *rand.Rand, rate float64) int {
	mutated := 0
	for i := range b.Directions {
		if rng.Float64() < rate {
			b.Directions[i] = randomDirection(rng)
			mutated++
		}
	}
	return mutated
}

// Next returns the direction under the cursor and advances it.
// ok is false once the genome is exhausted.
func (b *Brain) Next() (dir components.Vector2, ok bool) {
	if b.Step >= len(b.Directions) {
		return components.Vector2{}, false
	}
	dir = b.Directions[b.Step]
	b.Step++
	return dir, true
}

// Len returns the genome length.
func (b *Brain) Len() int {
	return len(b.Directions)
}

// Exhausted reports whether every step has been consumed.
func (b *Brain) Exhausted() bool {
	return b.Step >= len(b.Directions)
}

func randomDirection(rng *rand.Rand) components.Vector2 {
	return components.FromAngle(float32(rng.Float64() * 2 * math.Pi))
}
