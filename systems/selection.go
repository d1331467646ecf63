package systems

import "math/rand"

// BestIndex returns the index of the highest-fitness dot.
// Ties go to the lowest index. Returns -1 for an empty slice.
func BestIndex(dots []Dot) int {
	if len(dots) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(dots); i++ {
		if dots[i].Fitness > dots[best].Fitness {
			best = i
		}
	}
	return best
}

// FitnessSum returns the total fitness of dots.
func FitnessSum(dots []Dot) float64 {
	var sum float64
	for i := range dots {
		sum += dots[i].Fitness
	}
	return sum
}

// PickParent runs one fitness-proportionate (roulette wheel) draw.
// It draws r uniformly in [0, fitnessSum) and returns the first dot whose
// running fitness total exceeds r. ok is false if rounding leaves the walk
// without a pick; callers substitute a fresh random dot.
func PickParent(rng *rand.Rand, dots []Dot, fitnessSum float64) (index int, ok bool) {
	r := rng.Float64() * fitnessSum
	var running float64
	for i := range dots {
		running += dots[i].Fitness
		if running > r {
			return i, true
		}
	}
	return -1, false
}
