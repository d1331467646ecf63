package game

import (
	"github.com/pthm-cable/dots/components"
	"github.com/pthm-cable/dots/systems"
)

// Turnover summarizes one generational turnover for telemetry.
type Turnover struct {
	Generation  int // the generation that was scored
	BestIndex   int
	BestFitness float64
	BestReached bool
	BestSteps   int
	MaxSteps    int // step budget after selection

	Fitness []float64 // scored fitness, indexed like the scored generation

	Arrived int
	Dead    int

	Fallbacks int // roulette draws replaced by fresh random dots
	Mutations int // direction slots resampled in the new generation
}

// turnover scores the settled generation and replaces it with the next one.
func (p *Population) turnover() Turnover {
	p.scoreAll()

	t := Turnover{
		Generation: p.generation,
		Fitness:    make([]float64, len(p.dots)),
	}
	for i := range p.dots {
		d := &p.dots[i]
		t.Fitness[i] = d.Fitness
		if d.ReachedTarget {
			t.Arrived++
		} else {
			t.Dead++
		}
	}

	p.selectBest()
	best := &p.dots[p.bestIndex]
	t.BestIndex = p.bestIndex
	t.BestFitness = best.Fitness
	t.BestReached = best.ReachedTarget
	t.BestSteps = best.Brain.Step
	t.MaxSteps = p.maxSteps

	p.fitnessSum = systems.FitnessSum(p.dots)

	next, fallbacks := p.breed()
	t.Fallbacks = fallbacks

	p.dots = next
	p.generation++
	p.assignRoles()
	t.Mutations = p.mutateAll()

	return t
}

func (p *Population) scoreAll() {
	for i := range p.dots {
		p.dots[i].Score(p.world.Target)
	}
}

// selectBest records the best dot and tightens the step budget when it arrived.
func (p *Population) selectBest() {
	p.bestIndex = systems.BestIndex(p.dots)
	best := &p.dots[p.bestIndex]

	if !best.ReachedTarget {
		p.logger.Info("generation", "gen", p.generation)
		return
	}

	if best.Brain.Step < p.maxSteps {
		p.maxSteps = best.Brain.Step
	}
	p.logger.Info("generation", "gen", p.generation, "steps", best.Brain.Step)
}

// breed builds the next generation: the best dot's clone in slot 0, a fresh
// random control dot in slot 1, and roulette-picked offspring after that.
func (p *Population) breed() (next []systems.Dot, fallbacks int) {
	spawn := p.world.Spawn
	next = make([]systems.Dot, len(p.dots))

	next[0] = p.dots[p.bestIndex].Reproduce(spawn)
	if len(next) > 1 {
		next[1] = systems.NewRandomDot(p.world, p.rng)
	}

	for i := 2; i < len(next); i++ {
		parent, ok := systems.PickParent(p.rng, p.dots, p.fitnessSum)
		if !ok {
			next[i] = systems.NewRandomDot(p.world, p.rng)
			fallbacks++
			continue
		}
		next[i] = p.dots[parent].Reproduce(spawn)
	}
	return next, fallbacks
}

func (p *Population) assignRoles() {
	for i := range p.dots {
		switch i {
		case 0:
			p.dots[i].Role = components.RoleElite
		case 1:
			p.dots[i].Role = components.RoleControl
		default:
			p.dots[i].Role = components.RoleOrdinary
		}
	}
}

// mutateAll mutates every dot except the elite and control slots.
func (p *Population) mutateAll() int {
	mutated := 0
	for i := 2; i < len(p.dots); i++ {
		mutated += p.dots[i].Brain.Mutate(p.rng, p.world.MutationRate)
	}
	return mutated
}
