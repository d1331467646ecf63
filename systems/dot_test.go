package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/dots/brain"
	"github.com/pthm-cable/dots/components"
)

// testWorld returns an open 100x100 world with the standard dot physics.
func testWorld() *World {
	return &World{
		Width:         100,
		Height:        100,
		Target:        components.Vec(50, 10),
		Spawn:         components.Vec(50, 90),
		Radius:        4,
		MaxSpeed:      5,
		ArrivalRadius: 12,
		Steps:         brain.DefaultSteps,
		MutationRate:  brain.DefaultMutationRate,
	}
}

func TestAdvanceReachesAdjacentTarget(t *testing.T) {
	w := testWorld()
	w.Target = components.Vec(51, 50)

	d := NewDot(components.Vec(50, 50), brain.FromDirections([]components.Vector2{components.Vec(1, 0)}))
	d.Advance(w)

	if !d.ReachedTarget {
		t.Fatalf("expected dot to reach target, pos=%v", d.Pos)
	}
	if d.Dead {
		t.Error("dot must not be dead and arrived at once")
	}
	if d.Brain.Step != 1 {
		t.Errorf("step = %d, want 1", d.Brain.Step)
	}
}

func TestAdvanceLeavingBoundsDies(t *testing.T) {
	w := testWorld()
	// One unit from the left margin, heading left
	d := NewDot(components.Vec(4.5, 50), brain.FromDirections([]components.Vector2{components.Vec(-1, 0)}))
	d.Advance(w)

	if !d.Dead {
		t.Fatalf("expected dot to die at pos %v", d.Pos)
	}
	if d.ReachedTarget {
		t.Error("dot leaving bounds must not be marked as arrived")
	}
}

func TestAdvanceBoundaryMargins(t *testing.T) {
	tests := []struct {
		name     string
		spawn    components.Vector2
		dir      components.Vector2
		wantDead bool
	}{
		{"left margin", components.Vec(5, 50), components.Vec(-1, 0), false},
		{"past left margin", components.Vec(4.5, 50), components.Vec(-1, 0), true},
		{"top margin", components.Vec(50, 5), components.Vec(0, -1), false},
		{"past right margin", components.Vec(95.5, 80), components.Vec(1, 0), true},
		{"past bottom margin", components.Vec(80, 95.5), components.Vec(0, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testWorld()
			w.Target = components.Vec(-100, -100) // out of reach
			d := NewDot(tt.spawn, brain.FromDirections([]components.Vector2{tt.dir}))
			d.Advance(w)
			if d.Dead != tt.wantDead {
				t.Errorf("dead = %v, want %v (pos %v)", d.Dead, tt.wantDead, d.Pos)
			}
		})
	}
}

func TestAdvanceObstacleDies(t *testing.T) {
	w := testWorld()
	w.Target = components.Vec(50, 10)
	w.Obstacles = []components.Obstacle{components.ObstacleFromBounds(40, 80, 20, 5)} // [40,60) x [80,85)

	d := NewDot(components.Vec(50, 86), brain.FromDirections([]components.Vector2{components.Vec(0, -1), components.Vec(0, -1)}))
	d.Advance(w) // y = 85, just outside
	if d.Dead {
		t.Fatalf("dot died at %v, outside obstacle", d.Pos)
	}
	d.Advance(w) // y = 83, inside
	if !d.Dead {
		t.Errorf("expected dot to die inside obstacle at %v", d.Pos)
	}
}

func TestAdvanceTargetCheckedBeforeObstacles(t *testing.T) {
	w := testWorld()
	w.Target = components.Vec(50, 50)
	// Target sits inside an obstacle; arrival wins
	w.Obstacles = []components.Obstacle{components.NewObstacle(components.Vec(50, 50), components.Vec(40, 40))}

	d := NewDot(components.Vec(50, 52), brain.FromDirections([]components.Vector2{components.Vec(0, -1)}))
	d.Advance(w)
	if !d.ReachedTarget || d.Dead {
		t.Errorf("got reached=%v dead=%v, want reached only", d.ReachedTarget, d.Dead)
	}
}

func TestAdvanceEnclosedSpawnDies(t *testing.T) {
	w := testWorld()
	w.Target = components.Vec(50, 10)
	// Everything except the 1x1 cell [50,51) x [50,51) is blocked
	w.Obstacles = []components.Obstacle{
		components.ObstacleFromBounds(0, 0, 50, 100),
		components.ObstacleFromBounds(51, 0, 49, 100),
		components.ObstacleFromBounds(50, 0, 1, 50),
		components.ObstacleFromBounds(50, 51, 1, 49),
	}
	spawn := components.Vec(50.5, 50.5)

	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		d := NewDot(spawn, brain.NewRandom(10, rng))
		d.Advance(w)
		if !d.Dead {
			d.Advance(w)
		}
		if !d.Dead {
			t.Fatalf("seed %d: dot still alive at %v after two ticks", seed, d.Pos)
		}
		if d.ReachedTarget {
			t.Fatalf("seed %d: enclosed dot reached target", seed)
		}
	}
}

func TestAdvanceGenomeExhaustion(t *testing.T) {
	w := testWorld()
	w.Target = components.Vec(-100, -100)

	d := NewDot(components.Vec(50, 50), brain.FromDirections([]components.Vector2{components.Vec(0, 0)}))
	d.Advance(w)
	if d.Dead {
		t.Fatal("dot died before its genome ran out")
	}
	pos := d.Pos
	d.Advance(w)
	if !d.Dead {
		t.Fatal("expected dot to die once its genome is exhausted")
	}
	if d.Pos != pos {
		t.Errorf("exhausted dot moved from %v to %v", pos, d.Pos)
	}
}

func TestAdvanceTerminalIsFrozen(t *testing.T) {
	w := testWorld()
	rng := rand.New(rand.NewSource(3))

	for _, flag := range []string{"dead", "arrived"} {
		d := NewDot(components.Vec(50, 50), brain.NewRandom(20, rng))
		d.Advance(w)
		if flag == "dead" {
			d.Dead = true
		} else {
			d.ReachedTarget = true
		}
		pos, vel, step := d.Pos, d.Vel, d.Brain.Step
		for i := 0; i < 10; i++ {
			d.Advance(w)
		}
		if d.Pos != pos || d.Vel != vel || d.Brain.Step != step {
			t.Errorf("%s dot changed: pos %v->%v vel %v->%v step %d->%d",
				flag, pos, d.Pos, vel, d.Vel, step, d.Brain.Step)
		}
	}
}

func TestAdvanceSpeedCap(t *testing.T) {
	w := testWorld()
	w.Width, w.Height = 1e6, 1e6 // never leave bounds
	w.Spawn = components.Vec(5e5, 5e5)
	w.Target = components.Vec(-1, -1)

	const eps = 1e-4
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		d := NewDot(w.Spawn, brain.NewRandom(200, rng))
		for !d.Terminal() {
			d.Advance(w)
			if speed := d.Vel.Mag(); speed > w.MaxSpeed+eps {
				t.Fatalf("seed %d step %d: speed %v exceeds cap", seed, d.Brain.Step, speed)
			}
		}
	}

	// A constant heading saturates at exactly the cap
	dirs := make([]components.Vector2, 20)
	for i := range dirs {
		dirs[i] = components.Vec(1, 0)
	}
	d := NewDot(w.Spawn, brain.FromDirections(dirs))
	for i := 0; i < 10; i++ {
		d.Advance(w)
	}
	if math.Abs(float64(d.Vel.Mag()-w.MaxSpeed)) > eps {
		t.Errorf("saturated speed = %v, want %v", d.Vel.Mag(), w.MaxSpeed)
	}
}

func TestScore(t *testing.T) {
	target := components.Vec(0, 0)

	near := Dot{Pos: components.Vec(3, 4), Brain: brain.New(1)}
	far := Dot{Pos: components.Vec(30, 40), Brain: brain.New(1)}
	near.Score(target)
	far.Score(target)

	if math.Abs(near.Fitness-1.0/25) > 1e-9 {
		t.Errorf("near fitness = %v, want 1/25", near.Fitness)
	}
	if near.Fitness <= far.Fitness {
		t.Errorf("closer dot should score higher: near=%v far=%v", near.Fitness, far.Fitness)
	}

	arrived := Dot{ReachedTarget: true, Brain: &brain.Brain{Directions: make([]components.Vector2, 400), Step: 50}}
	arrived.Score(target)
	want := 1.0/16 + 10000.0/2500
	if math.Abs(arrived.Fitness-want) > 1e-9 {
		t.Errorf("arrived fitness = %v, want %v", arrived.Fitness, want)
	}

	slow := Dot{ReachedTarget: true, Brain: &brain.Brain{Directions: make([]components.Vector2, 400), Step: 400}}
	slow.Score(target)
	if slow.Fitness <= 1.0/16 {
		t.Errorf("arrived fitness %v should exceed 1/16", slow.Fitness)
	}
	if slow.Fitness >= arrived.Fitness {
		t.Errorf("fewer steps should score higher: 50 steps=%v, 400 steps=%v", arrived.Fitness, slow.Fitness)
	}
}

func TestScoreOrderingProperty(t *testing.T) {
	target := components.Vec(400, 50)

	// refDistSq works in float64 from the exact float32 coordinates.
	refDistSq := func(p components.Vector2) float64 {
		dx := float64(p.X) - 400
		dy := float64(p.Y) - 50
		return dx*dx + dy*dy
	}

	check := func(a, b Dot) {
		t.Helper()
		a.Score(target)
		b.Score(target)
		da, db := refDistSq(a.Pos), refDistSq(b.Pos)
		if da < db && !(a.Fitness > b.Fitness) {
			t.Errorf("distSq %v < %v but fitness %v <= %v", da, db, a.Fitness, b.Fitness)
		}
		if db < da && !(b.Fitness > a.Fitness) {
			t.Errorf("distSq %v < %v but fitness %v <= %v", db, da, b.Fitness, a.Fitness)
		}
	}

	tests := []struct {
		name string
		a, b components.Vector2
	}{
		// float32 squares of these round to the same value.
		{"far near-equal", components.Vec(400.03125, 700), components.Vec(400.0625, 700)},
		{"one ulp apart", components.Vec(400, 799.99994), components.Vec(400, 800)},
		{"close", components.Vec(401, 51), components.Vec(402, 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(Dot{Pos: tt.a}, Dot{Pos: tt.b})
		})
	}

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		a := components.Vec(rng.Float32()*800, rng.Float32()*800)
		b := components.Vec(a.X+rng.Float32()*0.01, a.Y)
		check(Dot{Pos: a}, Dot{Pos: b})
		check(Dot{Pos: a}, Dot{Pos: components.Vec(rng.Float32()*800, rng.Float32()*800)})
	}
}

func TestReproduce(t *testing.T) {
	w := testWorld()
	rng := rand.New(rand.NewSource(5))
	parent := NewRandomDot(w, rng)
	for i := 0; i < 30; i++ {
		parent.Advance(w)
	}
	parent.Fitness = 3
	parent.Role = components.RoleElite

	child := parent.Reproduce(w.Spawn)

	if child.Pos != w.Spawn || child.Vel != (components.Vector2{}) {
		t.Errorf("child state pos=%v vel=%v, want spawn and zero velocity", child.Pos, child.Vel)
	}
	if child.Terminal() || child.Fitness != 0 || child.Role != components.RoleOrdinary {
		t.Errorf("child should start fresh, got %+v", child)
	}
	if child.Brain == parent.Brain {
		t.Fatal("child shares parent's brain")
	}
	if child.Brain.Step != 0 {
		t.Errorf("child step = %d, want 0", child.Brain.Step)
	}
	for i := range parent.Brain.Directions {
		if child.Brain.Directions[i] != parent.Brain.Directions[i] {
			t.Fatalf("direction %d differs", i)
		}
	}
}
