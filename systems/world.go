// Package systems contains the per-dot simulation rules: movement,
// termination checks, scoring, the fixed obstacle course and parent selection.
package systems

import (
	"github.com/pthm-cable/dots/components"
	"github.com/pthm-cable/dots/config"
)

// World holds the immutable settings every dot reads during a tick.
// It is built once at setup and shared read-only by all workers.
type World struct {
	Width, Height float32
	Target        components.Vector2
	Spawn         components.Vector2
	Obstacles     []components.Obstacle

	Radius        float32 // dot radius, also the boundary margin
	MaxSpeed      float32
	ArrivalRadius float32 // arrival when distance to target is below this

	Steps        int     // genome length
	MutationRate float64 // per-slot resample probability at turnover
}

// NewWorld builds the world described by cfg, including the fixed course.
func NewWorld(cfg *config.Config) *World {
	w := cfg.Derived.WorldW32
	h := cfg.Derived.WorldH32
	radius := float32(cfg.Dot.Radius)

	return &World{
		Width:         w,
		Height:        h,
		Target:        components.Vec(w/2, float32(cfg.World.TargetY)),
		Spawn:         components.Vec(w/2, h-float32(cfg.World.SpawnOffset)),
		Obstacles:     Course(cfg.Derived.WorldW, cfg.Derived.WorldH),
		Radius:        radius,
		MaxSpeed:      float32(cfg.Dot.MaxSpeed),
		ArrivalRadius: float32(cfg.Dot.TargetRadiusFactor) * radius,
		Steps:         cfg.Brain.Steps,
		MutationRate:  cfg.Mutation.Rate,
	}
}

// OutOfBounds reports whether p is closer than Radius to any world edge.
func (w *World) OutOfBounds(p components.Vector2) bool {
	r := w.Radius
	return p.X < r || p.Y < r || p.X > w.Width-r || p.Y > w.Height-r
}

// Blocked reports whether p lies inside any obstacle.
func (w *World) Blocked(p components.Vector2) bool {
	for i := range w.Obstacles {
		if w.Obstacles[i].Contains(p) {
			return true
		}
	}
	return false
}
