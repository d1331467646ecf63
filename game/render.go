package game

import "github.com/pthm-cable/dots/components"

// Circle is a draw request for a dot or the target.
type Circle struct {
	Center components.Vector2
	Radius float32
	Role   components.Role
}

// Sink receives draw requests. Colors and styling are up to the implementation.
type Sink interface {
	DrawRectangle(o components.Obstacle)
	DrawCircle(c Circle)
}

// Render emits the obstacles, then the dots, then the target. Ordinary dots
// come first and the control and elite dots last so they stay visible.
func (p *Population) Render(s Sink) {
	for _, o := range p.world.Obstacles {
		s.DrawRectangle(o)
	}

	r := p.world.Radius
	for _, role := range []components.Role{components.RoleOrdinary, components.RoleControl, components.RoleElite} {
		for i := range p.dots {
			d := &p.dots[i]
			if d.Role == role {
				s.DrawCircle(Circle{Center: d.Pos, Radius: r, Role: role})
			}
		}
	}

	s.DrawCircle(Circle{Center: p.world.Target, Radius: 2 * r, Role: components.RoleTarget})
}
