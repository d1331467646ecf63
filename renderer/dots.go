// Package renderer draws the simulation with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/camera"
	"github.com/pthm-cable/dots/components"
	"github.com/pthm-cable/dots/game"
)

// Style is the fill and optional outline for one role.
type Style struct {
	Fill    rl.Color
	Outline rl.Color
	Ring    float32 // outline thickness as a fraction of the radius; 0 = none
}

// Palette maps draw roles to styles.
type Palette struct {
	Background rl.Color
	Obstacle   rl.Color
	Roles      [4]Style // indexed by components.Role
}

// DefaultPalette returns the classic look: black dots on white, a green
// elite, a red-ringed control dot and a red target.
func DefaultPalette() Palette {
	return Palette{
		Background: rl.RayWhite,
		Obstacle:   rl.Blue,
		Roles: [4]Style{
			components.RoleOrdinary: {Fill: rl.Black},
			components.RoleElite:    {Fill: rl.Green},
			components.RoleControl:  {Fill: rl.Black, Outline: rl.Red, Ring: 0.5},
			components.RoleTarget:   {Fill: rl.Red, Outline: rl.Black, Ring: 0.25},
		},
	}
}

// Style returns the style for role, falling back to the ordinary style.
func (p Palette) Style(role components.Role) Style {
	if int(role) < len(p.Roles) {
		return p.Roles[role]
	}
	return p.Roles[components.RoleOrdinary]
}

// DotRenderer is a game.Sink that draws through a camera.
type DotRenderer struct {
	cam     *camera.Camera
	palette Palette
}

var _ game.Sink = (*DotRenderer)(nil)

// NewDotRenderer creates a renderer using the default palette.
func NewDotRenderer(cam *camera.Camera) *DotRenderer {
	return &DotRenderer{cam: cam, palette: DefaultPalette()}
}

// Begin clears the frame to the background color.
func (r *DotRenderer) Begin() {
	rl.ClearBackground(r.palette.Background)
}

// DrawRectangle draws an obstacle.
func (r *DotRenderer) DrawRectangle(o components.Obstacle) {
	x, y := r.cam.WorldToScreen(o.Min.X, o.Min.Y)
	size := o.Size()
	rl.DrawRectangleRec(rl.Rectangle{
		X:      x,
		Y:      y,
		Width:  r.cam.ScaleToScreen(size.X),
		Height: r.cam.ScaleToScreen(size.Y),
	}, r.palette.Obstacle)
}

// DrawCircle draws a dot or the target, skipping anything off screen.
func (r *DotRenderer) DrawCircle(c game.Circle) {
	if !r.cam.IsVisible(c.Center.X, c.Center.Y, c.Radius*1.5) {
		return
	}

	x, y := r.cam.WorldToScreen(c.Center.X, c.Center.Y)
	center := rl.Vector2{X: x, Y: y}
	radius := r.cam.ScaleToScreen(c.Radius)
	style := r.palette.Style(c.Role)

	if style.Ring > 0 {
		rl.DrawCircleV(center, radius*(1+style.Ring), style.Outline)
	}
	rl.DrawCircleV(center, radius, style.Fill)
}
