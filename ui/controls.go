package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/game"
)

// Panel geometry.
const (
	controlsWidth  = 220
	controlsHeight = 120
	buttonWidth    = 95
	buttonHeight   = 28
)

// ControlState is what the control panel shows.
type ControlState struct {
	Paused bool
	Speed  int
}

// ControlActions reports what the user changed this frame.
type ControlActions struct {
	TogglePause bool
	ResetView   bool
	Speed       int // requested ticks per frame; equals the shown value when unchanged
}

// Controls is the raygui panel in the top-right corner.
type Controls struct {
	theme Theme
	x, y  int32
}

// NewControls creates a control panel anchored to the right edge of a
// window screenWidth pixels wide.
func NewControls(screenWidth int32) *Controls {
	c := &Controls{theme: DefaultTheme()}
	c.SetScreenWidth(screenWidth)
	return c
}

// SetScreenWidth re-anchors the panel after a window resize.
func (c *Controls) SetScreenWidth(screenWidth int32) {
	c.x = screenWidth - controlsWidth - 5
	c.y = 5
}

// Contains reports whether the screen point lies on the panel, so the
// caller can keep camera drags from starting there.
func (c *Controls) Contains(x, y float32) bool {
	return x >= float32(c.x) && x < float32(c.x+controlsWidth) &&
		y >= float32(c.y) && y < float32(c.y+controlsHeight)
}

// Draw renders the panel and returns the user's actions.
func (c *Controls) Draw(state ControlState) ControlActions {
	t := c.theme
	t.drawPanel(c.x, c.y, controlsWidth, controlsHeight)

	px := float32(c.x + t.Padding)
	py := float32(c.y + t.Padding)
	actions := ControlActions{Speed: state.Speed}

	rl.DrawText("Controls", int32(px), int32(py), t.HeaderFontSize, t.TitleColor)
	py += float32(t.HeaderFontSize) + 8

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: px, Y: py, Width: buttonWidth, Height: buttonHeight}, pauseText) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: px + buttonWidth + 10, Y: py, Width: buttonWidth, Height: buttonHeight}, "Reset View") {
		actions.ResetView = true
	}
	py += buttonHeight + 10

	rl.DrawText(fmt.Sprintf("Speed: %dx", state.Speed), int32(px), int32(py), t.FontSize, t.LabelColor)
	py += float32(t.LineHeight)
	value := gui.SliderBar(
		rl.Rectangle{X: px, Y: py, Width: controlsWidth - 2*float32(t.Padding), Height: 16},
		"", "",
		float32(state.Speed), game.MinStepsPerUpdate, game.MaxStepsPerUpdate,
	)
	actions.Speed = int(math.Round(float64(value)))

	return actions
}
