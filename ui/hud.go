package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/game"
)

// HUDData holds everything the HUD shows.
type HUDData struct {
	Title  string
	Status game.Status
	FPS    int32
}

// Lines returns the HUD text, one entry per row.
func (d HUDData) Lines() []string {
	s := d.Status

	best := "none yet"
	if s.LastBestSteps > 0 {
		best = fmt.Sprintf("%d steps", s.LastBestSteps)
	}

	state := "Running"
	if s.Paused {
		state = "PAUSED"
	}

	return []string{
		fmt.Sprintf("Gen: %d | Tick: %d", s.Generation, s.Tick),
		fmt.Sprintf("Alive: %d | Arrived: %d | Dead: %d", s.Alive, s.Arrived, s.Dead),
		fmt.Sprintf("Step budget: %d | Last best: %s", s.StepBudget, best),
		fmt.Sprintf("Speed: %dx | FPS: %d | Ticks/s: %.0f", s.Speed, d.FPS, s.TicksPerSecond),
		state,
	}
}

// HUD renders the heads-up display in the top-left corner.
type HUD struct {
	theme Theme
}

// NewHUD creates a HUD with the default theme.
func NewHUD() *HUD {
	return &HUD{theme: DefaultTheme()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	t := h.theme
	lines := data.Lines()

	width := int32(300)
	height := t.Padding*2 + t.HeaderFontSize + 6 + int32(len(lines))*t.LineHeight
	t.drawPanel(5, 5, width, height)

	x := int32(5) + t.Padding
	y := int32(5) + t.Padding
	rl.DrawText(data.Title, x, y, t.HeaderFontSize, t.TitleColor)
	y += t.HeaderFontSize + 6

	for i, line := range lines {
		color := t.LabelColor
		if i == len(lines)-1 {
			color = t.StatusColor
		}
		rl.DrawText(line, x, y, t.FontSize, color)
		y += t.LineHeight
	}
}

// DrawKeyHints renders the key legend at the bottom of the screen.
func (h *HUD) DrawKeyHints(screenHeight int32, hints string) {
	rl.DrawText(hints, 10, screenHeight-22, 14, h.theme.HintColor)
}
