// Package ui draws the window HUD and the raygui control panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	TitleColor     rl.Color
	LabelColor     rl.Color
	StatusColor    rl.Color
	HintColor      rl.Color
	Padding        int32
	LineHeight     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 210},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		TitleColor:     rl.White,
		LabelColor:     rl.LightGray,
		StatusColor:    rl.Yellow,
		HintColor:      rl.Gray,
		Padding:        10,
		LineHeight:     18,
		FontSize:       14,
		HeaderFontSize: 18,
	}
}

// drawPanel draws a panel background with border.
func (t Theme) drawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, t.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, t.PanelBorder)
}
