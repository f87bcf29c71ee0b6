// Package theme holds the colour palette used to paint the studio window.
package theme

import (
	"image/color"
)

// Theme is the colour palette for the studio window.
type Theme struct {
	Name string

	// Window
	Background color.RGBA
	Foreground color.RGBA
	Muted      color.RGBA // secondary labels and placeholders
	Accent     color.RGBA // generate button, spinner, selection
	Error      color.RGBA

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonDisabled        color.RGBA
	ButtonText            color.RGBA
	ButtonTextDisabled    color.RGBA
	ButtonBorder          color.RGBA

	// Panels
	PanelBackground color.RGBA // output area behind a fitted result
	PanelBorder     color.RGBA // frame around the canvas and output
}

// Default returns the built in light palette.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{243, 244, 246, 255},
		Foreground:            color.RGBA{17, 24, 39, 255},
		Muted:                 color.RGBA{156, 163, 175, 255},
		Accent:                color.RGBA{41, 190, 70, 255},
		Error:                 color.RGBA{220, 38, 38, 255},
		ToolbarBackground:     color.RGBA{229, 231, 235, 255},
		ButtonBackground:      color.RGBA{209, 213, 219, 255},
		ButtonBackgroundHover: color.RGBA{190, 195, 203, 255},
		ButtonBackgroundPress: color.RGBA{156, 163, 175, 255},
		ButtonDisabled:        color.RGBA{229, 231, 235, 255},
		ButtonText:            color.RGBA{17, 24, 39, 255},
		ButtonTextDisabled:    color.RGBA{156, 163, 175, 255},
		ButtonBorder:          color.RGBA{107, 114, 128, 255},
		PanelBackground:       color.RGBA{255, 255, 255, 255},
		PanelBorder:           color.RGBA{209, 213, 219, 255},
	}
}
