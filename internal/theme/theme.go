package theme

import (
	"image/color"

	"github.com/example/shineymark/internal/render"
)

// Theme defines the colours of the annotation window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the stage
	Foreground color.RGBA // Status text

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusError      color.RGBA

	// Stage
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Decorations
	Selection  color.RGBA
	Handle     color.RGBA
	HandleFill color.RGBA
	CropShade  color.RGBA
	CropBorder color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{220, 220, 220, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		StatusError:      color.RGBA{176, 0, 32, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		Selection:        color.RGBA{0x3d, 0x8b, 0xff, 255},
		Handle:           color.RGBA{0x3d, 0x8b, 0xff, 255},
		HandleFill:       color.RGBA{255, 255, 255, 255},
		CropShade:        color.RGBA{0, 0, 0, 0x80},
		CropBorder:       color.RGBA{255, 255, 255, 255},
	}
}

// Overlay returns the decoration colours used on the stage.
func (t *Theme) Overlay() render.OverlayColors {
	return render.OverlayColors{
		Selection:  t.Selection,
		Handle:     t.Handle,
		HandleFill: t.HandleFill,
		CropShade:  t.CropShade,
		CropBorder: t.CropBorder,
	}
}
