package sheet

import (
	"image/color"
	"image/draw"

	"github.com/MeKo-Tech/omr/internal/decode"
	"github.com/MeKo-Tech/omr/internal/utils"
)

// Overlay colours per status.
var (
	ColorOK        = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ColorAmbiguous = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	ColorMulti     = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	ColorBlank     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// StatusColor returns the overlay colour of s.
func StatusColor(s decode.Status) color.RGBA {
	switch s {
	case decode.StatusOK:
		return ColorOK
	case decode.StatusAmbiguous:
		return ColorAmbiguous
	case decode.StatusMulti:
		return ColorMulti
	default:
		return ColorBlank
	}
}

const markThickness = 2

// Annotate draws marks onto dst.
func Annotate(dst draw.Image, marks []Mark) {
	for _, m := range marks {
		c := StatusColor(m.Status)
		utils.DrawRect(dst, m.Box, c, markThickness)
		if m.Text != "" {
			utils.DrawLabel(dst, m.Box.Min.X, max(10, m.Box.Min.Y-4), m.Text, c)
		}
	}
}
