package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/breakout/core"
)

var (
	RgbBackground = core.RGB{R: 10, G: 10, B: 18}
	RgbWall       = core.RGB{R: 90, G: 90, B: 110}
	RgbPaddle     = core.RGB{R: 220, G: 220, B: 230}
	RgbPaddleOwn  = core.RGB{R: 80, G: 220, B: 255}
	RgbBall       = core.RGB{R: 255, G: 240, B: 160}
	RgbHUD        = core.RGB{R: 200, G: 200, B: 200}
	RgbScore      = core.RGB{R: 255, G: 200, B: 60}
	RgbOverlay    = core.RGB{R: 120, G: 200, B: 120}
)

// Color converts an RGB value to a tcell truecolor
func Color(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func styleOf(fg core.RGB) tcell.Style {
	return tcell.StyleDefault.Foreground(Color(fg)).Background(Color(RgbBackground))
}
