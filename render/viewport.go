package render

import (
	"math"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/physics"
)

// Viewport maps arena coordinates (y up) onto screen cells (y down)
type Viewport struct {
	Arena  physics.Rect
	X, Y   int // Screen origin of the arena
	Width  int
	Height int
}

// NewViewport fits arena into a screen area of width x height starting at row top
func NewViewport(arena physics.Rect, width, height, top int) Viewport {
	return Viewport{
		Arena:  arena,
		Y:      top,
		Width:  max(width, 1),
		Height: max(height-top, 1),
	}
}

func (v Viewport) scale() (sx, sy float64) {
	w := v.Arena.Max.X - v.Arena.Min.X
	h := v.Arena.Max.Y - v.Arena.Min.Y
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return float64(v.Width) / w, float64(v.Height) / h
}

// Cell converts an arena position to a screen cell
func (v Viewport) Cell(p core.Vec2) (x, y int) {
	sx, sy := v.scale()
	x = v.X + int(math.Floor((p.X-v.Arena.Min.X)*sx))
	y = v.Y + int(math.Floor((v.Arena.Max.Y-p.Y)*sy))
	return x, y
}

// Span converts an axis-aligned box to an inclusive cell range, at least one cell wide
func (v Viewport) Span(center, half core.Vec2) (x0, y0, x1, y1 int) {
	sx, sy := v.scale()
	x0 = v.X + int(math.Floor((center.X-half.X-v.Arena.Min.X)*sx+0.5))
	x1 = v.X + int(math.Floor((center.X+half.X-v.Arena.Min.X)*sx+0.5)) - 1
	y0 = v.Y + int(math.Floor((v.Arena.Max.Y-(center.Y+half.Y))*sy+0.5))
	y1 = v.Y + int(math.Floor((v.Arena.Max.Y-(center.Y-half.Y))*sy+0.5)) - 1
	x1 = max(x1, x0)
	y1 = max(y1, y0)
	return x0, y0, x1, y1
}

// Inside reports whether a cell lies in the arena area
func (v Viewport) Inside(x, y int) bool {
	return x >= v.X && x < v.X+v.Width && y >= v.Y && y < v.Y+v.Height
}
