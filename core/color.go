package core

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB stores explicit 8-bit color channels, decoupled from any renderer
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (c RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return c
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Scale multiplies each channel by factor (for fading effects)
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGBBlack
	}
	if factor >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// Packed returns the color as 0xRRGGBB
func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex formats the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// UnpackRGB is the inverse of Packed
func UnpackRGB(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// ParseHex parses #rrggbb or rrggbb
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return UnpackRGB(uint32(v)), nil
}

// GradientStop is a color anchored at a position in [0,1]
type GradientStop struct {
	Pos   float64
	Color RGB
}

// Gradient is an ordered list of stops sampled by linear interpolation
// Stops must be sorted by Pos
type Gradient []GradientStop

// NewGradient builds a two-stop gradient
func NewGradient(from, to RGB) Gradient {
	return Gradient{{Pos: 0, Color: from}, {Pos: 1, Color: to}}
}

// Evaluate samples the gradient at t, clamping outside the stop range
func (g Gradient) Evaluate(t float64) RGB {
	if len(g) == 0 {
		return RGBWhite
	}
	if t <= g[0].Pos {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 1; i < len(g); i++ {
		hi := g[i]
		if t > hi.Pos {
			continue
		}
		lo := g[i-1]
		span := hi.Pos - lo.Pos
		if span <= 0 {
			return hi.Color
		}
		return lo.Color.Blend(hi.Color, (t-lo.Pos)/span)
	}
	return last.Color
}
