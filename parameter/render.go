package parameter

import "time"

// Terminal rendering
const (
	// HUDRows is the number of screen rows above the arena reserved for the status line
	HUDRows = 1

	// InputHoldDuration keeps a direction key active after its last repeat
	// Terminals report presses only, so held keys arrive as auto-repeat
	InputHoldDuration = 150 * time.Millisecond

	// MaxScreenEffects bounds concurrently drawn effects
	MaxScreenEffects = 64
)

// Glyphs
const (
	GlyphBlock   = '█'
	GlyphPending = '▒'
	GlyphPaddle  = '▀'
	GlyphBall    = '●'
	GlyphWall    = '░'
	GlyphBreak   = '*'
	GlyphBounce  = '+'
	GlyphLaunch  = '^'
)
