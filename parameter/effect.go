package parameter

import "time"

// Effect kinds carried by replicated effect commands
const (
	EffectBreak  = "break"
	EffectBounce = "bounce"
	EffectLaunch = "launch"
)

// Effect visuals
const (
	// EffectLifetime is how long a terminal effect stays on screen
	EffectLifetime = 250 * time.Millisecond

	// BreakEffectScale is the relative size of a block break burst
	BreakEffectScale = 1.5

	// BounceEffectScale is the relative size of a bounce spark
	BounceEffectScale = 0.5
)
