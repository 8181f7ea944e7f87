package physics

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/core"
)

// LaunchDirection draws a unit direction uniformly within maxAngleDeg of up
// With strict set, an exactly vertical draw is rejected and redrawn up to maxRetries times
func LaunchDirection(rng *rand.Rand, maxAngleDeg float64, strict bool, maxRetries int) core.Vec2 {
	angle := sampleAngle(rng, maxAngleDeg)
	for i := 0; strict && angle == 0 && i < maxRetries; i++ {
		angle = sampleAngle(rng, maxAngleDeg)
	}
	return core.Up.Rotate(angle * math.Pi / 180)
}

// AngleFromUp returns the signed angle in degrees between dir and up
func AngleFromUp(dir core.Vec2) float64 {
	return math.Atan2(-dir.X, dir.Y) * 180 / math.Pi
}

func sampleAngle(rng *rand.Rand, maxAngleDeg float64) float64 {
	return (rng.Float64()*2 - 1) * maxAngleDeg
}
