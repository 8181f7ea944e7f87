package parameter

import "time"

// Camera feedback
const (
	// CameraReturnDuration is the lerp-back time after a push completes
	CameraReturnDuration = 100 * time.Millisecond

	// BlockHitPushIntensity is the push speed in world units per second
	BlockHitPushIntensity = 6.0

	// BlockHitPushDuration is the push phase length for a block break
	BlockHitPushDuration = 60 * time.Millisecond
)
