package parameter

// Ball
const (
	DefaultBallSpeed  = 18.0
	DefaultBallRadius = 0.4

	// DefaultMaxShootAngle is the launch cone half-angle in degrees around up
	DefaultMaxShootAngle = 45.0

	// BallSpawnOffset is the anchor distance above the paddle along its local up
	BallSpawnOffset = 1.0

	// LaunchMaxRetries bounds strict-mode redraws of a degenerate zero angle
	LaunchMaxRetries = 64
)

// Paddle
const (
	DefaultPaddleSpeed      = 24.0
	DefaultPaddleHalfWidth  = 3.0
	DefaultPaddleHalfHeight = 0.5

	// PaddleProbeEpsilon is the margin added to the half-extent for wall probes
	PaddleProbeEpsilon = 0.1
)
