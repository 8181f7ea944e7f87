package parameter

// System Execution Priorities (lower runs first)
const (
	PrioritySpawn     = 5
	PriorityPaddle    = 10 // Input first so the ball anchor sees this tick's paddle
	PriorityBall      = 20
	PriorityCollision = 30 // After integration
	PriorityBlock     = 40 // Pending destroy timeouts
	PriorityScore     = 45
	PriorityCamera    = 50
	PriorityEffect    = 60
)
