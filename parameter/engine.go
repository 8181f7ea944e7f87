package parameter

import "time"

// Game Loop & Engine Timing
const (
	// TickRate is the simulation frequency in ticks per second
	TickRate = 64

	// TickInterval is the duration of one simulation tick
	TickInterval = time.Second / TickRate

	// ReplicateEveryTicks is how often the authority broadcasts ball snapshots
	// Launch/reset transitions are replicated immediately regardless
	ReplicateEveryTicks = 2

	// MaxTickDelta caps integration steps after stalls
	MaxTickDelta = 4 * TickInterval

	// StatusReportInterval is how often the metrics registry is logged at debug level
	StatusReportInterval = 10 * time.Second
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 4096

	// EventBufferMask is the bitmask for fast modulo operations (4096 - 1)
	EventBufferMask = 4095
)

// Replication
const (
	// DestroyRequestTimeout bounds how long an observer keeps a block pending
	// before treating the destroy request as failed
	DestroyRequestTimeout = 2 * time.Second

	// MaxPlayers is the number of paddle spawn slots
	MaxPlayers = 2

	// MaxPeers bounds remote connections; peers beyond the spawn slots spectate
	MaxPeers = 8
)
