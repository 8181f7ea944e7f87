package event

import (
	"time"

	"github.com/lixenwraith/breakout/core"
)

// SessionPayload identifies the session a lifecycle event belongs to
type SessionPayload struct {
	SessionID string
	Score     float64 // Total at the transition, before reset
}

// PlayerPayload identifies a player slot
type PlayerPayload struct {
	Peer   core.PeerID
	Slot   int
	Paddle core.Entity
	Ball   core.Entity
}

// GridSpawnedPayload summarizes an atomic grid replacement
type GridSpawnedPayload struct {
	Blocks    int
	Destroyed int
}

// BlockDestroyedPayload carries the points awarded for a destroyed block
type BlockDestroyedPayload struct {
	Entity core.Entity
	Grid   core.Point
	Points float64
}

// BlockRemovedPayload describes a block leaving the world
type BlockRemovedPayload struct {
	Grid     core.Point
	Position core.Vec2
	Color    core.RGB
}

// ScoreChangedPayload carries the new score total and its display value
type ScoreChangedPayload struct {
	Total   float64
	Display int
}

// BallPayload identifies a ball and its owner
type BallPayload struct {
	Entity   core.Entity
	Owner    core.PeerID
	Position core.Vec2
	Velocity core.Vec2
}

// BallBouncePayload describes a reflected collision
type BallBouncePayload struct {
	Entity   core.Entity
	Position core.Vec2
	Normal   core.Vec2
}

// CameraPushPayload describes a camera push command
type CameraPushPayload struct {
	Direction core.Vec2
	Intensity float64
	Duration  time.Duration
}

// EffectRequestPayload describes a visual effect to spawn
type EffectRequestPayload struct {
	Kind     string
	Position core.Vec2
	Color    core.RGB
	Scale    float64
}

// SoundRequestPayload describes a sound category to play
type SoundRequestPayload struct {
	Category string
	Volume   float64
}

// NetworkConnectPayload signals peer connection
type NetworkConnectPayload struct {
	PeerID uint32
}

// NetworkDisconnectPayload signals peer disconnection
type NetworkDisconnectPayload struct {
	PeerID uint32
}

// NetworkMessagePayload contains a typed game message from a peer
type NetworkMessagePayload struct {
	PeerID  uint32
	MsgType uint8
	Payload []byte // protowire-encoded message body
}
