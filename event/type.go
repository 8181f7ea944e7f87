package event

// EventType represents the type of game event
type EventType int

const (
	// EventNone is the zero value and never published
	EventNone EventType = iota

	// === Session Event ===

	// EventSessionStart signals the session entered active play
	// Trigger: Session.Start, SessionState{Active} replication
	// Consumer: ScoreSystem, renderers | Payload: *SessionPayload
	EventSessionStart

	// EventSessionStop signals the session ended
	// Trigger: Session.Stop, SessionState{Stopped} replication
	// Consumer: ScoreSystem, store | Payload: *SessionPayload
	EventSessionStop

	// EventPlayerJoined signals a paddle and ball were spawned for a peer
	// Trigger: Session on peer connect (authority), Welcome (observer)
	// Consumer: PaddleSystem | Payload: *PlayerPayload
	EventPlayerJoined

	// EventPlayerLeft signals a peer's paddle and ball were despawned
	// Trigger: Session on peer disconnect, Despawn replication
	// Consumer: PaddleSystem | Payload: *PlayerPayload
	EventPlayerLeft

	// === Grid Event ===

	// EventGridSpawned signals the block grid was replaced atomically
	// Trigger: SpawnSystem.Spawn, GridSpawn replication
	// Consumer: renderers | Payload: *GridSpawnedPayload
	EventGridSpawned

	// EventBlockDestroyed carries points for an authoritatively destroyed block
	// Fires exactly once per block
	// Trigger: BlockSystem.ConfirmDestroy (authority only)
	// Consumer: ScoreSystem | Payload: *BlockDestroyedPayload
	EventBlockDestroyed

	// EventBlockRemoved signals the Destroyed transition for cosmetic playback
	// Trigger: BlockSystem.ConfirmDestroy (authority observer), BlockRemoved replication
	// Consumer: EffectSystem, CameraSystem | Payload: *BlockRemovedPayload
	EventBlockRemoved

	// EventBlockRestored signals a pending block reverted to active after timeout
	// Trigger: BlockSystem pending expiry
	// Consumer: renderers | Payload: *BlockRemovedPayload
	EventBlockRestored

	// === Score Event ===

	// EventScoreChanged signals the score total changed
	// Trigger: ScoreSystem.AddPoints, ScoreUpdate replication, Reset
	// Consumer: renderers | Payload: *ScoreChangedPayload
	EventScoreChanged

	// === Ball Event ===

	// EventBallLaunched signals a ball left the paddle
	// Trigger: BallSystem.Launch
	// Consumer: EffectSystem | Payload: *BallPayload
	EventBallLaunched

	// EventBallReset signals a ball returned to rest on its paddle
	// Trigger: BallSystem.Launch toggle, out of bounds
	// Consumer: renderers | Payload: *BallPayload
	EventBallReset

	// EventBallBounce signals a reflected collision
	// Trigger: BallSystem.HandleCollision
	// Consumer: EffectSystem | Payload: *BallBouncePayload
	EventBallBounce

	// === Cosmetic Event ===

	// EventCameraPush requests camera shake playback
	// Trigger: CameraSystem on push command
	// Consumer: renderers | Payload: *CameraPushPayload
	EventCameraPush

	// EventEffectRequest requests a visual effect
	// Trigger: EffectSystem, Effect replication
	// Consumer: effect provider | Payload: *EffectRequestPayload
	EventEffectRequest

	// EventSoundRequest requests audio playback
	// Trigger: Systems requiring audio feedback
	// Consumer: sound provider | Payload: *SoundRequestPayload
	EventSoundRequest

	// === Network Event ===

	// EventNetworkConnect signals a new peer connection
	// Trigger: NetworkService on accepted/established connection
	// Consumer: Session | Payload: *NetworkConnectPayload
	EventNetworkConnect

	// EventNetworkDisconnect signals peer disconnection
	// Trigger: NetworkService on connection close
	// Consumer: Session | Payload: *NetworkDisconnectPayload
	EventNetworkDisconnect

	// EventNetworkMessage carries a typed game message from a peer
	// Trigger: NetworkService on any game message
	// Consumer: Session inbound routing | Payload: *NetworkMessagePayload
	EventNetworkMessage
)

// GameEvent represents a single game event with metadata
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}

