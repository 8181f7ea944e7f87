package engine

import "github.com/lixenwraith/breakout/core"

// Transport carries typed messages between the authority and observers
// Implemented by network.Service; LocalTransport serves offline sessions
type Transport interface {
	// SendToAuthority delivers a request to the authority, false if unreachable
	SendToAuthority(msgType uint8, payload []byte) bool
	// BroadcastToObservers delivers a notification to every remote observer
	BroadcastToObservers(msgType uint8, payload []byte)
	// SendTo delivers a message to a single remote peer
	SendTo(peer core.PeerID, msgType uint8, payload []byte) bool
	// IsAuthority reports whether this side of the transport is the authority
	IsAuthority() bool
}

// LocalTransport is the transport of a session without remote peers
type LocalTransport struct{}

func (LocalTransport) SendToAuthority(uint8, []byte) bool { return false }
func (LocalTransport) BroadcastToObservers(uint8, []byte) {}
func (LocalTransport) SendTo(core.PeerID, uint8, []byte) bool { return false }
func (LocalTransport) IsAuthority() bool { return true }

// Effect is a fire-and-forget visual effect request
type Effect struct {
	Kind     string
	Position core.Vec2
	Color    core.RGB
	Scale    float64
}

// EffectPlayer spawns visual effects
type EffectPlayer interface {
	PlayEffect(fx Effect) error
}

// SoundPlayer plays one clip chosen from a sound category
type SoundPlayer interface {
	Play(category string, volume float64) error
}

// InputFrame is one tick of local player intent
type InputFrame struct {
	Horizontal float64 // [-1, 1]
	Launch     bool    // Edge triggered
	Quit       bool
}

// InputSource yields local input once per tick
type InputSource interface {
	Poll() InputFrame
}

// NopEffects discards effect requests
type NopEffects struct{}

func (NopEffects) PlayEffect(Effect) error { return nil }

// NopSound discards sound requests
type NopSound struct{}

func (NopSound) Play(string, float64) error { return nil }

// NopInput never produces input
type NopInput struct{}

func (NopInput) Poll() InputFrame { return InputFrame{} }
