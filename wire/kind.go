// Package wire defines the typed request and notification messages exchanged
// between the authority and observers, encoded in protobuf wire format.
package wire

import (
	"github.com/lixenwraith/breakout/core"
)

// Kind identifies a game message; values share the transport's message type byte
// Game kinds occupy 0x40-0x7F so they never collide with transport control messages
type Kind uint8

const (
	// Observer -> authority requests
	KindDestroyRequest Kind = 0x40
	KindLaunchRequest  Kind = 0x41

	// Authority -> observer notifications
	KindBlockRemoved Kind = 0x48
	KindScoreUpdate  Kind = 0x49
	KindGridSpawn    Kind = 0x4A
	KindBallState    Kind = 0x4B
	KindSessionState Kind = 0x4C
	KindWelcome      Kind = 0x4D
	KindDespawn      Kind = 0x4E

	// Either direction
	KindPaddleState Kind = 0x50
	KindCameraPush  Kind = 0x51
	KindEffect      Kind = 0x52
	KindSound       Kind = 0x53
)

const (
	KindMin Kind = 0x40
	KindMax Kind = 0x7F
)

// IsGame reports whether a transport message type carries a game message
func IsGame(msgType uint8) bool {
	return Kind(msgType) >= KindMin && Kind(msgType) <= KindMax
}

func (k Kind) String() string {
	switch k {
	case KindDestroyRequest:
		return "DestroyRequest"
	case KindLaunchRequest:
		return "LaunchRequest"
	case KindBlockRemoved:
		return "BlockRemoved"
	case KindScoreUpdate:
		return "ScoreUpdate"
	case KindGridSpawn:
		return "GridSpawn"
	case KindBallState:
		return "BallState"
	case KindSessionState:
		return "SessionState"
	case KindWelcome:
		return "Welcome"
	case KindDespawn:
		return "Despawn"
	case KindPaddleState:
		return "PaddleState"
	case KindCameraPush:
		return "CameraPush"
	case KindEffect:
		return "Effect"
	case KindSound:
		return "Sound"
	default:
		return "Unknown"
	}
}

// Message is a typed game message
type Message interface {
	Kind() Kind
	Marshal() []byte
}

// Decode parses a payload of the given kind into its message type
// Errors carry core.CodeDecode
func Decode(kind Kind, payload []byte) (Message, error) {
	var m interface {
		Message
		Unmarshal([]byte) error
	}
	switch kind {
	case KindDestroyRequest:
		m = &DestroyRequest{}
	case KindLaunchRequest:
		m = &LaunchRequest{}
	case KindBlockRemoved:
		m = &BlockRemoved{}
	case KindScoreUpdate:
		m = &ScoreUpdate{}
	case KindGridSpawn:
		m = &GridSpawn{}
	case KindBallState:
		m = &BallState{}
	case KindSessionState:
		m = &SessionState{}
	case KindWelcome:
		m = &Welcome{}
	case KindDespawn:
		m = &Despawn{}
	case KindPaddleState:
		m = &PaddleState{}
	case KindCameraPush:
		m = &CameraPush{}
	case KindEffect:
		m = &Effect{}
	case KindSound:
		m = &Sound{}
	default:
		return nil, core.Errorf(core.CodeDecode, "unknown message kind 0x%02x", uint8(kind))
	}
	if err := m.Unmarshal(payload); err != nil {
		return nil, core.Wrap(core.CodeDecode, "decode "+kind.String(), err)
	}
	return m, nil
}
