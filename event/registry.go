package event

import (
	"fmt"
	"reflect"
)

type typeInfo struct {
	name    string
	payload reflect.Type // Pointer type carried in GameEvent.Payload
}

func payloadOf[T any]() reflect.Type {
	return reflect.TypeFor[*T]()
}

var types = [...]typeInfo{
	EventSessionStart: {"EventSessionStart", payloadOf[SessionPayload]()},
	EventSessionStop:  {"EventSessionStop", payloadOf[SessionPayload]()},
	EventPlayerJoined: {"EventPlayerJoined", payloadOf[PlayerPayload]()},
	EventPlayerLeft:   {"EventPlayerLeft", payloadOf[PlayerPayload]()},

	EventGridSpawned:    {"EventGridSpawned", payloadOf[GridSpawnedPayload]()},
	EventBlockDestroyed: {"EventBlockDestroyed", payloadOf[BlockDestroyedPayload]()},
	EventBlockRemoved:   {"EventBlockRemoved", payloadOf[BlockRemovedPayload]()},
	EventBlockRestored:  {"EventBlockRestored", payloadOf[BlockRemovedPayload]()},

	EventScoreChanged: {"EventScoreChanged", payloadOf[ScoreChangedPayload]()},

	EventBallLaunched: {"EventBallLaunched", payloadOf[BallPayload]()},
	EventBallReset:    {"EventBallReset", payloadOf[BallPayload]()},
	EventBallBounce:   {"EventBallBounce", payloadOf[BallBouncePayload]()},

	EventCameraPush:    {"EventCameraPush", payloadOf[CameraPushPayload]()},
	EventEffectRequest: {"EventEffectRequest", payloadOf[EffectRequestPayload]()},
	EventSoundRequest:  {"EventSoundRequest", payloadOf[SoundRequestPayload]()},

	EventNetworkConnect:    {"EventNetworkConnect", payloadOf[NetworkConnectPayload]()},
	EventNetworkDisconnect: {"EventNetworkDisconnect", payloadOf[NetworkDisconnectPayload]()},
	EventNetworkMessage:    {"EventNetworkMessage", payloadOf[NetworkMessagePayload]()},
}

var byName = func() map[string]EventType {
	m := make(map[string]EventType, len(types))
	for i, info := range types {
		if info.name != "" {
			m[info.name] = EventType(i)
		}
	}
	return m
}()

func lookup(t EventType) (typeInfo, bool) {
	if t < 0 || int(t) >= len(types) || types[t].name == "" {
		return typeInfo{}, false
	}
	return types[t], true
}

// String returns the event name, or EventUnknown for unregistered values
func (t EventType) String() string {
	if info, ok := lookup(t); ok {
		return info.name
	}
	return "EventUnknown"
}

// ParseEventType resolves a name such as "EventBallBounce"
func ParseEventType(name string) (EventType, bool) {
	t, ok := byName[name]
	return t, ok
}

// CheckPayload rejects unknown event types and payloads of the wrong type
// A nil payload is always accepted
func CheckPayload(ev GameEvent) error {
	info, ok := lookup(ev.Type)
	if !ok {
		return fmt.Errorf("unregistered event type %d", int(ev.Type))
	}
	if ev.Payload == nil {
		return nil
	}
	if got := reflect.TypeOf(ev.Payload); got != info.payload {
		return fmt.Errorf("%s carries %v, want %v", info.name, got, info.payload)
	}
	return nil
}
