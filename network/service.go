package network

import (
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/service"
	"github.com/lixenwraith/breakout/status"
)

// Service wraps Transport as a hub-managed service and implements the session transport
// Callbacks run on I/O goroutines and only push into the event queue
type Service struct {
	config    *Config
	transport *Transport
	logger    *slog.Logger

	// Event queue for handing network events to the tick goroutine
	eventQueue *event.EventQueue
	status     *status.Registry

	// Observer side: the connection to the authority, 0 when not connected
	authorityPeer atomic.Uint32

	disabled atomic.Bool
}

// NewService creates a network service (disabled by default)
func NewService() *Service {
	return &Service{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "network"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: *Config (optional, overrides default)
// args[1]: *slog.Logger (optional)
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			s.config = cfg
		}
	}
	if len(args) > 1 {
		if l, ok := args[1].(*slog.Logger); ok && l != nil {
			s.logger = l
		}
	}

	s.transport = NewTransport(s.config, s.logger)
	s.transport.SetHandlers(s.onConnect, s.onDisconnect, s.onMessage)

	if s.config.Role == RoleNone {
		s.disabled.Store(true)
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.disabled.Load() || s.transport == nil {
		return nil
	}
	if err := s.transport.Start(); err != nil {
		return err
	}
	s.logger.Info("network started", "role", s.config.Role.String(), "addr", s.config.Address)
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.transport != nil {
		return s.transport.Stop()
	}
	return nil
}

// Contribute implements service.ResourceContributor
// Publishes the service as the session transport when networking is enabled
func (s *Service) Contribute(publish service.ResourcePublisher) {
	if s.disabled.Load() {
		return
	}
	publish(s)
}

// SetEventQueue wires the service to the session event queue
// Must be called before Start
func (s *Service) SetEventQueue(eq *event.EventQueue) {
	s.eventQueue = eq
}

// SetStatus wires network counters into a metrics registry
func (s *Service) SetStatus(r *status.Registry) {
	s.status = r
}

// AttachConn adds an established connection, e.g. one side of net.Pipe
// Enables the service regardless of the configured role
func (s *Service) AttachConn(conn net.Conn) (PeerID, error) {
	if s.transport == nil {
		if err := s.Init(); err != nil {
			return 0, err
		}
	}
	s.disabled.Store(false)
	return s.transport.AttachConn(conn)
}

// Addr returns the listening address on accepting roles
func (s *Service) Addr() net.Addr {
	if s.transport == nil {
		return nil
	}
	return s.transport.Addr()
}

// Role returns the configured network role
func (s *Service) Role() Role {
	return s.config.Role
}

// onConnect handles new peer connections
func (s *Service) onConnect(id PeerID) {
	if !s.IsAuthority() {
		s.authorityPeer.CompareAndSwap(0, uint32(id))
	}
	s.status.Count(status.KeyPeers, 1)
	s.logger.Info("peer connected", "peer", id)

	s.push(event.GameEvent{
		Type:    event.EventNetworkConnect,
		Payload: &event.NetworkConnectPayload{PeerID: uint32(id)},
	})
}

// onDisconnect handles peer disconnections
func (s *Service) onDisconnect(id PeerID) {
	s.authorityPeer.CompareAndSwap(uint32(id), 0)
	s.status.Count(status.KeyPeers, -1)
	s.logger.Info("peer disconnected", "peer", id)

	s.push(event.GameEvent{
		Type:    event.EventNetworkDisconnect,
		Payload: &event.NetworkDisconnectPayload{PeerID: uint32(id)},
	})
}

// onMessage forwards game messages to the tick goroutine; decoding happens there
func (s *Service) onMessage(id PeerID, msg *Message) {
	if !msg.Type.IsGame() {
		s.logger.Debug("ignoring control message", "peer", id, "type", msg.Type)
		return
	}
	s.status.Count(status.KeyNetReceived, 1)

	s.push(event.GameEvent{
		Type: event.EventNetworkMessage,
		Payload: &event.NetworkMessagePayload{
			PeerID:  uint32(id),
			MsgType: uint8(msg.Type),
			Payload: msg.Payload,
		},
	})
}

// push hands an event to the tick goroutine; a full queue drops it
func (s *Service) push(ev event.GameEvent) {
	if s.eventQueue == nil {
		return
	}
	if !s.eventQueue.Push(ev) {
		s.status.Count(status.KeyQueueDropped, 1)
		s.logger.Warn("event queue full, dropping", "type", ev.Type)
	}
}

// --- engine.Transport ---

// SendToAuthority transmits a request to the authority connection
func (s *Service) SendToAuthority(msgType uint8, payload []byte) bool {
	if s.transport == nil || s.IsAuthority() {
		return false
	}
	id := PeerID(s.authorityPeer.Load())
	if id == 0 {
		return false
	}
	return s.transport.Send(id, NewMessage(MessageType(msgType), payload))
}

// BroadcastToObservers sends a notification to every connected peer
// Observers never broadcast
func (s *Service) BroadcastToObservers(msgType uint8, payload []byte) {
	if s.transport == nil || !s.IsAuthority() {
		return
	}
	s.transport.Broadcast(NewMessage(MessageType(msgType), payload))
}

// SendTo transmits a message to a specific peer
func (s *Service) SendTo(peer core.PeerID, msgType uint8, payload []byte) bool {
	if s.transport == nil {
		return false
	}
	return s.transport.Send(peer, NewMessage(MessageType(msgType), payload))
}

// IsAuthority reports whether this side accepts connections and owns simulation truth
func (s *Service) IsAuthority() bool {
	return s.config.Role.SessionRole().IsAuthority()
}

// PeerCount returns connected peer count
func (s *Service) PeerCount() int {
	if s.transport == nil {
		return 0
	}
	return s.transport.PeerCount()
}

// IsRunning returns true if network is active
func (s *Service) IsRunning() bool {
	return s.transport != nil && s.transport.IsRunning()
}
