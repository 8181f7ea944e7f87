package session

import (
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/wire"
)

// handleQueued processes one network event on the tick goroutine
func (s *Session) handleQueued(ev event.GameEvent) {
	switch ev.Type {
	case event.EventNetworkConnect:
		p, ok := ev.Payload.(*event.NetworkConnectPayload)
		if !ok {
			return
		}
		if s.res.IsAuthority() {
			s.AddPlayer(core.PeerID(p.PeerID))
		}
		s.res.Publish(ev.Type, p)

	case event.EventNetworkDisconnect:
		p, ok := ev.Payload.(*event.NetworkDisconnectPayload)
		if !ok {
			return
		}
		if s.res.IsAuthority() {
			s.RemovePlayer(core.PeerID(p.PeerID))
		} else {
			s.res.Logger.Warn("authority connection lost", "peer", p.PeerID)
		}
		s.res.Publish(ev.Type, p)

	case event.EventNetworkMessage:
		p, ok := ev.Payload.(*event.NetworkMessagePayload)
		if !ok {
			return
		}
		m, err := wire.Decode(wire.Kind(p.MsgType), p.Payload)
		if err != nil {
			s.res.Status.Count(status.KeyDecodeErrors, 1)
			s.res.Logger.Warn("dropping message", "peer", p.PeerID, "error", err)
			return
		}
		s.Route(core.PeerID(p.PeerID), m)
	}
}

// Route applies one decoded message from peer
// Requests are validated by the authority; notifications refresh observer projections
func (s *Session) Route(peer core.PeerID, m wire.Message) {
	sys := s.systems

	switch msg := m.(type) {
	// Requests
	case *wire.DestroyRequest:
		if s.requireAuthority(peer, m) {
			sys.Block.HandleDestroyRequest(peer, msg)
		}
	case *wire.LaunchRequest:
		if s.requireAuthority(peer, m) {
			sys.Ball.HandleLaunchRequest(peer, msg)
		}
	case *wire.PaddleState:
		sys.Paddle.ApplyState(peer, msg)
	case *wire.CameraPush:
		if s.res.IsAuthority() {
			sys.Camera.HandlePushRequest(peer, msg)
		} else {
			sys.Camera.ApplyPush(msg)
		}

	// Notifications
	case *wire.Welcome:
		if s.requireObserver(peer, m) {
			s.applyWelcome(msg)
		}
	case *wire.SessionState:
		if s.requireObserver(peer, m) {
			s.applySession(msg)
		}
	case *wire.GridSpawn:
		if s.requireObserver(peer, m) {
			if err := sys.Spawn.ApplyGridSpawn(msg); err != nil {
				s.res.Logger.Error("grid replication failed", "error", err)
			}
		}
	case *wire.BlockRemoved:
		if s.requireObserver(peer, m) {
			sys.Block.ApplyRemoved(msg)
		}
	case *wire.ScoreUpdate:
		if s.requireObserver(peer, m) {
			sys.Score.ApplyUpdate(msg)
		}
	case *wire.BallState:
		if s.requireObserver(peer, m) {
			sys.Ball.ApplyState(msg)
		}
	case *wire.Despawn:
		if s.requireObserver(peer, m) {
			s.despawn(msg.Owner)
		}
	case *wire.Effect:
		if s.requireObserver(peer, m) {
			sys.Effect.ApplyEffect(msg)
		}
	case *wire.Sound:
		if s.requireObserver(peer, m) {
			sys.Effect.ApplySound(msg)
		}

	default:
		s.res.Logger.Warn("unhandled message", "peer", peer, "kind", m.Kind())
	}
}

func (s *Session) requireAuthority(peer core.PeerID, m wire.Message) bool {
	if s.res.IsAuthority() {
		return true
	}
	s.res.Logger.Warn("request received by observer", "peer", peer, "kind", m.Kind())
	return false
}

func (s *Session) requireObserver(peer core.PeerID, m wire.Message) bool {
	if !s.res.IsAuthority() {
		return true
	}
	s.res.Logger.Warn("notification received by authority", "peer", peer, "kind", m.Kind())
	return false
}

func (s *Session) applyWelcome(m *wire.Welcome) {
	s.res.Local = m.Peer
	s.id = m.SessionID
	s.res.Logger.Info("welcomed", "peer", m.Peer, "session", m.SessionID, "slot", m.Slot)
}

func (s *Session) applySession(m *wire.SessionState) {
	if m.SessionID != "" {
		s.id = m.SessionID
	}
	if m.Active == s.running {
		return
	}

	s.running = m.Active
	s.systems.Score.SetActive(m.Active)
	if m.Active {
		s.started = s.res.Time.Now
		s.res.Publish(event.EventSessionStart, &event.SessionPayload{SessionID: s.id})
		return
	}

	total := s.systems.Score.Total()
	s.systems.Score.Reset()
	s.res.Publish(event.EventSessionStop, &event.SessionPayload{SessionID: s.id, Score: total})
}
