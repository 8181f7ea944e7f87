package session

import (
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/wire"
)

// AddPlayer joins a peer on the authority
// The first free spawn slot gets a paddle and ball; peers beyond the slots spectate
// Remote peers receive their welcome followed by the full world state
func (s *Session) AddPlayer(peer core.PeerID) {
	if !s.res.IsAuthority() {
		return
	}
	if _, ok := s.players[peer]; ok {
		return
	}

	slot := -1
	for i, taken := range s.slots {
		if !taken {
			slot = i
			break
		}
	}
	s.players[peer] = slot

	var paddle, ball core.Entity
	if slot >= 0 {
		s.slots[slot] = true
		paddle = s.systems.Paddle.Spawn(peer, slot)
		ball = s.systems.Ball.Spawn(peer, paddle)
		if err := s.systems.Paddle.BindPaddle(paddle); err != nil {
			s.res.Logger.Warn("player bind failed", "peer", peer, "error", err)
		}
	}

	s.res.Logger.Info("player joined", "peer", peer, "slot", slot)
	s.res.Publish(event.EventPlayerJoined, &event.PlayerPayload{
		Peer:   peer,
		Slot:   slot,
		Paddle: paddle,
		Ball:   ball,
	})

	if peer != core.AuthorityPeer {
		s.res.SendTo(peer, &wire.Welcome{Peer: peer, SessionID: s.id, Slot: slot})
		s.res.SendTo(peer, &wire.SessionState{SessionID: s.id, Active: s.running, Score: s.systems.Score.Total()})
		s.systems.Spawn.SendGrid(peer)
		s.res.SendTo(peer, &wire.ScoreUpdate{Total: s.systems.Score.Total()})
		s.systems.Paddle.SendStates(peer)
		s.systems.Ball.SendStates(peer)
	}
	if slot >= 0 {
		s.systems.Paddle.BroadcastStates()
		s.systems.Ball.BroadcastStates()
	}
}

// RemovePlayer despawns a departed peer's paddle and ball on the authority
func (s *Session) RemovePlayer(peer core.PeerID) {
	if !s.res.IsAuthority() {
		return
	}
	slot, ok := s.players[peer]
	if !ok {
		return
	}
	delete(s.players, peer)
	if slot >= 0 {
		s.slots[slot] = false
	}

	paddle, ball := s.despawn(peer)
	s.res.Broadcast(&wire.Despawn{Owner: peer})

	s.res.Logger.Info("player left", "peer", peer, "slot", slot)
	s.res.Publish(event.EventPlayerLeft, &event.PlayerPayload{
		Peer:   peer,
		Slot:   slot,
		Paddle: paddle,
		Ball:   ball,
	})
}

// Players returns the number of joined peers including spectators
func (s *Session) Players() int {
	return len(s.players)
}

func (s *Session) despawn(owner core.PeerID) (paddle, ball core.Entity) {
	if e, ok := s.systems.Paddle.PaddleByOwner(owner); ok {
		s.world.DestroyEntity(e)
		paddle = e
	}
	if e, ok := s.systems.Ball.BallByOwner(owner); ok {
		s.world.DestroyEntity(e)
		ball = e
	}
	return paddle, ball
}
