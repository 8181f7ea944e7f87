package system

import (
	"math"

	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/physics"
	"github.com/lixenwraith/breakout/wire"
)

// BallSystem drives ball physics on the authority and mirrors replicated state on observers
type BallSystem struct {
	engine.SystemBase
	blocks *BlockSystem

	speed    float64
	radius   float64
	maxAngle float64
	strict   bool
}

func NewBallSystem(world *engine.World, blocks *BlockSystem) *BallSystem {
	cfg := world.Resource.Config
	return &BallSystem{
		SystemBase: engine.NewSystemBase(world),
		blocks:     blocks,
		speed:      cfg.BallSpeed,
		radius:     cfg.BallRadius,
		maxAngle:   cfg.MaxShootAngle,
		strict:     cfg.StrictLaunchAngle,
	}
}

func (s *BallSystem) Init() {}

func (s *BallSystem) Name() string {
	return "ball"
}

func (s *BallSystem) Priority() int {
	return parameter.PriorityBall
}

// Speed returns the configured launch speed
func (s *BallSystem) Speed() float64 {
	return s.speed
}

// Update holds resting balls on their anchor and integrates launched balls on the authority
func (s *BallSystem) Update() {
	dt := s.Resource.Time.DeltaSeconds()
	authority := s.Resource.IsAuthority()

	for _, e := range s.World.Balls.All() {
		ball, ok := s.World.Balls.GetComponent(e)
		if !ok {
			continue
		}

		if !ball.Launched {
			physics.Stop(&ball.Kinetic, s.anchor(ball))
			s.World.Balls.SetComponent(e, ball)
			continue
		}
		if !authority {
			continue
		}

		physics.Integrate(&ball.Kinetic, dt)
		physics.ClampSpeed(&ball.Kinetic, s.speed)
		s.World.Balls.SetComponent(e, ball)

		if s.World.OutOfBounds(ball.Pos, ball.Radius) {
			s.Resource.Logger.Debug("ball out of bounds", "owner", ball.Owner)
			s.reset(e)
		}
	}

	if authority && s.Resource.Time.Frame%parameter.ReplicateEveryTicks == 0 {
		s.BroadcastStates()
	}
}

// Spawn creates a resting ball for owner anchored to paddle
func (s *BallSystem) Spawn(owner core.PeerID, paddle core.Entity) core.Entity {
	e := s.World.CreateEntity()
	ball := component.BallComponent{
		Radius: s.radius,
		Owner:  owner,
		Paddle: paddle,
	}
	ball.Pos = s.anchor(ball)
	s.World.Balls.SetComponent(e, ball)
	return e
}

// BallByOwner returns the lowest-numbered ball owned by peer
func (s *BallSystem) BallByOwner(owner core.PeerID) (core.Entity, bool) {
	for _, e := range s.World.Balls.All() {
		if b, ok := s.World.Balls.GetComponent(e); ok && b.Owner == owner {
			return e, true
		}
	}
	return 0, false
}

// Launch toggles a ball: a resting ball is fired, a launched ball returns to rest
func (s *BallSystem) Launch(e core.Entity) error {
	if !s.Resource.IsAuthority() {
		return core.Errorf(core.CodeNotAuthority, "launch ball %d", e)
	}
	ball, ok := s.World.Balls.GetComponent(e)
	if !ok {
		return core.Errorf(core.CodeUnknownEntity, "ball %d", e)
	}

	if ball.Launched {
		s.reset(e)
		return nil
	}

	dir := physics.LaunchDirection(s.Resource.Rand, s.maxAngle, s.strict, parameter.LaunchMaxRetries)
	ball.Launched = true
	physics.SetImpulse(&ball.Kinetic, dir.Scale(s.speed))
	s.World.Balls.SetComponent(e, ball)

	s.Resource.Publish(event.EventBallLaunched, ballPayload(e, ball))
	s.Resource.Broadcast(stateMessage(ball))
	return nil
}

// RequestLaunch launches the ball of a locally controlled owner
func (s *BallSystem) RequestLaunch(owner core.PeerID) bool {
	if !s.Resource.HasLocalControl(owner) {
		return false
	}
	if s.Resource.IsAuthority() {
		e, ok := s.BallByOwner(owner)
		if !ok {
			return false
		}
		if err := s.Launch(e); err != nil {
			s.Resource.Logger.Warn("launch failed", "error", err)
			return false
		}
		return true
	}
	return s.Resource.SendToAuthority(&wire.LaunchRequest{Owner: owner})
}

// HandleLaunchRequest launches a remote peer's ball after an ownership check
func (s *BallSystem) HandleLaunchRequest(peer core.PeerID, m *wire.LaunchRequest) {
	if m.Owner != peer {
		s.Resource.Logger.Warn("launch request for foreign ball", "peer", peer, "owner", m.Owner)
		return
	}
	e, ok := s.BallByOwner(peer)
	if !ok {
		s.Resource.Logger.Warn("launch request without ball", "peer", peer)
		return
	}
	if err := s.Launch(e); err != nil {
		s.Resource.Logger.Warn("launch failed", "peer", peer, "error", err)
	}
}

// HandleCollision resolves a ball contact
// The authority reflects and steers; every peer forwards block hits to the destruction protocol
func (s *BallSystem) HandleCollision(e core.Entity, contact physics.Contact) {
	ball, ok := s.World.Balls.GetComponent(e)
	if !ok || !ball.Launched {
		return
	}

	isBlock := contact.Other != 0 && s.World.Blocks.HasEntity(contact.Other)
	if isBlock && s.blocks != nil {
		if b, ok := s.World.Blocks.GetComponent(contact.Other); ok {
			s.blocks.RequestDestroy(b.Grid, ball.Vel.Normalize())
		}
	}

	if !s.Resource.IsAuthority() {
		return
	}

	ball.Pos = ball.Pos.Add(contact.Normal.Scale(contact.Depth))
	ball.Vel = physics.Reflect(ball.Vel, contact.Normal)

	if paddle, ok := s.World.Paddles.GetComponent(contact.Other); ok && contact.Normal.Y > 0 {
		ball.Vel = s.steer(paddle, contact.Point)
	}
	physics.ClampSpeed(&ball.Kinetic, s.speed)
	s.World.Balls.SetComponent(e, ball)

	s.Resource.Publish(event.EventBallBounce, &event.BallBouncePayload{
		Entity:   e,
		Position: contact.Point,
		Normal:   contact.Normal,
	})
}

// steer aims the rebound by where the ball hit the paddle top, edges deflect up to the launch cone
func (s *BallSystem) steer(paddle component.PaddleComponent, hit core.Vec2) core.Vec2 {
	offset := 0.0
	if paddle.Half.X > 0 {
		offset = (hit.X - paddle.Position.X) / paddle.Half.X
	}
	offset = math.Max(-1, math.Min(1, offset))
	angle := -offset * s.maxAngle * math.Pi / 180
	return core.Up.Rotate(angle).Scale(s.speed)
}

// ApplyState mirrors an authoritative ball state, spawning the ball on first sight
func (s *BallSystem) ApplyState(m *wire.BallState) {
	if s.Resource.IsAuthority() {
		return
	}
	e, ok := s.BallByOwner(m.Owner)
	if !ok {
		e = s.Spawn(m.Owner, 0)
	}
	ball, _ := s.World.Balls.GetComponent(e)
	if ball.Paddle == 0 {
		ball.Paddle = s.paddleOf(m.Owner)
	}

	ball.Launched = m.Launched
	if m.Launched {
		ball.Pos = m.Position
		ball.Vel = m.Velocity
	} else {
		physics.Stop(&ball.Kinetic, s.anchor(ball))
	}
	s.World.Balls.SetComponent(e, ball)
}

// BroadcastStates replicates every ball to observers
func (s *BallSystem) BroadcastStates() {
	for _, e := range s.World.Balls.All() {
		if ball, ok := s.World.Balls.GetComponent(e); ok {
			s.Resource.Broadcast(stateMessage(ball))
		}
	}
}

// SendStates replicates every ball to one peer
func (s *BallSystem) SendStates(peer core.PeerID) {
	for _, e := range s.World.Balls.All() {
		if ball, ok := s.World.Balls.GetComponent(e); ok {
			s.Resource.SendTo(peer, stateMessage(ball))
		}
	}
}

// RestAll returns every launched ball to rest above its paddle
func (s *BallSystem) RestAll() int {
	n := 0
	for _, e := range s.World.Balls.All() {
		if ball, ok := s.World.Balls.GetComponent(e); ok && ball.Launched {
			s.reset(e)
			n++
		}
	}
	return n
}

func (s *BallSystem) reset(e core.Entity) {
	ball, ok := s.World.Balls.GetComponent(e)
	if !ok {
		return
	}
	ball.Launched = false
	physics.Stop(&ball.Kinetic, s.anchor(ball))
	s.World.Balls.SetComponent(e, ball)

	s.Resource.Publish(event.EventBallReset, ballPayload(e, ball))
	if s.Resource.IsAuthority() {
		s.Resource.Broadcast(stateMessage(ball))
	}
}

// anchor is the resting position above the bound paddle, or the current position when unbound
func (s *BallSystem) anchor(ball component.BallComponent) core.Vec2 {
	if ball.Paddle == 0 {
		return ball.Pos
	}
	paddle, ok := s.World.Paddles.GetComponent(ball.Paddle)
	if !ok {
		return ball.Pos
	}
	return paddle.Anchor(parameter.BallSpawnOffset)
}

func (s *BallSystem) paddleOf(owner core.PeerID) core.Entity {
	for _, e := range s.World.Paddles.All() {
		if p, ok := s.World.Paddles.GetComponent(e); ok && p.Owner == owner {
			return e
		}
	}
	return 0
}

func stateMessage(ball component.BallComponent) *wire.BallState {
	return &wire.BallState{
		Owner:    ball.Owner,
		Position: ball.Pos,
		Velocity: ball.Vel,
		Launched: ball.Launched,
	}
}

func ballPayload(e core.Entity, ball component.BallComponent) *event.BallPayload {
	return &event.BallPayload{
		Entity:   e,
		Owner:    ball.Owner,
		Position: ball.Pos,
		Velocity: ball.Vel,
	}
}
