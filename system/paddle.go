package system

import (
	"math"

	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/physics"
	"github.com/lixenwraith/breakout/wire"
)

// PaddleSystem moves locally controlled paddles and mirrors remote ones
type PaddleSystem struct {
	engine.SystemBase
	speed     float64
	halfWidth float64
}

func NewPaddleSystem(world *engine.World) *PaddleSystem {
	cfg := world.Resource.Config
	return &PaddleSystem{
		SystemBase: engine.NewSystemBase(world),
		speed:      cfg.PaddleSpeed,
		halfWidth:  cfg.PaddleHalfWidth,
	}
}

func (s *PaddleSystem) Init() {}

func (s *PaddleSystem) Name() string {
	return "paddle"
}

func (s *PaddleSystem) Priority() int {
	return parameter.PriorityPaddle
}

// Update moves paddles under local control by their last input
func (s *PaddleSystem) Update() {
	dt := s.Resource.Time.DeltaSeconds()

	for _, e := range s.World.Paddles.All() {
		p, ok := s.World.Paddles.GetComponent(e)
		if !ok || !s.Resource.HasLocalControl(p.Owner) {
			continue
		}
		if p.Input == 0 {
			continue
		}
		if s.Move(e, p.Input*p.Speed*dt) {
			s.replicate(e)
		}
	}
}

// Spawn creates a paddle for owner at a spawn slot on the paddle row
func (s *PaddleSystem) Spawn(owner core.PeerID, slot int) core.Entity {
	x := s.World.Arena.Center().X
	if slot >= 0 && slot < len(parameter.PlayerSpawnX) {
		x = s.World.Arena.Min.X + (s.World.Arena.Max.X-s.World.Arena.Min.X)*parameter.PlayerSpawnX[slot]
	}

	e := s.World.CreateEntity()
	s.World.Paddles.SetComponent(e, component.PaddleComponent{
		Position: core.Vec2{X: x, Y: parameter.PaddleRowY},
		Half:     core.Vec2{X: s.halfWidth, Y: parameter.DefaultPaddleHalfHeight},
		Speed:    s.speed,
		Owner:    owner,
		Slot:     slot,
	})
	return e
}

// PaddleByOwner returns the lowest-numbered paddle owned by peer
func (s *PaddleSystem) PaddleByOwner(owner core.PeerID) (core.Entity, bool) {
	for _, e := range s.World.Paddles.All() {
		if p, ok := s.World.Paddles.GetComponent(e); ok && p.Owner == owner {
			return e, true
		}
	}
	return 0, false
}

// SetInput records horizontal input for a locally controlled owner
func (s *PaddleSystem) SetInput(owner core.PeerID, horizontal float64) {
	if !s.Resource.HasLocalControl(owner) {
		return
	}
	e, ok := s.PaddleByOwner(owner)
	if !ok {
		return
	}
	p, _ := s.World.Paddles.GetComponent(e)
	p.Input = math.Max(-1, math.Min(1, horizontal))
	s.World.Paddles.SetComponent(e, p)
}

// Move shifts a paddle along X by dx, returns true if it moved
// A wall within half-extent plus epsilon in the direction of motion blocks the move;
// otherwise the move is clamped so the paddle edge stops at the wall
func (s *PaddleSystem) Move(e core.Entity, dx float64) bool {
	p, ok := s.World.Paddles.GetComponent(e)
	if !ok || dx == 0 {
		return false
	}

	dir := core.Vec2{X: math.Copysign(1, dx)}
	probe := p.Half.X + parameter.PaddleProbeEpsilon
	if idx, _ := physics.Raycast(p.Position, dir, probe, s.World.Walls); idx >= 0 {
		return false
	}

	if idx, dist := physics.Raycast(p.Position, dir, math.Abs(dx)+p.Half.X, s.World.Walls); idx >= 0 {
		allowed := math.Max(0, dist-p.Half.X)
		dx = math.Copysign(math.Min(math.Abs(dx), allowed), dx)
	}
	if dx == 0 {
		return false
	}

	p.Position.X += dx
	s.World.Paddles.SetComponent(e, p)
	return true
}

// Bind attaches every paddle to its nearest ball
// Balls are scanned in ascending entity order and the first strictly closer ball wins ties
func (s *PaddleSystem) Bind() error {
	if s.World.Balls.CountEntities() == 0 {
		err := core.Errorf(core.CodeMissingReference, "no balls to bind %d paddles", s.World.Paddles.CountEntities())
		s.Resource.Logger.Error("paddle bind failed", "error", err)
		return err
	}
	for _, e := range s.World.Paddles.All() {
		if err := s.BindPaddle(e); err != nil {
			return err
		}
	}
	return nil
}

// BindPaddle attaches one paddle to its nearest ball
func (s *PaddleSystem) BindPaddle(e core.Entity) error {
	p, ok := s.World.Paddles.GetComponent(e)
	if !ok {
		return core.Errorf(core.CodeMissingReference, "paddle %d", e)
	}

	var nearest core.Entity
	best := math.Inf(1)
	for _, b := range s.World.Balls.All() {
		ball, ok := s.World.Balls.GetComponent(b)
		if !ok {
			continue
		}
		if d := ball.Pos.DistSq(p.Position); d < best {
			best = d
			nearest = b
		}
	}
	if nearest == 0 {
		err := core.Errorf(core.CodeMissingReference, "no ball for paddle %d", e)
		s.Resource.Logger.Error("paddle bind failed", "error", err)
		return err
	}

	p.Ball = nearest
	s.World.Paddles.SetComponent(e, p)

	ball, _ := s.World.Balls.GetComponent(nearest)
	ball.Paddle = e
	s.World.Balls.SetComponent(nearest, ball)
	return nil
}

// ApplyState takes a replicated paddle state
// The authority accepts states only from the owner and relays them
// Observers spawn unknown paddles and skip echoes of their own
func (s *PaddleSystem) ApplyState(peer core.PeerID, m *wire.PaddleState) {
	if s.Resource.IsAuthority() {
		if m.Owner != peer {
			s.Resource.Logger.Warn("paddle state from non-owner", "peer", peer, "owner", m.Owner)
			return
		}
		e, ok := s.PaddleByOwner(m.Owner)
		if !ok {
			s.Resource.Logger.Debug("paddle state for unknown owner", "owner", m.Owner)
			return
		}
		s.place(e, m)
		s.Resource.Broadcast(s.stateMessage(e))
		return
	}

	e, ok := s.PaddleByOwner(m.Owner)
	if !ok {
		e = s.Spawn(m.Owner, m.Slot)
	} else if s.Resource.HasLocalControl(m.Owner) {
		return
	}
	s.place(e, m)
}

// BroadcastStates replicates every paddle to observers
func (s *PaddleSystem) BroadcastStates() {
	for _, e := range s.World.Paddles.All() {
		s.Resource.Broadcast(s.stateMessage(e))
	}
}

// SendStates replicates every paddle to one peer
func (s *PaddleSystem) SendStates(peer core.PeerID) {
	for _, e := range s.World.Paddles.All() {
		s.Resource.SendTo(peer, s.stateMessage(e))
	}
}

// place sets a replicated position, clamped inside the arena
func (s *PaddleSystem) place(e core.Entity, m *wire.PaddleState) {
	p, ok := s.World.Paddles.GetComponent(e)
	if !ok {
		return
	}
	minX := s.World.Arena.Min.X + p.Half.X
	maxX := s.World.Arena.Max.X - p.Half.X
	p.Position.X = math.Max(minX, math.Min(maxX, m.Position.X))
	p.Input = m.Input
	s.World.Paddles.SetComponent(e, p)
}

func (s *PaddleSystem) replicate(e core.Entity) {
	m := s.stateMessage(e)
	if s.Resource.IsAuthority() {
		s.Resource.Broadcast(m)
		return
	}
	s.Resource.SendToAuthority(m)
}

func (s *PaddleSystem) stateMessage(e core.Entity) *wire.PaddleState {
	p, _ := s.World.Paddles.GetComponent(e)
	return &wire.PaddleState{
		Owner:    p.Owner,
		Slot:     p.Slot,
		Position: p.Position,
		Input:    p.Input,
	}
}
