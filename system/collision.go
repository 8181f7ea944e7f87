package system

import (
	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/physics"
)

// CollisionSystem detects ball contacts and hands them to BallSystem as explicit parameters
// The authority resolves walls, paddles and blocks; observers only detect block hits to forward requests
type CollisionSystem struct {
	engine.SystemBase
	balls *BallSystem
}

func NewCollisionSystem(world *engine.World, balls *BallSystem) *CollisionSystem {
	return &CollisionSystem{
		SystemBase: engine.NewSystemBase(world),
		balls:      balls,
	}
}

func (s *CollisionSystem) Init() {}

func (s *CollisionSystem) Name() string {
	return "collision"
}

func (s *CollisionSystem) Priority() int {
	return parameter.PriorityCollision
}

func (s *CollisionSystem) Update() {
	authority := s.Resource.IsAuthority()

	for _, e := range s.World.Balls.All() {
		ball, ok := s.World.Balls.GetComponent(e)
		if !ok || !ball.Launched {
			continue
		}

		if authority {
			for _, wall := range s.World.Walls {
				if c, hit := physics.CircleRect(ball.Pos, ball.Radius, wall); hit {
					s.balls.HandleCollision(e, c)
				}
			}

			for _, pe := range s.World.Paddles.All() {
				p, ok := s.World.Paddles.GetComponent(pe)
				if !ok {
					continue
				}
				ball, _ = s.World.Balls.GetComponent(e)
				if c, hit := physics.CircleRect(ball.Pos, ball.Radius, physics.RectFromCenter(p.Position, p.Half)); hit {
					c.Other = pe
					s.balls.HandleCollision(e, c)
				}
			}
		}

		ball, _ = s.World.Balls.GetComponent(e)
		if c, hit := s.deepestBlock(ball); hit {
			s.balls.HandleCollision(e, c)
		}
	}
}

// deepestBlock returns the block contact with the largest penetration
// Blocks awaiting confirmation still reflect but are not re-requested
func (s *CollisionSystem) deepestBlock(ball component.BallComponent) (physics.Contact, bool) {
	var best physics.Contact
	found := false

	for _, be := range s.World.Blocks.All() {
		b, ok := s.World.Blocks.GetComponent(be)
		if !ok || b.State == component.BlockDestroyed {
			continue
		}
		c, hit := physics.CircleRect(ball.Pos, ball.Radius, physics.RectFromCenter(b.Position, b.Half))
		if !hit {
			continue
		}
		if !found || c.Depth > best.Depth {
			c.Other = be
			best = c
			found = true
		}
	}
	return best, found
}
