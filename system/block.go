package system

import (
	"errors"
	"time"

	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/wire"
)

// BlockSystem runs the block destruction protocol
// Active -> PendingDestruction on any peer, PendingDestruction -> Destroyed on the authority only
type BlockSystem struct {
	engine.SystemBase
	camera *CameraSystem
}

func NewBlockSystem(world *engine.World, camera *CameraSystem) *BlockSystem {
	return &BlockSystem{
		SystemBase: engine.NewSystemBase(world),
		camera:     camera,
	}
}

func (s *BlockSystem) Init() {}

func (s *BlockSystem) Name() string {
	return "block"
}

func (s *BlockSystem) Priority() int {
	return parameter.PriorityBlock
}

// Update expires pending requests the authority never confirmed
func (s *BlockSystem) Update() {
	if s.Resource.IsAuthority() {
		return
	}

	now := s.Resource.Time.Now
	timeout := s.Resource.Config.DestroyTimeout

	for _, e := range s.World.Blocks.All() {
		b, ok := s.World.Blocks.GetComponent(e)
		if !ok || b.State != component.BlockPendingDestruction {
			continue
		}
		if now.Sub(b.PendingSince) < timeout {
			continue
		}

		b.State = component.BlockActive
		b.PendingSince = time.Time{}
		s.World.Blocks.SetComponent(e, b)

		s.Resource.Logger.Warn("destroy request timed out", "grid_x", b.Grid.X, "grid_y", b.Grid.Y, "timeout", timeout)
		if s.Resource.Status != nil {
			s.Resource.Status.Count(status.KeyDestroyTimeouts, 1)
		}
		s.Resource.Publish(event.EventBlockRestored, &event.BlockRemovedPayload{
			Grid:     b.Grid,
			Position: b.Position,
			Color:    b.Color,
		})
	}
}

// RequestDestroy reports a qualifying collision against the block at grid
// dir is the ball travel direction, used for camera feedback
func (s *BlockSystem) RequestDestroy(grid core.Point, dir core.Vec2) {
	e, ok := s.World.BlockAt(grid)
	if !ok {
		return
	}
	b, ok := s.World.Blocks.GetComponent(e)
	if !ok || b.State != component.BlockActive {
		return
	}

	b.State = component.BlockPendingDestruction
	b.PendingSince = s.Resource.Time.Now
	s.World.Blocks.SetComponent(e, b)

	if s.Resource.IsAuthority() {
		if err := s.ConfirmDestroy(grid, dir); err != nil {
			s.Resource.Logger.Debug("destroy not confirmed", "error", err)
		}
		return
	}

	if !s.Resource.SendToAuthority(&wire.DestroyRequest{Grid: grid, Direction: dir}) {
		s.Resource.Logger.Debug("destroy request not sent", "grid_x", grid.X, "grid_y", grid.Y)
	}
}

// HandleDestroyRequest validates an observer's request on the authority
func (s *BlockSystem) HandleDestroyRequest(peer core.PeerID, m *wire.DestroyRequest) {
	err := s.ConfirmDestroy(m.Grid, m.Direction)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrDuplicateDestruction):
		s.Resource.Logger.Debug("duplicate destroy request", "peer", peer, "grid_x", m.Grid.X, "grid_y", m.Grid.Y)
	default:
		s.Resource.Logger.Warn("destroy request rejected", "peer", peer, "error", err)
	}
}

// ConfirmDestroy is the single-writer Destroyed transition on the authority
// The tombstone check-and-set guarantees at most one EventBlockDestroyed per cell
func (s *BlockSystem) ConfirmDestroy(grid core.Point, dir core.Vec2) error {
	if !s.Resource.IsAuthority() {
		return core.Errorf(core.CodeNotAuthority, "confirm destroy (%d,%d)", grid.X, grid.Y)
	}

	if s.World.IsTombstoned(grid) {
		if s.Resource.Status != nil {
			s.Resource.Status.Count(status.KeyDuplicateDestroys, 1)
		}
		return core.Errorf(core.CodeDuplicateDestruction, "block (%d,%d) already destroyed", grid.X, grid.Y)
	}

	e, ok := s.World.BlockAt(grid)
	if !ok {
		return core.Errorf(core.CodeUnknownEntity, "no block at (%d,%d)", grid.X, grid.Y)
	}
	b, _ := s.World.Blocks.GetComponent(e)

	if !s.World.Tombstone(grid) {
		return core.Errorf(core.CodeDuplicateDestruction, "block (%d,%d) already destroyed", grid.X, grid.Y)
	}
	b.State = component.BlockDestroyed
	s.World.Blocks.SetComponent(e, b)

	s.Resource.Publish(event.EventBlockDestroyed, &event.BlockDestroyedPayload{
		Entity: e,
		Grid:   grid,
		Points: b.Points,
	})

	s.World.DestroyEntity(e)
	if s.Resource.Status != nil {
		s.Resource.Status.Count(status.KeyBlocksDestroyed, 1)
	}

	s.Resource.Broadcast(&wire.BlockRemoved{Grid: grid})
	if s.Resource.IsObserver() {
		s.publishRemoved(b)
	}

	if s.camera != nil {
		if dir.IsZero() {
			dir = core.Up
		}
		s.camera.RequestPush(dir, parameter.BlockHitPushIntensity, parameter.BlockHitPushDuration)
	}
	return nil
}

// ApplyRemoved mirrors an authoritative removal; repeated notifications are ignored
func (s *BlockSystem) ApplyRemoved(m *wire.BlockRemoved) {
	if !s.World.Tombstone(m.Grid) {
		return
	}

	e, ok := s.World.BlockAt(m.Grid)
	if !ok {
		return
	}
	b, _ := s.World.Blocks.GetComponent(e)
	s.World.DestroyEntity(e)
	s.publishRemoved(b)
}

// State returns the state of the block at grid; tombstoned cells report Destroyed
func (s *BlockSystem) State(grid core.Point) (component.BlockState, bool) {
	if s.World.IsTombstoned(grid) {
		return component.BlockDestroyed, true
	}
	e, ok := s.World.BlockAt(grid)
	if !ok {
		return 0, false
	}
	b, ok := s.World.Blocks.GetComponent(e)
	return b.State, ok
}

func (s *BlockSystem) publishRemoved(b component.BlockComponent) {
	s.Resource.Publish(event.EventBlockRemoved, &event.BlockRemovedPayload{
		Grid:     b.Grid,
		Position: b.Position,
		Color:    b.Color,
	})
}
