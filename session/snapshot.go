package session

import (
	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/physics"
)

// BlockView is a read-only block projection
type BlockView struct {
	Grid     core.Point
	Position core.Vec2
	Half     core.Vec2
	Color    core.RGB
	Pending  bool
}

// PaddleView is a read-only paddle projection
type PaddleView struct {
	Owner    core.PeerID
	Position core.Vec2
	Half     core.Vec2
	Local    bool
}

// BallView is a read-only ball projection
type BallView struct {
	Owner    core.PeerID
	Position core.Vec2
	Radius   float64
	Launched bool
}

// Snapshot is a copy of the renderable world, safe to hand to another goroutine
type Snapshot struct {
	ID      string
	Frame   int64
	Role    core.Role
	Local   core.PeerID
	Running bool

	Score int
	Arena physics.Rect
	Walls []physics.Rect

	// Camera offset from rest, applied to every drawn position
	Camera core.Vec2

	Blocks  []BlockView
	Paddles []PaddleView
	Balls   []BallView
}

// Snapshot copies the current world state for renderers
func (s *Session) Snapshot() Snapshot {
	w := s.world
	snap := Snapshot{
		ID:      s.id,
		Frame:   s.res.Time.Frame,
		Role:    s.res.Role,
		Local:   s.res.Local,
		Running: s.running,
		Score:   s.systems.Score.Display(),
		Arena:   w.Arena,
		Walls:   append([]physics.Rect(nil), w.Walls...),
		Camera:  w.Camera.Offset,
	}

	for _, e := range w.Blocks.All() {
		b, ok := w.Blocks.GetComponent(e)
		if !ok || b.State == component.BlockDestroyed {
			continue
		}
		snap.Blocks = append(snap.Blocks, BlockView{
			Grid:     b.Grid,
			Position: b.Position,
			Half:     b.Half,
			Color:    b.Color,
			Pending:  b.State == component.BlockPendingDestruction,
		})
	}
	for _, e := range w.Paddles.All() {
		if p, ok := w.Paddles.GetComponent(e); ok {
			snap.Paddles = append(snap.Paddles, PaddleView{
				Owner:    p.Owner,
				Position: p.Position,
				Half:     p.Half,
				Local:    s.res.HasLocalControl(p.Owner),
			})
		}
	}
	for _, e := range w.Balls.All() {
		if b, ok := w.Balls.GetComponent(e); ok {
			snap.Balls = append(snap.Balls, BallView{
				Owner:    b.Owner,
				Position: b.Pos,
				Radius:   b.Radius,
				Launched: b.Launched,
			})
		}
	}
	return snap
}
