package component

import "github.com/lixenwraith/breakout/core"

// PaddleComponent is a horizontally moving player paddle
type PaddleComponent struct {
	Position core.Vec2
	Half     core.Vec2
	Speed    float64

	Owner core.PeerID
	Slot  int         // Spawn point index
	Ball  core.Entity // Bound ball, 0 = unbound
	Input float64     // Last horizontal input in [-1, 1]
}

// Anchor returns the ball rest position: offset along local up
func (p *PaddleComponent) Anchor(offset float64) core.Vec2 {
	return p.Position.Add(core.Up.Scale(offset))
}
