package component

import "github.com/lixenwraith/breakout/core"

// BallComponent holds ball state
// Only the authority integrates and toggles Launched; observers mirror replicated state
type BallComponent struct {
	KineticComponent

	Radius   float64
	Launched bool

	Owner  core.PeerID // Peer controlling launch
	Paddle core.Entity // Paddle providing the spawn anchor, 0 = unbound
}
