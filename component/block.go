package component

import (
	"time"

	"github.com/lixenwraith/breakout/core"
)

// BlockState is the destruction lifecycle of a block
type BlockState uint8

const (
	BlockActive BlockState = iota
	BlockPendingDestruction
	BlockDestroyed // Terminal
)

func (s BlockState) String() string {
	switch s {
	case BlockActive:
		return "active"
	case BlockPendingDestruction:
		return "pending"
	case BlockDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// BlockComponent is a destructible grid cell
// Grid coordinate identifies the block across peers
type BlockComponent struct {
	Grid     core.Point
	Position core.Vec2
	Half     core.Vec2
	Points   float64
	Color    core.RGB

	State        BlockState
	PendingSince time.Time // Set on Active -> PendingDestruction
}
