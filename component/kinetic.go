package component

import "github.com/lixenwraith/breakout/physics"

// KineticComponent provides a reusable kinematic container for moving entities
type KineticComponent struct {
	physics.Kinetic // Pos, Vel in arena units
}
