package component

import "github.com/lixenwraith/breakout/core"

// CameraComponent tracks the view offset applied by push feedback
type CameraComponent struct {
	Rest   core.Vec2
	Offset core.Vec2
}

// Position returns the effective camera position
func (c *CameraComponent) Position() core.Vec2 {
	return c.Rest.Add(c.Offset)
}
