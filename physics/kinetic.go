package physics

import (
	"github.com/lixenwraith/breakout/core"
)

// Kinetic holds continuous position and velocity in arena units
type Kinetic struct {
	Pos core.Vec2
	Vel core.Vec2
}

// Integrate performs explicit Euler integration: p = p + v*dt
func Integrate(k *Kinetic, dt float64) core.Vec2 {
	k.Pos = k.Pos.Add(k.Vel.Scale(dt))
	return k.Pos
}

// ApplyImpulse adds velocity delta (momentum transfer)
func ApplyImpulse(k *Kinetic, dv core.Vec2) {
	k.Vel = k.Vel.Add(dv)
}

// SetImpulse overrides velocity (hard redirect)
func SetImpulse(k *Kinetic, v core.Vec2) {
	k.Vel = v
}

// ClampSpeed resets velocity magnitude to speed, preserving direction
// Zero velocity stays zero
func ClampSpeed(k *Kinetic, speed float64) {
	if k.Vel.IsZero() {
		return
	}
	k.Vel = k.Vel.Normalize().Scale(speed)
}

// Reflect mirrors v about the surface normal n, returns v unchanged when moving away from the surface
func Reflect(v, n core.Vec2) core.Vec2 {
	d := v.Dot(n)
	if d >= 0 {
		return v
	}
	return v.Sub(n.Scale(2 * d))
}

// Stop zeroes velocity and places the body at pos
func Stop(k *Kinetic, pos core.Vec2) {
	k.Pos = pos
	k.Vel = core.Vec2{}
}
