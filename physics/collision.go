package physics

import (
	"math"

	"github.com/lixenwraith/breakout/core"
)

// Rect is an axis-aligned box in arena units
type Rect struct {
	Min core.Vec2
	Max core.Vec2
}

// RectFromCenter builds a box from center and half extents
func RectFromCenter(center, half core.Vec2) Rect {
	return Rect{Min: center.Sub(half), Max: center.Add(half)}
}

func (r Rect) Center() core.Vec2 {
	return core.Vec2{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

func (r Rect) HalfExtent() core.Vec2 {
	return core.Vec2{X: (r.Max.X - r.Min.X) / 2, Y: (r.Max.Y - r.Min.Y) / 2}
}

func (r Rect) Contains(p core.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Contact describes a collision between a moving body and a surface
type Contact struct {
	Point  core.Vec2   // Closest surface point
	Normal core.Vec2   // Unit normal pointing away from the surface
	Depth  float64     // Penetration depth
	Other  core.Entity // Entity owning the surface, 0 for walls
}

// CircleRect tests a circle against a box, returns contact and true on overlap
func CircleRect(center core.Vec2, radius float64, r Rect) (Contact, bool) {
	nearest := core.Vec2{
		X: math.Max(r.Min.X, math.Min(center.X, r.Max.X)),
		Y: math.Max(r.Min.Y, math.Min(center.Y, r.Max.Y)),
	}
	delta := center.Sub(nearest)
	distSq := delta.LenSq()

	if distSq > radius*radius {
		return Contact{}, false
	}

	if distSq > 0 {
		dist := math.Sqrt(distSq)
		return Contact{
			Point:  nearest,
			Normal: delta.Scale(1 / dist),
			Depth:  radius - dist,
		}, true
	}

	// Center inside the box: push out along the axis of least penetration
	left := center.X - r.Min.X
	right := r.Max.X - center.X
	bottom := center.Y - r.Min.Y
	top := r.Max.Y - center.Y

	c := Contact{Point: center}
	minPen := left
	c.Normal = core.Vec2{X: -1}
	if right < minPen {
		minPen = right
		c.Normal = core.Vec2{X: 1}
	}
	if bottom < minPen {
		minPen = bottom
		c.Normal = core.Vec2{Y: -1}
	}
	if top < minPen {
		minPen = top
		c.Normal = core.Vec2{Y: 1}
	}
	c.Depth = minPen + radius
	return c, true
}

// Raycast casts a ray against boxes using the slab method
// Returns the index of the nearest box hit within maxDist and the hit distance, or -1
func Raycast(origin, dir core.Vec2, maxDist float64, rects []Rect) (int, float64) {
	best := -1
	bestDist := maxDist
	for i, r := range rects {
		if d, ok := rayRect(origin, dir, r); ok && d <= bestDist {
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
	}
	if best == -1 {
		return -1, 0
	}
	return best, bestDist
}

func rayRect(origin, dir core.Vec2, r Rect) (float64, bool) {
	tMin := 0.0
	tMax := math.Inf(1)

	for axis := 0; axis < 2; axis++ {
		o, d, lo, hi := origin.X, dir.X, r.Min.X, r.Max.X
		if axis == 1 {
			o, d, lo, hi = origin.Y, dir.Y, r.Min.Y, r.Max.Y
		}
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
