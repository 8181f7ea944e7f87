package physics

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/core"
)

const eps = 1e-9

func TestClampSpeedPreservesDirection(t *testing.T) {
	k := Kinetic{Vel: core.Vec2{X: 3, Y: 4}}
	ClampSpeed(&k, 10)

	if math.Abs(k.Vel.Len()-10) > eps {
		t.Fatalf("expected speed 10, got %f", k.Vel.Len())
	}
	if math.Abs(k.Vel.X-6) > eps || math.Abs(k.Vel.Y-8) > eps {
		t.Fatalf("direction changed: %+v", k.Vel)
	}

	zero := Kinetic{}
	ClampSpeed(&zero, 10)
	if !zero.Vel.IsZero() {
		t.Fatalf("zero velocity must stay zero, got %+v", zero.Vel)
	}
}

func TestReflect(t *testing.T) {
	v := Reflect(core.Vec2{X: 1, Y: -1}, core.Vec2{Y: 1})
	if v.X != 1 || v.Y != 1 {
		t.Fatalf("expected (1,1), got %+v", v)
	}
	// Moving away from the surface is not reflected
	v = Reflect(core.Vec2{X: 1, Y: 1}, core.Vec2{Y: 1})
	if v.X != 1 || v.Y != 1 {
		t.Fatalf("expected unchanged (1,1), got %+v", v)
	}
}

func TestIntegrate(t *testing.T) {
	k := Kinetic{Pos: core.Vec2{X: 1, Y: 1}, Vel: core.Vec2{X: 2, Y: -4}}
	Integrate(&k, 0.5)
	if k.Pos.X != 2 || k.Pos.Y != -1 {
		t.Fatalf("expected (2,-1), got %+v", k.Pos)
	}
}

func TestCircleRect(t *testing.T) {
	r := RectFromCenter(core.Vec2{X: 0, Y: 0}, core.Vec2{X: 1, Y: 1})

	c, ok := CircleRect(core.Vec2{X: 0, Y: 1.3}, 0.5, r)
	if !ok {
		t.Fatal("expected contact above box")
	}
	if c.Normal.X != 0 || math.Abs(c.Normal.Y-1) > eps {
		t.Fatalf("expected up normal, got %+v", c.Normal)
	}
	if math.Abs(c.Depth-0.2) > 1e-6 {
		t.Fatalf("expected depth 0.2, got %f", c.Depth)
	}

	if _, ok := CircleRect(core.Vec2{X: 3, Y: 0}, 0.5, r); ok {
		t.Fatal("unexpected contact")
	}

	c, ok = CircleRect(core.Vec2{X: 0.9, Y: 0}, 0.1, r)
	if !ok || c.Normal.X != 1 {
		t.Fatalf("expected right normal for embedded center, got %+v ok=%v", c.Normal, ok)
	}
}

func TestRaycast(t *testing.T) {
	walls := []Rect{
		{Min: core.Vec2{X: -1, Y: 0}, Max: core.Vec2{X: 0, Y: 10}},
		{Min: core.Vec2{X: 10, Y: 0}, Max: core.Vec2{X: 11, Y: 10}},
	}

	idx, dist := Raycast(core.Vec2{X: 2, Y: 5}, core.Vec2{X: -1}, 3, walls)
	if idx != 0 || math.Abs(dist-2) > eps {
		t.Fatalf("expected left wall at 2, got idx=%d dist=%f", idx, dist)
	}

	idx, _ = Raycast(core.Vec2{X: 2, Y: 5}, core.Vec2{X: -1}, 1.5, walls)
	if idx != -1 {
		t.Fatalf("expected no hit within range, got %d", idx)
	}

	idx, dist = Raycast(core.Vec2{X: 8, Y: 5}, core.Vec2{X: 1}, 3, walls)
	if idx != 1 || math.Abs(dist-2) > eps {
		t.Fatalf("expected right wall at 2, got idx=%d dist=%f", idx, dist)
	}

	// Parallel ray outside slab
	idx, _ = Raycast(core.Vec2{X: 2, Y: 20}, core.Vec2{X: -1}, 10, walls)
	if idx != -1 {
		t.Fatalf("expected miss above walls, got %d", idx)
	}
}

func TestLaunchDirectionWithinCone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		dir := LaunchDirection(rng, 45, false, 0)
		if math.Abs(dir.Len()-1) > 1e-9 {
			t.Fatalf("direction not unit: %f", dir.Len())
		}
		if a := AngleFromUp(dir); math.Abs(a) > 45+1e-9 {
			t.Fatalf("angle %f outside cone", a)
		}
		if dir.Y <= 0 {
			t.Fatalf("direction must point up, got %+v", dir)
		}
	}
}
