package system

import (
	"math"
	"testing"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/physics"
	"github.com/lixenwraith/breakout/wire"
)

const eps = 1e-9

func TestLaunchToggleReturnsToRest(t *testing.T) {
	r := newRig(t, core.RoleAuthorityObserver, nil)
	paddle, ball := r.player(t, core.AuthorityPeer, 0)
	p, _ := r.world.Paddles.GetComponent(paddle)
	anchor := p.Anchor(parameter.BallSpawnOffset)

	for i := 1; i <= 6; i++ {
		if err := r.set.Ball.Launch(ball); err != nil {
			t.Fatalf("launch %d: %v", i, err)
		}
		b, _ := r.world.Balls.GetComponent(ball)

		if i%2 == 1 {
			if !b.Launched {
				t.Fatalf("launch %d: not launched", i)
			}
			if math.Abs(b.Vel.Len()-r.set.Ball.Speed()) > eps {
				t.Fatalf("launch speed %v", b.Vel.Len())
			}
			if a := physics.AngleFromUp(b.Vel); math.Abs(a) > r.res.Config.MaxShootAngle+eps {
				t.Fatalf("launch angle %v outside cone", a)
			}
			continue
		}

		if b.Launched || !b.Vel.IsZero() {
			t.Fatalf("launch %d: expected rest, got %+v", i, b)
		}
		if b.Pos != anchor {
			t.Fatalf("rest at %v, want anchor %v", b.Pos, anchor)
		}
	}

	if n := r.events.counts[event.EventBallLaunched]; n != 3 {
		t.Errorf("launched events %d", n)
	}
	if n := r.events.counts[event.EventBallReset]; n != 3 {
		t.Errorf("reset events %d", n)
	}
}

func TestLaunchedSpeedClampedEveryTick(t *testing.T) {
	r := newRig(t, core.RoleAuthorityObserver, nil)
	if err := r.set.Spawn.Spawn(); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	_, ball := r.player(t, core.AuthorityPeer, 0)
	speed := r.set.Ball.Speed()

	for i := 0; i < 600; i++ {
		b, _ := r.world.Balls.GetComponent(ball)
		if !b.Launched {
			if err := r.set.Ball.Launch(ball); err != nil {
				t.Fatalf("launch: %v", err)
			}
			continue
		}

		// Collision-imparted velocity change
		physics.ApplyImpulse(&b.Kinetic, core.Vec2{X: 7, Y: -3})
		r.world.Balls.SetComponent(ball, b)

		r.tick(parameter.TickInterval)

		b, _ = r.world.Balls.GetComponent(ball)
		if b.Launched && math.Abs(b.Vel.Len()-speed) > 1e-6 {
			t.Fatalf("tick %d: speed %v, want %v", i, b.Vel.Len(), speed)
		}
	}
}

func TestBallOutOfBoundsResets(t *testing.T) {
	r := newRig(t, core.RoleAuthority, nil)
	paddle, ball := r.player(t, 2, 0)
	if err := r.set.Ball.Launch(ball); err != nil {
		t.Fatalf("launch: %v", err)
	}

	b, _ := r.world.Balls.GetComponent(ball)
	b.Pos = core.Vec2{X: 10, Y: -2}
	b.Vel = core.Vec2{Y: -r.set.Ball.Speed()}
	r.world.Balls.SetComponent(ball, b)

	r.tick(parameter.TickInterval)

	b, _ = r.world.Balls.GetComponent(ball)
	p, _ := r.world.Paddles.GetComponent(paddle)
	if b.Launched || b.Pos != p.Anchor(parameter.BallSpawnOffset) {
		t.Fatalf("ball not reset: %+v", b)
	}
	if n := r.events.counts[event.EventBallReset]; n != 1 {
		t.Fatalf("reset events %d", n)
	}

	states := messagesOf[*wire.BallState](r.tr.broadcast)
	if len(states) == 0 || states[len(states)-1].Launched {
		t.Fatal("reset not replicated")
	}
}

func TestObserverMirrorsWithoutSimulating(t *testing.T) {
	r := newRig(t, core.RoleObserver, nil)
	paddle := r.set.Paddle.Spawn(1, 0)
	r.set.Ball.ApplyState(&wire.BallState{Owner: 1})

	ball, ok := r.set.Ball.BallByOwner(1)
	if !ok {
		t.Fatal("ball not spawned from state")
	}
	if b, _ := r.world.Balls.GetComponent(ball); b.Paddle != paddle {
		t.Fatalf("ball bound to %d, want paddle %d", b.Paddle, paddle)
	}

	r.set.Paddle.SetInput(1, 1)
	r.tick(parameter.TickInterval)

	p, _ := r.world.Paddles.GetComponent(paddle)
	b, _ := r.world.Balls.GetComponent(ball)
	if b.Pos != p.Anchor(parameter.BallSpawnOffset) {
		t.Fatalf("resting ball at %v, want anchor %v", b.Pos, p.Anchor(parameter.BallSpawnOffset))
	}

	pos := core.Vec2{X: 12, Y: 14}
	r.set.Ball.ApplyState(&wire.BallState{Owner: 1, Position: pos, Velocity: core.Vec2{Y: 18}, Launched: true})
	r.tick(parameter.TickInterval)

	b, _ = r.world.Balls.GetComponent(ball)
	if !b.Launched || b.Pos != pos {
		t.Fatalf("observer simulated the ball: %+v", b)
	}
	if err := r.set.Ball.Launch(ball); err == nil {
		t.Fatal("observer launched a ball")
	}
}

func TestRequestLaunchRouting(t *testing.T) {
	obs := newRig(t, core.RoleObserver, nil)
	if !obs.set.Ball.RequestLaunch(1) {
		t.Fatal("request not sent")
	}
	if obs.set.Ball.RequestLaunch(2) {
		t.Fatal("request for foreign owner sent")
	}
	reqs := messagesOf[*wire.LaunchRequest](obs.tr.toAuthority)
	if len(reqs) != 1 || reqs[0].Owner != 1 {
		t.Fatalf("requests %+v", reqs)
	}

	auth := newRig(t, core.RoleAuthority, nil)
	_, ball := auth.player(t, 1, 0)

	auth.set.Ball.HandleLaunchRequest(2, &wire.LaunchRequest{Owner: 1})
	if b, _ := auth.world.Balls.GetComponent(ball); b.Launched {
		t.Fatal("foreign peer launched the ball")
	}

	auth.set.Ball.HandleLaunchRequest(1, reqs[0])
	if b, _ := auth.world.Balls.GetComponent(ball); !b.Launched {
		t.Fatal("owner launch rejected")
	}
}

func TestWallBounceBroadcastsEffect(t *testing.T) {
	r := newRig(t, core.RoleAuthorityObserver, nil)
	_, ball := r.player(t, core.AuthorityPeer, 0)
	if err := r.set.Ball.Launch(ball); err != nil {
		t.Fatalf("launch: %v", err)
	}

	b, _ := r.world.Balls.GetComponent(ball)
	b.Pos = core.Vec2{X: 0.3, Y: 10}
	b.Vel = core.Vec2{X: -r.set.Ball.Speed()}
	r.world.Balls.SetComponent(ball, b)

	r.set.Collision.Update()

	b, _ = r.world.Balls.GetComponent(ball)
	if b.Vel.X <= 0 {
		t.Fatalf("ball not reflected: %v", b.Vel)
	}
	if b.Pos.X < b.Radius-eps {
		t.Fatalf("ball not pushed out of wall: %v", b.Pos)
	}

	fx := messagesOf[*wire.Effect](r.tr.broadcast)
	if len(fx) == 0 || fx[len(fx)-1].Name != parameter.EffectBounce {
		t.Fatalf("bounce effect not broadcast: %+v", fx)
	}
	sounds := messagesOf[*wire.Sound](r.tr.broadcast)
	if len(sounds) == 0 || sounds[len(sounds)-1].Category != parameter.SoundBounce {
		t.Fatalf("bounce sound not broadcast: %+v", sounds)
	}
}

func TestPaddleHitSteersByOffset(t *testing.T) {
	r := newRig(t, core.RoleAuthority, nil)
	paddle, ball := r.player(t, 1, 0)
	if err := r.set.Ball.Launch(ball); err != nil {
		t.Fatalf("launch: %v", err)
	}
	p, _ := r.world.Paddles.GetComponent(paddle)

	b, _ := r.world.Balls.GetComponent(ball)
	b.Pos = core.Vec2{X: p.Position.X + 2.5, Y: p.Position.Y + p.Half.Y + 0.3}
	b.Vel = core.Vec2{Y: -r.set.Ball.Speed()}
	r.world.Balls.SetComponent(ball, b)

	r.set.Collision.Update()

	b, _ = r.world.Balls.GetComponent(ball)
	if b.Vel.Y <= 0 || b.Vel.X <= 0 {
		t.Fatalf("right-side hit should rebound up and right, got %v", b.Vel)
	}
	if math.Abs(b.Vel.Len()-r.set.Ball.Speed()) > eps {
		t.Fatalf("speed %v", b.Vel.Len())
	}
}

func TestObserverForwardsBlockHits(t *testing.T) {
	r := observerWithGrid(t, grid4x3)
	cell := core.Point{X: 1, Y: 1}
	be, _ := r.world.BlockAt(cell)
	blk, _ := r.world.Blocks.GetComponent(be)

	r.set.Ball.ApplyState(&wire.BallState{Owner: 3, Position: blk.Position, Velocity: core.Vec2{Y: 18}, Launched: true})
	r.set.Collision.Update()
	r.set.Collision.Update()

	reqs := messagesOf[*wire.DestroyRequest](r.tr.toAuthority)
	if len(reqs) != 1 || reqs[0].Grid != cell {
		t.Fatalf("requests %+v", reqs)
	}
	if reqs[0].Direction != core.Up {
		t.Errorf("direction %v", reqs[0].Direction)
	}
	ball, _ := r.set.Ball.BallByOwner(3)
	if b, _ := r.world.Balls.GetComponent(ball); b.Vel != (core.Vec2{Y: 18}) {
		t.Fatalf("observer altered velocity: %v", b.Vel)
	}
}
