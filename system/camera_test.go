package system

import (
	"testing"
	"time"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/wire"
)

func TestCameraPushReturnsToRest(t *testing.T) {
	r := newRig(t, core.RoleAuthorityObserver, nil)
	rest := r.world.Camera.Position()

	r.set.Camera.RequestPush(core.Up, parameter.BlockHitPushIntensity, parameter.BlockHitPushDuration)
	if !r.set.Camera.Active() {
		t.Fatal("push not playing on host")
	}
	if n := len(messagesOf[*wire.CameraPush](r.tr.broadcast)); n != 1 {
		t.Fatalf("push broadcast %d times", n)
	}

	// Push phase ends after 60ms, within the fourth tick
	peak := 0.0
	for i := 0; i < 4; i++ {
		r.tick(parameter.TickInterval)
		if y := r.world.Camera.Offset.Y; y > peak {
			peak = y
		}
	}
	want := parameter.BlockHitPushIntensity * parameter.BlockHitPushDuration.Seconds()
	if diff := peak - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("peak offset %v, want %v", peak, want)
	}

	for i := 0; i < 10; i++ {
		r.tick(parameter.TickInterval)
	}
	if r.set.Camera.Active() {
		t.Fatal("camera still active after return")
	}
	if r.world.Camera.Position() != rest {
		t.Fatalf("camera at %v, want rest %v", r.world.Camera.Position(), rest)
	}
	if n := r.events.counts[event.EventCameraPush]; n != 1 {
		t.Errorf("push events %d", n)
	}
}

func TestCameraNewPushCancelsRunning(t *testing.T) {
	r := newRig(t, core.RoleAuthorityObserver, nil)

	r.set.Camera.Play(core.Vec2{X: 1}, 10, 100*time.Millisecond)
	r.tick(parameter.TickInterval)
	r.set.Camera.Play(core.Up, 10, 100*time.Millisecond)

	if n := r.res.Tasks.Len(); n != 1 {
		t.Fatalf("expected one running task, got %d", n)
	}
}

func TestCameraObserverRoutesThroughAuthority(t *testing.T) {
	obs := newRig(t, core.RoleObserver, nil)
	obs.set.Camera.RequestPush(core.Up, 4, 50*time.Millisecond)

	if obs.set.Camera.Active() {
		t.Fatal("observer played its own request before replication")
	}
	reqs := messagesOf[*wire.CameraPush](obs.tr.toAuthority)
	if len(reqs) != 1 || reqs[0].DurationMs != 50 {
		t.Fatalf("requests %+v", reqs)
	}

	auth := newRig(t, core.RoleAuthority, nil)
	auth.set.Camera.HandlePushRequest(1, reqs[0])
	if auth.set.Camera.Active() {
		t.Fatal("headless authority played a cosmetic push")
	}
	out := messagesOf[*wire.CameraPush](auth.tr.broadcast)
	if len(out) != 1 {
		t.Fatalf("broadcast %+v", out)
	}

	obs.set.Camera.ApplyPush(out[0])
	if !obs.set.Camera.Active() {
		t.Fatal("observer did not play replicated push")
	}
}
