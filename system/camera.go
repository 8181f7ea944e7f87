package system

import (
	"time"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/wire"
)

// CameraSystem plays push feedback on the camera offset
// Pushes are authority-broadcast commands so every observer sees the same motion
type CameraSystem struct {
	engine.SystemBase
	owner  core.Entity // Task owner, a new push cancels its running tasks
	active bool
}

func NewCameraSystem(world *engine.World) *CameraSystem {
	return &CameraSystem{
		SystemBase: engine.NewSystemBase(world),
		owner:      world.CreateEntity(),
	}
}

func (s *CameraSystem) Init() {
	s.Resource.Tasks.CancelOwner(s.owner)
	s.World.Camera.Offset = core.Vec2{}
	s.active = false
}

func (s *CameraSystem) Name() string {
	return "camera"
}

func (s *CameraSystem) Priority() int {
	return parameter.PriorityCamera
}

func (s *CameraSystem) Update() {}

// Active reports whether a push or return is in progress
func (s *CameraSystem) Active() bool {
	return s.active
}

// RequestPush asks for a push on every observer; any peer may request
func (s *CameraSystem) RequestPush(dir core.Vec2, intensity float64, d time.Duration) {
	msg := &wire.CameraPush{
		Direction:  dir,
		Intensity:  intensity,
		DurationMs: uint32(d / time.Millisecond),
	}

	if !s.Resource.IsAuthority() {
		s.Resource.SendToAuthority(msg)
		return
	}

	s.Resource.Broadcast(msg)
	if s.Resource.IsObserver() {
		s.Play(dir, intensity, d)
	}
}

// HandlePushRequest relays an observer's push request
func (s *CameraSystem) HandlePushRequest(peer core.PeerID, m *wire.CameraPush) {
	if !s.Resource.IsAuthority() {
		return
	}
	s.Resource.Logger.Debug("camera push request", "peer", peer)
	s.RequestPush(m.Direction, m.Intensity, time.Duration(m.DurationMs)*time.Millisecond)
}

// ApplyPush plays a replicated push
func (s *CameraSystem) ApplyPush(m *wire.CameraPush) {
	if !s.Resource.IsObserver() {
		return
	}
	s.Play(m.Direction, m.Intensity, time.Duration(m.DurationMs)*time.Millisecond)
}

// Play moves the camera along dir at intensity units/s for d, then returns it to rest
func (s *CameraSystem) Play(dir core.Vec2, intensity float64, d time.Duration) {
	tasks := s.Resource.Tasks
	tasks.CancelOwner(s.owner)
	s.active = true

	s.Resource.Publish(event.EventCameraPush, &event.CameraPushPayload{
		Direction: dir,
		Intensity: intensity,
		Duration:  d,
	})

	velocity := dir.Normalize().Scale(intensity)
	tasks.Schedule(s.owner, s.Resource.Time.Now, d,
		func(_ float64, dt time.Duration) {
			s.World.Camera.Offset = s.World.Camera.Offset.Add(velocity.Scale(dt.Seconds()))
		},
		func(now time.Time) {
			s.startReturn(now)
		},
	)
}

func (s *CameraSystem) startReturn(now time.Time) {
	from := s.World.Camera.Offset
	s.Resource.Tasks.Schedule(s.owner, now, parameter.CameraReturnDuration,
		func(progress float64, _ time.Duration) {
			s.World.Camera.Offset = from.Lerp(core.Vec2{}, progress)
		},
		func(time.Time) {
			s.World.Camera.Offset = core.Vec2{}
			s.active = false
		},
	)
}
