package engine

import (
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/wire"
)

// Resource holds per-session singletons shared by systems
// Everything here is injected; there are no process-global instances
type Resource struct {
	Time   *TimeResource
	Config *config.Config

	Role  core.Role
	Local core.PeerID // core.NoPeer until assigned

	Bus    *event.Bus
	Logger *slog.Logger
	Rand   *rand.Rand
	Tasks  *TaskScheduler

	// Telemetry
	Status *status.Registry

	// External collaborators
	Transport Transport
	Effects   EffectPlayer
	Sound     SoundPlayer
}

// IsAuthority reports whether this peer owns simulation truth
func (r *Resource) IsAuthority() bool {
	return r.Role.IsAuthority()
}

// IsObserver reports whether this peer plays back cosmetics
func (r *Resource) IsObserver() bool {
	return r.Role.IsObserver()
}

// HasLocalControl reports whether input for owner is read on this peer
func (r *Resource) HasLocalControl(owner core.PeerID) bool {
	return r.Role.IsObserver() && r.Local != core.NoPeer && owner == r.Local
}

// Publish emits an event on the session bus stamped with the current frame
// Handler errors are logged by the bus and not propagated
func (r *Resource) Publish(t event.EventType, payload any) {
	var frame int64
	if r.Time != nil {
		frame = r.Time.Frame
	}
	_ = r.Bus.Publish(event.GameEvent{Type: t, Payload: payload, Frame: frame})
}

// SendToAuthority encodes and sends m to the authority
func (r *Resource) SendToAuthority(m wire.Message) bool {
	if r.Transport == nil {
		return false
	}
	ok := r.Transport.SendToAuthority(uint8(m.Kind()), m.Marshal())
	r.countSend(ok)
	return ok
}

// Broadcast encodes and sends m to every remote observer
func (r *Resource) Broadcast(m wire.Message) {
	if r.Transport == nil {
		return
	}
	r.Transport.BroadcastToObservers(uint8(m.Kind()), m.Marshal())
	r.countSend(true)
}

// SendTo encodes and sends m to a single peer
func (r *Resource) SendTo(peer core.PeerID, m wire.Message) bool {
	if r.Transport == nil {
		return false
	}
	ok := r.Transport.SendTo(peer, uint8(m.Kind()), m.Marshal())
	r.countSend(ok)
	return ok
}

func (r *Resource) countSend(ok bool) {
	if r.Status == nil {
		return
	}
	if ok {
		r.Status.Count(status.KeyNetSent, 1)
	} else {
		r.Status.Count(status.KeyNetDropped, 1)
	}
}

// TimeResource wraps time data for systems
// It is updated by the session at the start of each tick
type TimeResource struct {
	Now   time.Time
	Delta time.Duration
	Frame int64
}

// Update advances the frame, deriving Delta from the previous tick
// The first tick and long stalls use a single tick interval
func (tr *TimeResource) Update(now time.Time) {
	delta := parameter.TickInterval
	if !tr.Now.IsZero() {
		delta = now.Sub(tr.Now)
		if delta < 0 || delta > parameter.MaxTickDelta {
			delta = parameter.TickInterval
		}
	}
	tr.Now = now
	tr.Delta = delta
	tr.Frame++
}

// DeltaSeconds returns Delta as float seconds for integration
func (tr *TimeResource) DeltaSeconds() float64 {
	return tr.Delta.Seconds()
}
