package system

import (
	"fmt"
	"math"

	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/wire"
)

// ScoreSystem accumulates points from destroyed blocks
// The authority owns the total; observers display replicated totals
type ScoreSystem struct {
	engine.SystemBase
	multiplier float64
	total      float64
	active     bool
}

func NewScoreSystem(world *engine.World) *ScoreSystem {
	return &ScoreSystem{
		SystemBase: engine.NewSystemBase(world),
		multiplier: world.Resource.Config.PointsMultiplier,
	}
}

func (s *ScoreSystem) Init() {
	s.Reset()
}

func (s *ScoreSystem) Name() string {
	return "score"
}

func (s *ScoreSystem) Priority() int {
	return parameter.PriorityScore
}

func (s *ScoreSystem) Update() {}

// EventTypes subscribes to destruction events on the authority only
func (s *ScoreSystem) EventTypes() []event.EventType {
	if !s.Resource.IsAuthority() {
		return nil
	}
	return []event.EventType{event.EventBlockDestroyed}
}

// HandleEvent processes block destruction
func (s *ScoreSystem) HandleEvent(ev event.GameEvent) error {
	switch ev.Type {
	case event.EventBlockDestroyed:
		payload, ok := ev.Payload.(*event.BlockDestroyedPayload)
		if !ok {
			return fmt.Errorf("score: unexpected payload %T", ev.Payload)
		}
		s.AddPoints(payload.Points)
	}
	return nil
}

// AddPoints adds base*multiplier to the total and replicates it
func (s *ScoreSystem) AddPoints(base float64) {
	if !s.Resource.IsAuthority() {
		return
	}
	s.total += base * s.multiplier
	s.Resource.Broadcast(&wire.ScoreUpdate{Total: s.total})
	s.changed()
}

// ApplyUpdate mirrors a replicated total; stale lower totals are ignored while active
func (s *ScoreSystem) ApplyUpdate(m *wire.ScoreUpdate) {
	if s.Resource.IsAuthority() {
		return
	}
	if s.active && m.Total < s.total {
		s.Resource.Logger.Debug("stale score ignored", "total", m.Total, "current", s.total)
		return
	}
	s.total = m.Total
	s.changed()
}

// SetActive marks whether gameplay is running
func (s *ScoreSystem) SetActive(active bool) {
	s.active = active
}

// Reset zeroes the total
func (s *ScoreSystem) Reset() {
	s.total = 0
	s.changed()
}

// Total returns the accumulated score
func (s *ScoreSystem) Total() float64 {
	return s.total
}

// Display returns the total rounded up
func (s *ScoreSystem) Display() int {
	return int(math.Ceil(s.total))
}

func (s *ScoreSystem) changed() {
	if s.Resource.Status != nil {
		s.Resource.Status.SetGauge(status.KeyScoreTotal, s.total)
	}
	s.Resource.Publish(event.EventScoreChanged, &event.ScoreChangedPayload{
		Total:   s.total,
		Display: s.Display(),
	})
}
