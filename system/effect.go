package system

import (
	"fmt"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/wire"
)

// EffectSystem forwards cosmetic feedback to the effect and sound providers
// Break effects are keyed to the local Destroyed transition; bounce and launch feedback
// originates on the authority and is broadcast
type EffectSystem struct {
	engine.SystemBase
}

func NewEffectSystem(world *engine.World) *EffectSystem {
	return &EffectSystem{
		SystemBase: engine.NewSystemBase(world),
	}
}

func (s *EffectSystem) Init() {}

func (s *EffectSystem) Name() string {
	return "effect"
}

func (s *EffectSystem) Priority() int {
	return parameter.PriorityEffect
}

func (s *EffectSystem) Update() {}

func (s *EffectSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventBlockRemoved,
		event.EventBallBounce,
		event.EventBallLaunched,
	}
}

func (s *EffectSystem) HandleEvent(ev event.GameEvent) error {
	switch ev.Type {
	case event.EventBlockRemoved:
		payload, ok := ev.Payload.(*event.BlockRemovedPayload)
		if !ok {
			return fmt.Errorf("effect: unexpected payload %T", ev.Payload)
		}
		if !s.Resource.IsObserver() {
			return nil
		}
		s.play(engine.Effect{
			Kind:     parameter.EffectBreak,
			Position: payload.Position,
			Color:    payload.Color,
			Scale:    parameter.BreakEffectScale,
		})
		s.sound(parameter.SoundBreak, 1)

	case event.EventBallBounce:
		payload, ok := ev.Payload.(*event.BallBouncePayload)
		if !ok {
			return fmt.Errorf("effect: unexpected payload %T", ev.Payload)
		}
		s.emit(engine.Effect{
			Kind:     parameter.EffectBounce,
			Position: payload.Position,
			Color:    core.RGBWhite,
			Scale:    parameter.BounceEffectScale,
		}, parameter.SoundBounce)

	case event.EventBallLaunched:
		payload, ok := ev.Payload.(*event.BallPayload)
		if !ok {
			return fmt.Errorf("effect: unexpected payload %T", ev.Payload)
		}
		s.emit(engine.Effect{
			Kind:     parameter.EffectLaunch,
			Position: payload.Position,
			Color:    core.RGBWhite,
			Scale:    1,
		}, parameter.SoundLaunch)
	}
	return nil
}

// ApplyEffect plays a replicated effect
func (s *EffectSystem) ApplyEffect(m *wire.Effect) {
	if !s.Resource.IsObserver() {
		return
	}
	s.play(engine.Effect{
		Kind:     m.Name,
		Position: m.Position,
		Color:    core.UnpackRGB(m.Color),
		Scale:    m.Scale,
	})
}

// ApplySound plays a replicated sound
func (s *EffectSystem) ApplySound(m *wire.Sound) {
	if !s.Resource.IsObserver() {
		return
	}
	s.sound(m.Category, m.Volume)
}

// emit fans authority feedback out to observers and plays it locally on a host
func (s *EffectSystem) emit(fx engine.Effect, category string) {
	if !s.Resource.IsAuthority() {
		return
	}
	s.Resource.Broadcast(&wire.Effect{
		Name:     fx.Kind,
		Position: fx.Position,
		Color:    fx.Color.Packed(),
		Scale:    fx.Scale,
	})
	s.Resource.Broadcast(&wire.Sound{Category: category, Volume: 1})

	if s.Resource.IsObserver() {
		s.play(fx)
		s.sound(category, 1)
	}
}

func (s *EffectSystem) play(fx engine.Effect) {
	s.Resource.Publish(event.EventEffectRequest, &event.EffectRequestPayload{
		Kind:     fx.Kind,
		Position: fx.Position,
		Color:    fx.Color,
		Scale:    fx.Scale,
	})
	if s.Resource.Effects == nil {
		return
	}
	defer s.recoverCosmetic("effect", fx.Kind)
	if err := s.Resource.Effects.PlayEffect(fx); err != nil {
		s.Resource.Logger.Warn("effect failed", "kind", fx.Kind, "error", err)
	}
}

// sound scales the relative volume by the configured master volume
func (s *EffectSystem) sound(category string, volume float64) {
	volume *= s.Resource.Config.Volume
	s.Resource.Publish(event.EventSoundRequest, &event.SoundRequestPayload{
		Category: category,
		Volume:   volume,
	})
	if s.Resource.Sound == nil {
		return
	}
	defer s.recoverCosmetic("sound", category)
	if err := s.Resource.Sound.Play(category, volume); err != nil {
		s.Resource.Logger.Warn("sound failed", "category", category, "error", err)
	}
}

// recoverCosmetic logs a panicking provider so it cannot take down the tick
func (s *EffectSystem) recoverCosmetic(what, name string) {
	if r := recover(); r != nil {
		s.Resource.Logger.Error("cosmetic provider panicked", "provider", what, "name", name, "panic", r)
	}
}
