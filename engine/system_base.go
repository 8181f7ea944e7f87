package engine

import "github.com/lixenwraith/breakout/event"

// System is a per-tick simulation step
type System interface {
	Name() string
	Priority() int // Lower values run first
	Init()
	Update()
}

// EventSubscriber is implemented by systems that consume bus events
type EventSubscriber interface {
	event.Handler
	EventTypes() []event.EventType
}

// SystemBase provides common dependency for all system
// Embed in system struct to eliminate boilerplate
type SystemBase struct {
	World    *World
	Resource *Resource
}

// NewSystemBase initializes base dependency from world
// Call once in system constructor
func NewSystemBase(w *World) SystemBase {
	return SystemBase{
		World:    w,
		Resource: w.Resource,
	}
}
