package engine

import "github.com/lixenwraith/breakout/event"

// SubscribeSystems registers every EventSubscriber among systems on the bus
// Handlers are subscribed in system priority order, then declared type order
// Returns the number of (handler, type) subscriptions made
func SubscribeSystems(bus *event.Bus, systems []System) int {
	n := 0
	for _, s := range systems {
		sub, ok := s.(EventSubscriber)
		if !ok {
			continue
		}
		for _, t := range sub.EventTypes() {
			bus.Subscribe(t, sub)
			n++
		}
	}
	return n
}

// UnsubscribeSystems removes every subscription made by SubscribeSystems
func UnsubscribeSystems(bus *event.Bus, systems []System) {
	for _, s := range systems {
		sub, ok := s.(EventSubscriber)
		if !ok {
			continue
		}
		for _, t := range sub.EventTypes() {
			bus.Unsubscribe(t, sub)
		}
	}
}
