package event

import (
	"sync/atomic"

	"github.com/lixenwraith/breakout/parameter"
)

type queueSlot struct {
	// seq == position: free for that producer; position+1: written, ready to read
	seq atomic.Uint64
	ev  GameEvent
}

// EventQueue hands network events from I/O goroutines to the tick goroutine
// Push is lock-free for any number of producers; Consume and Drain belong to one consumer
// A full queue rejects new events instead of overwriting unread ones
type EventQueue struct {
	slots   [parameter.EventQueueSize]queueSlot
	tail    atomic.Uint64 // Next position a producer claims
	head    atomic.Uint64 // Next position the consumer reads
	dropped atomic.Uint64
}

func NewEventQueue() *EventQueue {
	eq := &EventQueue{}
	for i := range eq.slots {
		eq.slots[i].seq.Store(uint64(i))
	}
	return eq
}

// Push enqueues ev, returning false when the queue is full
func (eq *EventQueue) Push(ev GameEvent) bool {
	for {
		pos := eq.tail.Load()
		slot := &eq.slots[pos&parameter.EventBufferMask]
		seq := slot.seq.Load()

		switch {
		case seq == pos:
			if eq.tail.CompareAndSwap(pos, pos+1) {
				slot.ev = ev
				slot.seq.Store(pos + 1)
				return true
			}
		case seq < pos:
			// Slot still holds an event from the previous lap
			eq.dropped.Add(1)
			return false
		}
	}
}

// Consume returns every fully written event in FIFO order
// Stops at the first slot whose producer has not finished writing
func (eq *EventQueue) Consume() []GameEvent {
	var out []GameEvent
	head := eq.head.Load()
	for {
		slot := &eq.slots[head&parameter.EventBufferMask]
		if slot.seq.Load() != head+1 {
			break
		}
		out = append(out, slot.ev)
		slot.ev = GameEvent{}
		slot.seq.Store(head + parameter.EventQueueSize)
		head++
	}
	eq.head.Store(head)
	return out
}

// Len returns the approximate number of claimed, unread events
func (eq *EventQueue) Len() int {
	head, tail := eq.head.Load(), eq.tail.Load()
	if tail <= head {
		return 0
	}
	return int(tail - head)
}

// Dropped returns how many pushes were rejected because the queue was full
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}

// Drain consumes pending events and hands each to fn in FIFO order
// Returns the number of events handled
func (eq *EventQueue) Drain(fn func(GameEvent)) int {
	if eq.Len() == 0 {
		return 0
	}
	events := eq.Consume()
	for _, ev := range events {
		fn(ev)
	}
	return len(events)
}
