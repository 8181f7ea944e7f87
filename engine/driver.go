package engine

import (
	"context"
	"time"
)

// TickFunc advances the simulation to now
type TickFunc func(now time.Time)

// Driver runs a TickFunc at a fixed interval until its context is cancelled
type Driver struct {
	interval time.Duration
	clock    Clock
	tick     TickFunc
	ticks    uint64
}

// NewDriver creates a driver; a nil clock uses SystemClock
func NewDriver(interval time.Duration, clock Clock, tick TickFunc) *Driver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Driver{interval: interval, clock: clock, tick: tick}
}

// Run blocks, ticking once per interval; returns nil when ctx is cancelled
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.tick(d.clock.Now())
			d.ticks++
		}
	}
}

// Ticks returns the number of completed ticks, valid after Run returns
func (d *Driver) Ticks() uint64 {
	return d.ticks
}
