package engine

import (
	"context"
	"testing"
	"time"
)

func TestDriverTicksUntilCancelled(t *testing.T) {
	var calls int
	d := NewDriver(time.Millisecond, nil, func(time.Time) { calls++ })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls == 0 {
		t.Fatal("expected at least one tick")
	}
	if uint64(calls) != d.Ticks() {
		t.Fatalf("tick count mismatch: calls=%d ticks=%d", calls, d.Ticks())
	}
}

func TestDriverReadsClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	ctx, cancel := context.WithCancel(context.Background())

	const step = 15 * time.Millisecond
	var seen []time.Time
	d := NewDriver(time.Millisecond, clock, func(now time.Time) {
		if len(seen) == 3 {
			return
		}
		seen = append(seen, now)
		if len(seen) == 3 {
			cancel()
			return
		}
		clock.Step(step)
	})
	if err := d.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i, now := range seen {
		if want := start.Add(time.Duration(i) * step); !now.Equal(want) {
			t.Errorf("tick %d: got %v, want %v", i, now, want)
		}
	}
}
