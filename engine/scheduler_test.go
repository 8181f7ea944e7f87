package engine

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTaskSchedulerProgressAndCompletion(t *testing.T) {
	s := NewTaskScheduler()
	var progress []float64
	var total time.Duration
	done := 0

	s.Schedule(0, epoch, 100*time.Millisecond,
		func(p float64, dt time.Duration) {
			progress = append(progress, p)
			total += dt
		},
		func(time.Time) { done++ },
	)

	s.Tick(epoch.Add(50 * time.Millisecond))
	if done != 0 {
		t.Fatal("completed early")
	}
	s.Tick(epoch.Add(150 * time.Millisecond))
	if done != 1 {
		t.Fatalf("expected completion, got %d", done)
	}
	if progress[0] != 0.5 || progress[1] != 1 {
		t.Fatalf("unexpected progress %v", progress)
	}
	if total != 100*time.Millisecond {
		t.Fatalf("dt must sum to the duration, got %v", total)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no live tasks, got %d", s.Len())
	}
}

func TestTaskSchedulerChainStartsNextTick(t *testing.T) {
	s := NewTaskScheduler()
	var order []string

	s.Schedule(0, epoch, 10*time.Millisecond, nil, func(now time.Time) {
		order = append(order, "first")
		s.Schedule(0, now, 10*time.Millisecond, nil, func(time.Time) {
			order = append(order, "second")
		})
	})

	s.Tick(epoch.Add(10 * time.Millisecond))
	if len(order) != 1 || s.Len() != 1 {
		t.Fatalf("chained task must wait for the next tick: %v len=%d", order, s.Len())
	}
	s.Tick(epoch.Add(20 * time.Millisecond))
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("expected chained completion, got %v", order)
	}
}

func TestTaskSchedulerCancel(t *testing.T) {
	s := NewTaskScheduler()
	done := 0
	id := s.Schedule(0, epoch, 10*time.Millisecond, nil, func(time.Time) { done++ })
	s.Schedule(7, epoch, 10*time.Millisecond, nil, func(time.Time) { done++ })
	s.Schedule(7, epoch, 10*time.Millisecond, nil, func(time.Time) { done++ })

	if !s.Cancel(id) {
		t.Fatal("cancel by id failed")
	}
	if s.Cancel(id) {
		t.Fatal("second cancel must report false")
	}
	if n := s.CancelOwner(7); n != 2 {
		t.Fatalf("expected 2 owner cancellations, got %d", n)
	}

	s.Tick(epoch.Add(time.Second))
	if done != 0 {
		t.Fatalf("cancelled tasks must not complete, got %d", done)
	}
}
