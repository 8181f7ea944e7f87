package engine

import (
	"slices"
	"time"

	"github.com/lixenwraith/breakout/core"
)

// TaskID identifies a scheduled task
type TaskID uint64

// TaskUpdate receives normalized progress in [0,1] and the time since the previous update
type TaskUpdate func(progress float64, dt time.Duration)

// TaskDone runs once when a task completes, not when it is cancelled
type TaskDone func(now time.Time)

type task struct {
	id       TaskID
	owner    core.Entity
	start    time.Time
	last     time.Time
	duration time.Duration
	update   TaskUpdate
	done     TaskDone
	canceled bool
}

// TaskScheduler runs timed effects driven by the session tick
// Tasks scheduled during Tick first run on the next Tick
type TaskScheduler struct {
	nextID TaskID
	tasks  []*task
}

// NewTaskScheduler creates an empty scheduler
func NewTaskScheduler() *TaskScheduler {
	return &TaskScheduler{nextID: 1}
}

// Schedule starts a task at now lasting d; owner 0 means no owning entity
func (s *TaskScheduler) Schedule(owner core.Entity, now time.Time, d time.Duration, update TaskUpdate, done TaskDone) TaskID {
	t := &task{
		id:       s.nextID,
		owner:    owner,
		start:    now,
		last:     now,
		duration: d,
		update:   update,
		done:     done,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t.id
}

// Cancel stops a task without running its completion, returns false if unknown
func (s *TaskScheduler) Cancel(id TaskID) bool {
	for _, t := range s.tasks {
		if t.id == id && !t.canceled {
			t.canceled = true
			return true
		}
	}
	return false
}

// CancelOwner cancels every task owned by an entity, returns the count
func (s *TaskScheduler) CancelOwner(owner core.Entity) int {
	if owner == 0 {
		return 0
	}
	n := 0
	for _, t := range s.tasks {
		if t.owner == owner && !t.canceled {
			t.canceled = true
			n++
		}
	}
	return n
}

// Tick advances all tasks to now, completing those whose duration elapsed
func (s *TaskScheduler) Tick(now time.Time) {
	if len(s.tasks) == 0 {
		return
	}

	n := len(s.tasks)
	survivors := make([]*task, 0, n)

	for i := 0; i < n; i++ {
		t := s.tasks[i]
		if t.canceled {
			continue
		}

		end := t.start.Add(t.duration)
		at := now
		if at.After(end) {
			at = end
		}

		progress := 1.0
		if t.duration > 0 {
			progress = float64(at.Sub(t.start)) / float64(t.duration)
			if progress < 0 {
				progress = 0
			}
		}

		if t.update != nil {
			t.update(progress, at.Sub(t.last))
		}
		t.last = at

		if progress >= 1 {
			if t.done != nil && !t.canceled {
				t.done(now)
			}
			continue
		}
		survivors = append(survivors, t)
	}

	// Tasks scheduled by callbacks during this tick follow the survivors
	survivors = append(survivors, s.tasks[n:]...)
	s.tasks = slices.DeleteFunc(survivors, func(t *task) bool { return t.canceled })
}

// Len returns the number of live tasks
func (s *TaskScheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}
