package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/core"
)

type orderSystem struct {
	name     string
	priority int
	log      *[]string
}

func (s *orderSystem) Name() string  { return s.name }
func (s *orderSystem) Priority() int { return s.priority }
func (s *orderSystem) Init()         {}
func (s *orderSystem) Update()       { *s.log = append(*s.log, s.name) }

func TestWorldSystemPriority(t *testing.T) {
	w := NewWorld(&Resource{})
	var log []string
	w.AddSystem(&orderSystem{name: "c", priority: 30, log: &log})
	w.AddSystem(&orderSystem{name: "a", priority: 10, log: &log})
	w.AddSystem(&orderSystem{name: "b", priority: 20, log: &log})

	w.Update()
	if len(log) != 3 || log[0] != "a" || log[1] != "b" || log[2] != "c" {
		t.Fatalf("systems ran out of priority order: %v", log)
	}
}

func TestWorldBlockIndexAndTombstones(t *testing.T) {
	w := NewWorld(&Resource{Tasks: NewTaskScheduler()})
	e := w.AddBlock(component.BlockComponent{Grid: core.Point{X: 2, Y: 1}})

	got, ok := w.BlockAt(core.Point{X: 2, Y: 1})
	if !ok || got != e {
		t.Fatalf("block lookup failed: %v %v", got, ok)
	}

	w.Resource.Tasks.Schedule(e, epoch, time.Second, nil, nil)
	w.DestroyEntity(e)
	if _, ok := w.BlockAt(core.Point{X: 2, Y: 1}); ok {
		t.Fatal("destroyed block still indexed")
	}
	if w.Resource.Tasks.Len() != 0 {
		t.Fatal("owner tasks not cancelled on destroy")
	}

	if !w.Tombstone(core.Point{X: 2, Y: 1}) {
		t.Fatal("first tombstone must succeed")
	}
	if w.Tombstone(core.Point{X: 2, Y: 1}) {
		t.Fatal("second tombstone must fail")
	}
	w.Tombstone(core.Point{X: 0, Y: 0})
	ts := w.Tombstones()
	if len(ts) != 2 || ts[0] != (core.Point{X: 0, Y: 0}) {
		t.Fatalf("unexpected tombstone order %v", ts)
	}
}

func TestStoreAllSorted(t *testing.T) {
	s := NewStore[int]()
	s.SetComponent(5, 0)
	s.SetComponent(2, 0)
	s.SetComponent(9, 0)
	s.RemoveEntity(2)
	s.SetComponent(1, 0)

	all := s.All()
	want := []core.Entity{1, 5, 9}
	if len(all) != len(want) {
		t.Fatalf("expected %v, got %v", want, all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, all)
		}
	}
}

func TestStoreRemoveBatch(t *testing.T) {
	s := NewStore[string]()
	for e := core.Entity(1); e <= 6; e++ {
		s.SetComponent(e, "x")
	}

	if n := s.RemoveBatch([]core.Entity{2, 4, 4, 42}); n != 2 {
		t.Fatalf("removed %d, want 2", n)
	}
	if n := s.RemoveBatch(nil); n != 0 {
		t.Fatalf("empty batch removed %d", n)
	}

	all := s.All()
	want := []core.Entity{1, 3, 5, 6}
	if len(all) != len(want) || s.CountEntities() != len(want) {
		t.Fatalf("expected %v, got %v", want, all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, all)
		}
	}
	if s.HasEntity(4) {
		t.Fatal("batch-removed entity still present")
	}
}

func TestWorldClearBlocks(t *testing.T) {
	w := NewWorld(&Resource{Tasks: NewTaskScheduler()})
	a := w.AddBlock(component.BlockComponent{Grid: core.Point{X: 0, Y: 0}})
	w.AddBlock(component.BlockComponent{Grid: core.Point{X: 1, Y: 0}})
	w.Tombstone(core.Point{X: 2, Y: 0})
	w.Resource.Tasks.Schedule(a, epoch, time.Second, nil, nil)

	w.ClearBlocks()

	if n := w.Blocks.CountEntities(); n != 0 {
		t.Fatalf("%d blocks left", n)
	}
	if _, ok := w.BlockAt(core.Point{X: 0, Y: 0}); ok {
		t.Fatal("cleared block still indexed")
	}
	if len(w.Tombstones()) != 0 {
		t.Fatal("tombstones survived clear")
	}
	if w.Resource.Tasks.Len() != 0 {
		t.Fatal("block tasks not cancelled")
	}
}

func TestOutOfBounds(t *testing.T) {
	w := NewWorld(&Resource{})
	w.SetArena(20, 10, 1)
	if w.OutOfBounds(core.Vec2{X: 5, Y: 0.2}, 0.4) {
		t.Error("ball touching the floor is still in play")
	}
	if !w.OutOfBounds(core.Vec2{X: 5, Y: -0.5}, 0.4) {
		t.Error("ball below the floor must be out of bounds")
	}
	if len(w.Walls) != 3 {
		t.Errorf("expected 3 walls, got %d", len(w.Walls))
	}
}
