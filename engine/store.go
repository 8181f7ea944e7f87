package engine

import (
	"slices"
	"sync"

	"github.com/lixenwraith/breakout/core"
)

// Store holds one component type keyed by entity
// Entities are kept sorted so every peer iterates blocks, balls and paddles in the same order
type Store[T any] struct {
	mu       sync.RWMutex
	values   map[core.Entity]T
	entities []core.Entity // Ascending
}

// NewStore creates an empty store
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		values:   make(map[core.Entity]T),
		entities: make([]core.Entity, 0, 64),
	}
}

// SetComponent inserts or replaces the component of e
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[e]; !exists {
		// Entity ids grow monotonically, so this is almost always an append
		i, _ := slices.BinarySearch(s.entities, e)
		s.entities = slices.Insert(s.entities, i, e)
	}
	s.values[e] = val
}

// GetComponent returns the component of e
func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[e]
	return val, ok
}

// RemoveEntity drops the component of e, reporting whether it was present
func (s *Store[T]) RemoveEntity(e core.Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[e]; !exists {
		return false
	}
	delete(s.values, e)
	if i, found := slices.BinarySearch(s.entities, e); found {
		s.entities = slices.Delete(s.entities, i, i+1)
	}
	return true
}

// RemoveBatch drops several entities with one compaction, returning how many were present
func (s *Store[T]) RemoveBatch(entities []core.Entity) int {
	if len(entities) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, e := range entities {
		if _, exists := s.values[e]; exists {
			delete(s.values, e)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	s.entities = slices.DeleteFunc(s.entities, func(e core.Entity) bool {
		_, kept := s.values[e]
		return !kept
	})
	return removed
}

// HasEntity reports whether e has this component
func (s *Store[T]) HasEntity(e core.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[e]
	return ok
}

// All returns a copy of the entities in ascending id order
func (s *Store[T]) All() []core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entities)
}

// CountEntities returns the number of entities with this component
func (s *Store[T]) CountEntities() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
