package status

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"
)

// Gauge is a float64 read and written atomically
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }
func (g *Gauge) Get() float64  { return math.Float64frombits(g.bits.Load()) }

// Label is a string read and written atomically
type Label struct {
	v atomic.Pointer[string]
}

func (l *Label) Store(s string) { l.v.Store(&s) }

func (l *Label) Load() string {
	if p := l.v.Load(); p != nil {
		return *p
	}
	return ""
}

// Metrics maps keys to lazily allocated values of T
// Pointers are stable, so hot paths may cache them
type Metrics[T any] struct {
	mu    sync.RWMutex
	items map[Key]*T
}

func newMetrics[T any]() *Metrics[T] {
	return &Metrics[T]{items: make(map[Key]*T)}
}

// Get returns the value for key, allocating it on first use
func (m *Metrics[T]) Get(key Key) *T {
	m.mu.RLock()
	p, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[key]; ok {
		return p
	}
	p = new(T)
	m.items[key] = p
	return p
}

// Len returns the number of allocated keys
func (m *Metrics[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// each visits values in key order
func (m *Metrics[T]) each(fn func(Key, *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]Key, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fn(k, m.items[k])
	}
}
