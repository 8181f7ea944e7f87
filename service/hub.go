package service

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/lixenwraith/breakout/core"
)

// Hub owns the infrastructure services of one process
// Init and Start run in dependency order, Stop runs in reverse
type Hub struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	services map[string]Service
	order    []string // Resolved by InitAll
	started  []string
}

// NewHub creates an empty hub; a nil logger uses slog.Default
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:   logger,
		services: make(map[string]Service),
	}
}

// Register adds services; a duplicate name is a configuration error
func (h *Hub) Register(svcs ...Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, svc := range svcs {
		name := svc.Name()
		if _, exists := h.services[name]; exists {
			return core.Errorf(core.CodeConfiguration, "service %q registered twice", name)
		}
		h.services[name] = svc
	}
	h.order = nil
	return nil
}

// Get returns a registered service
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.services[name]
	return svc, ok
}

// InitAll resolves the dependency order and calls Init with args[name]
// A failure stops whatever already initialized, newest first
func (h *Hub) InitAll(args map[string][]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	for i, name := range h.order {
		if err := h.services[name].Init(args[name]...); err != nil {
			h.stopEach(h.order[:i])
			return core.Wrap(core.CodeConfiguration, "init "+name, err)
		}
	}
	return nil
}

// StartAll starts services in order, rolling back the started ones on failure
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.started = h.started[:0]
	for _, name := range h.order {
		if err := h.services[name].Start(); err != nil {
			h.stopEach(h.started)
			h.started = nil
			return core.Wrap(core.CodeConfiguration, "start "+name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops started services in reverse order; safe to call repeatedly
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopEach(h.started)
	h.started = nil
}

// Contribute lets every ResourceContributor publish into the session, in init order
func (h *Hub) Contribute(publish ResourcePublisher) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, name := range h.order {
		if c, ok := h.services[name].(ResourceContributor); ok {
			c.Contribute(publish)
		}
	}
}

// Order returns the resolved init order, empty before InitAll
func (h *Hub) Order() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.order)
}

func (h *Hub) stopEach(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		if err := h.services[names[i]].Stop(); err != nil {
			h.logger.Warn("service stop failed", "service", names[i], "error", err)
		}
	}
}

// resolve orders services depth-first by name so dependencies come first
// A cycle is reported with its path
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(h.services))
	order := make([]string, 0, len(h.services))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return core.Errorf(core.CodeConfiguration, "service dependency cycle: %s -> %s", strings.Join(path, " -> "), name)
		}

		state[name] = visiting
		path = append(path, name)
		deps := slices.Clone(h.services[name].Dependencies())
		slices.Sort(deps)
		for _, dep := range deps {
			if _, ok := h.services[dep]; !ok {
				return core.Errorf(core.CodeConfiguration, "service %s depends on unregistered %s", name, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	names := make([]string, 0, len(h.services))
	for name := range h.services {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
