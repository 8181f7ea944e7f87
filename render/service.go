package render

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/service"
	"github.com/lixenwraith/breakout/status"
)

// Service manages the screen lifecycle and the input polling goroutine
type Service struct {
	screen   tcell.Screen
	terminal *Terminal
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	doneCh  chan struct{}
}

// NewService creates a new render service
func NewService() *Service {
	return &Service{logger: slog.Default()}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "render"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: *status.Registry (optional, enables the metrics overlay)
// args[1]: *slog.Logger (optional)
// args[2]: tcell.Screen (optional, defaults to the real terminal)
func (s *Service) Init(args ...any) error {
	var reg *status.Registry
	if len(args) > 0 {
		reg, _ = args[0].(*status.Registry)
	}
	if len(args) > 1 {
		if l, ok := args[1].(*slog.Logger); ok && l != nil {
			s.logger = l
		}
	}
	if len(args) > 2 {
		s.screen, _ = args[2].(tcell.Screen)
	}

	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal init: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.screen.HideCursor()
	core.SetCrashHook(s.screen.Fini)

	s.terminal = NewTerminal(s.screen, reg)
	return nil
}

// Start implements service.Service, launching the input poll loop
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.screen == nil {
		return nil
	}
	s.running = true
	s.doneCh = make(chan struct{})

	core.Go(s.pollLoop)
	return nil
}

// pollLoop feeds screen events to the terminal until the screen is finalized
func (s *Service) pollLoop() {
	defer close(s.doneCh)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		s.terminal.HandleEvent(ev)
	}
}

// Stop implements service.Service, restoring the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen == nil {
		return nil
	}

	s.screen.Fini()
	if s.running {
		<-s.doneCh
		s.running = false
	}
	s.screen = nil
	core.SetCrashHook(nil)
	return nil
}

// Contribute implements service.ResourceContributor
// Publishes the terminal as the session effect player
func (s *Service) Contribute(publish service.ResourcePublisher) {
	if s.terminal != nil {
		publish(s.terminal)
	}
}

// Terminal returns the terminal, nil before Init
func (s *Service) Terminal() *Terminal {
	return s.terminal
}
