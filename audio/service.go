package audio

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/service"
)

// Service wraps Player as a hub-managed service
// Handles graceful degradation when no audio backend is available
type Service struct {
	player   *Player
	logger   *slog.Logger
	disabled atomic.Bool
}

// NewService creates a new audio service
func NewService() *Service {
	return &Service{logger: slog.Default()}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: *config.Config (optional)
// args[1]: *slog.Logger (optional)
// An incomplete clip bank fails init; a disabled config only mutes the service
func (s *Service) Init(args ...any) error {
	cfg := config.Default()
	if len(args) > 0 {
		if c, ok := args[0].(*config.Config); ok && c != nil {
			cfg = *c
		}
	}
	if len(args) > 1 {
		if l, ok := args[1].(*slog.Logger); ok && l != nil {
			s.logger = l
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s.player = NewPlayer(DefaultBank(), seed)
	if err := s.player.Validate(); err != nil {
		return err
	}

	if !cfg.AudioEnabled {
		s.disabled.Store(true)
	}
	return nil
}

// Start implements service.Service
// A missing output device disables the service instead of failing the hub
func (s *Service) Start() error {
	if s.disabled.Load() || s.player == nil {
		return nil
	}
	if err := s.player.Start(); err != nil {
		s.logger.Warn("audio disabled", "error", err)
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.player != nil {
		s.player.Close()
	}
	return nil
}

// Contribute implements service.ResourceContributor
// Publishes the player as the session sound provider when audio is running
func (s *Service) Contribute(publish service.ResourcePublisher) {
	if s.disabled.Load() || s.player == nil {
		return
	}
	publish(s.player)
}

// Player returns the underlying player, nil before Init
func (s *Service) Player() *Player {
	return s.player
}
