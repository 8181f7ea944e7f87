package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/lixenwraith/breakout/session"
)

// Service owns the record store for the process lifetime
// An empty path disables persistence
type Service struct {
	path   string
	store  *Store
	logger *slog.Logger
}

// NewService creates a disabled store service
func NewService() *Service {
	return &Service{logger: slog.Default()}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "store"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: string database path (empty disables the store)
// args[1]: *slog.Logger (optional)
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		s.path, _ = args[0].(string)
	}
	if len(args) > 1 {
		if l, ok := args[1].(*slog.Logger); ok && l != nil {
			s.logger = l
		}
	}
	if s.path == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := Open(ctx, s.path)
	if err != nil {
		return err
	}
	s.store = st
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// Enabled reports whether records are persisted
func (s *Service) Enabled() bool {
	return s.store != nil
}

// Store returns the open store, nil when disabled
func (s *Service) Store() *Store {
	return s.store
}

// Record persists a summary and logs the outcome; a disabled service ignores it
func (s *Service) Record(ctx context.Context, sum session.Summary) {
	if s.store == nil {
		return
	}
	if err := s.store.RecordSession(ctx, sum); err != nil {
		s.logger.Warn("session record failed", "id", sum.ID, "error", err)
		return
	}
	s.logger.Info("session recorded", "id", sum.ID, "score", sum.Display, "blocks", sum.Blocks)
}
