// Package session assembles a breakout world, its systems and collaborators
// and drives them from a single tick goroutine.
package session

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/system"
	"github.com/lixenwraith/breakout/wire"
)

// Session owns one game: world, bus, systems and the inbound network queue
// All methods except Queue must be called from the tick goroutine
type Session struct {
	id      string
	cfg     config.Config
	res     *engine.Resource
	world   *engine.World
	systems *system.Set
	queue   *event.EventQueue

	running bool
	started time.Time

	// Authority: spawn slot per joined peer, -1 for spectators
	players map[core.PeerID]int
	slots   [parameter.MaxPlayers]bool
}

// Summary describes a finished session for persistence
type Summary struct {
	ID      string
	Role    core.Role
	Score   float64
	Display int
	Blocks  int // Destroyed this session
	Started time.Time
	Ended   time.Time
}

// Option configures a Session at construction
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.res.Logger = l
		}
	}
}

// WithStatus shares a telemetry registry
func WithStatus(r *status.Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.res.Status = r
		}
	}
}

// WithEffects sets the visual effect provider
func WithEffects(p engine.EffectPlayer) Option {
	return func(s *Session) {
		if p != nil {
			s.res.Effects = p
		}
	}
}

// WithSound sets the audio provider
func WithSound(p engine.SoundPlayer) Option {
	return func(s *Session) {
		if p != nil {
			s.res.Sound = p
		}
	}
}

// New validates cfg and builds a stopped session
// A nil transport selects an offline session
func New(cfg config.Config, transport engine.Transport, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	role, err := cfg.SessionRole()
	if err != nil {
		return nil, err
	}
	if transport == nil {
		transport = engine.LocalTransport{}
	}
	if transport.IsAuthority() != role.IsAuthority() {
		return nil, core.Errorf(core.CodeConfiguration, "transport authority does not match role %s", role)
	}

	layout, err := system.LayoutFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := system.BuildGrid(layout); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	local := core.NoPeer
	if role == core.RoleAuthorityObserver {
		local = core.AuthorityPeer
	}

	s := &Session{
		cfg:     cfg,
		queue:   event.NewEventQueue(),
		players: make(map[core.PeerID]int),
	}
	s.res = &engine.Resource{
		Time:      &engine.TimeResource{},
		Config:    &s.cfg,
		Role:      role,
		Local:     local,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Rand:      rand.New(rand.NewSource(seed)),
		Tasks:     engine.NewTaskScheduler(),
		Status:    status.NewRegistry(),
		Transport: transport,
		Effects:   engine.NopEffects{},
		Sound:     engine.NopSound{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.res.Bus = event.NewBus(s.res.Logger)
	s.res.Status.SetLabel(status.KeyRole, role.String())

	if role.IsAuthority() {
		s.id = uuid.NewString()
	}

	s.world = engine.NewWorld(s.res)
	s.world.SetArena(cfg.ArenaWidth, cfg.ArenaHeight, parameter.WallThickness)
	s.systems = system.NewSet(s.world, layout)
	s.systems.Init()
	engine.SubscribeSystems(s.res.Bus, s.world.Systems())

	return s, nil
}

// ID returns the session id; observers learn it from the authority
func (s *Session) ID() string { return s.id }

// Queue returns the inbound queue network services push into
func (s *Session) Queue() *event.EventQueue { return s.queue }

// Resource exposes the injected session resources
func (s *Session) Resource() *engine.Resource { return s.res }

// World exposes the simulation world
func (s *Session) World() *engine.World { return s.world }

// Systems exposes the system roster
func (s *Session) Systems() *system.Set { return s.systems }

// Bus returns the session event bus
func (s *Session) Bus() *event.Bus { return s.res.Bus }

// Running reports whether gameplay is active
func (s *Session) Running() bool { return s.running }

// Start begins gameplay: the authority spawns the grid, a host also spawns its own player
func (s *Session) Start(now time.Time) error {
	if s.running {
		return nil
	}
	if s.res.Time.Now.IsZero() {
		s.res.Time.Update(now)
	}

	s.systems.Score.Reset()
	s.systems.Score.SetActive(true)
	s.running = true
	s.started = now

	if s.res.IsAuthority() {
		if err := s.systems.Spawn.Spawn(); err != nil {
			s.running = false
			return err
		}
		if s.res.IsObserver() {
			s.AddPlayer(core.AuthorityPeer)
		}
		if s.world.Paddles.CountEntities() > 0 {
			if err := s.systems.Paddle.Bind(); err != nil {
				s.res.Logger.Warn("paddle binding incomplete", "error", err)
			}
		}
		s.res.Broadcast(&wire.SessionState{SessionID: s.id, Active: true})
	}

	s.res.Logger.Info("session started", "id", s.id, "role", s.res.Role)
	s.res.Publish(event.EventSessionStart, &event.SessionPayload{SessionID: s.id})
	return nil
}

// Stop ends gameplay, zeroes the score and returns the summary
func (s *Session) Stop(now time.Time) Summary {
	sum := Summary{
		ID:      s.id,
		Role:    s.res.Role,
		Score:   s.systems.Score.Total(),
		Display: s.systems.Score.Display(),
		Blocks:  len(s.world.Tombstones()),
		Started: s.started,
		Ended:   now,
	}
	if !s.running {
		return sum
	}

	s.running = false
	s.systems.Ball.RestAll()
	s.systems.Score.SetActive(false)
	s.systems.Score.Reset()
	if s.res.IsAuthority() {
		s.res.Broadcast(&wire.SessionState{SessionID: s.id, Active: false})
	}

	s.res.Logger.Info("session stopped", "id", s.id, "score", sum.Display)
	s.res.Publish(event.EventSessionStop, &event.SessionPayload{SessionID: s.id, Score: sum.Score})
	return sum
}

// Tick runs one simulation frame: inbound messages, local input, timed effects, systems
// A stopped session still drains its queue but does not simulate
func (s *Session) Tick(now time.Time, in engine.InputFrame) {
	s.res.Time.Update(now)
	s.res.Status.Count(status.KeyTicks, 1)

	s.queue.Drain(s.handleQueued)
	if !s.running {
		return
	}

	if s.res.Local != core.NoPeer {
		s.systems.Paddle.SetInput(s.res.Local, in.Horizontal)
		if in.Launch {
			s.systems.Ball.RequestLaunch(s.res.Local)
		}
	}

	s.res.Tasks.Tick(now)
	s.world.Update()
}

// Accept routes a contributed collaborator into the session
// Matches service.ResourcePublisher
func (s *Session) Accept(resource any) {
	if p, ok := resource.(engine.EffectPlayer); ok {
		s.res.Effects = p
	}
	if p, ok := resource.(engine.SoundPlayer); ok {
		s.res.Sound = p
	}
	if t, ok := resource.(engine.Transport); ok {
		if t.IsAuthority() != s.res.IsAuthority() {
			s.res.Logger.Error("transport role mismatch", "authority", t.IsAuthority())
			return
		}
		s.res.Transport = t
	}
}
