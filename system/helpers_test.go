package system

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/wire"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeTransport struct {
	authority   bool
	toAuthority []wire.Message
	broadcast   []wire.Message
	direct      map[core.PeerID][]wire.Message
}

func (f *fakeTransport) SendToAuthority(t uint8, payload []byte) bool {
	f.toAuthority = append(f.toAuthority, mustDecode(t, payload))
	return true
}

func (f *fakeTransport) BroadcastToObservers(t uint8, payload []byte) {
	f.broadcast = append(f.broadcast, mustDecode(t, payload))
}

func (f *fakeTransport) SendTo(peer core.PeerID, t uint8, payload []byte) bool {
	if f.direct == nil {
		f.direct = make(map[core.PeerID][]wire.Message)
	}
	f.direct[peer] = append(f.direct[peer], mustDecode(t, payload))
	return true
}

func (f *fakeTransport) IsAuthority() bool { return f.authority }

func mustDecode(t uint8, payload []byte) wire.Message {
	m, err := wire.Decode(wire.Kind(t), payload)
	if err != nil {
		panic(err)
	}
	return m
}

func messagesOf[T wire.Message](msgs []wire.Message) []T {
	var out []T
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

type recordingEffects struct {
	played []engine.Effect
	err    error
}

func (r *recordingEffects) PlayEffect(fx engine.Effect) error {
	r.played = append(r.played, fx)
	return r.err
}

type recordingSound struct {
	played []string
	err    error
}

func (r *recordingSound) Play(category string, _ float64) error {
	r.played = append(r.played, category)
	return r.err
}

type eventCounter struct {
	counts map[event.EventType]int
	last   map[event.EventType]event.GameEvent
}

func (c *eventCounter) HandleEvent(ev event.GameEvent) error {
	c.counts[ev.Type]++
	c.last[ev.Type] = ev
	return nil
}

type rig struct {
	world   *engine.World
	res     *engine.Resource
	tr      *fakeTransport
	set     *Set
	effects *recordingEffects
	sounds  *recordingSound
	events  *eventCounter
}

// newRig builds a world with every system for role; mutate adjusts the default config
func newRig(t *testing.T, role core.Role, mutate func(*config.Config)) *rig {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr := &fakeTransport{authority: role.IsAuthority()}
	effects := &recordingEffects{}
	sounds := &recordingSound{}

	local := core.NoPeer
	switch role {
	case core.RoleAuthorityObserver:
		local = core.AuthorityPeer
	case core.RoleObserver:
		local = 1
	}

	res := &engine.Resource{
		Time:      &engine.TimeResource{},
		Config:    &cfg,
		Role:      role,
		Local:     local,
		Bus:       event.NewBus(logger),
		Logger:    logger,
		Rand:      rand.New(rand.NewSource(7)),
		Tasks:     engine.NewTaskScheduler(),
		Status:    status.NewRegistry(),
		Transport: tr,
		Effects:   effects,
		Sound:     sounds,
	}
	res.Time.Update(epoch)

	world := engine.NewWorld(res)
	world.SetArena(cfg.ArenaWidth, cfg.ArenaHeight, parameter.WallThickness)

	layout, err := LayoutFromConfig(cfg)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	set := NewSet(world, layout)
	set.Init()
	engine.SubscribeSystems(res.Bus, world.Systems())

	counter := &eventCounter{
		counts: make(map[event.EventType]int),
		last:   make(map[event.EventType]event.GameEvent),
	}
	for et := event.EventSessionStart; et <= event.EventNetworkMessage; et++ {
		res.Bus.Subscribe(et, counter)
	}

	return &rig{
		world:   world,
		res:     res,
		tr:      tr,
		set:     set,
		effects: effects,
		sounds:  sounds,
		events:  counter,
	}
}

// tick advances time by d and runs tasks and systems once
func (r *rig) tick(d time.Duration) {
	r.res.Time.Update(r.res.Time.Now.Add(d))
	r.res.Tasks.Tick(r.res.Time.Now)
	r.world.Update()
}

// player spawns a paddle and ball for owner and binds them
func (r *rig) player(t *testing.T, owner core.PeerID, slot int) (paddle, ball core.Entity) {
	t.Helper()
	paddle = r.set.Paddle.Spawn(owner, slot)
	ball = r.set.Ball.Spawn(owner, paddle)
	if err := r.set.Paddle.BindPaddle(paddle); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return paddle, ball
}
