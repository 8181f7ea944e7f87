package network

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/wire"
)

func TestMessageFraming(t *testing.T) {
	var buf bytes.Buffer
	in := &Message{Type: MessageType(wire.KindScoreUpdate), Flags: FlagNeedAck, Seq: 7, Ack: 3, Payload: []byte{1, 2, 3}}
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() != HeaderSize+3 {
		t.Fatalf("expected %d bytes, got %d", HeaderSize+3, buf.Len())
	}

	out, err := ReadMessage(&buf, make([]byte, HeaderSize))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Type != in.Type || out.Flags != in.Flags || out.Seq != 7 || out.Ack != 3 || !bytes.Equal(out.Payload, in.Payload) {
		t.Fatalf("mismatch: %+v", out)
	}
	if !out.Type.IsGame() {
		t.Fatal("score update must be a game message")
	}
}

func TestMessageTooLarge(t *testing.T) {
	m := NewMessage(MsgHeartbeat, make([]byte, 70000))
	if err := m.Encode(&bytes.Buffer{}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestMessageVersionMismatch(t *testing.T) {
	frame, err := NewMessage(MsgHeartbeat, nil).AppendFrame(nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	frame[0] = ProtocolVersion + 1
	if _, err := ReadMessage(bytes.NewReader(frame), make([]byte, HeaderSize)); !errors.Is(err, ErrVersion) {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestOversizedFrameIsDroppedNotFatal(t *testing.T) {
	_, obs, authQ, _ := pipePair(t)
	waitEvents(t, authQ, event.EventNetworkConnect, 1)

	big := NewMessage(MessageType(wire.KindScoreUpdate), make([]byte, MaxPayload+1))
	if !obs.transport.Send(PeerID(obs.authorityPeer.Load()), big) {
		t.Fatal("queue rejected frame")
	}
	note := &wire.ScoreUpdate{Total: 1}
	if !obs.SendToAuthority(uint8(note.Kind()), note.Marshal()) {
		t.Fatal("observer lost its authority connection")
	}

	got := waitEvents(t, authQ, event.EventNetworkMessage, 1)
	if p := got[0].Payload.(*event.NetworkMessagePayload); len(p.Payload) > MaxPayload {
		t.Fatal("oversized frame delivered")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg := DefaultConfig()
	cfg.HeartbeatInterval = cfg.ReadTimeout
	if err := cfg.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("heartbeat >= read timeout accepted: %v", err)
	}
	cfg = DefaultConfig()
	cfg.MaxPeers = 0
	if err := cfg.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("zero max peers accepted: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BREAKOUT_NET_SEND_QUEUE", "32")
	t.Setenv("BREAKOUT_NET_READ_TIMEOUT", "45s")
	cfg, err := LoadConfig(RoleClient, "127.0.0.1:9000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SendQueueSize != 32 || cfg.ReadTimeout != 45*time.Second {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Role != RoleClient || cfg.Address != "127.0.0.1:9000" || cfg.ConnectTimeout != 5*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestRoleMapping(t *testing.T) {
	cases := map[string]core.Role{
		"server": core.RoleAuthority,
		"host":   core.RoleAuthorityObserver,
		"local":  core.RoleAuthorityObserver,
		"client": core.RoleObserver,
	}
	for name, want := range cases {
		r, err := ParseRole(name)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		if got := r.SessionRole(); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}
	if _, err := ParseRole("mesh"); err == nil {
		t.Error("expected error for unknown role")
	}
}

// waitEvents drains q until n events of type et arrive or the deadline passes
func waitEvents(t *testing.T, q *event.EventQueue, et event.EventType, n int) []event.GameEvent {
	t.Helper()
	var got []event.GameEvent
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		q.Drain(func(ev event.GameEvent) {
			if ev.Type == et {
				got = append(got, ev)
			}
		})
		if len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d %s events, got %d", n, et, len(got))
	return nil
}

func pipePair(t *testing.T) (auth, obs *Service, authQ, obsQ *event.EventQueue) {
	t.Helper()
	auth, obs = NewService(), NewService()
	if err := auth.Init(DebugConfig(RoleHost, "")); err != nil {
		t.Fatalf("init authority: %v", err)
	}
	if err := obs.Init(DebugConfig(RoleClient, "")); err != nil {
		t.Fatalf("init observer: %v", err)
	}
	authQ, obsQ = event.NewEventQueue(), event.NewEventQueue()
	auth.SetEventQueue(authQ)
	obs.SetEventQueue(obsQ)

	a, b := net.Pipe()
	if _, err := auth.AttachConn(a); err != nil {
		t.Fatalf("attach authority: %v", err)
	}
	if _, err := obs.AttachConn(b); err != nil {
		t.Fatalf("attach observer: %v", err)
	}
	t.Cleanup(func() {
		_ = obs.Stop()
		_ = auth.Stop()
	})
	return auth, obs, authQ, obsQ
}

func TestServiceRequestAndBroadcast(t *testing.T) {
	auth, obs, authQ, obsQ := pipePair(t)

	connects := waitEvents(t, authQ, event.EventNetworkConnect, 1)
	peer := core.PeerID(connects[0].Payload.(*event.NetworkConnectPayload).PeerID)

	req := &wire.DestroyRequest{Grid: core.Point{X: 2, Y: 1}}
	if !obs.SendToAuthority(uint8(req.Kind()), req.Marshal()) {
		t.Fatal("observer failed to send request")
	}
	got := waitEvents(t, authQ, event.EventNetworkMessage, 1)
	p := got[0].Payload.(*event.NetworkMessagePayload)
	if core.PeerID(p.PeerID) != peer || wire.Kind(p.MsgType) != wire.KindDestroyRequest {
		t.Fatalf("unexpected message %+v", p)
	}
	m, err := wire.Decode(wire.Kind(p.MsgType), p.Payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.(*wire.DestroyRequest).Grid != req.Grid {
		t.Fatalf("grid mismatch: %+v", m)
	}

	// Authority never sends to itself, observers never broadcast
	if auth.SendToAuthority(uint8(req.Kind()), req.Marshal()) {
		t.Fatal("authority must not send to authority")
	}

	note := &wire.ScoreUpdate{Total: 150}
	auth.BroadcastToObservers(uint8(note.Kind()), note.Marshal())
	got = waitEvents(t, obsQ, event.EventNetworkMessage, 1)
	p = got[0].Payload.(*event.NetworkMessagePayload)
	if wire.Kind(p.MsgType) != wire.KindScoreUpdate {
		t.Fatalf("expected score update, got %s", wire.Kind(p.MsgType))
	}
}

func TestServiceDisconnect(t *testing.T) {
	auth, obs, authQ, _ := pipePair(t)
	waitEvents(t, authQ, event.EventNetworkConnect, 1)

	_ = obs.Stop()
	waitEvents(t, authQ, event.EventNetworkDisconnect, 1)
	if auth.PeerCount() != 0 {
		t.Fatalf("expected no peers, got %d", auth.PeerCount())
	}
}

func TestServiceOverTCP(t *testing.T) {
	auth, obs := NewService(), NewService()
	if err := auth.Init(DebugConfig(RoleServer, "127.0.0.1:0")); err != nil {
		t.Fatalf("init server: %v", err)
	}
	authQ := event.NewEventQueue()
	auth.SetEventQueue(authQ)
	if err := auth.Start(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = auth.Stop() })

	addr := auth.Addr()
	if addr == nil {
		t.Fatal("server has no bound address")
	}
	if err := obs.Init(DebugConfig(RoleClient, addr.String())); err != nil {
		t.Fatalf("init client: %v", err)
	}
	obsQ := event.NewEventQueue()
	obs.SetEventQueue(obsQ)
	if err := obs.Start(); err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = obs.Stop() })

	waitEvents(t, authQ, event.EventNetworkConnect, 1)
	waitEvents(t, obsQ, event.EventNetworkConnect, 1)

	req := &wire.LaunchRequest{Owner: 1}
	if !obs.SendToAuthority(uint8(req.Kind()), req.Marshal()) {
		t.Fatal("client failed to send")
	}
	got := waitEvents(t, authQ, event.EventNetworkMessage, 1)
	if k := wire.Kind(got[0].Payload.(*event.NetworkMessagePayload).MsgType); k != wire.KindLaunchRequest {
		t.Fatalf("expected launch request, got %s", k)
	}

	if err := auth.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	waitEvents(t, obsQ, event.EventNetworkDisconnect, 1)
}

func TestServiceDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	cfg := DebugConfig(RoleClient, addr)
	cfg.ConnectTimeout = 500 * time.Millisecond
	svc := NewService()
	if err := svc.Init(cfg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := svc.Start(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if svc.IsRunning() {
		t.Fatal("failed dial left transport running")
	}
}
