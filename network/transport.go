package network

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/breakout/core"
)

const (
	acceptBackoffMin = 5 * time.Millisecond
	acceptBackoffMax = time.Second
)

// Transport owns the listener or the outbound connection for one network role
type Transport struct {
	config *Config
	logger *slog.Logger
	peers  *PeerManager

	listener net.Listener
	running  atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewTransport creates an idle transport
func NewTransport(cfg *Config, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		config: cfg,
		logger: logger,
		peers:  NewPeerManager(cfg, logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetHandlers forwards peer callbacks; they run on I/O goroutines
func (t *Transport) SetHandlers(onConnect, onDisconnect func(PeerID), onMessage func(PeerID, *Message)) {
	t.peers.SetHandlers(onConnect, onDisconnect, onMessage)
}

// Start listens on accepting roles and dials the authority on joining roles
func (t *Transport) Start() error {
	if !t.running.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	switch t.config.Role {
	case RoleServer, RoleHost:
		err = t.listen()
	case RoleClient, RolePeer:
		err = t.connect()
	}
	if err != nil {
		t.running.Store(false)
	}
	return err
}

func (t *Transport) listen() error {
	var lc net.ListenConfig
	ln, err := lc.Listen(t.ctx, "tcp", t.config.Address)
	if err != nil {
		return core.Wrap(core.CodeConfiguration, "listen "+t.config.Address, err)
	}
	if t.config.TLS != nil {
		ln = tls.NewListener(ln, t.config.TLS)
	}
	t.listener = ln

	t.wg.Add(1)
	core.Go(func() {
		defer t.wg.Done()
		t.acceptLoop(ln)
	})
	return nil
}

// acceptLoop admits peers until the listener closes; transient errors back off
func (t *Transport) acceptLoop(ln net.Listener) {
	backoff := acceptBackoffMin
	for {
		conn, err := ln.Accept()
		if err != nil {
			if t.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			t.logger.Warn("accept failed", "error", err, "retry", backoff)
			select {
			case <-t.ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, acceptBackoffMax)
			continue
		}
		backoff = acceptBackoffMin

		if _, err := t.peers.AddConnection(conn); err != nil {
			t.logger.Warn("connection rejected", "remote", conn.RemoteAddr().String(), "error", err)
		}
	}
}

func (t *Transport) connect() error {
	ctx, cancel := context.WithTimeout(t.ctx, t.config.ConnectTimeout)
	defer cancel()

	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", t.config.Address)
	if err != nil {
		return core.Wrap(core.CodeConfiguration, "dial "+t.config.Address, err)
	}
	if t.config.TLS != nil {
		tc := tls.Client(conn, t.config.TLS)
		if err := tc.HandshakeContext(ctx); err != nil {
			conn.Close()
			return core.Wrap(core.CodeConfiguration, "tls handshake", err)
		}
		conn = tc
	}

	if _, err := t.peers.AddConnection(conn); err != nil {
		return err
	}
	return nil
}

// AttachConn registers an established connection such as one end of net.Pipe
func (t *Transport) AttachConn(conn net.Conn) (PeerID, error) {
	t.running.Store(true)
	return t.peers.AddConnection(conn)
}

// Addr returns the bound address, nil unless listening
func (t *Transport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Stop closes the listener and every peer, then waits for their goroutines
func (t *Transport) Stop() error {
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}
	t.cancel()
	if t.listener != nil {
		t.listener.Close()
	}
	t.peers.Close()
	t.wg.Wait()
	return nil
}

func (t *Transport) Send(id PeerID, msg *Message) bool { return t.peers.Send(id, msg) }
func (t *Transport) Broadcast(msg *Message)            { t.peers.Broadcast(msg) }
func (t *Transport) PeerCount() int                    { return t.peers.PeerCount() }
func (t *Transport) IsRunning() bool                   { return t.running.Load() }
