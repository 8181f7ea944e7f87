package network

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/breakout/core"
)

// PeerID identifies a connection; on the authority it is also the remote player's session peer id
type PeerID = core.PeerID

// ErrMaxPeers rejects a connection beyond Config.MaxPeers
var ErrMaxPeers = errors.New("max peers reached")

// Peer is one framed connection with its read and write goroutines
type Peer struct {
	ID   PeerID
	Addr string

	conn     net.Conn
	config   *Config
	sendCh   chan *Message
	outSeq   atomic.Uint32
	inSeq    atomic.Uint32 // Highest sequence received
	lastSeen atomic.Int64  // UnixNano

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(id PeerID, conn net.Conn, cfg *Config) *Peer {
	p := &Peer{
		ID:     id,
		Addr:   conn.RemoteAddr().String(),
		conn:   conn,
		config: cfg,
		sendCh: make(chan *Message, cfg.SendQueueSize),
		done:   make(chan struct{}),
	}
	p.lastSeen.Store(time.Now().UnixNano())
	return p
}

// Send stamps and queues msg; false when the peer is closed or its queue is full
func (p *Peer) Send(msg *Message) bool {
	if p.closed.Load() {
		return false
	}
	msg.Seq = p.outSeq.Add(1)
	msg.Ack = p.inSeq.Load()

	select {
	case p.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Close shuts the connection; safe to call more than once
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.done)
		p.conn.Close()
	})
}

// Done is closed once the peer shuts down
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// LastSeen is when the last frame arrived
func (p *Peer) LastSeen() time.Time {
	return time.Unix(0, p.lastSeen.Load())
}

// readLoop delivers game frames to handler until the connection fails
// A peer silent for ReadTimeout is dropped; heartbeats keep idle peers alive
func (p *Peer) readLoop(handler func(PeerID, *Message), logger *slog.Logger) {
	defer p.Close()

	reader := bufio.NewReaderSize(p.conn, p.config.ReadBufferSize)
	header := make([]byte, HeaderSize)
	for {
		if p.config.ReadTimeout > 0 {
			_ = p.conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))
		}
		msg, err := ReadMessage(reader, header)
		if err != nil {
			if errors.Is(err, ErrVersion) {
				logger.Warn("peer speaks another protocol", "peer", p.ID, "addr", p.Addr, "error", err)
			} else if !p.closed.Load() {
				logger.Debug("peer read ended", "peer", p.ID, "error", err)
			}
			return
		}
		p.lastSeen.Store(time.Now().UnixNano())
		p.observeSeq(msg.Seq)

		switch {
		case msg.Type == MsgHeartbeat || msg.Type == MsgAck:
			continue
		case msg.Flags&FlagNeedAck != 0:
			p.Send(&Message{Type: MsgAck, Ack: msg.Seq})
		}
		handler(p.ID, msg)
	}
}

func (p *Peer) observeSeq(seq uint32) {
	for {
		cur := p.inSeq.Load()
		if seq <= cur || p.inSeq.CompareAndSwap(cur, seq) {
			return
		}
	}
}

// writeLoop batches queued frames into one write and sends heartbeats when idle
func (p *Peer) writeLoop() {
	defer p.Close()

	var heartbeat <-chan time.Time
	if p.config.HeartbeatInterval > 0 {
		ticker := time.NewTicker(p.config.HeartbeatInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	buf := make([]byte, 0, 4096)
	for {
		var msg *Message
		select {
		case <-p.done:
			return
		case <-heartbeat:
			p.Send(NewMessage(MsgHeartbeat, nil))
			continue
		case msg = <-p.sendCh:
		}

		// Oversized frames leave buf untouched and are dropped
		buf, _ = msg.AppendFrame(buf[:0])
		for more := true; more; {
			select {
			case next := <-p.sendCh:
				buf, _ = next.AppendFrame(buf)
			default:
				more = false
			}
		}
		if len(buf) == 0 {
			continue
		}

		if p.config.WriteTimeout > 0 {
			_ = p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
		}
		if _, err := p.conn.Write(buf); err != nil {
			return
		}
	}
}

// PeerManager tracks live peers and fans callbacks out from their goroutines
type PeerManager struct {
	mu     sync.RWMutex
	peers  map[PeerID]*Peer
	nextID atomic.Uint32
	config *Config
	logger *slog.Logger
	wg     sync.WaitGroup

	onConnect    func(PeerID)
	onDisconnect func(PeerID)
	onMessage    func(PeerID, *Message)
}

func NewPeerManager(cfg *Config, logger *slog.Logger) *PeerManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeerManager{
		peers:  make(map[PeerID]*Peer),
		config: cfg,
		logger: logger,
	}
}

// SetHandlers must be called before the first connection
func (pm *PeerManager) SetHandlers(onConnect, onDisconnect func(PeerID), onMessage func(PeerID, *Message)) {
	pm.onConnect = onConnect
	pm.onDisconnect = onDisconnect
	pm.onMessage = onMessage
}

// AddConnection adopts conn as a new peer
// onConnect fires before any of the peer's messages are delivered
func (pm *PeerManager) AddConnection(conn net.Conn) (PeerID, error) {
	pm.mu.Lock()
	if len(pm.peers) >= pm.config.MaxPeers {
		pm.mu.Unlock()
		conn.Close()
		return 0, ErrMaxPeers
	}
	// Ids start at 1; 0 is the authority's own session peer id
	id := PeerID(pm.nextID.Add(1))
	peer := newPeer(id, conn, pm.config)
	pm.peers[id] = peer
	pm.mu.Unlock()

	if pm.onConnect != nil {
		pm.onConnect(id)
	}

	pm.wg.Add(3)
	core.Go(func() { defer pm.wg.Done(); peer.readLoop(pm.deliver, pm.logger) })
	core.Go(func() { defer pm.wg.Done(); peer.writeLoop() })
	core.Go(func() { defer pm.wg.Done(); pm.reap(peer) })
	return id, nil
}

func (pm *PeerManager) deliver(id PeerID, msg *Message) {
	if pm.onMessage != nil {
		pm.onMessage(id, msg)
	}
}

// reap forgets a peer once it closes
func (pm *PeerManager) reap(peer *Peer) {
	<-peer.Done()

	pm.mu.Lock()
	delete(pm.peers, peer.ID)
	pm.mu.Unlock()

	pm.logger.Debug("peer closed", "peer", peer.ID, "last_seen", peer.LastSeen())
	if pm.onDisconnect != nil {
		pm.onDisconnect(peer.ID)
	}
}

// Send queues msg for one peer
func (pm *PeerManager) Send(id PeerID, msg *Message) bool {
	pm.mu.RLock()
	peer, ok := pm.peers[id]
	pm.mu.RUnlock()
	if !ok {
		return false
	}
	return peer.Send(msg)
}

// Broadcast queues a copy of msg for every peer; each copy gets that peer's sequence number
func (pm *PeerManager) Broadcast(msg *Message) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for _, peer := range pm.peers {
		clone := *msg
		peer.Send(&clone)
	}
}

func (pm *PeerManager) PeerCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Close shuts every peer and waits for their goroutines
// Disconnect callbacks still fire for each one
func (pm *PeerManager) Close() {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, peer := range pm.peers {
		peers = append(peers, peer)
	}
	pm.mu.RUnlock()

	for _, peer := range peers {
		peer.Close()
	}
	pm.wg.Wait()
}
