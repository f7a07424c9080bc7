// internal/handlers/game_server.go
package handlers

import (
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/sanctum/internal/game"
	"github.com/jason-s-yu/sanctum/internal/protocol"
	"github.com/sirupsen/logrus"
)

// Options tune the WebSocket endpoint.
type Options struct {
	HandshakeTimeout time.Duration // time allowed between accept and a successful Init
	WriteTimeout     time.Duration // per-message write deadline
	PingInterval     time.Duration // keepalive pings; 0 disables them
	SendBuffer       int           // queued outbound messages per peer
}

// DefaultOptions are used for zero fields.
var DefaultOptions = Options{
	HandshakeTimeout: 10 * time.Second,
	WriteTimeout:     5 * time.Second,
	PingInterval:     15 * time.Second,
	SendBuffer:       64,
}

// peer is one accepted connection with its outbound queue.
type peer struct {
	id     uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

// MatchServer routes match responses to connected peers. It owns the peer
// table; the match owns the sessions.
type MatchServer struct {
	Match *game.Match

	mu     sync.Mutex
	peers  map[uuid.UUID]*peer
	opts   Options
	logger *logrus.Logger
}

// NewMatchServer wires the match's SendFn to the peer table.
func NewMatchServer(m *game.Match, logger *logrus.Logger, opts Options) *MatchServer {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultOptions.HandshakeTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultOptions.WriteTimeout
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultOptions.SendBuffer
	}
	s := &MatchServer{
		Match:  m,
		peers:  make(map[uuid.UUID]*peer),
		opts:   opts,
		logger: logger,
	}
	m.SendFn = s.deliver
	return s
}

func (s *MatchServer) register(p *peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[p.id] = p
}

// unregister removes a peer and closes its queue so the writer exits.
func (s *MatchServer) unregister(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.peers[id]; ok {
		delete(s.peers, id)
		close(p.send)
	}
}

// deliver is the match's SendFn. It runs under the match lock, so it only
// encodes and enqueues.
func (s *MatchServer) deliver(connID uuid.UUID, resp protocol.Response) {
	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		s.logger.Errorf("Failed to encode %s response for %s: %v", resp.Type, connID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.peers[connID]
	if !ok {
		s.logger.Debugf("Dropping %s response for departed connection %s", resp.Type, connID)
		return
	}
	select {
	case p.send <- data:
	default:
		s.logger.Warnf("Outbound queue full for %s, closing connection", connID)
		delete(s.peers, connID)
		close(p.send)
		go p.conn.Close(SlowConsumerError, "outbound queue overflow")
	}
}

// PeerCount reports connected peers.
func (s *MatchServer) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}
