// internal/client/session.go
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/sanctum/internal/protocol"
	"github.com/sirupsen/logrus"
)

// Subprotocol must match the server endpoint.
const Subprotocol = "match"

// Conn is what the App needs from the network.
type Conn interface {
	// Send writes one action. A nil error means the message was handed to the
	// transport, not that the server processed it.
	Send(ctx context.Context, action protocol.Action) error
	// Poll returns the next decoded response without blocking.
	Poll() (protocol.Response, bool)
}

// Session is a WebSocket connection to the match server. A reader goroutine
// decodes inbound messages onto a channel that the frame loop polls.
type Session struct {
	conn   *websocket.Conn
	inbox  chan protocol.Response
	done   chan struct{}
	quit   chan struct{}
	logger logrus.FieldLogger

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

// Dial connects to url and starts the reader.
func Dial(ctx context.Context, url string, logger logrus.FieldLogger) (*Session, error) {
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{Subprotocol},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	if c.Subprotocol() != Subprotocol {
		c.Close(websocket.StatusPolicyViolation, "subprotocol mismatch")
		return nil, fmt.Errorf("server did not accept subprotocol %q", Subprotocol)
	}

	s := &Session{
		conn:   c,
		inbox:  make(chan protocol.Response, 64),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
		logger: logger,
	}
	go s.readLoop()
	return s, nil
}

func (s *Session) readLoop() {
	defer close(s.done)
	for {
		_, data, err := s.conn.Read(context.Background())
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			s.logger.Infof("Connection closed: %v", err)
			return
		}
		resp, err := protocol.DecodeResponse(data)
		if err != nil {
			s.logger.Warnf("Discarding garbled message: %v", err)
			continue
		}
		select {
		case s.inbox <- resp:
		case <-s.quit:
			return
		}
	}
}

// Poll implements Conn.
func (s *Session) Poll() (protocol.Response, bool) {
	select {
	case resp := <-s.inbox:
		return resp, true
	default:
		return protocol.Response{}, false
	}
}

// Send implements Conn.
func (s *Session) Send(ctx context.Context, action protocol.Action) error {
	data, err := protocol.EncodeAction(action)
	if err != nil {
		return err
	}
	return s.conn.Write(ctx, websocket.MessageText, data)
}

// Done is closed when the reader stops.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err is the error that stopped the reader, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the session with a normal closure.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.quit) })
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
