// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/sanctum/internal/game"
	"github.com/jason-s-yu/sanctum/internal/middleware"
	"github.com/jason-s-yu/sanctum/internal/protocol"
	"github.com/sirupsen/logrus"
)

// Subprotocol is the WebSocket subprotocol clients must request.
const Subprotocol = "match"

// MatchWSHandler upgrades the HTTP connection, registers it with the match and
// runs the read loop until the peer leaves.
func MatchWSHandler(s *MatchServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			s.logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != Subprotocol {
			s.logger.Warnf("Client %s connected with invalid subprotocol: %q", r.RemoteAddr, c.Subprotocol())
			c.Close(BadSubprotocolError, "Client must use the 'match' subprotocol.")
			return
		}

		p := &peer{
			id:     uuid.New(),
			conn:   c,
			send:   make(chan []byte, s.opts.SendBuffer),
			remote: r.RemoteAddr,
		}
		connLog := s.logger.WithFields(logrus.Fields{"conn": p.id, "match": s.Match.ID})
		middleware.LogWebSocketConnect(connLog, p.remote, p.id.String())

		s.register(p)
		s.Match.Connect(p.id)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go s.writeLoop(ctx, p, connLog)

		// Close with a distinct code if the peer never completes Init.
		handshake := time.AfterFunc(s.opts.HandshakeTimeout, func() {
			if !s.Match.IsActive(p.id) {
				connLog.Warnf("Connection did not complete the handshake within %s", s.opts.HandshakeTimeout)
				c.Close(HandshakeTimeoutError, "No successful init before the handshake timeout.")
			}
		})
		defer handshake.Stop()

		readErr := s.readLoop(ctx, p, connLog)

		s.Match.Disconnect(p.id)
		s.unregister(p.id)
		middleware.LogWebSocketDisconnect(connLog, p.remote, p.id.String(), readErr)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readLoop decodes actions and hands them to the match until the socket closes.
func (s *MatchServer) readLoop(ctx context.Context, p *peer, logger logrus.FieldLogger) error {
	for {
		_, data, err := p.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}

		action, err := protocol.DecodeAction(data)
		if err != nil {
			logger.Warnf("Invalid payload received: %v", err)
			s.Match.Reject(p.id, err)
			continue
		}

		logger.Debugf("Received action '%s'", action.Type)
		if err := s.Match.HandleAction(p.id, action); err != nil {
			logger.WithField("kind", game.KindOf(err)).Debugf("Action '%s' rejected: %v", action.Type, err)
		}
	}
}

// writeLoop drains the peer's queue onto the socket and keeps it alive with pings.
func (s *MatchServer) writeLoop(ctx context.Context, p *peer, logger logrus.FieldLogger) {
	var ping <-chan time.Time
	if s.opts.PingInterval > 0 {
		t := time.NewTicker(s.opts.PingInterval)
		defer t.Stop()
		ping = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-p.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
			err := p.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				logger.Warnf("Failed to write message: %v", err)
				return
			}
		case <-ping:
			pingCtx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
			err := p.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Debugf("Ping failed: %v", err)
				return
			}
		}
	}
}
