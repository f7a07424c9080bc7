// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the match endpoint.
const (
	BadSubprotocolError   websocket.StatusCode = 3000 // Client connected without the "match" subprotocol.
	SlowConsumerError     websocket.StatusCode = 3001 // Outbound queue overflowed; the peer stopped reading.
	HandshakeTimeoutError websocket.StatusCode = 3004 // No successful Init within the handshake timeout.
)
