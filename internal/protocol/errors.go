// internal/protocol/errors.go
package protocol

import "errors"

// ErrorKind is the wire name of a rejection reason.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindProtocolViolation ErrorKind = "protocol_violation"
	KindFactionTaken      ErrorKind = "faction_already_taken"
	KindNotYourTurn       ErrorKind = "not_your_turn"
	KindEmptyDeck         ErrorKind = "empty_deck"
	KindInsufficientCards ErrorKind = "insufficient_cards"
	KindSerialization     ErrorKind = "serialization_failure"
	KindInternal          ErrorKind = "internal"
)

// ErrSerialization marks a payload that could not be decoded or encoded.
var ErrSerialization = errors.New("serialization failure")

// IsDesync reports kinds that should never happen between matching peers.
func (k ErrorKind) IsDesync() bool {
	return k == KindNotFound || k == KindSerialization
}
