// internal/game/errors.go
package game

import (
	"errors"

	"github.com/jason-s-yu/sanctum/internal/protocol"
)

var (
	ErrNotFound          = errors.New("instance not found")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrFactionTaken      = errors.New("faction already taken")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrEmptyDeck         = errors.New("deck is empty")
	ErrInsufficientCards = errors.New("insufficient cards in deck")
)

// KindOf maps an error returned by this package to its wire kind.
func KindOf(err error) protocol.ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return protocol.KindNotFound
	case errors.Is(err, ErrProtocolViolation):
		return protocol.KindProtocolViolation
	case errors.Is(err, ErrFactionTaken):
		return protocol.KindFactionTaken
	case errors.Is(err, ErrNotYourTurn):
		return protocol.KindNotYourTurn
	case errors.Is(err, ErrEmptyDeck):
		return protocol.KindEmptyDeck
	case errors.Is(err, ErrInsufficientCards):
		return protocol.KindInsufficientCards
	case errors.Is(err, protocol.ErrSerialization):
		return protocol.KindSerialization
	}
	return protocol.KindInternal
}
