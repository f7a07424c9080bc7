// internal/models/player.go
package models

import (
	"github.com/google/uuid"
)

// BasicStats are the per-player counters shared by both factions.
type BasicStats struct {
	ManaPool uint32 `json:"mana_pool"`
	Stamina  uint32 `json:"stamina"`
	Score    uint32 `json:"score"`
}

// StartingStats is what each player begins a match with.
var StartingStats = BasicStats{ManaPool: 5, Stamina: 5, Score: 0}

// SessionState tracks a connection through the handshake.
type SessionState uint8

const (
	Unauthenticated SessionState = iota
	Authenticated
	Active
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Active:
		return "active"
	}
	return "unknown"
}

// Player is the server-side session bound to one network connection.
type Player struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Faction   Faction      `json:"faction"`
	State     SessionState `json:"-"`
	Connected bool         `json:"connected"`
}
