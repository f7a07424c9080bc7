// internal/game/session_store.go
package game

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/sanctum/internal/models"
)

// sessionTable maps live connections to their sessions. Access is serialized
// by the owning Match lock.
type sessionTable struct {
	sessions map[uuid.UUID]*models.Player
}

func newSessionTable() *sessionTable {
	return &sessionTable{
		sessions: make(map[uuid.UUID]*models.Player),
	}
}

func (t *sessionTable) add(p *models.Player) {
	t.sessions[p.ID] = p
}

func (t *sessionTable) get(id uuid.UUID) (*models.Player, bool) {
	p, ok := t.sessions[id]
	return p, ok
}

func (t *sessionTable) remove(id uuid.UUID) {
	delete(t.sessions, id)
}

// holder returns the connected session bound to a faction, or nil.
func (t *sessionTable) holder(f models.Faction) *models.Player {
	for _, p := range t.sessions {
		if p.Connected && p.State != models.Unauthenticated && p.Faction == f {
			return p
		}
	}
	return nil
}

// active returns the active sessions ordered by faction.
func (t *sessionTable) active() []*models.Player {
	out := []*models.Player{}
	for _, p := range t.sessions {
		if p.Connected && p.State == models.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Faction < out[j].Faction })
	return out
}
