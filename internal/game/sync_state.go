// internal/game/sync_state.go
package game

import (
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/jason-s-yu/sanctum/internal/protocol"
)

// zoneVisibility says who may see the cards in a zone.
type zoneVisibility uint8

const (
	// visibilityPrivate zones (deck, hand) are revealed to the owner only.
	visibilityPrivate zoneVisibility = iota
	// visibilityPublic zones (discard, score area) are revealed to everyone.
	visibilityPublic
	// visibilityBoard zones are revealed unless the instance lies face down.
	visibilityBoard
)

// projectZone filters a zone for one viewer. Assumes lock is held.
func (m *Match) projectZone(ids []models.InstanceID, vis zoneVisibility, viewerOwns bool) ([]models.CardState, error) {
	switch vis {
	case visibilityPrivate:
		return m.instances.ProjectAll(ids, viewerOwns)
	case visibilityPublic:
		return m.instances.ProjectAll(ids, true)
	case visibilityBoard:
		out := make([]models.CardState, 0, len(ids))
		for _, id := range ids {
			rec, err := m.instances.Get(id)
			if err != nil {
				return nil, err
			}
			st, err := m.instances.Project(id, viewerOwns || !rec.Location.FaceDown)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		}
		return out, nil
	}
	return nil, ErrProtocolViolation
}

// buildSnapshot projects one faction's state for a viewer.
// Assumes lock is held.
func (m *Match) buildSnapshot(owner, viewer models.Faction) (protocol.PlayerSnapshot, error) {
	ps := m.players[owner]
	own := owner == viewer
	snap := protocol.PlayerSnapshot{Faction: owner}

	var err error
	snap.Common.Stats = ps.stats
	if snap.Common.Deck, err = m.projectZone(ps.deck, visibilityPrivate, own); err != nil {
		return snap, err
	}
	if snap.Common.Hand, err = m.projectZone(ps.hand, visibilityPrivate, own); err != nil {
		return snap, err
	}
	if snap.Common.Discard, err = m.projectZone(ps.discard, visibilityPublic, own); err != nil {
		return snap, err
	}
	if snap.Common.ScoreArea, err = m.projectZone(ps.scoreArea, visibilityPublic, own); err != nil {
		return snap, err
	}

	switch owner {
	case models.Sanctum:
		if ps.sanctum == nil {
			break
		}
		zones := &protocol.SanctumZones{Remotes: []protocol.Remote{}}
		if zones.HandLair, err = m.projectZone(ps.sanctum.handLair, visibilityBoard, own); err != nil {
			return snap, err
		}
		if zones.DeckLair, err = m.projectZone(ps.sanctum.deckLair, visibilityBoard, own); err != nil {
			return snap, err
		}
		if zones.DiscardLair, err = m.projectZone(ps.sanctum.discardLair, visibilityBoard, own); err != nil {
			return snap, err
		}
		for _, r := range ps.sanctum.remotes {
			out := protocol.Remote{}
			if out.Wards, err = m.projectZone(r.wards, visibilityBoard, own); err != nil {
				return snap, err
			}
			if r.contents != nil {
				contents, err := m.projectZone([]models.InstanceID{*r.contents}, visibilityBoard, own)
				if err != nil {
					return snap, err
				}
				out.Contents = &contents[0]
			}
			zones.Remotes = append(zones.Remotes, out)
		}
		snap.Sanctum = zones
	case models.Thief:
		if ps.thief == nil {
			break
		}
		zones := &protocol.ThiefZones{}
		if zones.SpellSlots, err = m.projectZone(ps.thief.spellSlots, visibilityBoard, own); err != nil {
			return snap, err
		}
		if zones.GearSlots, err = m.projectZone(ps.thief.gearSlots, visibilityBoard, own); err != nil {
			return snap, err
		}
		if zones.AllySlots, err = m.projectZone(ps.thief.allySlots, visibilityBoard, own); err != nil {
			return snap, err
		}
		snap.Thief = zones
	}
	return snap, nil
}

// buildInitState assembles the handshake response for a viewer.
// Assumes lock is held.
func (m *Match) buildInitState(viewer models.Faction) (protocol.InitState, error) {
	mine, err := m.buildSnapshot(viewer, viewer)
	if err != nil {
		return protocol.InitState{}, err
	}
	other, err := m.buildSnapshot(viewer.Other(), viewer)
	if err != nil {
		return protocol.InitState{}, err
	}
	return protocol.InitState{
		MyState:    mine,
		OtherState: other,
		CardSet:    m.catalog,
		Turn:       m.turn,
	}, nil
}

// Snapshot returns owner's state as viewer would receive it.
func (m *Match) Snapshot(owner, viewer models.Faction) (protocol.PlayerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buildSnapshot(owner, viewer)
}
