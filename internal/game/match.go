// internal/game/match.go
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/sanctum/internal/cache"
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/jason-s-yu/sanctum/internal/protocol"
	"github.com/sirupsen/logrus"
)

// MaxNameLength bounds the display name accepted in Init.
const MaxNameLength = 32

// Journal receives every applied action. Implementations must be safe for
// concurrent use; publishing happens off the match lock.
type Journal interface {
	Publish(ctx context.Context, record cache.ActionRecord) error
}

// remote is a Sanctum server slot.
type remote struct {
	wards    []models.InstanceID
	contents *models.InstanceID
}

type sanctumZones struct {
	handLair    []models.InstanceID // protects the hand
	deckLair    []models.InstanceID // protects the deck
	discardLair []models.InstanceID // protects the discard
	remotes     []remote
}

type thiefZones struct {
	spellSlots []models.InstanceID
	gearSlots  []models.InstanceID
	allySlots  []models.InstanceID
}

// playerState is the authoritative zone layout of one faction.
type playerState struct {
	faction   models.Faction
	stats     models.BasicStats
	deck      []models.InstanceID
	hand      []models.InstanceID
	discard   []models.InstanceID
	scoreArea []models.InstanceID

	sanctum *sanctumZones
	thief   *thiefZones
}

// Match holds the whole state of one two-player match. All exported methods
// take the match lock; the lock covers the instance store and the session table.
type Match struct {
	ID uuid.UUID

	mu        sync.Mutex
	catalog   models.Catalog
	instances *InstanceStore
	players   map[models.Faction]*playerState
	turn      models.Faction
	sessions  *sessionTable

	actionIndex int

	// SendFn delivers a response to one connection. It is called with the
	// match lock held and must not block.
	SendFn func(connID uuid.UUID, resp protocol.Response)

	// Journal, if set, receives a record for every applied action.
	Journal Journal

	logger logrus.FieldLogger
}

// NewMatch builds both decks from the catalog and deals the opening hands.
// Sanctum takes the first turn.
func NewMatch(catalog models.Catalog, logger *logrus.Logger) (*Match, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate match id: %w", err)
	}
	m := &Match{
		ID:        id,
		catalog:   catalog,
		instances: NewInstanceStore(),
		players:   make(map[models.Faction]*playerState, 2),
		turn:      models.Sanctum,
		sessions:  newSessionTable(),
		logger:    logger.WithField("match", id),
	}

	for _, f := range []models.Faction{models.Sanctum, models.Thief} {
		ps := &playerState{
			faction:   f,
			stats:     models.StartingStats,
			discard:   []models.InstanceID{},
			scoreArea: []models.InstanceID{},
		}
		ps.deck = InstantiateDeck(f, catalog, m.instances)
		hand, err := DealHand(&ps.deck, OpeningHandSize, m.instances)
		if err != nil {
			return nil, fmt.Errorf("dealing %s opening hand: %w", f, err)
		}
		ps.hand = hand
		switch f {
		case models.Sanctum:
			ps.sanctum = &sanctumZones{
				handLair:    []models.InstanceID{},
				deckLair:    []models.InstanceID{},
				discardLair: []models.InstanceID{},
				remotes:     []remote{},
			}
		case models.Thief:
			ps.thief = &thiefZones{
				spellSlots: []models.InstanceID{},
				gearSlots:  []models.InstanceID{},
				allySlots:  []models.InstanceID{},
			}
		}
		m.players[f] = ps
	}

	m.logger.WithFields(logrus.Fields{
		"instances":    m.instances.Len(),
		"sanctumDeck":  len(m.players[models.Sanctum].deck),
		"thiefDeck":    len(m.players[models.Thief].deck),
		"openingHands": OpeningHandSize,
	}).Info("match created")
	return m, nil
}

// Connect registers a new, unauthenticated connection.
func (m *Match) Connect(connID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.add(&models.Player{ID: connID, State: models.Unauthenticated, Connected: true})
	m.logger.WithField("conn", connID).Debug("connection registered")
}

// Disconnect drops a connection's session and frees its faction.
func (m *Match) Disconnect(connID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.sessions.get(connID)
	if !ok {
		return
	}
	wasActive := p.State == models.Active
	p.Connected = false
	m.sessions.remove(connID)
	m.logger.WithFields(logrus.Fields{"conn": connID, "faction": p.Faction, "state": p.State}).Info("connection removed")

	if wasActive {
		m.logAction(p, "player_disconnect", nil)
		m.sendToFaction(p.Faction.Other(), protocol.PresenceResponse(protocol.Presence{
			Faction:   p.Faction,
			Name:      p.Name,
			Connected: false,
		}))
	}
}

// IsActive reports whether the connection has completed the handshake.
func (m *Match) IsActive(connID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.sessions.get(connID)
	return ok && p.State == models.Active
}

// Occupancy lists the factions currently held by active connections.
func (m *Match) Occupancy() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for _, p := range m.sessions.active() {
		out[p.Faction.String()] = p.Name
	}
	return out
}

// Turn returns the faction whose turn it is.
func (m *Match) Turn() models.Faction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turn
}

// Zones returns copies of a faction's deck and hand.
func (m *Match) Zones(f models.Faction) (deck, hand []models.InstanceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := m.players[f]
	return append([]models.InstanceID(nil), ps.deck...), append([]models.InstanceID(nil), ps.hand...)
}

// Instance returns the authoritative record of an instance.
func (m *Match) Instance(id models.InstanceID) (InstantiatedCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instances.Get(id)
}

// Reject sends an explicit rejection for err to a connection.
func (m *Match) Reject(connID uuid.UUID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reject(connID, err)
}

// HandleAction runs one inbound action through the connection's state machine.
// A rejected action leaves the match untouched and is answered with a
// Rejected response on the same connection; the error is also returned.
func (m *Match) HandleAction(connID uuid.UUID, action protocol.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.sessions.get(connID)
	if !ok || !p.Connected {
		return fmt.Errorf("unknown connection %s: %w", connID, ErrProtocolViolation)
	}

	var err error
	switch action.Type {
	case protocol.ActionInit:
		err = m.handleInit(p, action.Init)
	case protocol.ActionDrawCard:
		err = m.handleDrawCard(p)
	case protocol.ActionEndTurn:
		err = m.handleEndTurn(p)
	default:
		err = fmt.Errorf("unknown action %q: %w", action.Type, ErrProtocolViolation)
	}
	if err != nil {
		m.reject(connID, err)
	}
	return err
}

// handleInit binds a session to a name and faction and sends the initial state.
// Assumes lock is held.
func (m *Match) handleInit(p *models.Player, req *protocol.InitRequest) error {
	if p.State != models.Unauthenticated {
		return fmt.Errorf("init in state %s: %w", p.State, ErrProtocolViolation)
	}
	if req == nil {
		return fmt.Errorf("init without payload: %w", ErrProtocolViolation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > MaxNameLength {
		return fmt.Errorf("invalid display name %q: %w", req.Name, ErrProtocolViolation)
	}
	if holder := m.sessions.holder(req.Faction); holder != nil && holder.ID != p.ID {
		return fmt.Errorf("%s is held by %s: %w", req.Faction, holder.Name, ErrFactionTaken)
	}

	state, err := m.buildInitState(req.Faction)
	if err != nil {
		return err
	}

	p.Name = name
	p.Faction = req.Faction
	p.State = models.Authenticated
	m.send(p.ID, protocol.InitialResponse(state))
	p.State = models.Active

	m.logger.WithFields(logrus.Fields{"conn": p.ID, "name": p.Name, "faction": p.Faction}).Info("player joined")
	m.logAction(p, "init", map[string]interface{}{"name": p.Name})

	m.sendToFaction(p.Faction.Other(), protocol.PresenceResponse(protocol.Presence{
		Faction:   p.Faction,
		Name:      p.Name,
		Connected: true,
	}))
	if other := m.sessions.holder(p.Faction.Other()); other != nil && other.State == models.Active {
		m.send(p.ID, protocol.PresenceResponse(protocol.Presence{
			Faction:   other.Faction,
			Name:      other.Name,
			Connected: true,
		}))
	}
	return nil
}

// handleDrawCard moves the tail of the acting player's deck into their hand
// and tells both players, revealed to the drawer and hidden to the opponent.
// Assumes lock is held.
func (m *Match) handleDrawCard(p *models.Player) error {
	if p.State != models.Active {
		return fmt.Errorf("draw_card in state %s: %w", p.State, ErrProtocolViolation)
	}
	if m.turn != p.Faction {
		return fmt.Errorf("%s tried to draw on %s's turn: %w", p.Faction, m.turn, ErrNotYourTurn)
	}
	ps := m.players[p.Faction]
	if len(ps.deck) == 0 {
		return fmt.Errorf("%s draw: %w", p.Faction, ErrEmptyDeck)
	}

	id := ps.deck[len(ps.deck)-1]
	mine, err := m.instances.Project(id, true)
	if err != nil {
		return err
	}
	if err := m.instances.SetLocation(id, InHand); err != nil {
		return err
	}
	ps.deck = ps.deck[:len(ps.deck)-1]
	ps.hand = append(ps.hand, id)

	m.send(p.ID, protocol.DrawCardResponse(mine))
	m.sendToFaction(p.Faction.Other(), protocol.DrawCardResponse(models.Hidden(id)))

	m.logger.WithFields(logrus.Fields{"faction": p.Faction, "instance": id, "deckSize": len(ps.deck)}).Debug("card drawn")
	m.logAction(p, "draw_card", map[string]interface{}{"instance": id, "deckSize": len(ps.deck)})
	return nil
}

// handleEndTurn passes the turn to the opponent.
// Assumes lock is held.
func (m *Match) handleEndTurn(p *models.Player) error {
	if p.State != models.Active {
		return fmt.Errorf("end_turn in state %s: %w", p.State, ErrProtocolViolation)
	}
	if m.turn != p.Faction {
		return fmt.Errorf("%s tried to end %s's turn: %w", p.Faction, m.turn, ErrNotYourTurn)
	}
	m.turn = m.turn.Other()
	for _, s := range m.sessions.active() {
		m.send(s.ID, protocol.TurnChangedResponse(m.turn))
	}
	m.logger.WithField("turn", m.turn).Info("turn passed")
	m.logAction(p, "end_turn", map[string]interface{}{"turn": m.turn.String()})
	return nil
}

// reject answers a refused action. Assumes lock is held.
func (m *Match) reject(connID uuid.UUID, err error) {
	kind := KindOf(err)
	entry := m.logger.WithFields(logrus.Fields{"conn": connID, "kind": kind})
	if kind.IsDesync() || kind == protocol.KindInternal {
		entry.Warnf("rejecting action: %v", err)
	} else {
		entry.Debugf("rejecting action: %v", err)
	}
	m.send(connID, protocol.RejectedResponse(kind, err.Error()))
}

// send delivers to one connection. Assumes lock is held.
func (m *Match) send(connID uuid.UUID, resp protocol.Response) {
	if m.SendFn == nil {
		m.logger.Warnf("SendFn is nil, dropping %s response for %s", resp.Type, connID)
		return
	}
	m.SendFn(connID, resp)
}

// sendToFaction delivers to the active session holding a faction, if any.
// Assumes lock is held.
func (m *Match) sendToFaction(f models.Faction, resp protocol.Response) {
	if holder := m.sessions.holder(f); holder != nil && holder.State == models.Active {
		m.send(holder.ID, resp)
	}
}

// logAction hands a record to the journal without blocking the match.
// Assumes lock is held.
func (m *Match) logAction(p *models.Player, actionType string, payload map[string]interface{}) {
	m.actionIndex++
	if m.Journal == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.ActionRecord{
		MatchID:       m.ID,
		ActionIndex:   m.actionIndex,
		ActorID:       p.ID,
		Faction:       p.Faction.String(),
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	journal := m.Journal
	logger := m.logger
	go func(rec cache.ActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := journal.Publish(ctx, rec); err != nil {
			logger.Warnf("failed to publish action %d: %v", rec.ActionIndex, err)
		}
	}(record)
}
