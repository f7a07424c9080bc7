// internal/client/app.go
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/sanctum/internal/board"
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/jason-s-yu/sanctum/internal/protocol"
	"github.com/sirupsen/logrus"
)

var (
	// ErrHandshakeTimeout means no Initial response arrived in time.
	ErrHandshakeTimeout = errors.New("handshake timed out")
	// ErrHandshakeRejected means the server refused the Init.
	ErrHandshakeRejected = errors.New("handshake rejected")
)

// DefaultHandshakeTimeout bounds the wait for the Initial response.
const DefaultHandshakeTimeout = 10 * time.Second

// sendTimeout bounds a single write from the frame loop.
const sendTimeout = time.Second

type handshakeState uint8

const (
	handshakeUnsent handshakeState = iota
	handshakeSent
	handshakeDone
)

// zones holds the board zones the App routes cards into.
type zones struct {
	myHand, myDeck, myDiscard, myBoard             board.ZoneID
	theirHand, theirDeck, theirDiscard, theirBoard board.ZoneID
}

// App is one player's client: it runs the handshake, applies server responses
// to the board and forwards board actions to the server. It is driven by a
// single frame loop.
type App struct {
	Name    string
	Faction models.Faction
	Board   *board.Board
	Catalog models.Catalog
	Turn    models.Faction
	// Opponent is the last presence notice received, if any.
	Opponent *protocol.Presence
	// LastRejection is shown to the player until the next one replaces it.
	LastRejection *protocol.Rejection

	conn      Conn
	zones     zones
	handshake handshakeState
	timeout   time.Duration
	deadline  time.Time
	now       func() time.Time
	logger    logrus.FieldLogger
}

// NewApp builds an App over the default table.
func NewApp(conn Conn, name string, faction models.Faction, timeout time.Duration, logger logrus.FieldLogger) (*App, error) {
	b, err := board.New(board.DefaultTargets())
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultHandshakeTimeout
	}
	a := &App{
		Name:    name,
		Faction: faction,
		Board:   b,
		conn:    conn,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.WithFields(logrus.Fields{"player": name, "faction": faction}),
	}
	if err := a.resolveZones(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) resolveZones() error {
	find := func(z board.ZoneType, local bool, dst *board.ZoneID) error {
		id, ok := a.Board.FindZone(z, local)
		if !ok {
			return fmt.Errorf("table has no %s zone (local=%t)", z, local)
		}
		*dst = id
		return nil
	}
	return errors.Join(
		find(board.ZoneHand, true, &a.zones.myHand),
		find(board.ZoneDeck, true, &a.zones.myDeck),
		find(board.ZoneDiscard, true, &a.zones.myDiscard),
		find(board.ZoneBoardH, true, &a.zones.myBoard),
		find(board.ZoneHand, false, &a.zones.theirHand),
		find(board.ZoneDeck, false, &a.zones.theirDeck),
		find(board.ZoneDiscard, false, &a.zones.theirDiscard),
		find(board.ZoneBoardH, false, &a.zones.theirBoard),
	)
}

// Ready reports whether the Initial response has been applied.
func (a *App) Ready() bool { return a.handshake == handshakeDone }

// MyTurn reports whether the local player may act.
func (a *App) MyTurn() bool { return a.Ready() && a.Turn == a.Faction }

// Frame runs one tick: handshake progress, inbound responses, then pointer
// input. Only handshake failures are returned; everything else is logged.
func (a *App) Frame(in board.Input) error {
	if a.handshake == handshakeUnsent {
		a.sendInit()
	}

	for {
		resp, ok := a.conn.Poll()
		if !ok {
			break
		}
		if err := a.apply(resp); err != nil {
			return err
		}
	}

	switch a.handshake {
	case handshakeUnsent:
		return nil
	case handshakeSent:
		if a.now().After(a.deadline) {
			return fmt.Errorf("no initial state after %s: %w", a.timeout, ErrHandshakeTimeout)
		}
		return nil
	}

	for _, action := range a.Board.Update(in) {
		a.send(action)
	}
	return nil
}

// EndTurn asks the server to pass the turn.
func (a *App) EndTurn() {
	if !a.MyTurn() {
		return
	}
	a.send(protocol.EndTurn())
}

// sendInit is retried every frame until the transport accepts it.
func (a *App) sendInit() {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := a.conn.Send(ctx, protocol.Init(a.Name, a.Faction)); err != nil {
		a.logger.Debugf("Init not sent yet: %v", err)
		return
	}
	a.handshake = handshakeSent
	a.deadline = a.now().Add(a.timeout)
	a.logger.Debug("Init sent, waiting for initial state")
}

func (a *App) send(action protocol.Action) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := a.conn.Send(ctx, action); err != nil {
		a.logger.Warnf("Failed to send %s: %v", action.Type, err)
		if action.Type == protocol.ActionDrawCard {
			a.Board.ClearPendingDraw()
		}
	}
}

func (a *App) apply(resp protocol.Response) error {
	switch resp.Type {
	case protocol.ResponseInitial:
		if a.handshake == handshakeDone {
			a.logger.Warn("Ignoring repeated initial state")
			return nil
		}
		a.applyInitial(*resp.Initial)
	case protocol.ResponseDrawCard:
		a.applyDraw(*resp.Card)
	case protocol.ResponseTurnChanged:
		a.Turn = *resp.Turn
		a.syncHandAcceptance()
		a.logger.Infof("Turn passed to %s", a.Turn)
	case protocol.ResponsePresence:
		p := *resp.Presence
		a.Opponent = &p
		a.logger.Infof("%s (%s) connected=%t", p.Name, p.Faction, p.Connected)
	case protocol.ResponseRejected:
		rej := *resp.Error
		a.LastRejection = &rej
		if a.handshake != handshakeDone {
			return fmt.Errorf("%s: %s: %w", rej.Kind, rej.Message, ErrHandshakeRejected)
		}
		a.Board.ClearPendingDraw()
		if rej.Kind.IsDesync() {
			a.logger.Errorf("Server reported desync: %s: %s", rej.Kind, rej.Message)
		} else {
			a.logger.Infof("Action rejected: %s: %s", rej.Kind, rej.Message)
		}
	default:
		a.logger.Warnf("Ignoring unknown response %q", resp.Type)
	}
	return nil
}

func (a *App) applyInitial(init protocol.InitState) {
	a.Catalog = init.CardSet
	a.Turn = init.Turn

	a.place(init.MyState, a.zones.myDeck, a.zones.myHand, a.zones.myDiscard, a.zones.myBoard)
	a.place(init.OtherState, a.zones.theirDeck, a.zones.theirHand, a.zones.theirDiscard, a.zones.theirBoard)

	a.handshake = handshakeDone
	a.syncHandAcceptance()
	a.logger.WithFields(logrus.Fields{
		"hand": len(init.MyState.Common.Hand),
		"deck": len(init.MyState.Common.Deck),
		"turn": a.Turn,
	}).Info("Initial state received")
}

// place attaches every card of a snapshot to the matching table zone.
// Faction-exclusive zones all share the side's board lane.
func (a *App) place(snap protocol.PlayerSnapshot, deck, hand, discard, lane board.ZoneID) {
	add := func(cards []models.CardState, zone board.ZoneID) {
		for _, c := range cards {
			if _, err := a.Board.AddCard(c, zone); err != nil {
				a.logger.Warnf("Skipping card %d: %v", c.InstanceID(), err)
			}
		}
	}
	add(snap.Common.Deck, deck)
	add(snap.Common.Hand, hand)
	add(snap.Common.Discard, discard)
	add(snap.Common.ScoreArea, lane)
	if s := snap.Sanctum; s != nil {
		add(s.HandLair, lane)
		add(s.DeckLair, lane)
		add(s.DiscardLair, lane)
		for _, r := range s.Remotes {
			add(r.Wards, lane)
			if r.Contents != nil {
				add([]models.CardState{*r.Contents}, lane)
			}
		}
	}
	if t := snap.Thief; t != nil {
		add(t.SpellSlots, lane)
		add(t.GearSlots, lane)
		add(t.AllySlots, lane)
	}
}

// applyDraw moves the drawn instance into a hand. A revealed card can only be
// the local player's own draw.
func (a *App) applyDraw(card models.CardState) {
	hand := a.zones.theirHand
	if card.IsRevealed() {
		hand = a.zones.myHand
		a.Board.ClearPendingDraw()
	}
	if err := a.Board.MoveCard(card, hand); err != nil {
		a.logger.Warnf("Drawn card %d was not on the table: %v", card.InstanceID(), err)
		if _, err := a.Board.AddCard(card, hand); err != nil {
			a.logger.Errorf("Failed to add drawn card %d: %v", card.InstanceID(), err)
		}
	}
}

// syncHandAcceptance opens the local hand to drops only on the local turn.
func (a *App) syncHandAcceptance() {
	if err := a.Board.SetAcceptsDrop(a.zones.myHand, a.MyTurn()); err != nil {
		a.logger.Errorf("Failed to update hand zone: %v", err)
	}
}
