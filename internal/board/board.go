// internal/board/board.go
package board

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/jason-s-yu/sanctum/internal/protocol"
)

// FocusScale is applied to the card under the pointer.
const FocusScale float32 = 3

var (
	ErrUnknownZone     = errors.New("unknown zone")
	ErrUnknownInstance = errors.New("unknown instance")
	ErrDuplicate       = errors.New("instance already on the board")
)

// Mode is the interaction state.
type Mode uint8

const (
	Idle Mode = iota
	Focused
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Focused:
		return "focused"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// Input is one frame of pointer state, already projected onto the table.
type Input struct {
	Pointer  Vec3
	Pressed  bool // button went down this frame
	Down     bool // button is held
	Released bool // button went up this frame
}

// DragState lives between press and release.
type DragState struct {
	Instance   models.InstanceID
	Origin     Vec3
	OriginZone *ZoneID
	GrabOffset Vec3
}

// FocusState lives while the pointer rests on a card and nothing is dragged.
type FocusState struct {
	Instance      models.InstanceID
	PreviousScale float32
}

// Board owns the card views and drop targets of one client and turns pointer
// input into attachment changes and outbound actions. It is not safe for
// concurrent use; the frame loop owns it.
type Board struct {
	targets []DropTarget
	cards   []*CardView

	drag        *DragState
	focus       *FocusState
	pendingDraw bool
	seq         uint64
}

// New builds a board over targets, which keep their registration order.
func New(targets []DropTarget) (*Board, error) {
	seen := make(map[ZoneID]bool, len(targets))
	for _, t := range targets {
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate zone id %d", t.ID)
		}
		seen[t.ID] = true
		if t.Zone > ZoneDiscard {
			return nil, fmt.Errorf("zone %d: unknown type %s", t.ID, t.Zone)
		}
	}
	return &Board{targets: append([]DropTarget(nil), targets...)}, nil
}

// Mode reports the current interaction state.
func (b *Board) Mode() Mode {
	switch {
	case b.drag != nil:
		return Dragging
	case b.focus != nil:
		return Focused
	}
	return Idle
}

// Drag returns a copy of the live drag, if any.
func (b *Board) Drag() (DragState, bool) {
	if b.drag == nil {
		return DragState{}, false
	}
	return *b.drag, true
}

// Focus returns a copy of the live focus, if any.
func (b *Board) Focus() (FocusState, bool) {
	if b.focus == nil {
		return FocusState{}, false
	}
	return *b.focus, true
}

// Targets returns the drop targets in registration order.
func (b *Board) Targets() []DropTarget {
	return append([]DropTarget(nil), b.targets...)
}

// Cards returns the card views, topmost first. The views are live.
func (b *Board) Cards() []*CardView {
	return append([]*CardView(nil), b.cards...)
}

// Card looks up the view of an instance.
func (b *Board) Card(id models.InstanceID) (*CardView, bool) {
	for _, c := range b.cards {
		if c.InstanceID() == id {
			return c, true
		}
	}
	return nil, false
}

// Attached returns the cards of a zone in attachment order.
func (b *Board) Attached(zone ZoneID) []*CardView { return b.attached(zone) }

// FindZone returns the first target of the given type and side.
func (b *Board) FindZone(zone ZoneType, local bool) (ZoneID, bool) {
	for _, t := range b.targets {
		if t.Zone == zone && t.Local == local {
			return t.ID, true
		}
	}
	return 0, false
}

func (b *Board) target(id ZoneID) (DropTarget, bool) {
	for _, t := range b.targets {
		if t.ID == id {
			return t, true
		}
	}
	return DropTarget{}, false
}

// SetAcceptsDrop toggles whether a zone takes cards from other zones.
func (b *Board) SetAcceptsDrop(zone ZoneID, accept bool) error {
	for i := range b.targets {
		if b.targets[i].ID == zone {
			b.targets[i].CanAcceptDrop = accept
			return nil
		}
	}
	return fmt.Errorf("zone %d: %w", zone, ErrUnknownZone)
}

// AddCard creates a view for state, attaches it to zone and lays the zone out.
func (b *Board) AddCard(state models.CardState, zone ZoneID) (*CardView, error) {
	t, ok := b.target(zone)
	if !ok {
		return nil, fmt.Errorf("zone %d: %w", zone, ErrUnknownZone)
	}
	if _, dup := b.Card(state.InstanceID()); dup {
		return nil, fmt.Errorf("instance %d: %w", state.InstanceID(), ErrDuplicate)
	}
	c := &CardView{
		State:    state,
		Position: t.Anchor,
		Size:     CardHalfSize,
		Scale:    1,
	}
	b.attach(c, zone)
	b.cards = append(b.cards, c)
	b.Recompute(zone)
	return c, nil
}

// MoveCard attaches an existing card to zone, optionally replacing its state,
// and lays out both the old and new zone.
func (b *Board) MoveCard(state models.CardState, zone ZoneID) error {
	if _, ok := b.target(zone); !ok {
		return fmt.Errorf("zone %d: %w", zone, ErrUnknownZone)
	}
	c, ok := b.Card(state.InstanceID())
	if !ok {
		return fmt.Errorf("instance %d: %w", state.InstanceID(), ErrUnknownInstance)
	}
	c.State = state
	if b.drag != nil && b.drag.Instance == c.InstanceID() {
		// The server moved the card out from under the pointer.
		c.Grabbed = false
		b.drag = nil
	}
	prev := c.Zone
	b.attach(c, zone)
	if prev != nil && *prev != zone {
		b.Recompute(*prev)
	}
	b.Recompute(zone)
	return nil
}

func (b *Board) attach(c *CardView, zone ZoneID) {
	b.seq++
	z := zone
	c.Zone = &z
	c.attachSeq = b.seq
}

// PendingDraw reports whether a draw was requested and not yet answered.
func (b *Board) PendingDraw() bool { return b.pendingDraw }

// ClearPendingDraw is called when the server answers or rejects a draw.
func (b *Board) ClearPendingDraw() { b.pendingDraw = false }

// Update advances the interaction state by one frame and returns the actions
// to send to the server.
func (b *Board) Update(in Input) []protocol.Action {
	if b.drag == nil {
		b.updateFocus(in.Pointer)
	}

	if in.Pressed && b.drag == nil {
		b.grab(in.Pointer)
	}

	if in.Down && b.drag != nil {
		if c, ok := b.Card(b.drag.Instance); ok {
			pos := in.Pointer.Sub(b.drag.GrabOffset)
			pos.Y = c.Position.Y
			c.Position = pos
		}
	}

	if in.Released && b.drag != nil {
		return b.drop()
	}
	return nil
}

// hit returns the first card under the pointer, topmost first.
func (b *Board) hit(p Vec3) *CardView {
	for _, c := range b.cards {
		if c.Contains(p) {
			return c
		}
	}
	return nil
}

func (b *Board) updateFocus(p Vec3) {
	c := b.hit(p)
	if c == nil {
		if b.focus != nil {
			b.clearFocus()
		}
		return
	}
	if b.focus != nil && b.focus.Instance == c.InstanceID() {
		return
	}
	b.clearFocus()
	b.focus = &FocusState{Instance: c.InstanceID(), PreviousScale: 1}
	c.Scale = FocusScale
}

func (b *Board) clearFocus() {
	for _, c := range b.cards {
		c.Scale = 1
	}
	b.focus = nil
}

// grab starts a drag on the card under the pointer. Hidden cards cannot be
// picked up.
func (b *Board) grab(p Vec3) {
	c := b.hit(p)
	if c == nil || !c.State.IsRevealed() {
		return
	}
	b.clearFocus()
	c.Grabbed = true
	var origin *ZoneID
	if c.Zone != nil {
		z := *c.Zone
		origin = &z
	}
	b.drag = &DragState{
		Instance:   c.InstanceID(),
		Origin:     c.Position,
		OriginZone: origin,
		GrabOffset: p.Sub(c.Position),
	}
}

// drop resolves the destination of the dragged card and ends the drag.
func (b *Board) drop() []protocol.Action {
	drag := b.drag
	b.drag = nil
	c, ok := b.Card(drag.Instance)
	if !ok {
		return nil
	}
	c.Grabbed = false

	dest := drag.OriginZone
	for _, t := range b.targets {
		isOrigin := drag.OriginZone != nil && t.ID == *drag.OriginZone
		if (t.CanAcceptDrop || isOrigin) && c.Overlaps(t) {
			id := t.ID
			dest = &id
			break
		}
	}

	var out []protocol.Action
	if b.isLocalDraw(c.Zone, dest) {
		// The card stays home until the server says which instance was drawn.
		if !b.pendingDraw {
			b.pendingDraw = true
			out = append(out, protocol.DrawCard())
		}
		dest = drag.OriginZone
	}

	if dest == nil {
		c.Position = drag.Origin
		return out
	}

	returned := drag.OriginZone != nil && *dest == *drag.OriginZone
	if returned {
		if t, _ := b.target(*dest); t.Zone.Policy() == LayoutNone {
			c.Position = drag.Origin
		}
	} else {
		b.attach(c, *dest)
		if drag.OriginZone != nil {
			b.Recompute(*drag.OriginZone)
		}
	}
	b.Recompute(*dest)
	return out
}

func (b *Board) isLocalDraw(from, to *ZoneID) bool {
	if from == nil || to == nil || *from == *to {
		return false
	}
	src, ok1 := b.target(*from)
	dst, ok2 := b.target(*to)
	return ok1 && ok2 &&
		src.Zone == ZoneDeck && src.Local &&
		dst.Zone == ZoneHand && dst.Local
}
