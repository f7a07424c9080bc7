// internal/board/target.go
package board

import "fmt"

// ZoneID identifies a drop target.
type ZoneID uint32

// ZoneType selects the layout policy of a drop target.
type ZoneType uint8

const (
	ZoneEvent ZoneType = iota
	ZoneBoardV
	ZoneBoardH
	ZoneTrash
	ZoneHand
	ZoneDeck
	ZoneDiscard
)

func (z ZoneType) String() string {
	switch z {
	case ZoneEvent:
		return "event"
	case ZoneBoardV:
		return "board_v"
	case ZoneBoardH:
		return "board_h"
	case ZoneTrash:
		return "trash"
	case ZoneHand:
		return "hand"
	case ZoneDeck:
		return "deck"
	case ZoneDiscard:
		return "discard"
	}
	return fmt.Sprintf("zone(%d)", uint8(z))
}

// LayoutPolicy is how a zone arranges its attached cards.
type LayoutPolicy uint8

const (
	LayoutNone LayoutPolicy = iota
	LayoutRow
	LayoutStack
)

// Policy maps every zone type to its layout policy. Adding a ZoneType
// requires a case here; unknown values panic.
func (z ZoneType) Policy() LayoutPolicy {
	switch z {
	case ZoneHand:
		return LayoutRow
	case ZoneDeck, ZoneDiscard:
		return LayoutStack
	case ZoneEvent, ZoneBoardV, ZoneBoardH, ZoneTrash:
		return LayoutNone
	}
	panic(fmt.Sprintf("board: no layout policy for %s", z))
}

// DropTarget is a rectangular zone on the table. Only CanAcceptDrop changes
// after the board is built.
type DropTarget struct {
	ID            ZoneID
	Anchor        Vec3
	Size          Vec2 // half extents
	Zone          ZoneType
	Local         bool // owned by the local player
	CanAcceptDrop bool
}

func (t DropTarget) rect() rect { return rectAt(t.Anchor, t.Size) }

// DefaultTargets is the table used by the clients, in registration order.
// The local side is toward +Z.
func DefaultTargets() []DropTarget {
	return []DropTarget{
		{ID: 0, Anchor: Vec3{0, 0, -2.5}, Size: Vec2{4, 0.6}, Zone: ZoneHand},
		{ID: 1, Anchor: Vec3{4.8, 0, -2.5}, Size: Vec2{0.45, 0.6}, Zone: ZoneDeck},
		{ID: 2, Anchor: Vec3{-4.8, 0, -2.5}, Size: Vec2{0.45, 0.6}, Zone: ZoneDiscard},
		{ID: 3, Anchor: Vec3{0, 0, -1.2}, Size: Vec2{4, 0.6}, Zone: ZoneBoardH},
		{ID: 4, Anchor: Vec3{0, 0, 0}, Size: Vec2{2, 0.55}, Zone: ZoneEvent, CanAcceptDrop: true},
		{ID: 5, Anchor: Vec3{0, 0, 1.2}, Size: Vec2{4, 0.6}, Zone: ZoneBoardH, Local: true, CanAcceptDrop: true},
		{ID: 6, Anchor: Vec3{4.8, 0, 0}, Size: Vec2{0.45, 1.2}, Zone: ZoneBoardV, Local: true, CanAcceptDrop: true},
		{ID: 7, Anchor: Vec3{0, 0, 2.5}, Size: Vec2{4, 0.6}, Zone: ZoneHand, Local: true},
		{ID: 8, Anchor: Vec3{4.8, 0, 2.5}, Size: Vec2{0.45, 0.6}, Zone: ZoneDeck, Local: true},
		{ID: 9, Anchor: Vec3{-4.8, 0, 2.5}, Size: Vec2{0.45, 0.6}, Zone: ZoneDiscard, Local: true},
		{ID: 10, Anchor: Vec3{-4.8, 0, 0}, Size: Vec2{0.45, 0.6}, Zone: ZoneTrash, Local: true, CanAcceptDrop: true},
	}
}
