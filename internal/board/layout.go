// internal/board/layout.go
package board

import "sort"

const (
	// RowMargin is kept clear on each side of a card in a row.
	RowMargin float32 = 0.02
	// StackStep lifts each card of a stack above the previous one.
	StackStep float32 = 0.005
)

// Recompute lays out the cards attached to zone according to its policy,
// then re-sorts every card by height so the topmost card comes first.
func (b *Board) Recompute(zone ZoneID) {
	t, ok := b.target(zone)
	if !ok {
		return
	}

	attached := b.attached(zone)
	switch t.Zone.Policy() {
	case LayoutRow:
		layoutRow(t, attached)
	case LayoutStack:
		layoutStack(t, attached)
	case LayoutNone:
	}

	sort.SliceStable(b.cards, func(i, j int) bool {
		return b.cards[i].Position.Y > b.cards[j].Position.Y
	})
}

// attached returns the cards of zone in attachment order.
func (b *Board) attached(zone ZoneID) []*CardView {
	var out []*CardView
	for _, c := range b.cards {
		if c.AttachedTo(zone) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].attachSeq < out[j].attachSeq })
	return out
}

// layoutRow centers the cards on the anchor, most recently attached leftmost.
func layoutRow(t DropTarget, cards []*CardView) {
	if len(cards) == 0 {
		return
	}
	spacing := 2 * (CardHalfSize.X + RowMargin)
	offset := float32(len(cards)-1) * spacing / 2
	x := t.Anchor.X - offset
	for i := len(cards) - 1; i >= 0; i-- {
		cards[i].Position = Vec3{X: x, Y: t.Anchor.Y, Z: t.Anchor.Z}
		x += spacing
	}
}

// layoutStack piles the cards on the anchor in attachment order.
func layoutStack(t DropTarget, cards []*CardView) {
	for i, c := range cards {
		c.Position = Vec3{X: t.Anchor.X, Y: t.Anchor.Y + float32(i)*StackStep, Z: t.Anchor.Z}
	}
}
