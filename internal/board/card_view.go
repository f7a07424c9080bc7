// internal/board/card_view.go
package board

import "github.com/jason-s-yu/sanctum/internal/models"

// FaceDownArt is the art key for hidden cards.
const FaceDownArt = "__face_down__"

// CardHalfSize is the half extent of every card on the table.
var CardHalfSize = Vec2{X: 0.3125, Y: 0.5}

// CardView is the client-side projection of one instance. Position is local
// presentation state and never leaves the client.
type CardView struct {
	State    models.CardState
	Position Vec3
	Size     Vec2
	Zone     *ZoneID
	Grabbed  bool
	Scale    float32

	attachSeq uint64 // order of attachment to Zone
}

// InstanceID is the instance this view shows.
func (c *CardView) InstanceID() models.InstanceID { return c.State.InstanceID() }

// ArtKey is the lookup key into the client's art table.
func (c *CardView) ArtKey() string {
	if id, ok := c.State.CardID(); ok {
		return string(id)
	}
	return FaceDownArt
}

// AttachedTo reports whether the card is attached to zone.
func (c *CardView) AttachedTo(zone ZoneID) bool {
	return c.Zone != nil && *c.Zone == zone
}

func (c *CardView) rect() rect { return rectAt(c.Position, c.Size) }

// Contains is the pointer hit test on the card's unscaled footprint.
func (c *CardView) Contains(p Vec3) bool { return c.rect().contains(p) }

// Overlaps reports whether the card's footprint touches the target.
func (c *CardView) Overlaps(t DropTarget) bool { return c.rect().overlaps(t.rect()) }
