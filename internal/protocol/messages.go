// internal/protocol/messages.go
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/jason-s-yu/sanctum/internal/models"
)

// ActionType tags a client -> server message.
type ActionType string

const (
	ActionInit     ActionType = "init"
	ActionDrawCard ActionType = "draw_card"
	ActionEndTurn  ActionType = "end_turn"
)

// InitRequest binds a connection to a display name and a faction.
type InitRequest struct {
	Name    string         `json:"name"`
	Faction models.Faction `json:"faction"`
}

// UnmarshalJSON requires the faction to be present; its zero value is a real
// faction and must not be picked by omission.
func (r *InitRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Faction *models.Faction `json:"faction"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Faction == nil {
		return errors.New("init without faction")
	}
	r.Name = raw.Name
	r.Faction = *raw.Faction
	return nil
}

// Action is the client -> server envelope. Init is set only for ActionInit.
type Action struct {
	Type ActionType   `json:"type"`
	Init *InitRequest `json:"init,omitempty"`
}

func Init(name string, faction models.Faction) Action {
	return Action{Type: ActionInit, Init: &InitRequest{Name: name, Faction: faction}}
}

func DrawCard() Action { return Action{Type: ActionDrawCard} }

func EndTurn() Action { return Action{Type: ActionEndTurn} }

// ResponseType tags a server -> client message.
type ResponseType string

const (
	ResponseInitial     ResponseType = "initial"
	ResponseDrawCard    ResponseType = "draw_card"
	ResponseTurnChanged ResponseType = "turn_changed"
	ResponsePresence    ResponseType = "presence"
	ResponseRejected    ResponseType = "rejected"
)

// Response is the server -> client envelope; exactly one payload matches Type.
type Response struct {
	Type     ResponseType      `json:"type"`
	Initial  *InitState        `json:"initial,omitempty"`
	Card     *models.CardState `json:"card,omitempty"`
	Turn     *models.Faction   `json:"turn,omitempty"`
	Presence *Presence         `json:"presence,omitempty"`
	Error    *Rejection        `json:"error,omitempty"`
}

// Presence tells a client its opponent joined or left.
type Presence struct {
	Faction   models.Faction `json:"faction"`
	Name      string         `json:"name"`
	Connected bool           `json:"connected"`
}

// Rejection explains why an action was refused. The connection stays open.
type Rejection struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// InitState is the handshake acknowledgment: both snapshots, the catalog and the turn.
type InitState struct {
	MyState    PlayerSnapshot `json:"my_state"`
	OtherState PlayerSnapshot `json:"other_state"`
	CardSet    models.Catalog `json:"card_set"`
	Turn       models.Faction `json:"turn"`
}

// CommonZones are the zones every faction has.
type CommonZones struct {
	Stats     models.BasicStats  `json:"stats"`
	Deck      []models.CardState `json:"deck"`
	Hand      []models.CardState `json:"hand"`
	Discard   []models.CardState `json:"discard"`
	ScoreArea []models.CardState `json:"score_area"`
}

// Remote is a Sanctum server slot: protecting wards plus optional contents.
type Remote struct {
	Wards    []models.CardState `json:"wards"`
	Contents *models.CardState  `json:"contents,omitempty"`
}

// SanctumZones are only present in a Sanctum snapshot.
type SanctumZones struct {
	HandLair    []models.CardState `json:"hand_lair"`
	DeckLair    []models.CardState `json:"deck_lair"`
	DiscardLair []models.CardState `json:"discard_lair"`
	Remotes     []Remote           `json:"remotes"`
}

// ThiefZones are only present in a Thief snapshot.
type ThiefZones struct {
	SpellSlots []models.CardState `json:"spell_slots"`
	GearSlots  []models.CardState `json:"gear_slots"`
	AllySlots  []models.CardState `json:"ally_slots"`
}

// PlayerSnapshot is one player's state as seen by one viewer. Faction selects
// which of Sanctum/Thief is set.
type PlayerSnapshot struct {
	Faction models.Faction `json:"faction"`
	Common  CommonZones    `json:"common"`
	Sanctum *SanctumZones  `json:"sanctum,omitempty"`
	Thief   *ThiefZones    `json:"thief,omitempty"`
}

func InitialResponse(state InitState) Response {
	return Response{Type: ResponseInitial, Initial: &state}
}

func DrawCardResponse(card models.CardState) Response {
	return Response{Type: ResponseDrawCard, Card: &card}
}

func TurnChangedResponse(turn models.Faction) Response {
	return Response{Type: ResponseTurnChanged, Turn: &turn}
}

func PresenceResponse(p Presence) Response {
	return Response{Type: ResponsePresence, Presence: &p}
}

func RejectedResponse(kind ErrorKind, message string) Response {
	return Response{Type: ResponseRejected, Error: &Rejection{Kind: kind, Message: message}}
}
