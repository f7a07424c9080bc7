// internal/models/card_state.go
package models

import (
	"encoding/json"
	"errors"
)

// CardState is one viewer's projection of a card instance. A hidden state
// carries the instance identity only; there is no way to build one holding a
// CardID.
type CardState struct {
	instance InstanceID
	card     CardID
	revealed bool
}

// Revealed builds a face-up projection.
func Revealed(id InstanceID, card CardID) CardState {
	return CardState{instance: id, card: card, revealed: true}
}

// Hidden builds a face-down projection.
func Hidden(id InstanceID) CardState {
	return CardState{instance: id}
}

func (s CardState) InstanceID() InstanceID { return s.instance }

func (s CardState) IsRevealed() bool { return s.revealed }

// CardID returns the card definition and true only for revealed states.
func (s CardState) CardID() (CardID, bool) {
	if !s.revealed {
		return "", false
	}
	return s.card, true
}

type cardStateJSON struct {
	Instance InstanceID `json:"instance"`
	Card     *CardID    `json:"card,omitempty"`
}

func (s CardState) MarshalJSON() ([]byte, error) {
	out := cardStateJSON{Instance: s.instance}
	if s.revealed {
		card := s.card
		out.Card = &card
	}
	return json.Marshal(out)
}

func (s *CardState) UnmarshalJSON(data []byte) error {
	var in cardStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Instance == 0 {
		return errors.New("card state without instance id")
	}
	if in.Card == nil {
		*s = Hidden(in.Instance)
		return nil
	}
	if *in.Card == "" {
		return errors.New("revealed card state with empty card id")
	}
	*s = Revealed(in.Instance, *in.Card)
	return nil
}
