// internal/game/instances.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/sanctum/internal/models"
)

// LocationKind is the zone family an instance occupies.
type LocationKind uint8

const (
	LocationBoard LocationKind = iota
	LocationHand
	LocationDeck
	LocationTrash
)

// Location is where an instance currently is. FaceDown only applies to the board.
type Location struct {
	Kind     LocationKind
	FaceDown bool
}

var (
	InHand  = Location{Kind: LocationHand}
	InDeck  = Location{Kind: LocationDeck}
	InTrash = Location{Kind: LocationTrash}
)

// OnBoard places an instance on the table, optionally face down.
func OnBoard(faceDown bool) Location {
	return Location{Kind: LocationBoard, FaceDown: faceDown}
}

func (l Location) String() string {
	switch l.Kind {
	case LocationBoard:
		if l.FaceDown {
			return "board(face-down)"
		}
		return "board"
	case LocationHand:
		return "hand"
	case LocationDeck:
		return "deck"
	case LocationTrash:
		return "trash"
	}
	return "unknown"
}

// InstantiatedCard is the authoritative record of one physical card.
type InstantiatedCard struct {
	Card     models.CardID
	Location Location
}

// InstanceStore owns identity and location of every card instance in a match.
// Not safe for concurrent use; the owning Match serializes access.
type InstanceStore struct {
	counter models.InstanceID
	data    map[models.InstanceID]*InstantiatedCard
}

func NewInstanceStore() *InstanceStore {
	return &InstanceStore{
		data: make(map[models.InstanceID]*InstantiatedCard),
	}
}

// Create allocates the next id (starting at 1) for a card at a location.
func (s *InstanceStore) Create(card models.CardID, loc Location) models.InstanceID {
	s.counter++
	s.data[s.counter] = &InstantiatedCard{Card: card, Location: loc}
	return s.counter
}

// Get returns a copy of the record for id.
func (s *InstanceStore) Get(id models.InstanceID) (InstantiatedCard, error) {
	rec, ok := s.data[id]
	if !ok {
		return InstantiatedCard{}, fmt.Errorf("instance %d: %w", id, ErrNotFound)
	}
	return *rec, nil
}

// SetLocation moves an instance.
func (s *InstanceStore) SetLocation(id models.InstanceID, loc Location) error {
	rec, ok := s.data[id]
	if !ok {
		return fmt.Errorf("instance %d: %w", id, ErrNotFound)
	}
	rec.Location = loc
	return nil
}

// Project returns the viewer-facing state of an instance. Whether the viewer
// may see the card is decided by the caller.
func (s *InstanceStore) Project(id models.InstanceID, revealed bool) (models.CardState, error) {
	rec, ok := s.data[id]
	if !ok {
		return models.CardState{}, fmt.Errorf("instance %d: %w", id, ErrNotFound)
	}
	if revealed {
		return models.Revealed(id, rec.Card), nil
	}
	return models.Hidden(id), nil
}

// ProjectAll is the order-preserving batch form of Project.
func (s *InstanceStore) ProjectAll(ids []models.InstanceID, revealed bool) ([]models.CardState, error) {
	out := make([]models.CardState, 0, len(ids))
	for _, id := range ids {
		st, err := s.Project(id, revealed)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Len reports how many instances were ever created.
func (s *InstanceStore) Len() int {
	return len(s.data)
}
