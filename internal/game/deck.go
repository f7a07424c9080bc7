// internal/game/deck.go
package game

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/sanctum/internal/models"
)

const (
	// DeckCopies is how many copies of each faction card go into a deck.
	DeckCopies = 4
	// OpeningHandSize is dealt to each player when the match is created.
	OpeningHandSize = 5
)

// InstantiateDeck creates DeckCopies instances of every catalog card of the
// faction. Catalog entries are visited in CardID order so the deck is the same
// on every run.
func InstantiateDeck(faction models.Faction, catalog models.Catalog, store *InstanceStore) []models.InstanceID {
	cards := catalog.FactionCards(faction)
	deck := make([]models.InstanceID, 0, len(cards)*DeckCopies)
	for i := 0; i < DeckCopies; i++ {
		for _, c := range cards {
			deck = append(deck, store.Create(c.ID, InDeck))
		}
	}
	return deck
}

// DealHand pops n instances from the tail of deck and moves them to the hand.
// The returned hand is in pop order. On error nothing is moved.
func DealHand(deck *[]models.InstanceID, n int, store *InstanceStore) ([]models.InstanceID, error) {
	if len(*deck) < n {
		return nil, fmt.Errorf("deal %d from %d: %w", n, len(*deck), ErrInsufficientCards)
	}
	hand := make([]models.InstanceID, 0, n)
	for i := 0; i < n; i++ {
		last := len(*deck) - 1
		id := (*deck)[last]
		if err := store.SetLocation(id, InHand); err != nil {
			errs := []error{err}
			for _, dealt := range hand {
				errs = append(errs, store.SetLocation(dealt, InDeck))
			}
			*deck = append(*deck, reverse(hand)...)
			return nil, errors.Join(errs...)
		}
		*deck = (*deck)[:last]
		hand = append(hand, id)
	}
	return hand, nil
}

func reverse(ids []models.InstanceID) []models.InstanceID {
	out := make([]models.InstanceID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
