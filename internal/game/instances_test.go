// internal/game/instances_test.go
package game

import (
	"testing"

	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAllocatesIncreasingIDs(t *testing.T) {
	s := NewInstanceStore()
	var prev models.InstanceID
	for i := 0; i < 10; i++ {
		id := s.Create("sanc-001", InDeck)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, models.InstanceID(10), prev)

	require.NoError(t, s.SetLocation(3, InTrash))
	require.NoError(t, s.SetLocation(4, OnBoard(true)))
	assert.Equal(t, models.InstanceID(11), s.Create("sanc-002", InHand), "moving instances never frees ids")
}

func TestUnknownInstanceIsNotFound(t *testing.T) {
	s := NewInstanceStore()
	s.Create("sanc-001", InDeck)

	_, err := s.Get(0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(2)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.SetLocation(99, InHand), ErrNotFound)
	_, err = s.Project(99, false)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.ProjectAll([]models.InstanceID{1, 99}, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProjectionHidesCardID(t *testing.T) {
	s := NewInstanceStore()
	ids := []models.InstanceID{
		s.Create("sanc-001", InDeck),
		s.Create("thief-002", InHand),
		s.Create("sanc-003", OnBoard(true)),
	}

	revealed, err := s.ProjectAll(ids, true)
	require.NoError(t, err)
	hidden, err := s.ProjectAll(ids, false)
	require.NoError(t, err)

	for i, id := range ids {
		rec, err := s.Get(id)
		require.NoError(t, err)

		assert.Equal(t, id, revealed[i].InstanceID())
		cid, ok := revealed[i].CardID()
		require.True(t, ok)
		assert.Equal(t, rec.Card, cid)

		assert.Equal(t, id, hidden[i].InstanceID())
		cid, ok = hidden[i].CardID()
		assert.False(t, ok)
		assert.Empty(t, cid)
	}
}

func TestInstantiateDeckIsDeterministic(t *testing.T) {
	cat := testCatalog()
	cardsOf := func() []models.CardID {
		s := NewInstanceStore()
		deck := InstantiateDeck(models.Sanctum, cat, s)
		out := make([]models.CardID, 0, len(deck))
		for _, id := range deck {
			rec, err := s.Get(id)
			require.NoError(t, err)
			out = append(out, rec.Card)
		}
		return out
	}

	first := cardsOf()
	require.Len(t, first, 3*DeckCopies)
	assert.Equal(t, []models.CardID{"sanc-001", "sanc-002", "sanc-003"}, first[:3])
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, cardsOf())
	}
}

func TestDealHandTakesFromTail(t *testing.T) {
	s := NewInstanceStore()
	deck := InstantiateDeck(models.Thief, testCatalog(), s)
	original := append([]models.InstanceID(nil), deck...)

	hand, err := DealHand(&deck, 5, s)
	require.NoError(t, err)
	require.Len(t, hand, 5)
	assert.Equal(t, original[:len(original)-5], deck)
	for i, id := range hand {
		assert.Equal(t, original[len(original)-1-i], id)
		rec, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, InHand, rec.Location)
	}

	_, err = DealHand(&deck, 5, s)
	require.NoError(t, err)
	require.Len(t, deck, 2)

	_, err = DealHand(&deck, 5, s)
	require.ErrorIs(t, err, ErrInsufficientCards)
	assert.Len(t, deck, 2, "a failed deal leaves the deck alone")
}

func TestDealHandRollsBackOnUnknownInstance(t *testing.T) {
	s := NewInstanceStore()
	a := s.Create("thief-001", InDeck)
	b := s.Create("thief-002", InDeck)
	deck := []models.InstanceID{999, a, b}
	original := append([]models.InstanceID(nil), deck...)

	hand, err := DealHand(&deck, 3, s)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, hand)
	assert.Equal(t, original, deck)
	for _, id := range []models.InstanceID{a, b} {
		rec, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, InDeck, rec.Location)
	}
}
