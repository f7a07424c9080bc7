// internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHiddenStateNeverCarriesCard(t *testing.T) {
	h := Hidden(42)
	id, ok := h.CardID()
	assert.False(t, ok)
	assert.Empty(t, id)

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"instance":42}`, string(data))
	assert.NotContains(t, string(data), "card")
}

func TestRevealedStateJSON(t *testing.T) {
	data, err := json.Marshal(Revealed(7, "thief-001"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"instance":7,"card":"thief-001"}`, string(data))

	var back CardState
	require.NoError(t, json.Unmarshal(data, &back))
	id, ok := back.CardID()
	assert.True(t, ok)
	assert.Equal(t, CardID("thief-001"), id)
	assert.Equal(t, InstanceID(7), back.InstanceID())
}

func TestCardStateRejectsInvalidJSON(t *testing.T) {
	var s CardState
	assert.Error(t, json.Unmarshal([]byte(`{"card":"x"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"instance":3,"card":""}`), &s))
}

func TestFactionJSON(t *testing.T) {
	data, err := json.Marshal(Thief)
	require.NoError(t, err)
	assert.Equal(t, `"thief"`, string(data))

	var f Faction
	require.NoError(t, json.Unmarshal([]byte(`"sanctum"`), &f))
	assert.Equal(t, Sanctum, f)
	assert.Equal(t, Thief, f.Other())
	assert.Error(t, json.Unmarshal([]byte(`"pirate"`), &f))
}

func TestFactionCardsSortedByID(t *testing.T) {
	cat := Catalog{
		"s-3": {ID: "s-3", Faction: Sanctum, Data: CardType{Kind: KindEvent}},
		"s-1": {ID: "s-1", Faction: Sanctum, Data: CardType{Kind: KindEvent}},
		"t-1": {ID: "t-1", Faction: Thief, Data: CardType{Kind: KindAlly}},
		"s-2": {ID: "s-2", Faction: Sanctum, Data: CardType{Kind: KindEvent}},
	}
	for i := 0; i < 5; i++ {
		cards := cat.FactionCards(Sanctum)
		require.Len(t, cards, 3)
		assert.Equal(t, []CardID{"s-1", "s-2", "s-3"}, []CardID{cards[0].ID, cards[1].ID, cards[2].ID})
	}
}

func TestCardTypeValidate(t *testing.T) {
	assert.NoError(t, CardType{Kind: KindWard, Subtype: WardRune}.Validate())
	assert.NoError(t, CardType{Kind: KindOperation}.Validate())
	assert.Error(t, CardType{Kind: KindWard}.Validate())
	assert.Error(t, CardType{Kind: KindAlly, Subtype: WardGlyph}.Validate())
	assert.Error(t, CardType{Kind: "spaceship"}.Validate())
}

func TestCatalogValidateRejectsMismatchedKey(t *testing.T) {
	cat := Catalog{"a": {ID: "b", Data: CardType{Kind: KindAlly}}}
	assert.Error(t, cat.Validate())
}

func TestLoadBundledCatalog(t *testing.T) {
	cat, err := LoadCatalogFile("../../assets/cards.json")
	require.NoError(t, err)
	assert.Len(t, cat.FactionCards(Sanctum), 6)
	assert.Len(t, cat.FactionCards(Thief), 6)
}
