// internal/protocol/codec_test.go
package protocol

import (
	"testing"

	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActionValidatesPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    ActionType
		wantErr bool
	}{
		{"init", `{"type":"init","init":{"name":"alice","faction":"sanctum"}}`, ActionInit, false},
		{"draw", `{"type":"draw_card"}`, ActionDrawCard, false},
		{"end turn", `{"type":"end_turn"}`, ActionEndTurn, false},
		{"init without payload", `{"type":"init"}`, "", true},
		{"draw with init payload", `{"type":"draw_card","init":{"name":"x","faction":"thief"}}`, "", true},
		{"unknown type", `{"type":"teleport"}`, "", true},
		{"init without faction", `{"type":"init","init":{"name":"bob"}}`, "", true},
		{"init with null faction", `{"type":"init","init":{"name":"bob","faction":null}}`, "", true},
		{"bad faction", `{"type":"init","init":{"name":"x","faction":"pirate"}}`, "", true},
		{"not json", `draw`, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := DecodeAction([]byte(tc.payload))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrSerialization)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.Type)
		})
	}
}

func TestDecodeResponseRequiresMatchingPayload(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"type":"draw_card"}`))
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = DecodeResponse([]byte(`{"type":"mystery"}`))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDrawCardResponseKeepsVisibility(t *testing.T) {
	data, err := EncodeResponse(DrawCardResponse(models.Hidden(9)))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"card":"`)

	resp, err := DecodeResponse(data)
	require.NoError(t, err)
	require.NotNil(t, resp.Card)
	assert.False(t, resp.Card.IsRevealed())
	assert.Equal(t, models.InstanceID(9), resp.Card.InstanceID())
}

func TestRejectionKinds(t *testing.T) {
	assert.True(t, KindNotFound.IsDesync())
	assert.True(t, KindSerialization.IsDesync())
	assert.False(t, KindNotYourTurn.IsDesync())

	data, err := EncodeResponse(RejectedResponse(KindEmptyDeck, "deck is empty"))
	require.NoError(t, err)
	resp, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, KindEmptyDeck, resp.Error.Kind)
}
