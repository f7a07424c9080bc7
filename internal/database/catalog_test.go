// internal/database/catalog_test.go
package database

import (
	"testing"

	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogFromRows(t *testing.T) {
	cat, err := catalogFromRows([]cardRow{
		{ID: "sanc-001", Title: "Reliquary", Faction: "sanctum", Data: []byte(`{"kind":"ancient_artifact","vp":2,"attunement":3}`)},
		{ID: "thief-001", Title: "Lockbreaker", Faction: "thief", Data: []byte(`{"kind":"counter_spell","subtype":"fracter","cost":3,"strength":2}`)},
	})
	require.NoError(t, err)
	require.Len(t, cat, 2)

	relic := cat["sanc-001"]
	assert.Equal(t, models.Sanctum, relic.Faction)
	assert.Equal(t, models.KindAncientArtifact, relic.Data.Kind)
	assert.EqualValues(t, 3, relic.Data.Attunement)
	assert.Equal(t, models.CounterFracter, cat["thief-001"].Data.Subtype)
}

func TestCatalogFromRowsRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  cardRow
	}{
		{"unknown faction", cardRow{ID: "x", Faction: "pirate", Data: []byte(`{"kind":"ally"}`)}},
		{"malformed data", cardRow{ID: "x", Faction: "thief", Data: []byte(`{`)}},
		{"bad subtype", cardRow{ID: "x", Faction: "sanctum", Data: []byte(`{"kind":"ward","subtype":"moat"}`)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalogFromRows([]cardRow{tc.row})
			assert.Error(t, err)
		})
	}
}

func TestCatalogFromRowsRejectsDuplicates(t *testing.T) {
	row := cardRow{ID: "thief-001", Faction: "thief", Data: []byte(`{"kind":"ally"}`)}
	_, err := catalogFromRows([]cardRow{row, row})
	assert.Error(t, err)
}
