// internal/database/catalog.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/sanctum/internal/models"
)

// Querier is the subset of pgxpool.Pool used for catalog reads.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// cardRow mirrors one row of card_definitions.
type cardRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Faction   string `db:"faction"`
	Text      string `db:"body"`
	ImageFile string `db:"image_file"`
	Data      []byte `db:"data"`
}

// LoadCatalog reads every card definition from card_definitions.
//
//	CREATE TABLE card_definitions (
//	    id         TEXT PRIMARY KEY,
//	    title      TEXT NOT NULL,
//	    faction    TEXT NOT NULL CHECK (faction IN ('sanctum', 'thief')),
//	    body       TEXT NOT NULL DEFAULT '',
//	    image_file TEXT NOT NULL DEFAULT '',
//	    data       JSONB NOT NULL
//	);
func LoadCatalog(ctx context.Context, db Querier) (models.Catalog, error) {
	q := `
		SELECT id, title, faction, body, image_file, data
		FROM card_definitions
		ORDER BY id
	`
	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query card_definitions: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[cardRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan card_definitions: %w", err)
	}
	return catalogFromRows(records)
}

// catalogFromRows decodes the type column and validates the result.
func catalogFromRows(rows []cardRow) (models.Catalog, error) {
	cat := make(models.Catalog, len(rows))
	for _, r := range rows {
		faction, err := models.ParseFaction(r.Faction)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", r.ID, err)
		}
		var data models.CardType
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, fmt.Errorf("card %q: invalid data column: %w", r.ID, err)
		}
		id := models.CardID(r.ID)
		if _, dup := cat[id]; dup {
			return nil, fmt.Errorf("duplicate card id %q", r.ID)
		}
		cat[id] = models.CardData{
			ID:        id,
			Title:     r.Title,
			Faction:   faction,
			Text:      r.Text,
			ImageFile: r.ImageFile,
			Data:      data,
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}
