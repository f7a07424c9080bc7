// internal/models/catalog.go
package models

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Catalog is the immutable set of card definitions shared by server and clients.
type Catalog map[CardID]CardData

// FactionCards returns the definitions of a faction sorted by CardID.
// Deck construction depends on this order, so it must never follow map order.
func (c Catalog) FactionCards(f Faction) []CardData {
	out := make([]CardData, 0, len(c))
	for _, data := range c {
		if data.Faction == f {
			out = append(out, data)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks that every entry is keyed by its own id and has a valid type.
func (c Catalog) Validate() error {
	for key, data := range c {
		if data.ID == "" {
			data.ID = key
			c[key] = data
		}
		if data.ID != key {
			return fmt.Errorf("card %q keyed as %q", data.ID, key)
		}
		if err := data.Data.Validate(); err != nil {
			return fmt.Errorf("card %q: %w", key, err)
		}
	}
	return nil
}

// ParseCatalog decodes a JSON object of CardID -> CardData.
func ParseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to decode card catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadCatalogFile reads the card definitions file once at startup.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}
