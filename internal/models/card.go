// internal/models/card.go
package models

import (
	"encoding/json"
	"fmt"
)

// CardID identifies a card definition in the catalog, e.g. "sanc-004".
type CardID string

// InstanceID identifies one physical card for the lifetime of a match.
type InstanceID uint32

// Faction is one of the two opposed sides a player commits to at session start.
type Faction uint8

const (
	Sanctum Faction = iota
	Thief
)

// Other returns the opposing faction.
func (f Faction) Other() Faction {
	if f == Sanctum {
		return Thief
	}
	return Sanctum
}

func (f Faction) String() string {
	switch f {
	case Sanctum:
		return "sanctum"
	case Thief:
		return "thief"
	}
	return fmt.Sprintf("faction(%d)", uint8(f))
}

// ParseFaction accepts "sanctum" or "thief".
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "sanctum", "Sanctum":
		return Sanctum, nil
	case "thief", "Thief":
		return Thief, nil
	}
	return 0, fmt.Errorf("unknown faction %q", s)
}

func (f Faction) MarshalJSON() ([]byte, error) {
	if f != Sanctum && f != Thief {
		return nil, fmt.Errorf("invalid faction %d", uint8(f))
	}
	return json.Marshal(f.String())
}

func (f *Faction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFaction(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// CardKind tags which fields of CardType are meaningful.
type CardKind string

const (
	KindAncientArtifact CardKind = "ancient_artifact"
	KindWard            CardKind = "ward"
	KindAsset           CardKind = "asset"
	KindOperation       CardKind = "operation"
	KindCounterSpell    CardKind = "counter_spell"
	KindEvent           CardKind = "event"
	KindMagicalGear     CardKind = "magical_gear"
	KindAlly            CardKind = "ally"
)

// Subtypes used by wards, assets, operations and counter spells.
const (
	WardGlyph    = "glyph"
	WardRune     = "rune"
	WardGuardian = "guardian"

	AssetAmbush = "ambush"
	AssetRitual = "ritual"

	CounterFracter = "fracter" // breaks glyphs
	CounterDecoder = "decoder" // breaks runes
	CounterKiller  = "killer"  // breaks guardians
)

// CardType holds the type-specific stats of a card definition.
// Kind selects the variant; fields not used by that variant stay zero.
type CardType struct {
	Kind       CardKind `json:"kind"`
	Subtype    string   `json:"subtype,omitempty"`
	Cost       uint32   `json:"cost,omitempty"`
	Strength   uint32   `json:"strength,omitempty"`
	FocusCost  uint32   `json:"focus_cost,omitempty"`
	VP         uint32   `json:"vp,omitempty"`
	Attunement uint32   `json:"attunement,omitempty"`
}

// Validate checks that Kind is known and the subtype fits the variant.
func (t CardType) Validate() error {
	switch t.Kind {
	case KindWard:
		return checkSubtype(t, WardGlyph, WardRune, WardGuardian)
	case KindAsset:
		return checkSubtype(t, AssetAmbush, AssetRitual)
	case KindOperation:
		if t.Subtype == "" {
			return nil
		}
		return checkSubtype(t, AssetAmbush, AssetRitual)
	case KindCounterSpell:
		return checkSubtype(t, CounterFracter, CounterDecoder, CounterKiller)
	case KindAncientArtifact, KindEvent, KindMagicalGear, KindAlly:
		if t.Subtype != "" {
			return fmt.Errorf("%s cards have no subtype, got %q", t.Kind, t.Subtype)
		}
		return nil
	}
	return fmt.Errorf("unknown card kind %q", t.Kind)
}

func checkSubtype(t CardType, allowed ...string) error {
	for _, s := range allowed {
		if t.Subtype == s {
			return nil
		}
	}
	return fmt.Errorf("invalid subtype %q for %s", t.Subtype, t.Kind)
}

// CardData is one catalog entry.
type CardData struct {
	ID        CardID   `json:"id"`
	Title     string   `json:"title"`
	Faction   Faction  `json:"faction"`
	Text      string   `json:"text"`
	ImageFile string   `json:"image_file"`
	Data      CardType `json:"data"`
}
