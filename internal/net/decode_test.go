package net

import (
	"testing"

	"github.com/1123antman/battle-super-z/internal/game"
)

func TestDecodeCatalogCard(t *testing.T) {
	c, err := DecodeCard(map[string]any{"id": "fire_lance#slot-1", "power": 20, "cost": 0}, nil)
	if err != nil {
		t.Fatalf("DecodeCard: %v", err)
	}
	want := game.FireLance()
	if c.ID != "fire_lance#slot-1" {
		t.Errorf("slot id must be kept, got %q", c.ID)
	}
	if c.Power != want.Power || c.EffectiveCost() != want.EffectiveCost() || c.Element != want.Element {
		t.Errorf("catalog stats must win, got %+v", c)
	}
	if c.IsCustom {
		t.Error("catalog card flagged as custom")
	}
}

func TestDecodeCustomCard(t *testing.T) {
	raw := map[string]any{
		"id":         "frost_fang",
		"name":       "Frost Fang",
		"effectId":   "attack",
		"power":      "12",
		"cost":       5.0,
		"element":    "water",
		"actionType": "summon",
		"summonRole": "guardian",
		"skills":     []any{"vampire"},
	}
	c, err := DecodeCard(raw, nil)
	if err != nil {
		t.Fatalf("DecodeCard: %v", err)
	}
	if c.Power != 12 || c.Cost != 5 || c.Element != game.ElementWater {
		t.Errorf("unexpected numbers %+v", c)
	}
	if !c.IsSummon() || c.Role != game.RoleGuardian || !c.HasSkill(game.SkillVampire) || !c.IsCustom {
		t.Errorf("unexpected card %+v", c)
	}

	// round trip through the client encoding
	back, err := DecodeCard(EncodeCard(c), nil)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if back.Name != c.Name || back.Power != c.Power || len(back.Skills) != 1 {
		t.Errorf("round trip changed the card: %+v", back)
	}
}

func TestDecodeCardErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"nil", nil},
		{"no id", map[string]any{"name": "X", "effectId": "attack"}},
		{"bad power", map[string]any{"id": "x", "name": "X", "effectId": "attack", "power": "lots"}},
		{"too strong", map[string]any{"id": "x", "name": "X", "effectId": "attack", "power": 25}},
		{"cheap strong", map[string]any{"id": "x", "name": "X", "effectId": "attack", "power": 15, "cost": 2}},
		{"unknown effect", map[string]any{"id": "x", "name": "X", "effectId": "explode"}},
		{"fake basic", map[string]any{"id": "basic_nuke", "name": "Nuke", "effectId": "attack", "power": 5}},
		{"bad skills", map[string]any{"id": "x", "name": "X", "effectId": "attack", "skills": 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCard(tt.raw, nil); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDecodeUsesLibraryCustomCards(t *testing.T) {
	lib := game.DefaultLibrary()
	lib.Custom["frost_bite"] = &game.Card{ID: "frost_bite", Name: "Frost Bite", Effect: game.EffectAttack, Power: 8, IsCustom: true}

	c, err := DecodeCard(map[string]any{"id": "frost_bite", "power": 20}, lib)
	if err != nil {
		t.Fatalf("DecodeCard: %v", err)
	}
	if c.Power != 8 {
		t.Errorf("library definition should win, got power %d", c.Power)
	}
}
