package net

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/1123antman/battle-super-z/internal/game"
)

// DecodeCard turns a loosely typed card payload into a game.Card. Numbers may
// arrive as strings and booleans as "true"/"1".
//
// Catalog cards (including deck slots "<id>#<slot>" and basic actions) are
// replaced by their canonical definition from lib so a client cannot inflate
// their stats; the room then decides which copy the play uses. Anything else
// must pass the custom card rules.
func DecodeCard(raw map[string]any, lib *game.DeckLibrary) (*game.Card, error) {
	if raw == nil {
		return nil, errors.New("missing card")
	}

	id, err := cast.ToStringE(raw["id"])
	if err != nil || id == "" {
		return nil, errors.New("card id is required")
	}
	if lib == nil {
		lib = game.DefaultLibrary()
	}
	if known, err := lib.Lookup(game.SlotBase(id)); err == nil {
		return known.Clone(id), nil
	}

	c := &game.Card{ID: id, IsCustom: true}
	if c.Name, err = cast.ToStringE(raw["name"]); err != nil {
		return nil, fmt.Errorf("card name: %w", err)
	}
	effect := raw["effectId"]
	if effect == nil {
		effect = raw["effect"]
	}
	s, err := cast.ToStringE(effect)
	if err != nil {
		return nil, fmt.Errorf("card effect: %w", err)
	}
	c.Effect = game.Effect(s)

	if c.Power, err = cast.ToIntE(valueOr(raw["power"], 0)); err != nil {
		return nil, fmt.Errorf("card power: %w", err)
	}
	if c.Cost, err = cast.ToIntE(valueOr(raw["cost"], 0)); err != nil {
		return nil, fmt.Errorf("card cost: %w", err)
	}
	if s, err = cast.ToStringE(valueOr(raw["element"], "")); err != nil {
		return nil, fmt.Errorf("card element: %w", err)
	}
	c.Element = game.Element(s)
	if s, err = cast.ToStringE(valueOr(raw["actionType"], "")); err != nil {
		return nil, fmt.Errorf("card action type: %w", err)
	}
	c.Action = game.ActionType(s)
	if s, err = cast.ToStringE(valueOr(raw["summonRole"], "")); err != nil {
		return nil, fmt.Errorf("card summon role: %w", err)
	}
	c.Role = game.Role(s)
	c.Image = cast.ToString(raw["image"])

	if sk, ok := raw["skills"]; ok && sk != nil {
		skills, err := cast.ToStringSliceE(sk)
		if err != nil {
			return nil, fmt.Errorf("card skills: %w", err)
		}
		for _, name := range skills {
			c.Skills = append(c.Skills, game.Skill(name))
		}
	}

	if err := game.ValidateCustomCard(c); err != nil {
		return nil, fmt.Errorf("invalid card %q: %w", id, err)
	}
	return c, nil
}

func valueOr(v, def any) any {
	if v == nil {
		return def
	}
	return v
}

// EncodeCard is the inverse of DecodeCard, used by the terminal client.
func EncodeCard(c *game.Card) map[string]any {
	out := map[string]any{
		"id":       c.ID,
		"name":     c.Name,
		"effectId": string(c.Effect),
		"power":    c.Power,
	}
	if c.Cost > 0 {
		out["cost"] = c.Cost
	}
	if c.Element != "" {
		out["element"] = string(c.Element)
	}
	if c.Action != "" {
		out["actionType"] = string(c.Action)
	}
	if c.Role != "" {
		out["summonRole"] = string(c.Role)
	}
	if len(c.Skills) > 0 {
		skills := make([]string, len(c.Skills))
		for i, s := range c.Skills {
			skills[i] = string(s)
		}
		out["skills"] = skills
	}
	if c.IsCustom {
		out["isCustom"] = true
	}
	return out
}
