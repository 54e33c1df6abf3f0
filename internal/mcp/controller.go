package mcp

import (
	"fmt"
	"strings"

	"github.com/1123antman/battle-super-z/internal/game"
)

// hand lists what the agent can play right now: the basic actions (until one
// is used this turn) and every unused deck slot.
func (s *GameSession) hand(m *game.Match) []*game.Card {
	me := m.Player(s.playerID)
	if me == nil {
		return nil
	}
	var cards []*game.Card
	if !me.UsedBasicAction {
		cards = append(cards, game.BasicActions()...)
	}
	return append(cards, game.UnplayedSlots(s.deck, me)...)
}

// findCard resolves a tool argument to a hand card. It accepts a slot id, a
// catalog id (first unused copy) or a card name.
func (s *GameSession) findCard(ref string) (*game.Card, error) {
	m := s.room.Match()
	if m == nil {
		return nil, fmt.Errorf("no match in progress")
	}
	ref = strings.TrimSpace(ref)
	hand := s.hand(m)
	for _, c := range hand {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range hand {
		if game.SlotBase(c.ID) == ref {
			return c, nil
		}
	}
	for _, c := range hand {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}

	if me := m.Player(s.playerID); me != nil && strings.HasPrefix(ref, game.BasicPrefix) && me.UsedBasicAction {
		return nil, game.ErrBasicActionLimit
	}
	return nil, fmt.Errorf("card %q is not in your hand", ref)
}

// resolveTarget maps a player name, a player id, "opponent", or
// "unit:<name|id>" to a target id. Anything else is passed through and the
// resolver falls back to its default target.
func (s *GameSession) resolveTarget(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	m := s.room.Match()
	if m == nil {
		return ref
	}
	unit := strings.HasPrefix(ref, game.UnitTargetPrefix)
	name := strings.TrimPrefix(ref, game.UnitTargetPrefix)
	for _, id := range m.Order {
		p := m.Players[id]
		hit := id == name || strings.EqualFold(p.Name, name) ||
			(strings.EqualFold(name, "opponent") && id != s.playerID) ||
			(strings.EqualFold(name, "me") && id == s.playerID)
		if !hit {
			continue
		}
		if unit {
			return game.UnitTarget(id)
		}
		return id
	}
	return ref
}
