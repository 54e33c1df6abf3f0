package game

import (
	"github.com/1123antman/battle-super-z/internal/log"
)

// TurnResult is the outcome of ending a turn.
type TurnResult struct {
	Match            *Match
	PreviousPlayerID string
	NextPlayerID     string
	Events           []log.GameEvent
}

// Lines returns the narration for the turn change.
func (r *TurnResult) Lines() []string {
	return log.Lines(r.Events)
}

// EndTurn closes the current player's turn and hands play to the next player
// in join order. Order of effects: unit decay, status tick, deck exhaustion
// for every player, rotation, then energy recovery for the new player.
func EndTurn(m *Match) (*TurnResult, error) {
	if m.Status != StatusPlaying {
		return nil, reject(RejectMatchNotActive, "match is %s", m.Status)
	}

	var events []log.GameEvent
	cur := m.Current()
	turn := m.Turn

	if u := cur.Unit(); u != nil {
		old := u.Power
		u.Power -= UnitDecayPerTurn
		events = append(events, log.NewUnitDecayEvent(turn, cur.ID, u.Name, old, max(0, u.Power)))
		if u.Power <= 0 {
			cur.destroyUnit()
			events = append(events, log.NewUnitDestroyedEvent(turn, cur.ID, u.Name, "decay"))
		}
	}

	kept := cur.Status[:0]
	for _, s := range cur.Status {
		if s.ID == StatusPoison {
			old, now := cur.damage(PoisonDamage)
			events = append(events, log.NewHPChangeEvent(turn, cur.ID, cur.Name, old, now, "poison"))
		}
		s.Duration--
		if s.Duration <= 0 {
			events = append(events, log.NewStatusExpiredEvent(turn, cur.ID, cur.Name, string(s.ID)))
			continue
		}
		kept = append(kept, s)
	}
	cur.Status = kept

	for _, id := range m.Order {
		p := m.Players[id]
		// a seat without a deck (size 0) plays basics only and is never exhausted
		if p.DeckSize > 0 && p.DeckExhausted() {
			old, now := p.damage(DeckExhaustionDamage)
			events = append(events, log.NewDeckExhaustedEvent(turn, p.ID, p.Name, old, now))
		}
	}

	prev := cur.ID
	m.CurrentTurnPlayerID = m.NextPlayerID(prev)
	m.Turn++
	next := m.Current()
	events = append(events, log.NewTurnEvent(m.Turn, next.ID, next.Name))

	gain := next.EnergyPerTurn
	if u := next.Unit(); u != nil && u.Role == RoleEnergy {
		gain += EnergyRoleBonus
	}
	old, now := next.gainEnergy(gain)
	events = append(events, log.NewEnergyChangeEvent(m.Turn, next.ID, next.Name, old, now, "turn start"))
	next.UsedBasicAction = false

	return &TurnResult{
		Match:            m,
		PreviousPlayerID: prev,
		NextPlayerID:     next.ID,
		Events:           events,
	}, nil
}
