package game

import (
	"math/rand"
	"sort"
)

// AI tuning.
const (
	AIMaxActions   = 5
	AICriticalHP   = 40
	AILowHP        = 50
	AIStrongPower  = 15
	AISummonChance = 0.7
	AISkillWeight  = 5
)

// AIAction is one card the AI played, with its resolution and a snapshot of
// the match right after it.
type AIAction struct {
	Card   *Card
	Result *Result
	State  *Match
}

// AITurnResult collects everything the AI did during one turn.
type AITurnResult struct {
	Actions []AIAction
	Turn    *TurnResult
}

// RunAITurn plays the AI seat's turn: up to AIMaxActions greedy card plays,
// then an unconditional end of turn. A rejected play stops the loop instead
// of failing the turn.
func RunAITurn(m *Match, aiID string, rng *rand.Rand) (*AITurnResult, error) {
	if m.Status != StatusPlaying {
		return nil, reject(RejectMatchNotActive, "match is %s", m.Status)
	}
	if m.CurrentTurnPlayerID != aiID {
		return nil, reject(RejectNotYourTurn, "not %s's turn", m.displayName(aiID))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	p := m.Player(aiID)
	out := &AITurnResult{}
	for i := 0; i < AIMaxActions && p.Energy >= 1; i++ {
		card := chooseAICard(p, rng)
		if card == nil {
			break
		}
		res, err := ProcessCard(m, aiID, PlayRequest{Card: card})
		if err != nil {
			break
		}
		out.Actions = append(out.Actions, AIAction{Card: card, Result: res, State: m.Clone()})
		if anyDown(m) {
			break
		}
	}

	turn, err := EndTurn(m)
	if err != nil {
		return out, err
	}
	out.Turn = turn
	return out, nil
}

func anyDown(m *Match) bool {
	for _, p := range m.Players {
		if p.HP <= 0 {
			return true
		}
	}
	return false
}

// chooseAICard picks the next card by priority: critical heal, summon,
// best-scoring card, basic fallback. Returns nil when nothing fits.
func chooseAICard(p *PlayerState, rng *rand.Rand) *Card {
	affordable := func(c *Card) bool { return c.EffectiveCost() <= p.Energy }

	var deck []*Card
	for _, c := range p.RemainingDeck() {
		if affordable(c) {
			deck = append(deck, c)
		}
	}

	if p.HP < AICriticalHP && !p.UsedBasicAction {
		if h := BasicHeal(); affordable(h) {
			return h
		}
		for _, c := range deck {
			if c.Effect == EffectHeal && !c.IsSummon() {
				return c
			}
		}
	}

	if p.Unit() == nil {
		var best *Card
		strong := false
		for _, c := range deck {
			if c.IsSummon() {
				if c.Effect == EffectAttack && !c.IsSpecial && (best == nil || c.EffectiveCost() > best.EffectiveCost()) {
					best = c
				}
			} else if c.Effect == EffectAttack && c.Power >= AIStrongPower {
				strong = true
			}
		}
		if best != nil && (!strong || rng.Float64() < AISummonChance) {
			return best
		}
	}

	var ranked []*Card
	if !p.UsedBasicAction {
		for _, c := range BasicActions() {
			if affordable(c) && aiUseful(p, c) {
				ranked = append(ranked, c)
			}
		}
	}
	for _, c := range deck {
		if aiUseful(p, c) {
			ranked = append(ranked, c)
		}
	}
	if len(ranked) > 0 {
		sort.SliceStable(ranked, func(i, j int) bool {
			return aiScore(ranked[i]) > aiScore(ranked[j])
		})
		top := min(2, len(ranked))
		return ranked[rng.Intn(top)]
	}

	if !p.UsedBasicAction {
		var c *Card
		switch {
		case p.HP < AILowHP && p.Shield == 0:
			c = BasicDefense()
		case p.HP < AILowHP:
			c = BasicHeal()
		default:
			c = BasicAttack()
		}
		if affordable(c) {
			return c
		}
	}
	return nil
}

func aiScore(c *Card) int {
	return c.Power + AISkillWeight*len(c.Skills)
}

// aiUseful filters out plays that would do nothing for the AI.
func aiUseful(p *PlayerState, c *Card) bool {
	if c.IsSummon() {
		return p.Unit() == nil && c.Effect == EffectAttack && !c.IsSpecial
	}
	switch c.Effect {
	case EffectHeal:
		return p.HP < p.MaxHP
	case EffectStatusClear:
		return len(p.Status) > 0
	case EffectEnergyGain:
		return p.Energy < p.MaxEnergy
	}
	return true
}
