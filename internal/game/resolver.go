package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/1123antman/battle-super-z/internal/log"
)

// Result is the outcome of a successful card play.
type Result struct {
	Match  *Match
	Card   *Card
	Events []log.GameEvent
}

// Lines returns the narration for the play, in application order.
func (r *Result) Lines() []string {
	return log.Lines(r.Events)
}

// AffinityMultiplier returns the elemental damage multiplier of an attack
// with element atk landing on something of element def.
func AffinityMultiplier(atk, def Element) float64 {
	switch {
	case atk == "" || atk == ElementNone || def == "" || def == ElementNone:
		return 1.0
	case beats[atk] == def:
		return 1.5
	case beats[def] == atk:
		return 0.5
	default:
		return 1.0
	}
}

// resolution carries one card play through its effect steps.
type resolution struct {
	m      *Match
	actor  *PlayerState
	card   *Card
	events []log.GameEvent
}

func (rs *resolution) add(e log.GameEvent) {
	rs.events = append(rs.events, e)
}

// ProcessCard validates one card play and applies it to the match. On any
// rejection a *PlayError is returned and the match is left untouched.
func ProcessCard(m *Match, actorID string, req PlayRequest) (*Result, error) {
	card := req.Card
	if card == nil {
		return nil, errors.New("play request without card")
	}
	if m.Status != StatusPlaying {
		return nil, reject(RejectMatchNotActive, "match is %s", m.Status)
	}

	actor := m.Player(actorID)
	if actor == nil || m.CurrentTurnPlayerID != actorID {
		return nil, reject(RejectNotYourTurn, "not your turn (current: %s)", m.displayName(m.CurrentTurnPlayerID))
	}
	if actor.HasStatus(StatusStun) {
		return nil, reject(RejectStunned, "%s is stunned and cannot act this turn", actor.Name)
	}

	cost := card.EffectiveCost()
	if actor.Energy < cost {
		err := reject(RejectInsufficientEnergy, "not enough energy (need %d, have %d)", cost, actor.Energy)
		err.Cost = cost
		err.Have = actor.Energy
		return nil, err
	}

	if card.IsBasic() {
		if actor.UsedBasicAction {
			return nil, reject(RejectBasicActionLimit, "basic action already used this turn")
		}
	} else if actor.HasUsed(card.ID) {
		return nil, reject(RejectCardAlreadyUsed, "%s has already been used this match", card.Name)
	}

	if card.IsSummon() && (card.Effect != EffectAttack || card.IsSpecial) {
		return nil, reject(RejectNotSummonable, "only non-special attack cards can be summoned")
	}

	rs := &resolution{m: m, actor: actor, card: card}
	rs.add(log.NewPlayEvent(m.Turn, actor.ID, actor.Name, card.Name, cost))

	if card.IsSummon() {
		rs.summon()
	} else {
		switch card.Effect {
		case EffectAttack:
			rs.attack(req.TargetID)
		case EffectHeal:
			old, now := actor.heal(card.Power)
			rs.add(log.NewHPChangeEvent(m.Turn, actor.ID, actor.Name, old, now, "heal"))
		case EffectDefense:
			old := actor.Shield
			actor.Shield += card.Power + actor.PassiveBonuses.Defense
			rs.add(log.NewShieldChangeEvent(m.Turn, actor.ID, actor.Name, old, actor.Shield))
		case EffectEnergyGain:
			old, now := actor.gainEnergy(card.Power / 2)
			rs.add(log.NewEnergyChangeEvent(m.Turn, actor.ID, actor.Name, old, now, card.Name))
		case EffectStatusClear:
			removed := len(actor.Status)
			actor.Status = []StatusEffect{}
			rs.add(log.NewStatusClearedEvent(m.Turn, actor.ID, actor.Name, removed))
		case EffectStunOnly:
			target, _ := rs.resolveTarget(req.TargetID)
			rs.applyStatus(target, StatusStun, StunDuration)
		case EffectPoisonOnly:
			target, _ := rs.resolveTarget(req.TargetID)
			rs.applyStatus(target, StatusPoison, PoisonDuration)
		default:
			return nil, fmt.Errorf("unknown effect %q", card.Effect)
		}
	}

	actor.Energy -= cost
	if card.IsBasic() {
		actor.UsedBasicAction = true
	} else {
		actor.UsedCardIDs = append(actor.UsedCardIDs, card.ID)
	}

	return &Result{Match: m, Card: card, Events: rs.events}, nil
}

// resolveTarget returns the addressed player and whether the caller named
// that player's unit explicitly. Unknown ids fall back to the default target.
func (rs *resolution) resolveTarget(targetID string) (*PlayerState, bool) {
	if targetID != "" {
		if len(targetID) > len(UnitTargetPrefix) && targetID[:len(UnitTargetPrefix)] == UnitTargetPrefix {
			if owner := rs.m.Player(targetID[len(UnitTargetPrefix):]); owner != nil {
				return owner, true
			}
		} else if p := rs.m.Player(targetID); p != nil {
			return p, false
		}
	}
	if rs.card.Effect.selfTargeted() {
		return rs.actor, false
	}
	return rs.defaultOpponent(), false
}

// defaultOpponent is the first opponent in join order still standing.
func (rs *resolution) defaultOpponent() *PlayerState {
	opps := rs.m.Opponents(rs.actor.ID)
	for _, p := range opps {
		if p.HP > 0 {
			return p
		}
	}
	return opps[0]
}

func (rs *resolution) summon() {
	a, c := rs.actor, rs.card
	role := c.Role
	if role == "" {
		role = RoleAttacker
	}
	prev := a.Unit()
	a.Field.SummonedCard = &SummonedUnit{
		Name:    c.Name,
		Power:   c.Power,
		Image:   c.Image,
		Role:    role,
		Element: c.Element,
	}
	a.recalculatePassives()
	rs.add(log.NewSummonEvent(rs.m.Turn, a.ID, a.Name, c.Name, c.Power, string(role)))
	if prev != nil {
		rs.add(log.NewUnitDestroyedEvent(rs.m.Turn, a.ID, prev.Name, "replaced by "+c.Name))
	}
}

func (rs *resolution) attack(targetID string) {
	strikes := 1
	if rs.card.HasSkill(SkillTwinStrike) {
		strikes = 2
	}
	for i := 0; i < strikes; i++ {
		// Interception is re-evaluated per strike: once a unit falls the
		// follow-up lands on its owner.
		owner, explicitUnit := rs.resolveTarget(targetID)
		if i > 0 {
			if owner.HP <= 0 && owner.Unit() == nil {
				return
			}
			rs.add(log.NewTwinStrikeEvent(rs.m.Turn, rs.actor.ID, rs.actor.Name, rs.card.Name))
		}
		if owner.Unit() != nil {
			rs.strikeUnit(owner, explicitUnit)
		} else {
			rs.strikePlayer(owner)
		}
	}
}

// damageAgainst computes the attack's damage against something of element def.
func (rs *resolution) damageAgainst(def Element) (int, string) {
	base := rs.card.Power + rs.actor.PassiveBonuses.Attack
	mult := AffinityMultiplier(rs.card.Element, def)
	dmg := int(math.Floor(float64(base) * mult))
	note := ""
	switch mult {
	case 1.5:
		note = fmt.Sprintf("%s beats %s ×1.5", rs.card.Element, def)
	case 0.5:
		note = fmt.Sprintf("%s resists %s ×0.5", def, rs.card.Element)
	}
	return dmg, note
}

func (rs *resolution) strikeUnit(owner *PlayerState, explicit bool) {
	turn := rs.m.Turn
	unit := owner.Unit()
	desc := fmt.Sprintf("%s's %s", owner.Name, unit.Name)
	if !explicit && owner != rs.actor {
		desc += " (intercepting)"
	}
	damage, note := rs.damageAgainst(unit.Element)
	rs.add(log.NewAttackEvent(turn, rs.actor.ID, rs.actor.Name, desc, damage, note))

	before := unit.Power
	unit.Power -= damage
	rs.add(log.NewUnitDamageEvent(turn, owner.ID, unit.Name, before, max(0, unit.Power)))

	if unit.Power <= 0 {
		owner.destroyUnit()
		rs.add(log.NewUnitDestroyedEvent(turn, owner.ID, unit.Name, "defeated by "+rs.card.Name))
	} else if unit.Role == RoleAttacker && owner != rs.actor {
		rs.counterAttack(owner, unit, before)
	}

	if damage > 0 && before > 0 {
		rs.vampire(damage)
	}
}

// counterAttack strikes back with the unit's power from before it was hit,
// hitting the actor's own unit first, else the actor.
func (rs *resolution) counterAttack(owner *PlayerState, unit *SummonedUnit, power int) {
	turn := rs.m.Turn
	a := rs.actor
	if au := a.Unit(); au != nil {
		rs.add(log.NewCounterAttackEvent(turn, owner.ID, unit.Name, fmt.Sprintf("%s's %s", a.Name, au.Name), power))
		old := au.Power
		au.Power -= power
		rs.add(log.NewUnitDamageEvent(turn, a.ID, au.Name, old, max(0, au.Power)))
		if au.Power <= 0 {
			a.destroyUnit()
			rs.add(log.NewUnitDestroyedEvent(turn, a.ID, au.Name, "counter-attack"))
		}
		return
	}
	rs.add(log.NewCounterAttackEvent(turn, owner.ID, unit.Name, a.Name, power))
	old, now := a.damage(power)
	rs.add(log.NewHPChangeEvent(turn, a.ID, a.Name, old, now, "counter-attack"))
}

func (rs *resolution) strikePlayer(target *PlayerState) {
	turn := rs.m.Turn
	damage, note := rs.damageAgainst(ElementNone)
	rs.add(log.NewAttackEvent(turn, rs.actor.ID, rs.actor.Name, target.Name, damage, note))

	toHP := damage
	if !rs.card.HasSkill(SkillPiercing) && target.Shield > 0 {
		absorbed := min(target.Shield, damage)
		old := target.Shield
		target.Shield -= absorbed
		toHP = damage - absorbed
		rs.add(log.NewShieldAbsorbEvent(turn, target.ID, target.Name, absorbed, old, target.Shield))
	}
	old, now := target.damage(toHP)
	rs.add(log.NewHPChangeEvent(turn, target.ID, target.Name, old, now, rs.card.Name))

	if rs.card.HasSkill(SkillPoison) {
		rs.applyStatus(target, StatusPoison, PoisonDuration)
	}
	if rs.card.HasSkill(SkillStun) {
		rs.applyStatus(target, StatusStun, StunDuration)
	}
	if toHP > 0 {
		rs.vampire(toHP)
	}
}

// vampire heals the actor for half of dealt, the damage that got past any
// shield.
func (rs *resolution) vampire(dealt int) {
	if !rs.card.HasSkill(SkillVampire) {
		return
	}
	a := rs.actor
	old, now := a.heal(dealt / 2)
	rs.add(log.NewHPChangeEvent(rs.m.Turn, a.ID, a.Name, old, now, "vampire"))
}

func (rs *resolution) applyStatus(target *PlayerState, id StatusID, duration int) {
	target.addStatus(id, duration)
	rs.add(log.NewStatusAppliedEvent(rs.m.Turn, target.ID, target.Name, string(id), duration))
}
