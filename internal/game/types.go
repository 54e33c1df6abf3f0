package game

import "strings"

// --- Enums ---

// Effect identifies what a card does when it resolves.
type Effect string

const (
	EffectAttack      Effect = "attack"
	EffectHeal        Effect = "heal"
	EffectDefense     Effect = "defense"
	EffectEnergyGain  Effect = "energy_gain"
	EffectStatusClear Effect = "status_clear"
	EffectStunOnly    Effect = "stun_only"
	EffectPoisonOnly  Effect = "poison_only"
)

// Valid reports whether e is a known effect.
func (e Effect) Valid() bool {
	switch e {
	case EffectAttack, EffectHeal, EffectDefense, EffectEnergyGain,
		EffectStatusClear, EffectStunOnly, EffectPoisonOnly:
		return true
	}
	return false
}

// selfTargeted reports whether the effect always applies to the actor.
func (e Effect) selfTargeted() bool {
	switch e {
	case EffectHeal, EffectDefense, EffectEnergyGain, EffectStatusClear:
		return true
	}
	return false
}

// Element drives the affinity multiplier of attacks.
type Element string

const (
	ElementNone  Element = "none"
	ElementFire  Element = "fire"
	ElementWater Element = "water"
	ElementWood  Element = "wood"
)

// Valid reports whether el is a known element. The empty string counts as none.
func (el Element) Valid() bool {
	switch el {
	case "", ElementNone, ElementFire, ElementWater, ElementWood:
		return true
	}
	return false
}

// beats is the cyclic affinity relation: fire > wood > water > fire.
var beats = map[Element]Element{
	ElementFire:  ElementWood,
	ElementWood:  ElementWater,
	ElementWater: ElementFire,
}

// ActionType says whether a card is used once or put on the field.
type ActionType string

const (
	ActionUse    ActionType = "use"
	ActionSummon ActionType = "summon"
)

// Role is the behavior of a summoned unit.
type Role string

const (
	RoleAttacker Role = "attacker"
	RoleGuardian Role = "guardian"
	RoleEnergy   Role = "energy"

	// Passive roles grant a flat bonus to their owner. No catalog entry or
	// authoring path produces them today.
	RolePassiveATK Role = "passive_atk"
	RolePassiveDEF Role = "passive_def"
)

// Valid reports whether r is a known role. The empty string means attacker.
func (r Role) Valid() bool {
	switch r {
	case "", RoleAttacker, RoleGuardian, RoleEnergy, RolePassiveATK, RolePassiveDEF:
		return true
	}
	return false
}

// Skill is an attack modifier carried by a card.
type Skill string

const (
	SkillVampire    Skill = "vampire"
	SkillPiercing   Skill = "piercing"
	SkillPoison     Skill = "poison"
	SkillStun       Skill = "stun"
	SkillTwinStrike Skill = "twinStrike"
)

// Valid reports whether s is a known skill.
func (s Skill) Valid() bool {
	switch s {
	case SkillVampire, SkillPiercing, SkillPoison, SkillStun, SkillTwinStrike:
		return true
	}
	return false
}

// StatusID names a timed status effect on a player.
type StatusID string

const (
	StatusPoison StatusID = "poison"
	StatusStun   StatusID = "stun"
)

const (
	PoisonDuration = 3
	StunDuration   = 1
	PoisonDamage   = 3
)

// MatchStatus is the lifecycle stage of a match.
type MatchStatus string

const (
	StatusWaiting  MatchStatus = "waiting"
	StatusPlaying  MatchStatus = "playing"
	StatusFinished MatchStatus = "finished"
)

// --- Card definition ---

// BasicPrefix marks always-available basic actions.
const BasicPrefix = "basic_"

// Card is an immutable card template, either from the catalog or authored by a player.
type Card struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Effect    Effect     `json:"effectId" yaml:"effect"`
	Power     int        `json:"power" yaml:"power"`
	Element   Element    `json:"element,omitempty" yaml:"element,omitempty"`
	Cost      int        `json:"cost,omitempty" yaml:"cost,omitempty"` // 0 = derived from power
	Action    ActionType `json:"actionType,omitempty" yaml:"action,omitempty"`
	Role      Role       `json:"summonRole,omitempty" yaml:"role,omitempty"`
	Skills    []Skill    `json:"skills,omitempty" yaml:"skills,omitempty"`
	Image     string     `json:"image,omitempty" yaml:"image,omitempty"`
	IsCustom  bool       `json:"isCustom,omitempty" yaml:"custom,omitempty"`
	IsSpecial bool       `json:"isSpecial,omitempty" yaml:"special,omitempty"`
}

func (c *Card) String() string {
	return c.Name
}

// DefaultCost is the energy price of a card with no explicit cost.
func DefaultCost(power int) int {
	cost := power / 5
	if cost < 1 {
		return 1
	}
	return cost
}

// EffectiveCost returns the explicit cost, or DefaultCost(Power) when unset.
func (c *Card) EffectiveCost() int {
	if c.Cost > 0 {
		return c.Cost
	}
	return DefaultCost(c.Power)
}

// IsBasic reports whether the card is a basic action.
func (c *Card) IsBasic() bool {
	return strings.HasPrefix(c.ID, BasicPrefix)
}

// IsSummon reports whether the card puts a unit on the field.
func (c *Card) IsSummon() bool {
	return c.Action == ActionSummon
}

// HasSkill reports whether the card carries the given skill.
func (c *Card) HasSkill(s Skill) bool {
	for _, sk := range c.Skills {
		if sk == s {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the card under a new id.
func (c *Card) Clone(id string) *Card {
	cp := *c
	cp.ID = id
	cp.Skills = append([]Skill(nil), c.Skills...)
	return &cp
}

// --- Play request ---

// UnitTargetPrefix addresses a player's summoned unit: "unit:<ownerID>".
const UnitTargetPrefix = "unit:"

// UnitTarget builds the target id for the unit owned by ownerID.
func UnitTarget(ownerID string) string {
	return UnitTargetPrefix + ownerID
}

// PlayRequest is a single card play submitted to the resolver.
type PlayRequest struct {
	Card     *Card  `json:"card"`
	TargetID string `json:"targetId,omitempty"` // player id, UnitTarget(owner), or empty for the default
}
