package game

import (
	"errors"
	"fmt"
	"sort"
)

const (
	MaxCustomPower       = 20
	StrongPowerMinCost   = 5
	StrongPowerThreshold = 10
)

// --- Basic actions ---

func BasicAttack() *Card {
	return &Card{ID: "basic_attack", Name: "Strike", Effect: EffectAttack, Power: 5, Cost: 1, Action: ActionUse, Element: ElementNone}
}

func BasicDefense() *Card {
	return &Card{ID: "basic_defense", Name: "Guard", Effect: EffectDefense, Power: 5, Cost: 1, Action: ActionUse, Element: ElementNone}
}

func BasicHeal() *Card {
	return &Card{ID: "basic_heal", Name: "Rest", Effect: EffectHeal, Power: 5, Cost: 1, Action: ActionUse, Element: ElementNone}
}

// BasicActions returns fresh copies of every basic action.
func BasicActions() []*Card {
	return []*Card{BasicAttack(), BasicDefense(), BasicHeal()}
}

// --- Presets ---

func FireLance() *Card {
	return &Card{ID: "fire_lance", Name: "Fire Lance", Effect: EffectAttack, Power: 12, Element: ElementFire, Cost: 3}
}

func TidalCrash() *Card {
	return &Card{ID: "tidal_crash", Name: "Tidal Crash", Effect: EffectAttack, Power: 12, Element: ElementWater, Cost: 3}
}

func ThornWhip() *Card {
	return &Card{ID: "thorn_whip", Name: "Thorn Whip", Effect: EffectAttack, Power: 8, Element: ElementWood, Cost: 2, Skills: []Skill{SkillPoison}}
}

func BloodFang() *Card {
	return &Card{ID: "blood_fang", Name: "Blood Fang", Effect: EffectAttack, Power: 10, Cost: 3, Skills: []Skill{SkillVampire}}
}

func PiercingArrow() *Card {
	return &Card{ID: "piercing_arrow", Name: "Piercing Arrow", Effect: EffectAttack, Power: 9, Cost: 3, Skills: []Skill{SkillPiercing}}
}

func TwinBlades() *Card {
	return &Card{ID: "twin_blades", Name: "Twin Blades", Effect: EffectAttack, Power: 6, Cost: 4, Skills: []Skill{SkillTwinStrike}}
}

func ThunderClap() *Card {
	return &Card{ID: "thunder_clap", Name: "Thunder Clap", Effect: EffectAttack, Power: 7, Cost: 4, Skills: []Skill{SkillStun}}
}

func Inferno() *Card {
	return &Card{ID: "inferno", Name: "Inferno", Effect: EffectAttack, Power: 18, Element: ElementFire, Cost: 6, IsSpecial: true}
}

func Mending() *Card {
	return &Card{ID: "mending", Name: "Mending Light", Effect: EffectHeal, Power: 15, Cost: 3}
}

func StoneWall() *Card {
	return &Card{ID: "stone_wall", Name: "Stone Wall", Effect: EffectDefense, Power: 12, Cost: 2}
}

func ManaSpring() *Card {
	return &Card{ID: "mana_spring", Name: "Mana Spring", Effect: EffectEnergyGain, Power: 8, Cost: 1}
}

func Purify() *Card {
	return &Card{ID: "purify", Name: "Purify", Effect: EffectStatusClear, Power: 0, Cost: 1}
}

func Paralyze() *Card {
	return &Card{ID: "paralyze", Name: "Paralyze", Effect: EffectStunOnly, Power: 0, Cost: 3}
}

func VenomMist() *Card {
	return &Card{ID: "venom_mist", Name: "Venom Mist", Effect: EffectPoisonOnly, Power: 0, Cost: 2}
}

func EmberWolf() *Card {
	return &Card{ID: "ember_wolf", Name: "Ember Wolf", Effect: EffectAttack, Power: 10, Element: ElementFire, Cost: 3, Action: ActionSummon, Role: RoleAttacker}
}

func MossGolem() *Card {
	return &Card{ID: "moss_golem", Name: "Moss Golem", Effect: EffectAttack, Power: 16, Element: ElementWood, Cost: 4, Action: ActionSummon, Role: RoleGuardian}
}

func RiverSprite() *Card {
	return &Card{ID: "river_sprite", Name: "River Sprite", Effect: EffectAttack, Power: 8, Element: ElementWater, Cost: 2, Action: ActionSummon, Role: RoleEnergy}
}

func StormDrake() *Card {
	return &Card{ID: "storm_drake", Name: "Storm Drake", Effect: EffectAttack, Power: 20, Cost: 6, Action: ActionSummon, Role: RoleAttacker}
}

// CardRegistry maps preset card ids to their constructor functions.
var CardRegistry = map[string]func() *Card{
	"basic_attack":   BasicAttack,
	"basic_defense":  BasicDefense,
	"basic_heal":     BasicHeal,
	"fire_lance":     FireLance,
	"tidal_crash":    TidalCrash,
	"thorn_whip":     ThornWhip,
	"blood_fang":     BloodFang,
	"piercing_arrow": PiercingArrow,
	"twin_blades":    TwinBlades,
	"thunder_clap":   ThunderClap,
	"inferno":        Inferno,
	"mending":        Mending,
	"stone_wall":     StoneWall,
	"mana_spring":    ManaSpring,
	"purify":         Purify,
	"paralyze":       Paralyze,
	"venom_mist":     VenomMist,
	"ember_wolf":     EmberWolf,
	"moss_golem":     MossGolem,
	"river_sprite":   RiverSprite,
	"storm_drake":    StormDrake,
}

// LookupCard looks up a preset by id and returns a new instance.
func LookupCard(id string) (*Card, error) {
	ctor, ok := CardRegistry[id]
	if !ok {
		return nil, fmt.Errorf("card not found in registry: %q", id)
	}
	return ctor(), nil
}

// Presets returns a fresh copy of every catalog card, sorted by id.
func Presets() []*Card {
	ids := make([]string, 0, len(CardRegistry))
	for id := range CardRegistry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, CardRegistry[id]())
	}
	return out
}

// AIDeckPresets lists the catalog ids making up each AI deck. Duplicates are
// separate deck slots.
var AIDeckPresets = map[string][]string{
	"balanced": {
		"fire_lance", "tidal_crash", "thorn_whip", "blood_fang", "mending",
		"stone_wall", "mana_spring", "ember_wolf", "river_sprite", "purify",
	},
	"aggro": {
		"fire_lance", "fire_lance", "piercing_arrow", "twin_blades", "blood_fang",
		"thunder_clap", "inferno", "thorn_whip", "storm_drake", "mana_spring",
	},
	"summoner": {
		"ember_wolf", "moss_golem", "river_sprite", "storm_drake", "ember_wolf",
		"mending", "stone_wall", "venom_mist", "paralyze", "tidal_crash",
	},
}

// DefaultAIPreset is used when a solo room does not name one.
const DefaultAIPreset = "balanced"

// NewDeckSlots instantiates catalog ids as deck slots, each with its own id so
// repeated presets are tracked independently.
func NewDeckSlots(ids []string) ([]*Card, error) {
	return (&DeckLibrary{}).Slots(ids)
}

// ValidateCustomCard enforces the authoring rules for player-made cards.
func ValidateCustomCard(c *Card) error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !c.Effect.Valid() {
		errs = append(errs, fmt.Errorf("unknown effect %q", c.Effect))
	}
	if !c.Element.Valid() {
		errs = append(errs, fmt.Errorf("unknown element %q", c.Element))
	}
	if !c.Role.Valid() {
		errs = append(errs, fmt.Errorf("unknown role %q", c.Role))
	}
	for _, s := range c.Skills {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("unknown skill %q", s))
		}
	}
	if c.Power < 0 || c.Power > MaxCustomPower {
		errs = append(errs, fmt.Errorf("power must be between 0 and %d", MaxCustomPower))
	}
	if c.Power >= StrongPowerThreshold && c.EffectiveCost() < StrongPowerMinCost {
		errs = append(errs, fmt.Errorf("power %d requires cost of at least %d", c.Power, StrongPowerMinCost))
	}
	if c.IsSummon() && (c.Effect != EffectAttack || c.IsSpecial) {
		errs = append(errs, errors.New("only non-special attack cards can be summoned"))
	}
	if c.IsBasic() {
		errs = append(errs, fmt.Errorf("id prefix %q is reserved", BasicPrefix))
	}
	return errors.Join(errs...)
}
