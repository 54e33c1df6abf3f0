package game

import (
	"errors"
	"testing"
)

func TestDefaultCost(t *testing.T) {
	cases := map[int]int{0: 1, 4: 1, 5: 1, 9: 1, 10: 2, 14: 2, 15: 3, 20: 4}
	for power, want := range cases {
		if got := DefaultCost(power); got != want {
			t.Errorf("DefaultCost(%d) = %d, want %d", power, got, want)
		}
	}
	c := &Card{Power: 12, Cost: 5}
	if c.EffectiveCost() != 5 {
		t.Errorf("explicit cost must win, got %d", c.EffectiveCost())
	}
}

func TestCatalogIntegrity(t *testing.T) {
	for _, c := range Presets() {
		if c.ID == "" || c.Name == "" {
			t.Errorf("card without id or name: %+v", c)
		}
		if !c.Effect.Valid() || !c.Element.Valid() || !c.Role.Valid() {
			t.Errorf("%s: invalid enum value", c.ID)
		}
		if c.IsSummon() && (c.Effect != EffectAttack || c.IsSpecial) {
			t.Errorf("%s: catalog summon would be rejected", c.ID)
		}
		if c.Role == RolePassiveATK || c.Role == RolePassiveDEF {
			t.Errorf("%s: catalog must not emit passive roles", c.ID)
		}
	}
	for _, b := range BasicActions() {
		if !b.IsBasic() || b.EffectiveCost() != 1 || b.Power != 5 {
			t.Errorf("unexpected basic action %+v", b)
		}
	}
	if _, err := LookupCard("nope"); err == nil {
		t.Error("expected error for unknown card")
	}
}

func TestValidateCustomCard(t *testing.T) {
	valid := &Card{ID: "my_card", Name: "Mine", Effect: EffectAttack, Power: 12, Cost: 5, Element: ElementFire}
	if err := ValidateCustomCard(valid); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}

	bad := []*Card{
		{ID: "", Name: "x", Effect: EffectAttack, Power: 1},
		{ID: "a", Name: "", Effect: EffectAttack, Power: 1},
		{ID: "a", Name: "x", Effect: "explode", Power: 1},
		{ID: "a", Name: "x", Effect: EffectAttack, Power: 21, Cost: 5},
		{ID: "a", Name: "x", Effect: EffectAttack, Power: 10, Cost: 4},
		{ID: "a", Name: "x", Effect: EffectAttack, Power: 10},
		{ID: "a", Name: "x", Effect: EffectHeal, Power: 5, Action: ActionSummon},
		{ID: "a", Name: "x", Effect: EffectAttack, Power: 5, Element: "metal"},
		{ID: "a", Name: "x", Effect: EffectAttack, Power: 5, Skills: []Skill{"fly"}},
		{ID: "basic_cheat", Name: "x", Effect: EffectAttack, Power: 5},
	}
	for i, c := range bad {
		if err := ValidateCustomCard(c); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, c)
		}
	}
}

func TestPlayErrorMatching(t *testing.T) {
	err := error(reject(RejectStunned, "P1 is stunned"))
	if !errors.Is(err, ErrStunned) {
		t.Error("expected match on kind")
	}
	if errors.Is(err, ErrNotYourTurn) {
		t.Error("kinds must not cross-match")
	}
	if RejectBasicActionLimit.String() != "BasicActionLimitReached" {
		t.Errorf("unexpected kind name %s", RejectBasicActionLimit)
	}
}
