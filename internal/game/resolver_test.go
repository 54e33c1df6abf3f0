package game

import (
	"errors"
	"reflect"
	"testing"
)

// Scenario: plain attack of 10 against an unshielded player.
func TestAttackReducesHP(t *testing.T) {
	m := newTestMatch(t, 2)

	res := mustPlay(t, m, "p1", attackCard("a1", 10), "")

	if hp := m.Player("p2").HP; hp != 90 {
		t.Fatalf("expected p2 hp 90, got %d", hp)
	}
	if !containsLine(res.Lines(), "90") {
		t.Errorf("expected narration reporting 90 hp, got %v", res.Lines())
	}
	if m.Player("p1").HP != 100 {
		t.Errorf("attacker hp changed: %d", m.Player("p1").HP)
	}
}

func TestShieldAbsorbsFirst(t *testing.T) {
	cases := []struct {
		shield, damage     int
		wantShield, wantHP int
	}{
		{5, 10, 0, 95},
		{10, 10, 0, 100},
		{15, 10, 5, 100},
		{0, 7, 0, 93},
		{3, 20, 0, 83},
	}
	for _, tc := range cases {
		m := newTestMatch(t, 2)
		m.Player("p2").Shield = tc.shield
		mustPlay(t, m, "p1", attackCard("a", tc.damage), "p2")

		p2 := m.Player("p2")
		if p2.Shield != tc.wantShield || p2.HP != tc.wantHP {
			t.Errorf("shield=%d dmg=%d: got shield=%d hp=%d, want shield=%d hp=%d",
				tc.shield, tc.damage, p2.Shield, p2.HP, tc.wantShield, tc.wantHP)
		}
	}
}

func TestPiercingIgnoresShield(t *testing.T) {
	for _, shield := range []int{0, 4, 9, 50} {
		m := newTestMatch(t, 2)
		m.Player("p2").Shield = shield
		c := attackCard("pierce", 9)
		c.Skills = []Skill{SkillPiercing}
		mustPlay(t, m, "p1", c, "")

		p2 := m.Player("p2")
		if p2.Shield != shield {
			t.Errorf("shield %d: piercing changed shield to %d", shield, p2.Shield)
		}
		if p2.HP != 91 {
			t.Errorf("shield %d: expected hp 91, got %d", shield, p2.HP)
		}
	}
}

// Scenario: attacker unit of power 10 is destroyed by a 12-damage attack
// without striking back.
func TestUnitDestroyedWithoutCounter(t *testing.T) {
	m := newTestMatch(t, 2)
	mustPlay(t, m, "p1", summonCard("wolf", 10, RoleAttacker), "")
	m.CurrentTurnPlayerID = "p2"

	res := mustPlay(t, m, "p2", attackCard("hit", 12), "p1")

	if m.Player("p1").Unit() != nil {
		t.Fatal("expected p1's field to be cleared")
	}
	if m.Player("p1").HP != 100 {
		t.Errorf("attack should have been intercepted, p1 hp %d", m.Player("p1").HP)
	}
	if m.Player("p2").HP != 100 {
		t.Errorf("destroyed unit must not counter-attack, p2 hp %d", m.Player("p2").HP)
	}
	if containsLine(res.Lines(), "counter-attacks") {
		t.Errorf("unexpected counter-attack narration: %v", res.Lines())
	}
}

// Scenario: a surviving attacker unit strikes back with its power from
// before the hit.
func TestSurvivingAttackerCounters(t *testing.T) {
	m := newTestMatch(t, 2)
	mustPlay(t, m, "p1", summonCard("drake", 20, RoleAttacker), "")
	m.CurrentTurnPlayerID = "p2"

	mustPlay(t, m, "p2", attackCard("hit", 12), "")

	u := m.Player("p1").Unit()
	if u == nil || u.Power != 8 {
		t.Fatalf("expected unit to survive at 8, got %+v", u)
	}
	if hp := m.Player("p2").HP; hp != 80 {
		t.Errorf("expected counter-attack for 20 leaving p2 at 80, got %d", hp)
	}
}

func TestCounterHitsAttackersUnitFirst(t *testing.T) {
	m := newTestMatch(t, 2)
	mustPlay(t, m, "p1", summonCard("drake", 20, RoleAttacker), "")
	m.CurrentTurnPlayerID = "p2"
	mustPlay(t, m, "p2", summonCard("golem", 16, RoleGuardian), "")

	mustPlay(t, m, "p2", attackCard("hit", 5), "")

	if u := m.Player("p2").Unit(); u != nil {
		t.Fatalf("expected p2's guardian to fall to the counter, got %+v", u)
	}
	if hp := m.Player("p2").HP; hp != 100 {
		t.Errorf("counter should hit the unit, not the player: p2 hp %d", hp)
	}
}

func TestGuardianDoesNotCounter(t *testing.T) {
	m := newTestMatch(t, 2)
	mustPlay(t, m, "p1", summonCard("golem", 16, RoleGuardian), "")
	m.CurrentTurnPlayerID = "p2"

	mustPlay(t, m, "p2", attackCard("hit", 5), "")

	if u := m.Player("p1").Unit(); u == nil || u.Power != 11 {
		t.Fatalf("expected guardian at 11, got %+v", u)
	}
	if m.Player("p2").HP != 100 {
		t.Errorf("guardian must not counter, p2 hp %d", m.Player("p2").HP)
	}
}

func TestExplicitUnitTarget(t *testing.T) {
	m := newTestMatch(t, 3)
	m.Player("p3").Field.SummonedCard = &SummonedUnit{Name: "Sprite", Power: 8, Role: RoleEnergy}

	mustPlay(t, m, "p1", attackCard("hit", 5), UnitTarget("p3"))

	if u := m.Player("p3").Unit(); u == nil || u.Power != 3 {
		t.Fatalf("expected p3's unit at 3, got %+v", u)
	}
	if m.Player("p2").HP != 100 {
		t.Errorf("default target should not be hit, p2 hp %d", m.Player("p2").HP)
	}
}

func TestCardAlreadyUsedAcrossTurns(t *testing.T) {
	m := newTestMatch(t, 2)
	c := attackCard("once", 5)
	mustPlay(t, m, "p1", c, "")
	mustEndTurn(t, m)
	mustEndTurn(t, m)

	before := m.Clone()
	_, err := ProcessCard(m, "p1", PlayRequest{Card: c})
	if !errors.Is(err, ErrCardAlreadyUsed) {
		t.Fatalf("expected CardAlreadyUsed, got %v", err)
	}
	if !reflect.DeepEqual(before, m) {
		t.Error("rejected play mutated the match")
	}
}

func TestRejectionsLeaveMatchUntouched(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Match)
		actor string
		card  *Card
		want  error
	}{
		{"wrong turn", func(m *Match) {}, "p2", attackCard("a", 5), ErrNotYourTurn},
		{"unknown actor", func(m *Match) {}, "ghost", attackCard("a", 5), ErrNotYourTurn},
		{"stunned", func(m *Match) {
			m.Player("p1").Status = []StatusEffect{{ID: StatusStun, Duration: 1}}
		}, "p1", attackCard("a", 5), ErrStunned},
		{"no energy", func(m *Match) { m.Player("p1").Energy = 0 }, "p1", attackCard("a", 5), ErrInsufficientEnergy},
		{"basic twice", func(m *Match) { m.Player("p1").UsedBasicAction = true }, "p1", BasicAttack(), ErrBasicActionLimit},
		{"summon heal", func(m *Match) {}, "p1", &Card{ID: "x", Name: "X", Effect: EffectHeal, Power: 5, Cost: 1, Action: ActionSummon}, ErrNotSummonable},
		{"summon special", func(m *Match) {}, "p1", &Card{ID: "x", Name: "X", Effect: EffectAttack, Power: 5, Cost: 1, Action: ActionSummon, IsSpecial: true}, ErrNotSummonable},
		{"finished", func(m *Match) { m.Status = StatusFinished }, "p1", attackCard("a", 5), ErrMatchNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, 2)
			tt.setup(m)
			before := m.Clone()

			res, err := ProcessCard(m, tt.actor, PlayRequest{Card: tt.card})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if res != nil {
				t.Error("expected no result on rejection")
			}
			if !reflect.DeepEqual(before, m) {
				t.Error("rejected play mutated the match")
			}
		})
	}
}

func TestInsufficientEnergyReportsCost(t *testing.T) {
	m := newTestMatch(t, 2)
	c := &Card{ID: "big", Name: "Big", Effect: EffectAttack, Power: 20}

	_, err := ProcessCard(m, "p1", PlayRequest{Card: c})
	var pe *PlayError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PlayError, got %v", err)
	}
	if pe.Kind != RejectInsufficientEnergy || pe.Cost != 4 || pe.Have != 3 {
		t.Errorf("got kind=%v cost=%d have=%d", pe.Kind, pe.Cost, pe.Have)
	}
}

func TestEnergyDeductedByCost(t *testing.T) {
	cards := []*Card{
		attackCard("a", 5),
		{ID: "derived", Name: "Derived", Effect: EffectAttack, Power: 14},
		BasicDefense(),
		ManaSpring(),
		{ID: "h", Name: "H", Effect: EffectHeal, Power: 3, Cost: 3},
	}
	for _, c := range cards {
		m := newTestMatch(t, 2)
		p := m.Player("p1")
		p.Energy = 6
		mustPlay(t, m, "p1", c, "")

		want := 6 - c.EffectiveCost()
		if c.Effect == EffectEnergyGain {
			want = min(MaxEnergy, want+c.Power/2)
		}
		if p.Energy != want || p.Energy < 0 {
			t.Errorf("%s: energy %d, want %d", c.ID, p.Energy, want)
		}
	}
}

func TestBasicActionOncePerTurn(t *testing.T) {
	m := newTestMatch(t, 2)
	mustPlay(t, m, "p1", BasicAttack(), "")
	if _, err := ProcessCard(m, "p1", PlayRequest{Card: BasicHeal()}); !errors.Is(err, ErrBasicActionLimit) {
		t.Fatalf("expected BasicActionLimitReached, got %v", err)
	}
	if len(m.Player("p1").UsedCardIDs) != 0 {
		t.Errorf("basic actions must not be recorded as used: %v", m.Player("p1").UsedCardIDs)
	}

	mustEndTurn(t, m)
	mustEndTurn(t, m)
	mustPlay(t, m, "p1", BasicHeal(), "")
}

func TestAffinityMultiplier(t *testing.T) {
	cases := []struct {
		atk, def Element
		want     float64
	}{
		{ElementFire, ElementWood, 1.5},
		{ElementWood, ElementWater, 1.5},
		{ElementWater, ElementFire, 1.5},
		{ElementWood, ElementFire, 0.5},
		{ElementWater, ElementWood, 0.5},
		{ElementFire, ElementWater, 0.5},
		{ElementFire, ElementFire, 1.0},
		{ElementNone, ElementFire, 1.0},
		{ElementWater, ElementNone, 1.0},
		{"", ElementWood, 1.0},
	}
	for _, tc := range cases {
		if got := AffinityMultiplier(tc.atk, tc.def); got != tc.want {
			t.Errorf("%s vs %s: got %v, want %v", tc.atk, tc.def, got, tc.want)
		}
	}
}

func TestAffinityAgainstUnit(t *testing.T) {
	m := newTestMatch(t, 2)
	m.Player("p2").Field.SummonedCard = &SummonedUnit{Name: "Golem", Power: 30, Role: RoleGuardian, Element: ElementWood}
	m.Player("p1").Energy = 10

	mustPlay(t, m, "p1", FireLance(), "")
	if u := m.Player("p2").Unit(); u.Power != 12 {
		t.Errorf("fire vs wood: expected 18 damage leaving 12, got %d", u.Power)
	}

	m.Player("p2").Field.SummonedCard.Element = ElementFire
	m.Player("p2").Field.SummonedCard.Power = 30
	mustPlay(t, m, "p1", ThornWhip(), "")
	if u := m.Player("p2").Unit(); u.Power != 26 {
		t.Errorf("wood vs fire: expected 4 damage leaving 26, got %d", u.Power)
	}
}

func TestStatusClearEmptiesStatus(t *testing.T) {
	for n := 0; n <= 2; n++ {
		m := newTestMatch(t, 2)
		p := m.Player("p1")
		if n > 0 {
			p.Status = append(p.Status, StatusEffect{ID: StatusPoison, Duration: 3})
		}
		if n > 1 {
			p.Status = append(p.Status, StatusEffect{ID: StatusStun, Duration: 5})
		}
		// a stunned player cannot play, so clear while the stun is inactive
		if n > 1 {
			p.Status[1].Duration = 0
		}
		mustPlay(t, m, "p1", Purify(), "")
		if len(p.Status) != 0 {
			t.Errorf("n=%d: status not cleared: %v", n, p.Status)
		}
	}
}

func TestSkillsOnPlayerHit(t *testing.T) {
	m := newTestMatch(t, 2)
	p1, p2 := m.Player("p1"), m.Player("p2")
	p1.Energy = 10
	p1.HP = 50

	c := attackCard("bite", 10)
	c.Skills = []Skill{SkillVampire, SkillPoison, SkillStun}
	mustPlay(t, m, "p1", c, "")

	if p2.HP != 90 {
		t.Errorf("expected p2 at 90, got %d", p2.HP)
	}
	if p1.HP != 55 {
		t.Errorf("vampire should heal 5, p1 at %d", p1.HP)
	}
	if !p2.HasStatus(StatusPoison) || !p2.HasStatus(StatusStun) {
		t.Errorf("expected poison and stun on p2, got %v", p2.Status)
	}
}

func TestVampireHealsDamagePastShield(t *testing.T) {
	tests := []struct {
		name   string
		shield int
		wantHP int
		wantP1 int
	}{
		{"no shield", 0, 90, 55},
		{"partial shield", 5, 95, 52},
		{"shield absorbs all", 20, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, 2)
			p1, p2 := m.Player("p1"), m.Player("p2")
			p1.Energy = 10
			p1.HP = 50
			p2.Shield = tt.shield

			c := attackCard("leech", 10)
			c.Skills = []Skill{SkillVampire}
			mustPlay(t, m, "p1", c, "")

			if p2.HP != tt.wantHP {
				t.Errorf("p2 hp = %d, want %d", p2.HP, tt.wantHP)
			}
			if p1.HP != tt.wantP1 {
				t.Errorf("p1 hp = %d, want %d", p1.HP, tt.wantP1)
			}
		})
	}
}

func TestStatusSkillsSkipUnits(t *testing.T) {
	m := newTestMatch(t, 2)
	m.Player("p2").Field.SummonedCard = &SummonedUnit{Name: "Golem", Power: 30, Role: RoleGuardian}
	c := attackCard("sting", 5)
	c.Skills = []Skill{SkillPoison}
	mustPlay(t, m, "p1", c, "")

	if len(m.Player("p2").Status) != 0 {
		t.Errorf("statuses only land on players, got %v", m.Player("p2").Status)
	}
}

func TestTwinStrikeHitsTwice(t *testing.T) {
	m := newTestMatch(t, 2)
	m.Player("p1").Energy = 10
	m.Player("p2").Shield = 4

	res := mustPlay(t, m, "p1", TwinBlades(), "")

	if hp := m.Player("p2").HP; hp != 92 {
		t.Errorf("expected 12 damage minus 4 shield, hp %d", hp)
	}
	if !containsLine(res.Lines(), "strikes again") {
		t.Errorf("missing twin strike narration: %v", res.Lines())
	}
}

func TestTwinStrikeFollowsThroughDestroyedUnit(t *testing.T) {
	m := newTestMatch(t, 2)
	m.Player("p1").Energy = 10
	m.Player("p2").Field.SummonedCard = &SummonedUnit{Name: "Sprite", Power: 4, Role: RoleEnergy}

	mustPlay(t, m, "p1", TwinBlades(), "")

	if m.Player("p2").Unit() != nil {
		t.Error("expected unit destroyed by the first strike")
	}
	if hp := m.Player("p2").HP; hp != 94 {
		t.Errorf("second strike should hit the owner, hp %d", hp)
	}
}

func TestSummonReplacesUnit(t *testing.T) {
	m := newTestMatch(t, 2)
	p := m.Player("p1")
	p.Energy = 10
	mustPlay(t, m, "p1", summonCard("first", 10, RoleAttacker), "")
	mustPlay(t, m, "p1", summonCard("second", 6, ""), "")

	u := p.Unit()
	if u == nil || u.Name != "Unit second" || u.Role != RoleAttacker {
		t.Fatalf("expected the second unit as attacker, got %+v", u)
	}
}

func TestPassiveBonuses(t *testing.T) {
	m := newTestMatch(t, 2)
	p := m.Player("p1")
	p.Energy = 10
	mustPlay(t, m, "p1", summonCard("atk", 5, RolePassiveATK), "")
	if p.PassiveBonuses.Attack != PassiveBonus {
		t.Fatalf("expected attack bonus, got %+v", p.PassiveBonuses)
	}
	mustPlay(t, m, "p1", attackCard("hit", 5), UnitTarget("p2"))
	if hp := m.Player("p2").HP; hp != 90 {
		t.Errorf("expected 10 damage with bonus, hp %d", hp)
	}

	mustPlay(t, m, "p1", summonCard("def", 5, RolePassiveDEF), "")
	mustPlay(t, m, "p1", StoneWall(), "")
	if p.Shield != 17 {
		t.Errorf("expected shield 12+5, got %d", p.Shield)
	}
}

func TestSelfTargetedEffects(t *testing.T) {
	m := newTestMatch(t, 2)
	p1 := m.Player("p1")
	p1.HP = 70
	p1.Energy = 10

	mustPlay(t, m, "p1", Mending(), "p2")
	if p1.HP != 85 || m.Player("p2").HP != 100 {
		t.Errorf("heal should land on the actor: p1=%d p2=%d", p1.HP, m.Player("p2").HP)
	}
	mustPlay(t, m, "p1", BasicHeal(), "")
	mustPlay(t, m, "p1", Mending().Clone("mending2"), "")
	if p1.HP != StartingHP {
		t.Errorf("heal must clamp at max hp, got %d", p1.HP)
	}
}

func TestStatusOnlyCards(t *testing.T) {
	m := newTestMatch(t, 3)
	m.Player("p1").Energy = 10

	mustPlay(t, m, "p1", Paralyze(), "p3")
	mustPlay(t, m, "p1", VenomMist(), UnitTarget("p2"))

	if !m.Player("p3").HasStatus(StatusStun) {
		t.Error("expected p3 stunned")
	}
	if !m.Player("p2").HasStatus(StatusPoison) {
		t.Error("expected p2 poisoned via its unit target")
	}
	if m.Player("p2").HP != 100 || m.Player("p3").HP != 100 {
		t.Error("status-only cards must not deal damage")
	}
}
