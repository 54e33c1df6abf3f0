package game

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/1123antman/battle-super-z/internal/log"
)

// newTestMatch creates a match with players p1..pn in join order, p1 to act.
func newTestMatch(t *testing.T, n int) *Match {
	t.Helper()
	seats := make([]Seat, n)
	for i := range seats {
		id := fmt.Sprintf("p%d", i+1)
		seats[i] = Seat{ID: id, Name: strings.ToUpper(id), DeckSize: 10}
	}
	m, err := NewMatch(seats, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	m.CurrentTurnPlayerID = "p1"
	return m
}

func attackCard(id string, power int) *Card {
	return &Card{ID: id, Name: "Test " + id, Effect: EffectAttack, Power: power, Element: ElementNone, Cost: 1}
}

func summonCard(id string, power int, role Role) *Card {
	return &Card{ID: id, Name: "Unit " + id, Effect: EffectAttack, Power: power, Cost: 1, Action: ActionSummon, Role: role}
}

// mustPlay plays a card and fails the test on rejection.
func mustPlay(t *testing.T, m *Match, actor string, c *Card, target string) *Result {
	t.Helper()
	res, err := ProcessCard(m, actor, PlayRequest{Card: c, TargetID: target})
	if err != nil {
		t.Fatalf("play %s by %s: %v", c.ID, actor, err)
	}
	return res
}

func mustEndTurn(t *testing.T, m *Match) *TurnResult {
	t.Helper()
	res, err := EndTurn(m)
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	return res
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func countEvents(events []log.GameEvent, typ log.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
