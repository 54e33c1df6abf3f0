package game

import "testing"

func TestCheckGameOver(t *testing.T) {
	tests := []struct {
		name       string
		hp         []int
		finished   bool
		winnerID   string
		winnerName string
	}{
		{"all alive", []int{100, 1}, false, "", ""},
		{"two players", []int{0, 40}, true, "p2", "P2"},
		{"two players reversed", []int{12, -3}, true, "p1", "P1"},
		{"multi survivor most hp", []int{30, 0, 60, 45}, true, "p3", "P3"},
		{"multi survivor tie to earliest seat", []int{0, 50, 50}, true, "p2", "P2"},
		{"nobody left", []int{0, 0}, true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, len(tt.hp))
			for i, hp := range tt.hp {
				m.Players[m.Order[i]].HP = hp
			}
			got := CheckGameOver(m)
			if got.Finished != tt.finished || got.WinnerID != tt.winnerID || got.WinnerName != tt.winnerName {
				t.Fatalf("got %+v", got)
			}
			wantStatus := StatusPlaying
			if tt.finished {
				wantStatus = StatusFinished
			}
			if m.Status != wantStatus {
				t.Errorf("status %s, want %s", m.Status, wantStatus)
			}
		})
	}
}

func TestCheckGameOverIsStable(t *testing.T) {
	m := newTestMatch(t, 2)
	m.Player("p2").HP = 0
	first := CheckGameOver(m)

	m.Player("p1").HP = 0
	again := CheckGameOver(m)
	if again != first {
		t.Errorf("finished match outcome changed: %+v then %+v", first, again)
	}
	if m.Result == "" {
		t.Error("expected result narration recorded on the match")
	}
}

func TestFinishedMatchRejectsPlays(t *testing.T) {
	m := newTestMatch(t, 2)
	m.Player("p1").Energy = 10
	m.Player("p2").HP = 5
	mustPlay(t, m, "p1", attackCard("finisher", 10), "")

	if out := CheckGameOver(m); !out.Finished || out.WinnerID != "p1" {
		t.Fatalf("expected p1 to win, got %+v", out)
	}
	if _, err := ProcessCard(m, "p1", PlayRequest{Card: BasicAttack()}); err == nil {
		t.Error("expected play on finished match to be rejected")
	}
}
