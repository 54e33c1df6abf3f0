package room

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/1123antman/battle-super-z/internal/game"
	"github.com/1123antman/battle-super-z/internal/log"
)

func startedRoom(t *testing.T) (*Store, *Room) {
	t.Helper()
	s := newTestStore(t)
	r, _ := s.Create("alice", "Alice", 0)
	if _, _, err := s.Join(r.ID, "bob", "Bob", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Start("alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, r
}

func current(r *Room) string {
	return r.Match().CurrentTurnPlayerID
}

func other(r *Room, id string) string {
	if id == "alice" {
		return "bob"
	}
	return "alice"
}

func TestHumanCatalogPlaysUseCopies(t *testing.T) {
	_, r := startedRoom(t)
	actor := current(r)
	r.match.Player(actor).Energy = 99

	for i, id := range []string{"thorn_whip", "thorn_whip#a", "thorn_whip#b"} {
		out, err := r.Play(actor, game.PlayRequest{Card: game.ThornWhip().Clone(id)})
		if err != nil {
			t.Fatalf("play %d (%s): %v", i, id, err)
		}
		if want := fmt.Sprintf("thorn_whip#%d", i+1); out.Card.ID != want {
			t.Errorf("play %d recorded as %q, want %q", i, out.Card.ID, want)
		}
	}
	_, err := r.Play(actor, game.PlayRequest{Card: game.ThornWhip().Clone("thorn_whip#c")})
	if !errors.Is(err, game.ErrCardAlreadyUsed) {
		t.Errorf("expected CardAlreadyUsed once every copy is spent, got %v", err)
	}

	custom := &game.Card{ID: "my_spark", Name: "Spark", Effect: game.EffectAttack, Power: 2, Cost: 1, IsCustom: true}
	out, err := r.Play(actor, game.PlayRequest{Card: custom})
	if err != nil || out.Card.ID != "my_spark" {
		t.Errorf("player-made cards keep their id: %v, %v", out, err)
	}
}

func TestStartRules(t *testing.T) {
	s := newTestStore(t)
	r, _ := s.Create("alice", "Alice", 0)
	if _, err := r.Start("alice"); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("expected ErrNotEnoughPlayers, got %v", err)
	}
	s.Join(r.ID, "bob", "Bob", 0)
	if _, err := r.Start("stranger"); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("expected ErrNotInRoom, got %v", err)
	}
	m, err := r.Start("bob")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if m.Status != game.StatusPlaying || len(m.Order) != 2 {
		t.Errorf("unexpected match %+v", m)
	}
	if _, err := r.Start("alice"); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	if h := r.History(); len(h) != 1 || h[0].Type != log.EventMatchStart {
		t.Errorf("expected a match start event, got %v", h)
	}
}

func TestPlayAndEndTurn(t *testing.T) {
	_, r := startedRoom(t)
	actor := current(r)

	out, err := r.Play(actor, game.PlayRequest{Card: game.BasicAttack()})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if out.Match.Player(other(r, actor)).HP != 95 {
		t.Errorf("expected 5 damage, got %+v", out.Match.Player(other(r, actor)))
	}
	if len(out.Lines) == 0 || out.Outcome.Finished {
		t.Errorf("unexpected outcome %+v", out)
	}

	if _, err := r.EndTurn(other(r, actor)); !errors.Is(err, game.ErrNotYourTurn) {
		t.Errorf("expected NotYourTurn, got %v", err)
	}
	turn, err := r.EndTurn(actor)
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if turn.PreviousPlayerID != actor || turn.NextPlayerID != other(r, actor) {
		t.Errorf("unexpected turn change %+v", turn)
	}
	if len(r.History()) < len(out.Events)+1 {
		t.Error("history should record plays and turn changes")
	}
}

func TestPlayBeforeStart(t *testing.T) {
	s := newTestStore(t)
	r, _ := s.Create("alice", "Alice", 0)
	if _, err := r.Play("alice", game.PlayRequest{Card: game.BasicAttack()}); !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
	if _, err := r.EndTurn("alice"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestWinRecordedOnce(t *testing.T) {
	s, r := startedRoom(t)
	actor := current(r)
	target := other(r, actor)

	r.mu.Lock()
	r.match.Player(target).HP = 3
	r.mu.Unlock()

	out, err := r.Play(actor, game.PlayRequest{Card: game.BasicAttack()})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !out.Outcome.Finished || out.Outcome.WinnerID != actor {
		t.Fatalf("expected %s to win, got %+v", actor, out.Outcome)
	}
	winner := r.PlayerName(actor)
	if s.Leaderboard().Wins(winner) != 1 {
		t.Errorf("expected one win for %s", winner)
	}

	if _, err := r.EndTurn(actor); !errors.Is(err, game.ErrMatchNotActive) {
		t.Errorf("expected MatchNotActive after the end, got %v", err)
	}
	if s.Leaderboard().Wins(winner) != 1 {
		t.Error("win must only be counted once")
	}

	// rematch in the same room
	if _, err := r.Start(actor); err != nil {
		t.Fatalf("rematch: %v", err)
	}
}

func TestSoloRoomAITurn(t *testing.T) {
	s := newTestStore(t)
	r, err := s.CreateSolo("human", "Alice", 0, "balanced")
	if err != nil {
		t.Fatalf("CreateSolo: %v", err)
	}
	v := r.Snapshot()
	if v.Match == nil || len(v.Members) != 2 || !v.Members[1].AI {
		t.Fatalf("solo room should start against the AI, got %+v", v)
	}
	aiID := v.Members[1].ID
	ai := v.Match.Player(aiID)
	if ai.Energy != game.FavoredStartingEnergy || ai.DeckSize != len(game.AIDeckPresets["balanced"]) {
		t.Errorf("unexpected AI seat %+v", ai)
	}

	if current(r) == "human" {
		if r.AITurnPending() {
			t.Fatal("AI should not be pending on the human's turn")
		}
		if _, err := r.RunAI(); !errors.Is(err, ErrNotAITurn) {
			t.Fatalf("expected ErrNotAITurn, got %v", err)
		}
		if _, err := r.EndTurn("human"); err != nil {
			t.Fatal(err)
		}
	}

	if !r.AITurnPending() {
		t.Fatal("AI turn should be pending")
	}
	if !r.BeginThinking() {
		t.Fatal("first claim should succeed")
	}
	if r.BeginThinking() || r.AITurnPending() {
		t.Fatal("AI turn must not be claimed twice")
	}

	out, err := r.RunAI()
	if err != nil {
		t.Fatalf("RunAI: %v", err)
	}
	if out.PlayerID != aiID || out.Turn == nil {
		t.Fatalf("unexpected AI outcome %+v", out)
	}
	if out.Turn.NextPlayerID != "human" || current(r) != "human" {
		t.Errorf("turn should return to the human, got %s", current(r))
	}
	for _, a := range out.Actions {
		if a.Match == nil || len(a.Lines) == 0 {
			t.Errorf("every AI action needs narration and state: %+v", a)
		}
	}
	if r.AITurnPending() {
		t.Error("thinking flag should be cleared and the turn passed")
	}
}

func TestRoomSerializesConcurrentPlays(t *testing.T) {
	_, r := startedRoom(t)
	actor := current(r)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Play(actor, game.PlayRequest{Card: game.BasicAttack()})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, game.ErrBasicActionLimit) {
			t.Errorf("unexpected error %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("exactly one basic action may land, got %d", ok)
	}
}

func TestLeaderboardTop(t *testing.T) {
	lb := NewLeaderboard()
	lb.RecordWin("Bob")
	lb.RecordWin("Alice")
	lb.RecordWin("Bob")
	lb.RecordWin("")

	top := lb.Top(2)
	if len(top) != 2 || top[0] != (Entry{"Bob", 2}) || top[1] != (Entry{"Alice", 1}) {
		t.Errorf("unexpected top %v", top)
	}
	if lb.Wins(DefaultPlayerName) != 1 {
		t.Error("unnamed winners count under the default name")
	}
	if len(lb.Snapshot()) != 3 {
		t.Errorf("unexpected snapshot %v", lb.Snapshot())
	}
}
