package net

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/1123antman/battle-super-z/internal/game"
)

func testClient(t *testing.T) (*Client, *bytes.Buffer) {
	t.Helper()
	deck, err := game.NewDeckSlots([]string{"fire_lance", "mending"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c := NewClient(nil, deck, strings.NewReader(""), &out)

	m, err := game.NewMatch([]game.Seat{
		{ID: "me", Name: "Alice", DeckSize: 2},
		{ID: "them", Name: "Bob", DeckSize: 10},
	}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	c.handle(ServerMessage{Type: MsgConnected, PlayerID: "me"})
	c.handle(ServerMessage{Type: MsgGameStarted, State: m})
	return c, &out
}

func TestClientHandSkipsUsedSlots(t *testing.T) {
	c, _ := testClient(t)
	hand := c.hand()
	if len(hand) != 5 {
		t.Fatalf("expected 3 basics and 2 deck cards, got %d", len(hand))
	}

	c.state.Player("me").UsedCardIDs = []string{c.deck[0].ID}
	hand = c.hand()
	if len(hand) != 4 || hand[3].ID != c.deck[1].ID {
		t.Errorf("used slot should be hidden, got %v", hand)
	}
}

func TestClientResolveTarget(t *testing.T) {
	c, _ := testClient(t)
	tests := map[string]string{
		"bob":      "them",
		"Bob":      "them",
		"unit:Bob": game.UnitTarget("them"),
		"them":     "them",
		"nobody":   "nobody",
	}
	for in, want := range tests {
		if got := c.resolveTarget(in); got != want {
			t.Errorf("resolveTarget(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientRendersMessages(t *testing.T) {
	c, out := testClient(t)
	c.handle(ServerMessage{Type: MsgActionPerformed, Logs: []string{"Alice plays Fire Lance"}})
	c.handle(ServerMessage{Type: MsgChatReceived, PlayerName: "Bob", Msg: "gg"})
	c.handle(ServerMessage{Type: MsgError, Error: "not your turn"})
	c.handle(ServerMessage{Type: MsgGameOver, Result: "Alice wins", Leaderboard: map[string]int{"Alice": 2, "Bob": 1}})

	text := out.String()
	for _, want := range []string{"Fire Lance", "[Bob] gg", "! not your turn", "GAME OVER", "Alice wins", "Leaderboard"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	board := text[strings.Index(text, "Leaderboard"):]
	if strings.Index(board, "Alice") > strings.Index(board, "Bob") {
		t.Error("leaderboard should be ordered by wins")
	}
}

func TestClientLocalCommands(t *testing.T) {
	c, out := testClient(t)
	ctx := context.Background()
	for _, line := range []string{"hand", "state", "help", "play", "play 99", "bogus", ""} {
		if quit, err := c.command(ctx, line); quit || err != nil {
			t.Fatalf("command %q: quit=%v err=%v", line, quit, err)
		}
	}
	if quit, _ := c.command(ctx, "quit"); !quit {
		t.Error("quit should end the REPL")
	}
	text := out.String()
	for _, want := range []string{"Hand:", "Fire Lance", "Alice (you)", "usage: play", "between 1 and 5", "unknown command"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
