package net

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/1123antman/battle-super-z/internal/game"
)

// Client modes.
const (
	ModeCreate = "create"
	ModeJoin   = "join"
	ModeSolo   = "solo"
)

// ClientOptions selects how the client enters a room.
type ClientOptions struct {
	Mode   string
	RoomID string
	Name   string
	Preset string       // AI deck preset for solo mode
	Deck   []*game.Card // the player's own deck slots
}

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	ws   *websocket.Conn
	deck []*game.Card
	in   io.Reader
	out  io.Writer

	mu       sync.Mutex
	playerID string
	roomID   string
	state    *game.Match
}

// Connect dials the server at url, enters a room as opts describes and runs
// the REPL on stdin/stdout.
func Connect(ctx context.Context, url string, opts ClientOptions) error {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer ws.Close(websocket.StatusNormalClosure, "")

	c := NewClient(ws, opts.Deck, os.Stdin, os.Stdout)
	if err := c.enter(ctx, opts); err != nil {
		return err
	}
	return c.RunREPL(ctx)
}

// NewClient wraps an open connection.
func NewClient(ws *websocket.Conn, deck []*game.Card, in io.Reader, out io.Writer) *Client {
	return &Client{ws: ws, deck: deck, in: in, out: out}
}

func (c *Client) enter(ctx context.Context, opts ClientOptions) error {
	msg := ClientMessage{PlayerName: opts.Name, DeckSize: len(opts.Deck)}
	switch opts.Mode {
	case ModeCreate, "":
		msg.Type = MsgCreateRoom
	case ModeJoin:
		msg.Type = MsgJoinRoom
		msg.RoomID = opts.RoomID
	case ModeSolo:
		msg.Type = MsgCreateSoloRoom
		msg.Preset = opts.Preset
	default:
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}
	return c.send(ctx, msg)
}

func (c *Client) send(ctx context.Context, msg ClientMessage) error {
	if err := wsjson.Write(ctx, c.ws, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// RunREPL prints server messages as they arrive and executes commands read
// from the input until "quit", end of input, or a closed connection.
func (c *Client) RunREPL(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() { serverErr <- c.readServer(ctx) }()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Fprintln(c.out, "Type 'help' for commands.")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-serverErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := c.command(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (c *Client) readServer(ctx context.Context) error {
	for {
		var msg ServerMessage
		if err := wsjson.Read(ctx, c.ws, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.State != nil {
		c.state = msg.State
	}

	switch msg.Type {
	case MsgConnected:
		c.playerID = msg.PlayerID
	case MsgRoomCreated, MsgRoomJoined:
		c.roomID = msg.RoomID
		if msg.Reconnected {
			fmt.Fprintf(c.out, "Reconnected to room %s\n", msg.RoomID)
		} else {
			fmt.Fprintf(c.out, "Room %s. Share the code; type 'start' when everyone is in.\n", msg.RoomID)
		}
	case MsgPlayerJoined:
		fmt.Fprintf(c.out, "%s joined (%d players)\n", msg.PlayerName, msg.Total)
	case MsgPlayerLeft:
		fmt.Fprintf(c.out, "%s left\n", msg.PlayerName)
	case MsgGameStarted:
		fmt.Fprintln(c.out, "Match started!")
		c.renderState()
	case MsgActionPerformed, MsgTurnChanged:
		for _, l := range msg.Logs {
			fmt.Fprintf(c.out, "  %s\n", l)
		}
		if msg.Type == MsgTurnChanged {
			c.renderState()
		}
	case MsgChatReceived:
		fmt.Fprintf(c.out, "[%s] %s\n", msg.PlayerName, msg.Msg)
	case MsgGameOver:
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "═══════════════════════════════════")
		fmt.Fprintln(c.out, "          GAME OVER")
		fmt.Fprintln(c.out, "═══════════════════════════════════")
		fmt.Fprintln(c.out, msg.Result)
		renderLeaderboard(c.out, msg.Leaderboard)
		fmt.Fprintln(c.out, "═══════════════════════════════════")
	case MsgError:
		fmt.Fprintf(c.out, "! %s\n", msg.Error)
	}
}

// command runs one REPL line. It reports whether the user asked to quit.
func (c *Client) command(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "help", "?":
		c.renderHelp()
	case "state", "s":
		c.mu.Lock()
		c.renderState()
		c.mu.Unlock()
	case "hand", "h":
		c.mu.Lock()
		c.renderHand()
		c.mu.Unlock()
	case "start":
		return false, c.send(ctx, ClientMessage{Type: MsgStartGame})
	case "end", "e":
		return false, c.send(ctx, ClientMessage{Type: MsgEndTurn})
	case "play", "p":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, "usage: play <n> [target]")
			return false, nil
		}
		n, err := strconv.Atoi(fields[1])
		c.mu.Lock()
		hand := c.hand()
		target := ""
		if len(fields) > 2 {
			target = c.resolveTarget(strings.Join(fields[2:], " "))
		}
		c.mu.Unlock()
		if err != nil || n < 1 || n > len(hand) {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", len(hand))
			return false, nil
		}
		return false, c.send(ctx, ClientMessage{
			Type:     MsgPlayCard,
			Card:     EncodeCard(hand[n-1]),
			TargetID: target,
		})
	case "chat", "say":
		return false, c.send(ctx, ClientMessage{Type: MsgChatMessage, Msg: strings.Join(fields[1:], " ")})
	case "leave":
		return false, c.send(ctx, ClientMessage{Type: MsgLeaveRoom})
	case "quit", "q", "exit":
		return true, nil
	default:
		fmt.Fprintf(c.out, "unknown command %q, type 'help'\n", fields[0])
	}
	return false, nil
}

// hand lists the playable cards: the basic actions, then every unused deck slot.
func (c *Client) hand() []*game.Card {
	cards := game.BasicActions()
	var me *game.PlayerState
	if c.state != nil {
		me = c.state.Player(c.playerID)
	}
	return append(cards, game.UnplayedSlots(c.deck, me)...)
}

// resolveTarget maps a display name (or "unit:<name>") to a target id.
// Unknown names are passed through untouched.
func (c *Client) resolveTarget(arg string) string {
	if c.state == nil {
		return arg
	}
	unit := strings.HasPrefix(arg, game.UnitTargetPrefix)
	name := strings.TrimPrefix(arg, game.UnitTargetPrefix)
	for _, id := range c.state.Order {
		p := c.state.Players[id]
		if strings.EqualFold(p.Name, name) || id == name {
			if unit {
				return game.UnitTarget(id)
			}
			return id
		}
	}
	return arg
}

func (c *Client) renderHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  hand               list playable cards")
	fmt.Fprintln(c.out, "  play <n> [target]  play card n; target is a player name or unit:<name>")
	fmt.Fprintln(c.out, "  end                end your turn")
	fmt.Fprintln(c.out, "  state              show the board")
	fmt.Fprintln(c.out, "  start              start the match (any member)")
	fmt.Fprintln(c.out, "  chat <text>        talk to the room")
	fmt.Fprintln(c.out, "  leave | quit")
}

func (c *Client) renderHand() {
	fmt.Fprintln(c.out, "\nHand:")
	for i, card := range c.hand() {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, formatCard(card))
	}
}

func (c *Client) renderState() {
	m := c.state
	if m == nil {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(c.out, "║  Turn %d  (%s)\n", m.Turn, m.Status)
	for _, id := range m.Order {
		p := m.Players[id]
		marker := " "
		if id == m.CurrentTurnPlayerID {
			marker = ">"
		}
		you := ""
		if id == c.playerID {
			you = " (you)"
		}
		fmt.Fprintf(c.out, "║ %s %s%s  HP %d/%d  Shield %d  Energy %d/%d",
			marker, p.Name, you, p.HP, p.MaxHP, p.Shield, p.Energy, p.MaxEnergy)
		for _, s := range p.Status {
			fmt.Fprintf(c.out, "  [%s %d]", s.ID, s.Duration)
		}
		fmt.Fprintln(c.out)
		if u := p.Unit(); u != nil {
			fmt.Fprintf(c.out, "║      Unit: %s (%s, %d)\n", u.Name, u.Role, u.Power)
		}
	}
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")
	if m.CurrentTurnPlayerID == c.playerID && m.Status == game.StatusPlaying {
		fmt.Fprintln(c.out, "Your turn.")
	}
}

func formatCard(c *game.Card) string {
	s := fmt.Sprintf("%s [%s %d, cost %d]", c.Name, c.Effect, c.Power, c.EffectiveCost())
	if c.Element != "" && c.Element != game.ElementNone {
		s += " " + string(c.Element)
	}
	if c.IsSummon() {
		s += " summon"
	}
	for _, sk := range c.Skills {
		s += " +" + string(sk)
	}
	return s
}

func renderLeaderboard(w io.Writer, board map[string]int) {
	if len(board) == 0 {
		return
	}
	names := make([]string, 0, len(board))
	for n := range board {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if board[names[i]] != board[names[j]] {
			return board[names[i]] > board[names[j]]
		}
		return names[i] < names[j]
	})
	fmt.Fprintln(w, "Leaderboard:")
	for _, n := range names {
		fmt.Fprintf(w, "  %-16s %d\n", n, board[n])
	}
}
