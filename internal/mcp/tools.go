package mcp

import (
	"context"
	"errors"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/1123antman/battle-super-z/internal/game"
	"github.com/1123antman/battle-super-z/internal/room"
)

// Tools holds the single game session of an MCP stdio process.
type Tools struct {
	store *room.Store

	mu            sync.Mutex
	activeSession *GameSession
}

// RegisterTools adds all game tools to the MCP server, backed by store.
func RegisterTools(s *server.MCPServer, store *room.Store) *Tools {
	t := &Tools{store: store}
	s.AddTool(startSoloGameTool(), t.handleStartSoloGame)
	s.AddTool(listCardsTool(), t.handleListCards)
	s.AddTool(playCardTool(), t.handlePlayCard)
	s.AddTool(endTurnTool(), t.handleEndTurn)
	s.AddTool(getGameStateTool(), t.handleGetGameState)
	return t
}

// --- Tool definitions ---

func startSoloGameTool() mcp.Tool {
	return mcp.NewTool("start_solo_game",
		mcp.WithDescription("Start a new match against the built-in CPU. Returns the initial state, your hand and, "+
			"if the CPU moved first, what it did. Any previous match of this session is abandoned."),
		mcp.WithString("player_name", mcp.Description("Your display name (default \"Anonymous\")")),
		mcp.WithString("preset", mcp.Description("CPU deck preset: balanced, aggro or summoner (default balanced)")),
		mcp.WithString("deck", mcp.Description("Your own deck preset (default balanced)")),
	)
}

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List every card in the catalog with its effect, power, cost, element and skills. Read-only."),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. Basic actions (basic_attack, basic_defense, basic_heal) can be used "+
			"once per turn; every deck card once per match. Costs energy."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card id from your hand, a catalog id, or the card name")),
		mcp.WithString("target_id", mcp.Description("Player id or name, 'opponent', or 'unit:<name>' to hit a summoned unit. "+
			"Omit to hit the default target")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn. The CPU plays its turn before this returns."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current state, your hand and narration not yet reported, without acting. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) session() *GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeSession
}

func (t *Tools) handleStartSoloGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("player_name", "")
	preset := request.GetString("preset", game.DefaultAIPreset)
	deck := request.GetString("deck", game.DefaultAIPreset)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.activeSession != nil {
		// a seat that was already given up has nothing left to abandon
		if _, err := t.store.Abandon(t.activeSession.playerID); err != nil && !errors.Is(err, room.ErrNotInRoom) {
			return mcp.NewToolResultErrorf("Failed to leave the previous game: %v", err), nil
		}
		t.activeSession = nil
	}

	sess, err := NewGameSession(t.store, name, deck, preset)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	t.activeSession = sess
	return mcp.NewToolResultText(respondJSON(sess.State())), nil
}

func (t *Tools) handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards := game.Presets()
	out := make([]HandCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, handCard(c))
	}
	return mcp.NewToolResultText(respondJSON(&ToolResponse{Events: []string{}, Hand: out})), nil
}

func (t *Tools) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_solo_game first."), nil
	}
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}

	resp, err := sess.Play(cardID, request.GetString("target_id", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Rejected: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_solo_game first."), nil
	}
	resp, err := sess.EndTurn()
	if err != nil {
		return mcp.NewToolResultErrorf("Rejected: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_solo_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.State())), nil
}
