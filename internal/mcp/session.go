package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/1123antman/battle-super-z/internal/game"
	"github.com/1123antman/battle-super-z/internal/room"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []string    `json:"events"`
	RoomID   string      `json:"room_id,omitempty"`
	YouID    string      `json:"you_id,omitempty"`
	YourTurn bool        `json:"your_turn"`
	State    *game.Match `json:"state,omitempty"`
	Hand     []HandCard  `json:"hand,omitempty"`
	GameOver bool        `json:"game_over"`
	Winner   string      `json:"winner,omitempty"`
	Result   string      `json:"result,omitempty"`
}

// HandCard is a playable card as presented to the agent.
type HandCard struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Effect  string   `json:"effect"`
	Power   int      `json:"power"`
	Cost    int      `json:"cost"`
	Element string   `json:"element,omitempty"`
	Summon  bool     `json:"summon,omitempty"`
	Role    string   `json:"role,omitempty"`
	Skills  []string `json:"skills,omitempty"`
}

// GameSession is one solo match played by the MCP agent against the
// built-in AI. The AI answers synchronously: every tool call returns only
// once it is the agent's turn again or the match is over.
type GameSession struct {
	room     *room.Room
	playerID string
	deck     []*game.Card

	mu     sync.Mutex
	events []string
}

// NewGameSession opens a solo room in store. deckPreset picks the agent's
// own deck, aiPreset the opponent's.
func NewGameSession(store *room.Store, name, deckPreset, aiPreset string) (*GameSession, error) {
	if deckPreset == "" {
		deckPreset = game.DefaultAIPreset
	}
	deck, err := store.Library().Deck(deckPreset)
	if err != nil {
		return nil, fmt.Errorf("player deck: %w", err)
	}

	s := &GameSession{playerID: "mcp_" + uuid.NewString(), deck: deck}
	s.room, err = store.CreateSolo(s.playerID, name, len(deck), aiPreset)
	if err != nil {
		return nil, fmt.Errorf("create solo room: %w", err)
	}
	for _, e := range s.room.History() {
		s.appendEvent(e.Details)
	}
	if err := s.runAI(); err != nil {
		return nil, err
	}
	return s, nil
}

// Play submits a card from the agent's hand.
func (s *GameSession) Play(cardID, targetID string) (*ToolResponse, error) {
	card, err := s.findCard(cardID)
	if err != nil {
		return nil, err
	}
	out, err := s.room.Play(s.playerID, game.PlayRequest{Card: card, TargetID: s.resolveTarget(targetID)})
	if err != nil {
		return nil, err
	}
	s.appendEvent(out.Lines...)
	return s.response(), nil
}

// EndTurn ends the agent's turn and lets the AI play its own.
func (s *GameSession) EndTurn() (*ToolResponse, error) {
	out, err := s.room.EndTurn(s.playerID)
	if err != nil {
		return nil, err
	}
	s.appendEvent(out.Lines...)
	if err := s.runAI(); err != nil {
		return nil, err
	}
	return s.response(), nil
}

// State returns the current state and any narration not yet reported.
func (s *GameSession) State() *ToolResponse {
	return s.response()
}

// GameOver reports whether the match has ended.
func (s *GameSession) GameOver() bool {
	m := s.room.Match()
	return m == nil || m.Status == game.StatusFinished
}

// runAI plays AI turns until the agent is up again.
func (s *GameSession) runAI() error {
	for s.room.BeginThinking() {
		out, err := s.room.RunAI()
		if out != nil {
			for _, a := range out.Actions {
				s.appendEvent(a.Lines...)
			}
			if out.Turn != nil {
				s.appendEvent(out.Turn.Lines...)
			}
		}
		if err != nil {
			return fmt.Errorf("AI turn: %w", err)
		}
	}
	return nil
}

func (s *GameSession) appendEvent(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, lines...)
}

func (s *GameSession) drainEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []string{}
	}
	return events
}

func (s *GameSession) response() *ToolResponse {
	m := s.room.Match()
	resp := &ToolResponse{
		Events: s.drainEvents(),
		RoomID: s.room.ID,
		YouID:  s.playerID,
		State:  m,
	}
	if m == nil {
		return resp
	}
	resp.YourTurn = m.Status == game.StatusPlaying && m.CurrentTurnPlayerID == s.playerID
	if m.Status == game.StatusFinished {
		resp.GameOver = true
		resp.Result = m.Result
		if p := m.Player(m.WinnerID); p != nil {
			resp.Winner = p.Name
		}
		return resp
	}
	for _, c := range s.hand(m) {
		resp.Hand = append(resp.Hand, handCard(c))
	}
	return resp
}

func handCard(c *game.Card) HandCard {
	hc := HandCard{
		ID:      c.ID,
		Name:    c.Name,
		Effect:  string(c.Effect),
		Power:   c.Power,
		Cost:    c.EffectiveCost(),
		Element: string(c.Element),
		Summon:  c.IsSummon(),
		Role:    string(c.Role),
	}
	for _, sk := range c.Skills {
		hc.Skills = append(hc.Skills, string(sk))
	}
	return hc
}

func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
