package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1123antman/battle-super-z/internal/game"
	"github.com/1123antman/battle-super-z/internal/log"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room full")
	ErrNotInRoom        = errors.New("player is not in a room")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrAlreadyStarted   = errors.New("match already in progress")
	ErrNoMatch          = errors.New("match has not started")
	ErrNotAITurn        = errors.New("not the AI's turn")
)

const (
	DefaultPlayerName = "Anonymous"
	DefaultDeckSize   = 10
	AIPlayerName      = "CPU"
)

// Member is one seat in a room.
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"playerName"`
	DeckSize  int    `json:"deckSize"`
	AI        bool   `json:"ai,omitempty"`
	Connected bool   `json:"connected"`
}

// View is a read-only copy of a room for presentation.
type View struct {
	ID      string      `json:"id"`
	HostID  string      `json:"hostId"`
	Solo    bool        `json:"solo"`
	Members []Member    `json:"members"`
	Match   *game.Match `json:"gameState,omitempty"`
}

// ActionOutcome is a resolved card play as seen by the room.
type ActionOutcome struct {
	PlayerID string
	Card     *game.Card
	Lines    []string
	Events   []log.GameEvent
	Match    *game.Match
	Outcome  game.Outcome
}

// TurnOutcome is a completed turn change.
type TurnOutcome struct {
	PreviousPlayerID string
	NextPlayerID     string
	Lines            []string
	Events           []log.GameEvent
	Match            *game.Match
	Outcome          game.Outcome
}

// AIOutcome is everything the AI seat did in one turn.
type AIOutcome struct {
	PlayerID string
	Actions  []ActionOutcome
	Turn     *TurnOutcome
	Outcome  game.Outcome
}

// Room is one isolated game session. Every method takes the room lock, so
// plays, turn changes and AI batches never interleave.
type Room struct {
	ID   string
	Solo bool

	mu       sync.Mutex
	hostID   string
	members  []*Member
	match    *game.Match
	history  *log.MemoryLogger
	thinking bool
	aiPreset string
	library  *game.DeckLibrary
	rng      *rand.Rand
	board    *Leaderboard
	logger   *zap.Logger

	idleTimer *time.Timer // guarded by Store.mu
}

func (r *Room) member(id string) *Member {
	for _, m := range r.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *Room) memberByName(name string) *Member {
	for _, m := range r.members {
		if m.Name == name && !m.AI {
			return m
		}
	}
	return nil
}

func (r *Room) playingLocked() bool {
	return r.match != nil && r.match.Status == game.StatusPlaying
}

func (r *Room) connectedHumansLocked() int {
	n := 0
	for _, m := range r.members {
		if !m.AI && m.Connected {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the room and its match.
func (r *Room) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := View{ID: r.ID, HostID: r.hostID, Solo: r.Solo}
	for _, m := range r.members {
		v.Members = append(v.Members, *m)
	}
	if r.match != nil {
		v.Match = r.match.Clone()
	}
	return v
}

// Match returns a copy of the current match, or nil before the first start.
func (r *Room) Match() *game.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.match == nil {
		return nil
	}
	return r.match.Clone()
}

// History returns the narration of the current match so far.
func (r *Room) History() []log.GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.history == nil {
		return nil
	}
	return r.history.Events()
}

// PlayerName returns a member's display name.
func (r *Room) PlayerName(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.member(id); m != nil {
		return m.Name
	}
	return DefaultPlayerName
}

// MemberIDs returns the seat ids in join order.
func (r *Room) MemberIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.members))
	for _, m := range r.members {
		ids = append(ids, m.ID)
	}
	return ids
}

// Start begins a new match with the current members. A finished match may be
// restarted; a running one may not.
func (r *Room) Start(playerID string) (*game.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.member(playerID) == nil {
		return nil, ErrNotInRoom
	}
	if err := r.startLocked(); err != nil {
		return nil, err
	}
	return r.match.Clone(), nil
}

func (r *Room) startLocked() error {
	if r.playingLocked() {
		return ErrAlreadyStarted
	}
	if len(r.members) < game.MinPlayers {
		return ErrNotEnoughPlayers
	}

	seats := make([]game.Seat, 0, len(r.members))
	for _, m := range r.members {
		seat := game.Seat{ID: m.ID, Name: m.Name, DeckSize: m.DeckSize}
		if m.AI {
			deck, err := r.library.Deck(r.aiPreset)
			if err != nil {
				return fmt.Errorf("build AI deck: %w", err)
			}
			seat.Deck = deck
			seat.DeckSize = len(deck)
			seat.Favored = true
		}
		seats = append(seats, seat)
	}

	match, err := game.NewMatch(seats, r.rng)
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}
	r.match = match
	r.thinking = false
	r.history = log.NewMemoryLogger()

	first := match.Current()
	r.history.Log(log.NewMatchStartEvent(first.ID, first.Name, len(seats)))
	r.logger.Info("match started",
		zap.String("room_id", r.ID),
		zap.Int("players", len(seats)),
		zap.String("first_player", first.ID),
	)
	return nil
}

// Play submits a card for playerID.
func (r *Room) Play(playerID string, req game.PlayRequest) (*ActionOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.match == nil {
		return nil, ErrNoMatch
	}
	req.Card = r.claimCopyLocked(playerID, req.Card)

	res, err := game.ProcessCard(r.match, playerID, req)
	if err != nil {
		r.logger.Debug("play rejected",
			zap.String("room_id", r.ID),
			zap.String("player_id", playerID),
			zap.Stringer("card", req.Card),
			zap.Error(err),
		)
		return nil, err
	}
	r.record(res.Events)

	out := &ActionOutcome{
		PlayerID: playerID,
		Card:     req.Card,
		Lines:    res.Lines(),
		Events:   res.Events,
	}
	out.Outcome = r.settleLocked()
	out.Match = r.match.Clone()
	return out, nil
}

// claimCopyLocked re-keys a human's library card to the next copy of it, so
// a client-held deck cannot replay a card under fresh slot ids.
func (r *Room) claimCopyLocked(playerID string, c *game.Card) *game.Card {
	m := r.member(playerID)
	if c == nil || c.IsBasic() || m == nil || m.AI {
		return c
	}
	base := game.SlotBase(c.ID)
	if _, err := r.library.Lookup(base); err != nil {
		return c
	}
	p := r.match.Player(playerID)
	if p == nil {
		return c
	}
	return c.Clone(p.NextCopyID(base))
}

// EndTurn ends playerID's turn. Only the current player may end it.
func (r *Room) EndTurn(playerID string) (*TurnOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.match == nil {
		return nil, ErrNoMatch
	}
	if !r.playingLocked() {
		return nil, game.ErrMatchNotActive
	}
	if cur := r.match.CurrentTurnPlayerID; cur != playerID {
		name := DefaultPlayerName
		if m := r.member(cur); m != nil {
			name = m.Name
		}
		return nil, &game.PlayError{
			Kind:    game.RejectNotYourTurn,
			Message: fmt.Sprintf("not your turn (current: %s)", name),
		}
	}
	return r.endTurnLocked()
}

func (r *Room) endTurnLocked() (*TurnOutcome, error) {
	res, err := game.EndTurn(r.match)
	if err != nil {
		return nil, err
	}
	r.record(res.Events)
	out := &TurnOutcome{
		PreviousPlayerID: res.PreviousPlayerID,
		NextPlayerID:     res.NextPlayerID,
		Lines:            res.Lines(),
		Events:           res.Events,
	}
	out.Outcome = r.settleLocked()
	out.Match = r.match.Clone()
	return out, nil
}

// AITurnPending reports whether the AI seat is due to act and nobody has
// claimed the turn yet.
func (r *Room) AITurnPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aiTurnLocked() && !r.thinking
}

// BeginThinking claims the AI's turn. It returns false when it is not the
// AI's turn or the turn is already claimed.
func (r *Room) BeginThinking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.aiTurnLocked() || r.thinking {
		return false
	}
	r.thinking = true
	return true
}

func (r *Room) aiTurnLocked() bool {
	if !r.Solo || !r.playingLocked() {
		return false
	}
	m := r.member(r.match.CurrentTurnPlayerID)
	return m != nil && m.AI
}

// RunAI plays the AI seat's whole turn as one batch. If the policy fails the
// turn is ended anyway so the match never stalls on the AI.
func (r *Room) RunAI() (*AIOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.thinking = false }()

	if !r.aiTurnLocked() {
		return nil, ErrNotAITurn
	}
	aiID := r.match.CurrentTurnPlayerID
	out := &AIOutcome{PlayerID: aiID}

	res, err := game.RunAITurn(r.match, aiID, r.rng)
	if res != nil {
		for _, a := range res.Actions {
			r.record(a.Result.Events)
			out.Actions = append(out.Actions, ActionOutcome{
				PlayerID: aiID,
				Card:     a.Card,
				Lines:    a.Result.Lines(),
				Events:   a.Result.Events,
				Match:    a.State,
			})
		}
	}

	switch {
	case err != nil:
		r.logger.Error("AI turn failed, forcing end of turn",
			zap.String("room_id", r.ID),
			zap.String("player_id", aiID),
			zap.Error(err),
		)
		if r.playingLocked() && r.match.CurrentTurnPlayerID == aiID {
			turn, terr := r.endTurnLocked()
			if terr != nil {
				return out, fmt.Errorf("emergency end turn: %w", terr)
			}
			out.Turn = turn
		}
	case res.Turn != nil:
		r.record(res.Turn.Events)
		out.Turn = &TurnOutcome{
			PreviousPlayerID: res.Turn.PreviousPlayerID,
			NextPlayerID:     res.Turn.NextPlayerID,
			Lines:            res.Turn.Lines(),
			Events:           res.Turn.Events,
		}
	}

	out.Outcome = r.settleLocked()
	if out.Turn != nil {
		out.Turn.Outcome = out.Outcome
		out.Turn.Match = r.match.Clone()
	}
	r.logger.Debug("AI turn done",
		zap.String("room_id", r.ID),
		zap.Int("actions", len(out.Actions)),
		zap.Bool("finished", out.Outcome.Finished),
	)
	return out, nil
}

func (r *Room) record(events []log.GameEvent) {
	for _, e := range events {
		r.history.Log(e)
	}
}

// settleLocked checks for the end of the match and credits the winner once.
func (r *Room) settleLocked() game.Outcome {
	wasFinished := r.match.Status == game.StatusFinished
	out := game.CheckGameOver(r.match)
	if !out.Finished || wasFinished {
		return out
	}

	if out.WinnerID == "" {
		r.history.Log(log.NewDrawEvent(r.match.Turn, "no player left standing"))
		r.logger.Info("match drawn", zap.String("room_id", r.ID))
		return out
	}
	r.history.Log(log.NewWinEvent(r.match.Turn, out.WinnerID, out.WinnerName, "last one standing"))
	wins := r.board.RecordWin(out.WinnerName)
	r.logger.Info("match finished",
		zap.String("room_id", r.ID),
		zap.String("winner_id", out.WinnerID),
		zap.String("winner", out.WinnerName),
		zap.Int("wins", wins),
	)
	return out
}

// rename moves a member to a new connection id, carrying its match state.
func (r *Room) rename(oldID, newID string) {
	m := r.member(oldID)
	if m == nil {
		return
	}
	m.ID = newID
	m.Connected = true
	if r.hostID == oldID {
		r.hostID = newID
	}
	if r.match != nil {
		r.match.RenamePlayer(oldID, newID)
	}
}
