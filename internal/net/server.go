package net

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/1123antman/battle-super-z/internal/game"
	"github.com/1123antman/battle-super-z/internal/room"
)

// DefaultAIDelay is how long the AI "thinks" before playing its turn.
const DefaultAIDelay = 1500 * time.Millisecond

const maxChatLen = 280

// Hub serves the JSON protocol over WebSocket for every room in a Store and
// fans room events out to the seated connections.
type Hub struct {
	store   *room.Store
	logger  *zap.Logger
	aiDelay time.Duration

	mu     sync.RWMutex
	peers  map[string]*peer
	closed bool
}

// NewHub creates a hub over store. A negative aiDelay selects DefaultAIDelay.
func NewHub(store *room.Store, logger *zap.Logger, aiDelay time.Duration) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aiDelay < 0 {
		aiDelay = DefaultAIDelay
	}
	return &Hub{
		store:   store,
		logger:  logger,
		aiDelay: aiDelay,
		peers:   make(map[string]*peer),
	}
}

// Store returns the room store the hub serves.
func (h *Hub) Store() *room.Store { return h.store }

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for dev
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	p := newPeer(uuid.NewString(), ws)
	if !h.register(p) {
		ws.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	h.logger.Debug("client connected", zap.String("player_id", p.id), zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go p.writeLoop(ctx, h.logger)
	p.send(ServerMessage{Type: MsgConnected, PlayerID: p.id})

	if err := h.readLoop(ctx, p); err != nil {
		h.logger.Debug("connection ended", zap.String("player_id", p.id), zap.Error(err))
	}
	h.unregister(p)
	h.leave(p.id)
	p.close(websocket.StatusNormalClosure, "")
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()
	for _, p := range peers {
		p.close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) register(p *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.peers[p.id] = p
	return true
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p.id)
}

func (h *Hub) readLoop(ctx context.Context, p *peer) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, p.ws, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := h.handle(p, msg); err != nil {
			p.send(errorMessage(err))
		}
	}
}

// handle dispatches one client message.
func (h *Hub) handle(p *peer, msg ClientMessage) error {
	h.logger.Debug("message", zap.String("player_id", p.id), zap.String("type", msg.Type))

	switch msg.Type {
	case MsgCreateRoom:
		h.leave(p.id)
		r, err := h.store.Create(p.id, msg.PlayerName, cast.ToInt(msg.DeckSize))
		if err != nil {
			return err
		}
		v := r.Snapshot()
		p.send(ServerMessage{Type: MsgRoomCreated, RoomID: r.ID, PlayerID: p.id, Room: &v})
		return nil

	case MsgCreateSoloRoom:
		h.leave(p.id)
		r, err := h.store.CreateSolo(p.id, msg.PlayerName, cast.ToInt(msg.DeckSize), msg.Preset)
		if err != nil {
			return err
		}
		v := r.Snapshot()
		p.send(ServerMessage{Type: MsgRoomCreated, RoomID: r.ID, PlayerID: p.id, Room: &v})
		p.send(ServerMessage{Type: MsgGameStarted, RoomID: r.ID, Room: &v, State: v.Match})
		h.scheduleAI(r)
		return nil

	case MsgJoinRoom:
		if cur, err := h.store.FindByPlayer(p.id); err == nil && cur.ID != msg.RoomID {
			h.leave(p.id)
		}
		r, res, err := h.store.Join(msg.RoomID, p.id, msg.PlayerName, cast.ToInt(msg.DeckSize))
		if err != nil {
			return err
		}
		v := r.Snapshot()
		p.send(ServerMessage{
			Type:        MsgRoomJoined,
			RoomID:      r.ID,
			PlayerID:    p.id,
			Room:        &v,
			Reconnected: res.Reconnected,
			State:       v.Match,
		})
		h.broadcast(r, ServerMessage{
			Type:       MsgPlayerJoined,
			RoomID:     r.ID,
			PlayerID:   p.id,
			PlayerName: r.PlayerName(p.id),
			Total:      len(v.Members),
			Room:       &v,
		})
		return nil

	case MsgStartGame:
		r, err := h.store.FindByPlayer(p.id)
		if err != nil {
			return err
		}
		m, err := r.Start(p.id)
		if err != nil {
			return err
		}
		v := r.Snapshot()
		h.broadcast(r, ServerMessage{Type: MsgGameStarted, RoomID: r.ID, Room: &v, State: m})
		h.scheduleAI(r)
		return nil

	case MsgPlayCard:
		r, err := h.store.FindByPlayer(p.id)
		if err != nil {
			return err
		}
		card, err := DecodeCard(msg.Card, h.store.Library())
		if err != nil {
			return err
		}
		out, err := r.Play(p.id, game.PlayRequest{Card: card, TargetID: msg.TargetID})
		if err != nil {
			return err
		}
		h.broadcast(r, actionMessage(out))
		h.afterMove(r, out.Outcome, out.Match)
		return nil

	case MsgEndTurn:
		r, err := h.store.FindByPlayer(p.id)
		if err != nil {
			return err
		}
		out, err := r.EndTurn(p.id)
		if err != nil {
			return err
		}
		h.broadcast(r, turnMessage(out))
		h.afterMove(r, out.Outcome, out.Match)
		return nil

	case MsgLeaveRoom:
		if !h.leave(p.id) {
			return room.ErrNotInRoom
		}
		return nil

	case MsgChatMessage:
		r, err := h.store.FindByPlayer(p.id)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(msg.Msg)
		if text == "" {
			return nil
		}
		if rs := []rune(text); len(rs) > maxChatLen {
			text = string(rs[:maxChatLen])
		}
		h.broadcast(r, ServerMessage{
			Type:       MsgChatReceived,
			PlayerID:   p.id,
			PlayerName: r.PlayerName(p.id),
			Msg:        text,
		})
		return nil

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// leave removes playerID from its room, if any, and tells the others.
func (h *Hub) leave(playerID string) bool {
	r, err := h.store.FindByPlayer(playerID)
	if err != nil {
		return false
	}
	name := r.PlayerName(playerID)
	if _, err := h.store.Leave(playerID); err != nil {
		return false
	}
	v := r.Snapshot()
	h.broadcast(r, ServerMessage{
		Type:       MsgPlayerLeft,
		RoomID:     r.ID,
		PlayerID:   playerID,
		PlayerName: name,
		Total:      len(v.Members),
		Room:       &v,
	})
	return true
}

// afterMove announces the end of the match, or hands the turn to the AI.
func (h *Hub) afterMove(r *room.Room, out game.Outcome, m *game.Match) {
	if out.Finished {
		h.broadcast(r, h.gameOverMessage(out, m))
		return
	}
	h.scheduleAI(r)
}

// scheduleAI runs the AI seat's turn after the thinking delay. The room's
// thinking flag makes sure only one run is ever pending.
func (h *Hub) scheduleAI(r *room.Room) {
	if !r.BeginThinking() {
		return
	}
	time.AfterFunc(h.aiDelay, func() { h.runAI(r) })
}

func (h *Hub) runAI(r *room.Room) {
	out, err := r.RunAI()
	if err != nil {
		h.logger.Error("AI turn failed", zap.String("room_id", r.ID), zap.Error(err))
		if out == nil {
			return
		}
	}
	for i := range out.Actions {
		h.broadcast(r, actionMessage(&out.Actions[i]))
	}
	if out.Turn != nil {
		h.broadcast(r, turnMessage(out.Turn))
	}
	m := r.Match()
	if out.Turn != nil {
		m = out.Turn.Match
	}
	h.afterMove(r, out.Outcome, m)
}

// broadcast sends msg to every connected member of r.
func (h *Hub) broadcast(r *room.Room, msg ServerMessage) {
	ids := r.MemberIDs()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range ids {
		if p, ok := h.peers[id]; ok {
			if !p.send(msg) {
				h.logger.Warn("dropped message for slow client",
					zap.String("room_id", r.ID),
					zap.String("player_id", id),
					zap.String("type", msg.Type),
				)
			}
		}
	}
}

func actionMessage(out *room.ActionOutcome) ServerMessage {
	return ServerMessage{
		Type:     MsgActionPerformed,
		PlayerID: out.PlayerID,
		Card:     out.Card,
		Logs:     out.Lines,
		State:    out.Match,
	}
}

func turnMessage(out *room.TurnOutcome) ServerMessage {
	return ServerMessage{
		Type:             MsgTurnChanged,
		PreviousPlayerID: out.PreviousPlayerID,
		NextPlayerID:     out.NextPlayerID,
		Logs:             out.Lines,
		State:            out.Match,
	}
}

func (h *Hub) gameOverMessage(out game.Outcome, m *game.Match) ServerMessage {
	msg := ServerMessage{
		Type:        MsgGameOver,
		WinnerID:    out.WinnerID,
		WinnerName:  out.WinnerName,
		Leaderboard: h.store.Leaderboard().Snapshot(),
		State:       m,
	}
	if m != nil {
		msg.Result = m.Result
	}
	return msg
}
