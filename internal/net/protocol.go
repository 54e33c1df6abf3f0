package net

import (
	"errors"

	"github.com/1123antman/battle-super-z/internal/game"
	"github.com/1123antman/battle-super-z/internal/room"
)

// Message types for the JSON protocol over WebSocket.

// --- Client → Server messages ---

const (
	MsgCreateRoom     = "create_room"
	MsgCreateSoloRoom = "create_solo_room"
	MsgJoinRoom       = "join_room"
	MsgStartGame      = "start_game"
	MsgPlayCard       = "play_card"
	MsgEndTurn        = "end_turn"
	MsgLeaveRoom      = "leave_room"
	MsgChatMessage    = "chat_message"
)

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "create_room", "create_solo_room", "join_room"
	RoomID     string `json:"roomId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	DeckSize   any    `json:"deckSize,omitempty"` // browsers send numbers or strings
	Preset     string `json:"preset,omitempty"`

	// For "play_card"
	Card     map[string]any `json:"card,omitempty"`
	TargetID string         `json:"targetId,omitempty"`

	// For "chat_message"
	Msg string `json:"msg,omitempty"`
}

// --- Server → Client messages ---

const (
	MsgConnected       = "connected"
	MsgRoomCreated     = "room_created"
	MsgRoomJoined      = "room_joined"
	MsgPlayerJoined    = "player_joined"
	MsgPlayerLeft      = "player_left"
	MsgGameStarted     = "game_started"
	MsgActionPerformed = "action_performed"
	MsgTurnChanged     = "turn_changed"
	MsgGameOver        = "game_over"
	MsgChatReceived    = "chat_received"
	MsgError           = "error_message"
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "connected", "player_joined", "action_performed", "chat_received"
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`

	// For "room_created", "room_joined", "game_started"
	RoomID      string     `json:"roomId,omitempty"`
	Room        *room.View `json:"room,omitempty"`
	Reconnected bool       `json:"reconnected,omitempty"`
	Total       int        `json:"total,omitempty"`

	// For "action_performed", "turn_changed"
	Card             *game.Card  `json:"cardData,omitempty"`
	Logs             []string    `json:"logs,omitempty"`
	State            *game.Match `json:"gameState,omitempty"`
	PreviousPlayerID string      `json:"previousPlayerId,omitempty"`
	NextPlayerID     string      `json:"nextPlayerId,omitempty"`

	// For "game_over"
	WinnerID    string         `json:"winnerId,omitempty"`
	WinnerName  string         `json:"winnerName,omitempty"`
	Result      string         `json:"result,omitempty"`
	Leaderboard map[string]int `json:"leaderboard,omitempty"`

	// For "chat_received"
	Msg string `json:"msg,omitempty"`

	// For "error_message"
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Cost  int    `json:"cost,omitempty"`
	Have  int    `json:"have,omitempty"`
}

// errorMessage converts err into an "error_message". Rule rejections carry
// their kind so clients can react without parsing text.
func errorMessage(err error) ServerMessage {
	msg := ServerMessage{Type: MsgError, Error: err.Error()}
	var pe *game.PlayError
	if errors.As(err, &pe) {
		msg.Kind = pe.Kind.String()
		msg.Cost = pe.Cost
		msg.Have = pe.Have
	}
	return msg
}
