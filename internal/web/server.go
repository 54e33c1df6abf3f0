package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/1123antman/battle-super-z/internal/game"
	gamenet "github.com/1123antman/battle-super-z/internal/net"
	"github.com/1123antman/battle-super-z/internal/room"
)

//go:embed static
var staticFiles embed.FS

const defaultLeaderboardLimit = 10

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	*game.Card
	EffectiveCost int  `json:"effectiveCost"`
	Basic         bool `json:"basic,omitempty"`
}

// Server is the HTTP front of the game: the WebSocket endpoint plus a few
// read-only JSON endpoints.
type Server struct {
	hub    *gamenet.Hub
	store  *room.Store
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server around hub.
func NewServer(hub *gamenet.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		hub:    hub,
		store:  hub.Store(),
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("GET /api/rooms", s.handleRooms)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ok", "rooms": s.store.Len()})
	})

	s.mux.Handle("GET /ws", s.hub)
}

// ServeHTTP logs every request that is not a WebSocket upgrade.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	if r.URL.Path != "/ws" {
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := game.Presets()
	for _, c := range s.store.Library().Custom {
		cards = append(cards, c)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })

	out := make([]CardInfo, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardInfo{Card: c, EffectiveCost: c.EffectiveCost(), Basic: c.IsBasic()})
	}
	writeJSON(w, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	writeJSON(w, s.store.Leaderboard().Top(limit))
}

// RoomInfo summarizes an open room for the lobby.
type RoomInfo struct {
	ID      string `json:"id"`
	Solo    bool   `json:"solo"`
	Players int    `json:"players"`
	Status  string `json:"status"`
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	views := s.store.List()
	out := make([]RoomInfo, 0, len(views))
	for _, v := range views {
		info := RoomInfo{ID: v.ID, Solo: v.Solo, Players: len(v.Members), Status: string(game.StatusWaiting)}
		if v.Match != nil {
			info.Status = string(v.Match.Status)
		}
		out = append(out, info)
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
