package room

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1123antman/battle-super-z/internal/game"
)

// Options configures a Store. Zero values pick defaults.
type Options struct {
	Logger          *zap.Logger
	Leaderboard     *Leaderboard
	Library         *game.DeckLibrary
	MaxPlayers      int
	DefaultDeckSize int
	// ReconnectGrace is how long a running match with no connected human is
	// kept for a reconnect. Zero picks DefaultReconnectGrace.
	ReconnectGrace time.Duration
	Seed           int64 // 0 seeds from the clock
}

const DefaultReconnectGrace = 5 * time.Minute

// JoinResult tells the caller how a join was handled.
type JoinResult struct {
	Reconnected bool
	PreviousID  string
}

// Store owns every room of the process. Lock order is Store, then Room.
type Store struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	byPlayer map[string]string
	rng      *rand.Rand

	board      *Leaderboard
	library    *game.DeckLibrary
	logger     *zap.Logger
	maxPlayers int
	deckSize   int
	grace      time.Duration
}

func NewStore(opts Options) *Store {
	s := &Store{
		rooms:      make(map[string]*Room),
		byPlayer:   make(map[string]string),
		board:      opts.Leaderboard,
		library:    opts.Library,
		logger:     opts.Logger,
		maxPlayers: opts.MaxPlayers,
		deckSize:   opts.DefaultDeckSize,
		grace:      opts.ReconnectGrace,
	}
	if s.grace <= 0 {
		s.grace = DefaultReconnectGrace
	}
	if s.board == nil {
		s.board = NewLeaderboard()
	}
	if s.library == nil {
		s.library = game.DefaultLibrary()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxPlayers < game.MinPlayers || s.maxPlayers > game.MaxPlayers {
		s.maxPlayers = game.MaxPlayers
	}
	if s.deckSize <= 0 {
		s.deckSize = DefaultDeckSize
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

func (s *Store) Leaderboard() *Leaderboard { return s.board }
func (s *Store) Library() *game.DeckLibrary { return s.library }

// newRoomLocked allocates a room under a fresh 4-digit id.
func (s *Store) newRoomLocked(solo bool) *Room {
	id := fmt.Sprintf("%04d", 1000+s.rng.Intn(9000))
	for s.rooms[id] != nil {
		id = fmt.Sprintf("%04d", 1000+s.rng.Intn(9000))
	}
	r := &Room{
		ID:      id,
		Solo:    solo,
		library: s.library,
		rng:     rand.New(rand.NewSource(s.rng.Int63())),
		board:   s.board,
		logger:  s.logger,
	}
	s.rooms[id] = r
	return r
}

func (s *Store) normalize(name string, deckSize int) (string, int) {
	if name == "" {
		name = DefaultPlayerName
	}
	if deckSize <= 0 {
		deckSize = s.deckSize
	}
	return name, deckSize
}

// Create opens a new room hosted by hostID. The host leaves any previous room.
func (s *Store) Create(hostID, name string, deckSize int) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(hostID, true)

	name, deckSize = s.normalize(name, deckSize)
	r := s.newRoomLocked(false)
	r.hostID = hostID
	r.members = []*Member{{ID: hostID, Name: name, DeckSize: deckSize, Connected: true}}
	s.byPlayer[hostID] = r.ID

	s.logger.Info("room created", zap.String("room_id", r.ID), zap.String("player_id", hostID))
	return r, nil
}

// CreateSolo opens a private room against the built-in AI and starts the
// match immediately.
func (s *Store) CreateSolo(hostID, name string, deckSize int, preset string) (*Room, error) {
	if preset == "" {
		preset = game.DefaultAIPreset
	}
	if _, ok := s.library.Presets[preset]; !ok {
		return nil, fmt.Errorf("unknown AI deck preset %q", preset)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(hostID, true)

	name, deckSize = s.normalize(name, deckSize)
	r := s.newRoomLocked(true)
	r.hostID = hostID
	r.aiPreset = preset
	r.members = []*Member{
		{ID: hostID, Name: name, DeckSize: deckSize, Connected: true},
		{ID: "ai_" + uuid.NewString(), Name: AIPlayerName, AI: true, Connected: true},
	}
	s.byPlayer[hostID] = r.ID

	r.mu.Lock()
	err := r.startLocked()
	r.mu.Unlock()
	if err != nil {
		delete(s.rooms, r.ID)
		delete(s.byPlayer, hostID)
		return nil, err
	}

	s.logger.Info("solo room created",
		zap.String("room_id", r.ID),
		zap.String("player_id", hostID),
		zap.String("preset", preset),
	)
	return r, nil
}

// Join seats playerID in a room. While a match is running, a player whose
// display name matches an existing seat takes that seat over (reconnect);
// anyone else is refused.
func (s *Store) Join(roomID, playerID, name string, deckSize int) (*Room, JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, JoinResult{}, ErrRoomNotFound
	}
	if s.byPlayer[playerID] != roomID {
		s.leaveLocked(playerID, true)
	}
	name, deckSize = s.normalize(name, deckSize)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.member(playerID) != nil {
		return r, JoinResult{}, nil
	}

	if r.playingLocked() {
		prev := r.memberByName(name)
		if prev == nil {
			return nil, JoinResult{}, ErrAlreadyStarted
		}
		oldID := prev.ID
		r.rename(oldID, playerID)
		delete(s.byPlayer, oldID)
		s.byPlayer[playerID] = r.ID
		s.logger.Info("player reconnected",
			zap.String("room_id", r.ID),
			zap.String("player_id", playerID),
			zap.String("previous_id", oldID),
		)
		return r, JoinResult{Reconnected: true, PreviousID: oldID}, nil
	}

	if r.Solo || len(r.members) >= s.maxPlayers {
		return nil, JoinResult{}, ErrRoomFull
	}
	r.members = append(r.members, &Member{ID: playerID, Name: name, DeckSize: deckSize, Connected: true})
	s.byPlayer[playerID] = r.ID
	s.logger.Info("player joined",
		zap.String("room_id", r.ID),
		zap.String("player_id", playerID),
		zap.Int("players", len(r.members)),
	)
	return r, JoinResult{}, nil
}

// Leave removes playerID from its room. During a running match the seat is
// kept for a later reconnect, and a room left without a connected human is
// held for the reconnect grace period. Other rooms without a connected human
// are evicted. It returns the room id the player left.
func (s *Store) Leave(playerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.leaveLocked(playerID, false)
	if id == "" {
		return "", ErrNotInRoom
	}
	return id, nil
}

// Abandon is Leave for a player who will not come back: a running match
// left without a connected human is evicted at once.
func (s *Store) Abandon(playerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.leaveLocked(playerID, true)
	if id == "" {
		return "", ErrNotInRoom
	}
	return id, nil
}

func (s *Store) leaveLocked(playerID string, abandon bool) string {
	id, ok := s.byPlayer[playerID]
	if !ok {
		return ""
	}
	delete(s.byPlayer, playerID)
	r := s.rooms[id]
	if r == nil {
		return id
	}

	r.mu.Lock()
	playing := r.playingLocked()
	if playing {
		if m := r.member(playerID); m != nil {
			m.Connected = false
		}
	} else {
		kept := r.members[:0]
		for _, m := range r.members {
			if m.ID != playerID {
				kept = append(kept, m)
			}
		}
		r.members = kept
		if r.hostID == playerID {
			r.hostID = ""
			for _, m := range r.members {
				if !m.AI {
					r.hostID = m.ID
					break
				}
			}
		}
	}
	empty := r.connectedHumansLocked() == 0
	r.mu.Unlock()

	switch {
	case empty && playing && !abandon:
		if r.idleTimer != nil {
			r.idleTimer.Stop()
		}
		r.idleTimer = time.AfterFunc(s.grace, func() { s.evictIfIdle(r) })
		s.logger.Info("room idle, holding for reconnect",
			zap.String("room_id", id),
			zap.String("player_id", playerID),
			zap.Duration("grace", s.grace),
		)
	case empty:
		delete(s.rooms, id)
		s.logger.Info("room evicted", zap.String("room_id", id), zap.Int("rooms", len(s.rooms)))
	default:
		s.logger.Info("player left", zap.String("room_id", id), zap.String("player_id", playerID))
	}
	return id
}

// evictIfIdle drops r once its grace period ends, unless a human came back.
func (s *Store) evictIfIdle(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[r.ID] != r {
		return
	}
	r.mu.Lock()
	idle := r.connectedHumansLocked() == 0
	r.mu.Unlock()
	if !idle {
		return
	}
	delete(s.rooms, r.ID)
	s.logger.Info("idle room evicted", zap.String("room_id", r.ID), zap.Int("rooms", len(s.rooms)))
}

// Get returns the room with the given id.
func (s *Store) Get(roomID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// FindByPlayer returns the room playerID is seated in.
func (s *Store) FindByPlayer(playerID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPlayer[playerID]
	if !ok {
		return nil, ErrNotInRoom
	}
	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Len returns the number of open rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// List returns views of every open room, ordered by id.
func (s *Store) List() []View {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	out := make([]View, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Snapshot())
	}
	return out
}
