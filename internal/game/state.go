package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

const (
	StartingHP            = 100
	StartingEnergy        = 3
	MaxEnergy             = 10
	EnergyPerTurn         = 2
	FavoredStartingEnergy = 5
	FavoredEnergyPerTurn  = 3
	MinPlayers            = 2
	MaxPlayers            = 4

	PassiveBonus         = 5
	UnitDecayPerTurn     = 2
	DeckExhaustionDamage = 5
	EnergyRoleBonus      = 1
)

// StatusEffect is a timed condition on a player.
type StatusEffect struct {
	ID       StatusID `json:"id"`
	Duration int      `json:"duration"`
}

// SummonedUnit occupies a player's field and intercepts attacks aimed at them.
type SummonedUnit struct {
	Name    string  `json:"name"`
	Power   int     `json:"power"`
	Image   string  `json:"image,omitempty"`
	Role    Role    `json:"role"`
	Element Element `json:"element,omitempty"` // taken from the summoning card; drives affinity against the unit
}

// Field holds what a player has in play.
type Field struct {
	SummonedCard *SummonedUnit `json:"summonedCard"`
}

// PassiveBonuses are flat modifiers derived from the summoned unit's role.
type PassiveBonuses struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

// PlayerState is one participant's entire state.
type PlayerState struct {
	ID              string         `json:"id"`
	Name            string         `json:"playerName"`
	HP              int            `json:"hp"`
	MaxHP           int            `json:"maxHp"`
	Shield          int            `json:"shield"`
	Energy          int            `json:"energy"`
	MaxEnergy       int            `json:"maxEnergy"`
	EnergyPerTurn   int            `json:"energyPerTurn"`
	Status          []StatusEffect `json:"status"`
	Field           Field          `json:"field"`
	UsedCardIDs     []string       `json:"usedCardIds"`
	UsedBasicAction bool           `json:"usedBasicAction"`
	DeckSize        int            `json:"deckSize"`
	PassiveBonuses  PassiveBonuses `json:"passiveBonuses"`

	// Deck holds server-side deck slots (AI seats). Human decks stay with the client.
	Deck []*Card `json:"-"`
}

// HasStatus reports whether the player currently carries the status.
func (p *PlayerState) HasStatus(id StatusID) bool {
	for _, s := range p.Status {
		if s.ID == id && s.Duration > 0 {
			return true
		}
	}
	return false
}

// addStatus applies a status, refreshing the duration of an existing entry
// instead of stacking a duplicate.
func (p *PlayerState) addStatus(id StatusID, duration int) {
	for i := range p.Status {
		if p.Status[i].ID == id {
			p.Status[i].Duration = max(p.Status[i].Duration, duration)
			return
		}
	}
	p.Status = append(p.Status, StatusEffect{ID: id, Duration: duration})
}

// damage removes hp, clamped at 0, and returns the old and new values.
func (p *PlayerState) damage(n int) (int, int) {
	old := p.HP
	p.HP = max(0, p.HP-n)
	return old, p.HP
}

// heal restores hp, clamped at MaxHP, and returns the old and new values.
func (p *PlayerState) heal(n int) (int, int) {
	old := p.HP
	p.HP = min(p.MaxHP, p.HP+n)
	return old, p.HP
}

// gainEnergy adds energy, clamped at MaxEnergy.
func (p *PlayerState) gainEnergy(n int) (int, int) {
	old := p.Energy
	p.Energy = min(p.MaxEnergy, p.Energy+n)
	return old, p.Energy
}

// Unit returns the summoned unit, or nil when the field is empty.
func (p *PlayerState) Unit() *SummonedUnit {
	return p.Field.SummonedCard
}

// HasUsed reports whether a deck card id has already been played this match.
func (p *PlayerState) HasUsed(cardID string) bool {
	return slices.Contains(p.UsedCardIDs, cardID)
}

// DeckExhausted reports whether every deck card has been played.
func (p *PlayerState) DeckExhausted() bool {
	return len(p.UsedCardIDs) >= p.DeckSize
}

// RemainingDeck returns the server-side deck slots not yet played.
func (p *PlayerState) RemainingDeck() []*Card {
	var out []*Card
	for _, c := range p.Deck {
		if !p.HasUsed(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// destroyUnit clears the field and recomputes passives.
func (p *PlayerState) destroyUnit() {
	p.Field.SummonedCard = nil
	p.recalculatePassives()
}

// recalculatePassives derives passive bonuses from the summoned unit's role.
func (p *PlayerState) recalculatePassives() {
	p.PassiveBonuses = PassiveBonuses{}
	u := p.Unit()
	if u == nil {
		return
	}
	switch u.Role {
	case RolePassiveATK:
		p.PassiveBonuses.Attack = PassiveBonus
	case RolePassiveDEF:
		p.PassiveBonuses.Defense = PassiveBonus
	}
}

func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.Status = slices.Clone(p.Status)
	cp.UsedCardIDs = slices.Clone(p.UsedCardIDs)
	if p.Field.SummonedCard != nil {
		u := *p.Field.SummonedCard
		cp.Field.SummonedCard = &u
	}
	cp.Deck = slices.Clone(p.Deck)
	return &cp
}

// --- Match ---

// Match holds the complete state of one room's game.
type Match struct {
	Status              MatchStatus             `json:"status"`
	CurrentTurnPlayerID string                  `json:"currentTurnPlayerId"`
	Turn                int                     `json:"turn"`  // 1-based turn counter
	Order               []string                `json:"order"` // fixed join order
	Players             map[string]*PlayerState `json:"players"`

	WinnerID string `json:"winnerId,omitempty"`
	Result   string `json:"result,omitempty"`
}

// Seat describes one participant handed over by the room layer.
type Seat struct {
	ID       string
	Name     string
	DeckSize int
	Deck     []*Card // optional server-side deck (AI)
	Favored  bool    // solo-mode AI gets a stronger energy curve
}

// NewMatch creates a fresh match for the given seats in join order and picks
// the first player uniformly at random.
func NewMatch(seats []Seat, rng *rand.Rand) (*Match, error) {
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("need %d-%d players, got %d", MinPlayers, MaxPlayers, len(seats))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	m := &Match{
		Status:  StatusPlaying,
		Turn:    1,
		Players: make(map[string]*PlayerState, len(seats)),
	}
	for _, s := range seats {
		if s.ID == "" {
			return nil, errors.New("seat without id")
		}
		if _, dup := m.Players[s.ID]; dup {
			return nil, fmt.Errorf("duplicate seat %q", s.ID)
		}
		p := &PlayerState{
			ID:            s.ID,
			Name:          s.Name,
			HP:            StartingHP,
			MaxHP:         StartingHP,
			Energy:        StartingEnergy,
			MaxEnergy:     MaxEnergy,
			EnergyPerTurn: EnergyPerTurn,
			Status:        []StatusEffect{},
			UsedCardIDs:   []string{},
			DeckSize:      s.DeckSize,
			Deck:          s.Deck,
		}
		if p.Name == "" {
			p.Name = shortID(s.ID)
		}
		if s.Favored {
			p.Energy = FavoredStartingEnergy
			p.EnergyPerTurn = FavoredEnergyPerTurn
		}
		if p.DeckSize == 0 && len(s.Deck) > 0 {
			p.DeckSize = len(s.Deck)
		}
		m.Players[s.ID] = p
		m.Order = append(m.Order, s.ID)
	}
	m.CurrentTurnPlayerID = m.Order[rng.Intn(len(m.Order))]
	return m, nil
}

// Player returns the state for id, or nil.
func (m *Match) Player(id string) *PlayerState {
	return m.Players[id]
}

// Current returns the player whose turn it is.
func (m *Match) Current() *PlayerState {
	return m.Players[m.CurrentTurnPlayerID]
}

// Opponents returns every other player in join order.
func (m *Match) Opponents(id string) []*PlayerState {
	var out []*PlayerState
	for _, pid := range m.Order {
		if pid != id {
			out = append(out, m.Players[pid])
		}
	}
	return out
}

// NextPlayerID returns the player after id in join order, wrapping around.
func (m *Match) NextPlayerID(id string) string {
	idx := slices.Index(m.Order, id)
	return m.Order[(idx+1)%len(m.Order)]
}

// RenamePlayer moves a player's state to a new id, keeping its seat in the
// join order. Used when a disconnected player reconnects under a new id.
func (m *Match) RenamePlayer(oldID, newID string) bool {
	p, ok := m.Players[oldID]
	if !ok || oldID == newID {
		return false
	}
	if _, taken := m.Players[newID]; taken {
		return false
	}
	delete(m.Players, oldID)
	p.ID = newID
	m.Players[newID] = p
	if i := slices.Index(m.Order, oldID); i >= 0 {
		m.Order[i] = newID
	}
	if m.CurrentTurnPlayerID == oldID {
		m.CurrentTurnPlayerID = newID
	}
	if m.WinnerID == oldID {
		m.WinnerID = newID
	}
	return true
}

// Clone returns a deep copy that can be handed to other goroutines.
func (m *Match) Clone() *Match {
	cp := *m
	cp.Order = slices.Clone(m.Order)
	cp.Players = make(map[string]*PlayerState, len(m.Players))
	for id, p := range m.Players {
		cp.Players[id] = p.clone()
	}
	return &cp
}

func (m *Match) displayName(id string) string {
	if p := m.Players[id]; p != nil {
		return p.Name
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
