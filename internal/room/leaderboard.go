package room

import (
	"sort"
	"sync"
)

// Entry is one leaderboard row.
type Entry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Leaderboard counts match wins by winner display name for the lifetime of
// the process.
type Leaderboard struct {
	mu   sync.Mutex
	wins map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{wins: make(map[string]int)}
}

// RecordWin adds a win for name and returns the new total.
func (l *Leaderboard) RecordWin(name string) int {
	if name == "" {
		name = DefaultPlayerName
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wins[name]++
	return l.wins[name]
}

// Wins returns the win count for name.
func (l *Leaderboard) Wins(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wins[name]
}

// Top returns up to n entries ordered by wins, then name. n <= 0 returns all.
func (l *Leaderboard) Top(n int) []Entry {
	l.mu.Lock()
	out := make([]Entry, 0, len(l.wins))
	for name, w := range l.wins {
		out = append(out, Entry{Name: name, Wins: w})
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Snapshot returns a copy of all counts keyed by name.
func (l *Leaderboard) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.wins))
	for k, v := range l.wins {
		out[k] = v
	}
	return out
}
