package game

import (
	"github.com/1123antman/battle-super-z/internal/log"
)

// Outcome reports whether a match has ended and who won. A finished match
// with an empty WinnerID is a draw.
type Outcome struct {
	Finished   bool   `json:"finished"`
	WinnerID   string `json:"winnerId,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
}

// CheckGameOver ends the match as soon as any player is at 0 hp.
//
// The winner is the sole survivor. With several survivors (3-4 player rooms)
// the survivor with the most hp wins, ties going to the earliest seat. When
// nobody survives the match is a draw. A finished match reports its recorded
// result again without changes.
func CheckGameOver(m *Match) Outcome {
	if m.Status == StatusFinished {
		return Outcome{Finished: true, WinnerID: m.WinnerID, WinnerName: m.displayNameOrEmpty(m.WinnerID)}
	}

	down := false
	var best *PlayerState
	for _, id := range m.Order {
		p := m.Players[id]
		if p.HP <= 0 {
			down = true
			continue
		}
		if best == nil || p.HP > best.HP {
			best = p
		}
	}
	if !down {
		return Outcome{}
	}

	m.Status = StatusFinished
	if best == nil {
		m.Result = log.NewDrawEvent(m.Turn, "no player left standing").Details
		return Outcome{Finished: true}
	}
	m.WinnerID = best.ID
	m.Result = log.NewWinEvent(m.Turn, best.ID, best.Name, "opponent defeated").Details
	return Outcome{Finished: true, WinnerID: best.ID, WinnerName: best.Name}
}

func (m *Match) displayNameOrEmpty(id string) string {
	if id == "" {
		return ""
	}
	return m.displayName(id)
}
