package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for replay and test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

// Events returns a copy of all recorded events.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	kind := e.Type.String()
	for len(kind) < 14 {
		kind += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Lines returns only the narration text of each event, in order.
func Lines(events []GameEvent) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, e.Details)
	}
	return lines
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(first, firstName string, players int) GameEvent {
	return GameEvent{
		Turn:    1,
		Player:  first,
		Type:    EventMatchStart,
		Details: fmt.Sprintf("Match started with %d players, %s goes first", players, firstName),
	}
}

func NewTurnEvent(turn int, player, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, name),
	}
}

func NewPlayEvent(turn int, player, name, cardName string, cost int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPlay,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s (cost %d)", name, cardName, cost),
	}
}

func NewSummonEvent(turn int, player, name, unitName string, power int, role string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventSummon,
		Card:    unitName,
		Details: fmt.Sprintf("%s summons %s (power %d, %s)", name, unitName, power, role),
	}
}

func NewAttackEvent(turn int, player, name, targetDesc string, damage int, affinity string) GameEvent {
	details := fmt.Sprintf("%s attacks %s for %d", name, targetDesc, damage)
	if affinity != "" {
		details += " (" + affinity + ")"
	}
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAttack,
		Details: details,
	}
}

func NewUnitDamageEvent(turn int, owner, unitName string, oldPower, newPower int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventUnitDamage,
		Card:    unitName,
		Details: fmt.Sprintf("%s power: %d → %d", unitName, oldPower, newPower),
	}
}

func NewUnitDestroyedEvent(turn int, owner, unitName, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventUnitDestroyed,
		Card:    unitName,
		Details: fmt.Sprintf("%s is destroyed (%s)", unitName, reason),
	}
}

func NewCounterAttackEvent(turn int, owner, unitName, targetDesc string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventCounterAttack,
		Card:    unitName,
		Details: fmt.Sprintf("%s counter-attacks %s for %d", unitName, targetDesc, damage),
	}
}

func NewShieldAbsorbEvent(turn int, player, name string, absorbed, oldShield, newShield int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventShieldAbsorb,
		Details: fmt.Sprintf("%s's shield absorbs %d (shield %d → %d)", name, absorbed, oldShield, newShield),
	}
}

func NewShieldChangeEvent(turn int, player, name string, oldShield, newShield int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventShieldChange,
		Details: fmt.Sprintf("%s shield: %d → %d", name, oldShield, newShield),
	}
}

func NewHPChangeEvent(turn int, player, name string, oldHP, newHP int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventHPChange,
		Details: fmt.Sprintf("%s HP: %d → %d (%s)", name, oldHP, newHP, reason),
	}
}

func NewEnergyChangeEvent(turn int, player, name string, oldEnergy, newEnergy int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEnergyChange,
		Details: fmt.Sprintf("%s energy: %d → %d (%s)", name, oldEnergy, newEnergy, reason),
	}
}

func NewStatusAppliedEvent(turn int, player, name, status string, duration int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventStatusApplied,
		Details: fmt.Sprintf("%s is afflicted with %s (%d turns)", name, status, duration),
	}
}

func NewStatusClearedEvent(turn int, player, name string, removed int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventStatusCleared,
		Details: fmt.Sprintf("%s clears %d status effect(s)", name, removed),
	}
}

func NewStatusExpiredEvent(turn int, player, name, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventStatusExpired,
		Details: fmt.Sprintf("%s wears off for %s", status, name),
	}
}

func NewUnitDecayEvent(turn int, owner, unitName string, oldPower, newPower int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventUnitDecay,
		Card:    unitName,
		Details: fmt.Sprintf("%s decays: power %d → %d", unitName, oldPower, newPower),
	}
}

func NewDeckExhaustedEvent(turn int, player, name string, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDeckExhausted,
		Details: fmt.Sprintf("%s has no cards left! HP: %d → %d (deck exhausted)", name, oldHP, newHP),
	}
}

func NewTwinStrikeEvent(turn int, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventTwinStrike,
		Card:    cardName,
		Details: fmt.Sprintf("%s strikes again with %s!", name, cardName),
	}
}

func NewWinEvent(turn int, winner, name, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", name, reason),
	}
}

func NewDrawEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventDraw,
		Details: fmt.Sprintf("The match ends in a draw (%s)", reason),
	}
}
