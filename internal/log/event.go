package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventPlay
	EventSummon
	EventAttack
	EventUnitDamage
	EventUnitDestroyed
	EventCounterAttack
	EventShieldAbsorb
	EventShieldChange
	EventHPChange
	EventEnergyChange
	EventStatusApplied
	EventStatusCleared
	EventStatusExpired
	EventUnitDecay
	EventDeckExhausted
	EventTwinStrike
	EventNewTurn
	EventWin
	EventDraw
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventPlay:
		return "Play"
	case EventSummon:
		return "Summon"
	case EventAttack:
		return "Attack"
	case EventUnitDamage:
		return "UnitDamage"
	case EventUnitDestroyed:
		return "UnitDestroyed"
	case EventCounterAttack:
		return "CounterAttack"
	case EventShieldAbsorb:
		return "ShieldAbsorb"
	case EventShieldChange:
		return "ShieldChange"
	case EventHPChange:
		return "HPChange"
	case EventEnergyChange:
		return "EnergyChange"
	case EventStatusApplied:
		return "StatusApplied"
	case EventStatusCleared:
		return "StatusCleared"
	case EventStatusExpired:
		return "StatusExpired"
	case EventUnitDecay:
		return "UnitDecay"
	case EventDeckExhausted:
		return "DeckExhausted"
	case EventTwinStrike:
		return "TwinStrike"
	case EventNewTurn:
		return "NewTurn"
	case EventWin:
		return "Win"
	case EventDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       `json:"seq"`     // monotonic sequence number, set by the logger
	Turn    int       `json:"turn"`    // which turn (1-based)
	Player  string    `json:"player"`  // player id the event is about
	Type    EventType `json:"type"`    // event type
	Card    string    `json:"card"`    // card or unit name (if applicable)
	Details string    `json:"details"` // human-readable narration line
}
