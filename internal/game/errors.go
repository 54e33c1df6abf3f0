package game

import "fmt"

// RejectKind classifies why a play was refused.
type RejectKind int

const (
	RejectNotYourTurn RejectKind = iota + 1
	RejectStunned
	RejectInsufficientEnergy
	RejectBasicActionLimit
	RejectCardAlreadyUsed
	RejectNotSummonable
	RejectMatchNotActive
)

func (k RejectKind) String() string {
	switch k {
	case RejectNotYourTurn:
		return "NotYourTurn"
	case RejectStunned:
		return "Stunned"
	case RejectInsufficientEnergy:
		return "InsufficientEnergy"
	case RejectBasicActionLimit:
		return "BasicActionLimitReached"
	case RejectCardAlreadyUsed:
		return "CardAlreadyUsed"
	case RejectNotSummonable:
		return "NotSummonable"
	case RejectMatchNotActive:
		return "MatchNotActive"
	default:
		return "Unknown"
	}
}

// PlayError is a rule rejection. The match state is untouched when one is returned.
type PlayError struct {
	Kind    RejectKind
	Message string
	Cost    int // required energy, for InsufficientEnergy
	Have    int // available energy, for InsufficientEnergy
}

func (e *PlayError) Error() string {
	return e.Message
}

// Is matches any PlayError of the same kind, so errors.Is(err, ErrStunned) works.
func (e *PlayError) Is(target error) bool {
	t, ok := target.(*PlayError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotYourTurn        = &PlayError{Kind: RejectNotYourTurn, Message: "not your turn"}
	ErrStunned            = &PlayError{Kind: RejectStunned, Message: "stunned"}
	ErrInsufficientEnergy = &PlayError{Kind: RejectInsufficientEnergy, Message: "insufficient energy"}
	ErrBasicActionLimit   = &PlayError{Kind: RejectBasicActionLimit, Message: "basic action already used this turn"}
	ErrCardAlreadyUsed    = &PlayError{Kind: RejectCardAlreadyUsed, Message: "card already used"}
	ErrNotSummonable      = &PlayError{Kind: RejectNotSummonable, Message: "card cannot be summoned"}
	ErrMatchNotActive     = &PlayError{Kind: RejectMatchNotActive, Message: "match is not in progress"}
)

func reject(kind RejectKind, format string, args ...any) *PlayError {
	return &PlayError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
