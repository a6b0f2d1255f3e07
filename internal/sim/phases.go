package sim

import "errors"

// Phase is the turn controller's state. Transitions only move forward:
// TurnStart -> ActionSelection -> TurnProcessing -> TurnEnd -> next TurnStart.
type Phase int

const (
	PhaseTurnStart Phase = iota
	PhaseActionSelection
	PhaseTurnProcessing
	PhaseTurnEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseTurnStart:
		return "turn_start"
	case PhaseActionSelection:
		return "action_selection"
	case PhaseTurnProcessing:
		return "turn_processing"
	case PhaseTurnEnd:
		return "turn_end"
	default:
		return "unknown"
	}
}

// Phase-ordering violations are caller bugs and are reported as errors,
// distinct from game-level failures which come back as ActionResult values.
var (
	ErrWrongPhase    = errors.New("operation not valid in current phase")
	ErrEventsPending = errors.New("events pending resolution")
	ErrUnknownEvent  = errors.New("unknown event")
	ErrSessionOver   = errors.New("session is over")
)
