package sim

import "fmt"

// TriggerKind is the closed set of event trigger mechanisms.
type TriggerKind int

const (
	TriggerTurnExact TriggerKind = iota
	TriggerTurnAndResource
	TriggerThreshold
	TriggerRandom
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerTurnExact:
		return "turn_exact"
	case TriggerTurnAndResource:
		return "turn_and_resource"
	case TriggerThreshold:
		return "threshold"
	case TriggerRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseTriggerKind maps a content-layer name to a TriggerKind.
func ParseTriggerKind(name string) (TriggerKind, bool) {
	switch name {
	case "turn_exact":
		return TriggerTurnExact, true
	case "turn_and_resource":
		return TriggerTurnAndResource, true
	case "threshold":
		return TriggerThreshold, true
	case "random":
		return TriggerRandom, true
	default:
		return 0, false
	}
}

// EffectKind is the closed set of things a resolution can do to a session.
type EffectKind int

const (
	EffectResource EffectKind = iota
	EffectRisk
	EffectDoomSource
	EffectInsight
	EffectHire
)

// Effect is a tagged variant; only the fields its kind needs are meaningful.
type Effect struct {
	Kind     EffectKind
	Resource Resource
	Pool     Pool
	Source   string
	Amount   float64
}

// ResolutionOption is one player-selectable way to close an event.
type ResolutionOption struct {
	Label   string
	Costs   map[Resource]float64
	Effects []Effect
	Message string
}

// EventDef is an event's trigger configuration plus its resolution options.
// Content supplies these; the core only evaluates and sequences them.
type EventDef struct {
	ID          string
	Title       string
	Kind        TriggerKind
	Turn        int     // turn_exact, turn_and_resource
	MinTurn     int     // random
	Condition   string  // turn_and_resource, threshold
	Probability float64 // random
	Repeatable  bool
	Options     []ResolutionOption
}

// PendingEvent is a fired event awaiting its single resolution choice.
type PendingEvent struct {
	Def  EventDef
	Turn int
}

// EventEvaluator checks every configured event once per turn during
// TurnStart. Non-repeatable events are excluded permanently once fired; the
// fired set lives here, on the session, and dies with it.
type EventEvaluator struct {
	defs  []EventDef
	fired map[string]bool
}

func NewEventEvaluator(defs []EventDef) *EventEvaluator {
	return &EventEvaluator{
		defs:  defs,
		fired: make(map[string]bool),
	}
}

// Evaluate returns the ordered list of newly triggered events for the turn.
// Definition order is evaluation order, so the RNG draws of random triggers
// are consumed in a fixed sequence.
func (ev *EventEvaluator) Evaluate(turn int, ledger *Ledger, rng *Stream) []PendingEvent {
	var triggered []PendingEvent
	for _, def := range ev.defs {
		if !def.Repeatable && ev.fired[def.ID] {
			continue
		}

		hit := false
		switch def.Kind {
		case TriggerTurnExact:
			hit = turn == def.Turn
		case TriggerTurnAndResource:
			hit = turn == def.Turn && EvalCondition(def.Condition, ledger)
		case TriggerThreshold:
			hit = EvalCondition(def.Condition, ledger)
		case TriggerRandom:
			if turn >= def.MinTurn {
				hit = rng.Chance(fmt.Sprintf("event.%s.roll", def.ID), def.Probability)
			}
		}

		if hit {
			ev.fired[def.ID] = true
			triggered = append(triggered, PendingEvent{Def: def, Turn: turn})
		}
	}
	return triggered
}

// FiredIDs lists event ids that have fired this session, in definition order,
// for persistence.
func (ev *EventEvaluator) FiredIDs() []string {
	var ids []string
	for _, def := range ev.defs {
		if ev.fired[def.ID] {
			ids = append(ids, def.ID)
		}
	}
	return ids
}

// restore marks the given ids as already fired.
func (ev *EventEvaluator) restore(firedIDs []string) {
	for _, id := range firedIDs {
		ev.fired[id] = true
	}
}
