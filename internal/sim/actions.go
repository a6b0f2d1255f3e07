package sim

// ActionResult is the structured outcome of one executed (or rejected)
// action. Game-level failures — can't afford it, no such action — come back
// here with OK=false; they never halt the turn.
type ActionResult struct {
	ActionID string
	OK       bool
	Message  string
}

// ActionCatalog is the narrow interface to the external action content. The
// core knows affordability and execution, never the catalog's contents.
type ActionCatalog interface {
	// IsAffordable reports whether the ledger covers the action's costs.
	// Unknown ids are simply not affordable.
	IsAffordable(ledger *Ledger, id string) bool
	// List returns every action id in a fixed order.
	List() []string
	// Execute applies the action against the session through ctx. Failures
	// are reported in the result, not as errors.
	Execute(id string, ctx *ActionContext) ActionResult
}

// ActionContext is the minimal per-call surface the content layer gets into
// a session: the ledger, labeled RNG draws, and the effect interpreter. The
// engines themselves stay owned by the controller.
type ActionContext struct {
	s *Session
}

// Turn returns the current turn number.
func (ctx *ActionContext) Turn() int {
	return ctx.s.turn
}

// Ledger exposes the session's resource ledger.
func (ctx *ActionContext) Ledger() *Ledger {
	return ctx.s.ledger
}

// Roll draws from the session stream under the given audit label.
func (ctx *ActionContext) Roll(label string) float64 {
	return ctx.s.rng.Uniform(label)
}

// Hire moves a candidate from this turn's pool onto staff, paying nothing;
// salary bites every TurnStart. Reports false when the index is gone.
func (ctx *ActionContext) Hire(candidateIndex int) bool {
	s := ctx.s
	if candidateIndex < 0 || candidateIndex >= len(s.candidates) {
		return false
	}
	s.staff = append(s.staff, s.candidates[candidateIndex])
	s.candidates = append(s.candidates[:candidateIndex], s.candidates[candidateIndex+1:]...)
	return true
}

// Apply interprets one tagged effect against the session.
func (ctx *ActionContext) Apply(e Effect) {
	s := ctx.s
	switch e.Kind {
	case EffectResource:
		s.ledger.Gain(e.Resource, e.Amount)
	case EffectRisk:
		s.risk.AddRisk(e.Pool, e.Amount, e.Source, s.turn)
	case EffectDoomSource:
		s.addEventContribution(e.Source, e.Amount)
	case EffectInsight:
		s.insight += int(e.Amount)
		if s.insight < 0 {
			s.insight = 0
		}
	case EffectHire:
		ctx.Hire(int(e.Amount))
	}
}
