package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// SessionConfig is everything needed to construct a reproducible session.
type SessionConfig struct {
	Seed         string
	StartDoom    float64
	InsightLevel int
	Events       []EventDef
	Actions      ActionCatalog
	Tuning       Tuning
	Audit        AuditSink
}

func (c SessionConfig) Validate() error {
	if c.Actions == nil {
		return fmt.Errorf("action catalog is required")
	}
	if c.StartDoom < 0 || c.StartDoom > 100 {
		return fmt.Errorf("start doom must be in [0, 100], got %f", c.StartDoom)
	}
	if err := c.Tuning.Validate(); err != nil {
		return err
	}
	return nil
}

// OutcomeStatus is where the session stands.
type OutcomeStatus string

const (
	OutcomeOngoing OutcomeStatus = "ongoing"
	OutcomeWon     OutcomeStatus = "won"
	OutcomeLost    OutcomeStatus = "lost"
)

// Outcome is the session's terminal (or ongoing) verdict.
type Outcome struct {
	Status OutcomeStatus
	Reason string
	Turn   int
}

// TurnReport is the structured result of one committed turn.
type TurnReport struct {
	Turn       int
	Actions    []ActionResult
	RiskEvents []RiskEvent
	Doom       DoomChange
	Papers     int
	Outcome    Outcome
}

// turnAccum is the per-turn scratch for doom contributions gathered between
// TurnStart and TurnProcessing. Reset at every TurnStart.
type turnAccum struct {
	baseline      float64
	capabilityNet float64
	safetyNet     float64
	unmanaged     float64
	rival         float64
	events        map[string]float64
}

// Session owns one run end to end: the single RNG stream, the ledger, the
// risk and doom engines, staff, rivals, and the phase machine. Nothing
// outside the session mutates any of them.
type Session struct {
	ID     uuid.UUID
	config SessionConfig
	tuning Tuning

	rng    *Stream
	ledger *Ledger
	risk   *RiskEngine
	doom   *DoomEngine
	events *EventEvaluator

	staff      []StaffMember
	candidates []StaffMember
	rivals     []RivalLab

	turn    int
	phase   Phase
	pending []PendingEvent
	queued  []string
	insight int

	researchAccrued float64
	papersPublished int
	technicalDebt   float64

	accum   turnAccum
	outcome Outcome
}

// Per-turn baseline organizational risk: running a frontier lab is never free.
const baselineOrgRisk = 0.2

// NewSession builds a fresh session. An empty seed gets a generated one, so
// reproducibility is opt-in by pinning the seed.
func NewSession(config SessionConfig) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Seed == "" {
		config.Seed = uuid.NewString()
	}

	rng := NewStream(config.Seed)
	rng.SetAudit(config.Audit)

	s := &Session{
		ID:      uuid.New(),
		config:  config,
		tuning:  config.Tuning,
		rng:     rng,
		ledger:  NewLedger(),
		risk:    NewRiskEngine(config.Tuning.RiskHistoryWindow),
		doom:    NewDoomEngine(config.StartDoom, config.Tuning),
		events:  NewEventEvaluator(config.Events),
		rivals:  defaultRivals(),
		insight: config.InsightLevel,
		phase:   PhaseTurnEnd,
		outcome: Outcome{Status: OutcomeOngoing},
	}
	s.ledger.Set(ResourceMoney, 100)
	s.ledger.Set(ResourceCompute, 50)
	s.ledger.Set(ResourceResearch, 0)
	s.ledger.Set(ResourceReputation, 50)
	s.ledger.Set(ResourceTrust, 50)
	return s, nil
}

// StartTurn enters TurnStart for the next turn: bookkeeping first, then the
// event sweep. The RNG draw order within is fixed: candidate rolls
// (specialization, trait, salary per candidate), then per staff member the
// yield roll and the leak-check roll, then event trigger rolls. Returns the
// events now pending; the session stays in TurnStart until all are resolved.
func (s *Session) StartTurn() ([]PendingEvent, error) {
	if s.outcome.Status != OutcomeOngoing {
		return nil, ErrSessionOver
	}
	if s.phase != PhaseTurnEnd {
		return nil, fmt.Errorf("%w: start turn from %s", ErrWrongPhase, s.phase)
	}

	s.turn++
	s.rng.SetTurn(s.turn)
	s.phase = PhaseTurnStart
	s.accum = turnAccum{events: make(map[string]float64)}
	s.queued = nil

	s.candidates = generateCandidates(s.rng, s.turn)
	s.runStaffBookkeeping()

	budget := s.tuning.BaseActionPoints
	if s.tuning.StaffPerPoint > 0 {
		budget += len(s.staff) / s.tuning.StaffPerPoint
	}
	s.ledger.Set(ResourceActionPoints, float64(budget))

	s.accum.baseline = baselineOrgRisk
	s.accum.unmanaged = s.unmanagedStaffPenalty()

	s.pending = s.events.Evaluate(s.turn, s.ledger, s.rng)
	if len(s.pending) == 0 {
		s.phase = PhaseActionSelection
	}
	return s.pending, nil
}

// runStaffBookkeeping charges salaries and upkeep and accrues each member's
// research output, capability pressure and leak risk. Iteration is staff
// slice order, which save/load preserves.
func (s *Session) runStaffBookkeeping() {
	var salaries float64
	for i := range s.staff {
		m := &s.staff[i]
		salaries += m.Salary

		yield := s.rng.Uniform(fmt.Sprintf("staff.%d.yield", i)) * m.yieldMultiplier() * m.Productivity
		switch m.Role {
		case RoleSafetyResearcher:
			s.researchAccrued += yield * 4.0
			s.ledger.Gain(ResourceResearch, yield*4.0)
			s.accum.safetyNet -= yield * 0.5
		case RoleCapabilityResearcher:
			s.researchAccrued += yield * 6.0
			s.ledger.Gain(ResourceResearch, yield*6.0)
			s.accum.capabilityNet += yield * 0.6
			s.technicalDebt += yield * 1.5
			s.risk.AddRisk(PoolCapabilityOverhang, yield*1.2, "capability_research", s.turn)
		case RoleEngineer:
			s.technicalDebt -= yield * 2.0
			if s.technicalDebt < 0 {
				s.technicalDebt = 0
			}
		case RoleManager:
			// Capacity effect is headcount-based, handled below.
		}

		if s.rng.Chance(fmt.Sprintf("staff.%d.leak", i), m.leakChance()) {
			s.risk.AddRisk(PoolInsiderThreat, 4.0, fmt.Sprintf("leak:%s", m.Name), s.turn)
		}
	}

	if salaries > 0 {
		s.ledger.Gain(ResourceMoney, -salaries)
	}
	if n := len(s.staff); n > 0 {
		s.ledger.Gain(ResourceCompute, -0.5*float64(n))
	}
}

func (s *Session) unmanagedStaffPenalty() float64 {
	managers := 0
	for _, m := range s.staff {
		if m.Role == RoleManager {
			managers++
		}
	}
	managed := managers * s.tuning.ManagerCapacity
	excess := len(s.staff) - managers - managed
	if excess <= 0 {
		return 0
	}
	return float64(excess) * s.tuning.UnmanagedPenalty
}

// ResolveEvent applies one resolution option of a pending event. Only legal
// in TurnStart; resolving from any other phase is a caller ordering bug and
// is rejected without touching state. Unaffordable options fail as a game
// result and leave the event pending.
func (s *Session) ResolveEvent(id string, option int) (ActionResult, error) {
	if s.phase != PhaseTurnStart {
		return ActionResult{}, fmt.Errorf("%w: resolve event in %s", ErrWrongPhase, s.phase)
	}
	idx := -1
	for i, p := range s.pending {
		if p.Def.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ActionResult{}, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	def := s.pending[idx].Def
	if option < 0 || option >= len(def.Options) {
		return ActionResult{}, fmt.Errorf("event %s has no option %d", id, option)
	}

	opt := def.Options[option]
	if !s.ledger.Spend(opt.Costs) {
		return ActionResult{ActionID: id, OK: false, Message: "cannot afford that option"}, nil
	}

	ctx := &ActionContext{s: s}
	for _, effect := range opt.Effects {
		ctx.Apply(effect)
	}
	if s.config.Audit != nil {
		s.config.Audit.RecordEvent(s.turn, id, fmt.Sprintf("resolved option %d", option))
	}

	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
	if len(s.pending) == 0 {
		s.phase = PhaseActionSelection
	}
	return ActionResult{ActionID: id, OK: true, Message: opt.Message}, nil
}

// abandonEvent drops a pending event without applying any option. It exists
// for the baseline's passive policy when no option is affordable; it consumes
// no draws, so player and baseline streams stay aligned.
func (s *Session) abandonEvent(id string) error {
	if s.phase != PhaseTurnStart {
		return fmt.Errorf("%w: abandon event in %s", ErrWrongPhase, s.phase)
	}
	for i, p := range s.pending {
		if p.Def.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			if len(s.pending) == 0 {
				s.phase = PhaseActionSelection
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownEvent, id)
}

// AffordableActions lists catalog actions the ledger currently covers.
func (s *Session) AffordableActions() []string {
	var out []string
	for _, id := range s.config.Actions.List() {
		if s.config.Actions.IsAffordable(s.ledger, id) {
			out = append(out, id)
		}
	}
	return out
}

// QueueAction spends one action point to queue an action for this turn.
// Queue order is execution order. Unknown ids queue fine and fail at
// execution, by design — failures are independent and non-blocking.
func (s *Session) QueueAction(id string) (ActionResult, error) {
	if s.phase != PhaseActionSelection {
		return ActionResult{}, fmt.Errorf("%w: queue action in %s", ErrWrongPhase, s.phase)
	}
	if !s.ledger.Spend(map[Resource]float64{ResourceActionPoints: 1}) {
		return ActionResult{ActionID: id, OK: false, Message: "no action points left"}, nil
	}
	s.queued = append(s.queued, id)
	return ActionResult{ActionID: id, OK: true, Message: "queued"}, nil
}

// CommitTurn is the explicit transition out of ActionSelection: queued
// actions execute in submission order, passive effects apply, rivals move,
// the risk and doom engines run, and the win/loss check closes the turn.
func (s *Session) CommitTurn() (TurnReport, error) {
	if s.phase == PhaseTurnStart && len(s.pending) > 0 {
		return TurnReport{}, ErrEventsPending
	}
	if s.phase != PhaseActionSelection {
		return TurnReport{}, fmt.Errorf("%w: commit from %s", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseTurnProcessing

	report := TurnReport{Turn: s.turn}
	ctx := &ActionContext{s: s}
	for _, id := range s.queued {
		report.Actions = append(report.Actions, s.config.Actions.Execute(id, ctx))
	}
	s.queued = nil

	s.publishPapers()

	rival := processRivals(s.rivals, s.rng)
	s.accum.rival = rival.doomContribution
	if len(rival.riskContribs) > 0 {
		s.risk.AddRiskMulti(rival.riskContribs, "rival_incident", s.turn)
	}

	report.RiskEvents = s.risk.ProcessTurn(s.rng, s.turn)
	for _, ev := range report.RiskEvents {
		s.accum.events["risk_events"] += doomWeight(ev.Severity)
		if s.config.Audit != nil {
			s.config.Audit.RecordEvent(s.turn, string(ev.Pool), fmt.Sprintf("risk fired tier=%d threshold=%t", ev.Tier, ev.FromThreshold))
		}
	}

	report.Doom = s.doom.CalculateDoomChange(DoomTurnContext{
		Baseline:           s.accum.baseline,
		CapabilityNet:      s.accum.capabilityNet,
		SafetyNet:          s.accum.safetyNet,
		RivalContribution:  s.accum.rival,
		UnmanagedPenalty:   s.accum.unmanaged,
		TechnicalDebt:      s.technicalDebt,
		EventContributions: s.accum.events,
	})

	s.evaluateOutcome()
	report.Papers = s.papersPublished
	report.Outcome = s.outcome
	s.phase = PhaseTurnEnd
	return report, nil
}

// publishPapers fires the passive publication threshold: every full research
// step accrued publishes one paper, buying reputation and drawing eyes.
func (s *Session) publishPapers() {
	for s.researchAccrued >= s.tuning.PaperResearchStep*float64(s.papersPublished+1) {
		s.papersPublished++
		s.ledger.Gain(ResourceReputation, 2)
		s.risk.AddRisk(PoolPublicAwareness, 3, "publication", s.turn)
	}
}

func doomWeight(sev Severity) float64 {
	switch sev {
	case SeverityCatastrophic:
		return 4.0
	case SeveritySevere:
		return 2.0
	case SeverityModerate:
		return 1.0
	default:
		return 0.5
	}
}

func (s *Session) evaluateOutcome() {
	switch {
	case s.doom.Current() >= 100:
		s.outcome = Outcome{Status: OutcomeLost, Reason: "doom reached 100", Turn: s.turn}
	case s.ledger.Get(ResourceReputation) <= 0:
		s.outcome = Outcome{Status: OutcomeLost, Reason: "reputation exhausted", Turn: s.turn}
	case s.doom.Current() <= 0:
		s.outcome = Outcome{Status: OutcomeWon, Reason: "doom eliminated", Turn: s.turn}
	}
}

func (s *Session) addEventContribution(source string, amount float64) {
	if s.accum.events == nil {
		s.accum.events = make(map[string]float64)
	}
	s.accum.events[source] += amount
}

// Accessors. External code reads through these; all mutation goes through
// the phase operations above.

func (s *Session) Turn() int                 { return s.turn }
func (s *Session) Phase() Phase              { return s.phase }
func (s *Session) Pending() []PendingEvent   { return s.pending }
func (s *Session) Outcome() Outcome          { return s.outcome }
func (s *Session) Ledger() *Ledger           { return s.ledger }
func (s *Session) Doom() *DoomEngine         { return s.doom }
func (s *Session) Risk() *RiskEngine         { return s.risk }
func (s *Session) Staff() []StaffMember      { return s.staff }
func (s *Session) Candidates() []StaffMember { return s.candidates }
func (s *Session) Rivals() []RivalLab        { return s.rivals }
func (s *Session) Papers() int               { return s.papersPublished }
func (s *Session) TechnicalDebt() float64    { return s.technicalDebt }
func (s *Session) InsightLevel() int         { return s.insight }
func (s *Session) Seed() string              { return s.config.Seed }

// Hint surfaces the insight-gated risk narration for the current state.
func (s *Session) Hint() string {
	return s.risk.Hint(s.insight)
}
