package sim

import "fmt"

const SaveVersion = 1

// SaveRecord is the persisted form of a session, captured at a turn
// boundary. It carries everything determinism needs to continue: the seed
// plus the RNG draw position, so draws after a load continue the original
// sequence rather than restarting it.
type SaveRecord struct {
	Version     int    `json:"version"`
	Seed        string `json:"seed"`
	RNGPosition uint64 `json:"rng_position"`
	Turn        int    `json:"turn"`

	Doom     float64 `json:"doom"`
	Velocity float64 `json:"velocity"`
	Momentum float64 `json:"momentum"`
	Insight  int     `json:"insight"`

	PoolValues  map[Pool]float64            `json:"pool_values"`
	PoolTiers   map[Pool]int                `json:"pool_tiers"`
	PoolHistory map[Pool][]RiskHistoryEntry `json:"pool_history,omitempty"`

	Balances    map[Resource]float64 `json:"balances"`
	FiredEvents []string             `json:"fired_events,omitempty"`

	Staff  []StaffMember `json:"staff,omitempty"`
	Rivals []RivalLab    `json:"rivals"`

	ResearchAccrued float64 `json:"research_accrued"`
	Papers          int     `json:"papers"`
	TechnicalDebt   float64 `json:"technical_debt"`

	Outcome Outcome `json:"outcome"`
}

// Save captures the session. Only legal at a turn boundary (TurnEnd): saving
// mid-phase would need the scratch accumulators and the pending set, which
// are deliberately not part of the persisted contract.
func (s *Session) Save() (SaveRecord, error) {
	if s.phase != PhaseTurnEnd {
		return SaveRecord{}, fmt.Errorf("%w: save in %s", ErrWrongPhase, s.phase)
	}

	rec := SaveRecord{
		Version:         SaveVersion,
		Seed:            s.config.Seed,
		RNGPosition:     s.rng.Position(),
		Turn:            s.turn,
		Doom:            s.doom.Current(),
		Velocity:        s.doom.Velocity(),
		Momentum:        s.doom.Momentum(),
		Insight:         s.insight,
		PoolValues:      make(map[Pool]float64, len(AllPools)),
		PoolTiers:       make(map[Pool]int, len(AllPools)),
		PoolHistory:     make(map[Pool][]RiskHistoryEntry, len(AllPools)),
		Balances:        s.ledger.Balances(),
		FiredEvents:     s.events.FiredIDs(),
		Staff:           append([]StaffMember(nil), s.staff...),
		Rivals:          append([]RivalLab(nil), s.rivals...),
		ResearchAccrued: s.researchAccrued,
		Papers:          s.papersPublished,
		TechnicalDebt:   s.technicalDebt,
		Outcome:         s.outcome,
	}
	for _, p := range AllPools {
		rec.PoolValues[p] = s.risk.Value(p)
		rec.PoolTiers[p] = s.risk.TriggeredTier(p)
		if h := s.risk.History(p); len(h) > 0 {
			rec.PoolHistory[p] = append([]RiskHistoryEntry(nil), h...)
		}
	}
	return rec, nil
}

// RestoreSession rebuilds a session from a record. The config supplies the
// parts a save never carries — catalog, event definitions, tuning, audit
// sink — while seed, RNG position and all mutable state come from the record.
func RestoreSession(rec SaveRecord, config SessionConfig) (*Session, error) {
	if rec.Version != SaveVersion {
		return nil, fmt.Errorf("unsupported save version %d", rec.Version)
	}
	config.Seed = rec.Seed
	config.StartDoom = rec.Doom

	s, err := NewSession(config)
	if err != nil {
		return nil, err
	}

	s.rng = RestoreStream(rec.Seed, rec.RNGPosition)
	s.rng.SetAudit(config.Audit)
	s.rng.SetTurn(rec.Turn)

	s.turn = rec.Turn
	s.insight = rec.Insight
	s.doom.restore(rec.Doom, rec.Velocity, rec.Momentum)
	s.risk.restore(rec.PoolValues, rec.PoolTiers, rec.PoolHistory)
	s.events.restore(rec.FiredEvents)

	for r, v := range rec.Balances {
		s.ledger.Set(r, v)
	}
	s.staff = append([]StaffMember(nil), rec.Staff...)
	if len(rec.Rivals) > 0 {
		s.rivals = append([]RivalLab(nil), rec.Rivals...)
	}
	s.researchAccrued = rec.ResearchAccrued
	s.papersPublished = rec.Papers
	s.technicalDebt = rec.TechnicalDebt
	s.outcome = rec.Outcome
	if s.outcome.Status == "" {
		s.outcome = Outcome{Status: OutcomeOngoing}
	}
	return s, nil
}
