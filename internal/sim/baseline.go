package sim

import "fmt"

// BaselineMode selects when the baseline run is computed. All three modes
// produce identical results for the same seed; the choice is latency only.
type BaselineMode int

const (
	// BaselinePrecomputed takes a result supplied verbatim, no computation.
	BaselinePrecomputed BaselineMode = iota
	// BaselineEager computes in the background from construction onward.
	BaselineEager
	// BaselineSync computes synchronously on first request.
	BaselineSync
)

// BaselineResult is the no-action run's score and trajectory for a seed.
type BaselineResult struct {
	Seed           string    `json:"seed"`
	Turns          int       `json:"turns"`
	Score          Score     `json:"score"`
	Outcome        Outcome   `json:"outcome"`
	DoomTrajectory []float64 `json:"doom_trajectory"`
}

// Baseline hands out the comparison run for a session's seed. Eager mode
// runs a second, fully independent session (own stream, own ledger, own
// engines) on a goroutine and delivers the result over a channel; nothing is
// shared with the foreground session, so there is nothing to race on.
type Baseline struct {
	mode   BaselineMode
	config SessionConfig

	result *BaselineResult
	ch     chan baselineOutcome
}

type baselineOutcome struct {
	result BaselineResult
	err    error
}

// NewBaseline prepares a baseline in the given mode. Precomputed mode
// requires the supplied result; the other modes ignore it.
func NewBaseline(config SessionConfig, mode BaselineMode, precomputed *BaselineResult) (*Baseline, error) {
	b := &Baseline{mode: mode, config: config}
	switch mode {
	case BaselinePrecomputed:
		if precomputed == nil {
			return nil, fmt.Errorf("precomputed baseline mode requires a result")
		}
		b.result = precomputed
	case BaselineEager:
		b.ch = make(chan baselineOutcome, 1)
		go func() {
			result, err := RunBaseline(config)
			b.ch <- baselineOutcome{result: result, err: err}
		}()
	case BaselineSync:
	default:
		return nil, fmt.Errorf("unknown baseline mode: %d", mode)
	}
	return b, nil
}

// Result returns the baseline run. Eager mode blocks until the background
// session finishes; sync mode computes on the first call and caches.
func (b *Baseline) Result() (BaselineResult, error) {
	if b.result != nil {
		return *b.result, nil
	}
	switch b.mode {
	case BaselineEager:
		out := <-b.ch
		if out.err != nil {
			return BaselineResult{}, out.err
		}
		b.result = &out.result
		return out.result, nil
	case BaselineSync:
		result, err := RunBaseline(b.config)
		if err != nil {
			return BaselineResult{}, err
		}
		b.result = &result
		return result, nil
	default:
		return BaselineResult{}, fmt.Errorf("baseline result unavailable")
	}
}

// RunBaseline drives a fresh session with the passive policy: an empty
// action queue every turn and, for each pending event, the first resolution
// option whose costs are affordable (abandoning the event when none is).
// Event resolution consumes no draws, so this run reads the RNG stream in
// exactly the order a player session would at the same turns.
func RunBaseline(config SessionConfig) (BaselineResult, error) {
	s, err := NewSession(config)
	if err != nil {
		return BaselineResult{}, err
	}

	maxTurns := config.Tuning.BaselineMaxTurns
	trajectory := make([]float64, 0, maxTurns)

	for turn := 0; turn < maxTurns && s.Outcome().Status == OutcomeOngoing; turn++ {
		if _, err := s.StartTurn(); err != nil {
			return BaselineResult{}, err
		}
		if err := resolvePassively(s); err != nil {
			return BaselineResult{}, err
		}
		if _, err := s.CommitTurn(); err != nil {
			return BaselineResult{}, err
		}
		trajectory = append(trajectory, s.Doom().Current())
	}

	return BaselineResult{
		Seed:           s.Seed(),
		Turns:          s.Turn(),
		Score:          ComputeScore(s),
		Outcome:        s.Outcome(),
		DoomTrajectory: trajectory,
	}, nil
}

// resolvePassively clears the pending set one event at a time, always taking
// the first affordable option.
func resolvePassively(s *Session) error {
	for len(s.Pending()) > 0 {
		p := s.Pending()[0]
		resolved := false
		for i := range p.Def.Options {
			result, err := s.ResolveEvent(p.Def.ID, i)
			if err != nil {
				return err
			}
			if result.OK {
				resolved = true
				break
			}
		}
		if !resolved {
			if err := s.abandonEvent(p.Def.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
