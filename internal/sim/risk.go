package sim

import (
	"fmt"
	"log/slog"
	"math"
)

// Pool names one of the six hidden risk accumulators.
type Pool string

const (
	PoolCapabilityOverhang  Pool = "capability_overhang"
	PoolResearchIntegrity   Pool = "research_integrity"
	PoolRegulatoryAttention Pool = "regulatory_attention"
	PoolPublicAwareness     Pool = "public_awareness"
	PoolInsiderThreat       Pool = "insider_threat"
	PoolFinancialExposure   Pool = "financial_exposure"
)

// AllPools lists every pool in a fixed order. Iteration anywhere in the
// engine follows this order so RNG consumption stays reproducible.
var AllPools = []Pool{
	PoolCapabilityOverhang,
	PoolResearchIntegrity,
	PoolRegulatoryAttention,
	PoolPublicAwareness,
	PoolInsiderThreat,
	PoolFinancialExposure,
}

// ParsePool maps a content-layer name to a Pool.
func ParsePool(name string) (Pool, bool) {
	for _, p := range AllPools {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

const (
	poolValueMax     = 150.0
	poolActiveFloor  = 5.0
	historyWindowDef = 20
)

// RiskBand is the coarse status label over a pool's value.
type RiskBand string

const (
	BandLow      RiskBand = "low"
	BandModerate RiskBand = "moderate"
	BandHigh     RiskBand = "high"
	BandCritical RiskBand = "critical"
	BandExtreme  RiskBand = "extreme"
)

// Severity grades a triggered risk event from its tier.
type Severity string

const (
	SeverityMinor        Severity = "minor"
	SeverityModerate     Severity = "moderate"
	SeveritySevere       Severity = "severe"
	SeverityCatastrophic Severity = "catastrophic"
)

// RiskHistoryEntry records one mutation of a pool.
type RiskHistoryEntry struct {
	Turn      int     `json:"turn"`
	Delta     float64 `json:"delta"`
	Source    string  `json:"source"`
	Resulting float64 `json:"resulting"`
}

// RiskEvent is one firing produced by ProcessTurn, tagged with which trigger
// path caused it.
type RiskEvent struct {
	Pool          Pool
	Turn          int
	Value         float64
	Tier          int
	Severity      Severity
	FromThreshold bool
}

// RiskEngine owns the six accumulators, their crossed-tier bookkeeping and a
// bounded mutation history per pool. It is created fresh per session; tiers
// never reset within one.
type RiskEngine struct {
	values  map[Pool]float64
	tiers   map[Pool]int
	history map[Pool][]RiskHistoryEntry
	window  int
}

func NewRiskEngine(historyWindow int) *RiskEngine {
	if historyWindow <= 0 {
		historyWindow = historyWindowDef
	}
	e := &RiskEngine{
		values:  make(map[Pool]float64, len(AllPools)),
		tiers:   make(map[Pool]int, len(AllPools)),
		history: make(map[Pool][]RiskHistoryEntry, len(AllPools)),
		window:  historyWindow,
	}
	for _, p := range AllPools {
		e.values[p] = 0
		e.tiers[p] = 0
	}
	return e
}

// AddRisk adds amount (possibly negative) to a pool, clamping to [0, 150] and
// appending a history entry. An unknown pool is a logged no-op, not a crash.
func (e *RiskEngine) AddRisk(pool Pool, amount float64, source string, turn int) {
	if _, ok := e.values[pool]; !ok {
		slog.Warn("risk added to unknown pool", "pool", string(pool), "source", source)
		return
	}
	v := e.values[pool] + amount
	if v < 0 {
		v = 0
	}
	if v > poolValueMax {
		v = poolValueMax
	}
	e.values[pool] = v
	entries := append(e.history[pool], RiskHistoryEntry{Turn: turn, Delta: amount, Source: source, Resulting: v})
	if len(entries) > e.window {
		entries = entries[len(entries)-e.window:]
	}
	e.history[pool] = entries
}

// AddRiskMulti applies a batch of contributions under a single source label.
// Iteration follows AllPools order so the history ordering is stable.
func (e *RiskEngine) AddRiskMulti(contributions map[Pool]float64, source string, turn int) {
	for _, p := range AllPools {
		if amount, ok := contributions[p]; ok {
			e.AddRisk(p, amount, source, turn)
		}
	}
	for p, amount := range contributions {
		if _, known := e.values[p]; !known {
			e.AddRisk(p, amount, source, turn) // logs the warning
		}
	}
}

func tierFor(value float64) int {
	switch {
	case value >= 100:
		return 3
	case value >= 75:
		return 2
	case value >= 50:
		return 1
	default:
		return 0
	}
}

func severityForTier(tier int) Severity {
	switch tier {
	case 3:
		return SeverityCatastrophic
	case 2:
		return SeveritySevere
	case 1:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// ProcessTurn evaluates both trigger paths for every pool at or above the
// activity floor and unions the results. The probabilistic path rolls
// value/100 each turn and can fire repeatedly; the threshold path fires
// exactly once per newly crossed tier, bypassing the roll. Both can fire for
// the same pool in the same turn; the two checks are independent.
func (e *RiskEngine) ProcessTurn(rng *Stream, turn int) []RiskEvent {
	var fired []RiskEvent
	for _, p := range AllPools {
		value := e.values[p]
		if value < poolActiveFloor {
			continue
		}

		tier := tierFor(value)

		roll := rng.Uniform(fmt.Sprintf("risk.%s.roll", p))
		if roll < value/100.0 {
			fired = append(fired, RiskEvent{
				Pool:     p,
				Turn:     turn,
				Value:    value,
				Tier:     tier,
				Severity: severityForTier(tier),
			})
		}

		if tier > e.tiers[p] {
			e.tiers[p] = tier
			fired = append(fired, RiskEvent{
				Pool:          p,
				Turn:          turn,
				Value:         value,
				Tier:          tier,
				Severity:      severityForTier(tier),
				FromThreshold: true,
			})
		}
	}
	return fired
}

// Value returns a pool's current level; unknown pools read as zero.
func (e *RiskEngine) Value(pool Pool) float64 {
	return e.values[pool]
}

// TriggeredTier returns the highest tier the pool has already fired.
func (e *RiskEngine) TriggeredTier(pool Pool) int {
	return e.tiers[pool]
}

// Band labels a pool's value on the fixed 25/50/75/100 cutoffs.
func (e *RiskEngine) Band(pool Pool) RiskBand {
	v := e.values[pool]
	switch {
	case v >= 100:
		return BandExtreme
	case v >= 75:
		return BandCritical
	case v >= 50:
		return BandHigh
	case v >= 25:
		return BandModerate
	default:
		return BandLow
	}
}

// Highest returns the pool with the largest value. Ties break on AllPools
// order so the answer is deterministic.
func (e *RiskEngine) Highest() (Pool, float64) {
	best := AllPools[0]
	bestValue := e.values[best]
	for _, p := range AllPools[1:] {
		if e.values[p] > bestValue {
			best = p
			bestValue = e.values[p]
		}
	}
	return best, bestValue
}

// Total sums every pool's value.
func (e *RiskEngine) Total() float64 {
	var total float64
	for _, p := range AllPools {
		total += e.values[p]
	}
	return total
}

// Average is Total over the pool count.
func (e *RiskEngine) Average() float64 {
	return e.Total() / float64(len(AllPools))
}

// Trend reports the average signed delta over the last n history entries of
// a pool; zero when there is no history.
func (e *RiskEngine) Trend(pool Pool, n int) float64 {
	entries := e.history[pool]
	if len(entries) == 0 || n <= 0 {
		return 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	var sum float64
	for _, entry := range entries[len(entries)-n:] {
		sum += entry.Delta
	}
	return sum / float64(n)
}

// Above lists pools at or over the given value, in fixed order.
func (e *RiskEngine) Above(threshold float64) []Pool {
	var out []Pool
	for _, p := range AllPools {
		if e.values[p] >= threshold {
			out = append(out, p)
		}
	}
	return out
}

// History returns the retained mutation window for a pool.
func (e *RiskEngine) History(pool Pool) []RiskHistoryEntry {
	return e.history[pool]
}

// Hint renders what the rest of the system is allowed to know about the risk
// situation at a given insight level. Specificity unlocks stepwise: nothing,
// a vague feeling, the worst area by name, its direction, its band, and from
// level 7 fully quantified numbers.
func (e *RiskEngine) Hint(insight int) string {
	pool, value := e.Highest()
	if value < poolActiveFloor {
		if insight <= 0 {
			return ""
		}
		return "Nothing in particular stands out."
	}
	switch {
	case insight <= 0:
		return ""
	case insight <= 2:
		return "Something feels wrong, but you can't pin it down."
	case insight <= 4:
		return fmt.Sprintf("Concern is building around %s.", poolLabel(pool))
	case insight <= 6:
		trend := e.Trend(pool, 5)
		direction := "holding steady"
		if trend > 0.01 {
			direction = "getting worse"
		} else if trend < -0.01 {
			direction = "easing off"
		}
		return fmt.Sprintf("%s risk is %s (%s).", poolLabel(pool), string(e.Band(pool)), direction)
	default:
		return fmt.Sprintf("%s risk at %.1f (%s), trend %+.2f/turn, total exposure %.1f.",
			poolLabel(pool), value, string(e.Band(pool)), e.Trend(pool, 5), e.Total())
	}
}

func poolLabel(p Pool) string {
	switch p {
	case PoolCapabilityOverhang:
		return "capability overhang"
	case PoolResearchIntegrity:
		return "research integrity"
	case PoolRegulatoryAttention:
		return "regulatory attention"
	case PoolPublicAwareness:
		return "public awareness"
	case PoolInsiderThreat:
		return "insider threat"
	case PoolFinancialExposure:
		return "financial exposure"
	default:
		return string(p)
	}
}

// restore rebuilds engine state from a save record.
func (e *RiskEngine) restore(values map[Pool]float64, tiers map[Pool]int, history map[Pool][]RiskHistoryEntry) {
	for _, p := range AllPools {
		if v, ok := values[p]; ok {
			e.values[p] = math.Min(math.Max(v, 0), poolValueMax)
		}
		if t, ok := tiers[p]; ok {
			e.tiers[p] = t
		}
		if h, ok := history[p]; ok && len(h) > 0 {
			if len(h) > e.window {
				h = h[len(h)-e.window:]
			}
			e.history[p] = h
		}
	}
}
