package sim

import "sort"

// Doom source names used in the per-turn breakdown.
const (
	SourceBaseline       = "baseline"
	SourceCapability     = "capability_research"
	SourceSafety         = "safety_research"
	SourceRivals         = "rival_labs"
	SourceUnmanagedStaff = "unmanaged_staff"
	SourceTechnicalDebt  = "technical_debt"
	SourceMomentum       = "momentum"
)

// TrendLabel is the qualitative read of doom velocity.
type TrendLabel string

const (
	TrendStronglyDecreasing TrendLabel = "strongly_decreasing"
	TrendDecreasing         TrendLabel = "decreasing"
	TrendStable             TrendLabel = "stable"
	TrendIncreasing         TrendLabel = "increasing"
	TrendStronglyIncreasing TrendLabel = "strongly_increasing"
)

// DoomStatus is the qualitative read of the doom level itself.
type DoomStatus string

const (
	DoomSafe         DoomStatus = "safe"
	DoomWarning      DoomStatus = "warning"
	DoomDanger       DoomStatus = "danger"
	DoomCritical     DoomStatus = "critical"
	DoomCatastrophic DoomStatus = "catastrophic"
)

// SourceModifier scales and shifts one named source's contribution before
// summation. Identity by default; content (upgrades, conferences) registers
// these.
type SourceModifier struct {
	Multiplier float64
	Flat       float64
}

// DoomTurnContext carries one turn's raw contributions into the engine.
// EventContributions is keyed by an ad hoc source name supplied by the event.
type DoomTurnContext struct {
	Baseline           float64
	CapabilityNet      float64
	SafetyNet          float64
	RivalContribution  float64
	UnmanagedPenalty   float64
	TechnicalDebt      float64
	EventContributions map[string]float64
}

// DoomChange is the structured breakdown of one turn's doom update.
type DoomChange struct {
	Total    float64
	Raw      float64
	Momentum float64
	Velocity float64
	Sources  map[string]float64
	NewDoom  float64
	Trend    TrendLabel
}

// DoomEngine holds the persistent scalar state: the doom level itself, an
// exponentially smoothed velocity, and a bounded decaying momentum that makes
// runs of same-signed changes compound. The per-turn source map is scratch,
// rebuilt on every call.
type DoomEngine struct {
	current  float64
	velocity float64
	momentum float64

	tuning    Tuning
	modifiers map[string]SourceModifier
}

func NewDoomEngine(start float64, tuning Tuning) *DoomEngine {
	return &DoomEngine{
		current:   clampFloat(start, 0, 100),
		tuning:    tuning,
		modifiers: make(map[string]SourceModifier),
	}
}

// SetModifier registers a modifier for a named source, replacing any prior.
func (d *DoomEngine) SetModifier(source string, m SourceModifier) {
	d.modifiers[source] = m
}

// ClearModifier removes a source's modifier.
func (d *DoomEngine) ClearModifier(source string) {
	delete(d.modifiers, source)
}

// CalculateDoomChange runs one turn of the layered model: populate sources,
// sum the raw delta, apply modifiers, smooth velocity, accumulate-clamp-decay
// momentum, then clamp the new doom level to [0, 100].
func (d *DoomEngine) CalculateDoomChange(ctx DoomTurnContext) DoomChange {
	sources := map[string]float64{
		SourceBaseline:       ctx.Baseline,
		SourceCapability:     ctx.CapabilityNet,
		SourceSafety:         ctx.SafetyNet,
		SourceRivals:         ctx.RivalContribution,
		SourceUnmanagedStaff: ctx.UnmanagedPenalty,
	}
	if ctx.TechnicalDebt > d.tuning.DebtFloor {
		sources[SourceTechnicalDebt] = (ctx.TechnicalDebt - d.tuning.DebtFloor) * d.tuning.DebtMultiplier
	}
	for name, amount := range ctx.EventContributions {
		sources[name] += amount
	}

	for name, m := range d.modifiers {
		if v, ok := sources[name]; ok {
			sources[name] = v*m.Multiplier + m.Flat
		}
	}

	// Summed in sorted key order: float addition is not associative, and map
	// order would let two identical runs drift at the last bit.
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var raw float64
	for _, name := range names {
		if name == SourceMomentum {
			continue
		}
		raw += sources[name]
	}

	alpha := d.tuning.VelocitySmoothing
	d.velocity = d.velocity*alpha + raw*(1-alpha)

	d.momentum += raw * d.tuning.MomentumRate
	d.momentum = clampFloat(d.momentum, -d.tuning.MomentumCap, d.tuning.MomentumCap)
	d.momentum *= d.tuning.MomentumDecay

	total := raw + d.momentum
	sources[SourceMomentum] = d.momentum

	d.current = clampFloat(d.current+total, 0, 100)

	return DoomChange{
		Total:    total,
		Raw:      raw,
		Momentum: d.momentum,
		Velocity: d.velocity,
		Sources:  sources,
		NewDoom:  d.current,
		Trend:    trendFor(d.velocity),
	}
}

// Current returns the doom level.
func (d *DoomEngine) Current() float64 { return d.current }

// Velocity returns the smoothed rate of change.
func (d *DoomEngine) Velocity() float64 { return d.velocity }

// Momentum returns the bounded accumulator.
func (d *DoomEngine) Momentum() float64 { return d.momentum }

// Status labels the doom level on the fixed 25/50/70/90 cutoffs.
func (d *DoomEngine) Status() DoomStatus {
	switch {
	case d.current >= 90:
		return DoomCatastrophic
	case d.current >= 70:
		return DoomCritical
	case d.current >= 50:
		return DoomDanger
	case d.current >= 25:
		return DoomWarning
	default:
		return DoomSafe
	}
}

func trendFor(velocity float64) TrendLabel {
	switch {
	case velocity < -2.0:
		return TrendStronglyDecreasing
	case velocity < -0.5:
		return TrendDecreasing
	case velocity < 0.5:
		return TrendStable
	case velocity < 2.0:
		return TrendIncreasing
	default:
		return TrendStronglyIncreasing
	}
}

// restore rebuilds engine state from a save record.
func (d *DoomEngine) restore(current, velocity, momentum float64) {
	d.current = clampFloat(current, 0, 100)
	d.velocity = velocity
	d.momentum = clampFloat(momentum, -d.tuning.MomentumCap, d.tuning.MomentumCap)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
