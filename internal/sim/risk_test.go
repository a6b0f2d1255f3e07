package sim

import (
	"strings"
	"testing"
)

func TestAddRiskClamping(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{name: "Simple Add", deltas: []float64{10, 15}, want: 25},
		{name: "Negative Floor", deltas: []float64{10, -40}, want: 0},
		{name: "Overflow Ceiling", deltas: []float64{100, 100, 100}, want: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewRiskEngine(0)
			for _, d := range tt.deltas {
				e.AddRisk(PoolInsiderThreat, d, "test", 1)
			}
			if got := e.Value(PoolInsiderThreat); got != tt.want {
				t.Errorf("Value() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAddRiskUnknownPoolIsNoOp(t *testing.T) {
	e := NewRiskEngine(0)
	e.AddRisk(Pool("volcano"), 50, "test", 1)

	if got := e.Total(); got != 0 {
		t.Fatalf("unknown pool mutated state, total = %f", got)
	}
}

func TestThresholdPathGuaranteedFire(t *testing.T) {
	// A pool at exactly 50 crosses tier 1 for the first time: the threshold
	// event must be present regardless of how the probabilistic roll lands.
	e := NewRiskEngine(0)
	e.AddRisk(PoolCapabilityOverhang, 50, "test", 1)

	events := e.ProcessTurn(NewStream("threshold-test"), 1)

	var threshold []RiskEvent
	for _, ev := range events {
		if ev.FromThreshold {
			threshold = append(threshold, ev)
		}
	}
	if len(threshold) != 1 {
		t.Fatalf("expected exactly one threshold event, got %d", len(threshold))
	}
	if threshold[0].Pool != PoolCapabilityOverhang || threshold[0].Tier != 1 {
		t.Errorf("threshold event = %+v, want tier 1 on capability_overhang", threshold[0])
	}
	if threshold[0].Severity != SeverityModerate {
		t.Errorf("severity = %s, want moderate", threshold[0].Severity)
	}
	if e.TriggeredTier(PoolCapabilityOverhang) != 1 {
		t.Errorf("triggered tier = %d, want 1", e.TriggeredTier(PoolCapabilityOverhang))
	}
}

func TestThresholdTierFiresOncePerCrossing(t *testing.T) {
	e := NewRiskEngine(0)
	e.AddRisk(PoolRegulatoryAttention, 55, "test", 1)
	rng := NewStream("tier-once")

	first := countThresholdEvents(e.ProcessTurn(rng, 1))
	if first != 1 {
		t.Fatalf("first crossing fired %d threshold events, want 1", first)
	}

	// Same tier next turn: no re-fire.
	if n := countThresholdEvents(e.ProcessTurn(rng, 2)); n != 0 {
		t.Fatalf("same tier re-fired %d threshold events", n)
	}

	// Dropping below the line and climbing back does not re-fire the tier.
	e.AddRisk(PoolRegulatoryAttention, -40, "test", 3)
	e.AddRisk(PoolRegulatoryAttention, 45, "test", 3)
	if n := countThresholdEvents(e.ProcessTurn(rng, 3)); n != 0 {
		t.Fatalf("re-crossing an already-triggered tier fired %d events", n)
	}

	// A higher tier is a new crossing.
	e.AddRisk(PoolRegulatoryAttention, 40, "test", 4)
	if n := countThresholdEvents(e.ProcessTurn(rng, 4)); n != 1 {
		t.Fatalf("crossing tier 2 fired %d threshold events, want 1", n)
	}
	if e.TriggeredTier(PoolRegulatoryAttention) != 2 {
		t.Fatalf("triggered tier = %d, want 2", e.TriggeredTier(PoolRegulatoryAttention))
	}
}

func countThresholdEvents(events []RiskEvent) int {
	n := 0
	for _, ev := range events {
		if ev.FromThreshold {
			n++
		}
	}
	return n
}

func TestProbabilisticPathAtOverflowAlwaysFires(t *testing.T) {
	// At 150 the firing probability is 1.5: every turn fires, and the tier,
	// already consumed, stays consumed.
	e := NewRiskEngine(0)
	e.AddRisk(PoolFinancialExposure, 150, "test", 1)
	rng := NewStream("overflow")

	first := e.ProcessTurn(rng, 1)
	if countThresholdEvents(first) != 1 {
		t.Fatalf("first turn at 150 should fire tier 3 once, got %d", countThresholdEvents(first))
	}

	for turn := 2; turn <= 10; turn++ {
		events := e.ProcessTurn(rng, turn)
		probabilistic := len(events) - countThresholdEvents(events)
		if probabilistic != 1 {
			t.Fatalf("turn %d: expected probabilistic fire at value 150, got %d", turn, probabilistic)
		}
		if countThresholdEvents(events) != 0 {
			t.Fatalf("turn %d: tier 3 re-fired", turn)
		}
		if events[0].Severity != SeverityCatastrophic {
			t.Fatalf("turn %d: severity = %s, want catastrophic", turn, events[0].Severity)
		}
	}
}

func TestPoolBelowFloorNeverFires(t *testing.T) {
	e := NewRiskEngine(0)
	e.AddRisk(PoolPublicAwareness, 4.9, "test", 1)
	rng := NewStream("floor")

	for turn := 1; turn <= 20; turn++ {
		if events := e.ProcessTurn(rng, turn); len(events) != 0 {
			t.Fatalf("pool below activity floor fired: %+v", events)
		}
	}
}

func TestRiskBands(t *testing.T) {
	tests := []struct {
		value float64
		want  RiskBand
	}{
		{0, BandLow},
		{24.9, BandLow},
		{25, BandModerate},
		{50, BandHigh},
		{75, BandCritical},
		{100, BandExtreme},
		{150, BandExtreme},
	}

	for _, tt := range tests {
		e := NewRiskEngine(0)
		e.AddRisk(PoolResearchIntegrity, tt.value, "test", 1)
		if got := e.Band(PoolResearchIntegrity); got != tt.want {
			t.Errorf("Band(%f) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestRiskQueries(t *testing.T) {
	e := NewRiskEngine(0)
	e.AddRisk(PoolCapabilityOverhang, 30, "test", 1)
	e.AddRisk(PoolInsiderThreat, 60, "test", 1)
	e.AddRisk(PoolPublicAwareness, 12, "test", 1)

	if pool, value := e.Highest(); pool != PoolInsiderThreat || value != 60 {
		t.Errorf("Highest() = %s/%f, want insider_threat/60", pool, value)
	}
	if got := e.Total(); got != 102 {
		t.Errorf("Total() = %f, want 102", got)
	}
	if got := e.Average(); got != 17 {
		t.Errorf("Average() = %f, want 17", got)
	}
	above := e.Above(25)
	if len(above) != 2 || above[0] != PoolCapabilityOverhang || above[1] != PoolInsiderThreat {
		t.Errorf("Above(25) = %v", above)
	}
}

func TestRiskTrend(t *testing.T) {
	e := NewRiskEngine(5)
	for turn := 1; turn <= 4; turn++ {
		e.AddRisk(PoolFinancialExposure, 2, "test", turn)
	}
	e.AddRisk(PoolFinancialExposure, -4, "test", 5)

	// Last 5 entries: +2 +2 +2 +2 -4 -> average 0.8.
	if got := e.Trend(PoolFinancialExposure, 5); got != 0.8 {
		t.Errorf("Trend() = %f, want 0.8", got)
	}
	if got := e.Trend(PoolFinancialExposure, 0); got != 0 {
		t.Errorf("Trend(n=0) = %f, want 0", got)
	}
	if got := e.Trend(PoolCapabilityOverhang, 5); got != 0 {
		t.Errorf("Trend on untouched pool = %f, want 0", got)
	}
}

func TestHistoryWindowBounded(t *testing.T) {
	e := NewRiskEngine(3)
	for turn := 1; turn <= 10; turn++ {
		e.AddRisk(PoolResearchIntegrity, 1, "test", turn)
	}
	h := e.History(PoolResearchIntegrity)
	if len(h) != 3 {
		t.Fatalf("history length = %d, want 3", len(h))
	}
	if h[0].Turn != 8 || h[2].Turn != 10 {
		t.Errorf("history window = turns %d..%d, want 8..10", h[0].Turn, h[2].Turn)
	}
}

func TestHintSpecificityIncreasesWithInsight(t *testing.T) {
	e := NewRiskEngine(0)
	e.AddRisk(PoolInsiderThreat, 62, "test", 1)

	tests := []struct {
		insight int
		want    string
	}{
		{0, ""},
		{1, "Something feels wrong"},
		{3, "insider threat"},
		{5, "high"},
		{7, "62.0"},
	}
	for _, tt := range tests {
		got := e.Hint(tt.insight)
		if tt.want == "" {
			if got != "" {
				t.Errorf("Hint(%d) = %q, want empty", tt.insight, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Hint(%d) = %q, want it to contain %q", tt.insight, got, tt.want)
		}
	}
}
