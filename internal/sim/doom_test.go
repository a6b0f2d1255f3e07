package sim

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func TestCalculateDoomChangeFirstTurn(t *testing.T) {
	// Doom at 50, first turn contributions summing to +3.0:
	// velocity = 0*0.7 + 3*0.3 = 0.9
	// momentum = (0 + 3*0.15) * 0.92 = 0.414
	// total    = 3.414, new doom 53.414
	d := NewDoomEngine(50, DefaultTuning())

	change := d.CalculateDoomChange(DoomTurnContext{Baseline: 3.0})

	if !almostEqual(change.Raw, 3.0) {
		t.Errorf("raw = %f, want 3.0", change.Raw)
	}
	if !almostEqual(change.Velocity, 0.9) {
		t.Errorf("velocity = %f, want 0.9", change.Velocity)
	}
	if !almostEqual(change.Momentum, 0.414) {
		t.Errorf("momentum = %f, want 0.414", change.Momentum)
	}
	if !almostEqual(change.Total, 3.414) {
		t.Errorf("total = %f, want 3.414", change.Total)
	}
	if !almostEqual(change.NewDoom, 53.414) {
		t.Errorf("new doom = %f, want 53.414", change.NewDoom)
	}
	if change.Trend != TrendIncreasing {
		t.Errorf("trend = %s, want increasing", change.Trend)
	}
	if !almostEqual(change.Sources[SourceMomentum], 0.414) {
		t.Errorf("momentum source = %f, want 0.414", change.Sources[SourceMomentum])
	}
}

func TestDoomClampedToHundred(t *testing.T) {
	d := NewDoomEngine(95, DefaultTuning())
	change := d.CalculateDoomChange(DoomTurnContext{Baseline: 50})

	if change.NewDoom != 100 {
		t.Errorf("new doom = %f, want clamp at 100", change.NewDoom)
	}
	if d.Current() != 100 {
		t.Errorf("current = %f, want 100", d.Current())
	}
}

func TestDoomClampedToZero(t *testing.T) {
	d := NewDoomEngine(2, DefaultTuning())
	change := d.CalculateDoomChange(DoomTurnContext{SafetyNet: -30})

	if change.NewDoom != 0 {
		t.Errorf("new doom = %f, want clamp at 0", change.NewDoom)
	}
}

func TestMomentumStaysBounded(t *testing.T) {
	tuning := DefaultTuning()
	d := NewDoomEngine(0, tuning)

	for i := 0; i < 50; i++ {
		d.CalculateDoomChange(DoomTurnContext{Baseline: 100})
		if math.Abs(d.Momentum()) > tuning.MomentumCap {
			t.Fatalf("momentum %f exceeded cap %f at turn %d", d.Momentum(), tuning.MomentumCap, i+1)
		}
	}

	for i := 0; i < 50; i++ {
		d.CalculateDoomChange(DoomTurnContext{SafetyNet: -100})
		if math.Abs(d.Momentum()) > tuning.MomentumCap {
			t.Fatalf("negative momentum %f exceeded cap %f at turn %d", d.Momentum(), tuning.MomentumCap, i+1)
		}
	}
}

func TestMomentumDecaysWithoutInput(t *testing.T) {
	d := NewDoomEngine(50, DefaultTuning())
	d.CalculateDoomChange(DoomTurnContext{Baseline: 10})
	peak := d.Momentum()

	for i := 0; i < 10; i++ {
		d.CalculateDoomChange(DoomTurnContext{})
	}
	if d.Momentum() >= peak {
		t.Errorf("momentum %f did not decay from %f", d.Momentum(), peak)
	}
	if d.Momentum() < 0 {
		t.Errorf("momentum %f crossed zero from decay alone", d.Momentum())
	}
}

func TestTechnicalDebtFloor(t *testing.T) {
	tests := []struct {
		name string
		debt float64
		want float64
	}{
		{name: "Below Floor", debt: 15, want: 0},
		{name: "At Floor", debt: 20, want: 0},
		{name: "Above Floor", debt: 40, want: 1.0}, // (40-20)*0.05
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDoomEngine(50, DefaultTuning())
			change := d.CalculateDoomChange(DoomTurnContext{TechnicalDebt: tt.debt})
			if got := change.Sources[SourceTechnicalDebt]; !almostEqual(got, tt.want) {
				t.Errorf("debt source = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSourceModifiers(t *testing.T) {
	d := NewDoomEngine(50, DefaultTuning())
	d.SetModifier(SourceCapability, SourceModifier{Multiplier: 0.5, Flat: -1})

	change := d.CalculateDoomChange(DoomTurnContext{CapabilityNet: 4})

	// 4*0.5 - 1 = 1
	if !almostEqual(change.Sources[SourceCapability], 1) {
		t.Errorf("modified source = %f, want 1", change.Sources[SourceCapability])
	}
	if !almostEqual(change.Raw, 1) {
		t.Errorf("raw = %f, want 1", change.Raw)
	}

	d.ClearModifier(SourceCapability)
	change = d.CalculateDoomChange(DoomTurnContext{CapabilityNet: 4})
	if !almostEqual(change.Sources[SourceCapability], 4) {
		t.Errorf("source after clear = %f, want 4", change.Sources[SourceCapability])
	}
}

func TestEventContributionsFeedSources(t *testing.T) {
	d := NewDoomEngine(50, DefaultTuning())
	change := d.CalculateDoomChange(DoomTurnContext{
		EventContributions: map[string]float64{"risk_events": 2.5, "sabotage": 1.0},
	})
	if !almostEqual(change.Raw, 3.5) {
		t.Errorf("raw = %f, want 3.5", change.Raw)
	}
	if !almostEqual(change.Sources["sabotage"], 1.0) {
		t.Errorf("sabotage source = %f, want 1.0", change.Sources["sabotage"])
	}
}

func TestTrendLabels(t *testing.T) {
	tests := []struct {
		velocity float64
		want     TrendLabel
	}{
		{-5, TrendStronglyDecreasing},
		{-2.0, TrendDecreasing},
		{-1, TrendDecreasing},
		{-0.5, TrendStable},
		{0, TrendStable},
		{0.5, TrendIncreasing},
		{1.9, TrendIncreasing},
		{2.0, TrendStronglyIncreasing},
		{7, TrendStronglyIncreasing},
	}

	for _, tt := range tests {
		if got := trendFor(tt.velocity); got != tt.want {
			t.Errorf("trendFor(%f) = %s, want %s", tt.velocity, got, tt.want)
		}
	}
}

func TestDoomStatusBands(t *testing.T) {
	tests := []struct {
		doom float64
		want DoomStatus
	}{
		{0, DoomSafe},
		{24, DoomSafe},
		{25, DoomWarning},
		{50, DoomDanger},
		{70, DoomCritical},
		{90, DoomCatastrophic},
		{100, DoomCatastrophic},
	}

	for _, tt := range tests {
		d := NewDoomEngine(tt.doom, DefaultTuning())
		if got := d.Status(); got != tt.want {
			t.Errorf("Status() at %f = %s, want %s", tt.doom, got, tt.want)
		}
	}
}
