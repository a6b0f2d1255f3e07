package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning collects the numeric knobs of the core. Defaults match the shipped
// balance; a yaml file can override any of them for playtesting.
type Tuning struct {
	VelocitySmoothing float64 `yaml:"velocity_smoothing"`
	MomentumRate      float64 `yaml:"momentum_rate"`
	MomentumCap       float64 `yaml:"momentum_cap"`
	MomentumDecay     float64 `yaml:"momentum_decay"`

	DebtFloor      float64 `yaml:"debt_floor"`
	DebtMultiplier float64 `yaml:"debt_multiplier"`

	RiskHistoryWindow int `yaml:"risk_history_window"`

	BaseActionPoints  int     `yaml:"base_action_points"`
	StaffPerPoint     int     `yaml:"staff_per_point"`
	ManagerCapacity   int     `yaml:"manager_capacity"`
	UnmanagedPenalty  float64 `yaml:"unmanaged_penalty"`
	PaperResearchStep float64 `yaml:"paper_research_step"`

	BaselineMaxTurns int `yaml:"baseline_max_turns"`
}

func DefaultTuning() Tuning {
	return Tuning{
		VelocitySmoothing: 0.7,
		MomentumRate:      0.15,
		MomentumCap:       8.0,
		MomentumDecay:     0.92,
		DebtFloor:         20.0,
		DebtMultiplier:    0.05,
		RiskHistoryWindow: 20,
		BaseActionPoints:  3,
		StaffPerPoint:     4,
		ManagerCapacity:   5,
		UnmanagedPenalty:  0.4,
		PaperResearchStep: 50.0,
		BaselineMaxTurns:  120,
	}
}

func (t Tuning) Validate() error {
	if t.VelocitySmoothing < 0 || t.VelocitySmoothing >= 1 {
		return fmt.Errorf("velocity_smoothing must be in [0, 1): %f", t.VelocitySmoothing)
	}
	if t.MomentumDecay <= 0 || t.MomentumDecay >= 1 {
		return fmt.Errorf("momentum_decay must be in (0, 1) to keep the recurrence contractive: %f", t.MomentumDecay)
	}
	if t.MomentumCap <= 0 {
		return fmt.Errorf("momentum_cap must be positive: %f", t.MomentumCap)
	}
	if t.BaselineMaxTurns <= 0 {
		return fmt.Errorf("baseline_max_turns must be positive: %d", t.BaselineMaxTurns)
	}
	if t.PaperResearchStep <= 0 {
		return fmt.Errorf("paper_research_step must be positive: %f", t.PaperResearchStep)
	}
	return nil
}

// LoadTuning reads overrides from a yaml file on top of the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}
