package sim

import "fmt"

// StaffRole is the closed set of jobs a hire can hold.
type StaffRole int

const (
	RoleSafetyResearcher StaffRole = iota
	RoleCapabilityResearcher
	RoleEngineer
	RoleManager
)

func (r StaffRole) String() string {
	switch r {
	case RoleSafetyResearcher:
		return "safety_researcher"
	case RoleCapabilityResearcher:
		return "capability_researcher"
	case RoleEngineer:
		return "engineer"
	case RoleManager:
		return "manager"
	default:
		return "unknown"
	}
}

// StaffTrait is the closed set of personality modifiers.
type StaffTrait int

const (
	TraitSteady StaffTrait = iota
	TraitWorkaholic
	TraitCareless
	TraitMeticulous
	TraitDisgruntled
)

func (t StaffTrait) String() string {
	switch t {
	case TraitSteady:
		return "steady"
	case TraitWorkaholic:
		return "workaholic"
	case TraitCareless:
		return "careless"
	case TraitMeticulous:
		return "meticulous"
	case TraitDisgruntled:
		return "disgruntled"
	default:
		return "unknown"
	}
}

var specializations = []string{
	"interpretability",
	"scaling",
	"alignment_theory",
	"infrastructure",
	"evaluations",
	"policy",
}

// StaffMember is one hire (or one candidate awaiting hire).
type StaffMember struct {
	Name           string     `json:"name"`
	Role           StaffRole  `json:"role"`
	Specialization string     `json:"specialization"`
	Trait          StaffTrait `json:"trait"`
	Salary         float64    `json:"salary"`
	Productivity   float64    `json:"productivity"`
}

// yieldMultiplier folds the trait into per-turn research output.
func (m StaffMember) yieldMultiplier() float64 {
	switch m.Trait {
	case TraitWorkaholic:
		return 1.3
	case TraitCareless:
		return 1.1
	case TraitMeticulous:
		return 0.9
	case TraitDisgruntled:
		return 0.7
	default:
		return 1.0
	}
}

// leakChance is the per-turn probability this hire feeds insider-threat risk.
func (m StaffMember) leakChance() float64 {
	switch m.Trait {
	case TraitCareless:
		return 0.10
	case TraitDisgruntled:
		return 0.15
	default:
		return 0.02
	}
}

const candidatePoolSize = 3

// generateCandidates fills the turn's hiring pool. Draw order per candidate
// is fixed and labeled: specialization roll, then trait roll, then the salary
// roll, so the stream stays auditable.
func generateCandidates(rng *Stream, turn int) []StaffMember {
	candidates := make([]StaffMember, 0, candidatePoolSize)
	for i := 0; i < candidatePoolSize; i++ {
		specIdx := rng.IntRange(fmt.Sprintf("candidate.%d.specialization", i), 0, len(specializations)-1)
		trait := StaffTrait(rng.IntRange(fmt.Sprintf("candidate.%d.trait", i), 0, 4))
		salary := 8.0 + rng.Uniform(fmt.Sprintf("candidate.%d.salary", i))*6.0
		role := StaffRole(i % 4)
		candidates = append(candidates, StaffMember{
			Name:           fmt.Sprintf("candidate-t%d-%d", turn, i+1),
			Role:           role,
			Specialization: specializations[specIdx],
			Trait:          trait,
			Salary:         salary,
			Productivity:   1.0,
		})
	}
	return candidates
}
