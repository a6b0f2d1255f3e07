package sim

import "fmt"

// RivalLab is an external lab pushing the frontier whether you like it or
// not. Its per-turn behavior is resolved from labeled draws so the baseline
// run consumes the stream exactly as a player run does.
type RivalLab struct {
	Name       string  `json:"name"`
	Aggression float64 `json:"aggression"`
	Capability float64 `json:"capability"`
}

func defaultRivals() []RivalLab {
	return []RivalLab{
		{Name: "helios", Aggression: 0.8, Capability: 10},
		{Name: "nimbus", Aggression: 0.5, Capability: 8},
		{Name: "granite", Aggression: 0.3, Capability: 6},
	}
}

// rivalOutcome is what one turn of rival processing feeds back into the core.
type rivalOutcome struct {
	doomContribution float64
	riskContribs     map[Pool]float64
}

// processRivals advances every rival one turn. Per rival the draw order is:
// advance roll, then incident roll. Aggressive rivals push capability faster
// and their advances weigh more on doom.
func processRivals(rivals []RivalLab, rng *Stream) rivalOutcome {
	out := rivalOutcome{riskContribs: make(map[Pool]float64)}
	for i := range rivals {
		r := &rivals[i]

		advance := rng.Uniform(fmt.Sprintf("rival.%s.advance", r.Name)) * r.Aggression
		r.Capability += advance * 2.0
		out.doomContribution += advance * 0.6

		if rng.Chance(fmt.Sprintf("rival.%s.incident", r.Name), r.Aggression*0.1) {
			out.riskContribs[PoolPublicAwareness] += 2.0
			out.riskContribs[PoolRegulatoryAttention] += 1.0
		}
	}
	return out
}
