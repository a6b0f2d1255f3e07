package catalog

import "github.com/quietriver/doomclock/internal/sim"

// Builtin returns the shipped content so the binaries run without external
// files. A yaml catalog loaded from disk replaces it wholesale.
func Builtin() *Catalog {
	c, err := New(builtinActions(), builtinEvents())
	if err != nil {
		// Builtin content is compiled in; a bad table is a programming error.
		panic(err)
	}
	return c
}

func builtinActions() []ActionDef {
	return []ActionDef{
		{
			ID:          "fundraise",
			Name:        "Fundraise",
			Description: "Pitch investors. Money now, attention later.",
			Effects: []sim.Effect{
				{Kind: sim.EffectRisk, Pool: sim.PoolFinancialExposure, Source: "fundraise", Amount: 3},
			},
			Roll: &RollSpec{Resource: sim.ResourceMoney, Min: 10, Max: 40},
		},
		{
			ID:          "buy_compute",
			Name:        "Buy compute",
			Description: "Convert money into cluster time.",
			Costs:       map[sim.Resource]float64{sim.ResourceMoney: 20},
			Effects: []sim.Effect{
				{Kind: sim.EffectResource, Resource: sim.ResourceCompute, Amount: 15},
			},
		},
		{
			ID:          "safety_sprint",
			Name:        "Safety sprint",
			Description: "Push interpretability work hard this cycle.",
			Costs:       map[sim.Resource]float64{sim.ResourceCompute: 5},
			Effects: []sim.Effect{
				{Kind: sim.EffectDoomSource, Source: "safety_sprint", Amount: -1.5},
				{Kind: sim.EffectResource, Resource: sim.ResourceResearch, Amount: 3},
			},
		},
		{
			ID:          "capability_push",
			Name:        "Capability push",
			Description: "Chase the frontier. Fast, lucrative, corrosive.",
			Costs:       map[sim.Resource]float64{sim.ResourceCompute: 5},
			Effects: []sim.Effect{
				{Kind: sim.EffectDoomSource, Source: "capability_push", Amount: 1.2},
				{Kind: sim.EffectResource, Resource: sim.ResourceResearch, Amount: 6},
				{Kind: sim.EffectRisk, Pool: sim.PoolCapabilityOverhang, Source: "capability_push", Amount: 4},
			},
			Roll: &RollSpec{Resource: sim.ResourceMoney, Min: 5, Max: 15},
		},
		{
			ID:          "hire_candidate",
			Name:        "Hire top candidate",
			Description: "Sign the first candidate in this turn's pool.",
			Costs:       map[sim.Resource]float64{sim.ResourceMoney: 10},
			Effects: []sim.Effect{
				{Kind: sim.EffectHire, Amount: 0},
			},
		},
		{
			ID:          "pr_campaign",
			Name:        "PR campaign",
			Description: "Shape the narrative before someone else does.",
			Costs:       map[sim.Resource]float64{sim.ResourceMoney: 15},
			Effects: []sim.Effect{
				{Kind: sim.EffectResource, Resource: sim.ResourceReputation, Amount: 5},
				{Kind: sim.EffectRisk, Pool: sim.PoolPublicAwareness, Source: "pr_campaign", Amount: -5},
			},
		},
		{
			ID:          "internal_audit",
			Name:        "Internal audit",
			Description: "Sweep the lab for leaks and sloppy practice.",
			Costs:       map[sim.Resource]float64{sim.ResourceMoney: 8},
			Effects: []sim.Effect{
				{Kind: sim.EffectRisk, Pool: sim.PoolInsiderThreat, Source: "internal_audit", Amount: -8},
				{Kind: sim.EffectRisk, Pool: sim.PoolResearchIntegrity, Source: "internal_audit", Amount: -4},
				{Kind: sim.EffectInsight, Amount: 1},
			},
		},
		{
			ID:          "brief_regulators",
			Name:        "Brief regulators",
			Description: "Get ahead of the next hearing.",
			Costs:       map[sim.Resource]float64{sim.ResourceReputation: 2},
			Effects: []sim.Effect{
				{Kind: sim.EffectRisk, Pool: sim.PoolRegulatoryAttention, Source: "brief_regulators", Amount: -10},
				{Kind: sim.EffectResource, Resource: sim.ResourceTrust, Amount: 3},
			},
		},
	}
}

func builtinEvents() []sim.EventDef {
	return []sim.EventDef{
		{
			ID:    "board_review",
			Title: "Quarterly board review",
			Kind:  sim.TriggerTurnExact,
			Turn:  4,
			Options: []sim.ResolutionOption{
				{
					Label:   "Present honestly",
					Effects: []sim.Effect{{Kind: sim.EffectResource, Resource: sim.ResourceTrust, Amount: 5}},
					Message: "The board appreciates the candor, mostly.",
				},
				{
					Label: "Massage the numbers",
					Effects: []sim.Effect{
						{Kind: sim.EffectResource, Resource: sim.ResourceReputation, Amount: 3},
						{Kind: sim.EffectRisk, Pool: sim.PoolResearchIntegrity, Source: "board_review", Amount: 6},
					},
					Message: "The slides land well. The footnotes do not exist.",
				},
			},
		},
		{
			ID:        "funding_crunch",
			Title:     "Funding crunch",
			Kind:      sim.TriggerThreshold,
			Condition: "money < 20",
			Options: []sim.ResolutionOption{
				{
					Label:   "Emergency bridge round",
					Effects: []sim.Effect{
						{Kind: sim.EffectResource, Resource: sim.ResourceMoney, Amount: 30},
						{Kind: sim.EffectRisk, Pool: sim.PoolFinancialExposure, Source: "funding_crunch", Amount: 8},
					},
					Message: "The terms are bad. The alternative was worse.",
				},
				{
					Label:   "Tighten the belt",
					Effects: []sim.Effect{{Kind: sim.EffectResource, Resource: sim.ResourceReputation, Amount: -2}},
					Message: "Morale takes the hit instead of the cap table.",
				},
			},
		},
		{
			ID:          "press_leak",
			Title:       "Reporter has the training logs",
			Kind:        sim.TriggerRandom,
			MinTurn:     3,
			Probability: 0.12,
			Repeatable:  true,
			Options: []sim.ResolutionOption{
				{
					Label:   "Get ahead of the story",
					Costs:   map[sim.Resource]float64{sim.ResourceMoney: 10},
					Effects: []sim.Effect{{Kind: sim.EffectRisk, Pool: sim.PoolPublicAwareness, Source: "press_leak", Amount: 4}},
					Message: "The piece runs with your framing.",
				},
				{
					Label:   "No comment",
					Effects: []sim.Effect{
						{Kind: sim.EffectRisk, Pool: sim.PoolPublicAwareness, Source: "press_leak", Amount: 10},
						{Kind: sim.EffectResource, Resource: sim.ResourceReputation, Amount: -3},
					},
					Message: "The piece runs anyway.",
				},
			},
		},
		{
			ID:        "compute_audit",
			Title:     "Cloud provider compliance audit",
			Kind:      sim.TriggerTurnAndResource,
			Turn:      6,
			Condition: "compute > 40",
			Options: []sim.ResolutionOption{
				{
					Label:   "Open the books",
					Effects: []sim.Effect{{Kind: sim.EffectRisk, Pool: sim.PoolRegulatoryAttention, Source: "compute_audit", Amount: -5}},
					Message: "Clean enough. They move on.",
				},
			},
		},
	}
}
