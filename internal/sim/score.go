package sim

// Score is the end-of-run summary a session is judged by.
type Score struct {
	Total         float64 `json:"total"`
	TurnsSurvived int     `json:"turns_survived"`
	FinalDoom     float64 `json:"final_doom"`
	Reputation    float64 `json:"reputation"`
	Papers        int     `json:"papers"`
	Won           bool    `json:"won"`
}

// ComputeScore scores the session as it currently stands. Survival and doom
// distance dominate; reputation and publications round it out, with a flat
// bonus for an outright win.
func ComputeScore(s *Session) Score {
	score := Score{
		TurnsSurvived: s.Turn(),
		FinalDoom:     s.Doom().Current(),
		Reputation:    s.Ledger().Get(ResourceReputation),
		Papers:        s.Papers(),
		Won:           s.Outcome().Status == OutcomeWon,
	}
	score.Total = float64(score.TurnsSurvived)*10 +
		(100-score.FinalDoom)*5 +
		score.Reputation*2 +
		float64(score.Papers)*15
	if score.Won {
		score.Total += 500
	}
	return score
}

// Comparison sets a player's run against the baseline for the same seed.
type Comparison struct {
	Player   Score   `json:"player"`
	Baseline Score   `json:"baseline"`
	Margin   float64 `json:"margin"`
}

// Compare reports how far the player's run beat (or trailed) the no-action
// baseline.
func Compare(player Score, baseline BaselineResult) Comparison {
	return Comparison{
		Player:   player,
		Baseline: baseline.Score,
		Margin:   player.Total - baseline.Score.Total,
	}
}
