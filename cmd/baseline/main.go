// Command baseline runs the no-action comparison simulation for a seed and
// prints its score, or checks that all three baseline modes agree.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/quietriver/doomclock/internal/auditdb"
	"github.com/quietriver/doomclock/internal/catalog"
	"github.com/quietriver/doomclock/internal/sim"
)

func main() {
	var (
		seed      string
		mode      string
		auditPath string
		check     bool
	)

	flag.StringVar(&seed, "seed", "", "session seed (required)")
	flag.StringVar(&mode, "mode", "sync", "baseline mode: sync or eager")
	flag.StringVar(&auditPath, "audit", "", "sqlite audit database for RNG draws")
	flag.BoolVar(&check, "check", false, "run sync, eager and precomputed modes and verify they agree")
	flag.Parse()

	if seed == "" {
		fmt.Fprintln(os.Stderr, "error: -seed is required")
		os.Exit(1)
	}

	if err := run(seed, mode, auditPath, check); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(seed, mode, auditPath string, check bool) error {
	content := catalog.Builtin()
	config := sim.SessionConfig{
		Seed:    seed,
		Events:  content.Events(),
		Actions: content,
		Tuning:  sim.DefaultTuning(),
	}

	if auditPath != "" {
		store, err := auditdb.Open(auditPath, "baseline:"+seed)
		if err != nil {
			return err
		}
		defer store.Close()
		config.Audit = store
	}

	if check {
		return runCheck(config)
	}

	var baselineMode sim.BaselineMode
	switch mode {
	case "sync":
		baselineMode = sim.BaselineSync
	case "eager":
		baselineMode = sim.BaselineEager
	default:
		return fmt.Errorf("unknown mode %q (want sync or eager)", mode)
	}

	b, err := sim.NewBaseline(config, baselineMode, nil)
	if err != nil {
		return err
	}
	result, err := b.Result()
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func runCheck(config sim.SessionConfig) error {
	sync, err := sim.NewBaseline(config, sim.BaselineSync, nil)
	if err != nil {
		return err
	}
	syncResult, err := sync.Result()
	if err != nil {
		return err
	}

	eager, err := sim.NewBaseline(config, sim.BaselineEager, nil)
	if err != nil {
		return err
	}
	eagerResult, err := eager.Result()
	if err != nil {
		return err
	}

	pre, err := sim.NewBaseline(config, sim.BaselinePrecomputed, &syncResult)
	if err != nil {
		return err
	}
	preResult, err := pre.Result()
	if err != nil {
		return err
	}

	if syncResult.Score.Total != eagerResult.Score.Total || syncResult.Score.Total != preResult.Score.Total {
		return fmt.Errorf("mode mismatch: sync=%.2f eager=%.2f precomputed=%.2f",
			syncResult.Score.Total, eagerResult.Score.Total, preResult.Score.Total)
	}
	fmt.Printf("all modes agree: score %.0f over %d turns\n", syncResult.Score.Total, syncResult.Turns)
	return nil
}

func printResult(result sim.BaselineResult) {
	fmt.Printf("seed %q: %d turns, final doom %.2f, outcome %s, score %.0f\n",
		result.Seed, result.Turns, result.Score.FinalDoom, result.Outcome.Status, result.Score.Total)
}
