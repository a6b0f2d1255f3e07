package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/quietriver/doomclock/internal/auditdb"
	"github.com/quietriver/doomclock/internal/catalog"
	"github.com/quietriver/doomclock/internal/sim"
	"github.com/quietriver/doomclock/internal/snapshot"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		showVersion bool
		seed        string
		turns       int
		scriptPath  string
		contentPath string
		tuningPath  string
		savePath    string
		loadPath    string
		auditPath   string
		insight     int
		startDoom   float64
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&seed, "seed", "", "session seed (empty = random)")
	flag.IntVar(&turns, "turns", 20, "turns to simulate")
	flag.StringVar(&scriptPath, "script", "", "action script: one line per turn, space-separated action ids")
	flag.StringVar(&contentPath, "content", "", "yaml content catalog (empty = builtin)")
	flag.StringVar(&tuningPath, "tuning", "", "yaml tuning overrides")
	flag.StringVar(&savePath, "save", "", "write a save file at the end of the run")
	flag.StringVar(&loadPath, "load", "", "resume from a save file")
	flag.StringVar(&auditPath, "audit", "", "sqlite audit database for RNG draws and events")
	flag.IntVar(&insight, "insight", 3, "starting insight level")
	flag.Float64Var(&startDoom, "doom", 20, "starting doom level")
	flag.Parse()

	if showVersion {
		fmt.Printf("doomclock %s (%s) %s\n", version, commit, date)
		return
	}

	if err := run(seed, turns, scriptPath, contentPath, tuningPath, savePath, loadPath, auditPath, insight, startDoom); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(seed string, turns int, scriptPath, contentPath, tuningPath, savePath, loadPath, auditPath string, insight int, startDoom float64) error {
	content := catalog.Builtin()
	if contentPath != "" {
		loaded, err := catalog.Load(contentPath)
		if err != nil {
			return err
		}
		content = loaded
	}

	tuning := sim.DefaultTuning()
	if tuningPath != "" {
		loaded, err := sim.LoadTuning(tuningPath)
		if err != nil {
			return err
		}
		tuning = loaded
	}

	config := sim.SessionConfig{
		Seed:         seed,
		StartDoom:    startDoom,
		InsightLevel: insight,
		Events:       content.Events(),
		Actions:      content,
		Tuning:       tuning,
	}

	if auditPath != "" {
		store, err := auditdb.Open(auditPath, "player:"+seed)
		if err != nil {
			return err
		}
		defer store.Close()
		config.Audit = store
	}

	var session *sim.Session
	var err error
	if loadPath != "" {
		rec, readErr := snapshot.Read(loadPath)
		if readErr != nil {
			return readErr
		}
		session, err = sim.RestoreSession(rec, config)
	} else {
		session, err = sim.NewSession(config)
	}
	if err != nil {
		return err
	}

	script, err := readScript(scriptPath)
	if err != nil {
		return err
	}

	fmt.Printf("seed %q, starting doom %.1f\n", session.Seed(), session.Doom().Current())

	for i := 0; i < turns && session.Outcome().Status == sim.OutcomeOngoing; i++ {
		pending, err := session.StartTurn()
		if err != nil {
			return err
		}
		for _, p := range pending {
			resolved := false
			for opt := range p.Def.Options {
				result, err := session.ResolveEvent(p.Def.ID, opt)
				if err != nil {
					return err
				}
				if result.OK {
					fmt.Printf("turn %d event %s: %s\n", session.Turn(), p.Def.ID, result.Message)
					resolved = true
					break
				}
			}
			if !resolved {
				return fmt.Errorf("turn %d: no affordable resolution for event %s", session.Turn(), p.Def.ID)
			}
		}

		for _, id := range script[session.Turn()] {
			if result, err := session.QueueAction(id); err != nil {
				return err
			} else if !result.OK {
				fmt.Printf("turn %d queue %s: %s\n", session.Turn(), id, result.Message)
			}
		}

		report, err := session.CommitTurn()
		if err != nil {
			return err
		}
		for _, r := range report.Actions {
			status := "ok"
			if !r.OK {
				status = "failed"
			}
			fmt.Printf("turn %d action %s: %s (%s)\n", report.Turn, r.ActionID, r.Message, status)
		}
		fmt.Printf("turn %d doom %.2f (%s, %s)", report.Turn, report.Doom.NewDoom, session.Doom().Status(), report.Doom.Trend)
		if hint := session.Hint(); hint != "" {
			fmt.Printf("  | %s", hint)
		}
		fmt.Println()
	}

	score := sim.ComputeScore(session)
	fmt.Printf("outcome: %s (%s), score %.0f\n", session.Outcome().Status, session.Outcome().Reason, score.Total)

	if savePath != "" {
		rec, err := session.Save()
		if err != nil {
			return err
		}
		if err := snapshot.Write(savePath, rec); err != nil {
			return err
		}
		fmt.Println("saved to", savePath)
	}
	return nil
}

// readScript maps turn number to the action ids queued that turn. A line of
// "-" (or a missing line) queues nothing.
func readScript(path string) (map[int][]string, error) {
	script := make(map[int][]string)
	if path == "" {
		return script, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	turn := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		turn++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "-" || strings.HasPrefix(line, "#") {
			continue
		}
		script[turn] = strings.Fields(line)
	}
	return script, scanner.Err()
}
