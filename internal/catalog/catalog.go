// Package catalog holds the data-driven content the core stays ignorant of:
// the actions a player can take and the events that can interrupt a turn.
// Content is typed at load; the core only ever sees the narrow
// sim.ActionCatalog interface and []sim.EventDef.
package catalog

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/quietriver/doomclock/internal/sim"
)

// RollSpec is an action's optional stochastic component: a single labeled
// draw scaled into [Min, Max] and credited to a resource.
type RollSpec struct {
	Resource sim.Resource
	Min      float64
	Max      float64
}

// ActionDef is one player action: fixed costs, deterministic effects, and an
// optional roll.
type ActionDef struct {
	ID          string
	Name        string
	Description string
	Costs       map[sim.Resource]float64
	Effects     []sim.Effect
	Roll        *RollSpec
}

// Catalog implements sim.ActionCatalog over a fixed action table resolved at
// construction, plus the event definitions handed to sessions.
type Catalog struct {
	actions map[string]ActionDef
	order   []string
	events  []sim.EventDef
}

func New(actions []ActionDef, events []sim.EventDef) (*Catalog, error) {
	c := &Catalog{
		actions: make(map[string]ActionDef, len(actions)),
		events:  events,
	}
	for _, a := range actions {
		if a.ID == "" {
			return nil, fmt.Errorf("action with empty id")
		}
		if _, dup := c.actions[a.ID]; dup {
			return nil, fmt.Errorf("duplicate action id: %s", a.ID)
		}
		c.actions[a.ID] = a
		c.order = append(c.order, a.ID)
	}
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("event with empty id")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate event id: %s", e.ID)
		}
		seen[e.ID] = true
	}
	return c, nil
}

// Events returns the event definitions for session construction.
func (c *Catalog) Events() []sim.EventDef {
	return c.events
}

// List implements sim.ActionCatalog; order is definition order.
func (c *Catalog) List() []string {
	return append([]string(nil), c.order...)
}

// IsAffordable implements sim.ActionCatalog.
func (c *Catalog) IsAffordable(ledger *sim.Ledger, id string) bool {
	a, ok := c.actions[id]
	if !ok {
		return false
	}
	return ledger.CanAfford(a.Costs)
}

// Execute implements sim.ActionCatalog. Unknown ids and unaffordable costs
// come back as failed results, with a "did you mean" suggestion for typos.
func (c *Catalog) Execute(id string, ctx *sim.ActionContext) sim.ActionResult {
	a, ok := c.actions[id]
	if !ok {
		msg := fmt.Sprintf("unknown action: %s", id)
		if hint, found := c.Suggest(id); found {
			msg = fmt.Sprintf("unknown action: %s (did you mean %q?)", id, hint)
		}
		return sim.ActionResult{ActionID: id, OK: false, Message: msg}
	}
	if !ctx.Ledger().Spend(a.Costs) {
		return sim.ActionResult{ActionID: id, OK: false, Message: fmt.Sprintf("cannot afford %s", a.Name)}
	}

	for _, effect := range a.Effects {
		ctx.Apply(effect)
	}
	if a.Roll != nil {
		amount := a.Roll.Min + ctx.Roll(fmt.Sprintf("action.%s.roll", id))*(a.Roll.Max-a.Roll.Min)
		ctx.Ledger().Gain(a.Roll.Resource, amount)
	}
	return sim.ActionResult{ActionID: id, OK: true, Message: a.Name}
}

// Suggest finds the closest known action id within the edit-distance budget
// for ids of that length.
func (c *Catalog) Suggest(input string) (string, bool) {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)

	best := ""
	bestDist := -1
	for _, id := range ids {
		dist := levenshtein.ComputeDistance(input, id)
		if dist > levenshteinLimit(len(id)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = id
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
