package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quietriver/doomclock/internal/sim"
)

// Yaml document shapes. Strings here are converted to the closed enums at
// load; anything that doesn't parse is a load error, not a runtime surprise.

type yamlFile struct {
	Actions []yamlAction `yaml:"actions"`
	Events  []yamlEvent  `yaml:"events"`
}

type yamlAction struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Costs       map[string]float64 `yaml:"costs"`
	Effects     []yamlEffect       `yaml:"effects"`
	Roll        *yamlRoll          `yaml:"roll"`
}

type yamlRoll struct {
	Resource string  `yaml:"resource"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
}

type yamlEffect struct {
	Kind     string  `yaml:"kind"`
	Resource string  `yaml:"resource"`
	Pool     string  `yaml:"pool"`
	Source   string  `yaml:"source"`
	Amount   float64 `yaml:"amount"`
}

type yamlEvent struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Trigger     string       `yaml:"trigger"`
	Turn        int          `yaml:"turn"`
	MinTurn     int          `yaml:"min_turn"`
	Condition   string       `yaml:"condition"`
	Probability float64      `yaml:"probability"`
	Repeatable  bool         `yaml:"repeatable"`
	Options     []yamlOption `yaml:"options"`
}

type yamlOption struct {
	Label   string             `yaml:"label"`
	Costs   map[string]float64 `yaml:"costs"`
	Effects []yamlEffect       `yaml:"effects"`
	Message string             `yaml:"message"`
}

// Load reads a content file and builds a catalog from it.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yamlFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	actions := make([]ActionDef, 0, len(doc.Actions))
	for _, a := range doc.Actions {
		def, err := a.convert()
		if err != nil {
			return nil, fmt.Errorf("catalog %s: action %q: %w", path, a.ID, err)
		}
		actions = append(actions, def)
	}

	events := make([]sim.EventDef, 0, len(doc.Events))
	for _, e := range doc.Events {
		def, err := e.convert()
		if err != nil {
			return nil, fmt.Errorf("catalog %s: event %q: %w", path, e.ID, err)
		}
		events = append(events, def)
	}

	return New(actions, events)
}

func (a yamlAction) convert() (ActionDef, error) {
	costs, err := convertCosts(a.Costs)
	if err != nil {
		return ActionDef{}, err
	}
	effects, err := convertEffects(a.Effects)
	if err != nil {
		return ActionDef{}, err
	}
	def := ActionDef{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Costs:       costs,
		Effects:     effects,
	}
	if a.Roll != nil {
		resource, ok := sim.ParseResource(a.Roll.Resource)
		if !ok {
			return ActionDef{}, fmt.Errorf("roll references unknown resource %q", a.Roll.Resource)
		}
		if a.Roll.Max < a.Roll.Min {
			return ActionDef{}, fmt.Errorf("roll max below min")
		}
		def.Roll = &RollSpec{Resource: resource, Min: a.Roll.Min, Max: a.Roll.Max}
	}
	return def, nil
}

func (e yamlEvent) convert() (sim.EventDef, error) {
	kind, ok := sim.ParseTriggerKind(e.Trigger)
	if !ok {
		return sim.EventDef{}, fmt.Errorf("unknown trigger %q", e.Trigger)
	}
	if len(e.Options) == 0 {
		return sim.EventDef{}, fmt.Errorf("event has no resolution options")
	}
	if kind == sim.TriggerRandom && (e.Probability <= 0 || e.Probability > 1) {
		return sim.EventDef{}, fmt.Errorf("random trigger needs probability in (0, 1]")
	}

	def := sim.EventDef{
		ID:          e.ID,
		Title:       e.Title,
		Kind:        kind,
		Turn:        e.Turn,
		MinTurn:     e.MinTurn,
		Condition:   e.Condition,
		Probability: e.Probability,
		Repeatable:  e.Repeatable,
	}
	for _, o := range e.Options {
		costs, err := convertCosts(o.Costs)
		if err != nil {
			return sim.EventDef{}, fmt.Errorf("option %q: %w", o.Label, err)
		}
		effects, err := convertEffects(o.Effects)
		if err != nil {
			return sim.EventDef{}, fmt.Errorf("option %q: %w", o.Label, err)
		}
		def.Options = append(def.Options, sim.ResolutionOption{
			Label:   o.Label,
			Costs:   costs,
			Effects: effects,
			Message: o.Message,
		})
	}
	return def, nil
}

func convertCosts(in map[string]float64) (map[sim.Resource]float64, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[sim.Resource]float64, len(in))
	for name, amount := range in {
		resource, ok := sim.ParseResource(name)
		if !ok {
			return nil, fmt.Errorf("unknown resource %q in costs", name)
		}
		if amount < 0 {
			return nil, fmt.Errorf("negative cost for %q", name)
		}
		out[resource] = amount
	}
	return out, nil
}

func convertEffects(in []yamlEffect) ([]sim.Effect, error) {
	out := make([]sim.Effect, 0, len(in))
	for _, e := range in {
		effect := sim.Effect{Source: e.Source, Amount: e.Amount}
		switch e.Kind {
		case "resource":
			resource, ok := sim.ParseResource(e.Resource)
			if !ok {
				return nil, fmt.Errorf("unknown resource %q in effect", e.Resource)
			}
			effect.Kind = sim.EffectResource
			effect.Resource = resource
		case "risk":
			pool, ok := sim.ParsePool(e.Pool)
			if !ok {
				return nil, fmt.Errorf("unknown risk pool %q in effect", e.Pool)
			}
			effect.Kind = sim.EffectRisk
			effect.Pool = pool
		case "doom_source":
			if e.Source == "" {
				return nil, fmt.Errorf("doom_source effect needs a source name")
			}
			effect.Kind = sim.EffectDoomSource
		case "insight":
			effect.Kind = sim.EffectInsight
		case "hire":
			effect.Kind = sim.EffectHire
		default:
			return nil, fmt.Errorf("unknown effect kind %q", e.Kind)
		}
		out = append(out, effect)
	}
	return out, nil
}
