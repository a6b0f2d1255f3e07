package sim

import (
	"log/slog"
	"sort"
)

// Resource names the scalar quantities a session tracks. The set is closed:
// condition strings and effect tables resolve against these and nothing else.
type Resource string

const (
	ResourceMoney        Resource = "money"
	ResourceCompute      Resource = "compute"
	ResourceResearch     Resource = "research"
	ResourceReputation   Resource = "reputation"
	ResourceActionPoints Resource = "action_points"
	ResourceTrust        Resource = "trust"
)

var allResources = []Resource{
	ResourceMoney,
	ResourceCompute,
	ResourceResearch,
	ResourceReputation,
	ResourceActionPoints,
	ResourceTrust,
}

// ParseResource maps a name from content or a condition string to a Resource.
func ParseResource(name string) (Resource, bool) {
	for _, r := range allResources {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

// Ledger holds the session's resource balances. The core owns the afford /
// spend / gain contract; what each resource means is the content layer's
// business.
type Ledger struct {
	balances map[Resource]float64
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[Resource]float64, len(allResources))}
}

func (l *Ledger) Get(r Resource) float64 {
	return l.balances[r]
}

func (l *Ledger) Set(r Resource, v float64) {
	l.balances[r] = v
}

// CanAfford reports whether every cost is covered by the current balance.
func (l *Ledger) CanAfford(costs map[Resource]float64) bool {
	for r, amount := range costs {
		if l.balances[r] < amount {
			return false
		}
	}
	return true
}

// Spend deducts all costs atomically. If any single cost is unaffordable,
// nothing is deducted and Spend reports false.
func (l *Ledger) Spend(costs map[Resource]float64) bool {
	if !l.CanAfford(costs) {
		return false
	}
	for r, amount := range costs {
		l.balances[r] -= amount
	}
	return true
}

// Gain credits amount to the resource. Negative amounts are allowed (event
// effects use them); balances driven below zero are clamped and logged since
// a bookkeeping anomaly must stay visible without stopping the session.
func (l *Ledger) Gain(r Resource, amount float64) {
	l.balances[r] += amount
	if l.balances[r] < 0 {
		slog.Warn("resource underflow clamped", "resource", string(r), "balance", l.balances[r])
		l.balances[r] = 0
	}
}

// Clone returns an independent copy, used for snapshot-equality checks.
func (l *Ledger) Clone() *Ledger {
	c := NewLedger()
	for r, v := range l.balances {
		c.balances[r] = v
	}
	return c
}

// Equal reports whether two ledgers hold identical balances.
func (l *Ledger) Equal(other *Ledger) bool {
	if len(l.balances) != len(other.balances) {
		keys := map[Resource]bool{}
		for r := range l.balances {
			keys[r] = true
		}
		for r := range other.balances {
			keys[r] = true
		}
		for r := range keys {
			if l.balances[r] != other.balances[r] {
				return false
			}
		}
		return true
	}
	for r, v := range l.balances {
		if other.balances[r] != v {
			return false
		}
	}
	return true
}

// Balances returns a stable-ordered copy for reports and persistence.
func (l *Ledger) Balances() map[Resource]float64 {
	out := make(map[Resource]float64, len(l.balances))
	for r, v := range l.balances {
		out[r] = v
	}
	return out
}

// ResourceNames lists the closed resource set in stable order.
func ResourceNames() []string {
	names := make([]string, 0, len(allResources))
	for _, r := range allResources {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return names
}
