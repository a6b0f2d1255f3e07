package sim

// DrawRecord is one mirrored RNG draw.
type DrawRecord struct {
	Turn  int     `json:"turn"`
	Seq   uint64  `json:"seq"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// EventRecord is one mirrored fired/resolved event.
type EventRecord struct {
	Turn   int    `json:"turn"`
	ID     string `json:"id"`
	Detail string `json:"detail"`
}

// MemoryAudit is an in-process AuditSink, mostly for tests and for diffing
// two runs that should have been identical.
type MemoryAudit struct {
	Draws  []DrawRecord
	Events []EventRecord
}

func (a *MemoryAudit) RecordDraw(turn int, seq uint64, label string, value float64) {
	a.Draws = append(a.Draws, DrawRecord{Turn: turn, Seq: seq, Label: label, Value: value})
}

func (a *MemoryAudit) RecordEvent(turn int, id string, detail string) {
	a.Events = append(a.Events, EventRecord{Turn: turn, ID: id, Detail: detail})
}

// FirstDivergence locates the first draw where two audits disagree, so a
// determinism break can be pinned to a single labeled call site. The second
// return is false when the logs agree over their common prefix and length.
func (a *MemoryAudit) FirstDivergence(other *MemoryAudit) (DrawRecord, bool) {
	n := len(a.Draws)
	if len(other.Draws) < n {
		n = len(other.Draws)
	}
	for i := 0; i < n; i++ {
		if a.Draws[i] != other.Draws[i] {
			return a.Draws[i], true
		}
	}
	if len(a.Draws) != len(other.Draws) {
		if n < len(a.Draws) {
			return a.Draws[n], true
		}
		return other.Draws[n], true
	}
	return DrawRecord{}, false
}
