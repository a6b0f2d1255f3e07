package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// AuditSink receives every RNG draw and every fired event so two runs that
// should have been identical can be diffed down to a single draw site.
type AuditSink interface {
	RecordDraw(turn int, seq uint64, label string, value float64)
	RecordEvent(turn int, id string, detail string)
}

// Stream is the session's single source of randomness. Every stochastic
// decision in a turn draws from it through a labeled call site, in a fixed
// order, so that runs with the same seed and action log are bit-identical.
// The draw position is tracked so a saved session can resume mid-stream.
type Stream struct {
	seedText string
	src      *rand.Rand
	pos      uint64
	turn     int
	audit    AuditSink
}

func NewStream(seedText string) *Stream {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return &Stream{
		seedText: seedText,
		src:      rand.New(rand.NewPCG(seedWord(seedText, "a"), seedWord(seedText, "b"))),
	}
}

// RestoreStream rebuilds a stream and advances it to the given draw position,
// so draws after a load continue the original sequence.
func RestoreStream(seedText string, pos uint64) *Stream {
	s := NewStream(seedText)
	for i := uint64(0); i < pos; i++ {
		s.src.Float64()
	}
	s.pos = pos
	return s
}

func seedWord(seedText, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%s", seedText, salt)))
	return h.Sum64()
}

// SetAudit attaches an optional sink mirroring every draw. A nil sink
// disables mirroring without changing the draw sequence.
func (s *Stream) SetAudit(sink AuditSink) {
	s.audit = sink
}

// SetTurn tags subsequent draws with the current turn for audit purposes.
func (s *Stream) SetTurn(turn int) {
	s.turn = turn
}

// Uniform returns the next draw in [0, 1).
func (s *Stream) Uniform(label string) float64 {
	v := s.src.Float64()
	s.pos++
	if s.audit != nil {
		s.audit.RecordDraw(s.turn, s.pos, label, v)
	}
	return v
}

// IntRange returns an integer in [lo, hi] inclusive. It consumes exactly one
// draw regardless of range width so stream positions stay comparable.
func (s *Stream) IntRange(label string, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	v := s.Uniform(label)
	return lo + int(v*float64(hi-lo+1))
}

// Chance returns true with probability p. Probabilities outside [0, 1] behave
// as always-false / always-true but still consume a draw.
func (s *Stream) Chance(label string, p float64) bool {
	return s.Uniform(label) < p
}

// Position reports the number of draws consumed since creation.
func (s *Stream) Position() uint64 {
	return s.pos
}

// SeedText reports the seed string the stream was built from.
func (s *Stream) SeedText() string {
	return s.seedText
}
