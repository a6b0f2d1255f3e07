package auditdb

import (
	"path/filepath"
	"testing"

	"github.com/quietriver/doomclock/internal/sim"
)

var _ sim.AuditSink = (*Store)(nil)

func TestStoreRecordsDrawsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := Open(path, "run-a")
	if err != nil {
		t.Fatal(err)
	}
	s.RecordDraw(1, 0, "risk.insider_threat.roll", 0.25)
	s.RecordDraw(1, 1, "rival.helios.advance", 0.7)
	s.RecordDraw(2, 2, "event.press_leak.roll", 0.99)
	s.RecordEvent(2, "press_leak", "resolved option 0")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen cold and read back.
	r, err := Open(path, "reader")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	draws, err := r.Draws("run-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(draws) != 3 {
		t.Fatalf("got %d draws, want 3", len(draws))
	}
	for i, d := range draws {
		if d.Seq != uint64(i) {
			t.Errorf("draw %d has seq %d, want %d", i, d.Seq, i)
		}
	}
	if draws[2].Label != "event.press_leak.roll" || draws[2].Value != 0.99 {
		t.Errorf("last draw = %+v", draws[2])
	}
}

func TestFirstDivergenceAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	a, err := Open(path, "run-a")
	if err != nil {
		t.Fatal(err)
	}
	a.RecordDraw(1, 0, "staff.0.yield", 0.5)
	a.RecordDraw(1, 1, "staff.0.leak", 0.9)
	a.RecordDraw(2, 2, "rival.helios.advance", 0.1)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path, "run-b")
	if err != nil {
		t.Fatal(err)
	}
	b.RecordDraw(1, 0, "staff.0.yield", 0.5)
	b.RecordDraw(1, 1, "staff.0.leak", 0.9)
	b.RecordDraw(2, 2, "rival.helios.advance", 0.4)
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path, "reader")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	d, diverged, err := r.FirstDivergence("run-a", "run-b")
	if err != nil {
		t.Fatal(err)
	}
	if !diverged {
		t.Fatal("divergence not detected")
	}
	if d.Seq != 2 || d.Label != "rival.helios.advance" {
		t.Errorf("divergence at %+v, want seq 2 on rival.helios.advance", d)
	}

	if _, diverged, err := r.FirstDivergence("run-a", "run-a"); err != nil || diverged {
		t.Errorf("identical session diverged from itself: %v %t", err, diverged)
	}
}

func TestRecordAfterCloseIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := Open(path, "run-a")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Must not panic on the closed channel.
	s.RecordDraw(1, 0, "late", 0.5)
	s.RecordEvent(1, "late", "late")
}
