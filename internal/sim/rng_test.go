package sim

import "testing"

func TestStreamDeterministic(t *testing.T) {
	a := NewStream("t1")
	b := NewStream("t1")

	for i := 0; i < 50; i++ {
		gotA := a.Uniform("test")
		gotB := b.Uniform("test")
		if gotA != gotB {
			t.Fatalf("expected deterministic sequence, mismatch at draw %d: %f != %f", i, gotA, gotB)
		}
	}
}

func TestStreamSeedsDiffer(t *testing.T) {
	a := NewStream("t1")
	b := NewStream("t2")

	same := true
	for i := 0; i < 10; i++ {
		if a.Uniform("test") != b.Uniform("test") {
			same = false
		}
	}
	if same {
		t.Fatalf("expected different seeds to produce different sequences")
	}
}

func TestRestoreStreamContinuesSequence(t *testing.T) {
	original := NewStream("resume-test")
	var before []float64
	for i := 0; i < 10; i++ {
		before = append(before, original.Uniform("test"))
	}
	pos := original.Position()

	restored := RestoreStream("resume-test", pos)
	if restored.Position() != pos {
		t.Fatalf("restored position = %d, want %d", restored.Position(), pos)
	}
	for i := 0; i < 20; i++ {
		gotOriginal := original.Uniform("test")
		gotRestored := restored.Uniform("test")
		if gotOriginal != gotRestored {
			t.Fatalf("restored stream diverged at draw %d: %f != %f", i, gotOriginal, gotRestored)
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	s := NewStream("bounds")
	for i := 0; i < 200; i++ {
		got := s.IntRange("test", 3, 7)
		if got < 3 || got > 7 {
			t.Fatalf("IntRange(3, 7) = %d, out of bounds", got)
		}
	}
}

func TestChanceExtremes(t *testing.T) {
	s := NewStream("chance")
	for i := 0; i < 50; i++ {
		if s.Chance("never", 0) {
			t.Fatalf("Chance(0) returned true")
		}
		if !s.Chance("always", 1.1) {
			t.Fatalf("Chance(1.1) returned false")
		}
	}
}

func TestStreamAuditMirrorsDraws(t *testing.T) {
	audit := &MemoryAudit{}
	s := NewStream("audited")
	s.SetAudit(audit)
	s.SetTurn(3)

	s.Uniform("first")
	s.Chance("second", 0.5)
	s.IntRange("third", 0, 9)

	if len(audit.Draws) != 3 {
		t.Fatalf("expected 3 audited draws, got %d", len(audit.Draws))
	}
	wantLabels := []string{"first", "second", "third"}
	for i, want := range wantLabels {
		if audit.Draws[i].Label != want {
			t.Errorf("draw %d label = %q, want %q", i, audit.Draws[i].Label, want)
		}
		if audit.Draws[i].Turn != 3 {
			t.Errorf("draw %d turn = %d, want 3", i, audit.Draws[i].Turn)
		}
		if audit.Draws[i].Seq != uint64(i+1) {
			t.Errorf("draw %d seq = %d, want %d", i, audit.Draws[i].Seq, i+1)
		}
	}
}

func TestAuditFirstDivergence(t *testing.T) {
	a := &MemoryAudit{}
	b := &MemoryAudit{}

	runStream := func(seed string, audit *MemoryAudit) {
		s := NewStream(seed)
		s.SetAudit(audit)
		for i := 0; i < 5; i++ {
			s.Uniform("loop")
		}
	}
	runStream("same", a)
	runStream("same", b)

	if d, diverged := a.FirstDivergence(b); diverged {
		t.Fatalf("identical runs reported divergence at %+v", d)
	}

	c := &MemoryAudit{}
	runStream("different", c)
	if _, diverged := a.FirstDivergence(c); !diverged {
		t.Fatalf("different seeds reported no divergence")
	}
}
