// Package auditdb persists the verification log — every RNG draw and every
// fired event — to an append-only sqlite database, one row per record.
// Writes funnel through a single goroutine so the hot path never blocks on
// disk and rows land in submission order.
package auditdb

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/quietriver/doomclock/internal/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS draws (
	session TEXT NOT NULL,
	turn    INTEGER NOT NULL,
	seq     INTEGER NOT NULL,
	label   TEXT NOT NULL,
	value   REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS draws_session_seq ON draws(session, seq);

CREATE TABLE IF NOT EXISTS events (
	session TEXT NOT NULL,
	turn    INTEGER NOT NULL,
	id      TEXT NOT NULL,
	detail  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_session_turn ON events(session, turn);
`

type rowKind int

const (
	rowDraw rowKind = iota + 1
	rowEvent
)

type row struct {
	kind   rowKind
	turn   int
	seq    uint64
	label  string
	value  float64
	id     string
	detail string
}

// Store is a sim.AuditSink backed by sqlite. One Store records one session,
// keyed by the session id it was opened with.
type Store struct {
	db      *sql.DB
	session string

	ch     chan row
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool
}

// Open creates or opens the database at path and starts the writer.
func Open(path, sessionID string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit schema: %w", err)
	}

	s := &Store{
		db:      db,
		session: sessionID,
		ch:      make(chan row, 1024),
	}
	s.wg.Add(1)
	go s.writer()
	return s, nil
}

func (s *Store) writer() {
	defer s.wg.Done()
	for r := range s.ch {
		var err error
		switch r.kind {
		case rowDraw:
			_, err = s.db.Exec(
				"INSERT INTO draws(session, turn, seq, label, value) VALUES(?, ?, ?, ?, ?)",
				s.session, r.turn, int64(r.seq), r.label, r.value)
		case rowEvent:
			_, err = s.db.Exec(
				"INSERT INTO events(session, turn, id, detail) VALUES(?, ?, ?, ?)",
				s.session, r.turn, r.id, r.detail)
		}
		_ = err // append-only diagnostics; a failed insert must not stop the run
	}
}

// RecordDraw implements sim.AuditSink.
func (s *Store) RecordDraw(turn int, seq uint64, label string, value float64) {
	if s.closed.Load() {
		return
	}
	s.ch <- row{kind: rowDraw, turn: turn, seq: seq, label: label, value: value}
}

// RecordEvent implements sim.AuditSink.
func (s *Store) RecordEvent(turn int, id string, detail string) {
	if s.closed.Load() {
		return
	}
	s.ch <- row{kind: rowEvent, turn: turn, id: id, detail: detail}
}

// Close drains pending rows and closes the database.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Draws returns every recorded draw for a session in sequence order.
func (s *Store) Draws(sessionID string) ([]sim.DrawRecord, error) {
	rows, err := s.db.Query(
		"SELECT turn, seq, label, value FROM draws WHERE session = ? ORDER BY seq", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.DrawRecord
	for rows.Next() {
		var d sim.DrawRecord
		var seq int64
		if err := rows.Scan(&d.Turn, &seq, &d.Label, &d.Value); err != nil {
			return nil, err
		}
		d.Seq = uint64(seq)
		out = append(out, d)
	}
	return out, rows.Err()
}

// FirstDivergence compares two recorded sessions and returns the first draw
// where they disagree, which localizes a determinism break to one call site.
func (s *Store) FirstDivergence(sessionA, sessionB string) (sim.DrawRecord, bool, error) {
	drawsA, err := s.Draws(sessionA)
	if err != nil {
		return sim.DrawRecord{}, false, err
	}
	drawsB, err := s.Draws(sessionB)
	if err != nil {
		return sim.DrawRecord{}, false, err
	}
	a := &sim.MemoryAudit{Draws: drawsA}
	b := &sim.MemoryAudit{Draws: drawsB}
	d, diverged := a.FirstDivergence(b)
	return d, diverged, nil
}
