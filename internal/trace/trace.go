// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package trace persists the outcome of explorer runs to a SQLite file
// for offline inspection. A run is written once, after the exploration
// finishes; the store never feeds back into an exploration. Everything
// crosses the boundary pre-rendered as strings, so this package stays
// independent of the machine's type parameters.
package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one persisted exploration.
type Run struct {
	ID       string
	Program  string
	Visited  int
	Elapsed  time.Duration
	TimedOut bool
	Created  string
}

// StateRow is one state of a persisted transition graph.
type StateRow struct {
	Idx    int
	Kind   string
	Label  string
	Halted bool
}

// EdgeRow is one transition between two state indexes.
type EdgeRow struct {
	Src, Dst int
}

// Store wraps the SQLite database holding persisted runs.
type Store struct {
	db *sql.DB
}

// Open creates or opens the trace database at path and applies the
// schema. SQLite allows one writer, so the pool is capped at a single
// connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: connect: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("trace: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteRun persists one run with its states, edges, and final values,
// atomically.
func (s *Store) WriteRun(ctx context.Context, run Run, states []StateRow, edges []EdgeRow, finals []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("trace: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, program, visited, elapsed_ms, timed_out) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Program, run.Visited, run.Elapsed.Milliseconds(), boolInt(run.TimedOut))
	if err != nil {
		return fmt.Errorf("trace: insert run: %w", err)
	}
	for _, st := range states {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO states (run_id, idx, kind, label, halted) VALUES (?, ?, ?, ?, ?)`,
			run.ID, st.Idx, st.Kind, st.Label, boolInt(st.Halted))
		if err != nil {
			return fmt.Errorf("trace: insert state %d: %w", st.Idx, err)
		}
	}
	for _, e := range edges {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO edges (run_id, src, dst) VALUES (?, ?, ?)`,
			run.ID, e.Src, e.Dst)
		if err != nil {
			return fmt.Errorf("trace: insert edge %d→%d: %w", e.Src, e.Dst, err)
		}
	}
	for _, v := range finals {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO finals (run_id, value) VALUES (?, ?)`, run.ID, v)
		if err != nil {
			return fmt.Errorf("trace: insert final value: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("trace: commit: %w", err)
	}
	return nil
}

// Runs lists persisted runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, program, visited, elapsed_ms, timed_out, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("trace: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var elapsedMS int64
		var timedOut int
		if err := rows.Scan(&r.ID, &r.Program, &r.Visited, &elapsedMS, &timedOut, &r.Created); err != nil {
			return nil, fmt.Errorf("trace: scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.TimedOut = timedOut != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReadRun loads one run with its states, edges, and final values.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []StateRow, []EdgeRow, []string, error) {
	var run Run
	var elapsedMS int64
	var timedOut int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, program, visited, elapsed_ms, timed_out, created_at FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Program, &run.Visited, &elapsedMS, &timedOut, &run.Created)
	if err != nil {
		return run, nil, nil, nil, fmt.Errorf("trace: run %s: %w", id, err)
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	run.TimedOut = timedOut != 0

	states, err := s.readStates(ctx, id)
	if err != nil {
		return run, nil, nil, nil, err
	}
	edges, err := s.readEdges(ctx, id)
	if err != nil {
		return run, nil, nil, nil, err
	}
	finals, err := s.readFinals(ctx, id)
	if err != nil {
		return run, nil, nil, nil, err
	}
	return run, states, edges, finals, nil
}

func (s *Store) readStates(ctx context.Context, id string) ([]StateRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, kind, label, halted FROM states WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("trace: states of %s: %w", id, err)
	}
	defer rows.Close()

	var out []StateRow
	for rows.Next() {
		var st StateRow
		var halted int
		if err := rows.Scan(&st.Idx, &st.Kind, &st.Label, &halted); err != nil {
			return nil, fmt.Errorf("trace: scan state: %w", err)
		}
		st.Halted = halted != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) readEdges(ctx context.Context, id string) ([]EdgeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT src, dst FROM edges WHERE run_id = ? ORDER BY src, dst`, id)
	if err != nil {
		return nil, fmt.Errorf("trace: edges of %s: %w", id, err)
	}
	defer rows.Close()

	var out []EdgeRow
	for rows.Next() {
		var e EdgeRow
		if err := rows.Scan(&e.Src, &e.Dst); err != nil {
			return nil, fmt.Errorf("trace: scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) readFinals(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM finals WHERE run_id = ? ORDER BY value`, id)
	if err != nil {
		return nil, fmt.Errorf("trace: final values of %s: %w", id, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("trace: scan final value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
