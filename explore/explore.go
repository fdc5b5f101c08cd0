// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package explore drives the abstract machine to a least fixed point: a
// worklist of pending states, a visited set pruned by equality (and
// optionally subsumption), a halted set, and an optional transition
// graph.
//
// The loop body is written as an effectful computation over the
// continuation-passing primitives in internal/effect: the worklist and
// visited bookkeeping thread through the State effect, the machine and
// options come in through Reader, transition-graph edges are told to the
// Writer, and fatal continuation-store invariant violations propagate
// through Error. [Run] discharges all four with one composed handler;
// [Stepper] instead drives the same computation one suspension at a time
// so a front-end can pause between worklist iterations.
package explore

import (
	"time"

	"github.com/abstractmachine/aam/aam"
	"github.com/abstractmachine/aam/internal/effect"
	"github.com/abstractmachine/aam/lattice"
)

// Order selects the worklist discipline. The fixpoint is confluent:
// halted set and visited count do not depend on it.
type Order uint8

const (
	// LIFO explores depth-first.
	LIFO Order = iota
	// FIFO explores breadth-first.
	FIFO
)

// Options configures one exploration.
type Options struct {
	// Graph collects the transition graph. Diagnostics only; the
	// fixpoint never consults it.
	Graph bool
	// Subsumption prunes states some visited state subsumes, instead of
	// only equal ones.
	Subsumption bool
	// Timeout bounds wall-clock time; zero means none. On expiry the
	// partial result is returned with TimedOut set.
	Timeout time.Duration
	// Order is the worklist discipline.
	Order Order
}

// Result is the outcome of an exploration.
type Result[V any, A comparable, T comparable, E comparable, F comparable] struct {
	// Halted holds the terminal states: values returned to Halt, and
	// errors.
	Halted []aam.State[V, A, T, E, F]
	// Visited is the number of distinct states explored.
	Visited int
	// Elapsed is the wall-clock duration of the exploration.
	Elapsed time.Duration
	// TimedOut reports whether the timeout cut exploration short.
	TimedOut bool
	// Graph is the transition graph, if Options.Graph was set.
	Graph *Graph[V, A, T, E, F]
}

// FinalValues returns the distinct values of value-halted states.
func (r *Result[V, A, T, E, F]) FinalValues(lat lattice.Lattice[V]) []V {
	var out []V
	for _, s := range r.Halted {
		v, ok := s.Control.Value()
		if !ok {
			continue
		}
		dup := false
		for _, seen := range out {
			if lattice.Eq(lat, seen, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// JoinedValue returns the join of all value-halted states, bottom if
// there are none.
func (r *Result[V, A, T, E, F]) JoinedValue(lat lattice.Lattice[V]) V {
	acc := lat.Bottom()
	for _, v := range r.FinalValues(lat) {
		acc = lat.Join(acc, v)
	}
	return acc
}

// Errors returns the distinct error payloads of error-halted states.
func (r *Result[V, A, T, E, F]) Errors() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range r.Halted {
		if msg, ok := s.Control.Err(); ok && !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return out
}

// config is the Reader environment of the loop.
type config[V any, A comparable, T comparable, E comparable, F comparable] struct {
	m     *aam.Machine[V, A, T, E, F]
	opts  Options
	start time.Time
}

// search is the State of the loop. Values are copied through Get/Put;
// the visited map is shared forward, never rolled back.
type search[V any, A comparable, T comparable, E comparable, F comparable] struct {
	work    []aam.State[V, A, T, E, F]
	visited map[aam.KAddr[E, T]][]aam.State[V, A, T, E, F]
	halted  []aam.State[V, A, T, E, F]
	count   int
}

// pop removes one pending state per the worklist order.
func (st search[V, A, T, E, F]) pop(order Order) (aam.State[V, A, T, E, F], search[V, A, T, E, F], bool) {
	var zero aam.State[V, A, T, E, F]
	if len(st.work) == 0 {
		return zero, st, false
	}
	if order == FIFO {
		s := st.work[0]
		st.work = st.work[1:]
		return s, st, true
	}
	s := st.work[len(st.work)-1]
	st.work = st.work[:len(st.work)-1]
	return s, st, true
}

// find scans the visited bucket keyed by the state's continuation
// address for an equal (or, with subsume, subsuming) representative.
func (st search[V, A, T, E, F]) find(
	m *aam.Machine[V, A, T, E, F],
	s aam.State[V, A, T, E, F],
	subsume bool,
) (aam.State[V, A, T, E, F], bool) {
	for _, old := range st.visited[s.Key()] {
		if m.Equal(old, s) {
			return old, true
		}
		if subsume && m.Subsumes(old, s) {
			return old, true
		}
	}
	var zero aam.State[V, A, T, E, F]
	return zero, false
}

func (st search[V, A, T, E, F]) remember(s aam.State[V, A, T, E, F]) search[V, A, T, E, F] {
	st.visited[s.Key()] = append(st.visited[s.Key()], s)
	st.count++
	return st
}

// edge is one Writer record: a transition from one state to another.
type edge[V any, A comparable, T comparable, E comparable, F comparable] struct {
	from, to aam.State[V, A, T, E, F]
}

// summary is the loop's final value; everything else leaves through the
// State and Writer handlers.
type summary struct {
	timedOut bool
}

// popped is the effect performed at the top of each iteration when the
// loop runs under a Stepper; Run's composed handler never sees it.
type popped[V any, A comparable, T comparable, E comparable, F comparable] struct {
	state aam.State[V, A, T, E, F]
}

func (popped[V, A, T, E, F]) OpResult() struct{} { panic("phantom") }

// loop is one worklist iteration, ending in a recursive tail call. With
// yield set it performs popped before processing each state.
func loop[V any, A comparable, T comparable, E comparable, F comparable](yield bool) effect.Eff[summary] {
	return effect.AskReader[config[V, A, T, E, F]](func(cfg config[V, A, T, E, F]) effect.Eff[summary] {
		if cfg.opts.Timeout > 0 && time.Since(cfg.start) > cfg.opts.Timeout {
			return effect.Pure(summary{timedOut: true})
		}
		return effect.GetState[search[V, A, T, E, F]](func(st search[V, A, T, E, F]) effect.Eff[summary] {
			s, st, ok := st.pop(cfg.opts.Order)
			if !ok {
				return effect.Pure(summary{})
			}
			body := process[V, A, T, E, F](cfg, st, s, yield)
			if !yield {
				return body
			}
			return effect.Bind(effect.Perform(popped[V, A, T, E, F]{state: s}), func(struct{}) effect.Eff[summary] {
				return body
			})
		})
	})
}

// process handles one popped state: prune, halt, or step.
func process[V any, A comparable, T comparable, E comparable, F comparable](
	cfg config[V, A, T, E, F],
	st search[V, A, T, E, F],
	s aam.State[V, A, T, E, F],
	yield bool,
) effect.Eff[summary] {
	if rep, seen := st.find(cfg.m, s, cfg.opts.Subsumption); seen {
		// when pruned by subsumption rather than equality, the graph
		// still records the collapse onto the representative
		if cfg.opts.Graph && !cfg.m.Equal(rep, s) {
			return effect.TellWriter(edge[V, A, T, E, F]{from: s, to: rep},
				effect.PutState(st, loop[V, A, T, E, F](yield)))
		}
		return effect.PutState(st, loop[V, A, T, E, F](yield))
	}

	if s.Halted() {
		st = st.remember(s)
		st.halted = append(st.halted, s)
		return effect.PutState(st, loop[V, A, T, E, F](yield))
	}

	succs, err := cfg.m.Step(s)
	if err != nil {
		return effect.ThrowError[error, summary](err)
	}
	st = st.remember(s)
	st.work = append(st.work, succs...)

	next := effect.PutState(st, loop[V, A, T, E, F](yield))
	if cfg.opts.Graph {
		for i := len(succs) - 1; i >= 0; i-- {
			next = effect.TellWriter(edge[V, A, T, E, F]{from: s, to: succs[i]}, next)
		}
	}
	return next
}

// Run explores program to its fixed point under opts.
func Run[V any, A comparable, T comparable, E comparable, F comparable](
	m *aam.Machine[V, A, T, E, F],
	program E,
	opts Options,
) (*Result[V, A, T, E, F], error) {
	start := time.Now()
	init := m.Inject(program, "main")

	cfg := config[V, A, T, E, F]{m: m, opts: opts, start: start}
	st := search[V, A, T, E, F]{
		work:    []aam.State[V, A, T, E, F]{init},
		visited: map[aam.KAddr[E, T]][]aam.State[V, A, T, E, F]{},
	}

	either, final, edges := effect.RunExploreEffects[
		config[V, A, T, E, F],
		search[V, A, T, E, F],
		edge[V, A, T, E, F],
		error,
		summary,
	](cfg, st, loop[V, A, T, E, F](false))

	if left, ok := either.GetLeft(); ok {
		return nil, left
	}
	sum, _ := either.GetRight()

	res := &Result[V, A, T, E, F]{
		Halted:   final.halted,
		Visited:  final.count,
		Elapsed:  time.Since(start),
		TimedOut: sum.timedOut,
	}
	if opts.Graph {
		res.Graph = buildGraph(m, init, edges)
	}
	return res, nil
}
