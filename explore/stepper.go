// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package explore

import (
	"time"

	"github.com/abstractmachine/aam/aam"
	"github.com/abstractmachine/aam/internal/effect"
)

// Stepper runs the same loop as [Run] but one worklist iteration at a
// time, for interactive front-ends. It drives the computation through
// [effect.Step]: ordinary Reader/State/Writer/Error operations are
// dispatched inline, and each popped operation is surfaced to the caller
// before the state is processed.
type Stepper[V any, A comparable, T comparable, E comparable, F comparable] struct {
	cfg   config[V, A, T, E, F]
	state search[V, A, T, E, F]
	edges []edge[V, A, T, E, F]
	ectx  effect.ErrorContext[error]

	susp    *effect.Suspension[summary]
	sum     summary
	started bool
	done    bool
	err     error
}

// NewStepper injects program and prepares a paused exploration.
func NewStepper[V any, A comparable, T comparable, E comparable, F comparable](
	m *aam.Machine[V, A, T, E, F],
	program E,
	opts Options,
) *Stepper[V, A, T, E, F] {
	init := m.Inject(program, "main")
	return &Stepper[V, A, T, E, F]{
		cfg: config[V, A, T, E, F]{m: m, opts: opts, start: time.Now()},
		state: search[V, A, T, E, F]{
			work:    []aam.State[V, A, T, E, F]{init},
			visited: map[aam.KAddr[E, T]][]aam.State[V, A, T, E, F]{},
		},
	}
}

// Next advances to the next worklist pop. It returns the popped state,
// or done=true once the fixed point (or the timeout) is reached. The
// returned error is a fatal invariant violation; it also ends the run.
func (sp *Stepper[V, A, T, E, F]) Next() (aam.State[V, A, T, E, F], bool, error) {
	var zero aam.State[V, A, T, E, F]
	if sp.done {
		return zero, true, sp.err
	}

	var result effect.Resumed
	if !sp.started {
		sp.started = true
		sp.sum, sp.susp = effect.Step(loop[V, A, T, E, F](true))
	} else {
		// resume past the yield we stopped at
		sp.sum, sp.susp = sp.susp.Resume(struct{}{})
	}

	for sp.susp != nil {
		if y, ok := sp.susp.Op().(popped[V, A, T, E, F]); ok {
			return y.state, false, nil
		}
		var ok bool
		result, ok = sp.dispatch(sp.susp.Op())
		if !ok {
			sp.susp.Discard()
			sp.susp = nil
			sp.done = true
			return zero, true, sp.err
		}
		sp.sum, sp.susp = sp.susp.Resume(result)
	}

	sp.done = true
	return zero, true, nil
}

// dispatch mirrors the composed Run handler, minus the popped yields the
// loop above surfaces to the caller.
func (sp *Stepper[V, A, T, E, F]) dispatch(op effect.Operation) (effect.Resumed, bool) {
	if rop, ok := op.(interface {
		DispatchReader(env *config[V, A, T, E, F]) (effect.Resumed, bool)
	}); ok {
		return rop.DispatchReader(&sp.cfg)
	}
	if sop, ok := op.(interface {
		DispatchState(state *search[V, A, T, E, F]) (effect.Resumed, bool)
	}); ok {
		return sop.DispatchState(&sp.state)
	}
	if wop, ok := op.(interface {
		DispatchWriter(ctx *effect.WriterContext[edge[V, A, T, E, F]]) (effect.Resumed, bool)
	}); ok {
		wctx := effect.WriterContext[edge[V, A, T, E, F]]{Output: &sp.edges}
		return wop.DispatchWriter(&wctx)
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *effect.ErrorContext[error]) (effect.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(&sp.ectx)
		if sp.ectx.HasErr {
			sp.err = sp.ectx.Err
			return nil, false
		}
		return v, true
	}
	panic("explore: unhandled effect in Stepper")
}

// Done reports whether the exploration has finished.
func (sp *Stepper[V, A, T, E, F]) Done() bool { return sp.done }

// Result assembles the outcome so far. Complete once Next has reported
// done; before that it reflects the partial exploration.
func (sp *Stepper[V, A, T, E, F]) Result() *Result[V, A, T, E, F] {
	res := &Result[V, A, T, E, F]{
		Halted:   sp.state.halted,
		Visited:  sp.state.count,
		Elapsed:  time.Since(sp.cfg.start),
		TimedOut: sp.sum.timedOut,
	}
	if sp.cfg.opts.Graph {
		g := newGraph(sp.cfg.m)
		for _, e := range sp.edges {
			g.addEdge(e.from, e.to)
		}
		res.Graph = g
	}
	return res
}
