// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"fmt"

	"github.com/abstractmachine/aam/kstore"
	"github.com/abstractmachine/aam/lattice"
	"github.com/abstractmachine/aam/vstore"
)

// Cell pairs a binding address with its initial abstract value.
type Cell[A comparable, V any] struct {
	Addr  A
	Value V
}

// Semantics is the transition relation of the analyzed language, supplied
// externally. StepEval and StepKont return the set of actions possible at
// the given point; the machine integrates each action into one successor
// state. Both may allocate binding addresses; neither allocates
// continuation addresses.
type Semantics[V any, A comparable, T comparable, E comparable, F comparable] interface {
	InitialEnv() []Binding[A]
	InitialStore() []Cell[A, V]
	StepEval(expr E, env Env[A], store vstore.Store[A, V], t T) []Action[V, A, E, F]
	StepKont(v V, frame F, store vstore.Store[A, V], t T) []Action[V, A, E, F]
}

// Machine couples a semantics with the value lattice and clock it runs
// over, and implements injection and the one-step transition relation.
type Machine[V any, A comparable, T comparable, E comparable, F comparable] struct {
	lat   lattice.Lattice[V]
	clock lattice.Clock[T, E]
	sem   Semantics[V, A, T, E, F]
}

// New builds a machine over the given domains and semantics.
func New[V any, A comparable, T comparable, E comparable, F comparable](
	lat lattice.Lattice[V],
	clock lattice.Clock[T, E],
	sem Semantics[V, A, T, E, F],
) *Machine[V, A, T, E, F] {
	return &Machine[V, A, T, E, F]{lat: lat, clock: clock, sem: sem}
}

// Lattice returns the machine's value lattice.
func (m *Machine[V, A, T, E, F]) Lattice() lattice.Lattice[V] { return m.lat }

// Equal reports structural state equality under the machine's lattice.
func (m *Machine[V, A, T, E, F]) Equal(a, b State[V, A, T, E, F]) bool {
	return a.Equal(m.lat, b)
}

// Subsumes reports state subsumption under the machine's lattice.
func (m *Machine[V, A, T, E, F]) Subsumes(a, b State[V, A, T, E, F]) bool {
	return a.Subsumes(m.lat, b)
}

// Inject builds the initial state for a program: evaluate it in the
// initial environment, rooted at Halt, which starts with exactly one
// reference.
func (m *Machine[V, A, T, E, F]) Inject(program E, seed string) State[V, A, T, E, F] {
	store := vstore.New[A](m.lat)
	for _, cell := range m.sem.InitialStore() {
		store = store.Extend(cell.Addr, cell.Value)
	}
	return State[V, A, T, E, F]{
		Control: ControlEval[V, A, E](program, NewEnv(m.sem.InitialEnv()...)),
		Store:   store,
		KStore:  kstore.New[F, KAddr[E, T]]().AddRef(Halt[E, T]()),
		Kont:    Halt[E, T](),
		Time:    m.clock.Initial(seed),
	}
}

// Step computes the successor states of s. Terminal states (halted or
// error) have none. A non-nil error reports a continuation-store
// invariant violation and aborts exploration.
func (m *Machine[V, A, T, E, F]) Step(s State[V, A, T, E, F]) ([]State[V, A, T, E, F], error) {
	switch s.Control.Kind() {
	case KindEval:
		expr, env, _ := s.Control.Eval()
		return m.integrateAll(s, s.Kont, m.sem.StepEval(expr, env, s.Store, s.Time))

	case KindKont:
		if s.Kont.IsHalt() {
			return nil, nil
		}
		if !s.KStore.Contains(s.Kont) {
			return nil, &kstore.InvariantError{Invariant: "K4", Op: "Step", Addr: fmt.Sprint(s.Kont)}
		}
		v, _ := s.Control.Value()
		var out []State[V, A, T, E, F]
		for _, kt := range s.KStore.Lookup(s.Kont) {
			succs, err := m.integrateAll(s, kt.Next, m.sem.StepKont(v, kt.Frame, s.Store, s.Time))
			if err != nil {
				return nil, err
			}
			out = append(out, succs...)
		}
		return out, nil

	default: // KindError is terminal
		return nil, nil
	}
}

func (m *Machine[V, A, T, E, F]) integrateAll(
	s State[V, A, T, E, F],
	root KAddr[E, T],
	acts []Action[V, A, E, F],
) ([]State[V, A, T, E, F], error) {
	out := make([]State[V, A, T, E, F], 0, len(acts))
	for _, act := range acts {
		succ, err := m.integrate(s, root, act)
		if err != nil {
			return nil, err
		}
		out = append(out, succ)
	}
	return out, nil
}

// integrate builds the successor state for one action. root is the
// continuation the successor resumes at before the action's own effect:
// the predecessor's own address for evaluation steps, or a stored frame's
// parent for return steps. Whenever the successor's root differs from the
// predecessor's, the continuation store sees AddRef(new) before
// DecRef(old).
func (m *Machine[V, A, T, E, F]) integrate(
	s State[V, A, T, E, F],
	root KAddr[E, T],
	act Action[V, A, E, F],
) (State[V, A, T, E, F], error) {
	var zero State[V, A, T, E, F]

	switch a := act.(type) {
	case ReachedValue[V, A, E, F]:
		ks, err := m.moveRoot(s.KStore, s.Kont, root)
		if err != nil {
			return zero, err
		}
		return State[V, A, T, E, F]{
			Control: ControlKont[V, A, E](a.Value),
			Store:   a.Store,
			KStore:  ks,
			Kont:    root,
			Time:    m.clock.Tick(s.Time),
		}, nil

	case Push[V, A, E, F]:
		// Extend first: the new frame's parent edge takes its reference
		// before the old root gives one up, so no live address's count
		// touches zero mid-transition.
		kp := Normal(a.Expr, s.Time)
		ks, err := s.KStore.Extend(kp, kstore.Kont[F, KAddr[E, T]]{Frame: a.Frame, Next: root})
		if err != nil {
			return zero, err
		}
		ks = ks.AddRef(kp)
		ks, err = ks.DecRef(s.Kont)
		if err != nil {
			return zero, err
		}
		return State[V, A, T, E, F]{
			Control: ControlEval[V, A, E](a.Expr, a.Env),
			Store:   a.Store,
			KStore:  ks,
			Kont:    kp,
			Time:    m.clock.Tick(s.Time),
		}, nil

	case Eval[V, A, E, F]:
		ks, err := m.moveRoot(s.KStore, s.Kont, root)
		if err != nil {
			return zero, err
		}
		return State[V, A, T, E, F]{
			Control: ControlEval[V, A, E](a.Expr, a.Env),
			Store:   a.Store,
			KStore:  ks,
			Kont:    root,
			Time:    m.clock.Tick(s.Time),
		}, nil

	case StepIn[V, A, E, F]:
		ks, err := m.moveRoot(s.KStore, s.Kont, root)
		if err != nil {
			return zero, err
		}
		return State[V, A, T, E, F]{
			Control: ControlEval[V, A, E](a.Expr, a.Env),
			Store:   a.Store,
			KStore:  ks,
			Kont:    root,
			Time:    m.clock.TickCall(s.Time, a.CallSite),
		}, nil

	case Fail[V, A, E, F]:
		ks, err := m.moveRoot(s.KStore, s.Kont, root)
		if err != nil {
			return zero, err
		}
		return State[V, A, T, E, F]{
			Control: ControlError[V, A, E](a.Err),
			Store:   s.Store,
			KStore:  ks,
			Kont:    root,
			Time:    m.clock.Tick(s.Time),
		}, nil

	default:
		return zero, fmt.Errorf("aam: unknown action %T", act)
	}
}

func (m *Machine[V, A, T, E, F]) moveRoot(
	ks kstore.Store[F, KAddr[E, T]],
	old, next KAddr[E, T],
) (kstore.Store[F, KAddr[E, T]], error) {
	if old == next {
		return ks, nil
	}
	return ks.AddRef(next).DecRef(old)
}
