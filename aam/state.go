// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"github.com/abstractmachine/aam/kstore"
	"github.com/abstractmachine/aam/lattice"
	"github.com/abstractmachine/aam/vstore"
)

// State is the machine configuration: control, value store, continuation
// store, current continuation address, and timestamp. States are immutable
// once constructed.
type State[V any, A comparable, T comparable, E comparable, F comparable] struct {
	Control Control[V, A, E]
	Store   vstore.Store[A, V]
	KStore  kstore.Store[F, KAddr[E, T]]
	Kont    KAddr[E, T]
	Time    T
}

// Halted reports whether the state is terminal: a value returned to Halt,
// or an error.
func (s State[V, A, T, E, F]) Halted() bool {
	switch s.Control.Kind() {
	case KindError:
		return true
	case KindKont:
		return s.Kont.IsHalt()
	default:
		return false
	}
}

// Key returns the state's current continuation address, for bucketing
// states during exploration.
func (s State[V, A, T, E, F]) Key() KAddr[E, T] { return s.Kont }

// Equal reports structural equality over all five components.
func (s State[V, A, T, E, F]) Equal(lat lattice.Lattice[V], o State[V, A, T, E, F]) bool {
	return s.Kont == o.Kont &&
		s.Time == o.Time &&
		s.Control.Equal(lat, o.Control) &&
		s.Store.Equal(o.Store) &&
		s.KStore.Equal(o.KStore)
}

// Subsumes reports component-wise subsumption: control and stores may
// widen, continuation address and timestamp must match exactly.
func (s State[V, A, T, E, F]) Subsumes(lat lattice.Lattice[V], o State[V, A, T, E, F]) bool {
	return s.Kont == o.Kont &&
		s.Time == o.Time &&
		s.Control.Subsumes(lat, o.Control) &&
		s.Store.Subsumes(o.Store) &&
		s.KStore.Subsumes(o.KStore)
}
