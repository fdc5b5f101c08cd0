// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lattice defines the abstract domains the machine is parameterized
// over: the join-semilattice of abstract values, and the clock producing
// abstract timestamps. Both are consumed as explicit operation carriers
// rather than methods on the value types themselves, so a single value type
// can be paired with different widening policies.
//
// The package also ships small reference instantiations (a flat constant
// lattice, a variable/timestamp address, and zero- and one-call-site
// clocks). These are fixtures for tests and the example surface language,
// not part of the machine core.
package lattice

// Lattice carries the operations of a join-semilattice over V.
//
// Subsumes(x, y) reports x ⊒ y: x carries at least as much information as
// y. Join must be an upper bound of both arguments, and Bottom the identity
// of Join.
type Lattice[V any] interface {
	Bottom() V
	Join(x, y V) V
	Subsumes(x, y V) bool
}

// Eq reports semantic equality of two abstract values: mutual subsumption.
func Eq[V any](l Lattice[V], x, y V) bool {
	return l.Subsumes(x, y) && l.Subsumes(y, x)
}

// IsBottom reports whether v carries no information.
func IsBottom[V any](l Lattice[V], v V) bool {
	return l.Subsumes(l.Bottom(), v)
}
