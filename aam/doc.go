// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package aam implements the abstract CESK machine at the heart of the
// engine: machine states, continuation addresses, the action alphabet a
// semantics emits, and the integrator that turns actions into successor
// states while keeping the continuation store's reference counts exact.
//
// The machine is polymorphic over five externally supplied domains:
//
//	V — abstract values, a join-semilattice ([lattice.Lattice])
//	A — binding addresses, allocated by the semantics
//	T — abstract timestamps, allocated by a [lattice.Clock]
//	E — expressions of the surface language
//	F — continuation frames, defined by the semantics
//
// The machine itself allocates only continuation addresses, always of the
// form Normal(expr, time). Everything else — binding addresses, the value
// lattice, the transition relation — comes in through the [Semantics]
// interface, so no value domain is hard-coded here.
//
// A [State] is immutable once constructed. Stepping a state never touches
// it; each successor carries its own stores.
package aam
