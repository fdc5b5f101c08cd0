// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package vstore implements the abstract value store: a finite mapping
// from binding addresses to abstract values, monotonic under join.
//
// A Store is an immutable value. Extend returns a new store; the receiver
// is never modified, so stores can be shared freely across machine states.
package vstore

import (
	"maps"

	"github.com/abstractmachine/aam/lattice"
)

// Store maps addresses to abstract values. The zero Store is not usable;
// construct with New.
type Store[A comparable, V any] struct {
	lat lattice.Lattice[V]
	m   map[A]V
}

// New returns an empty store over the given value lattice.
func New[A comparable, V any](lat lattice.Lattice[V]) Store[A, V] {
	return Store[A, V]{lat: lat, m: map[A]V{}}
}

// Lattice returns the value lattice the store joins with.
func (s Store[A, V]) Lattice() lattice.Lattice[V] { return s.lat }

// Lookup returns the value at a, or bottom if a is unmapped.
func (s Store[A, V]) Lookup(a A) V {
	if v, ok := s.m[a]; ok {
		return v
	}
	return s.lat.Bottom()
}

// Contains reports whether a is mapped.
func (s Store[A, V]) Contains(a A) bool {
	_, ok := s.m[a]
	return ok
}

// Extend returns a store mapping a to v ⊔ Lookup(a), all other entries
// unchanged. Returns the receiver itself when the join adds nothing.
func (s Store[A, V]) Extend(a A, v V) Store[A, V] {
	joined := s.lat.Join(s.Lookup(a), v)
	if old, ok := s.m[a]; ok && lattice.Eq(s.lat, joined, old) {
		return s
	}
	m := maps.Clone(s.m)
	m[a] = joined
	return Store[A, V]{lat: s.lat, m: m}
}

// Subsumes reports whether s carries at least as much information as o:
// for every mapping (a, v) in o, v ⊑ s.Lookup(a).
func (s Store[A, V]) Subsumes(o Store[A, V]) bool {
	for a, v := range o.m {
		if !s.lat.Subsumes(s.Lookup(a), v) {
			return false
		}
	}
	return true
}

// Equal reports mutual subsumption. Entries mapped to bottom are
// indistinguishable from absent entries.
func (s Store[A, V]) Equal(o Store[A, V]) bool {
	return s.Subsumes(o) && o.Subsumes(s)
}

// Len returns the number of mapped addresses.
func (s Store[A, V]) Len() int { return len(s.m) }

// All iterates over the mappings in unspecified order.
func (s Store[A, V]) All(yield func(A, V) bool) {
	for a, v := range s.m {
		if !yield(a, v) {
			return
		}
	}
}
