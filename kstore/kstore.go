// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package kstore implements the continuation store: a mapping from
// continuation addresses to sets of continuation frames, with logical
// reference counts and a reverse edge index so unreachable frames are
// reclaimed as exploration proceeds, without a separate tracing pass.
//
// The counts track machine-level reachability of continuation addresses
// from the single moving root of each state, not host memory. A transition
// that moves the root from a to a' performs AddRef(a') then DecRef(a) —
// in that order, so no address's count touches zero while still live.
// Cycles cannot form: a freshly allocated address is only ever referenced
// from addresses allocated strictly later, so counting alone is a complete
// collector here.
//
// A Store is an immutable value; every operation returns a new store and
// shares unmodified internals with the receiver.
package kstore

import "maps"

// Kont is one stored continuation: a frame paired with the address of the
// continuation to resume once the frame returns.
type Kont[F comparable, KA comparable] struct {
	Frame F
	Next  KA
}

// Store is the reference-counted continuation store. The zero Store is
// not usable; construct with New.
type Store[F comparable, KA comparable] struct {
	// konts maps an address to the set of continuations stored there.
	konts map[KA]map[Kont[F, KA]]struct{}
	// refs counts external references per address: one per state rooted
	// at the address, plus one per distinct incoming parent edge.
	refs map[KA]int
	// in indexes the parent edges in reverse: in[p] holds every address
	// whose stored continuations name p as parent. Consulted only by the
	// removal cascade in DecRef.
	in map[KA]map[KA]struct{}
}

// New returns an empty continuation store.
func New[F comparable, KA comparable]() Store[F, KA] {
	return Store[F, KA]{
		konts: map[KA]map[Kont[F, KA]]struct{}{},
		refs:  map[KA]int{},
		in:    map[KA]map[KA]struct{}{},
	}
}

func (s Store[F, KA]) clone() Store[F, KA] {
	return Store[F, KA]{
		konts: maps.Clone(s.konts),
		refs:  maps.Clone(s.refs),
		in:    maps.Clone(s.in),
	}
}

// Lookup returns the continuations stored at k, empty if k is absent.
func (s Store[F, KA]) Lookup(k KA) []Kont[F, KA] {
	set := s.konts[k]
	if len(set) == 0 {
		return nil
	}
	out := make([]Kont[F, KA], 0, len(set))
	for kt := range set {
		out = append(out, kt)
	}
	return out
}

// Contains reports whether k is tracked by the store, with or without
// stored continuations.
func (s Store[F, KA]) Contains(k KA) bool {
	_, ok := s.refs[k]
	return ok
}

// Refs returns the reference count of k, zero if untracked.
func (s Store[F, KA]) Refs(k KA) int { return s.refs[k] }

// Extend adds kont to the set stored at k. If kont is already present the
// receiver is returned unchanged. Otherwise the parent named by kont gains
// a reverse edge from k and, if the edge is new, one reference. The parent
// must already be tracked.
func (s Store[F, KA]) Extend(k KA, kont Kont[F, KA]) (Store[F, KA], error) {
	if _, ok := s.konts[k][kont]; ok {
		return s, nil
	}
	p := kont.Next
	if _, ok := s.refs[p]; !ok {
		return s, violation("K2", "Extend", p)
	}
	ns := s.clone()

	set := maps.Clone(ns.konts[k])
	if set == nil {
		set = map[Kont[F, KA]]struct{}{}
	}
	set[kont] = struct{}{}
	ns.konts[k] = set

	if _, ok := ns.in[p][k]; !ok {
		edges := maps.Clone(ns.in[p])
		if edges == nil {
			edges = map[KA]struct{}{}
		}
		edges[k] = struct{}{}
		ns.in[p] = edges
		ns.refs[p]++
	}
	return ns, nil
}

// AddRef grants one reference to k, inserting it with count one if it was
// untracked.
func (s Store[F, KA]) AddRef(k KA) Store[F, KA] {
	ns := s.clone()
	ns.refs[k]++
	return ns
}

// DecRef releases one reference to k. When the count reaches zero, k and
// its stored continuations are removed and each distinct parent they name
// is released in turn, cascading until counts stay positive. A cycle of
// addresses dying together is removed as a whole: an address already
// freed earlier in the same cascade is not freed twice.
func (s Store[F, KA]) DecRef(k KA) (Store[F, KA], error) {
	if s.refs[k] <= 0 {
		return s, violation("K1", "DecRef", k)
	}
	ns := s.clone()
	if err := ns.release(k, map[KA]struct{}{}); err != nil {
		return s, err
	}
	return ns, nil
}

// release mutates the (freshly cloned) store in place. dead tracks the
// addresses freed by the current cascade so a cyclic continuation chain
// terminates.
func (s *Store[F, KA]) release(k KA, dead map[KA]struct{}) error {
	if _, gone := dead[k]; gone {
		return nil
	}
	c, ok := s.refs[k]
	if !ok || c <= 0 {
		return violation("K1", "DecRef", k)
	}
	if c > 1 {
		s.refs[k] = c - 1
		return nil
	}
	dead[k] = struct{}{}
	delete(s.refs, k)
	delete(s.in, k)
	set := s.konts[k]
	delete(s.konts, k)

	seen := map[KA]struct{}{}
	for kont := range set {
		p := kont.Next
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if edges, ok := s.in[p]; ok {
			edges = maps.Clone(edges)
			delete(edges, k)
			s.in[p] = edges
		}
		if err := s.release(p, dead); err != nil {
			return err
		}
	}
	return nil
}

// Subsumes reports whether every continuation stored in o is also stored
// in s at the same address.
func (s Store[F, KA]) Subsumes(o Store[F, KA]) bool {
	for k, oset := range o.konts {
		sset := s.konts[k]
		for kont := range oset {
			if _, ok := sset[kont]; !ok {
				return false
			}
		}
	}
	return true
}

// Equal reports structural equality: same continuation sets and same
// reference counts.
func (s Store[F, KA]) Equal(o Store[F, KA]) bool {
	if !maps.Equal(s.refs, o.refs) {
		return false
	}
	if len(s.konts) != len(o.konts) {
		return false
	}
	for k, sset := range s.konts {
		if !maps.Equal(sset, o.konts[k]) {
			return false
		}
	}
	return true
}

// Len returns the number of addresses with stored continuations.
func (s Store[F, KA]) Len() int { return len(s.konts) }

// Addrs returns every tracked address, including those with no stored
// continuations, in unspecified order.
func (s Store[F, KA]) Addrs() []KA {
	out := make([]KA, 0, len(s.refs))
	for k := range s.refs {
		out = append(out, k)
	}
	return out
}

// In returns the reverse edges of k: the addresses whose continuations
// name k as parent.
func (s Store[F, KA]) In(k KA) []KA {
	edges := s.in[k]
	if len(edges) == 0 {
		return nil
	}
	out := make([]KA, 0, len(edges))
	for from := range edges {
		out = append(out, from)
	}
	return out
}

// Validate checks the store's structural invariants: positive counts for
// every tracked address (K1), stored continuations only at tracked
// addresses, and agreement between stored parent edges and the reverse
// index (K2). Intended for tests and debugging.
func (s Store[F, KA]) Validate() error {
	for k, c := range s.refs {
		if c <= 0 {
			return violation("K1", "Validate", k)
		}
	}
	for k, set := range s.konts {
		if _, ok := s.refs[k]; !ok {
			return violation("K1", "Validate", k)
		}
		for kont := range set {
			if _, ok := s.in[kont.Next][k]; !ok {
				return violation("K2", "Validate", kont.Next)
			}
		}
	}
	for p, edges := range s.in {
		for from := range edges {
			found := false
			for kont := range s.konts[from] {
				if kont.Next == p {
					found = true
					break
				}
			}
			if !found {
				return violation("K2", "Validate", p)
			}
		}
	}
	return nil
}
