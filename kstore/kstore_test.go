// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kstore_test

import (
	"errors"
	"testing"

	"github.com/abstractmachine/aam/kstore"
)

// Frames and addresses are plain strings throughout these tests; the store
// is generic and never looks inside either.
type kont = kstore.Kont[string, string]

func mustExtend(t *testing.T, s kstore.Store[string, string], k string, kt kont) kstore.Store[string, string] {
	t.Helper()
	ns, err := s.Extend(k, kt)
	if err != nil {
		t.Fatalf("Extend(%s, %v): %v", k, kt, err)
	}
	return ns
}

func mustDecRef(t *testing.T, s kstore.Store[string, string], k string) kstore.Store[string, string] {
	t.Helper()
	ns, err := s.DecRef(k)
	if err != nil {
		t.Fatalf("DecRef(%s): %v", k, err)
	}
	return ns
}

func TestExtendAndLookup(t *testing.T) {
	s := kstore.New[string, string]().AddRef("halt")
	s = mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})

	konts := s.Lookup("k1")
	if len(konts) != 1 || konts[0] != (kont{Frame: "f1", Next: "halt"}) {
		t.Fatalf("Lookup(k1) = %v", konts)
	}
	if got := s.Lookup("absent"); got != nil {
		t.Fatalf("Lookup(absent) = %v, want empty", got)
	}
	if s.Refs("halt") != 2 {
		t.Fatalf("refs(halt) = %d, want 2 (root + edge)", s.Refs("halt"))
	}
}

func TestExtendIdempotent(t *testing.T) {
	s := kstore.New[string, string]().AddRef("halt")
	s = mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})
	s2 := mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})
	if !s2.Equal(s) {
		t.Fatal("re-extending with a stored continuation must not change the store")
	}
}

func TestExtendSharedParentCountsEdgeOnce(t *testing.T) {
	s := kstore.New[string, string]().AddRef("halt")
	s = mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})
	s = mustExtend(t, s, "k1", kont{Frame: "f2", Next: "halt"})
	if s.Refs("halt") != 2 {
		t.Fatalf("refs(halt) = %d, want 2: two frames share one edge", s.Refs("halt"))
	}
	if len(s.Lookup("k1")) != 2 {
		t.Fatalf("Lookup(k1) = %v, want both frames", s.Lookup("k1"))
	}
}

func TestExtendAbsentParent(t *testing.T) {
	s := kstore.New[string, string]()
	_, err := s.Extend("k1", kont{Frame: "f1", Next: "nowhere"})
	var iv *kstore.InvariantError
	if !errors.As(err, &iv) || iv.Invariant != "K2" {
		t.Fatalf("Extend with untracked parent: got %v, want K2 invariant error", err)
	}
}

func TestDecRefBelowZero(t *testing.T) {
	s := kstore.New[string, string]()
	_, err := s.DecRef("k1")
	var iv *kstore.InvariantError
	if !errors.As(err, &iv) || iv.Invariant != "K1" {
		t.Fatalf("DecRef on untracked address: got %v, want K1 invariant error", err)
	}
}

// A push/return round trip over a linear chain: halt ← k1 ← k2, then the
// root returns through the parents and every intermediate address is
// reclaimed.
func TestChainReclamation(t *testing.T) {
	s := kstore.New[string, string]().AddRef("halt")

	// push k1
	s = mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})
	s = s.AddRef("k1")
	s = mustDecRef(t, s, "halt")
	// push k2
	s = mustExtend(t, s, "k2", kont{Frame: "f2", Next: "k1"})
	s = s.AddRef("k2")
	s = mustDecRef(t, s, "k1")

	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if s.Refs("halt") != 1 || s.Refs("k1") != 1 || s.Refs("k2") != 1 {
		t.Fatalf("refs = halt:%d k1:%d k2:%d, want 1 each",
			s.Refs("halt"), s.Refs("k1"), s.Refs("k2"))
	}

	// return k2 → k1
	s = s.AddRef("k1")
	s = mustDecRef(t, s, "k2")
	if s.Contains("k2") {
		t.Fatal("k2 must be reclaimed after the root moved past it")
	}
	// return k1 → halt
	s = s.AddRef("halt")
	s = mustDecRef(t, s, "k1")
	if s.Contains("k1") {
		t.Fatal("k1 must be reclaimed after the root moved past it")
	}

	if s.Len() != 0 || s.Refs("halt") != 1 {
		t.Fatalf("after full return only halt should remain with one reference, got len=%d refs=%d",
			s.Len(), s.Refs("halt"))
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

// Dropping an address whose parent is shared must stop the cascade at the
// survivor.
func TestCascadeStopsAtSharedParent(t *testing.T) {
	s := kstore.New[string, string]().AddRef("halt")
	s = mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})
	s = s.AddRef("k1")
	s = mustDecRef(t, s, "halt")

	// two children of k1
	s = mustExtend(t, s, "k2", kont{Frame: "f2", Next: "k1"})
	s = s.AddRef("k2")
	s = mustExtend(t, s, "k3", kont{Frame: "f3", Next: "k1"})
	s = s.AddRef("k3")
	s = mustDecRef(t, s, "k1")

	// drop k2: k1 must survive, kept alive by k3's edge
	s = mustDecRef(t, s, "k2")
	if s.Contains("k2") {
		t.Fatal("k2 must be reclaimed")
	}
	if !s.Contains("k1") {
		t.Fatal("k1 must survive while k3 still points at it")
	}

	// return k3 → k1, then k1 → halt: the chain above halt collapses
	s = s.AddRef("k1")
	s = mustDecRef(t, s, "k3")
	if s.Contains("k3") {
		t.Fatal("k3 must be reclaimed")
	}
	s = s.AddRef("halt")
	s = mustDecRef(t, s, "k1")
	if s.Contains("k1") {
		t.Fatal("k1 must be reclaimed")
	}
	if s.Refs("halt") != 1 {
		t.Fatalf("refs(halt) = %d, want 1", s.Refs("halt"))
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestImmutability(t *testing.T) {
	base := kstore.New[string, string]().AddRef("halt")
	ext := mustExtend(t, base, "k1", kont{Frame: "f1", Next: "halt"})

	if base.Contains("k1") {
		t.Fatal("Extend mutated its receiver")
	}
	if base.Refs("halt") != 1 {
		t.Fatalf("Extend changed the receiver's counts: refs(halt) = %d", base.Refs("halt"))
	}
	dec := mustDecRef(t, ext.AddRef("k1"), "k1")
	if dec.Contains("k1") {
		t.Fatal("DecRef to zero must remove the address")
	}
	if len(ext.Lookup("k1")) != 1 {
		t.Fatal("DecRef mutated an older store value")
	}
}

func TestSubsumes(t *testing.T) {
	small := kstore.New[string, string]().AddRef("halt")
	small = mustExtend(t, small, "k1", kont{Frame: "f1", Next: "halt"})

	big := mustExtend(t, small, "k1", kont{Frame: "f2", Next: "halt"})

	if !big.Subsumes(small) {
		t.Fatal("superset store must subsume subset")
	}
	if small.Subsumes(big) {
		t.Fatal("subset store must not subsume superset")
	}
	if !small.Subsumes(small) || !big.Subsumes(big) {
		t.Fatal("subsumption must be reflexive")
	}
}

func TestInReverseIndex(t *testing.T) {
	s := kstore.New[string, string]().AddRef("halt")
	s = mustExtend(t, s, "k1", kont{Frame: "f1", Next: "halt"})
	s = mustExtend(t, s, "k2", kont{Frame: "f2", Next: "halt"})

	in := s.In("halt")
	if len(in) != 2 {
		t.Fatalf("In(halt) = %v, want k1 and k2", in)
	}
	found := map[string]bool{}
	for _, k := range in {
		found[k] = true
	}
	if !found["k1"] || !found["k2"] {
		t.Fatalf("In(halt) = %v, want k1 and k2", in)
	}
}
