// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kstore

import "fmt"

// InvariantError reports a violated continuation-store invariant. These
// indicate a programmer error in the semantics or in the machine driving
// the store, never an analyzed-program error, and are returned as values
// rather than panics so the engine stays embeddable.
//
// Invariant tags:
//
//	K1 — every stored address has a positive reference count
//	K2 — every stored continuation's parent edge is indexed
//	K3 — dropping the last reference removes the address and cascades
//	K4 — the current root address is present in the store
type InvariantError struct {
	Invariant string
	Op        string
	Addr      string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("kstore: invariant %s violated in %s at %s", e.Invariant, e.Op, e.Addr)
}

func violation(invariant, op string, addr any) *InvariantError {
	return &InvariantError{Invariant: invariant, Op: op, Addr: fmt.Sprint(addr)}
}
