// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "fmt"

type kaddrKind uint8

const (
	haltAddr kaddrKind = iota
	normalAddr
)

// KAddr is a continuation address: either the Halt sentinel rooting every
// exploration, or Normal(expr, time) identifying the continuation awaiting
// the value of expr, allocated at the given timestamp. The zero KAddr is
// Halt.
//
// Two addresses are equal iff their constructors and payloads are equal,
// which is exactly Go's == on this type.
type KAddr[E comparable, T comparable] struct {
	kind kaddrKind
	expr E
	time T
}

// Halt returns the root continuation address.
func Halt[E comparable, T comparable]() KAddr[E, T] { return KAddr[E, T]{} }

// Normal returns the continuation address for the frame awaiting expr,
// allocated at time t.
func Normal[E comparable, T comparable](expr E, t T) KAddr[E, T] {
	return KAddr[E, T]{kind: normalAddr, expr: expr, time: t}
}

// IsHalt reports whether k is the root sentinel.
func (k KAddr[E, T]) IsHalt() bool { return k.kind == haltAddr }

// Site returns the expression and timestamp of a Normal address. The
// boolean is false for Halt.
func (k KAddr[E, T]) Site() (E, T, bool) {
	return k.expr, k.time, k.kind == normalAddr
}

func (k KAddr[E, T]) String() string {
	if k.kind == haltAddr {
		return "halt"
	}
	return fmt.Sprintf("κ(%v, %v)", k.expr, k.time)
}
