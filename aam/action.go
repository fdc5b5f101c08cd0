// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "github.com/abstractmachine/aam/vstore"

// Action is one element of the alphabet a semantics emits from StepEval
// and StepKont. Every value-carrying action also carries the value store
// as the semantics left it; the machine never updates the value store on
// its own.
type Action[V any, A comparable, E comparable, F comparable] interface {
	action()
}

// ReachedValue — the stepped expression (or frame) produced a value; the
// successor returns it to the current continuation.
type ReachedValue[V any, A comparable, E comparable, F comparable] struct {
	Value V
	Store vstore.Store[A, V]
}

// Push — evaluate Expr with Frame pushed onto the continuation. The
// machine allocates the frame's address as Normal(Expr, now).
type Push[V any, A comparable, E comparable, F comparable] struct {
	Frame F
	Expr  E
	Env   Env[A]
	Store vstore.Store[A, V]
}

// Eval — continue by evaluating Expr in Env, same continuation.
type Eval[V any, A comparable, E comparable, F comparable] struct {
	Expr  E
	Env   Env[A]
	Store vstore.Store[A, V]
}

// StepIn — enter a function body at a call site; like Eval but the clock
// ticks with the call site. Function and Hint are diagnostic payloads for
// externally plugged analyses; the machine preserves but never reads them.
type StepIn[V any, A comparable, E comparable, F comparable] struct {
	CallSite E
	Function V
	Expr     E
	Env      Env[A]
	Store    vstore.Store[A, V]
	Hint     string
}

// Fail — the semantics detected an error in the analyzed program; the
// successor is a terminal error state.
type Fail[V any, A comparable, E comparable, F comparable] struct {
	Err string
}

func (ReachedValue[V, A, E, F]) action() {}
func (Push[V, A, E, F]) action()         {}
func (Eval[V, A, E, F]) action()         {}
func (StepIn[V, A, E, F]) action()       {}
func (Fail[V, A, E, F]) action()         {}
