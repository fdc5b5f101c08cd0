// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"fmt"

	"github.com/abstractmachine/aam/lattice"
)

// Kind discriminates the three control variants.
type Kind uint8

const (
	// KindEval — about to evaluate an expression in an environment.
	KindEval Kind = iota
	// KindKont — returning a value to the current continuation.
	KindKont
	// KindError — a semantic error; terminal.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEval:
		return "eval"
	case KindKont:
		return "kont"
	default:
		return "error"
	}
}

// Control is the machine's control component: an evaluation point, a
// return point, or an error.
type Control[V any, A comparable, E comparable] struct {
	kind Kind
	expr E
	env  Env[A]
	val  V
	err  string
}

// ControlEval returns an evaluation control point.
func ControlEval[V any, A comparable, E comparable](expr E, env Env[A]) Control[V, A, E] {
	return Control[V, A, E]{kind: KindEval, expr: expr, env: env}
}

// ControlKont returns a value-return control point.
func ControlKont[V any, A comparable, E comparable](v V) Control[V, A, E] {
	return Control[V, A, E]{kind: KindKont, val: v}
}

// ControlError returns a terminal error control point.
func ControlError[V any, A comparable, E comparable](err string) Control[V, A, E] {
	return Control[V, A, E]{kind: KindError, err: err}
}

// Kind returns the control variant.
func (c Control[V, A, E]) Kind() Kind { return c.kind }

// Eval returns the expression and environment of an evaluation point.
func (c Control[V, A, E]) Eval() (E, Env[A], bool) {
	return c.expr, c.env, c.kind == KindEval
}

// Value returns the value of a return point.
func (c Control[V, A, E]) Value() (V, bool) {
	return c.val, c.kind == KindKont
}

// Err returns the payload of an error point.
func (c Control[V, A, E]) Err() (string, bool) {
	return c.err, c.kind == KindError
}

// Equal reports structural equality, with value payloads compared by the
// lattice.
func (c Control[V, A, E]) Equal(lat lattice.Lattice[V], o Control[V, A, E]) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindEval:
		return c.expr == o.expr && c.env.Equal(o.env)
	case KindKont:
		return lattice.Eq(lat, c.val, o.val)
	default:
		return c.err == o.err
	}
}

// Subsumes reports whether c carries at least as much information as o:
// evaluation points must match exactly, return points compare their
// values in the lattice, and errors compare payloads.
func (c Control[V, A, E]) Subsumes(lat lattice.Lattice[V], o Control[V, A, E]) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindEval:
		return c.expr == o.expr && c.env.Equal(o.env)
	case KindKont:
		return lat.Subsumes(c.val, o.val)
	default:
		return c.err == o.err
	}
}

func (c Control[V, A, E]) String() string {
	switch c.kind {
	case KindEval:
		return fmt.Sprintf("eval %v", c.expr)
	case KindKont:
		return fmt.Sprintf("kont %v", c.val)
	default:
		return fmt.Sprintf("error %s", c.err)
	}
}
