// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package scheme supplies the reference surface language for the engine:
// a small Scheme-like core (numbers, booleans, lambdas, let, letrec, if,
// applications, a handful of primitives) with an abstract value lattice
// and a semantics implementing [aam.Semantics]. The engine core never
// depends on this package; it exists for the command-line front-end and
// the end-to-end tests.
package scheme

import (
	"fmt"
	"strings"
)

// ExprKind discriminates expression forms.
type ExprKind uint8

const (
	ExprNum ExprKind = iota
	ExprBool
	ExprNil
	ExprSym
	ExprLambda
	ExprLet
	ExprLetrec
	ExprIf
	ExprApp
)

// Expr is a parsed expression. Expressions are allocated once by the
// reader and referenced by pointer everywhere after, so pointer equality
// is node identity.
//
// Kids usage per kind: Lambda body is Kids[0]; Let and Letrec hold
// Kids[0]=bound expression, Kids[1]=body; If holds condition, consequent,
// alternative; App holds the operator followed by at most two operands.
type Expr struct {
	Kind  ExprKind
	Num   int64
	Bool  bool
	Sym   string
	Param string
	Kids  []*Expr
}

func (e *Expr) String() string {
	switch e.Kind {
	case ExprNum:
		return fmt.Sprint(e.Num)
	case ExprBool:
		if e.Bool {
			return "#t"
		}
		return "#f"
	case ExprNil:
		return "'()"
	case ExprSym:
		return e.Sym
	case ExprLambda:
		return fmt.Sprintf("(lambda (%s) %s)", e.Param, e.Kids[0])
	case ExprLet:
		return fmt.Sprintf("(let ((%s %s)) %s)", e.Param, e.Kids[0], e.Kids[1])
	case ExprLetrec:
		return fmt.Sprintf("(letrec ((%s %s)) %s)", e.Param, e.Kids[0], e.Kids[1])
	case ExprIf:
		return fmt.Sprintf("(if %s %s %s)", e.Kids[0], e.Kids[1], e.Kids[2])
	case ExprApp:
		parts := make([]string, len(e.Kids))
		for i, kid := range e.Kids {
			parts[i] = kid.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "#<expr>"
	}
}
