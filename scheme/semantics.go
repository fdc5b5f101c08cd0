// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abstractmachine/aam/aam"
	"github.com/abstractmachine/aam/lattice"
	"github.com/abstractmachine/aam/vstore"
)

// Concrete instantiations of the machine's domain parameters.
type (
	// Time is the one-call-site timestamp.
	Time = lattice.CallSite[*Expr]
	// Addr is a variable name paired with its binding time.
	Addr = lattice.VarAddr[Time]
	// Env maps names to addresses.
	Env = aam.Env[Addr]
	// Store is the value store over this language's domains.
	Store = vstore.Store[Addr, Value]
	// Action is the machine action alphabet over this language's domains.
	Action = aam.Action[Value, Addr, *Expr, Frame]
	// State is a machine state over this language's domains.
	State = aam.State[Value, Addr, Time, *Expr, Frame]
	// Machine is the abstract machine over this language's domains.
	Machine = aam.Machine[Value, Addr, Time, *Expr, Frame]
)

// Clock is the clock the language runs under.
var Clock lattice.Clock[Time, *Expr] = lattice.OneCFA[*Expr]{}

type frameKind uint8

const (
	frLet frameKind = iota
	frLetrec
	frIf
	frRator
	frRand1
	frRand2
)

// Frame is a defunctionalized continuation frame. Environments are held
// by interned id so frames stay comparable.
type Frame struct {
	kind frameKind
	name string
	addr Addr
	e1   *Expr
	e2   *Expr
	call *Expr
	env  int
	fn   Value
	arg0 Value
}

func (f Frame) String() string {
	switch f.kind {
	case frLet:
		return fmt.Sprintf("let %s", f.name)
	case frLetrec:
		return fmt.Sprintf("letrec %s", f.name)
	case frIf:
		return "if"
	case frRator:
		return "rator"
	case frRand1:
		return "rand1"
	default:
		return "rand2"
	}
}

// primNames are the built-in procedures.
var primNames = map[string]bool{
	"+": true, "-": true, "*": true, "<": true, "=": true, "car": true,
}

// Semantics implements aam.Semantics for the language. It owns the
// environment and closure interning tables, which only ever grow; the
// machine core treats it as an opaque transition relation.
type Semantics struct {
	globalEnv   []aam.Binding[Addr]
	globalCells []aam.Cell[Addr, Value]

	envKeys map[string]int
	envs    []Env

	closKeys map[closKey]int
	clos     []closure
}

type closure struct {
	lam *Expr
	env int
}

type closKey struct {
	lam *Expr
	env int
}

// NewSemantics builds a semantics with the given global bindings in its
// initial environment, in name order.
func NewSemantics(globals map[string]Value) *Semantics {
	s := &Semantics{
		envKeys:  map[string]int{},
		closKeys: map[closKey]int{},
	}
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := lattice.BindAddr(name, Time{})
		s.globalEnv = append(s.globalEnv, aam.Binding[Addr]{Name: name, Addr: a})
		s.globalCells = append(s.globalCells, aam.Cell[Addr, Value]{Addr: a, Value: globals[name]})
	}
	return s
}

// NewMachine couples a fresh semantics with the language's lattice and
// clock.
func NewMachine(globals map[string]Value) *Machine {
	return aam.New[Value, Addr, Time, *Expr, Frame](Lat{}, Clock, NewSemantics(globals))
}

func (s *Semantics) InitialEnv() []aam.Binding[Addr] { return s.globalEnv }

func (s *Semantics) InitialStore() []aam.Cell[Addr, Value] { return s.globalCells }

// internEnv returns the stable id of env's binding set.
func (s *Semantics) internEnv(env Env) int {
	var parts []string
	env.All(func(name string, a Addr) bool {
		parts = append(parts, name+"="+a.String())
		return true
	})
	sort.Strings(parts)
	key := strings.Join(parts, ";")
	if id, ok := s.envKeys[key]; ok {
		return id
	}
	id := len(s.envs)
	s.envKeys[key] = id
	s.envs = append(s.envs, env)
	return id
}

func (s *Semantics) envOf(id int) Env { return s.envs[id] }

// internClos returns the value abstracting lam closed over env.
func (s *Semantics) internClos(lam *Expr, env Env) Value {
	key := closKey{lam: lam, env: s.internEnv(env)}
	if id, ok := s.closKeys[key]; ok {
		return closValue(id)
	}
	id := len(s.clos)
	s.closKeys[key] = id
	s.clos = append(s.clos, closure{lam: lam, env: key.env})
	return closValue(id)
}

func rv(v Value, store Store) Action {
	return aam.ReachedValue[Value, Addr, *Expr, Frame]{Value: v, Store: store}
}

func evalNext(e *Expr, env Env, store Store) Action {
	return aam.Eval[Value, Addr, *Expr, Frame]{Expr: e, Env: env, Store: store}
}

func push(f Frame, e *Expr, env Env, store Store) Action {
	return aam.Push[Value, Addr, *Expr, Frame]{Frame: f, Expr: e, Env: env, Store: store}
}

func fail(msg string) Action {
	return aam.Fail[Value, Addr, *Expr, Frame]{Err: msg}
}

func (s *Semantics) StepEval(e *Expr, env Env, store Store, t Time) []Action {
	switch e.Kind {
	case ExprNum:
		return []Action{rv(NumValue(e.Num), store)}

	case ExprBool:
		return []Action{rv(BoolValue(e.Bool), store)}

	case ExprNil:
		return []Action{rv(NilValue(), store)}

	case ExprSym:
		if primNames[e.Sym] {
			return []Action{rv(primValue(e.Sym), store)}
		}
		a, ok := env.Lookup(e.Sym)
		if !ok {
			return []Action{fail("unbound variable: " + e.Sym)}
		}
		return []Action{rv(store.Lookup(a), store)}

	case ExprLambda:
		return []Action{rv(s.internClos(e, env), store)}

	case ExprLet:
		f := Frame{kind: frLet, name: e.Param, e1: e.Kids[1], env: s.internEnv(env)}
		return []Action{push(f, e.Kids[0], env, store)}

	case ExprLetrec:
		a := lattice.BindAddr(e.Param, t)
		env2 := env.Extend(e.Param, a)
		f := Frame{kind: frLetrec, name: e.Param, addr: a, e1: e.Kids[1], env: s.internEnv(env2)}
		return []Action{push(f, e.Kids[0], env2, store)}

	case ExprIf:
		f := Frame{kind: frIf, e1: e.Kids[1], e2: e.Kids[2], env: s.internEnv(env)}
		return []Action{push(f, e.Kids[0], env, store)}

	case ExprApp:
		f := Frame{kind: frRator, call: e, env: s.internEnv(env)}
		if len(e.Kids) > 1 {
			f.e1 = e.Kids[1]
		}
		if len(e.Kids) > 2 {
			f.e2 = e.Kids[2]
		}
		return []Action{push(f, e.Kids[0], env, store)}

	default:
		return []Action{fail("cannot evaluate expression")}
	}
}

func (s *Semantics) StepKont(v Value, f Frame, store Store, t Time) []Action {
	switch f.kind {
	case frLet:
		a := lattice.BindAddr(f.name, t)
		env2 := s.envOf(f.env).Extend(f.name, a)
		return []Action{evalNext(f.e1, env2, store.Extend(a, v))}

	case frLetrec:
		return []Action{evalNext(f.e1, s.envOf(f.env), store.Extend(f.addr, v))}

	case frIf:
		var acts []Action
		if v.mayTrue() {
			acts = append(acts, evalNext(f.e1, s.envOf(f.env), store))
		}
		if v.mayFalse() {
			acts = append(acts, evalNext(f.e2, s.envOf(f.env), store))
		}
		return acts

	case frRator:
		if f.e1 == nil {
			return s.apply(v, nil, store, t, f.call)
		}
		next := Frame{kind: frRand1, fn: v, e2: f.e2, call: f.call, env: f.env}
		return []Action{push(next, f.e1, s.envOf(f.env), store)}

	case frRand1:
		if f.e2 == nil {
			return s.apply(f.fn, []Value{v}, store, t, f.call)
		}
		next := Frame{kind: frRand2, fn: f.fn, arg0: v, call: f.call, env: f.env}
		return []Action{push(next, f.e2, s.envOf(f.env), store)}

	case frRand2:
		return s.apply(f.fn, []Value{f.arg0, v}, store, t, f.call)

	default:
		return []Action{fail("unknown continuation frame")}
	}
}

// apply dispatches an application over every procedure facet of fn. A
// value that may be several procedures (or not a procedure at all) yields
// one action per possibility.
func (s *Semantics) apply(fn Value, args []Value, store Store, t Time, call *Expr) []Action {
	var acts []Action

	for _, name := range splitSet(fn.prims) {
		acts = append(acts, s.applyPrim(name, args, store)...)
	}

	for _, idStr := range splitSet(fn.clos) {
		id, _ := strconv.Atoi(idStr)
		clo := s.clos[id]
		if len(args) != 1 {
			acts = append(acts, fail(fmt.Sprintf("procedure %s takes one argument, got %d", clo.lam, len(args))))
			continue
		}
		t2 := Clock.TickCall(t, call)
		a := lattice.BindAddr(clo.lam.Param, t2)
		env2 := s.envOf(clo.env).Extend(clo.lam.Param, a)
		acts = append(acts, aam.StepIn[Value, Addr, *Expr, Frame]{
			CallSite: call,
			Function: fn,
			Expr:     clo.lam.Kids[0],
			Env:      env2,
			Store:    store.Extend(a, args[0]),
			Hint:     clo.lam.String(),
		})
	}

	if fn.num.kind != numNone || fn.bools != 0 || fn.null {
		acts = append(acts, fail("application of non-procedure"))
	}
	return acts
}

func (s *Semantics) applyPrim(name string, args []Value, store Store) []Action {
	switch name {
	case "+", "-", "*":
		return arith(name, args, store)
	case "<", "=":
		return compare(name, args, store)
	case "car":
		if len(args) != 1 {
			return []Action{fail("car takes one argument")}
		}
		var acts []Action
		if args[0].null {
			acts = append(acts, fail("car: empty list"))
		}
		if args[0].num.kind != numNone || args[0].bools != 0 ||
			args[0].clos != "" || args[0].prims != "" {
			acts = append(acts, fail("car: not a pair"))
		}
		return acts
	default:
		return []Action{fail("unknown primitive: " + name)}
	}
}

func numFacets(args []Value) (a, b numAbs, ok bool) {
	if len(args) != 2 {
		return a, b, false
	}
	a, b = args[0].num, args[1].num
	return a, b, a.kind != numNone && b.kind != numNone
}

func arith(name string, args []Value, store Store) []Action {
	a, b, ok := numFacets(args)
	if !ok {
		return []Action{fail(name + ": expected two numbers")}
	}
	if a.kind == numConst && b.kind == numConst {
		var n int64
		switch name {
		case "+":
			n = a.c + b.c
		case "-":
			n = a.c - b.c
		default:
			n = a.c * b.c
		}
		return []Action{rv(NumValue(n), store)}
	}
	return []Action{rv(AnyNum(), store)}
}

func compare(name string, args []Value, store Store) []Action {
	a, b, ok := numFacets(args)
	if !ok {
		return []Action{fail(name + ": expected two numbers")}
	}
	if a.kind == numConst && b.kind == numConst {
		var r bool
		if name == "<" {
			r = a.c < b.c
		} else {
			r = a.c == b.c
		}
		return []Action{rv(BoolValue(r), store)}
	}
	return []Action{rv(AnyBool(), store)}
}
