// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheme

import (
	"fmt"
	"sort"
	"strings"
)

type numKind uint8

const (
	numNone numKind = iota
	numConst
	numAny
)

// numAbs is the flat abstraction of integers: nothing, one constant, or
// any integer.
type numAbs struct {
	kind numKind
	c    int64
}

const (
	boolTrue  uint8 = 1 << iota // #t may flow here
	boolFalse                   // #f may flow here
)

// Value is an abstract Scheme value: the join of independent facets for
// numbers, booleans, the empty list, closures, and primitives. The zero
// Value is bottom. Closure and primitive sets are kept as canonical
// sorted id strings so Value stays comparable and usable inside frames.
type Value struct {
	num   numAbs
	bools uint8
	null  bool
	clos  string
	prims string
}

// NumValue abstracts a single integer constant.
func NumValue(n int64) Value { return Value{num: numAbs{kind: numConst, c: n}} }

// AnyNum is the abstraction of every integer.
func AnyNum() Value { return Value{num: numAbs{kind: numAny}} }

// BoolValue abstracts one boolean constant.
func BoolValue(b bool) Value {
	if b {
		return Value{bools: boolTrue}
	}
	return Value{bools: boolFalse}
}

// AnyBool is the abstraction of both booleans.
func AnyBool() Value { return Value{bools: boolTrue | boolFalse} }

// NilValue abstracts the empty list.
func NilValue() Value { return Value{null: true} }

func primValue(name string) Value { return Value{prims: "," + name + ","} }

func closValue(id int) Value { return Value{clos: fmt.Sprintf(",%d,", id)} }

// IsBottom reports whether no value can flow here.
func (v Value) IsBottom() bool { return v == Value{} }

// Const returns the single integer constant, if the numeric facet is one.
func (v Value) Const() (int64, bool) { return v.num.c, v.num.kind == numConst }

// mayTrue reports whether the value can be truthy. Everything except #f
// is truthy.
func (v Value) mayTrue() bool {
	return v.bools&boolTrue != 0 || v.num.kind != numNone || v.null ||
		v.clos != "" || v.prims != ""
}

// mayFalse reports whether the value can be #f.
func (v Value) mayFalse() bool { return v.bools&boolFalse != 0 }

func (v Value) String() string {
	if v.IsBottom() {
		return "⊥"
	}
	var parts []string
	switch v.num.kind {
	case numConst:
		parts = append(parts, fmt.Sprint(v.num.c))
	case numAny:
		parts = append(parts, "int")
	}
	if v.bools&boolTrue != 0 {
		parts = append(parts, "#t")
	}
	if v.bools&boolFalse != 0 {
		parts = append(parts, "#f")
	}
	if v.null {
		parts = append(parts, "'()")
	}
	for _, id := range splitSet(v.clos) {
		parts = append(parts, "#<closure:"+id+">")
	}
	for _, name := range splitSet(v.prims) {
		parts = append(parts, "#<prim:"+name+">")
	}
	return strings.Join(parts, "|")
}

// splitSet decodes a canonical ",a,b," set string.
func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.Trim(s, ","), ",")
}

// joinSets unions two canonical set strings.
func joinSets(a, b string) string {
	if a == b || b == "" {
		return a
	}
	if a == "" {
		return b
	}
	seen := map[string]bool{}
	for _, x := range splitSet(a) {
		seen[x] = true
	}
	for _, x := range splitSet(b) {
		seen[x] = true
	}
	all := make([]string, 0, len(seen))
	for x := range seen {
		all = append(all, x)
	}
	sort.Strings(all)
	return "," + strings.Join(all, ",") + ","
}

// supersetOf reports whether every element of b's set is in a's.
func supersetOf(a, b string) bool {
	if b == "" {
		return true
	}
	for _, x := range splitSet(b) {
		if !strings.Contains(a, ","+x+",") {
			return false
		}
	}
	return true
}

// Lat is the lattice.Lattice instance for Value.
type Lat struct{}

func (Lat) Bottom() Value { return Value{} }

func (Lat) Join(x, y Value) Value {
	var num numAbs
	switch {
	case x.num.kind == numNone:
		num = y.num
	case y.num.kind == numNone:
		num = x.num
	case x.num.kind == numConst && y.num.kind == numConst && x.num.c == y.num.c:
		num = x.num
	default:
		num = numAbs{kind: numAny}
	}
	return Value{
		num:   num,
		bools: x.bools | y.bools,
		null:  x.null || y.null,
		clos:  joinSets(x.clos, y.clos),
		prims: joinSets(x.prims, y.prims),
	}
}

func (Lat) Subsumes(x, y Value) bool {
	switch {
	case y.num.kind == numNone:
	case x.num.kind == numAny:
	case x.num.kind == numConst && y.num.kind == numConst && x.num.c == y.num.c:
	default:
		return false
	}
	return x.bools&y.bools == y.bools &&
		(x.null || !y.null) &&
		supersetOf(x.clos, y.clos) &&
		supersetOf(x.prims, y.prims)
}
