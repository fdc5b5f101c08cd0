// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package explore_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abstractmachine/aam/aam"
	"github.com/abstractmachine/aam/explore"
	"github.com/abstractmachine/aam/lattice"
	"github.com/abstractmachine/aam/scheme"
)

var lat lattice.Lattice[scheme.Value] = scheme.Lat{}

func runSrc(t *testing.T, src string, globals map[string]scheme.Value, opts explore.Options) *explore.Result[scheme.Value, scheme.Addr, scheme.Time, *scheme.Expr, scheme.Frame] {
	t.Helper()
	prog, err := scheme.Parse(src)
	require.NoError(t, err)
	res, err := explore.Run(scheme.NewMachine(globals), prog, opts)
	require.NoError(t, err)
	return res
}

func renderValues(vals []scheme.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func haltAddr() aam.KAddr[*scheme.Expr, scheme.Time] {
	return aam.Halt[*scheme.Expr, scheme.Time]()
}

func TestIdentityApplication(t *testing.T) {
	res := runSrc(t, "((lambda (x) x) 42)", nil, explore.Options{})

	vals := res.FinalValues(lat)
	require.Len(t, vals, 1)
	require.Equal(t, scheme.NumValue(42), vals[0])
	require.Empty(t, res.Errors())
	require.False(t, res.TimedOut)
	require.Greater(t, res.Visited, 0)

	// at the fixed point the halted state retains halt with exactly its
	// root reference
	require.Len(t, res.Halted, 1)
	final := res.Halted[0]
	require.Equal(t, 1, final.KStore.Refs(haltAddr()))
	require.Equal(t, 0, final.KStore.Len())
}

func TestLetBinding(t *testing.T) {
	res := runSrc(t, "(let ((y 1)) y)", nil, explore.Options{})

	require.Equal(t, []string{"1"}, renderValues(res.FinalValues(lat)))
	require.Len(t, res.Halted, 1)
	require.Equal(t, 0, res.Halted[0].KStore.Len())
	require.Equal(t, 1, res.Halted[0].KStore.Refs(haltAddr()))
}

func TestConditionalBothBranches(t *testing.T) {
	res := runSrc(t, "(if (< x 0) 1 2)", map[string]scheme.Value{"x": scheme.AnyNum()}, explore.Options{})

	joined := res.JoinedValue(lat)
	require.True(t, lat.Subsumes(joined, scheme.NumValue(1)), "joined %v must cover 1", joined)
	require.True(t, lat.Subsumes(joined, scheme.NumValue(2)), "joined %v must cover 2", joined)
	require.Len(t, res.FinalValues(lat), 2)
	require.GreaterOrEqual(t, res.Visited, 5)
}

func TestFactorialFixpoint(t *testing.T) {
	src := "(letrec ((f (lambda (n) (if (< n 1) 1 (* n (f (- n 1))))))) (f x))"
	res := runSrc(t, src, map[string]scheme.Value{"x": scheme.AnyNum()}, explore.Options{})

	require.NotEmpty(t, res.Halted, "factorial over an unknown input must reach a terminal state")
	require.False(t, res.TimedOut)
	for _, v := range res.FinalValues(lat) {
		require.False(t, v.IsBottom())
	}
}

func TestCarOfEmptyList(t *testing.T) {
	res := runSrc(t, "(car '())", nil, explore.Options{})

	require.Equal(t, []string{"car: empty list"}, res.Errors())
	require.Empty(t, res.FinalValues(lat), "no value escapes (car '())")
}

// A tail-recursive loop keeps the continuation store small no matter how
// many iterations the abstraction unrolls, while a chain of nested let
// bindings grows it with the nesting depth.
func TestTailRecursionKeepsKStoreSmall(t *testing.T) {
	tail := "(letrec ((f (lambda (n) (if (< n 1) 0 (f (- n 1)))))) (f x))"
	tailMax := maxLiveFrames(t, tail, map[string]scheme.Value{"x": scheme.AnyNum()})
	require.LessOrEqual(t, tailMax, 6, "tail loop must not accumulate frames")

	const depth = 12
	inner := "1"
	for i := depth; i > 0; i-- {
		inner = fmt.Sprintf("(let ((v%d %s)) v%d)", i, inner, i)
	}
	deepMax := maxLiveFrames(t, inner, nil)
	require.GreaterOrEqual(t, deepMax, depth, "nested lets must stack frames")
}

// maxLiveFrames steps through the whole exploration and returns the
// largest continuation store seen in any popped state.
func maxLiveFrames(t *testing.T, src string, globals map[string]scheme.Value) int {
	t.Helper()
	prog, err := scheme.Parse(src)
	require.NoError(t, err)
	sp := explore.NewStepper(scheme.NewMachine(globals), prog, explore.Options{})

	most := 0
	for {
		s, done, err := sp.Next()
		require.NoError(t, err)
		if done {
			break
		}
		if n := s.KStore.Len(); n > most {
			most = n
		}
	}
	return most
}

// Every popped state satisfies the continuation-store invariants: counts
// positive, reverse index sound, current root live.
func TestInvariantsDuringExploration(t *testing.T) {
	srcs := []string{
		"((lambda (x) x) 42)",
		"(if (< x 0) 1 2)",
		"(letrec ((f (lambda (n) (if (< n 1) 1 (* n (f (- n 1))))))) (f x))",
	}
	globals := map[string]scheme.Value{"x": scheme.AnyNum()}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			prog, err := scheme.Parse(src)
			require.NoError(t, err)
			sp := explore.NewStepper(scheme.NewMachine(globals), prog, explore.Options{})
			for {
				s, done, err := sp.Next()
				require.NoError(t, err)
				if done {
					break
				}
				require.NoError(t, s.KStore.Validate())
				require.GreaterOrEqual(t, s.KStore.Refs(s.Kont), 1, "current root must stay referenced")
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	src := "(letrec ((f (lambda (n) (f n)))) (f 1))"
	prog, err := scheme.Parse(src)
	require.NoError(t, err)

	res, err := explore.Run(scheme.NewMachine(nil), prog, explore.Options{Timeout: time.Nanosecond})
	require.NoError(t, err)
	require.True(t, res.TimedOut)
}

func TestGraphCollection(t *testing.T) {
	res := runSrc(t, "(let ((y 1)) y)", nil, explore.Options{Graph: true})
	require.NotNil(t, res.Graph)
	require.Equal(t, 5, res.Graph.Nodes())
	require.Equal(t, 4, res.Graph.Edges())

	var buf strings.Builder
	require.NoError(t, res.Graph.WriteDot(&buf))
	require.Contains(t, buf.String(), "digraph states {")
	require.Contains(t, buf.String(), "palegreen")
}

func TestGraphDisabledByDefault(t *testing.T) {
	res := runSrc(t, "(let ((y 1)) y)", nil, explore.Options{})
	require.Nil(t, res.Graph)
}
