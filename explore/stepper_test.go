// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package explore_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/abstractmachine/aam/explore"
	"github.com/abstractmachine/aam/scheme"
)

// Stepping through the exploration one pop at a time reaches the same
// fixed point as running it, with the same visited count and outcome.
func TestStepperMatchesRun(t *testing.T) {
	src := "(if (< x 0) 1 2)"
	globals := map[string]scheme.Value{"x": scheme.AnyNum()}

	full := runSrc(t, src, globals, explore.Options{Graph: true})

	prog, err := scheme.Parse(src)
	require.NoError(t, err)
	sp := explore.NewStepper(scheme.NewMachine(globals), prog, explore.Options{Graph: true})

	pops := 0
	for {
		_, done, err := sp.Next()
		require.NoError(t, err)
		if done {
			break
		}
		pops++
	}
	require.True(t, sp.Done())

	stepped := sp.Result()
	require.Equal(t, full.Visited, stepped.Visited)
	require.False(t, stepped.TimedOut)
	require.GreaterOrEqual(t, pops, stepped.Visited, "every visited state was popped at least once")

	fullVals := renderValues(full.FinalValues(lat))
	stepVals := renderValues(stepped.FinalValues(lat))
	sort.Strings(fullVals)
	sort.Strings(stepVals)
	if diff := cmp.Diff(fullVals, stepVals); diff != "" {
		t.Fatalf("final values differ (-run +stepper):\n%s", diff)
	}

	require.Equal(t, full.Graph.Nodes(), stepped.Graph.Nodes())
	require.Equal(t, full.Graph.Edges(), stepped.Graph.Edges())
}

// A finished stepper keeps reporting done.
func TestStepperDoneIsSticky(t *testing.T) {
	prog, err := scheme.Parse("42")
	require.NoError(t, err)
	sp := explore.NewStepper(scheme.NewMachine(nil), prog, explore.Options{})

	for {
		_, done, err := sp.Next()
		require.NoError(t, err)
		if done {
			break
		}
	}
	_, done, err := sp.Next()
	require.NoError(t, err)
	require.True(t, done)
}
