// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"slices"
	"testing"

	"github.com/abstractmachine/aam/internal/effect"
)

func TestWriterTell(t *testing.T) {
	comp := effect.TellWriter("hello", effect.TellWriter("world", effect.Return[effect.Resumed](42)))

	result, logs := effect.RunWriter[string, int](comp)
	if result != 42 {
		t.Fatalf("got result %d, want 42", result)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}
	if logs[0] != "hello" || logs[1] != "world" {
		t.Fatalf("got logs %v, want [hello world]", logs)
	}
}

func TestWriterExec(t *testing.T) {
	comp := effect.TellWriter("log1", effect.TellWriter("log2", effect.Return[effect.Resumed]("result")))

	logs := effect.ExecWriter[string, string](comp)
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}
}

func TestWriterNoLogs(t *testing.T) {
	comp := effect.Return[effect.Resumed, int](42)

	result, logs := effect.RunWriter[string, int](comp)
	if result != 42 {
		t.Fatalf("got result %d, want 42", result)
	}
	if len(logs) != 0 {
		t.Fatalf("got %d logs, want 0", len(logs))
	}
}

func TestWriterIntLogs(t *testing.T) {
	comp := effect.TellWriter(1, effect.TellWriter(2, effect.TellWriter(3, effect.Return[effect.Resumed](6))))

	result, logs := effect.RunWriter[int, int](comp)
	if result != 6 {
		t.Fatalf("got result %d, want 6", result)
	}
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3", len(logs))
	}
	sum := 0
	for _, n := range logs {
		sum += n
	}
	if sum != 6 {
		t.Fatalf("sum of logs is %d, want 6", sum)
	}
}

func TestWriterChained(t *testing.T) {
	// Multiple tells in a row
	comp := effect.TellWriter("a", effect.TellWriter("b", effect.TellWriter("c", effect.Return[effect.Resumed](struct{}{}))))

	_, logs := effect.RunWriter[string, struct{}](comp)
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3", len(logs))
	}
	expected := []string{"a", "b", "c"}
	for i, log := range slices.All(logs) {
		if log != expected[i] {
			t.Fatalf("log[%d] = %q, want %q", i, log, expected[i])
		}
	}
}

// TestListenWriterWithConcreteType tests that Listen works with concrete type parameters.
// This validates the dispatch pattern fix: Listen[W, A] for any A has its own
// DispatchWriter method, avoiding the type switch limitation where case
// Listen[W, any] wouldn't match Listen[W, int].
func TestListenWriterWithConcreteType(t *testing.T) {
	// Inner computation returns int (concrete type)
	inner := effect.TellWriter("inner-log", effect.Return[effect.Resumed](42))

	// Listen observes the inner computation's output
	comp := effect.TellWriter("outer-before",
		effect.Bind(
			effect.ListenWriter[string, int](inner),
			func(pair effect.Pair[int, []string]) effect.Cont[effect.Resumed, effect.Pair[int, []string]] {
				return effect.TellWriter("outer-after", effect.Return[effect.Resumed](pair))
			},
		),
	)

	result, logs := effect.RunWriter[string, effect.Pair[int, []string]](comp)

	// Check result value
	if result.Fst != 42 {
		t.Fatalf("got result %d, want 42", result.Fst)
	}

	// Check listened output (only inner-log)
	if len(result.Snd) != 1 || result.Snd[0] != "inner-log" {
		t.Fatalf("listened output = %v, want [inner-log]", result.Snd)
	}

	// Check total logs (outer-before, inner-log, outer-after)
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3: %v", len(logs), logs)
	}
	expected := []string{"outer-before", "inner-log", "outer-after"}
	for i, log := range slices.All(logs) {
		if log != expected[i] {
			t.Fatalf("log[%d] = %q, want %q", i, log, expected[i])
		}
	}
}

// TestCensorWriterWithConcreteType tests that Censor works with concrete type parameters.
// This validates the dispatch pattern fix for Censor[W, A].
func TestCensorWriterWithConcreteType(t *testing.T) {
	// Inner computation returns string (concrete type)
	inner := effect.TellWriter("secret", effect.TellWriter("password", effect.Return[effect.Resumed]("result")))

	// Censor redacts certain words
	redact := func(logs []string) []string {
		result := make([]string, len(logs))
		for i, log := range slices.All(logs) {
			if log == "secret" || log == "password" {
				result[i] = "[REDACTED]"
			} else {
				result[i] = log
			}
		}
		return result
	}

	comp := effect.TellWriter("before",
		effect.Bind(
			effect.CensorWriter[string, string](redact, inner),
			func(result string) effect.Cont[effect.Resumed, string] {
				return effect.TellWriter("after", effect.Return[effect.Resumed](result))
			},
		),
	)

	result, logs := effect.RunWriter[string, string](comp)

	// Check result value
	if result != "result" {
		t.Fatalf("got result %q, want %q", result, "result")
	}

	// Check logs are censored
	if len(logs) != 4 {
		t.Fatalf("got %d logs, want 4: %v", len(logs), logs)
	}
	expected := []string{"before", "[REDACTED]", "[REDACTED]", "after"}
	for i, log := range slices.All(logs) {
		if log != expected[i] {
			t.Fatalf("log[%d] = %q, want %q", i, log, expected[i])
		}
	}
}

// TestListenNestedWithConcreteTypes tests nested Listen with different concrete types.
func TestListenNestedWithConcreteTypes(t *testing.T) {
	// Innermost returns bool
	innermost := effect.TellWriter(1, effect.Return[effect.Resumed](true))

	// Middle returns Pair[bool, []int]
	middle := effect.ListenWriter[int, bool](innermost)

	// Outer returns Pair[Pair[bool, []int], []int]
	outer := effect.TellWriter(2,
		effect.Bind(
			middle,
			func(p effect.Pair[bool, []int]) effect.Cont[effect.Resumed, effect.Pair[bool, []int]] {
				return effect.TellWriter(3, effect.Return[effect.Resumed](p))
			},
		),
	)

	result, logs := effect.RunWriter[int, effect.Pair[bool, []int]](outer)

	// Check inner result
	if result.Fst != true {
		t.Fatalf("inner result = %v, want true", result.Fst)
	}

	// Check listened logs (only 1 from innermost)
	if len(result.Snd) != 1 || result.Snd[0] != 1 {
		t.Fatalf("listened = %v, want [1]", result.Snd)
	}

	// Check total logs [2, 1, 3]
	if len(logs) != 3 {
		t.Fatalf("logs = %v, want [2, 1, 3]", logs)
	}
}
