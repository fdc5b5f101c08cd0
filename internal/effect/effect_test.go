// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	"github.com/abstractmachine/aam/internal/effect"
)

// Ask is an effect operation that requests a value.
type Ask struct{}

func (Ask) OpResult() int { panic("phantom") }

// Tell is an effect operation that outputs a value.
type Tell struct{ Value int }

func (Tell) OpResult() struct{} { panic("phantom") }

// Get is an effect operation for reading state.
type Get struct{}

func (Get) OpResult() int { panic("phantom") }

// Put is an effect operation for writing state.
type Put struct{ Value int }

func (Put) OpResult() struct{} { panic("phantom") }

func TestPerformHandle(t *testing.T) {
	// Computation that asks for a value and doubles it
	comp := effect.Bind(
		effect.Perform(Ask{}),
		func(x int) effect.Cont[effect.Resumed, int] {
			return effect.Return[effect.Resumed](x * 2)
		},
	)

	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		switch op.(type) {
		case Ask:
			return 21, true // resume with 21
		default:
			panic("unhandled effect")
		}
	})

	got := effect.Handle(comp, handler)
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestPerformHandleMultiple(t *testing.T) {
	// Computation with multiple effects
	comp := effect.Bind(
		effect.Perform(Ask{}),
		func(x int) effect.Cont[effect.Resumed, int] {
			return effect.Bind(
				effect.Perform(Ask{}),
				func(y int) effect.Cont[effect.Resumed, int] {
					return effect.Return[effect.Resumed](x + y)
				},
			)
		},
	)

	callCount := 0
	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		switch op.(type) {
		case Ask:
			callCount++
			return callCount * 10, true // 10, then 20
		default:
			panic("unhandled effect")
		}
	})

	got := effect.Handle(comp, handler)
	if got != 30 {
		t.Fatalf("got %d, want 30 (10 + 20)", got)
	}
	if callCount != 2 {
		t.Fatalf("handler called %d times, want 2", callCount)
	}
}

func TestHandleNoEffect(t *testing.T) {
	// Computation with no effects
	comp := effect.Return[effect.Resumed, int](42)

	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		panic("should not be called")
	})

	got := effect.Handle(comp, handler)
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestStateEffect(t *testing.T) {
	// State monad via effects
	// Bind(Get, func(s) Then(Put(s+1), Get))
	comp := effect.Bind(
		effect.Perform(Get{}),
		func(s int) effect.Cont[effect.Resumed, int] {
			return effect.Bind(
				effect.Perform(Put{Value: s + 1}),
				func(_ struct{}) effect.Cont[effect.Resumed, int] {
					return effect.Perform(Get{})
				},
			)
		},
	)

	// State handler
	state := 10
	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		switch e := op.(type) {
		case Get:
			_ = e
			return state, true
		case Put:
			state = e.Value
			return struct{}{}, true
		default:
			panic("unhandled effect")
		}
	})

	got := effect.Handle(comp, handler)
	if got != 11 {
		t.Fatalf("got %d, want 11", got)
	}
	if state != 11 {
		t.Fatalf("state is %d, want 11", state)
	}
}

func TestHandleFuncType(t *testing.T) {
	// Verify HandleFunc returns a concrete handler type
	h := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		return 0, true
	})
	// Verify it can be used with Handle
	comp := effect.Return[effect.Resumed, int](42)
	got := effect.Handle(comp, h)
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestMixedEffects(t *testing.T) {
	// Computation mixing Ask and Tell effects
	comp := effect.Bind(
		effect.Perform(Ask{}),
		func(x int) effect.Cont[effect.Resumed, int] {
			return effect.Bind(
				effect.Perform(Tell{Value: x}),
				func(_ struct{}) effect.Cont[effect.Resumed, int] {
					return effect.Return[effect.Resumed](x * 2)
				},
			)
		},
	)

	told := 0
	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		switch e := op.(type) {
		case Ask:
			_ = e
			return 5, true
		case Tell:
			told = e.Value
			return struct{}{}, true
		default:
			panic("unhandled effect")
		}
	})

	got := effect.Handle(comp, handler)
	if got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
	if told != 5 {
		t.Fatalf("told %d, want 5", told)
	}
}

func TestPureEquivalentToReturn(t *testing.T) {
	// Pure should behave identically to Return
	comp1 := effect.Pure(42)
	comp2 := effect.Return[effect.Resumed, int](42)

	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		panic("should not be called")
	})

	got1 := effect.Handle(comp1, handler)
	got2 := effect.Handle(comp2, handler)

	if got1 != got2 {
		t.Fatalf("Pure(%d) != Return(%d)", got1, got2)
	}
}

func TestBindEffectChain(t *testing.T) {
	// Test a longer chain of Bind
	comp := effect.Bind(
		effect.Return[effect.Resumed, int](1),
		func(a int) effect.Cont[effect.Resumed, int] {
			return effect.Bind(
				effect.Return[effect.Resumed, int](a+1),
				func(b int) effect.Cont[effect.Resumed, int] {
					return effect.Bind(
						effect.Return[effect.Resumed, int](b+1),
						func(c int) effect.Cont[effect.Resumed, int] {
							return effect.Return[effect.Resumed](c + 1)
						},
					)
				},
			)
		},
	)

	handler := effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
		panic("should not be called")
	})

	got := effect.Handle(comp, handler)
	if got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}
