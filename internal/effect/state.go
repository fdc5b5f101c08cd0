// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// The State effect threads one mutable cell of type S through a
// computation. The explorer keeps its worklist, visited buckets, and
// halted set in this cell: the loop body Gets the search state, works
// on a copy, and Puts the result back, so the fixpoint algorithm reads
// as straight-line code while the handler owns the actual cell.

// Get asks for the current state.
type Get[S any] struct{}

func (Get[S]) OpResult() S { panic("phantom") }

// DispatchState answers Get with the cell's contents.
func (Get[S]) DispatchState(state *S) (Resumed, bool) {
	return *state, true
}

// Put replaces the current state.
type Put[S any] struct{ Value S }

func (Put[S]) OpResult() struct{} { panic("phantom") }

// DispatchState overwrites the cell for Put.
func (o Put[S]) DispatchState(state *S) (Resumed, bool) {
	*state = o.Value
	return struct{}{}, true
}

// Modify applies a function to the state and resumes with the result.
type Modify[S any] struct{ F func(S) S }

func (Modify[S]) OpResult() S { panic("phantom") }

// DispatchState rewrites the cell for Modify.
func (o Modify[S]) DispatchState(state *S) (Resumed, bool) {
	*state = o.F(*state)
	return *state, true
}

// GetState performs Get and hands the state straight to f, fusing the
// Perform+Bind pair into one pooled marker.
func GetState[S, B any](f func(S) Cont[Resumed, B]) Cont[Resumed, B] {
	return func(k func(B) Resumed) Resumed {
		m := takeMarker()
		m.op = Get[S]{}
		m.f = f
		m.k = k
		m.resume = resumeBind[S, B]
		return m
	}
}

// PutState performs Put and continues with next, fused likewise.
func PutState[S, B any](s S, next Cont[Resumed, B]) Cont[Resumed, B] {
	return func(k func(B) Resumed) Resumed {
		m := takeMarker()
		m.op = Put[S]{Value: s}
		m.f = next
		m.k = k
		m.resume = resumeThen[B]
		return m
	}
}

// ModifyState performs Modify and hands the new state to then.
func ModifyState[S, B any](f func(S) S, then func(S) Cont[Resumed, B]) Cont[Resumed, B] {
	return func(k func(B) Resumed) Resumed {
		m := takeMarker()
		m.op = Modify[S]{F: f}
		m.f = then
		m.k = k
		m.resume = resumeBind[S, B]
		return m
	}
}

// stateRunner interprets the State operations against one cell.
type stateRunner[S, R any] struct {
	state *S
}

// Dispatch matches any operation carrying a DispatchState method for
// this cell type, so the same runner serves Get, Put, and Modify.
func (h *stateRunner[S, R]) Dispatch(op Operation) (Resumed, bool) {
	if sop, ok := op.(interface {
		DispatchState(state *S) (Resumed, bool)
	}); ok {
		return sop.DispatchState(h.state)
	}
	unhandledEffect("StateHandler")
	return nil, false
}

// StateHandler returns a State runner over a fresh cell holding
// initial, plus an accessor for the cell's current contents.
func StateHandler[S, R any](initial S) (*stateRunner[S, R], func() S) {
	state := initial
	h := &stateRunner[S, R]{state: &state}
	return h, func() S { return state }
}

// RunState runs m with the State effect and returns its value together
// with the final state.
func RunState[S, A any](initial S, m Cont[Resumed, A]) (A, S) {
	state := initial
	h := &stateRunner[S, A]{state: &state}
	result := Handle(m, h)
	return result, state
}

// EvalState runs m and keeps only its value.
func EvalState[S, A any](initial S, m Cont[Resumed, A]) A {
	result, _ := RunState[S, A](initial, m)
	return result
}

// ExecState runs m and keeps only the final state.
func ExecState[S, A any](initial S, m Cont[Resumed, A]) S {
	_, state := RunState[S, A](initial, m)
	return state
}
