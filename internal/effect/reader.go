// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// The Reader effect supplies a read-only environment of type E. The
// explorer asks it for the machine, the options, and the start time at
// the top of every worklist iteration instead of threading them as
// parameters through the loop.

// Ask requests the environment.
type Ask[E any] struct{}

func (Ask[E]) OpResult() E { panic("phantom") }

// DispatchReader answers Ask with the environment.
func (Ask[E]) DispatchReader(env *E) (Resumed, bool) {
	return *env, true
}

// AskReader performs Ask and hands the environment straight to f,
// fused into one pooled marker like the State constructors.
func AskReader[E, B any](f func(E) Cont[Resumed, B]) Cont[Resumed, B] {
	return func(k func(B) Resumed) Resumed {
		m := takeMarker()
		m.op = Ask[E]{}
		m.f = f
		m.k = k
		m.resume = resumeBind[E, B]
		return m
	}
}

// MapReader performs Ask and applies a pure projection to the
// environment.
func MapReader[E, A any](f func(E) A) Cont[Resumed, A] {
	return func(k func(A) Resumed) Resumed {
		m := takeMarker()
		m.op = Ask[E]{}
		m.f = f
		m.k = k
		m.resume = resumeMap[E, A]
		return m
	}
}

// readerRunner interprets Ask against a fixed environment.
type readerRunner[E, R any] struct {
	env *E
}

func (h *readerRunner[E, R]) Dispatch(op Operation) (Resumed, bool) {
	if rop, ok := op.(interface{ DispatchReader(env *E) (Resumed, bool) }); ok {
		return rop.DispatchReader(h.env)
	}
	unhandledEffect("ReaderHandler")
	return nil, false
}

// ReaderHandler returns a Reader runner over env.
func ReaderHandler[E, R any](env E) *readerRunner[E, R] {
	e := env
	return &readerRunner[E, R]{env: &e}
}

// RunReader runs m with env answering every Ask.
func RunReader[E, A any](env E, m Cont[Resumed, A]) A {
	h := ReaderHandler[E, A](env)
	return Handle(m, h)
}
