// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Operation is the runtime type of a pending effect operation as a
// handler sees it.
type Operation any

// Resumed is the runtime type of values traveling between a suspended
// computation and its handler, in both directions.
type Resumed any

// Op constrains an effect operation to know its own concrete type and
// the type its performer will be resumed with. The self-referencing
// bound lets Perform recover both statically instead of asserting at
// run time.
type Op[O Op[O, A], A any] interface {
	OpResult() A // phantom marker; never called
}

// Phantom can be embedded in an operation struct to satisfy [Op]
// without writing the marker method by hand.
type Phantom[A any] struct{}

// OpResult implements the [Op] marker.
func (Phantom[A]) OpResult() A { panic("phantom") }

// Handler interprets effect operations. Dispatch answers with either
// (resume value, true) to continue the suspended computation, or
// (final result, false) to short-circuit the whole run. The F-bounded
// constraint keeps the concrete handler type visible to the compiler.
type Handler[H Handler[H, R], R any] interface {
	Dispatch(op Operation) (Resumed, bool)
}

type handlerFunc[R any] struct {
	f func(op Operation) (Resumed, bool)
}

func (h *handlerFunc[R]) Dispatch(op Operation) (Resumed, bool) {
	return h.f(op)
}

// HandleFunc wraps a plain dispatch function as a [Handler], for ad-hoc
// interpreters in tests and tools.
func HandleFunc[R any](f func(op Operation) (Resumed, bool)) *handlerFunc[R] {
	return &handlerFunc[R]{f: f}
}

// unhandledEffect reports an operation no case of a handler matched.
// Kept out of line so Dispatch methods stay inlineable.
//
//go:noinline
func unhandledEffect(handler string) {
	panic("effect: unhandled effect in " + handler)
}

// suspended is what a paused computation looks like from the driving
// loop: the pending operation plus a way to resume (or drop) it. Both
// marker flavors below implement it, so one interface assertion covers
// every resume strategy.
type suspended interface {
	Op() Operation
	Resume(Resumed) Resumed
	release()
}

// directMarker is the unpooled marker for operations built inline with
// their continuation already typed — ThrowError uses it, since Throw
// resumes with a Resumed rather than the performer's value type.
type directMarker[A any] struct {
	op Operation
	k  func(A) Resumed
}

func (m directMarker[A]) Op() Operation            { return m.op }
func (m directMarker[A]) Resume(v Resumed) Resumed { return m.k(v.(A)) }
func (directMarker[A]) release()                   {}

// The resume strategies below recover the erased f/k fields of a pooled
// marker at their real types, recycle the marker, and continue. Using
// named generic functions keeps Perform and the fused constructors free
// of per-call closures.

func resumePerform[A any](m *opMarker, v Resumed) Resumed {
	k := m.k.(func(A) Resumed)
	putMarker(m)
	return k(v.(A))
}

func resumeBind[A, B any](m *opMarker, v Resumed) Resumed {
	f := m.f.(func(A) Cont[Resumed, B])
	k := m.k.(func(B) Resumed)
	putMarker(m)
	return f(v.(A))(k)
}

func resumeThen[B any](m *opMarker, _ Resumed) Resumed {
	next := m.f.(Cont[Resumed, B])
	k := m.k.(func(B) Resumed)
	putMarker(m)
	return next(k)
}

func resumeMap[A, B any](m *opMarker, v Resumed) Resumed {
	f := m.f.(func(A) B)
	k := m.k.(func(B) Resumed)
	putMarker(m)
	return k(f(v.(A)))
}

// Perform suspends the computation on op. The surrounding handler
// receives it through Dispatch and either resumes with a value of the
// operation's result type or short-circuits.
func Perform[O Op[O, A], A any](op O) Cont[Resumed, A] {
	return func(k func(A) Resumed) Resumed {
		m := takeMarker()
		m.op = op
		m.k = k
		m.resume = resumePerform[A]
		return m
	}
}

// asResumed erases a value into the marker traffic type. Named so each
// instantiation is a static funcval.
func asResumed[A any](a A) Resumed { return a }

// Handle runs m to completion under h: every operation m performs is
// dispatched to h, and h's answers drive m forward.
func Handle[H Handler[H, R], R any](m Cont[Resumed, R], h H) R {
	result := m(asResumed[R])
	return driveHandler[H, R](result, h)
}

// driveHandler is the trampoline shared by Handle and the composed
// runners in compose.go: dispatch the pending operation, feed the
// answer back, repeat until the computation yields a final value. A
// nil final value stands for the zero result (see the package doc's
// nil-completion note).
func driveHandler[H Handler[H, R], R any](result Resumed, h H) R {
	for {
		if s, ok := result.(suspended); ok {
			v, resume := h.Dispatch(s.Op())
			if !resume {
				return v.(R)
			}
			result = s.Resume(v)
			continue
		}
		if result == nil {
			var zero R
			return zero
		}
		return result.(R)
	}
}
