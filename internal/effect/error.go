// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// The Error effect aborts a computation with a value of type E. The
// explorer throws fatal continuation-store invariant violations through
// it; the run then surfaces as a Left instead of unwinding with a
// panic, so the engine stays embeddable.

// ErrorContext records a thrown error for the runner that owns the
// computation. Exported so composed handlers and external steppers can
// dispatch Error operations themselves.
type ErrorContext[E any] struct {
	Err    E
	HasErr bool
}

// Throw aborts the computation with an error.
type Throw[E any] struct{ Err E }

func (Throw[E]) OpResult() Resumed { panic("phantom") }

// DispatchError records the thrown error. It reports resumable like the
// other effects; the owning runner checks HasErr and short-circuits, so
// the suspended computation is never actually resumed past a throw.
func (o Throw[E]) DispatchError(ctx *ErrorContext[E]) (Resumed, bool) {
	ctx.Err = o.Err
	ctx.HasErr = true
	return struct{}{}, true
}

// Catch runs a body and, if it throws, runs the handler instead. Only
// Error operations are interpreted inside the body and handler.
type Catch[E, A any] struct {
	Body    Cont[Resumed, A]
	Handler func(E) Cont[Resumed, A]
}

func (Catch[E, A]) OpResult() A { panic("phantom") }

// DispatchError runs the body under its own error runner, falling back
// to the handler on a Left; a handler that itself throws propagates
// outward.
func (o Catch[E, A]) DispatchError(ctx *ErrorContext[E]) (Resumed, bool) {
	bodyResult := RunError[E, A](o.Body)
	if bodyResult.IsLeft() {
		errVal, _ := bodyResult.GetLeft()
		handlerResult := RunError[E, A](o.Handler(errVal))
		if handlerResult.IsLeft() {
			e, _ := handlerResult.GetLeft()
			ctx.Err = e
			ctx.HasErr = true
			return struct{}{}, true
		}
		v, _ := handlerResult.GetRight()
		return v, true
	}
	v, _ := bodyResult.GetRight()
	return v, true
}

// ThrowError performs Throw. The continuation is dropped, never called:
// this computation produces no A.
func ThrowError[E, A any](err E) Cont[Resumed, A] {
	return func(k func(A) Resumed) Resumed {
		return directMarker[A]{op: Throw[E]{Err: err}, k: k}
	}
}

// CatchError performs Catch on body with the given handler.
func CatchError[E, A any](body Cont[Resumed, A], handler func(E) Cont[Resumed, A]) Cont[Resumed, A] {
	return Perform(Catch[E, A]{Body: body, Handler: handler})
}

// errorRunner interprets Error operations, short-circuiting the whole
// run with a Left once anything throws.
type errorRunner[E, A any] struct {
	ctx *ErrorContext[E]
}

func (h *errorRunner[E, A]) Dispatch(op Operation) (Resumed, bool) {
	if eop, ok := op.(interface {
		DispatchError(ctx *ErrorContext[E]) (Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.ctx)
		if h.ctx.HasErr {
			return Left[E, A](h.ctx.Err), false
		}
		return v, true
	}
	unhandledEffect("ErrorHandler")
	return nil, false
}

// rightCont wraps a completed value in Right. Shared with the composed
// runners in compose.go; named so each instantiation is a static
// funcval.
func rightCont[E, A any](a A) Resumed { return Right[E, A](a) }

// RunError runs m and returns Right of its value, or Left of whatever
// it threw.
func RunError[E, A any](m Cont[Resumed, A]) Either[E, A] {
	var ctx ErrorContext[E]
	h := &errorRunner[E, A]{ctx: &ctx}
	result := m(rightCont[E, A])
	if result == nil {
		var zero A
		return Right[E, A](zero)
	}
	return driveHandler[*errorRunner[E, A], Either[E, A]](result, h)
}
