// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// The Writer effect accumulates a log of W values. The explorer tells
// one record per transition edge and collects the lot as the optional
// transition graph after the run; the loop itself never sees the
// accumulator.

// WriterContext is the shared accumulator Writer operations append to.
// Exported so composed handlers and external steppers can dispatch the
// operations against their own slice.
type WriterContext[W any] struct {
	Output *[]W
}

// Tell appends one record to the output.
type Tell[W any] struct{ Value W }

func (Tell[W]) OpResult() struct{} { panic("phantom") }

// DispatchWriter appends Tell's record to the accumulator.
func (o Tell[W]) DispatchWriter(ctx *WriterContext[W]) (Resumed, bool) {
	*ctx.Output = append(*ctx.Output, o.Value)
	return struct{}{}, true
}

// Listen runs a computation and resumes with its value paired with the
// records it told. Structural dispatch (rather than a type switch) is
// what lets Listen[W, A] match for every A.
type Listen[W, A any] struct{ Body Cont[Resumed, A] }

func (Listen[W, A]) OpResult() Pair[A, []W] { panic("phantom") }

// DispatchWriter runs the body against the same accumulator and slices
// off what it appended. Only Writer operations are interpreted inside
// the body.
func (o Listen[W, A]) DispatchWriter(ctx *WriterContext[W]) (Resumed, bool) {
	startLen := len(*ctx.Output)
	result := Handle(o.Body, writerRunnerFor[W, A](ctx))
	written := make([]W, len(*ctx.Output)-startLen)
	copy(written, (*ctx.Output)[startLen:])
	return Pair[A, []W]{Fst: result, Snd: written}, true
}

// Censor runs a computation and rewrites the records it told before
// they reach the surrounding output.
type Censor[W, A any] struct {
	F    func([]W) []W
	Body Cont[Resumed, A]
}

func (Censor[W, A]) OpResult() A { panic("phantom") }

// DispatchWriter runs the body, then replaces its slice of the output
// with the censored version.
func (o Censor[W, A]) DispatchWriter(ctx *WriterContext[W]) (Resumed, bool) {
	startLen := len(*ctx.Output)
	result := Handle(o.Body, writerRunnerFor[W, A](ctx))
	rewritten := o.F((*ctx.Output)[startLen:])
	*ctx.Output = append((*ctx.Output)[:startLen], rewritten...)
	return result, true
}

// Pair carries Listen's two results.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// TellWriter performs Tell and continues with next, fused into one
// pooled marker.
func TellWriter[W, B any](w W, next Cont[Resumed, B]) Cont[Resumed, B] {
	return func(k func(B) Resumed) Resumed {
		m := takeMarker()
		m.op = Tell[W]{Value: w}
		m.f = next
		m.k = k
		m.resume = resumeThen[B]
		return m
	}
}

// ListenWriter performs Listen on body.
func ListenWriter[W, A any](body Cont[Resumed, A]) Cont[Resumed, Pair[A, []W]] {
	return Perform(Listen[W, A]{Body: body})
}

// CensorWriter performs Censor on body with rewrite f.
func CensorWriter[W, A any](f func([]W) []W, body Cont[Resumed, A]) Cont[Resumed, A] {
	return Perform(Censor[W, A]{F: f, Body: body})
}

// writerRunner interprets Writer operations against one accumulator.
type writerRunner[W, R any] struct {
	ctx *WriterContext[W]
}

func (h *writerRunner[W, R]) Dispatch(op Operation) (Resumed, bool) {
	if wop, ok := op.(interface {
		DispatchWriter(ctx *WriterContext[W]) (Resumed, bool)
	}); ok {
		return wop.DispatchWriter(h.ctx)
	}
	unhandledEffect("WriterHandler")
	return nil, false
}

func writerRunnerFor[W, R any](ctx *WriterContext[W]) *writerRunner[W, R] {
	return &writerRunner[W, R]{ctx: ctx}
}

// WriterHandler returns a Writer runner over a fresh accumulator, plus
// an accessor for what has been told so far.
func WriterHandler[W, R any]() (*writerRunner[W, R], func() []W) {
	var output []W
	ctx := &WriterContext[W]{Output: &output}
	return writerRunnerFor[W, R](ctx), func() []W { return output }
}

// RunWriter runs m and returns its value and everything it told.
func RunWriter[W, A any](m Cont[Resumed, A]) (A, []W) {
	var output []W
	ctx := &WriterContext[W]{Output: &output}
	h := &writerRunner[W, A]{ctx: ctx}
	result := Handle(m, h)
	return result, output
}

// ExecWriter runs m and keeps only what it told.
func ExecWriter[W, A any](m Cont[Resumed, A]) []W {
	_, output := RunWriter[W, A](m)
	return output
}
