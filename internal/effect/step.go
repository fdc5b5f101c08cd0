// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Stepping boundary for external runtimes.
// Step provides shallow one-effect-at-a-time evaluation, unlike Handle,
// which runs a synchronous trampoline to completion. The interactive
// explorer (cmd/aamctl step) is built directly on this: each worklist
// iteration performs one popped-state effect, and Step lets the CLI
// pause there.

// Suspension is a computation paused on an effect operation: the
// pending operation, plus a one-shot resumption handle. The one-shot
// discipline is [Affine]'s — the continuation may be consumed exactly
// once, by Resume, TryResume, or Discard.
type Suspension[A any] struct {
	op      Operation
	resume  *Affine[Resumed, Resumed]
	pending suspended
}

// Op returns the effect operation that caused the suspension.
func (s *Suspension[A]) Op() Operation { return s.op }

// Resume advances the computation with the given value.
// Returns either a completed value (with nil suspension) or the next
// suspension. Panics if the suspension has already been consumed.
func (s *Suspension[A]) Resume(v Resumed) (A, *Suspension[A]) {
	out, ok := s.resume.TryResume(v)
	if !ok {
		panic("effect: suspension resumed twice")
	}
	return classifyResumed[A](out)
}

// TryResume attempts to advance the computation.
// Returns (value, suspension, true) on success, or (zero, nil, false)
// if the suspension was already consumed.
func (s *Suspension[A]) TryResume(v Resumed) (A, *Suspension[A], bool) {
	out, ok := s.resume.TryResume(v)
	if !ok {
		var zero A
		return zero, nil, false
	}
	a, next := classifyResumed[A](out)
	return a, next, true
}

// Discard consumes the suspension without resuming it, releasing the
// underlying marker.
func (s *Suspension[A]) Discard() {
	s.resume.Discard()
	s.pending.release()
}

// Step drives a Cont[Resumed, A] computation until it either completes
// or suspends on an effect operation.
// Returns (value, nil) if the computation completed, or (zero,
// suspension) if an operation is pending.
//
// Example:
//
//	result, susp := Step(computation)
//	for susp != nil {
//	    v := handleOp(susp.Op())
//	    result, susp = susp.Resume(v)
//	}
func Step[A any](m Cont[Resumed, A]) (A, *Suspension[A]) {
	result := m(asResumed[A])
	return classifyResumed[A](result)
}

// classifyResumed splits a Resumed value into either a completed value
// or a suspension wrapping the pending marker in an affine handle.
func classifyResumed[A any](result Resumed) (A, *Suspension[A]) {
	if s, ok := result.(suspended); ok {
		var zero A
		return zero, &Suspension[A]{
			op:      s.Op(),
			resume:  Once(s.Resume),
			pending: s,
		}
	}
	if result == nil {
		var zero A
		return zero, nil
	}
	return result.(A), nil
}
