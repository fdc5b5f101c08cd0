// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"sync/atomic"
)

// Affine guards a continuation with use-at-most-once enforcement.
// Handlers must not duplicate a captured continuation; [Suspension]
// wraps every pending resumption in an Affine so an interactive driver
// that resumes twice fails loudly instead of corrupting the run.
type Affine[R, A any] struct {
	used   atomic.Uintptr
	resume func(A) R
}

// Once wraps k as a one-shot continuation.
func Once[R, A any](k func(A) R) *Affine[R, A] {
	return &Affine[R, A]{resume: k}
}

// Resume invokes the continuation. Panics on the second use.
func (a *Affine[R, A]) Resume(v A) R {
	if a.used.Add(1) != 1 {
		panic("effect: affine continuation resumed twice")
	}
	return a.resume(v)
}

// TryResume invokes the continuation, reporting false instead of
// panicking when it has already been consumed.
func (a *Affine[R, A]) TryResume(v A) (R, bool) {
	if a.used.Add(1) != 1 {
		var zero R
		return zero, false
	}
	return a.resume(v), true
}

// Discard consumes the continuation without invoking it.
func (a *Affine[R, A]) Discard() {
	a.used.Store(1)
}
