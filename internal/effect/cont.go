// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Cont is a computation in continuation-passing style: it is handed the
// rest of the program as a function k and must produce the final result
// of type R by (eventually) applying k to a value of type A. Everything
// in this package — the monad operations, the effect machinery, and the
// explorer loop built on top — is expressed in terms of this one type.
type Cont[R, A any] func(k func(A) R) R

// Return injects a plain value: the continuation is applied immediately.
func Return[R, A any](a A) Cont[R, A] {
	return func(k func(A) R) R {
		return k(a)
	}
}

// Eff is a computation that may perform effects. The final result type
// is erased to [Resumed] so a handler can thread arbitrary resume values
// through it; only the produced value keeps its type.
type Eff[A any] = Cont[Resumed, A]

// Pure is Return at the effectful type, with A inferred.
func Pure[A any](a A) Eff[A] {
	return Return[Resumed](a)
}

// Suspend adapts a raw CPS function into a Cont, for call sites that
// need the continuation itself.
func Suspend[R, A any](f func(func(A) R) R) Cont[R, A] {
	return Cont[R, A](f)
}

// Bind sequences m before f: the value m produces chooses the next
// computation. Bind and Return together are the whole monad; Map and
// Then below exist to skip the closures Bind would allocate when the
// second step is a pure function or ignores the first value.
func Bind[R, A, B any](m Cont[R, A], f func(A) Cont[R, B]) Cont[R, B] {
	return func(k func(B) R) R {
		return m(func(a A) R {
			return f(a)(k)
		})
	}
}

// Map applies a pure function to the produced value.
func Map[R, A, B any](m Cont[R, A], f func(A) B) Cont[R, B] {
	return func(k func(B) R) R {
		return m(func(a A) R {
			return k(f(a))
		})
	}
}

// Then sequences m before n, discarding m's value.
func Then[R, A, B any](m Cont[R, A], n Cont[R, B]) Cont[R, B] {
	return func(k func(B) R) R {
		return m(func(_ A) R {
			return n(k)
		})
	}
}

// identity is a named function rather than a closure so each
// instantiation is a single static funcval.
func identity[A any](a A) A { return a }

// Run executes a computation whose final result type equals its value
// type, using the identity continuation.
func Run[A any](m Cont[A, A]) A {
	return m(identity[A])
}

// RunWith executes a computation with an explicit final continuation.
func RunWith[R, A any](m Cont[R, A], k func(A) R) R {
	return m(k)
}
