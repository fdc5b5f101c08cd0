// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "maps"

// Binding pairs an identifier with its heap address.
type Binding[A comparable] struct {
	Name string
	Addr A
}

// Env maps identifiers to binding addresses. It is an immutable value:
// Extend returns a new environment sharing nothing mutable with the
// receiver, so environments can be stored in states and frames freely.
// The zero Env is empty.
type Env[A comparable] struct {
	m map[string]A
}

// NewEnv builds an environment from bindings. Later bindings shadow
// earlier ones.
func NewEnv[A comparable](bindings ...Binding[A]) Env[A] {
	if len(bindings) == 0 {
		return Env[A]{}
	}
	m := make(map[string]A, len(bindings))
	for _, b := range bindings {
		m[b.Name] = b.Addr
	}
	return Env[A]{m: m}
}

// Lookup returns the address bound to name.
func (e Env[A]) Lookup(name string) (A, bool) {
	a, ok := e.m[name]
	return a, ok
}

// Extend returns an environment with name bound to a, shadowing any
// previous binding.
func (e Env[A]) Extend(name string, a A) Env[A] {
	m := make(map[string]A, len(e.m)+1)
	maps.Copy(m, e.m)
	m[name] = a
	return Env[A]{m: m}
}

// Len returns the number of bindings.
func (e Env[A]) Len() int { return len(e.m) }

// Equal reports whether both environments hold exactly the same bindings.
func (e Env[A]) Equal(o Env[A]) bool { return maps.Equal(e.m, o.m) }

// All iterates over the bindings in unspecified order.
func (e Env[A]) All(yield func(string, A) bool) {
	for name, a := range e.m {
		if !yield(name, a) {
			return
		}
	}
}
