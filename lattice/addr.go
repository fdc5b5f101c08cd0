// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lattice

import "fmt"

// VarAddr is the reference binding-address policy: a variable name paired
// with the timestamp it was bound at. With ZeroCFA this collapses to one
// address per variable; with OneCFA to one address per variable and call
// site.
type VarAddr[T comparable] struct {
	Var  string
	Time T
}

// BindAddr allocates the address for binding name at time t.
func BindAddr[T comparable](name string, t T) VarAddr[T] {
	return VarAddr[T]{Var: name, Time: t}
}

func (a VarAddr[T]) String() string { return fmt.Sprintf("%s@%v", a.Var, a.Time) }
