// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheme

import "testing"

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"42",
		"-7",
		"#t",
		"#f",
		"'()",
		"x",
		"(lambda (x) x)",
		"(let ((y 1)) y)",
		"(letrec ((f (lambda (n) (f n)))) (f 1))",
		"(if (< x 0) 1 2)",
		"((lambda (x) x) 42)",
		"(* n (f (- n 1)))",
		"(car '())",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			e, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", src, err)
			}
			if got := e.String(); got != src {
				t.Fatalf("Parse(%q).String() = %q", src, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"(",
		")",
		"(let ((x 1) (y 2)) x)",
		"(lambda (x y) x)",
		"(f a b c)",
		"()",
		"1 2",
		"(if #t 1)",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, err := Parse(src); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", src)
			}
		})
	}
}

func TestParseKinds(t *testing.T) {
	e, err := Parse("(let ((y 1)) y)")
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != ExprLet || e.Param != "y" {
		t.Fatalf("unexpected parse: %+v", e)
	}
	if e.Kids[0].Kind != ExprNum || e.Kids[0].Num != 1 {
		t.Fatalf("rhs = %+v", e.Kids[0])
	}
	if e.Kids[1].Kind != ExprSym || e.Kids[1].Sym != "y" {
		t.Fatalf("body = %+v", e.Kids[1])
	}
}
