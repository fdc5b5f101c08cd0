// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheme

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a single expression from src.
func Parse(src string) (*Expr, error) {
	toks := tokenize(src)
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("scheme: trailing input after expression: %q", p.toks[p.pos])
	}
	return e, nil
}

func tokenize(src string) []string {
	src = strings.ReplaceAll(src, "(", " ( ")
	src = strings.ReplaceAll(src, ")", " ) ")
	src = strings.ReplaceAll(src, "'", " ' ")
	return strings.Fields(src)
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) next() (string, error) {
	if p.pos >= len(p.toks) {
		return "", fmt.Errorf("scheme: unexpected end of input")
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, nil
}

func (p *parser) expect(tok string) error {
	got, err := p.next()
	if err != nil {
		return err
	}
	if got != tok {
		return fmt.Errorf("scheme: expected %q, got %q", tok, got)
	}
	return nil
}

func (p *parser) expr() (*Expr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok {
	case ")":
		return nil, fmt.Errorf("scheme: unexpected )")
	case "'":
		// only the empty list is quotable in this core
		if err := p.expect("("); err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprNil}, nil
	case "(":
		return p.form()
	default:
		return atom(tok)
	}
}

func atom(tok string) (*Expr, error) {
	switch tok {
	case "#t":
		return &Expr{Kind: ExprBool, Bool: true}, nil
	case "#f":
		return &Expr{Kind: ExprBool, Bool: false}, nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return &Expr{Kind: ExprNum, Num: n}, nil
	}
	return &Expr{Kind: ExprSym, Sym: tok}, nil
}

// form parses the body of a parenthesized expression, the ( consumed.
func (p *parser) form() (*Expr, error) {
	if p.pos < len(p.toks) {
		switch p.toks[p.pos] {
		case "lambda":
			p.pos++
			return p.lambda()
		case "let", "letrec":
			kw := p.toks[p.pos]
			p.pos++
			return p.letForm(kw)
		case "if":
			p.pos++
			return p.ifForm()
		}
	}
	return p.app()
}

func (p *parser) lambda() (*Expr, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	param, err := p.next()
	if err != nil {
		return nil, err
	}
	if param == "(" || param == ")" {
		return nil, fmt.Errorf("scheme: lambda takes exactly one parameter")
	}
	if err := p.expect(")"); err != nil {
		return nil, fmt.Errorf("scheme: lambda takes exactly one parameter")
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &Expr{Kind: ExprLambda, Param: param, Kids: []*Expr{body}}, nil
}

func (p *parser) letForm(kw string) (*Expr, error) {
	kind := ExprLet
	if kw == "letrec" {
		kind = ExprLetrec
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, fmt.Errorf("scheme: %s takes exactly one binding", kw)
	}
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, fmt.Errorf("scheme: %s takes exactly one binding", kw)
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &Expr{Kind: kind, Param: name, Kids: []*Expr{rhs, body}}, nil
}

func (p *parser) ifForm() (*Expr, error) {
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	cons, err := p.expr()
	if err != nil {
		return nil, err
	}
	alt, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &Expr{Kind: ExprIf, Kids: []*Expr{cond, cons, alt}}, nil
}

func (p *parser) app() (*Expr, error) {
	var kids []*Expr
	for {
		if p.pos < len(p.toks) && p.toks[p.pos] == ")" {
			p.pos++
			break
		}
		kid, err := p.expr()
		if err != nil {
			return nil, err
		}
		kids = append(kids, kid)
	}
	if len(kids) == 0 {
		return nil, fmt.Errorf("scheme: empty application")
	}
	if len(kids) > 3 {
		return nil, fmt.Errorf("scheme: applications take at most two operands")
	}
	return &Expr{Kind: ExprApp, Kids: kids}, nil
}
