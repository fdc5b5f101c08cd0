// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package explore

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/abstractmachine/aam/aam"
)

// Graph is the optional transition graph: one node per distinct state,
// one unit-labeled edge per transition, duplicates collapsed. It is a
// diagnostic artifact; the fixpoint never reads it.
type Graph[V any, A comparable, T comparable, E comparable, F comparable] struct {
	m     *aam.Machine[V, A, T, E, F]
	nodes []aam.State[V, A, T, E, F]
	index map[aam.KAddr[E, T]][]int
	edges map[[2]int]struct{}
}

func newGraph[V any, A comparable, T comparable, E comparable, F comparable](
	m *aam.Machine[V, A, T, E, F],
) *Graph[V, A, T, E, F] {
	return &Graph[V, A, T, E, F]{
		m:     m,
		index: map[aam.KAddr[E, T]][]int{},
		edges: map[[2]int]struct{}{},
	}
}

func buildGraph[V any, A comparable, T comparable, E comparable, F comparable](
	m *aam.Machine[V, A, T, E, F],
	init aam.State[V, A, T, E, F],
	edges []edge[V, A, T, E, F],
) *Graph[V, A, T, E, F] {
	g := newGraph(m)
	g.node(init)
	for _, e := range edges {
		g.addEdge(e.from, e.to)
	}
	return g
}

// node returns the id of s, interning it on first sight.
func (g *Graph[V, A, T, E, F]) node(s aam.State[V, A, T, E, F]) int {
	for _, id := range g.index[s.Key()] {
		if g.m.Equal(g.nodes[id], s) {
			return id
		}
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, s)
	g.index[s.Key()] = append(g.index[s.Key()], id)
	return id
}

func (g *Graph[V, A, T, E, F]) addEdge(from, to aam.State[V, A, T, E, F]) {
	g.edges[[2]int{g.node(from), g.node(to)}] = struct{}{}
}

// Nodes returns the number of distinct states recorded.
func (g *Graph[V, A, T, E, F]) Nodes() int { return len(g.nodes) }

// Edges returns the number of distinct transitions recorded.
func (g *Graph[V, A, T, E, F]) Edges() int { return len(g.edges) }

// States returns the recorded states in id order.
func (g *Graph[V, A, T, E, F]) States() []aam.State[V, A, T, E, F] {
	return append([]aam.State[V, A, T, E, F](nil), g.nodes...)
}

// EdgeList returns the recorded transitions as (from, to) id pairs,
// sorted.
func (g *Graph[V, A, T, E, F]) EdgeList() [][2]int {
	out := make([][2]int, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// nodeColor maps a state's control kind to its fill color: evaluation
// points, returns, halted returns, and errors each get their own.
func nodeColor[V any, A comparable, T comparable, E comparable, F comparable](s aam.State[V, A, T, E, F]) string {
	switch s.Control.Kind() {
	case aam.KindEval:
		return "white"
	case aam.KindKont:
		if s.Halted() {
			return "palegreen"
		}
		return "lightblue"
	default:
		return "lightcoral"
	}
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// WriteDot renders the graph in Graphviz dot syntax, nodes labeled by
// control and colored by kind, in deterministic id order.
func (g *Graph[V, A, T, E, F]) WriteDot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph states {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\tnode [shape=box, style=filled];"); err != nil {
		return err
	}
	for id, s := range g.nodes {
		_, err := fmt.Fprintf(w, "\t%d [label=\"%s\", fillcolor=\"%s\"];\n",
			id, escapeLabel(s.Control.String()), nodeColor(s))
		if err != nil {
			return err
		}
	}
	for _, e := range g.EdgeList() {
		if _, err := fmt.Fprintf(w, "\t%d -> %d;\n", e[0], e[1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
