/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package graph builds and incrementally extends the module dependency
// graph (§4.E): fetch, statically extract dependencies via tree-sitter,
// resolve each edge through specifier or package resolution, and enqueue
// newly discovered specifiers until the work queue drains.
package graph

import (
	"sync"

	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/specifier"
)

// Status is a node's place in the build lifecycle (§4.E step 1-2).
type Status int

const (
	Pending Status = iota
	Fetching
	Resolved
	Failed
)

func (s Status) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Kind classifies a graph (build) — what subset of the reachable code is
// wanted (§4.E "graph kind").
type Kind int

const (
	CodeAndTypes Kind = iota
	CodeOnly
	TypesOnly
)

// EdgeKind distinguishes the syntactic origin of a DepEdge.
type EdgeKind int

const (
	Static EdgeKind = iota
	Dynamic
	Reexport
	TypeReference
	Require
)

// DepEdge is one dependency discovered while parsing a Node's source.
type DepEdge struct {
	Raw  string // the specifier text as written in source
	Kind EdgeKind
	Line int

	// Resolved is populated once the edge's Raw specifier has gone
	// through (A) or (F); zero-value until then.
	Resolved specifier.Specifier
}

// Node is one module in the graph.
type Node struct {
	Specifier specifier.Specifier
	MediaType media.Type
	Source    []byte
	Code      string // transpiled output, populated once fetched+transpiled
	SourceMap string

	Status Status
	Err    error

	// Deps is stored in source order (§4.E "Deterministic ordering");
	// the traversal/discovery order across nodes is not guaranteed.
	Deps []DepEdge
}

// Graph is the append-only set of nodes reachable from a build's roots.
// Safe for concurrent use: Builder.Build fans work out across goroutines,
// and dynamic imports extend the same Graph later from the event loop
// goroutine.
type Graph struct {
	mu    sync.RWMutex
	kind  Kind
	roots []specifier.Specifier
	nodes map[string]*Node
}

// New creates an empty Graph of the given Kind seeded with roots (not yet
// fetched — call Builder.Build to populate it).
func New(kind Kind, roots []specifier.Specifier) *Graph {
	return &Graph{kind: kind, roots: roots, nodes: make(map[string]*Node)}
}

func (g *Graph) Kind() Kind { return g.kind }

func (g *Graph) Roots() []specifier.Specifier { return g.roots }

// Get returns the node for s, if any.
func (g *Graph) Get(s specifier.Specifier) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[s.String()]
	return n, ok
}

// Len reports how many nodes the graph currently holds.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// upsert inserts a new node or returns the existing one, reporting whether
// it was newly created (the caller should enqueue it exactly once, §4.E
// step 1 "if already terminal in the graph, skip").
func (g *Graph) upsert(s specifier.Specifier) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nodes[s.String()]; ok {
		return n, false
	}
	n := &Node{Specifier: s, Status: Pending}
	g.nodes[s.String()] = n
	return n, true
}

// terminal reports whether n's status is one a work queue should skip
// re-processing (§4.E step 1).
func (n *Node) terminal() bool {
	return n.Status == Resolved || n.Status == Failed
}

// setStatus transitions n under the graph's lock.
func (g *Graph) setStatus(n *Node, status Status, err error) {
	g.mu.Lock()
	n.Status = status
	n.Err = err
	g.mu.Unlock()
}

// Nodes returns a snapshot slice of every node currently in the graph, in
// no particular order (§4.E "the traversal set is unordered").
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}
