// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphutil provides a small directed graph type that can be used with existing graph libraries (gonum and
// yourbasic/graph), together with graph algorithms that those libraries do not provide.
package graphutil

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/iterator"
)

// Digraph is a directed graph over the nodes 0..n-1. It implements the methods to satisfy yourbasic's
// graph.Iterator and gonum's graph.Directed.
//
// Edges are kept in insertion order and may be repeated, which is what a control-flow graph needs (a branch with two
// identical targets). The gonum view of the graph collapses repeated edges, since gonum graphs are simple.
type Digraph struct {
	nodes []Node

	// succs[x] lists the targets of edges out of x, in insertion order
	succs [][]int64

	// preds[y] lists the origins of edges into y, in insertion order
	preds [][]int64

	// edgeAttrs holds the attributes of the first edge inserted between two nodes
	edgeAttrs map[[2]int64][]encoding.Attribute
}

// NewDigraph returns a graph with n nodes and no edges.
func NewDigraph(n int) *Digraph {
	g := &Digraph{
		nodes:     make([]Node, n),
		succs:     make([][]int64, n),
		preds:     make([][]int64, n),
		edgeAttrs: map[[2]int64][]encoding.Attribute{},
	}
	for i := range g.nodes {
		g.nodes[i] = Node{id: int64(i)}
	}
	return g
}

// SetNode sets the name and attributes of the node id. The name is used as the node's DOT identifier.
func (g *Digraph) SetNode(id int64, name string, attrs ...encoding.Attribute) {
	g.nodes[id] = Node{id: id, name: name, attrs: attrs}
}

// AddEdge adds a directed edge from -> to.
func (g *Digraph) AddEdge(from, to int64, attrs ...encoding.Attribute) {
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
	key := [2]int64{from, to}
	if _, ok := g.edgeAttrs[key]; !ok {
		g.edgeAttrs[key] = attrs
	}
}

// Successors returns the targets of the edges out of id, in insertion order, including repetitions.
func (g *Digraph) Successors(id int64) []int64 {
	return append([]int64(nil), g.succs[id]...)
}

// Predecessors returns the origins of the edges into id, in insertion order, including repetitions.
func (g *Digraph) Predecessors(id int64) []int64 {
	return append([]int64(nil), g.preds[id]...)
}

// Induced returns the subgraph containing all the nodes of g, but only the edges that have both their origin and
// destination in include. Repeated edges are collapsed. Node indices stay consistent across subgraphs.
func (g *Digraph) Induced(include map[int64]bool) *Digraph {
	sub := NewDigraph(len(g.nodes))
	copy(sub.nodes, g.nodes)
	for x := range g.succs {
		if !include[int64(x)] {
			continue
		}
		for _, y := range g.succs[x] {
			if include[y] && !sub.HasEdgeFromTo(int64(x), y) {
				sub.AddEdge(int64(x), y, g.edgeAttrs[[2]int64{int64(x), y}]...)
			}
		}
	}
	return sub
}

// *************** yourbasic graph.Iterator implementation **********************

// Order implements the order of the graph.Iterator interface
func (g *Digraph) Order() int {
	return len(g.nodes)
}

// Visit implements the graph.Iterator interface
func (g *Digraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(g.nodes) {
		return false
	}
	for _, w := range g.succs[v] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** gonum graph.Directed implementation **********************

// Node implements the Graph interface
func (g *Digraph) Node(id int64) graph.Node {
	if id < 0 || id >= int64(len(g.nodes)) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns the set of nodes in the graph, ordered by id
func (g *Digraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n
	}
	return iterator.NewOrderedNodes(nodes)
}

// From returns the nodes reachable from id by a single edge
func (g *Digraph) From(id int64) graph.Nodes {
	if g.Node(id) == nil {
		return iterator.NewOrderedNodes(nil)
	}
	return g.nodeSet(g.succs[id])
}

// To returns the nodes that reach id by a single edge
func (g *Digraph) To(id int64) graph.Nodes {
	if g.Node(id) == nil {
		return iterator.NewOrderedNodes(nil)
	}
	return g.nodeSet(g.preds[id])
}

func (g *Digraph) nodeSet(ids []int64) graph.Nodes {
	seen := make(map[int64]bool, len(ids))
	var nodes []graph.Node
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			nodes = append(nodes, g.nodes[id])
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeFromTo returns whether an edge exists from u to v
func (g *Digraph) HasEdgeFromTo(uid, vid int64) bool {
	if g.Node(uid) == nil {
		return false
	}
	for _, w := range g.succs[uid] {
		if w == vid {
			return true
		}
	}
	return false
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g *Digraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *Digraph) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return Edge{from: g.nodes[uid], to: g.nodes[vid], attrs: g.edgeAttrs[[2]int64{uid, vid}]}
}

// *************** Nodes and edges **********************

// Node is a node of a Digraph. It implements gonum's graph.Node, and the dot.Node and encoding.Attributer
// interfaces used when marshalling a graph to DOT.
type Node struct {
	id    int64
	name  string
	attrs []encoding.Attribute
}

// ID returns the id of the node
func (n Node) ID() int64 {
	return n.id
}

// DOTID returns the name of the node in a DOT graph
func (n Node) DOTID() string {
	return n.name
}

// Attributes returns the DOT attributes of the node
func (n Node) Attributes() []encoding.Attribute {
	return n.attrs
}

func (n Node) String() string {
	return n.name
}

// Edge implements the graph.Edge interface
type Edge struct {
	from  Node
	to    Node
	attrs []encoding.Attribute
}

// From returns the origin of the edge
func (e Edge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e Edge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e Edge) ReversedEdge() graph.Edge {
	return Edge{from: e.to, to: e.from, attrs: e.attrs}
}

// Attributes returns the DOT attributes of the edge
func (e Edge) Attributes() []encoding.Attribute {
	return e.attrs
}
