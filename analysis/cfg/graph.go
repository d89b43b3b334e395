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

package cfg

import (
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
	"github.com/awslabs/ar-bril-tools/internal/graphutil"
	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/flow"
)

// Graph returns the CFG as a graphutil.Digraph where node i is block i, named after the block. The Digraph can be
// used with gonum and yourbasic graph algorithms.
func (g *CFG) Graph() *graphutil.Digraph {
	dg := graphutil.NewDigraph(len(g.blocks))
	for i, b := range g.blocks {
		dg.SetNode(int64(i), b.String())
	}
	for i, succs := range g.succs {
		for _, j := range succs {
			dg.AddEdge(int64(i), int64(j))
		}
	}
	return dg
}

// Reachable returns, for each block index, whether the block is reachable from the entry block
func (g *CFG) Reachable() []bool {
	reachable := make([]bool, len(g.blocks))
	reachable[0] = true
	graph.BFS(g.Graph(), 0, func(_, w int, _ int64) {
		reachable[w] = true
	})
	return reachable
}

// Dominators returns the immediate dominator of each block, by index. The entry block and the blocks that are not
// reachable from it have no immediate dominator and are mapped to -1.
func (g *CFG) Dominators() []int {
	dg := g.Graph()
	dt := flow.Dominators(dg.Node(0), dg)
	idom := make([]int, len(g.blocks))
	for i := range idom {
		idom[i] = -1
		if d := dt.DominatorOf(int64(i)); d != nil {
			idom[i] = int(d.ID())
		}
	}
	return idom
}

// DominatorTree returns the dominator tree of the reachable blocks, labelled with block indices and rooted at the
// entry block. Children are ordered by index.
func (g *CFG) DominatorTree() *graphutil.Tree[int] {
	idom := g.Dominators()
	children := make([][]int, len(g.blocks))
	for i, d := range idom {
		if d >= 0 {
			children[d] = append(children[d], i)
		}
	}
	root := graphutil.NewTree(0)
	todo := []*graphutil.Tree[int]{root}
	for len(todo) > 0 {
		t := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for _, c := range children[t.Label] {
			todo = append(todo, t.AddChild(c))
		}
	}
	return root
}

// Dominates returns true if every path from the entry to block b goes through block a, using the immediate
// dominators idom returned by Dominators. Unreachable blocks are dominated by no block other than themselves.
func Dominates(idom []int, a, b int) bool {
	for cur := b; cur >= 0; cur = idom[cur] {
		if cur == a {
			return true
		}
	}
	return false
}

// ReversePostorder returns the block indices in reverse postorder of a depth-first traversal from the entry, with
// successors visited in edge order. Blocks unreachable from the entry follow, in program order.
func (g *CFG) ReversePostorder() []int {
	visited := make([]bool, len(g.blocks))
	var post []int
	var visit func(int)
	visit = func(i int) {
		visited[i] = true
		for _, s := range g.succs[i] {
			if !visited[s] {
				visit(s)
			}
		}
		post = append(post, i)
	}
	visit(0)
	order := funcutil.Reversed(post)
	for i := range g.blocks {
		if !visited[i] {
			order = append(order, i)
		}
	}
	return order
}

// Loop is a natural loop of the CFG
type Loop struct {
	// Header is the index of the only block through which the loop is entered
	Header int

	// Latches are the sources of the back edges to the header, sorted
	Latches []int

	// Body are the indices of the blocks of the loop, including the header, sorted
	Body []int
}

// Loops returns the natural loops of the CFG, ordered by header. A back edge is an edge whose target dominates its
// source; the natural loop of a header is made of all the blocks that reach one of its back edges without going
// through the header. Loops with the same header are merged.
func (g *CFG) Loops() []Loop {
	idom := g.Dominators()
	reachable := g.Reachable()

	// the body of a loop is contained in the strongly connected component of its header
	component := make([]int, len(g.blocks))
	for k, scc := range g.Graph().Components() {
		for _, i := range scc {
			component[i] = k
		}
	}

	loops := map[int]*Loop{}
	for t := range g.blocks {
		if !reachable[t] {
			continue
		}
		for _, h := range g.succs[t] {
			if !Dominates(idom, h, t) {
				continue
			}
			loop, ok := loops[h]
			if !ok {
				loop = &Loop{Header: h, Body: []int{h}}
				loops[h] = loop
			}
			if !slices.Contains(loop.Latches, t) {
				loop.Latches = append(loop.Latches, t)
			}
			g.collectBody(loop, t, component)
		}
	}

	res := make([]Loop, 0, len(loops))
	for _, loop := range loops {
		slices.Sort(loop.Latches)
		slices.Sort(loop.Body)
		res = append(res, *loop)
	}
	slices.SortFunc(res, func(a, b Loop) bool { return a.Header < b.Header })
	return res
}

// collectBody adds to the loop the blocks that reach the latch without going through the header
func (g *CFG) collectBody(loop *Loop, latch int, component []int) {
	inBody := map[int]bool{}
	for _, b := range loop.Body {
		inBody[b] = true
	}
	todo := []int{latch}
	for len(todo) > 0 {
		n := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if inBody[n] || component[n] != component[loop.Header] {
			continue
		}
		inBody[n] = true
		loop.Body = append(loop.Body, n)
		todo = append(todo, g.preds[n]...)
	}
}

// Cycles returns all the elementary cycles of the CFG. Each cycle is a list of block indices that starts with its
// smallest index and ends with it again.
func (g *CFG) Cycles() [][]int {
	return funcutil.Map(graphutil.FindAllElementaryCycles(g.Graph()), func(c []int64) []int {
		return funcutil.Map(c, func(x int64) int { return int(x) })
	})
}
