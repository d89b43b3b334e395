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

package graphutil

// StronglyConnectedComponents computes the strongly connected components (SCCs) of the graph reachable from nodes,
// using Tarjan's algorithm with an explicit stack so that long chains of nodes do not exhaust the goroutine stack.
//
// Components are returned in reverse topological order: if a component A has an edge into a component B, then B is
// returned before A. The order of the nodes inside a component is unspecified.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	type frame struct {
		node  T
		succs []T
		next  int
	}
	index := map[T]int{}
	lowlink := map[T]int{}
	onStack := map[T]bool{}
	var stack []T
	var sccs [][]T

	push := func(v T) frame {
		index[v] = len(index)
		lowlink[v] = index[v]
		stack = append(stack, v)
		onStack[v] = true
		return frame{node: v, succs: successors(v)}
	}

	for _, root := range nodes {
		if _, visited := index[root]; visited {
			continue
		}
		work := []frame{push(root)}
		for len(work) > 0 {
			top := &work[len(work)-1]
			if top.next < len(top.succs) {
				w := top.succs[top.next]
				top.next++
				if _, visited := index[w]; !visited {
					work = append(work, push(w))
				} else if onStack[w] && index[w] < lowlink[top.node] {
					lowlink[top.node] = index[w]
				}
				continue
			}
			// all successors of top.node are done
			v := top.node
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}
			if lowlink[v] != index[v] {
				continue
			}
			var scc []T
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}
	return sccs
}

// Components returns the strongly connected components of all the nodes of g, in reverse topological order.
func (g *Digraph) Components() [][]int64 {
	nodes := make([]int64, g.Order())
	for i := range nodes {
		nodes[i] = int64(i)
	}
	return StronglyConnectedComponents(nodes, func(x int64) []int64 { return g.succs[x] })
}
