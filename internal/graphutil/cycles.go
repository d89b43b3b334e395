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

import (
	"github.com/yourbasic/graph"
)

// FindAllElementaryCycles finds all elementary cycles in the graph g.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975
//
// Each cycle starts with its least node and ends with that same node, e.g. [0 2 1 0]. Self-loops are cycles of the
// form [x x].
func FindAllElementaryCycles(g *Digraph) [][]int64 {
	s := &state{cycles: [][]int64{}}
	n := g.Order()
	start := 0
	for start < n {
		include := map[int64]bool{}
		for i := start; i < n; i++ {
			include[int64(i)] = true
		}
		fg := g.Induced(include)

		// find the strongly connected component containing the least node that is on some cycle
		least := -1
		var component []int
		for _, c := range graph.StrongComponents(fg) {
			if !onCycle(fg, c) {
				continue
			}
			m := c[0]
			for _, x := range c {
				if x < m {
					m = x
				}
			}
			if least < 0 || m < least {
				least = m
				component = c
			}
		}
		if least < 0 {
			return s.cycles
		}

		inComponent := map[int64]bool{}
		for _, x := range component {
			inComponent[int64(x)] = true
		}
		s.stack = []int64{}
		s.blocked = map[int64]bool{}
		s.blist = map[int64]map[int64]bool{}
		s.circuit(int64(least), int64(least), fg.Induced(inComponent))
		start = least + 1
	}
	return s.cycles
}

// onCycle returns true if the component has more than one node, or is a single node with a self-loop
func onCycle(g *Digraph, component []int) bool {
	if len(component) >= 2 {
		return true
	}
	return len(component) == 1 && g.HasEdgeFromTo(int64(component[0]), int64(component[0]))
}

type state struct {
	blocked map[int64]bool
	blist   map[int64]map[int64]bool
	stack   []int64
	cycles  [][]int64
}

func (s *state) unblock(u int64) {
	s.blocked[u] = false
	for w := range s.blist[u] {
		delete(s.blist[u], w)
		if s.blocked[w] {
			s.unblock(w)
		}
	}
}

func (s *state) circuit(v int64, i int64, g *Digraph) bool {
	f := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	for _, w := range g.succs[v] {
		if w == i {
			stackCopy := make([]int64, len(s.stack), len(s.stack)+1)
			copy(stackCopy, s.stack)
			stackCopy = append(stackCopy, w)
			s.cycles = append(s.cycles, stackCopy)
			f = true
		} else if !s.blocked[w] {
			if s.circuit(w, i, g) {
				f = true
			}
		}
	}

	if f {
		s.unblock(v)
	} else {
		for _, w := range g.succs[v] {
			m := s.blist[w]
			if m != nil {
				m[v] = true
			} else {
				s.blist[w] = map[int64]bool{v: true}
			}
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	return f
}
