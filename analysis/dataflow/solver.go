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

package dataflow

import (
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// states is a map from indices to states, with presence bits
type states[T any] struct {
	values []T
	set    []bool
}

func newStates[T any](n int) states[T] {
	return states[T]{values: make([]T, n), set: make([]bool, n)}
}

func (s states[T]) get(i int) (T, bool) {
	if i < 0 || i >= len(s.values) || !s.set[i] {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

func (s states[T]) put(i int, v T) {
	s.values[i] = v
	s.set[i] = true
}

// Solver computes the fixed point of a dataflow analysis over a function and stores the state at every program
// point. After construction, the state queries can run concurrently with each other. Recheck updates the states
// and must not run concurrently with any other method.
type Solver[T any] struct {
	lattice   Lattice[T]
	fn        *bril.Function
	graph     *cfg.CFG
	direction Direction
	options   Options

	// program-order states
	beforeInstr states[T]
	afterInstr  states[T]
	beforeBlock states[T]
	afterBlock  states[T]

	// order is the sequence of block indices visited in each sweep
	order []int

	sweeps int
}

// NewSolver builds the CFG of fn and solves the analysis defined by lattice in direction dir, without bound on the
// number of sweeps.
func NewSolver[T any](lattice Lattice[T], fn *bril.Function, dir Direction) (*Solver[T], error) {
	return NewSolverWithOptions(lattice, fn, dir, Options{})
}

// NewSolverWithOptions builds the CFG of fn and solves the analysis defined by lattice in direction dir.
// It returns an error if the CFG cannot be built, or a NonTerminationError if no fixed point is reached within
// opts.MaxSweeps sweeps.
func NewSolverWithOptions[T any](lattice Lattice[T], fn *bril.Function, dir Direction, opts Options) (*Solver[T],
	error) {
	g, err := cfg.Build(fn)
	if err != nil {
		return nil, err
	}
	s := &Solver[T]{
		lattice:     lattice,
		fn:          fn,
		graph:       g,
		direction:   dir,
		options:     opts,
		beforeInstr: newStates[T](g.NumInstrs()),
		afterInstr:  newStates[T](g.NumInstrs()),
		beforeBlock: newStates[T](g.NumBlocks()),
		afterBlock:  newStates[T](g.NumBlocks()),
	}
	s.order = s.visitOrder()
	if err := s.solve(); err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}
	return s, nil
}

// The following methods adapt the program-order states and edges to the direction of the analysis: "in" is where
// states enter a block or an instruction, "out" is where they leave it.

func (s *Solver[T]) blockIn() states[T] {
	if s.direction == Backward {
		return s.afterBlock
	}
	return s.beforeBlock
}

func (s *Solver[T]) blockOut() states[T] {
	if s.direction == Backward {
		return s.beforeBlock
	}
	return s.afterBlock
}

func (s *Solver[T]) instrIn() states[T] {
	if s.direction == Backward {
		return s.afterInstr
	}
	return s.beforeInstr
}

func (s *Solver[T]) instrOut() states[T] {
	if s.direction == Backward {
		return s.beforeInstr
	}
	return s.afterInstr
}

func (s *Solver[T]) flowPredecessors(i int) []int {
	if s.direction == Backward {
		return s.graph.SuccessorIndices(i)
	}
	return s.graph.PredecessorIndices(i)
}

// isBoundary returns true if the boundary state flows into block i: the entry block of a forward analysis, and any
// block without predecessors in the direction of the analysis.
func (s *Solver[T]) isBoundary(i int) bool {
	return len(s.flowPredecessors(i)) == 0 || (s.direction == Forward && i == 0)
}

func (s *Solver[T]) visitOrder() []int {
	var order []int
	if s.options.Order == ReversePostorder {
		order = s.graph.ReversePostorder()
	} else {
		order = make([]int, s.graph.NumBlocks())
		for i := range order {
			order[i] = i
		}
	}
	if s.direction == Backward {
		funcutil.Reverse(order)
	}
	return order
}

func (s *Solver[T]) solve() error {
	// Exit states are seeded to bottom so that merges never see a missing predecessor. Entry states are left unset
	// so that every block is processed in the first sweep.
	for i := 0; i < s.graph.NumBlocks(); i++ {
		s.blockOut().put(i, s.lattice.Bottom())
	}
	for {
		if s.options.MaxSweeps > 0 && s.sweeps >= s.options.MaxSweeps {
			return &NonTerminationError{Sweeps: s.sweeps}
		}
		changed := s.sweep()
		s.options.Logger.Tracef("%s: sweep %d, %d block(s) changed", s.fn.Name, s.sweeps, changed)
		if changed == 0 {
			break
		}
	}
	s.options.Logger.Debugf("%s: %s analysis converged after %d sweeps over %d blocks",
		s.fn.Name, s.direction, s.sweeps, s.graph.NumBlocks())
	return nil
}

// sweep visits every block once and returns the number of blocks whose entry state changed
func (s *Solver[T]) sweep() int {
	s.sweeps++
	changed := 0
	for _, i := range s.order {
		if s.visit(i) {
			changed++
		}
	}
	return changed
}

// visit recomputes the entry state of block i, and propagates it through the block if it changed
func (s *Solver[T]) visit(i int) bool {
	preds := s.flowPredecessors(i)
	incoming := make([]T, 0, len(preds)+1)
	if s.isBoundary(i) {
		incoming = append(incoming, boundary(s.lattice))
	}
	for _, p := range preds {
		if v, ok := s.blockOut().get(p); ok {
			incoming = append(incoming, v)
		}
	}
	entry := MergeMany(s.lattice, incoming...)

	if old, ok := s.blockIn().get(i); ok && s.lattice.IsSubset(entry, old) {
		return false
	}
	s.blockIn().put(i, entry)

	b := s.graph.Block(i)
	cur := entry
	for k := 0; k < b.Len(); k++ {
		pos := k
		if s.direction == Backward {
			pos = b.Len() - 1 - k
		}
		instr := b.Instr(pos)
		s.instrIn().put(int(instr.ID), cur)
		cur = s.lattice.Transfer(cur, instr)
		s.instrOut().put(int(instr.ID), cur)
	}
	s.blockOut().put(i, cur)
	return true
}

// Recheck runs one more sweep over the blocks and returns the number of blocks whose entry state changed. It returns
// 0 when the solver is at a fixed point.
func (s *Solver[T]) Recheck() int {
	return s.sweep()
}

// StateBeforeInstr returns the state at the program point just before the instruction id executes
func (s *Solver[T]) StateBeforeInstr(id cfg.InstrID) (T, error) {
	return s.query(s.beforeInstr, "instruction", int(id))
}

// StateAfterInstr returns the state at the program point just after the instruction id executes
func (s *Solver[T]) StateAfterInstr(id cfg.InstrID) (T, error) {
	return s.query(s.afterInstr, "instruction", int(id))
}

// StateBeforeBlock returns the state at the program point before the first instruction of b
func (s *Solver[T]) StateBeforeBlock(b *cfg.BasicBlock) (T, error) {
	if !s.graph.Owns(b) {
		return s.unreached("block", b)
	}
	return s.query(s.beforeBlock, "block", b.Index)
}

// StateAfterBlock returns the state at the program point after the last instruction of b
func (s *Solver[T]) StateAfterBlock(b *cfg.BasicBlock) (T, error) {
	if !s.graph.Owns(b) {
		return s.unreached("block", b)
	}
	return s.query(s.afterBlock, "block", b.Index)
}

func (s *Solver[T]) unreached(kind string, b *cfg.BasicBlock) (T, error) {
	var zero T
	index := -1
	if b != nil {
		index = b.Index
	}
	return zero, &UnreachedQueryError{Kind: kind, Index: index}
}

func (s *Solver[T]) query(m states[T], kind string, i int) (T, error) {
	v, ok := m.get(i)
	if !ok {
		return v, &UnreachedQueryError{Kind: kind, Index: i}
	}
	return v, nil
}

// CFG returns the control flow graph the solver analyzed
func (s *Solver[T]) CFG() *cfg.CFG {
	return s.graph
}

// Function returns the function the solver analyzed
func (s *Solver[T]) Function() *bril.Function {
	return s.fn
}

// Direction returns the direction of the analysis
func (s *Solver[T]) Direction() Direction {
	return s.direction
}

// Sweeps returns the number of sweeps performed so far, including the final sweep that detected the fixed point
func (s *Solver[T]) Sweeps() int {
	return s.sweeps
}
