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

// Package cfg builds the basic blocks and the control flow graph of a Bril function.
//
// Blocks are identified by their index in program order. The entry block has index 0. Instructions are identified by
// their index in the function's instruction stream (see [InstrID]), so analysis results on blocks can be projected
// back onto the stream.
package cfg

import (
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// CFG is the control flow graph of a function. It is immutable once built.
type CFG struct {
	blocks []*BasicBlock

	// byName maps every label of every block to the block's index
	byName map[string]int

	// succs[i] are the indices of the successors of block i, in the order of the terminator's labels
	succs [][]int

	// preds[i] are the indices of the predecessors of block i, in edge insertion order
	preds [][]int

	// numInstrs is the length of the instruction stream covered by the blocks
	numInstrs int
}

// Build partitions the instructions of fn into blocks and builds their control flow graph
func Build(fn *bril.Function) (*CFG, error) {
	g, err := New(Partition(fn.Instrs))
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}
	if len(fn.Instrs) > g.numInstrs {
		g.numInstrs = len(fn.Instrs)
	}
	return g, nil
}

// New builds the control flow graph of blocks, which must be in program order with the entry first. The blocks are
// re-indexed by their position in the slice.
//
// A block ending with jmp has the target of the jump as its only successor, a block ending with br has both targets,
// in order, as successors, and a block ending with ret has no successor. Any other block falls through to the next
// block in program order, if there is one.
func New(blocks []*BasicBlock) (*CFG, error) {
	if len(blocks) == 0 {
		return nil, &EmptyFunctionError{}
	}
	g := &CFG{
		blocks: blocks,
		byName: make(map[string]int, len(blocks)),
		succs:  make([][]int, len(blocks)),
		preds:  make([][]int, len(blocks)),
	}
	for i, b := range blocks {
		b.Index = i
		if end := b.Start + len(b.Instrs); end > g.numInstrs {
			g.numInstrs = end
		}
		labels := b.Labels
		if b.Name != "" && !funcutil.Contains(labels, b.Name) {
			labels = append(append([]string(nil), labels...), b.Name)
		}
		for _, label := range labels {
			if other, dup := g.byName[label]; dup {
				return nil, &MalformedProgramError{
					Block:  i,
					Reason: fmt.Sprintf("label %q already names block %d", label, other),
				}
			}
			g.byName[label] = i
		}
		if err := checkBlock(b); err != nil {
			return nil, err
		}
	}

	for i, b := range blocks {
		targets, err := g.targets(b)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			g.addEdge(i, t)
		}
	}
	return g, nil
}

// checkBlock verifies that the block is not empty, contains no label and has terminators only at the end
func checkBlock(b *BasicBlock) error {
	if len(b.Instrs) == 0 {
		return &MalformedProgramError{Block: b.Index, Reason: "empty block"}
	}
	for k, instr := range b.Instrs {
		if instr.IsLabel() {
			return &MalformedProgramError{Block: b.Index, Reason: fmt.Sprintf("label %q inside a block", instr.Label)}
		}
		if instr.IsTerminator() && k != len(b.Instrs)-1 {
			return &MalformedProgramError{Block: b.Index, Op: instr.Op, Reason: "terminator before the end of the block"}
		}
	}
	return nil
}

// targets returns the indices of the successors of b, in order. Only the labels field of the last instruction
// carries targets: without one, control falls through to the next block, unless the block returns.
func (g *CFG) targets(b *BasicBlock) ([]int, error) {
	last := b.Instrs[len(b.Instrs)-1]
	var labels []string
	switch {
	case !last.IsOp() || !last.HasLabels():
		if last.Op == bril.OpReturn {
			return nil, nil
		}
		if b.Index+1 < len(g.blocks) {
			return []int{b.Index + 1}, nil
		}
		return nil, nil
	case last.Op == bril.OpJump:
		if len(last.Labels) != 1 {
			return nil, &MalformedProgramError{Block: b.Index, Op: last.Op,
				Reason: fmt.Sprintf("expected 1 label, got %d", len(last.Labels))}
		}
		labels = last.Labels
	case last.Op == bril.OpBranch:
		if len(last.Labels) != 2 {
			return nil, &MalformedProgramError{Block: b.Index, Op: last.Op,
				Reason: fmt.Sprintf("expected 2 labels, got %d", len(last.Labels))}
		}
		labels = last.Labels
	default:
		return nil, &MalformedProgramError{Block: b.Index, Op: last.Op, Reason: "unrecognized operation with labels"}
	}
	targets := make([]int, len(labels))
	for k, label := range labels {
		t, ok := g.byName[label]
		if !ok {
			return nil, &UnresolvedLabelError{Label: label}
		}
		targets[k] = t
	}
	return targets, nil
}

func (g *CFG) addEdge(from, to int) {
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// Entry returns the entry block
func (g *CFG) Entry() *BasicBlock {
	return g.blocks[0]
}

// Exits returns the blocks without successors, in program order
func (g *CFG) Exits() []*BasicBlock {
	var exits []*BasicBlock
	for i, s := range g.succs {
		if len(s) == 0 {
			exits = append(exits, g.blocks[i])
		}
	}
	return exits
}

// Blocks returns the blocks in program order. The slice must not be modified.
func (g *CFG) Blocks() []*BasicBlock {
	return g.blocks
}

// NumBlocks returns the number of blocks
func (g *CFG) NumBlocks() int {
	return len(g.blocks)
}

// Block returns the block with index i, or nil if there is none
func (g *CFG) Block(i int) *BasicBlock {
	if i < 0 || i >= len(g.blocks) {
		return nil
	}
	return g.blocks[i]
}

// BlockByName returns the block named by label, which may be any of the labels of the block
func (g *CFG) BlockByName(label string) (*BasicBlock, bool) {
	i, ok := g.byName[label]
	if !ok {
		return nil, false
	}
	return g.blocks[i], true
}

// Owns returns true if b is a block of g
func (g *CFG) Owns(b *BasicBlock) bool {
	return b != nil && b.Index >= 0 && b.Index < len(g.blocks) && g.blocks[b.Index] == b
}

// Successors returns the successors of b in edge order. A br with identical targets yields the same block twice.
func (g *CFG) Successors(b *BasicBlock) []*BasicBlock {
	return g.lookup(g.succs[b.Index])
}

// Predecessors returns the predecessors of b in edge insertion order
func (g *CFG) Predecessors(b *BasicBlock) []*BasicBlock {
	return g.lookup(g.preds[b.Index])
}

// SuccessorIndices returns the indices of the successors of block i. The slice must not be modified.
func (g *CFG) SuccessorIndices(i int) []int {
	return g.succs[i]
}

// PredecessorIndices returns the indices of the predecessors of block i. The slice must not be modified.
func (g *CFG) PredecessorIndices(i int) []int {
	return g.preds[i]
}

func (g *CFG) lookup(indices []int) []*BasicBlock {
	res := make([]*BasicBlock, len(indices))
	for k, i := range indices {
		res[k] = g.blocks[i]
	}
	return res
}

// NumInstrs returns the length of the instruction stream the blocks were built from. Every InstrID of the
// function is smaller.
func (g *CFG) NumInstrs() int {
	return g.numInstrs
}

// Instr returns the instruction with identity id and the block that contains it. It returns false if id is a
// label or is out of range.
func (g *CFG) Instr(id InstrID) (Instr, *BasicBlock, bool) {
	for _, b := range g.blocks {
		if b.Contains(id) {
			return b.Instr(int(id) - b.Start), b, true
		}
	}
	return Instr{}, nil, false
}
