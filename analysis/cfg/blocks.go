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
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
)

// InstrID identifies an instruction by its index in the instruction stream of its function. Labels also occupy an
// index in the stream, but they are not part of any block.
type InstrID int

// Instr is an instruction of a basic block paired with its identity in the function
type Instr struct {
	ID InstrID
	bril.Instruction
}

func (i Instr) String() string {
	return fmt.Sprintf("%d: %s", i.ID, i.Instruction)
}

// BasicBlock is a maximal sequence of instructions with a single entry at the top and at most one terminator, at
// the bottom.
type BasicBlock struct {
	// Index is the position of the block in program order. It identifies the block in its CFG.
	Index int

	// Name is the label that starts the block, or "" if none does
	Name string

	// Labels lists all the labels that name the block, in program order. The last one is Name.
	Labels []string

	// Instrs are the instructions of the block. Labels are not included.
	Instrs []bril.Instruction

	// Start is the index of the first instruction of the block in the instruction stream of its function
	Start int
}

// Len returns the number of instructions in the block
func (b *BasicBlock) Len() int {
	return len(b.Instrs)
}

// Instr returns the i-th instruction of the block with its identity
func (b *BasicBlock) Instr(i int) Instr {
	return Instr{ID: InstrID(b.Start + i), Instruction: b.Instrs[i]}
}

// Last returns the last instruction of the block. The block must not be empty.
func (b *BasicBlock) Last() Instr {
	return b.Instr(len(b.Instrs) - 1)
}

// Contains returns true if the instruction id belongs to the block
func (b *BasicBlock) Contains(id InstrID) bool {
	return int(id) >= b.Start && int(id) < b.Start+len(b.Instrs)
}

// String returns the name of the block if it has one, and a name derived from its index otherwise
func (b *BasicBlock) String() string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("b%d", b.Index)
}

// Partition splits the instruction stream of a function into basic blocks, in program order.
//
// A label closes the current block if it is not empty; otherwise it renames the current block, so consecutive labels
// name the same block. A terminator closes the current block. Every non-label instruction appears in exactly one
// block, and a label that is followed by no instruction produces no block.
func Partition(instrs []bril.Instruction) []*BasicBlock {
	var blocks []*BasicBlock
	cur := &BasicBlock{}

	emit := func(next int) {
		if len(cur.Instrs) > 0 {
			cur.Index = len(blocks)
			blocks = append(blocks, cur)
			cur = &BasicBlock{Start: next}
		}
	}

	for i, instr := range instrs {
		if instr.IsLabel() {
			emit(i + 1)
			cur.Name = instr.Label
			cur.Labels = append(cur.Labels, instr.Label)
			cur.Start = i + 1
			continue
		}
		if len(cur.Instrs) == 0 {
			cur.Start = i
		}
		cur.Instrs = append(cur.Instrs, instr)
		if instr.IsTerminator() {
			emit(i + 1)
		}
	}
	emit(len(instrs))
	return blocks
}
