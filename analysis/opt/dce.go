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

// Package opt contains optimizations of Bril functions that rely on the dataflow analyses.
package opt

import (
	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
	"github.com/awslabs/ar-bril-tools/analysis/liveness"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// EliminateDeadCode removes from fn the pure instructions whose destination is not live after them, until no such
// instruction remains. Labels and instructions with effects are kept. It returns true if fn has been modified.
//
// Removing an instruction can make the definitions of its arguments dead, so liveness is recomputed after each
// round of removals.
func EliminateDeadCode(fn *bril.Function, opts dataflow.Options) (bool, error) {
	changed := false
	for round := 1; ; round++ {
		solver, err := liveness.Analyze(fn, opts)
		if err != nil {
			return changed, err
		}
		dead, err := deadInstructions(solver)
		if err != nil {
			return changed, err
		}
		opts.Logger.Tracef("%s: dead code elimination round %d removes %d instruction(s)", fn.Name, round, len(dead))
		if len(dead) == 0 {
			return changed, nil
		}
		fn.Instrs = removeInstructions(fn.Instrs, dead)
		changed = true
		// a function left with labels only has no block to analyze, and nothing more to remove
		if !funcutil.Exists(fn.Instrs, bril.Instruction.IsOp) {
			return changed, nil
		}
	}
}

// deadInstructions returns the ids of the pure instructions whose destination is dead
func deadInstructions(solver *dataflow.Solver[liveness.VarSet]) (map[cfg.InstrID]bool, error) {
	dead := map[cfg.InstrID]bool{}
	for _, b := range solver.CFG().Blocks() {
		for k := 0; k < b.Len(); k++ {
			instr := b.Instr(k)
			if !instr.IsPure() {
				continue
			}
			live, err := solver.StateAfterInstr(instr.ID)
			if err != nil {
				return nil, err
			}
			if !live.Has(instr.Dest) {
				dead[instr.ID] = true
			}
		}
	}
	return dead, nil
}

// removeInstructions returns the instruction stream without the instructions in dead. Since instruction ids are
// positions in the stream, the projection is direct.
func removeInstructions(instrs []bril.Instruction, dead map[cfg.InstrID]bool) []bril.Instruction {
	kept := make([]bril.Instruction, 0, len(instrs)-len(dead))
	for i, instr := range instrs {
		if !dead[cfg.InstrID(i)] {
			kept = append(kept, instr)
		}
	}
	return kept
}
