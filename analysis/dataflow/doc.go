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

/*
Package dataflow implements a generic monotone dataflow framework over the control flow graph of a Bril function.

An analysis is a [Lattice] over some state type T together with a [Direction]. A [Solver] builds the blocks and the CFG
of the function and computes a fixed point by sweeping over all the blocks until no block's entry state changes:

	solver, err := dataflow.NewSolver[liveness.VarSet](liveness.Lattice{}, fn, dataflow.Backward)
	if err != nil {
		return err
	}
	live, err := solver.StateBeforeInstr(id)

States are always queried in program order: the state before an instruction is the state at the point just before
it executes, whatever the direction of the analysis. Termination requires that the lattice has finite height and
that Merge and Transfer are monotone; [Options] can bound the number of sweeps to detect violations.
*/
package dataflow
