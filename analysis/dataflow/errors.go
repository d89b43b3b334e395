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

import "fmt"

// UnreachedQueryError is returned when the state of a program point that has not been assigned by the solver is
// queried, for example a label, an instruction of another function or a block of another CFG.
type UnreachedQueryError struct {
	// Kind is the kind of program point queried: "instruction" or "block"
	Kind string

	// Index is the InstrID of the instruction or the index of the block
	Index int
}

func (e *UnreachedQueryError) Error() string {
	return fmt.Sprintf("no state for %s %d: program point not reached by the analysis", e.Kind, e.Index)
}

// NonTerminationError is returned when the solver does not reach a fixed point within the configured number of
// sweeps. This indicates that the lattice does not have finite height, or that its operations are not monotone.
type NonTerminationError struct {
	Sweeps int
}

func (e *NonTerminationError) Error() string {
	return fmt.Sprintf("no fixed point after %d sweeps", e.Sweeps)
}
