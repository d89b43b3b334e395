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

import "fmt"

// MalformedProgramError is returned when a block's instructions cannot be turned into control-flow edges, for
// example a jmp that does not have exactly one label, or a duplicate label.
type MalformedProgramError struct {
	// Block is the index of the offending block, or -1 if the error is not specific to a block
	Block int

	// Op is the operation of the offending instruction, if any
	Op string

	// Reason describes the problem
	Reason string
}

func (e *MalformedProgramError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("malformed program in block %d: %s", e.Block, e.Reason)
	}
	return fmt.Sprintf("malformed program in block %d: %s: %s", e.Block, e.Op, e.Reason)
}

// UnresolvedLabelError is returned when an instruction jumps to a label that names no block
type UnresolvedLabelError struct {
	Label string
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("unresolved label %q", e.Label)
}

// EmptyFunctionError is returned when a CFG is built from zero blocks
type EmptyFunctionError struct{}

func (e *EmptyFunctionError) Error() string {
	return "cannot build a control flow graph without blocks"
}
