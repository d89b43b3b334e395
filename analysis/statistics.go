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

package analysis

import (
	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// FunctionStatistics describes the control flow graph of a function
type FunctionStatistics struct {
	Name                      string
	NumberOfBlocks            int
	NumberOfInstructions      int
	NumberOfEdges             int
	NumberOfExits             int
	NumberOfLoops             int
	NumberOfUnreachableBlocks int
}

// Statistics holds the statistics of a whole program, and of each of its functions in program order
type Statistics struct {
	NumberOfFunctions    int
	NumberOfBlocks       int
	NumberOfInstructions int
	Functions            []FunctionStatistics
}

// BlockStatistics returns statistics about the basic blocks and control flow graphs of the functions of prog.
// Instructions are counted without labels. It fails if the CFG of a function cannot be built.
func BlockStatistics(prog *bril.Program) (Statistics, error) {
	result := Statistics{}

	for i := range prog.Functions {
		g, err := cfg.Build(&prog.Functions[i])
		if err != nil {
			return result, err
		}
		stats := FunctionStatistics{
			Name:           prog.Functions[i].Name,
			NumberOfBlocks: g.NumBlocks(),
			NumberOfExits:  len(g.Exits()),
			NumberOfLoops:  len(g.Loops()),
		}
		for _, b := range g.Blocks() {
			stats.NumberOfInstructions += b.Len()
			stats.NumberOfEdges += len(g.SuccessorIndices(b.Index))
		}
		stats.NumberOfUnreachableBlocks = len(funcutil.Filter(g.Reachable(), func(r bool) bool { return !r }))

		result.NumberOfFunctions++
		result.NumberOfBlocks += stats.NumberOfBlocks
		result.NumberOfInstructions += stats.NumberOfInstructions
		result.Functions = append(result.Functions, stats)
	}

	return result, nil
}
