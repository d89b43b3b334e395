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

// Package blocks implements the front-end printing the basic blocks statistics of a Bril program.
package blocks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-bril-tools/analysis"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/tools"
)

// Usage is the usage of the blocks tool
const Usage = `Count the functions and basic blocks of a Bril program.
Usage:
  arbril blocks [options] <program.json | ->
Examples:
  % bril2json < loop.bril | arbril blocks
  % arbril blocks -json loop.json
`

// Flags represents the parsed blocks sub-command flags.
type Flags struct {
	tools.CommonFlags
	outputJSON bool
}

// NewFlags returns the parsed blocks sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("blocks")
	outputJSON := flags.FlagSet.Bool("json", false, "output results as JSON")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, outputJSON: *outputJSON}, nil
}

// Run runs the blocks tool with flags.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	_, logger, prog, err := tools.Setup(flags.CommonFlags)
	if err != nil {
		return err
	}
	result, err := analysis.BlockStatistics(prog)
	if err != nil {
		return err
	}
	if flags.outputJSON {
		buf, _ := json.Marshal(result)
		fmt.Fprintln(w, string(buf))
		return nil
	}

	fmt.Fprintf(w, "%d function(s)\n", result.NumberOfFunctions)
	for _, f := range result.Functions {
		fmt.Fprintf(w, "Function %q: %d basic block(s)\n", f.Name, f.NumberOfBlocks)
		logger.Debugf("%s: %d instruction(s), %d edge(s), %d exit(s), %d loop(s), %d unreachable block(s)",
			f.Name, f.NumberOfInstructions, f.NumberOfEdges, f.NumberOfExits, f.NumberOfLoops,
			f.NumberOfUnreachableBlocks)
	}
	return nil
}
