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

// Package dce implements the front-end of the dead code elimination: it removes the dead instructions of every
// function of a Bril program and writes the optimized program in JSON form.
package dce

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-bril-tools/analysis"
	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/tools"
)

// Usage is the usage of the dce tool
const Usage = `Remove the instructions whose results are never used from a Bril program.
Usage:
  arbril dce [options] <program.json | ->
The optimized program is written on the standard output, and whether each function has been optimized is reported
on the standard error.
Examples:
  % bril2json < loop.bril | arbril dce | bril2txt
`

// Flags represents the parsed dce sub-command flags.
type Flags struct {
	tools.CommonFlags
	output string
}

// NewFlags returns the parsed dce sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("dce")
	output := flags.FlagSet.String("o", "", "output file (standard output if not specified)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, output: *output}, nil
}

// Run runs the dce tool with flags. The output file is only written when the whole program has been optimized.
func Run(flags Flags) error {
	if flags.output == "" {
		return run(flags, os.Stdout, os.Stderr)
	}
	var buf bytes.Buffer
	if err := run(flags, &buf, os.Stderr); err != nil {
		return err
	}
	if err := os.WriteFile(flags.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}
	return nil
}

func run(flags Flags, w io.Writer, report io.Writer) error {
	cfg, logger, prog, err := tools.Setup(flags.CommonFlags)
	if err != nil {
		return err
	}
	changed, err := analysis.EliminateDeadCode(prog, cfg, logger)
	if err != nil {
		return err
	}
	for i, fn := range prog.Functions {
		if changed[i] {
			fmt.Fprintf(report, "Function %s: optimized.\n", fn.Name)
		} else {
			fmt.Fprintf(report, "Function %s: not optimized.\n", fn.Name)
		}
	}
	return bril.WriteProgram(w, prog)
}
