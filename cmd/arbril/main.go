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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/ar-bril-tools/analysis"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/blocks"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/cfg"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/dataflow"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/dce"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/tools"
	"github.com/awslabs/ar-bril-tools/internal/formatutil"
)

const usage = `Arbril: Automated Reasoning Bril Tools
Usage:
  arbril [tool] [options] <program.json | ->
Tools:
  - dataflow: runs dataflow analyses (live variables, reaching definitions, constant propagation) on every function
  - blocks: prints the number of basic blocks of every function
  - cfg: prints the control flow graph of every function, or renders it in the GraphViz DOT format
  - dce: removes dead code and writes the optimized program
Programs are in Bril's JSON form; - reads the program from the standard input.
Examples:
  Print the live variables: bril2json < loop.bril | arbril dataflow -analysis live
  Render the control flow graphs: arbril cfg -dot -o loop.dot loop.json`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "dataflow":
		flags, err := dataflow.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := dataflow.Run(flags); err != nil {
			errExit(err)
		}
	case "blocks":
		flags, err := blocks.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := blocks.Run(flags); err != nil {
			errExit(err)
		}
	case "cfg":
		flags, err := cfg.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := cfg.Run(flags); err != nil {
			errExit(err)
		}
	case "dce":
		flags, err := dce.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := dce.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", formatutil.Red("error"), err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", formatutil.Yellow("Hint"), hint)
	}
	os.Exit(2)
}
