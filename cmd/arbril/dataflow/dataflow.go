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

// Package dataflow implements the front-end of the dataflow analyses: it runs the analyses selected on the command
// line (or in the config file) on every function of a program and prints the state before every operation.
package dataflow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/ar-bril-tools/analysis"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/tools"
	"github.com/awslabs/ar-bril-tools/internal/formatutil"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// Usage is the usage of the dataflow tool
const Usage = `Run dataflow analyses on a Bril program.
Usage:
  arbril dataflow [options] <program.json | ->
Analyses:
  - live: live variables (backward)
  - reaching: reaching definitions (forward)
  - constprop: constant propagation (forward)
When no analysis is given, the analyses of the config file are run, or live if there is none.
Examples:
  % bril2json < loop.bril | arbril dataflow -analysis live
  % arbril dataflow -analysis reaching,constprop -json loop.json
`

// Flags represents the parsed dataflow sub-command flags.
type Flags struct {
	tools.CommonFlags
	analyses   []string
	outputJSON bool
}

// NewFlags returns the parsed dataflow sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("dataflow")
	analyses := flags.FlagSet.String("analysis", "", "comma-separated list of analyses to run")
	outputJSON := flags.FlagSet.Bool("json", false, "output results as JSON")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	var names []string
	if *analyses != "" {
		names = strings.Split(*analyses, ",")
	}
	return Flags{CommonFlags: common, analyses: names, outputJSON: *outputJSON}, nil
}

// jsonResult is the JSON form of an analysis.FunctionResult
type jsonResult struct {
	Analysis string   `json:"analysis"`
	Function string   `json:"function"`
	Before   []string `json:"before"`
	After    *string  `json:"after,omitempty"`
}

// Run runs the dataflow tool with flags.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	cfg, logger, prog, err := tools.Setup(flags.CommonFlags)
	if err != nil {
		return err
	}

	names := flags.analyses
	if len(names) == 0 {
		names = cfg.Analyses
	}
	if len(names) == 0 {
		names = []string{analysis.LiveVariables.String()}
	}

	var all []jsonResult
	for _, name := range names {
		kind, err := analysis.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		logger.Infof(formatutil.Faint("Running %s analysis on %d function(s)"), kind, len(prog.Functions))
		results, err := analysis.AnalyzeProgram(kind, prog, cfg, logger)
		if err != nil {
			return fmt.Errorf("%s analysis failed: %w", kind, err)
		}

		if flags.outputJSON {
			for _, res := range results {
				all = append(all, toJSON(kind, res))
			}
			continue
		}
		if len(names) > 1 {
			fmt.Fprintf(w, "Analysis %s\n", kind)
		}
		for _, res := range results {
			printResult(w, res)
		}
	}

	if flags.outputJSON {
		buf, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return fmt.Errorf("could not encode results: %w", err)
		}
		fmt.Fprintln(w, string(buf))
	}
	return nil
}

// printResult prints the name of the function, then one state per line: the state before every operation, and the
// state after the last one.
func printResult(w io.Writer, res analysis.FunctionResult) {
	fmt.Fprintf(w, "Function %s\n", res.Name)
	for _, state := range res.Before {
		fmt.Fprintf(w, "\t%s\n", state)
	}
	if res.After.IsSome() {
		fmt.Fprintf(w, "\t%s\n", res.After.Value())
	}
}

func toJSON(kind analysis.Kind, res analysis.FunctionResult) jsonResult {
	return jsonResult{
		Analysis: kind.String(),
		Function: res.Name,
		Before:   res.Before,
		After:    funcutil.MapOption(res.After, func(s string) *string { return &s }).ValueOr(nil),
	}
}
