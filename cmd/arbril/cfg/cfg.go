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

// Package cfg implements the front-end printing the control flow graphs of a Bril program, as text or in the
// GraphViz DOT format.
package cfg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	brilcfg "github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/render"
	"github.com/awslabs/ar-bril-tools/cmd/arbril/tools"
	"github.com/awslabs/ar-bril-tools/internal/formatutil"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
	"github.com/awslabs/ar-bril-tools/internal/graphutil"
)

// Usage is the usage of the cfg tool
const Usage = `Print the control flow graphs of a Bril program.
Usage:
  arbril cfg [options] <program.json | ->
For each function, prints the successors and immediate dominator of every block, and the natural loops.
Examples:
  % arbril cfg loop.json
Render the graphs in a dot file:
  % arbril cfg -dot -o loop.dot loop.json
`

// Flags represents the parsed cfg sub-command flags.
type Flags struct {
	tools.CommonFlags
	dot    bool
	output string
}

// NewFlags returns the parsed cfg sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("cfg")
	dot := flags.FlagSet.Bool("dot", false, "output the graphs in the GraphViz DOT format")
	output := flags.FlagSet.String("o", "", "output file (standard output if not specified)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, dot: *dot, output: *output}, nil
}

// Run runs the cfg tool with flags. The output file is not created when nothing could be rendered; functions
// rendered before an error are still written.
func Run(flags Flags) error {
	if flags.output == "" {
		return run(flags, os.Stdout)
	}
	var buf bytes.Buffer
	err := run(flags, &buf)
	if buf.Len() > 0 {
		if werr := os.WriteFile(flags.output, buf.Bytes(), 0o644); werr != nil && err == nil {
			err = fmt.Errorf("could not write file: %w", werr)
		}
	}
	return err
}

func run(flags Flags, w io.Writer) error {
	_, logger, prog, err := tools.Setup(flags.CommonFlags)
	if err != nil {
		return err
	}
	if flags.dot {
		logger.Infof(formatutil.Faint("Rendering %d function(s)"), len(prog.Functions))
		return render.WriteProgram(w, prog)
	}
	for i := range prog.Functions {
		g, err := brilcfg.Build(&prog.Functions[i])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Function %s\n", prog.Functions[i].Name)
		writeGraph(w, g)
	}
	return nil
}

// writeGraph writes one line per block with its successors and immediate dominator, one line per loop, and the
// dominator tree indented by depth
func writeGraph(w io.Writer, g *brilcfg.CFG) {
	idom := g.Dominators()
	reachable := g.Reachable()
	name := func(i int) string { return g.Block(i).String() }

	for _, b := range g.Blocks() {
		succs := funcutil.Map(g.SuccessorIndices(b.Index), name)
		line := fmt.Sprintf("\t%s -> %s", b, formatutil.Set(succs))
		switch {
		case !reachable[b.Index]:
			line += " (unreachable)"
		case idom[b.Index] >= 0:
			line += " idom " + name(idom[b.Index])
		}
		fmt.Fprintln(w, line)
	}
	exits := funcutil.Map(g.Exits(), func(b *brilcfg.BasicBlock) string { return b.String() })
	fmt.Fprintf(w, "\texits %s\n", formatutil.Set(exits))
	for _, loop := range g.Loops() {
		fmt.Fprintf(w, "\tloop %s: body %s latches %s\n", name(loop.Header),
			formatutil.Set(funcutil.Map(loop.Body, name)),
			strings.Join(funcutil.Map(loop.Latches, name), " "))
	}
	fmt.Fprintln(w, "\tdominator tree")
	g.DominatorTree().Walk(func(t *graphutil.Tree[int]) {
		fmt.Fprintf(w, "\t%s%s\n", strings.Repeat("  ", t.Depth()+1), name(t.Label))
	})
}
