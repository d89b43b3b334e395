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

// Package render writes the control-flow graphs of Bril functions in the GraphViz DOT format.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/internal/graphutil"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
)

// Graph returns the digraph of g annotated with DOT attributes: each node is a box listing the block's
// instructions, and the edges out of a br are labelled true and false.
func Graph(g *cfg.CFG) *graphutil.Digraph {
	dg := graphutil.NewDigraph(g.NumBlocks())
	for _, b := range g.Blocks() {
		dg.SetNode(int64(b.Index), b.String(),
			encoding.Attribute{Key: "shape", Value: "box"},
			encoding.Attribute{Key: "label", Value: blockText(b)})
	}
	for _, b := range g.Blocks() {
		isBranch := b.Last().Op == bril.OpBranch
		for k, succ := range g.SuccessorIndices(b.Index) {
			if isBranch {
				dg.AddEdge(int64(b.Index), int64(succ), encoding.Attribute{Key: "label", Value: branchLabel(k)})
			} else {
				dg.AddEdge(int64(b.Index), int64(succ))
			}
		}
	}
	return dg
}

func branchLabel(k int) string {
	if k == 0 {
		return "true"
	}
	return "false"
}

// blockText returns the text of a block node: its name followed by one instruction per line
func blockText(b *cfg.BasicBlock) string {
	var s strings.Builder
	s.WriteString(b.String())
	s.WriteString(":")
	for _, instr := range b.Instrs {
		s.WriteString("\n  ")
		s.WriteString(instr.String())
	}
	return s.String()
}

// DOT returns the DOT representation of g, as a strict digraph called name
func DOT(g *cfg.CFG, name string) ([]byte, error) {
	b, err := dot.Marshal(Graph(g), name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal graph %s: %w", name, err)
	}
	return b, nil
}

// WriteProgram writes the DOT representation of every function of prog to w, one graph per function. The
// functions that do not have a valid CFG are reported in the error, and the others are still written.
func WriteProgram(w io.Writer, prog *bril.Program) error {
	var errs []string
	for i := range prog.Functions {
		fn := &prog.Functions[i]
		g, err := cfg.Build(fn)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		b, err := DOT(g, fn.Name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return fmt.Errorf("error while writing graph: %w", err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("could not render %d function(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// WriteProgramToFile writes the DOT representation of prog to filename
func WriteProgramToFile(prog *bril.Program, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	w := bufio.NewWriter(f)
	err = WriteProgram(w, prog)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
