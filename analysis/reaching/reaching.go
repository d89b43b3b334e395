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

// Package reaching implements the reaching definitions analysis. A definition of a variable reaches a program point
// if there is a path from the definition to the point on which the variable is not redefined.
//
// Definitions are identified by the InstrID of the defining instruction. The parameter at position i of the function
// is the pseudo-definition -(i+1), which reaches the entry of the function.
package reaching

import (
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
	"github.com/awslabs/ar-bril-tools/internal/formatutil"
	"golang.org/x/tools/container/intsets"
)

// ParamDef returns the pseudo-definition of the i-th parameter
func ParamDef(i int) int {
	return -(i + 1)
}

// Lattice is the lattice of sets of definitions of a function, ordered by inclusion. States are never modified once
// returned.
type Lattice struct {
	fn *bril.Function

	// defsOf maps each variable to all its definitions in the function
	defsOf map[string]*intsets.Sparse

	// variable maps each definition to the variable it defines
	variable map[int]string
}

// NewLattice returns the reaching definitions lattice of fn
func NewLattice(fn *bril.Function) *Lattice {
	l := &Lattice{fn: fn, defsOf: map[string]*intsets.Sparse{}, variable: map[int]string{}}
	add := func(name string, def int) {
		s, ok := l.defsOf[name]
		if !ok {
			s = &intsets.Sparse{}
			l.defsOf[name] = s
		}
		s.Insert(def)
		l.variable[def] = name
	}
	for i, arg := range fn.Args {
		add(arg.Name, ParamDef(i))
	}
	for id, instr := range fn.Instrs {
		if instr.IsOp() && instr.Dest != "" {
			add(instr.Dest, id)
		}
	}
	return l
}

// Bottom returns the empty set of definitions
func (l *Lattice) Bottom() *intsets.Sparse {
	return &intsets.Sparse{}
}

// Boundary returns the definitions of the parameters
func (l *Lattice) Boundary() *intsets.Sparse {
	s := &intsets.Sparse{}
	for i := range l.fn.Args {
		s.Insert(ParamDef(i))
	}
	return s
}

// Merge returns the union of a and b
func (l *Lattice) Merge(a, b *intsets.Sparse) *intsets.Sparse {
	r := &intsets.Sparse{}
	r.Union(a, b)
	return r
}

// Transfer kills all the definitions of the destination of instr and adds instr as a definition
func (l *Lattice) Transfer(before *intsets.Sparse, instr cfg.Instr) *intsets.Sparse {
	if !instr.IsOp() || instr.Dest == "" {
		return before
	}
	r := &intsets.Sparse{}
	r.Difference(before, l.defsOf[instr.Dest])
	r.Insert(int(instr.ID))
	return r
}

// IsSubset returns true if subset is included in superset
func (l *Lattice) IsSubset(subset, superset *intsets.Sparse) bool {
	return subset.SubsetOf(superset)
}

// Variable returns the variable defined by def
func (l *Lattice) Variable(def int) string {
	return l.variable[def]
}

// DefinitionsOf returns the definitions of name that are in s, sorted
func (l *Lattice) DefinitionsOf(s *intsets.Sparse, name string) []int {
	defs, ok := l.defsOf[name]
	if !ok {
		return nil
	}
	r := &intsets.Sparse{}
	r.Intersection(s, defs)
	return r.AppendTo(nil)
}

// Format returns a readable form of the definitions in s: each definition is written as the variable it defines,
// followed by the index of the defining instruction or "arg" for parameters.
func (l *Lattice) Format(s *intsets.Sparse) string {
	defs := s.AppendTo(nil)
	names := make([]string, len(defs))
	for i, d := range defs {
		if d < 0 {
			names[i] = fmt.Sprintf("%s@arg", l.variable[d])
		} else {
			names[i] = fmt.Sprintf("%s@%d", l.variable[d], d)
		}
	}
	return formatutil.Set(names)
}

// Analyze computes the reaching definitions of fn, and returns the solver together with the lattice
func Analyze(fn *bril.Function, opts dataflow.Options) (*dataflow.Solver[*intsets.Sparse], *Lattice, error) {
	l := NewLattice(fn)
	s, err := dataflow.NewSolverWithOptions[*intsets.Sparse](l, fn, dataflow.Forward, opts)
	if err != nil {
		return nil, nil, err
	}
	return s, l, nil
}
