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

// Package liveness implements the live variables analysis: a variable is live at a program point if its current
// value may be used on some path from that point.
package liveness

import (
	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
	"github.com/awslabs/ar-bril-tools/internal/formatutil"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
	"golang.org/x/exp/maps"
)

// VarSet is an immutable set of variable names
type VarSet struct {
	vars map[string]bool
}

// NewVarSet returns the set of the names provided
func NewVarSet(names ...string) VarSet {
	s := VarSet{vars: make(map[string]bool, len(names))}
	for _, n := range names {
		s.vars[n] = true
	}
	return s
}

// Has returns true if name is in the set
func (s VarSet) Has(name string) bool {
	return s.vars[name]
}

// Len returns the number of variables in the set
func (s VarSet) Len() int {
	return len(s.vars)
}

// Names returns the sorted names in the set
func (s VarSet) Names() []string {
	return funcutil.SetToOrderedSlice(s.vars)
}

// Union returns the set of names in s or in other
func (s VarSet) Union(other VarSet) VarSet {
	if len(other.vars) == 0 {
		return s
	}
	if len(s.vars) == 0 {
		return other
	}
	r := VarSet{vars: maps.Clone(s.vars)}
	for n := range other.vars {
		r.vars[n] = true
	}
	return r
}

// SubsetOf returns true if every name in s is in other
func (s VarSet) SubsetOf(other VarSet) bool {
	if len(s.vars) > len(other.vars) {
		return false
	}
	for n := range s.vars {
		if !other.vars[n] {
			return false
		}
	}
	return true
}

// String returns the sorted names in braces, e.g. {a, b}
func (s VarSet) String() string {
	return formatutil.Set(s.Names())
}

// Lattice is the lattice of the live variables analysis, ordered by inclusion
type Lattice struct{}

// Bottom returns the empty set
func (Lattice) Bottom() VarSet {
	return NewVarSet()
}

// Merge returns the union of a and b
func (Lattice) Merge(a, b VarSet) VarSet {
	return a.Union(b)
}

// Transfer computes the variables live before instr from the variables live after it: the destination of instr is
// removed first, then its arguments are added, so that an instruction using the variable it defines keeps it live.
func (Lattice) Transfer(after VarSet, instr cfg.Instr) VarSet {
	if !instr.IsOp() {
		return after
	}
	dest := instr.Destination()
	if dest.IsNone() && len(instr.Args) == 0 {
		return after
	}
	r := VarSet{vars: make(map[string]bool, len(after.vars)+len(instr.Args))}
	for n := range after.vars {
		r.vars[n] = true
	}
	if dest.IsSome() {
		delete(r.vars, dest.Value())
	}
	for _, a := range instr.Args {
		r.vars[a] = true
	}
	return r
}

// IsSubset returns true if subset is included in superset
func (Lattice) IsSubset(subset, superset VarSet) bool {
	return subset.SubsetOf(superset)
}

// Analyze computes the live variables of fn
func Analyze(fn *bril.Function, opts dataflow.Options) (*dataflow.Solver[VarSet], error) {
	return dataflow.NewSolverWithOptions[VarSet](Lattice{}, fn, dataflow.Backward, opts)
}
