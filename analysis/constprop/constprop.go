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

// Package constprop implements constant propagation: it computes, at each program point, which variables are known
// to hold a constant.
//
// The state is an environment mapping variables to a constant or to NAC (not a constant). A variable that is not in
// the environment is undefined on every path reaching the point. Every variable can only go from undefined to a
// constant and then to NAC, so the lattice has finite height.
package constprop

import (
	"strings"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Env is an immutable map from variables to abstract values
type Env struct {
	values map[string]Value
}

// Get returns the value of name, or false if name is undefined
func (e Env) Get(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of defined variables
func (e Env) Len() int {
	return len(e.values)
}

// Constants returns the variables that are known constants, with their values
func (e Env) Constants() map[string]bril.Literal {
	r := map[string]bril.Literal{}
	for name, v := range e.values {
		if l, ok := v.Literal(); ok {
			r[name] = l
		}
	}
	return r
}

func (e Env) with(name string, v Value) Env {
	r := Env{values: maps.Clone(e.values)}
	if r.values == nil {
		r.values = map[string]Value{}
	}
	r.values[name] = v
	return r
}

func (e Env) without(name string) Env {
	if _, ok := e.values[name]; !ok {
		return e
	}
	r := Env{values: maps.Clone(e.values)}
	delete(r.values, name)
	return r
}

// String returns the defined variables in order, with their values; "?" stands for NAC. For example {a: 4, b: ?}
func (e Env) String() string {
	names := maps.Keys(e.values)
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": " + e.values[n].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Lattice is the constant propagation lattice of a function
type Lattice struct {
	params []string
}

// NewLattice returns the constant propagation lattice of fn, where the parameters of fn are not constants
func NewLattice(fn *bril.Function) Lattice {
	params := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = a.Name
	}
	return Lattice{params: params}
}

// Bottom returns the empty environment
func (Lattice) Bottom() Env {
	return Env{}
}

// Boundary returns the environment where all parameters are NAC
func (l Lattice) Boundary() Env {
	e := Env{values: map[string]Value{}}
	for _, p := range l.params {
		e.values[p] = NAC
	}
	return e
}

// Merge returns the pointwise join of a and b. Variables defined in only one environment keep their value.
func (Lattice) Merge(a, b Env) Env {
	if len(b.values) == 0 {
		return a
	}
	if len(a.values) == 0 {
		return b
	}
	r := Env{values: maps.Clone(a.values)}
	for name, v := range b.values {
		if w, ok := r.values[name]; ok {
			r.values[name] = w.join(v)
		} else {
			r.values[name] = v
		}
	}
	return r
}

// Transfer binds the destination of instr to the value of the operation on the values of its arguments
func (Lattice) Transfer(before Env, instr cfg.Instr) Env {
	dest := instr.Destination()
	if !instr.IsOp() || dest.IsNone() {
		return before
	}
	if instr.Op == bril.OpConst {
		if instr.Value == nil {
			return before.with(dest.Value(), NAC)
		}
		return before.with(dest.Value(), Const(*instr.Value))
	}
	if !instr.IsPure() {
		return before.with(dest.Value(), NAC)
	}
	args := make([]bril.Literal, 0, len(instr.Args))
	allConstants := true
	for _, a := range instr.Args {
		v, ok := before.Get(a)
		if !ok {
			// an undefined argument has no value on any path: the destination is undefined too
			return before.without(dest.Value())
		}
		l, isConst := v.Literal()
		allConstants = allConstants && isConst
		args = append(args, l)
	}
	if allConstants {
		if l, ok := fold(instr.Op, args); ok {
			return before.with(dest.Value(), Const(l))
		}
	}
	return before.with(dest.Value(), NAC)
}

// IsSubset returns true if every variable defined in subset is defined in superset with a greater or equal value
func (Lattice) IsSubset(subset, superset Env) bool {
	for name, v := range subset.values {
		w, ok := superset.values[name]
		if !ok || !v.leq(w) {
			return false
		}
	}
	return true
}

// Analyze computes the constants of fn
func Analyze(fn *bril.Function, opts dataflow.Options) (*dataflow.Solver[Env], error) {
	return dataflow.NewSolverWithOptions[Env](NewLattice(fn), fn, dataflow.Forward, opts)
}
