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

package dataflow

import "github.com/awslabs/ar-bril-tools/analysis/cfg"

// Lattice is the interface every analysis implements over its state type T.
//
// Merge must be associative and commutative, and Merge(a, b) must be an upper bound of a and b for IsSubset.
// Transfer must be monotone for IsSubset. Bottom is the identity of Merge.
type Lattice[T any] interface {
	// Bottom returns the least element of the lattice
	Bottom() T

	// Merge returns the join of a and b. It must not modify its arguments.
	Merge(a, b T) T

	// Transfer returns the state after instr, given the state before it. "Before" and "after" are in the direction
	// of the analysis: for a backward analysis, before is the state at the program point after instr.
	// Transfer must not modify before.
	Transfer(before T, instr cfg.Instr) T

	// IsSubset returns true if subset is less than or equal to superset
	IsSubset(subset, superset T) bool
}

// BoundaryLattice is a Lattice with a specific state at the boundary of the function: the state entering the entry
// block of a forward analysis, or the state leaving the exit blocks of a backward analysis.
// Lattices that do not implement it use Bottom at the boundary.
type BoundaryLattice[T any] interface {
	Lattice[T]

	// Boundary returns the state at the boundary of the function
	Boundary() T
}

// MergeMany returns the join of all the values: Bottom if there are none, the value itself if there is only one, and
// the left fold of Merge otherwise.
func MergeMany[T any](l Lattice[T], values ...T) T {
	switch len(values) {
	case 0:
		return l.Bottom()
	case 1:
		return values[0]
	}
	acc := values[0]
	for _, v := range values[1:] {
		acc = l.Merge(acc, v)
	}
	return acc
}

func boundary[T any](l Lattice[T]) T {
	if bl, ok := l.(BoundaryLattice[T]); ok {
		return bl.Boundary()
	}
	return l.Bottom()
}

// Direction is the direction in which states flow through the CFG
type Direction int

const (
	// Forward analyses propagate states from the entry to the exits
	Forward Direction = iota

	// Backward analyses propagate states from the exits to the entry
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}
