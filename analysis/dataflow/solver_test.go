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

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
)

// nameSet is an immutable set of variable names
type nameSet map[string]bool

func (s nameSet) String() string {
	var names []string
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, " ") + "}"
}

func union(a, b nameSet) nameSet {
	r := nameSet{}
	for x := range a {
		r[x] = true
	}
	for x := range b {
		r[x] = true
	}
	return r
}

// defined is a forward lattice of the variables that may have been defined. Parameters are defined at the boundary.
type defined struct {
	params []string
}

func (defined) Bottom() nameSet { return nameSet{} }

func (defined) Merge(a, b nameSet) nameSet { return union(a, b) }

func (defined) Transfer(before nameSet, instr cfg.Instr) nameSet {
	if instr.Dest == "" {
		return before
	}
	return union(before, nameSet{instr.Dest: true})
}

func (defined) IsSubset(a, b nameSet) bool {
	for x := range a {
		if !b[x] {
			return false
		}
	}
	return true
}

func (d defined) Boundary() nameSet {
	r := nameSet{}
	for _, p := range d.params {
		r[p] = true
	}
	return r
}

// used is a backward lattice of the variables used later, without kills
type used struct{ defined }

func (used) Transfer(before nameSet, instr cfg.Instr) nameSet {
	r := union(before, nameSet{})
	for _, a := range instr.Args {
		r[a] = true
	}
	return r
}

// counter is a lattice of infinite height: every instruction increments the state
type counter struct{}

func (counter) Bottom() int { return 0 }

func (counter) Merge(a, b int) int { return max(a, b) }

func (counter) Transfer(before int, _ cfg.Instr) int { return before + 1 }

func (counter) IsSubset(a, b int) bool { return a <= b }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func loopFunction() *bril.Function {
	return &bril.Function{
		Name:   "loop",
		Args:   []bril.Argument{{Name: "n", Type: bril.IntType}},
		Instrs: []bril.Instruction{
			bril.Const("i", bril.Int(0)),         // 0
			bril.Label("head"),                   // 1
			bril.Op(bril.OpLt, "c", "i", "n"),    // 2
			bril.Branch("c", "body", "exit"),     // 3
			bril.Label("body"),                   // 4
			bril.Const("one", bril.Int(1)),       // 5
			bril.Op(bril.OpAdd, "i", "i", "one"), // 6
			bril.Jump("head"),                    // 7
			bril.Label("exit"),                   // 8
			bril.Op("print", "", "i"),            // 9
			bril.Return(),                        // 10
		},
	}
}

// mustSet returns a function that fails the test on query errors
func mustSet(t *testing.T) func(nameSet, error) nameSet {
	return func(v nameSet, err error) nameSet {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected query error: %v", err)
		}
		return v
	}
}

func TestMergeMany(t *testing.T) {
	l := defined{}
	if s := MergeMany[nameSet](l); len(s) != 0 {
		t.Errorf("merging nothing should give bottom, got %v", s)
	}
	a := nameSet{"a": true}
	b := nameSet{"b": true}
	c := nameSet{"a": true, "c": true}
	if s := MergeMany[nameSet](l, a); s.String() != "{a}" {
		t.Errorf("merging one value should give the value, got %v", s)
	}
	expected := "{a b c}"
	for _, perm := range [][]nameSet{{a, b, c}, {c, b, a}, {b, a, c}, {c, a, b}} {
		if s := MergeMany[nameSet](l, perm...); s.String() != expected {
			t.Errorf("merge should not depend on the order of values: got %v", s)
		}
	}
}

func TestForwardSolverWithBoundary(t *testing.T) {
	fn := loopFunction()
	s, err := NewSolver[nameSet](defined{params: []string{"n"}}, fn, Forward)
	if err != nil {
		t.Fatal(err)
	}
	if s.Direction() != Forward || s.Function() != fn || s.CFG().NumBlocks() != 4 {
		t.Errorf("unexpected solver accessors")
	}
	tests := []struct {
		id            cfg.InstrID
		before, after string
	}{
		{0, "{n}", "{i n}"},
		{2, "{c i n one}", "{c i n one}"},
		{6, "{c i n one}", "{c i n one}"},
		{9, "{c i n one}", "{c i n one}"},
	}
	for _, test := range tests {
		before := mustSet(t)(s.StateBeforeInstr(test.id))
		after := mustSet(t)(s.StateAfterInstr(test.id))
		if before.String() != test.before || after.String() != test.after {
			t.Errorf("instruction %d: expected %s -> %s, got %v -> %v", test.id, test.before, test.after, before, after)
		}
	}
	entry := mustSet(t)(s.StateBeforeBlock(s.CFG().Entry()))
	if entry.String() != "{n}" {
		t.Errorf("expected the boundary state at the entry, got %v", entry)
	}
}

func TestBackwardSolverSwapsStates(t *testing.T) {
	fn := loopFunction()
	s, err := NewSolver[nameSet](used{}, fn, Backward)
	if err != nil {
		t.Fatal(err)
	}
	exit, _ := s.CFG().BlockByName("exit")
	// the state after the exit block is the boundary, bottom for used
	if after := mustSet(t)(s.StateAfterBlock(exit)); len(after) != 0 {
		t.Errorf("expected nothing used after the exit, got %v", after)
	}
	if before := mustSet(t)(s.StateBeforeInstr(9)); before.String() != "{i}" {
		t.Errorf("expected i used before print, got %v", before)
	}
	if after := mustSet(t)(s.StateAfterInstr(9)); len(after) != 0 {
		t.Errorf("expected nothing used after print, got %v", after)
	}
	if before := mustSet(t)(s.StateBeforeBlock(s.CFG().Entry())); before.String() != "{c i n one}" {
		t.Errorf("unexpected state before the entry: %v", before)
	}
}

func TestSolverIsIdempotent(t *testing.T) {
	for _, order := range []VisitOrder{ProgramOrder, ReversePostorder} {
		for _, dir := range []Direction{Forward, Backward} {
			var l Lattice[nameSet] = defined{params: []string{"n"}}
			if dir == Backward {
				l = used{}
			}
			s, err := NewSolverWithOptions(l, loopFunction(), dir, Options{Order: order})
			if err != nil {
				t.Fatal(err)
			}
			if n := s.Recheck(); n != 0 {
				t.Errorf("order %d, %s: expected no change after convergence, got %d", order, dir, n)
			}
		}
	}
}

func TestConcurrentQueries(t *testing.T) {
	s, err := NewSolver[nameSet](used{}, loopFunction(), Backward)
	if err != nil {
		t.Fatal(err)
	}
	n := s.CFG().NumInstrs()
	expected := make([]string, n)
	for id := 0; id < n; id++ {
		if v, err := s.StateBeforeInstr(cfg.InstrID(id)); err == nil {
			expected[id] = v.String()
		}
	}
	var wg sync.WaitGroup
	got := make([][]string, 4)
	for w := range got {
		w := w
		got[w] = make([]string, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := 0; id < n; id++ {
				if v, err := s.StateBeforeInstr(cfg.InstrID(id)); err == nil {
					got[w][id] = v.String()
				}
			}
		}()
	}
	wg.Wait()
	for w := range got {
		for id := range expected {
			if got[w][id] != expected[id] {
				t.Errorf("reader %d, instruction %d: expected %s, got %s", w, id, expected[id], got[w][id])
			}
		}
	}
}

func TestVisitOrderDoesNotChangeFixedPoint(t *testing.T) {
	fn := loopFunction()
	results := map[VisitOrder]string{}
	for _, order := range []VisitOrder{ProgramOrder, ReversePostorder} {
		s, err := NewSolverWithOptions[nameSet](used{}, fn, Backward, Options{Order: order})
		if err != nil {
			t.Fatal(err)
		}
		var b strings.Builder
		for id := 0; id < len(fn.Instrs); id++ {
			if v, err := s.StateBeforeInstr(cfg.InstrID(id)); err == nil {
				fmt.Fprintf(&b, "%d:%v ", id, v)
			}
		}
		results[order] = b.String()
	}
	if results[ProgramOrder] != results[ReversePostorder] {
		t.Errorf("fixed points differ:\n%s\n%s", results[ProgramOrder], results[ReversePostorder])
	}
}

func TestNonTermination(t *testing.T) {
	_, err := NewSolverWithOptions[int](counter{}, loopFunction(), Forward, Options{MaxSweeps: 10})
	var nt *NonTerminationError
	if !errors.As(err, &nt) {
		t.Fatalf("expected a non-termination error, got %v", err)
	}
	if nt.Sweeps != 10 {
		t.Errorf("expected 10 sweeps, got %d", nt.Sweeps)
	}
}

func TestBoundedSolverConverges(t *testing.T) {
	s, err := NewSolverWithOptions[nameSet](used{}, loopFunction(), Backward, Options{MaxSweeps: 10})
	if err != nil {
		t.Fatalf("expected convergence within 10 sweeps: %v", err)
	}
	if s.Sweeps() < 2 || s.Sweeps() > 10 {
		t.Errorf("unexpected number of sweeps %d", s.Sweeps())
	}
}

func TestUnreachedQueries(t *testing.T) {
	s, err := NewSolver[nameSet](used{}, loopFunction(), Backward)
	if err != nil {
		t.Fatal(err)
	}
	other, err := NewSolver[nameSet](used{}, loopFunction(), Backward)
	if err != nil {
		t.Fatal(err)
	}
	var unreached *UnreachedQueryError
	for _, id := range []cfg.InstrID{1, -1, 11, 100} {
		if _, err := s.StateBeforeInstr(id); !errors.As(err, &unreached) || unreached.Kind != "instruction" {
			t.Errorf("expected an unreached instruction error for %d, got %v", id, err)
		}
		if _, err := s.StateAfterInstr(id); !errors.As(err, &unreached) {
			t.Errorf("expected an unreached instruction error for %d, got %v", id, err)
		}
	}
	if _, err := s.StateBeforeBlock(other.CFG().Entry()); !errors.As(err, &unreached) || unreached.Kind != "block" {
		t.Errorf("expected an unreached block error for a foreign block, got %v", err)
	}
	if _, err := s.StateAfterBlock(nil); !errors.As(err, &unreached) {
		t.Errorf("expected an unreached block error for nil, got %v", err)
	}
}

func TestUnreachableBlocksAreProcessed(t *testing.T) {
	fn := &bril.Function{Name: "dead", Instrs: []bril.Instruction{
		bril.Return(),
		bril.Label("dead"),
		bril.Const("x", bril.Int(1)),
		bril.Op("print", "", "x"),
	}}
	s, err := NewSolver[nameSet](defined{}, fn, Forward)
	if err != nil {
		t.Fatal(err)
	}
	if after := mustSet(t)(s.StateAfterInstr(2)); after.String() != "{x}" {
		t.Errorf("expected x defined in the unreachable block, got %v", after)
	}
}

func TestSolverPropagatesCFGErrors(t *testing.T) {
	fn := &bril.Function{Name: "bad", Instrs: []bril.Instruction{bril.Jump("nowhere")}}
	_, err := NewSolver[nameSet](defined{}, fn, Forward)
	var unresolved *cfg.UnresolvedLabelError
	if !errors.As(err, &unresolved) {
		t.Errorf("expected an unresolved label error, got %v", err)
	}
	_, err = NewSolver[nameSet](defined{}, &bril.Function{Name: "empty"}, Forward)
	var empty *cfg.EmptyFunctionError
	if !errors.As(err, &empty) {
		t.Errorf("expected an empty function error, got %v", err)
	}
}
