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

package reaching

import (
	"testing"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
	"golang.org/x/exp/slices"
)

func loop() *bril.Function {
	return &bril.Function{Name: "main", Args: []bril.Argument{{Name: "n", Type: bril.IntType}},
		Instrs: []bril.Instruction{
			bril.Const("i", bril.Int(0)),         // 0
			bril.Const("one", bril.Int(1)),       // 1
			bril.Label("loop"),                   // 2
			bril.Op(bril.OpLt, "c", "i", "n"),    // 3
			bril.Branch("c", "body", "done"),     // 4
			bril.Label("body"),                   // 5
			bril.Op(bril.OpAdd, "i", "i", "one"), // 6
			bril.Jump("loop"),                    // 7
			bril.Label("done"),                   // 8
			bril.Op("print", "", "i"),            // 9
			bril.Return(),                        // 10
		}}
}

func TestReachingThroughLoop(t *testing.T) {
	s, l, err := Analyze(loop(), dataflow.Options{})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		id       cfg.InstrID
		before   string
		reachesI []int
	}{
		{0, "{n@arg}", nil},
		{3, "{n@arg, i@0, one@1, c@3, i@6}", []int{0, 6}},
		{6, "{n@arg, i@0, one@1, c@3, i@6}", []int{0, 6}},
		{9, "{n@arg, i@0, one@1, c@3, i@6}", []int{0, 6}},
	}
	for _, test := range tests {
		state, err := s.StateBeforeInstr(test.id)
		if err != nil {
			t.Fatal(err)
		}
		if got := l.Format(state); got != test.before {
			t.Errorf("before %d: expected %s, got %s", test.id, test.before, got)
		}
		if defs := l.DefinitionsOf(state, "i"); !slices.Equal(defs, test.reachesI) {
			t.Errorf("before %d: expected definitions of i %v, got %v", test.id, test.reachesI, defs)
		}
	}
	after, err := s.StateAfterInstr(6)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Format(after); got != "{n@arg, one@1, c@3, i@6}" {
		t.Errorf("the add should kill the other definitions of i, got %s", got)
	}
	if l.Variable(ParamDef(0)) != "n" || l.Variable(6) != "i" {
		t.Errorf("unexpected variables of definitions")
	}
}

func TestReachingIsIdempotent(t *testing.T) {
	s, _, err := Analyze(loop(), dataflow.Options{Order: dataflow.ReversePostorder})
	if err != nil {
		t.Fatal(err)
	}
	if n := s.Recheck(); n != 0 {
		t.Errorf("expected a fixed point, %d blocks changed", n)
	}
}

func TestMergeDoesNotModifyArguments(t *testing.T) {
	l := NewLattice(loop())
	a := l.Boundary()
	b := l.Bottom()
	b.Insert(3)
	m := l.Merge(a, b)
	if m.Len() != 2 || a.Len() != 1 || b.Len() != 1 {
		t.Errorf("unexpected merge %v of %v and %v", m, a, b)
	}
	if !l.IsSubset(a, m) || !l.IsSubset(b, m) || l.IsSubset(m, a) {
		t.Errorf("merge should be the least upper bound")
	}
}
