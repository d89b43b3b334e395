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

package constprop

import (
	"testing"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
)

func envAfter(t *testing.T, s *dataflow.Solver[Env], id cfg.InstrID) Env {
	e, err := s.StateAfterInstr(id)
	if err != nil {
		t.Fatalf("no state after %d: %v", id, err)
	}
	return e
}

func TestFolding(t *testing.T) {
	fn := &bril.Function{Name: "main", Instrs: []bril.Instruction{
		bril.Const("a", bril.Int(4)),          // 0
		bril.Const("b", bril.Int(2)),          // 1
		bril.Op(bril.OpAdd, "c", "a", "b"),    // 2
		bril.Const("zero", bril.Int(0)),       // 3
		bril.Op(bril.OpDiv, "d", "c", "zero"), // 4
		bril.Op(bril.OpLt, "e", "b", "a"),     // 5
		bril.Op(bril.OpNot, "f", "e"),         // 6
		bril.Op(bril.OpID, "g", "f"),          // 7
		bril.Op(bril.OpAdd, "h", "q", "a"),    // 8
		bril.Op(bril.OpMul, "i", "a", "d"),    // 9
		bril.Op("call", "j"),                  // 10
	}}
	s, err := Analyze(fn, dataflow.Options{})
	if err != nil {
		t.Fatal(err)
	}
	expected := "{a: 4, b: 2, c: 6, d: ?, e: true, f: false, g: false, i: ?, j: ?, zero: 0}"
	if got := envAfter(t, s, 10).String(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	if _, ok := envAfter(t, s, 8).Get("h"); ok {
		t.Errorf("an operation on an undefined variable should leave its destination undefined")
	}
	if c := envAfter(t, s, 2).Constants(); len(c) != 3 || c["c"].Int != 6 {
		t.Errorf("unexpected constants %v", c)
	}
}

func TestDiamond(t *testing.T) {
	fn := &bril.Function{Name: "main", Args: []bril.Argument{{Name: "cond", Type: bril.BoolType}},
		Instrs: []bril.Instruction{
			bril.Branch("cond", "left", "right"), // 0
			bril.Label("left"),                   // 1
			bril.Const("x", bril.Int(2)),         // 2
			bril.Const("y", bril.Int(5)),         // 3
			bril.Jump("join"),                    // 4
			bril.Label("right"),                  // 5
			bril.Const("x", bril.Int(2)),         // 6
			bril.Const("y", bril.Int(6)),         // 7
			bril.Jump("join"),                    // 8
			bril.Label("join"),                   // 9
			bril.Op(bril.OpAdd, "z", "x", "y"),   // 10
			bril.Op(bril.OpMul, "w", "x", "x"),   // 11
			bril.Op("print", "", "z", "w"),       // 12
		}}
	s, err := Analyze(fn, dataflow.Options{})
	if err != nil {
		t.Fatal(err)
	}
	expected := "{cond: ?, w: 4, x: 2, y: ?, z: ?}"
	if got := envAfter(t, s, 12).String(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	if s.Recheck() != 0 {
		t.Errorf("expected a fixed point")
	}
}

func TestLoopCounterIsNotConstant(t *testing.T) {
	fn := &bril.Function{Name: "main", Instrs: []bril.Instruction{
		bril.Const("i", bril.Int(0)),         // 0
		bril.Const("one", bril.Int(1)),       // 1
		bril.Const("n", bril.Int(10)),        // 2
		bril.Label("loop"),                   // 3
		bril.Op(bril.OpLt, "c", "i", "n"),    // 4
		bril.Branch("c", "body", "done"),     // 5
		bril.Label("body"),                   // 6
		bril.Op(bril.OpAdd, "i", "i", "one"), // 7
		bril.Jump("loop"),                    // 8
		bril.Label("done"),                   // 9
		bril.Op("print", "", "i"),            // 10
	}}
	s, err := Analyze(fn, dataflow.Options{MaxSweeps: 20})
	if err != nil {
		t.Fatal(err)
	}
	expected := "{c: ?, i: ?, n: 10, one: 1}"
	if got := envAfter(t, s, 10).String(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestLatticeOrder(t *testing.T) {
	l := Lattice{}
	undefined := l.Bottom()
	one := undefined.with("x", Const(bril.Int(1)))
	two := undefined.with("x", Const(bril.Int(2)))
	nac := undefined.with("x", NAC)
	if !l.IsSubset(undefined, one) || !l.IsSubset(one, nac) || l.IsSubset(nac, one) || l.IsSubset(one, two) {
		t.Errorf("unexpected order between values")
	}
	if m := l.Merge(one, two); m.String() != "{x: ?}" {
		t.Errorf("disagreeing constants should merge to NAC, got %s", m)
	}
	if m := l.Merge(one, one); m.String() != "{x: 1}" {
		t.Errorf("equal constants should merge to themselves, got %s", m)
	}
	if one.String() != "{x: 1}" {
		t.Errorf("merge modified its argument")
	}
}
