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

package bril

import (
	"bytes"
	"embed"
	"strings"
	"testing"
)

//go:embed testdata
var testfsys embed.FS

func readTestProgram(t *testing.T, name string) *Program {
	b, err := testfsys.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	p, err := ReadProgram(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("failed to decode %s: %v", name, err)
	}
	return p
}

func TestReadProgram(t *testing.T) {
	p := readTestProgram(t, "loop.json")
	if len(p.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(p.Functions))
	}
	main := p.Function("main")
	if main == nil || len(main.Instrs) != 11 {
		t.Fatalf("expected main with 11 instructions")
	}
	if len(main.Args) != 1 || main.Args[0].Type.String() != "int" {
		t.Errorf("unexpected arguments %v", main.Args)
	}
	if !main.Instrs[2].IsLabel() || main.Instrs[2].IsOp() {
		t.Errorf("expected instruction 2 to be a label")
	}
	br := main.Instrs[4]
	if !br.IsTerminator() || !br.HasLabels() || len(br.Labels) != 2 {
		t.Errorf("expected instruction 4 to be a branch with 2 labels, got %v", br)
	}
	if v := main.Instrs[0].Value; v == nil || v.Kind != IntLiteral || v.Int != 0 {
		t.Errorf("expected integer literal 0, got %v", v)
	}
	if d := main.Instrs[9].Destination(); d.IsSome() {
		t.Errorf("print should have no destination")
	}
	if d := main.Instrs[6].Destination(); d.ValueOr("") != "i" {
		t.Errorf("add should define i")
	}

	ptrs := p.Function("ptrs")
	if ptrs.Type == nil || ptrs.Type.String() != "ptr<int>" {
		t.Errorf("expected return type ptr<int>, got %v", ptrs.Type)
	}
	if v := ptrs.Instrs[0].Value; v == nil || v.Kind != BoolLiteral || !v.Bool {
		t.Errorf("expected boolean literal true, got %v", v)
	}
	nop := ptrs.Instrs[1]
	if !nop.HasLabels() || len(nop.Labels) != 0 {
		t.Errorf("an empty labels field should be present")
	}
	if p.Function("missing") != nil {
		t.Errorf("expected no function named missing")
	}
}

func TestWriteProgramKeepsFields(t *testing.T) {
	p := readTestProgram(t, "loop.json")
	var out bytes.Buffer
	if err := WriteProgram(&out, p); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, expected := range []string{`"ptr": "int"`, `"labels": []`, `"value": true`, `"args": []`} {
		if !strings.Contains(s, expected) {
			t.Errorf("expected %s in output:\n%s", expected, s)
		}
	}
	if strings.Contains(s, "null") {
		t.Errorf("absent fields should not be written:\n%s", s)
	}
	p2, err := ReadProgram(&out)
	if err != nil {
		t.Fatal(err)
	}
	if len(p2.Functions[0].Instrs) != len(p.Functions[0].Instrs) {
		t.Errorf("instructions lost when writing the program")
	}
}

func TestReadProgramErrors(t *testing.T) {
	for _, input := range []string{
		`{"functions": [{"name": "f", "instrs": [{"label": "a", "op": "nop"}]}]}`,
		`{"functions": [{"name": "f", "instrs": [{"op": "const", "value": 1.5}]}]}`,
		`{"functions": [{"name": "f", "instrs": [{"op": "const", "type": {"box": "int"}}]}]}`,
		`{"functions": `,
	} {
		if _, err := ReadProgram(strings.NewReader(input)); err == nil {
			t.Errorf("expected an error decoding %s", input)
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr    Instruction
		expected string
	}{
		{Label("loop"), ".loop:"},
		{Const("a", Int(4)), "a: int = const 4;"},
		{Op(OpAdd, "c", "a", "b"), "c = add a b;"},
		{Branch("cond", "then", "else"), "br cond .then .else;"},
		{Jump("loop"), "jmp .loop;"},
		{Return(), "ret;"},
	}
	for _, test := range tests {
		if s := test.instr.String(); s != test.expected {
			t.Errorf("expected %q, got %q", test.expected, s)
		}
	}
}

func TestIsPure(t *testing.T) {
	if !Const("a", Bool(true)).IsPure() || !Op(OpNot, "b", "a").IsPure() {
		t.Errorf("const and not should be pure")
	}
	if Op("print", "", "a").IsPure() || Op("call", "x").IsPure() || Op(OpAdd, "").IsPure() {
		t.Errorf("effects and calls should not be pure")
	}
}
