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
	"fmt"
	"strings"

	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// Terminator op names
const (
	OpJump   = "jmp"
	OpBranch = "br"
	OpReturn = "ret"
)

// Operations that produce a value from their arguments and have no other effect
const (
	OpConst = "const"
	OpID    = "id"
	OpAdd   = "add"
	OpSub   = "sub"
	OpMul   = "mul"
	OpDiv   = "div"
	OpEq    = "eq"
	OpLt    = "lt"
	OpGt    = "gt"
	OpLe    = "le"
	OpGe    = "ge"
	OpAnd   = "and"
	OpOr    = "or"
	OpNot   = "not"
)

// Instruction is a single element of a function's instruction stream. All fields are optional, and the presence of
// fields determines the kind of the instruction: a label has a Label, an operation has an Op.
//
// Args, Funcs and Labels distinguish a nil slice (field absent) from an empty slice (field present and empty).
type Instruction struct {
	Label  string
	Op     string
	Dest   string
	Type   *Type
	Args   []string
	Funcs  []string
	Labels []string
	Value  *Literal
}

// IsLabel returns true if the instruction is a label
func (i Instruction) IsLabel() bool {
	return i.Label != ""
}

// IsOp returns true if the instruction is an operation
func (i Instruction) IsOp() bool {
	return i.Op != ""
}

// HasLabels returns true if the labels field is present, even if it is empty
func (i Instruction) HasLabels() bool {
	return i.Labels != nil
}

// IsTerminator returns true if the instruction is a jmp, br or ret
func (i Instruction) IsTerminator() bool {
	return i.Op == OpJump || i.Op == OpBranch || i.Op == OpReturn
}

// IsPure returns true if the instruction computes a value from its arguments without any other effect, so it can be
// removed when its destination is never used.
func (i Instruction) IsPure() bool {
	switch i.Op {
	case OpConst, OpID, OpAdd, OpSub, OpMul, OpDiv, OpEq, OpLt, OpGt, OpLe, OpGe, OpAnd, OpOr, OpNot:
		return i.Dest != ""
	}
	return false
}

// Destination returns the variable defined by the instruction, if any
func (i Instruction) Destination() funcutil.Optional[string] {
	return funcutil.SomeIf(i.Dest, i.Dest != "")
}

// String returns the instruction in Bril's textual syntax
func (i Instruction) String() string {
	if i.IsLabel() {
		return "." + i.Label + ":"
	}
	var b strings.Builder
	if i.Dest != "" {
		b.WriteString(i.Dest)
		if i.Type != nil {
			fmt.Fprintf(&b, ": %s", i.Type)
		}
		b.WriteString(" = ")
	}
	b.WriteString(i.Op)
	if i.Value != nil {
		fmt.Fprintf(&b, " %s", i.Value)
	}
	for _, f := range i.Funcs {
		fmt.Fprintf(&b, " @%s", f)
	}
	for _, a := range i.Args {
		fmt.Fprintf(&b, " %s", a)
	}
	for _, l := range i.Labels {
		fmt.Fprintf(&b, " .%s", l)
	}
	return b.String() + ";"
}

// Label returns a label instruction
func Label(name string) Instruction {
	return Instruction{Label: name}
}

// Const returns an instruction defining dest as the constant value
func Const(dest string, value Literal) Instruction {
	t := value.Type()
	return Instruction{Op: OpConst, Dest: dest, Type: &t, Value: &value}
}

// Op returns an operation with the given destination (possibly "") and arguments
func Op(op string, dest string, args ...string) Instruction {
	if args == nil {
		args = []string{}
	}
	return Instruction{Op: op, Dest: dest, Args: args}
}

// Jump returns a jmp to target
func Jump(target string) Instruction {
	return Instruction{Op: OpJump, Labels: []string{target}}
}

// Branch returns a br on cond to ifTrue or ifFalse
func Branch(cond, ifTrue, ifFalse string) Instruction {
	return Instruction{Op: OpBranch, Args: []string{cond}, Labels: []string{ifTrue, ifFalse}}
}

// Return returns a ret with optional arguments
func Return(args ...string) Instruction {
	if args == nil {
		args = []string{}
	}
	return Instruction{Op: OpReturn, Args: args}
}
