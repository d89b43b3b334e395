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
	"github.com/awslabs/ar-bril-tools/analysis/bril"
)

// Value is the abstract value of a variable: either a known constant or NAC (not a constant). Variables that are
// not defined yet have no value in an Env.
type Value struct {
	nac     bool
	literal bril.Literal
}

// NAC is the value of variables that may hold different values
var NAC = Value{nac: true}

// Const returns the value of a variable known to hold l
func Const(l bril.Literal) Value {
	return Value{literal: l}
}

// IsNAC returns true if v is not a constant
func (v Value) IsNAC() bool {
	return v.nac
}

// Literal returns the constant held by v. It returns false if v is NAC.
func (v Value) Literal() (bril.Literal, bool) {
	return v.literal, !v.nac
}

// join returns the least upper bound of v and w
func (v Value) join(w Value) Value {
	if v == w {
		return v
	}
	return NAC
}

// leq returns true if v is less than or equal to w
func (v Value) leq(w Value) bool {
	return w.nac || v == w
}

func (v Value) String() string {
	if v.nac {
		return "?"
	}
	return v.literal.String()
}

// fold evaluates op on constant arguments. It returns false if the operation cannot be evaluated, for example a
// division by zero or an operation that is not pure.
func fold(op string, args []bril.Literal) (bril.Literal, bool) {
	ints := func() (int64, int64, bool) {
		if len(args) != 2 || args[0].Kind != bril.IntLiteral || args[1].Kind != bril.IntLiteral {
			return 0, 0, false
		}
		return args[0].Int, args[1].Int, true
	}
	bools := func() (bool, bool, bool) {
		if len(args) != 2 || args[0].Kind != bril.BoolLiteral || args[1].Kind != bril.BoolLiteral {
			return false, false, false
		}
		return args[0].Bool, args[1].Bool, true
	}

	switch op {
	case bril.OpID:
		if len(args) == 1 {
			return args[0], true
		}
	case bril.OpNot:
		if len(args) == 1 && args[0].Kind == bril.BoolLiteral {
			return bril.Bool(!args[0].Bool), true
		}
	case bril.OpAnd, bril.OpOr:
		a, b, ok := bools()
		if !ok {
			return bril.Literal{}, false
		}
		if op == bril.OpAnd {
			return bril.Bool(a && b), true
		}
		return bril.Bool(a || b), true
	case bril.OpAdd, bril.OpSub, bril.OpMul, bril.OpDiv, bril.OpEq, bril.OpLt, bril.OpGt, bril.OpLe, bril.OpGe:
		a, b, ok := ints()
		if !ok {
			return bril.Literal{}, false
		}
		switch op {
		case bril.OpAdd:
			return bril.Int(a + b), true
		case bril.OpSub:
			return bril.Int(a - b), true
		case bril.OpMul:
			return bril.Int(a * b), true
		case bril.OpDiv:
			if b == 0 {
				return bril.Literal{}, false
			}
			return bril.Int(a / b), true
		case bril.OpEq:
			return bril.Bool(a == b), true
		case bril.OpLt:
			return bril.Bool(a < b), true
		case bril.OpGt:
			return bril.Bool(a > b), true
		case bril.OpLe:
			return bril.Bool(a <= b), true
		case bril.OpGe:
			return bril.Bool(a >= b), true
		}
	}
	return bril.Literal{}, false
}
