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
	"encoding/json"
	"fmt"
	"strconv"
)

// Type is a Bril type: a primitive type such as int or bool, or a pointer to a type
type Type struct {
	// Prim is the name of a primitive type; it is empty for pointers
	Prim string

	// Ptr is the pointee type of a pointer type
	Ptr *Type
}

// Primitive types
var (
	IntType  = Type{Prim: "int"}
	BoolType = Type{Prim: "bool"}
)

// PtrTo returns the type of pointers to t
func PtrTo(t Type) Type {
	return Type{Ptr: &t}
}

func (t Type) String() string {
	if t.Ptr != nil {
		return "ptr<" + t.Ptr.String() + ">"
	}
	return t.Prim
}

// MarshalJSON encodes primitive types as strings and pointer types as {"ptr": <type>}
func (t Type) MarshalJSON() ([]byte, error) {
	if t.Ptr != nil {
		return json.Marshal(map[string]*Type{"ptr": t.Ptr})
	}
	return json.Marshal(t.Prim)
}

// UnmarshalJSON decodes a type encoded by MarshalJSON
func (t *Type) UnmarshalJSON(b []byte) error {
	var prim string
	if err := json.Unmarshal(b, &prim); err == nil {
		*t = Type{Prim: prim}
		return nil
	}
	var param map[string]*Type
	if err := json.Unmarshal(b, &param); err != nil {
		return fmt.Errorf("invalid type %s: %w", b, err)
	}
	pointee, ok := param["ptr"]
	if !ok || pointee == nil || len(param) != 1 {
		return fmt.Errorf("invalid parameterized type %s", b)
	}
	*t = Type{Ptr: pointee}
	return nil
}

// LiteralKind distinguishes the kinds of literals
type LiteralKind int

// Kinds of literals
const (
	IntLiteral LiteralKind = iota
	BoolLiteral
)

// Literal is the value of a const instruction: an integer or a boolean
type Literal struct {
	Kind LiteralKind
	Int  int64
	Bool bool
}

// Int returns an integer literal
func Int(x int64) Literal {
	return Literal{Kind: IntLiteral, Int: x}
}

// Bool returns a boolean literal
func Bool(b bool) Literal {
	return Literal{Kind: BoolLiteral, Bool: b}
}

// Type returns the type of the literal
func (l Literal) Type() Type {
	if l.Kind == BoolLiteral {
		return BoolType
	}
	return IntType
}

func (l Literal) String() string {
	if l.Kind == BoolLiteral {
		return strconv.FormatBool(l.Bool)
	}
	return strconv.FormatInt(l.Int, 10)
}

// MarshalJSON encodes the literal as a JSON number or boolean
func (l Literal) MarshalJSON() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalJSON decodes a JSON number or boolean
func (l *Literal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*l = Bool(true)
		return nil
	case "false":
		*l = Bool(false)
		return nil
	}
	x, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid literal %s: %w", b, err)
	}
	*l = Int(x)
	return nil
}
