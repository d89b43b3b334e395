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
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Program is a Bril program
type Program struct {
	Functions []Function `json:"functions"`
}

// Function is a Bril function. Instrs is the flat instruction stream of the function.
type Function struct {
	Name   string        `json:"name"`
	Args   []Argument    `json:"args,omitempty"`
	Type   *Type         `json:"type,omitempty"`
	Instrs []Instruction `json:"instrs"`
}

// Argument is a parameter of a function
type Argument struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Function returns the function named name, or nil if there is none
func (p *Program) Function(name string) *Function {
	for i := range p.Functions {
		if p.Functions[i].Name == name {
			return &p.Functions[i]
		}
	}
	return nil
}

// wireInstruction is the JSON layout of an instruction. Pointers to slices keep track of the presence of fields.
type wireInstruction struct {
	Label  string    `json:"label,omitempty"`
	Op     string    `json:"op,omitempty"`
	Dest   string    `json:"dest,omitempty"`
	Type   *Type     `json:"type,omitempty"`
	Args   *[]string `json:"args,omitempty"`
	Funcs  *[]string `json:"funcs,omitempty"`
	Labels *[]string `json:"labels,omitempty"`
	Value  *Literal  `json:"value,omitempty"`
}

func presence(s []string) *[]string {
	if s == nil {
		return nil
	}
	return &s
}

func fromPresence(p *[]string) []string {
	if p == nil {
		return nil
	}
	if *p == nil {
		return []string{}
	}
	return *p
}

// MarshalJSON encodes the fields of the instruction that are present
func (i Instruction) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireInstruction{
		Label:  i.Label,
		Op:     i.Op,
		Dest:   i.Dest,
		Type:   i.Type,
		Args:   presence(i.Args),
		Funcs:  presence(i.Funcs),
		Labels: presence(i.Labels),
		Value:  i.Value,
	})
}

// UnmarshalJSON decodes an instruction, keeping track of which list fields are present
func (i *Instruction) UnmarshalJSON(b []byte) error {
	var w wireInstruction
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*i = Instruction{
		Label:  w.Label,
		Op:     w.Op,
		Dest:   w.Dest,
		Type:   w.Type,
		Args:   fromPresence(w.Args),
		Funcs:  fromPresence(w.Funcs),
		Labels: fromPresence(w.Labels),
		Value:  w.Value,
	}
	if i.IsLabel() && i.IsOp() {
		return fmt.Errorf("instruction has both a label (%q) and an op (%q)", i.Label, i.Op)
	}
	return nil
}

// ReadProgram decodes a program in Bril's JSON format
func ReadProgram(r io.Reader) (*Program, error) {
	var p Program
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("could not decode bril program: %w", err)
	}
	return &p, nil
}

// LoadProgram reads a program from the file filename, or from the standard input if filename is "-"
func LoadProgram(filename string) (*Program, error) {
	if filename == "-" {
		return ReadProgram(os.Stdin)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open program: %w", err)
	}
	defer f.Close()
	p, err := ReadProgram(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// WriteProgram encodes the program in Bril's JSON format
func WriteProgram(w io.Writer, p *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("could not encode bril program: %w", err)
	}
	return nil
}
