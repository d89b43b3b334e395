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

package tools

import (
	"strings"
	"testing"
)

func validateHint(t *testing.T, errorMsg string, containedHint string) {
	hint := HintForErrorMessage(errorMsg)
	if !strings.Contains(hint, containedHint) {
		t.Fatalf("incorrect hint; check and update error message if necessary")
	}
}

func TestHintForTextualProgram(t *testing.T) {
	errorMsg := "could not load program: prog.bril: could not decode bril program: invalid character '@' " +
		"looking for beginning of value"
	containedHint := "convert textual programs with bril2json"
	validateHint(t, errorMsg, containedHint)
}

func TestHintForFailedLoadProgram(t *testing.T) {
	errorMsg := "could not load program: could not open program: open main.json: no such file or directory"
	containedHint := "make sure you have provided the path of a Bril program"
	validateHint(t, errorMsg, containedHint)
}

func TestHintForUnresolvedLabel(t *testing.T) {
	errorMsg := "function main: unresolved label \"loop\""
	containedHint := "check label loop"
	validateHint(t, errorMsg, containedHint)
}

func TestHintForMaxSweeps(t *testing.T) {
	errorMsg := "function main: no fixed point after 10 sweeps"
	containedHint := "increase max-sweeps"
	validateHint(t, errorMsg, containedHint)
}

func TestNoHint(t *testing.T) {
	if hint := HintForErrorMessage("malformed program in block 2: br: expected 2 labels"); hint != "" {
		t.Errorf("expected no hint, got %q", hint)
	}
}

func TestProgramPath(t *testing.T) {
	flags, err := NewCommonFlags("test", []string{"-verbose"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if p, err := flags.ProgramPath(); err != nil || p != "-" || !flags.Verbose {
		t.Errorf("expected the standard input without arguments, got %q (%v)", p, err)
	}
	flags, err = NewCommonFlags("test", []string{"-config", "c.yaml", "a.json", "b.json"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := flags.ProgramPath(); err == nil {
		t.Errorf("expected an error with two programs")
	}
	if flags.ConfigPath != "c.yaml" {
		t.Errorf("expected config path c.yaml, got %q", flags.ConfigPath)
	}
}
