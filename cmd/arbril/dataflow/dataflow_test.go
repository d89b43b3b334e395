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
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunLiveVariables(t *testing.T) {
	flags, err := NewFlags([]string{"-analysis", "live", "../testdata/program.json"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(flags, &out); err != nil {
		t.Fatal(err)
	}
	expected := "Function straight\n\t{}\n\t{a}\n\t{a, b}\n\t{c}\n\t{}\n"
	if !strings.Contains(out.String(), expected) {
		t.Errorf("expected output to contain\n%s\ngot\n%s", expected, out.String())
	}
	if !strings.HasPrefix(out.String(), "Function main\n\t{n}\n") {
		t.Errorf("expected main to be printed first, got\n%s", out.String())
	}
}

func TestRunJSON(t *testing.T) {
	flags, err := NewFlags([]string{"-analysis", "reaching, constprop", "-json", "../testdata/program.json"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(flags, &out); err != nil {
		t.Fatal(err)
	}
	var results []jsonResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("expected 3 functions for 2 analyses, got %d results", len(results))
	}
	if results[0].Analysis != "reaching" || results[3].Analysis != "constprop" {
		t.Errorf("expected results grouped by analysis, got %s and %s", results[0].Analysis, results[3].Analysis)
	}
	if last := results[4]; last.Function != "straight" || last.After == nil || *last.After != "{a: 4, b: 2, c: 6}" {
		t.Errorf("unexpected constant propagation result: %+v", last)
	}
}

func TestRunUnknownAnalysis(t *testing.T) {
	flags, err := NewFlags([]string{"-analysis", "available", "../testdata/program.json"})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(flags, &bytes.Buffer{}); err == nil {
		t.Errorf("expected an error for an unknown analysis")
	}
}
