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

// Package analysistest loads the Bril programs, configurations and expected results of the tests.
package analysistest

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/config"
)

// LoadTest loads the program in the directory dir, looking for a program.json and a config.yaml.
func LoadTest(t *testing.T, dir string) (*bril.Program, *config.Config) {
	// Load config; in command, should be set using some flag
	configFile := filepath.Join(dir, "config.yaml")
	config.SetGlobalConfig(configFile)

	prog, err := bril.LoadProgram(filepath.Join(dir, "program.json"))
	if err != nil {
		t.Fatalf("error loading program: %v", err)
	}
	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("error loading global config: %v", err)
	}
	return prog, cfg
}

// ReadExpected reads the expected states of the analysis name from the file name.expected in dir. The file has the
// format printed by the dataflow tool: a line "Function f" for every function, followed by one tab-indented state per
// line. The result maps each function to its states, in order.
func ReadExpected(t *testing.T, dir string, name string) map[string][]string {
	f, err := os.Open(filepath.Join(dir, name+".expected"))
	if err != nil {
		t.Fatalf("could not open expected results: %v", err)
	}
	defer f.Close()

	expected := map[string][]string{}
	current := ""
	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Function "):
			current = strings.TrimPrefix(line, "Function ")
			expected[current] = []string{}
		case strings.HasPrefix(line, "\t") && current != "":
			expected[current] = append(expected[current], strings.TrimPrefix(line, "\t"))
		case strings.TrimSpace(line) == "":
		default:
			t.Fatalf("%s.expected:%d: unexpected line %q", name, lineNum, line)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("could not read expected results: %v", err)
	}
	return expected
}
