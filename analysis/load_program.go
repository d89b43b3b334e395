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

package analysis

import (
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
)

// LoadProgram loads the Bril program in JSON form from filename, or from the standard input if filename is "-".
// It fails if the program has no function, or if two functions have the same name.
func LoadProgram(filename string) (*bril.Program, error) {
	prog, err := bril.LoadProgram(filename)
	if err != nil {
		return nil, fmt.Errorf("could not load program: %w", err)
	}

	if len(prog.Functions) == 0 {
		return nil, fmt.Errorf("could not load program: no functions")
	}

	names := make(map[string]bool, len(prog.Functions))
	for _, fn := range prog.Functions {
		if names[fn.Name] {
			return nil, fmt.Errorf("could not load program: function %s is defined more than once", fn.Name)
		}
		names[fn.Name] = true
	}
	return prog, nil
}
