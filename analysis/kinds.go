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

// Package analysis contains the drivers of the dataflow analyses over Bril programs: the closed set of named analyses,
// their per-program parallel execution, program loading and block statistics.
package analysis

import (
	"fmt"
	"strings"

	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
)

// Kind identifies one of the dataflow analyses that can be run by name
type Kind int

const (
	// LiveVariables is the backward live-variable analysis
	LiveVariables Kind = iota
	// ReachingDefinitions is the forward reaching-definitions analysis
	ReachingDefinitions
	// ConstantPropagation is the forward constant propagation
	ConstantPropagation
)

var kindNames = map[Kind]string{
	LiveVariables:       "live",
	ReachingDefinitions: "reaching",
	ConstantPropagation: "constprop",
}

// Kinds returns all the analyses, in the order of their declaration
func Kinds() []Kind {
	return []Kind{LiveVariables, ReachingDefinitions, ConstantPropagation}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the analysis called name. "live_var" is accepted as an alias of "live".
func ParseKind(name string) (Kind, error) {
	if name == "live_var" {
		return LiveVariables, nil
	}
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	names := make([]string, 0, len(kindNames))
	for _, k := range Kinds() {
		names = append(names, kindNames[k])
	}
	return 0, fmt.Errorf("unknown analysis %q (expected one of %s)", name, strings.Join(names, ", "))
}

// Direction returns the direction in which the analysis propagates states
func (k Kind) Direction() dataflow.Direction {
	if k == LiveVariables {
		return dataflow.Backward
	}
	return dataflow.Forward
}
