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

import "regexp"

// Captures errors happening before any analysis starts (program could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load program")

// Captures the errors of the JSON decoder, when the input is not a JSON Bril program
var regexNotJSON = regexp.MustCompile("could not decode bril program: (invalid character|unexpected end of JSON)")

// Captures errors in the construction of a control flow graph
var regexUnresolvedLabel = regexp.MustCompile("unresolved label \"([^\"]+)\"")

// Captures errors of the solver stopped by the max-sweeps option
var regexNoFixedPoint = regexp.MustCompile("no fixed point after \\d+ sweeps")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotLoad.MatchString(errMsg) {
		if regexNotJSON.MatchString(errMsg) {
			return "the program should be in Bril's JSON form; convert textual programs with bril2json first"
		}
		return "make sure you have provided the path of a Bril program in JSON form, or - to read the standard input"
	}
	if m := regexUnresolvedLabel.FindStringSubmatch(errMsg); m != nil {
		return "every label used by a jmp or br must be defined in the same function; check label " + m[1]
	}
	if regexNoFixedPoint.MatchString(errMsg) {
		return "increase max-sweeps in the config file, or set it to 0 to run the solver until it reaches a fixed point"
	}
	return ""
}
