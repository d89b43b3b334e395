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

package formatutil

import "testing"

func TestSet(t *testing.T) {
	for _, tc := range []struct {
		in   []string
		want string
	}{
		{nil, "{}"},
		{[]string{"a"}, "{a}"},
		{[]string{"a", "b", "c"}, "{a, b, c}"},
	} {
		if got := Set(tc.in); got != tc.want {
			t.Errorf("Set(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\tb\033[0m"); got != `a\tb\x1b[0m` {
		t.Errorf("unexpected sanitized string %q", got)
	}
}
