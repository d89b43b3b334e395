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

package funcutil

import (
	"reflect"
	"testing"
)

func TestMapParallelKeepsOrder(t *testing.T) {
	in := make([]int, 100)
	for i := range in {
		in[i] = i
	}
	for _, routines := range []int{-1, 0, 1, 3, 16} {
		out := MapParallel(in, func(x int) int { return x * x }, routines)
		if len(out) != len(in) {
			t.Fatalf("expected %d results, got %d", len(in), len(out))
		}
		for i, x := range out {
			if x != i*i {
				t.Fatalf("routines=%d: out[%d] = %d, want %d", routines, i, x, i*i)
			}
		}
	}
}

func TestMapParallelEmpty(t *testing.T) {
	out := MapParallel([]string{}, func(s string) int { return len(s) }, 4)
	if len(out) != 0 {
		t.Errorf("expected empty result, got %v", out)
	}
}

func TestSetToOrderedSlice(t *testing.T) {
	got := SetToOrderedSlice(map[string]bool{"c": true, "a": true, "b": false, "d": true})
	want := []string{"a", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReversed(t *testing.T) {
	a := []int{1, 2, 3}
	b := Reversed(a)
	if !reflect.DeepEqual(b, []int{3, 2, 1}) {
		t.Errorf("got %v", b)
	}
	if !reflect.DeepEqual(a, []int{1, 2, 3}) {
		t.Errorf("input was modified: %v", a)
	}
}

func TestOptional(t *testing.T) {
	x := SomeIf("v", true)
	if !x.IsSome() || x.Value() != "v" {
		t.Errorf("expected some value")
	}
	y := SomeIf("v", false)
	if !y.IsNone() || y.ValueOr("d") != "d" {
		t.Errorf("expected none")
	}
	l := MapOption(x, func(s string) int { return len(s) })
	if l.ValueOr(0) != 1 {
		t.Errorf("expected mapped value 1")
	}
	if MapOption(y, func(s string) int { return len(s) }).IsSome() {
		t.Errorf("expected none after mapping none")
	}
}
