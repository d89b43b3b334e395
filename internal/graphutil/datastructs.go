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

package graphutil

// Tree is a generic rooted tree where every node carries a label. Dominator trees are represented with it.
type Tree[T any] struct {
	Parent   *Tree[T]
	Children []*Tree[T]
	Label    T
}

// NewTree returns a tree with a single root labelled with rootLabel
func NewTree[T any](rootLabel T) *Tree[T] {
	return &Tree[T]{Label: rootLabel}
}

// AddChild appends a new child labelled with label to t and returns it
func (t *Tree[T]) AddChild(label T) *Tree[T] {
	child := &Tree[T]{Parent: t, Label: label}
	t.Children = append(t.Children, child)
	return child
}

// Depth returns the number of edges between t and the root
func (t *Tree[T]) Depth() int {
	d := 0
	for cur := t.Parent; cur != nil; cur = cur.Parent {
		d++
	}
	return d
}

// Walk calls f on every node of the tree in preorder, children in insertion order.
func (t *Tree[T]) Walk(f func(*Tree[T])) {
	f(t)
	for _, c := range t.Children {
		c.Walk(f)
	}
}

// Find returns the first node in preorder whose label satisfies pred, or nil.
func (t *Tree[T]) Find(pred func(T) bool) *Tree[T] {
	var found *Tree[T]
	t.Walk(func(n *Tree[T]) {
		if found == nil && pred(n.Label) {
			found = n
		}
	})
	return found
}
