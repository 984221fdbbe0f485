// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

// Package patricia implements a compressed prefix tree (Patricia/radix trie)
// over opaque symbol sequences.
//
// Every byte of a Key is one symbol. Keys sharing a common prefix share the
// edges that spell it, and runs of single-child nodes are merged into
// multi-symbol edge labels. Besides exact lookups the tree answers
// longest-prefix-match queries, which makes it usable as a rule table over
// bit-string keys (see the ipkey and firewall packages).
//
// A Tree is not safe for concurrent use. Callers that share one across
// goroutines must serialize every access, including reads that may run
// concurrently with a mutation.
package patricia

// Key type. Any sequence of symbols, one symbol per byte.
// The tree does not validate the alphabet; callers must use a consistent one.
type Key = []byte

// Value type.
type Value = interface{}

// Node - a read-only view of a tree node handed to Each callbacks.
type Node interface {
	// Label is the symbol sequence consumed from the parent to reach the node.
	Label() Key
	// Depth is the number of edges between the root and the node.
	Depth() int
	// Terminal reports whether a stored key ends at the node.
	Terminal() bool
	// Value is the payload of the key ending here, nil for non-terminal nodes.
	Value() Value
}

// Callback - callback function that is passed in Each.
// It must not mutate the tree.
type Callback func(node Node)

// WalkFunc - called by Walk for every stored key. The key must not be
// modified. Returning false stops the walk.
type WalkFunc func(key Key, value Value) bool

// Entry - one edge of the tree as reported by Dump.
type Entry struct {
	Depth    int
	Label    string
	Terminal bool
	Value    Value
}

// Tree - delineate Patricia tree entity.
type Tree interface {
	// Insert stores value under key, overwriting any previous value.
	Insert(key Key, value Value)
	// Search returns the value stored under exactly key.
	Search(key Key) (value Value, found bool)
	// Contains reports whether key was inserted.
	Contains(key Key) bool
	// LongestPrefix returns the value of the longest inserted key that is
	// a prefix of key, or def when there is none.
	LongestPrefix(key Key, def Value) Value
	// Delete removes key. It is a no-op returning false when key is absent.
	Delete(key Key) (deleted bool)
	// Each walks every edge depth first, children in ascending symbol order.
	Each(cb Callback)
	// Walk calls fn for every stored key in ascending key order.
	Walk(fn WalkFunc)
	// Dump returns the edges in Each order.
	Dump() []Entry
	// Size returns the number of stored keys.
	Size() int
}

// New - creates a new empty Patricia tree.
func New() Tree {
	return newTree()
}
