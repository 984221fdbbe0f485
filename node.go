// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package patricia

import "sort"

const (
	// The root always occupies the first arena slot and is never released.
	rootIndex int32 = 0

	// Returned by lookups that found no child.
	nilIndex int32 = -1
)

// edge links a parent to a child under the first symbol of the child's label.
type edge struct {
	symbol byte
	child  int32
}

// node - a single tree node. Children are kept sorted by symbol, and by
// construction no two siblings share a first symbol.
type node struct {
	label    Key
	terminal bool
	value    Value
	children []edge
}

// arena owns every node of a tree. Nodes reference each other by index,
// and released slots are recycled through the free list.
type arena struct {
	nodes []node
	free  []int32
}

func newArena() arena {
	return arena{nodes: make([]node, 1)}
}

// alloc stores a new node and returns its index. Pointers obtained with
// node() before a call to alloc must not be used after it.
func (a *arena) alloc(label Key, terminal bool, value Value) int32 {
	n := node{label: label}
	if terminal {
		n.setValue(value)
	}

	if last := len(a.free) - 1; last >= 0 {
		idx := a.free[last]
		a.free = a.free[:last]
		a.nodes[idx] = n
		return idx
	}

	a.nodes = append(a.nodes, n)
	return int32(len(a.nodes) - 1)
}

// release returns a single detached node to the free list.
func (a *arena) release(idx int32) {
	a.nodes[idx] = node{}
	a.free = append(a.free, idx)
}

func (a *arena) node(idx int32) *node {
	return &a.nodes[idx]
}

// Returns the number of live nodes, root included.
func (a *arena) live() int {
	return len(a.nodes) - len(a.free)
}

// index returns the position of the edge for symbol, or the position where
// it would be inserted.
func (n *node) index(symbol byte) (int, bool) {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].symbol >= symbol
	})
	return i, i < len(n.children) && n.children[i].symbol == symbol
}

// findChild returns the index of the child whose label starts with symbol,
// or nilIndex if not present.
func (n *node) findChild(symbol byte) int32 {
	if i, ok := n.index(symbol); ok {
		return n.children[i].child
	}
	return nilIndex
}

// addChild attaches child under symbol, replacing an existing edge for the
// same symbol.
func (n *node) addChild(symbol byte, child int32) {
	i, ok := n.index(symbol)
	if ok {
		n.children[i].child = child
		return
	}

	n.children = append(n.children, edge{})
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = edge{symbol: symbol, child: child}
}

// removeChild detaches the edge for symbol if found.
func (n *node) removeChild(symbol byte) {
	i, ok := n.index(symbol)
	if !ok {
		return
	}

	last := len(n.children) - 1
	copy(n.children[i:], n.children[i+1:])
	n.children[last] = edge{}
	n.children = n.children[:last]
}

func (n *node) setValue(value Value) {
	n.terminal = true
	n.value = value
}

// A value is never kept on a non-terminal node.
func (n *node) clearValue() {
	n.terminal = false
	n.value = nil
}

// prunable reports whether the node holds neither a key nor children.
func (n *node) prunable() bool {
	return !n.terminal && len(n.children) == 0
}

// view is the Node handed to callbacks.
type view struct {
	n     *node
	depth int
}

func (v view) Label() Key     { return v.n.label }
func (v view) Depth() int     { return v.depth }
func (v view) Terminal() bool { return v.n.terminal }
func (v view) Value() Value   { return v.n.value }
