// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package patricia

type tree struct {
	arena
	size int
}

func newTree() *tree {
	return &tree{arena: newArena()}
}

// Inserts the passed in value that is indexed by the passed in key into the tree.
// There are three cases at every node on the way down:
//
// If a child label is a prefix of the remaining key, the label is consumed
// and the insertion continues at that child.
//
// If a child label only partially overlaps the remaining key, the edge is
// split: an intermediate node takes the common part and the old child is
// pushed below it with the rest of its label.
//
// If no child shares the first symbol of the remaining key, a new leaf
// holding the whole remainder is attached.
//
// Once the key is exhausted the current node becomes terminal.
func (t *tree) Insert(key Key, value Value) {
	current := rootIndex
	remaining := key

	for len(remaining) > 0 {
		next := t.node(current).findChild(remaining[0])

		if next == nilIndex {
			leaf := t.alloc(cloneKey(remaining), true, value)
			t.node(current).addChild(remaining[0], leaf)
			t.size++
			return
		}

		label := t.node(next).label
		common := commonPrefix(remaining, label)
		if len(common) < len(label) {
			next = t.split(current, next, len(common))
		}

		remaining = remaining[len(common):]
		current = next
	}

	n := t.node(current)
	if !n.terminal {
		t.size++
	}
	n.setValue(value)
}

// split places a new intermediate node between parent and child that owns
// the first n symbols of the child's label, and returns its index.
// n must be positive and shorter than the child's label.
func (t *tree) split(parent, child int32, n int) int32 {
	label := t.node(child).label
	mid := t.alloc(label[:n:n], false, nil)

	rest := label[n:]
	t.node(child).label = rest
	t.node(mid).addChild(rest[0], child)
	t.node(parent).addChild(label[0], mid)

	return mid
}

// descend returns the child of current whose label is a prefix of
// remaining, with the symbols left after consuming it.
func (t *tree) descend(current int32, remaining Key) (int32, Key) {
	next := t.node(current).findChild(remaining[0])
	if next == nilIndex {
		return nilIndex, remaining
	}

	label := t.node(next).label
	if !hasPrefix(remaining, label) {
		return nilIndex, remaining
	}
	return next, remaining[len(label):]
}

// Returns the node that spells exactly key, or nilIndex if not found.
// The node need not be terminal.
func (t *tree) lookup(key Key) int32 {
	current := rootIndex
	for remaining := key; len(remaining) > 0; {
		current, remaining = t.descend(current, remaining)
		if current == nilIndex {
			return nilIndex
		}
	}
	return current
}

// Returns the value stored under key.
func (t *tree) Search(key Key) (Value, bool) {
	idx := t.lookup(key)
	if idx == nilIndex {
		return nil, false
	}

	n := t.node(idx)
	if !n.terminal {
		return nil, false
	}
	return n.value, true
}

func (t *tree) Contains(key Key) bool {
	_, found := t.Search(key)
	return found
}

// LongestPrefix walks down like Search but remembers the value of every
// terminal node it passes. Each step consumes a non-empty label, so the
// last one remembered belongs to the longest matching key.
func (t *tree) LongestPrefix(key Key, def Value) Value {
	match := def
	current := rootIndex
	remaining := key

	for {
		if n := t.node(current); n.terminal {
			match = n.value
		}

		if len(remaining) == 0 {
			return match
		}

		current, remaining = t.descend(current, remaining)
		if current == nilIndex {
			return match
		}
	}
}

// Delete the key and prune the nodes it leaves empty.
func (t *tree) Delete(key Key) bool {
	deleted, _ := t.removeHelper(rootIndex, key)
	if deleted {
		t.size--
	}
	return deleted
}

// Recursive helper for removing keys.
//
// When remaining is empty the current node loses its terminal marker.
// Otherwise the helper recurses into the one child whose label prefixes
// remaining; if that child reports itself prunable it is detached and its
// slot released. The returned prunable flag lets the caller continue upward.
//
// A node left with a single child and no key is not merged into that child,
// so the tree may be less compressed after deletes than after inserts alone.
func (t *tree) removeHelper(current int32, remaining Key) (deleted, prunable bool) {
	if len(remaining) == 0 {
		n := t.node(current)
		if !n.terminal {
			return false, false
		}
		n.clearValue()
		return true, current != rootIndex && n.prunable()
	}

	next, rest := t.descend(current, remaining)
	if next == nilIndex {
		return false, false
	}

	deleted, prune := t.removeHelper(next, rest)
	if !deleted {
		return false, false
	}

	n := t.node(current)
	if prune {
		n.removeChild(remaining[0])
		t.release(next)
	}
	return true, current != rootIndex && n.prunable()
}

func (t *tree) Each(callback Callback) {
	t.eachHelper(rootIndex, 1, callback)
}

// Recursive helper for iterating over the tree, parents before children.
func (t *tree) eachHelper(current int32, depth int, callback Callback) {
	for _, e := range t.node(current).children {
		callback(view{n: t.node(e.child), depth: depth})
		t.eachHelper(e.child, depth+1, callback)
	}
}

func (t *tree) Walk(fn WalkFunc) {
	if root := t.node(rootIndex); root.terminal {
		if !fn(Key{}, root.value) {
			return
		}
	}
	t.walkHelper(rootIndex, nil, fn)
}

// Recursive helper for Walk. It returns false once fn asked to stop.
func (t *tree) walkHelper(current int32, prefix Key, fn WalkFunc) bool {
	for _, e := range t.node(current).children {
		child := t.node(e.child)
		key := append(prefix[:len(prefix):len(prefix)], child.label...)

		if child.terminal && !fn(key, child.value) {
			return false
		}
		if !t.walkHelper(e.child, key, fn) {
			return false
		}
	}
	return true
}

func (t *tree) Dump() []Entry {
	entries := make([]Entry, 0, t.live()-1)
	t.Each(func(n Node) {
		entries = append(entries, Entry{
			Depth:    n.Depth(),
			Label:    string(n.Label()),
			Terminal: n.Terminal(),
			Value:    n.Value(),
		})
	})
	return entries
}

func (t *tree) Size() int {
	return t.size
}
