// Package interval provides the per-tag interval index: a balanced search
// tree over scalar-valued edges answering overlap queries in O(log n + k).
package interval

import (
	"github.com/mwantia/semfs/data"
)

// Tree indexes the scalar intervals of one (space, tag) pair. It is an
// AVL-balanced binary search tree keyed by interval start, with every node
// augmented by the maximum end value of its subtree so whole branches can
// be pruned during overlap queries.
//
// A file holds at most one interval per tree; Insert replaces any previous
// entry for the same ID. Point values are stored as degenerate intervals
// (low == high).
//
// The Tree is NOT internally locked. The owning space serializes access
// together with the tag graph it mirrors.
type Tree struct {
	root *node

	// Current interval per file, so Remove and re-Insert can locate the
	// node to delete without a full scan.
	entries map[data.FileID]data.Value
}

type node struct {
	id   data.FileID
	low  float64
	high float64

	// Augmentation: maximum high value in this subtree
	maxEnd float64

	height int
	left   *node
	right  *node
}

// NewTree creates an empty interval index.
func NewTree() *Tree {
	return &Tree{
		entries: make(map[data.FileID]data.Value),
	}
}

// Len returns the number of indexed files.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Insert stores the closed interval [low, high] for a file, replacing any
// interval previously held for the same ID.
func (t *Tree) Insert(id data.FileID, low, high float64) {
	if high < low {
		low, high = high, low
	}

	if prev, exists := t.entries[id]; exists {
		t.root = remove(t.root, prev.Low, id)
	}

	t.entries[id] = data.Value{Low: low, High: high}
	t.root = insert(t.root, &node{id: id, low: low, high: high})
}

// Remove drops the interval held for a file. Removing an unindexed ID is a
// no-op, mirroring idempotent untag semantics.
func (t *Tree) Remove(id data.FileID) {
	prev, exists := t.entries[id]
	if !exists {
		return
	}

	delete(t.entries, id)
	t.root = remove(t.root, prev.Low, id)
}

// Query returns every file whose stored interval overlaps the closed range
// [low, high].
func (t *Tree) Query(low, high float64) data.FileSet {
	if high < low {
		low, high = high, low
	}

	result := make(data.FileSet)
	collect(t.root, low, high, result)
	return result
}

// QueryPoint returns every file whose interval contains x.
func (t *Tree) QueryPoint(x float64) data.FileSet {
	return t.Query(x, x)
}

// Interval returns the interval currently indexed for a file.
func (t *Tree) Interval(id data.FileID) (data.Value, bool) {
	v, exists := t.entries[id]
	return v, exists
}

// collect walks the subtree pruning on the max-end augmentation: a subtree
// whose maxEnd lies left of the query, or whose keys all lie right of it,
// cannot contain a match.
func collect(n *node, low, high float64, result data.FileSet) {
	if n == nil || n.maxEnd < low {
		return
	}

	collect(n.left, low, high, result)

	if n.low <= high && n.high >= low {
		result.Add(n.id)
	}

	// Keys right of this node only grow; past the query end they are all
	// out of range.
	if n.low <= high {
		collect(n.right, low, high, result)
	}
}

// less orders nodes by interval start, tie-broken by ID so equal starts
// stay distinguishable for removal.
func less(low float64, id data.FileID, n *node) bool {
	if low != n.low {
		return low < n.low
	}
	return id < n.id
}

func insert(n *node, fresh *node) *node {
	if n == nil {
		fresh.height = 1
		fresh.maxEnd = fresh.high
		return fresh
	}

	if less(fresh.low, fresh.id, n) {
		n.left = insert(n.left, fresh)
	} else {
		n.right = insert(n.right, fresh)
	}

	return rebalance(n)
}

func remove(n *node, low float64, id data.FileID) *node {
	if n == nil {
		return nil
	}

	if n.id == id && n.low == low {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}

		// Replace with the in-order successor
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.id, n.low, n.high = succ.id, succ.low, succ.high
		n.right = remove(n.right, succ.low, succ.id)
	} else if less(low, id, n) {
		n.left = remove(n.left, low, id)
	} else {
		n.right = remove(n.right, low, id)
	}

	return rebalance(n)
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

// update recomputes height and max-end from the children.
func update(n *node) {
	n.height = 1 + max(height(n.left), height(n.right))

	n.maxEnd = n.high
	if n.left != nil && n.left.maxEnd > n.maxEnd {
		n.maxEnd = n.left.maxEnd
	}
	if n.right != nil && n.right.maxEnd > n.maxEnd {
		n.maxEnd = n.right.maxEnd
	}
}

func rebalance(n *node) *node {
	update(n)

	balance := height(n.left) - height(n.right)
	switch {
	case balance > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case balance < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}

	return n
}

func rotateLeft(n *node) *node {
	pivot := n.right
	n.right = pivot.left
	pivot.left = n

	update(n)
	update(pivot)
	return pivot
}

func rotateRight(n *node) *node {
	pivot := n.left
	n.left = pivot.right
	pivot.right = n

	update(n)
	update(pivot)
	return pivot
}
