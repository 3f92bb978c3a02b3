// Package interval implements an augmented interval tree over integer
// site indices.
//
// The tree is a red-black tree keyed by interval start. Every interval
// sharing a start coordinate is packed onto a single node's list, so the
// tree holds one node per distinct start. Each node caches the maximum
// end among its packed intervals and an augmented "last" value, the
// maximum end reachable anywhere in its subtree, which lets overlap
// queries prune whole subtrees.
//
// A Tree is not safe for concurrent use. It is built, queried and torn
// down within a single region-processing call.
package interval

import (
	"errors"
	"math"
)

// ErrNotFound is returned by Delete when the interval is not in the tree.
var ErrNotFound = errors.New("interval: not found")

// Interval is a stored [Start, End] range (inclusive on both ends) and
// its payload. Intervals are owned by the tree that created them until
// the tree is destroyed.
type Interval struct {
	Start int
	End   int

	// Data is an opaque payload reference, set at Add time.
	Data interface{}

	// next links intervals packed onto the same tree node
	next *Interval
}

// Overlaps reports whether the interval intersects [start, end].
func (iv *Interval) Overlaps(start, end int) bool {
	return iv.Start <= end && iv.End >= start
}

type rbcolor int

const (
	black rbcolor = iota
	red
)

// node is the tree's unit of storage: every interval whose Start equals
// the node's start, plus the augmentation values.
type node struct {
	start int // shared start of every packed interval
	end   int // max End among packed intervals
	last  int // max(end, left.last, right.last)

	ivs *Interval // packed list, unordered

	left, right, parent *node
	c                   rbcolor
}

// Tree is the balanced tree of interval nodes.
type Tree struct {
	root  *node
	count int

	// shared sentinel standing in for every nil leaf and the root's
	// parent, so rotations and delete fixups have no nil special cases
	sentinel *node
}

// New returns an empty tree.
func New() *Tree {
	s := &node{c: black}
	s.left, s.right, s.parent = s, s, s
	return &Tree{root: s, sentinel: s}
}

// Len returns the number of intervals held in the tree.
func (t *Tree) Len() int { return t.count }

// Destroy drops every node and packed interval, invoking cleanup on each
// interval's payload if non-nil. The tree is empty and reusable afterwards.
func (t *Tree) Destroy(cleanup func(data interface{})) {
	if cleanup != nil {
		t.each(t.root, func(iv *Interval) {
			cleanup(iv.Data)
		})
	}
	t.root = t.sentinel
	t.count = 0
}

func (t *Tree) each(x *node, fn func(*Interval)) {
	if x == t.sentinel {
		return
	}
	t.each(x.left, fn)
	for iv := x.ivs; iv != nil; iv = iv.next {
		fn(iv)
	}
	t.each(x.right, fn)
}

// updateLast recomputes the augmented last value for x and every ancestor.
// It always walks to the root: after a structural change more than one
// node on the path may be stale.
func (t *Tree) updateLast(x *node) {
	for x != t.sentinel {
		last := x.end
		if x.left != t.sentinel && x.left.last > last {
			last = x.left.last
		}
		if x.right != t.sentinel && x.right.last > last {
			last = x.right.last
		}
		x.last = last
		x = x.parent
	}
}

// Add inserts [start, end] with the given payload and returns the stored
// interval, packed onto an existing node when one already holds that start.
func (t *Tree) Add(start, end int, data interface{}) *Interval {
	iv := &Interval{Start: start, End: end, Data: data}

	y := t.sentinel
	x := t.root
	for x != t.sentinel {
		if start == x.start {
			// same start, pack onto this node
			iv.next = x.ivs
			x.ivs = iv
			if x.end < end {
				x.end = end
			}
			t.updateLast(x)
			t.count++
			return iv
		}
		y = x
		if start < x.start {
			x = x.left
		} else {
			x = x.right
		}
	}

	z := &node{
		start:  start,
		end:    end,
		last:   end,
		ivs:    iv,
		c:      red,
		left:   t.sentinel,
		right:  t.sentinel,
		parent: y,
	}
	if y == t.sentinel {
		t.root = z
	} else {
		if start < y.start {
			y.left = z
		} else {
			y.right = z
		}
		t.updateLast(y)
	}

	t.insertFixup(z)
	t.count++
	return iv
}

// Delete removes an interval previously returned by Add. When the owning
// node's packed list empties, the node itself is removed and the
// augmentation re-established along the ancestor path. Returns
// ErrNotFound if the interval is not in the tree; the tree is unchanged
// in that case.
func (t *Tree) Delete(iv *Interval) error {
	z := t.findStart(iv.Start)
	if z == nil {
		return ErrNotFound
	}

	var prev *Interval
	n := z.ivs
	for n != nil && n != iv {
		prev, n = n, n.next
	}
	if n == nil {
		return ErrNotFound
	}

	if prev != nil {
		prev.next = n.next
	} else {
		z.ivs = n.next
	}
	n.next = nil
	t.count--

	if z.ivs == nil {
		t.removeNode(z)
		return nil
	}

	if z.end == iv.End {
		// removed interval may have carried the node's max end
		end := math.MinInt
		for i := z.ivs; i != nil; i = i.next {
			if i.End > end {
				end = i.End
			}
		}
		z.end = end
	}
	t.updateLast(z)
	return nil
}

// findStart returns the node holding exactly this start, or nil.
func (t *Tree) findStart(start int) *node {
	x := t.root
	for x != t.sentinel {
		if start == x.start {
			return x
		}
		if start < x.start {
			x = x.left
		} else {
			x = x.right
		}
	}
	return nil
}

func (t *Tree) min(x *node) *node {
	for x.left != t.sentinel {
		x = x.left
	}
	return x
}

// transplant replaces the subtree rooted at u with the one rooted at v.
// v may be the sentinel; its parent pointer is still set, which is what
// lets deleteFixup walk up from an empty subtree.
func (t *Tree) transplant(u, v *node) {
	if u.parent == t.sentinel {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

// removeNode unlinks an emptied node, CLRS RB-DELETE with the last
// augmentation recomputed from the lowest structural change upward.
func (t *Tree) removeNode(z *node) {
	y := z
	yc := y.c
	var x *node

	switch {
	case z.left == t.sentinel:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.sentinel:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.min(z.right)
		yc = y.c
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.c = z.c
	}

	t.updateLast(x.parent)
	if yc == black {
		t.deleteFixup(x)
	}
	t.sentinel.parent = t.sentinel
}

func (t *Tree) deleteFixup(x *node) {
	for x != t.root && x.c == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.c == red {
				w.c = black
				x.parent.c = red
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if w.left.c == black && w.right.c == black {
				w.c = red
				x = x.parent
			} else {
				if w.right.c == black {
					w.left.c = black
					w.c = red
					t.rotateRight(w)
					w = x.parent.right
				}
				w.c = x.parent.c
				x.parent.c = black
				w.right.c = black
				t.rotateLeft(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.c == red {
				w.c = black
				x.parent.c = red
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if w.right.c == black && w.left.c == black {
				w.c = red
				x = x.parent
			} else {
				if w.left.c == black {
					w.right.c = black
					w.c = red
					t.rotateLeft(w)
					w = x.parent.left
				}
				w.c = x.parent.c
				x.parent.c = black
				w.left.c = black
				t.rotateRight(x.parent)
				x = t.root
			}
		}
	}
	x.c = black
}

func (t *Tree) insertFixup(z *node) {
	for z.parent.c == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.c == red {
				y.c = black
				z.parent.c = black
				z.parent.parent.c = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.c = black
				z.parent.parent.c = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.c == red {
				y.c = black
				z.parent.c = black
				z.parent.parent.c = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.c = black
				z.parent.parent.c = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.c = black
}

// rotateLeft moves x below its right child, re-augmenting from x upward.
func (t *Tree) rotateLeft(x *node) {
	y := x.right
	x.right = y.left
	if y.left != t.sentinel {
		y.left.parent = x
	}

	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}

	y.left = x
	x.parent = y

	t.updateLast(x)
}

// rotateRight moves x below its left child, re-augmenting from x upward.
func (t *Tree) rotateRight(x *node) {
	y := x.left
	x.left = y.right
	if y.right != t.sentinel {
		y.right.parent = x
	}

	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}

	y.right = x
	x.parent = y

	t.updateLast(x)
}

// Visitor is called with each interval overlapping a queried range.
// Returning an error aborts the whole query with that error. Returning
// (false, nil) stops further callbacks while keeping the count found so
// far. Returning (true, nil) continues the query.
type Visitor func(iv *Interval) (more bool, err error)

// Query finds every interval overlapping [start, end], invoking fn per
// match when non-nil, and returns the number of matches found.
//
// A left subtree is pruned when nothing in it can reach start; a right
// subtree is pruned when every start in it lies beyond end.
func (t *Tree) Query(start, end int, fn Visitor) (int, error) {
	count, _, err := t.query(t.root, start, end, fn)
	return count, err
}

func (t *Tree) query(x *node, start, end int, fn Visitor) (count int, stop bool, err error) {
	if x == t.sentinel {
		return 0, false, nil
	}

	if l := x.left; l != t.sentinel && l.last >= start {
		n, stop, err := t.query(l, start, end, fn)
		count += n
		if err != nil || stop {
			return count, stop, err
		}
	}

	if end >= x.start && start <= x.end {
		for iv := x.ivs; iv != nil; iv = iv.next {
			if !iv.Overlaps(start, end) {
				continue
			}
			count++
			if fn == nil {
				continue
			}
			more, err := fn(iv)
			if err != nil {
				return count, true, err
			}
			if !more {
				return count, true, nil
			}
		}
	}

	if r := x.right; x.start <= end && r != t.sentinel {
		n, stop, err := t.query(r, start, end, fn)
		count += n
		if err != nil || stop {
			return count, stop, err
		}
	}

	return count, false, nil
}
