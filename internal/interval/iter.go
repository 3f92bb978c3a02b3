package interval

// Iter is a resumable cursor over the intervals of a tree that overlap a
// query range. It applies the same descent and pruning rules as Query but
// yields one interval per Next call, tracking the current node, the
// position within its packed list, and whether the node's left subtree
// has been explored.
//
// Because the traversal holds no recursion state, a caller can collect
// yielded intervals and delete them from the tree once iteration is
// finished. Deleting while the iterator is still advancing is not
// supported.
type Iter struct {
	t    *Tree
	node *node
	iv   *Interval

	start, end int
	doneLeft   bool
}

// Iter returns a cursor over every interval overlapping [start, end].
func (t *Tree) Iter(start, end int) *Iter {
	it := &Iter{t: t, start: start, end: end}
	if t.root != t.sentinel {
		it.node = t.root
		it.iv = t.root.ivs
	}
	return it
}

// Next returns the next overlapping interval, or nil when the traversal
// is exhausted. Intervals are yielded in ascending node-start order;
// within one node the packed list order is unspecified.
func (it *Iter) Next() *Interval {
	s := it.t.sentinel

	for it.node != nil {
		// descend left first, unless that subtree is already done or
		// nothing in it reaches the range
		if !it.doneLeft {
			if l := it.node.left; l != s && l.last >= it.start {
				it.node = l
				it.iv = l.ivs
				continue
			}
			it.doneLeft = true
		}

		// the current node's packed list; each interval is checked
		// individually so a non-overlapping node yields nothing
		for iv := it.iv; iv != nil; iv = iv.next {
			if iv.Overlaps(it.start, it.end) {
				it.iv = iv.next
				return iv
			}
		}
		it.iv = nil

		// then right, pruned when every start there is beyond the range
		if r := it.node.right; it.node.start <= it.end && r != s {
			it.node = r
			it.iv = r.ivs
			it.doneLeft = false
			continue
		}

		// climb until we arrive at a parent from its left child; that
		// parent has not been visited yet
		n := it.node
		p := n.parent
		for p != s && p.right == n {
			n = p
			p = p.parent
		}
		if p == s {
			it.node = nil
			return nil
		}
		it.node = p
		it.iv = p.ivs
		it.doneLeft = true
	}

	return nil
}
