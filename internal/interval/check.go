package interval

import (
	"fmt"
	"math"
)

// Check recomputes every cached and augmented value in the tree and
// cross-checks it against the stored values: each node's start must match
// every packed interval, its end must be the max packed End, its last
// must be max(end, child lasts), and in-order node starts must be
// strictly increasing. Intended for test harnesses, not production paths.
func (t *Tree) Check() error {
	prev := math.MinInt
	_, err := t.check(t.root, &prev)
	return err
}

func (t *Tree) check(x *node, prevStart *int) (last int, err error) {
	if x == t.sentinel {
		return math.MinInt, nil
	}

	lastL, err := t.check(x.left, prevStart)
	if err != nil {
		return 0, err
	}

	if x.start <= *prevStart {
		return 0, fmt.Errorf("interval: node start %d out of order after %d", x.start, *prevStart)
	}
	*prevStart = x.start

	if x.ivs == nil {
		return 0, fmt.Errorf("interval: node %d has no packed intervals", x.start)
	}
	end := math.MinInt
	for iv := x.ivs; iv != nil; iv = iv.next {
		if iv.Start != x.start {
			return 0, fmt.Errorf("interval: packed interval start %d on node %d", iv.Start, x.start)
		}
		if iv.End > end {
			end = iv.End
		}
	}
	if end != x.end {
		return 0, fmt.Errorf("interval: node %d cached end %d, want %d", x.start, x.end, end)
	}

	lastR, err := t.check(x.right, prevStart)
	if err != nil {
		return 0, err
	}

	last = end
	if lastL > last {
		last = lastL
	}
	if lastR > last {
		last = lastR
	}
	if last != x.last {
		return 0, fmt.Errorf("interval: node %d augmented last %d, want %d", x.start, x.last, last)
	}

	return last, nil
}
