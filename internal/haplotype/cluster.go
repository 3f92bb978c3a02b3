package haplotype

import (
	"math"
	"sort"
)

// Cluster merges compatible overlapping fragments.
//
// Fragments are first blocked: walking them in ascending start order
// with a running maximum end, a block closes whenever the next fragment
// starts beyond that maximum. Blocks bound the quadratic merge phase to
// each group of mutually overlapping fragments instead of the whole set.
//
// Within a block, fragments are taken in priority order and each anchor
// repeatedly absorbs any remaining fragment that overlaps its current
// span with no conflicting site. Compatibility is evaluated pairwise,
// not transitively, so the final grouping can depend on merge order; a
// read matching two mutually incompatible haplotypes stays wherever the
// priority order puts it first. This is a known limitation of the
// heuristic.
//
// Fragment spans grow as they absorb others, but the intervals inside
// the tree keep their insertion-time keys: mutating those would corrupt
// the tree and break the later Filter deletions. All restructuring here
// happens on block slices layered over the same fragment objects.
func (s *Store) Cluster() {
	it := s.tree.Iter(math.MinInt, math.MaxInt)

	var block []*Fragment
	blockEnd := math.MinInt
	for iv := it.Next(); iv != nil; iv = it.Next() {
		f := iv.Data.(*Fragment)
		if len(block) > 0 && f.Start > blockEnd {
			clusterBlock(block)
			block = nil
			blockEnd = math.MinInt
		}
		block = append(block, f)
		if f.End > blockEnd {
			blockEnd = f.End
		}
	}
	if len(block) > 0 {
		clusterBlock(block)
	}
}

// priority ranks fragments for anchoring: broad, well-supported ones
// first. Truncated to int so near ties collapse, as the sort has always
// behaved.
func priority(f *Fragment) int {
	return int(math.Sqrt(float64(f.Len())) * float64(f.NSeq))
}

func clusterBlock(frags []*Fragment) {
	if len(frags) < 2 {
		return
	}

	sort.SliceStable(frags, func(i, j int) bool {
		pi, pj := priority(frags[i]), priority(frags[j])
		if pi != pj {
			return pi > pj
		}
		if frags[i].Start != frags[j].Start {
			return frags[i].Start < frags[j].Start
		}
		return frags[i].End < frags[j].End
	})

	for i := 0; i < len(frags); i++ {
		f := frags[i]
		for {
			recruited := false
			for j := i + 1; j < len(frags); {
				g := frags[j]
				if !overlaps(f, g) || f.conflicts(g) {
					j++
					continue
				}
				absorb(f, g)
				frags = append(frags[:j], frags[j+1:]...)
				recruited = true
			}
			// absorbed bases may make previously incompatible
			// fragments compatible now, so rescan
			if !recruited {
				break
			}
		}
	}
}

func overlaps(f, g *Fragment) bool {
	return g.Start <= f.End && g.End >= f.Start
}

// absorb merges g into f: the spans union, f's known bases win where
// both carry one, read counts sum and record lists concatenate. g is
// zeroed so later phases skip it; its tree interval remains until
// filtering or teardown removes it.
func absorb(f, g *Fragment) {
	start := min(f.Start, g.Start)
	end := max(f.End, g.End)
	n := end - start + 1

	bases := make([]byte, n)
	depth := make([]int, n)
	for i := range bases {
		bases[i] = Wildcard
	}
	for i := g.Start; i <= g.End; i++ {
		bases[i-start] = g.Bases[i-g.Start]
		depth[i-start] = g.Depth[i-g.Start]
	}
	for i := f.Start; i <= f.End; i++ {
		if b := f.Bases[i-f.Start]; b != Wildcard {
			bases[i-start] = b
		}
		depth[i-start] += f.Depth[i-f.Start]
	}

	f.Bases = bases
	f.Depth = depth
	f.Start = start
	f.End = end
	f.NSeq += g.NSeq
	f.Recs = append(f.Recs, g.Recs...)

	g.NSeq = 0
	g.Bases = nil
	g.Depth = nil
	g.Recs = nil
	g.End = g.Start - 1
}
