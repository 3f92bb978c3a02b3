// Package haplotype groups sequencing reads into haplotypes.
//
// Reads are reduced to allele strings over candidate variant sites,
// accumulated as fragments in an interval-tree-backed store, clustered by
// greedy compatible-overlap merging, filtered by minimum read support,
// and finally reported as lists of contributing read records.
package haplotype

import (
	"fmt"
	"math"

	"github.com/rebroad/staden/internal/interval"
)

// Rec identifies a sequence or contig record in the assembly database.
type Rec int64

// Wildcard marks an allele-string position with no observed base. It is
// compatible with any base during merging.
const Wildcard = '-'

// Fragment is a partial allele string over a contiguous run of variant
// site indices [Start, End]. Bases holds one of A, C, G, T, * or the
// wildcard per site; Depth counts the observations behind each base and
// is non-zero only where the base is non-wildcard.
type Fragment struct {
	Bases []byte
	Depth []int

	Start, End int

	// NSeq is the number of reads (or read pairs) merged into this
	// fragment. Zero marks a fragment absorbed during clustering.
	NSeq int

	// Recs are the contributing read records, in processing order.
	Recs []Rec
}

// Len returns the number of variant sites the fragment spans.
func (f *Fragment) Len() int { return f.End - f.Start + 1 }

// Base returns the allele at absolute site index i.
func (f *Fragment) Base(i int) byte { return f.Bases[i-f.Start] }

// conflicts reports whether f and g disagree at any site covered by both.
// A site conflicts only when both carry a non-wildcard base and the bases
// differ.
func (f *Fragment) conflicts(g *Fragment) bool {
	lo := max(f.Start, g.Start)
	hi := min(f.End, g.End)
	for i := lo; i <= hi; i++ {
		a := f.Bases[i-f.Start]
		b := g.Bases[i-g.Start]
		if a != Wildcard && b != Wildcard && a != b {
			return true
		}
	}
	return false
}

// String renders the allele string, for dumps and test failures.
func (f *Fragment) String() string {
	return fmt.Sprintf("%d..%d %s x%d", f.Start, f.End, f.Bases, f.NSeq)
}

// Store accumulates haplotype fragments for one contig region, indexed
// by an interval tree on their site-index spans.
type Store struct {
	tree *interval.Tree
}

// NewStore returns an empty fragment store.
func NewStore() *Store {
	return &Store{tree: interval.New()}
}

// Len returns the number of fragments held, absorbed ones included.
func (s *Store) Len() int { return s.tree.Len() }

// Add merges an allele string over sites [start, end] into an existing
// fragment with the exact same span when every doubly-observed site
// agrees, or inserts a new fragment otherwise. The recs are appended to
// the fragment's contributing records.
//
// Only exact-span matches merge here. Folding a shorter string into a
// containing fragment would cut down the clustering work later, but
// commits to a merge before enough is known to pick the best one, so
// containment matching stays disabled.
func (s *Store) Add(bases []byte, start, end int, recs ...Rec) error {
	if end < start || len(bases) != end-start+1 {
		return fmt.Errorf("haplotype: allele string length %d does not span %d..%d", len(bases), start, end)
	}

	it := s.tree.Iter(start, end)
	for iv := it.Next(); iv != nil; iv = it.Next() {
		f := iv.Data.(*Fragment)
		if f.Start != start || f.End != end {
			continue
		}

		conflict := false
		lo := max(f.Start, start)
		hi := min(f.End, end)
		for i := lo; i <= hi; i++ {
			a := f.Bases[i-f.Start]
			b := bases[i-start]
			if a != Wildcard && b != Wildcard && a != b {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		// union the new bases in, filling wildcards and deepening counts
		for i := start; i <= end; i++ {
			if b := bases[i-start]; b != Wildcard {
				f.Bases[i-f.Start] = b
				f.Depth[i-f.Start]++
			}
		}
		f.NSeq++
		f.Recs = append(f.Recs, recs...)
		return nil
	}

	f := &Fragment{
		Bases: make([]byte, len(bases)),
		Depth: make([]int, len(bases)),
		Start: start,
		End:   end,
		NSeq:  1,
		Recs:  append([]Rec(nil), recs...),
	}
	copy(f.Bases, bases)
	for i, b := range f.Bases {
		if b != Wildcard {
			f.Depth[i] = 1
		}
	}
	s.tree.Add(start, end, f)
	return nil
}

// Filter removes every fragment supported by fewer than minCount reads.
// Tree traversal and node removal cannot safely interleave, so doomed
// intervals are collected first and deleted in a second pass.
func (s *Store) Filter(minCount int) error {
	var doomed []*interval.Interval
	it := s.tree.Iter(math.MinInt, math.MaxInt)
	for iv := it.Next(); iv != nil; iv = it.Next() {
		if iv.Data.(*Fragment).NSeq < minCount {
			doomed = append(doomed, iv)
		}
	}

	for _, iv := range doomed {
		if err := s.tree.Delete(iv); err != nil {
			return err
		}
		release(iv.Data)
	}
	return nil
}

// Groups extracts the contributing records of every surviving fragment,
// one group per haplotype. Ownership of each record list transfers to
// the caller; the fragment's reference is nil-ed so a later Destroy
// cannot hand the list out twice.
func (s *Store) Groups() [][]Rec {
	var groups [][]Rec
	it := s.tree.Iter(math.MinInt, math.MaxInt)
	for iv := it.Next(); iv != nil; iv = it.Next() {
		f := iv.Data.(*Fragment)
		if f.NSeq == 0 {
			continue
		}
		groups = append(groups, f.Recs)
		f.Recs = nil
	}
	return groups
}

// Fragments returns the surviving fragments in ascending span order.
func (s *Store) Fragments() []*Fragment {
	var frags []*Fragment
	it := s.tree.Iter(math.MinInt, math.MaxInt)
	for iv := it.Next(); iv != nil; iv = it.Next() {
		if f := iv.Data.(*Fragment); f.NSeq > 0 {
			frags = append(frags, f)
		}
	}
	return frags
}

// Destroy tears the store down, releasing every remaining fragment.
func (s *Store) Destroy() {
	s.tree.Destroy(release)
}

func release(data interface{}) {
	f := data.(*Fragment)
	f.Bases = nil
	f.Depth = nil
	f.Recs = nil
	f.NSeq = 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
