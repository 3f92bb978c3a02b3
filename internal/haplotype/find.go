package haplotype

import (
	"fmt"
	"sort"

	"github.com/rebroad/staden/config"
)

// hetSymbols orders the alleles used in the dual-allele consensus
// encoding: call/5 and call%5 index into it.
const hetSymbols = "ACGT*"

// SiteCall is one position's consensus statistics, supplied by the
// consensus collaborator.
type SiteCall struct {
	// HetScore is the confidence that the position carries two
	// competing alleles rather than one.
	HetScore float64

	// HetCall encodes the two dominant alleles as top*5 + second over
	// the "ACGT*" alphabet.
	HetCall int

	// Discrep measures disagreement among reads beyond simple
	// heterozygosity.
	Discrep float64
}

// HetBases decodes the dual-allele call into its two dominant bases.
func (c SiteCall) HetBases() (byte, byte) {
	return hetSymbols[c.HetCall/5], hetSymbols[c.HetCall%5]
}

// Seq is a read's stored sequence with its unclipped bounds. Left and
// Right are 1-based positions within the stored bases; Len is negative
// when the bases are stored complemented relative to the contig.
type Seq struct {
	Left, Right int
	Len         int
	Bases       []byte
}

// ReadRange places one read within a contig region. Pair is the linked
// mate record, or zero when the read is unpaired. IsSeq distinguishes
// sequence records from annotations sharing the range index.
type ReadRange struct {
	Rec  Rec
	Pair Rec

	Start, End int

	// Comp is set when the range is complemented relative to the
	// stored sequence orientation.
	Comp  bool
	IsSeq bool
}

// Region names one contig stretch to process.
type Region struct {
	Contig     Rec
	Start, End int
}

// ConsensusCaller supplies per-position consensus statistics for a
// contig region. Implementations must be deterministic for identical
// input reads and must not mutate read data.
type ConsensusCaller interface {
	Consensus(contig Rec, start, end int) ([]SiteCall, error)
}

// SeqReader resolves a record id to its stored sequence.
type SeqReader interface {
	Seq(rec Rec) (*Seq, error)
}

// RangeReader lists the reads covering a contig region, sorted by
// ascending start position.
type RangeReader interface {
	ReadsInRange(contig Rec, start, end int) ([]ReadRange, error)
}

// site is a candidate variant position with its two dominant bases.
// Sites exist only while allele strings are being built; their order
// defines the site indices fragments are anchored to.
type site struct {
	pos      int
	top, alt byte
}

// Finder drives haplotype detection across contig regions.
type Finder struct {
	Ranges RangeReader
	Seqs   SeqReader
	Cons   ConsensusCaller

	conf *config.Config
}

// NewFinder wires the collaborators a Finder needs.
func NewFinder(ranges RangeReader, seqs SeqReader, cons ConsensusCaller, conf *config.Config) *Finder {
	return &Finder{Ranges: ranges, Seqs: seqs, Cons: cons, conf: conf}
}

// Find processes each region in turn and returns the haplotype groups of
// all of them: one ordered record list per surviving haplotype. Group
// order is unspecified; within-group order reflects processing order.
func (f *Finder) Find(regions []Region) ([][]Rec, error) {
	var groups [][]Rec
	for _, reg := range regions {
		g, err := f.findRegion(reg)
		if err != nil {
			return nil, fmt.Errorf("haplotype: contig %d %d..%d: %w", reg.Contig, reg.Start, reg.End, err)
		}
		groups = append(groups, g...)
	}
	return groups, nil
}

// Sites returns the candidate variant sites of a region: every position
// whose heterozygosity or discrepancy score reaches the configured
// threshold, with its two dominant bases.
func (f *Finder) Sites(reg Region) ([]VariantSite, error) {
	sites, err := f.sites(reg)
	if err != nil {
		return nil, err
	}
	out := make([]VariantSite, len(sites))
	for i, s := range sites {
		out[i] = VariantSite{Pos: s.pos, Top: s.top, Alt: s.alt}
	}
	return out, nil
}

// VariantSite is the exported view of a candidate variant position.
type VariantSite struct {
	Pos      int
	Top, Alt byte
}

func (f *Finder) sites(reg Region) ([]site, error) {
	cons, err := f.Cons.Consensus(reg.Contig, reg.Start, reg.End)
	if err != nil {
		return nil, err
	}

	hc := f.conf.Haplotypes
	var sites []site
	for i, c := range cons {
		if c.HetScore >= hc.HetScore || c.Discrep >= hc.DiscrepScore {
			top, alt := c.HetBases()
			sites = append(sites, site{pos: reg.Start + i, top: top, alt: alt})
		}
	}
	return sites, nil
}

func (f *Finder) findRegion(reg Region) ([][]Rec, error) {
	sites, err := f.sites(reg)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, nil
	}

	rng, err := f.Ranges.ReadsInRange(reg.Contig, reg.Start, reg.End)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rng, func(i, j int) bool { return rng[i].Start < rng[j].Start })

	// link mate pairs: the earlier read of each pair points forward at
	// its mate's index so both ends are consumed together
	mate := make([]int, len(rng))
	for i := range mate {
		mate[i] = -1
	}
	seen := make(map[Rec]int, len(rng))
	for i, r := range rng {
		if j, ok := seen[r.Pair]; ok {
			mate[j] = i
			delete(seen, r.Pair)
		} else {
			seen[r.Rec] = i
		}
	}

	store := NewStore()
	defer store.Destroy()

	used := make([]bool, len(rng))
	buf := make([]byte, 0, len(sites))
	p1 := 0 // first site at or beyond the current read's span;
	// reads arrive sorted by start, so it only advances

	for i := range rng {
		r := &rng[i]
		if !r.IsSeq || used[i] {
			continue
		}

		s, err := f.Seqs.Seq(r.Rec)
		if err != nil {
			return nil, err
		}
		if s.Right < s.Left {
			continue // no unclipped bases
		}

		left, right := unclippedSpan(r, s)
		left = max(left, r.Start)
		right = min(right, r.End)

		for p1 < len(sites) && sites[p1].pos < left {
			p1++
		}
		if p1 == len(sites) {
			break
		}
		if right < sites[p1].pos {
			continue
		}

		// allele string over the read's covered sites
		buf = buf[:0]
		p2 := p1
		for ; p2 < len(sites) && sites[p2].pos <= right; p2++ {
			buf = append(buf, readBase(r, s, sites[p2].pos))
		}

		m := mate[i]
		if m < 0 || !f.conf.Haplotypes.Pairs {
			if err := store.Add(buf, p1, p1+len(buf)-1, r.Rec); err != nil {
				return nil, err
			}
			continue
		}

		// extend across the mate, wildcarding the sites between the
		// two spans
		rp := &rng[m]
		used[m] = true
		if !rp.IsSeq {
			continue
		}
		sp, err := f.Seqs.Seq(rp.Rec)
		if err != nil {
			return nil, err
		}
		if sp.Right < sp.Left {
			continue
		}

		mleft, mright := unclippedSpan(rp, sp)
		for ; p2 < len(sites) && sites[p2].pos < mleft; p2++ {
			buf = append(buf, Wildcard)
		}
		for ; p2 < len(sites) && sites[p2].pos <= mright; p2++ {
			buf = append(buf, readBase(rp, sp, sites[p2].pos))
		}

		if err := store.Add(buf, p1, p1+len(buf)-1, r.Rec, rp.Rec); err != nil {
			return nil, err
		}
	}

	store.Cluster()
	if err := store.Filter(f.conf.Haplotypes.MinReads); err != nil {
		return nil, err
	}

	return store.Groups(), nil
}

// unclippedSpan maps a read's unclipped bounds onto contig coordinates,
// flipping them when the stored orientation and the range orientation
// disagree.
func unclippedSpan(r *ReadRange, s *Seq) (left, right int) {
	if (s.Len < 0) != r.Comp {
		l := abs(s.Len)
		left = r.Start + l - (s.Right - 1) - 1
		right = r.Start + l - (s.Left - 1) - 1
		return left, right
	}
	return r.Start + s.Left - 1, r.Start + s.Right - 1
}

// readBase extracts the read's base at a contig position,
// reverse-complementing when the stored orientation and the range
// orientation disagree.
func readBase(r *ReadRange, s *Seq, pos int) byte {
	if (s.Len < 0) != r.Comp {
		return Complement(s.Bases[abs(s.Len)-1-(pos-r.Start)])
	}
	return s.Bases[pos-r.Start]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
