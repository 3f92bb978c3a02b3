// Package gio is a small in-memory assembly database. It implements the
// collaborator interfaces haplotype.Finder depends on (read ranges,
// sequence lookup and per-position consensus statistics) for tests and
// for the command line front end. It is a stand-in for a full assembly
// database, not a reimplementation of one.
package gio

import (
	"fmt"
	"sort"

	"github.com/rebroad/staden/internal/haplotype"
)

// read is one stored sequence. bases are kept in storage orientation;
// length is negative when that orientation is complemented relative to
// the contig.
type read struct {
	rec, pair haplotype.Rec
	contig    haplotype.Rec
	start     int
	length    int
	bases     []byte
}

func (r *read) end() int { return r.start + len(r.bases) - 1 }

// Contig is one assembled region and the reads placed on it.
type Contig struct {
	Rec   haplotype.Rec
	reads []*read
}

// Start returns the leftmost read position, or 0 for an empty contig.
func (c *Contig) Start() int {
	if len(c.reads) == 0 {
		return 0
	}
	s := c.reads[0].start
	for _, r := range c.reads[1:] {
		if r.start < s {
			s = r.start
		}
	}
	return s
}

// End returns the rightmost read position, or -1 for an empty contig.
func (c *Contig) End() int {
	e := -1
	for _, r := range c.reads {
		if r.end() > e {
			e = r.end()
		}
	}
	return e
}

// DB holds contigs and their reads, keyed by record id.
type DB struct {
	contigs map[haplotype.Rec]*Contig
	order   []haplotype.Rec
	seqs    map[haplotype.Rec]*read
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{
		contigs: make(map[haplotype.Rec]*Contig),
		seqs:    make(map[haplotype.Rec]*read),
	}
}

// AddContig registers a contig record. Adding a read to an unknown
// contig registers it implicitly.
func (db *DB) AddContig(rec haplotype.Rec) *Contig {
	if c, ok := db.contigs[rec]; ok {
		return c
	}
	c := &Contig{Rec: rec}
	db.contigs[rec] = c
	db.order = append(db.order, rec)
	return c
}

// AddRead places a read on a contig. bases are given in contig
// orientation; when comp is set they are stored reverse-complemented
// with a negative length, the way an assembly database keeps reverse
// strand reads.
func (db *DB) AddRead(contig, rec, pair haplotype.Rec, start int, bases []byte, comp bool) error {
	if _, ok := db.seqs[rec]; ok {
		return fmt.Errorf("gio: duplicate read record %d", rec)
	}
	r := &read{
		rec:    rec,
		pair:   pair,
		contig: contig,
		start:  start,
		length: len(bases),
		bases:  append([]byte(nil), bases...),
	}
	if comp {
		r.bases = haplotype.RevComp(r.bases)
		r.length = -r.length
	}
	db.seqs[rec] = r
	db.AddContig(contig).reads = append(db.contigs[contig].reads, r)
	return nil
}

// Regions returns one full-span region per contig, in insertion order.
func (db *DB) Regions() []haplotype.Region {
	var regions []haplotype.Region
	for _, rec := range db.order {
		c := db.contigs[rec]
		if len(c.reads) == 0 {
			continue
		}
		regions = append(regions, haplotype.Region{Contig: rec, Start: c.Start(), End: c.End()})
	}
	return regions
}

// ReadsInRange lists the reads overlapping [start, end] on a contig,
// sorted by ascending start.
func (db *DB) ReadsInRange(contig haplotype.Rec, start, end int) ([]haplotype.ReadRange, error) {
	c, ok := db.contigs[contig]
	if !ok {
		return nil, fmt.Errorf("gio: unknown contig %d", contig)
	}

	var rng []haplotype.ReadRange
	for _, r := range c.reads {
		if r.start > end || r.end() < start {
			continue
		}
		rng = append(rng, haplotype.ReadRange{
			Rec:   r.rec,
			Pair:  r.pair,
			Start: r.start,
			End:   r.end(),
			IsSeq: true,
		})
	}
	sort.SliceStable(rng, func(i, j int) bool { return rng[i].Start < rng[j].Start })
	return rng, nil
}

// Seq resolves a read record to its stored sequence. The whole read is
// reported unclipped.
func (db *DB) Seq(rec haplotype.Rec) (*haplotype.Seq, error) {
	r, ok := db.seqs[rec]
	if !ok {
		return nil, fmt.Errorf("gio: unknown read record %d", rec)
	}
	return &haplotype.Seq{
		Left:  1,
		Right: len(r.bases),
		Len:   r.length,
		Bases: r.bases,
	}, nil
}

// base returns the read's base at a contig position, in contig
// orientation.
func (r *read) base(pos int) byte {
	if r.length < 0 {
		return haplotype.Complement(r.bases[len(r.bases)-1-(pos-r.start)])
	}
	return r.bases[pos-r.start]
}

var _ haplotype.RangeReader = (*DB)(nil)
var _ haplotype.SeqReader = (*DB)(nil)
var _ haplotype.ConsensusCaller = (*DB)(nil)
