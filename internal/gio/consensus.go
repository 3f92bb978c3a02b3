package gio

import (
	"fmt"
	"strings"

	"github.com/rebroad/staden/internal/haplotype"
)

const alleles = "ACGT*"

// Consensus computes lightweight per-position consensus statistics by
// counting allele votes among the reads covering each position. It is a
// deterministic stand-in for a full consensus algorithm: the
// heterozygosity score is the second allele's share of the depth as a
// percentage (0..100, 0 when only one allele is seen), and the
// discrepancy score is the disagreeing share of the depth scaled to
// 0..10.
func (db *DB) Consensus(contig haplotype.Rec, start, end int) ([]haplotype.SiteCall, error) {
	c, ok := db.contigs[contig]
	if !ok {
		return nil, fmt.Errorf("gio: unknown contig %d", contig)
	}
	if end < start {
		return nil, fmt.Errorf("gio: inverted region %d..%d", start, end)
	}

	calls := make([]haplotype.SiteCall, end-start+1)
	var counts [5]int

	for pos := start; pos <= end; pos++ {
		for i := range counts {
			counts[i] = 0
		}
		depth := 0
		for _, r := range c.reads {
			if r.start > pos || r.end() < pos {
				continue
			}
			if i := strings.IndexByte(alleles, r.base(pos)); i >= 0 {
				counts[i]++
				depth++
			}
		}

		call := &calls[pos-start]
		if depth == 0 {
			continue
		}

		// dominant pair, ties broken by allele order
		top, alt := 0, -1
		for i := 1; i < len(counts); i++ {
			if counts[i] > counts[top] {
				alt = top
				top = i
			} else if alt < 0 || counts[i] > counts[alt] {
				alt = i
			}
		}
		if counts[alt] == 0 {
			alt = top
		}

		call.HetCall = top*5 + alt
		if alt != top {
			call.HetScore = 100 * float64(counts[alt]) / float64(depth)
		}
		call.Discrep = 10 * float64(depth-counts[top]) / float64(depth)
	}

	return calls, nil
}
