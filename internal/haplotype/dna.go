package haplotype

var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	complement['A'], complement['T'] = 'T', 'A'
	complement['C'], complement['G'] = 'G', 'C'
	complement['a'], complement['t'] = 't', 'a'
	complement['c'], complement['g'] = 'g', 'c'
	complement['N'], complement['n'] = 'N', 'n'
	complement['*'] = '*'
	complement[Wildcard] = Wildcard
}

// Complement returns the complementary base, passing pads and wildcards
// through unchanged. Anything unrecognized becomes N.
func Complement(b byte) byte {
	return complement[b]
}

// RevComp reverse-complements a sequence into a new slice.
func RevComp(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complement[seq[n-1-i]]
	}
	return out
}
