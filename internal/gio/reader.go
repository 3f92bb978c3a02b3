package gio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rebroad/staden/internal/haplotype"
)

// Load reads a whitespace-separated reads listing into a database. Each
// line places one read:
//
//	contig  rec  pair  start  strand  bases
//
// contig, rec and pair are integer record ids (pair 0 for an unpaired
// read), start is the read's leftmost contig position, strand is + or -,
// and bases are given in contig orientation. Blank lines and lines
// starting with # are skipped.
func Load(r io.Reader) (*DB, error) {
	db := NewDB()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, fmt.Errorf("gio: line %d: want 6 fields, got %d", lineNo, len(fields))
		}

		contig, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gio: line %d: bad contig id %q", lineNo, fields[0])
		}
		rec, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gio: line %d: bad read id %q", lineNo, fields[1])
		}
		pair, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gio: line %d: bad pair id %q", lineNo, fields[2])
		}
		start, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("gio: line %d: bad start %q", lineNo, fields[3])
		}

		var comp bool
		switch fields[4] {
		case "+":
		case "-":
			comp = true
		default:
			return nil, fmt.Errorf("gio: line %d: bad strand %q", lineNo, fields[4])
		}

		bases := []byte(strings.ToUpper(fields[5]))
		if len(bases) == 0 {
			return nil, fmt.Errorf("gio: line %d: empty read", lineNo)
		}

		if err := db.AddRead(haplotype.Rec(contig), haplotype.Rec(rec), haplotype.Rec(pair), start, bases, comp); err != nil {
			return nil, fmt.Errorf("gio: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return db, nil
}

// LoadFile loads a reads listing from a path.
func LoadFile(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}
