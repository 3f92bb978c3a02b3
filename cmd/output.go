package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rebroad/staden/internal/haplotype"
	"gopkg.in/yaml.v3"
)

// group is the serialized form of one haplotype's contributing reads.
type group struct {
	Haplotype int             `json:"haplotype" yaml:"haplotype"`
	Reads     []haplotype.Rec `json:"reads" yaml:"reads"`
}

// writeGroups serializes haplotype groups in the requested format. With
// no format given, a terminal gets the text table and anything else
// gets JSON.
func writeGroups(w io.Writer, groups [][]haplotype.Rec, format string) error {
	if format == "" {
		format = "json"
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "text"
		}
	}

	out := make([]group, len(groups))
	for i, recs := range groups {
		out[i] = group{Haplotype: i + 1, Reads: recs}
	}

	switch format {
	case "text":
		for _, g := range out {
			fmt.Fprintf(w, "haplotype %d (%d reads):", g.Haplotype, len(g.Reads))
			for _, rec := range g.Reads {
				fmt.Fprintf(w, "\t#%d", rec)
			}
			fmt.Fprintln(w)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
