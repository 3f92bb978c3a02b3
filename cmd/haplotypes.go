package cmd

import (
	"log"
	"os"

	"github.com/rebroad/staden/config"
	"github.com/rebroad/staden/internal/gio"
	"github.com/rebroad/staden/internal/haplotype"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	readsPath string
	outPath   string
	outFormat string
)

// haplotypesCmd runs haplotype detection over every contig in a reads
// listing and writes one read group per surviving haplotype.
var haplotypesCmd = &cobra.Command{
	Use:   "haplotypes",
	Short: "Group a contig's reads into haplotypes",
	Long: `Group a contig's reads into haplotypes.

Candidate variant sites are chosen from per-position consensus
statistics, each read (with its mate, unless --pairs=false) is reduced
to an allele string over the sites it covers, matching strings are
merged into haplotype fragments, compatible overlapping fragments are
clustered, and fragments below --min-reads support are dropped. The
output is one group of read ids per haplotype.`,
	Run: runHaplotypes,
}

func init() {
	rootCmd.AddCommand(haplotypesCmd)

	haplotypesCmd.Flags().StringVarP(&readsPath, "reads", "r", "", "path to a reads listing (contig rec pair start strand bases)")
	haplotypesCmd.Flags().StringVarP(&outPath, "out", "o", "", "path to write groups to (default stdout)")
	haplotypesCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json or yaml (default by terminal)")
	haplotypesCmd.Flags().IntP("min-reads", "m", 2, "minimum reads per reported haplotype")
	haplotypesCmd.Flags().BoolP("pairs", "p", true, "join read pairs into one allele string")

	haplotypesCmd.MarkFlagRequired("reads")

	viper.BindPFlag("haplotypes.min-reads", haplotypesCmd.Flags().Lookup("min-reads"))
	viper.BindPFlag("haplotypes.pairs", haplotypesCmd.Flags().Lookup("pairs"))
}

func runHaplotypes(cmd *cobra.Command, args []string) {
	conf := config.New()

	db, err := gio.LoadFile(readsPath)
	if err != nil {
		log.Fatalf("failed to load reads: %v", err)
	}

	finder := haplotype.NewFinder(db, db, db, conf)
	groups, err := finder.Find(db.Regions())
	if err != nil {
		log.Fatalf("failed to find haplotypes: %v", err)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeGroups(out, groups, outFormat); err != nil {
		log.Fatalf("failed to write groups: %v", err)
	}
}
