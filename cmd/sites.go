package cmd

import (
	"fmt"
	"log"

	"github.com/rebroad/staden/config"
	"github.com/rebroad/staden/internal/gio"
	"github.com/rebroad/staden/internal/haplotype"
	"github.com/spf13/cobra"
)

var sitesReadsPath string

// sitesCmd lists the candidate variant sites that haplotype detection
// would anchor to, without running the grouping itself.
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List candidate variant sites",
	Long: `List the positions whose consensus statistics pass the configured
heterozygosity or discrepancy cutoffs, with the two dominant bases
observed at each.`,
	Run: runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)

	sitesCmd.Flags().StringVarP(&sitesReadsPath, "reads", "r", "", "path to a reads listing (contig rec pair start strand bases)")

	sitesCmd.MarkFlagRequired("reads")
}

func runSites(cmd *cobra.Command, args []string) {
	conf := config.New()

	db, err := gio.LoadFile(sitesReadsPath)
	if err != nil {
		log.Fatalf("failed to load reads: %v", err)
	}

	finder := haplotype.NewFinder(db, db, db, conf)
	for _, reg := range db.Regions() {
		sites, err := finder.Sites(reg)
		if err != nil {
			log.Fatalf("failed to score contig %d: %v", reg.Contig, err)
		}
		for _, s := range sites {
			fmt.Printf("=%d\t%d\t%c/%c\n", reg.Contig, s.Pos, s.Top, s.Alt)
		}
	}
}
