// Package cmd is for command line interactions with the staden
// haplotype tools
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "staden",
	Short: `Group assembly reads into haplotypes.
Reads sharing consistent alleles across candidate variant sites are
merged into haplotype fragments and reported as read groups`,
	Version: "0.1.0",
}

func init() {
	// site-selection cutoffs are shared by every subcommand
	rootCmd.PersistentFlags().Float64P("het-score", "s", 40.0, "heterozygosity score cutoff for variant sites")
	rootCmd.PersistentFlags().Float64P("discrep-score", "d", 2.0, "discrepancy score cutoff for variant sites")

	viper.BindPFlag("haplotypes.het-score", rootCmd.PersistentFlags().Lookup("het-score"))
	viper.BindPFlag("haplotypes.discrep-score", rootCmd.PersistentFlags().Lookup("discrep-score"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
