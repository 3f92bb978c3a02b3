// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// HaplotypesConfig are the thresholds driving haplotype detection.
type HaplotypesConfig struct {
	// the minimum number of reads a haplotype needs to be reported
	MinReads int `mapstructure:"min-reads"`

	// heterozygosity confidence at or above which a consensus
	// position becomes a candidate variant site
	HetScore float64 `mapstructure:"het-score"`

	// read-discrepancy score at or above which a consensus position
	// becomes a candidate variant site
	DiscrepScore float64 `mapstructure:"discrep-score"`

	// whether to join read pairs into one allele string
	Pairs bool `mapstructure:"pairs"`
}

// Config is the root-level settings struct, a mix of defaults and
// values bound from the command line.
type Config struct {
	// haplotype detection settings
	Haplotypes HaplotypesConfig `mapstructure:"haplotypes"`
}

// setDefaults registers the fallbacks used when a setting is not bound
// from a flag or settings file.
func setDefaults() {
	viper.SetDefault("haplotypes.min-reads", 2)
	viper.SetDefault("haplotypes.het-score", 40.0)
	viper.SetDefault("haplotypes.discrep-score", 2.0)
	viper.SetDefault("haplotypes.pairs", true)
}

// New returns a Config populated from Viper settings and command line
// arguments.
func New() *Config {
	setDefaults()

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct: %v", err)
	}

	return &c
}
