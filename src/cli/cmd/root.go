// Package cmd is the refrain command line: lyric analysis, rhyme lookup, and the offline dictionary build.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "refrain",
	Short: "Analyze song lyrics and look up rhymes",
	Long: `refrain finds the sections, syllable counts and rhyming lines of song lyrics.

Examples:
  refrain analyze song.txt
  refrain analyze song.txt --sections song.sections.yaml --format json
  cat song.txt | refrain analyze
  refrain rhymes time --dict rhymes.json
  refrain compact --in cmudict-0.7b.txt --out rhymes.json`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetDefault("dictPath", "./rhymes.json")
	viper.SetEnvPrefix("REFRAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
