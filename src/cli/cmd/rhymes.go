package cmd

import (
	"fmt"

	"github.com/kalexmills/refrain/src/rhyme"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rhymesCmd = &cobra.Command{
	Use:   "rhymes <word>",
	Short: "List words that rhyme with a word",
	Long: `List perfect rhymes, then near rhymes that differ only in stress, from a compact
rhyme dictionary built with 'refrain compact'.

The dictionary path can also be set with REFRAIN_DICTPATH.`,
	Args: cobra.ExactArgs(1),
	RunE: runRhymes,
}

func init() {
	rhymesCmd.Flags().String("dict", "", "Path to the compact rhyme dictionary")
	_ = viper.BindPFlag("dictPath", rhymesCmd.Flags().Lookup("dict"))
	rootCmd.AddCommand(rhymesCmd)
}

func runRhymes(cmd *cobra.Command, args []string) error {
	d, err := rhyme.Load(viper.GetString("dictPath"))
	if err != nil {
		return fmt.Errorf("could not load rhyme dictionary: %w", err)
	}
	out := cmd.OutOrStdout()
	rhymes := d.Rhymes(args[0])
	if len(rhymes) == 0 {
		fmt.Fprintf(out, "no rhymes found for %s\n", rhyme.Normalize(args[0]))
		return nil
	}
	for _, word := range rhymes {
		fmt.Fprintln(out, word)
	}
	return nil
}
