package cmd

import (
	"fmt"
	"os"

	"github.com/kalexmills/refrain/src/rhyme"
	"github.com/spf13/cobra"
)

var (
	compactIn  string
	compactOut string
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Build the rhyme dictionary from a CMUdict pronunciation file",
	Long: `Build the compact rhyme dictionary from a CMUdict-format pronunciation corpus.

The same corpus always produces byte-for-byte identical output.`,
	Args: cobra.NoArgs,
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().StringVar(&compactIn, "in", "data/cmudict-0.7b.txt", "CMUdict pronunciation file")
	compactCmd.Flags().StringVar(&compactOut, "out", "rhymes.json", "Where to write the compact dictionary")
	rootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, args []string) error {
	f, err := os.Open(compactIn)
	if err != nil {
		return fmt.Errorf("could not open corpus: %w", err)
	}
	defer f.Close()

	c, err := rhyme.Build(f)
	if err != nil {
		return err
	}
	if err := c.WriteFile(compactOut); err != nil {
		return fmt.Errorf("could not write %s: %w", compactOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d words and %d rhyme keys to %s\n",
		len(c.WordToRhymeKey), len(c.RhymeKeyToWords), compactOut)
	return nil
}
