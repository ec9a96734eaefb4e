package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kalexmills/refrain/src/analysis"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	analyzeSections string
	analyzeFormat   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Show sections, syllable counts and rhyming lines",
	Long: `Analyze lyrics read from a file, or from stdin when no file is given.

Section types can be supplied as a JSON or YAML object mapping 0-based line indices to
section types, e.g. {"0": "verse", "4": "chorus"}. Entries that do not sit on a section
start are dropped, and unlabelled sections are treated as verses.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSections, "sections", "s", "", "JSON or YAML file of section types")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var body []byte
	var err error
	if len(args) == 1 {
		body, err = os.ReadFile(args[0])
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("could not read lyrics: %w", err)
	}

	var types analysis.SectionTypes
	if analyzeSections != "" {
		f, err := os.Open(analyzeSections)
		if err != nil {
			return fmt.Errorf("could not open section types: %w", err)
		}
		defer f.Close()
		types, err = readSectionTypes(f)
		if err != nil {
			return err
		}
	}
	return writeAnalysis(cmd.OutOrStdout(), analysis.Analyze(string(body), types), analyzeFormat)
}

func writeAnalysis(w io.Writer, a analysis.Analysis, format string) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, renderText(w, a))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format '%s'; expected text, json or yaml", format)
}

// readSectionTypes decodes a section type object. JSON is valid YAML, so one decoder reads both.
// Keys that are not line indices and values that are not section types are skipped.
func readSectionTypes(r io.Reader) (analysis.SectionTypes, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode section types: %w", err)
	}
	types := make(analysis.SectionTypes, len(raw))
	for key, value := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		t, err := analysis.ParseSectionType(value)
		if err != nil {
			continue
		}
		types[idx] = t
	}
	return types, nil
}
