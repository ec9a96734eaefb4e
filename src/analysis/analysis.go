// Package analysis derives structure from lyric text: syllable counts, end-word rhyme groups, line
// classification, and the section model. Every function is pure and safe for concurrent use.
package analysis

// Analysis is everything derived from one lyric body and its section types.
type Analysis struct {
	Lines         []ParsedLine       `json:"lines" yaml:"lines"`
	RhymeGroups   map[int]RhymeGroup `json:"rhymeGroups" yaml:"rhymeGroups"`
	SectionStarts []int              `json:"sectionStarts" yaml:"sectionStarts"`
	SectionTypes  SectionTypes       `json:"sectionTypes" yaml:"sectionTypes"`
}

// Analyze parses body and normalizes types against it.
func Analyze(body string, types SectionTypes) Analysis {
	lines := Parse(body)
	starts := ValidSectionStarts(body)
	if starts == nil {
		starts = []int{}
	}
	return Analysis{
		Lines:         lines,
		RhymeGroups:   ComputeRhymeGroups(lines),
		SectionStarts: starts,
		SectionTypes:  NormalizeSectionTypes(body, types),
	}
}

// TotalSyllables sums the syllable counts of all lyric lines.
func (a Analysis) TotalSyllables() int {
	total := 0
	for _, line := range a.Lines {
		if count, ok := line.SyllableCount(); ok {
			total += count
		}
	}
	return total
}

// LastEndWord returns the end word of the last lyric line that has one.
func (a Analysis) LastEndWord() (string, bool) {
	for i := len(a.Lines) - 1; i >= 0; i-- {
		if a.Lines[i].EndWord != "" {
			return a.Lines[i].EndWord, true
		}
	}
	return "", false
}
