package analysis

import (
	"strings"
	"unicode"
)

type LineType uint8

const (
	LineLyric LineType = iota
	LineAnnotation
	LineEmpty
)

func (t LineType) String() string {
	switch t {
	case LineLyric:
		return "lyric"
	case LineAnnotation:
		return "annotation"
	case LineEmpty:
		return "empty"
	}
	return "unknown"
}

func (t LineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParsedLine is one line of a lyric body. Syllables and EndWord are only computed for lyric lines;
// EndWord is empty when the line has no alphabetic final token.
type ParsedLine struct {
	Index     int      `json:"index" yaml:"index"`
	Raw       string   `json:"raw" yaml:"raw"`
	Text      string   `json:"text" yaml:"text"`
	Type      LineType `json:"type" yaml:"type"`
	Syllables *int     `json:"syllableCount" yaml:"syllableCount"`
	EndWord   string   `json:"endWord,omitempty" yaml:"endWord,omitempty"`
}

// SyllableCount reports the syllable count of a lyric line; ok is false for annotations and empty lines.
func (l ParsedLine) SyllableCount() (count int, ok bool) {
	if l.Type != LineLyric || l.Syllables == nil {
		return 0, false
	}
	return *l.Syllables, true
}

// IsAnnotation reports whether line is a "//" performance note rather than lyric text.
func IsAnnotation(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}

// IsBlank reports whether line contains nothing but whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// SplitLines splits body into lines on "\n" or "\r\n". A trailing newline yields a trailing empty line,
// so indices always line up with what an editor shows.
func SplitLines(body string) []string {
	return strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
}

// Parse classifies every line of body and annotates lyric lines with their syllable count and end word.
func Parse(body string) []ParsedLine {
	rows := SplitLines(body)
	result := make([]ParsedLine, 0, len(rows))
	for i, raw := range rows {
		trimmedRight := strings.TrimRightFunc(raw, unicode.IsSpace)
		line := ParsedLine{
			Index: i,
			Raw:   raw,
			Text:  trimmedRight,
		}
		switch {
		case IsAnnotation(trimmedRight):
			line.Type = LineAnnotation
		case IsBlank(trimmedRight):
			line.Type = LineEmpty
		default:
			line.Type = LineLyric
			count := CountLineSyllables(trimmedRight)
			line.Syllables = &count
			line.EndWord, _ = EndWord(trimmedRight)
		}
		result = append(result, line)
	}
	return result
}
