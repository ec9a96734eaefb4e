package analysis

import (
	"strings"
)

// RhymeGroup identifies the group of lines sharing an identical end word.
type RhymeGroup struct {
	GroupID int    `json:"groupId" yaml:"groupId"`
	Word    string `json:"word" yaml:"word"`
}

// EndWord returns the lowercased last token of line with everything but ASCII letters and apostrophes
// removed. The second result is false when the line has no such word.
func EndWord(line string) (string, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", false
	}
	last := tokens[len(tokens)-1]
	var result strings.Builder
	for i := 0; i < len(last); i++ {
		b := last[i]
		if ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || b == '\'' {
			result.WriteByte(b)
		}
	}
	word := strings.ToLower(result.String())
	if word == "" {
		return "", false
	}
	return word, true
}

// ComputeRhymeGroups assigns every line with an end word to a group shared by all lines ending in the
// same word. Group IDs count up from 0 in the order words are first seen.
func ComputeRhymeGroups(lines []ParsedLine) map[int]RhymeGroup {
	assignments := make(map[int]RhymeGroup)
	seenWords := make(map[string]int)
	counter := 0
	for _, line := range lines {
		if line.EndWord == "" {
			continue
		}
		id, ok := seenWords[line.EndWord]
		if !ok {
			id = counter
			seenWords[line.EndWord] = id
			counter++
		}
		assignments[line.Index] = RhymeGroup{GroupID: id, Word: line.EndWord}
	}
	return assignments
}

var rhymePalette = []string{
	"#D6DCFF", "#C2CBFF", "#ADB9FF", "#CCD3FF", "#B8C2FF", "#98A8FF", "#8497FF", "#C2CBFF",
}

// RhymeColor returns the highlight color for a rhyme group, cycling through a fixed palette.
func RhymeColor(groupID int) string {
	if groupID < 0 {
		groupID = -groupID
	}
	return rhymePalette[groupID%len(rhymePalette)]
}
