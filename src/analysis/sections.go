package analysis

import (
	"sort"
	"strings"
)

// ValidSectionStarts returns, in ascending order, the line indices of body that may carry a section
// type: the first non-blank line, and every line directly after a blank run that follows real content.
// A blank run at the top of the document does not start a section of its own.
func ValidSectionStarts(body string) []int {
	return validStarts(SplitLines(body))
}

func validStarts(lines []string) []int {
	var starts []int
	firstNonBlank := -1
	for i, line := range lines {
		if !IsBlank(line) {
			firstNonBlank = i
			break
		}
	}
	if firstNonBlank == -1 {
		return starts
	}
	starts = append(starts, firstNonBlank)
	for i := 1; i < len(lines); i++ {
		// content must exist somewhere before the blank line at i-1.
		if IsBlank(lines[i-1]) && firstNonBlank <= i-2 {
			starts = append(starts, i)
		}
	}
	return starts
}

func startSet(starts []int) map[int]struct{} {
	set := make(map[int]struct{}, len(starts))
	for _, s := range starts {
		set[s] = struct{}{}
	}
	return set
}

// CleanupSectionTypes drops every entry of types whose key is not a valid section start of body, or
// whose value is not a known section type. Key 0 survives in a document with no content yet, so the
// writer can choose the opening section before typing. The input map is not modified.
func CleanupSectionTypes(body string, types SectionTypes) SectionTypes {
	lines := SplitLines(body)
	starts := validStarts(lines)
	valid := startSet(starts)
	emptyDocument := len(starts) == 0

	result := make(SectionTypes, len(types))
	for idx, t := range types {
		if !t.Valid() {
			continue
		}
		if _, ok := valid[idx]; ok || (emptyDocument && idx == 0) {
			result[idx] = t
		}
	}
	return result
}

// EnsureDefaultSectionTypes gives every valid section start whose line already has content, and which
// has no type yet, the type Verse. Existing entries are never overwritten, and a start on a blank line
// (such as line 0 of an empty document) is left for the writer to choose.
func EnsureDefaultSectionTypes(body string, types SectionTypes) SectionTypes {
	lines := SplitLines(body)
	result := types.Clone()
	for _, idx := range validStarts(lines) {
		if _, ok := result[idx]; ok {
			continue
		}
		if IsBlank(lines[idx]) {
			continue
		}
		result[idx] = Verse
	}
	return result
}

// NormalizeSectionTypes runs cleanup followed by defaulting, which is what every body update needs.
func NormalizeSectionTypes(body string, types SectionTypes) SectionTypes {
	return EnsureDefaultSectionTypes(body, CleanupSectionTypes(body, types))
}

// FindPreviousSectionStartOfType returns the last valid section start before target whose type is t.
func FindPreviousSectionStartOfType(body string, types SectionTypes, target int, t SectionType) (int, bool) {
	if !t.Valid() {
		return 0, false
	}
	starts := ValidSectionStarts(body)
	for i := len(starts) - 1; i >= 0; i-- {
		idx := starts[i]
		if idx >= target {
			continue
		}
		if types[idx] == t {
			return idx, true
		}
	}
	return 0, false
}

func FindPreviousChorusStart(body string, types SectionTypes, target int) (int, bool) {
	return FindPreviousSectionStartOfType(body, types, target, Chorus)
}

// BlockRange is the half-open line range [Start, EndExclusive) of one section.
type BlockRange struct {
	Start        int `json:"start" yaml:"start"`
	EndExclusive int `json:"endExclusive" yaml:"endExclusive"`
}

func (r BlockRange) Len() int {
	return r.EndExclusive - r.Start
}

// SectionBlockRange returns the range from start up to the next valid section start, or to the end of
// the document if there is none. start is returned as given, so a start past the end yields an
// inverted range that ExtractBlockText treats as empty.
func SectionBlockRange(body string, start int) BlockRange {
	lines := SplitLines(body)
	starts := validStarts(lines)
	end := len(lines)
	i := sort.SearchInts(starts, start+1)
	if i < len(starts) {
		end = starts[i]
	}
	return BlockRange{Start: start, EndExclusive: end}
}

// ExtractBlockText joins lines[r.Start:r.EndExclusive] with newlines, clamping r to the slice.
func ExtractBlockText(lines []string, r BlockRange) string {
	return strings.Join(blockLines(lines, r), "\n")
}

func blockLines(lines []string, r BlockRange) []string {
	start, end := r.Start, r.EndExclusive
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return lines[start:end]
}

// ShiftSectionTypes returns a copy of types with every key at or after at moved by delta. Keys that
// would become negative are dropped.
func ShiftSectionTypes(types SectionTypes, at, delta int) SectionTypes {
	result := make(SectionTypes, len(types))
	for idx, t := range types {
		if idx < at {
			result[idx] = t
			continue
		}
		if idx+delta >= 0 {
			result[idx+delta] = t
		}
	}
	return result
}

// RepeatSection copies the section starting at source to line target and labels the copy t. A blank
// target line is replaced by the copy; otherwise the copy is inserted in front of it. The type stored at
// target is replaced by t, and section types after target move down by the number of lines added. ok is
// false, and body and types are returned unchanged, when source is not a valid section start or target
// is out of range.
func RepeatSection(body string, types SectionTypes, source, target int, t SectionType) (string, SectionTypes, bool) {
	lines := SplitLines(body)
	if target < 0 || target > len(lines) {
		return body, types, false
	}
	if _, ok := startSet(validStarts(lines))[source]; !ok {
		return body, types, false
	}
	block := blockLines(lines, SectionBlockRange(body, source))

	rest := target
	if target < len(lines) && IsBlank(lines[target]) {
		rest = target + 1
	}
	newLines := make([]string, 0, len(lines)+len(block))
	newLines = append(newLines, lines[:target]...)
	newLines = append(newLines, block...)
	newLines = append(newLines, lines[rest:]...)

	without := types.Clone()
	delete(without, target)
	next := ShiftSectionTypes(without, target+1, len(newLines)-len(lines))
	next[target] = t
	return strings.Join(newLines, "\n"), next, true
}
