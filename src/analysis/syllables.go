package analysis

import (
	"strings"
)

// CountSyllables estimates the number of syllables in a single English word. Punctuation is ignored,
// hyphenated words are counted part by part, and every part containing letters counts for at least one
// syllable.
func CountSyllables(word string) int {
	cleaned := stripWord(word)
	if cleaned == "" {
		return 0
	}
	count := 0
	for _, part := range strings.Split(cleaned, "-") {
		if part == "" {
			continue
		}
		count += countPart(part)
	}
	return count
}

// CountLineSyllables sums CountSyllables over the whitespace-separated tokens of line.
func CountLineSyllables(line string) int {
	count := 0
	for _, word := range strings.Fields(line) {
		count += CountSyllables(word)
	}
	return count
}

func countPart(part string) int {
	sanitized := strings.ReplaceAll(part, "'", "")
	if sanitized == "" {
		return 0
	}
	count := vowelGroups(sanitized)

	if strings.HasSuffix(sanitized, "e") && !endsWithConsonantLe(sanitized) && count > 1 {
		count--
	}
	if strings.HasSuffix(sanitized, "ed") &&
		!strings.HasSuffix(sanitized, "ted") && !strings.HasSuffix(sanitized, "ded") && count > 1 {
		count--
	}
	if count < 1 {
		return 1
	}
	return count
}

func vowelGroups(s string) int {
	groups := 0
	inGroup := false
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			if !inGroup {
				groups++
			}
			inGroup = true
		} else {
			inGroup = false
		}
	}
	return groups
}

// endsWithConsonantLe matches words like "candle" and "table" where the final e is voiced.
func endsWithConsonantLe(s string) bool {
	n := len(s)
	if n < 2 || !strings.HasSuffix(s, "le") {
		return false
	}
	if n < 3 {
		return false
	}
	return !isVowel(s[n-3])
}

// stripWord lowercases s and keeps only letters, apostrophes and hyphens, then trims apostrophes
// from both ends.
func stripWord(s string) string {
	replaced := strings.NewReplacer("’", "'", "‘", "'").Replace(strings.ToLower(s))
	var result strings.Builder
	for i := 0; i < len(replaced); i++ {
		b := replaced[i]
		if ('a' <= b && b <= 'z') || b == '\'' || b == '-' {
			result.WriteByte(b)
		}
	}
	return strings.Trim(result.String(), "'")
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'y', 'A', 'E', 'I', 'O', 'U', 'Y':
		return true
	}
	return false
}
