package rhyme

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MaxWordLength is the longest headword kept in a compact dictionary.
const MaxWordLength = 20

// KeySeparator joins the phonemes of a rhyme key.
const KeySeparator = "-"

var Vowels map[string]struct{}

func init() {
	Vowels = make(map[string]struct{})
	vowels := []string{"AA", "AE", "AH", "AO", "AW", "AY", "EH", "ER", "EY", "IH", "IY", "OW", "OY", "UH", "UW"}
	for _, vowel := range vowels {
		Vowels[vowel] = struct{}{}
	}
}

// stress priorities; a pronunciation with a higher priority wins over other pronunciations of the same word.
const (
	stressNone = iota
	stressSecondary
	stressPrimary
)

type pronunciation struct {
	key      string
	priority int
}

// Build reads a CMUdict-formatted pronunciation corpus ("WORD  PH1 PH2 ...", ";;;" comments) and
// compacts it into a Compact dictionary. Words are lowercased with any "(N)" variant suffix removed;
// only purely alphabetic words up to MaxWordLength letters are kept.
func Build(r io.Reader) (*Compact, error) {
	best := make(map[string]pronunciation)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		word, phonemes, ok := parseLine(s.Text())
		if !ok {
			continue
		}
		key, priority, ok := RhymeKey(phonemes)
		if !ok {
			continue
		}
		if existing, ok := best[word]; !ok || priority > existing.priority {
			best[word] = pronunciation{key: key, priority: priority}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not read corpus after line %d: %w", lineNum, err)
	}

	c := &Compact{
		WordToRhymeKey:  make(map[string]string, len(best)),
		RhymeKeyToWords: make(map[string][]string),
	}
	for word, p := range best {
		c.WordToRhymeKey[word] = p.key
		c.RhymeKeyToWords[p.key] = append(c.RhymeKeyToWords[p.key], word)
	}
	for key, words := range c.RhymeKeyToWords {
		c.RhymeKeyToWords[key] = sortedUnique(words)
	}
	return c, nil
}

func parseLine(line string) (string, []string, bool) {
	if line == "" || strings.HasPrefix(line, ";;;") {
		return "", nil, false
	}
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return "", nil, false
	}
	word := normalizeHeadword(tokens[0])
	if !includeWord(word) {
		return "", nil, false
	}
	return word, tokens[1:], true
}

// normalizeHeadword lowercases a corpus headword and drops the variant suffix, e.g. "READ(1)" -> "read".
func normalizeHeadword(raw string) string {
	lower := strings.ToLower(raw)
	if i := strings.IndexByte(lower, '('); i >= 0 {
		return lower[:i]
	}
	return lower
}

func includeWord(word string) bool {
	if word == "" || len(word) > MaxWordLength {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// RhymeKey returns the phoneme tail starting at the last primary-stressed vowel, falling back to the
// last secondary-stressed vowel and then to the last vowel of any stress. The priority reports which of
// the three was used (2, 1 or 0). ok is false when the pronunciation has no vowel.
func RhymeKey(phonemes []string) (key string, priority int, ok bool) {
	lastPrimary, lastSecondary, lastVowel := -1, -1, -1
	for i, phoneme := range phonemes {
		if _, isVowel := Vowels[stripStress(phoneme)]; !isVowel {
			continue
		}
		lastVowel = i
		switch {
		case strings.HasSuffix(phoneme, "1"):
			lastPrimary = i
		case strings.HasSuffix(phoneme, "2"):
			lastSecondary = i
		}
	}

	start := lastVowel
	priority = stressNone
	switch {
	case lastPrimary >= 0:
		start, priority = lastPrimary, stressPrimary
	case lastSecondary >= 0:
		start, priority = lastSecondary, stressSecondary
	}
	if start < 0 {
		return "", 0, false
	}
	return strings.Join(phonemes[start:], KeySeparator), priority, true
}

// stripStress removes stress digits, turning a rhyme key into its base key.
func stripStress(s string) string {
	return strings.Map(func(r rune) rune {
		if '0' <= r && r <= '9' {
			return -1
		}
		return r
	}, s)
}

func sortedUnique(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}
