// Package rhyme builds and serves a phonetic rhyme dictionary derived from a CMUdict-style
// pronunciation corpus.
package rhyme

import (
	"strings"
	"sync"
)

// MaxResults caps the number of suggestions returned by Rhymes.
const MaxResults = 50

// Dictionary answers rhyme queries. It is immutable once built and safe for concurrent readers.
type Dictionary struct {
	wordToRhymeKey  map[string]string
	rhymeKeyToWords map[string][]string
	baseKeyToWords  map[string][]string
}

// NewDictionary indexes c for lookups, merging word lists whose rhyme keys differ only in stress.
// The Compact must not be modified afterwards.
func NewDictionary(c *Compact) *Dictionary {
	d := &Dictionary{
		wordToRhymeKey:  c.WordToRhymeKey,
		rhymeKeyToWords: c.RhymeKeyToWords,
		baseKeyToWords:  make(map[string][]string),
	}
	for key, words := range c.RhymeKeyToWords {
		base := stripStress(key)
		d.baseKeyToWords[base] = append(d.baseKeyToWords[base], words...)
	}
	for base, words := range d.baseKeyToWords {
		d.baseKeyToWords[base] = sortedUnique(words)
	}
	return d
}

// Load reads a compact dictionary artifact from path.
func Load(path string) (*Dictionary, error) {
	c, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewDictionary(c), nil
}

// Len is the number of words with a rhyme key.
func (d *Dictionary) Len() int {
	return len(d.wordToRhymeKey)
}

// RhymeKey returns the stress-anchored rhyme key for word, after normalizing it like Rhymes does.
func (d *Dictionary) RhymeKey(word string) (string, bool) {
	key, ok := d.wordToRhymeKey[Normalize(word)]
	return key, ok
}

// Rhymes returns up to MaxResults words that rhyme with word: first the perfect rhymes sharing its
// exact rhyme key, then near rhymes whose key matches once stress is ignored. Unknown words yield an
// empty slice.
func (d *Dictionary) Rhymes(word string) []string {
	normalized := Normalize(word)
	if normalized == "" {
		return []string{}
	}
	key, ok := d.wordToRhymeKey[normalized]
	if !ok {
		return []string{}
	}

	perfect := without(d.rhymeKeyToWords[key], normalized, nil)
	if len(perfect) >= MaxResults {
		return perfect[:MaxResults]
	}

	exclude := make(map[string]struct{}, len(perfect))
	for _, w := range perfect {
		exclude[w] = struct{}{}
	}
	near := without(d.baseKeyToWords[stripStress(key)], normalized, exclude)

	result := append(perfect, near...)
	if len(result) > MaxResults {
		result = result[:MaxResults]
	}
	return result
}

func without(words []string, word string, exclude map[string]struct{}) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if w == word {
			continue
		}
		if _, ok := exclude[w]; ok {
			continue
		}
		result = append(result, w)
	}
	return result
}

// Normalize trims word, lowercases it, and strips leading and trailing characters other than letters
// and apostrophes.
func Normalize(word string) string {
	lower := strings.ToLower(strings.TrimSpace(word))
	return strings.TrimFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && r != '\''
	})
}

// Handle loads a dictionary on first use and shares it between all callers.
type Handle struct {
	load func() (*Dictionary, error)

	once sync.Once
	dict *Dictionary
	err  error
}

// NewHandle returns a Handle that loads the artifact at path on first use.
func NewHandle(path string) *Handle {
	return &Handle{load: func() (*Dictionary, error) { return Load(path) }}
}

// StaticHandle wraps an already built dictionary, which is how tests inject fixtures.
func StaticHandle(d *Dictionary) *Handle {
	return &Handle{load: func() (*Dictionary, error) { return d, nil }}
}

// Get returns the dictionary, loading it if needed. A failed load is remembered and returned to every
// later caller.
func (h *Handle) Get() (*Dictionary, error) {
	h.once.Do(func() {
		h.dict, h.err = h.load()
	})
	return h.dict, h.err
}
