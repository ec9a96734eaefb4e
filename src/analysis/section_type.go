package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SectionType labels the structural role of a block of lyrics.
type SectionType string

const (
	Verse     SectionType = "verse"
	Chorus    SectionType = "chorus"
	Bridge    SectionType = "bridge"
	PreChorus SectionType = "pre-chorus"
	Intro     SectionType = "intro"
	Outro     SectionType = "outro"
	Other     SectionType = "other"
)

// SectionTypeValues lists every section type in picker order.
var SectionTypeValues = []SectionType{Verse, Chorus, Bridge, PreChorus, Intro, Outro, Other}

// ParseSectionType accepts a section type name or label in any case, e.g. "Pre-chorus" or "prechorus".
func ParseSectionType(s string) (SectionType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "prechorus" || normalized == "pre chorus" {
		normalized = string(PreChorus)
	}
	t := SectionType(normalized)
	if !t.Valid() {
		return "", fmt.Errorf("unknown section type '%s'", s)
	}
	return t, nil
}

func (t SectionType) Valid() bool {
	switch t {
	case Verse, Chorus, Bridge, PreChorus, Intro, Outro, Other:
		return true
	}
	return false
}

func (t SectionType) Label() string {
	switch t {
	case Verse:
		return "Verse"
	case Chorus:
		return "Chorus"
	case Bridge:
		return "Bridge"
	case PreChorus:
		return "Pre-chorus"
	case Intro:
		return "Intro"
	case Outro:
		return "Outro"
	case Other:
		return "Other"
	}
	return string(t)
}

// Colors returns the accent and tint colors used to draw badges for t.
func (t SectionType) Colors() (accent, tint string) {
	switch t {
	case Verse:
		return "#9DACFF", "#EEF0FF"
	case Chorus:
		return "#F4C95D", "#FFF4D6"
	case Bridge:
		return "#4CC9B0", "#D9FBF4"
	case PreChorus:
		return "#FF9F8A", "#FFE6E0"
	case Intro:
		return "#65B9FF", "#E0F2FF"
	case Outro:
		return "#B79BFF", "#F0E9FF"
	case Other:
		return "#9CA3AF", "#F3F4F6"
	}
	return "#9CA3AF", "#F3F4F6"
}

// SectionTypes is a sparse map from section start line index to its type.
type SectionTypes map[int]SectionType

// Keys returns the line indices of st in ascending order.
func (st SectionTypes) Keys() []int {
	keys := make([]int, 0, len(st))
	for k := range st {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (st SectionTypes) Clone() SectionTypes {
	result := make(SectionTypes, len(st))
	for k, v := range st {
		result[k] = v
	}
	return result
}

func (st SectionTypes) Equal(other SectionTypes) bool {
	if len(st) != len(other) {
		return false
	}
	for k, v := range st {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes st as an object with decimal string keys, e.g. {"0":"verse","4":"chorus"}.
func (st SectionTypes) MarshalJSON() ([]byte, error) {
	raw := make(map[string]string, len(st))
	for k, v := range st {
		raw[strconv.Itoa(k)] = string(v)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes an object written by MarshalJSON. Keys that are not integers and values that
// are not known section types are dropped rather than reported.
func (st *SectionTypes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*st = decodeSectionTypes(raw)
	return nil
}

// DecodeSectionTypes is the lenient decoder used for stored sheets: malformed input yields an empty map.
func DecodeSectionTypes(data string) SectionTypes {
	var st SectionTypes
	if err := json.Unmarshal([]byte(data), &st); err != nil || st == nil {
		return SectionTypes{}
	}
	return st
}

// EncodeSectionTypes is the inverse of DecodeSectionTypes.
func EncodeSectionTypes(st SectionTypes) string {
	data, err := json.Marshal(st)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func decodeSectionTypes(raw map[string]json.RawMessage) SectionTypes {
	result := make(SectionTypes, len(raw))
	for key, value := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		var name string
		if err := json.Unmarshal(value, &name); err != nil {
			continue
		}
		if t := SectionType(name); t.Valid() {
			result[idx] = t
		}
	}
	return result
}
