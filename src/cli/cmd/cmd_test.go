package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalexmills/refrain/src/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lyrics = "I walk the line\nI hold the line\n\n// softly\nhere comes the sun"

const corpus = `;;; fixture
DIME  D AY1 M
GRIME  G R AY2 M
RHYME  R AY1 M
TIME  T AY1 M
SUN  S AH1 N
`

func execute(t *testing.T, stdin string, args ...string) string {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestRenderText(t *testing.T) {
	a := analysis.Analyze(lyrics, analysis.SectionTypes{3: analysis.Chorus})
	out := renderText(&bytes.Buffer{}, a)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Verse", strings.TrimSpace(lines[0]))
	assert.Equal(t, "  4  I walk the line", lines[1])
	assert.Equal(t, "  4  I hold the line", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "Chorus", strings.TrimSpace(lines[4]))
	assert.Equal(t, "     // softly", lines[5])
	assert.Equal(t, "  5  here comes the sun", lines[6])
	assert.Equal(t, "5 lines · 2 sections · 13 syllables", lines[7])
}

func TestReadSectionTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected analysis.SectionTypes
	}{
		{`{"0": "verse", "4": "pre-chorus"}`, analysis.SectionTypes{0: analysis.Verse, 4: analysis.PreChorus}},
		{"0: verse\n4: Chorus\nx: bridge\n6: hook\n", analysis.SectionTypes{0: analysis.Verse, 4: analysis.Chorus}},
		{"", analysis.SectionTypes{}},
	}
	for _, tt := range tests {
		types, err := readSectionTypes(strings.NewReader(tt.input))
		if assert.NoError(t, err, tt.input) {
			assert.Equal(t, tt.expected, types, tt.input)
		}
	}

	_, err := readSectionTypes(strings.NewReader("[not, a, map]"))
	assert.Error(t, err)
}

func TestWriteAnalysis(t *testing.T) {
	a := analysis.Analyze(lyrics, nil)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysis(&buf, a, "json"))
	var decoded struct {
		SectionStarts []int             `json:"sectionStarts"`
		SectionTypes  map[string]string `json:"sectionTypes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []int{0, 3}, decoded.SectionStarts)
	assert.Equal(t, map[string]string{"0": "verse", "3": "verse"}, decoded.SectionTypes)

	buf.Reset()
	require.NoError(t, writeAnalysis(&buf, a, "yaml"))
	assert.Contains(t, buf.String(), "endWord: line")
	assert.Contains(t, buf.String(), "type: annotation")

	assert.Error(t, writeAnalysis(&buf, a, "xml"))
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	sections := filepath.Join(dir, "sections.yaml")
	require.NoError(t, os.WriteFile(sections, []byte("3: bridge\n"), 0644))

	out := execute(t, lyrics, "analyze", "--sections", sections)
	assert.Contains(t, out, "Bridge")
	assert.Contains(t, out, "  5  here comes the sun")
}

func TestCompactAndRhymes(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cmudict.txt")
	require.NoError(t, os.WriteFile(in, []byte(corpus), 0644))
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	out := execute(t, "", "compact", "--in", in, "--out", first)
	assert.Equal(t, "wrote 5 words and 3 rhyme keys to "+first+"\n", out)
	execute(t, "", "compact", "--in", in, "--out", second)

	firstBytes, err := os.ReadFile(first)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)

	assert.Equal(t, "dime\nrhyme\ngrime\n", execute(t, "", "rhymes", "time", "--dict", first))
	assert.Equal(t, "no rhymes found for orange\n", execute(t, "", "rhymes", "Orange", "--dict", first))
}
